package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/environment"
)

type (
	// DaemonConfig contains full configuration of the monitoring daemon.
	DaemonConfig struct {
		Env environment.Env `long:"env" env:"ENV" description:"Environment application is running in" default:"local"`

		Logger   Logger   `group:"Logger options" namespace:"logger" env-namespace:"LOGGER"`
		Postgres Postgres `group:"PostgreSQL option" namespace:"postgres" env-namespace:"POSTGRES"`
		HTTP     Server   `group:"HTTP server options" namespace:"http" env-namespace:"HTTP"`
		Tickers  Tickers  `group:"Tickers options" namespace:"tickers" env-namespace:"TICKER"`
		Checker  Checker  `group:"Certificate checker options" namespace:"checker" env-namespace:"CHECKER"`
		SMTP     SMTP     `group:"SMTP report options" namespace:"smtp" env-namespace:"SMTP"`
	}

	// ClientConfig contains full configuration of the dashboard client.
	ClientConfig struct {
		Env environment.Env `long:"env" env:"ENV" description:"Environment application is running in" default:"local"`

		Logger Logger `group:"Logger options" namespace:"logger" env-namespace:"LOGGER"`
		API    API    `group:"Remote API options" namespace:"api" env-namespace:"API"`
		View   View   `group:"View options" namespace:"view" env-namespace:"VIEW"`
	}

	// Tickers struct of time duration tickers.
	Tickers struct {
		SSLChecker time.Duration `long:"ssl_checker_duration" env:"SSL_CHECKER" description:"Time for tick ssl checker daemon" default:"10m"`
	}

	// Logger contains logger configuration.
	Logger struct {
		Level string `long:"level" env:"LEVEL" description:"Log level to use; environment-base level is used when empty"`
	}

	// Server contains server configuration, regardless
	// of the server type http.
	Server struct {
		Host string `long:"host" env:"HOST" description:"Host to listen on, default is empty (all interfaces)"`
		Port int    `long:"port" env:"PORT" description:"Port to listen on" required:"true"`
	}

	// Postgres contains postgres configuration.
	Postgres struct {
		MainDBConnectionString string        `long:"maindb_connection_string" env:"MAINDB_CONNECTION_STRING" description:"PGX connection string to the maindDB" required:"true"` //nolint:lll
		Timeout                time.Duration `long:"timeout" env:"TIMEOUT" description:"Timeout for queries" default:"1s"`
	}

	// Checker contains certificate verification configuration.
	Checker struct {
		Threshold    int           `long:"threshold" env:"THRESHOLD" description:"Days left below which a certificate is expiring soon" default:"30"`
		Timeout      time.Duration `long:"timeout" env:"TIMEOUT" description:"TLS dial timeout per domain" default:"5s"`
		Concurrency  int64         `long:"concurrency" env:"CONCURRENCY" description:"Max concurrent certificate checks" default:"8"`
		SnapshotPath string        `long:"snapshot_path" env:"SNAPSHOT_PATH" description:"Path of the status snapshot document; empty disables it"`
	}

	// SMTP contains expiry report delivery configuration. Reports are
	// disabled when server, sender or recipients are missing.
	SMTP struct {
		Server     string   `long:"server" env:"SERVER" description:"SMTP server host"`
		Port       int      `long:"port" env:"PORT" description:"SMTP server port" default:"587"`
		Sender     string   `long:"sender" env:"SENDER" description:"Sender address"`
		Password   string   `long:"password" env:"PASSWORD" description:"Sender password"`
		Recipients []string `long:"recipient" env:"RECIPIENTS" env-delim:"," description:"Report recipients"`
	}

	// API contains remote verification API configuration for the
	// dashboard client.
	API struct {
		BaseURL         string        `long:"base_url" env:"BASE_URL" description:"Base URL of the verification API" required:"true"`
		Timeout         time.Duration `long:"timeout" env:"TIMEOUT" description:"Timeout per API request" default:"10s"`
		RefreshInterval time.Duration `long:"refresh_interval" env:"REFRESH_INTERVAL" description:"Interval between full status refreshes" default:"5m"`
		SnapshotPath    string        `long:"snapshot_path" env:"SNAPSHOT_PATH" description:"Pre-generated status snapshot to seed from; empty disables it"`
	}

	// View contains initial projection settings for the dashboard client.
	View struct {
		Search         string        `long:"search" env:"SEARCH" description:"Committed search term to filter domains by"`
		Sort           string        `long:"sort" env:"SORT" description:"Sort key: domain or days_left" default:"domain"`
		Descending     bool          `long:"descending" env:"DESCENDING" description:"Sort in descending order"`
		RenderInterval time.Duration `long:"render_interval" env:"RENDER_INTERVAL" description:"Interval between view renders" default:"30s"`
	}
)

// ErrHelp is returned when --help flag is
// used and application should not launch.
var ErrHelp = errors.New("help")

// NewDaemon reads flags and envs and returns DaemonConfig
// that corresponds to the values read.
func NewDaemon() (*DaemonConfig, error) {
	var config DaemonConfig
	if err := parse(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// NewClient reads flags and envs and returns ClientConfig
// that corresponds to the values read.
func NewClient() (*ClientConfig, error) {
	var config ClientConfig
	if err := parse(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func parse(config interface{}) error {
	if _, err := flags.Parse(config); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return ErrHelp
		}
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}
