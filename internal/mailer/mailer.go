package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/config"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/entities"
)

// Mailer sends the post-sweep expiry summary over SMTP.
type Mailer struct {
	config *config.SMTP
	logger *zap.Logger
}

// New returns a Mailer, or nil when SMTP is not configured. A nil
// result means reporting stays disabled; callers must not wrap it in
// a non-nil interface value.
func New(conf *config.SMTP, logger *zap.Logger) *Mailer {
	if conf.Server == "" || conf.Sender == "" || len(conf.Recipients) == 0 {
		logger.Info("smtp is not configured, expiry reports disabled")
		return nil
	}

	return &Mailer{
		config: conf,
		logger: logger,
	}
}

// SendReport mails a plain-text summary of the certificates that need
// attention.
func (m *Mailer) SendReport(ctx context.Context, critical []entities.Certificate) error {
	msg := m.compose(critical)

	addr := net.JoinHostPort(m.config.Server, strconv.Itoa(m.config.Port))
	auth := smtp.PlainAuth("", m.config.Sender, m.config.Password, m.config.Server)

	if err := smtp.SendMail(addr, auth, m.config.Sender, m.config.Recipients, msg); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}

	m.logger.Info("sent expiry report",
		zap.Int("critical", len(critical)),
		zap.Strings("recipients", m.config.Recipients),
	)

	return nil
}

// compose renders the report body, one block per certificate.
func (m *Mailer) compose(critical []entities.Certificate) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", m.config.Sender)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.config.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: SSL report: %d certificate(s) need attention\r\n", len(critical))
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "SSL monitoring report, %s\n\n", time.Now().Format("2006-01-02"))
	for _, cert := range critical {
		b.WriteString("----------------------------------------\n")
		fmt.Fprintf(&b, "Domain: %s\n", cert.Domain)
		fmt.Fprintf(&b, "Status: %s\n", cert.Status)
		if cert.DaysLeft != nil {
			fmt.Fprintf(&b, "Days left: %d\n", *cert.DaysLeft)
		}
		if cert.ErrorMessage != "" {
			fmt.Fprintf(&b, "Error: %s\n", cert.ErrorMessage)
		}
		b.WriteString("\n")
	}

	return []byte(b.String())
}
