package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/api"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/config"
	ll "gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/logger"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/service/dashboard"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/store"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/view"
)

//nolint:gochecknoglobals
var version = "unknown"

func main() {
	appConfig, err := config.NewClient()
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("failed to read app config: %v", err)
	}

	logger, err := ll.New(version, appConfig.Env, appConfig.Logger.Level)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	certStore := store.New()
	if path := appConfig.API.SnapshotPath; path != "" {
		certs, err := api.LoadSnapshot(path)
		if err != nil {
			logger.Warn("failed to seed from snapshot", zap.Error(err))
		} else {
			certStore.ReplaceAll(certs)
			logger.Info("seeded collection from snapshot", zap.Int("count", len(certs)))
		}
	}

	client := api.NewHTTPClient(appConfig.API.BaseURL, appConfig.API.Timeout)
	session := dashboard.New(certStore, client, logger, appConfig.API.RefreshInterval)

	gr, appctx := errgroup.WithContext(ctx)
	gr.Go(func() error {
		return session.Run(appctx)
	})

	gr.Go(func() error {
		render(session, &appConfig.View)

		ticker := time.NewTicker(appConfig.View.RenderInterval)
		defer ticker.Stop()

		for {
			select {
			case <-appctx.Done():
				return nil
			case <-ticker.C:
				render(session, &appConfig.View)
			}
		}
	})

	if err := gr.Wait(); err != nil {
		logger.Error("application exited with error", zap.Error(err))
	}
}

// render writes the projected view to stdout. The display layer proper
// is out of scope here, a table is enough to watch a deployment.
func render(session *dashboard.Session, conf *config.View) {
	sortKey := view.SortByDomain
	if conf.Sort == string(view.SortByDaysLeft) {
		sortKey = view.SortByDaysLeft
	}

	direction := view.Ascending
	if conf.Descending {
		direction = view.Descending
	}

	if msg, failed := session.RefreshError(); failed {
		fmt.Printf("! %s\n", msg)
	}

	certs := view.Project(session.Store().GetAll(), conf.Search, sortKey, direction)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tSTATUS\tDAYS LEFT\tEXPIRES\tERROR")
	for _, cert := range certs {
		daysLeft, expires := "-", "-"
		if cert.DaysLeft != nil {
			daysLeft = fmt.Sprintf("%d", *cert.DaysLeft)
		}
		if cert.ExpiryDate != nil {
			expires = cert.ExpiryDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", cert.Domain, cert.Status, daysLeft, expires, cert.ErrorMessage)
	}
	w.Flush() //nolint:errcheck
}
