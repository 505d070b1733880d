package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/config"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/environment"
	ll "gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/logger"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/mailer"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/server/http"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/service/checker"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/storage/postgres"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/store"
)

//nolint:gochecknoglobals
var (
	version   = "unknown"
	buildTime = "unknown"
)

func main() {
	appConfig, err := config.NewDaemon()
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

	ctx = environment.CtxWithEnv(ctx, appConfig.Env)
	ctx = environment.CtxWithVersion(ctx, version)
	ctx = environment.CtxWithBuildTime(ctx, buildTime)

	pgStorage, err := postgres.New(ctx, logger, &appConfig.Postgres)
	if err != nil {
		logger.Error("failed to connect to postgres", zap.Error(err))
		return
	}
	defer pgStorage.Close() //nolint:errcheck

	var reporter checker.Reporter
	if m := mailer.New(&appConfig.SMTP, logger); m != nil {
		reporter = m
	}

	checkerService := checker.New(
		&pgStorage,
		store.New(),
		logger,
		reporter,
		appConfig.Checker.Threshold,
		appConfig.Checker.Timeout,
		appConfig.Checker.Concurrency,
		appConfig.Checker.SnapshotPath,
	)

	httpServer, err := http.NewServer(logger, appConfig, &pgStorage, checkerService)
	if err != nil {
		logger.Error("failed to create http server", zap.Error(err))
		return
	}

	gr, appctx := errgroup.WithContext(ctx)
	gr.Go(func() error {
		return httpServer.Serve(appctx)
	})

	gr.Go(func() error {
		if err := updateCertificates(appctx, logger, checkerService); err != nil {
			return err
		}

		ticker := time.NewTicker(appConfig.Tickers.SSLChecker)
		defer ticker.Stop()

		for {
			select {
			case <-appctx.Done():
				return nil
			case <-ticker.C:
				if err := updateCertificates(appctx, logger, checkerService); err != nil {
					return err
				}
			}
		}
	})

	if err := gr.Wait(); err != nil {
		logger.Error("application exited with error", zap.Error(err))
	}
}

func updateCertificates(ctx context.Context, logger *zap.Logger, checkerService checker.Service) error {
	start := time.Now()

	if err := checkerService.UpdateAll(ctx); err != nil {
		return fmt.Errorf("failed to update certificates %w", err)
	}
	logger.Info("update ssl - successful", zap.Duration("duration", time.Since(start)))

	return nil
}
