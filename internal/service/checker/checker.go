package checker

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/storage"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/store"
)

const httpsPort = "443"

// Reporter delivers a summary of certificates needing attention after
// a sweep. A nil Reporter disables reporting.
type Reporter interface {
	SendReport(ctx context.Context, critical []entities.Certificate) error
}

// Service verifies TLS certificates for the monitored domains and
// publishes the results.
type Service struct {
	storage      storage.Common
	results      *store.Store
	logger       *zap.Logger
	reporter     Reporter
	threshold    int
	timeout      time.Duration
	concurrency  int64
	snapshotPath string
}

// New returns a Service publishing sweep results into results.
// threshold is the days-left boundary below which a certificate counts
// as expiring soon; snapshotPath, when non-empty, receives the status
// document after every sweep.
func New(
	st storage.Common,
	results *store.Store,
	logger *zap.Logger,
	reporter Reporter,
	threshold int,
	timeout time.Duration,
	concurrency int64,
	snapshotPath string,
) Service {
	return Service{
		storage:      st,
		results:      results,
		logger:       logger,
		reporter:     reporter,
		threshold:    threshold,
		timeout:      timeout,
		concurrency:  concurrency,
		snapshotPath: snapshotPath,
	}
}

// Results exposes the store holding the latest sweep results.
func (s Service) Results() *store.Store {
	return s.results
}

// CheckDomain inspects the domain's certificate over one TLS
// handshake. Failures never surface as errors, they become an Error
// record, so one unreachable domain cannot abort a sweep.
func (s Service) CheckDomain(ctx context.Context, domain string) entities.Certificate {
	dialer := tls.Dialer{
		NetDialer: &net.Dialer{Timeout: s.timeout},
		Config:    &tls.Config{ServerName: domain},
	}

	dialCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(domain, httpsPort))
	if err != nil {
		return entities.Errored(domain, err.Error())
	}
	defer conn.Close() //nolint:errcheck

	certs := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return entities.Errored(domain, "peer presented no certificate")
	}

	expiry := certs[0].NotAfter
	daysLeft := int(time.Until(expiry).Hours() / 24)

	return entities.WithExpiry(domain, s.statusFor(daysLeft), daysLeft, expiry)
}

// statusFor classifies a certificate by its remaining lifetime.
func (s Service) statusFor(daysLeft int) entities.Status {
	switch {
	case daysLeft < 0:
		return entities.StatusExpired
	case daysLeft < s.threshold:
		return entities.StatusExpiringSoon
	default:
		return entities.StatusOK
	}
}

// UpdateAll verifies every monitored domain concurrently, bounded by
// the configured concurrency, then publishes the results, rewrites the
// snapshot document and sends the summary report when any certificate
// needs attention.
func (s Service) UpdateAll(ctx context.Context) error {
	domains, err := s.storage.GetDomains(ctx)
	if err != nil {
		return fmt.Errorf("failed to get domains list: %w", err)
	}

	results := make([]entities.Certificate, len(domains))
	sem := semaphore.NewWeighted(s.concurrency)
	gr, grctx := errgroup.WithContext(ctx)

	for i, domain := range domains {
		i, domain := i, domain
		if err := sem.Acquire(grctx, 1); err != nil {
			return fmt.Errorf("failed to acquire check slot: %w", err)
		}

		gr.Go(func() error {
			defer sem.Release(1)
			results[i] = s.CheckDomain(grctx, domain)
			return nil
		})
	}

	if err := gr.Wait(); err != nil {
		return fmt.Errorf("failed to finish sweep: %w", err)
	}

	s.results.ReplaceAll(results)

	if s.snapshotPath != "" {
		if err := writeSnapshot(s.snapshotPath, results); err != nil {
			s.logger.Error("failed to write status snapshot", zap.Error(err))
		}
	}

	s.report(ctx, results)

	return nil
}

// report sends the summary when any certificate is expiring, expired
// or failed verification.
func (s Service) report(ctx context.Context, results []entities.Certificate) {
	if s.reporter == nil {
		return
	}

	var critical []entities.Certificate
	for _, cert := range results {
		if cert.Status != entities.StatusOK {
			critical = append(critical, cert)
		}
	}

	if len(critical) == 0 {
		return
	}

	if err := s.reporter.SendReport(ctx, critical); err != nil {
		s.logger.Error("failed to send expiry report",
			zap.Int("critical", len(critical)),
			zap.Error(err),
		)
	}
}

// writeSnapshot rewrites the status document atomically, temp file
// then rename, so a concurrent reader never sees a torn write.
func writeSnapshot(path string, results []entities.Certificate) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move snapshot in place: %w", err)
	}

	return nil
}
