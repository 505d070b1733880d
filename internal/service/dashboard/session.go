package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/api"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/store"
)

// Session owns the certificate collection for one dashboard session:
// it keeps the collection in sync with the remote API and executes
// optimistic mutations against it. The display layer reads the store
// through Certificates and reports failures surfaced by RefreshError
// and the mutation return values.
type Session struct {
	store    *store.Store
	client   api.Client
	logger   *zap.Logger
	interval time.Duration

	mu         sync.Mutex
	refreshErr string

	refreshing int32
	wg         sync.WaitGroup
}

// New returns a Session refreshing at the given interval. The store is
// owned by the session but may be read by any consumer via Certificates.
func New(st *store.Store, client api.Client, logger *zap.Logger, interval time.Duration) *Session {
	return &Session{
		store:    st,
		client:   client,
		logger:   logger,
		interval: interval,
	}
}

// Store exposes the session's certificate store for read access and
// projection.
func (s *Session) Store() *store.Store {
	return s.store
}

// Run performs one immediate refresh, then refreshes at the session
// interval until ctx is cancelled. It returns only after every
// in-flight verification spawned by AddDomains has finished, so no
// store mutation can arrive after Run has returned.
func (s *Session) Run(ctx context.Context) error {
	s.Refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return nil
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh fetches the full collection and swaps it into the store. A
// trigger arriving while a fetch is outstanding is dropped. On failure
// the refresh error is set and the collection is cleared; whether to
// keep the last known good state instead is an open question, kept as
// is until the behaviour owners decide otherwise.
func (s *Session) Refresh(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&s.refreshing, 0, 1) {
		s.logger.Debug("refresh already in flight, dropping trigger")
		return
	}
	defer atomic.StoreInt32(&s.refreshing, 0)

	certs, err := s.client.Status(ctx)
	if err != nil {
		s.logger.Error("failed to refresh certificate collection", zap.Error(err))
		s.setRefreshError("failed to load certificate status: " + err.Error())
		s.store.ReplaceAll(nil)
		return
	}

	if ctx.Err() != nil {
		return
	}

	s.store.ReplaceAll(certs)
	s.setRefreshError("")
	s.logger.Info("refreshed certificate collection", zap.Int("count", len(certs)))
}

// RefreshError returns the banner-level error from the last failed
// refresh, and whether one is set. It clears on the next successful
// refresh.
func (s *Session) RefreshError() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refreshErr, s.refreshErr != ""
}

func (s *Session) setRefreshError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshErr = msg
}
