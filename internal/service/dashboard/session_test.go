package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/store"
)

// stubClient drives the session in tests; unset callbacks fail the
// call so a test only wires what it exercises.
type stubClient struct {
	status  func(ctx context.Context) ([]entities.Certificate, error)
	check   func(ctx context.Context, domain string) (entities.Certificate, error)
	bulkAdd func(ctx context.Context, domains []string) (string, error)
	del     func(ctx context.Context, domain string) error
}

func (c *stubClient) Status(ctx context.Context) ([]entities.Certificate, error) {
	if c.status == nil {
		return nil, errors.New("status not wired")
	}
	return c.status(ctx)
}

func (c *stubClient) Check(ctx context.Context, domain string) (entities.Certificate, error) {
	if c.check == nil {
		return entities.Certificate{}, errors.New("check not wired")
	}
	return c.check(ctx, domain)
}

func (c *stubClient) BulkAdd(ctx context.Context, domains []string) (string, error) {
	if c.bulkAdd == nil {
		return "", errors.New("bulkAdd not wired")
	}
	return c.bulkAdd(ctx, domains)
}

func (c *stubClient) Delete(ctx context.Context, domain string) error {
	if c.del == nil {
		return errors.New("delete not wired")
	}
	return c.del(ctx, domain)
}

func newSession(client *stubClient) *Session {
	return New(store.New(), client, zap.NewNop(), time.Minute)
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	expiry := time.Now().AddDate(0, 0, 40)

	t.Run("check success replaces collection and clears flag", func(t *testing.T) {
		t.Parallel()

		remote := []entities.Certificate{
			entities.WithExpiry("a.com", entities.StatusOK, 40, expiry),
		}
		s := newSession(&stubClient{
			status: func(context.Context) ([]entities.Certificate, error) { return remote, nil },
		})
		s.Store().Upsert(entities.Placeholder("stale.com"))
		s.setRefreshError("previous failure")

		s.Refresh(context.Background())

		require.Equal(t, remote, s.Store().GetAll())
		_, failed := s.RefreshError()
		require.False(t, failed)
	})

	// Clearing the collection on failure is the behaviour shipped
	// today. Keeping the last known good state instead would avoid a
	// blank dashboard on a transient blip; revisit with the owners
	// before changing it.
	t.Run("check failure sets flag and empties collection", func(t *testing.T) {
		t.Parallel()

		s := newSession(&stubClient{
			status: func(context.Context) ([]entities.Certificate, error) {
				return nil, errors.New("connection refused")
			},
		})
		s.Store().Upsert(entities.WithExpiry("a.com", entities.StatusOK, 40, expiry))

		s.Refresh(context.Background())

		require.Equal(t, 0, s.Store().Len())
		msg, failed := s.RefreshError()
		require.True(t, failed)
		require.Contains(t, msg, "connection refused")
	})

	t.Run("check overlapping trigger is dropped", func(t *testing.T) {
		t.Parallel()

		entered := make(chan struct{})
		release := make(chan struct{})
		var calls int32

		s := newSession(&stubClient{
			status: func(context.Context) ([]entities.Certificate, error) {
				atomic.AddInt32(&calls, 1)
				close(entered)
				<-release
				return nil, nil
			},
		})

		go s.Refresh(context.Background())
		<-entered

		s.Refresh(context.Background())
		require.Equal(t, int32(1), atomic.LoadInt32(&calls))

		close(release)
	})
}

func TestAddDomains(t *testing.T) {
	t.Parallel()

	expiry := time.Now().AddDate(0, 0, 40)

	t.Run("check placeholders appear before any verification result", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		s := newSession(&stubClient{
			bulkAdd: func(_ context.Context, _ []string) (string, error) { return "2 added", nil },
			check: func(_ context.Context, domain string) (entities.Certificate, error) {
				<-release
				return entities.WithExpiry(domain, entities.StatusOK, 40, expiry), nil
			},
		})

		msg, err := s.AddDomains(context.Background(), []string{"new1.com", "new2.com"})
		require.NoError(t, err)
		require.Equal(t, "2 added", msg)

		for _, domain := range []string{"new1.com", "new2.com"} {
			cert, ok := s.Store().Get(domain)
			require.True(t, ok)
			require.Equal(t, entities.StatusPending, cert.Status)
		}

		close(release)
	})

	t.Run("check resolutions are independent of completion order", func(t *testing.T) {
		t.Parallel()

		for _, first := range []string{"a.com", "b.com"} {
			first := first
			t.Run("first resolved "+first, func(t *testing.T) {
				t.Parallel()

				release := map[string]chan struct{}{
					"a.com": make(chan struct{}),
					"b.com": make(chan struct{}),
				}
				s := newSession(&stubClient{
					bulkAdd: func(_ context.Context, _ []string) (string, error) { return "ok", nil },
					check: func(_ context.Context, domain string) (entities.Certificate, error) {
						<-release[domain]
						if domain == "a.com" {
							return entities.WithExpiry(domain, entities.StatusOK, 40, expiry), nil
						}
						return entities.Certificate{}, errors.New("handshake failed")
					},
				})

				_, err := s.AddDomains(context.Background(), []string{"a.com", "b.com"})
				require.NoError(t, err)

				close(release[first])
				for domain, ch := range release {
					if domain != first {
						close(ch)
					}
				}

				require.Eventually(t, func() bool {
					a, _ := s.Store().Get("a.com")
					b, _ := s.Store().Get("b.com")
					return a.Status == entities.StatusOK && b.Status == entities.StatusError
				}, time.Second, 5*time.Millisecond)

				b, _ := s.Store().Get("b.com")
				require.Equal(t, "verification failed", b.ErrorMessage)
			})
		}
	})

	t.Run("check submission failure creates no placeholder", func(t *testing.T) {
		t.Parallel()

		s := newSession(&stubClient{
			bulkAdd: func(_ context.Context, _ []string) (string, error) {
				return "", errors.New("400: nothing to add")
			},
		})

		_, err := s.AddDomains(context.Background(), []string{"a.com"})
		require.Error(t, err)
		require.Equal(t, 0, s.Store().Len())
	})

	t.Run("check late result after teardown is discarded", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		resolved := make(chan struct{})
		s := newSession(&stubClient{
			bulkAdd: func(_ context.Context, _ []string) (string, error) { return "ok", nil },
			check: func(_ context.Context, domain string) (entities.Certificate, error) {
				<-release
				defer close(resolved)
				return entities.WithExpiry(domain, entities.StatusOK, 40, expiry), nil
			},
		})

		ctx, cancel := context.WithCancel(context.Background())
		_, err := s.AddDomains(ctx, []string{"a.com"})
		require.NoError(t, err)

		cancel()
		close(release)
		<-resolved

		s.wg.Wait()
		cert, ok := s.Store().Get("a.com")
		require.True(t, ok)
		require.Equal(t, entities.StatusPending, cert.Status)
	})
}

func TestDeleteDomain(t *testing.T) {
	t.Parallel()

	expiry := time.Now().AddDate(0, 0, 10)

	t.Run("check record leaves the store before the request returns", func(t *testing.T) {
		t.Parallel()

		var seenDuringRequest bool
		var s *Session
		s = newSession(&stubClient{
			del: func(_ context.Context, domain string) error {
				_, seenDuringRequest = s.Store().Get(domain)
				return nil
			},
		})
		s.Store().Upsert(entities.WithExpiry("x.com", entities.StatusOK, 10, expiry))

		require.NoError(t, s.DeleteDomain(context.Background(), "x.com"))
		require.False(t, seenDuringRequest)
		require.Equal(t, 0, s.Store().Len())
	})

	t.Run("check failed delete restores exactly the captured record", func(t *testing.T) {
		t.Parallel()

		captured := entities.WithExpiry("x.com", entities.StatusOK, 10, expiry)

		var s *Session
		s = newSession(&stubClient{
			del: func(_ context.Context, _ string) error {
				// Unrelated mutations land while the request is in flight.
				s.Store().Upsert(entities.Placeholder("new.com"))
				s.Store().Remove("other.com")
				return errors.New("500: storage unavailable")
			},
		})
		s.Store().Upsert(captured)
		s.Store().Upsert(entities.Placeholder("other.com"))

		require.Error(t, s.DeleteDomain(context.Background(), "x.com"))

		restored, ok := s.Store().Get("x.com")
		require.True(t, ok)
		require.Equal(t, captured, restored)

		_, ok = s.Store().Get("new.com")
		require.True(t, ok)
		_, ok = s.Store().Get("other.com")
		require.False(t, ok)
	})

	t.Run("check failed delete of an absent key restores nothing", func(t *testing.T) {
		t.Parallel()

		s := newSession(&stubClient{
			del: func(_ context.Context, _ string) error { return errors.New("404") },
		})

		require.Error(t, s.DeleteDomain(context.Background(), "ghost.com"))
		require.Equal(t, 0, s.Store().Len())
	})

	t.Run("check concurrent deletes roll back independently", func(t *testing.T) {
		t.Parallel()

		a := entities.WithExpiry("a.com", entities.StatusOK, 10, expiry)
		b := entities.WithExpiry("b.com", entities.StatusOK, 20, expiry)

		s := newSession(&stubClient{
			del: func(_ context.Context, domain string) error {
				if domain == "a.com" {
					return errors.New("boom")
				}
				return nil
			},
		})
		s.Store().Upsert(a)
		s.Store().Upsert(b)

		done := make(chan error, 2)
		go func() { done <- s.DeleteDomain(context.Background(), "a.com") }()
		go func() { done <- s.DeleteDomain(context.Background(), "b.com") }()
		<-done
		<-done

		restored, ok := s.Store().Get("a.com")
		require.True(t, ok)
		require.Equal(t, a, restored)
		_, ok = s.Store().Get("b.com")
		require.False(t, ok)
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("check run refreshes immediately and stops on cancel", func(t *testing.T) {
		t.Parallel()

		var calls int32
		s := New(store.New(), &stubClient{
			status: func(context.Context) ([]entities.Certificate, error) {
				atomic.AddInt32(&calls, 1)
				return nil, nil
			},
		}, zap.NewNop(), time.Hour)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		require.Eventually(t, func() bool {
			return atomic.LoadInt32(&calls) == 1
		}, time.Second, 5*time.Millisecond)

		cancel()
		require.NoError(t, <-done)
	})
}
