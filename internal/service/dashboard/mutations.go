package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/entities"
)

// verifyFallbackMessage replaces the server error on a failed
// per-domain verification, matching the fixed text the dashboard shows.
const verifyFallbackMessage = "verification failed"

// AddDomains submits the batch for monitoring and, on acceptance,
// immediately inserts a Pending placeholder for every submitted domain
// before any verification result can land. Each domain is then
// verified independently; completion order is unspecified and one
// domain's failure never touches another's record. Callers must pass
// trimmed, non-blank domain names.
//
// A submission failure is returned as is: no placeholder was created,
// so there is nothing to roll back.
func (s *Session) AddDomains(ctx context.Context, domains []string) (string, error) {
	msg, err := s.client.BulkAdd(ctx, domains)
	if err != nil {
		return "", fmt.Errorf("failed to submit domains: %w", err)
	}

	for _, domain := range domains {
		s.store.Upsert(entities.Placeholder(domain))
	}

	for _, domain := range domains {
		domain := domain
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.verify(ctx, domain)
		}()
	}

	return msg, nil
}

// verify resolves one domain's placeholder to a terminal record. The
// context is re-checked before the store mutation so a result arriving
// after session teardown is discarded.
func (s *Session) verify(ctx context.Context, domain string) {
	cert, err := s.client.Check(ctx, domain)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		s.logger.Warn("domain verification failed",
			zap.String("domain", domain),
			zap.Error(err),
		)
		s.store.Upsert(entities.Errored(domain, verifyFallbackMessage))
		return
	}

	s.store.Upsert(cert)
}

// DeleteDomain removes the domain optimistically: the record leaves
// the store before the request is sent, and on failure exactly the
// captured record is restored under its key, leaving every other
// record, including ones mutated while the request was in flight,
// untouched.
func (s *Session) DeleteDomain(ctx context.Context, domain string) error {
	captured, existed := s.store.Get(domain)
	s.store.Remove(domain)

	if err := s.client.Delete(ctx, domain); err != nil {
		if existed && ctx.Err() == nil {
			s.store.Upsert(captured)
		}
		return fmt.Errorf("failed to delete domain %q: %w", domain, err)
	}

	return nil
}
