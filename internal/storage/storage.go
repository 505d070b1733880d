package storage

import (
	"context"
	"errors"
)

//go:generate mockgen -source=storage.go -package=storage -destination=storage_mock.go

// ErrNotFound is returned when a domain is not in the monitored set.
var ErrNotFound = errors.New("domain not found")

// Common defines interface to the common persistent storage of
// monitored domains.
type Common interface {
	// GetDomains returns all monitored domain names, ordered by name.
	// Any error returned is internal.
	GetDomains(ctx context.Context) ([]string, error)
	// AddDomains stores the domains that are not yet monitored and
	// returns how many were actually added.
	// Any error returned is internal.
	AddDomains(ctx context.Context, domains []string) (int, error)
	// DeleteDomain removes a domain from the monitored set. Returns
	// ErrNotFound when the domain is unknown.
	DeleteDomain(ctx context.Context, domain string) error
}
