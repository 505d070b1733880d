package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/config"
	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/storage"
)

// Storage is a postgres-based implementation of storage.Common.
type Storage struct {
	mainDB *pgxpool.Pool
	logger *zap.Logger
}

// New connects to postgres. Context is used during dial only,
// connString may contain pgx specific parameters.
func New(ctx context.Context, logger *zap.Logger, conf *config.Postgres) (Storage, error) {
	mainDB, err := pgxpool.Connect(ctx, conf.MainDBConnectionString)
	if err != nil {
		return Storage{}, fmt.Errorf("failed to create mainDB pgx pool: %w", err)
	}

	return Storage{
		mainDB: mainDB,
		logger: logger,
	}, nil
}

// GetDomains returns all monitored domain names, ordered by name.
// Any error returned is internal.
func (s *Storage) GetDomains(ctx context.Context) ([]string, error) {
	rows, err := s.mainDB.Query(ctx, `
		SELECT
			name
		FROM
			monitoring.domains
		ORDER BY
			name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}

		domains = append(domains, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read domain list: %w", err)
	}

	return domains, nil
}

// AddDomains stores the domains that are not yet monitored and returns
// how many were actually added.
// Any error returned is internal.
func (s *Storage) AddDomains(ctx context.Context, domains []string) (int, error) {
	tag, err := s.mainDB.Exec(ctx, `
		INSERT INTO
			monitoring.domains (name)
		SELECT
			unnest($1::text[])
		ON CONFLICT (name) DO NOTHING
	`, domains)
	if err != nil {
		return 0, fmt.Errorf("failed to insert domains: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// DeleteDomain removes a domain from the monitored set.
func (s *Storage) DeleteDomain(ctx context.Context, domain string) error {
	tag, err := s.mainDB.Exec(ctx, `
		DELETE FROM
			monitoring.domains
		WHERE
			name = $1
	`, domain)
	if err != nil {
		return fmt.Errorf("failed to delete domain: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// Close releases underlying db resources.
func (s *Storage) Close() error {
	s.mainDB.Close()
	return nil
}
