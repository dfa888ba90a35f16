// Package health implements the dependency checks behind the readiness
// probe: Postgres holds the candidate pool and journey log, Redis the
// optional pool snapshot cache.
package health

import (
	"context"
	"database/sql"
)

// DBChecker reports whether the profile database is reachable.
type DBChecker struct {
	db *sql.DB
}

// NewDBChecker creates a checker for the given database handle.
func NewDBChecker(db *sql.DB) *DBChecker {
	return &DBChecker{db: db}
}

// HealthCheck pings the database within the context deadline.
func (d *DBChecker) HealthCheck(ctx context.Context) error {
	return d.db.PingContext(ctx)
}
