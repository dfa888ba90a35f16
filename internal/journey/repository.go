package journey

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository persists completed journeys.
type Repository interface {
	// Record validates and stores a journey, assigning its id and
	// timestamp. Returns the stored journey.
	Record(ctx context.Context, j Journey) (*Journey, error)

	// List returns journeys sorted by creation time, newest first.
	// Limit 0 means no limit.
	List(ctx context.Context, limit int) ([]*Journey, error)

	// Clear removes all journeys. Maintenance use only.
	Clear(ctx context.Context) error
}

// PostgresRepository implements Repository on PostgreSQL. The query
// snapshot and the selections are stored as JSONB; suggested ids as a
// bigint array.
type PostgresRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{db: db, logger: logger}
}

// Record validates and stores a journey.
func (r *PostgresRepository) Record(ctx context.Context, j Journey) (*Journey, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}

	j.ID = uuid.New().String()
	j.CreatedAt = time.Now().UTC()

	queryJSON, err := json.Marshal(j.Query)
	if err != nil {
		return nil, fmt.Errorf("marshal journey query: %w", err)
	}
	selectionsJSON, err := json.Marshal(j.Selections)
	if err != nil {
		return nil, fmt.Errorf("marshal journey selections: %w", err)
	}

	query := `
		INSERT INTO user_journeys (id, query, suggested_ids, selections, algorithm_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.ExecContext(ctx, query,
		j.ID, queryJSON, pq.Array(j.SuggestedIDs), selectionsJSON, j.AlgorithmVersion, j.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert journey: %w", err)
	}

	return &j, nil
}

// List returns journeys sorted by creation time, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*Journey, error) {
	query := `
		SELECT id, query, suggested_ids, selections, algorithm_version, created_at
		FROM user_journeys
		ORDER BY created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list journeys: %w", err)
	}
	defer rows.Close()

	var journeys []*Journey
	for rows.Next() {
		var j Journey
		var queryJSON, selectionsJSON []byte
		err := rows.Scan(&j.ID, &queryJSON, pq.Array(&j.SuggestedIDs),
			&selectionsJSON, &j.AlgorithmVersion, &j.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan journey: %w", err)
		}
		if err := json.Unmarshal(queryJSON, &j.Query); err != nil {
			return nil, fmt.Errorf("unmarshal journey %s query: %w", j.ID, err)
		}
		if err := json.Unmarshal(selectionsJSON, &j.Selections); err != nil {
			return nil, fmt.Errorf("unmarshal journey %s selections: %w", j.ID, err)
		}
		journeys = append(journeys, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list journeys: %w", err)
	}
	return journeys, nil
}

// Clear removes all journeys.
func (r *PostgresRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_journeys`); err != nil {
		return fmt.Errorf("clear journeys: %w", err)
	}
	return nil
}

// InMemoryRepository is an in-memory implementation of Repository.
// Used for testing and development. Thread-safe via RWMutex.
type InMemoryRepository struct {
	mu       sync.RWMutex
	journeys []*Journey
}

// NewInMemoryRepository creates a new in-memory journey repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Record validates and stores a journey.
func (r *InMemoryRepository) Record(ctx context.Context, j Journey) (*Journey, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}

	j.ID = uuid.New().String()
	j.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	stored := j
	r.journeys = append(r.journeys, &stored)
	r.mu.Unlock()

	returned := j
	return &returned, nil
}

// List returns journeys newest first.
func (r *InMemoryRepository) List(ctx context.Context, limit int) ([]*Journey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*Journey
	for i := len(r.journeys) - 1; i >= 0; i-- {
		copied := *r.journeys[i]
		results = append(results, &copied)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Clear removes all journeys.
func (r *InMemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	r.journeys = nil
	r.mu.Unlock()
	return nil
}
