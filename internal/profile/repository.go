package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a candidate does not exist.
var ErrNotFound = errors.New("profile not found")

// Repository provides access to the candidate pool.
type Repository interface {
	// List returns the full candidate pool in stable id order. The order
	// matters: it is the tie-break order of the ranking pipeline.
	List(ctx context.Context) ([]Candidate, error)

	// Get returns a single candidate by id.
	Get(ctx context.Context, id int64) (*Candidate, error)

	// Upsert inserts or updates a candidate by id.
	Upsert(ctx context.Context, c *Candidate) error
}

// PostgresRepository implements Repository on PostgreSQL.
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

const candidateColumns = `
	id, name, trust, age, gender, pace, budget, style,
	interests, sleep, smoking, alcohol, dietary, cleanliness, fitness, bio
`

// List returns the full candidate pool ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM profiles ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var pool []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		pool = append(pool, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return pool, nil
}

// Get returns a single candidate by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM profiles WHERE id = $1`

	c, err := scanCandidate(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", id, err)
	}
	return c, nil
}

// Upsert inserts or updates a candidate by id.
func (r *PostgresRepository) Upsert(ctx context.Context, c *Candidate) error {
	query := `
		INSERT INTO profiles (
			id, name, trust, age, gender, pace, budget, style,
			interests, sleep, smoking, alcohol, dietary, cleanliness, fitness, bio
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			trust = EXCLUDED.trust,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			pace = EXCLUDED.pace,
			budget = EXCLUDED.budget,
			style = EXCLUDED.style,
			interests = EXCLUDED.interests,
			sleep = EXCLUDED.sleep,
			smoking = EXCLUDED.smoking,
			alcohol = EXCLUDED.alcohol,
			dietary = EXCLUDED.dietary,
			cleanliness = EXCLUDED.cleanliness,
			fitness = EXCLUDED.fitness,
			bio = EXCLUDED.bio,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Trust, c.Age, c.Gender, c.Pace, c.Budget, c.Style,
		pq.Array(c.Interests), pq.Array(c.Sleep),
		c.Smoking, c.Alcohol, c.Dietary, c.Cleanliness, c.Fitness, c.Bio)
	if err != nil {
		return fmt.Errorf("upsert profile %d: %w", c.ID, err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*Candidate, error) {
	var c Candidate
	err := row.Scan(
		&c.ID, &c.Name, &c.Trust, &c.Age, &c.Gender, &c.Pace, &c.Budget, &c.Style,
		pq.Array(&c.Interests), pq.Array(&c.Sleep),
		&c.Smoking, &c.Alcohol, &c.Dietary, &c.Cleanliness, &c.Fitness, &c.Bio)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// InMemoryRepository is an in-memory implementation of Repository.
// Used for testing and development. Thread-safe via RWMutex.
type InMemoryRepository struct {
	mu         sync.RWMutex
	candidates map[int64]*Candidate
}

// NewInMemoryRepository creates a new in-memory profile repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		candidates: make(map[int64]*Candidate),
	}
}

// List returns the candidate pool in stable id order.
func (r *InMemoryRepository) List(ctx context.Context) ([]Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.candidates))
	for id := range r.candidates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pool := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		pool = append(pool, *r.candidates[id])
	}
	return pool, nil
}

// Get returns a copy of the candidate with the given id.
func (r *InMemoryRepository) Get(ctx context.Context, id int64) (*Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.candidates[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

// Upsert inserts or updates a candidate by id.
func (r *InMemoryRepository) Upsert(ctx context.Context, c *Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *c
	r.candidates[c.ID] = &copied
	return nil
}
