package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/actorcore/internal/game/actor"
)

var (
	// ErrSnapshotNotFound is returned when no snapshot exists for an actor ID.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSchemaMissing is returned by Ping when the migrations have not run.
	ErrSchemaMissing = errors.New("postgres: actor_snapshots table is missing")
)

// SnapshotRepository stores one JSONB snapshot per actor.
type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository creates a SnapshotRepository over db. Open is the
// usual constructor; this one suits callers that manage their own pool.
//
// Precondition: db must be a valid, open connection pool with migrations applied.
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save inserts or replaces the snapshot of s.ID.
//
// Precondition: s must be non-nil.
func (r *SnapshotRepository) Save(ctx context.Context, s *actor.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", s.ID, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO actor_snapshots (id, name, template_id, data, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    template_id = EXCLUDED.template_id,
		    data = EXCLUDED.data,
		    updated_at = NOW()`,
		s.ID, s.Name, s.TemplateID, data,
	)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", s.ID, err)
	}
	return nil
}

// Load returns the snapshot for id.
//
// Postcondition: returns ErrSnapshotNotFound when no row exists.
func (r *SnapshotRepository) Load(ctx context.Context, id uuid.UUID) (*actor.Snapshot, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM actor_snapshots WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("loading snapshot %s: %w", id, err)
	}
	var s actor.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", id, err)
	}
	return &s, nil
}

// Delete removes the snapshot for id.
//
// Postcondition: returns ErrSnapshotNotFound when no row was deleted.
func (r *SnapshotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM actor_snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

// IDs lists every stored actor ID, ordered by name then ID.
func (r *SnapshotRepository) IDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM actor_snapshots ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot ids: %w", err)
	}
	return ids, nil
}
