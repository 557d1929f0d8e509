// Package sqlite persists actor snapshots in a single SQLite file, for
// simulations that run without a PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/actorcore/internal/game/actor"
	"github.com/cory-johannsen/actorcore/migrations"
)

// ErrSnapshotNotFound is returned when no snapshot exists for an actor ID.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store persists actor snapshots in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies the embedded migrations.
//
// Precondition: path is non-empty; its directory exists.
// Postcondition: returns a migrated Store or a non-nil error.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func applyMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations.SQLite, "sqlite")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}
	defer src.Close()
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}
	// Closing the migrator would close db, so only the source is released.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts or replaces the snapshot of snap.ID.
func (s *Store) Save(ctx context.Context, snap *actor.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", snap.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO actor_snapshots (id, name, template_id, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			template_id = excluded.template_id,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		snap.ID.String(), snap.Name, snap.TemplateID, string(data), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Load returns the snapshot for id.
//
// Postcondition: returns ErrSnapshotNotFound when no row exists.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (*actor.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM actor_snapshots WHERE id = ?`, id.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("loading snapshot %s: %w", id, err)
	}
	var snap actor.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// Delete removes the snapshot for id.
//
// Postcondition: returns ErrSnapshotNotFound when no row was deleted.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM actor_snapshots WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", id, err)
	}
	if n == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

// IDs lists every stored actor ID, ordered by name then ID.
func (s *Store) IDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM actor_snapshots ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning snapshot id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing snapshot id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
