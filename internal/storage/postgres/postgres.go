// Package postgres persists actor snapshots in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/config"
	"github.com/cory-johannsen/actorcore/internal/observability"
)

// pingTimeout bounds the reachability check made by Open and Ping.
const pingTimeout = 5 * time.Second

// Open brings the schema described by cfg up to date, connects a pool and
// returns a repository that owns it. logger may be nil.
//
// Precondition: cfg names a reachable server; the role may create tables.
// Postcondition: returns a migrated, pinged repository or a non-nil error;
// no pool is left open on error.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*SnapshotRepository, error) {
	logger = observability.Component(logger, "postgres")
	start := time.Now()

	if err := Migrate(cfg.DSN()); err != nil {
		return nil, err
	}
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot pool: %w", err)
	}
	repo := NewSnapshotRepository(pool)
	if err := repo.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("snapshot store connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Duration("elapsed", time.Since(start)),
	)
	return repo, nil
}

// poolConfig translates cfg into pool settings. Zero limits keep the pgx
// defaults.
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = min(cfg.MinConns, poolCfg.MaxConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	return poolCfg, nil
}

// Ping reports whether the snapshot table answers within pingTimeout.
func (r *SnapshotRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT to_regclass('actor_snapshots') IS NOT NULL`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("pinging snapshot store: %w", err)
	}
	if !exists {
		return ErrSchemaMissing
	}
	return nil
}

// Close releases the repository's pool. The repository is unusable afterwards.
func (r *SnapshotRepository) Close() {
	r.db.Close()
}
