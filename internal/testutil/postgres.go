// Package testutil starts disposable databases for storage tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/actorcore/internal/config"
	"github.com/cory-johannsen/actorcore/internal/storage/postgres"
)

// SnapshotDB is a throwaway PostgreSQL server holding a migrated snapshot
// repository.
type SnapshotDB struct {
	Repo   *postgres.SnapshotRepository
	Config config.DatabaseConfig
}

// NewSnapshotDB starts a PostgreSQL container and opens a repository on it
// through postgres.Open, so every test also exercises the migrations. The
// container is terminated when the test ends.
//
// Precondition: Docker must be available; callers skip in -short mode.
// Postcondition: Repo is connected to an empty actor_snapshots table, or the
// test has failed.
func NewSnapshotDB(t *testing.T) *SnapshotDB {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "actors",
				"POSTGRES_PASSWORD": "actors",
				"POSTGRES_DB":       "actors",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("getting container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("getting mapped port: %v", err)
	}

	cfg := config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "actors",
		Password: "actors",
		Name:     "actors",
		SSLMode:  "disable",
		MaxConns: 2,
	}
	repo, err := postgres.Open(ctx, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("opening snapshot store: %v [%s]", err, time.Since(start))
	}
	t.Cleanup(repo.Close)

	return &SnapshotDB{Repo: repo, Config: cfg}
}
