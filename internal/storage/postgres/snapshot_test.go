package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/actorcore/internal/config"
	"github.com/cory-johannsen/actorcore/internal/game/actor"
	"github.com/cory-johannsen/actorcore/internal/game/regen"
	"github.com/cory-johannsen/actorcore/internal/storage/postgres"
	"github.com/cory-johannsen/actorcore/internal/testutil"
)

func setupDB(t *testing.T) *testutil.SnapshotDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	return testutil.NewSnapshotDB(t)
}

func sampleSnapshot(name string) *actor.Snapshot {
	a := actor.New(name, 12, actor.Options{Scheduler: regen.NewScheduler()})
	a.TakeDamage(3)
	return a.Snapshot()
}

func TestSnapshotRepository_SaveAndLoad(t *testing.T) {
	repo := setupDB(t).Repo
	ctx := context.Background()

	s := sampleSnapshot("Mira")
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "Mira", got.Name)
	assert.Equal(t, 12, got.Level)
	assert.Equal(t, s.HP, got.HP)
}

func TestSnapshotRepository_SaveUpserts(t *testing.T) {
	repo := setupDB(t).Repo
	ctx := context.Background()

	s := sampleSnapshot("Mira")
	require.NoError(t, repo.Save(ctx, s))
	s.Level = 13
	s.Name = "Mira the Bold"
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, got.Level)

	ids, err := repo.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s.ID}, ids)
}

func TestSnapshotRepository_IDsAndDelete(t *testing.T) {
	repo := setupDB(t).Repo
	ctx := context.Background()

	b := sampleSnapshot("Bryn")
	a := sampleSnapshot("Ash")
	require.NoError(t, repo.Save(ctx, b))
	require.NoError(t, repo.Save(ctx, a))

	ids, err := repo.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, ids)

	require.NoError(t, repo.Delete(ctx, a.ID))
	require.ErrorIs(t, repo.Delete(ctx, a.ID), postgres.ErrSnapshotNotFound)
	_, err = repo.Load(ctx, a.ID)
	require.ErrorIs(t, err, postgres.ErrSnapshotNotFound)
}

func TestOpen_ReopensMigratedDatabase(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	require.NoError(t, db.Repo.Ping(ctx))
	s := sampleSnapshot("Mira")
	require.NoError(t, db.Repo.Save(ctx, s))

	again, err := postgres.Open(ctx, db.Config, nil)
	require.NoError(t, err)
	defer again.Close()
	got, err := again.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mira", got.Name)
}

func TestOpen_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := postgres.Open(ctx, config.DatabaseConfig{
		Host: "127.0.0.1", Port: 1, User: "actors", Name: "actors", SSLMode: "disable",
	}, nil)
	require.Error(t, err)
}
