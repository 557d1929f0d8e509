package sim_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/actorcore/internal/game/actor"
	"github.com/cory-johannsen/actorcore/internal/game/aura"
	"github.com/cory-johannsen/actorcore/internal/game/inventory"
	"github.com/cory-johannsen/actorcore/internal/game/stat"
	"github.com/cory-johannsen/actorcore/internal/scripting"
	"github.com/cory-johannsen/actorcore/internal/sim"
)

func TestShippedContentSpawns(t *testing.T) {
	root := filepath.Join("..", "..", "content")
	auras, err := aura.LoadDirectory(filepath.Join(root, "auras"))
	require.NoError(t, err)
	items, err := inventory.LoadDirectory(filepath.Join(root, "items"))
	require.NoError(t, err)
	templates, err := actor.LoadTemplates(filepath.Join(root, "actors"))
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	mgr := scripting.NewManager(0, logger)
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.Load(filepath.Join(root, "scripts")))

	w := sim.NewWorld(sim.Content{Templates: templates, Auras: auras, Items: items, Hooks: mgr}, actor.DefaultRegenTimings(), logger)
	for _, tmpl := range templates.All() {
		_, err := w.Spawn(tmpl.ID, tmpl.ID)
		require.NoError(t, err, tmpl.ID)
	}

	bandits := w.Herd("bandit").Members()
	require.Len(t, bandits, 1)
	bandit := bandits[0].(*actor.Actor)
	assert.Equal(t, 1, bandit.AuraStackCount("battle_fury"))
	assert.Len(t, bandit.Equipment(), 2)
	assert.Greater(t, bandit.Total(stat.PhysicalPower), 10.0)

	adept := w.Herd("cinder_adept").Members()[0].(*actor.Actor)
	assert.Equal(t, 1, adept.AuraStackCount("frost_ward"))
	assert.Equal(t, 0.85, adept.Total(stat.MagicalMitigation))
}
