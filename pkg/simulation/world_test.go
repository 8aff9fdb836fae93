package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/config"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	cfg.Species = []config.Species{
		{Name: "sardine", Count: 30, Params: flock.DefaultParams()},
		{Name: "tuna", Count: 3, Params: flock.Params{
			MaxSpeed: 2, MaxForce: 0.3,
			NeighborhoodRadius: 6, SeparationRadius: 2,
			AlignmentAmount: 0.5, CohesionAmount: 2, SeparationAmount: 1,
		}},
	}
	return cfg
}

func TestNewWorld_SameSeedSameWorld(t *testing.T) {
	w1, err := NewWorld(smallConfig(), nil)
	require.NoError(t, err)
	w2, err := NewWorld(smallConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, 33, w1.Len())
	assert.Equal(t, w1.Snapshot(), w2.Snapshot())

	for i := 0; i < 20; i++ {
		w1.Step(1.0 / 60)
		w2.Step(1.0 / 60)
	}
	assert.Equal(t, uint64(20), w1.Ticks())
	assert.Equal(t, w1.Snapshot(), w2.Snapshot())
}

func TestNewWorld_SeedChangesPlacement(t *testing.T) {
	other := smallConfig()
	other.Seed = 43

	w1, err := NewWorld(smallConfig(), nil)
	require.NoError(t, err)
	w2, err := NewWorld(other, nil)
	require.NoError(t, err)

	assert.NotEqual(t, w1.Snapshot().Boids[0].Position, w2.Snapshot().Boids[0].Position)
}

func TestNewWorld_SpawnArea(t *testing.T) {
	cfg := smallConfig()
	w, err := NewWorld(cfg, nil)
	require.NoError(t, err)

	for _, b := range w.Snapshot().Boids {
		assert.LessOrEqual(t, b.Position.X, cfg.SpawnWidth/2)
		assert.GreaterOrEqual(t, b.Position.X, -cfg.SpawnWidth/2)
		assert.LessOrEqual(t, b.Position.Y, cfg.SpawnHeight/2)
		assert.GreaterOrEqual(t, b.Position.Y, -cfg.SpawnHeight/2)
	}
	for _, a := range w.agents {
		assert.InDelta(t, 1.0, a.Velocity.Len(), 1e-12, "spawned with unit speed")
	}
}

func TestNewWorld_SpeciesShareParams(t *testing.T) {
	w, err := NewWorld(smallConfig(), nil)
	require.NoError(t, err)

	first := map[string]*flock.Params{}
	for i, a := range w.agents {
		kind := w.kinds[i]
		if p, ok := first[kind]; ok {
			assert.Same(t, p, a.Params, "agent %s", a.ID)
			continue
		}
		first[kind] = a.Params
	}
	require.Len(t, first, 2)
	assert.NotSame(t, first["sardine"], first["tuna"])
	assert.Equal(t, []string{"sardine", "tuna"}, w.Species())
	assert.Equal(t, "tuna-002", w.agents[len(w.agents)-1].ID)
}

func TestNewWorld_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"no species", func(c *config.Config) { c.Species = nil }},
		{"bad index", func(c *config.Config) { c.SpatialIndex = "kdtree" }},
		{"bad schedule", func(c *config.Config) { c.Schedule = "random" }},
		{"max force out of range", func(c *config.Config) { c.Species[0].Params.MaxForce = 0.03 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.mutate(cfg)
			_, err := NewWorld(cfg, nil)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestWorld_Reconfigure(t *testing.T) {
	w, err := NewWorld(smallConfig(), nil)
	require.NoError(t, err)
	before, _ := w.Params("tuna")
	oldPtr := w.species["tuna"]

	tuned := before
	tuned.NeighborhoodRadius = 9
	require.NoError(t, w.Reconfigure("tuna", tuned))

	got, ok := w.Params("tuna")
	require.True(t, ok)
	assert.Equal(t, 9.0, got.NeighborhoodRadius)
	assert.Equal(t, before, *oldPtr, "old params are never mutated")

	for i, a := range w.agents {
		if w.kinds[i] == "tuna" {
			assert.Same(t, w.species["tuna"], a.Params)
		} else {
			assert.Same(t, w.species["sardine"], a.Params)
		}
	}
	for _, b := range w.Snapshot().Boids {
		if b.Species == "tuna" {
			assert.Equal(t, 9.0, b.NeighborhoodRadius)
		}
	}

	assert.Error(t, w.Reconfigure("whale", tuned))
	_, ok = w.Params("whale")
	assert.False(t, ok)
}

func TestWorld_Snapshot(t *testing.T) {
	w, err := NewWorld(smallConfig(), nil)
	require.NoError(t, err)

	snap := w.Snapshot()
	require.Len(t, snap.Boids, w.Len())

	positions := make([]geometry.Vector2D, 0, len(snap.Boids))
	for _, b := range snap.Boids {
		positions = append(positions, b.Position)
	}
	assert.True(t, geometry.Centroid(positions).Eq(snap.Centroid))

	first := snap.Boids[0].Position
	w.Step(0.5)
	assert.Equal(t, first, snap.Boids[0].Position, "snapshot is a copy")
	assert.Equal(t, uint64(0), snap.Tick)
	assert.Equal(t, uint64(1), w.Snapshot().Tick)
}

func TestWorld_IndexNameFollowsSchedule(t *testing.T) {
	cfg := smallConfig()
	cfg.SpatialIndex = "rtree"
	w, err := NewWorld(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "rtree", w.IndexName())

	cfg.Schedule = "in-place"
	w, err = NewWorld(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "brute", w.IndexName())
}
