package simulation

import (
	"fmt"
	"math/rand/v2"

	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/config"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// BoidView is what a renderer needs to draw one boid, including the radii
// for the optional debug circles.
type BoidView struct {
	ID                 string
	Species            string
	Position           geometry.Vector2D
	Heading            float64
	NeighborhoodRadius float64
	SeparationRadius   float64
}

// Snapshot is a copy of the world after a tick. Consumers may keep it,
// nothing in it is shared with the simulation.
type Snapshot struct {
	Tick     uint64
	Boids    []BoidView
	Centroid geometry.Vector2D
}

// World owns the agents of every species and the simulator moving them.
// It is not safe for concurrent use; WorldActor serializes access to it.
type World struct {
	sim     *flock.Simulator
	agents  []*flock.Agent
	kinds   []string                 // species of agents[i]
	species map[string]*flock.Params // current shared params of each species
	names   []string                 // species in config order
	logger  golog.Logger
}

// NewWorld validates cfg and spawns its population.
// Placement and headings come from a PCG generator seeded with cfg.Seed, so the
// same config always yields the same world.
func NewWorld(cfg *config.Config, logger golog.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = golog.DiscardLogger
	}
	index, err := flock.NewIndex(cfg.SpatialIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	schedule, err := flock.ParseSchedule(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	w := &World{
		sim: flock.NewSimulator(
			flock.WithIndex(index),
			flock.WithSchedule(schedule),
			flock.WithWorkers(cfg.Workers),
			flock.WithLogger(logger),
		),
		species: make(map[string]*flock.Params, len(cfg.Species)),
		logger:  logger,
	}
	if used := w.sim.IndexName(); cfg.SpatialIndex != "" && cfg.SpatialIndex != used {
		logger.Warnf("spatialIndex %q is ignored by the %s schedule, using %s", cfg.SpatialIndex, schedule, used)
	}
	w.spawn(cfg)
	logger.Infof("World spawned %d boids of %d species (index=%s, schedule=%s)",
		len(w.agents), len(w.names), w.sim.IndexName(), schedule)
	return w, nil
}

func (w *World) spawn(cfg *config.Config) {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	for _, s := range cfg.Species {
		params := s.Params // one instance shared by the whole species
		w.species[s.Name] = &params
		w.names = append(w.names, s.Name)

		for i := 0; i < s.Count; i++ {
			pos := geometry.Vector2D{
				X: (rng.Float64() - 0.5) * cfg.SpawnWidth,
				Y: (rng.Float64() - 0.5) * cfg.SpawnHeight,
			}
			name := fmt.Sprintf("%s-%03d", s.Name, i)
			w.agents = append(w.agents, flock.NewAgent(name, pos, rng, &params))
			w.kinds = append(w.kinds, s.Name)
		}
	}
}

// Step advances the world by one tick of dt seconds.
func (w *World) Step(dt float64) {
	w.sim.Tick(w.agents, dt)
}

// IndexName names the spatial index in effect.
func (w *World) IndexName() string {
	return w.sim.IndexName()
}

// Ticks returns how many ticks have been run.
func (w *World) Ticks() uint64 {
	return w.sim.Ticks()
}

// Len returns the number of boids.
func (w *World) Len() int {
	return len(w.agents)
}

// Species returns the species names in config order.
func (w *World) Species() []string {
	return append([]string(nil), w.names...)
}

// Params returns the current tuning of a species.
func (w *World) Params(species string) (flock.Params, bool) {
	p, ok := w.species[species]
	if !ok {
		return flock.Params{}, false
	}
	return *p, true
}

// Reconfigure gives a species a new tuning. The previous Params instance is
// left untouched, agents are switched to a fresh one; call it between ticks.
func (w *World) Reconfigure(species string, params flock.Params) error {
	old, ok := w.species[species]
	if !ok {
		return fmt.Errorf("unknown species %q", species)
	}
	fresh := params
	changed := w.sim.Retune(w.agents, old, &fresh)
	w.species[species] = &fresh
	w.logger.Infof("Species %s retuned (%d boids): %+v", species, changed, fresh)
	return nil
}

// Snapshot copies the current state for read-only consumers.
func (w *World) Snapshot() *Snapshot {
	snap := &Snapshot{
		Tick:  w.sim.Ticks(),
		Boids: make([]BoidView, len(w.agents)),
	}
	positions := make([]geometry.Vector2D, len(w.agents))
	for i, a := range w.agents {
		snap.Boids[i] = BoidView{
			ID:                 a.ID,
			Species:            w.kinds[i],
			Position:           a.Position,
			Heading:            a.Heading,
			NeighborhoodRadius: a.Params.NeighborhoodRadius,
			SeparationRadius:   a.Params.SeparationRadius,
		}
		positions[i] = a.Position
	}
	snap.Centroid = geometry.Centroid(positions)
	return snap
}
