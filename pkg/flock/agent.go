package flock

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Agent is one boid.
// Heading is derived from Velocity after each integration and is only meant
// for renderers, the physics never reads it.
type Agent struct {
	ID           string
	Position     geometry.Vector2D
	Velocity     geometry.Vector2D
	Acceleration geometry.Vector2D
	Heading      float64
	Params       *Params
}

// NewAgent places an agent at position, facing a uniformly random direction drawn
// from rng, with a unit velocity and zero acceleration.
func NewAgent(id string, position geometry.Vector2D, rng *rand.Rand, params *Params) *Agent {
	angle := rng.Float64() * 2 * math.Pi
	return &Agent{
		ID:       id,
		Position: position,
		Velocity: geometry.NewVectorPolar(1, angle),
		Heading:  angle,
		Params:   params,
	}
}

// State is the read-only copy of an agent used during one tick.
// Params is copied by value so a tick never observes a half-updated tuning.
type State struct {
	ID       string
	Position geometry.Vector2D
	Velocity geometry.Vector2D
	Params   Params
}

// State returns a snapshot of the agent.
func (a *Agent) State() State {
	return State{
		ID:       a.ID,
		Position: a.Position,
		Velocity: a.Velocity,
		Params:   *a.Params,
	}
}
