package simulation

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/config"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

// snapshotBuffer lets the renderer lag a few ticks behind before frames are dropped.
const snapshotBuffer = 10

// Engine runs a World inside a goakt actor system.
type Engine struct {
	system    actor.ActorSystem
	worldPID  *actor.PID
	snapshots chan *Snapshot
	species   []string
}

// Start builds the world described by cfg, starts the actor system and spawns the world actor.
func Start(ctx context.Context, cfg *config.Config, logger golog.Logger) (*Engine, error) {
	if logger == nil {
		logger = golog.DiscardLogger
	}
	world, err := NewWorld(cfg, logger)
	if err != nil {
		return nil, err
	}

	system, err := actor.NewActorSystem("FlockWorld",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	snapshots := make(chan *Snapshot, snapshotBuffer)
	worldPID, err := system.Spawn(ctx, "world", NewWorldActor(world, snapshots))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	return &Engine{
		system:    system,
		worldPID:  worldPID,
		snapshots: snapshots,
		species:   world.Species(),
	}, nil
}

// Tick asks the world to advance by dt. It returns once the message is queued.
func (e *Engine) Tick(ctx context.Context, dt time.Duration) error {
	return actor.Tell(ctx, e.worldPID, durationpb.New(dt))
}

// Reconfigure validates params and queues a retune of species. It takes effect
// before the next queued tick.
func (e *Engine) Reconfigure(ctx context.Context, species string, params flock.Params) error {
	if !slices.Contains(e.species, species) {
		return fmt.Errorf("%w: unknown species %q", config.ErrInvalidConfig, species)
	}
	msg, err := encodeReconfigure(species, params)
	if err != nil {
		return fmt.Errorf("failed to encode reconfigure: %w", err)
	}
	// same checks the actor will run, so the caller gets the error
	if _, _, err := decodeReconfigure(msg); err != nil {
		return err
	}
	return actor.Tell(ctx, e.worldPID, msg)
}

// Snapshots delivers the world state after each tick. Frames are dropped
// while the channel is full.
func (e *Engine) Snapshots() <-chan *Snapshot {
	return e.snapshots
}

// Species returns the species names of the world.
func (e *Engine) Species() []string {
	return append([]string(nil), e.species...)
}

// Stop shuts the actor system down.
func (e *Engine) Stop(ctx context.Context) error {
	return e.system.Stop(ctx)
}
