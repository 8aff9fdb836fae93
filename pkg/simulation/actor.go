package simulation

import (
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/config"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

// SpeciesField names the species in a reconfigure message, every other field is a Params value.
const SpeciesField = "species"

// WorldActor hosts a World. Because an actor handles one message at a time,
// ticks and reconfigurations never overlap.
//
// Messages:
//   - *durationpb.Duration: run one tick of that length, then publish a Snapshot.
//   - *structpb.Struct: retune one species between ticks.
type WorldActor struct {
	world      *World
	snapshotCh chan<- *Snapshot

	// --- Benchmark Stats ---
	ticksSinceLog int
	dropped       int
	lastLogTime   time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor wraps world. Snapshots are pushed on snapshotCh without blocking.
func NewWorldActor(world *World, snapshotCh chan<- *Snapshot) *WorldActor {
	return &WorldActor{
		world:       world,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World %s hosts %d boids", ctx.ActorName(), w.world.Len())
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World started, waiting for ticks...")

	case *durationpb.Duration:
		w.world.Step(msg.AsDuration().Seconds())
		w.ticksSinceLog++
		w.pushSnapshot()
		w.logBenchmarks(ctx)

	case *structpb.Struct:
		species, params, err := decodeReconfigure(msg)
		if err == nil {
			err = w.world.Reconfigure(species, params)
		}
		if err != nil {
			ctx.Logger().Warnf("Reconfigure rejected: %v", err)
		}

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is shutdown after %d ticks", w.world.Ticks())
	return nil
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.world.Snapshot():
	default:
		// consumer busy, skip frame
		w.dropped++
	}
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Debugf("📊 TICK RATE: %d/sec | Boids: %d | Dropped snapshots: %d",
			w.ticksSinceLog, w.world.Len(), w.dropped)
		w.ticksSinceLog = 0
		w.dropped = 0
		w.lastLogTime = time.Now()
	}
}

// encodeReconfigure builds the message WorldActor expects for a retune.
func encodeReconfigure(species string, p flock.Params) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		SpeciesField:         species,
		"maxSpeed":           p.MaxSpeed,
		"maxForce":           p.MaxForce,
		"neighborhoodRadius": p.NeighborhoodRadius,
		"separationRadius":   p.SeparationRadius,
		"alignmentAmount":    p.AlignmentAmount,
		"cohesionAmount":     p.CohesionAmount,
		"separationAmount":   p.SeparationAmount,
	})
}

// decodeReconfigure splits a retune message into the species name and
// its params, validated with the same schema as the config file.
func decodeReconfigure(msg *structpb.Struct) (string, flock.Params, error) {
	fields := msg.GetFields()
	species := fields[SpeciesField].GetStringValue()
	if species == "" {
		return "", flock.Params{}, fmt.Errorf("%w: reconfigure without %q field", config.ErrInvalidConfig, SpeciesField)
	}

	rest := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		if k != SpeciesField {
			rest.Fields[k] = v
		}
	}
	b, err := protojson.Marshal(rest)
	if err != nil {
		return "", flock.Params{}, fmt.Errorf("failed to encode params: %w", err)
	}
	params, err := config.ParseParams(b)
	if err != nil {
		return "", flock.Params{}, err
	}
	return species, params, nil
}
