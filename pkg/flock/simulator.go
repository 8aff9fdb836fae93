package flock

import (
	"fmt"
	"runtime"

	golog "github.com/tochemey/goakt/v3/log"
	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Schedule selects how neighbor reads interact with same-tick writes.
type Schedule int

const (
	// Snapshot computes every acceleration from the state at the start of the
	// tick and integrates afterwards. The outcome does not depend on agent order.
	Snapshot Schedule = iota
	// InPlace processes agents one after the other, later agents see the
	// already moved earlier ones. Results depend on agent order.
	InPlace
)

func (s Schedule) String() string {
	switch s {
	case Snapshot:
		return "snapshot"
	case InPlace:
		return "in-place"
	default:
		return fmt.Sprintf("Schedule(%d)", int(s))
	}
}

// ParseSchedule maps a config name to a Schedule.
func ParseSchedule(name string) (Schedule, error) {
	switch name {
	case "", "snapshot":
		return Snapshot, nil
	case "in-place", "inplace":
		return InPlace, nil
	default:
		return Snapshot, fmt.Errorf("unknown schedule %q", name)
	}
}

// Simulator advances a set of agents tick by tick.
// It owns the snapshot buffer; a Simulator must not run two Ticks at once.
type Simulator struct {
	index    SpatialIndex
	schedule Schedule
	workers  int
	logger   golog.Logger

	states []State
	accels []geometry.Vector2D
	ticks  uint64
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithIndex sets the spatial index, the default is a Grid.
func WithIndex(index SpatialIndex) Option {
	return func(s *Simulator) { s.index = index }
}

// WithSchedule sets the scheduling model, the default is Snapshot.
func WithSchedule(schedule Schedule) Option {
	return func(s *Simulator) { s.schedule = schedule }
}

// WithWorkers sets how many goroutines compute steering in Snapshot mode.
// Values below 1 mean runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(s *Simulator) { s.workers = n }
}

// WithLogger sets the logger used for per tick debug output.
func WithLogger(logger golog.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

// NewSimulator creates a Simulator.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		index:    NewGrid(),
		schedule: Snapshot,
		logger:   golog.DiscardLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	return s
}

// Ticks returns how many ticks have been run.
func (s *Simulator) Ticks() uint64 {
	return s.ticks
}

// IndexName names the spatial index the ticks actually query.
// InPlace always scans brute force, whatever index was configured.
func (s *Simulator) IndexName() string {
	if s.schedule == InPlace {
		return "brute"
	}
	return IndexName(s.index)
}

// Schedule returns the scheduling model in use.
func (s *Simulator) Schedule() Schedule {
	return s.schedule
}

// Tick advances every agent by dt.
func (s *Simulator) Tick(agents []*Agent, dt float64) {
	s.snapshot(agents)
	switch s.schedule {
	case InPlace:
		s.tickInPlace(agents, dt)
	default:
		s.tickSnapshot(agents, dt)
	}
	s.ticks++
	s.logger.Debugf("tick %d: %d agents advanced by %.4f (%s)", s.ticks, len(agents), dt, s.schedule)
}

// Retune points every agent holding from at to and returns how many changed.
// Call it between ticks.
func (s *Simulator) Retune(agents []*Agent, from, to *Params) int {
	changed := 0
	for _, a := range agents {
		if a.Params == from {
			a.Params = to
			changed++
		}
	}
	return changed
}

func (s *Simulator) snapshot(agents []*Agent) {
	if cap(s.states) < len(agents) {
		s.states = make([]State, len(agents))
		s.accels = make([]geometry.Vector2D, len(agents))
	}
	s.states = s.states[:len(agents)]
	s.accels = s.accels[:len(agents)]
	for i, a := range agents {
		s.states[i] = a.State()
	}
}

func (s *Simulator) tickSnapshot(agents []*Agent, dt float64) {
	s.index.Build(s.states)

	// Each worker owns a contiguous range of slots in s.accels, nothing else is written.
	chunk := (len(agents) + s.workers - 1) / s.workers
	var g errgroup.Group
	for start := 0; start < len(agents); start += chunk {
		end := min(start+chunk, len(agents))
		g.Go(func() error {
			s.steerRange(start, end)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	for i, a := range agents {
		a.Acceleration = s.accels[i]
		Integrate(a, dt)
	}
}

func (s *Simulator) steerRange(start, end int) {
	var (
		ids       []int
		neighbors []State
	)
	for i := start; i < end; i++ {
		ids = s.index.NeighborsWithin(s.states, i, s.states[i].Params.NeighborhoodRadius, ids)
		neighbors = neighbors[:0]
		for _, j := range ids {
			neighbors = append(neighbors, s.states[j])
		}
		s.accels[i] = Acceleration(s.states[i], neighbors)
	}
}

func (s *Simulator) tickInPlace(agents []*Agent, dt float64) {
	var (
		scan      BruteForce
		ids       []int
		neighbors []State
	)
	for i, a := range agents {
		ids = scan.NeighborsWithin(s.states, i, s.states[i].Params.NeighborhoodRadius, ids)
		neighbors = neighbors[:0]
		for _, j := range ids {
			neighbors = append(neighbors, s.states[j])
		}
		a.Acceleration = Acceleration(s.states[i], neighbors)
		Integrate(a, dt)
		// later agents of this tick read the moved state
		s.states[i] = a.State()
	}
}
