package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid flock configuration")

const schemaURL = "flock.schema.json"

//go:embed flock.schema.json
var schemaSource []byte

// Species is a group of agents sharing one set of Params.
type Species struct {
	Name   string       `json:"name"`
	Count  int          `json:"count"`
	Params flock.Params `json:"params"`
}

// Display holds presentation settings, the simulation never reads them.
type Display struct {
	PixelsPerUnit float64 `json:"pixelsPerUnit,omitempty"`
	MinScale      float64 `json:"minScale,omitempty"` // random per boid render scale, lower bound
	MaxScale      float64 `json:"maxScale,omitempty"`
	ShowRadii     bool    `json:"showRadii,omitempty"` // draw neighborhood and separation circles
}

type Config struct {
	// Random source for initial placement and headings
	Seed uint64 `json:"seed,omitempty"`

	// Agents are spawned inside this rectangle, centred on the origin
	SpawnWidth  float64 `json:"spawnWidth,omitempty"`
	SpawnHeight float64 `json:"spawnHeight,omitempty"`

	// Simulator
	SpatialIndex string `json:"spatialIndex,omitempty"` // brute, grid or rtree
	Schedule     string `json:"schedule,omitempty"`     // snapshot or in-place
	Workers      int    `json:"workers,omitempty"`      // 0 means one per CPU
	TickRate     int    `json:"tickRate,omitempty"`     // ticks per second

	Species []Species `json:"species"`
	Display Display   `json:"display"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:         1,
		SpawnWidth:   20,
		SpawnHeight:  15,
		SpatialIndex: "grid",
		Schedule:     "snapshot",
		TickRate:     60,
		Species: []Species{
			{Name: "fish", Count: 150, Params: flock.DefaultParams()},
		},
		Display: Display{
			PixelsPerUnit: 24,
			MinScale:      0.6,
			MaxScale:      1.4,
		},
	}
}

// DeltaTime returns the duration of one tick in seconds.
func (c *Config) DeltaTime() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float64(c.TickRate)
}

type compiledSchemas struct {
	config *jsonschema.Schema
	params *jsonschema.Schema
}

var schemas = sync.OnceValues(func() (compiledSchemas, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
		return compiledSchemas{}, fmt.Errorf("failed to add embedded schema: %w", err)
	}
	cfg, err := c.Compile(schemaURL)
	if err != nil {
		return compiledSchemas{}, fmt.Errorf("failed to compile schema: %w", err)
	}
	params, err := c.Compile(schemaURL + "#/$defs/params")
	if err != nil {
		return compiledSchemas{}, fmt.Errorf("failed to compile params schema: %w", err)
	}
	return compiledSchemas{config: cfg, params: params}, nil
})

// Load reads a JSON configuration file and validates it against the embedded schema.
// Fields missing from the file keep their DefaultConfig value.
func Load(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(b)
}

// LoadWithSchema is Load with an additional, external schema the file must also satisfy.
func LoadWithSchema(configFile string, schemaFile string) (*Config, error) {
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	doc, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return Parse(b)
}

// Parse validates and decodes a JSON configuration document.
func Parse(data []byte) (*Config, error) {
	s, err := schemas()
	if err != nil {
		return nil, err
	}
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := s.config.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := DefaultConfig()
	cfg.Species = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.fitScaleDefaults(doc)
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a configuration built in code with the same rules as a file.
func (c *Config) Validate() error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	s, err := schemas()
	if err != nil {
		return err
	}
	doc, err := decode(b)
	if err != nil {
		return err
	}
	if err := s.config.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c.check()
}

// ParseParams validates and decodes a single params object, as sent for a live retune.
func ParseParams(data []byte) (flock.Params, error) {
	s, err := schemas()
	if err != nil {
		return flock.Params{}, err
	}
	doc, err := decode(data)
	if err != nil {
		return flock.Params{}, err
	}
	if err := s.params.Validate(doc); err != nil {
		return flock.Params{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	var p flock.Params
	if err := json.Unmarshal(data, &p); err != nil {
		return flock.Params{}, fmt.Errorf("failed to unmarshal params: %w", err)
	}
	return p, nil
}

// check holds the rules a JSON schema cannot express.
func (c *Config) check() error {
	seen := make(map[string]bool, len(c.Species))
	for _, s := range c.Species {
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate species %q", ErrInvalidConfig, s.Name)
		}
		seen[s.Name] = true
	}
	if c.TickRate < 1 {
		return fmt.Errorf("%w: tickRate %d is below 1", ErrInvalidConfig, c.TickRate)
	}
	if c.Display.MinScale > c.Display.MaxScale {
		return fmt.Errorf("%w: display minScale %v is above maxScale %v",
			ErrInvalidConfig, c.Display.MinScale, c.Display.MaxScale)
	}
	return nil
}

// fitScaleDefaults stops a default scale bound from contradicting the one the
// document sets: a lone maxScale pulls the default minScale down to it, a lone
// minScale pushes the default maxScale up.
func (c *Config) fitScaleDefaults(doc any) {
	root, _ := doc.(map[string]any)
	display, _ := root["display"].(map[string]any)
	_, hasMin := display["minScale"]
	_, hasMax := display["maxScale"]
	switch {
	case hasMax && !hasMin:
		c.Display.MinScale = min(c.Display.MinScale, c.Display.MaxScale)
	case hasMin && !hasMax:
		c.Display.MaxScale = max(c.Display.MaxScale, c.Display.MinScale)
	}
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: failed to decode json: %w", ErrInvalidConfig, err)
	}
	return v, nil
}
