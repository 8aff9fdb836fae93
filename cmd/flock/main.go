package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/config"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

const (
	screenWidth  = 1024
	screenHeight = 768
)

func main() {
	configFile := flag.String("config", "", "Flock configuration (json); built-in defaults when empty")
	schemaFile := flag.String("schema", "", "Extra json schema the configuration must also satisfy")
	headless := flag.Bool("headless", false, "Run without a window and log the flock centroid")
	ticks := flag.Int("ticks", 600, "Number of ticks to run in headless mode")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := golog.InfoLevel
	if *debug {
		level = golog.DebugLevel
	}
	logger := golog.New(level, os.Stdout)

	cfg, err := loadConfig(*configFile, *schemaFile)
	if err != nil {
		log.Fatalf("💥 error loading config: %v", err)
	}

	if *headless {
		if err := runHeadless(cfg, *ticks, logger); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx := context.Background()
	engine, err := simulation.Start(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("💥 error starting simulation: %v", err)
	}
	defer engine.Stop(ctx)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Flock")
	ebiten.SetTPS(cfg.TickRate)
	if err := ebiten.RunGame(NewGame(ctx, engine, cfg)); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(configFile, schemaFile string) (*config.Config, error) {
	switch {
	case configFile == "":
		return config.DefaultConfig(), nil
	case schemaFile != "":
		return config.LoadWithSchema(configFile, schemaFile)
	default:
		return config.Load(configFile)
	}
}

// runHeadless steps the world directly, without the actor system.
func runHeadless(cfg *config.Config, ticks int, logger golog.Logger) error {
	world, err := simulation.NewWorld(cfg, logger)
	if err != nil {
		return err
	}
	dt := cfg.DeltaTime()
	for i := 1; i <= ticks; i++ {
		world.Step(dt)
		if i%cfg.TickRate == 0 || i == ticks {
			snap := world.Snapshot()
			logger.Infof("tick %d: centroid %s", snap.Tick, snap.Centroid)
		}
	}
	return nil
}
