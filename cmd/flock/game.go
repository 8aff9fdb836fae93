package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/config"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	background = color.RGBA{R: 10, G: 10, B: 30, A: 255}

	// one colour per species, in config order
	palette = []color.RGBA{
		{R: 100, G: 200, B: 255, A: 255},
		{R: 255, G: 90, B: 70, A: 255},
		{R: 120, G: 230, B: 120, A: 255},
		{R: 240, G: 200, B: 60, A: 255},
		{R: 200, G: 120, B: 255, A: 255},
	}
)

func init() {
	whiteImage.Fill(color.White)
}

// Game is a read-only view of the engine: it asks for one tick per frame and
// draws the latest snapshot, centred on the flock.
type Game struct {
	ctx       context.Context
	engine    *simulation.Engine
	display   config.Display
	dt        time.Duration
	lastState *simulation.Snapshot

	colors map[string]color.RGBA
	scales map[string]float64 // render scale of each boid, drawn once
	rng    *rand.Rand

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64
}

func NewGame(ctx context.Context, engine *simulation.Engine, cfg *config.Config) *Game {
	colors := make(map[string]color.RGBA)
	for i, name := range engine.Species() {
		colors[name] = palette[i%len(palette)]
	}
	return &Game{
		ctx:       ctx,
		engine:    engine,
		display:   cfg.Display,
		dt:        time.Duration(cfg.DeltaTime() * float64(time.Second)),
		lastState: &simulation.Snapshot{}, // Avoid nil pointer
		colors:    colors,
		scales:    make(map[string]float64),
		rng:       rand.New(rand.NewPCG(cfg.Seed, 0)),
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	select {
	case snap := <-g.engine.Snapshots():
		g.lastState = snap
	default:
		// Use previous state if new one isn't ready
	}

	if err := g.engine.Tick(g.ctx, g.dt); err != nil {
		log.Printf("tick not delivered: %v", err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)
	for i := range g.lastState.Boids {
		g.drawBoid(screen, &g.lastState.Boids[i])
	}

	msg := fmt.Sprintf("Tick: %d\nBoids: %d\nCentroid: %s\n\nFPS: %.2f\nTPS: %.2f\nUpdate: %.2fms\nDraw:   %.2fms",
		g.lastState.Tick,
		len(g.lastState.Boids),
		g.lastState.Centroid,
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)
}

func (g *Game) Layout(w, h int) (int, int) { return screenWidth, screenHeight }

// toScreen maps world units to pixels with the centroid at the centre of the
// window. World y grows upwards.
func (g *Game) toScreen(p geometry.Vector2D) geometry.Vector2D {
	rel := p.Sub(g.lastState.Centroid).Mul(g.display.PixelsPerUnit)
	return geometry.Vector2D{X: screenWidth/2 + rel.X, Y: screenHeight/2 - rel.Y}
}

func (g *Game) scaleOf(id string) float64 {
	s, ok := g.scales[id]
	if !ok {
		s = g.display.MinScale + g.rng.Float64()*(g.display.MaxScale-g.display.MinScale)
		g.scales[id] = s
	}
	return s
}

func (g *Game) drawBoid(screen *ebiten.Image, b *simulation.BoidView) {
	clr := g.colors[b.Species]
	center := g.toScreen(b.Position)

	if g.display.ShowRadii {
		ppu := float32(g.display.PixelsPerUnit)
		faint := color.RGBA{R: clr.R, G: clr.G, B: clr.B, A: 60}
		vector.StrokeCircle(screen, float32(center.X), float32(center.Y),
			float32(b.NeighborhoodRadius)*ppu, 1, faint, true)
		vector.StrokeCircle(screen, float32(center.X), float32(center.Y),
			float32(b.SeparationRadius)*ppu, 1, clr, true)
	}

	// screen y points down, so the heading is mirrored
	angle := -b.Heading
	scale := g.scaleOf(b.ID)
	nose := geometry.NewVector(6*scale, 0)
	wing := geometry.NewVector(5*scale, 0)
	tip := center.Add(nose.Rotate(angle))
	right := center.Add(wing.Rotate(angle + 2.5))
	left := center.Add(wing.Rotate(angle - 2.5))

	r, gr, bl := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255
	vertices := make([]ebiten.Vertex, 0, 3)
	for _, p := range []geometry.Vector2D{tip, right, left} {
		vertices = append(vertices, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: gr, ColorB: bl, ColorA: 1,
		})
	}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2}, whiteImage, &ebiten.DrawTrianglesOptions{})
}
