// Package game implements the demo frame loop on top of the engine.
package game

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tachyon/internal/config"
	"github.com/Faultbox/tachyon/internal/engine/camera"
	"github.com/Faultbox/tachyon/internal/engine/debug"
	"github.com/Faultbox/tachyon/internal/engine/input"
	"github.com/Faultbox/tachyon/internal/engine/lighting"
	"github.com/Faultbox/tachyon/internal/engine/picking"
	"github.com/Faultbox/tachyon/internal/engine/renderer"
	"github.com/Faultbox/tachyon/internal/engine/window"
	"github.com/Faultbox/tachyon/internal/logger"
	"github.com/Faultbox/tachyon/pkg/math"
)

const (
	nearPlane = 0.1
	farPlane  = 1000.0
)

// Game is the main game instance.
type Game struct {
	config      *config.Config
	running     bool
	window      *window.Window
	renderer    *renderer.Renderer
	input       *input.Input
	camera      *camera.OrbitCamera
	world       *World
	screenshots *debug.ScreenshotCapture
}

// New creates the window, the world and the renderer.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("strict", cfg.Engine.Strict),
	)

	g := &Game{
		config:      cfg,
		camera:      camera.NewOrbitCamera(),
		screenshots: debug.NewScreenshotCapture(cfg.Assets.ScreenshotDir, "tachyon"),
	}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      "Tachyon",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	g.world, err = NewWorld(cfg)
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create world: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := g.window.GetSize()
	g.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		VSync:      cfg.Graphics.VSync,
		ClearColor: cfg.Graphics.ClearColor,
	}, g.world.Objects())
	if err != nil {
		g.world.Close()
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New()
	g.camera.FitToBounds(g.world.Bounds())

	logger.Info("game initialized successfully")
	return g, nil
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		if err := g.handleEvents(); err != nil {
			return err
		}

		// 2. Update world state; all commits finish before rendering
		if err := g.world.Update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render
		stats, err := g.renderer.RenderFrame(g.frame())
		if err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 4. Present (swap buffers)
		g.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float32("dtMs", dt*1000),
				zap.Int("commands", stats.Commands),
				zap.Int("instances", stats.Instances),
				zap.Int("triangles", stats.Triangles))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) handleEvents() error {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.renderer.Resize(event.Width, event.Height)
		case input.EventMouseMove:
			if g.input.IsButtonDown(sdl.BUTTON_LEFT) {
				g.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}
		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_RIGHT {
				if err := g.pick(event.MouseX, event.MouseY); err != nil {
					return err
				}
			}
		case input.EventMouseWheel:
			g.camera.HandleZoom(event.Wheel)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
			case sdl.SCANCODE_F1:
				if err := g.world.SetGridVisible(!g.world.GridVisible()); err != nil {
					return err
				}
			case sdl.SCANCODE_F12:
				g.screenshot()
			}
		}
	}

	var forward, right, up float32
	if g.input.IsKeyDown(sdl.SCANCODE_W) {
		forward++
	}
	if g.input.IsKeyDown(sdl.SCANCODE_S) {
		forward--
	}
	if g.input.IsKeyDown(sdl.SCANCODE_D) {
		right++
	}
	if g.input.IsKeyDown(sdl.SCANCODE_A) {
		right--
	}
	if g.input.IsKeyDown(sdl.SCANCODE_E) {
		up++
	}
	if g.input.IsKeyDown(sdl.SCANCODE_Q) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		g.camera.HandleMovement(forward, right, up)
	}
	return nil
}

func (g *Game) frame() renderer.Frame {
	fov := g.config.Graphics.FOV * math32.Pi / 180
	return renderer.Frame{
		View:       g.camera.ViewMatrix(),
		Projection: math.Perspective(fov, g.renderer.Aspect(), nearPlane, farPlane),
		CameraPos:  g.camera.Position(),
		LightDir:   lighting.LightDirection(g.config.Graphics.SunAzimuth, g.config.Graphics.SunElevation),
		Ambient:    math.Vec3{X: 0.15, Y: 0.15, Z: 0.18},
	}
}

// pick removes the object under the cursor.
func (g *Game) pick(x, y int) error {
	f := g.frame()
	width, height := g.window.GetSize()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(width), float32(height), f.ViewProj().Inverse())
	_, _, err := g.world.RemovePicked(ray)
	return err
}

func (g *Game) screenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	if _, err := g.screenshots.CaptureFromPixels(pixels, w, h); err != nil {
		logger.Error("screenshot failed", zap.Error(err))
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	logger.Info("closing game")

	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.world != nil {
		g.world.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
