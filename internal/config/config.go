// Package config handles engine configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all engine settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Engine   EngineConfig   `yaml:"engine"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FOV        float32    `yaml:"fov"` // Vertical field of view in degrees
	ClearColor [3]float32 `yaml:"clear_color"`

	// Sun position in degrees
	SunAzimuth   float32 `yaml:"sun_azimuth"`
	SunElevation float32 `yaml:"sun_elevation"`
}

// EngineConfig holds object manager settings.
type EngineConfig struct {
	// Strict panics on programmer errors (capacity overflow, stale handles)
	// instead of logging and rejecting the call.
	Strict bool `yaml:"strict"`

	// Capacities of the built-in demo meshes.
	CubeCapacity     int `yaml:"cube_capacity"`
	SphereCapacity   int `yaml:"sphere_capacity"`
	ParticleCapacity int `yaml:"particle_capacity"`
	GridCapacity     int `yaml:"grid_capacity"`
}

// AssetsConfig holds external model files and output paths.
type AssetsConfig struct {
	Models        []ModelConfig `yaml:"models"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
}

// ModelConfig declares one OBJ model and how many instances it may have.
type ModelConfig struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Capacity int    `yaml:"capacity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        60,
			ClearColor: [3]float32{0.05, 0.05, 0.08},

			SunAzimuth:   35,
			SunElevation: 55,
		},
		Engine: EngineConfig{
			Strict:           false,
			CubeCapacity:     400,
			SphereCapacity:   64,
			ParticleCapacity: 5000,
			GridCapacity:     1,
		},
		Assets: AssetsConfig{
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that would otherwise fail deep inside the engine.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid resolution %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FOV <= 0 || c.Graphics.FOV >= 180 {
		errs = append(errs, fmt.Errorf("graphics: fov %.1f out of range (0, 180)", c.Graphics.FOV))
	}
	if c.Graphics.SunElevation < -90 || c.Graphics.SunElevation > 90 {
		errs = append(errs, fmt.Errorf("graphics: sun_elevation %.1f out of range [-90, 90]", c.Graphics.SunElevation))
	}
	capacities := map[string]int{
		"cube_capacity":     c.Engine.CubeCapacity,
		"sphere_capacity":   c.Engine.SphereCapacity,
		"particle_capacity": c.Engine.ParticleCapacity,
		"grid_capacity":     c.Engine.GridCapacity,
	}
	for name, n := range capacities {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("engine: %s must be > 0, got %d", name, n))
		}
	}
	for i, m := range c.Assets.Models {
		if m.Path == "" {
			errs = append(errs, fmt.Errorf("assets: model %d (%q) has no path", i, m.Name))
		}
		if m.Capacity <= 0 {
			errs = append(errs, fmt.Errorf("assets: model %d (%q) capacity must be > 0", i, m.Name))
		}
	}
	return errors.Join(errs...)
}
