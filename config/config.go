// config/config.go

// Package config loads application settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/waozixyz/veng/render"
)

var (
	ErrUnknownFormat = errors.New("unknown config format")
	ErrInvalid       = errors.New("invalid config")
)

// Config is the application configuration.
type Config struct {
	Window Window `toml:"window" yaml:"window"`
	// FPS is the target frame rate of the frame loop.
	FPS int `toml:"fps" yaml:"fps"`
	// Headless runs on the in-memory host instead of opening a window.
	Headless bool `toml:"headless" yaml:"headless"`
	// Frames bounds the number of frames in headless mode; 0 runs until quit.
	Frames int `toml:"frames" yaml:"frames"`
	// Snapshot is a PNG path written after the last headless frame.
	Snapshot string `toml:"snapshot" yaml:"snapshot"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

type Window struct {
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	Title     string `toml:"title" yaml:"title"`
	Icon      string `toml:"icon" yaml:"icon"`
	Resizable bool   `toml:"resizable" yaml:"resizable"`
	// Background is a hex color such as "#1e1e2e".
	Background string `toml:"background" yaml:"background"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	wc := render.DefaultWindowConfig()
	return Config{
		Window: Window{
			Width:      wc.Width,
			Height:     wc.Height,
			Title:      wc.Title,
			Resizable:  wc.Resizable,
			Background: "#000000",
		},
		FPS:      wc.FPS,
		LogLevel: "info",
	}
}

type format int

const (
	formatTOML format = iota + 1
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Load reads path over the defaults. The decoder is picked from the file
// extension. Keys missing from the file keep their default values.
func Load(path string) (Config, error) {
	config := Default()

	f, err := formatOf(path)
	if err != nil {
		return config, fmt.Errorf("Load %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch f {
	case formatTOML:
		err = toml.Unmarshal(data, &config)
	case formatYAML:
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("Load %s: %w", path, err)
	}
	return config, nil
}

// Save writes the configuration to path in the format of its extension.
func (c Config) Save(path string) error {
	f, err := formatOf(path)
	if err != nil {
		return fmt.Errorf("Save %s: %w", path, err)
	}

	var data []byte
	switch f {
	case formatTOML:
		data, err = toml.Marshal(c)
	case formatYAML:
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("%w: frames %d", ErrInvalid, c.Frames))
	}
	if _, err := c.Background(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Background parses the window background color. An empty value is black.
func (c Config) Background() (color.RGBA, error) {
	if c.Window.Background == "" {
		return color.RGBA{A: 255}, nil
	}
	col, err := colorful.Hex(c.Window.Background)
	if err != nil {
		return color.RGBA{A: 255}, fmt.Errorf("%w: background %q: %w", ErrInvalid, c.Window.Background, err)
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// SlogLevel parses LogLevel. An empty value is info.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return level, nil
}

// WindowConfig converts the window section for a render.Host. An invalid
// background falls back to black; call Validate first to catch it.
func (c Config) WindowConfig() render.WindowConfig {
	bg, _ := c.Background()
	return render.WindowConfig{
		Width:     c.Window.Width,
		Height:    c.Window.Height,
		Title:     c.Window.Title,
		Resizable: c.Window.Resizable,
		FPS:       c.FPS,
		DefaultBg: bg,
	}
}
