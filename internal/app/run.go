// internal/app/run.go
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/waozixyz/veng/config"
	"github.com/waozixyz/veng/engine"
	"github.com/waozixyz/veng/render"
	// Hosts are injected by the binaries; none is imported here.
)

// Scene builds the screen of an application on a started engine, makes it
// active and registers its listeners. The returned DrawFunc runs every frame.
type Scene func(e *engine.Engine) (engine.DrawFunc, error)

// Snapshotter is implemented by hosts that can save their last frame.
type Snapshotter interface {
	SavePNG(path string) error
}

// ParseFlags reads the command line into a Config. A -config file is
// loaded first; the other flags override it when given.
func ParseFlags(fs *flag.FlagSet, args []string) (config.Config, error) {
	configPath := fs.String("config", "", "Path to a TOML or YAML config file")
	headless := fs.Bool("headless", false, "Render into memory instead of opening a window")
	frames := fs.Int("frames", 0, "Stop after this many frames (0 runs until quit)")
	snapshot := fs.String("snapshot", "", "Write the last frame to this PNG file (headless only)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "headless":
			cfg.Headless = *headless
		case "frames":
			cfg.Frames = *frames
		case "snapshot":
			cfg.Snapshot = *snapshot
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	return cfg, cfg.Validate()
}

// NewLogger returns a text logger writing to w at the configured level.
func NewLogger(w io.Writer, cfg config.Config) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	ctx    context.Context
	reload <-chan config.Config
}

// WithContext stops the frame loop once ctx is done.
func WithContext(ctx context.Context) Option {
	return func(o *runOptions) { o.ctx = ctx }
}

// WithReload applies configs received on ch between frames. Only the frame
// rate and the window title can change while running.
func WithReload(ch <-chan config.Config) Option {
	return func(o *runOptions) { o.reload = ch }
}

// Run is the core application logic, independent of the specific host.
// It opens the host, runs scene on a fresh engine and tears both down.
func Run(host render.Host, cfg config.Config, logger *slog.Logger, scene Scene, opts ...Option) error {
	if host == nil {
		return fmt.Errorf("Run: %w", engine.ErrNoDriver)
	}
	if scene == nil {
		return errors.New("Run: nil scene")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := host.Init(cfg.WindowConfig()); err != nil {
		host.Cleanup()
		return fmt.Errorf("failed to initialize host: %w", err)
	}

	e := engine.New(engine.WithLogger(logger), engine.WithFPS(cfg.FPS))
	if err := e.Init(host); err != nil {
		host.Cleanup()
		return err
	}
	defer e.Destroy(true)

	draw, err := scene(e)
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	if e.Screen() == nil {
		return fmt.Errorf("Run: scene set no screen: %w", engine.ErrNoScreen)
	}

	if cfg.Window.Icon != "" && e.Screen().Icon == nil {
		icon, err := e.LoadSurface(cfg.Window.Icon)
		if err != nil {
			logger.Warn("Run: icon not loaded", "path", cfg.Window.Icon, "err", err)
		} else {
			e.Screen().Icon = icon
			host.SetIcon(icon)
		}
	}

	o := runOptions{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	draw = o.wrap(draw, logger)

	frames := cfg.Frames
	if cfg.Headless && frames == 0 {
		// Nothing can close a headless host.
		frames = 1
	}
	logger.Info("Entering main loop...", "headless", cfg.Headless, "frames", frames)
	if err := e.RunFrames(frames, draw); err != nil {
		return err
	}

	if cfg.Snapshot != "" {
		s, ok := host.(Snapshotter)
		if !ok {
			logger.Warn("Run: host cannot save snapshots", "path", cfg.Snapshot)
			return nil
		}
		if err := s.SavePNG(cfg.Snapshot); err != nil {
			return err
		}
		logger.Info("Run: snapshot written", "path", cfg.Snapshot)
	}
	logger.Info("Exiting.")
	return nil
}

// wrap runs the per-frame housekeeping before draw.
func (o runOptions) wrap(draw engine.DrawFunc, logger *slog.Logger) engine.DrawFunc {
	return func(e *engine.Engine) {
		if err := o.ctx.Err(); err != nil {
			logger.Info("Run: stopping", "reason", err)
			e.Stop()
		}
		select {
		case c, ok := <-o.reload:
			if ok {
				applyReload(e, c, logger)
			}
		default:
		}
		if draw != nil {
			draw(e)
		}
	}
}

func applyReload(e *engine.Engine, c config.Config, logger *slog.Logger) {
	e.SetFPS(c.FPS)
	if s := e.Screen(); s != nil && c.Window.Title != "" && c.Window.Title != s.Title {
		s.Title = c.Window.Title
		e.Driver().SetTitle(s.Title)
	}
	logger.Debug("Run: reload applied", "fps", c.FPS, "title", c.Window.Title)
}
