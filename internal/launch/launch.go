// Package launch is the shared main of the binaries: flags, logging, host
// selection and the frame loop.
package launch

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/waozixyz/veng/config"
	"github.com/waozixyz/veng/internal/app"
	"github.com/waozixyz/veng/render"
	"github.com/waozixyz/veng/render/raylib"
	"github.com/waozixyz/veng/render/soft"
)

// NewHost returns the in-memory host in headless mode and a raylib window
// otherwise.
func NewHost(cfg config.Config, logger *slog.Logger) render.Host {
	if cfg.Headless {
		return soft.NewHost(logger)
	}
	return raylib.NewRaylibRenderer(logger)
}

// Main parses args, runs scene and returns the process exit code. title
// replaces the default window title. An interrupt stops the frame loop;
// in a window the -config file is watched for changes.
func Main(name, title string, args []string, scene app.Scene) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [-config app.toml] [-headless -frames N -snapshot out.png]\n", name)
		fs.PrintDefaults()
	}
	cfg, err := app.ParseFlags(fs, args)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 2
	}
	if title != "" && cfg.Window.Title == render.DefaultWindowConfig().Title {
		cfg.Window.Title = title
	}

	logger := app.NewLogger(os.Stderr, cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	opts := []app.Option{app.WithContext(ctx)}
	if path := fs.Lookup("config").Value.String(); path != "" && !cfg.Headless {
		reload, err := config.Watch(ctx, path, logger)
		if err != nil {
			logger.Warn(name+": config not watched", "err", err)
		} else {
			opts = append(opts, app.WithReload(Retitle(reload, title)))
		}
	}

	if err := app.Run(NewHost(cfg, logger), cfg, logger, scene, opts...); err != nil {
		logger.Error(name+": exiting", "err", err)
		return 1
	}
	return 0
}

// Retitle forwards every config from in, replacing the default window title
// with title the way Main does at startup. An empty title forwards as is.
func Retitle(in <-chan config.Config, title string) <-chan config.Config {
	if title == "" {
		return in
	}
	out := make(chan config.Config, 1)
	go func() {
		defer close(out)
		for c := range in {
			if c.Window.Title == render.DefaultWindowConfig().Title {
				c.Window.Title = title
			}
			out <- c
		}
	}()
	return out
}
