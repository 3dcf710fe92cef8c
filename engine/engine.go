// engine/engine.go

// Package engine ties a render.Host, the active screen, the layout resolver
// and the listener registry together. One Engine replaces what would
// otherwise be process-wide state; nothing here is global.
//
// Typical use:
//
//	host := soft.NewHost(nil)
//	_ = host.Init(render.DefaultWindowConfig())
//	e := engine.New()
//	_ = e.Init(host)
//	_ = e.SetScreen(screen)
//	_ = e.Run(draw)
//	e.Destroy(true)
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/waozixyz/veng/geom"
	"github.com/waozixyz/veng/layout"
	"github.com/waozixyz/veng/listen"
	"github.com/waozixyz/veng/render"
	"github.com/waozixyz/veng/tree"
)

var (
	ErrNotStarted = errors.New("engine not started")
	ErrNoDriver   = errors.New("no driver")
	ErrNilScreen  = errors.New("nil screen")
	ErrNoScreen   = errors.New("no active screen")
	ErrHidden     = errors.New("element is hidden")
)

// Engine is not safe for concurrent use. Tree mutation, layout and dispatch
// all happen on the goroutine running the frame loop.
type Engine struct {
	log *slog.Logger

	host    render.Host
	started bool
	screen  *tree.Screen

	resolver  *layout.Resolver
	listeners *listen.Registry

	fps     int
	stopped bool
	now     func() time.Time
	sleep   func(time.Duration)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes diagnostics to l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithFPS sets the frame rate targeted by Run.
func WithFPS(fps int) Option {
	return func(e *Engine) {
		if fps > 0 {
			e.fps = fps
		}
	}
}

// New returns an engine that is not started yet.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:   slog.Default(),
		fps:   render.DefaultFPS,
		now:   time.Now,
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resolver = layout.NewResolver(e.log)
	e.listeners = listen.NewRegistry(e.log, nil)
	return e
}

// Init starts the engine on an already initialized host.
func (e *Engine) Init(host render.Host) error {
	if host == nil {
		e.log.Error("Init: cannot start", "err", ErrNoDriver)
		return fmt.Errorf("Init: %w", ErrNoDriver)
	}
	if e.started {
		e.log.Warn("Init: engine already started, replacing driver")
	}
	e.host = host
	e.listeners.SetTextInput(host)
	e.started = true
	e.stopped = false
	e.log.Info("Init: engine started", "fps", e.fps)
	return nil
}

// Destroy stops the engine and forgets the screen and every listener. When
// closeHost is true the host is cleaned up as well.
func (e *Engine) Destroy(closeHost bool) {
	if !e.started {
		return
	}
	e.listeners.Reset()
	e.listeners.SetTextInput(nil)
	e.screen = nil
	if closeHost {
		e.host.Cleanup()
	}
	e.host = nil
	e.started = false
	e.log.Info("Destroy: engine stopped", "host_closed", closeHost)
}

func (e *Engine) HasStarted() bool { return e.started }

// Logger returns the logger the engine reports to.
func (e *Engine) Logger() *slog.Logger { return e.log }

// notStarted logs and returns ErrNotStarted when the engine is not running.
func (e *Engine) notStarted(op string) error {
	if e.started {
		return nil
	}
	e.log.Warn(op+": rejected", "err", ErrNotStarted)
	return fmt.Errorf("%s: %w", op, ErrNotStarted)
}

// SetDriver swaps the host of a running engine.
func (e *Engine) SetDriver(host render.Host) error {
	if err := e.notStarted("SetDriver"); err != nil {
		return err
	}
	if host == nil {
		return fmt.Errorf("SetDriver: %w", ErrNoDriver)
	}
	e.host = host
	e.listeners.SetTextInput(host)
	if e.screen != nil {
		e.applyScreen(e.screen)
	}
	return nil
}

// Driver returns the current host, or nil before Init.
func (e *Engine) Driver() render.Host { return e.host }

// SetScreen makes s the active screen, applies its title and icon to the
// window and drops every listener of the previous screen.
func (e *Engine) SetScreen(s *tree.Screen) error {
	if err := e.notStarted("SetScreen"); err != nil {
		return err
	}
	if s == nil {
		e.log.Warn("SetScreen: rejected", "err", ErrNilScreen)
		return fmt.Errorf("SetScreen: %w", ErrNilScreen)
	}
	e.screen = s
	e.applyScreen(s)
	e.listeners.Reset()
	e.log.Debug("SetScreen", "title", s.Title)
	return nil
}

func (e *Engine) applyScreen(s *tree.Screen) {
	e.host.SetTitle(s.Title)
	if s.Icon != nil {
		e.host.SetIcon(s.Icon)
	}
}

// Screen returns the active screen, or nil.
func (e *Engine) Screen() *tree.Screen { return e.screen }

// Viewport returns the full drawable area of the host.
func (e *Engine) Viewport() geom.Rect {
	if e.host == nil {
		return geom.Rect{}
	}
	w, h := e.host.DrawableSize()
	return geom.NewRect(0, 0, w, h)
}

// LoadSurface loads an image through the host, typically a screen icon.
func (e *Engine) LoadSurface(path string) (render.Surface, error) {
	if err := e.notStarted("LoadSurface"); err != nil {
		return nil, err
	}
	return e.host.LoadSurface(path)
}

// Prepare resolves the active screen against the current viewport.
func (e *Engine) Prepare() error {
	if err := e.notStarted("Prepare"); err != nil {
		return err
	}
	if e.screen == nil {
		return fmt.Errorf("Prepare: %w", ErrNoScreen)
	}
	return e.resolver.ResolveScreen(e.screen, e.Viewport())
}

// PrepareScreen resolves s, which need not be the active screen.
func (e *Engine) PrepareScreen(s *tree.Screen) error {
	if err := e.notStarted("PrepareScreen"); err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("PrepareScreen: %w", ErrNilScreen)
	}
	return e.resolver.ResolveScreen(s, e.Viewport())
}

// PrepareLayer resolves a single layer against the viewport.
func (e *Engine) PrepareLayer(l *tree.Layer) error {
	if err := e.notStarted("PrepareLayer"); err != nil {
		return err
	}
	if l == nil {
		return fmt.Errorf("PrepareLayer: %w", listen.ErrNilLayer)
	}
	return e.resolver.ResolveLayer(l, e.Viewport())
}

// StartDrawing constrains drawing to el's rect. It returns the drawing
// area as seen from inside el, {0, 0, w, h}, and the viewport to hand back
// to StopDrawing.
func (e *Engine) StartDrawing(el *tree.Element) (local, prev geom.Rect, err error) {
	if err := e.notStarted("StartDrawing"); err != nil {
		return geom.Rect{}, geom.Rect{}, err
	}
	if el == nil {
		return geom.Rect{}, geom.Rect{}, fmt.Errorf("StartDrawing: %w", listen.ErrNilElement)
	}
	r := el.Rect()
	if r.IsHidden() {
		return geom.Rect{}, geom.Rect{}, fmt.Errorf("StartDrawing %s: %w", el.Name, ErrHidden)
	}
	prev = e.host.Viewport()
	e.host.SetViewport(r)
	return r.Local(), prev, nil
}

// StopDrawing restores the viewport returned by StartDrawing.
func (e *Engine) StopDrawing(prev geom.Rect) {
	if e.host == nil {
		return
	}
	if prev == e.Viewport() {
		prev = geom.Rect{}
	}
	e.host.SetViewport(prev)
}
