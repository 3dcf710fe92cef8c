package engine

import (
	"fmt"
	"time"

	"github.com/waozixyz/veng/render"
)

// DrawFunc draws the active screen after its layout has been resolved.
type DrawFunc func(e *Engine)

// Stop makes Run return after the current frame.
func (e *Engine) Stop() { e.stopped = true }

// Run executes frames until a quit event arrives, the host asks to close
// or Stop is called.
func (e *Engine) Run(draw DrawFunc) error {
	return e.run(0, draw)
}

// RunFrames executes at most n frames; n <= 0 behaves like Run.
func (e *Engine) RunFrames(n int, draw DrawFunc) error {
	return e.run(n, draw)
}

func (e *Engine) run(limit int, draw DrawFunc) error {
	if err := e.notStarted("Run"); err != nil {
		return err
	}
	if e.screen == nil {
		return fmt.Errorf("Run: %w", ErrNoScreen)
	}
	e.stopped = false
	e.log.Info("Run: entering main loop", "fps", e.fps, "frames", limit)

	frames := 0
	for e.started && !e.stopped && !e.host.ShouldClose() {
		if limit > 0 && frames >= limit {
			break
		}
		if e.Frame(draw) {
			break
		}
		frames++
	}
	e.log.Info("Run: exiting", "frames", frames)
	return nil
}

// Frame runs one iteration: poll and dispatch every pending event, clear,
// resolve layout, draw, present, then sleep what is left of the frame
// interval. It reports whether a quit event was seen. On an engine that is
// not started, or that a callback destroyed, it does nothing and reports
// quit.
func (e *Engine) Frame(draw DrawFunc) (quit bool) {
	if err := e.notStarted("Frame"); err != nil {
		return true
	}
	start := e.now()

	for e.started {
		ev, ok := e.host.PollEvent()
		if !ok {
			break
		}
		if ev.Type == render.EventQuit {
			quit = true
			continue
		}
		if _, err := e.Dispatch(ev); err != nil {
			e.log.Error("Frame: dispatch failed", "event", ev, "err", err)
		}
	}
	if !e.started {
		e.log.Info("Frame: engine destroyed during dispatch")
		return true
	}
	if quit || e.stopped {
		return quit
	}

	e.host.BeginFrame()
	// Layout errors leave the affected subtree hidden; the frame still draws.
	if err := e.Prepare(); err != nil {
		e.log.Debug("Frame: layout incomplete", "err", err)
	}
	if draw != nil {
		draw(e)
	}
	if !e.started {
		return true
	}
	e.host.EndFrame()

	if wait := e.frameInterval() - e.now().Sub(start); wait > 0 {
		e.sleep(wait)
	}
	return false
}

// FPS returns the frame rate targeted by Run.
func (e *Engine) FPS() int { return e.fps }

// SetFPS changes the target frame rate from the next frame on. Non-positive
// values are ignored.
func (e *Engine) SetFPS(fps int) {
	if fps <= 0 {
		e.log.Warn("SetFPS: ignored", "fps", fps)
		return
	}
	e.fps = fps
}

func (e *Engine) frameInterval() time.Duration {
	return time.Second / time.Duration(e.fps)
}
