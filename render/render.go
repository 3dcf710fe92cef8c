// render/render.go

// Package render defines what the library needs from a native windowing and
// 2D rendering backend. Backends live in sub-packages.
package render

import (
	"image/color"

	"github.com/waozixyz/veng/geom"
)

const (
	DefaultFPS = 60
)

// Surface is an opaque image handle produced by Host.LoadSurface.
type Surface interface {
	// Size returns the pixel size of the image.
	Size() (w, h int32)
}

// WindowConfig holds the settings a host needs to open its window.
type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	FPS       int
	DefaultBg color.RGBA
}

// DefaultWindowConfig returns the configuration used when none is given.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     800,
		Height:    600,
		Title:     "veng",
		Resizable: true,
		FPS:       DefaultFPS,
		DefaultBg: color.RGBA{R: 0, G: 0, B: 0, A: 255},
	}
}

// Host is the windowing/rendering backend contract.
type Host interface {
	// Init creates the window and renderer pair.
	Init(config WindowConfig) error

	// Cleanup releases loaded surfaces and destroys the window. It must be
	// safe to call when Init failed or was never called.
	Cleanup()

	// ShouldClose reports whether the user asked to close the window.
	ShouldClose() bool

	// DrawableSize returns the current drawable area in pixels.
	DrawableSize() (w, h int32)

	SetTitle(title string)
	SetIcon(icon Surface)

	// LoadSurface loads an image file into an opaque handle.
	LoadSurface(path string) (Surface, error)

	// Viewport returns the rect subsequent drawing is constrained to.
	Viewport() geom.Rect

	// SetViewport constrains drawing to r and makes r's origin the drawing
	// origin. The zero Rect restores the full drawable area.
	SetViewport(r geom.Rect)

	// PollEvent pops the next pending input event.
	PollEvent() (Event, bool)

	// StartTextInput and StopTextInput toggle the host's text-input mode.
	StartTextInput()
	StopTextInput()

	// BeginFrame clears the frame; EndFrame presents it.
	BeginFrame()
	EndFrame()

	// FillRect fills r, in viewport coordinates, with c.
	FillRect(r geom.Rect, c color.RGBA)
}
