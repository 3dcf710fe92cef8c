// render/soft/soft.go

// Package soft is a headless render.Host that draws into an in-memory RGBA
// image. Input comes from a scripted queue filled with Push.
package soft

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"

	"golang.org/x/image/draw"

	// Decoders for LoadSurface besides PNG.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/waozixyz/veng/geom"
	"github.com/waozixyz/veng/render"
)

// IconSize is the edge of the square the window icon is scaled to.
const IconSize = 32

var (
	ErrNotInitialized = errors.New("soft host not initialized")
	ErrWindowSize     = errors.New("invalid window size")
	ErrNotSoftSurface = errors.New("surface not loaded by the soft host")
)

// Surface is an image loaded by the soft host.
type Surface struct {
	img image.Image
}

// NewSurface wraps an already decoded image.
func NewSurface(img image.Image) *Surface { return &Surface{img: img} }

func (s *Surface) Size() (w, h int32) {
	b := s.img.Bounds()
	return int32(b.Dx()), int32(b.Dy())
}

func (s *Surface) Image() image.Image { return s.img }

// Host implements render.Host on an *image.RGBA canvas.
type Host struct {
	log    *slog.Logger
	config render.WindowConfig

	canvas   *image.RGBA
	viewport geom.Rect
	events   []render.Event

	title     string
	icon      *image.RGBA
	textInput bool
	closing   bool
	presented int
}

var _ render.Host = (*Host)(nil)

// NewHost returns a host with no canvas; Init allocates it.
func NewHost(logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{log: logger}
}

func (h *Host) Init(config render.WindowConfig) error {
	if config.Width <= 0 || config.Height <= 0 {
		return fmt.Errorf("Init: %w: %dx%d", ErrWindowSize, config.Width, config.Height)
	}
	h.config = config
	h.canvas = image.NewRGBA(image.Rect(0, 0, config.Width, config.Height))
	h.viewport = geom.Rect{}
	h.title = config.Title
	h.closing = false
	h.log.Info("soft host initialized", "width", config.Width, "height", config.Height, "title", config.Title)
	return nil
}

func (h *Host) Cleanup() {
	if h.canvas == nil {
		return
	}
	h.canvas = nil
	h.icon = nil
	h.events = nil
	h.log.Info("soft host cleaned up", "frames", h.presented)
}

// ShouldClose reports whether RequestClose was called.
func (h *Host) ShouldClose() bool { return h.closing }

// RequestClose makes ShouldClose return true, like a window close button.
func (h *Host) RequestClose() { h.closing = true }

func (h *Host) DrawableSize() (w, hh int32) {
	if h.canvas == nil {
		return 0, 0
	}
	b := h.canvas.Bounds()
	return int32(b.Dx()), int32(b.Dy())
}

// Resize replaces the canvas and queues a resize event.
func (h *Host) Resize(w, hh int) error {
	if h.canvas == nil {
		return fmt.Errorf("Resize: %w", ErrNotInitialized)
	}
	if w <= 0 || hh <= 0 {
		return fmt.Errorf("Resize: %w: %dx%d", ErrWindowSize, w, hh)
	}
	h.canvas = image.NewRGBA(image.Rect(0, 0, w, hh))
	h.viewport = geom.Rect{}
	h.Push(render.Event{Type: render.EventWindowResized})
	return nil
}

func (h *Host) SetTitle(title string) { h.title = title }
func (h *Host) Title() string         { return h.title }

// SetIcon scales icon to IconSize x IconSize. Surfaces from other hosts
// are ignored.
func (h *Host) SetIcon(icon render.Surface) {
	s, ok := icon.(*Surface)
	if !ok || s == nil {
		if icon != nil {
			h.log.Warn("SetIcon: ignored", "err", ErrNotSoftSurface)
		}
		h.icon = nil
		return
	}
	dst := image.NewRGBA(image.Rect(0, 0, IconSize, IconSize))
	draw.BiLinear.Scale(dst, dst.Bounds(), s.img, s.img.Bounds(), draw.Src, nil)
	h.icon = dst
}

// Icon returns the scaled window icon, or nil.
func (h *Host) Icon() *image.RGBA { return h.icon }

// LoadSurface decodes a PNG, BMP or WebP file.
func (h *Host) LoadSurface(path string) (render.Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadSurface: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("LoadSurface %s: %w", path, err)
	}
	h.log.Debug("LoadSurface", "path", path, "format", format, "size", img.Bounds().Size())
	return &Surface{img: img}, nil
}

func (h *Host) full() geom.Rect {
	w, hh := h.DrawableSize()
	return geom.NewRect(0, 0, w, hh)
}

// Viewport returns the active viewport, the full canvas when none is set.
func (h *Host) Viewport() geom.Rect {
	if h.viewport == (geom.Rect{}) {
		return h.full()
	}
	return h.viewport
}

func (h *Host) SetViewport(r geom.Rect) { h.viewport = r }

// Push appends events to the input queue.
func (h *Host) Push(events ...render.Event) { h.events = append(h.events, events...) }

func (h *Host) PollEvent() (render.Event, bool) {
	if len(h.events) == 0 {
		return render.Event{}, false
	}
	ev := h.events[0]
	h.events = h.events[1:]
	return ev, true
}

func (h *Host) StartTextInput()       { h.textInput = true }
func (h *Host) StopTextInput()        { h.textInput = false }
func (h *Host) TextInputActive() bool { return h.textInput }

// BeginFrame clears the whole canvas to the configured background.
func (h *Host) BeginFrame() {
	if h.canvas == nil {
		return
	}
	h.viewport = geom.Rect{}
	draw.Draw(h.canvas, h.canvas.Bounds(), image.NewUniform(h.config.DefaultBg), image.Point{}, draw.Src)
}

func (h *Host) EndFrame() { h.presented++ }

// Frames returns the number of presented frames.
func (h *Host) Frames() int { return h.presented }

// clip maps r from viewport to canvas coordinates and clips it to the
// viewport and the canvas.
func (h *Host) clip(r geom.Rect) (dst, clip image.Rectangle) {
	vp := h.Viewport()
	abs := image.Rect(int(vp.X+r.X), int(vp.Y+r.Y), int(vp.X+r.Right()), int(vp.Y+r.Bottom()))
	clip = image.Rect(int(vp.X), int(vp.Y), int(vp.Right()), int(vp.Bottom())).Intersect(h.canvas.Bounds())
	return abs, clip
}

func (h *Host) FillRect(r geom.Rect, c color.RGBA) {
	if h.canvas == nil || r.Empty() {
		return
	}
	dst, clip := h.clip(r)
	draw.Draw(h.canvas, dst.Intersect(clip), image.NewUniform(c), image.Point{}, draw.Over)
}

// DrawSurface scales s into r, in viewport coordinates.
func (h *Host) DrawSurface(s *Surface, r geom.Rect) {
	if h.canvas == nil || s == nil || r.Empty() {
		return
	}
	dst, clip := h.clip(r)
	sub, ok := h.canvas.SubImage(clip).(*image.RGBA)
	if !ok || sub.Bounds().Empty() {
		return
	}
	draw.BiLinear.Scale(sub, dst, s.img, s.img.Bounds(), draw.Over, nil)
}

// Image returns the canvas. It is replaced by Init and Resize.
func (h *Host) Image() *image.RGBA { return h.canvas }

// At returns the canvas pixel at (x, y).
func (h *Host) At(x, y int) color.RGBA {
	if h.canvas == nil {
		return color.RGBA{}
	}
	return h.canvas.RGBAAt(x, y)
}

// SavePNG writes the canvas to path.
func (h *Host) SavePNG(path string) error {
	if h.canvas == nil {
		return fmt.Errorf("SavePNG: %w", ErrNotInitialized)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("SavePNG: %w", err)
	}
	if err := png.Encode(f, h.canvas); err != nil {
		f.Close()
		return fmt.Errorf("SavePNG: %w", err)
	}
	return f.Close()
}
