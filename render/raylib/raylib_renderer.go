// render/raylib/raylib_renderer.go
package raylib

import (
	"fmt"
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/waozixyz/veng/geom"
	"github.com/waozixyz/veng/render"
)

// RaylibRenderer implements render.Host with the Raylib graphics library.
// It owns the window, translates Raylib's polled input state into
// render.Events and maps viewports onto scissor mode plus a 2D camera.
type RaylibRenderer struct {
	log    *slog.Logger
	config render.WindowConfig

	images   []*rl.Image
	viewport geom.Rect
	scissor  bool

	events    []render.Event
	pumped    bool
	lastMouse geom.Point
	keysDown  map[int32]struct{}
	textInput bool
	quitSent  bool
}

var _ render.Host = (*RaylibRenderer)(nil)

// NewRaylibRenderer creates a renderer with no window; Init opens it.
func NewRaylibRenderer(logger *slog.Logger) *RaylibRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &RaylibRenderer{
		log:      logger,
		keysDown: make(map[int32]struct{}),
	}
}

// Init opens the Raylib window according to the provided configuration.
func (r *RaylibRenderer) Init(config render.WindowConfig) error {
	r.config = config
	if config.FPS <= 0 {
		r.config.FPS = render.DefaultFPS
	}

	r.log.Info("RaylibRenderer Init: initializing window",
		"width", config.Width, "height", config.Height, "title", config.Title)

	rl.SetTraceLogLevel(rl.LogWarning)
	if config.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(config.Width), int32(config.Height), config.Title)
	if !rl.IsWindowReady() {
		return fmt.Errorf("RaylibRenderer Init: rl.InitWindow failed or window is not ready")
	}
	if !config.Resizable {
		rl.ClearWindowState(rl.FlagWindowResizable)
	}
	// The engine paces frames itself.
	rl.SetTargetFPS(0)

	pos := rl.GetMousePosition()
	r.lastMouse = geom.Point{X: int32(pos.X), Y: int32(pos.Y)}
	r.quitSent = false
	r.log.Info("RaylibRenderer Init: window is ready")
	return nil
}

// Cleanup unloads every loaded image and closes the window.
func (r *RaylibRenderer) Cleanup() {
	for _, img := range r.images {
		rl.UnloadImage(img)
	}
	r.log.Info("RaylibRenderer Cleanup: unloaded images", "count", len(r.images))
	r.images = nil
	r.events = nil

	if rl.IsWindowReady() {
		r.log.Info("RaylibRenderer Cleanup: closing window")
		rl.CloseWindow()
	} else {
		r.log.Info("RaylibRenderer Cleanup: window was already closed or not initialized")
	}
}

// ShouldClose returns true if the window has been signaled to close.
func (r *RaylibRenderer) ShouldClose() bool {
	return rl.IsWindowReady() && rl.WindowShouldClose()
}

func (r *RaylibRenderer) DrawableSize() (w, h int32) {
	if !rl.IsWindowReady() {
		return 0, 0
	}
	return int32(rl.GetRenderWidth()), int32(rl.GetRenderHeight())
}

func (r *RaylibRenderer) SetTitle(title string) {
	r.config.Title = title
	if rl.IsWindowReady() {
		rl.SetWindowTitle(title)
	}
}

// SetIcon sets the window icon. Only surfaces from LoadSurface are accepted.
func (r *RaylibRenderer) SetIcon(icon render.Surface) {
	if icon == nil {
		return
	}
	s, ok := icon.(*Surface)
	if !ok || s.img == nil {
		r.log.Warn("SetIcon: surface was not loaded by the raylib renderer", "type", fmt.Sprintf("%T", icon))
		return
	}
	if rl.IsWindowReady() {
		rl.SetWindowIcon(*s.img)
	}
}

// Surface is an image held in CPU memory by Raylib.
type Surface struct {
	img *rl.Image
}

func (s *Surface) Size() (w, h int32) {
	if s.img == nil {
		return 0, 0
	}
	return s.img.Width, s.img.Height
}

// LoadSurface loads an image file. The image stays loaded until Cleanup.
func (r *RaylibRenderer) LoadSurface(path string) (render.Surface, error) {
	img := rl.LoadImage(path)
	if img == nil || img.Width == 0 || img.Height == 0 {
		return nil, fmt.Errorf("LoadSurface: failed to load image '%s'", path)
	}
	r.images = append(r.images, img)
	r.log.Debug("LoadSurface", "path", path, "width", img.Width, "height", img.Height)
	return &Surface{img: img}, nil
}

func (r *RaylibRenderer) full() geom.Rect {
	w, h := r.DrawableSize()
	return geom.NewRect(0, 0, w, h)
}

func (r *RaylibRenderer) Viewport() geom.Rect {
	if r.viewport == (geom.Rect{}) {
		return r.full()
	}
	return r.viewport
}

// SetViewport clips drawing to v with scissor mode and shifts the origin
// to v's corner with a 2D camera. Must be called between BeginFrame and
// EndFrame.
func (r *RaylibRenderer) SetViewport(v geom.Rect) {
	r.endViewport()
	r.viewport = v
	if v == (geom.Rect{}) {
		return
	}
	rl.BeginScissorMode(v.X, v.Y, v.W, v.H)
	rl.BeginMode2D(rl.Camera2D{Offset: rl.NewVector2(float32(v.X), float32(v.Y)), Zoom: 1})
	r.scissor = true
}

func (r *RaylibRenderer) endViewport() {
	if !r.scissor {
		return
	}
	rl.EndMode2D()
	rl.EndScissorMode()
	r.scissor = false
}

// BeginFrame prepares Raylib for a new frame of drawing.
func (r *RaylibRenderer) BeginFrame() {
	rl.BeginDrawing()
	rl.ClearBackground(r.config.DefaultBg)
	r.viewport = geom.Rect{}
}

// EndFrame finalizes the drawing for the current frame. Raylib refreshes
// its input state here, so the next PollEvent sees new input.
func (r *RaylibRenderer) EndFrame() {
	r.endViewport()
	r.viewport = geom.Rect{}
	rl.EndDrawing()
	r.pumped = false
}

func (r *RaylibRenderer) FillRect(rect geom.Rect, c color.RGBA) {
	if rect.Empty() {
		return
	}
	rl.DrawRectangle(rect.X, rect.Y, rect.W, rect.H, c)
}

// StartTextInput enables text events. Raylib has no platform text-input
// mode, so this only gates GetCharPressed.
func (r *RaylibRenderer) StartTextInput() { r.textInput = true }
func (r *RaylibRenderer) StopTextInput()  { r.textInput = false }

// PollEvent returns the next event of the current frame. Raylib exposes
// input as per-frame state, so the first call after EndFrame converts that
// state into a queue.
func (r *RaylibRenderer) PollEvent() (render.Event, bool) {
	if !r.pumped {
		r.pump()
		r.pumped = true
	}
	if len(r.events) == 0 {
		return render.Event{}, false
	}
	ev := r.events[0]
	r.events = r.events[1:]
	return ev, true
}

var mouseButtons = [...]struct {
	rl  rl.MouseButton
	btn render.MouseButton
}{
	{rl.MouseButtonLeft, render.ButtonLeft},
	{rl.MouseButtonMiddle, render.ButtonMiddle},
	{rl.MouseButtonRight, render.ButtonRight},
}

func (r *RaylibRenderer) pump() {
	if !rl.IsWindowReady() {
		return
	}
	if rl.WindowShouldClose() && !r.quitSent {
		r.events = append(r.events, render.Event{Type: render.EventQuit})
		r.quitSent = true
	}
	if rl.IsWindowResized() {
		r.events = append(r.events, render.Event{Type: render.EventWindowResized})
	}

	pos := rl.GetMousePosition()
	mouse := geom.Point{X: int32(pos.X), Y: int32(pos.Y)}
	if mouse != r.lastMouse {
		r.events = append(r.events, render.Event{Type: render.EventMouseMotion, Pos: mouse})
		r.lastMouse = mouse
	}
	for _, b := range mouseButtons {
		if rl.IsMouseButtonPressed(b.rl) {
			r.events = append(r.events, render.Event{Type: render.EventMouseButtonDown, Pos: mouse, Button: b.btn})
		}
		if rl.IsMouseButtonReleased(b.rl) {
			r.events = append(r.events, render.Event{Type: render.EventMouseButtonUp, Pos: mouse, Button: b.btn})
		}
	}
	if wheel := rl.GetMouseWheelMoveV(); wheel.X != 0 || wheel.Y != 0 {
		r.events = append(r.events, render.Event{Type: render.EventMouseWheel, Pos: mouse, WheelX: wheel.X, WheelY: wheel.Y})
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		r.keysDown[key] = struct{}{}
		r.events = append(r.events, render.Event{Type: render.EventKeyDown, Key: key})
	}
	for key := range r.keysDown {
		if rl.IsKeyReleased(key) {
			delete(r.keysDown, key)
			r.events = append(r.events, render.Event{Type: render.EventKeyUp, Key: key})
		}
	}

	// Drain the char queue even when text input is off so stale characters
	// do not leak into the next text session.
	for ch := rl.GetCharPressed(); ch != 0; ch = rl.GetCharPressed() {
		if r.textInput {
			r.events = append(r.events, render.Event{Type: render.EventTextInput, Text: string(rune(ch))})
		}
	}
}
