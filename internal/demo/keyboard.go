package demo

import (
	"image/color"

	"github.com/waozixyz/veng/engine"
	"github.com/waozixyz/veng/geom"
	"github.com/waozixyz/veng/listen"
	"github.com/waozixyz/veng/render"
	"github.com/waozixyz/veng/tree"
)

const (
	KeyboardTitle = "Keyboard"
	// FieldLimit is the capacity of the text field in bytes.
	FieldLimit = 32
)

var (
	fieldBg     = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	fieldFocus  = color.RGBA{R: 255, G: 255, B: 210, A: 255}
	fieldText   = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	keyboardBg  = color.RGBA{R: 40, G: 44, B: 52, A: 255}
	keyboardKey = color.RGBA{R: 80, G: 86, B: 100, A: 255}
)

type keyboard struct {
	e        *engine.Engine
	field    *tree.Element
	panel    *tree.Element
	keys     *tree.Element
	layer    *tree.Layer
	buf      *listen.KeyboardBuffer
	editing  bool
	finished string
}

// Keyboard builds a text field on the screen and an on-screen keyboard
// panel on its own layer. Clicking the field starts keyboard listening and
// shows the panel; Enter or Escape stops it, Backspace edits the buffer.
// The fill of the field is proportional to the typed length.
func Keyboard(e *engine.Engine) (engine.DrawFunc, error) {
	screen, err := tree.NewScreen(KeyboardTitle, nil, tree.MustLayout(tree.Vertical, tree.Center, tree.Top), 1, 1)
	if err != nil {
		return nil, err
	}
	k := &keyboard{e: e, buf: listen.NewKeyboardBuffer(FieldLimit)}
	leftTop := tree.MustLayout(tree.Horizontal, tree.Left, tree.Top)
	if k.field, err = element("field", 0.8, 0.2, leftTop, 0); err != nil {
		return nil, err
	}
	if err := screen.AddElement(k.field); err != nil {
		return nil, err
	}

	if k.layer, err = tree.NewLayer(tree.MustLayout(tree.Vertical, tree.Center, tree.Bottom), 1); err != nil {
		return nil, err
	}
	k.layer.Name = "keyboard"
	if k.panel, err = element("keyboard_panel", 1, 0.4, tree.MustLayout(tree.Horizontal, tree.Center, tree.Center), 1); err != nil {
		return nil, err
	}
	if k.keys, err = element("keys", 0.9, 0.7, leftTop, 0); err != nil {
		return nil, err
	}
	if err := k.panel.AddElement(k.keys); err != nil {
		return nil, err
	}
	k.panel.SetVisible(false)
	if err := k.layer.AddElement(k.panel); err != nil {
		return nil, err
	}
	if err := screen.AddLayer(k.layer); err != nil {
		return nil, err
	}

	if err := e.SetScreen(screen); err != nil {
		return nil, err
	}
	if err := e.AttachKeyboardBuffer(k.buf); err != nil {
		return nil, err
	}

	if _, err := e.AddMouseListener(k.field, func(*tree.Element, render.Event) {
		k.start()
	}, listen.NewMouseTrigger(false, true, false, false)); err != nil {
		return nil, err
	}

	keyDown, err := listen.NewListener(render.EventKeyDown, k.onKey, k.whileEditing, k.field)
	if err != nil {
		return nil, err
	}
	typed, err := listen.NewListener(render.EventTextInput, func(el *tree.Element, ev render.Event) {
		e.Logger().Debug("typed", "element", el.Name, "text", ev.Text, "len", k.buf.Len())
	}, k.whileEditing, k.field)
	if err != nil {
		return nil, err
	}
	for _, l := range []*listen.Listener{keyDown, typed} {
		if _, err := e.AddLayerListener(k.layer, l); err != nil {
			return nil, err
		}
	}
	return k.draw, nil
}

func (k *keyboard) whileEditing(*tree.Element, render.Event) int {
	if k.e.KeyboardIsListening() {
		return 0
	}
	return 1
}

func (k *keyboard) start() {
	if k.editing {
		return
	}
	if err := k.e.KeyboardStartListening(); err != nil {
		k.e.Logger().Warn("keyboard: cannot start", "err", err)
		return
	}
	k.editing = true
	k.panel.SetVisible(true)
}

func (k *keyboard) stop() {
	if err := k.e.KeyboardStopListening(); err != nil {
		k.e.Logger().Warn("keyboard: cannot stop", "err", err)
	}
	k.editing = false
	k.panel.SetVisible(false)
	k.finished = k.buf.String()
	k.e.Logger().Info("keyboard: input finished", "text", k.finished)
}

func (k *keyboard) onKey(_ *tree.Element, ev render.Event) {
	switch ev.Key {
	case render.KeyBackspace:
		k.buf.Backspace()
	case render.KeyEnter, render.KeyEscape:
		k.stop()
	}
}

func (k *keyboard) draw(e *engine.Engine) {
	host := e.Driver()
	bg := fieldBg
	if k.editing {
		bg = fieldFocus
	}
	host.FillRect(k.field.Rect(), bg)

	if area, prev, err := e.StartDrawing(k.field); err == nil {
		if n := k.buf.Len(); n > 0 {
			w := area.W * int32(n) / int32(k.buf.Limit())
			host.FillRect(geom.NewRect(0, 0, max(1, w), area.H), fieldText)
		}
		e.StopDrawing(prev)
	}

	if k.panel.Visible() {
		host.FillRect(k.panel.Rect(), keyboardBg)
		host.FillRect(k.keys.Rect(), keyboardKey)
	}
}
