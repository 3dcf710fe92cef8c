package engine

import (
	"github.com/waozixyz/veng/listen"
	"github.com/waozixyz/veng/render"
	"github.com/waozixyz/veng/tree"
)

// Listeners exposes the registry of the active screen.
func (e *Engine) Listeners() *listen.Registry { return e.listeners }

func (e *Engine) AddMouseListener(el *tree.Element, cb listen.Callback, trigger listen.MouseTrigger) (listen.Handle, error) {
	if err := e.notStarted("AddMouseListener"); err != nil {
		return 0, err
	}
	return e.listeners.AddMouseListener(el, cb, trigger)
}

func (e *Engine) RemoveMouseListener(h listen.Handle) bool {
	return e.listeners.RemoveMouseListener(h)
}

func (e *Engine) AddLayerListener(layer *tree.Layer, l *listen.Listener) (listen.Handle, error) {
	if err := e.notStarted("AddLayerListener"); err != nil {
		return 0, err
	}
	return e.listeners.AddLayerListener(layer, l)
}

func (e *Engine) RemoveLayerListener(layer *tree.Layer, h listen.Handle) bool {
	return e.listeners.RemoveLayerListener(layer, h)
}

// Listen runs the mouse listeners and keyboard capture for ev.
func (e *Engine) Listen(ev render.Event) (int, error) {
	if err := e.notStarted("Listen"); err != nil {
		return 0, err
	}
	return e.listeners.Listen(ev), nil
}

func (e *Engine) ListenLayer(ev render.Event, layer *tree.Layer) (int, error) {
	if err := e.notStarted("ListenLayer"); err != nil {
		return 0, err
	}
	return e.listeners.ListenLayer(ev, layer)
}

func (e *Engine) ListenScreen(ev render.Event, s *tree.Screen) (int, error) {
	if err := e.notStarted("ListenScreen"); err != nil {
		return 0, err
	}
	return e.listeners.ListenScreen(ev, s)
}

// Dispatch routes ev to the mouse listeners and then to the layer
// listeners of the active screen. It returns the number of callbacks run.
// A callback that changes the screen or destroys the engine ends the
// dispatch of ev.
func (e *Engine) Dispatch(ev render.Event) (int, error) {
	gen := e.listeners.Generation()
	n, err := e.Listen(ev)
	if err != nil || e.screen == nil || e.listeners.Generation() != gen {
		return n, err
	}
	m, err := e.listeners.ListenScreen(ev, e.screen)
	return n + m, err
}

func (e *Engine) AttachKeyboardBuffer(buf *listen.KeyboardBuffer) error {
	if err := e.notStarted("AttachKeyboardBuffer"); err != nil {
		return err
	}
	e.listeners.AttachKeyboardBuffer(buf)
	return nil
}

func (e *Engine) KeyboardStartListening() error {
	if err := e.notStarted("KeyboardStartListening"); err != nil {
		return err
	}
	e.listeners.StartKeyboard()
	return nil
}

func (e *Engine) KeyboardStopListening() error {
	if err := e.notStarted("KeyboardStopListening"); err != nil {
		return err
	}
	e.listeners.StopKeyboard()
	return nil
}

func (e *Engine) KeyboardIsListening() bool { return e.listeners.KeyboardListening() }

// ResetListeners drops every listener and the keyboard state.
func (e *Engine) ResetListeners() { e.listeners.Reset() }
