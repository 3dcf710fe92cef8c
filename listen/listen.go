// listen/listen.go

// Package listen routes polled input events to callbacks bound to elements.
//
// Two registries exist side by side. Mouse listeners form one flat list and
// fire when a pointer event of a triggering kind lands inside the element's
// last computed rect. Layer listeners are kept per layer and fire on an exact
// event type match, optionally filtered by a Condition.
package listen

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/waozixyz/veng/render"
	"github.com/waozixyz/veng/tree"
)

var (
	ErrNilElement  = errors.New("nil element")
	ErrNilLayer    = errors.New("nil layer")
	ErrNilCallback = errors.New("nil callback")
	ErrNilListener = errors.New("nil listener")
)

// Callback is invoked synchronously from the dispatching goroutine.
type Callback func(el *tree.Element, ev render.Event)

// Condition filters a layer listener. It returns 0 to let the callback run;
// any other value suppresses it.
type Condition func(el *tree.Element, ev render.Event) int

// Handle identifies a registration for later removal.
type Handle uint64

// MouseTrigger selects the pointer event kinds a mouse listener reacts to.
type MouseTrigger struct {
	Motion     bool
	ButtonDown bool
	ButtonUp   bool
	Wheel      bool
}

func NewMouseTrigger(motion, buttonDown, buttonUp, wheel bool) MouseTrigger {
	return MouseTrigger{Motion: motion, ButtonDown: buttonDown, ButtonUp: buttonUp, Wheel: wheel}
}

// Matches reports whether t reacts to events of type et.
func (t MouseTrigger) Matches(et render.EventType) bool {
	switch et {
	case render.EventMouseMotion:
		return t.Motion
	case render.EventMouseButtonDown:
		return t.ButtonDown
	case render.EventMouseButtonUp:
		return t.ButtonUp
	case render.EventMouseWheel:
		return t.Wheel
	}
	return false
}

// MouseListener is a hit-tested registration. The element is referenced,
// not owned.
type MouseListener struct {
	Element  *tree.Element
	Callback Callback
	Trigger  MouseTrigger

	handle Handle
}

func (m *MouseListener) Handle() Handle { return m.handle }

// Listener is a typed registration held by a layer. Element is passed to
// the callback and the condition; it is not hit-tested and may be nil.
type Listener struct {
	Trigger   render.EventType
	Callback  Callback
	Condition Condition
	Element   *tree.Element

	handle Handle
}

// NewListener builds a layer listener. cond may be nil.
func NewListener(trigger render.EventType, cb Callback, cond Condition, el *tree.Element) (*Listener, error) {
	if cb == nil {
		return nil, fmt.Errorf("NewListener: %w", ErrNilCallback)
	}
	return &Listener{Trigger: trigger, Callback: cb, Condition: cond, Element: el}, nil
}

func (l *Listener) Handle() Handle { return l.handle }

// TextInput is the part of a host that toggles text-input mode.
type TextInput interface {
	StartTextInput()
	StopTextInput()
}

// Registry holds every listener of the active screen plus the keyboard
// capture state. It is not safe for concurrent use.
type Registry struct {
	log  *slog.Logger
	text TextInput

	mouse  []*MouseListener
	layers map[*tree.Layer][]*Listener
	next   Handle
	// gen counts resets; dispatch of an event stops once it changes.
	gen uint64

	keyboard  *KeyboardBuffer
	listening bool
}

// NewRegistry returns an empty registry. text may be nil, in which case
// keyboard listening only gates the buffer.
func NewRegistry(logger *slog.Logger, text TextInput) *Registry {
	return &Registry{
		log:    logger,
		text:   text,
		layers: make(map[*tree.Layer][]*Listener),
	}
}

func (r *Registry) logger() *slog.Logger {
	if r.log == nil {
		return slog.Default()
	}
	return r.log
}

// SetTextInput replaces the host used to toggle text-input mode.
func (r *Registry) SetTextInput(text TextInput) { r.text = text }

func (r *Registry) nextHandle() Handle {
	r.next++
	return r.next
}

// AddMouseListener registers cb on el. Registering the same element twice
// creates two independent entries.
func (r *Registry) AddMouseListener(el *tree.Element, cb Callback, trigger MouseTrigger) (Handle, error) {
	if el == nil {
		r.logger().Warn("AddMouseListener: rejected", "err", ErrNilElement)
		return 0, fmt.Errorf("AddMouseListener: %w", ErrNilElement)
	}
	if cb == nil {
		r.logger().Warn("AddMouseListener: rejected", "element", el.Name, "err", ErrNilCallback)
		return 0, fmt.Errorf("AddMouseListener: %w", ErrNilCallback)
	}
	m := &MouseListener{Element: el, Callback: cb, Trigger: trigger, handle: r.nextHandle()}
	r.mouse = append(r.mouse, m)
	r.logger().Debug("AddMouseListener", "element", el.Name, "handle", m.handle)
	return m.handle, nil
}

// RemoveMouseListener drops the registration h. Order of the rest is kept.
func (r *Registry) RemoveMouseListener(h Handle) bool {
	i := slices.IndexFunc(r.mouse, func(m *MouseListener) bool { return m.handle == h })
	if i < 0 {
		return false
	}
	r.mouse = slices.Delete(r.mouse, i, i+1)
	return true
}

// MouseListeners returns a snapshot of the mouse registry in dispatch order.
func (r *Registry) MouseListeners() []*MouseListener { return slices.Clone(r.mouse) }

// AddLayerListener appends l to the listener list of layer.
func (r *Registry) AddLayerListener(layer *tree.Layer, l *Listener) (Handle, error) {
	if layer == nil {
		r.logger().Warn("AddLayerListener: rejected", "err", ErrNilLayer)
		return 0, fmt.Errorf("AddLayerListener: %w", ErrNilLayer)
	}
	if l == nil {
		r.logger().Warn("AddLayerListener: rejected", "layer", layer.Name, "err", ErrNilListener)
		return 0, fmt.Errorf("AddLayerListener: %w", ErrNilListener)
	}
	if l.Callback == nil {
		return 0, fmt.Errorf("AddLayerListener: %w", ErrNilCallback)
	}
	l.handle = r.nextHandle()
	r.layers[layer] = append(r.layers[layer], l)
	r.logger().Debug("AddLayerListener", "layer", layer.Name, "trigger", l.Trigger, "handle", l.handle)
	return l.handle, nil
}

// RemoveLayerListener drops the registration h from layer.
func (r *Registry) RemoveLayerListener(layer *tree.Layer, h Handle) bool {
	list := r.layers[layer]
	i := slices.IndexFunc(list, func(l *Listener) bool { return l.handle == h })
	if i < 0 {
		return false
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		delete(r.layers, layer)
	} else {
		r.layers[layer] = list
	}
	return true
}

// LayerListeners returns a snapshot of layer's listeners in dispatch order.
func (r *Registry) LayerListeners(layer *tree.Layer) []*Listener {
	return slices.Clone(r.layers[layer])
}

// Listen feeds ev to the keyboard buffer and to every mouse listener. It
// returns the number of callbacks invoked.
//
// Rects are read at dispatch time, so listeners see the rects of the last
// layout pass. Hidden elements carry the sentinel rect and never match.
func (r *Registry) Listen(ev render.Event) int {
	if ev.Type == render.EventTextInput {
		r.captureText(ev.Text)
	}
	if !ev.Type.IsPointer() {
		return 0
	}

	fired := 0
	gen := r.gen
	// Callbacks may register or remove listeners.
	for _, m := range slices.Clone(r.mouse) {
		if r.gen != gen {
			break
		}
		if !m.Trigger.Matches(ev.Type) {
			continue
		}
		if !m.Element.Rect().ContainsPoint(ev.Pos) {
			continue
		}
		m.Callback(m.Element, ev)
		fired++
	}
	return fired
}

// ListenLayer runs the listeners of layer whose trigger equals ev.Type and
// whose condition, if any, returns 0.
func (r *Registry) ListenLayer(ev render.Event, layer *tree.Layer) (int, error) {
	if layer == nil {
		r.logger().Warn("ListenLayer: rejected", "err", ErrNilLayer)
		return 0, fmt.Errorf("ListenLayer: %w", ErrNilLayer)
	}
	fired := 0
	gen := r.gen
	for _, l := range slices.Clone(r.layers[layer]) {
		if r.gen != gen {
			break
		}
		if l.Trigger != ev.Type {
			continue
		}
		if l.Condition != nil && l.Condition(l.Element, ev) != 0 {
			continue
		}
		l.Callback(l.Element, ev)
		fired++
	}
	return fired, nil
}

// ListenScreen runs ListenLayer for every layer of screen in stacking order.
func (r *Registry) ListenScreen(ev render.Event, screen *tree.Screen) (int, error) {
	if screen == nil {
		return 0, fmt.Errorf("ListenScreen: %w", tree.ErrNilNode)
	}
	fired := 0
	gen := r.gen
	for _, layer := range screen.Layers().All() {
		if r.gen != gen {
			break
		}
		n, err := r.ListenLayer(ev, layer)
		if err != nil {
			return fired, err
		}
		fired += n
	}
	return fired, nil
}

// Generation changes on every Reset. A dispatcher compares it before and
// after running callbacks to tell whether the registry was replaced.
func (r *Registry) Generation() uint64 { return r.gen }

// Reset clears both registries and detaches the keyboard buffer. It is
// called whenever the active screen changes. An event being dispatched
// when Reset runs reaches no further listener.
func (r *Registry) Reset() {
	r.gen++
	r.mouse = nil
	clear(r.layers)
	r.keyboard = nil
	if r.listening {
		r.StopKeyboard()
	}
}
