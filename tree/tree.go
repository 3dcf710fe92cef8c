// tree/tree.go

// Package tree models the screen → layer → element hierarchy that the
// layout engine resolves every frame.
//
//	Screen
//	├─ Title, icon
//	├─ Layout + Elements        (elements placed directly on the screen)
//	└─ Layers
//	   ├─ Layer 1 (main view)
//	   │  ├─ Layout
//	   │  └─ Elements ...
//	   └─ Layer 2 (on-screen keyboard)
//	      ├─ Layout
//	      └─ Elements ...
//
// The tree is strict: every node has at most one parent and cycles are
// rejected. Nodes are never freed by the library.
package tree

import (
	"errors"
	"fmt"

	"github.com/waozixyz/veng/geom"
	"github.com/waozixyz/veng/render"
)

var (
	ErrCapacity        = errors.New("child capacity exceeded")
	ErrNilNode         = errors.New("nil node")
	ErrInvalidLayout   = errors.New("invalid layout")
	ErrInvalidSize     = errors.New("invalid fractional size")
	ErrAlreadyAttached = errors.New("node already has a parent")
	ErrCycle           = errors.New("node would become its own ancestor")
)

// Parent is a node that lays out a run of elements: a Screen, a Layer or
// an Element. The set is closed.
type Parent interface {
	Layout() Layout
	Children() *Childs[*Element]
	parent()
}

// Element is the only node type with geometry.
type Element struct {
	// Name is optional and only used in logs and hierarchy dumps.
	Name string

	rect    geom.Rect
	size    geom.FracSize
	stretch bool
	visible bool
	// dirty is set by every mutation and cleared by a layout pass. Nothing
	// reads it to skip work yet.
	dirty bool

	layout Layout
	childs *Childs[*Element]
	owner  Parent
}

// NewElement creates a detached element. capacity is the maximum number of
// sub-elements; 0 makes a leaf.
func NewElement(size geom.FracSize, stretch, visible bool, layout Layout, capacity int) (*Element, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("NewElement: %w: %+v", ErrInvalidSize, size)
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("NewElement: %w", err)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("NewElement: %w: capacity %d", ErrCapacity, capacity)
	}
	el := &Element{
		rect:    geom.Hidden,
		size:    size,
		stretch: stretch,
		visible: visible,
		dirty:   true,
		layout:  layout,
	}
	if capacity > 0 {
		el.childs, _ = NewChilds[*Element](capacity)
	}
	return el, nil
}

func (e *Element) parent() {}

// Layout returns the layout applied to the element's own children.
func (e *Element) Layout() Layout { return e.layout }

// SetLayout replaces the layout used for sub-elements.
func (e *Element) SetLayout(l Layout) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("SetLayout: %w", err)
	}
	e.layout = l
	e.dirty = true
	return nil
}

// Children returns the sub-element collection; nil for leaves.
func (e *Element) Children() *Childs[*Element] { return e.childs }

// Owner returns the node the element was added to, or nil.
func (e *Element) Owner() Parent { return e.owner }

// Rect returns the rect computed by the last layout pass.
func (e *Element) Rect() geom.Rect { return e.rect }

// RectRef returns a pointer to the computed rect, which stays valid for
// the element's lifetime and is updated in place by each layout pass.
func (e *Element) RectRef() *geom.Rect { return &e.rect }

// SetRect stores a computed rect. The layout engine is the only intended caller.
func (e *Element) SetRect(r geom.Rect) { e.rect = r }

func (e *Element) Size() geom.FracSize { return e.size }

// SetSize changes the fractional size.
func (e *Element) SetSize(s geom.FracSize) error {
	if !s.Valid() {
		return fmt.Errorf("SetSize: %w: %+v", ErrInvalidSize, s)
	}
	e.size = s
	e.dirty = true
	return nil
}

// Stretch reports the sizing mode: true scales width and height
// independently, false locks both to the parent's reference axis.
func (e *Element) Stretch() bool { return e.stretch }

func (e *Element) SetStretch(stretch bool) {
	e.stretch = stretch
	e.dirty = true
}

func (e *Element) Visible() bool { return e.visible }

func (e *Element) SetVisible(visible bool) {
	e.visible = visible
	e.dirty = true
}

func (e *Element) Dirty() bool { return e.dirty }

// ClearDirty resets the dirty flag.
func (e *Element) ClearDirty() { e.dirty = false }

// AddElement appends sub as the last child of e.
func (e *Element) AddElement(sub *Element) error {
	if sub == nil {
		return fmt.Errorf("AddElement: %w", ErrNilNode)
	}
	if sub == e || isAncestor(sub, e) {
		return fmt.Errorf("AddElement: %w", ErrCycle)
	}
	if err := attach(e, sub); err != nil {
		return fmt.Errorf("AddElement: %w", err)
	}
	e.dirty = true
	return nil
}

// RemoveElement detaches sub from e.
func (e *Element) RemoveElement(sub *Element) bool {
	if detach(e, sub) {
		e.dirty = true
		return true
	}
	return false
}

// Layer groups a run of elements with its own layout. Every layer of a
// screen is resolved against the full viewport, in layer order.
type Layer struct {
	Name string

	layout Layout
	childs *Childs[*Element]
	screen *Screen
}

// NewLayer creates a detached layer holding at most capacity elements.
func NewLayer(layout Layout, capacity int) (*Layer, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("NewLayer: %w", err)
	}
	childs, err := NewChilds[*Element](capacity)
	if err != nil {
		return nil, fmt.Errorf("NewLayer: %w", err)
	}
	return &Layer{layout: layout, childs: childs}, nil
}

func (l *Layer) parent() {}

func (l *Layer) Layout() Layout { return l.layout }

func (l *Layer) SetLayout(layout Layout) error {
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("SetLayout: %w", err)
	}
	l.layout = layout
	return nil
}

func (l *Layer) Children() *Childs[*Element] { return l.childs }

// Screen returns the screen the layer was added to, or nil.
func (l *Layer) Screen() *Screen { return l.screen }

// AddElement appends el to the layer.
func (l *Layer) AddElement(el *Element) error {
	if el == nil {
		return fmt.Errorf("AddElement: %w", ErrNilNode)
	}
	if err := attach(l, el); err != nil {
		return fmt.Errorf("AddElement: %w", err)
	}
	return nil
}

func (l *Layer) RemoveElement(el *Element) bool { return detach(l, el) }

// Screen is a top-level tree. It may place elements directly with its own
// layout and may stack any number of layers above them.
type Screen struct {
	Title string
	Icon  render.Surface

	layout Layout
	childs *Childs[*Element]
	layers *Childs[*Layer]
	dirty  bool
}

// NewScreen creates a screen. maxElements bounds the elements placed
// directly on the screen and maxLayers the number of layers; either may be
// zero but not both.
func NewScreen(title string, icon render.Surface, layout Layout, maxElements, maxLayers int) (*Screen, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("NewScreen: %w", err)
	}
	if maxElements < 0 || maxLayers < 0 || maxElements+maxLayers == 0 {
		return nil, fmt.Errorf("NewScreen: %w: elements %d, layers %d", ErrCapacity, maxElements, maxLayers)
	}
	s := &Screen{Title: title, Icon: icon, layout: layout, dirty: true}
	if maxElements > 0 {
		s.childs, _ = NewChilds[*Element](maxElements)
	}
	if maxLayers > 0 {
		s.layers, _ = NewChilds[*Layer](maxLayers)
	}
	return s, nil
}

func (s *Screen) parent() {}

func (s *Screen) Layout() Layout { return s.layout }

func (s *Screen) SetLayout(layout Layout) error {
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("SetLayout: %w", err)
	}
	s.layout = layout
	s.dirty = true
	return nil
}

// Children returns the elements placed directly on the screen.
func (s *Screen) Children() *Childs[*Element] { return s.childs }

// Layers returns the layer collection in stacking order.
func (s *Screen) Layers() *Childs[*Layer] { return s.layers }

func (s *Screen) Dirty() bool { return s.dirty }

func (s *Screen) ClearDirty() { s.dirty = false }

// AddElement places el directly on the screen.
func (s *Screen) AddElement(el *Element) error {
	if el == nil {
		return fmt.Errorf("AddElement: %w", ErrNilNode)
	}
	if err := attach(s, el); err != nil {
		return fmt.Errorf("AddElement: %w", err)
	}
	s.dirty = true
	return nil
}

func (s *Screen) RemoveElement(el *Element) bool {
	if detach(s, el) {
		s.dirty = true
		return true
	}
	return false
}

// AddLayer stacks layer above the existing ones.
func (s *Screen) AddLayer(layer *Layer) error {
	if layer == nil {
		return fmt.Errorf("AddLayer: %w", ErrNilNode)
	}
	if layer.screen != nil {
		return fmt.Errorf("AddLayer: %w", ErrAlreadyAttached)
	}
	if err := s.layers.Add(layer); err != nil {
		return fmt.Errorf("AddLayer: %w", err)
	}
	layer.screen = s
	s.dirty = true
	return nil
}

func (s *Screen) RemoveLayer(layer *Layer) bool {
	if layer == nil || layer.screen != s {
		return false
	}
	if !s.layers.Remove(layer) {
		return false
	}
	layer.screen = nil
	for _, el := range layer.childs.All() {
		el.hideTree()
	}
	s.dirty = true
	return true
}

func attach(p Parent, el *Element) error {
	if el.owner != nil {
		return ErrAlreadyAttached
	}
	if err := p.Children().Add(el); err != nil {
		return err
	}
	el.owner = p
	el.dirty = true
	return nil
}

func detach(p Parent, el *Element) bool {
	if el == nil || el.owner != p {
		return false
	}
	if !p.Children().Remove(el) {
		return false
	}
	el.owner = nil
	el.hideTree()
	return true
}

// hideTree stamps the hidden rect on el and every descendant so a detached
// subtree cannot be hit.
func (e *Element) hideTree() {
	e.rect = geom.Hidden
	for _, sub := range e.childs.All() {
		sub.hideTree()
	}
}

// isAncestor reports whether a is on the owner chain of b.
func isAncestor(a, b *Element) bool {
	for p := b.owner; p != nil; {
		el, ok := p.(*Element)
		if !ok {
			return false
		}
		if el == a {
			return true
		}
		p = el.owner
	}
	return false
}
