// layout/layout.go

// Package layout resolves the pixel rect of every element in a tree from
// the fractional sizes and the layouts of their parents.
package layout

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"

	"github.com/waozixyz/veng/geom"
	"github.com/waozixyz/veng/tree"
)

// Resolver runs layout passes. The zero value logs to slog.Default().
type Resolver struct {
	log *slog.Logger
}

// NewResolver returns a Resolver reporting to logger, or to slog.Default()
// when logger is nil.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{log: logger}
}

func (r *Resolver) logger() *slog.Logger {
	if r == nil || r.log == nil {
		return slog.Default()
	}
	return r.log
}

// Resolve computes the rect of every descendant of p inside drawing.
//
// Children are sized first, then positioned, then their own children are
// resolved inside the rect just computed. All positions derive from
// drawing, never from previous rects, so repeated passes over an unchanged
// tree give identical results.
//
// An invalid layout aborts the pass for p and leaves its whole subtree
// hidden, so no stale rect stays hit-testable. A failing subtree does not
// stop its siblings; all failures are joined.
func (r *Resolver) Resolve(p tree.Parent, drawing geom.Rect) error {
	if p == nil {
		return fmt.Errorf("Resolve: %w", tree.ErrNilNode)
	}
	childs := p.Children()
	if childs.Len() == 0 {
		return nil
	}

	l := p.Layout()
	if err := l.Validate(); err != nil {
		r.logger().Error("Resolve: aborting layout pass", "parent", nodeName(p), "layout", l, "err", err)
		for _, el := range childs.All() {
			hide(el)
		}
		return fmt.Errorf("Resolve %s: %w", nodeName(p), err)
	}

	// Sizing.
	landscape := isLandscape(drawing)
	var sumW, sumH int32
	for _, el := range childs.All() {
		if !el.Visible() {
			hide(el)
			continue
		}
		w, h := childSize(el, drawing, landscape)
		el.SetRect(geom.Rect{W: w, H: h})
		sumW += w
		sumH += h
	}

	// Positioning.
	place(l, childs, drawing, sumW, sumH)

	// Recursion.
	var errs []error
	for _, el := range childs.All() {
		if !el.Visible() {
			continue
		}
		el.ClearDirty()
		if el.Children().Len() == 0 {
			continue
		}
		if err := r.Resolve(el, el.Rect()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResolveLayer resolves a layer against the viewport.
func (r *Resolver) ResolveLayer(layer *tree.Layer, viewport geom.Rect) error {
	if layer == nil {
		return fmt.Errorf("ResolveLayer: %w", tree.ErrNilNode)
	}
	return r.Resolve(layer, viewport)
}

// ResolveScreen resolves the elements placed directly on the screen and
// then every layer, each against the full viewport.
func (r *Resolver) ResolveScreen(screen *tree.Screen, viewport geom.Rect) error {
	if screen == nil {
		return fmt.Errorf("ResolveScreen: %w", tree.ErrNilNode)
	}
	var errs []error
	if err := r.Resolve(screen, viewport); err != nil {
		errs = append(errs, err)
	}
	for _, layer := range screen.Layers().All() {
		if err := r.ResolveLayer(layer, viewport); err != nil {
			errs = append(errs, err)
		}
	}
	screen.ClearDirty()
	return errors.Join(errs...)
}

// isLandscape reports whether the drawing rect is at least as wide as it is
// tall. A rect without height counts as landscape so that nothing divides
// by zero; aspect-locked children then scale against the zero height.
func isLandscape(drawing geom.Rect) bool {
	if drawing.H <= 0 {
		return true
	}
	return float32(drawing.W)/float32(drawing.H) >= 1.0
}

// childSize scales the fractional size of el. Stretched children scale
// each dimension against the matching parent dimension; aspect-locked ones
// scale both against the parent's height in landscape, its width otherwise.
func childSize(el *tree.Element, drawing geom.Rect, landscape bool) (w, h int32) {
	size := el.Size()
	if el.Stretch() {
		return scale(size.W, drawing.W), scale(size.H, drawing.H)
	}
	ref := drawing.W
	if landscape {
		ref = drawing.H
	}
	return scale(size.W, ref), scale(size.H, ref)
}

func scale(frac float32, ref int32) int32 {
	return int32(math32.Round(frac * float32(ref)))
}

func half(d int32) int32 {
	return int32(math32.Round(float32(d) / 2))
}

// place positions sized children. The arrangement axis is packed: start
// alignment advances an offset from the start edge, end alignment from the
// far edge, and center alignment treats the whole visible run as one block
// centered in drawing. The cross axis places each child on its own.
func place(l tree.Layout, childs *tree.Childs[*tree.Element], drawing geom.Rect, sumW, sumH int32) {
	var offset, center int32
	switch {
	case l.Arrangement == tree.Horizontal && l.AlignH == tree.Center:
		center = half(drawing.W - sumW)
	case l.Arrangement == tree.Vertical && l.AlignV == tree.Center:
		center = half(drawing.H - sumH)
	}

	for _, el := range childs.All() {
		if !el.Visible() {
			continue
		}
		rect := el.RectRef()
		if l.Arrangement == tree.Horizontal {
			rect.X = packed(l.AlignH, drawing.X, drawing.W, rect.W, &offset, &center)
			rect.Y = cross(l.AlignV, drawing.Y, drawing.H, rect.H)
		} else {
			rect.Y = packed(l.AlignV, drawing.Y, drawing.H, rect.H, &offset, &center)
			rect.X = cross(l.AlignH, drawing.X, drawing.W, rect.W)
		}
	}
}

func packed(a tree.Align, origin, extent, size int32, offset, center *int32) int32 {
	var pos int32
	switch a {
	case tree.Left, tree.Top:
		pos = origin + *offset
		*offset += size
	case tree.Right, tree.Bottom:
		pos = origin + extent - size - *offset
		*offset += size
	case tree.Center:
		pos = origin + *center
		*center += size
	default:
		// Layouts are validated before placement.
		panic(fmt.Sprintf("layout: unvalidated align %s", a))
	}
	return pos
}

func cross(a tree.Align, origin, extent, size int32) int32 {
	switch a {
	case tree.Left, tree.Top:
		return origin
	case tree.Center:
		return origin + half(extent-size)
	case tree.Right, tree.Bottom:
		return origin + extent - size
	}
	panic(fmt.Sprintf("layout: unvalidated align %s", a))
}

// hide stamps the hidden sentinel on el and its whole subtree so that no
// stale rect stays reachable by hit testing.
func hide(el *tree.Element) {
	el.SetRect(geom.Hidden)
	el.ClearDirty()
	for _, sub := range el.Children().All() {
		hide(sub)
	}
}

func nodeName(p tree.Parent) string {
	switch n := p.(type) {
	case *tree.Element:
		if n.Name != "" {
			return n.Name
		}
		return "element"
	case *tree.Layer:
		if n.Name != "" {
			return n.Name
		}
		return "layer"
	case *tree.Screen:
		return fmt.Sprintf("screen %q", n.Title)
	}
	return fmt.Sprintf("%T", p)
}
