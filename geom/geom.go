// geom/geom.go

// Package geom holds the pixel and fractional geometry shared by the tree,
// the layout engine and the hosts.
package geom

import "fmt"

// Rect is an integer pixel rectangle. X/Y is the top-left corner.
type Rect struct {
	X, Y int32
	W, H int32
}

// Hidden is the rect stamped on elements that are not visible.
// It never contains a point and is never drawn.
var Hidden = Rect{X: -1, Y: -1, W: -1, H: -1}

// NewRect returns a Rect with the given origin and size.
func NewRect(x, y, w, h int32) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the first column past the rect.
func (r Rect) Right() int32 { return r.X + r.W }

// Bottom returns the first row past the rect.
func (r Rect) Bottom() int32 { return r.Y + r.H }

// IsHidden reports whether r is the hidden sentinel.
func (r Rect) IsHidden() bool { return r == Hidden }

// Empty reports whether r covers no pixel.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether (x, y) lies inside r. The test is half-open:
// x in [X, X+W) and y in [Y, Y+H).
func (r Rect) Contains(x, y int32) bool {
	if x < r.X || x >= r.X+r.W {
		return false
	}
	if y < r.Y || y >= r.Y+r.H {
		return false
	}
	return true
}

// ContainsPoint is Contains for a Point.
func (r Rect) ContainsPoint(p Point) bool { return r.Contains(p.X, p.Y) }

// Local returns r moved to the origin, the drawing area seen from inside r.
func (r Rect) Local() Rect { return Rect{W: r.W, H: r.H} }

// Intersect returns the overlap of r and o, or the zero Rect when they
// do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) String() string {
	return fmt.Sprintf("{%d,%d %dx%d}", r.X, r.Y, r.W, r.H)
}

// Point is a pixel coordinate.
type Point struct {
	X, Y int32
}

// FracSize is a size expressed as fractions of a reference dimension.
// Valid values are in [0, 1].
type FracSize struct {
	W, H float32
}

// Valid reports whether both fractions are non-negative.
func (s FracSize) Valid() bool { return s.W >= 0 && s.H >= 0 }
