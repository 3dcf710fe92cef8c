package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waozixyz/veng/geom"
	"github.com/waozixyz/veng/tree"
)

func elem(t *testing.T, w, h float32, stretch bool, l tree.Layout, capacity int) *tree.Element {
	t.Helper()
	el, err := tree.NewElement(geom.FracSize{W: w, H: h}, stretch, true, l, capacity)
	require.NoError(t, err)
	return el
}

func layer(t *testing.T, l tree.Layout, children ...*tree.Element) *tree.Layer {
	t.Helper()
	ly, err := tree.NewLayer(l, max(1, len(children)))
	require.NoError(t, err)
	for _, c := range children {
		require.NoError(t, ly.AddElement(c))
	}
	return ly
}

var hLeftTop = tree.MustLayout(tree.Horizontal, tree.Left, tree.Top)

func TestResolve_EndToEnd(t *testing.T) {
	screen, err := tree.NewScreen("Physics Simulator", nil, hLeftTop, 2, 0)
	require.NoError(t, err)
	a := elem(t, 0.4, 0.3, true, hLeftTop, 0)
	b := elem(t, 0.3, 0.3, true, hLeftTop, 0)
	require.NoError(t, screen.AddElement(a))
	require.NoError(t, screen.AddElement(b))

	r := NewResolver(nil)
	require.NoError(t, r.ResolveScreen(screen, geom.NewRect(0, 0, 1000, 500)))

	assert.Equal(t, geom.NewRect(0, 0, 400, 150), a.Rect())
	assert.Equal(t, geom.NewRect(400, 0, 300, 150), b.Rect())
}

func TestResolve_CenteringSingleChild(t *testing.T) {
	child := elem(t, 0.5, 0.5, true, hLeftTop, 0)
	ly := layer(t, tree.MustLayout(tree.Horizontal, tree.Center, tree.Center), child)

	require.NoError(t, NewResolver(nil).Resolve(ly, geom.NewRect(0, 0, 200, 100)))
	assert.Equal(t, geom.NewRect(50, 25, 100, 50), child.Rect())
}

func TestResolve_AspectLock(t *testing.T) {
	tests := map[string]struct {
		drawing geom.Rect
		want    geom.Rect
	}{
		"landscape scales against height": {geom.NewRect(0, 0, 200, 100), geom.NewRect(0, 0, 50, 50)},
		"square scales against height":    {geom.NewRect(0, 0, 100, 100), geom.NewRect(0, 0, 50, 50)},
		"portrait scales against width":   {geom.NewRect(0, 0, 100, 300), geom.NewRect(0, 0, 50, 50)},
		"zero height collapses":           {geom.NewRect(0, 0, 100, 0), geom.NewRect(0, 0, 0, 0)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			child := elem(t, 0.5, 0.5, false, hLeftTop, 0)
			ly := layer(t, hLeftTop, child)
			require.NoError(t, NewResolver(nil).Resolve(ly, tt.drawing))
			assert.Equal(t, tt.want, child.Rect())
		})
	}
}

func TestResolve_HiddenSentinel(t *testing.T) {
	a := elem(t, 0.2, 0.5, true, hLeftTop, 0)
	hidden := elem(t, 0.3, 0.5, true, hLeftTop, 1)
	grandchild := elem(t, 1, 1, true, hLeftTop, 0)
	require.NoError(t, hidden.AddElement(grandchild))
	c := elem(t, 0.1, 0.5, true, hLeftTop, 0)
	ly := layer(t, hLeftTop, a, hidden, c)

	r := NewResolver(nil)
	require.NoError(t, r.Resolve(ly, geom.NewRect(0, 0, 1000, 100)))
	// Give the grandchild a real rect, then hide its parent.
	assert.False(t, grandchild.Rect().IsHidden())
	hidden.SetVisible(false)
	require.NoError(t, r.Resolve(ly, geom.NewRect(0, 0, 1000, 100)))

	assert.Equal(t, geom.Hidden, hidden.Rect())
	assert.Equal(t, geom.Hidden, grandchild.Rect(), "descendants of a hidden element are hidden too")
	assert.Equal(t, geom.NewRect(0, 0, 200, 50), a.Rect())
	assert.Equal(t, geom.NewRect(200, 0, 100, 50), c.Rect(), "hidden sibling takes no offset")
}

func TestResolve_HorizontalLeftContainment(t *testing.T) {
	widths := []float32{0.1, 0.25, 0.05, 0.3}
	drawing := geom.NewRect(37, 11, 800, 240)

	var children []*tree.Element
	for _, w := range widths {
		children = append(children, elem(t, w, 0.5, true, hLeftTop, 0))
	}
	ly := layer(t, hLeftTop, children...)
	require.NoError(t, NewResolver(nil).Resolve(ly, drawing))

	x := drawing.X
	for i, c := range children {
		assert.Equal(t, x, c.Rect().X, "child %d", i)
		assert.GreaterOrEqual(t, c.Rect().X, drawing.X)
		assert.Equal(t, drawing.Y, c.Rect().Y)
		x += c.Rect().W
	}
}

func TestResolve_PackedAlignments(t *testing.T) {
	drawing := geom.NewRect(10, 20, 200, 100)

	tests := map[string]struct {
		layout tree.Layout
		want   []geom.Rect
	}{
		"horizontal right bottom": {
			tree.MustLayout(tree.Horizontal, tree.Right, tree.Bottom),
			[]geom.Rect{{X: 170, Y: 70, W: 40, H: 50}, {X: 110, Y: 100, W: 60, H: 20}},
		},
		"horizontal center center": {
			tree.MustLayout(tree.Horizontal, tree.Center, tree.Center),
			[]geom.Rect{{X: 60, Y: 45, W: 40, H: 50}, {X: 100, Y: 60, W: 60, H: 20}},
		},
		"vertical left top": {
			tree.MustLayout(tree.Vertical, tree.Left, tree.Top),
			[]geom.Rect{{X: 10, Y: 20, W: 40, H: 50}, {X: 10, Y: 70, W: 60, H: 20}},
		},
		"vertical right bottom": {
			tree.MustLayout(tree.Vertical, tree.Right, tree.Bottom),
			[]geom.Rect{{X: 170, Y: 70, W: 40, H: 50}, {X: 150, Y: 50, W: 60, H: 20}},
		},
		"vertical center center": {
			tree.MustLayout(tree.Vertical, tree.Center, tree.Center),
			[]geom.Rect{{X: 90, Y: 35, W: 40, H: 50}, {X: 80, Y: 85, W: 60, H: 20}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a := elem(t, 0.2, 0.5, true, hLeftTop, 0)
			b := elem(t, 0.3, 0.2, true, hLeftTop, 0)
			ly := layer(t, tt.layout, a, b)
			require.NoError(t, NewResolver(nil).Resolve(ly, drawing))
			assert.Equal(t, tt.want, []geom.Rect{a.Rect(), b.Rect()})
		})
	}
}

func TestResolve_NestedUsesChildRect(t *testing.T) {
	toolbox := elem(t, 0.5, 0.5, true, tree.MustLayout(tree.Horizontal, tree.Right, tree.Bottom), 2)
	box1 := elem(t, 0.2, 0.3, true, hLeftTop, 0)
	box2 := elem(t, 0.2, 0.2, true, hLeftTop, 0)
	require.NoError(t, toolbox.AddElement(box1))
	require.NoError(t, toolbox.AddElement(box2))
	ly := layer(t, tree.MustLayout(tree.Horizontal, tree.Right, tree.Bottom), toolbox)

	require.NoError(t, NewResolver(nil).Resolve(ly, geom.NewRect(0, 0, 1000, 500)))

	assert.Equal(t, geom.NewRect(500, 250, 500, 250), toolbox.Rect())
	assert.Equal(t, geom.NewRect(900, 425, 100, 75), box1.Rect())
	assert.Equal(t, geom.NewRect(800, 450, 100, 50), box2.Rect())
}

func TestResolve_Idempotent(t *testing.T) {
	outer := elem(t, 0.6, 0.9, true, tree.MustLayout(tree.Vertical, tree.Center, tree.Center), 3)
	var inner []*tree.Element
	for _, f := range []float32{0.33, 0.21, 0.17} {
		el := elem(t, f, f, false, hLeftTop, 0)
		inner = append(inner, el)
		require.NoError(t, outer.AddElement(el))
	}
	side := elem(t, 0.27, 0.4, false, hLeftTop, 0)
	ly := layer(t, tree.MustLayout(tree.Horizontal, tree.Center, tree.Bottom), outer, side)

	all := append([]*tree.Element{outer, side}, inner...)
	snapshot := func() []geom.Rect {
		out := make([]geom.Rect, len(all))
		for i, el := range all {
			out[i] = el.Rect()
		}
		return out
	}

	r := NewResolver(nil)
	drawing := geom.NewRect(3, 7, 1366, 767)
	require.NoError(t, r.Resolve(ly, drawing))
	first := snapshot()
	require.NoError(t, r.Resolve(ly, drawing))
	assert.Equal(t, first, snapshot())
}

func TestResolve_ClearsDirty(t *testing.T) {
	child := elem(t, 0.5, 0.5, true, hLeftTop, 0)
	ly := layer(t, hLeftTop, child)
	assert.True(t, child.Dirty())
	require.NoError(t, NewResolver(nil).Resolve(ly, geom.NewRect(0, 0, 10, 10)))
	assert.False(t, child.Dirty())
}

func TestResolve_EmptyParentIsNoop(t *testing.T) {
	leaf := elem(t, 0.5, 0.5, true, hLeftTop, 0)
	assert.NoError(t, NewResolver(nil).Resolve(leaf, geom.NewRect(0, 0, 10, 10)))
	assert.True(t, leaf.Rect().IsHidden(), "a parent's own rect is not touched")
}

func TestResolve_NilParent(t *testing.T) {
	assert.ErrorIs(t, NewResolver(nil).Resolve(nil, geom.Rect{}), tree.ErrNilNode)
	assert.ErrorIs(t, NewResolver(nil).ResolveScreen(nil, geom.Rect{}), tree.ErrNilNode)
	assert.ErrorIs(t, NewResolver(nil).ResolveLayer(nil, geom.Rect{}), tree.ErrNilNode)
}

// brokenParent smuggles an invalid layout past the tree constructors.
type brokenParent struct {
	*tree.Layer
	layout tree.Layout
}

func (b brokenParent) Layout() tree.Layout { return b.layout }

func TestResolve_InvalidLayoutAborts(t *testing.T) {
	child := elem(t, 0.5, 0.5, true, hLeftTop, 0)
	ly := layer(t, hLeftTop, child)

	tests := map[string]tree.Layout{
		"unknown arrangement":        {Arrangement: tree.Arrangement(9), AlignH: tree.Left, AlignV: tree.Top},
		"vertical align on h axis":   {Arrangement: tree.Horizontal, AlignH: tree.Bottom, AlignV: tree.Top},
		"horizontal align on v axis": {Arrangement: tree.Vertical, AlignH: tree.Left, AlignV: tree.Right},
	}
	for name, l := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewResolver(nil)
			require.NoError(t, r.Resolve(ly, geom.NewRect(0, 0, 100, 100)))
			require.Equal(t, geom.NewRect(0, 0, 50, 50), child.Rect())

			err := r.Resolve(brokenParent{ly, l}, geom.NewRect(0, 0, 100, 100))
			assert.ErrorIs(t, err, tree.ErrInvalidLayout)
			assert.True(t, child.Rect().IsHidden(), "an aborted pass leaves no stale rect")
		})
	}
}

func TestResolveScreen_LayersShareViewport(t *testing.T) {
	screen, err := tree.NewScreen("layers", nil, hLeftTop, 0, 2)
	require.NoError(t, err)

	main := elem(t, 1, 0.7, true, hLeftTop, 0)
	key := elem(t, 0.1, 0.3, true, hLeftTop, 0)
	mainLayer := layer(t, hLeftTop, main)
	keyboard := layer(t, tree.MustLayout(tree.Horizontal, tree.Center, tree.Bottom), key)
	require.NoError(t, screen.AddLayer(mainLayer))
	require.NoError(t, screen.AddLayer(keyboard))

	require.NoError(t, NewResolver(nil).ResolveScreen(screen, geom.NewRect(0, 0, 400, 200)))
	assert.Equal(t, geom.NewRect(0, 0, 400, 140), main.Rect())
	assert.Equal(t, geom.NewRect(180, 140, 40, 60), key.Rect())
	assert.False(t, screen.Dirty())
}
