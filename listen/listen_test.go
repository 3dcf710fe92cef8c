package listen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waozixyz/veng/geom"
	"github.com/waozixyz/veng/render"
	"github.com/waozixyz/veng/tree"
)

var hLeftTop = tree.MustLayout(tree.Horizontal, tree.Left, tree.Top)

func element(t *testing.T, rect geom.Rect) *tree.Element {
	t.Helper()
	el, err := tree.NewElement(geom.FracSize{W: 0.1, H: 0.1}, true, true, hLeftTop, 0)
	require.NoError(t, err)
	el.SetRect(rect)
	return el
}

func mouse(et render.EventType, x, y int32) render.Event {
	return render.Event{Type: et, Pos: geom.Point{X: x, Y: y}}
}

type fakeText struct{ started, stopped int }

func (f *fakeText) StartTextInput() { f.started++ }
func (f *fakeText) StopTextInput()  { f.stopped++ }

func TestListen_HitTestBoundary(t *testing.T) {
	tests := map[string]struct {
		x, y int32
		want bool
	}{
		"top left corner":      {10, 10, true},
		"last pixel":           {29, 29, true},
		"one past the end":     {30, 30, false},
		"one before the start": {9, 9, false},
		"past right edge only": {30, 15, false},
		"past bottom only":     {15, 30, false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewRegistry(nil, nil)
			el := element(t, geom.NewRect(10, 10, 20, 20))
			fired := false
			_, err := r.AddMouseListener(el, func(*tree.Element, render.Event) { fired = true }, NewMouseTrigger(false, true, false, false))
			require.NoError(t, err)

			r.Listen(mouse(render.EventMouseButtonDown, tt.x, tt.y))
			assert.Equal(t, tt.want, fired)
		})
	}
}

func TestListen_TriggerMask(t *testing.T) {
	r := NewRegistry(nil, nil)
	el := element(t, geom.NewRect(0, 0, 100, 100))

	var got []render.EventType
	cb := func(_ *tree.Element, ev render.Event) { got = append(got, ev.Type) }
	_, err := r.AddMouseListener(el, cb, MouseTrigger{ButtonUp: true, Wheel: true})
	require.NoError(t, err)

	for _, et := range []render.EventType{
		render.EventMouseMotion,
		render.EventMouseButtonDown,
		render.EventMouseButtonUp,
		render.EventMouseWheel,
		render.EventKeyDown,
	} {
		r.Listen(mouse(et, 50, 50))
	}
	assert.Equal(t, []render.EventType{render.EventMouseButtonUp, render.EventMouseWheel}, got)
}

func TestListen_HiddenElementNeverHit(t *testing.T) {
	r := NewRegistry(nil, nil)
	el := element(t, geom.Hidden)
	_, err := r.AddMouseListener(el, func(*tree.Element, render.Event) { t.Fatal("hidden element was hit") }, NewMouseTrigger(true, true, true, true))
	require.NoError(t, err)

	for _, p := range []geom.Point{{X: -1, Y: -1}, {X: 0, Y: 0}, {X: -2, Y: -2}} {
		assert.Zero(t, r.Listen(render.Event{Type: render.EventMouseMotion, Pos: p}))
	}
}

func TestListen_DuplicatesAreIndependent(t *testing.T) {
	r := NewRegistry(nil, nil)
	el := element(t, geom.NewRect(0, 0, 10, 10))
	count := 0
	cb := func(*tree.Element, render.Event) { count++ }
	trig := NewMouseTrigger(true, false, false, false)

	h1, err := r.AddMouseListener(el, cb, trig)
	require.NoError(t, err)
	h2, err := r.AddMouseListener(el, cb, trig)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	assert.Equal(t, 2, r.Listen(mouse(render.EventMouseMotion, 1, 1)))
	assert.True(t, r.RemoveMouseListener(h1))
	assert.False(t, r.RemoveMouseListener(h1))
	assert.Equal(t, 1, r.Listen(mouse(render.EventMouseMotion, 1, 1)))
	assert.Equal(t, 3, count)
}

func TestListen_UsesCurrentRect(t *testing.T) {
	r := NewRegistry(nil, nil)
	el := element(t, geom.NewRect(0, 0, 10, 10))
	_, err := r.AddMouseListener(el, func(*tree.Element, render.Event) {}, NewMouseTrigger(true, false, false, false))
	require.NoError(t, err)

	assert.Equal(t, 1, r.Listen(mouse(render.EventMouseMotion, 5, 5)))
	el.SetRect(geom.NewRect(100, 100, 10, 10))
	assert.Equal(t, 0, r.Listen(mouse(render.EventMouseMotion, 5, 5)))
	assert.Equal(t, 1, r.Listen(mouse(render.EventMouseMotion, 105, 105)))
}

func TestListen_CallbackMayRegister(t *testing.T) {
	r := NewRegistry(nil, nil)
	el := element(t, geom.NewRect(0, 0, 10, 10))
	trig := NewMouseTrigger(false, true, false, false)
	_, err := r.AddMouseListener(el, func(e *tree.Element, _ render.Event) {
		_, err := r.AddMouseListener(e, func(*tree.Element, render.Event) {}, trig)
		assert.NoError(t, err)
	}, trig)
	require.NoError(t, err)

	assert.Equal(t, 1, r.Listen(mouse(render.EventMouseButtonDown, 1, 1)), "new registrations fire from the next event on")
	assert.Len(t, r.MouseListeners(), 2)
}

func TestAddMouseListener_Rejects(t *testing.T) {
	r := NewRegistry(nil, nil)
	el := element(t, geom.NewRect(0, 0, 1, 1))

	_, err := r.AddMouseListener(nil, func(*tree.Element, render.Event) {}, MouseTrigger{})
	assert.ErrorIs(t, err, ErrNilElement)
	_, err = r.AddMouseListener(el, nil, MouseTrigger{})
	assert.ErrorIs(t, err, ErrNilCallback)
	assert.Empty(t, r.MouseListeners())
}

func TestListenLayer_InvertedCondition(t *testing.T) {
	r := NewRegistry(nil, nil)
	layer, err := tree.NewLayer(hLeftTop, 1)
	require.NoError(t, err)
	el := element(t, geom.NewRect(0, 0, 1, 1))

	var calls []string
	record := func(name string) Callback {
		return func(*tree.Element, render.Event) { calls = append(calls, name) }
	}
	zero := func(*tree.Element, render.Event) int { return 0 }
	one := func(*tree.Element, render.Event) int { return 1 }

	for name, cond := range map[string]Condition{"nil": nil, "zero": zero, "one": one} {
		l, err := NewListener(render.EventKeyDown, record(name), cond, el)
		require.NoError(t, err)
		_, err = r.AddLayerListener(layer, l)
		require.NoError(t, err)
	}
	wrongType, err := NewListener(render.EventKeyUp, record("keyup"), nil, el)
	require.NoError(t, err)
	_, err = r.AddLayerListener(layer, wrongType)
	require.NoError(t, err)

	n, err := r.ListenLayer(render.Event{Type: render.EventKeyDown}, layer)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"nil", "zero"}, calls)
}

func TestListenLayer_ConditionSeesElementAndEvent(t *testing.T) {
	r := NewRegistry(nil, nil)
	layer, err := tree.NewLayer(hLeftTop, 1)
	require.NoError(t, err)
	el := element(t, geom.NewRect(0, 0, 1, 1))

	// Only text starting with "a" passes.
	cond := func(e *tree.Element, ev render.Event) int {
		assert.Same(t, el, e)
		if len(ev.Text) > 0 && ev.Text[0] == 'a' {
			return 0
		}
		return -1
	}
	var got []string
	l, err := NewListener(render.EventTextInput, func(_ *tree.Element, ev render.Event) { got = append(got, ev.Text) }, cond, el)
	require.NoError(t, err)
	_, err = r.AddLayerListener(layer, l)
	require.NoError(t, err)

	for _, s := range []string{"abc", "xyz", "a"} {
		_, err := r.ListenLayer(render.Event{Type: render.EventTextInput, Text: s}, layer)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"abc", "a"}, got)
}

func TestListenScreen_AllLayersInOrder(t *testing.T) {
	r := NewRegistry(nil, nil)
	screen, err := tree.NewScreen("s", nil, hLeftTop, 0, 2)
	require.NoError(t, err)
	l1, err := tree.NewLayer(hLeftTop, 1)
	require.NoError(t, err)
	l2, err := tree.NewLayer(hLeftTop, 1)
	require.NoError(t, err)
	require.NoError(t, screen.AddLayer(l1))
	require.NoError(t, screen.AddLayer(l2))

	var order []int
	for i, layer := range []*tree.Layer{l2, l1} {
		l, err := NewListener(render.EventQuit, func(*tree.Element, render.Event) { order = append(order, i) }, nil, nil)
		require.NoError(t, err)
		_, err = r.AddLayerListener(layer, l)
		require.NoError(t, err)
	}

	n, err := r.ListenScreen(render.Event{Type: render.EventQuit}, screen)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 0}, order, "layers dispatch in stacking order")

	_, err = r.ListenScreen(render.Event{}, nil)
	assert.ErrorIs(t, err, tree.ErrNilNode)
}

func TestLayerListener_Rejects(t *testing.T) {
	r := NewRegistry(nil, nil)
	layer, err := tree.NewLayer(hLeftTop, 1)
	require.NoError(t, err)

	_, err = NewListener(render.EventQuit, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNilCallback)

	l, err := NewListener(render.EventQuit, func(*tree.Element, render.Event) {}, nil, nil)
	require.NoError(t, err)
	_, err = r.AddLayerListener(nil, l)
	assert.ErrorIs(t, err, ErrNilLayer)
	_, err = r.AddLayerListener(layer, nil)
	assert.ErrorIs(t, err, ErrNilListener)
	_, err = r.ListenLayer(render.Event{}, nil)
	assert.ErrorIs(t, err, ErrNilLayer)

	h, err := r.AddLayerListener(layer, l)
	require.NoError(t, err)
	assert.Len(t, r.LayerListeners(layer), 1)
	assert.True(t, r.RemoveLayerListener(layer, h))
	assert.Empty(t, r.LayerListeners(layer))
	assert.False(t, r.RemoveLayerListener(layer, h))
}

func TestKeyboard_CapturesOnlyWhileListening(t *testing.T) {
	host := &fakeText{}
	r := NewRegistry(nil, host)
	buf := NewKeyboardBuffer(8)
	r.AttachKeyboardBuffer(buf)

	r.Listen(render.Event{Type: render.EventTextInput, Text: "no"})
	assert.Empty(t, buf.String())

	r.StartKeyboard()
	assert.True(t, r.KeyboardListening())
	assert.Equal(t, 1, host.started)
	r.Listen(render.Event{Type: render.EventTextInput, Text: "hello"})
	r.Listen(render.Event{Type: render.EventTextInput, Text: " world"})
	assert.Equal(t, "hello wo", buf.String(), "buffer is bounded")

	r.StopKeyboard()
	assert.Equal(t, 1, host.stopped)
	r.Listen(render.Event{Type: render.EventTextInput, Text: "x"})
	assert.Equal(t, "hello wo", buf.String())
}

func TestKeyboardBuffer_RuneBoundaries(t *testing.T) {
	buf := NewKeyboardBuffer(4)
	assert.Equal(t, 3, buf.Append("aé"))
	assert.Equal(t, 0, buf.Append("é"), "a rune that does not fit is dropped whole")
	assert.Equal(t, 1, buf.Append("b"))
	assert.Equal(t, "aéb", buf.String())

	buf.Backspace()
	buf.Backspace()
	assert.Equal(t, "a", buf.String())
	buf.Reset()
	assert.Zero(t, buf.Len())
	buf.Backspace()
	assert.Equal(t, 4, buf.Limit())
}

func TestReset_ClearsEverything(t *testing.T) {
	host := &fakeText{}
	r := NewRegistry(nil, host)
	layer, err := tree.NewLayer(hLeftTop, 1)
	require.NoError(t, err)
	el := element(t, geom.NewRect(0, 0, 10, 10))

	_, err = r.AddMouseListener(el, func(*tree.Element, render.Event) {}, NewMouseTrigger(true, true, true, true))
	require.NoError(t, err)
	l, err := NewListener(render.EventQuit, func(*tree.Element, render.Event) {}, nil, nil)
	require.NoError(t, err)
	_, err = r.AddLayerListener(layer, l)
	require.NoError(t, err)
	r.AttachKeyboardBuffer(NewKeyboardBuffer(4))
	r.StartKeyboard()

	r.Reset()
	assert.Empty(t, r.MouseListeners())
	assert.Empty(t, r.LayerListeners(layer))
	assert.Nil(t, r.KeyboardBuffer())
	assert.False(t, r.KeyboardListening())
	assert.Equal(t, 1, host.stopped)
	assert.Zero(t, r.Listen(mouse(render.EventMouseMotion, 1, 1)))
}

func TestReset_StopsEventInFlight(t *testing.T) {
	r := NewRegistry(nil, nil)
	el := element(t, geom.NewRect(0, 0, 10, 10))
	var order []string
	down := NewMouseTrigger(false, true, false, false)

	_, err := r.AddMouseListener(el, func(*tree.Element, render.Event) {
		order = append(order, "reset")
		r.Reset()
	}, down)
	require.NoError(t, err)
	_, err = r.AddMouseListener(el, func(*tree.Element, render.Event) { order = append(order, "late") }, down)
	require.NoError(t, err)

	before := r.Generation()
	assert.Equal(t, 1, r.Listen(mouse(render.EventMouseButtonDown, 5, 5)))
	assert.Equal(t, []string{"reset"}, order)
	assert.NotEqual(t, before, r.Generation())

	layer, err := tree.NewLayer(hLeftTop, 1)
	require.NoError(t, err)
	order = nil
	for _, name := range []string{"reset", "late"} {
		l, err := NewListener(render.EventKeyDown, func(*tree.Element, render.Event) {
			order = append(order, name)
			if name == "reset" {
				r.Reset()
			}
		}, nil, nil)
		require.NoError(t, err)
		_, err = r.AddLayerListener(layer, l)
		require.NoError(t, err)
	}
	n, err := r.ListenLayer(render.Event{Type: render.EventKeyDown}, layer)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"reset"}, order)
}
