// Package demo holds the scenes shipped with the binaries.
package demo

import (
	"image/color"

	"github.com/waozixyz/veng/engine"
	"github.com/waozixyz/veng/geom"
	"github.com/waozixyz/veng/listen"
	"github.com/waozixyz/veng/render"
	"github.com/waozixyz/veng/tree"
)

// PhysicsTitle is the title of the Physics scene.
const PhysicsTitle = "Physics Simulator"

var (
	white  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	cyan   = color.RGBA{R: 100, G: 255, B: 255, A: 255}
	pink   = color.RGBA{R: 232, G: 18, B: 104, A: 255}
	orange = color.RGBA{R: 255, G: 128, B: 54, A: 255}
	coral  = color.RGBA{R: 255, G: 127, B: 80, A: 255}
)

// physics holds the scene tree: a canvas beside a tool box whose two boxes
// sit in its bottom-right corner.
type physics struct {
	canvas, toolBox, box1, box2 *tree.Element
	box2On                      bool
}

func element(name string, w, h float32, l tree.Layout, capacity int) (*tree.Element, error) {
	el, err := tree.NewElement(geom.FracSize{W: w, H: h}, true, true, l, capacity)
	if err != nil {
		return nil, err
	}
	el.Name = name
	return el, nil
}

// Physics builds the physics simulator screen. Clicking box2 toggles its
// color; clicking the tool box logs the click.
func Physics(e *engine.Engine) (engine.DrawFunc, error) {
	leftTop := tree.MustLayout(tree.Horizontal, tree.Left, tree.Top)
	screen, err := tree.NewScreen(PhysicsTitle, nil, leftTop, 2, 0)
	if err != nil {
		return nil, err
	}

	p := &physics{}
	if p.canvas, err = element("canvas", 0.4, 0.3, leftTop, 0); err != nil {
		return nil, err
	}
	if p.toolBox, err = element("tool_box", 0.3, 0.3, tree.MustLayout(tree.Horizontal, tree.Right, tree.Bottom), 2); err != nil {
		return nil, err
	}
	if p.box1, err = element("box1", 0.2, 0.3, leftTop, 0); err != nil {
		return nil, err
	}
	if p.box2, err = element("box2", 0.2, 0.2, leftTop, 0); err != nil {
		return nil, err
	}

	for _, add := range []struct {
		parent interface{ AddElement(*tree.Element) error }
		el     *tree.Element
	}{
		{screen, p.canvas},
		{screen, p.toolBox},
		{p.toolBox, p.box1},
		{p.toolBox, p.box2},
	} {
		if err := add.parent.AddElement(add.el); err != nil {
			return nil, err
		}
	}

	if err := e.SetScreen(screen); err != nil {
		return nil, err
	}

	click := listen.NewMouseTrigger(false, true, false, false)
	if _, err := e.AddMouseListener(p.box2, func(*tree.Element, render.Event) { p.box2On = !p.box2On }, click); err != nil {
		return nil, err
	}
	if _, err := e.AddMouseListener(p.toolBox, func(el *tree.Element, ev render.Event) {
		e.Logger().Info("tool_box clicked", "element", el.Name, "at", ev.Pos)
	}, click); err != nil {
		return nil, err
	}
	return p.draw, nil
}

func (p *physics) draw(e *engine.Engine) {
	host := e.Driver()
	p.fillCanvas(e)
	host.FillRect(p.toolBox.Rect(), cyan)
	host.FillRect(p.box1.Rect(), pink)
	if p.box2On {
		host.FillRect(p.box2.Rect(), white)
	} else {
		host.FillRect(p.box2.Rect(), orange)
	}
}

// fillCanvas paints the canvas from inside its own drawing scope, with a
// white line across the middle of the local area.
func (p *physics) fillCanvas(e *engine.Engine) {
	area, prev, err := e.StartDrawing(p.canvas)
	if err != nil {
		return
	}
	defer e.StopDrawing(prev)

	host := e.Driver()
	host.FillRect(area, coral)
	host.FillRect(geom.NewRect(0, area.H/2, area.W, max(1, area.H/50)), white)
}
