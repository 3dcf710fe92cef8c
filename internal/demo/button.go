package demo

import (
	"image/color"

	"github.com/waozixyz/veng/engine"
	"github.com/waozixyz/veng/listen"
	"github.com/waozixyz/veng/render"
	"github.com/waozixyz/veng/tree"
)

const ButtonTitle = "Button"

var (
	buttonIdle    = color.RGBA{R: 70, G: 70, B: 80, A: 255}
	buttonHover   = color.RGBA{R: 100, G: 100, B: 120, A: 255}
	buttonPressed = color.RGBA{R: 60, G: 160, B: 90, A: 255}
)

type button struct {
	backdrop, el *tree.Element
	hover        bool
	pressed      bool
	clicks       int
}

// Button builds a screen with one centered button. Motion over the screen
// tracks hover; a click toggles the pressed state and is logged.
func Button(e *engine.Engine) (engine.DrawFunc, error) {
	center := tree.MustLayout(tree.Horizontal, tree.Center, tree.Center)
	screen, err := tree.NewScreen(ButtonTitle, nil, center, 1, 0)
	if err != nil {
		return nil, err
	}
	b := &button{}
	if b.backdrop, err = element("backdrop", 1, 1, center, 1); err != nil {
		return nil, err
	}
	if b.el, err = element("button", 0.3, 0.2, center, 0); err != nil {
		return nil, err
	}
	if err := screen.AddElement(b.backdrop); err != nil {
		return nil, err
	}
	if err := b.backdrop.AddElement(b.el); err != nil {
		return nil, err
	}
	if err := e.SetScreen(screen); err != nil {
		return nil, err
	}

	// Hover is cleared on every motion event and set again by the button's
	// own listener, which runs after it.
	if _, err := e.AddMouseListener(b.backdrop, func(*tree.Element, render.Event) {
		b.hover = false
	}, listen.NewMouseTrigger(true, false, false, false)); err != nil {
		return nil, err
	}
	if _, err := e.AddMouseListener(b.el, func(*tree.Element, render.Event) {
		b.hover = true
	}, listen.NewMouseTrigger(true, false, false, false)); err != nil {
		return nil, err
	}
	if _, err := e.AddMouseListener(b.el, func(el *tree.Element, ev render.Event) {
		b.pressed = !b.pressed
		b.clicks++
		e.Logger().Info("Button clicked!", "element", el.Name, "clicks", b.clicks, "at", ev.Pos)
	}, listen.NewMouseTrigger(false, true, false, false)); err != nil {
		return nil, err
	}
	return b.draw, nil
}

func (b *button) draw(e *engine.Engine) {
	c := buttonIdle
	switch {
	case b.pressed:
		c = buttonPressed
	case b.hover:
		c = buttonHover
	}
	e.Driver().FillRect(b.el.Rect(), c)
}
