package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/waozixyz/veng/listen"
	"github.com/waozixyz/veng/tree"
)

// Node kind colors, used only when w is a color terminal.
const (
	colorScreen  = "#89b4fa"
	colorLayer   = "#a6e3a1"
	colorElement = "#f9e2af"
	colorHidden  = "#6c7086"
)

type printer struct {
	out *termenv.Output
	w   io.Writer
	err error
}

func newPrinter(w io.Writer) *printer {
	return &printer{out: termenv.NewOutput(w), w: w}
}

func (p *printer) paint(s, hex string, bold bool) string {
	st := p.out.String(s).Foreground(p.out.Color(hex))
	if bold {
		st = st.Bold()
	}
	return st.String()
}

func (p *printer) line(indent int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", indent), fmt.Sprintf(format, args...))
}

// PrintScreenHierarchy writes the tree of s with the rect of every element.
func PrintScreenHierarchy(w io.Writer, s *tree.Screen) error {
	if s == nil {
		return fmt.Errorf("PrintScreenHierarchy: %w", ErrNilScreen)
	}
	p := newPrinter(w)
	p.line(0, "%s %q %s", p.paint("Screen", colorScreen, true), s.Title, s.Layout())
	for _, el := range s.Children().All() {
		p.element(1, el)
	}
	for i, layer := range s.Layers().All() {
		name := layer.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		p.line(1, "%s %s %s", p.paint("Layer", colorLayer, true), name, layer.Layout())
		for _, el := range layer.Children().All() {
			p.element(2, el)
		}
	}
	return p.err
}

func (p *printer) element(indent int, el *tree.Element) {
	name := el.Name
	if name == "" {
		name = "-"
	}
	mode := "aspect"
	if el.Stretch() {
		mode = "stretch"
	}
	kind := p.paint("Element", colorElement, false)
	if !el.Visible() {
		kind = p.paint("Element", colorHidden, false) + " (hidden)"
	}
	size := el.Size()
	p.line(indent, "%s %s rect=%s size=%.2fx%.2f %s", kind, name, el.Rect(), size.W, size.H, mode)
	if el.Children().Len() > 0 {
		p.line(indent+1, "%s", el.Layout())
	}
	for _, sub := range el.Children().All() {
		p.element(indent+1, sub)
	}
}

// PrintHierarchy writes the tree of the active screen.
func (e *Engine) PrintHierarchy(w io.Writer) error {
	if err := e.notStarted("PrintHierarchy"); err != nil {
		return err
	}
	if e.screen == nil {
		return fmt.Errorf("PrintHierarchy: %w", ErrNoScreen)
	}
	return PrintScreenHierarchy(w, e.screen)
}

func triggerString(t listen.MouseTrigger) string {
	var parts []string
	if t.Motion {
		parts = append(parts, "motion")
	}
	if t.ButtonDown {
		parts = append(parts, "down")
	}
	if t.ButtonUp {
		parts = append(parts, "up")
	}
	if t.Wheel {
		parts = append(parts, "wheel")
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func elementName(el *tree.Element) string {
	switch {
	case el == nil:
		return "<none>"
	case el.Name == "":
		return "-"
	}
	return el.Name
}

// PrintLayerListeners writes the typed listeners registered on layer.
func (e *Engine) PrintLayerListeners(w io.Writer, layer *tree.Layer) error {
	if layer == nil {
		return fmt.Errorf("PrintLayerListeners: %w", listen.ErrNilLayer)
	}
	p := newPrinter(w)
	list := e.listeners.LayerListeners(layer)
	p.line(0, "%s %s: %d listener(s)", p.paint("Layer", colorLayer, true), layer.Name, len(list))
	for _, l := range list {
		p.line(1, "#%d on %s element=%s condition=%t", l.Handle(), l.Trigger, elementName(l.Element), l.Condition != nil)
	}
	return p.err
}

// PrintListeners writes the mouse registry, the keyboard state and the
// listeners of every layer of the active screen.
func (e *Engine) PrintListeners(w io.Writer) error {
	p := newPrinter(w)
	mouse := e.listeners.MouseListeners()
	p.line(0, "%s: %d listener(s)", p.paint("Mouse", colorScreen, true), len(mouse))
	for _, m := range mouse {
		p.line(1, "#%d element=%s rect=%s trigger=%s", m.Handle(), elementName(m.Element), m.Element.Rect(), triggerString(m.Trigger))
	}
	kb := "detached"
	if buf := e.listeners.KeyboardBuffer(); buf != nil {
		kb = fmt.Sprintf("%d/%d bytes", buf.Len(), buf.Limit())
	}
	p.line(0, "%s: listening=%t buffer=%s", p.paint("Keyboard", colorScreen, true), e.listeners.KeyboardListening(), kb)
	if p.err != nil || e.screen == nil {
		return p.err
	}
	for _, layer := range e.screen.Layers().All() {
		if err := e.PrintLayerListeners(w, layer); err != nil {
			return err
		}
	}
	return nil
}
