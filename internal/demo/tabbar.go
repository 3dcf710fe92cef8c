package demo

import (
	"image/color"

	"github.com/waozixyz/veng/engine"
	"github.com/waozixyz/veng/listen"
	"github.com/waozixyz/veng/render"
	"github.com/waozixyz/veng/tree"
)

const TabBarTitle = "Tab Bar"

var (
	tabIdle   = color.RGBA{R: 48, G: 48, B: 56, A: 255}
	tabActive = color.RGBA{R: 90, G: 120, B: 220, A: 255}

	pageColors = [...]color.RGBA{
		{R: 30, G: 110, B: 60, A: 255},  // home
		{R: 150, G: 110, B: 20, A: 255}, // search
		{R: 120, G: 40, B: 140, A: 255}, // profile
	}
)

var pageNames = [...]string{"home", "search", "profile"}

type tabBar struct {
	pages  [len(pageNames)]*tree.Element
	tabs   [len(pageNames)]*tree.Element
	bar    *tree.Element
	active int
}

// TabBar builds a screen with a page area above a bar of three tabs.
// Clicking a tab shows its page and hides the others.
func TabBar(e *engine.Engine) (engine.DrawFunc, error) {
	topLeft := tree.MustLayout(tree.Vertical, tree.Left, tree.Top)
	screen, err := tree.NewScreen(TabBarTitle, nil, topLeft, 2, 0)
	if err != nil {
		return nil, err
	}

	tb := &tabBar{}
	area, err := element("pages", 1, 0.9, topLeft, len(pageNames))
	if err != nil {
		return nil, err
	}
	if tb.bar, err = element("tab_bar", 1, 0.1, tree.MustLayout(tree.Horizontal, tree.Left, tree.Top), len(pageNames)); err != nil {
		return nil, err
	}
	if err := screen.AddElement(area); err != nil {
		return nil, err
	}
	if err := screen.AddElement(tb.bar); err != nil {
		return nil, err
	}

	for i, name := range pageNames {
		if tb.pages[i], err = element(name+"_page", 1, 1, topLeft, 0); err != nil {
			return nil, err
		}
		if tb.tabs[i], err = element(name+"_tab", 1.0/float32(len(pageNames)), 1, topLeft, 0); err != nil {
			return nil, err
		}
		if err := area.AddElement(tb.pages[i]); err != nil {
			return nil, err
		}
		if err := tb.bar.AddElement(tb.tabs[i]); err != nil {
			return nil, err
		}
	}

	if err := e.SetScreen(screen); err != nil {
		return nil, err
	}

	click := listen.NewMouseTrigger(false, true, false, false)
	for i := range tb.tabs {
		if _, err := e.AddMouseListener(tb.tabs[i], func(el *tree.Element, _ render.Event) {
			tb.show(i)
			e.Logger().Info("tab selected", "tab", el.Name)
		}, click); err != nil {
			return nil, err
		}
	}
	tb.show(0)
	return tb.draw, nil
}

// show makes page active the only visible page.
func (tb *tabBar) show(active int) {
	tb.active = active
	for i, page := range tb.pages {
		page.SetVisible(i == active)
	}
}

func (tb *tabBar) draw(e *engine.Engine) {
	host := e.Driver()
	page := tb.pages[tb.active]
	host.FillRect(page.Rect(), pageColors[tb.active])
	host.FillRect(tb.bar.Rect(), tabIdle)
	for i, tab := range tb.tabs {
		if i == tb.active {
			host.FillRect(tab.Rect(), tabActive)
		}
	}
}
