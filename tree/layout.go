// tree/layout.go
package tree

import "fmt"

// Arrangement selects the axis along which siblings are packed.
type Arrangement uint8

const (
	Horizontal Arrangement = iota
	Vertical
)

func (a Arrangement) String() string {
	switch a {
	case Horizontal:
		return "HORIZONTAL"
	case Vertical:
		return "VERTICAL"
	}
	return fmt.Sprintf("Arrangement(%d)", uint8(a))
}

// Align is a placement rule on one axis. Left and Right are only legal
// horizontally, Top and Bottom only vertically, Center on both.
type Align uint8

const (
	Left Align = iota
	Top
	Center
	Right
	Bottom
)

func (a Align) String() string {
	switch a {
	case Left:
		return "LEFT"
	case Top:
		return "TOP"
	case Center:
		return "CENTER"
	case Right:
		return "RIGHT"
	case Bottom:
		return "BOTTOM"
	}
	return fmt.Sprintf("Align(%d)", uint8(a))
}

// Layout describes how a parent places its children.
type Layout struct {
	Arrangement Arrangement
	AlignH      Align
	AlignV      Align
}

// NewLayout validates and returns a Layout.
func NewLayout(arrangement Arrangement, alignH, alignV Align) (Layout, error) {
	l := Layout{Arrangement: arrangement, AlignH: alignH, AlignV: alignV}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// MustLayout is NewLayout for static declarations; it panics on an invalid combination.
func MustLayout(arrangement Arrangement, alignH, alignV Align) Layout {
	l, err := NewLayout(arrangement, alignH, alignV)
	if err != nil {
		panic(err)
	}
	return l
}

// Validate checks the arrangement and that each alignment belongs to its axis.
func (l Layout) Validate() error {
	if l.Arrangement != Horizontal && l.Arrangement != Vertical {
		return fmt.Errorf("%w: arrangement %s", ErrInvalidLayout, l.Arrangement)
	}
	switch l.AlignH {
	case Left, Center, Right:
	default:
		return fmt.Errorf("%w: horizontal align %s", ErrInvalidLayout, l.AlignH)
	}
	switch l.AlignV {
	case Top, Center, Bottom:
	default:
		return fmt.Errorf("%w: vertical align %s", ErrInvalidLayout, l.AlignV)
	}
	return nil
}

func (l Layout) String() string {
	return fmt.Sprintf("%s %s/%s", l.Arrangement, l.AlignH, l.AlignV)
}
