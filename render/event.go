package render

import (
	"fmt"

	"github.com/waozixyz/veng/geom"
)

// EventType tags an input event.
type EventType uint8

const (
	EventNone EventType = iota
	EventQuit
	EventMouseMotion
	EventMouseButtonDown
	EventMouseButtonUp
	EventMouseWheel
	EventTextInput
	EventKeyDown
	EventKeyUp
	EventWindowResized
)

var eventTypeNames = [...]string{
	EventNone:            "None",
	EventQuit:            "Quit",
	EventMouseMotion:     "MouseMotion",
	EventMouseButtonDown: "MouseButtonDown",
	EventMouseButtonUp:   "MouseButtonUp",
	EventMouseWheel:      "MouseWheel",
	EventTextInput:       "TextInput",
	EventKeyDown:         "KeyDown",
	EventKeyUp:           "KeyUp",
	EventWindowResized:   "WindowResized",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// IsPointer reports whether events of this type carry pointer coordinates.
func (t EventType) IsPointer() bool {
	switch t {
	case EventMouseMotion, EventMouseButtonDown, EventMouseButtonUp, EventMouseWheel:
		return true
	}
	return false
}

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	ButtonLeft MouseButton = iota + 1
	ButtonMiddle
	ButtonRight
)

// Key codes carried by KeyDown and KeyUp events. Values follow the GLFW
// numbering used by raylib; printable keys use their ASCII code.
const (
	KeyEscape    int32 = 256
	KeyEnter     int32 = 257
	KeyTab       int32 = 258
	KeyBackspace int32 = 259
)

// Event is one polled input event. Pos is set for pointer events (the
// pointer location at wheel time for wheel events), Text for text input.
type Event struct {
	Type   EventType
	Pos    geom.Point
	Button MouseButton
	WheelX float32
	WheelY float32
	Text   string
	Key    int32
}

func (e Event) String() string {
	switch {
	case e.Type.IsPointer():
		return fmt.Sprintf("%s(%d,%d)", e.Type, e.Pos.X, e.Pos.Y)
	case e.Type == EventTextInput:
		return fmt.Sprintf("%s(%q)", e.Type, e.Text)
	}
	return e.Type.String()
}
