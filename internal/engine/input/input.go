// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Mouse buttons.
const (
	ButtonLeft   = sdl.BUTTON_LEFT
	ButtonMiddle = sdl.BUTTON_MIDDLE
	ButtonRight  = sdl.BUTTON_RIGHT
)

// Mods is the keyboard modifier state at the time of an event.
type Mods struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// ModsFromKeymod converts an SDL modifier mask. Left and right keys are
// treated alike; Cmd counts as Ctrl so macOS shortcuts work.
func ModsFromKeymod(m sdl.Keymod) Mods {
	return Mods{
		Shift: m&sdl.KMOD_SHIFT != 0,
		Ctrl:  m&(sdl.KMOD_CTRL|sdl.KMOD_GUI) != 0,
		Alt:   m&sdl.KMOD_ALT != 0,
	}
}

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Mods   Mods
	Width  int
	Height int
	MouseX int
	MouseY int
	RelX   int
	RelY   int
	Wheel  float32
	Button uint8
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to editor events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		mods := ModsFromKeymod(sdl.GetModState())

		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			ev := Event{
				Key:    e.Keysym.Scancode,
				Repeat: e.Repeat != 0,
				Mods:   ModsFromKeymod(sdl.Keymod(e.Keysym.Mod)),
			}
			switch e.Type {
			case sdl.KEYDOWN:
				ev.Type = EventKeyDown
			case sdl.KEYUP:
				ev.Type = EventKeyUp
			default:
				continue
			}
			i.events = append(i.events, ev)

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				Mods:   mods,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				RelX:   int(e.XRel),
				RelY:   int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			ev := Event{
				Mods:   mods,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			}
			switch e.Type {
			case sdl.MOUSEBUTTONDOWN:
				ev.Type = EventMouseDown
			case sdl.MOUSEBUTTONUP:
				ev.Type = EventMouseUp
			default:
				continue
			}
			i.events = append(i.events, ev)

		case *sdl.MouseWheelEvent:
			wheel := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				wheel = -wheel
			}
			i.events = append(i.events, Event{
				Type:  EventMouseWheel,
				Mods:  mods,
				Wheel: wheel,
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
