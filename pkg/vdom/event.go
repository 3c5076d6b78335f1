package vdom

// EventKind discriminates event payloads.
type EventKind uint8

const (
	EventClick EventKind = iota
	EventInput
	EventKeyDown
	EventPointerMove
	EventFocus
	EventUnknown
)

// String returns the canonical event name for the kind.
func (k EventKind) String() string {
	switch k {
	case EventClick:
		return "click"
	case EventInput:
		return "input"
	case EventKeyDown:
		return "keydown"
	case EventPointerMove:
		return "pointermove"
	case EventFocus:
		return "focus"
	default:
		return "unknown"
	}
}

// KeyModifiers is a bitmask of held modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModControl
	ModAlt
	ModMeta
)

// Event is the payload delivered to listeners. Only the fields of the
// active kind are meaningful.
type Event struct {
	Kind EventKind

	// Input
	Value string

	// KeyDown
	Code string
	Mods KeyModifiers

	// PointerMove
	X float64
	Y float64

	// Focus
	Gained bool

	// Unknown
	Name string
}

// EventName returns the listener name this payload dispatches to.
func (e Event) EventName() string {
	if e.Kind == EventUnknown && e.Name != "" {
		return e.Name
	}
	return e.Kind.String()
}

// Click constructs a click payload.
func Click() Event {
	return Event{Kind: EventClick}
}

// Input constructs an input payload carrying the control's value.
func Input(value string) Event {
	return Event{Kind: EventInput, Value: value}
}

// KeyDown constructs a key payload.
func KeyDown(code string, mods KeyModifiers) Event {
	return Event{Kind: EventKeyDown, Code: code, Mods: mods}
}

// PointerMove constructs a pointer payload.
func PointerMove(x, y float64) Event {
	return Event{Kind: EventPointerMove, X: x, Y: y}
}

// Focus constructs a focus-change payload.
func Focus(gained bool) Event {
	return Event{Kind: EventFocus, Gained: gained}
}

// UnknownEvent constructs a payload for an event the core does not
// model; it still dispatches to listeners registered under name.
func UnknownEvent(name string) Event {
	return Event{Kind: EventUnknown, Name: name}
}
