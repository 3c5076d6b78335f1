package protocol

import (
	"github.com/krishpranav/nexa/internal/errors"
	"github.com/krishpranav/nexa/pkg/vdom"
)

// EncodeEvent appends an event frame payload to e: target node id,
// event kind, then the kind's fields.
func EncodeEvent(e *Encoder, target uint64, ev vdom.Event) {
	e.PutUvarint(target)
	e.PutByte(byte(ev.Kind))
	switch ev.Kind {
	case vdom.EventInput:
		e.PutString(ev.Value)
	case vdom.EventKeyDown:
		e.PutString(ev.Code)
		e.PutByte(byte(ev.Mods))
	case vdom.EventPointerMove:
		e.PutFloat64(ev.X)
		e.PutFloat64(ev.Y)
	case vdom.EventFocus:
		e.PutBool(ev.Gained)
	case vdom.EventUnknown:
		e.PutString(ev.Name)
	}
}

// DecodeEvent reads an event frame payload written by EncodeEvent.
func DecodeEvent(d *Decoder) (uint64, vdom.Event, error) {
	target, err := d.Uvarint()
	if err != nil {
		return 0, vdom.Event{}, errors.New("E102").Wrap(err)
	}
	kind, err := d.Byte()
	if err != nil {
		return 0, vdom.Event{}, errors.New("E102").Wrap(err)
	}
	ev := vdom.Event{Kind: vdom.EventKind(kind)}
	switch ev.Kind {
	case vdom.EventClick:
		// No payload.
	case vdom.EventInput:
		ev.Value, err = d.String()
	case vdom.EventKeyDown:
		if ev.Code, err = d.String(); err == nil {
			var mods byte
			if mods, err = d.Byte(); err == nil {
				ev.Mods = vdom.KeyModifiers(mods)
			}
		}
	case vdom.EventPointerMove:
		if ev.X, err = d.Float64(); err == nil {
			ev.Y, err = d.Float64()
		}
	case vdom.EventFocus:
		ev.Gained, err = d.Bool()
	case vdom.EventUnknown:
		ev.Name, err = d.String()
	default:
		return 0, vdom.Event{}, errors.New("E102").WithDetailf("event kind 0x%02x", kind)
	}
	if err != nil {
		return 0, vdom.Event{}, errors.New("E102").Wrap(err)
	}
	return target, ev, nil
}
