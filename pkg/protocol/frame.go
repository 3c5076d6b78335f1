package protocol

import "github.com/krishpranav/nexa/internal/errors"

// FrameType identifies the payload of a frame.
type FrameType uint8

const (
	FrameHello     FrameType = 0x00 // Connection setup: protocol version
	FrameEvent     FrameType = 0x01 // Applier → host event payload
	FrameMutations FrameType = 0x02 // Host → applier mutation batch
	FrameControl   FrameType = 0x03 // Ping/pong, yield hints
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHello:
		return "Hello"
	case FrameEvent:
		return "Event"
	case FrameMutations:
		return "Mutations"
	case FrameControl:
		return "Control"
	default:
		return "Unknown"
	}
}

// Version is the wire protocol version carried in Hello frames.
const Version = 1

// Control opcodes.
const (
	ControlPing byte = 0x01
	ControlPong byte = 0x02
)

// EncodeFrame prefixes a payload with its type byte.
func EncodeFrame(ft FrameType, payload []byte) []byte {
	out := make([]byte, 0, len(payload)+1)
	out = append(out, byte(ft))
	return append(out, payload...)
}

// DecodeFrame splits a frame into its type and payload.
func DecodeFrame(frame []byte) (FrameType, []byte, error) {
	if len(frame) == 0 {
		return 0, nil, errors.New("E100").WithDetail("empty frame")
	}
	ft := FrameType(frame[0])
	switch ft {
	case FrameHello, FrameEvent, FrameMutations, FrameControl:
		return ft, frame[1:], nil
	default:
		return 0, nil, errors.New("E100").WithDetailf("frame type 0x%02x", frame[0])
	}
}
