package ntmsg

import "github.com/hhjcobra/grappa/pkg/types"

// Shape classifies a handler along the address and payload axes. The
// capture axis is carried by HandlerSpec.CaptureSize.
type Shape uint8

const (
	// ShapePlain messages carry neither address nor payload.
	ShapePlain Shape = iota
	// ShapeAddr messages target a global address; the handler receives
	// the local half and combining may stride across iterations.
	ShapeAddr
	// ShapePayload messages carry variable payload bytes per iteration.
	ShapePayload
	// ShapeAddrPayload messages carry both.
	ShapeAddrPayload
)

// HasAddr reports whether messages of this shape target an address.
func (s Shape) HasAddr() bool { return s == ShapeAddr || s == ShapeAddrPayload }

// HasPayload reports whether messages of this shape carry payload bytes.
func (s Shape) HasPayload() bool { return s == ShapePayload || s == ShapeAddrPayload }

func (s Shape) String() string {
	switch s {
	case ShapePlain:
		return "plain"
	case ShapeAddr:
		return "addr"
	case ShapePayload:
		return "payload"
	case ShapeAddrPayload:
		return "addr+payload"
	}
	return "invalid"
}

// The four callable forms, one per shape. Capture and payload slices
// alias the receive buffer and are only valid for the duration of the
// call; handlers that retain data must copy it.
type (
	// PlainFunc handles ShapePlain messages.
	PlainFunc func(capture []byte)
	// AddrFunc handles ShapeAddr messages.
	AddrFunc func(addr types.LocalAddr, capture []byte)
	// PayloadFunc handles ShapePayload messages.
	PayloadFunc func(capture, payload []byte)
	// AddrPayloadFunc handles ShapeAddrPayload messages.
	AddrPayloadFunc func(addr types.LocalAddr, capture, payload []byte)
)
