package ntmsg

import (
	"fmt"
	"reflect"

	"k8s.io/klog/v2"

	"github.com/hhjcobra/grappa/internal/format"
)

// HandlerCode is the 31-bit wire identifier of a registered handler.
// Codes are assigned in registration order; because every peer links the
// same binary and registers in the same program-start order, a code
// minted on one core resolves to the same handler on every other.
type HandlerCode uint32

// HandlerSpec describes a handler's shape and entry point. The shape
// fixes the wire layout of every message sent through the code, so the
// receive side needs nothing but the code to decode and dispatch.
type HandlerSpec struct {
	// Shape selects the address/payload axes.
	Shape Shape

	// CaptureSize is the fixed number of capture bytes carried per
	// iteration. Zero means the handler captures nothing.
	CaptureSize int

	// ElemSize is the size in bytes of the element the address points
	// at; the header's stride field counts elements of this size.
	// Required (>= 1) for address-bearing shapes, ignored otherwise.
	ElemSize int

	// Fn is the entry point: PlainFunc, AddrFunc, PayloadFunc or
	// AddrPayloadFunc, matching Shape.
	Fn any

	// inline is set when the capture travels in the header's address
	// bits instead of the per-iteration block.
	inline bool
}

// wireSize returns the per-iteration byte count recorded in the header
// for a message with the given payload length.
func (s *HandlerSpec) wireSize(payloadLen int) int {
	if s.inline {
		return payloadLen
	}
	return s.CaptureSize + payloadLen
}

// Registry maps handler codes to specs and entry points to codes. It is
// populated during program start and read-only afterwards, which is what
// makes it safe to share across the receive path.
type Registry struct {
	specs []HandlerSpec
	codes map[uintptr]HandlerCode
}

// DefaultRegistry is the process-wide registry used by Aggregators that
// are not given one explicitly.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codes: make(map[uintptr]HandlerCode)}
}

// Register validates spec, assigns the next code, and records the
// bidirectional mapping. Returns ErrRegistryFull once all codes are
// assigned; that is a program structure error, not a runtime condition.
func (r *Registry) Register(spec HandlerSpec) (HandlerCode, error) {
	if err := checkSpec(&spec); err != nil {
		return 0, err
	}
	if len(r.specs) >= format.MaxFP {
		return 0, ErrRegistryFull
	}
	spec.inline = !spec.Shape.HasAddr() &&
		spec.CaptureSize > 0 && spec.CaptureSize <= format.InlineCaptureMax

	code := HandlerCode(len(r.specs))
	r.specs = append(r.specs, spec)
	r.codes[reflect.ValueOf(spec.Fn).Pointer()] = code
	klog.V(3).Infof("handler %d: shape %s, capture %d, elem %d, inline %v",
		code, spec.Shape, spec.CaptureSize, spec.ElemSize, spec.inline)
	return code, nil
}

// MustRegister is Register for init-time use; registration failures
// abort the process since no peer could agree on codes afterwards.
func (r *Registry) MustRegister(spec HandlerSpec) HandlerCode {
	code, err := r.Register(spec)
	if err != nil {
		klog.Fatalf("handler registration failed: %v", err)
	}
	return code
}

// Lookup resolves a code received on the wire.
func (r *Registry) Lookup(code HandlerCode) (*HandlerSpec, error) {
	if int(code) >= len(r.specs) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandler, code)
	}
	return &r.specs[code], nil
}

// CodeOf returns the code registered for the given entry point.
func (r *Registry) CodeOf(fn any) (HandlerCode, bool) {
	code, ok := r.codes[reflect.ValueOf(fn).Pointer()]
	return code, ok
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int { return len(r.specs) }

func checkSpec(spec *HandlerSpec) error {
	var want Shape
	switch spec.Fn.(type) {
	case PlainFunc:
		want = ShapePlain
	case AddrFunc:
		want = ShapeAddr
	case PayloadFunc:
		want = ShapePayload
	case AddrPayloadFunc:
		want = ShapeAddrPayload
	default:
		return fmt.Errorf("%w: Fn has type %T", ErrBadHandler, spec.Fn)
	}
	if spec.Shape != want {
		return fmt.Errorf("%w: shape %s but Fn is a %T", ErrBadHandler, spec.Shape, spec.Fn)
	}
	if spec.CaptureSize < 0 || spec.CaptureSize > format.MaxSize {
		return fmt.Errorf("%w: capture size %d", ErrBadHandler, spec.CaptureSize)
	}
	if spec.Shape.HasAddr() && spec.ElemSize < 1 {
		return fmt.Errorf("%w: address shape needs element size", ErrBadHandler)
	}
	return nil
}
