package ntmsg

import "errors"

var (
	// ErrRegistryFull indicates all 2^31-1 handler codes are assigned.
	ErrRegistryFull = errors.New("ntmsg: handler registry full")

	// ErrUnknownHandler indicates a code with no registered handler.
	ErrUnknownHandler = errors.New("ntmsg: unknown handler code")

	// ErrTruncatedBuffer indicates a received buffer ends mid-record.
	ErrTruncatedBuffer = errors.New("ntmsg: truncated message buffer")

	// ErrBufferOverflow indicates a single message cannot fit an empty
	// aggregation buffer; the buffer size is misconfigured.
	ErrBufferOverflow = errors.New("ntmsg: message larger than aggregation buffer")

	// ErrShapeMismatch indicates a send operation that does not match the
	// handler's registered shape.
	ErrShapeMismatch = errors.New("ntmsg: handler shape does not match send operation")

	// ErrCaptureSize indicates a capture whose length differs from the
	// handler's registration.
	ErrCaptureSize = errors.New("ntmsg: capture length does not match registration")

	// ErrMessageTooLarge indicates per-iteration data exceeding the
	// header's size field.
	ErrMessageTooLarge = errors.New("ntmsg: per-iteration data exceeds size field")

	// ErrBadHandler indicates an invalid handler registration.
	ErrBadHandler = errors.New("ntmsg: invalid handler registration")
)
