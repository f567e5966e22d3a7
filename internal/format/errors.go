package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrFieldRange indicates a header field value does not fit its bit width.
	ErrFieldRange = errors.New("format: header field out of range")
)
