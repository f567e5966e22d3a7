package buf

import "math"

// Overflow-checked arithmetic for walking received message buffers. A
// record's extent is the fixed header plus count*size body bytes, and
// both factors come off the wire, so every cursor step is validated
// before it indexes anything.

// AddOverflowSafe returns a+b, with ok = false when the sum wraps.
func AddOverflowSafe(a, b int) (int, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// MulOverflowSafe multiplies non-negative a and b, returning ok = false when
// the result would overflow int. Used for count * size record arithmetic.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// Slice returns the n bytes at off within b, or ok = false when the
// range escapes the buffer. Record walks carve the header and each
// per-iteration block through this so corrupt input surfaces as an
// error instead of a panic.
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether the n bytes at off lie within b.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
