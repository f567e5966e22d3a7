package format

import (
	"fmt"

	"github.com/hhjcobra/grappa/internal/buf"
)

// Header is the decoded form of the 16-byte NT message descriptor.
//
// One header is followed by Count per-iteration blocks of Size bytes each
// (capture bytes, then payload bytes). Size may be zero, in which case the
// header alone encodes Count invocations.
type Header struct {
	Dest   uint32 // destination core (DestBits wide)
	Addr   uint64 // first target address, or inline capture bits (AddrBits wide)
	FP     uint32 // handler code (FPBits wide)
	Size   uint16 // bytes of per-iteration data (SizeBits wide)
	Count  uint16 // handler invocations, >= 1 (CountBits wide)
	Offset int16  // signed per-iteration address stride, in elements (OffsetBits wide)
}

// Validate reports whether every field fits its bit width and Count >= 1.
func (h Header) Validate() error {
	switch {
	case h.Dest > MaxDest:
		return fmt.Errorf("dest %d: %w", h.Dest, ErrFieldRange)
	case h.Addr > MaxAddr:
		return fmt.Errorf("addr %#x: %w", h.Addr, ErrFieldRange)
	case h.FP > MaxFP:
		return fmt.Errorf("fp %d: %w", h.FP, ErrFieldRange)
	case h.Size > MaxSize:
		return fmt.Errorf("size %d: %w", h.Size, ErrFieldRange)
	case h.Count < 1 || h.Count > MaxCount:
		return fmt.Errorf("count %d: %w", h.Count, ErrFieldRange)
	case h.Offset > MaxOffset || h.Offset < MinOffset:
		return fmt.Errorf("offset %d: %w", h.Offset, ErrFieldRange)
	}
	return nil
}

// Pack encodes h into b, which must hold at least HeaderSize bytes.
// Both 64-bit words are written little-endian so identically-linked peers
// decode identical layouts regardless of compiler.
func (h Header) Pack(b []byte) error {
	if len(b) < HeaderSize {
		return ErrTruncated
	}
	if err := h.Validate(); err != nil {
		return err
	}
	w0 := uint64(h.Dest) | h.Addr<<DestBits
	w1 := uint64(h.FP) |
		uint64(h.Size)<<FPBits |
		uint64(h.Count)<<(FPBits+SizeBits) |
		uint64(uint16(h.Offset)&(1<<OffsetBits-1))<<(FPBits+SizeBits+CountBits)
	buf.PutU64LE(b[0:8], w0)
	buf.PutU64LE(b[8:16], w1)
	return nil
}

// Unpack decodes the header at the start of b.
func Unpack(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrTruncated
	}
	w0 := buf.U64LE(b[0:8])
	w1 := buf.U64LE(b[8:16])
	h := Header{
		Dest:   uint32(w0 & MaxDest),
		Addr:   w0 >> DestBits,
		FP:     uint32(w1 & MaxFP),
		Size:   uint16(w1 >> FPBits & MaxSize),
		Count:  uint16(w1 >> (FPBits + SizeBits) & MaxCount),
		Offset: int16(buf.SignExtend(w1>>(FPBits+SizeBits+CountBits), OffsetBits)),
	}
	return h, nil
}

// RecordLen returns the total encoded length of the record described by h:
// the header itself plus Count blocks of Size bytes. ok is false when the
// arithmetic overflows.
func (h Header) RecordLen() (int, bool) {
	body, ok := buf.MulOverflowSafe(int(h.Count), int(h.Size))
	if !ok {
		return 0, false
	}
	return buf.AddOverflowSafe(HeaderSize, body)
}
