package format

import (
	"errors"
	"math/rand"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Dest: 7, Addr: 0x100, FP: 42, Size: 20, Count: 4, Offset: 8}
	var b [HeaderSize]byte
	if err := h.Pack(b[:]); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	got, err := Unpack(b[:])
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, h)
	}
}

func TestHeaderRoundTripFuzzed(t *testing.T) {
	rng := rand.New(rand.NewSource(0x6772617070)) // deterministic
	var b [HeaderSize]byte
	for i := 0; i < 10000; i++ {
		h := Header{
			Dest:   uint32(rng.Intn(MaxDest + 1)),
			Addr:   uint64(rng.Int63()) & MaxAddr,
			FP:     uint32(rng.Intn(MaxFP + 1)),
			Size:   uint16(rng.Intn(MaxSize + 1)),
			Count:  uint16(1 + rng.Intn(MaxCount)),
			Offset: int16(rng.Intn(MaxOffset-MinOffset+1) + MinOffset),
		}
		if err := h.Pack(b[:]); err != nil {
			t.Fatalf("Pack(%+v): %v", h, err)
		}
		got, err := Unpack(b[:])
		if err != nil {
			t.Fatalf("Unpack: %v", err)
		}
		if got != h {
			t.Fatalf("round trip mismatch at iter %d: got %+v want %+v", i, got, h)
		}
	}
}

func TestHeaderNegativeOffset(t *testing.T) {
	h := Header{Dest: 1, Addr: 0x200, FP: 3, Count: 2, Offset: -8}
	var b [HeaderSize]byte
	if err := h.Pack(b[:]); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	got, err := Unpack(b[:])
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got.Offset != -8 {
		t.Fatalf("offset sign lost: got %d", got.Offset)
	}
}

func TestHeaderValidate(t *testing.T) {
	bad := []Header{
		{Dest: MaxDest + 1, Count: 1},
		{Addr: MaxAddr + 1, Count: 1},
		{FP: MaxFP + 1, Count: 1},
		{Size: MaxSize + 1, Count: 1},
		{Count: 0},
		{Count: MaxCount + 1},
		{Count: 1, Offset: MaxOffset + 1},
		{Count: 1, Offset: MinOffset - 1},
	}
	var b [HeaderSize]byte
	for _, h := range bad {
		if err := h.Pack(b[:]); !errors.Is(err, ErrFieldRange) {
			t.Fatalf("Pack(%+v): expected ErrFieldRange, got %v", h, err)
		}
	}
}

func TestHeaderPackShortBuffer(t *testing.T) {
	h := Header{Count: 1}
	if err := h.Pack(make([]byte, HeaderSize-1)); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if _, err := Unpack(make([]byte, HeaderSize-1)); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestRecordLen(t *testing.T) {
	h := Header{Count: 4, Size: 20}
	n, ok := h.RecordLen()
	if !ok || n != HeaderSize+80 {
		t.Fatalf("RecordLen = %d, %v", n, ok)
	}
	h = Header{Count: 3, Size: 0}
	n, ok = h.RecordLen()
	if !ok || n != HeaderSize {
		t.Fatalf("zero-size RecordLen = %d, %v", n, ok)
	}
}
