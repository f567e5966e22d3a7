package types

import "testing"

func TestGlobalAddressRoundTrip(t *testing.T) {
	cases := []struct {
		core CoreID
		off  LocalAddr
	}{
		{0, 0},
		{7, 0x100},
		{MaxCoreID, LocalAddr(MaxLocalOffset)},
		{1, 1},
		{123456, 0x7fff_ffff_0000},
	}
	for _, c := range cases {
		a := NewGlobalAddress(c.core, c.off)
		if a.Core() != c.core {
			t.Fatalf("core mismatch: got %d want %d", a.Core(), c.core)
		}
		if a.Offset() != c.off {
			t.Fatalf("offset mismatch: got %#x want %#x", a.Offset(), c.off)
		}
	}
}

func TestGlobalAddressMasksOverflow(t *testing.T) {
	a := NewGlobalAddress(CoreID(1<<CoreBits), LocalAddr(1)<<OffsetBits)
	if a.Core() != 0 || a.Offset() != 0 {
		t.Fatalf("expected masked zero address, got %v", a)
	}
}
