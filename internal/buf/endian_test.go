package buf

import "testing"

func TestU64LERoundTrip(t *testing.T) {
	b := make([]byte, 8)
	want := uint64(0xdead_beef_0bad_f00d)
	PutU64LE(b, want)
	if got := U64LE(b); got != want {
		t.Fatalf("round trip mismatch: got %#x want %#x", got, want)
	}
}

func TestShortBuffers(t *testing.T) {
	short := []byte{1, 2, 3}
	if U32LE(short) != 0x030201 {
		t.Fatalf("U32LE should refuse short buffer")
	}
	if U64LE(short) != 0 {
		t.Fatalf("U64LE should return 0 on short buffer")
	}
	PutU64LE(short, 42) // must not panic
}

func TestSignExtend(t *testing.T) {
	cases := []struct {
		v     uint64
		width uint
		want  int64
	}{
		{0, 10, 0},
		{511, 10, 511},
		{512, 10, -512},
		{1023, 10, -1},
		{1 << 43, 44, -(1 << 43)},
		{1<<43 - 1, 44, 1<<43 - 1},
	}
	for _, c := range cases {
		if got := SignExtend(c.v, c.width); got != c.want {
			t.Fatalf("SignExtend(%#x, %d) = %d, want %d", c.v, c.width, got, c.want)
		}
	}
}
