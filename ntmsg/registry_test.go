package ntmsg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hhjcobra/grappa/pkg/types"
)

func TestRegisterAssignsSequentialCodes(t *testing.T) {
	reg := NewRegistry()

	f1 := PlainFunc(func(capture []byte) {})
	f2 := AddrFunc(func(addr types.LocalAddr, capture []byte) {})

	c1, err := reg.Register(HandlerSpec{Shape: ShapePlain, Fn: f1})
	require.NoError(t, err)
	c2, err := reg.Register(HandlerSpec{Shape: ShapeAddr, ElemSize: 8, Fn: f2})
	require.NoError(t, err)

	require.Equal(t, HandlerCode(0), c1)
	require.Equal(t, HandlerCode(1), c2)
	require.Equal(t, 2, reg.Len())

	got, ok := reg.CodeOf(f1)
	require.True(t, ok)
	require.Equal(t, c1, got)
	got, ok = reg.CodeOf(f2)
	require.True(t, ok)
	require.Equal(t, c2, got)
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Register(HandlerSpec{Shape: ShapePlain, Fn: 42})
	require.ErrorIs(t, err, ErrBadHandler, "non-func entry point")

	_, err = reg.Register(HandlerSpec{Shape: ShapeAddr, Fn: PlainFunc(func([]byte) {})})
	require.ErrorIs(t, err, ErrBadHandler, "shape / entry point mismatch")

	_, err = reg.Register(HandlerSpec{Shape: ShapeAddr, ElemSize: 0,
		Fn: AddrFunc(func(types.LocalAddr, []byte) {})})
	require.ErrorIs(t, err, ErrBadHandler, "address shape without element size")

	_, err = reg.Register(HandlerSpec{Shape: ShapePlain, CaptureSize: -1,
		Fn: PlainFunc(func([]byte) {})})
	require.ErrorIs(t, err, ErrBadHandler)
}

func TestLookupUnknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Lookup(0)
	require.ErrorIs(t, err, ErrUnknownHandler)
}

func TestInlineSelection(t *testing.T) {
	reg := NewRegistry()

	small, err := reg.Register(HandlerSpec{Shape: ShapePlain, CaptureSize: 4,
		Fn: PlainFunc(func([]byte) {})})
	require.NoError(t, err)
	spec, err := reg.Lookup(small)
	require.NoError(t, err)
	require.True(t, spec.inline, "4-byte capture fits the 44 address bits")
	require.Equal(t, 0, spec.wireSize(0))

	big, err := reg.Register(HandlerSpec{Shape: ShapePlain, CaptureSize: 16,
		Fn: PlainFunc(func([]byte) {})})
	require.NoError(t, err)
	spec, err = reg.Lookup(big)
	require.NoError(t, err)
	require.False(t, spec.inline)
	require.Equal(t, 16, spec.wireSize(0))

	addressed, err := reg.Register(HandlerSpec{Shape: ShapeAddr, CaptureSize: 4, ElemSize: 8,
		Fn: AddrFunc(func(types.LocalAddr, []byte) {})})
	require.NoError(t, err)
	spec, err = reg.Lookup(addressed)
	require.NoError(t, err)
	require.False(t, spec.inline, "address shapes need the slot for the address")
}
