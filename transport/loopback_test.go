package transport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hhjcobra/grappa/pkg/types"
)

func TestLoopbackDelivery(t *testing.T) {
	f := NewFabric(2)
	a, err := f.Endpoint(0)
	require.NoError(t, err)
	b, err := f.Endpoint(1)
	require.NoError(t, err)

	require.NoError(t, a.Send(1, []byte("first")))
	require.NoError(t, a.Send(1, []byte("second")))

	got, ok := b.RecvPoll()
	require.True(t, ok)
	require.Equal(t, "first", string(got))
	got, ok = b.RecvPoll()
	require.True(t, ok)
	require.Equal(t, "second", string(got))
	_, ok = b.RecvPoll()
	require.False(t, ok)
}

func TestLoopbackCopiesBuffer(t *testing.T) {
	f := NewFabric(1)
	ep, err := f.Endpoint(0)
	require.NoError(t, err)

	src := []byte{1, 2, 3}
	require.NoError(t, ep.Send(0, src))
	src[0] = 99 // sender reuses its buffer immediately

	got, ok := ep.RecvPoll()
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestLoopbackUnknownDest(t *testing.T) {
	f := NewFabric(1)
	ep, err := f.Endpoint(0)
	require.NoError(t, err)

	err = ep.Send(7, []byte("x"))
	var terr *Error
	require.ErrorAs(t, err, &terr)
	require.Equal(t, types.CoreID(7), terr.Dest)

	_, err = f.Endpoint(9)
	require.Error(t, err)
}
