// Package transport defines the interface the messaging core uses to
// move finished aggregation buffers between cores, and an in-process
// loopback implementation for tests and benchmarks. The real network
// layer (RDMA or MPI-style send/recv) lives outside this repository and
// satisfies the same interface.
package transport

import (
	"fmt"

	"github.com/hhjcobra/grappa/pkg/types"
)

// Transport moves opaque byte buffers between cores. Send may block
// under backpressure; that is the only point where a sending task
// suspends. Implementations must not retain buf after Send returns.
type Transport interface {
	// Send delivers buf to dest. The buffer is consumed by the call.
	Send(dest types.CoreID, b []byte) error

	// RecvPoll returns the next ready incoming buffer for this core, or
	// ok = false when none is pending. Ownership of the returned buffer
	// moves to the caller.
	RecvPoll() ([]byte, bool)

	// ThisCore identifies the local core.
	ThisCore() types.CoreID
}

// Error wraps a transport failure with its destination so flush paths
// can report which peer was unreachable.
type Error struct {
	Dest types.CoreID
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport: send to core %d: %v", e.Dest, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
