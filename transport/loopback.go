package transport

import (
	"fmt"
	"sync"

	"k8s.io/klog/v2"

	"github.com/hhjcobra/grappa/pkg/types"
)

// Fabric is an in-process mesh of loopback endpoints. Each core gets an
// Endpoint; Send copies the buffer into the destination's queue, so the
// sender's buffer can be reset immediately, and the receiver owns the
// delivered copy outright.
type Fabric struct {
	mu     sync.Mutex
	queues [][][]byte
}

// NewFabric builds a fabric for cores [0, n).
func NewFabric(n int) *Fabric {
	return &Fabric{queues: make([][][]byte, n)}
}

// Endpoint returns core's transport handle.
func (f *Fabric) Endpoint(core types.CoreID) (*Loopback, error) {
	if int(core) >= len(f.queues) {
		return nil, fmt.Errorf("transport: core %d outside fabric of %d cores", core, len(f.queues))
	}
	return &Loopback{f: f, core: core}, nil
}

// Loopback is one core's view of a Fabric.
type Loopback struct {
	f    *Fabric
	core types.CoreID
}

var _ Transport = (*Loopback)(nil)

// Send copies b into dest's delivery queue. Per-destination FIFO order
// is preserved for buffers from the same sender.
func (l *Loopback) Send(dest types.CoreID, b []byte) error {
	if int(dest) >= len(l.f.queues) {
		return &Error{Dest: dest, Err: fmt.Errorf("no such core (fabric has %d)", len(l.f.queues))}
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	l.f.mu.Lock()
	l.f.queues[dest] = append(l.f.queues[dest], cp)
	l.f.mu.Unlock()
	klog.V(4).Infof("loopback: core %d -> core %d, %d bytes", l.core, dest, len(b))
	return nil
}

// RecvPoll pops the oldest pending buffer for this core.
func (l *Loopback) RecvPoll() ([]byte, bool) {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()
	q := l.f.queues[l.core]
	if len(q) == 0 {
		return nil, false
	}
	b := q[0]
	l.f.queues[l.core] = q[1:]
	return b, true
}

// ThisCore implements Transport.
func (l *Loopback) ThisCore() types.CoreID { return l.core }
