// Package heap provides each core's slice of the partitioned global
// heap: an mmap-backed local region fronted by a buddy allocator, with
// allocations named cluster-wide by GlobalAddress.
//
// A Heap is owned by its core's thread. Remote cores never touch it
// directly; they address its cells through messages carrying the local
// offset half of a GlobalAddress.
package heap

import (
	"errors"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/hhjcobra/grappa/heap/alloc"
	"github.com/hhjcobra/grappa/internal/buf"
	"github.com/hhjcobra/grappa/pkg/types"
)

var (
	// ErrNotHome indicates an operation on an address homed on another core.
	ErrNotHome = errors.New("heap: address not homed on this core")

	// ErrBadRegion indicates an invalid region size at construction.
	ErrBadRegion = errors.New("heap: invalid region size")
)

// Heap is one core's local slice of the global heap.
type Heap struct {
	core    types.CoreID
	mem     []byte
	cleanup func() error
	a       *alloc.Allocator
}

// New maps a local region of size bytes for the given core and builds the
// allocator over it. Offsets within the region must fit the address bits
// of the wire format.
func New(core types.CoreID, size int64) (*Heap, error) {
	if core > types.MaxCoreID {
		return nil, fmt.Errorf("heap: core %d out of range", core)
	}
	if size <= 0 || uint64(size) > types.MaxLocalOffset+1 {
		return nil, fmt.Errorf("%w: %d", ErrBadRegion, size)
	}
	mem, cleanup, err := mapRegion(size)
	if err != nil {
		return nil, err
	}
	a, err := alloc.New(0, size)
	if err != nil {
		cleanup() //nolint:errcheck // construction already failed
		return nil, err
	}
	klog.V(2).Infof("core %d local heap: %d bytes", core, size)
	return &Heap{core: core, mem: mem, cleanup: cleanup, a: a}, nil
}

// Core returns the core this heap is homed on.
func (h *Heap) Core() types.CoreID { return h.core }

// Alloc reserves n bytes and returns their global address.
func (h *Heap) Alloc(n int64) (types.GlobalAddress, error) {
	off, err := h.a.Malloc(n)
	if err != nil {
		return 0, err
	}
	return types.NewGlobalAddress(h.core, types.LocalAddr(off)), nil
}

// AllocElems reserves n elements of elemSize bytes each.
func (h *Heap) AllocElems(n, elemSize int64) (types.GlobalAddress, error) {
	total, ok := buf.MulOverflowSafe(int(n), int(elemSize))
	if !ok {
		return 0, fmt.Errorf("%w: %d x %d overflows", ErrBadRegion, n, elemSize)
	}
	return h.Alloc(int64(total))
}

// Free releases an allocation made on this heap. The address must be
// homed here; remote frees go through a message to the owning core.
func (h *Heap) Free(addr types.GlobalAddress) error {
	if addr.Core() != h.core {
		return fmt.Errorf("%w: %v", ErrNotHome, addr)
	}
	return h.a.Free(int64(addr.Offset()))
}

// Bytes returns a view of n bytes of the local region starting at off.
// ok is false when the range falls outside the region.
func (h *Heap) Bytes(off types.LocalAddr, n int64) ([]byte, bool) {
	return buf.Slice(h.mem, int(off), int(n))
}

// Stats reports the underlying allocator's state and counters.
func (h *Heap) Stats() alloc.Stats { return h.a.Stats() }

// Close releases the mapped region. The heap must not be used afterwards.
func (h *Heap) Close() error { return h.cleanup() }
