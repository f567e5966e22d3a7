package types

import "fmt"

// CoreID identifies a logical compute core in the cluster. The runtime
// supports up to 2^20 cores; the value is carried in 20 bits on the wire.
type CoreID uint32

// LocalAddr is a byte offset within one core's local heap region. Handlers
// receive local addresses and resolve them against their own core's heap.
type LocalAddr int64

// GlobalAddress names a cell in the partitioned global heap. The top
// CoreBits bits select the home core, the low OffsetBits bits are the byte
// offset within that core's local region.
type GlobalAddress uint64

// NewGlobalAddress composes a global address from a home core and a local
// byte offset. Values outside the field ranges are masked.
func NewGlobalAddress(core CoreID, off LocalAddr) GlobalAddress {
	return GlobalAddress(uint64(core&MaxCoreID)<<OffsetBits | uint64(off)&MaxLocalOffset)
}

// Core returns the home core of the address.
func (a GlobalAddress) Core() CoreID {
	return CoreID(uint64(a) >> OffsetBits)
}

// Offset returns the byte offset within the home core's local region.
func (a GlobalAddress) Offset() LocalAddr {
	return LocalAddr(uint64(a) & MaxLocalOffset)
}

func (a GlobalAddress) String() string {
	return fmt.Sprintf("gaddr{core %d off 0x%x}", a.Core(), int64(a.Offset()))
}
