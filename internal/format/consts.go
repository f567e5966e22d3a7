package format

import "github.com/hhjcobra/grappa/pkg/types"

// Field widths of the NT message header. The header is two little-endian
// 64-bit words; the widths below must sum to 64 per word.
//
//	word 0: dest(20) addr(44)
//	word 1: fp(31) size(13) count(10) offset(10)
const (
	DestBits   = types.CoreBits
	AddrBits   = types.OffsetBits
	FPBits     = 31
	SizeBits   = 13
	CountBits  = 10
	OffsetBits = 10

	// HeaderSize is the encoded size of one header in bytes.
	HeaderSize = 16
)

// Field limits derived from the widths above.
const (
	MaxDest   = 1<<DestBits - 1
	MaxAddr   = 1<<AddrBits - 1
	MaxFP     = 1<<FPBits - 1
	MaxSize   = 1<<SizeBits - 1
	MaxCount  = 1<<CountBits - 1
	MaxOffset = 1<<(OffsetBits-1) - 1
	MinOffset = -(1 << (OffsetBits - 1))

	// InlineCaptureMax is the largest capture, in bytes, that fits in the
	// addr slot of an address-less message.
	InlineCaptureMax = AddrBits / 8
)
