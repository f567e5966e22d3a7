package types

// Field widths of the global address split. These are wire-visible: the NT
// message header carries the destination core and the local offset in
// exactly these widths, so changing them is a protocol break.
const (
	// CoreBits is the width of a core identifier (up to ~1M cores).
	CoreBits = 20

	// OffsetBits is the width of a local heap offset. 44 bits covers the
	// virtual address ranges current hardware hands out.
	OffsetBits = 44

	// MaxCoreID is the largest representable core identifier.
	MaxCoreID CoreID = 1<<CoreBits - 1

	// MaxLocalOffset is the largest representable local byte offset.
	MaxLocalOffset uint64 = 1<<OffsetBits - 1
)
