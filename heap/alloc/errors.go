package alloc

import "errors"

var (
	// ErrOutOfMemory indicates no free chunk large enough exists for the request.
	ErrOutOfMemory = errors.New("alloc: out of memory in the global heap")

	// ErrInvalidFree indicates a free of an address that no in-use chunk starts at.
	ErrInvalidFree = errors.New("alloc: invalid free")

	// ErrBadSize indicates the allocator was constructed over an empty region.
	ErrBadSize = errors.New("alloc: region size must be positive")
)
