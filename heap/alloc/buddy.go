package alloc

import (
	"fmt"
	"io"
	"os"
	"sort"

	"k8s.io/klog/v2"
)

// Runtime trace flag for the allocation hot path - controlled by GRAPPA_LOG_ALLOC.
var logAlloc = os.Getenv("GRAPPA_LOG_ALLOC") != ""

// chunk is an allocator-owned region of the managed range. Offsets are
// relative to the allocator base; sizes are always powers of two.
type chunk struct {
	offset int64
	size   int64
	inUse  bool
	slot   int // index in its size's free list while free
}

// Allocator is a buddy allocator over a contiguous address range.
// It is owned by one core and must not be shared across threads.
type Allocator struct {
	base int64
	size int64

	// chunks holds every chunk, in use or free, keyed by offset. Exactly
	// one entry exists per chunk; buddy lookup is chunks[offset^size].
	chunks map[int64]*chunk

	// freeLists buckets free chunks by size. Empty classes are removed,
	// so membership of a size key implies at least one free chunk.
	freeLists map[int64][]*chunk

	stats Stats
}

// Stats is a snapshot of allocator state plus lifetime counters.
type Stats struct {
	Chunks     int64 // chunks currently tracked, free or in use
	BytesTotal int64 // sum of all chunk sizes; invariant: equals the region size
	BytesInUse int64
	BytesFree  int64

	MallocCalls int64
	FreeCalls   int64
	Splits      int64
	Merges      int64
}

// New builds an allocator over [base, base+size). A size that is not a
// power of two is decomposed greedily into descending power-of-two chunks.
func New(base, size int64) (*Allocator, error) {
	if size <= 0 {
		return nil, ErrBadSize
	}
	a := &Allocator{
		base:      base,
		size:      size,
		chunks:    make(map[int64]*chunk),
		freeLists: make(map[int64][]*chunk),
	}
	klog.V(1).Infof("allocator managing [%#x, %#x)", base, base+size)

	off := int64(0)
	for size > 0 {
		cs := size
		if size&(size-1) != 0 {
			cs = nextPow2(size/2 + 1) // highest power of two below size
		}
		c := &chunk{offset: off, size: cs}
		a.chunks[off] = c
		a.addToFreeList(c)
		size -= cs
		off += cs
	}
	return a, nil
}

// Malloc reserves n bytes, rounded up to the next power of two, and
// returns the absolute address of the chunk. The address is aligned to
// the rounded size relative to base. Returns ErrOutOfMemory when no free
// chunk of at least the rounded size exists; requests are never satisfied
// by stitching together non-buddy chunks.
func (a *Allocator) Malloc(n int64) (int64, error) {
	a.stats.MallocCalls++
	allocSize := nextPow2(n)

	c := a.takeSmallest(allocSize)
	if c == nil {
		klog.Errorf("out of memory in the global heap: no free chunk of size %d to hold an allocation of %d bytes", allocSize, n)
		return 0, fmt.Errorf("%w: need %d bytes", ErrOutOfMemory, allocSize)
	}

	// Split down to the target size, keeping the lower-offset half as the
	// allocation and returning each upper half to its free list.
	for c.size > allocSize {
		a.stats.Splits++
		c.size /= 2
		buddy := &chunk{offset: c.offset + c.size, size: c.size}
		a.chunks[buddy.offset] = buddy
		a.addToFreeList(buddy)
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[alloc] split: kept {%#x %d}, freed buddy {%#x %d}\n",
				c.offset, c.size, buddy.offset, buddy.size)
		}
	}

	return a.base + c.offset, nil
}

// Free releases a chunk previously returned by Malloc and merges it with
// its buddy as far as possible. Returns ErrInvalidFree when no in-use
// chunk starts at addr (including double frees).
func (a *Allocator) Free(addr int64) error {
	a.stats.FreeCalls++
	off := addr - a.base
	c, ok := a.chunks[off]
	if !ok || !c.inUse {
		return fmt.Errorf("%w: address %#x", ErrInvalidFree, addr)
	}
	a.addToFreeList(c)
	a.tryMerge(c)
	return nil
}

// tryMerge recombines c with its buddy while the buddy exists, has equal
// size, and is free. The lower-addressed chunk survives with doubled
// size; merging stops at region edges (the XOR points at nothing) and
// when the chunk covers the whole allocator.
func (a *Allocator) tryMerge(c *chunk) {
	for {
		buddyOff := c.offset ^ c.size
		b, ok := a.chunks[buddyOff]
		if !ok || b.size != c.size || b.inUse {
			return
		}
		klog.V(5).Infof("merging buddies {%#x %d} and {%#x %d}", c.offset, c.size, b.offset, b.size)
		a.stats.Merges++

		lower, higher := c, b
		if b.offset < c.offset {
			lower, higher = b, c
		}
		a.removeFromFreeList(higher)
		delete(a.chunks, higher.offset)

		a.removeFromFreeList(lower)
		lower.size *= 2
		a.addToFreeList(lower)

		c = lower
	}
}

// Stats returns the current state snapshot and lifetime counters.
func (a *Allocator) Stats() Stats {
	s := a.stats
	for _, c := range a.chunks {
		s.Chunks++
		s.BytesTotal += c.size
		if c.inUse {
			s.BytesInUse += c.size
		} else {
			s.BytesFree += c.size
		}
	}
	return s
}

// Dump writes a human-readable description of every chunk and free list.
func (a *Allocator) Dump(w io.Writer) {
	fmt.Fprintf(w, "all chunks = {\n")
	for _, c := range a.chunksByOffset() {
		fmt.Fprintf(w, "   [ chunk %#x size %d in_use %v ]\n", a.base+c.offset, c.size, c.inUse)
	}
	fmt.Fprintf(w, "}, free lists = {\n")
	sizes := make([]int64, 0, len(a.freeLists))
	for s := range a.freeLists {
		sizes = append(sizes, s)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
	for _, s := range sizes {
		fmt.Fprintf(w, "   %d:", s)
		for _, c := range a.freeLists[s] {
			fmt.Fprintf(w, " %#x", a.base+c.offset)
		}
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "}\n")
}

// addToFreeList marks c free and pushes it onto its size's list.
func (a *Allocator) addToFreeList(c *chunk) {
	list := a.freeLists[c.size]
	c.slot = len(list)
	a.freeLists[c.size] = append(list, c)
	c.inUse = false
}

// removeFromFreeList unlinks c from its size's list (swap with last) and
// marks it in use. Empty classes are deleted so that takeSmallest can
// treat key presence as availability.
func (a *Allocator) removeFromFreeList(c *chunk) {
	list := a.freeLists[c.size]
	last := len(list) - 1
	list[c.slot] = list[last]
	list[c.slot].slot = c.slot
	list = list[:last]
	if len(list) == 0 {
		delete(a.freeLists, c.size)
	} else {
		a.freeLists[c.size] = list
	}
	c.inUse = true
}

// takeSmallest removes and returns a free chunk from the smallest class
// >= allocSize, or nil when every class that large is empty.
func (a *Allocator) takeSmallest(allocSize int64) *chunk {
	for s := allocSize; s > 0 && s <= a.size; s <<= 1 {
		list, ok := a.freeLists[s]
		if !ok {
			continue
		}
		c := list[len(list)-1]
		a.removeFromFreeList(c)
		return c
	}
	return nil
}

// chunksByOffset returns all chunks sorted by offset.
func (a *Allocator) chunksByOffset() []*chunk {
	out := make([]*chunk, 0, len(a.chunks))
	for _, c := range a.chunks {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].offset < out[j].offset })
	return out
}

// nextPow2 returns the next power of two >= v, with nextPow2(0) == 1.
// Bit-smearing form from the Stanford collection.
func nextPow2(v int64) int64 {
	if v <= 1 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}
