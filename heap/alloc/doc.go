// Package alloc implements the buddy allocator backing each core's slice
// of the global heap.
//
// # Overview
//
// The allocator manages a contiguous range of addresses as a set of
// power-of-two chunks. Allocation rounds the request up to the next power
// of two, takes the smallest free chunk at least that large, and splits it
// in half repeatedly until the halves reach the target size. Freeing a
// chunk recombines it with its buddy — the chunk whose offset differs only
// in the bit at position log2(size) — whenever that buddy is also free,
// recursively, so churn cannot degenerate the free-list distribution.
//
// The trade is the classic one: buddy allocation has no external
// fragmentation at the cost of up to 2x internal fragmentation on
// pathological sizes. Global-heap clients mostly request aligned,
// power-of-two-ish regions, so the waste stays small in practice.
//
// # Non-power-of-two regions
//
// A region whose size is not a power of two is decomposed greedily into a
// descending sequence of power-of-two chunks that sum to the region size
// (12 bytes becomes chunks of 8 and 4). The edge chunks produced this way
// have no buddies: their XOR-computed buddy offset falls outside the
// region or lands on a chunk of a different size, and merging simply
// stops there. The allocator therefore never reconstitutes the original
// undecomposed region. This is accepted behavior, not a bug.
//
// # Thread safety
//
// An Allocator is owned by a single core's thread and is not safe for
// concurrent use. Other cores operate on this core's heap by sending it a
// message, never by touching the allocator directly.
package alloc
