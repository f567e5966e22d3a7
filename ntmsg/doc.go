// Package ntmsg implements non-temporal active-message aggregation: many
// tiny messages bound for the same remote core are packed into one
// densely-filled buffer behind compact 16-byte descriptors, and
// consecutive messages that share a handler and a regular address stride
// collapse into a single descriptor with a bumped count.
//
// # Shapes
//
// A handler is registered once, at program start, with a shape along
// three axes: whether messages carry a target address, how many capture
// bytes travel with each message, and whether a variable payload
// follows. The shape fixes the wire layout behind the handler's 31-bit
// code, so the code alone tells the receiver both what to run and how to
// decode the bytes. A small capture on an address-less shape is packed
// into the header's unused address bits and costs nothing per iteration.
//
// # Combining
//
// Within one destination buffer, a send that matches the immediately
// preceding descriptor (same handler, same per-iteration size, and for
// address-bearing shapes a consistent stride) appends only its
// per-iteration bytes and increments the descriptor's count. A
// stride-combined descriptor with count k delivers k handler invocations
// at addresses addr, addr+offset, ..., addr+(k-1)*offset (offset in
// elements, possibly negative) for 16 bytes of descriptor total.
//
// # Ordering
//
// Messages from one sender to one destination dispatch in submission
// order; combined iterations dispatch in ascending order. Nothing is
// implied across destinations, across senders, or across handlers.
//
// # Threading
//
// An Aggregator, like the heap it usually feeds, is owned by a single
// core's thread. The registry is read-only after initialization and
// safely shared.
package ntmsg
