package ntmsg

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"k8s.io/klog/v2"

	"github.com/hhjcobra/grappa/internal/buf"
	"github.com/hhjcobra/grappa/internal/format"
	"github.com/hhjcobra/grappa/pkg/types"
	"github.com/hhjcobra/grappa/transport"
)

// Aggregator owns the per-destination output buffers of one core. It is
// single-owner state, like the allocator: only the core thread touches it.
type Aggregator struct {
	tr      transport.Transport
	reg     *Registry
	bufSize int
	bufs    map[types.CoreID]*destBuffer
	stats   Stats
}

// destBuffer is one destination's output buffer. lastHeader tracks the
// most recently appended descriptor (-1 when none) so the next send can
// attempt combining; it resets on every flush.
type destBuffer struct {
	dest       types.CoreID
	data       []byte
	cursor     int
	lastHeader int
}

// Stats counts aggregator activity since construction.
type Stats struct {
	Sends        int64 // messages accepted
	Headers      int64 // descriptors emitted
	Combined     int64 // messages folded into a predecessor's descriptor
	Flushes      int64 // non-empty buffer handoffs to the transport
	FlushedBytes int64
}

// New builds an aggregator sending through tr.
func New(tr transport.Transport, opts ...Option) *Aggregator {
	a := &Aggregator{
		tr:      tr,
		reg:     DefaultRegistry,
		bufSize: DefaultBufferSize,
		bufs:    make(map[types.CoreID]*destBuffer),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Send enqueues a plain message: no address, no payload.
func (a *Aggregator) Send(dest types.CoreID, code HandlerCode, capture []byte) error {
	return a.send(dest, 0, code, capture, nil, ShapePlain)
}

// SendAddr enqueues a message targeting a global address. The home core
// is the destination; the handler receives the local half.
func (a *Aggregator) SendAddr(addr types.GlobalAddress, code HandlerCode, capture []byte) error {
	return a.send(addr.Core(), uint64(addr.Offset()), code, capture, nil, ShapeAddr)
}

// SendPayload enqueues a message with payload bytes. The payload is
// copied; the caller's buffer can be reused immediately.
func (a *Aggregator) SendPayload(dest types.CoreID, code HandlerCode, capture, payload []byte) error {
	return a.send(dest, 0, code, capture, payload, ShapePayload)
}

// SendAddrPayload enqueues a message with both address and payload.
func (a *Aggregator) SendAddrPayload(addr types.GlobalAddress, code HandlerCode, capture, payload []byte) error {
	return a.send(addr.Core(), uint64(addr.Offset()), code, capture, payload, ShapeAddrPayload)
}

// Flush hands dest's buffered bytes to the transport. Idempotent on an
// empty or absent buffer.
func (a *Aggregator) Flush(dest types.CoreID) error {
	b, ok := a.bufs[dest]
	if !ok {
		return nil
	}
	return a.flushBuffer(b)
}

// FlushAll force-drains every destination buffer, collecting failures
// per destination rather than stopping at the first.
func (a *Aggregator) FlushAll() error {
	dests := make([]types.CoreID, 0, len(a.bufs))
	for d := range a.bufs {
		dests = append(dests, d)
	}
	sort.Slice(dests, func(i, j int) bool { return dests[i] < dests[j] })

	var errs *multierror.Error
	for _, d := range dests {
		if err := a.flushBuffer(a.bufs[d]); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// Drain is the shutdown flush: every buffer is emitted so the process
// can barrier and tear down the transport with nothing in flight.
func (a *Aggregator) Drain() error { return a.FlushAll() }

// Stats returns activity counters.
func (a *Aggregator) Stats() Stats { return a.stats }

func (a *Aggregator) send(dest types.CoreID, addr uint64, code HandlerCode, capture, payload []byte, shape Shape) error {
	spec, err := a.reg.Lookup(code)
	if err != nil {
		return err
	}
	if spec.Shape != shape {
		return fmt.Errorf("%w: handler %d is %s, send is %s", ErrShapeMismatch, code, spec.Shape, shape)
	}
	if len(capture) != spec.CaptureSize {
		return fmt.Errorf("%w: got %d, registered %d", ErrCaptureSize, len(capture), spec.CaptureSize)
	}

	wireAddr := addr
	if spec.inline {
		wireAddr = inlineBits(capture)
	}
	perIter := spec.wireSize(len(payload))
	if perIter > format.MaxSize {
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, perIter)
	}
	need := format.HeaderSize + perIter
	if need > a.bufSize {
		return fmt.Errorf("%w: need %d, capacity %d", ErrBufferOverflow, need, a.bufSize)
	}

	b := a.buffer(dest)
	if b.lastHeader >= 0 {
		ok, err := a.tryCombine(b, spec, code, wireAddr, perIter, capture, payload)
		if err != nil {
			return err
		}
		if ok {
			a.stats.Sends++
			a.stats.Combined++
			return nil
		}
	}

	// A fresh descriptor: flush first when the append would not fit.
	if b.cursor+need > len(b.data) {
		if err := a.flushBuffer(b); err != nil {
			return err
		}
	}

	h := format.Header{
		Dest:  uint32(dest),
		Addr:  wireAddr,
		FP:    uint32(code),
		Size:  uint16(perIter),
		Count: 1,
	}
	if err := h.Pack(b.data[b.cursor:]); err != nil {
		return err
	}
	b.lastHeader = b.cursor
	b.cursor += format.HeaderSize
	if !spec.inline {
		b.cursor += copy(b.data[b.cursor:], capture)
	}
	b.cursor += copy(b.data[b.cursor:], payload)

	a.stats.Sends++
	a.stats.Headers++
	return nil
}

// tryCombine folds the message into b's most recent descriptor when the
// combining rules allow it. Combining is legal iff the predecessor was
// the last write to the buffer, shares fp, per-iteration size and
// destination, has count headroom, the stride stays consistent (any
// in-range stride is adopted when the predecessor holds a single
// message), and the extra bytes fit.
func (a *Aggregator) tryCombine(b *destBuffer, spec *HandlerSpec, code HandlerCode, wireAddr uint64, perIter int, capture, payload []byte) (bool, error) {
	h, err := format.Unpack(b.data[b.lastHeader:])
	if err != nil {
		return false, err
	}
	if h.FP != uint32(code) || int(h.Size) != perIter || h.Dest != uint32(b.dest) {
		return false, nil
	}
	if h.Count >= format.MaxCount {
		return false, nil
	}
	if spec.inline && h.Addr != wireAddr {
		// The header's single address slot holds the capture; combining
		// is only possible when the bits are identical.
		return false, nil
	}

	newOffset := h.Offset
	if spec.Shape.HasAddr() {
		elem := int64(spec.ElemSize)
		last := int64(h.Addr) + int64(h.Count-1)*int64(h.Offset)*elem
		delta := int64(wireAddr) - last
		if delta%elem != 0 {
			return false, nil
		}
		stride := delta / elem
		if stride > format.MaxOffset || stride < format.MinOffset {
			return false, nil
		}
		if h.Count == 1 {
			newOffset = int16(stride)
		} else if int16(stride) != h.Offset {
			return false, nil
		}
	}

	if b.cursor+perIter > len(b.data) {
		return false, nil
	}

	if !spec.inline {
		b.cursor += copy(b.data[b.cursor:], capture)
	}
	b.cursor += copy(b.data[b.cursor:], payload)
	h.Count++
	h.Offset = newOffset
	if err := h.Pack(b.data[b.lastHeader:]); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Aggregator) buffer(dest types.CoreID) *destBuffer {
	b, ok := a.bufs[dest]
	if !ok {
		b = &destBuffer{dest: dest, data: make([]byte, a.bufSize), lastHeader: -1}
		a.bufs[dest] = b
	}
	return b
}

// flushBuffer hands the buffered bytes to the transport and resets the
// buffer. On transport failure the buffer is left intact so the caller
// can retry or abort.
func (a *Aggregator) flushBuffer(b *destBuffer) error {
	if b.cursor == 0 {
		return nil
	}
	n := b.cursor
	if err := a.tr.Send(b.dest, b.data[:n]); err != nil {
		return fmt.Errorf("ntmsg: flush to core %d: %w", b.dest, err)
	}
	klog.V(4).Infof("flushed %d bytes to core %d", n, b.dest)
	b.cursor = 0
	b.lastHeader = -1
	a.stats.Flushes++
	a.stats.FlushedBytes += int64(n)
	return nil
}

// inlineBits packs a small capture into the header's address slot.
func inlineBits(capture []byte) uint64 {
	var tmp [8]byte
	copy(tmp[:], capture)
	return buf.U64LE(tmp[:]) & format.MaxAddr
}
