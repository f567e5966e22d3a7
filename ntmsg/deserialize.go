package ntmsg

import (
	"fmt"

	"github.com/hhjcobra/grappa/internal/buf"
	"github.com/hhjcobra/grappa/internal/format"
	"github.com/hhjcobra/grappa/pkg/types"
)

// Prefetch is invoked with each target address before an address-bearing
// handler runs, giving the platform a chance to warm the cache line. The
// default is a no-op.
var Prefetch = func(addr types.LocalAddr) {}

// Deserialize walks a received buffer descriptor by descriptor, invoking
// each handler count times in arrival order. It runs to completion on
// the core thread with no suspension; handler bodies may schedule
// further work but must not block.
//
// Errors are fatal to the caller: a truncated record or unknown code
// means the data plane is corrupt and no local recovery is meaningful.
func Deserialize(reg *Registry, b []byte) error {
	cur := 0
	for cur < len(b) {
		if !buf.Has(b, cur, format.HeaderSize) {
			return fmt.Errorf("%w: header at offset %d", ErrTruncatedBuffer, cur)
		}
		h, err := format.Unpack(b[cur:])
		if err != nil {
			return fmt.Errorf("ntmsg: header at offset %d: %w", cur, err)
		}
		spec, err := reg.Lookup(HandlerCode(h.FP))
		if err != nil {
			return err
		}
		rec, ok := h.RecordLen()
		if !ok || !buf.Has(b, cur, rec) {
			return fmt.Errorf("%w: record at offset %d needs %d bytes", ErrTruncatedBuffer, cur, rec)
		}
		if err := spec.dispatch(h, b[cur+format.HeaderSize:cur+rec]); err != nil {
			return err
		}
		cur += rec
	}
	return nil
}

// dispatch runs one descriptor's iterations. body holds count blocks of
// size bytes; iteration i targets addr + i*offset elements.
func (s *HandlerSpec) dispatch(h format.Header, body []byte) error {
	size := int(h.Size)
	captureLen := s.CaptureSize
	var inlineCapture []byte
	if s.inline {
		var tmp [8]byte
		buf.PutU64LE(tmp[:], h.Addr)
		inlineCapture = tmp[:s.CaptureSize]
		captureLen = 0
	}
	if size < captureLen {
		return fmt.Errorf("%w: per-iteration size %d below capture %d", ErrTruncatedBuffer, size, captureLen)
	}

	for i := 0; i < int(h.Count); i++ {
		block := body[i*size : (i+1)*size]
		capture := inlineCapture
		if !s.inline {
			capture = block[:captureLen]
		}
		switch fn := s.Fn.(type) {
		case PlainFunc:
			fn(capture)
		case PayloadFunc:
			fn(capture, block[captureLen:])
		case AddrFunc:
			la := types.LocalAddr(int64(h.Addr) + int64(i)*int64(h.Offset)*int64(s.ElemSize))
			Prefetch(la)
			fn(la, capture)
		case AddrPayloadFunc:
			la := types.LocalAddr(int64(h.Addr) + int64(i)*int64(h.Offset)*int64(s.ElemSize))
			Prefetch(la)
			fn(la, capture, block[captureLen:])
		}
	}
	return nil
}
