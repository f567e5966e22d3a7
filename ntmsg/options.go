package ntmsg

// DefaultBufferSize is the per-destination aggregation buffer capacity.
// It comfortably holds the worst-case single record (16-byte header plus
// 8 KiB of per-iteration data).
const DefaultBufferSize = 64 << 10

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithBufferSize sets the per-destination buffer capacity in bytes.
func WithBufferSize(n int) Option {
	return func(a *Aggregator) { a.bufSize = n }
}

// WithRegistry uses reg instead of DefaultRegistry. Sender and receiver
// must resolve codes against registries populated identically.
func WithRegistry(reg *Registry) Option {
	return func(a *Aggregator) { a.reg = reg }
}
