package heap

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes a heap's allocator state as prometheus metrics.
// Register it with any prometheus.Registerer; collection snapshots the
// allocator on the owning thread's schedule, so scrape handlers must run
// on (or coordinate with) the core thread.
type Collector struct {
	h *Heap

	bytesInUse *prometheus.Desc
	bytesFree  *prometheus.Desc
	chunks     *prometheus.Desc
	mallocs    *prometheus.Desc
	frees      *prometheus.Desc
}

// NewCollector builds a Collector for h.
func NewCollector(h *Heap) *Collector {
	labels := prometheus.Labels{"core": strconv.FormatUint(uint64(h.core), 10)}
	return &Collector{
		h: h,
		bytesInUse: prometheus.NewDesc(
			"grappa_heap_bytes_in_use", "Bytes currently allocated from the local heap.", nil, labels),
		bytesFree: prometheus.NewDesc(
			"grappa_heap_bytes_free", "Bytes currently free in the local heap.", nil, labels),
		chunks: prometheus.NewDesc(
			"grappa_heap_chunks", "Chunks tracked by the buddy allocator.", nil, labels),
		mallocs: prometheus.NewDesc(
			"grappa_heap_mallocs_total", "Lifetime allocation calls.", nil, labels),
		frees: prometheus.NewDesc(
			"grappa_heap_frees_total", "Lifetime free calls.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bytesInUse
	ch <- c.bytesFree
	ch <- c.chunks
	ch <- c.mallocs
	ch <- c.frees
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.h.Stats()
	ch <- prometheus.MustNewConstMetric(c.bytesInUse, prometheus.GaugeValue, float64(s.BytesInUse))
	ch <- prometheus.MustNewConstMetric(c.bytesFree, prometheus.GaugeValue, float64(s.BytesFree))
	ch <- prometheus.MustNewConstMetric(c.chunks, prometheus.GaugeValue, float64(s.Chunks))
	ch <- prometheus.MustNewConstMetric(c.mallocs, prometheus.CounterValue, float64(s.MallocCalls))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(s.FreeCalls))
}
