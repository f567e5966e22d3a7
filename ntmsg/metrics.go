package ntmsg

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hhjcobra/grappa/pkg/types"
)

// Collector exposes an aggregator's counters as prometheus metrics.
type Collector struct {
	a *Aggregator

	sends        *prometheus.Desc
	headers      *prometheus.Desc
	combined     *prometheus.Desc
	flushes      *prometheus.Desc
	flushedBytes *prometheus.Desc
}

// NewCollector builds a Collector for the aggregator owned by core.
func NewCollector(core types.CoreID, a *Aggregator) *Collector {
	labels := prometheus.Labels{"core": strconv.FormatUint(uint64(core), 10)}
	return &Collector{
		a: a,
		sends: prometheus.NewDesc(
			"grappa_ntmsg_sends_total", "Messages accepted for aggregation.", nil, labels),
		headers: prometheus.NewDesc(
			"grappa_ntmsg_headers_total", "Descriptors emitted.", nil, labels),
		combined: prometheus.NewDesc(
			"grappa_ntmsg_combined_total", "Messages folded into a predecessor descriptor.", nil, labels),
		flushes: prometheus.NewDesc(
			"grappa_ntmsg_flushes_total", "Buffer handoffs to the transport.", nil, labels),
		flushedBytes: prometheus.NewDesc(
			"grappa_ntmsg_flushed_bytes_total", "Bytes handed to the transport.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sends
	ch <- c.headers
	ch <- c.combined
	ch <- c.flushes
	ch <- c.flushedBytes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.a.Stats()
	ch <- prometheus.MustNewConstMetric(c.sends, prometheus.CounterValue, float64(s.Sends))
	ch <- prometheus.MustNewConstMetric(c.headers, prometheus.CounterValue, float64(s.Headers))
	ch <- prometheus.MustNewConstMetric(c.combined, prometheus.CounterValue, float64(s.Combined))
	ch <- prometheus.MustNewConstMetric(c.flushes, prometheus.CounterValue, float64(s.Flushes))
	ch <- prometheus.MustNewConstMetric(c.flushedBytes, prometheus.CounterValue, float64(s.FlushedBytes))
}
