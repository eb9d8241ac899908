package metric

import "github.com/prometheus/client_golang/prometheus"

// StoreStats is the view of the key-value store the collector reads.
type StoreStats interface {
	Len() int
	Shards() int
}

// Collector reports store statistics at scrape time.
type Collector struct {
	store  StoreStats
	keys   *prometheus.Desc
	shards *prometheus.Desc
}

// NewCollector creates a collector over store.
func NewCollector(store StoreStats) *Collector {
	return &Collector{
		store: store,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Number of stored entries, including expired entries not yet overwritten.",
			nil, nil,
		),
		shards: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "store_shards"),
			"Number of lock shards in the store.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.shards
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.store.Len()))
	ch <- prometheus.MustNewConstMetric(c.shards, prometheus.GaugeValue, float64(c.store.Shards()))
}
