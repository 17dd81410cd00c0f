package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"go301/internal/cache"
)

// Resolve outcomes recorded against the lookup counter.
const (
	OutcomeExact = "exact"
	OutcomeRegex = "regex"
	OutcomeMiss  = "miss"
)

var resolveTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "go301_resolve_total",
		Help: "Total redirect resolution attempts by outcome",
	},
	[]string{"outcome"},
)

var cacheEntriesDesc = prometheus.NewDesc(
	"go301_cache_entries",
	"Number of cached entries by category",
	[]string{"category"},
	nil,
)

// CacheCollector is a custom Prometheus collector that counts cached
// entries per category on each scrape.
type CacheCollector struct {
	cache *cache.Manager
}

// Describe sends the metric descriptor to the channel.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cacheEntriesDesc
}

// Collect enumerates the cache and emits one gauge per category.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	counts := make(map[string]int)
	for _, item := range c.cache.ListKeys() {
		counts[item.Category]++
	}
	for category, n := range counts {
		ch <- prometheus.MustNewConstMetric(
			cacheEntriesDesc,
			prometheus.GaugeValue,
			float64(n),
			category,
		)
	}
}

var initOnce sync.Once

// Init registers the resolve counter and the cache collector.
// Must be called once at startup.
func Init(c *cache.Manager) {
	initOnce.Do(func() {
		prometheus.MustRegister(resolveTotal)
		prometheus.MustRegister(&CacheCollector{cache: c})
	})
}

// RecordResolve counts one resolution attempt.
func RecordResolve(outcome string) {
	resolveTotal.WithLabelValues(outcome).Inc()
}
