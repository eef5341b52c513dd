// Package metrics exposes Prometheus collectors for the cache and the quote
// adapter.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ccwallet"

// CacheMetrics counts response-cache outcomes.
type CacheMetrics struct {
	Hits        prometheus.Counter
	Misses      prometheus.Counter
	StoreErrors prometheus.Counter
}

// QuoteMetrics counts AMM quote requests by direction ("forward" or
// "backward").
type QuoteMetrics struct {
	Requests *prometheus.CounterVec
	Failures *prometheus.CounterVec
}

var (
	cacheOnce     sync.Once
	cacheRegistry *CacheMetrics

	quoteOnce     sync.Once
	quoteRegistry *QuoteMetrics
)

// Cache returns the process-wide cache metrics, registering them on first use.
func Cache() *CacheMetrics {
	cacheOnce.Do(func() {
		cacheRegistry = &CacheMetrics{
			Hits: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Requests served from a fresh cache entry.",
			}),
			Misses: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Requests that required a live fetch.",
			}),
			StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "store_errors_total",
				Help:      "Backing store reads or writes that failed.",
			}),
		}
		prometheus.MustRegister(
			cacheRegistry.Hits,
			cacheRegistry.Misses,
			cacheRegistry.StoreErrors,
		)
	})
	return cacheRegistry
}

// Quote returns the process-wide quote metrics, registering them on first use.
func Quote() *QuoteMetrics {
	quoteOnce.Do(func() {
		quoteRegistry = &QuoteMetrics{
			Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quote",
				Name:      "requests_total",
				Help:      "AMM quote requests issued.",
			}, []string{"direction"}),
			Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quote",
				Name:      "failures_total",
				Help:      "AMM quote requests that failed.",
			}, []string{"direction"}),
		}
		prometheus.MustRegister(quoteRegistry.Requests, quoteRegistry.Failures)
	})
	return quoteRegistry
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
