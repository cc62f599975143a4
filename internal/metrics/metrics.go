// Package metrics exposes batch pipeline counters for Prometheus scraping.
package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	DocsProcessed  *prometheus.CounterVec
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	ExtractSeconds prometheus.Histogram
	SnippetChars   prometheus.Histogram
}

// New registers the pipeline collectors on reg (defaults to the global
// registry when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		DocsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "documents_processed_total",
			Help:      "Documents processed, by terminal status.",
		}, []string{"status"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "cache_hits_total",
			Help:      "Extraction cache hits.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "cache_misses_total",
			Help:      "Extraction cache misses.",
		}),
		ExtractSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "intake",
			Name:      "extract_duration_seconds",
			Help:      "Wall time of external extraction calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		SnippetChars: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "intake",
			Name:      "snippet_chars",
			Help:      "Characters sent per extraction request.",
			Buckets:   prometheus.LinearBuckets(200, 200, 10),
		}),
	}
}

// Serve starts a scrape endpoint on addr in the background. The server lives
// for the process lifetime; batch runs are short so there is no shutdown.
func Serve(addr string, logger *slog.Logger) {
	if addr == "" {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("metrics.listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics.serve_failed", "addr", addr, "error", err)
		}
	}()
}
