// Package metrics exposes Prometheus counters for the sync pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsIngested counts event records created, by kind
	EventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gowatcharr_events_ingested_total",
		Help: "Number of watch events ingested into the store.",
	}, []string{"kind"})

	// EventsSkipped counts events skipped by the normalizer (unknown kinds
	// or malformed payloads)
	EventsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gowatcharr_events_skipped_total",
		Help: "Number of watch events skipped during normalization.",
	})

	// EventsDuplicate counts events dropped by the idempotency check
	EventsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gowatcharr_events_duplicate_total",
		Help: "Number of watch events already present in the store.",
	})

	// PagesProcessed counts full-sync pages completed
	PagesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gowatcharr_sync_pages_processed_total",
		Help: "Number of full-sync history pages processed.",
	})

	// ArtworkFailures counts best-effort artwork fetches that gave up
	ArtworkFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gowatcharr_artwork_failures_total",
		Help: "Number of artwork lookups that failed after retries.",
	})
)
