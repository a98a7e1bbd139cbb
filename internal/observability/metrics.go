package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialfeed_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedBuildsTotal counts feed builds by feed kind, resolved mode and outcome.
	FeedBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_feed_builds_total",
		Help: "Total number of feed builds",
	}, []string{"feed", "mode", "outcome"})

	// FeedBuildLatency records end-to-end feed build latency by feed kind.
	FeedBuildLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialfeed_feed_build_latency_seconds",
		Help:    "Feed build latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed"})

	// FeedItemsReturned records how many items a feed page carried.
	FeedItemsReturned = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialfeed_feed_items_returned",
		Help:    "Number of items returned per feed page",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	}, []string{"feed"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// FeedBuild measures one feed build. Call Done with the resolved mode and
// the build error once the pipeline finishes.
type FeedBuild struct {
	feed  string
	start time.Time
}

// StartFeedBuild starts measuring a feed build of the given kind.
func StartFeedBuild(feed string) *FeedBuild {
	return &FeedBuild{feed: feed, start: time.Now()}
}

// Done records latency, outcome and item count.
func (b *FeedBuild) Done(mode string, items int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		if mode == "" {
			mode = "unknown"
		}
	}
	FeedBuildsTotal.WithLabelValues(b.feed, mode, outcome).Inc()
	FeedBuildLatency.WithLabelValues(b.feed).Observe(time.Since(b.start).Seconds())
	if err == nil {
		FeedItemsReturned.WithLabelValues(b.feed).Observe(float64(items))
	}
}
