package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Total number of GitHub sync runs grouped by result.",
		},
		[]string{"result"},
	)
	SyncDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "portfolio",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Duration of full fetch, merge and write sync runs.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	SyncedProjects = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "portfolio",
			Subsystem: "sync",
			Name:      "projects_written",
			Help:      "Number of projects written by the last successful sync.",
		},
	)
	UpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "github",
			Name:      "errors_total",
			Help:      "GitHub API failures grouped by classified kind.",
		},
		[]string{"kind"},
	)
	RepoCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "github",
			Name:      "repo_cache_lookups_total",
			Help:      "Repository list cache lookups grouped by outcome.",
		},
		[]string{"outcome"},
	)
	TrackingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "tracking",
			Name:      "events_total",
			Help:      "Project view and click tracking attempts grouped by event and success.",
		},
		[]string{"event", "success"},
	)
)

// Register adds all collectors to reg. Safe to call more than once.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			SyncRuns,
			SyncDuration,
			SyncedProjects,
			UpstreamErrors,
			RepoCacheLookups,
			TrackingEvents,
		)
	})
}

// ObserveSync records the outcome of one sync run.
func ObserveSync(start time.Time, written int, err error) {
	SyncDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		SyncRuns.WithLabelValues("error").Inc()
		return
	}
	SyncRuns.WithLabelValues("success").Inc()
	SyncedProjects.Set(float64(written))
}
