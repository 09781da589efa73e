// Package metrics exports host scoring outcomes as prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ohsu-comp-bio/accelfit/scheduler"
)

func init() {
	prometheus.MustRegister(hostsScored)
	prometheus.MustRegister(hostScore)
	prometheus.MustRegister(providersSkipped)
	prometheus.MustRegister(invalidAmounts)
	prometheus.MustRegister(snapshotErrors)
	prometheus.MustRegister(batchDuration)
}

// Host scoring outcomes.
const (
	OutcomeMet     = "met"
	OutcomeUnmet   = "unmet"
	OutcomeNeutral = "neutral"
)

var hostsScored = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "accelfit",
		Name:      "hosts_scored_total",
		Help:      "Number of hosts scored, by policy and outcome.",
	},
	[]string{"policy", "outcome"},
)

var hostScore = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "accelfit",
		Name:      "host_score",
		Help:      "Distribution of finite host scores.",
		Buckets:   []float64{0, 0.5, 1, 2, 4, 8, 16, 32, 64},
	},
	[]string{"policy"},
)

var providersSkipped = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "accelfit",
		Name:      "providers_skipped_total",
		Help:      "Number of providers left out of capacity sums, by reason.",
	},
	[]string{"reason"},
)

var invalidAmounts = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "accelfit",
	Name:      "invalid_amounts_total",
	Help:      "Number of requested accelerator amounts dropped as malformed.",
})

var snapshotErrors = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "accelfit",
	Name:      "snapshot_errors_total",
	Help:      "Number of failures to acquire a host's provider tree.",
})

var batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: "accelfit",
	Name:      "batch_duration_seconds",
	Help:      "Time taken to score a batch of hosts.",
	Buckets:   prometheus.DefBuckets,
})

var _ scheduler.Observer = (*Observer)(nil)

// Observer records batch scoring outcomes in the registered collectors.
type Observer struct{}

// NewObserver returns an Observer.
func NewObserver() *Observer {
	return &Observer{}
}

// ObserveOffer records the outcome and diagnostics of one scored host.
func (*Observer) ObserveOffer(o *scheduler.Offer) {
	policy := ""
	if o.Stats != nil {
		policy = o.Stats.Policy
		providersSkipped.WithLabelValues("no_inventory").Add(float64(o.Stats.SkippedNoInventory))
		providersSkipped.WithLabelValues("traits").Add(float64(o.Stats.SkippedTraits))
	}

	switch {
	case o.Neutral:
		hostsScored.WithLabelValues(policy, OutcomeNeutral).Inc()
	case o.Score.IsUnmet():
		hostsScored.WithLabelValues(policy, OutcomeUnmet).Inc()
	default:
		hostsScored.WithLabelValues(policy, OutcomeMet).Inc()
	}

	if !o.Score.IsUnmet() {
		hostScore.WithLabelValues(policy).Observe(float64(o.Score))
	}
}

// ObserveSnapshotError records a failure to acquire a provider tree.
func (*Observer) ObserveSnapshotError(host string, err error) {
	snapshotErrors.Inc()
}

// ObserveBatch records the duration of a batch.
func (*Observer) ObserveBatch(d time.Duration) {
	batchDuration.Observe(d.Seconds())
}

// ObserveExtract records the outcome of request extraction.
func (*Observer) ObserveExtract(es scheduler.ExtractStats) {
	invalidAmounts.Add(float64(es.InvalidAmounts))
}

// WriteTextfile writes every registered metric to path in the text
// format read by the node exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
