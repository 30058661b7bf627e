// Package metrics provides Prometheus instrumentation for the
// possession-analysis pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "harpastum"
)

var (
	eventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_ingested_total",
		Help:      "Match event rows accepted during ingest.",
	})

	eventsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_duplicate_total",
		Help:      "Match event rows suppressed as duplicates.",
	})

	eventsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_skipped_total",
		Help:      "Match event rows skipped during ingest, by reason.",
	}, []string{"reason"})

	passesFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "passes_filtered_total",
		Help:      "Qualifying open-play passes produced by the pass filter.",
	})

	passesDroppedSubstituted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "passes_dropped_substituted_total",
		Help:      "Passes dropped because an endpoint was substituted in-window.",
	})

	degenerateRows = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tpm_degenerate_rows_total",
		Help:      "Transition matrix rows with zero outgoing passes.",
	})

	trialsExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "montecarlo_trials_total",
		Help:      "Monte Carlo trials executed.",
	})

	trialLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "montecarlo_trial_duration_seconds",
		Help:      "Wall time of a single Monte Carlo trial.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
	})

	queueEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trial_queue_enqueued_total",
		Help:      "Trials enqueued for workers.",
	})

	queueRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trial_queue_rejected_total",
		Help:      "Trial enqueue attempts rejected (full or closed queue).",
	})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Wall time of a full analysis run.",
		Buckets:   prometheus.ExponentialBuckets(1e-3, 4, 10),
	})
)

// Recording helpers keep prometheus types out of callers.

func RecordEventIngested()                { eventsIngested.Inc() }
func RecordEventDuplicate()               { eventsDuplicate.Inc() }
func RecordEventSkipped(reason string)    { eventsSkipped.WithLabelValues(reason).Inc() }
func RecordPassFiltered()                 { passesFiltered.Inc() }
func RecordPassDroppedSubstituted()       { passesDroppedSubstituted.Inc() }
func RecordDegenerateRow()                { degenerateRows.Inc() }
func RecordTrialExecuted()                { trialsExecuted.Inc() }
func RecordTrialDuration(seconds float64) { trialLatency.Observe(seconds) }
func RecordQueueEnqueued()                { queueEnqueued.Inc() }
func RecordQueueRejected()                { queueRejected.Inc() }
func RecordAnalysisDuration(s float64)    { analysisDuration.Observe(s) }

// Handler exposes the default registry for an optional /metrics listener.
func Handler() http.Handler { return promhttp.Handler() }
