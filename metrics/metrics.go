// Package metrics exposes Prometheus instruments for scheduling and result
// recording. A nil *Recorder is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mixups"

type Recorder struct {
	tournamentsCreated prometheus.Counter
	scheduleMatches    prometheus.Histogram
	scheduleEnds       *prometheus.CounterVec
	resultsRecorded    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		tournamentsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_created_total",
			Help:      "Tournaments created.",
		}),
		scheduleMatches: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "schedule_matches",
			Help:      "Number of matches in each generated schedule.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		scheduleEnds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_terminations_total",
			Help:      "Generated schedules by the reason generation stopped.",
		}, []string{"reason"}),
		resultsRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_results_total",
			Help:      "Match result updates by resulting winner.",
		}, []string{"winner"}),
	}
}

func (r *Recorder) TournamentCreated(matches int, termination string) {
	if r == nil {
		return
	}
	r.tournamentsCreated.Inc()
	r.scheduleMatches.Observe(float64(matches))
	r.scheduleEnds.WithLabelValues(termination).Inc()
}

func (r *Recorder) ResultRecorded(winner string) {
	if r == nil {
		return
	}
	if winner == "" {
		winner = "none"
	}
	r.resultsRecorded.WithLabelValues(winner).Inc()
}
