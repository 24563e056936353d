package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.TournamentCreated(5, "exhausted")
	r.TournamentCreated(3, "deadlocked")
	r.ResultRecorded("team1")
	r.ResultRecorded("")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.tournamentsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.scheduleEnds.WithLabelValues("exhausted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.resultsRecorded.WithLabelValues("none")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.scheduleMatches))
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.TournamentCreated(1, "exhausted")
		r.ResultRecorded("draw")
	})
}
