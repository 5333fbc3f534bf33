package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfpscout/internal/observability/metrics"
)

// counterValue reads the current value of a plain counter.
func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

// counterVecValue reads the current value of a labeled counter.
func counterVecValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordFragmentFetched(t *testing.T) {
	before := counterValue(t, metrics.FragmentsFetchedTotal)
	metrics.RecordFragmentFetched()
	metrics.RecordFragmentFetched()
	assert.Equal(t, before+2, counterValue(t, metrics.FragmentsFetchedTotal))
}

func TestRecordConferenceParsed(t *testing.T) {
	beforeOK := counterVecValue(t, metrics.ConferencesParsedTotal, "success")
	beforeSkip := counterVecValue(t, metrics.ConferencesParsedTotal, "skipped")

	metrics.RecordConferenceParsed(true)
	metrics.RecordConferenceParsed(false)

	assert.Equal(t, beforeOK+1, counterVecValue(t, metrics.ConferencesParsedTotal, "success"))
	assert.Equal(t, beforeSkip+1, counterVecValue(t, metrics.ConferencesParsedTotal, "skipped"))
}

func TestRecordConferenceScored(t *testing.T) {
	beforeOK := counterVecValue(t, metrics.ConferencesScoredTotal, "success")
	beforeFail := counterVecValue(t, metrics.ConferencesScoredTotal, "failure")

	metrics.RecordConferenceScored(true)
	metrics.RecordConferenceScored(false)
	metrics.RecordConferenceScored(false)

	assert.Equal(t, beforeOK+1, counterVecValue(t, metrics.ConferencesScoredTotal, "success"))
	assert.Equal(t, beforeFail+2, counterVecValue(t, metrics.ConferencesScoredTotal, "failure"))
}

func TestRecordDirectoryFetchError(t *testing.T) {
	before := counterVecValue(t, metrics.DirectoryFetchErrors, "detail_page")
	metrics.RecordDirectoryFetchError("detail_page")
	assert.Equal(t, before+1, counterVecValue(t, metrics.DirectoryFetchErrors, "detail_page"))
}

func TestRecordRowWritten(t *testing.T) {
	before := counterValue(t, metrics.RowsWrittenTotal)
	metrics.RecordRowWritten()
	assert.Equal(t, before+1, counterValue(t, metrics.RowsWrittenTotal))
}

func TestRecordPassDuration(t *testing.T) {
	// Histogram observation must not panic; value assertions are covered by
	// the prometheus client library itself.
	metrics.RecordPassDuration(1500 * time.Millisecond)
	metrics.RecordResultPageFetched()
}
