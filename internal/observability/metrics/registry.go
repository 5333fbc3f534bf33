// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics track the extraction-and-relevance pass per stage.
var (
	// FragmentsFetchedTotal counts announcement fragments pulled from the directory site
	FragmentsFetchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfp_fragments_fetched_total",
			Help: "Total number of announcement fragments fetched from the directory site",
		},
	)

	// ConferencesParsedTotal counts parse outcomes by status ("success" or "skipped")
	ConferencesParsedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfp_conferences_parsed_total",
			Help: "Total number of fragments parsed into conference records, by status",
		},
		[]string{"status"},
	)

	// ConferencesScoredTotal counts scoring outcomes by status ("success" or "failure")
	ConferencesScoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfp_conferences_scored_total",
			Help: "Total number of conference records sent for relevance scoring, by status",
		},
		[]string{"status"},
	)

	// RowsWrittenTotal counts scored rows appended to the output file
	RowsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfp_rows_written_total",
			Help: "Total number of scored conference rows appended to the output file",
		},
	)

	// ResultPagesFetchedTotal counts search result pages fetched during pagination
	ResultPagesFetchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfp_result_pages_fetched_total",
			Help: "Total number of search result pages fetched from the directory site",
		},
	)

	// DirectoryFetchErrors counts fetch failures against the directory site by kind
	DirectoryFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfp_directory_fetch_errors_total",
			Help: "Total number of fetch errors against the directory site, by kind",
		},
		[]string{"kind"},
	)

	// PassDuration measures the duration of one full keyword pass in seconds
	PassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cfp_pass_duration_seconds",
			Help:    "Duration of one full keyword pass through the pipeline",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)
