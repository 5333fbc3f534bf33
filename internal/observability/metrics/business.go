package metrics

import "time"

// RecordFragmentFetched records one announcement fragment pulled from the source.
func RecordFragmentFetched() {
	FragmentsFetchedTotal.Inc()
}

// RecordConferenceParsed records the outcome of parsing one fragment.
// A skipped fragment is one whose title marker could not be located.
func RecordConferenceParsed(success bool) {
	status := "success"
	if !success {
		status = "skipped"
	}
	ConferencesParsedTotal.WithLabelValues(status).Inc()
}

// RecordConferenceScored records the outcome of one relevance scoring call.
// Status is "success" when the scorer returned a usable score and "failure"
// when the call errored or the reply was unparsable.
func RecordConferenceScored(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	ConferencesScoredTotal.WithLabelValues(status).Inc()
}

// RecordRowWritten records one scored row appended to the output file.
func RecordRowWritten() {
	RowsWrittenTotal.Inc()
}

// RecordResultPageFetched records one search result page fetched during pagination.
func RecordResultPageFetched() {
	ResultPagesFetchedTotal.Inc()
}

// RecordDirectoryFetchError records a fetch failure against the directory site.
// Kind distinguishes terminal result-page failures ("result_page") from
// per-record detail-page failures ("detail_page").
func RecordDirectoryFetchError(kind string) {
	DirectoryFetchErrors.WithLabelValues(kind).Inc()
}

// RecordPassDuration records the duration of one full keyword pass.
func RecordPassDuration(duration time.Duration) {
	PassDuration.Observe(duration.Seconds())
}
