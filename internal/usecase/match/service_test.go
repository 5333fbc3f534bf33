package match

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfpscout/internal/domain/entity"
)

// stubSource yields a fixed list of fragments, optionally ending with a
// terminal error.
type stubSource struct {
	fragments []Fragment
	err       error
}

func (s *stubSource) Search(_ context.Context, _ string) iter.Seq2[Fragment, error] {
	return func(yield func(Fragment, error) bool) {
		for _, frag := range s.fragments {
			if !yield(frag, nil) {
				return
			}
		}
		if s.err != nil {
			yield(Fragment{}, s.err)
		}
	}
}

// stubParser derives a Conference from the fragment HTML. Fragments whose
// HTML contains "notitle" parse as titleless.
type stubParser struct{}

func (stubParser) Parse(frag Fragment) (*entity.Conference, error) {
	if strings.Contains(frag.HTML, "notitle") {
		return nil, fmt.Errorf("fragment %s: %w", frag.URL, entity.ErrNoTitle)
	}
	return &entity.Conference{Title: frag.HTML}, nil
}

// stubScorer returns preset relevance per title, or an error for titles in
// failures.
type stubScorer struct {
	scores   map[string]int
	failures map[string]error
	calls    []string
}

func (s *stubScorer) Score(_ context.Context, conf *entity.Conference, _ string) (*entity.Relevance, error) {
	s.calls = append(s.calls, conf.Title)
	if err, ok := s.failures[conf.Title]; ok {
		return nil, err
	}
	score := s.scores[conf.Title]
	return &entity.Relevance{Score: score, Justification: "justified"}, nil
}

// stubWriter records appended rows, optionally failing on a given title.
type stubWriter struct {
	rows     []*entity.ScoredConference
	failOn   string
	writeErr error
}

func (w *stubWriter) Append(rec *entity.ScoredConference) error {
	if w.failOn != "" && rec.Title == w.failOn {
		return w.writeErr
	}
	w.rows = append(w.rows, rec)
	return nil
}

func fragments(titles ...string) []Fragment {
	frags := make([]Fragment, len(titles))
	for i, title := range titles {
		frags[i] = Fragment{URL: fmt.Sprintf("http://example.com/%d", i+1), HTML: title}
	}
	return frags
}

func TestRun_ScoresAndWritesEveryConference(t *testing.T) {
	source := &stubSource{fragments: fragments("Graph Learning Conf", "Quantum Days")}
	scorer := &stubScorer{scores: map[string]int{
		"Graph Learning Conf": 8,
		"Quantum Days":        3,
	}}
	writer := &stubWriter{}

	svc := NewService(source, stubParser{}, scorer, writer, nil, 0)
	stats, err := svc.Run(context.Background(), "learning", "our abstract")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Fragments)
	assert.Equal(t, 2, stats.Parsed)
	assert.Equal(t, 2, stats.Scored)
	assert.Equal(t, 2, stats.Written)
	assert.Zero(t, stats.ParseSkips)
	assert.Zero(t, stats.ScoreFailures)

	// Low scores are written too: the output is a ranked overview, not a
	// pre-filtered shortlist.
	require.Len(t, writer.rows, 2)
	assert.Equal(t, "Graph Learning Conf", writer.rows[0].Title)
	assert.Equal(t, 8, writer.rows[0].Score)
	assert.Equal(t, "Quantum Days", writer.rows[1].Title)
	assert.Equal(t, 3, writer.rows[1].Score)
}

func TestRun_EachConferenceScoredExactlyOnce(t *testing.T) {
	source := &stubSource{fragments: fragments("A", "B", "C")}
	scorer := &stubScorer{scores: map[string]int{"A": 1, "B": 2, "C": 3}}
	writer := &stubWriter{}

	svc := NewService(source, stubParser{}, scorer, writer, nil, 0)
	_, err := svc.Run(context.Background(), "kw", "abstract")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, scorer.calls)
}

func TestRun_TitlelessFragmentIsSkipped(t *testing.T) {
	source := &stubSource{fragments: fragments("A", "notitle", "B")}
	scorer := &stubScorer{scores: map[string]int{"A": 5, "B": 6}}
	writer := &stubWriter{}

	svc := NewService(source, stubParser{}, scorer, writer, nil, 0)
	stats, err := svc.Run(context.Background(), "kw", "abstract")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Fragments)
	assert.Equal(t, 1, stats.ParseSkips)
	assert.Equal(t, 2, stats.Written)
	assert.Equal(t, []string{"A", "B"}, scorer.calls)
}

func TestRun_ScoreFailureSkipsOnlyThatConference(t *testing.T) {
	source := &stubSource{fragments: fragments("A", "B", "C", "D", "E")}
	scorer := &stubScorer{
		scores:   map[string]int{"A": 1, "B": 2, "D": 4, "E": 5},
		failures: map[string]error{"C": errors.New("api error")},
	}
	writer := &stubWriter{}

	svc := NewService(source, stubParser{}, scorer, writer, nil, 0)
	stats, err := svc.Run(context.Background(), "kw", "abstract")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ScoreFailures)
	assert.Equal(t, 4, stats.Written)

	titles := make([]string, len(writer.rows))
	for i, row := range writer.rows {
		titles[i] = row.Title
	}
	assert.Equal(t, []string{"A", "B", "D", "E"}, titles)
}

func TestRun_CancellationAbortsPass(t *testing.T) {
	source := &stubSource{fragments: fragments("A", "B")}
	scorer := &stubScorer{failures: map[string]error{
		"A": fmt.Errorf("score: %w", context.Canceled),
	}}
	writer := &stubWriter{}

	svc := NewService(source, stubParser{}, scorer, writer, nil, 0)
	stats, err := svc.Run(context.Background(), "kw", "abstract")
	require.ErrorIs(t, err, context.Canceled)

	assert.Zero(t, stats.Written)
	assert.Equal(t, []string{"A"}, scorer.calls)
}

func TestRun_TerminalSourceErrorPreservesPartialResults(t *testing.T) {
	source := &stubSource{
		fragments: fragments("A", "B"),
		err:       errors.New("result page 3 unreachable"),
	}
	scorer := &stubScorer{scores: map[string]int{"A": 7, "B": 4}}
	writer := &stubWriter{}

	svc := NewService(source, stubParser{}, scorer, writer, nil, 0)
	stats, err := svc.Run(context.Background(), "kw", "abstract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "result page 3 unreachable")

	// Everything fetched before the failure is already written.
	assert.Equal(t, 2, stats.Written)
	require.Len(t, writer.rows, 2)
}

func TestRun_WriterErrorAbortsPass(t *testing.T) {
	source := &stubSource{fragments: fragments("A", "B", "C")}
	scorer := &stubScorer{scores: map[string]int{"A": 1, "B": 2, "C": 3}}
	writer := &stubWriter{failOn: "B", writeErr: errors.New("disk full")}

	svc := NewService(source, stubParser{}, scorer, writer, nil, 0)
	stats, err := svc.Run(context.Background(), "kw", "abstract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.Equal(t, 1, stats.Written)
	assert.Equal(t, []string{"A", "B"}, scorer.calls)
}

func TestRun_MinScoreThresholdFiltersOutput(t *testing.T) {
	source := &stubSource{fragments: fragments("A", "B", "C")}
	scorer := &stubScorer{scores: map[string]int{"A": 8, "B": 5, "C": 6}}
	writer := &stubWriter{}

	svc := NewService(source, stubParser{}, scorer, writer, nil, 6)
	stats, err := svc.Run(context.Background(), "kw", "abstract")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Scored)
	assert.Equal(t, 1, stats.BelowThreshold)
	assert.Equal(t, 2, stats.Written)

	titles := make([]string, len(writer.rows))
	for i, row := range writer.rows {
		titles[i] = row.Title
	}
	assert.Equal(t, []string{"A", "C"}, titles)
}

func TestRun_EmptySourceCompletesCleanly(t *testing.T) {
	svc := NewService(&stubSource{}, stubParser{}, &stubScorer{}, &stubWriter{}, nil, 0)

	stats, err := svc.Run(context.Background(), "kw", "abstract")
	require.NoError(t, err)
	assert.Zero(t, stats.Fragments)
	assert.Zero(t, stats.Written)
}
