// Package match implements the extraction-and-relevance pass: it drives the
// fragment source, page parser, relevance scorer, and result writer in a
// single sequential pipeline with per-record failure isolation.
package match

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cfpscout/internal/domain/entity"
	"cfpscout/internal/observability/metrics"
	"cfpscout/internal/observability/tracing"
)

// Fragment is one raw, unparsed announcement unit pulled from the directory
// site: the detail-page URL and its HTML body.
type Fragment struct {
	URL  string
	HTML string
}

// FragmentSource produces announcement fragments for a keyword, page by page.
// The sequence ends by exhaustion when a fetched result page yields zero
// fragments. A terminal fetch failure is delivered as the error element of
// the sequence and ends it.
type FragmentSource interface {
	Search(ctx context.Context, keyword string) iter.Seq2[Fragment, error]
}

// FragmentParser converts one raw fragment into a Conference record.
// A fragment without a locatable title returns entity.ErrNoTitle.
type FragmentParser interface {
	Parse(frag Fragment) (*entity.Conference, error)
}

// RelevanceScorer rates how relevant one conference is to the given abstract.
// The scorer is stateless between calls.
type RelevanceScorer interface {
	Score(ctx context.Context, conf *entity.Conference, abstract string) (*entity.Relevance, error)
}

// ResultWriter persists one scored conference per call. Implementations must
// commit each row before returning so partial progress survives interruption.
type ResultWriter interface {
	Append(rec *entity.ScoredConference) error
}

// RunStats contains counters for one full pass of the pipeline.
type RunStats struct {
	Fragments      int
	Parsed         int
	ParseSkips     int
	Scored         int
	ScoreFailures  int
	Written        int
	BelowThreshold int
	Duration       time.Duration
}

// Service orchestrates one pass over the pipeline. All collaborators are
// injected explicitly; the service holds no cross-record state beyond the
// running counters returned to the caller.
type Service struct {
	source FragmentSource
	parser FragmentParser
	scorer RelevanceScorer
	writer ResultWriter
	logger *slog.Logger

	// minScore drops scored conferences below the threshold from the output.
	// Zero writes every successfully scored conference.
	minScore int
}

// NewService creates a new match Service with the provided collaborators.
// Logger may be nil, in which case slog.Default() is used.
func NewService(
	source FragmentSource,
	parser FragmentParser,
	scorer RelevanceScorer,
	writer ResultWriter,
	logger *slog.Logger,
	minScore int,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:   source,
		parser:   parser,
		scorer:   scorer,
		writer:   writer,
		logger:   logger,
		minScore: minScore,
	}
}

// Run executes one full pass for the keyword: fetch fragments, parse each
// into a Conference, score it against the abstract, and append the scored
// record to the writer. Each fragment flows completely through the pipeline
// before the next one is fetched.
//
// Error handling follows the pipeline taxonomy:
//   - fragments without a title and scorer failures are absorbed per record,
//     counted, and logged; the pass continues
//   - a terminal source fetch error or a writer error aborts the pass; rows
//     already appended are preserved and the partial stats are returned
//     alongside the error
func (s *Service) Run(ctx context.Context, keyword, abstract string) (*RunStats, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "match-pass",
		trace.WithAttributes(attribute.String("keyword", keyword)))
	defer span.End()

	stats := &RunStats{}
	start := time.Now()

	s.logger.Info("starting pass",
		slog.String("keyword", keyword),
		slog.Int("abstract_length", len(abstract)))

	for frag, err := range s.source.Search(ctx, keyword) {
		if err != nil {
			s.finish(stats, start, "pass aborted")
			return stats, fmt.Errorf("search %q: %w", keyword, err)
		}

		stats.Fragments++
		metrics.RecordFragmentFetched()

		if err := s.processFragment(ctx, frag, abstract, stats); err != nil {
			s.finish(stats, start, "pass aborted")
			return stats, err
		}
	}

	s.finish(stats, start, "pass completed")
	return stats, nil
}

// processFragment runs one fragment through parse, score, and append.
// It returns a non-nil error only for conditions that must abort the pass.
func (s *Service) processFragment(ctx context.Context, frag Fragment, abstract string, stats *RunStats) error {
	conf, err := s.parser.Parse(frag)
	if err != nil {
		stats.ParseSkips++
		metrics.RecordConferenceParsed(false)
		level := slog.LevelWarn
		if errors.Is(err, entity.ErrNoTitle) {
			// Expected for announcement pages the site renders without the
			// title markup; low severity.
			level = slog.LevelDebug
		}
		s.logger.Log(ctx, level, "skipping fragment",
			slog.String("url", frag.URL),
			slog.Any("error", err))
		return nil
	}

	stats.Parsed++
	metrics.RecordConferenceParsed(true)

	rel, err := s.scorer.Score(ctx, conf, abstract)
	if err != nil {
		// Cancellation is not a per-record condition - propagate immediately.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		stats.ScoreFailures++
		metrics.RecordConferenceScored(false)
		s.logger.Warn("scoring failed, skipping conference",
			slog.String("title", conf.Title),
			slog.String("url", frag.URL),
			slog.Any("error", err))
		return nil
	}

	stats.Scored++
	metrics.RecordConferenceScored(true)

	if rel.Score < s.minScore {
		stats.BelowThreshold++
		s.logger.Info("conference below score threshold",
			slog.String("title", conf.Title),
			slog.Int("score", rel.Score),
			slog.Int("min_score", s.minScore))
		return nil
	}

	if err := s.writer.Append(&entity.ScoredConference{Conference: *conf, Relevance: *rel}); err != nil {
		return fmt.Errorf("append scored conference %q: %w", conf.Title, err)
	}

	stats.Written++
	metrics.RecordRowWritten()
	s.logger.Info("conference scored",
		slog.String("title", conf.Title),
		slog.Int("score", rel.Score),
		slog.Int("written", stats.Written))

	return nil
}

// finish stamps the pass duration and emits the progress summary.
func (s *Service) finish(stats *RunStats, start time.Time, msg string) {
	stats.Duration = time.Since(start)
	metrics.RecordPassDuration(stats.Duration)

	s.logger.Info(msg,
		slog.Int("fragments", stats.Fragments),
		slog.Int("parsed", stats.Parsed),
		slog.Int("parse_skips", stats.ParseSkips),
		slog.Int("scored", stats.Scored),
		slog.Int("score_failures", stats.ScoreFailures),
		slog.Int("below_threshold", stats.BelowThreshold),
		slog.Int("written", stats.Written),
		slog.Duration("duration", stats.Duration))
}
