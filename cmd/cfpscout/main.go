// Command cfpscout searches a call-for-papers directory for a keyword, rates
// each announcement against a scientific abstract with an LLM, and appends
// the scored conferences to a CSV file.
//
// Usage:
//
//	cfpscout [flags] <abstract-file> <keyword>
//
// The abstract file holds the plain-text abstract of the work to match
// against. Results are appended row by row, so an interrupted run keeps
// everything processed so far.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cfpscout/internal/infra/csvout"
	"cfpscout/internal/infra/scorer"
	"cfpscout/internal/infra/wikicfp"
	"cfpscout/internal/observability/logging"
	"cfpscout/internal/usecase/match"
)

func main() {
	var (
		outputPath  = flag.String("o", "conferences.csv", "output CSV file, appended to if it exists")
		provider    = flag.String("provider", scorer.ProviderOpenAI, "scoring provider: openai, claude, or none")
		minScore    = flag.Int("min-score", 0, "drop conferences scoring below this value (0 keeps all)")
		markersPath = flag.String("markers", "", "optional YAML file overriding the page extraction markers")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(1)
	}
	abstractPath := flag.Arg(0)
	keyword := flag.Arg(1)

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	abstract, err := readAbstract(abstractPath)
	if err != nil {
		logger.Error("failed to read abstract", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetricsServer(ctx, logger)

	svc, writer, err := setupService(logger, *provider, *markersPath, *outputPath, *minScore)
	if err != nil {
		logger.Error("setup failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close output file", slog.Any("error", err))
		}
	}()

	stats, err := svc.Run(ctx, keyword, abstract)
	if err != nil {
		logger.Error("pass failed",
			slog.Any("error", err),
			slog.Int("rows_written", stats.Written))
		writer.Close()
		os.Exit(1)
	}

	logger.Info("done",
		slog.String("output", writer.Path()),
		slog.Int("rows_written", stats.Written),
		slog.Duration("duration", stats.Duration))
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <abstract-file> <keyword>\n\nFlags:\n", os.Args[0])
	flag.PrintDefaults()
}

// readAbstract loads the abstract text used as the relevance reference.
func readAbstract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read abstract file %s: %w", path, err)
	}
	abstract := strings.TrimSpace(string(data))
	if abstract == "" {
		return "", fmt.Errorf("abstract file %s is empty", path)
	}
	return abstract, nil
}

// setupService wires the source, parser, scorer, and writer into a match
// service. The writer is returned separately so the caller controls when the
// output file is closed.
func setupService(logger *slog.Logger, provider, markersPath, outputPath string, minScore int) (*match.Service, *csvout.Writer, error) {
	sourceConfig := wikicfp.LoadConfig()
	if err := sourceConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid directory configuration: %w", err)
	}

	markers, err := wikicfp.LoadMarkers(markersPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load markers: %w", err)
	}

	source := wikicfp.NewClient(newHTTPClient(sourceConfig.RequestTimeout), sourceConfig)
	parser := wikicfp.NewParser(markers)

	rel, err := createScorer(logger, provider)
	if err != nil {
		return nil, nil, err
	}

	writer, err := csvout.Open(outputPath)
	if err != nil {
		return nil, nil, err
	}

	return match.NewService(source, parser, rel, writer, logger, minScore), writer, nil
}

// createScorer builds the relevance scorer for the selected provider.
func createScorer(logger *slog.Logger, provider string) (match.RelevanceScorer, error) {
	config, err := scorer.LoadConfig(provider)
	if err != nil {
		return nil, err
	}

	switch provider {
	case scorer.ProviderOpenAI:
		return scorer.NewOpenAI(config), nil
	case scorer.ProviderClaude:
		return scorer.NewClaude(config), nil
	case scorer.ProviderNone:
		logger.Warn("scoring disabled, every conference will score 0")
		return scorer.NewNoop(), nil
	default:
		return nil, fmt.Errorf("unknown scoring provider %q", provider)
	}
}

// newHTTPClient creates an HTTP client with timeouts and connection pooling.
// TLS 1.2+ is enforced for security.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
