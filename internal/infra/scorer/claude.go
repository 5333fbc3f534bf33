package scorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"cfpscout/internal/domain/entity"
	"cfpscout/internal/resilience/circuitbreaker"
	"cfpscout/internal/resilience/retry"
)

// Claude scores conference relevance using Anthropic's Claude API.
// It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          *Config
	metricsRecorder ScoreMetricsRecorder
}

// NewClaude creates a new Claude scorer with the given configuration.
// It automatically configures circuit breaker, retry logic, and metrics recording.
func NewClaude(config *Config) *Claude {
	slog.Info("Initialized Claude scorer",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens))

	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(config.APIKey)),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ScorerAPIConfig()),
		retryConfig:     retry.ScorerAPIConfig(),
		config:          config,
		metricsRecorder: NewPrometheusScoreMetrics(),
	}
}

// Score rates the relevance of one conference against the abstract.
// It uses circuit breaker and retry logic for improved reliability.
func (c *Claude) Score(ctx context.Context, conf *entity.Conference, abstract string) (*entity.Relevance, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var result *entity.Relevance

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doScore(ctx, conf, abstract)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(*entity.Relevance)
		return nil
	})

	if retryErr != nil {
		return nil, fmt.Errorf("claude score failed: %w", retryErr)
	}

	return result, nil
}

// doScore performs the actual API call without retry or circuit breaker.
func (c *Claude) doScore(ctx context.Context, conf *entity.Conference, abstract string) (*entity.Relevance, error) {
	requestID := uuid.New().String()
	prompt := buildPrompt(abstract, conf, c.config.MaxPromptChars)

	slog.InfoContext(ctx, "Starting relevance scoring",
		slog.String("request_id", requestID),
		slog.String("title", conf.Title))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)
	c.metricsRecorder.RecordDuration(duration)

	if err != nil {
		c.metricsRecorder.RecordFailure("api_error")
		slog.ErrorContext(ctx, "Scoring call failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		c.metricsRecorder.RecordFailure("bad_reply")
		return nil, fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		c.metricsRecorder.RecordFailure("bad_reply")
		return nil, fmt.Errorf("claude api returned unexpected response type")
	}

	relevance, err := parseReply(textBlock.Text)
	if err != nil {
		c.metricsRecorder.RecordFailure("bad_reply")
		slog.WarnContext(ctx, "Unparsable scoring reply",
			slog.String("request_id", requestID),
			slog.String("title", conf.Title),
			slog.Any("error", err))
		return nil, fmt.Errorf("parse claude reply: %w", err)
	}

	c.metricsRecorder.RecordScore(relevance.Score)
	slog.InfoContext(ctx, "Scoring completed",
		slog.String("request_id", requestID),
		slog.String("title", conf.Title),
		slog.Int("score", relevance.Score),
		slog.Duration("duration", duration))

	return relevance, nil
}
