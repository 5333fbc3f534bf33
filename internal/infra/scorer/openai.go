package scorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"cfpscout/internal/domain/entity"
	"cfpscout/internal/resilience/circuitbreaker"
	"cfpscout/internal/resilience/retry"
)

// OpenAI scores conference relevance using OpenAI's chat completion API.
// It includes circuit breaker and retry logic for improved reliability.
// The scorer is stateless: no memory of prior conferences influences a score.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          *Config
	metricsRecorder ScoreMetricsRecorder
}

// NewOpenAI creates a new OpenAI scorer with the given configuration.
// It automatically configures circuit breaker, retry logic, and metrics recording.
func NewOpenAI(config *Config) *OpenAI {
	slog.Info("Initialized OpenAI scorer",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens))

	return &OpenAI{
		client:          openai.NewClient(config.APIKey),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ScorerAPIConfig()),
		retryConfig:     retry.ScorerAPIConfig(),
		config:          config,
		metricsRecorder: NewPrometheusScoreMetrics(),
	}
}

// Score rates the relevance of one conference against the abstract.
// It uses circuit breaker and retry logic for improved reliability.
func (o *OpenAI) Score(ctx context.Context, conf *entity.Conference, abstract string) (*entity.Relevance, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var result *entity.Relevance

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doScore(ctx, conf, abstract)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(*entity.Relevance)
		return nil
	})

	if retryErr != nil {
		return nil, fmt.Errorf("openai score failed: %w", retryErr)
	}

	return result, nil
}

// doScore performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doScore(ctx context.Context, conf *entity.Conference, abstract string) (*entity.Relevance, error) {
	requestID := uuid.New().String()
	prompt := buildPrompt(abstract, conf, o.config.MaxPromptChars)

	slog.InfoContext(ctx, "Starting relevance scoring",
		slog.String("request_id", requestID),
		slog.String("title", conf.Title))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})

	duration := time.Since(start)
	o.metricsRecorder.RecordDuration(duration)

	if err != nil {
		o.metricsRecorder.RecordFailure("api_error")
		slog.ErrorContext(ctx, "Scoring call failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		o.metricsRecorder.RecordFailure("bad_reply")
		return nil, fmt.Errorf("openai api returned empty response")
	}

	relevance, err := parseReply(resp.Choices[0].Message.Content)
	if err != nil {
		o.metricsRecorder.RecordFailure("bad_reply")
		slog.WarnContext(ctx, "Unparsable scoring reply",
			slog.String("request_id", requestID),
			slog.String("title", conf.Title),
			slog.Any("error", err))
		return nil, fmt.Errorf("parse openai reply: %w", err)
	}

	o.metricsRecorder.RecordScore(relevance.Score)
	slog.InfoContext(ctx, "Scoring completed",
		slog.String("request_id", requestID),
		slog.String("title", conf.Title),
		slog.Int("score", relevance.Score),
		slog.Duration("duration", duration))

	return relevance, nil
}
