package scorer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfpscout/internal/domain/entity"
	"cfpscout/internal/resilience/circuitbreaker"
	"cfpscout/internal/resilience/retry"
)

// newStubOpenAI builds an OpenAI scorer pointed at a local stub server.
func newStubOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	clientConfig := openai.DefaultConfig("sk-test")
	clientConfig.BaseURL = server.URL + "/v1"

	return &OpenAI{
		client:         openai.NewClientWithConfig(clientConfig),
		circuitBreaker: circuitbreaker.New(circuitbreaker.ScorerAPIConfig()),
		retryConfig: retry.Config{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			Multiplier:   2.0,
		},
		config: &Config{
			Provider:       ProviderOpenAI,
			APIKey:         "sk-test",
			Model:          "gpt-4o",
			MaxTokens:      256,
			Timeout:        5 * time.Second,
			MaxPromptChars: 4000,
		},
		metricsRecorder: NewPrometheusScoreMetrics(),
	}
}

func TestOpenAIScore_ParsesReply(t *testing.T) {
	s := newStubOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o",
			"choices": [{
				"index": 0,
				"message": {
					"role": "assistant",
					"content": "{\"score\": 8, \"justification\": \"Strong topical match\"}"
				},
				"finish_reason": "stop"
			}]
		}`))
	})

	rel, err := s.Score(context.Background(), &entity.Conference{Title: "ICGL"}, "graph learning")
	require.NoError(t, err)
	assert.Equal(t, 8, rel.Score)
	assert.Equal(t, "Strong topical match", rel.Justification)
}

func TestOpenAIScore_BadReplyFails(t *testing.T) {
	s := newStubOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-2",
			"object": "chat.completion",
			"model": "gpt-4o",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "no rating today"},
				"finish_reason": "stop"
			}]
		}`))
	})

	rel, err := s.Score(context.Background(), &entity.Conference{Title: "ICGL"}, "graph learning")
	require.Error(t, err)
	assert.Nil(t, rel)
}
