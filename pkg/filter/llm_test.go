package filter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybriefings/briefings/pkg/config"
	"github.com/mybriefings/briefings/pkg/domain"
)

func llmTestServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func llmTestConfig(url string) config.LLMConfig {
	return config.LLMConfig{
		Enabled:     true,
		Endpoint:    url + "/v1",
		APIKey:      "test-key",
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		MaxTokens:   500,
	}
}

func TestLLMEvaluator_Evaluate(t *testing.T) {
	server := llmTestServer(t, `{"evaluations": [
		{"item_number": 1, "is_relevant": true, "reason": "covers AI tooling"},
		{"item_number": 2, "is_relevant": false, "reason": "sports coverage"}
	]}`)
	defer server.Close()

	e := NewLLMEvaluator(llmTestConfig(server.URL))
	cat := domain.Category{Name: "Technology", Keywords: []string{"AI"}}

	verdicts, err := e.Evaluate(context.Background(), cat, rawItems("AI tools roundup", "match report"))
	require.NoError(t, err)
	require.Len(t, verdicts, 2)
	assert.True(t, verdicts[0].Relevant)
	assert.Equal(t, "covers AI tooling", verdicts[0].Reason)
	assert.False(t, verdicts[1].Relevant)
	assert.Equal(t, "sports coverage", verdicts[1].Reason)
}

func TestLLMEvaluator_Evaluate_ProseWrappedJSON(t *testing.T) {
	server := llmTestServer(t, `Here are my evaluations:

{"evaluations": [{"item_number": 1, "is_relevant": false, "reason": "unrelated"}]}

Let me know if you need anything else.`)
	defer server.Close()

	e := NewLLMEvaluator(llmTestConfig(server.URL))
	verdicts, err := e.Evaluate(context.Background(), domain.Category{Name: "Tech"}, rawItems("one"))
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.False(t, verdicts[0].Relevant)
}

func TestLLMEvaluator_Evaluate_BareArray(t *testing.T) {
	server := llmTestServer(t, `[{"item_number": 1, "is_relevant": true, "reason": "fits"}]`)
	defer server.Close()

	e := NewLLMEvaluator(llmTestConfig(server.URL))
	verdicts, err := e.Evaluate(context.Background(), domain.Category{Name: "Tech"}, rawItems("one"))
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.True(t, verdicts[0].Relevant)
}

func TestLLMEvaluator_Evaluate_RetriesOnGarbage(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		content := "sorry, I cannot help with that"
		if calls.Add(1) == 3 {
			content = `{"evaluations": [{"item_number": 1, "is_relevant": true, "reason": "fits"}]}`
		}
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	e := NewLLMEvaluator(llmTestConfig(server.URL))
	verdicts, err := e.Evaluate(context.Background(), domain.Category{Name: "Tech"}, rawItems("one"))
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestLLMEvaluator_Evaluate_GivesUpAfterThree(t *testing.T) {
	server := llmTestServer(t, "no json here at all")
	defer server.Close()

	e := NewLLMEvaluator(llmTestConfig(server.URL))
	_, err := e.Evaluate(context.Background(), domain.Category{Name: "Tech"}, rawItems("one"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestLLMEvaluator_Evaluate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	e := NewLLMEvaluator(llmTestConfig(server.URL))
	_, err := e.Evaluate(context.Background(), domain.Category{Name: "Tech"}, rawItems("one"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm request failed")
}

func TestLLMEvaluator_Evaluate_Empty(t *testing.T) {
	e := NewLLMEvaluator(llmTestConfig("http://localhost:1"))
	verdicts, err := e.Evaluate(context.Background(), domain.Category{Name: "Tech"}, nil)
	require.NoError(t, err)
	assert.Empty(t, verdicts)
}

func TestParseEvaluations_SkippedItemsStayRelevant(t *testing.T) {
	verdicts, err := parseEvaluations(`{"evaluations": [{"item_number": 2, "is_relevant": false, "reason": "no"}]}`, 3)
	require.NoError(t, err)
	require.Len(t, verdicts, 3)
	assert.True(t, verdicts[0].Relevant)
	assert.False(t, verdicts[1].Relevant)
	assert.True(t, verdicts[2].Relevant)
}

func TestParseEvaluations_OutOfRangeIgnored(t *testing.T) {
	verdicts, err := parseEvaluations(`{"evaluations": [
		{"item_number": 0, "is_relevant": false},
		{"item_number": 99, "is_relevant": false},
		{"item_number": 1, "is_relevant": false, "reason": "no"}
	]}`, 1)
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.False(t, verdicts[0].Relevant)
}
