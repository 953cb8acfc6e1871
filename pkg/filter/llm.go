package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/mybriefings/briefings/pkg/config"
	"github.com/mybriefings/briefings/pkg/domain"
)

// LLMEvaluator judges item relevance with a chat-completion model
type LLMEvaluator struct {
	client *openai.Client
	cfg    config.LLMConfig
}

// NewLLMEvaluator creates the evaluator from config
func NewLLMEvaluator(cfg config.LLMConfig) *LLMEvaluator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &LLMEvaluator{client: openai.NewClientWithConfig(clientConfig), cfg: cfg}
}

const evaluatorSystemPrompt = `You are an AI assistant that evaluates news items for relevance to a user's interest category.
For each item decide whether it belongs in the category described by the user.

Each evaluation should contain:
- item_number: the item's number from the list (starting at 1)
- is_relevant: true or false
- reason: brief explanation (max 100 chars)

Evaluate EVERY item in the list. Respond with a JSON object containing an 'evaluations' array.`

// evaluation is one per-item decision in the model's response
type evaluation struct {
	ItemNumber int    `json:"item_number"`
	IsRelevant bool   `json:"is_relevant"`
	Reason     string `json:"reason"`
}

// Evaluate judges one batch of items. Returns exactly one verdict per item,
// in input order.
func (e *LLMEvaluator) Evaluate(ctx context.Context, cat domain.Category, items []domain.RawItem) ([]Verdict, error) {
	if len(items) == 0 {
		return []Verdict{}, nil
	}

	prompt := e.buildPrompt(cat, items)

	// retry on malformed responses, the model occasionally wraps or clips JSON
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       e.cfg.Model,
			Temperature: float32(e.cfg.Temperature),
			MaxTokens:   e.cfg.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: evaluatorSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no response from llm")
		}

		verdicts, err := parseEvaluations(resp.Choices[0].Message.Content, len(items))
		if err == nil {
			return verdicts, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed after 3 attempts: %w", lastErr)
}

// buildPrompt lays out the category and the numbered items
func (e *LLMEvaluator) buildPrompt(cat domain.Category, items []domain.RawItem) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Category: %s\n", cat.Name))
	if cat.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", cat.Description))
	}
	if len(cat.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords: %s\n", strings.Join(cat.Keywords, ", ")))
	}
	sb.WriteString("\nEvaluate these items:\n\n")

	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. Title: %s\n", i+1, item.Title))
		if item.Body != "" {
			body := item.Body
			if len(body) > 500 {
				body = body[:500] + "..."
			}
			sb.WriteString(fmt.Sprintf("   Content: %s\n", body))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Respond with a JSON object containing an 'evaluations' array.")
	return sb.String()
}

// parseEvaluations extracts per-item verdicts from the model output. Items the
// model skipped stay relevant, only an explicit negative drops an item.
func parseEvaluations(content string, count int) ([]Verdict, error) {
	var resp struct {
		Evaluations []evaluation `json:"evaluations"`
	}

	if err := json.Unmarshal([]byte(extractJSONObject(content)), &resp); err != nil {
		// some models answer with a bare array
		start := strings.Index(content, "[")
		end := strings.LastIndex(content, "]")
		if start == -1 || end == -1 || start >= end {
			return nil, fmt.Errorf("no evaluations found in response")
		}
		if err := json.Unmarshal([]byte(content[start:end+1]), &resp.Evaluations); err != nil {
			return nil, fmt.Errorf("parse evaluations: %w", err)
		}
	}

	if len(resp.Evaluations) == 0 {
		return nil, fmt.Errorf("no evaluations found in response")
	}

	verdicts := make([]Verdict, count)
	for i := range verdicts {
		verdicts[i] = Verdict{Relevant: true, Reason: "not evaluated"}
	}
	for _, ev := range resp.Evaluations {
		if ev.ItemNumber < 1 || ev.ItemNumber > count {
			continue
		}
		verdicts[ev.ItemNumber-1] = Verdict{Relevant: ev.IsRelevant, Reason: ev.Reason}
	}
	return verdicts, nil
}

// extractJSONObject trims leading/trailing prose around a JSON object
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return content
	}
	return content[start : end+1]
}
