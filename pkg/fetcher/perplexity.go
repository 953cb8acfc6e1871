package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/mybriefings/briefings/pkg/config"
	"github.com/mybriefings/briefings/pkg/domain"
)

// SourceName constants for the built-in runners
const (
	SourcePerplexity = "perplexity"
	SourceReddit     = "reddit"
	SourceRSS        = "rss"
)

// answer format requested from the AI provider; the parser falls back to
// plain-text splitting when the model ignores it
const perplexitySystemPrompt = `You are a helpful assistant that provides concise, informative summaries of current events and trending topics. ` +
	`Focus on factual information and provide relevant context. ` +
	`Respond in bullet points, but formatted as JSON with this exact structure: ` +
	`{"news_items": [{"title": "Brief headline", "summary": "Detailed description", "url": "https://example.com"}]}. ` +
	`Each news item should have a title (brief headline), summary (detailed description), and optionally a url (source link).`

// PerplexityRunner fetches AI-generated news answers from an OpenAI-compatible
// completion endpoint
type PerplexityRunner struct {
	client  *openai.Client
	cfg     config.PerplexityConfig
	cache   Cache
	limiter Limiter
}

// NewPerplexityRunner creates the AI answer runner
func NewPerplexityRunner(cfg config.PerplexityConfig, cache Cache, limiter Limiter) *PerplexityRunner {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &PerplexityRunner{
		client:  openai.NewClientWithConfig(clientConfig),
		cfg:     cfg,
		cache:   cache,
		limiter: limiter,
	}
}

// Name returns the data source name
func (p *PerplexityRunner) Name() string { return SourcePerplexity }

// Requests builds one AI query per category from its keywords
func (p *PerplexityRunner) Requests(cat domain.Category) []Request {
	return []Request{{Category: cat, Query: keywordQuery(cat)}}
}

// Fetch asks the AI provider for fresh news on the request's query. Answers
// are cached per query, model and UTC day, so repeated triggers within the
// TTL cost no provider calls.
func (p *PerplexityRunner) Fetch(ctx context.Context, src *domain.DataSource, req Request) ([]domain.RawItem, domain.CallOutcome) {
	model := p.cfg.Model
	if m, ok := src.Config["model"]; ok && m != "" {
		model = m
	}

	key := cacheKey(SourcePerplexity, req.Query, model, dayBucket(timeNow()))

	if payload, ok, err := p.cache.Get(ctx, key); err != nil {
		lgr.Printf("[WARN] perplexity cache read failed: %v", err)
	} else if ok {
		items := p.parseAnswer(string(payload), req)
		p.recordCached(ctx, req, len(items))
		return items, domain.OutcomeCached
	}

	var items []domain.RawItem
	rec, err := p.limiter.Do(ctx, src.Name, src.RateLimitPerMinute, func(ctx context.Context) *domain.CallRecord {
		rec := &domain.CallRecord{Request: truncate(req.Query, 2000)}

		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       model,
			Temperature: float32(p.cfg.Temperature),
			MaxTokens:   p.cfg.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: perplexitySystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: req.Query},
			},
		})
		if err != nil {
			rec.Outcome = domain.OutcomeError
			rec.ErrorMessage = err.Error()
			var apiErr *openai.APIError
			var reqErr *openai.RequestError
			switch {
			case errors.As(err, &apiErr):
				rec.StatusCode = apiErr.HTTPStatusCode
			case errors.As(err, &reqErr):
				rec.StatusCode = reqErr.HTTPStatusCode
			}
			return rec
		}

		rec.StatusCode = http.StatusOK
		rec.Outcome = domain.OutcomeSuccess

		if len(resp.Choices) == 0 {
			return rec // empty answer is success with zero items
		}

		content := resp.Choices[0].Message.Content
		rec.ResponseContent = truncate(content, 4000)

		items = p.parseAnswer(content, req)
		rec.ItemsFound = len(items)

		if err := p.cache.Put(ctx, key, SourcePerplexity, []byte(content), p.cfg.CacheTTL); err != nil {
			lgr.Printf("[WARN] perplexity cache write failed: %v", err)
		}
		return rec
	})
	if err != nil {
		lgr.Printf("[ERROR] perplexity call bookkeeping failed: %v", err)
		return nil, domain.OutcomeError
	}

	if rec.Outcome != domain.OutcomeSuccess {
		return nil, rec.Outcome
	}
	return items, domain.OutcomeSuccess
}

// recordCached appends an audit row for a cache hit; cache hits never reach
// the provider and do not consume quota
func (p *PerplexityRunner) recordCached(ctx context.Context, req Request, found int) {
	rec := &domain.CallRecord{
		Request:    truncate(req.Query, 2000),
		Outcome:    domain.OutcomeCached,
		ItemsFound: found,
	}
	if err := p.limiter.Record(ctx, SourcePerplexity, rec); err != nil {
		lgr.Printf("[WARN] perplexity cached call record failed: %v", err)
	}
}

// newsItem is one entry of the structured answer payload
type newsItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// parseAnswer extracts items from the model's answer. Tries the requested
// JSON shape first, then a bare array, then falls back to line splitting so a
// prose answer still yields items.
func (p *PerplexityRunner) parseAnswer(content string, req Request) []domain.RawItem {
	var wrapped struct {
		NewsItems []newsItem `json:"news_items"`
	}

	jsonPart := extractJSON(content)

	var parsed []newsItem
	if err := json.Unmarshal([]byte(jsonPart), &wrapped); err == nil && len(wrapped.NewsItems) > 0 {
		parsed = wrapped.NewsItems
	} else if err := json.Unmarshal([]byte(jsonPart), &parsed); err != nil || len(parsed) == 0 {
		return p.parseLines(content)
	}

	items := make([]domain.RawItem, 0, len(parsed))
	for _, n := range parsed {
		if n.Title == "" && n.Summary == "" {
			continue // malformed entry, keep the rest of the batch
		}
		title := n.Title
		if title == "" {
			title = "Untitled"
		}
		items = append(items, domain.RawItem{
			Title:       title,
			Body:        n.Summary,
			URL:         n.URL,
			SourceLabel: "Perplexity AI",
			Raw:         map[string]any{"title": n.Title, "summary": n.Summary, "url": n.URL},
		})
	}
	return items
}

// parseLines is the fallback for non-JSON answers, one item per long line
func (p *PerplexityRunner) parseLines(content string) []domain.RawItem {
	var items []domain.RawItem
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• "))
		if len(line) < 20 {
			continue
		}
		title := line
		if len(title) > 100 {
			title = title[:100] + "..."
		}
		items = append(items, domain.RawItem{
			Title:       title,
			Body:        line,
			SourceLabel: "Perplexity AI",
			Raw:         map[string]any{"line": line},
		})
	}
	return items
}

// extractJSON pulls the outermost JSON object or array out of a possibly
// fenced or prose-wrapped answer
func extractJSON(content string) string {
	start := strings.IndexAny(content, "{[")
	if start == -1 {
		return content
	}
	var end int
	if content[start] == '{' {
		end = strings.LastIndex(content, "}")
	} else {
		end = strings.LastIndex(content, "]")
	}
	if end <= start {
		return content
	}
	return content[start : end+1]
}
