package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/mybriefings/briefings/pkg/config"
	"github.com/mybriefings/briefings/pkg/domain"
)

// RSSRunner fetches configured RSS/Atom feeds and normalizes their entries
type RSSRunner struct {
	cfg     config.RSSConfig
	client  *http.Client
	cache   Cache
	limiter Limiter
	policy  *bluemonday.Policy
}

// NewRSSRunner creates the feed runner
func NewRSSRunner(cfg config.RSSConfig, cache Cache, limiter Limiter) *RSSRunner {
	return &RSSRunner{
		cfg:     cfg,
		client:  newHTTPClient(cfg.Timeout),
		cache:   cache,
		limiter: limiter,
		policy:  bluemonday.StrictPolicy(),
	}
}

// Name returns the data source name
func (r *RSSRunner) Name() string { return SourceRSS }

// Requests returns one request per configured feed the category monitors.
// A category with preferred sources takes only feeds named there; otherwise
// every configured feed is in scope.
func (r *RSSRunner) Requests(cat domain.Category) []Request {
	reqs := make([]Request, 0, len(r.cfg.Feeds))
	for _, feed := range r.cfg.Feeds {
		if feed.URL == "" {
			continue
		}
		if len(cat.PreferredSources) > 0 && !matchesSource(cat.PreferredSources, feed.Name) {
			continue
		}
		reqs = append(reqs, Request{Category: cat, FeedName: feed.Name, FeedURL: feed.URL})
	}
	return reqs
}

// matchesSource reports whether name is listed in preferred, case-insensitive
func matchesSource(preferred []string, name string) bool {
	for _, p := range preferred {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// Fetch retrieves one feed. The raw XML body is cached so repeated ingestion
// runs within the TTL reparse locally instead of calling out.
func (r *RSSRunner) Fetch(ctx context.Context, src *domain.DataSource, req Request) ([]domain.RawItem, domain.CallOutcome) {
	key := cacheKey(SourceRSS, req.FeedURL)

	if payload, ok, err := r.cache.Get(ctx, key); err != nil {
		lgr.Printf("[WARN] feed cache read failed: %v", err)
	} else if ok {
		items, err := r.parseFeed(payload, req.FeedName)
		if err != nil {
			lgr.Printf("[WARN] cached feed %s not parseable: %v", req.FeedURL, err)
		} else {
			r.recordCached(ctx, req, len(items))
			return items, domain.OutcomeCached
		}
	}

	var items []domain.RawItem
	rec, err := r.limiter.Do(ctx, src.Name, src.RateLimitPerMinute, func(ctx context.Context) *domain.CallRecord {
		rec := &domain.CallRecord{Request: req.FeedURL}

		body, status, err := r.get(ctx, req.FeedURL)
		rec.StatusCode = status
		if err != nil {
			rec.Outcome = domain.OutcomeError
			rec.ErrorMessage = err.Error()
			return rec
		}

		parsed, err := r.parseFeed(body, req.FeedName)
		if err != nil {
			rec.Outcome = domain.OutcomeError
			rec.ErrorMessage = err.Error()
			rec.ResponseContent = truncate(string(body), 2000)
			return rec
		}

		rec.Outcome = domain.OutcomeSuccess
		rec.ItemsFound = len(parsed)
		items = parsed

		if err := r.cache.Put(ctx, key, SourceRSS, body, r.cfg.CacheTTL); err != nil {
			lgr.Printf("[WARN] feed cache write failed: %v", err)
		}
		return rec
	})
	if err != nil {
		lgr.Printf("[ERROR] feed call bookkeeping failed: %v", err)
		return nil, domain.OutcomeError
	}

	if rec.Outcome != domain.OutcomeSuccess {
		return nil, rec.Outcome
	}
	return items, domain.OutcomeSuccess
}

// parseFeed converts raw feed XML into normalized items, newest first as the
// feed orders them, capped at the per-feed limit
func (r *RSSRunner) parseFeed(payload []byte, feedName string) ([]domain.RawItem, error) {
	feed, err := gofeed.NewParser().Parse(strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	label := feedName
	if label == "" {
		label = feed.Title
	}

	limit := r.cfg.MaxPerFeed
	if limit <= 0 || limit > len(feed.Items) {
		limit = len(feed.Items)
	}

	items := make([]domain.RawItem, 0, limit)
	for _, entry := range feed.Items[:limit] {
		if entry.Title == "" && entry.Link == "" {
			continue
		}

		body := entry.Content
		if body == "" {
			body = entry.Description
		}

		item := domain.RawItem{
			Title:       r.sanitize(entry.Title),
			Body:        r.sanitize(body),
			URL:         entry.Link,
			SourceLabel: label,
			Raw:         map[string]any{"feed": label},
		}
		if entry.GUID != "" {
			item.Raw["guid"] = entry.GUID
		}
		if entry.Author != nil && entry.Author.Name != "" {
			item.Raw["author"] = entry.Author.Name
		}

		if entry.PublishedParsed != nil {
			item.Published = entry.PublishedParsed.UTC()
		} else if entry.UpdatedParsed != nil {
			item.Published = entry.UpdatedParsed.UTC()
		}

		items = append(items, item)
	}
	return items, nil
}

// sanitize strips markup from feed-supplied text, entries often carry HTML
func (r *RSSRunner) sanitize(s string) string {
	return strings.TrimSpace(r.policy.Sanitize(s))
}

// get fetches a feed URL with browser-like headers
func (r *RSSRunner) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}
	addBrowserHeaders(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return body, resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return body, resp.StatusCode, nil
}

// recordCached appends an audit row for a cache hit
func (r *RSSRunner) recordCached(ctx context.Context, req Request, found int) {
	rec := &domain.CallRecord{
		Request:    req.FeedURL,
		Outcome:    domain.OutcomeCached,
		ItemsFound: found,
	}
	if err := r.limiter.Record(ctx, SourceRSS, rec); err != nil {
		lgr.Printf("[WARN] feed cache-hit record failed: %v", err)
	}
}
