package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/mybriefings/briefings/pkg/config"
	"github.com/mybriefings/briefings/pkg/domain"
)

// RedditRunner fetches top posts from public subreddit listings
type RedditRunner struct {
	client  *http.Client
	cfg     config.RedditConfig
	cache   Cache
	limiter Limiter
}

// NewRedditRunner creates the community forum runner
func NewRedditRunner(cfg config.RedditConfig, cache Cache, limiter Limiter) *RedditRunner {
	return &RedditRunner{
		client:  newHTTPClient(cfg.Timeout),
		cfg:     cfg,
		cache:   cache,
		limiter: limiter,
	}
}

// Name returns the data source name
func (r *RedditRunner) Name() string { return SourceReddit }

// Requests builds one request per subreddit tracked by the category
func (r *RedditRunner) Requests(cat domain.Category) []Request {
	reqs := make([]Request, 0, len(cat.Subreddits))
	for _, sub := range cat.Subreddits {
		if sub == "" {
			continue
		}
		reqs = append(reqs, Request{Category: cat, Subreddit: sub})
	}
	return reqs
}

// redditListing mirrors the slice of the public JSON API we consume
type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	SelfText   string  `json:"selftext"`
	Permalink  string  `json:"permalink"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

// Fetch pulls top posts for the request's subreddit. One subreddit listing is
// one rate-limited call; the optional top-comment lookups ride along on it.
func (r *RedditRunner) Fetch(ctx context.Context, src *domain.DataSource, req Request) ([]domain.RawItem, domain.CallOutcome) {
	key := cacheKey(SourceReddit, req.Subreddit, r.cfg.TimeFilter, fmt.Sprintf("%d", r.cfg.PostsPerSub))

	if payload, ok, err := r.cache.Get(ctx, key); err != nil {
		lgr.Printf("[WARN] reddit cache read failed: %v", err)
	} else if ok {
		// cached path skips comment enrichment, it would need live calls
		items := r.parseListing(ctx, payload, req.Subreddit, false)
		r.recordCached(ctx, req, len(items))
		return items, domain.OutcomeCached
	}

	var items []domain.RawItem
	rec, err := r.limiter.Do(ctx, src.Name, src.RateLimitPerMinute, func(ctx context.Context) *domain.CallRecord {
		rec := &domain.CallRecord{Request: "r/" + req.Subreddit}

		url := fmt.Sprintf("%s/r/%s/top.json?limit=%d&t=%s", r.cfg.BaseURL, req.Subreddit, r.cfg.PostsPerSub, r.cfg.TimeFilter)
		body, status, err := r.get(ctx, url)
		rec.StatusCode = status
		if err != nil {
			rec.Outcome = domain.OutcomeError
			rec.ErrorMessage = err.Error()
			rec.ResponseContent = truncate(string(body), 2000)
			return rec
		}

		rec.Outcome = domain.OutcomeSuccess
		rec.ResponseContent = truncate(string(body), 4000)

		items = r.parseListing(ctx, body, req.Subreddit, r.cfg.WithComments)
		rec.ItemsFound = len(items)

		if err := r.cache.Put(ctx, key, SourceReddit, body, r.cfg.CacheTTL); err != nil {
			lgr.Printf("[WARN] reddit cache write failed: %v", err)
		}
		return rec
	})
	if err != nil {
		lgr.Printf("[ERROR] reddit call bookkeeping failed: %v", err)
		return nil, domain.OutcomeError
	}

	if rec.Outcome != domain.OutcomeSuccess {
		return nil, rec.Outcome
	}
	return items, domain.OutcomeSuccess
}

// parseListing maps a subreddit listing payload to raw items. A malformed
// post is skipped without dropping the rest of the batch.
func (r *RedditRunner) parseListing(ctx context.Context, payload []byte, subreddit string, withComments bool) []domain.RawItem {
	var listing redditListing
	if err := json.Unmarshal(payload, &listing); err != nil {
		lgr.Printf("[WARN] reddit listing for r/%s not parseable: %v", subreddit, err)
		return nil
	}

	items := make([]domain.RawItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data
		if post.Title == "" {
			continue
		}

		item := domain.RawItem{
			Title:       post.Title,
			Body:        post.SelfText,
			URL:         "https://reddit.com" + post.Permalink,
			SourceLabel: "Reddit r/" + subreddit,
			Raw: map[string]any{
				"id":        post.ID,
				"subreddit": subreddit,
				"score":     post.Score,
				"permalink": post.Permalink,
			},
		}
		if post.CreatedUTC > 0 {
			item.Published = time.Unix(int64(post.CreatedUTC), 0).UTC()
		}

		// the comment lookup is an extra provider hit that shares the
		// listing's rate-limit slot and is not recorded in call history,
		// bounded by the listing page size
		if withComments && post.ID != "" {
			if comment := r.topComment(ctx, subreddit, post.ID); comment != "" {
				item.Raw["top_comment"] = comment
			}
		}

		items = append(items, item)
	}
	return items
}

// topComment fetches the highest-ranked comment for a post, best effort
func (r *RedditRunner) topComment(ctx context.Context, subreddit, postID string) string {
	url := fmt.Sprintf("%s/r/%s/comments/%s.json?limit=1", r.cfg.BaseURL, subreddit, postID)
	body, _, err := r.get(ctx, url)
	if err != nil {
		lgr.Printf("[DEBUG] reddit top comment for %s/%s skipped: %v", subreddit, postID, err)
		return ""
	}

	// a comments response is a two-element array: the post, then comments
	var pages []struct {
		Data struct {
			Children []struct {
				Data struct {
					Body string `json:"body"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &pages); err != nil || len(pages) < 2 {
		return ""
	}
	if len(pages[1].Data.Children) == 0 {
		return ""
	}
	return pages[1].Data.Children[0].Data.Body
}

// get performs one HTTP GET and returns body and status
func (r *RedditRunner) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return body, resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return body, resp.StatusCode, nil
}

// recordCached appends an audit row for a cache hit
func (r *RedditRunner) recordCached(ctx context.Context, req Request, found int) {
	rec := &domain.CallRecord{
		Request:    "r/" + req.Subreddit,
		Outcome:    domain.OutcomeCached,
		ItemsFound: found,
	}
	if err := r.limiter.Record(ctx, SourceReddit, rec); err != nil {
		lgr.Printf("[WARN] reddit cached call record failed: %v", err)
	}
}
