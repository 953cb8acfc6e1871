package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/mybriefings/briefings/pkg/domain"
)

// Request carries the parameters for one runner invocation. Runners read only
// the fields relevant to them.
type Request struct {
	Category  domain.Category
	Query     string // AI answer prompt
	Subreddit string
	FeedName  string
	FeedURL   string
}

// Describe returns a short request descriptor for audit records
func (r Request) Describe() string {
	switch {
	case r.Query != "":
		return r.Query
	case r.Subreddit != "":
		return "r/" + r.Subreddit
	case r.FeedURL != "":
		return r.FeedURL
	}
	return r.Category.Name
}

// Runner fetches raw items from one external provider
type Runner interface {
	// Name is the data source name the runner operates as
	Name() string
	// Requests expands a category into the per-call requests this source needs
	Requests(cat domain.Category) []Request
	// Fetch performs one provider call through cache and rate limiter and
	// returns normalized items with the call outcome. Provider failures are
	// absorbed into the outcome, never returned as errors.
	Fetch(ctx context.Context, src *domain.DataSource, req Request) ([]domain.RawItem, domain.CallOutcome)
}

// Cache is the short-TTL response store runners consult before calling out
type Cache interface {
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Put(ctx context.Context, key, source string, payload []byte, ttl time.Duration) error
}

// Limiter guards provider calls with a per-source quota and records every
// call in the audit history. Record appends rows for calls that never reached
// the provider, cache hits in particular.
type Limiter interface {
	Do(ctx context.Context, source string, limit int, call func(ctx context.Context) *domain.CallRecord) (*domain.CallRecord, error)
	Record(ctx context.Context, source string, rec *domain.CallRecord) error
}

// timeNow is swapped in tests to pin cache-key day buckets
var timeNow = time.Now

// cacheKey builds a deterministic fingerprint for a provider request
func cacheKey(source string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(source))
	for _, p := range parts {
		h.Write([]byte{'|'})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// dayBucket returns the UTC day tag used to scope long-lived cache keys
func dayBucket(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// newHTTPClient builds the shared transport used by plain-HTTP runners
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// truncate bounds audit payloads stored in call history
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// keywordQuery builds the AI prompt for a category, falling back to the
// category name when no keywords are set
func keywordQuery(cat domain.Category) string {
	if len(cat.Keywords) > 0 {
		return "What are the latest news and developments about " + strings.Join(cat.Keywords, ", ") + "?"
	}
	return "What are the latest news and developments in " + cat.Name + "?"
}
