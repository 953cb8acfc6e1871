package domain

import "time"

// RawItem is the normalized record a source runner produces before filtering.
// Fields the provider did not supply stay zero; a partially filled item is
// still a valid item.
type RawItem struct {
	Title       string
	Body        string
	URL         string
	SourceLabel string
	Published   time.Time // zero when the provider gave no timestamp
	Raw         map[string]any
}

// FeedItem represents a persisted feed entry visible to readers.
// DedupKey is the stable identity used to collapse repeated ingestion of the
// same article: the URL when present, a title hash otherwise.
type FeedItem struct {
	ID              int64
	DedupKey        string
	Title           string
	Summary         string
	Content         string
	URL             string
	Source          string
	DataSourceID    int64
	Published       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Category        string
	IsRelevant      bool
	RelevanceReason string
	IsProcessed     bool
	Raw             map[string]any
}

// WriteSummary reports what a batch write did to the feed
type WriteSummary struct {
	Created int
	Updated int
	Skipped int
}

// FeedQuery represents filtering criteria for reading the feed
type FeedQuery struct {
	Category     string
	Source       string
	Since        time.Time
	Limit        int
	RelevantOnly bool
}
