// Package feed turns filtered raw items into persistent feed rows. The writer
// owns dedup-key computation and delegates the conflict-safe batch write to
// the repository.
package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/mybriefings/briefings/pkg/domain"
	"github.com/mybriefings/briefings/pkg/filter"
)

// ItemStore persists feed items
type ItemStore interface {
	UpsertBatch(ctx context.Context, items []domain.FeedItem) (domain.WriteSummary, error)
}

// Writer builds feed items from raw source output and writes them
type Writer struct {
	store    ItemStore
	lookback time.Duration // dedup window for items without a stable URL

	now func() time.Time // for tests
}

// NewWriter creates a feed writer. The lookback bounds title-based dedup for
// items that carry no URL.
func NewWriter(store ItemStore, lookback time.Duration) *Writer {
	if lookback <= 0 {
		lookback = 72 * time.Hour
	}
	return &Writer{store: store, lookback: lookback, now: time.Now}
}

// Write persists one batch of filtered items for a category. Raw items and
// verdicts are parallel slices as the filter returns them.
func (w *Writer) Write(ctx context.Context, cat domain.Category, sourceID int64, raw []domain.RawItem, verdicts []filter.Verdict) (domain.WriteSummary, error) {
	if len(raw) != len(verdicts) {
		return domain.WriteSummary{}, fmt.Errorf("got %d verdicts for %d items", len(verdicts), len(raw))
	}
	if len(raw) == 0 {
		return domain.WriteSummary{}, nil
	}

	items := make([]domain.FeedItem, 0, len(raw))
	seen := make(map[string]bool, len(raw)) // in-batch dedup, sources repeat items
	for i, r := range raw {
		item := w.buildItem(cat, sourceID, r, verdicts[i])
		if seen[item.DedupKey] {
			continue
		}
		seen[item.DedupKey] = true
		items = append(items, item)
	}

	summary, err := w.store.UpsertBatch(ctx, items)
	if err != nil {
		return domain.WriteSummary{}, fmt.Errorf("write feed batch: %w", err)
	}
	return summary, nil
}

// buildItem maps one raw item to a feed row
func (w *Writer) buildItem(cat domain.Category, sourceID int64, r domain.RawItem, v filter.Verdict) domain.FeedItem {
	item := domain.FeedItem{
		DedupKey:        w.DedupKey(r),
		Title:           r.Title,
		Summary:         r.Body,
		URL:             r.URL,
		Source:          r.SourceLabel,
		DataSourceID:    sourceID,
		Category:        cat.Name,
		IsRelevant:      v.Relevant,
		RelevanceReason: v.Reason,
		IsProcessed:     true,
		Raw:             r.Raw,
	}
	if !r.Published.IsZero() {
		pub := r.Published.UTC()
		item.Published = &pub
	}
	return item
}

// DedupKey returns the identity under which an item is stored. Items with a
// URL dedup on it directly; the rest fall back to a hash of source, title,
// and a time bucket so the same story is not re-created on every run.
func (w *Writer) DedupKey(r domain.RawItem) string {
	if r.URL != "" {
		return r.URL
	}

	bucket := w.bucket(r.Published)
	h := sha256.Sum256([]byte(r.SourceLabel + "|" + strings.ToLower(strings.TrimSpace(r.Title)) + "|" + bucket))
	return hex.EncodeToString(h[:])
}

// bucket returns the dedup time bucket. Items with a publish date bucket on
// that day; undated items bucket on the current lookback window so repeats
// within it collapse.
func (w *Writer) bucket(published time.Time) string {
	if !published.IsZero() {
		return published.UTC().Format("2006-01-02")
	}
	return w.now().UTC().Truncate(w.lookback).Format(time.RFC3339)
}
