// Package filter decides which fetched items belong in a category's feed.
// Keyword matching settles the obvious cases; the rest go to an LLM check
// when one is configured. The filter fails open: an unavailable or
// inconclusive check keeps the item rather than dropping it.
package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/mybriefings/briefings/pkg/domain"
)

// Verdict is the relevance decision for one item
type Verdict struct {
	Relevant bool
	Reason   string
}

// Evaluator judges a batch of items against a category. Implemented by the
// LLM check; the keyword pass lives in Filter itself.
type Evaluator interface {
	Evaluate(ctx context.Context, cat domain.Category, items []domain.RawItem) ([]Verdict, error)
}

// Filter combines the keyword pass with an optional LLM evaluator
type Filter struct {
	llm       Evaluator // nil when the LLM check is disabled
	batchSize int
}

// New creates a filter. Pass a nil evaluator to run keyword-only.
func New(llm Evaluator, batchSize int) *Filter {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Filter{llm: llm, batchSize: batchSize}
}

// Apply evaluates every item against the category and returns one verdict per
// item, in input order
func (f *Filter) Apply(ctx context.Context, cat domain.Category, items []domain.RawItem) []Verdict {
	verdicts := make([]Verdict, len(items))

	keywords := normalizeKeywords(cat.Keywords)
	if len(keywords) == 0 {
		// a category without keywords takes everything its sources produce,
		// default-allow verdicts carry no reason
		for i := range verdicts {
			verdicts[i] = Verdict{Relevant: true}
		}
		return verdicts
	}

	var undecided []int
	for i, item := range items {
		if kw, ok := matchKeyword(keywords, item); ok {
			verdicts[i] = Verdict{Relevant: true, Reason: fmt.Sprintf("matched keyword %q", kw)}
			continue
		}
		undecided = append(undecided, i)
	}

	if len(undecided) == 0 {
		return verdicts
	}

	if f.llm == nil {
		// no second opinion available, keep the items without a reason
		for _, i := range undecided {
			verdicts[i] = Verdict{Relevant: true}
		}
		return verdicts
	}

	f.evaluateBatches(ctx, cat, items, undecided, verdicts)
	return verdicts
}

// evaluateBatches sends undecided items to the LLM in batches and fills in
// their verdicts. Any failure keeps the affected items.
func (f *Filter) evaluateBatches(ctx context.Context, cat domain.Category, items []domain.RawItem, undecided []int, verdicts []Verdict) {
	for start := 0; start < len(undecided); start += f.batchSize {
		end := start + f.batchSize
		if end > len(undecided) {
			end = len(undecided)
		}
		batchIdx := undecided[start:end]

		batch := make([]domain.RawItem, len(batchIdx))
		for i, idx := range batchIdx {
			batch[i] = items[idx]
		}

		results, err := f.llm.Evaluate(ctx, cat, batch)
		if err != nil || len(results) != len(batch) {
			if err != nil {
				lgr.Printf("[WARN] relevance check failed for %q, keeping %d items: %v", cat.Name, len(batch), err)
			} else {
				lgr.Printf("[WARN] relevance check for %q returned %d verdicts for %d items, keeping batch", cat.Name, len(results), len(batch))
			}
			for _, idx := range batchIdx {
				verdicts[idx] = Verdict{Relevant: true}
			}
			continue
		}

		for i, idx := range batchIdx {
			verdicts[idx] = results[i]
		}
	}
}

// normalizeKeywords lowercases and drops empty entries
func normalizeKeywords(keywords []string) []string {
	res := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			res = append(res, kw)
		}
	}
	return res
}

// matchKeyword reports the first keyword present in the item's title or body
func matchKeyword(keywords []string, item domain.RawItem) (string, bool) {
	text := strings.ToLower(item.Title + " " + item.Body)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}
