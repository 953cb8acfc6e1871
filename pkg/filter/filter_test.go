package filter

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybriefings/briefings/pkg/domain"
)

// evaluatorFunc adapts a function to the Evaluator interface
type evaluatorFunc func(ctx context.Context, cat domain.Category, items []domain.RawItem) ([]Verdict, error)

func (f evaluatorFunc) Evaluate(ctx context.Context, cat domain.Category, items []domain.RawItem) ([]Verdict, error) {
	return f(ctx, cat, items)
}

func rawItems(titles ...string) []domain.RawItem {
	items := make([]domain.RawItem, len(titles))
	for i, title := range titles {
		items[i] = domain.RawItem{Title: title, SourceLabel: "Test"}
	}
	return items
}

func TestFilter_Apply_NoKeywords(t *testing.T) {
	f := New(nil, 10)
	cat := domain.Category{Name: "Everything"}

	items := rawItems("one", "two", "three")
	verdicts := f.Apply(context.Background(), cat, items)

	require.Len(t, verdicts, 3)
	for _, v := range verdicts {
		assert.True(t, v.Relevant, "category without keywords takes everything")
		assert.Empty(t, v.Reason, "default-allow carries no reason")
	}
}

func TestFilter_Apply_KeywordMatch(t *testing.T) {
	f := New(nil, 10)
	cat := domain.Category{Name: "Technology", Keywords: []string{"AI", "software"}}

	items := []domain.RawItem{
		{Title: "New AI breakthrough announced"},
		{Title: "Local bakery wins award"},
		{Title: "nothing in title", Body: "the software industry grew again"},
	}
	verdicts := f.Apply(context.Background(), cat, items)

	require.Len(t, verdicts, 3)
	assert.True(t, verdicts[0].Relevant)
	assert.Equal(t, `matched keyword "ai"`, verdicts[0].Reason)
	// no LLM configured, unmatched items are kept without a reason
	assert.True(t, verdicts[1].Relevant)
	assert.Empty(t, verdicts[1].Reason)
	// body matches count too
	assert.True(t, verdicts[2].Relevant)
	assert.Equal(t, `matched keyword "software"`, verdicts[2].Reason)
}

func TestFilter_Apply_LLMDecides(t *testing.T) {
	llm := evaluatorFunc(func(_ context.Context, _ domain.Category, items []domain.RawItem) ([]Verdict, error) {
		verdicts := make([]Verdict, len(items))
		for i := range items {
			verdicts[i] = Verdict{Relevant: false, Reason: "off topic"}
		}
		return verdicts, nil
	})
	f := New(llm, 10)
	cat := domain.Category{Name: "Technology", Keywords: []string{"golang"}}

	items := rawItems("golang 1.24 released", "pasta recipes", "garden tips")
	verdicts := f.Apply(context.Background(), cat, items)

	require.Len(t, verdicts, 3)
	assert.True(t, verdicts[0].Relevant, "keyword match bypasses the LLM")
	assert.False(t, verdicts[1].Relevant)
	assert.Equal(t, "off topic", verdicts[1].Reason)
	assert.False(t, verdicts[2].Relevant)
}

func TestFilter_Apply_LLMFailureKeepsItems(t *testing.T) {
	llm := evaluatorFunc(func(context.Context, domain.Category, []domain.RawItem) ([]Verdict, error) {
		return nil, fmt.Errorf("provider down")
	})
	f := New(llm, 10)
	cat := domain.Category{Name: "Technology", Keywords: []string{"golang"}}

	verdicts := f.Apply(context.Background(), cat, rawItems("pasta recipes"))

	require.Len(t, verdicts, 1)
	assert.True(t, verdicts[0].Relevant, "filter fails open")
	assert.Empty(t, verdicts[0].Reason)
}

func TestFilter_Apply_LLMShortAnswerKeepsBatch(t *testing.T) {
	llm := evaluatorFunc(func(_ context.Context, _ domain.Category, items []domain.RawItem) ([]Verdict, error) {
		return []Verdict{{Relevant: false}}, nil // wrong length
	})
	f := New(llm, 10)
	cat := domain.Category{Name: "Tech", Keywords: []string{"golang"}}

	verdicts := f.Apply(context.Background(), cat, rawItems("pasta", "gardens"))

	require.Len(t, verdicts, 2)
	assert.True(t, verdicts[0].Relevant)
	assert.True(t, verdicts[1].Relevant)
}

func TestFilter_Apply_Batching(t *testing.T) {
	var batches [][]domain.RawItem
	llm := evaluatorFunc(func(_ context.Context, _ domain.Category, items []domain.RawItem) ([]Verdict, error) {
		batches = append(batches, items)
		verdicts := make([]Verdict, len(items))
		for i := range verdicts {
			verdicts[i] = Verdict{Relevant: true, Reason: "fits"}
		}
		return verdicts, nil
	})
	f := New(llm, 2)
	cat := domain.Category{Name: "Tech", Keywords: []string{"golang"}}

	verdicts := f.Apply(context.Background(), cat, rawItems("a good long title", "another title", "third title", "fourth title", "fifth title"))

	require.Len(t, verdicts, 5)
	require.Len(t, batches, 3, "5 undecided items in batches of 2")
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	assert.Len(t, batches[2], 1)
}

func TestFilter_Apply_EmptyInput(t *testing.T) {
	f := New(nil, 10)
	verdicts := f.Apply(context.Background(), domain.Category{Name: "Tech", Keywords: []string{"x"}}, nil)
	assert.Empty(t, verdicts)
}
