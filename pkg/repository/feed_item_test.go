package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybriefings/briefings/pkg/domain"
)

func testItem(key string) domain.FeedItem {
	return domain.FeedItem{
		DedupKey:    key,
		Title:       "Test Item " + key,
		Summary:     "summary for " + key,
		URL:         "https://example.com/" + key,
		Source:      "Test Source",
		Category:    "Technology",
		IsRelevant:  true,
		IsProcessed: true,
	}
}

func TestFeedItemRepository_UpsertBatch(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	t.Run("create new items", func(t *testing.T) {
		items := []domain.FeedItem{testItem("a"), testItem("b"), testItem("c")}

		summary, err := repos.FeedItem.UpsertBatch(ctx, items)
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Created)
		assert.Zero(t, summary.Updated)
		assert.Zero(t, summary.Skipped)
	})

	t.Run("identical batch is all skips", func(t *testing.T) {
		items := []domain.FeedItem{testItem("a"), testItem("b"), testItem("c")}

		summary, err := repos.FeedItem.UpsertBatch(ctx, items)
		require.NoError(t, err)
		assert.Zero(t, summary.Created)
		assert.Zero(t, summary.Updated)
		assert.Equal(t, 3, summary.Skipped)
	})

	t.Run("changed summary is an update", func(t *testing.T) {
		item := testItem("a")
		item.Summary = "fresh summary"

		summary, err := repos.FeedItem.UpsertBatch(ctx, []domain.FeedItem{item})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)

		stored, err := repos.FeedItem.GetByDedupKey(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "fresh summary", stored.Summary)
	})

	t.Run("empty summary never clears the stored one", func(t *testing.T) {
		item := testItem("a")
		item.Summary = ""

		summary, err := repos.FeedItem.UpsertBatch(ctx, []domain.FeedItem{item})
		require.NoError(t, err)
		assert.Zero(t, summary.Updated)

		stored, err := repos.FeedItem.GetByDedupKey(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "fresh summary", stored.Summary)
	})

	t.Run("relevance flip is an update", func(t *testing.T) {
		item := testItem("b")
		item.IsRelevant = false
		item.RelevanceReason = "off topic"

		summary, err := repos.FeedItem.UpsertBatch(ctx, []domain.FeedItem{item})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)

		stored, err := repos.FeedItem.GetByDedupKey(ctx, "b")
		require.NoError(t, err)
		assert.False(t, stored.IsRelevant)
		assert.Equal(t, "off topic", stored.RelevanceReason)
	})

	t.Run("empty batch", func(t *testing.T) {
		summary, err := repos.FeedItem.UpsertBatch(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.WriteSummary{}, summary)
	})
}

func TestFeedItemRepository_DedupIdempotence(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	items := make([]domain.FeedItem, 5)
	for i := range items {
		items[i] = testItem(fmt.Sprintf("item-%d", i))
	}

	first, err := repos.FeedItem.UpsertBatch(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Created)

	// identical input the second time produces zero additional rows
	second, err := repos.FeedItem.UpsertBatch(ctx, items)
	require.NoError(t, err)
	assert.Zero(t, second.Created)

	count, err := repos.FeedItem.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestFeedItemRepository_ConcurrentUpsert(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	items := []domain.FeedItem{testItem("race-1"), testItem("race-2")}

	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := repos.FeedItem.UpsertBatch(ctx, items)
			done <- err
		}()
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, <-done)
	}

	count, err := repos.FeedItem.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "dedup key uniqueness must hold under concurrent writes")
}

func TestFeedItemRepository_GetItems(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	now := time.Now().UTC()
	old := now.Add(-48 * time.Hour)

	items := []domain.FeedItem{
		{DedupKey: "t1", Title: "tech one", Source: "Reddit r/programming", Category: "Technology", IsRelevant: true, Published: &now},
		{DedupKey: "t2", Title: "tech two", Source: "Perplexity AI", Category: "Technology", IsRelevant: false, RelevanceReason: "off topic", Published: &old},
		{DedupKey: "s1", Title: "sports one", Source: "Reddit r/soccer", Category: "Sports", IsRelevant: true, Published: &now},
	}
	_, err := repos.FeedItem.UpsertBatch(ctx, items)
	require.NoError(t, err)

	t.Run("by category", func(t *testing.T) {
		got, err := repos.FeedItem.GetItems(ctx, domain.FeedQuery{Category: "Technology"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("relevant only", func(t *testing.T) {
		got, err := repos.FeedItem.GetItems(ctx, domain.FeedQuery{Category: "Technology", RelevantOnly: true})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "tech one", got[0].Title)
	})

	t.Run("by source", func(t *testing.T) {
		got, err := repos.FeedItem.GetItems(ctx, domain.FeedQuery{Source: "Perplexity AI"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "tech two", got[0].Title)
	})

	t.Run("since cutoff", func(t *testing.T) {
		got, err := repos.FeedItem.GetItems(ctx, domain.FeedQuery{Since: now.Add(-time.Hour)})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := repos.FeedItem.GetItems(ctx, domain.FeedQuery{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("newest first", func(t *testing.T) {
		got, err := repos.FeedItem.GetItems(ctx, domain.FeedQuery{Category: "Technology"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "tech one", got[0].Title)
	})
}

func TestFeedItemRepository_Counts(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	items := []domain.FeedItem{
		{DedupKey: "c1", Title: "one", Source: "Reddit r/golang", Category: "Tech", IsRelevant: true},
		{DedupKey: "c2", Title: "two", Source: "Reddit r/golang", Category: "Tech", IsRelevant: true},
		{DedupKey: "c3", Title: "three", Source: "Perplexity AI", Category: "Tech", IsRelevant: true},
	}
	_, err := repos.FeedItem.UpsertBatch(ctx, items)
	require.NoError(t, err)

	total, err := repos.FeedItem.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	bySource, err := repos.FeedItem.CountBySource(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Reddit r/golang": 2, "Perplexity AI": 1}, bySource)
}

func TestFeedItemRepository_RawDataRoundTrip(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	item := testItem("raw")
	item.Raw = map[string]any{"subreddit": "golang", "score": float64(42)}

	_, err := repos.FeedItem.UpsertBatch(ctx, []domain.FeedItem{item})
	require.NoError(t, err)

	stored, err := repos.FeedItem.GetByDedupKey(ctx, "raw")
	require.NoError(t, err)
	assert.Equal(t, "golang", stored.Raw["subreddit"])
	assert.Equal(t, float64(42), stored.Raw["score"])
}
