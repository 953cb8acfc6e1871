package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybriefings/briefings/pkg/domain"
)

func TestSourceRepository_Ensure(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	src := &domain.DataSource{
		Name:               "reddit",
		DisplayName:        "Reddit",
		BaseURL:            "https://www.reddit.com",
		RateLimitPerMinute: 60,
		IsActive:           true,
	}
	require.NoError(t, repos.Source.Ensure(ctx, src))

	stored, err := repos.Source.GetByName(ctx, "reddit")
	require.NoError(t, err)
	assert.Equal(t, "Reddit", stored.DisplayName)
	assert.Equal(t, 60, stored.RateLimitPerMinute)
	assert.True(t, stored.IsActive)

	t.Run("re-seeding keeps admin state", func(t *testing.T) {
		// admin disables the source, then the app restarts and seeds again
		_, err := repos.Source.Toggle(ctx, "reddit")
		require.NoError(t, err)

		require.NoError(t, repos.Source.Ensure(ctx, src))

		stored, err := repos.Source.GetByName(ctx, "reddit")
		require.NoError(t, err)
		assert.False(t, stored.IsActive, "seed must not overwrite the disabled flag")
	})
}

func TestSourceRepository_Toggle(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	src := &domain.DataSource{Name: "rss", DisplayName: "RSS Feeds", RateLimitPerMinute: 60, IsActive: true}
	require.NoError(t, repos.Source.Ensure(ctx, src))

	active, err := repos.Source.Toggle(ctx, "rss")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = repos.Source.Toggle(ctx, "rss")
	require.NoError(t, err)
	assert.True(t, active)

	t.Run("unknown source", func(t *testing.T) {
		_, err := repos.Source.Toggle(ctx, "nope")
		require.Error(t, err)
	})
}

func TestSourceRepository_List(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	for _, name := range []string{"perplexity", "reddit", "rss"} {
		require.NoError(t, repos.Source.Ensure(ctx, &domain.DataSource{Name: name, DisplayName: name, RateLimitPerMinute: 10, IsActive: true}))
	}

	sources, err := repos.Source.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 3)
}

func TestSourceRepository_UpdateLastUsed(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Source.Ensure(ctx, &domain.DataSource{Name: "perplexity", DisplayName: "Perplexity AI", RateLimitPerMinute: 10, IsActive: true}))

	usedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repos.Source.UpdateLastUsed(ctx, "perplexity", usedAt))

	stored, err := repos.Source.GetByName(ctx, "perplexity")
	require.NoError(t, err)
	require.NotNil(t, stored.LastUsedAt)
	assert.Equal(t, usedAt, stored.LastUsedAt.UTC())
}
