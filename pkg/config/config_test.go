package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig drops YAML into a temp file and returns its path
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9090"
  timeout: 45s

database:
  dsn: "file:test.db"

schedule:
  workers: 4
  interval: 30m

sources:
  perplexity:
    enabled: true
    api_key: "pk-test"
  reddit:
    enabled: true
    posts_per_sub: 5
  rss:
    enabled: true
    feeds:
      - name: "Example Blog"
        url: "https://blog.example.com/rss"

filter:
  llm:
    enabled: true
    endpoint: "http://localhost:11434/v1"
    model: "llama3"
  dedup_lookback: 48h

categories:
  - name: "Technology"
    keywords: ["ai", "golang"]
    subreddits: ["golang"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.Equal(t, 4, cfg.Schedule.Workers)
	assert.Equal(t, 30*time.Minute, cfg.Schedule.Interval)

	assert.True(t, cfg.Sources.Perplexity.Enabled)
	assert.Equal(t, "pk-test", cfg.Sources.Perplexity.APIKey)
	assert.Equal(t, 5, cfg.Sources.Reddit.PostsPerSub)
	require.Len(t, cfg.Sources.RSS.Feeds, 1)
	assert.Equal(t, "https://blog.example.com/rss", cfg.Sources.RSS.Feeds[0].URL)

	assert.True(t, cfg.Filter.LLM.Enabled)
	assert.Equal(t, "llama3", cfg.Filter.LLM.Model)
	assert.Equal(t, 48*time.Hour, cfg.Filter.DedupLookback)

	require.Len(t, cfg.Categories, 1)
	assert.Equal(t, "Technology", cfg.Categories[0].Name)
	assert.Equal(t, []string{"ai", "golang"}, cfg.Categories[0].Keywords)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2, cfg.Schedule.Workers)
	assert.Equal(t, 64, cfg.Schedule.QueueSize)
	assert.Zero(t, cfg.Schedule.Interval, "periodic runs are off by default")

	assert.Equal(t, "https://api.perplexity.ai", cfg.Sources.Perplexity.Endpoint)
	assert.Equal(t, "sonar", cfg.Sources.Perplexity.Model)
	assert.Equal(t, 24*time.Hour, cfg.Sources.Perplexity.CacheTTL)
	assert.Equal(t, 10, cfg.Sources.Perplexity.RateLimit)

	assert.Equal(t, "https://www.reddit.com", cfg.Sources.Reddit.BaseURL)
	assert.Equal(t, "Briefings/1.0", cfg.Sources.Reddit.UserAgent)
	assert.Equal(t, 3, cfg.Sources.Reddit.PostsPerSub)
	assert.Equal(t, "day", cfg.Sources.Reddit.TimeFilter)
	assert.Equal(t, 60, cfg.Sources.Reddit.RateLimit)

	assert.Equal(t, 20, cfg.Sources.RSS.MaxPerFeed)
	assert.Equal(t, 15*time.Minute, cfg.Sources.RSS.CacheTTL)

	assert.Equal(t, 10, cfg.Filter.LLM.BatchSize)
	assert.Equal(t, 72*time.Hour, cfg.Filter.DedupLookback)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_PERPLEXITY_KEY", "pk-from-env")

	cfg, err := Load(writeConfig(t, `
sources:
  perplexity:
    enabled: true
    api_key: "${TEST_PERPLEXITY_KEY}"
`))
	require.NoError(t, err)
	assert.Equal(t, "pk-from-env", cfg.Sources.Perplexity.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yml  string
		err  string
	}{
		{
			name: "enabled perplexity without key",
			yml:  "sources:\n  perplexity:\n    enabled: true\n",
			err:  "api_key is required",
		},
		{
			name: "enabled rss without feeds",
			yml:  "sources:\n  rss:\n    enabled: true\n",
			err:  "feeds must not be empty",
		},
		{
			name: "rss feed without url",
			yml:  "sources:\n  rss:\n    enabled: true\n    feeds:\n      - name: broken\n",
			err:  `entry "broken" has no url`,
		},
		{
			name: "enabled llm without endpoint",
			yml:  "filter:\n  llm:\n    enabled: true\n    model: llama3\n",
			err:  "llm.endpoint is required",
		},
		{
			name: "enabled llm without model",
			yml:  "filter:\n  llm:\n    enabled: true\n    endpoint: http://localhost:11434\n",
			err:  "llm.model is required",
		},
		{
			name: "category without name",
			yml:  "categories:\n  - keywords: [ai]\n",
			err:  "categories[0] has no name",
		},
		{
			name: "category name too long",
			yml:  "categories:\n  - name: \"" + strings.Repeat("x", 141) + "\"\n",
			err:  "exceeds 140 characters",
		},
		{
			name: "sub-second server timeout",
			yml:  "server:\n  timeout: 100ms\n",
			err:  "at least 1 second",
		},
		{
			name: "broken yaml",
			yml:  "server: [",
			err:  "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestConfig_GetServerConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  listen: \":7070\"\n  timeout: 20s\n"))
	require.NoError(t, err)

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":7070", listen)
	assert.Equal(t, 20*time.Second, timeout)
}
