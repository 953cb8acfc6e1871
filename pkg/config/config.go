package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"server"`

	Database struct {
		DSN             string `yaml:"dsn"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
	} `yaml:"database"`

	Schedule struct {
		Workers   int           `yaml:"workers"`
		QueueSize int           `yaml:"queue_size"`
		Interval  time.Duration `yaml:"interval"` // 0 disables periodic global runs
	} `yaml:"schedule"`

	Sources struct {
		Perplexity PerplexityConfig `yaml:"perplexity"`
		Reddit     RedditConfig     `yaml:"reddit"`
		RSS        RSSConfig        `yaml:"rss"`
	} `yaml:"sources"`

	Filter FilterConfig `yaml:"filter"`

	// Categories are the standing interest categories used for scheduled
	// global runs and as the default set when a trigger names none
	Categories []CategoryConfig `yaml:"categories"`
}

// CategoryConfig is one configured interest category
type CategoryConfig struct {
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	Keywords         []string `yaml:"keywords"`
	PreferredSources []string `yaml:"preferred_sources"`
	Subreddits       []string `yaml:"subreddits"`
}

// PerplexityConfig holds settings for the AI answer source
type PerplexityConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Endpoint    string        `yaml:"endpoint"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	RateLimit   int           `yaml:"rate_limit"` // calls per minute
}

// RedditConfig holds settings for the community forum source
type RedditConfig struct {
	Enabled      bool          `yaml:"enabled"`
	BaseURL      string        `yaml:"base_url"`
	UserAgent    string        `yaml:"user_agent"`
	PostsPerSub  int           `yaml:"posts_per_sub"`
	TimeFilter   string        `yaml:"time_filter"` // hour, day, week
	WithComments bool          `yaml:"with_comments"`
	Timeout      time.Duration `yaml:"timeout"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	RateLimit    int           `yaml:"rate_limit"`
}

// RSSFeed is one feed the social/RSS source monitors
type RSSFeed struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

// RSSConfig holds settings for the RSS/social source
type RSSConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Feeds      []RSSFeed     `yaml:"feeds"`
	MaxPerFeed int           `yaml:"max_per_feed"`
	UserAgent  string        `yaml:"user_agent"`
	Timeout    time.Duration `yaml:"timeout"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	RateLimit  int           `yaml:"rate_limit"`
}

// LLMConfig holds settings for the LLM relevance check
type LLMConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Endpoint    string        `yaml:"endpoint"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	BatchSize   int           `yaml:"batch_size"`
}

// FilterConfig holds relevance filtering settings
type FilterConfig struct {
	LLM           LLMConfig     `yaml:"llm"`
	DedupLookback time.Duration `yaml:"dedup_lookback"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables, secrets come from the environment
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// setDefaults fills zero values with sensible defaults
func setDefaults(cfg *Config) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:briefings.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	if cfg.Schedule.Workers == 0 {
		cfg.Schedule.Workers = 2
	}
	if cfg.Schedule.QueueSize == 0 {
		cfg.Schedule.QueueSize = 64
	}

	if cfg.Sources.Perplexity.Endpoint == "" {
		cfg.Sources.Perplexity.Endpoint = "https://api.perplexity.ai"
	}
	if cfg.Sources.Perplexity.Model == "" {
		cfg.Sources.Perplexity.Model = "sonar"
	}
	if cfg.Sources.Perplexity.Temperature == 0 {
		cfg.Sources.Perplexity.Temperature = 0.7
	}
	if cfg.Sources.Perplexity.MaxTokens == 0 {
		cfg.Sources.Perplexity.MaxTokens = 1000
	}
	if cfg.Sources.Perplexity.Timeout == 0 {
		cfg.Sources.Perplexity.Timeout = 30 * time.Second
	}
	if cfg.Sources.Perplexity.CacheTTL == 0 {
		cfg.Sources.Perplexity.CacheTTL = 24 * time.Hour
	}
	if cfg.Sources.Perplexity.RateLimit == 0 {
		cfg.Sources.Perplexity.RateLimit = 10
	}

	if cfg.Sources.Reddit.BaseURL == "" {
		cfg.Sources.Reddit.BaseURL = "https://www.reddit.com"
	}
	if cfg.Sources.Reddit.UserAgent == "" {
		cfg.Sources.Reddit.UserAgent = "Briefings/1.0"
	}
	if cfg.Sources.Reddit.PostsPerSub == 0 {
		cfg.Sources.Reddit.PostsPerSub = 3
	}
	if cfg.Sources.Reddit.TimeFilter == "" {
		cfg.Sources.Reddit.TimeFilter = "day"
	}
	if cfg.Sources.Reddit.Timeout == 0 {
		cfg.Sources.Reddit.Timeout = 30 * time.Second
	}
	if cfg.Sources.Reddit.CacheTTL == 0 {
		cfg.Sources.Reddit.CacheTTL = 10 * time.Minute
	}
	if cfg.Sources.Reddit.RateLimit == 0 {
		cfg.Sources.Reddit.RateLimit = 60
	}

	if cfg.Sources.RSS.MaxPerFeed == 0 {
		cfg.Sources.RSS.MaxPerFeed = 20
	}
	if cfg.Sources.RSS.UserAgent == "" {
		cfg.Sources.RSS.UserAgent = "Briefings/1.0"
	}
	if cfg.Sources.RSS.Timeout == 0 {
		cfg.Sources.RSS.Timeout = 30 * time.Second
	}
	if cfg.Sources.RSS.CacheTTL == 0 {
		cfg.Sources.RSS.CacheTTL = 15 * time.Minute
	}
	if cfg.Sources.RSS.RateLimit == 0 {
		cfg.Sources.RSS.RateLimit = 60
	}

	if cfg.Filter.LLM.Temperature == 0 {
		cfg.Filter.LLM.Temperature = 0.3
	}
	if cfg.Filter.LLM.MaxTokens == 0 {
		cfg.Filter.LLM.MaxTokens = 1000
	}
	if cfg.Filter.LLM.Timeout == 0 {
		cfg.Filter.LLM.Timeout = 30 * time.Second
	}
	if cfg.Filter.LLM.BatchSize == 0 {
		cfg.Filter.LLM.BatchSize = 10
	}
	if cfg.Filter.DedupLookback == 0 {
		cfg.Filter.DedupLookback = 72 * time.Hour
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Schedule.Workers < 1 {
		return fmt.Errorf("schedule.workers must be at least 1")
	}

	if cfg.Sources.Perplexity.Enabled && cfg.Sources.Perplexity.APIKey == "" {
		return fmt.Errorf("sources.perplexity.api_key is required when the source is enabled")
	}
	if cfg.Sources.RSS.Enabled && len(cfg.Sources.RSS.Feeds) == 0 {
		return fmt.Errorf("sources.rss.feeds must not be empty when the source is enabled")
	}

	if cfg.Filter.LLM.Enabled {
		if cfg.Filter.LLM.Endpoint == "" {
			return fmt.Errorf("filter.llm.endpoint is required when the llm filter is enabled")
		}
		if cfg.Filter.LLM.Model == "" {
			return fmt.Errorf("filter.llm.model is required when the llm filter is enabled")
		}
		if cfg.Filter.LLM.Temperature < 0 || cfg.Filter.LLM.Temperature > 2 {
			return fmt.Errorf("filter.llm.temperature must be between 0 and 2")
		}
		if cfg.Filter.LLM.BatchSize < 1 {
			return fmt.Errorf("filter.llm.batch_size must be at least 1")
		}
	}

	for _, f := range cfg.Sources.RSS.Feeds {
		if f.URL == "" {
			return fmt.Errorf("sources.rss.feeds entry %q has no url", f.Name)
		}
	}

	for i, cat := range cfg.Categories {
		if cat.Name == "" {
			return fmt.Errorf("categories[%d] has no name", i)
		}
		if len(cat.Name) > 140 {
			return fmt.Errorf("category %q name exceeds 140 characters", cat.Name[:20])
		}
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
