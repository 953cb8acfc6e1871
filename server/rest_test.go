package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybriefings/briefings/pkg/domain"
	"github.com/mybriefings/briefings/pkg/scheduler"
	"github.com/mybriefings/briefings/server/mocks"
)

// testServer builds a server over the given mocks with sane defaults for the
// rest, and returns it with its HTTP test host
func testServer(t *testing.T, mutate func(s *Server)) *httptest.Server {
	t.Helper()

	srv := New(
		&mocks.ConfigProviderMock{GetServerConfigFunc: func() (string, time.Duration) { return "127.0.0.1:0", time.Minute }},
		&mocks.TriggerMock{
			TriggerFunc: func(_ context.Context, _ scheduler.TriggerRequest) (int64, error) { return 1, nil },
		},
		&mocks.FeedStoreMock{},
		&mocks.SourceStoreMock{},
		&mocks.HistoryStoreMock{},
		&mocks.JobStatsMock{},
		"test", false,
	)
	if mutate != nil {
		mutate(srv)
	}

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_Ping(t *testing.T) {
	ts := testServer(t, nil)

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "test", resp.Header.Get("App-Version"))
}

func TestServer_Ingest(t *testing.T) {
	trigger := &mocks.TriggerMock{
		TriggerFunc: func(_ context.Context, req scheduler.TriggerRequest) (int64, error) {
			switch req.Source {
			case "telegram":
				return 0, fmt.Errorf(`unknown source "telegram"`)
			case "busy":
				return 0, scheduler.ErrQueueFull
			}
			return 42, nil
		},
	}
	ts := testServer(t, func(s *Server) { s.trigger = trigger })

	t.Run("accepted without body", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/v1/ingest/rss", "application/json", http.NoBody)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		var body map[string]int64
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(42), body["job_id"])
	})

	t.Run("categories passed through", func(t *testing.T) {
		payload := `{"user_id": "u-1", "categories": [{"name": "Tech", "keywords": ["ai"], "subreddits": ["golang"]}]}`
		resp, err := http.Post(ts.URL+"/api/v1/ingest/all", "application/json", strings.NewReader(payload))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		calls := trigger.TriggerCalls()
		last := calls[len(calls)-1].Req
		assert.Equal(t, "all", last.Source)
		assert.Equal(t, "u-1", last.UserID)
		require.Len(t, last.Categories, 1)
		assert.Equal(t, "Tech", last.Categories[0].Name)
		assert.Equal(t, []string{"ai"}, last.Categories[0].Keywords)
		assert.Equal(t, []string{"golang"}, last.Categories[0].Subreddits)
	})

	t.Run("bad json rejected", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/v1/ingest/rss", "application/json", strings.NewReader("{broken"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("nameless category rejected", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/v1/ingest/rss", "application/json",
			strings.NewReader(`{"categories": [{"keywords": ["ai"]}]}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown source rejected", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/v1/ingest/telegram", "application/json", http.NoBody)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("queue full maps to 503", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/v1/ingest/busy", "application/json", http.NoBody)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestServer_GetJob(t *testing.T) {
	started := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	trigger := &mocks.TriggerMock{
		GetJobFunc: func(_ context.Context, id int64) (*domain.IngestionJob, error) {
			if id != 7 {
				return nil, fmt.Errorf("not found")
			}
			return &domain.IngestionJob{
				ID: 7, Type: "rss", Status: domain.JobCompleted,
				StartedAt: &started, ItemsProcessed: 5, ItemsCreated: 3,
			}, nil
		},
	}
	ts := testServer(t, func(s *Server) { s.trigger = trigger })

	t.Run("found", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/jobs/7")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var job jobInfo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&job))
		assert.Equal(t, int64(7), job.ID)
		assert.Equal(t, "completed", job.Status)
		assert.Equal(t, 5, job.ItemsProcessed)
		assert.Equal(t, 3, job.ItemsCreated)
	})

	t.Run("missing is 404", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/jobs/99")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad id is 400", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/jobs/abc")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_ListJobs(t *testing.T) {
	trigger := &mocks.TriggerMock{
		ListJobsFunc: func(_ context.Context, status string, limit int) ([]domain.IngestionJob, error) {
			assert.Equal(t, "failed", status)
			assert.Equal(t, 5, limit)
			return []domain.IngestionJob{{ID: 1, Status: domain.JobFailed}, {ID: 2, Status: domain.JobFailed}}, nil
		},
	}
	ts := testServer(t, func(s *Server) { s.trigger = trigger })

	resp, err := http.Get(ts.URL + "/api/v1/jobs?status=failed&limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var jobs []jobInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&jobs))
	assert.Len(t, jobs, 2)
}

func TestServer_Feed(t *testing.T) {
	pub := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	feed := &mocks.FeedStoreMock{
		GetItemsFunc: func(_ context.Context, q domain.FeedQuery) ([]domain.FeedItem, error) {
			return []domain.FeedItem{{
				ID: 1, Title: "AI news", Source: "Perplexity AI", Category: "Technology",
				Published: &pub, IsRelevant: true, RelevanceReason: `matched keyword "ai"`,
			}}, nil
		},
	}
	ts := testServer(t, func(s *Server) { s.feed = feed })

	t.Run("defaults to relevant only", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/feed?category=Technology&source=rss&limit=10")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var items []feedItemInfo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		require.Len(t, items, 1)
		assert.Equal(t, "AI news", items[0].Title)

		q := feed.GetItemsCalls()[len(feed.GetItemsCalls())-1].Q
		assert.Equal(t, "Technology", q.Category)
		assert.Equal(t, "rss", q.Source)
		assert.Equal(t, 10, q.Limit)
		assert.True(t, q.RelevantOnly)
	})

	t.Run("all=true includes filtered-out items", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/feed?all=true")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		q := feed.GetItemsCalls()[len(feed.GetItemsCalls())-1].Q
		assert.False(t, q.RelevantOnly)
	})

	t.Run("since parsed as RFC3339", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/feed?since=2026-08-29T00:00:00Z")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		q := feed.GetItemsCalls()[len(feed.GetItemsCalls())-1].Q
		assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), q.Since)
	})

	t.Run("bad since is 400", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/feed?since=yesterday")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bad limit falls back to default", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/feed?limit=banana")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		q := feed.GetItemsCalls()[len(feed.GetItemsCalls())-1].Q
		assert.Equal(t, 50, q.Limit)
	})
}

func TestServer_Sources(t *testing.T) {
	used := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	sources := &mocks.SourceStoreMock{
		ListFunc: func(_ context.Context) ([]domain.DataSource, error) {
			return []domain.DataSource{
				{Name: "rss", DisplayName: "RSS Feeds", RateLimitPerMinute: 60, IsActive: true, LastUsedAt: &used},
				{Name: "reddit", DisplayName: "Reddit", RateLimitPerMinute: 30, IsActive: false},
			}, nil
		},
		ToggleFunc: func(_ context.Context, name string) (bool, error) {
			if name != "rss" {
				return false, fmt.Errorf("no such source")
			}
			return false, nil
		},
	}
	ts := testServer(t, func(s *Server) { s.sources = sources })

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/sources")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got []sourceInfo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 2)
		assert.Equal(t, "rss", got[0].Name)
		assert.True(t, got[0].IsActive)
		assert.NotNil(t, got[0].LastUsedAt)
		assert.False(t, got[1].IsActive)
	})

	t.Run("toggle", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/sources/rss/toggle", http.NoBody)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "rss", body["name"])
		assert.Equal(t, false, body["is_active"])
	})

	t.Run("toggle unknown is 404", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/sources/nope/toggle", http.NoBody)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_History(t *testing.T) {
	history := &mocks.HistoryStoreMock{
		RecentFunc: func(_ context.Context, source string, limit int) ([]domain.CallRecord, error) {
			assert.Equal(t, "reddit", source)
			assert.Equal(t, 100, limit, "default limit")
			return []domain.CallRecord{
				{ID: 2, Request: "r/golang", Outcome: domain.OutcomeSuccess, ItemsFound: 10, StatusCode: 200},
				{ID: 1, Request: "r/golang", Outcome: domain.OutcomeError, ErrorMessage: "unexpected status code: 500"},
			}, nil
		},
	}
	ts := testServer(t, func(s *Server) { s.history = history })

	resp, err := http.Get(ts.URL + "/api/v1/history/reddit")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var recs []callRecordInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "success", recs[0].Outcome)
	assert.Equal(t, "error", recs[1].Outcome)
	assert.Equal(t, "unexpected status code: 500", recs[1].ErrorMessage)
}

func TestServer_Stats(t *testing.T) {
	feed := &mocks.FeedStoreMock{
		CountItemsFunc: func(_ context.Context) (int, error) { return 12, nil },
		CountBySourceFunc: func(_ context.Context) (map[string]int, error) {
			return map[string]int{"rss": 7, "reddit": 5}, nil
		},
	}
	jobs := &mocks.JobStatsMock{
		CountByStatusFunc: func(_ context.Context) (map[string]int, error) {
			return map[string]int{"completed": 3, "failed": 1}, nil
		},
	}
	ts := testServer(t, func(s *Server) { s.feed = feed; s.jobs = jobs })

	resp, err := http.Get(ts.URL + "/api/v1/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		FeedItems int            `json:"feed_items"`
		BySource  map[string]int `json:"by_source"`
		Jobs      map[string]int `json:"jobs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 12, body.FeedItems)
	assert.Equal(t, 7, body.BySource["rss"])
	assert.Equal(t, 3, body.Jobs["completed"])
}
