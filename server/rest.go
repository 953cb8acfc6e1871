package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mybriefings/briefings/pkg/domain"
	"github.com/mybriefings/briefings/pkg/scheduler"
)

// ingestRequest is the POST /ingest body
type ingestRequest struct {
	UserID     string            `json:"user_id,omitempty"`
	Categories []categoryPayload `json:"categories,omitempty"`
}

// categoryPayload carries one category definition with a trigger
type categoryPayload struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	PreferredSources []string `json:"preferred_sources,omitempty"`
	Subreddits       []string `json:"subreddits,omitempty"`
}

// jobInfo is the job representation returned by the API
type jobInfo struct {
	ID             int64          `json:"id"`
	Type           string         `json:"type"`
	Status         string         `json:"status"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	Parameters     map[string]any `json:"parameters,omitempty"`
	ItemsProcessed int            `json:"items_processed"`
	ItemsCreated   int            `json:"items_created"`
	ItemsUpdated   int            `json:"items_updated"`
	CreatedAt      time.Time      `json:"created_at"`
}

// feedItemInfo is the feed item representation returned by the API
type feedItemInfo struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Summary         string     `json:"summary,omitempty"`
	URL             string     `json:"url,omitempty"`
	Source          string     `json:"source"`
	Category        string     `json:"category"`
	Published       *time.Time `json:"published_at,omitempty"`
	IsRelevant      bool       `json:"is_relevant"`
	RelevanceReason string     `json:"relevance_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// sourceInfo is the data source representation returned by the API
type sourceInfo struct {
	Name               string     `json:"name"`
	DisplayName        string     `json:"display_name"`
	RateLimitPerMinute int        `json:"rate_limit_per_minute"`
	IsActive           bool       `json:"is_active"`
	LastUsedAt         *time.Time `json:"last_used_at,omitempty"`
}

// callRecordInfo is the call history representation returned by the API
type callRecordInfo struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Request      string    `json:"request"`
	StatusCode   int       `json:"status_code,omitempty"`
	ItemsFound   int       `json:"items_found"`
	ItemsSaved   int       `json:"items_saved"`
	Outcome      string    `json:"outcome"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// ingestHandler triggers an ingestion job and returns its ID
func (s *Server) ingestHandler(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")

	var req ingestRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RenderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
			return
		}
	}

	cats := make([]domain.Category, 0, len(req.Categories))
	for _, c := range req.Categories {
		if c.Name == "" {
			RenderError(w, r, fmt.Errorf("category without a name"), http.StatusBadRequest)
			return
		}
		cats = append(cats, domain.Category{
			Name:             c.Name,
			Description:      c.Description,
			Keywords:         c.Keywords,
			PreferredSources: c.PreferredSources,
			Subreddits:       c.Subreddits,
		})
	}

	jobID, err := s.trigger.Trigger(r.Context(), scheduler.TriggerRequest{
		Source:     source,
		UserID:     req.UserID,
		Categories: cats,
	})
	if err != nil {
		if errors.Is(err, scheduler.ErrQueueFull) {
			RenderError(w, r, err, http.StatusServiceUnavailable)
			return
		}
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	RenderJSON(w, r, http.StatusAccepted, map[string]int64{"job_id": jobID})
}

// jobHandler returns one job by ID
func (s *Server) jobHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid job id"), http.StatusBadRequest)
		return
	}

	job, err := s.trigger.GetJob(r.Context(), id)
	if err != nil {
		RenderError(w, r, fmt.Errorf("job %d not found", id), http.StatusNotFound)
		return
	}

	RenderJSON(w, r, http.StatusOK, toJobInfo(job))
}

// jobsHandler lists recent jobs, optionally filtered by status
func (s *Server) jobsHandler(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	limit := queryInt(r, "limit", 50)

	jobs, err := s.trigger.ListJobs(r.Context(), status, limit)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	res := make([]jobInfo, len(jobs))
	for i := range jobs {
		res[i] = toJobInfo(&jobs[i])
	}
	RenderJSON(w, r, http.StatusOK, res)
}

// feedHandler returns feed items filtered by category, source, and recency.
// Only relevant items are returned unless all=true.
func (s *Server) feedHandler(w http.ResponseWriter, r *http.Request) {
	q := domain.FeedQuery{
		Category:     r.URL.Query().Get("category"),
		Source:       r.URL.Query().Get("source"),
		Limit:        queryInt(r, "limit", 50),
		RelevantOnly: r.URL.Query().Get("all") != "true",
	}

	if since := r.URL.Query().Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			RenderError(w, r, fmt.Errorf("invalid since timestamp, expect RFC3339"), http.StatusBadRequest)
			return
		}
		q.Since = t
	}

	items, err := s.feed.GetItems(r.Context(), q)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	res := make([]feedItemInfo, len(items))
	for i, it := range items {
		res[i] = feedItemInfo{
			ID:              it.ID,
			Title:           it.Title,
			Summary:         it.Summary,
			URL:             it.URL,
			Source:          it.Source,
			Category:        it.Category,
			Published:       it.Published,
			IsRelevant:      it.IsRelevant,
			RelevanceReason: it.RelevanceReason,
			CreatedAt:       it.CreatedAt,
		}
	}
	RenderJSON(w, r, http.StatusOK, res)
}

// sourcesHandler lists all data sources
func (s *Server) sourcesHandler(w http.ResponseWriter, r *http.Request) {
	sources, err := s.sources.List(r.Context())
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	res := make([]sourceInfo, len(sources))
	for i, src := range sources {
		res[i] = sourceInfo{
			Name:               src.Name,
			DisplayName:        src.DisplayName,
			RateLimitPerMinute: src.RateLimitPerMinute,
			IsActive:           src.IsActive,
			LastUsedAt:         src.LastUsedAt,
		}
	}
	RenderJSON(w, r, http.StatusOK, res)
}

// toggleSourceHandler flips a source's active flag
func (s *Server) toggleSourceHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	active, err := s.sources.Toggle(r.Context(), name)
	if err != nil {
		RenderError(w, r, fmt.Errorf("source %q not found", name), http.StatusNotFound)
		return
	}

	RenderJSON(w, r, http.StatusOK, map[string]any{"name": name, "is_active": active})
}

// historyHandler returns recent call history for one source
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")
	limit := queryInt(r, "limit", 100)

	records, err := s.history.Recent(r.Context(), source, limit)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	res := make([]callRecordInfo, len(records))
	for i, rec := range records {
		res[i] = callRecordInfo{
			ID:           rec.ID,
			Timestamp:    rec.Timestamp,
			Request:      rec.Request,
			StatusCode:   rec.StatusCode,
			ItemsFound:   rec.ItemsFound,
			ItemsSaved:   rec.ItemsSaved,
			Outcome:      string(rec.Outcome),
			ErrorMessage: rec.ErrorMessage,
		}
	}
	RenderJSON(w, r, http.StatusOK, res)
}

// statsHandler reports feed and job counters
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	total, err := s.feed.CountItems(r.Context())
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	bySource, err := s.feed.CountBySource(r.Context())
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	jobCounts, err := s.jobs.CountByStatus(r.Context())
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusOK, map[string]any{
		"feed_items": total,
		"by_source":  bySource,
		"jobs":       jobCounts,
	})
}

// toJobInfo maps a domain job to its API representation
func toJobInfo(job *domain.IngestionJob) jobInfo {
	return jobInfo{
		ID:             job.ID,
		Type:           job.Type,
		Status:         string(job.Status),
		StartedAt:      job.StartedAt,
		CompletedAt:    job.CompletedAt,
		ErrorMessage:   job.ErrorMessage,
		Parameters:     job.Parameters,
		ItemsProcessed: job.ItemsProcessed,
		ItemsCreated:   job.ItemsCreated,
		ItemsUpdated:   job.ItemsUpdated,
		CreatedAt:      job.CreatedAt,
	}
}

// queryInt parses an integer query parameter with a default
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
