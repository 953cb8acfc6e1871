// Package scheduler orchestrates ingestion jobs: it accepts triggers, queues
// them, and runs the fetch-filter-write pipeline on a worker pool.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/mybriefings/briefings/pkg/domain"
	"github.com/mybriefings/briefings/pkg/fetcher"
	"github.com/mybriefings/briefings/pkg/filter"
)

//go:generate moq -out mocks/job_store.go -pkg mocks -skip-ensure -fmt goimports . JobStore
//go:generate moq -out mocks/source_store.go -pkg mocks -skip-ensure -fmt goimports . SourceStore
//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner
//go:generate moq -out mocks/relevance.go -pkg mocks -skip-ensure -fmt goimports . Relevance
//go:generate moq -out mocks/writer.go -pkg mocks -skip-ensure -fmt goimports . Writer

// JobStore persists ingestion jobs
type JobStore interface {
	Create(ctx context.Context, job *domain.IngestionJob) error
	MarkRunning(ctx context.Context, id int64, startedAt time.Time) error
	Complete(ctx context.Context, id int64, processed, created, updated int, completedAt time.Time) error
	Fail(ctx context.Context, id int64, errMsg string, completedAt time.Time) error
	Get(ctx context.Context, id int64) (*domain.IngestionJob, error)
	List(ctx context.Context, status string, limit int) ([]domain.IngestionJob, error)
}

// SourceStore reads and stamps data source records
type SourceStore interface {
	GetByName(ctx context.Context, name string) (*domain.DataSource, error)
	UpdateLastUsed(ctx context.Context, name string, usedAt time.Time) error
}

// Runner fetches raw items from one external provider
type Runner interface {
	Name() string
	Requests(cat domain.Category) []fetcher.Request
	Fetch(ctx context.Context, src *domain.DataSource, req fetcher.Request) ([]domain.RawItem, domain.CallOutcome)
}

// Relevance evaluates fetched items against a category
type Relevance interface {
	Apply(ctx context.Context, cat domain.Category, items []domain.RawItem) []filter.Verdict
}

// Writer persists filtered items as feed rows
type Writer interface {
	Write(ctx context.Context, cat domain.Category, sourceID int64, raw []domain.RawItem, verdicts []filter.Verdict) (domain.WriteSummary, error)
}

// Config holds scheduler configuration
type Config struct {
	Workers   int
	QueueSize int
	Interval  time.Duration // 0 disables periodic global runs
}

// TriggerRequest asks for one ingestion run
type TriggerRequest struct {
	Source     string // runner name or "all"
	UserID     string
	Categories []domain.Category
}

// task is one queued unit of work
type task struct {
	jobID   int64
	runners []Runner
	cats    []domain.Category
}

// Scheduler runs ingestion jobs on a worker pool
type Scheduler struct {
	jobs       JobStore
	sources    SourceStore
	runners    map[string]Runner
	order      []string // runner iteration order for "all"
	relevance  Relevance
	writer     Writer
	defaults   []domain.Category // categories for triggers that name none
	interval   time.Duration
	maxWorkers int

	queue  chan task
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New creates a scheduler. Runner order determines fan-out order for "all"
// triggers.
func New(jobs JobStore, sources SourceStore, runners []Runner, relevance Relevance, writer Writer, defaults []domain.Category, cfg Config) *Scheduler {
	if cfg.Workers == 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 32
	}

	byName := make(map[string]Runner, len(runners))
	order := make([]string, 0, len(runners))
	for _, r := range runners {
		byName[r.Name()] = r
		order = append(order, r.Name())
	}

	return &Scheduler{
		jobs:       jobs,
		sources:    sources,
		runners:    byName,
		order:      order,
		relevance:  relevance,
		writer:     writer,
		defaults:   defaults,
		interval:   cfg.Interval,
		maxWorkers: cfg.Workers,
		queue:      make(chan task, cfg.QueueSize),
	}
}

// Start launches the worker pool and the optional periodic trigger
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	for i := 0; i < s.maxWorkers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}

	if s.interval > 0 {
		s.wg.Add(1)
		go s.periodic(ctx)
	}

	lgr.Printf("[INFO] scheduler started with %d workers, queue size %d, interval %v", s.maxWorkers, cap(s.queue), s.interval)
}

// Stop drains the workers, waits for in-flight jobs and fails anything still
// queued so no job is left pending forever.
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.failQueued()
	lgr.Printf("[INFO] scheduler stopped")
}

// failQueued marks jobs that never left the queue as failed. Runs after the
// workers exit, nothing else reads the channel at this point.
func (s *Scheduler) failQueued() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		select {
		case t := <-s.queue:
			lgr.Printf("[WARN] job %d never started, scheduler is stopping", t.jobID)
			if err := s.jobs.Fail(ctx, t.jobID, "scheduler stopped before job started", time.Now().UTC()); err != nil {
				lgr.Printf("[ERROR] failed to fail queued job %d: %v", t.jobID, err)
			}
		default:
			return
		}
	}
}

// ErrQueueFull is returned when the job queue cannot take another trigger
var ErrQueueFull = fmt.Errorf("job queue is full")

// Trigger creates a job for the request and enqueues it. Returns the job ID
// immediately; the pipeline runs on the worker pool.
func (s *Scheduler) Trigger(ctx context.Context, req TriggerRequest) (int64, error) {
	runners, err := s.resolveRunners(req.Source)
	if err != nil {
		return 0, err
	}

	cats := req.Categories
	if len(cats) == 0 {
		cats = s.defaults
	}
	if len(cats) == 0 {
		return 0, fmt.Errorf("no categories to ingest")
	}

	catNames := make([]string, len(cats))
	for i, c := range cats {
		catNames[i] = c.Name
	}

	job := &domain.IngestionJob{
		Type: req.Source,
		Parameters: map[string]any{
			"categories": catNames,
		},
	}
	if req.UserID != "" {
		job.Parameters["user_id"] = req.UserID
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return 0, fmt.Errorf("create job: %w", err)
	}

	select {
	case s.queue <- task{jobID: job.ID, runners: runners, cats: cats}:
		return job.ID, nil
	default:
		// mark the job failed right away, nothing will ever pick it up
		if failErr := s.jobs.Fail(ctx, job.ID, ErrQueueFull.Error(), time.Now().UTC()); failErr != nil {
			lgr.Printf("[ERROR] failed to fail queued-out job %d: %v", job.ID, failErr)
		}
		return 0, ErrQueueFull
	}
}

// GetJob returns one job by ID
func (s *Scheduler) GetJob(ctx context.Context, id int64) (*domain.IngestionJob, error) {
	return s.jobs.Get(ctx, id)
}

// ListJobs returns recent jobs, optionally filtered by status
func (s *Scheduler) ListJobs(ctx context.Context, status string, limit int) ([]domain.IngestionJob, error) {
	return s.jobs.List(ctx, status, limit)
}

// resolveRunners maps a trigger source name to the runner set
func (s *Scheduler) resolveRunners(source string) ([]Runner, error) {
	if source == "all" {
		runners := make([]Runner, 0, len(s.order))
		for _, name := range s.order {
			runners = append(runners, s.runners[name])
		}
		if len(runners) == 0 {
			return nil, fmt.Errorf("no sources configured")
		}
		return runners, nil
	}

	r, ok := s.runners[source]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", source)
	}
	return []Runner{r}, nil
}

// worker pulls tasks off the queue and runs them
func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-s.queue:
			s.runJob(ctx, t)
		}
	}
}

// periodic triggers a global all-source run on the configured interval
func (s *Scheduler) periodic(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Trigger(ctx, TriggerRequest{Source: "all"}); err != nil {
				lgr.Printf("[WARN] periodic ingestion trigger failed: %v", err)
			}
		}
	}
}

// runJob executes the full pipeline for one job and finalizes its record
func (s *Scheduler) runJob(ctx context.Context, t task) {
	now := time.Now().UTC()
	if err := s.jobs.MarkRunning(ctx, t.jobID, now); err != nil {
		lgr.Printf("[ERROR] job %d cannot start: %v", t.jobID, err)
		return
	}
	lgr.Printf("[INFO] job %d started, %d sources, %d categories", t.jobID, len(t.runners), len(t.cats))

	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[ERROR] job %d panicked: %v", t.jobID, r)
			if err := s.jobs.Fail(ctx, t.jobID, fmt.Sprintf("panic: %v", r), time.Now().UTC()); err != nil {
				lgr.Printf("[ERROR] failed to record job %d panic: %v", t.jobID, err)
			}
		}
	}()

	var total domain.WriteSummary
	var processed int

	for _, r := range t.runners {
		summary, count, err := s.runSource(ctx, r, t.cats)
		processed += count
		total.Created += summary.Created
		total.Updated += summary.Updated
		total.Skipped += summary.Skipped
		if err != nil {
			// a feed write or source lookup error means a rolled back batch,
			// the job cannot claim success. Fetch errors never land here, they
			// are absorbed into call history.
			lgr.Printf("[ERROR] job %d failed on %s: %v", t.jobID, r.Name(), err)
			if failErr := s.jobs.Fail(ctx, t.jobID, fmt.Sprintf("%s: %v", r.Name(), err), time.Now().UTC()); failErr != nil {
				lgr.Printf("[ERROR] failed to record job %d failure: %v", t.jobID, failErr)
			}
			return
		}
	}

	done := time.Now().UTC()
	if err := s.jobs.Complete(ctx, t.jobID, processed, total.Created, total.Updated, done); err != nil {
		lgr.Printf("[ERROR] failed to finalize job %d: %v", t.jobID, err)
		return
	}
	lgr.Printf("[INFO] job %d completed: processed %d, created %d, updated %d, skipped %d",
		t.jobID, processed, total.Created, total.Updated, total.Skipped)
}

// runSource fans one runner out over the categories. Returns the aggregate
// write summary and total items processed. The error is non-nil only for
// persistence problems, fetch failures are logged and counted but do not
// bubble up.
func (s *Scheduler) runSource(ctx context.Context, r Runner, cats []domain.Category) (domain.WriteSummary, int, error) {
	src, err := s.sources.GetByName(ctx, r.Name())
	if err != nil {
		return domain.WriteSummary{}, 0, fmt.Errorf("load source: %w", err)
	}
	if !src.IsActive {
		lgr.Printf("[INFO] source %s is disabled, skipping", src.Name)
		return domain.WriteSummary{}, 0, nil
	}

	var mu sync.Mutex
	var total domain.WriteSummary
	var processed, failures, requests int

	// requests run concurrently; the rate limiter serializes quota checks
	// per source and the dedup upsert is safe under concurrent writes
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxWorkers)

	for _, cat := range cats {
		for _, req := range r.Requests(cat) {
			requests++
			g.Go(func() error {
				items, outcome := r.Fetch(gctx, src, req)
				if outcome == domain.OutcomeError {
					lgr.Printf("[WARN] %s fetch failed for %s", r.Name(), req.Describe())
					mu.Lock()
					failures++
					mu.Unlock()
					return nil
				}
				if outcome == domain.OutcomeRateLimited {
					lgr.Printf("[INFO] %s rate limited, skipping %s", r.Name(), req.Describe())
					return nil
				}
				if len(items) == 0 {
					return nil
				}

				verdicts := s.relevance.Apply(gctx, cat, items)
				summary, err := s.writer.Write(gctx, cat, src.ID, items, verdicts)
				if err != nil {
					// the batch is rolled back, a partial feed write must not
					// look like a completed job
					return fmt.Errorf("write %s: %w", req.Describe(), err)
				}

				mu.Lock()
				processed += len(items)
				total.Created += summary.Created
				total.Updated += summary.Updated
				total.Skipped += summary.Skipped
				mu.Unlock()
				return nil
			})
		}
	}
	writeErr := g.Wait() // fetch failures report via the counters, write errors cancel the group

	if err := s.sources.UpdateLastUsed(ctx, src.Name, time.Now().UTC()); err != nil {
		lgr.Printf("[WARN] failed to stamp source %s: %v", src.Name, err)
	}

	if writeErr != nil {
		return total, processed, writeErr
	}
	if failures > 0 {
		lgr.Printf("[WARN] source %s: %d of %d requests failed", src.Name, failures, requests)
	}
	return total, processed, nil
}
