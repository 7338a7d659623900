package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/skim/internal/history"
	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/passes"
	"github.com/raysh454/skim/internal/scraper"
)

type RunEventType string

const (
	RunEventStatus RunEventType = "status"
	RunEventResult RunEventType = "result"
)

type RunStatus string

const (
	RunPending RunStatus = "pending"
	RunRunning RunStatus = "running"
	RunDone    RunStatus = "done"
	RunFailed  RunStatus = "failed"
)

// RunEvent is one progress notification for a run, streamed to websocket
// subscribers.
type RunEvent struct {
	RunID  string       `json:"run_id"`
	Type   RunEventType `json:"type"`
	Status RunStatus    `json:"status,omitempty"`
	Error  string       `json:"error,omitempty"`
	Result any          `json:"result,omitempty"`
}

// RunJob is one in-flight or finished pipeline invocation. The pipeline
// itself stays a strictly sequential single pass; the job wrapper only gives
// the API server an async handle on it. Status, Error and EndedAt are
// written by the run goroutine; read them through Snapshot while the run is
// in flight.
type RunJob struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	Status    RunStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at,omitzero"`
	Events    chan RunEvent `json:"-"`

	mu sync.Mutex
}

// Snapshot returns a copy of the job that is safe to serialize while the run
// goroutine is still updating it. Events is left nil on the copy.
func (j *RunJob) Snapshot() RunJob {
	j.mu.Lock()
	defer j.mu.Unlock()
	return RunJob{
		ID:        j.ID,
		Kind:      j.Kind,
		Status:    j.Status,
		Error:     j.Error,
		StartedAt: j.StartedAt,
		EndedAt:   j.EndedAt,
	}
}

func (j *RunJob) setStatus(status RunStatus, errMsg string) {
	j.mu.Lock()
	j.Status = status
	j.Error = errMsg
	j.mu.Unlock()
}

func (j *RunJob) setEnded(t time.Time) {
	j.mu.Lock()
	j.EndedAt = t
	j.mu.Unlock()
}

// Runner executes pipelines on request and records every outcome in the run
// history store.
type Runner struct {
	cfg     *Config
	store   *history.Store
	passes  *passes.Client
	scraper *scraper.Scraper
	logger  interfaces.Logger

	jobsMu sync.Mutex
	jobs   map[string]*RunJob
	jobIDs []string
}

// maxTrackedJobs bounds the in-memory job registry; the oldest entries are
// evicted first. Run history persists in the store regardless.
const maxTrackedJobs = 128

// NewRunner ties together config, history store and the pipeline clients.
func NewRunner(cfg *Config, store *history.Store, wc interfaces.WebClient, logger interfaces.Logger) *Runner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Passes.PassURL == "" {
		cfg.Passes.PassURL = passes.DefaultPassURL
	}
	if cfg.Passes.AstrosURL == "" {
		cfg.Passes.AstrosURL = passes.DefaultAstrosURL
	}
	if cfg.Scraper.PageURL == "" {
		cfg.Scraper.PageURL = scraper.DefaultPageURL
	}
	return &Runner{
		cfg:     cfg,
		store:   store,
		passes:  passes.NewClient(cfg.Passes, wc, logger),
		scraper: scraper.New(cfg.Scraper, wc, logger),
		logger:  logger.With(interfaces.Field{Key: "component", Value: "runner"}),
		jobs:    make(map[string]*RunJob),
	}
}

func (r *Runner) newJob(kind string) *RunJob {
	job := &RunJob{
		ID:        uuid.New().String(),
		Kind:      kind,
		Status:    RunPending,
		StartedAt: time.Now(),
		Events:    make(chan RunEvent, 8),
	}
	r.jobsMu.Lock()
	r.jobs[job.ID] = job
	r.jobIDs = append(r.jobIDs, job.ID)
	for len(r.jobIDs) > maxTrackedJobs {
		delete(r.jobs, r.jobIDs[0])
		r.jobIDs = r.jobIDs[1:]
	}
	r.jobsMu.Unlock()
	return job
}

// GetJob returns a snapshot of a tracked job by id.
func (r *Runner) GetJob(id string) (RunJob, bool) {
	r.jobsMu.Lock()
	job, ok := r.jobs[id]
	r.jobsMu.Unlock()
	if !ok {
		return RunJob{}, false
	}
	return job.Snapshot(), true
}

// ListJobs returns snapshots of all tracked jobs, newest first.
func (r *Runner) ListJobs() []RunJob {
	r.jobsMu.Lock()
	defer r.jobsMu.Unlock()
	out := make([]RunJob, 0, len(r.jobIDs))
	for i := len(r.jobIDs) - 1; i >= 0; i-- {
		out = append(out, r.jobs[r.jobIDs[i]].Snapshot())
	}
	return out
}

// run drives one pipeline invocation to completion, recording the outcome
// and emitting events. execute returns the result to store plus the source
// URL and page title for the history row.
func (r *Runner) run(ctx context.Context, job *RunJob, kind string,
	execute func(ctx context.Context) (result any, url, title string, err error)) {

	defer close(job.Events)

	job.setStatus(RunRunning, "")
	job.Events <- RunEvent{RunID: job.ID, Type: RunEventStatus, Status: RunRunning}

	result, url, title, err := execute(ctx)
	ended := time.Now()
	job.setEnded(ended)

	record := &history.Run{
		ID:         job.ID,
		Kind:       kind,
		URL:        url,
		Title:      title,
		StartedAt:  job.StartedAt,
		FinishedAt: ended,
	}

	if err == nil {
		record.Result, err = history.MarshalResult(result)
	}
	if err != nil {
		job.setStatus(RunFailed, err.Error())
		record.Error = err.Error()
	} else {
		job.setStatus(RunDone, "")
	}

	if r.store != nil {
		if _, storeErr := r.store.RecordRun(ctx, record); storeErr != nil {
			r.logger.Warn("recording run",
				interfaces.Field{Key: "run_id", Value: job.ID},
				interfaces.Field{Key: "error", Value: storeErr.Error()})
		}
	}

	if err != nil {
		job.Events <- RunEvent{RunID: job.ID, Type: RunEventStatus, Status: RunFailed, Error: err.Error()}
		return
	}
	job.Events <- RunEvent{RunID: job.ID, Type: RunEventResult, Status: RunDone, Result: result}
}

// StartTableRun launches the HTML pipeline.
func (r *Runner) StartTableRun(ctx context.Context) *RunJob {
	job := r.newJob(history.KindTable)
	go r.run(ctx, job, history.KindTable, func(ctx context.Context) (any, string, string, error) {
		res, err := r.scraper.Scrape(ctx)
		if err != nil {
			return nil, r.cfg.Scraper.PageURL, "", err
		}
		return res.Table, res.URL, res.Title, nil
	})
	return job
}

// StartPassesRun launches the timed-pass JSON pipeline for a location.
func (r *Runner) StartPassesRun(ctx context.Context, lat, lon float64) *RunJob {
	job := r.newJob(history.KindPasses)
	go r.run(ctx, job, history.KindPasses, func(ctx context.Context) (any, string, string, error) {
		ps, err := r.passes.UpcomingPasses(ctx, lat, lon)
		return ps, r.cfg.Passes.PassURL, "", err
	})
	return job
}

// StartAstrosRun launches the people-in-space JSON pipeline.
func (r *Runner) StartAstrosRun(ctx context.Context) *RunJob {
	job := r.newJob(history.KindAstros)
	go r.run(ctx, job, history.KindAstros, func(ctx context.Context) (any, string, string, error) {
		number, people, err := r.passes.PeopleInSpace(ctx)
		if err != nil {
			return nil, r.cfg.Passes.AstrosURL, "", err
		}
		return map[string]any{"number": number, "people": people}, r.cfg.Passes.AstrosURL, "", nil
	})
	return job
}
