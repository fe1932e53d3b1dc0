package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JonMunkholm/sheetclean/internal/config"
	"github.com/JonMunkholm/sheetclean/internal/logging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrJobNotFound is returned for unknown or expired job IDs.
	ErrJobNotFound = errors.New("job not found")

	// ErrUnknownArtifact is returned for an unrecognised download name.
	ErrUnknownArtifact = errors.New("unknown artifact")
)

// Job is a finished clean run kept in memory until it expires.
type Job struct {
	ID        string
	FileName  string
	Threshold float64
	CreatedAt time.Time
	ExpiresAt time.Time
	Duration  time.Duration
	Result    *Result

	expiry *time.Timer
}

// JobSummary is the JSON view of a job.
type JobSummary struct {
	ID               string          `json:"id"`
	FileName         string          `json:"file_name"`
	Threshold        float64         `json:"threshold"`
	Rows             int             `json:"rows"`
	Columns          int             `json:"columns"`
	DroppedRows      int             `json:"dropped_rows"`
	DroppedColumns   int             `json:"dropped_columns"`
	QuarantinedRows  int             `json:"quarantined_rows"`
	QuarantinedCells int             `json:"quarantined_cells"`
	Types            TypeReport      `json:"types"`
	TypeCounts       map[TypeTag]int `json:"type_counts"`
	CreatedAt        time.Time       `json:"created_at"`
	ExpiresAt        time.Time       `json:"expires_at"`
	DurationMs       int64           `json:"duration_ms"`
}

// Summary returns the JSON view of the job.
func (j *Job) Summary() JobSummary {
	r := j.Result
	return JobSummary{
		ID:               j.ID,
		FileName:         j.FileName,
		Threshold:        j.Threshold,
		Rows:             r.LoadReady.NumRows(),
		Columns:          r.LoadReady.NumCols(),
		DroppedRows:      r.DroppedRows,
		DroppedColumns:   r.DroppedColumns,
		QuarantinedRows:  r.QuarantinedRows(),
		QuarantinedCells: len(r.Records),
		Types:            r.Types,
		TypeCounts:       r.Types.Counts(),
		CreatedAt:        j.CreatedAt,
		ExpiresAt:        j.ExpiresAt,
		DurationMs:       j.Duration.Milliseconds(),
	}
}

// Service runs clean jobs, keeps their results for download, and loads
// them into PostgreSQL when a pool is configured.
type Service struct {
	pool    *pgxpool.Pool
	cfg     *config.Config
	base    Options
	limiter *JobLimiter

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewService creates a Service. pool may be nil, which disables loading.
func NewService(pool *pgxpool.Pool, cfg *config.Config) (*Service, error) {
	c := cfg.Cleaning
	base := DefaultOptions()
	base.Threshold = c.DefaultThreshold
	base.DateCandidateMaxLen = c.DateCandidateMaxLen
	base.Workers = c.Workers
	base.Vocabulary = DefaultVocabulary().Extend(c.ExtraJunkValues, c.ExtraTrueValues, c.ExtraFalseValues)

	if _, err := base.normalize(); err != nil {
		return nil, fmt.Errorf("cleaning options: %w", err)
	}

	return &Service{
		pool:    pool,
		cfg:     cfg,
		base:    base,
		limiter: NewJobLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		jobs:    make(map[string]*Job),
	}, nil
}

// DefaultThreshold returns the configured inference threshold.
func (s *Service) DefaultThreshold() float64 {
	return s.base.Threshold
}

// LoadEnabled reports whether a database load target is configured.
func (s *Service) LoadEnabled() bool {
	return s.pool != nil
}

// Clean runs a clean job on raw and stores the result under a new job ID.
func (s *Service) Clean(ctx context.Context, fileName string, raw *Table, threshold float64) (*Job, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	id := uuid.New().String()
	ctx = logging.WithJobID(ctx, id)
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Upload.Timeout)
	defer cancel()

	logger := logging.WithFields(ctx, "file", fileName, "threshold", threshold)
	logger.Info("clean started", "rows", raw.NumRows(), "columns", raw.NumCols())

	opts := s.base
	opts.Threshold = threshold
	opts.Logger = logger

	start := time.Now()
	res, err := CleanTable(ctx, raw, opts)
	if err != nil {
		logger.Warn("clean failed", "error", err)
		return nil, fmt.Errorf("clean %s: %w", fileName, err)
	}

	finished := time.Now()
	job := &Job{
		ID:        id,
		FileName:  fileName,
		Threshold: threshold,
		CreatedAt: finished,
		ExpiresAt: finished.Add(s.cfg.Cleaning.ResultTTL),
		Duration:  finished.Sub(start),
		Result:    res,
	}
	job.expiry = time.AfterFunc(s.cfg.Cleaning.ResultTTL, func() { s.expire(id) })

	s.mu.Lock()
	s.jobs[id] = job
	s.mu.Unlock()

	logger.Info("clean finished",
		"rows", res.LoadReady.NumRows(),
		"quarantined_rows", res.QuarantinedRows(),
		"duration_ms", job.Duration.Milliseconds(),
	)
	return job, nil
}

// Job returns a stored job.
func (s *Service) Job(id string) (*Job, error) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok || time.Now().After(job.ExpiresAt) {
		return nil, fmt.Errorf("job %q: %w", id, ErrJobNotFound)
	}
	return job, nil
}

// JobCount returns the number of stored jobs.
func (s *Service) JobCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *Service) expire(id string) {
	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()
}

// LoadJob copies a job's load-ready table into the configured database.
func (s *Service) LoadJob(ctx context.Context, id, table string) (*LoadResult, error) {
	if s.pool == nil {
		return nil, ErrLoadDisabled
	}
	job, err := s.Job(id)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(logging.WithJobID(ctx, id), s.cfg.Upload.Timeout)
	defer cancel()

	result, err := LoadTable(ctx, s.pool, s.cfg.Database.Schema, table, job.Result)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("load finished", "table", result.Table, "rows", result.Rows)
	return result, nil
}

// Ping checks the database connection. It is a no-op when loading is
// disabled.
func (s *Service) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

// LimiterStatus reports job slot occupancy.
func (s *Service) LimiterStatus() JobLimiterStatus {
	return s.limiter.Status()
}

// Shutdown waits for running jobs and drops stored results.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.limiter.WaitForDrain(ctx)

	s.mu.Lock()
	for id, job := range s.jobs {
		job.expiry.Stop()
		delete(s.jobs, id)
	}
	s.mu.Unlock()

	return err
}
