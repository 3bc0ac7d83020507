package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-core/internal/clock"
	"github.com/spec-kit/commerce-core/internal/observability"
)

// Job is a recurring maintenance task. Execute receives the transaction that
// is its unit of work for the run; the scheduler commits it on success and
// rolls it back on error or panic, so a cancelled run leaves nothing behind.
type Job interface {
	Name() string
	Interval() time.Duration
	Execute(ctx context.Context, tx pgx.Tx) (records int, err error)
}

// TxBeginner opens the per-run transaction. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// JobStatus is a point-in-time view of one registered job for the ops endpoint.
type JobStatus struct {
	Name         string        `json:"name"`
	Interval     time.Duration `json:"interval_ns"`
	LastStarted  time.Time     `json:"last_started"`
	LastFinished time.Time     `json:"last_finished"`
	LastError    string        `json:"last_error,omitempty"`
	LastRecords  int           `json:"last_records"`
	NextRun      time.Time     `json:"next_run"`
}

// Scheduler drives all registered jobs from a single goroutine. Due jobs run
// strictly sequentially, which makes single-flight per job structural rather
// than something a lock has to enforce.
type Scheduler struct {
	db      TxBeginner
	logger  *zap.Logger
	clock   clock.Clock
	metrics *observability.JobMetrics

	jobs []Job

	mu       sync.Mutex
	statuses map[string]*JobStatus
}

// New constructs a scheduler with no jobs registered.
func New(db TxBeginner, logger *zap.Logger, clk clock.Clock, metrics *observability.JobMetrics) *Scheduler {
	return &Scheduler{
		db:       db,
		logger:   logger,
		clock:    clk,
		metrics:  metrics,
		statuses: make(map[string]*JobStatus),
	}
}

// Register adds a job. Not safe to call once Run has started.
func (s *Scheduler) Register(job Job) {
	s.jobs = append(s.jobs, job)
	s.mu.Lock()
	s.statuses[job.Name()] = &JobStatus{Name: job.Name(), Interval: job.Interval()}
	s.mu.Unlock()
}

// Run drives the loop until ctx is cancelled. Every job fires once
// immediately on startup; afterwards each is rescheduled relative to its own
// completion time, so a slow run delays only its own next occurrence.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.jobs) == 0 {
		return errors.New("no jobs registered")
	}

	next := make(map[string]time.Time, len(s.jobs))
	now := s.clock.Now()
	for _, job := range s.jobs {
		next[job.Name()] = now
		s.setNextRun(job.Name(), now)
	}

	for {
		earliest := time.Time{}
		for _, job := range s.jobs {
			due := next[job.Name()]
			if earliest.IsZero() || due.Before(earliest) {
				earliest = due
			}
		}

		if wait := earliest.Sub(s.clock.Now()); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.logger.Info("scheduler stopping", zap.Error(ctx.Err()))
				return ctx.Err()
			case <-timer.C:
			}
		}

		for _, job := range s.jobs {
			if ctx.Err() != nil {
				s.logger.Info("scheduler stopping", zap.Error(ctx.Err()))
				return ctx.Err()
			}
			if next[job.Name()].After(s.clock.Now()) {
				continue
			}
			s.runJob(ctx, job)
			due := s.clock.Now().Add(job.Interval())
			next[job.Name()] = due
			s.setNextRun(job.Name(), due)
		}
	}
}

// RunOnce executes a single job outside the loop, with the same transaction
// and fault handling. Used for one-shot startup backfills.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) error {
	_, err := s.execute(ctx, job)
	return err
}

// Snapshot returns the current view of every registered job.
func (s *Scheduler) Snapshot() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobStatus, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *s.statuses[job.Name()])
	}
	return out
}

// runJob is the per-job fault boundary: any error or panic is logged with
// the job's name and the loop moves on.
func (s *Scheduler) runJob(ctx context.Context, job Job) {
	runID := uuid.NewString()
	started := s.clock.Now()
	startedWall := time.Now()

	s.logger.Info("job starting",
		zap.String("job", job.Name()),
		zap.String("run_id", runID),
	)
	s.updateStatus(job.Name(), func(st *JobStatus) {
		st.LastStarted = started
	})

	records, err := s.execute(ctx, job)
	duration := time.Since(startedWall)

	s.metrics.RecordRun(job.Name(), duration, records, err != nil && !errors.Is(err, context.Canceled))
	s.updateStatus(job.Name(), func(st *JobStatus) {
		st.LastFinished = s.clock.Now()
		st.LastRecords = records
		st.LastError = ""
		if err != nil {
			st.LastError = err.Error()
		}
	})

	switch {
	case err == nil:
		s.logger.Info("job finished",
			zap.String("job", job.Name()),
			zap.String("run_id", runID),
			zap.Duration("duration", duration),
			zap.Int("records", records),
		)
	case errors.Is(err, context.Canceled):
		s.logger.Info("job cancelled",
			zap.String("job", job.Name()),
			zap.String("run_id", runID),
			zap.Duration("duration", duration),
		)
	default:
		s.logger.Error("job failed",
			zap.String("job", job.Name()),
			zap.String("run_id", runID),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}
}

// execute wraps one run in a fresh transaction. The transaction is held only
// for the duration of the run and is committed exactly once, at the end.
func (s *Scheduler) execute(ctx context.Context, job Job) (records int, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin unit of work: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()

	records, err = job.Execute(ctx, tx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return records, err
	}
	if err := tx.Commit(ctx); err != nil {
		return records, fmt.Errorf("commit unit of work: %w", err)
	}
	return records, nil
}

func (s *Scheduler) setNextRun(name string, due time.Time) {
	s.updateStatus(name, func(st *JobStatus) {
		st.NextRun = due
	})
}

func (s *Scheduler) updateStatus(name string, apply func(*JobStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.statuses[name]; ok {
		apply(st)
	}
}
