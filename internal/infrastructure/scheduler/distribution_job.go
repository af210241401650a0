// Package scheduler runs the month-end profit distribution on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	_ "time/tzdata"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultDistributionSchedule fires at 00:30 on the first day of every month
const DefaultDistributionSchedule = "30 0 1 * *"

// Distributor distributes one month's profit for every tenant
type Distributor interface {
	DistributeAllTenants(ctx context.Context, month string) (int, error)
}

// RunStatus describes the most recent distribution run
type RunStatus struct {
	Month      string    `json:"month"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Tenants    int       `json:"tenants"`
	Error      string    `json:"error,omitempty"`
}

// DistributionJob distributes the previous month whenever its schedule fires.
// Distribution itself is idempotent per shareholder and period, so a
// repeated or manual run never double-credits.
type DistributionJob struct {
	distributor Distributor
	logger      *zap.Logger
	location    *time.Location
	timeout     time.Duration
	cron        *cron.Cron
	entryID     cron.EntryID
	now         func() time.Time

	running atomic.Bool
	mu      sync.RWMutex
	last    *RunStatus
}

// NewDistributionJob parses the schedule and timezone from cfg
func NewDistributionJob(cfg config.SchedulerConfig, distributor Distributor, logger *zap.Logger) (*DistributionJob, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	location := time.UTC
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, cfg.Timezone, err)
		}
		location = loc
	}
	schedule := cfg.DistributionSchedule
	if schedule == "" {
		schedule = DefaultDistributionSchedule
	}
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	j := &DistributionJob{
		distributor: distributor,
		logger:      logger.With(zap.String("job", "profit_distribution")),
		location:    location,
		timeout:     timeout,
		now:         time.Now,
	}

	cronLog := cronLogger{j.logger}
	j.cron = cron.New(
		cron.WithLocation(location),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	id, err := j.cron.AddFunc(schedule, func() {
		if _, err := j.RunOnce(context.Background()); err != nil {
			j.logger.Error("scheduled distribution failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: schedule %q: %v", ErrInvalidConfig, schedule, err)
	}
	j.entryID = id
	return j, nil
}

// Start begins firing the schedule in the background
func (j *DistributionJob) Start() {
	j.cron.Start()
	j.logger.Info("distribution scheduler started", zap.Time("next_run", j.NextRun()))
}

// Stop stops the schedule and waits for a running job or ctx, whichever ends first
func (j *DistributionJob) Stop(ctx context.Context) error {
	done := j.cron.Stop()
	select {
	case <-done.Done():
		j.logger.Info("distribution scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextRun returns the next scheduled fire time, zero before Start
func (j *DistributionJob) NextRun() time.Time {
	return j.cron.Entry(j.entryID).Next
}

// TargetMonth is the month a run started at t distributes: the month before t
// in the job's timezone.
func (j *DistributionJob) TargetMonth(t time.Time) string {
	local := t.In(j.location)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.UTC)
	return ledger.MonthOf(first).Previous().Label
}

// RunOnce distributes the previous month for every tenant now
func (j *DistributionJob) RunOnce(ctx context.Context) (*RunStatus, error) {
	if !j.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer j.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	started := j.now()
	status := &RunStatus{Month: j.TargetMonth(started), StartedAt: started}
	j.logger.Info("distribution run started", zap.String("month", status.Month))

	tenants, err := j.distributor.DistributeAllTenants(ctx, status.Month)
	status.Tenants = tenants
	status.FinishedAt = j.now()
	if err != nil {
		status.Error = err.Error()
	}

	j.mu.Lock()
	j.last = status
	j.mu.Unlock()

	if err != nil {
		return status, fmt.Errorf("failed to distribute %s: %w", status.Month, err)
	}
	j.logger.Info("distribution run finished",
		zap.String("month", status.Month),
		zap.Int("tenants", tenants),
		zap.Duration("elapsed", status.FinishedAt.Sub(started)),
	)
	return status, nil
}

// LastRun returns a copy of the most recent run status, or nil
func (j *DistributionJob) LastRun() *RunStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.last == nil {
		return nil
	}
	s := *j.last
	return &s
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
