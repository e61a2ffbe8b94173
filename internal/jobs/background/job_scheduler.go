package background

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const (
	JobLedgerReconcile   = "ledger-reconcile"
	JobSafetyStockAlerts = "safety-stock-alerts"
)

// Runner is one unit of scheduled work.
type Runner interface {
	Run(ctx context.Context) error
}

type Intervals struct {
	Reconcile   time.Duration
	SafetyStock time.Duration
}

// JobScheduler runs the periodic ledger checks.
type JobScheduler struct {
	scheduler gocron.Scheduler
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers both jobs. Each job
// runs in singleton mode, so a slow run postpones the next one instead of
// overlapping it.
func NewJobScheduler(reconciler, alerts Runner, intervals Intervals, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler: scheduler,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.register(JobLedgerReconcile, intervals.Reconcile, reconciler); err != nil {
		_ = js.Stop()
		return nil, err
	}
	if err := js.register(JobSafetyStockAlerts, intervals.SafetyStock, alerts); err != nil {
		_ = js.Stop()
		return nil, err
	}

	logger.Info("Registered background jobs", zap.Int("count", len(js.jobs)))
	return js, nil
}

func (js *JobScheduler) register(name string, every time.Duration, runner Runner) error {
	if every <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(js.run, name, runner),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create job %s: %w", name, err)
	}

	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) run(name string, runner Runner) {
	start := time.Now()
	if err := runner.Run(js.ctx); err != nil {
		js.logger.Error("Background job failed", zap.String("job", name), zap.Error(err))
		return
	}
	js.logger.Debug("Background job finished", zap.String("job", name), zap.Duration("elapsed", time.Since(start)))
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop cancels running jobs and waits for them to return.
func (js *JobScheduler) Stop() error {
	js.logger.Info("Stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}

// JobNames lists the registered jobs in name order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
