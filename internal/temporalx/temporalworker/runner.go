package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/evidly-backend/internal/platform/envutil"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/services"
	"github.com/yungbote/evidly-backend/internal/temporalx"
	"github.com/yungbote/evidly-backend/internal/temporalx/dailysnapshot"
)

// Runner hosts the daily snapshot workflow and its sweep activity.
type Runner struct {
	log *logger.Logger

	tc      temporalsdkclient.Client
	cfg     temporalx.Config
	sweeper services.SnapshotSweeper
}

func NewRunner(
	log *logger.Logger,
	tc temporalsdkclient.Client,
	cfg temporalx.Config,
	sweeper services.SnapshotSweeper,
) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if sweeper == nil {
		return nil, fmt.Errorf("temporal worker missing snapshot sweeper")
	}
	return &Runner{
		log:     log,
		tc:      tc,
		cfg:     cfg.Normalize(),
		sweeper: sweeper,
	}, nil
}

// Start starts polling and registers the daily schedule. The worker stops
// when ctx is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := r.cfg
	if r.log != nil {
		r.log.Info("Starting Temporal worker", "address", cfg.Address, "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)
	}

	if cfg.AutoRegister {
		if err := temporalx.EnsureNamespace(ctx, r.tc, cfg, r.log); err != nil && r.log != nil {
			r.log.Warn("Temporal namespace ensure failed; worker will retry on start", "namespace", cfg.Namespace, "error", err)
		}
	}

	maxWait := envutil.Seconds("TEMPORAL_WORKER_START_MAX_WAIT_SECONDS", 60)
	backoff := envutil.Millis("TEMPORAL_WORKER_START_BACKOFF_MS", 250)
	backoffMax := envutil.Millis("TEMPORAL_WORKER_START_BACKOFF_MAX_MS", 5000)

	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		w := r.newWorker()
		startErr := w.Start()
		if startErr == nil {
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			if r.log != nil {
				r.log.Info("Temporal worker started", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempts", attempt)
			}
			if err := dailysnapshot.EnsureSchedule(ctx, r.tc, cfg.TaskQueue, cfg.DailySnapshotCron, r.log); err != nil && r.log != nil {
				r.log.Error("Daily snapshot schedule not registered", "cron", cfg.DailySnapshotCron, "error", err)
			}
			return nil
		}

		w.Stop()

		var nfe *serviceerror.NamespaceNotFound
		if errors.As(startErr, &nfe) && cfg.AutoRegister {
			_ = temporalx.EnsureNamespace(ctx, r.tc, cfg, r.log)
		}

		if maxWait <= 0 || time.Now().After(deadline) {
			if errors.As(startErr, &nfe) {
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", cfg.Namespace, startErr)
			}
			return startErr
		}

		if r.log != nil {
			r.log.Warn("Temporal worker failed to start; retrying", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempt", attempt, "error", startErr)
		}

		sleep := temporalx.ClampBackoff(backoff, backoffMax, attempt)
		if sleep > 0 {
			time.Sleep(sleep)
		}
	}
}

func (r *Runner) newWorker() worker.Worker {
	concurrency := envutil.Int("WORKER_CONCURRENCY", 2)
	if concurrency < 1 {
		concurrency = 1
	}

	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	acts := &dailysnapshot.Activities{Log: r.log, Sweeper: r.sweeper}
	w.RegisterWorkflowWithOptions(dailysnapshot.Workflow, workflow.RegisterOptions{Name: dailysnapshot.WorkflowName})
	w.RegisterActivityWithOptions(acts.Sweep, activity.RegisterOptions{Name: dailysnapshot.ActivitySweep})
	return w
}
