package dailysnapshot

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow runs one sweep. Per-location failures are counted by the
// activity; only a failure to list locations fails the run.
func Workflow(ctx workflow.Context) (Result, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Hour,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    30 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    10 * time.Minute,
			MaximumAttempts:    3,
		},
	})

	var out Result
	if err := workflow.ExecuteActivity(ctx, ActivitySweep).Get(ctx, &out); err != nil {
		return Result{}, err
	}
	workflow.GetLogger(ctx).Info("Daily snapshot sweep finished",
		"locations", out.LocationCount,
		"scored", out.Scored,
		"skipped", out.Skipped,
		"failed", out.Failed,
	)
	return out, nil
}
