package dailysnapshot

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/services"
)

type Activities struct {
	Log     *logger.Logger
	Sweeper services.SnapshotSweeper
}

// Sweep rescores every active location with audit enabled.
func (a *Activities) Sweep(ctx context.Context) (Result, error) {
	if a == nil || a.Sweeper == nil {
		return Result{}, fmt.Errorf("dailysnapshot: activity not configured")
	}
	info := activity.GetInfo(ctx)
	if a.Log != nil {
		a.Log.Info("Daily snapshot sweep starting",
			"workflow_id", info.WorkflowExecution.ID,
			"attempt", info.Attempt,
		)
	}
	res, err := a.Sweeper.Sweep(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("dailysnapshot: sweep: %w", err)
	}
	return Result{
		Scored:        res.Scored,
		Skipped:       res.Skipped,
		Failed:        res.Failed,
		LocationCount: res.LocationCount,
	}, nil
}
