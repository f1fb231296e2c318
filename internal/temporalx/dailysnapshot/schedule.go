package dailysnapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	enumspb "go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

// EnsureSchedule creates the daily snapshot schedule, or points an existing
// one at cron. An empty cron leaves Temporal untouched.
func EnsureSchedule(ctx context.Context, c temporalsdkclient.Client, taskQueue, cron string, log *logger.Logger) error {
	cron = strings.TrimSpace(cron)
	if c == nil || cron == "" {
		return nil
	}
	spec := temporalsdkclient.ScheduleSpec{CronExpressions: []string{cron}}
	_, err := c.ScheduleClient().Create(ctx, temporalsdkclient.ScheduleOptions{
		ID:   ScheduleID,
		Spec: spec,
		Action: &temporalsdkclient.ScheduleWorkflowAction{
			ID:        WorkflowIDBase,
			Workflow:  WorkflowName,
			TaskQueue: taskQueue,
		},
		Overlap: enumspb.SCHEDULE_OVERLAP_POLICY_SKIP,
	})
	if err == nil {
		if log != nil {
			log.Info("Created daily snapshot schedule", "schedule_id", ScheduleID, "cron", cron)
		}
		return nil
	}
	if !errors.Is(err, temporal.ErrScheduleAlreadyRunning) {
		return fmt.Errorf("create schedule %s: %w", ScheduleID, err)
	}

	handle := c.ScheduleClient().GetHandle(ctx, ScheduleID)
	err = handle.Update(ctx, temporalsdkclient.ScheduleUpdateOptions{
		DoUpdate: func(in temporalsdkclient.ScheduleUpdateInput) (*temporalsdkclient.ScheduleUpdate, error) {
			sched := in.Description.Schedule
			sched.Spec = &spec
			return &temporalsdkclient.ScheduleUpdate{Schedule: &sched}, nil
		},
	})
	if err != nil {
		return fmt.Errorf("update schedule %s: %w", ScheduleID, err)
	}
	if log != nil {
		log.Info("Updated daily snapshot schedule", "schedule_id", ScheduleID, "cron", cron)
	}
	return nil
}
