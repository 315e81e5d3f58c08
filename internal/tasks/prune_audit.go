package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// AuditPruner deletes audit files older than a cutoff.
type AuditPruner interface {
	Prune(cutoff time.Time) (int, error)
}

// Enqueuer schedules follow-up tasks.
type Enqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// PruneAuditTask removes audit files older than RetentionDays. When Every is
// set the task schedules its next run after finishing, but only while
// Generation matches the running process. Chains left over from earlier
// runs stop after one more pass.
type PruneAuditTask struct {
	RetentionDays int           `json:"retention_days"`
	Every         time.Duration `json:"every"`
	Generation    string        `json:"generation,omitempty"`
}

func (t PruneAuditTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_audit",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PruneAuditProcessor returns the processor for PruneAuditTask. next may be
// nil, in which case recurring tasks run only once.
func PruneAuditProcessor(pruner AuditPruner, next Enqueuer, generation string, now func() time.Time) backlite.QueueProcessor[PruneAuditTask] {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, task PruneAuditTask) error {
		if pruner == nil {
			return fmt.Errorf("audit pruner not configured")
		}
		if task.RetentionDays <= 0 {
			return nil
		}

		cutoff := now().Add(-time.Duration(task.RetentionDays) * 24 * time.Hour)
		deleted, err := pruner.Prune(cutoff)
		if err != nil {
			return fmt.Errorf("prune audit files: %w", err)
		}
		log.Printf("[TASK] Pruned %d audit files older than %d days", deleted, task.RetentionDays)

		if task.Every > 0 && next != nil && task.Generation == generation {
			if _, err := next.Add(task).Ctx(ctx).Wait(task.Every).Save(); err != nil {
				log.Printf("[TASK ERROR] failed to reschedule audit pruning: %v", err)
			}
		}
		return nil
	}
}

func NewPruneAuditQueue(pruner AuditPruner, next Enqueuer, generation string) backlite.Queue {
	return backlite.NewQueue(PruneAuditProcessor(pruner, next, generation, nil))
}
