package cron

import (
	"context"
	"log/slog"
	"time"
)

// Pruner deletes archived uploads older than a cutoff
type Pruner interface {
	PruneRuns(ctx context.Context, cutoff time.Time) (int, error)
}

// ArchiveJobs keeps the upload archive within its retention window
type ArchiveJobs struct {
	pruner    Pruner
	retention time.Duration
	now       func() time.Time
}

func NewArchiveJobs(pruner Pruner, retention time.Duration) *ArchiveJobs {
	return &ArchiveJobs{pruner: pruner, retention: retention, now: time.Now}
}

// RegisterJobs registers the archive retention job
func (j *ArchiveJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("prune_archived_runs", 1*time.Hour, j.PruneArchivedRuns)
}

// PruneArchivedRuns removes uploads older than the retention window
func (j *ArchiveJobs) PruneArchivedRuns(ctx context.Context) error {
	pruned, err := j.pruner.PruneRuns(ctx, j.now().Add(-j.retention))
	if pruned > 0 {
		slog.Info("Archived runs pruned", "files", pruned, "retention", j.retention)
	}
	return err
}
