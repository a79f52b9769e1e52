package audit

import (
	"context"
	"log/slog"
	"time"
)

// PrunerConfig contains configuration for audit retention pruning.
type PrunerConfig struct {
	// RetentionDays is how long records are kept. Zero disables pruning.
	RetentionDays int

	// PruneSchedule is the cron expression used by the Scheduler. Empty
	// disables scheduled pruning (manual Run is still possible).
	PruneSchedule string
}

// Pruner deletes audit records older than the retention horizon.
type Pruner struct {
	storage Storage
	config  *PrunerConfig
	logger  *slog.Logger
}

// NewPruner creates a retention pruner over the given storage backend.
func NewPruner(storage Storage, config *PrunerConfig) *Pruner {
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "audit.pruner"),
	}
}

// Run performs one pruning pass and returns how many records were removed.
// A zero retention is a no-op.
func (p *Pruner) Run(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	before := time.Now().AddDate(0, 0, -p.config.RetentionDays)
	start := time.Now()

	pruned, err := p.storage.Prune(ctx, before)
	if err != nil {
		p.logger.Error("audit pruning failed", "error", err)
		return 0, err
	}

	p.logger.Info("audit records pruned",
		"pruned", pruned,
		"retention_days", p.config.RetentionDays,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pruned, nil
}
