package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/skuhl/cardread/internal/kiosk/store"
)

// ArchivePruner periodically deletes archive rows older than a configured
// retention period. It runs as a background goroutine against the optional
// event archive only — the core resolution loop stays strictly sequential —
// and all its writes go through the archive's single-writer path.
//
// A retention of 0 disables pruning entirely.
type ArchivePruner struct {
	archive   store.EventArchive
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

// PrunerConfig holds the parameters for NewArchivePruner.
type PrunerConfig struct {
	// RetentionDays is how many days of archive history to keep.
	// 0 means keep everything (the pruner will not start).
	RetentionDays int

	// IntervalHours is how often the pruner runs. Defaults to 6.
	IntervalHours int
}

// NewArchivePruner creates a pruner but does not start it.
func NewArchivePruner(archive store.EventArchive, cfg PrunerConfig, logger *slog.Logger) *ArchivePruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	return &ArchivePruner{
		archive:   archive,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start begins the background loop: an immediate prune, then one per
// interval, until ctx is cancelled or Stop is called.
func (p *ArchivePruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		p.logger.Debug("archive pruner disabled (retention=0)")
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	go p.loop(ctx)

	p.logger.Info("archive pruner started",
		"retention_days", int(p.retention.Hours()/24),
		"interval_hours", int(p.interval.Hours()))
}

// Stop signals the pruner to exit and waits for it to finish.
func (p *ArchivePruner) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *ArchivePruner) loop(ctx context.Context) {
	defer close(p.done)

	// Clean up any backlog from previous sessions right away.
	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *ArchivePruner) prune(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-p.retention)
	deleted, err := p.archive.PruneOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Warn("archive prune failed", "error", err)
		return
	}
	if deleted > 0 {
		p.logger.Info("archive pruned", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
}
