package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/skuhl/cardread/internal/kiosk/service"
	"github.com/skuhl/cardread/internal/kiosk/store"
	"github.com/skuhl/cardread/internal/kiosk/store/memory"
)

func TestArchivePruner_ZeroRetentionNeverStarts(t *testing.T) {
	arch := memory.NewEventArchive()
	arch.RecordEvent(context.Background(), store.ArchiveEventRecord{
		Identity: "bob", RecordedAt: time.Now().Add(-365 * 24 * time.Hour),
	})

	p := service.NewArchivePruner(arch, service.PrunerConfig{RetentionDays: 0},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.Start(context.Background())
	p.Stop()

	if len(arch.Events()) != 1 {
		t.Error("disabled pruner deleted rows")
	}
}

func TestArchivePruner_PrunesBacklogOnStart(t *testing.T) {
	arch := memory.NewEventArchive()
	old := store.ArchiveEventRecord{Identity: "bob", RecordedAt: time.Now().Add(-40 * 24 * time.Hour)}
	recent := store.ArchiveEventRecord{Identity: "ada", RecordedAt: time.Now().Add(-time.Hour)}
	arch.RecordEvent(context.Background(), old)
	arch.RecordEvent(context.Background(), recent)

	p := service.NewArchivePruner(arch, service.PrunerConfig{RetentionDays: 30, IntervalHours: 6},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.Start(context.Background())

	// The startup prune runs asynchronously; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	for len(arch.Events()) > 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	p.Stop()

	events := arch.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 surviving event, got %d", len(events))
	}
	if events[0].Identity != "ada" {
		t.Errorf("wrong event survived: %+v", events[0])
	}
}
