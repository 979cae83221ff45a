package memory

import (
	"context"
	"sync"
	"time"

	"github.com/skuhl/cardread/internal/kiosk/store"
)

// EventArchive is an in-memory append-only archive of attendance events,
// for tests and dev runs without a database.
type EventArchive struct {
	mu     sync.Mutex
	events []store.ArchiveEventRecord

	RecordErr error
}

func NewEventArchive() *EventArchive {
	return &EventArchive{}
}

func (a *EventArchive) RecordEvent(_ context.Context, rec store.ArchiveEventRecord) error {
	if a.RecordErr != nil {
		return a.RecordErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, rec)
	return nil
}

func (a *EventArchive) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := a.events[:0]
	var deleted int64
	for _, ev := range a.events {
		if ev.RecordedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	a.events = kept
	return deleted, nil
}

// Events returns a copy of all archived events. Test helper.
func (a *EventArchive) Events() []store.ArchiveEventRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]store.ArchiveEventRecord, len(a.events))
	copy(out, a.events)
	return out
}
