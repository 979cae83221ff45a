package store

import (
	"context"
	"time"

	"github.com/skuhl/cardread/internal/kiosk/types"
)

// ArchiveEventRecord mirrors one attendance event into the queryable local
// archive. Unlike the flat attendance file it carries the token hash and the
// kiosk session that produced the event.
type ArchiveEventRecord struct {
	TokenHash  types.TokenHash
	Identity   types.Identity
	RecordedAt time.Time
	Status     types.ReportStatus
	SessionID  string
	Enrolled   bool // true when this event bound a new identity
}

// EventArchive persists attendance events as an append-only archive.
// Archive writes are best-effort: a failed archive write must never block
// the attendance file append it mirrors.
type EventArchive interface {
	RecordEvent(ctx context.Context, rec ArchiveEventRecord) error
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
