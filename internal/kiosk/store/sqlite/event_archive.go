// Package sqlite implements the attendance event archive on the local
// SQLite database. All writes go through the db.Worker so the session loop
// and the retention pruner never contend for the write lock.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/skuhl/cardread/internal/db"
	"github.com/skuhl/cardread/internal/kiosk/store"
)

type EventArchive struct {
	sqlDB  *sql.DB
	writer *dbpkg.Worker
}

func NewEventArchive(sqlDB *sql.DB, writer *dbpkg.Worker) *EventArchive {
	return &EventArchive{sqlDB: sqlDB, writer: writer}
}

// RecordEvent appends one attendance event row. Append-only; rows are never
// updated.
func (a *EventArchive) RecordEvent(ctx context.Context, rec store.ArchiveEventRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	recordedMs := rec.RecordedAt.UTC().UnixMilli()

	var enrolled int
	if rec.Enrolled {
		enrolled = 1
	}

	return a.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO attendance_events(
  token_hash, identity, recorded_at_ms, report_status, session_id, enrolled
) VALUES (?, ?, ?, ?, ?, ?);
`,
			string(rec.TokenHash), string(rec.Identity), recordedMs,
			string(rec.Status), rec.SessionID, enrolled,
		); err != nil {
			return fmt.Errorf("RecordEvent insert: %w", err)
		}
		return nil
	})
}

// PruneOlderThan deletes archive rows recorded before cutoff and returns
// how many were removed. Uses the recorded_at_ms index for a range scan.
func (a *EventArchive) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := a.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM attendance_events
WHERE recorded_at_ms < ?;
`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}
