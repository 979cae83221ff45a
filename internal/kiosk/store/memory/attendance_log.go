package memory

import (
	"context"
	"sync"

	"github.com/skuhl/cardread/internal/kiosk/types"
)

// AttendanceLog is an in-memory append-only attendance record, for tests.
type AttendanceLog struct {
	mu   sync.Mutex
	recs []types.AttendanceRecord

	AppendErr error
}

func NewAttendanceLog() *AttendanceLog {
	return &AttendanceLog{}
}

func (l *AttendanceLog) Append(_ context.Context, rec types.AttendanceRecord) error {
	if l.AppendErr != nil {
		return l.AppendErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recs = append(l.recs, rec)
	return nil
}

// Records returns a copy of all appended records. Test helper.
func (l *AttendanceLog) Records() []types.AttendanceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.AttendanceRecord, len(l.recs))
	copy(out, l.recs)
	return out
}
