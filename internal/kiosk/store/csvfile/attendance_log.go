package csvfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skuhl/cardread/internal/kiosk/types"
)

// timeLayout matches the historical attendance files: 12-hour clock with
// no leading zero, e.g. "3:04:05PM".
const timeLayout = "3:04:05PM"

// AttendanceLog appends resolution events to the current day's file,
// attend-YYYYMMDD.csv, held open in append mode for the process lifetime.
// Lines are written straight to the file descriptor — no userspace
// buffering — so a crash loses at most the in-flight line, never a prior
// one. Existing same-day files are appended to, never truncated.
type AttendanceLog struct {
	f    *os.File
	path string
}

// AttendanceFileName derives the day's file name from a wall-clock time.
func AttendanceFileName(day time.Time) string {
	return day.Format("attend-20060102.csv")
}

// OpenAttendanceLog opens (creating if absent) the attendance file for the
// given day in dir. The second return reports whether the file already
// existed, so the operator can be told records are being appended.
func OpenAttendanceLog(dir string, day time.Time) (*AttendanceLog, bool, error) {
	path := filepath.Join(dir, AttendanceFileName(day))

	existed := false
	if _, err := os.Stat(path); err == nil {
		existed = true
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("open attendance log: %w", err)
	}
	return &AttendanceLog{f: f, path: path}, existed, nil
}

// Path returns the attendance file's path.
func (l *AttendanceLog) Path() string { return l.path }

// Append writes one line for the record: "identity,time", or
// "identity - <status>,time" when the remote report did not succeed.
func (l *AttendanceLog) Append(_ context.Context, rec types.AttendanceRecord) error {
	label := string(rec.Identity)
	if rec.Status.Annotated() {
		label = fmt.Sprintf("%s - %s", rec.Identity, rec.Status)
	}

	line := fmt.Sprintf("%s,%s\n", label, rec.RecordedAt.Format(timeLayout))
	if _, err := l.f.WriteString(line); err != nil {
		return fmt.Errorf("append attendance record: %w", err)
	}
	return nil
}

func (l *AttendanceLog) Close() error {
	return l.f.Close()
}
