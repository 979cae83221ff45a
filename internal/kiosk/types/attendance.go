package types

import "time"

// ReportStatus is the outcome of a remote attendance report for one event.
type ReportStatus string

const (
	// ReportOK: the grade was submitted; the attendance line carries no annotation.
	ReportOK ReportStatus = "ok"

	// ReportNotOnRoster: the identity is not on the cached course roster.
	ReportNotOnRoster ReportStatus = "not on roster"

	// ReportRemoteError: the submission failed (network, auth, service error).
	ReportRemoteError ReportStatus = "remote error"

	// ReportSkipped: remote reporting is disabled for this session.
	ReportSkipped ReportStatus = ""
)

// Annotated reports whether the status should appear as an annotation on the
// attendance line. ReportOK and ReportSkipped produce plain lines.
func (s ReportStatus) Annotated() bool {
	return s != ReportOK && s != ReportSkipped
}

// AttendanceRecord is one resolution event: who was seen, when, and how the
// optional remote report went.
type AttendanceRecord struct {
	Identity   Identity
	RecordedAt time.Time
	Status     ReportStatus
}
