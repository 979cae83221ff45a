package remote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skuhl/cardread/internal/kiosk/types"
)

// presentGrade is the fixed grade submitted for an attendance event.
const presentGrade = "complete"

// GradingService is the capability the Reporter needs from the grading
// system. *Client satisfies it; tests substitute a fake.
type GradingService interface {
	Authenticate(ctx context.Context) error
	FindCourseByName(ctx context.Context, name string) (Course, error)
	FindAssignmentByName(ctx context.Context, courseID int64, name string) (Assignment, error)
	ListRoster(ctx context.Context, courseID int64) ([]RosterEntry, error)
	SubmitGrade(ctx context.Context, courseID, assignmentID, userID int64, grade string) error
}

// Reporter submits "present" grades for resolved identities against one
// course and assignment, using a roster snapshot fetched once at startup.
// The cached state is read-only for the life of the process.
type Reporter struct {
	svc        GradingService
	course     Course
	assignment Assignment
	roster     map[string]RosterEntry // keyed by lowercased name and login ID
	logger     *slog.Logger
}

// NewReporter performs the one-time startup initialization: authenticate,
// resolve the course and assignment names, fetch the roster. Any failure
// returns an error; the caller warns once and runs the session without
// remote reporting. Initialization is never retried.
func NewReporter(ctx context.Context, svc GradingService, courseName, assignmentName string, logger *slog.Logger) (*Reporter, error) {
	if strings.TrimSpace(courseName) == "" {
		return nil, fmt.Errorf("remote course name is empty")
	}
	if strings.TrimSpace(assignmentName) == "" {
		return nil, fmt.Errorf("remote assignment name is empty")
	}

	if err := svc.Authenticate(ctx); err != nil {
		return nil, err
	}

	course, err := svc.FindCourseByName(ctx, courseName)
	if err != nil {
		return nil, err
	}
	assignment, err := svc.FindAssignmentByName(ctx, course.ID, assignmentName)
	if err != nil {
		return nil, err
	}
	entries, err := svc.ListRoster(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	roster := make(map[string]RosterEntry, 2*len(entries))
	for _, e := range entries {
		if name := strings.ToLower(strings.TrimSpace(e.Name)); name != "" {
			roster[name] = e
		}
		if login := strings.ToLower(strings.TrimSpace(e.LoginID)); login != "" {
			roster[login] = e
		}
	}

	logger.Info("remote reporting ready",
		"course", course.Name, "assignment", assignment.Name, "roster_size", len(entries))

	return &Reporter{
		svc:        svc,
		course:     course,
		assignment: assignment,
		roster:     roster,
		logger:     logger,
	}, nil
}

// Report looks the identity up on the cached roster and submits the fixed
// present grade. It always returns a status, never an error: a roster miss
// is ReportNotOnRoster, any submission failure is ReportRemoteError. Not
// retried — the status lands as an annotation on the local record instead.
func (r *Reporter) Report(ctx context.Context, id types.Identity) types.ReportStatus {
	entry, ok := r.roster[strings.ToLower(strings.TrimSpace(string(id)))]
	if !ok {
		r.logger.Warn("identity not on roster", "identity", string(id))
		return types.ReportNotOnRoster
	}

	if err := r.svc.SubmitGrade(ctx, r.course.ID, r.assignment.ID, entry.ID, presentGrade); err != nil {
		r.logger.Warn("grade submission failed", "identity", string(id), "error", err)
		return types.ReportRemoteError
	}
	return types.ReportOK
}
