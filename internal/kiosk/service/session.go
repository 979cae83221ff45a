package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/skuhl/cardread/internal/audio"
	"github.com/skuhl/cardread/internal/kiosk/store"
	"github.com/skuhl/cardread/internal/kiosk/token"
	"github.com/skuhl/cardread/internal/kiosk/types"
	"github.com/skuhl/cardread/internal/reader"
)

// Enroller obtains a validated identity for an unknown token hash.
// *EnrollmentFlow is the production implementation.
type Enroller interface {
	Enroll(ctx context.Context) (types.Identity, error)
}

// AttendanceReporter reports one resolved identity to the remote grading
// service. Always returns a status, never an error.
type AttendanceReporter interface {
	Report(ctx context.Context, id types.Identity) types.ReportStatus
}

// Dependencies wires a SessionLoop. Reporter and Archive are optional; nil
// disables remote reporting and archiving respectively.
type Dependencies struct {
	Logger     *slog.Logger
	Out        io.Writer
	Cards      *reader.CardReader
	Identities store.IdentityStore
	Enroller   Enroller
	Attendance store.AttendanceLog
	Reporter   AttendanceReporter
	Archive    store.EventArchive
	Sounds     *audio.Player
	SessionID  string
	Now        func() time.Time
}

// SessionLoop drives the kiosk's perpetual read -> resolve -> enroll ->
// log -> report cycle. All mutable state is owned here and handed to
// collaborators per call; there are no package-level globals.
//
// The loop ends only on context cancellation, exhaustion of the input
// source, or a fatal local write failure (identity-store persist or
// attendance append) — those two writes are the system's whole point, so
// failing them aborts rather than continuing with unrecorded attendance.
type SessionLoop struct {
	logger     *slog.Logger
	out        io.Writer
	cards      *reader.CardReader
	identities store.IdentityStore
	enroller   Enroller
	attendance store.AttendanceLog
	reporter   AttendanceReporter
	archive    store.EventArchive
	sounds     *audio.Player
	sessionID  string
	now        func() time.Time
}

func NewSessionLoop(d Dependencies) *SessionLoop {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &SessionLoop{
		logger:     d.Logger,
		out:        d.Out,
		cards:      d.Cards,
		identities: d.Identities,
		enroller:   d.Enroller,
		attendance: d.Attendance,
		reporter:   d.Reporter,
		archive:    d.Archive,
		sounds:     d.Sounds,
		sessionID:  d.SessionID,
		now:        now,
	}
}

// Run blocks until the context is cancelled, the input source closes, or a
// fatal write failure occurs. Only fatal failures return a non-nil error.
func (l *SessionLoop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		hash, ok, err := l.awaitToken(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		id, enrolled, err := l.resolve(ctx, hash)
		if err != nil {
			if isShutdown(err) {
				return nil
			}
			return err
		}

		status := types.ReportSkipped
		if l.reporter != nil {
			status = l.reporter.Report(ctx, id)
		}

		rec := types.AttendanceRecord{Identity: id, RecordedAt: l.now(), Status: status}
		if err := l.attendance.Append(ctx, rec); err != nil {
			// AttendanceWriteFailure is process-fatal: attendance can no
			// longer be guaranteed recorded.
			return fmt.Errorf("attendance append: %w", err)
		}

		l.archiveEvent(ctx, hash, rec, enrolled)

		fmt.Fprintln(l.out, "👍")
		fmt.Fprintf(l.out, "%s, your attendance has been recorded.\n", id)
		l.sounds.Success()
		l.logger.Info("attendance recorded",
			"identity", string(id), "status", string(rec.Status), "enrolled", enrolled)
	}
}

// awaitToken prompts for swipes until one validates, then returns the hash.
// The raw token is hashed and dropped inside this function; nothing
// downstream ever sees it. ok=false means the input source is done.
func (l *SessionLoop) awaitToken(ctx context.Context) (types.TokenHash, bool, error) {
	for {
		if ctx.Err() != nil {
			return "", false, nil
		}

		fmt.Fprintln(l.out, "💳")
		tok, err := l.cards.ReadToken("Swipe card now:")
		if errors.Is(err, reader.ErrInvalidCard) {
			fmt.Fprintln(l.out, "🚫")
			fmt.Fprintln(l.out, "ERROR: Invalid card. Swipe again. Use gold magnetic strip.")
			l.sounds.Error()
			continue
		}
		if isShutdown(err) {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("card reader: %w", err)
		}

		return token.Hash(tok), true, nil
	}
}

// resolve maps a hash to its identity, running enrollment on a miss. The
// returned bool reports whether this call enrolled a new identity.
func (l *SessionLoop) resolve(ctx context.Context, hash types.TokenHash) (types.Identity, bool, error) {
	id, found, err := l.identities.Lookup(ctx, hash)
	if err != nil {
		return "", false, fmt.Errorf("identity lookup: %w", err)
	}
	if found {
		return id, false, nil
	}

	fmt.Fprintln(l.out, "Welcome new user.")
	id, err = l.enroller.Enroll(ctx)
	if err != nil {
		return "", false, err
	}

	// StorePersistFailure is process-fatal: the enrollment cannot be
	// guaranteed durable.
	if err := l.identities.Insert(ctx, hash, id); err != nil {
		return "", false, fmt.Errorf("identity store persist: %w", err)
	}
	l.logger.Info("enrolled new identity", "identity", string(id))
	return id, true, nil
}

// archiveEvent mirrors the appended record into the optional archive.
// Best-effort — a failed archive write must not block the operator.
func (l *SessionLoop) archiveEvent(ctx context.Context, hash types.TokenHash, rec types.AttendanceRecord, enrolled bool) {
	if l.archive == nil {
		return
	}
	err := l.archive.RecordEvent(ctx, store.ArchiveEventRecord{
		TokenHash:  hash,
		Identity:   rec.Identity,
		RecordedAt: rec.RecordedAt,
		Status:     rec.Status,
		SessionID:  l.sessionID,
		Enrolled:   enrolled,
	})
	if err != nil {
		l.logger.Warn("archive write failed", "error", err)
	}
}

// isShutdown reports whether err means the session should end cleanly:
// the input source closed or the context was cancelled.
func isShutdown(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
