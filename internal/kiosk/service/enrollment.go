package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/skuhl/cardread/internal/audio"
	"github.com/skuhl/cardread/internal/kiosk/token"
	"github.com/skuhl/cardread/internal/kiosk/types"
	"github.com/skuhl/cardread/internal/reader"
)

// EnrollmentFlow is the one-time interactive procedure that binds a new
// token hash to an identity. It prompts until a candidate satisfies the
// identity contract — there is no retry cap, control returns only on
// success, input-source exhaustion, or context cancellation.
type EnrollmentFlow struct {
	source reader.LineSource
	policy IdentityPolicy
	format token.Format
	out    io.Writer
	sounds *audio.Player
}

func NewEnrollmentFlow(source reader.LineSource, policy IdentityPolicy, format token.Format, out io.Writer, sounds *audio.Player) *EnrollmentFlow {
	return &EnrollmentFlow{
		source: source,
		policy: policy,
		format: format,
		out:    out,
		sounds: sounds,
	}
}

// Enroll prompts for and validates a new identity label. No side effects
// beyond terminal I/O and sound cues; the caller owns the store insert.
func (f *EnrollmentFlow) Enroll(ctx context.Context) (types.Identity, error) {
	f.sounds.EnterName()

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fmt.Fprintln(f.out, "🤔")
		fmt.Fprintln(f.out, "Type name (of person who last swiped their card):")

		candidate, err := f.readNonEmpty()
		if err != nil {
			return "", fmt.Errorf("enrollment read: %w", err)
		}

		id, err := f.policy.CheckIdentity(candidate, f.format)
		if err != nil {
			fmt.Fprintln(f.out, "🚫")
			fmt.Fprintf(f.out, "ERROR: %s\n", err)
			f.sounds.Error()
			continue
		}
		return id, nil
	}
}

// readNonEmpty skips blank lines — the reader hardware can leave stray
// newlines queued after a swipe.
func (f *EnrollmentFlow) readNonEmpty() (string, error) {
	for {
		line, err := f.source.ReadLine("")
		if err != nil {
			return "", err
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
	}
}
