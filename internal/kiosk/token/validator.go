package token

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/skuhl/cardread/internal/kiosk/types"
)

// Format identifies the structural pattern of the deployed card format.
type Format int

const (
	// FormatMagstripe is a full magnetic-stripe track read:
	// leading ';', 16 characters, '=', 20 characters, trailing '?'.
	FormatMagstripe Format = iota

	// FormatNumeric is a fixed-length numeric ID, e.g. from a contactless
	// reader that emits only the card number.
	FormatNumeric
)

const (
	magstripeLen = 39
	numericLen   = 10
)

var (
	magstripeRe = regexp.MustCompile(`^;.{16}=.{20}\?$`)
	numericRe   = regexp.MustCompile(`^[0-9]{10}$`)
)

// ParseFormat maps a config value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "magstripe", "":
		return FormatMagstripe, nil
	case "numeric":
		return FormatNumeric, nil
	default:
		return 0, fmt.Errorf("unknown card format %q", s)
	}
}

func (f Format) String() string {
	if f == FormatNumeric {
		return "numeric"
	}
	return "magstripe"
}

// MinLength is the expected length of a complete read in this format. The
// reader's accumulation loop keeps collecting fragments until the trimmed
// input reaches this length.
func (f Format) MinLength() int {
	if f == FormatNumeric {
		return numericLen
	}
	return magstripeLen
}

// Validate classifies raw reader input. It trims surrounding whitespace and
// accepts only input matching the format's exact pattern; wrong length,
// missing delimiters, and partial reads are all rejected. Pure — no side
// effects, nothing retained.
func (f Format) Validate(raw string) (types.Token, bool) {
	trimmed := strings.TrimSpace(raw)
	var ok bool
	if f == FormatNumeric {
		ok = numericRe.MatchString(trimmed)
	} else {
		ok = magstripeRe.MatchString(trimmed)
	}
	if !ok {
		return "", false
	}
	return types.Token(trimmed), true
}
