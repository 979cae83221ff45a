package reader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skuhl/cardread/internal/kiosk/token"
	"github.com/skuhl/cardread/internal/kiosk/types"
)

// ErrInvalidCard marks a complete read that did not match the deployed card
// format. The caller re-prompts; it never advances the session.
var ErrInvalidCard = errors.New("invalid card read")

// CardReader turns fragmented reader input into validated tokens.
//
// The reader hardware has a known defect: the first swipe arrives whole, but
// the second and later swipes can be delivered in fragments across reads.
// ReadToken therefore keeps accumulating chunks until the trimmed input
// reaches the format's expected length before validating. The bound is the
// format's own length, so genuinely malformed input fails validation after
// one expected-length accumulation instead of looping forever; the operator
// can always interrupt the process.
type CardReader struct {
	source LineSource
	format token.Format
}

func NewCardReader(source LineSource, format token.Format) *CardReader {
	return &CardReader{source: source, format: format}
}

// ReadToken performs one read-and-accumulate attempt and validates it.
// Returns ErrInvalidCard when the accumulated input does not match the card
// format. The caller must hash the token and drop it immediately — the
// reader retains nothing.
func (r *CardReader) ReadToken(prompt string) (types.Token, error) {
	line, err := r.source.ReadLine(prompt)
	if err != nil {
		return "", fmt.Errorf("card read: %w", err)
	}
	acc := strings.TrimSpace(line)

	for len(acc) < r.format.MinLength() {
		chunk, err := r.source.ReadLine("")
		if err != nil {
			return "", fmt.Errorf("card read: %w", err)
		}
		acc = strings.TrimSpace(acc + strings.TrimSpace(chunk))
	}

	tok, ok := r.format.Validate(acc)
	if !ok {
		return "", ErrInvalidCard
	}
	return tok, nil
}
