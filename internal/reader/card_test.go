package reader_test

import (
	"errors"
	"io"
	"testing"

	"github.com/skuhl/cardread/internal/kiosk/token"
	"github.com/skuhl/cardread/internal/reader"
)

const track = ";1234567890123456=12345678901234567890?"

// ── Whole reads ──────────────────────────────────────────────────────────────

func TestReadToken_WholeSwipe(t *testing.T) {
	r := reader.NewCardReader(reader.NewScript(track), token.FormatMagstripe)

	tok, err := r.ReadToken("Swipe card now:")
	if err != nil {
		t.Fatalf("ReadToken: %v", err)
	}
	if string(tok) != track {
		t.Errorf("token = %q", tok)
	}
}

// ── Fragmented reads ─────────────────────────────────────────────────────────

func TestReadToken_AccumulatesFragments(t *testing.T) {
	// Second-swipe defect: the track arrives split across three reads.
	r := reader.NewCardReader(
		reader.NewScript(track[:10], track[10:25], track[25:]),
		token.FormatMagstripe,
	)

	tok, err := r.ReadToken("")
	if err != nil {
		t.Fatalf("ReadToken: %v", err)
	}
	if string(tok) != track {
		t.Errorf("token = %q", tok)
	}
}

func TestReadToken_SkipsBlankFragments(t *testing.T) {
	r := reader.NewCardReader(
		reader.NewScript("  ", "", track[:20], track[20:]),
		token.FormatMagstripe,
	)

	tok, err := r.ReadToken("")
	if err != nil {
		t.Fatalf("ReadToken: %v", err)
	}
	if string(tok) != track {
		t.Errorf("token = %q", tok)
	}
}

// ── Invalid input ────────────────────────────────────────────────────────────

func TestReadToken_InvalidAtExpectedLength(t *testing.T) {
	// 39 characters of garbage: accumulation stops, validation rejects.
	garbage := "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
	r := reader.NewCardReader(reader.NewScript(garbage), token.FormatMagstripe)

	_, err := r.ReadToken("")
	if !errors.Is(err, reader.ErrInvalidCard) {
		t.Fatalf("expected ErrInvalidCard, got %v", err)
	}
}

func TestReadToken_SourceExhausted(t *testing.T) {
	r := reader.NewCardReader(reader.NewScript("too-short"), token.FormatMagstripe)

	_, err := r.ReadToken("")
	if err == nil || errors.Is(err, reader.ErrInvalidCard) {
		t.Fatalf("expected source error, got %v", err)
	}
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected wrapped io.EOF, got %v", err)
	}
}

func TestReadToken_NumericMode(t *testing.T) {
	r := reader.NewCardReader(reader.NewScript("12345", "67890"), token.FormatNumeric)

	tok, err := r.ReadToken("")
	if err != nil {
		t.Fatalf("ReadToken: %v", err)
	}
	if string(tok) != "1234567890" {
		t.Errorf("token = %q", tok)
	}
}
