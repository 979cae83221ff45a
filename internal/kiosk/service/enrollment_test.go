package service_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/skuhl/cardread/internal/kiosk/service"
	"github.com/skuhl/cardread/internal/kiosk/token"
	"github.com/skuhl/cardread/internal/reader"
)

func newEnrollment(policy service.IdentityPolicy, lines ...string) (*service.EnrollmentFlow, *bytes.Buffer) {
	out := &bytes.Buffer{}
	flow := service.NewEnrollmentFlow(reader.NewScript(lines...), policy, token.FormatMagstripe, out, nil)
	return flow, out
}

func TestEnroll_AcceptsValidName(t *testing.T) {
	flow, _ := newEnrollment(service.PolicyFullName, "Ada Lovelace")

	id, err := flow.Enroll(context.Background())
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if string(id) != "Ada Lovelace" {
		t.Errorf("id = %q", id)
	}
}

func TestEnroll_RepromptsUntilValid(t *testing.T) {
	flow, out := newEnrollment(service.PolicyFullName,
		"bob",          // no space
		"bob j0nes",    // digits
		"bob, jones x", // punctuation
		"bob jones",    // valid
	)

	id, err := flow.Enroll(context.Background())
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if string(id) != "bob jones" {
		t.Errorf("id = %q", id)
	}
	if got := strings.Count(out.String(), "ERROR:"); got != 3 {
		t.Errorf("expected 3 diagnostics, got %d:\n%s", got, out.String())
	}
}

func TestEnroll_SkipsBlankLines(t *testing.T) {
	flow, _ := newEnrollment(service.PolicyUsername, "", "  ", "BobJones")

	id, err := flow.Enroll(context.Background())
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if string(id) != "bobjones" {
		t.Errorf("id = %q", id)
	}
}

func TestEnroll_SourceExhausted(t *testing.T) {
	flow, _ := newEnrollment(service.PolicyFullName, "not valid1")

	if _, err := flow.Enroll(context.Background()); err == nil {
		t.Fatal("expected error when source runs out mid-enrollment")
	}
}

func TestEnroll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	flow, _ := newEnrollment(service.PolicyFullName, "Ada Lovelace")
	if _, err := flow.Enroll(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
