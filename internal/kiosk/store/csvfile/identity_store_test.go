package csvfile_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skuhl/cardread/internal/kiosk/store/csvfile"
)

const (
	hashA = "01b307acba4f54f55aafc33bb06bbbf6ca803e9a"
	hashB = "ed5b0c9b8a50aa29834529be7b75b21ad04c16a1"
)

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_MissingFileIsEmptyStore(t *testing.T) {
	s := csvfile.NewIdentityStore(filepath.Join(t.TempDir(), "db.csv"))

	n, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty store, got %d rows", n)
	}
}

func TestLoad_SwappedColumnOrderRoundTrips(t *testing.T) {
	// On disk the row is (identity, hash); in memory the key is the hash.
	path := filepath.Join(t.TempDir(), "db.csv")
	content := "Ada Lovelace," + hashA + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := csvfile.NewIdentityStore(path)
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	id, ok, err := s.Lookup(context.Background(), hashA)
	if err != nil || !ok {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}
	if id != "Ada Lovelace" {
		t.Errorf("expected identity from first column, got %q", id)
	}
}

func TestLoad_SkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.csv")
	content := strings.Join([]string{
		"Ada Lovelace," + hashA,
		"only-one-column",
		"three,columns," + hashB,
		"",
		"Grace Hopper," + hashB,
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := csvfile.NewIdentityStore(path)
	n, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 valid rows, got %d", n)
	}
	if _, ok, _ := s.Lookup(context.Background(), hashB); !ok {
		t.Error("row after malformed rows was lost")
	}
}

// ── Insert / persist ─────────────────────────────────────────────────────────

func TestInsert_PersistsImmediatelyAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.csv")
	ctx := context.Background()

	s := csvfile.NewIdentityStore(path)
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Insert(ctx, hashA, "bob"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// A fresh store over the same file must see the mapping.
	reloaded := csvfile.NewIdentityStore(path)
	n, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row after reload, got %d", n)
	}
	id, ok, _ := reloaded.Lookup(ctx, hashA)
	if !ok || id != "bob" {
		t.Errorf("round-trip lost mapping: ok=%v id=%q", ok, id)
	}
}

func TestInsert_PreservesRowOrderOnRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.csv")
	ctx := context.Background()

	s := csvfile.NewIdentityStore(path)
	if err := s.Insert(ctx, hashA, "first person"); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, hashB, "second person"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "first person,") || !strings.HasPrefix(lines[1], "second person,") {
		t.Errorf("row order not preserved: %q", lines)
	}
}

func TestInsert_PersistFailureRollsBackMemory(t *testing.T) {
	// Point the store at a path whose parent directory does not exist so
	// the temp-file creation fails.
	path := filepath.Join(t.TempDir(), "missing-dir", "db.csv")
	ctx := context.Background()

	s := csvfile.NewIdentityStore(path)
	if err := s.Insert(ctx, hashA, "bob"); err == nil {
		t.Fatal("expected persist failure")
	}
	if _, ok, _ := s.Lookup(ctx, hashA); ok {
		t.Error("failed insert left mapping in memory")
	}
}
