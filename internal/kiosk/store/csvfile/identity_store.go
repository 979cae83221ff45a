// Package csvfile implements the kiosk's file-backed stores on flat CSV
// files, preserving the on-disk contracts of earlier deployments: the
// identity store persists rows as (identity, tokenHash) — column order
// swapped relative to the in-memory hash -> identity direction — and the
// attendance log is one append-only file per calendar day.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/skuhl/cardread/internal/kiosk/types"
)

// IdentityStore is the flat-file TokenHash -> Identity mapping.
//
// Every Insert rewrites the whole backing file from the in-memory map.
// That trades I/O volume for simplicity, which is fine at kiosk scale
// (a roster, not a population). The rewrite goes through a temp file and
// rename so a crash mid-persist leaves either the old file or the new one,
// never a torn one.
//
// Owned by the session loop; not safe for concurrent use.
type IdentityStore struct {
	path  string
	ids   map[types.TokenHash]types.Identity
	order []types.TokenHash // file row order, preserved across rewrites
}

func NewIdentityStore(path string) *IdentityStore {
	return &IdentityStore{
		path: path,
		ids:  make(map[types.TokenHash]types.Identity),
	}
}

// Load reads the backing file into memory and returns the number of
// mappings. A missing file is an empty store, not an error. Rows that do
// not have exactly two columns are skipped; they must not poison the rows
// around them.
func (s *IdentityStore) Load(_ context.Context) (int, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open identity store: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue // malformed row, drop it
		}
		if err != nil {
			return 0, fmt.Errorf("read identity store: %w", err)
		}
		if len(row) != 2 {
			continue
		}
		// Persisted column order is (identity, hash).
		id, hash := types.Identity(row[0]), types.TokenHash(row[1])
		if id == "" || hash == "" {
			continue
		}
		if _, dup := s.ids[hash]; !dup {
			s.order = append(s.order, hash)
		}
		s.ids[hash] = id
	}

	return len(s.ids), nil
}

func (s *IdentityStore) Lookup(_ context.Context, hash types.TokenHash) (types.Identity, bool, error) {
	id, ok := s.ids[hash]
	return id, ok, nil
}

// Insert binds hash to id and persists synchronously. On a persist failure
// the in-memory binding is rolled back so memory never claims durability
// the file doesn't have.
func (s *IdentityStore) Insert(_ context.Context, hash types.TokenHash, id types.Identity) error {
	_, existed := s.ids[hash]
	s.ids[hash] = id
	if !existed {
		s.order = append(s.order, hash)
	}

	if err := s.persist(); err != nil {
		if !existed {
			delete(s.ids, hash)
			s.order = s.order[:len(s.order)-1]
		}
		return err
	}
	return nil
}

// persist rewrites the whole file from the in-memory map via temp + rename.
func (s *IdentityStore) persist() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".identity-store-*")
	if err != nil {
		return fmt.Errorf("persist identity store: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	for _, hash := range s.order {
		if err := w.Write([]string{string(s.ids[hash]), string(hash)}); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("persist identity store: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("persist identity store: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("persist identity store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist identity store: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist identity store: %w", err)
	}
	return nil
}
