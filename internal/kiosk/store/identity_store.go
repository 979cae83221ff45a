package store

import (
	"context"

	"github.com/skuhl/cardread/internal/kiosk/types"
)

// IdentityStore is the durable TokenHash -> Identity mapping.
//
// Load is called once at process start and returns the number of mappings
// loaded; a missing backing file loads an empty mapping. Insert binds a new
// hash and persists synchronously before returning — an Insert that returns
// nil is durable. Only the enrollment path inserts, and only for hashes a
// prior Lookup found absent; re-insertion of an existing hash is not a
// supported operation.
type IdentityStore interface {
	Load(ctx context.Context) (int, error)
	Lookup(ctx context.Context, hash types.TokenHash) (types.Identity, bool, error)
	Insert(ctx context.Context, hash types.TokenHash, id types.Identity) error
}
