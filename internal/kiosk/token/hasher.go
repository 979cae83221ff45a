package token

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/skuhl/cardread/internal/kiosk/types"
)

// Hash derives the durable key for a validated token: a SHA-1 digest of the
// exact trimmed bytes, as lowercase hex. SHA-1 is not used for tamper
// evidence here — the point is a stable, irreversible identifier so the raw
// card data never has to be stored. Callers must not retain the token after
// this returns.
func Hash(tok types.Token) types.TokenHash {
	sum := sha1.Sum([]byte(tok))
	return types.TokenHash(hex.EncodeToString(sum[:]))
}
