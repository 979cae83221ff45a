package types

// Token is raw credential data as read from the card reader. It exists only
// for the duration of a single resolution attempt and must never be stored,
// logged, or persisted; callers drop it as soon as a TokenHash is derived.
type Token string

// TokenHash is the lowercase-hex SHA-1 digest of a validated Token. It is
// the durable, privacy-safe key for everything downstream: the identity
// store, the attendance archive, and log output.
type TokenHash string

// HashHexLen is the length of a TokenHash string (160-bit digest in hex).
const HashHexLen = 40

// Identity is the human-assigned label bound to exactly one TokenHash —
// either a "first last" display name or a system username, depending on the
// deployment's identity policy.
type Identity string
