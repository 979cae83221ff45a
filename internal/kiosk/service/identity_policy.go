package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/skuhl/cardread/internal/kiosk/token"
	"github.com/skuhl/cardread/internal/kiosk/types"
)

// IdentityPolicy selects which shape of identity label a deployment
// accepts. The two variants are mutually exclusive; a deployment runs one
// or the other, never both.
type IdentityPolicy int

const (
	// PolicyFullName requires a "first last" display name: an internal
	// space, no digits.
	PolicyFullName IdentityPolicy = iota

	// PolicyUsername requires a single-token system username: no spaces,
	// lowercased before acceptance.
	PolicyUsername
)

// ParseIdentityPolicy maps a config value to an IdentityPolicy.
func ParseIdentityPolicy(s string) (IdentityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fullname", "full-name", "name", "":
		return PolicyFullName, nil
	case "username", "user":
		return PolicyUsername, nil
	default:
		return 0, fmt.Errorf("unknown identity policy %q", s)
	}
}

func (p IdentityPolicy) String() string {
	if p == PolicyUsername {
		return "username"
	}
	return "fullname"
}

// forbiddenPunct breaks either the flat-file serialization or remote-service
// field semantics, so identities may not contain any of it.
const forbiddenPunct = `,?=;/^"@`

var (
	errLooksLikeCard  = errors.New("that looks like a card swipe, not a name")
	errBadPunctuation = errors.New("punctuation is not allowed")
	errTooShort       = errors.New("at least 3 characters required")
	errNeedsFullName  = errors.New("enter first and last name separated by a space, no numbers")
	errNeedsUsername  = errors.New("enter a single username with no spaces")
)

// CheckIdentity validates a trimmed enrollment candidate against the policy
// and returns the accepted (possibly normalized) identity.
//
// A candidate that itself matches the deployed card format is always
// rejected: an operator who swipes their card a second time at the name
// prompt must not end up with track data as their name.
func (p IdentityPolicy) CheckIdentity(candidate string, format token.Format) (types.Identity, error) {
	candidate = strings.TrimSpace(candidate)

	if _, isCard := format.Validate(candidate); isCard {
		return "", errLooksLikeCard
	}
	if strings.ContainsAny(candidate, forbiddenPunct) {
		return "", errBadPunctuation
	}
	if len(candidate) < 3 {
		return "", errTooShort
	}

	switch p {
	case PolicyUsername:
		if strings.Contains(candidate, " ") {
			return "", errNeedsUsername
		}
		return types.Identity(strings.ToLower(candidate)), nil
	default:
		if !strings.Contains(candidate, " ") || containsDigit(candidate) {
			return "", errNeedsFullName
		}
		return types.Identity(candidate), nil
	}
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
