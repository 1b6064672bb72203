// Package cryptox holds the password verifier derivation.
//
// Verifiers are PBKDF2-HMAC-SHA256 keys encoded as standard base64. The salt
// is supplied by the caller and shared by every user, so equal passwords
// produce equal verifiers. This keeps verifiers compatible with records
// created by the previous service, at the cost of weaker resistance to
// precomputed tables than a per-user salt would give.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 round count used for stored verifiers.
	DefaultIterations = 10000
	// KeyLength is the derived key size in bytes.
	KeyLength = 32
	// SaltLength is the size of DefaultSalt.
	SaltLength = 16
)

// DefaultSalt is the fixed salt existing verifiers were derived with
// (sixteen zero bytes).
var DefaultSalt = make([]byte, SaltLength)

// PBKDF2Hasher derives and checks password verifiers with a fixed salt.
type PBKDF2Hasher struct {
	salt       []byte
	iterations int
}

// NewPBKDF2Hasher returns a hasher using salt for every password. A nil salt
// selects DefaultSalt and a non-positive iteration count selects
// DefaultIterations.
func NewPBKDF2Hasher(salt []byte, iterations int) *PBKDF2Hasher {
	if salt == nil {
		salt = DefaultSalt
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	s := make([]byte, len(salt))
	copy(s, salt)
	return &PBKDF2Hasher{salt: s, iterations: iterations}
}

// Hash returns the verifier for password. It is deterministic for a given
// hasher.
func (h *PBKDF2Hasher) Hash(password string) string {
	key := pbkdf2.Key([]byte(password), h.salt, h.iterations, KeyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// Verify re-derives the verifier for password and compares it with the
// stored one in constant time.
func (h *PBKDF2Hasher) Verify(password, verifier string) bool {
	candidate := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(verifier)) == 1
}
