package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier checks a plaintext password against one hash scheme.
type PasswordVerifier interface {
	// Handles reports whether the stored hash belongs to this scheme.
	Handles(hash string) bool
	Verify(hash, plain string) bool
	// Legacy schemes are upgraded after a successful login.
	Legacy() bool
}

// BcryptVerifier verifies salted bcrypt hashes.
type BcryptVerifier struct{}

func (BcryptVerifier) Handles(hash string) bool {
	return strings.HasPrefix(hash, "$2")
}

func (BcryptVerifier) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (BcryptVerifier) Legacy() bool { return false }

// LegacySHA256Verifier verifies unsalted hex SHA-256 digests left by older
// accounts.
type LegacySHA256Verifier struct{}

func (LegacySHA256Verifier) Handles(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

func (LegacySHA256Verifier) Verify(hash, plain string) bool {
	sum := sha256.Sum256([]byte(plain))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(hash))) == 1
}

func (LegacySHA256Verifier) Legacy() bool { return true }

// PasswordHasher hashes new passwords with bcrypt and verifies stored ones
// against each verifier in order.
type PasswordHasher struct {
	cost      int
	verifiers []PasswordVerifier
}

// NewPasswordHasher builds a hasher with the bcrypt then legacy SHA-256 chain.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{
		cost:      cost,
		verifiers: []PasswordVerifier{BcryptVerifier{}, LegacySHA256Verifier{}},
	}
}

// Hash hashes a plaintext password with configured cost.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify returns whether plain matches hash and whether the stored hash
// should be replaced with a fresh bcrypt hash.
func (h *PasswordHasher) Verify(hash, plain string) (ok bool, needsRehash bool) {
	for _, v := range h.verifiers {
		if !v.Handles(hash) {
			continue
		}
		if v.Verify(hash, plain) {
			return true, v.Legacy()
		}
		return false, false
	}
	return false, false
}
