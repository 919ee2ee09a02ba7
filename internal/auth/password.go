package auth

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is a pluggable digest strategy. Two implementations coexist:
// existing account rows hold legacy unsalted MD5 digests while newly created
// accounts are written with bcrypt. Callers pick the scheme; VerifyPassword
// dispatches on the stored digest format so both keep working during the
// migration.
type PasswordHasher interface {
	Digest(plain string) (string, error)
	Matches(plain, stored string) bool
}

// LegacyHasher is the historical hex-MD5 scheme. Unsalted and fast, so weak;
// retained only because stored digests use it.
type LegacyHasher struct{}

// Digest returns the hex MD5 of the password.
func (LegacyHasher) Digest(plain string) (string, error) {
	sum := md5.Sum([]byte(plain))
	return hex.EncodeToString(sum[:]), nil
}

// Matches compares the candidate digest against the stored one in constant time.
func (h LegacyHasher) Matches(plain, stored string) bool {
	digest, _ := h.Digest(plain)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1
}

// BcryptHasher is the salted, iterated scheme used when accounts are created.
type BcryptHasher struct {
	Cost int
}

// Digest hashes the password with the configured cost.
func (h BcryptHasher) Digest(plain string) (string, error) {
	cost := h.Cost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches verifies the password against a bcrypt digest.
func (BcryptHasher) Matches(plain, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// VerifyPassword checks a candidate password against a stored digest of
// either scheme. Bcrypt digests carry the "$2" version prefix; everything
// else is treated as a legacy digest.
func VerifyPassword(plain, stored string) bool {
	if strings.HasPrefix(stored, "$2") {
		return BcryptHasher{}.Matches(plain, stored)
	}
	return LegacyHasher{}.Matches(plain, stored)
}
