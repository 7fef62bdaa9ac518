// Package auth provides password hashing and bearer-token handling.
package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes and verifies secrets with bcrypt. It satisfies
// domain.PasswordHasher.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher constructs a hasher at the default bcrypt cost.
func NewPasswordHasher() PasswordHasher {
	return PasswordHasher{cost: bcrypt.DefaultCost}
}

// Hash derives a salted hash from the secret.
func (h PasswordHasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the candidate secret matches the stored hash.
func (h PasswordHasher) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
