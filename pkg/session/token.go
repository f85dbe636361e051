package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewToken mints an opaque bearer credential. The plaintext goes to the
// client; only the hash is ever stored.
func NewToken() (plain, hash string, err error) {
	b := make([]byte, 32)
	if _, err = rand.Read(b); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(b)
	return plain, HashToken(plain), nil
}

// HashToken maps a presented credential to its storage key.
func HashToken(plain string) string {
	h := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(h[:])
}
