package domain

import (
	"crypto/rand"
	"encoding/hex"
)

// TokenBytes is the entropy of a share token; hex doubles it to 16 chars.
const TokenBytes = 8

// NewToken generates a random hex share token.
func NewToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
