package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashMismatch = errors.New("hash mismatch")

type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *Hasher) ComparePassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrHashMismatch
	}
	return nil
}

// HashToken hashes a refresh token for storage. Tokens are longer than the
// 72 bytes bcrypt reads, so they are reduced with SHA-256 first.
func (h *Hasher) HashToken(token string) (string, error) {
	return h.HashPassword(digest(token))
}

func (h *Hasher) CompareToken(hash, token string) error {
	return h.ComparePassword(hash, digest(token))
}

func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
