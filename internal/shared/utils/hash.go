package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/bytedance/sonic"
)

// Hasher produces deterministic content hashes
type Hasher struct {
	api sonic.API
}

// NewHasher creates a hasher. Map keys are sorted before hashing, so equal
// values always hash the same.
func NewHasher() *Hasher {
	return &Hasher{api: sonic.ConfigStd}
}

// Hash computes a hash of the input data
func (h *Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON computes a hash of a JSON-serializable value
func (h *Hasher) HashJSON(v interface{}) (string, error) {
	data, err := h.api.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return h.Hash(data), nil
}

// ETag returns a strong HTTP entity tag for a JSON-serializable value
func (h *Hasher) ETag(v interface{}) (string, error) {
	sum, err := h.HashJSON(v)
	if err != nil {
		return "", err
	}
	return `"` + sum[:16] + `"`, nil
}
