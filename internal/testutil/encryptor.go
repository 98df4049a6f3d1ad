package testutil

import (
	"feed-go/internal/encryption"
	"feed-go/internal/vault"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() vault.Encryptor {
	return encryption.NewTestEncryptor()
}
