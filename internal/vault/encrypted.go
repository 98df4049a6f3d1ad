package vault

import (
	"bytes"
	"fmt"
	"io"

	"feed-go/internal/docstore"
)

// Encryptor encrypts snapshot blobs before they reach a backend.
type Encryptor interface {
	// Setup performs one-time key generation, protecting the private key with passphrase.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase and returns a
	// DecryptionContext for the lifetime of the process.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if the key material exists.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory.
type DecryptionContext interface {
	// Decrypt decrypts data read from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}

// EncryptedVault wraps another BlobStore, encrypting on Put and decrypting on Get.
type EncryptedVault struct {
	inner docstore.BlobStore
	enc   Encryptor
	dec   DecryptionContext
}

// NewEncryptedVault wraps inner.
func NewEncryptedVault(inner docstore.BlobStore, enc Encryptor, dec DecryptionContext) *EncryptedVault {
	return &EncryptedVault{inner: inner, enc: enc, dec: dec}
}

// Get fetches and decrypts the blob stored under key.
func (v *EncryptedVault) Get(key string) ([]byte, error) {
	ciphertext, err := v.inner.Get(key)
	if err != nil {
		return nil, err
	}

	var plain bytes.Buffer
	if err := v.dec.Decrypt(bytes.NewReader(ciphertext), &plain); err != nil {
		return nil, fmt.Errorf("decrypting blob %s: %w", key, err)
	}
	return plain.Bytes(), nil
}

// Put encrypts data and stores it under key.
func (v *EncryptedVault) Put(key string, data []byte) error {
	var ciphertext bytes.Buffer
	if err := v.enc.Encrypt(bytes.NewReader(data), &ciphertext); err != nil {
		return fmt.Errorf("encrypting blob %s: %w", key, err)
	}
	return v.inner.Put(key, ciphertext.Bytes())
}

// ValidateSetup checks the key material and the wrapped backend.
func (v *EncryptedVault) ValidateSetup() error {
	if !v.enc.IsConfigured() {
		return fmt.Errorf("encryption keys are not configured")
	}
	return v.inner.ValidateSetup()
}

// Close closes the wrapped backend if it holds resources.
func (v *EncryptedVault) Close() error {
	if c, ok := v.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ docstore.BlobStore = (*EncryptedVault)(nil)
