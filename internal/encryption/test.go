package encryption

import (
	"bytes"
	"fmt"
	"io"

	"feed-go/internal/vault"
)

// markerHeader is prepended by TestEncryptor so sealed snapshots are no longer valid JSON.
var markerHeader = []byte("FEEDSEAL\n")

// TestEncryptor is a reversible, deterministic stand-in for AgeEncryptor.
// It needs no key material and no passphrase.
type TestEncryptor struct {
	setupCalled bool
}

var _ vault.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(string) error {
	e.setupCalled = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(markerHeader); err != nil {
		return fmt.Errorf("writing marker: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(string) (vault.DecryptionContext, error) {
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool { return true }

// TestDecryptionContext strips the marker written by TestEncryptor.
type TestDecryptionContext struct{}

var _ vault.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(markerHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading marker: %w", err)
	}
	if !bytes.Equal(header, markerHeader) {
		return fmt.Errorf("blob was not sealed by the test encryptor")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	return nil
}
