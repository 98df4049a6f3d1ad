package vault_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"feed-go/internal/config"
	"feed-go/internal/docstore"
	"feed-go/internal/encryption"
	"feed-go/internal/vault"
)

func TestEncryptedVault_RoundTrip(t *testing.T) {
	inner := vault.NewMemoryVault("inner")
	enc := encryption.NewTestEncryptor()
	dec, err := enc.Unlock("")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	v := vault.NewEncryptedVault(inner, enc, dec)

	want := []byte(`{"users":{}}`)
	if err := v.Put("facebook_data", want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	raw, err := inner.Get("facebook_data")
	if err != nil {
		t.Fatalf("inner Get() error = %v", err)
	}
	if bytes.Equal(raw, want) {
		t.Error("inner backend holds plaintext")
	}

	got, err := v.Get("facebook_data")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get() = %q, want %q", got, want)
	}
}

func TestEncryptedVault_MissingKey(t *testing.T) {
	enc := encryption.NewTestEncryptor()
	dec, _ := enc.Unlock("")
	v := vault.NewEncryptedVault(vault.NewMemoryVault("inner"), enc, dec)

	if _, err := v.Get("nothing"); !errors.Is(err, docstore.ErrBlobNotFound) {
		t.Errorf("Get() error = %v, want ErrBlobNotFound", err)
	}
}

func TestEncryptedVault_Age(t *testing.T) {
	dir := t.TempDir()
	enc := encryption.NewAgeEncryptor(config.EncryptionConfig{
		Type:           "age",
		PublicKeyPath:  filepath.Join(dir, "feed.pub"),
		PrivateKeyPath: filepath.Join(dir, "feed.key"),
	})

	inner := vault.NewMemoryVault("inner")
	if err := vault.NewEncryptedVault(inner, enc, nil).ValidateSetup(); err == nil {
		t.Fatal("ValidateSetup() before key setup should fail")
	}

	if err := enc.Setup("hunter2"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	dec, err := enc.Unlock("hunter2")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	v := vault.NewEncryptedVault(inner, enc, dec)
	if err := v.ValidateSetup(); err != nil {
		t.Fatalf("ValidateSetup() error = %v", err)
	}

	store, err := docstore.NewStore(v, "", nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	reopened, err := docstore.NewStore(v, "", nil)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	user, err := reopened.ReadUser(4)
	if err != nil {
		t.Fatalf("ReadUser() error = %v", err)
	}
	if user.FullName != "John Vilk" {
		t.Errorf("FullName = %q, want %q", user.FullName, "John Vilk")
	}
}

type closingStore struct {
	*vault.MemoryVault
	closed bool
}

func (c *closingStore) Close() error {
	c.closed = true
	return nil
}

func TestEncryptedVault_Close(t *testing.T) {
	enc := encryption.NewTestEncryptor()
	dec, _ := enc.Unlock("")

	inner := &closingStore{MemoryVault: vault.NewMemoryVault("inner")}
	if err := vault.NewEncryptedVault(inner, enc, dec).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !inner.closed {
		t.Error("inner backend was not closed")
	}

	if err := vault.NewEncryptedVault(vault.NewMemoryVault("plain"), enc, dec).Close(); err != nil {
		t.Errorf("Close() on a backend without Close = %v, want nil", err)
	}
}
