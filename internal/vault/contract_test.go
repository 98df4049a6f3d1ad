package vault

import (
	"bytes"
	"errors"
	"testing"

	"feed-go/internal/docstore"
)

// testBlobStore runs the behavior every backend shares.
func testBlobStore(t *testing.T, store docstore.BlobStore) {
	t.Helper()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get("never_written")
		if !errors.Is(err, docstore.ErrBlobNotFound) {
			t.Fatalf("Get() error = %v, want ErrBlobNotFound", err)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		want := []byte(`{"users":{},"feedItems":{},"feeds":{}}`)
		if err := store.Put("facebook_data", want); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		got, err := store.Get("facebook_data")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Get() = %q, want %q", got, want)
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		if err := store.Put("replace_me", []byte("first")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := store.Put("replace_me", []byte("second")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		got, err := store.Get("replace_me")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(got) != "second" {
			t.Errorf("Get() = %q, want %q", got, "second")
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		if err := store.Put("key_a", []byte("a")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := store.Put("key_b", []byte("b")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		got, err := store.Get("key_a")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(got) != "a" {
			t.Errorf("Get(key_a) = %q, want %q", got, "a")
		}
	})

	t.Run("validate setup", func(t *testing.T) {
		if err := store.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})
}
