package vault

import "testing"

func TestMemoryVault(t *testing.T) {
	testBlobStore(t, NewMemoryVault("test"))
}

func TestMemoryVault_CopiesData(t *testing.T) {
	v := NewMemoryVault("test")

	data := []byte("original")
	if err := v.Put("k", data); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	data[0] = 'X'

	got, err := v.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "original" {
		t.Errorf("stored blob changed with caller's slice: %q", got)
	}

	got[0] = 'Y'
	again, _ := v.Get("k")
	if string(again) != "original" {
		t.Errorf("stored blob changed with returned slice: %q", again)
	}
}

func TestMemoryVault_Puts(t *testing.T) {
	v := NewMemoryVault("test")
	if v.Puts() != 0 {
		t.Fatalf("Puts() = %d, want 0", v.Puts())
	}
	for i := 0; i < 3; i++ {
		if err := v.Put("k", []byte("x")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	if v.Puts() != 3 {
		t.Errorf("Puts() = %d, want 3", v.Puts())
	}
}
