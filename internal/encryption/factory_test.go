package encryption

import (
	"testing"

	"feed-go/internal/config"
)

func TestNewEncryptorFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.EncryptionConfig
		wantNil  bool
		wantType string
		wantErr  bool
	}{
		{name: "empty type disables encryption", cfg: config.EncryptionConfig{}, wantNil: true},
		{name: "none", cfg: config.EncryptionConfig{Type: "none"}, wantNil: true},
		{name: "age", cfg: config.EncryptionConfig{Type: "age", PublicKeyPath: "/k/feed.pub", PrivateKeyPath: "/k/feed.key"}, wantType: "age"},
		{name: "age without paths", cfg: config.EncryptionConfig{Type: "age"}, wantErr: true},
		{name: "test", cfg: config.EncryptionConfig{Type: "test"}, wantType: "test"},
		{name: "unknown", cfg: config.EncryptionConfig{Type: "rot13"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			enc, err := NewEncryptorFromConfig(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEncryptorFromConfig() error = %v", err)
			}
			if tt.wantNil {
				if enc != nil {
					t.Errorf("got %T, want nil", enc)
				}
				return
			}
			switch tt.wantType {
			case "age":
				if _, ok := enc.(*AgeEncryptor); !ok {
					t.Errorf("got %T, want *AgeEncryptor", enc)
				}
			case "test":
				if _, ok := enc.(*TestEncryptor); !ok {
					t.Errorf("got %T, want *TestEncryptor", enc)
				}
			}
		})
	}
}
