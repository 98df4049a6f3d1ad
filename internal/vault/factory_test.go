package vault

import (
	"path/filepath"
	"strings"
	"testing"

	"feed-go/internal/config"
)

func TestNewVaultFromConfig(t *testing.T) {
	tmp := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.VaultConfig
		check   func(t *testing.T, v any)
		wantErr string
	}{
		{
			name: "memory",
			cfg:  config.VaultConfig{Type: "memory", Name: "mem"},
			check: func(t *testing.T, v any) {
				if _, ok := v.(*MemoryVault); !ok {
					t.Errorf("got %T, want *MemoryVault", v)
				}
			},
		},
		{
			name: "filesystem",
			cfg:  config.VaultConfig{Type: "filesystem", Name: "fs", FSVaultRoot: filepath.Join(tmp, "vault")},
			check: func(t *testing.T, v any) {
				if _, ok := v.(*FileSystemVault); !ok {
					t.Errorf("got %T, want *FileSystemVault", v)
				}
			},
		},
		{
			name: "sqlite",
			cfg:  config.VaultConfig{Type: "sqlite", Name: "db", SQLitePath: filepath.Join(tmp, "feed.db")},
			check: func(t *testing.T, v any) {
				sv, ok := v.(*SQLiteVault)
				if !ok {
					t.Fatalf("got %T, want *SQLiteVault", v)
				}
				sv.Close()
			},
		},
		{name: "filesystem without root", cfg: config.VaultConfig{Type: "filesystem"}, wantErr: "fs_vault_root"},
		{name: "sqlite without path", cfg: config.VaultConfig{Type: "sqlite"}, wantErr: "sqlite_path"},
		{name: "postgres without dsn", cfg: config.VaultConfig{Type: "postgres"}, wantErr: "postgres_dsn"},
		{name: "redis without addr", cfg: config.VaultConfig{Type: "redis"}, wantErr: "redis_addr"},
		{name: "s3 without bucket", cfg: config.VaultConfig{Type: "s3"}, wantErr: "bucket"},
		{name: "unknown", cfg: config.VaultConfig{Type: "floppy"}, wantErr: "unknown vault type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVaultFromConfig(tt.cfg)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewVaultFromConfig() error = %v", err)
			}
			tt.check(t, v)
		})
	}
}
