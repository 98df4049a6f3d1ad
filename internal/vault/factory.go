package vault

import (
	"fmt"

	"feed-go/internal/config"
	"feed-go/internal/docstore"
)

// NewVaultFromConfig creates a BlobStore implementation based on the vault config type.
func NewVaultFromConfig(cfg config.VaultConfig) (docstore.BlobStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires fs_vault_root to be set")
		}
		return NewFileSystemVault(cfg.Name, cfg.FSVaultRoot)
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite vault requires sqlite_path to be set")
		}
		return NewSQLiteVault(cfg.Name, cfg.SQLitePath)
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres vault requires postgres_dsn to be set")
		}
		return NewPostgresVault(cfg.Name, cfg.PostgresDSN)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis vault requires redis_addr to be set")
		}
		return NewRedisVault(cfg.Name, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix), nil
	case "s3":
		return NewS3Vault(cfg.Name, S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}
