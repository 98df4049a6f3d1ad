package encryption

import (
	"fmt"

	"feed-go/internal/config"
	"feed-go/internal/vault"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
// It returns a nil Encryptor when snapshots are stored unencrypted.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (vault.Encryptor, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "age":
		if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
			return nil, fmt.Errorf("age encryption requires public_key_path and private_key_path")
		}
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
