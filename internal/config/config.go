package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultListenAddr       = ":3000"
	DefaultClientTimeout    = 10 * time.Second
	DefaultSimulatedDelay   = 4 * time.Millisecond
	DefaultSnapshotKey      = "facebook_data"
	DefaultClientServerBase = "http://localhost:3000"
)

// Config represents the main configuration for feed.
type Config struct {
	ServerID   string           `toml:"server_id"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Vault      VaultConfig      `toml:"vault"`
	Encryption EncryptionConfig `toml:"encryption"`
	Auth       AuthConfig       `toml:"auth"`
	Server     ServerConfig     `toml:"server"`
	Client     ClientConfig     `toml:"client"`
}

// VaultConfig represents configuration for the snapshot blob backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type     string `toml:"type"` // "memory", "filesystem", "sqlite", "postgres", "redis", or "s3"
	Name     string `toml:"name"`
	Key      string `toml:"key,omitempty"`       // blob key, defaults to "facebook_data"
	SeedPath string `toml:"seed_path,omitempty"` // JSON or YAML seed snapshot; empty uses the built-in seed

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`

	// SQLite-specific fields (only used when Type == "sqlite")
	SQLitePath string `toml:"sqlite_path,omitempty"`

	// Postgres-specific fields (only used when Type == "postgres")
	PostgresDSN string `toml:"postgres_dsn,omitempty"`

	// Redis-specific fields (only used when Type == "redis")
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
	RedisPrefix   string `toml:"redis_prefix,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used to encrypt snapshots at rest.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "none" (default), "age", or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// AuthConfig selects how bearer tokens are encoded.
type AuthConfig struct {
	Type      string `toml:"type"`                 // "base64" (default) or "jwt"
	JWTSecret string `toml:"jwt_secret,omitempty"` // only used for type=jwt
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// ClientConfig holds transport settings for the client commands.
type ClientConfig struct {
	BaseURL          string `toml:"base_url"`
	TimeoutMS        int    `toml:"timeout_ms"`
	SimulatedDelayMS int    `toml:"simulated_delay_ms"`
}

// Timeout returns the HTTP client timeout, falling back to DefaultClientTimeout.
func (c ClientConfig) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return DefaultClientTimeout
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// SimulatedDelay returns the simulated transport delay, falling back to DefaultSimulatedDelay.
func (c ClientConfig) SimulatedDelay() time.Duration {
	if c.SimulatedDelayMS <= 0 {
		return DefaultSimulatedDelay
	}
	return time.Duration(c.SimulatedDelayMS) * time.Millisecond
}

// NewConfig creates a new Config with the provided values and defaults derived from baseDir.
func NewConfig(serverID, baseDir string) *Config {
	return &Config{
		ServerID: serverID,
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		Vault: VaultConfig{
			Type:        "filesystem",
			Name:        "local",
			Key:         DefaultSnapshotKey,
			FSVaultRoot: filepath.Join(baseDir, "vault"),
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "feed.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "feed.key"),
		},
		Auth: AuthConfig{Type: "base64"},
		Server: ServerConfig{
			ListenAddr: DefaultListenAddr,
		},
		Client: ClientConfig{
			BaseURL:          DefaultClientServerBase,
			TimeoutMS:        int(DefaultClientTimeout / time.Millisecond),
			SimulatedDelayMS: int(DefaultSimulatedDelay / time.Millisecond),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
