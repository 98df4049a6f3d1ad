package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"feed-go/internal/auth"
	"feed-go/internal/client"
	"feed-go/internal/config"
	"feed-go/internal/docstore"
	"feed-go/internal/encryption"
	"feed-go/internal/feed"
	"feed-go/internal/server"
	"feed-go/internal/vault"
)

// PassphraseFunc supplies the passphrase that unlocks the snapshot encryption key.
// It is only called when encryption is configured.
type PassphraseFunc func() (string, error)

// Options controls how a FeedApp is built.
type Options struct {
	// Operation names the CLI command being run (e.g. "GetFeed", "Serve").
	Operation string

	Passphrase PassphraseFunc

	// Console receives log lines in addition to the log file. Nil logs to the file only.
	Console io.Writer
	Level   slog.Level

	Clock feed.Clock
}

// FeedApp is the application layer between the CLI and the feed service.
// It constructs dependencies from config on first use and releases them on Close.
type FeedApp struct {
	cfg        *config.Config
	passphrase PassphraseFunc
	clock      feed.Clock
	logger     *slog.Logger
	logFile    *os.File
	op         *Operation

	blobs   docstore.BlobStore
	store   *docstore.Store
	service *feed.Service
}

// NewFeedApp creates a FeedApp from the given config. The document store is not
// opened until a command needs it, so remote client commands never touch the vault.
// The caller must call Close when done.
func NewFeedApp(cfg *config.Config, opts Options) (*FeedApp, error) {
	clock := opts.Clock
	if clock == nil {
		clock = feed.RealClock{}
	}

	op := NewOperation(opts.Operation, clock.Now())
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, opts.Level, opts.Console)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &FeedApp{
		cfg:        cfg,
		passphrase: opts.Passphrase,
		clock:      clock,
		logger:     logger,
		logFile:    logFile,
		op:         op,
	}, nil
}

func (a *FeedApp) feedLogger() feed.Logger {
	return &slogAdapter{l: a.logger}
}

// Service opens the document store if needed and returns the feed service.
func (a *FeedApp) Service() (*feed.Service, error) {
	if a.service != nil {
		return a.service, nil
	}

	blobs, err := a.openBlobStore()
	if err != nil {
		return nil, err
	}
	a.blobs = blobs

	var seed *docstore.Snapshot
	if a.cfg.Vault.SeedPath != "" {
		seed, err = docstore.LoadSeedFile(a.cfg.Vault.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("loading seed: %w", err)
		}
	}

	key := a.cfg.Vault.Key
	if key == "" {
		key = config.DefaultSnapshotKey
	}
	store, err := docstore.NewStore(blobs, key, seed)
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}
	a.store = store
	a.service = feed.NewService(store, a.feedLogger(), a.clock)

	a.logger.Debug("document store opened", "vault", a.cfg.Vault.Type, "name", a.cfg.Vault.Name, "key", key)
	return a.service, nil
}

// openBlobStore builds the configured vault, wrapping it for encryption when enabled.
func (a *FeedApp) openBlobStore() (docstore.BlobStore, error) {
	blobs, err := vault.NewVaultFromConfig(a.cfg.Vault)
	if err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(a.cfg.Encryption)
	if err != nil {
		closeBlobStore(blobs)
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if enc != nil {
		if !enc.IsConfigured() {
			closeBlobStore(blobs)
			return nil, fmt.Errorf("encryption keys are not configured: run `feed config keys` first")
		}
		if a.passphrase == nil {
			closeBlobStore(blobs)
			return nil, fmt.Errorf("encryption is enabled but no passphrase source was given")
		}
		pass, err := a.passphrase()
		if err != nil {
			closeBlobStore(blobs)
			return nil, fmt.Errorf("reading passphrase: %w", err)
		}
		dec, err := enc.Unlock(pass)
		if err != nil {
			closeBlobStore(blobs)
			return nil, fmt.Errorf("unlocking encryption key: %w", err)
		}
		blobs = vault.NewEncryptedVault(blobs, enc, dec)
	}

	if err := blobs.ValidateSetup(); err != nil {
		closeBlobStore(blobs)
		return nil, fmt.Errorf("validating vault %q: %w", a.cfg.Vault.Name, err)
	}
	return blobs, nil
}

// Client returns the client transport. A remote client talks to the configured
// server as actingUser; a local client runs against this app's document store
// with a simulated network delay.
func (a *FeedApp) Client(remote bool, actingUser int) (client.API, error) {
	reporter := client.LogReporter{Logger: a.feedLogger()}

	if remote {
		codec, err := auth.NewCodecFromConfig(a.cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("creating token codec: %w", err)
		}
		baseURL := a.cfg.Client.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultClientServerBase
		}
		return client.NewHTTP(baseURL, a.cfg.Client.Timeout(), codec, actingUser, reporter), nil
	}

	svc, err := a.Service()
	if err != nil {
		return nil, err
	}
	return client.NewSimulated(svc, a.cfg.Client.SimulatedDelay(), reporter), nil
}

// Server builds the HTTP server over this app's feed service.
func (a *FeedApp) Server() (*server.Server, error) {
	svc, err := a.Service()
	if err != nil {
		return nil, err
	}
	codec, err := auth.NewCodecFromConfig(a.cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("creating token codec: %w", err)
	}
	return server.New(svc, codec, a.feedLogger(), feed.UUIDGenerator{}), nil
}

// Serve runs the HTTP server on the configured address until ctx is cancelled.
func (a *FeedApp) Serve(ctx context.Context) error {
	srv, err := a.Server()
	if err != nil {
		return err
	}
	addr := a.cfg.Server.ListenAddr
	if addr == "" {
		addr = config.DefaultListenAddr
	}
	return srv.ListenAndServe(ctx, addr)
}

// Fail marks the current operation as failed; Close logs the final status.
func (a *FeedApp) Fail(err error) {
	a.op.Fail()
	a.logger.Error("operation failed", "operation", a.op.Name, "error", err)
}

// Close logs the operation outcome and releases the vault and the log file.
func (a *FeedApp) Close() error {
	var firstErr error

	if a.blobs != nil {
		if err := closeBlobStore(a.blobs); err != nil {
			firstErr = fmt.Errorf("closing vault: %w", err)
		}
	}

	a.logger.Info("operation finished",
		"operation", a.op.Name,
		"status", a.op.Status,
		"elapsed", a.op.Elapsed(a.clock.Now()))

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}

// closeBlobStore closes backends that hold connections or files.
func closeBlobStore(blobs docstore.BlobStore) error {
	if c, ok := blobs.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ErrEncryptionDisabled is returned by SetupKeys when the config does not use age encryption.
var ErrEncryptionDisabled = errors.New("encryption type is not age")

// SetupKeys generates the age key pair named in cfg, protecting the private key
// with passphrase, and returns the public key.
func SetupKeys(cfg config.EncryptionConfig, passphrase string) (string, error) {
	if cfg.Type != "age" {
		return "", fmt.Errorf("%w: %q", ErrEncryptionDisabled, cfg.Type)
	}
	enc, err := encryption.NewEncryptorFromConfig(cfg)
	if err != nil {
		return "", err
	}
	age, ok := enc.(*encryption.AgeEncryptor)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrEncryptionDisabled, enc)
	}
	if err := age.Setup(passphrase); err != nil {
		return "", fmt.Errorf("setting up encryption keys: %w", err)
	}
	return age.PublicKey()
}
