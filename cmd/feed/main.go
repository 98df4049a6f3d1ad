package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"feed-go/internal/app"
	"feed-go/internal/config"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// passphraseEnv names the environment variable that unlocks snapshot encryption
// without an interactive prompt.
const passphraseEnv = "FEED_ENCRYPTION_PASSPHRASE"

var (
	remote  bool
	actAs   int
	verbose bool
)

func main() {
	// A .env file in the working directory may carry FEED_* settings.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func readConfig() (*config.Config, error) {
	paths, err := app.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(paths.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp reads the config and creates a FeedApp. The caller must defer a.Close().
// consoleLevel is the lowest level echoed to stderr unless --verbose is set.
func newApp(operation string, consoleLevel slog.Level) (*app.FeedApp, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	level := consoleLevel
	if verbose {
		level = slog.LevelDebug
	}

	a, err := app.NewFeedApp(cfg, app.Options{
		Operation:  operation,
		Passphrase: readPassphrase,
		Console:    os.Stderr,
		Level:      level,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// readPassphrase takes the passphrase from the environment, falling back to a
// prompt when stdin is a terminal.
func readPassphrase() (string, error) {
	if p := os.Getenv(passphraseEnv); p != "" {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%s is not set and stdin is not a terminal", passphraseEnv)
	}

	fmt.Fprint(os.Stderr, "Passphrase: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

// printJSON writes v as JSON, indented when stdout is a terminal.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

var rootCmd = &cobra.Command{
	Use:          "feed",
	Short:        "Social feed server and client",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		serverID := uuid.New().String()
		cfg := config.NewConfig(serverID, paths.BaseDir)

		if err := config.Init(paths.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", paths.ConfigPath)
		fmt.Printf("Server ID: %s\n", serverID)
		fmt.Printf("Base Dir:  %s\n", paths.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(paths.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", paths.ConfigPath)
		fmt.Printf("Server ID:  %s\n", cfg.ServerID)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Vault:      %s (%s)\n", cfg.Vault.Name, cfg.Vault.Type)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		fmt.Printf("Auth:       %s\n", cfg.Auth.Type)
		fmt.Printf("Listen:     %s\n", cfg.Server.ListenAddr)
		fmt.Printf("Server URL: %s\n", cfg.Client.BaseURL)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate the snapshot encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}
		pass, err := readPassphrase()
		if err != nil {
			return err
		}

		pub, err := app.SetupKeys(cfg.Encryption, pass)
		if err != nil {
			return err
		}
		fmt.Printf("Public key: %s\n", pub)
		fmt.Printf("Private key written to %s\n", cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Serve", slog.LevelInfo)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Serve(cmd.Context()); err != nil {
			a.Fail(err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&remote, "remote", false, "Send requests to the configured server instead of the local store")
	rootCmd.PersistentFlags().IntVar(&actAs, "as", 4, "User ID to act as")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeysCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}
