package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths are the locations feed reads and writes when the config does not say otherwise.
type Paths struct {
	ConfigPath string // $FEED_CONFIG_PATH, else ~/.config/feed.toml
	BaseDir    string // $FEED_HOME, else ~/.local/share/feed
}

// DefaultPaths resolves Paths from the environment, falling back to locations
// under the user's home directory.
func DefaultPaths() (Paths, error) {
	p := Paths{
		ConfigPath: os.Getenv("FEED_CONFIG_PATH"),
		BaseDir:    os.Getenv("FEED_HOME"),
	}
	if p.ConfigPath != "" && p.BaseDir != "" {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	if p.ConfigPath == "" {
		p.ConfigPath = filepath.Join(home, ".config", "feed.toml")
	}
	if p.BaseDir == "" {
		p.BaseDir = filepath.Join(home, ".local", "share", "feed")
	}
	return p, nil
}
