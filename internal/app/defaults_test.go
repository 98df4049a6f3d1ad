package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name       string
		configEnv  string
		homeEnv    string
		wantConfig string
		wantBase   string
	}{
		{
			name:       "both from env",
			configEnv:  "/custom/feed.toml",
			homeEnv:    "/custom/feed",
			wantConfig: "/custom/feed.toml",
			wantBase:   "/custom/feed",
		},
		{
			name:       "home dir fallbacks",
			wantConfig: filepath.Join(home, ".config", "feed.toml"),
			wantBase:   filepath.Join(home, ".local", "share", "feed"),
		},
		{
			name:       "only base dir from env",
			homeEnv:    "/srv/feed",
			wantConfig: filepath.Join(home, ".config", "feed.toml"),
			wantBase:   "/srv/feed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FEED_CONFIG_PATH", tt.configEnv)
			t.Setenv("FEED_HOME", tt.homeEnv)

			p, err := DefaultPaths()
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, p.ConfigPath)
			assert.Equal(t, tt.wantBase, p.BaseDir)
		})
	}
}
