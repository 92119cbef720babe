package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	require.Equal(t, DefaultServerLogLevel, cfg.Server.LogLevel)
	require.Equal(t, DefaultModelDefault, cfg.Models.Default)
	require.Equal(t, DefaultModelFallback, cfg.Models.Fallback)
	require.Equal(t, DefaultChatMaxToolRounds, cfg.Chat.MaxToolRounds)
	require.Equal(t, int64(DefaultDatasetSeed), cfg.Dataset.Seed)
	require.Equal(t, DefaultDatasetUnitsPerCategory, cfg.Dataset.UnitsPerCategory)
	require.NotEmpty(t, cfg.Chat.SystemPrompt)
	require.NotEmpty(t, cfg.Models.Registry)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("INSPECTOR_MODELS_DEFAULT", "gpt-4o-mini")
	t.Setenv("INSPECTOR_MODELS_FALLBACK", "local-llama")

	cfg, err := Load(nil)
	require.NoError(t, err)

	require.Equal(t, "gpt-4o-mini", cfg.Models.Default)
	require.Equal(t, "local-llama", cfg.Models.Fallback)
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	configDir := filepath.Join(tmpDir, ".inspector")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	content := []byte("server:\n  log_level: warn\ndataset:\n  units_per_category: 7\n")
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), content, 0644))

	cfg, err := Load(nil)
	require.NoError(t, err)

	require.Equal(t, "warn", cfg.Server.LogLevel)
	require.Equal(t, 7, cfg.Dataset.UnitsPerCategory)
	// Untouched keys keep their defaults.
	require.Equal(t, DefaultModelDefault, cfg.Models.Default)
}

func TestLoadFlagOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := &cobra.Command{}
	cmd.Flags().String("config", "", "")
	cmd.Flags().String("server.log_level", DefaultServerLogLevel, "")
	require.NoError(t, cmd.Flags().Set("server.log_level", "error"))

	cfg, err := Load(cmd)
	require.NoError(t, err)
	require.Equal(t, "error", cfg.Server.LogLevel)
}

func TestLoadInjectsProviderKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")

	cfg, err := Load(nil)
	require.NoError(t, err)

	for _, entry := range cfg.Models.Registry {
		switch entry.Provider {
		case "gemini":
			require.Equal(t, "gm-key", entry.APIKey)
		case "openai":
			require.Equal(t, "oa-key", entry.APIKey)
		}
	}
}

func TestDurationOrDefault(t *testing.T) {
	d, err := DurationOrDefault("5s", "10s")
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, d)

	d, err = DurationOrDefault("", "10s")
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, d)

	_, err = DurationOrDefault("not-a-duration", "10s")
	require.Error(t, err)
}
