package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir replicates testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, "output", cfg.Channel)
}

func TestLoadWithoutConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().Color, cfg.Color)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadFromCurrentDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())

	content := "color: always\nchannel: input\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".castgrep.yaml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "always", cfg.Color)
	assert.Equal(t, "input", cfg.Channel)
	assert.Equal(t, "Local", cfg.Timezone, "unset file fields keep defaults")
	assert.Equal(t, ".castgrep.yaml", filepath.Base(cfg.ConfigFile))
}

func TestLoadFromHomeConfigFile(t *testing.T) {
	home := t.TempDir()
	chdir(t, t.TempDir())
	t.Setenv("HOME", home)

	confDir := filepath.Join(home, ".config", "castgrep")
	require.NoError(t, os.MkdirAll(confDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.yaml"),
		[]byte("timezone: UTC\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".castgrep.yaml"),
		[]byte("color: always\n"), 0644))
	t.Setenv("CASTGREP_COLOR", "never")
	t.Setenv("CASTGREP_CHANNEL", "input")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, "input", cfg.Channel)
}

func TestLoadMalformedFileIsError(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".castgrep.yaml"),
		[]byte(":\n  - not yaml"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}
