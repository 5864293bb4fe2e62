package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x4fprojector.hcl")
	content := `
game_root     = "/games/x4"
language      = "de"
file_loader   = "fs"
export_format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/games/x4", cfg.GameRoot)
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, "fs", cfg.FileLoader)
	assert.Equal(t, "json", cfg.ExportFormat)
	// Unset attributes stay empty.
	assert.Empty(t, cfg.ExportDir)
}

func TestLoad_MissingDefaultIsEmpty(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_MissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	assert.Error(t, err)
}

func TestLoad_BadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte("game_root = ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
