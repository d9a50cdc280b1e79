package gdsii

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLibraryConfig(t *testing.T) {
	cfg := DefaultLibraryConfig()
	assert.Equal(t, Micrometer(), cfg.Scale())
	assert.Equal(t, "GDSIILIB", cfg.Name)
	assert.Equal(t, 1e-6, cfg.UserUnit)
	assert.False(t, cfg.Verbose)
}

func TestLoadLibraryConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gdsii.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "MYLIB"
userunit = 2e-6
verbose = true
default_scale = "nanometer"
`), 0o644))

	cfg, err := LoadLibraryConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Nanometer(), cfg.Scale())
	assert.Equal(t, "MYLIB", cfg.Name)
	assert.Equal(t, 2e-6, cfg.UserUnit)
	assert.True(t, cfg.Verbose)
}

func TestLoadLibraryConfigMissingFile(t *testing.T) {
	cfg, err := LoadLibraryConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLibraryConfig().Name, cfg.Name)
}

func TestLibraryConfigNewLibrary(t *testing.T) {
	cfg := DefaultLibraryConfig()
	lib := cfg.NewLibrary()
	assert.Equal(t, "GDSIILIB", lib.Name)
	assert.Equal(t, Micrometer(), lib.DBUnit)
	assert.Equal(t, cfg.Modify, lib.Created)
	assert.Equal(t, cfg.Access, lib.Accessed)
}
