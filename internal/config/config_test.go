package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cputable/internal/engine"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, engine.DefaultBindings(), cfg.Bindings())
	assert.Equal(t, "No processors found.", cfg.RenderOptions().EmptyMessage)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cputable.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
debug = true

[server]
addr = "127.0.0.1:9000"

[dataset]
path = "cpus.db"
table = "processors"

[columns]
search = "Name"

[render]
cores_label = "%s-core"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, engine.LoadOptions{Table: "processors"}, cfg.LoadOptions())
	assert.Equal(t, "Name", cfg.Bindings().Search)
	assert.Equal(t, "Manufacturer", cfg.Bindings().Manufacturer)
	assert.Equal(t, "%s-core", cfg.RenderOptions().CoresLabel)
	assert.Equal(t, "Processors", cfg.RenderOptions().Title)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cputable.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 80\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "server.port")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
