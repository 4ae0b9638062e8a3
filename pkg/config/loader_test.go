package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taskgrid.yaml")
	body := `
mode: prod
workers:
  host: 8
  cuda: 2
storage:
  driver: postgres
  dsn: "postgres://localhost/taskgrid"
api:
  host: "0.0.0.0"
  port: 9090
bus:
  buffer: 1024
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Mode)
	assert.Equal(t, 8, cfg.Workers.Host)
	assert.Equal(t, 2, cfg.Workers.CUDA)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, 1024, cfg.Bus.Buffer)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [this is not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
