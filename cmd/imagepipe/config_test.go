package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "input_dir: ./in\noutput_dir: ./out\ndrain_delay_ms: 100\nverbose: true\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := ConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "./in", cfg.InputDir)
	assert.Equal(t, "./out", cfg.OutputDir)
	assert.Equal(t, "_modified", cfg.Suffix, "missing suffix falls back to the default")
	assert.Equal(t, 100*time.Millisecond, cfg.DrainDelay())
	assert.True(t, cfg.Verbose)
}

func TestConfigFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := ConfigFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestListImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.png", "notes.txt", "c.JPEG"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	paths, err := listImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.jpg"),
		filepath.Join(dir, "c.JPEG"),
	}, paths)
}
