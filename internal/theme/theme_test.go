package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	th, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), th)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_OverlaysDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	content := "error: \"#f38ba8\"\nprogress: \"13\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	th, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "#f38ba8", th.Error)
	assert.Equal(t, "13", th.Progress)
	// Roles the file does not set keep their defaults.
	assert.Equal(t, Default().Activity, th.Activity)
	assert.Equal(t, Default().Muted, th.Muted)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("error: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestStyles_Build(t *testing.T) {
	s := Default().Styles()
	assert.True(t, s.Finish.GetBold())
	assert.True(t, s.Error.GetBold())
	assert.False(t, s.Activity.GetBold())
}
