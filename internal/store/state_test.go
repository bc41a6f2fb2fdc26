package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := Open(path, nil)
	require.NoError(t, err)

	assert.False(t, s.Shrunk())
	assert.Equal(t, CurrentSchemaVersion, s.State().SchemaVersion)
}

func TestOpen_CorruptedFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s, err := Open(path, nil)
	require.NoError(t, err)
	assert.False(t, s.Shrunk())
}

func TestSetShrunk_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := Open(path, nil)
	require.NoError(t, err)

	s.SetShrunk(true)

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	assert.True(t, reopened.Shrunk())
	assert.NotZero(t, reopened.State().LastActivityAt)
}

func TestSetShrunk_NoopWhenUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := Open(path, nil)
	require.NoError(t, err)

	// No write happens when the value does not change.
	s.SetShrunk(false)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSave_CreatesDirectoryAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var state SharedState
	require.NoError(t, json.Unmarshal(data, &state))
	assert.Equal(t, CurrentSchemaVersion, state.SchemaVersion)
}

func TestOpen_ZeroSchemaVersionUpgraded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"shrunk": true}`), 0600))

	s, err := Open(path, nil)
	require.NoError(t, err)
	assert.True(t, s.Shrunk())
	assert.Equal(t, CurrentSchemaVersion, s.State().SchemaVersion)
}
