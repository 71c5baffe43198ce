package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStatePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "nested", StateFilename)
}

func TestFileStore_MissingFileStartsEmpty(t *testing.T) {
	s, err := NewFileStore(tempStatePath(t))
	require.NoError(t, err)

	_, ok := s.Get(KeyToken)
	assert.False(t, ok)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := tempStatePath(t)

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyToken, "tok-1"))
	require.NoError(t, s.Set(KeyUser, `{"id":1}`))

	// Reopen and read back
	s2, err := NewFileStore(path)
	require.NoError(t, err)
	token, ok := s2.Get(KeyToken)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
	user, ok := s2.Get(KeyUser)
	require.True(t, ok)
	assert.Equal(t, `{"id":1}`, user)
}

func TestFileStore_Remove(t *testing.T) {
	path := tempStatePath(t)

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyToken, "tok"))
	require.NoError(t, s.Remove(KeyToken))

	_, ok := s.Get(KeyToken)
	assert.False(t, ok)

	s2, err := NewFileStore(path)
	require.NoError(t, err)
	_, ok = s2.Get(KeyToken)
	assert.False(t, ok, "removal is persisted")
}

func TestFileStore_RemoveAbsentKeyIsNoop(t *testing.T) {
	s, err := NewFileStore(tempStatePath(t))
	require.NoError(t, err)
	assert.NoError(t, s.Remove("never-set"))
}

func TestFileStore_FileMode(t *testing.T) {
	path := tempStatePath(t)

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyToken, "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "token file must not be world readable")
}

func TestFileStore_WritesVersionedFormat(t *testing.T) {
	path := tempStatePath(t)

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyToken, "tok"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var sf struct {
		Version string            `json:"version"`
		Entries map[string]string `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(data, &sf))
	assert.Equal(t, StateVersion, sf.Version)
	assert.Equal(t, "tok", sf.Entries[KeyToken])
}

func TestFileStore_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFilename)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestMemStore_RoundTrip(t *testing.T) {
	s := NewMemStore()

	require.NoError(t, s.Set("k", "v"))
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, s.Remove("k"))
	_, ok = s.Get("k")
	assert.False(t, ok)
}
