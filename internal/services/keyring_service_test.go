package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func newKeyringFixture(t *testing.T) (*KeyringService, string) {
	t.Helper()
	keyring.MockInit()
	dir := t.TempDir()
	s := NewKeyringService(dir)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s, dir
}

func TestKeyringService_Lifecycle(t *testing.T) {
	s, _ := newKeyringFixture(t)

	require.NoError(t, s.Store("openai", "sk-1"))
	require.NoError(t, s.Store(" OpenAI ", "sk-2"))

	key, err := s.Lookup("OPENAI")
	require.NoError(t, err)
	assert.Equal(t, "sk-2", key)

	keys, err := s.Keys()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "openai", keys[0].Provider)
	assert.Equal(t, 2026, keys[0].StoredAt.Year())

	require.NoError(t, s.Delete("openai"))
	_, err = s.Lookup("openai")
	assert.ErrorIs(t, err, ErrNoStoredKey)

	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestKeyringService_IndexIsSorted(t *testing.T) {
	s, _ := newKeyringFixture(t)

	for _, p := range []string{"openai", "anthropic", "gemini"} {
		require.NoError(t, s.Store(p, "sk-"+p))
	}

	keys, err := s.Keys()
	require.NoError(t, err)
	var names []string
	for _, k := range keys {
		names = append(names, k.Provider)
	}
	assert.Equal(t, []string{"anthropic", "gemini", "openai"}, names)
}

func TestKeyringService_DeleteMissingKey(t *testing.T) {
	s, _ := newKeyringFixture(t)

	err := s.Delete("openai")
	assert.ErrorIs(t, err, ErrNoStoredKey)
	assert.Contains(t, err.Error(), "openai")
}

func TestKeyringService_PrunesStaleEntries(t *testing.T) {
	s, dir := newKeyringFixture(t)

	require.NoError(t, s.Store("openai", "sk-1"))
	require.NoError(t, s.Store("gemini", "sk-2"))
	require.NoError(t, keyring.Delete(keyringService, "gemini"))

	keys, err := s.Keys()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "openai", keys[0].Provider)

	data, err := os.ReadFile(filepath.Join(dir, keyIndexFile))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "gemini")
}

func TestKeyringService_CorruptIndex(t *testing.T) {
	s, dir := newKeyringFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyIndexFile), []byte("not json"), 0o600))

	_, err := s.Keys()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt key index")
}

func TestKeyringService_Validation(t *testing.T) {
	s, _ := newKeyringFixture(t)

	assert.Error(t, s.Store("openai", "  "))
	assert.ErrorIs(t, s.Store("", "sk"), errNoProvider)
	_, err := s.Lookup(" ")
	assert.ErrorIs(t, err, errNoProvider)
	assert.ErrorIs(t, s.Delete(""), errNoProvider)
}
