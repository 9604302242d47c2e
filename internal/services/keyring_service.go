package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "projectarchitect"
	keyIndexFile   = "keys.json"
)

var (
	// ErrNoStoredKey reports that the keyring holds no key for a provider.
	ErrNoStoredKey = errors.New("no API key stored")
	errNoProvider  = errors.New("provider is required")
)

// StoredKey is one entry of the key index. The secret itself only lives in
// the OS keyring.
type StoredKey struct {
	Provider string    `json:"provider"`
	StoredAt time.Time `json:"storedAt"`
}

// keyIndex is kept sorted by provider with no duplicates.
type keyIndex struct {
	Keys []StoredKey `json:"keys"`
}

func (ix *keyIndex) put(provider string, at time.Time) {
	i, found := slices.BinarySearchFunc(ix.Keys, provider, func(k StoredKey, p string) int {
		return strings.Compare(k.Provider, p)
	})
	if found {
		ix.Keys[i].StoredAt = at
		return
	}
	ix.Keys = slices.Insert(ix.Keys, i, StoredKey{Provider: provider, StoredAt: at})
}

func (ix *keyIndex) drop(provider string) bool {
	n := len(ix.Keys)
	ix.Keys = slices.DeleteFunc(ix.Keys, func(k StoredKey) bool { return k.Provider == provider })
	return len(ix.Keys) != n
}

// KeyringService stores provider API keys in the OS keyring and records which
// providers have one in keys.json, since keyrings cannot be listed portably.
type KeyringService struct {
	configDir string
	now       func() time.Time
	mu        sync.Mutex
}

// NewKeyringService keeps the index under configDir; an empty value selects
// <user config dir>/projectarchitect.
func NewKeyringService(configDir string) *KeyringService {
	return &KeyringService{configDir: configDir, now: time.Now}
}

func normalizeProvider(provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return "", errNoProvider
	}
	return provider, nil
}

// Store saves key for provider, replacing any previous one.
func (s *KeyringService) Store(provider, key string) error {
	provider, err := normalizeProvider(provider)
	if err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("API key is empty")
	}
	if err := keyring.Set(keyringService, provider, key); err != nil {
		return fmt.Errorf("failed to store key for %s: %w", provider, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ix, err := s.readIndex()
	if err != nil {
		return err
	}
	ix.put(provider, s.now().UTC())
	return s.writeIndex(ix)
}

// Lookup returns the key for provider, or an error wrapping ErrNoStoredKey.
func (s *KeyringService) Lookup(provider string) (string, error) {
	provider, err := normalizeProvider(provider)
	if err != nil {
		return "", err
	}
	key, err := keyring.Get(keyringService, provider)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w for %s", ErrNoStoredKey, provider)
	}
	return key, err
}

// Delete removes the key for provider. The index entry is dropped even when
// the keyring had already lost the secret; that case still reports
// ErrNoStoredKey.
func (s *KeyringService) Delete(provider string) error {
	provider, err := normalizeProvider(provider)
	if err != nil {
		return err
	}
	missing := false
	if err := keyring.Delete(keyringService, provider); err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to delete key for %s: %w", provider, err)
		}
		missing = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ix, err := s.readIndex()
	if err != nil {
		return err
	}
	if ix.drop(provider) {
		if err := s.writeIndex(ix); err != nil {
			return err
		}
	}
	if missing {
		return fmt.Errorf("%w for %s", ErrNoStoredKey, provider)
	}
	return nil
}

// Keys lists the indexed providers whose secret is still in the keyring.
// Stale entries are pruned from the index.
func (s *KeyringService) Keys() ([]StoredKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ix, err := s.readIndex()
	if err != nil {
		return nil, err
	}

	live := make([]StoredKey, 0, len(ix.Keys))
	for _, k := range ix.Keys {
		if _, err := keyring.Get(keyringService, k.Provider); err != nil {
			continue
		}
		live = append(live, k)
	}
	if len(live) != len(ix.Keys) {
		if err := s.writeIndex(keyIndex{Keys: live}); err != nil {
			return nil, err
		}
	}
	return live, nil
}

func (s *KeyringService) indexPath() (string, error) {
	dir := s.configDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, keyringService)
	}
	return filepath.Join(dir, keyIndexFile), nil
}

func (s *KeyringService) readIndex() (keyIndex, error) {
	var ix keyIndex
	path, err := s.indexPath()
	if err != nil {
		return ix, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ix, nil
	}
	if err != nil {
		return ix, err
	}
	if err := json.Unmarshal(data, &ix); err != nil {
		return ix, fmt.Errorf("corrupt key index %s: %w", path, err)
	}
	slices.SortFunc(ix.Keys, func(a, b StoredKey) int { return strings.Compare(a.Provider, b.Provider) })
	ix.Keys = slices.CompactFunc(ix.Keys, func(a, b StoredKey) bool { return a.Provider == b.Provider })
	return ix, nil
}

func (s *KeyringService) writeIndex(ix keyIndex) error {
	path, err := s.indexPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(ix, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
