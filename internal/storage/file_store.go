package storage

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
)

const sealedPrefix = "sealed:"

// FileStore keeps the credential in a small JSON key/value file. When built
// with a secret, values are sealed with secretbox before they touch disk.
type FileStore struct {
	path string
	key  *[32]byte
	mu   sync.Mutex
}

func NewFileStore(path string, secret string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("credential file path cannot be empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve credential file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o700); err != nil {
		return nil, fmt.Errorf("create credential directory: %w", err)
	}

	store := &FileStore{path: absPath}
	if secret != "" {
		key := sha256.Sum256([]byte(secret))
		store.key = &key
	}

	return store, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.readLocked()
	if err != nil {
		return "", err
	}

	value := slots[CredentialKey]
	if value == "" {
		return "", ErrNoCredential
	}

	return s.open(value)
}

func (s *FileStore) Save(credential string) error {
	if strings.TrimSpace(credential) == "" {
		return fmt.Errorf("refusing to store an empty credential")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.readLocked()
	if err != nil && !errors.Is(err, ErrNoCredential) {
		return err
	}
	if slots == nil {
		slots = map[string]string{}
	}

	sealed, err := s.seal(credential)
	if err != nil {
		return err
	}
	slots[CredentialKey] = sealed

	return s.writeLocked(slots)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.readLocked()
	if errors.Is(err, ErrNoCredential) {
		return nil
	}
	if err != nil {
		// An unreadable slot is replaced rather than left behind.
		return s.writeLocked(map[string]string{})
	}

	if _, exists := slots[CredentialKey]; !exists {
		return nil
	}
	delete(slots, CredentialKey)

	return s.writeLocked(slots)
}

func (s *FileStore) readLocked() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrNoCredential
	}

	slots := map[string]string{}
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("decode credential file: %w", err)
	}

	return slots, nil
}

func (s *FileStore) writeLocked(slots map[string]string) error {
	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credential-*")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, s.path)
}

func (s *FileStore) seal(credential string) (string, error) {
	if s.key == nil {
		return credential, nil
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	box := secretbox.Seal(nonce[:], []byte(credential), &nonce, s.key)
	return sealedPrefix + base64.StdEncoding.EncodeToString(box), nil
}

func (s *FileStore) open(value string) (string, error) {
	if !strings.HasPrefix(value, sealedPrefix) {
		return value, nil
	}
	if s.key == nil {
		return "", fmt.Errorf("credential is sealed but no key is configured")
	}

	box, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil || len(box) < 24 {
		return "", fmt.Errorf("sealed credential is corrupt")
	}

	var nonce [24]byte
	copy(nonce[:], box[:24])
	opened, ok := secretbox.Open(nil, box[24:], &nonce, s.key)
	if !ok {
		return "", fmt.Errorf("sealed credential cannot be opened with the configured key")
	}

	return string(opened), nil
}
