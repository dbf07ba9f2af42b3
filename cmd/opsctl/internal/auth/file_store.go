package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Sarvesh5273/PhantomOps/pkg/authflow"
	"github.com/Sarvesh5273/PhantomOps/pkg/identity"
)

const sessionFile = "session.json"

// Snapshot is the persisted slice of client auth state: the credential
// pair, an identity snapshot, and a display name staged during sign-up.
type Snapshot struct {
	AccessToken string             `json:"access_token,omitempty"`
	ExpiresAt   time.Time          `json:"expires_at,omitempty"`
	Role        string             `json:"role,omitempty"`
	Identity    *identity.Identity `json:"identity,omitempty"`
	StagedName  string             `json:"staged_name,omitempty"`
}

// FileStore persists the auth snapshot to a JSON file so a fresh process
// can warm-start the provider session. Deleted entirely on sign-out.
//
// FileStore also implements authflow.NameStash for the role resolver's
// staged-name write-back.
type FileStore struct {
	path string

	mu     sync.Mutex
	cached *Snapshot
}

var _ authflow.NameStash = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted in the user's home directory.
func NewFileStore() (*FileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	dir := filepath.Join(home, ".phantomops")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create .phantomops directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, sessionFile)}, nil
}

// NewFileStoreAt creates a FileStore at an explicit path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the snapshot to disk.
func (s *FileStore) Save(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(snap)
}

// Load reads the snapshot from disk. A missing file returns (nil, nil).
func (s *FileStore) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Delete removes the persisted snapshot entirely, staged name included.
func (s *FileStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(s.path)
}

// StageName records a display name to be written into the user record
// after the identity is confirmed.
func (s *FileStore) StageName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.read()
	if err != nil {
		return err
	}
	if snap == nil {
		snap = &Snapshot{}
	}
	snap.StagedName = name
	return s.write(snap)
}

// StagedName implements authflow.NameStash.
func (s *FileStore) StagedName() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.read()
	if err != nil || snap == nil || snap.StagedName == "" {
		return "", false
	}
	return snap.StagedName, true
}

// ClearStagedName implements authflow.NameStash.
func (s *FileStore) ClearStagedName() {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.read()
	if err != nil || snap == nil {
		return
	}
	snap.StagedName = ""
	_ = s.write(snap)
}

func (s *FileStore) read() (*Snapshot, error) {
	if s.cached != nil {
		cp := *s.cached
		return &cp, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session file: %w", err)
	}
	s.cached = &snap
	cp := snap
	return &cp, nil
}

func (s *FileStore) write(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	cp := *snap
	s.cached = &cp
	return nil
}
