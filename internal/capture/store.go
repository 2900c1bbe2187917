package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"xplore/internal/models/response_models"
)

// StoredSession is what the client remembers between runs.
type StoredSession struct {
	Token     string                       `json:"token"`
	ExpiresAt string                       `json:"expires_at,omitempty"`
	User      response_models.UserResponse `json:"usuario"`
}

type SessionStore struct {
	mu   sync.Mutex
	path string
}

// DefaultSessionPath is $XDG_CONFIG_HOME/xplore/session.json, or the platform
// equivalent.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "xplore", "session.json"), nil
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

func (s *SessionStore) Path() string { return s.path }

// Load returns nil, nil when nobody is signed in.
func (s *SessionStore) Load() (*StoredSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess StoredSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.Token == "" {
		return nil, nil
	}
	return &sess, nil
}

func (s *SessionStore) Save(sess *StoredSession) error {
	if sess == nil || sess.Token == "" {
		return errors.New("session has no token")
	}
	normalized := *sess
	normalized.User.Email = strings.ToLower(strings.TrimSpace(normalized.User.Email))
	normalized.User.DisplayName = strings.TrimSpace(normalized.User.DisplayName)

	raw, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
