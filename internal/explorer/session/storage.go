package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/country-explorer/internal/domain"
)

const (
	sessionFile  = "session.json"
	darkModeFile = "darkmode.json"
)

// Storage - durable key-value slots for the explorer: one for the bearer
// credential plus identity, one for the dark-mode preference. Both survive
// process restarts and are the only persisted client state.
type Storage struct {
	dir string
}

func NewStorage(dir string) (*Storage, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		dir = filepath.Join(home, ".country-explorer")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// LoadSession returns the persisted session, or nil when the slot is empty
// or unreadable. A corrupt slot is treated as absent, not as a failure.
func (s *Storage) LoadSession() *domain.Session {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if err != nil {
		return nil
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Token == "" {
		return nil
	}
	return &sess
}

func (s *Storage) SaveSession(sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, sessionFile), data, 0o600)
}

func (s *Storage) ClearSession() error {
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *Storage) LoadDarkMode() bool {
	data, err := os.ReadFile(filepath.Join(s.dir, darkModeFile))
	if err != nil {
		return false
	}
	var enabled bool
	if err := json.Unmarshal(data, &enabled); err != nil {
		return false
	}
	return enabled
}

func (s *Storage) SaveDarkMode(enabled bool) error {
	data, _ := json.Marshal(enabled)
	return os.WriteFile(filepath.Join(s.dir, darkModeFile), data, 0o600)
}
