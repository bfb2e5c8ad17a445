package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/samcarey/aetherweave/internal/view"
)

// AppKey is the key the TUI session is stored under.
const AppKey = "app"

var (
	ErrUnknownBackend = errors.New("storage: unknown session backend")
	ErrCorruptSession = errors.New("storage: corrupt session")
)

// KV is a small string key/value store.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Close() error
}

// Session is the UI state that survives restarts. Both fields are
// optional; a missing field means "no cached view" or "nothing selected".
type Session struct {
	View     *view.View `json:"view,omitempty"`
	Selected string     `json:"selected,omitempty"`
}

// LoadSession reads the session under AppKey. A missing key yields the
// zero session. An unreadable value also yields the zero session, together
// with an error wrapping ErrCorruptSession.
func LoadSession(kv KV) (Session, error) {
	raw, ok, err := kv.Get(AppKey)
	if err != nil || !ok {
		return Session{}, err
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if s.View != nil && !(s.View.Scale > 0) {
		s.View = nil
	}
	return s, nil
}

func SaveSession(kv KV, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return kv.Set(AppKey, string(data))
}

// OpenKV opens the named backend ("file" or "sqlite") at path.
func OpenKV(backend, path string) (KV, error) {
	switch backend {
	case "", "file":
		kv, err := OpenFileKV(path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case "sqlite":
		kv, err := OpenSQLiteKV(path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// FileKV keeps all keys in one JSON object on disk and rewrites the file
// on every Set.
type FileKV struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

func OpenFileKV(path string) (*FileKV, error) {
	kv := &FileKV{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return kv, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return kv, nil
	}
	if err := json.Unmarshal(raw, &kv.data); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", path, err)
	}
	return kv, nil
}

func (kv *FileKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *FileKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return kv.flush()
}

func (kv *FileKV) flush() error {
	if err := os.MkdirAll(filepath.Dir(kv.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(kv.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := kv.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, kv.path)
}

func (kv *FileKV) Close() error { return nil }
