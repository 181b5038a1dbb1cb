package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// StorageKey is the durable slot holding the signed-in user.
const StorageKey = "auth_user"

// Persister is a durable key-value slot store.
type Persister interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, value []byte) error
	Remove(key string) error
}

// FilePersister keeps one JSON file per key under dir.
type FilePersister struct {
	dir string
}

func NewFilePersister(dir string) *FilePersister {
	return &FilePersister{dir: dir}
}

func (p *FilePersister) path(key string) string {
	return filepath.Join(p.dir, key+".json")
}

func (p *FilePersister) Load(key string) ([]byte, bool, error) {
	b, err := os.ReadFile(p.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Save writes through a temp file and rename so a crash never leaves a
// half-written session behind.
func (p *FilePersister) Save(key string, value []byte) error {
	if err := os.MkdirAll(p.dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(p.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, p.path(key))
}

func (p *FilePersister) Remove(key string) error {
	err := os.Remove(p.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryPersister is a Persister for tests and throwaway sessions.
type MemoryPersister struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[string][]byte)}
}

func (p *MemoryPersister) Load(key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (p *MemoryPersister) Save(key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = append([]byte(nil), value...)
	return nil
}

func (p *MemoryPersister) Remove(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, key)
	return nil
}
