package progress

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned by a Backend when a player has no stored progress.
var ErrNotFound = errors.New("progress not found")

// Backend is durable storage keyed by player name.
type Backend interface {
	Read(player string) ([]byte, error)
	Write(player string, data []byte) error
	List() ([]string, error)
}

// FileBackend keeps one JSON document per player in a directory.
type FileBackend struct {
	mu  sync.Mutex
	dir string
}

// NewFileBackend stores progress files under dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Dir returns the storage directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) path(player string) string {
	return filepath.Join(b.dir, SanitizePlayer(player)+".json")
}

// Read returns the stored document, or ErrNotFound.
func (b *FileBackend) Read(player string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := os.ReadFile(b.path(player))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	return data, nil
}

// Write replaces the stored document atomically.
func (b *FileBackend) Write(player string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return atomicWriteFile(b.path(player), data, 0o644)
}

// List returns the stored player names, sorted.
func (b *FileBackend) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	var players []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		players = append(players, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(players)
	return players, nil
}

// atomicWriteFile writes to a temp file in the same directory and renames
// it over filename.
func atomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-progress-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}

// SanitizePlayer maps a player name to a safe file name.
func SanitizePlayer(player string) string {
	var sb strings.Builder
	for _, r := range player {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "player"
	}
	return sb.String()
}

// MemoryBackend keeps progress in memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte
	// WriteErr, when set, makes every Write fail.
	WriteErr error
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Read(player string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.data[player]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Write(player string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.WriteErr != nil {
		return b.WriteErr
	}
	b.data[player] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) List() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	players := make([]string, 0, len(b.data))
	for p := range b.data {
		players = append(players, p)
	}
	sort.Strings(players)
	return players, nil
}
