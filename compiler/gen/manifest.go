package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// ManifestFile is the name of the generation manifest in the target directory.
const ManifestFile = ".repogen.manifest"

// manifestVersion is bumped when the manifest encoding changes.
const manifestVersion = 1

// Manifest records the content hash of every file written by the last
// generation run. Files whose hash did not change are not rewritten, and
// files that are no longer generated are removed.
type Manifest struct {
	Version int               `msgpack:"version"`
	Files   map[string]string `msgpack:"files"`

	mu sync.Mutex
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{Version: manifestVersion, Files: make(map[string]string)}
}

// ReadManifest reads the manifest of dir. A missing or outdated manifest
// yields an empty one.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return NewManifest(), nil
	}
	if err != nil {
		return nil, NewGenerationError("manifest", ManifestFile, "read", err)
	}
	m := NewManifest()
	if err := msgpack.Unmarshal(data, m); err != nil {
		return nil, NewGenerationError("manifest", ManifestFile, "decode", err)
	}
	if m.Version != manifestVersion || m.Files == nil {
		return NewManifest(), nil
	}
	return m, nil
}

// Write stores the manifest in dir.
func (m *Manifest) Write(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := msgpack.Marshal(m)
	if err != nil {
		return NewGenerationError("manifest", ManifestFile, "encode", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return NewGenerationError("manifest", ManifestFile, "write", err)
	}
	return nil
}

// Unchanged reports whether f was recorded with the same content and still
// exists in dir.
func (m *Manifest) Unchanged(dir string, f *File) bool {
	m.mu.Lock()
	sum, ok := m.Files[f.Name]
	m.mu.Unlock()
	if !ok || sum != digest(f.Content) {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, f.Name))
	return err == nil
}

// Record stores the content hash of f.
func (m *Manifest) Record(f *File) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[f.Name] = digest(f.Content)
}

// Stale returns the files recorded in m that are missing from next, sorted.
func (m *Manifest) Stale(next *Manifest) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stale []string
	for name := range m.Files {
		if _, ok := next.Files[name]; !ok {
			stale = append(stale, name)
		}
	}
	slices.Sort(stale)
	return stale
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
