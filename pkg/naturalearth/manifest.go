package naturalearth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	manifestName    = "manifest.msgpack"
	manifestVersion = 1
)

// ManifestEntry records one dataset present in the disk cache.
type ManifestEntry struct {
	Key       string    `msgpack:"key"`
	Resource  Resource  `msgpack:"resource"`
	URL       string    `msgpack:"url"`
	Path      string    `msgpack:"path"` // .shp file or .zip archive
	Bytes     int64     `msgpack:"bytes"`
	Extracted bool      `msgpack:"extracted"`
	FetchedAt time.Time `msgpack:"fetched_at"`
}

// Manifest is the index of the disk cache.
type Manifest struct {
	Version int                      `msgpack:"version"`
	Entries map[string]ManifestEntry `msgpack:"entries"`
}

func newManifest() *Manifest {
	return &Manifest{Version: manifestVersion, Entries: make(map[string]ManifestEntry)}
}

// readManifest loads the manifest at path. A missing file yields an empty
// manifest.
func readManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return newManifest(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m := newManifest()
	if err := msgpack.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("manifest %s: unsupported version %d", path, m.Version)
	}
	if m.Entries == nil {
		m.Entries = make(map[string]ManifestEntry)
	}
	return m, nil
}

// write saves the manifest atomically.
func (m *Manifest) write(path string) error {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return os.Rename(tmp, path)
}

// sorted returns the entries ordered by key.
func (m *Manifest) sorted() []ManifestEntry {
	out := make([]ManifestEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
