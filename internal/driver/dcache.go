package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// diskCacheSchemaVersion is bumped whenever DiskPayload changes shape.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores function snapshots on disk, keyed by function name, so a
// later run can tell which functions changed.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached function.
type DiskPayload struct {
	Schema   uint16        `msgpack:"schema"`
	Digest   Digest        `msgpack:"digest"`
	Snapshot *FuncSnapshot `msgpack:"snapshot"`
	Stored   time.Time     `msgpack:"stored"`
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(name string) string {
	return filepath.Join(c.dir, "funcs", filepath.Base(name)+".mp")
}

// Put writes a payload for snap, replacing any previous one atomically.
func (c *DiskCache) Put(snap *FuncSnapshot) error {
	if c == nil {
		return nil
	}
	digest, err := snap.Digest()
	if err != nil {
		return err
	}
	payload := DiskPayload{Schema: diskCacheSchemaVersion, Digest: digest, Snapshot: snap, Stored: time.Now().UTC()}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(snap.Name)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) //nolint:errcheck // gone after a successful rename

	if err = msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close() //nolint:errcheck,gosec // the encode error wins
		return fmt.Errorf("cache %s: %w", snap.Name, err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get loads the payload for the named function. Missing entries and entries
// written by another schema report false.
func (c *DiskCache) Get(name string) (*DiskPayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close() //nolint:errcheck // read-only

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("cache %s: %w", name, err)
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// Change classifies a snapshot against the cache.
type Change string

const (
	ChangeNew       Change = "new"
	ChangeChanged   Change = "changed"
	ChangeUnchanged Change = "unchanged"
)

// Compare reports how snap differs from the cached entry of the same name.
func (c *DiskCache) Compare(snap *FuncSnapshot) (Change, error) {
	digest, err := snap.Digest()
	if err != nil {
		return "", err
	}
	prev, ok, err := c.Get(snap.Name)
	switch {
	case err != nil:
		return "", err
	case !ok:
		return ChangeNew, nil
	case prev.Digest != digest:
		return ChangeChanged, nil
	default:
		return ChangeUnchanged, nil
	}
}
