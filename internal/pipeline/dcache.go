package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"cdecomp/internal/dla"
)

// DiskCache persists a frozen DLA graph's Snapshot between CLI invocations,
// keyed by a content digest of the translation unit it was built from.
// Thread-safe for concurrent access, since the host driver may dispatch one
// cache lookup per function concurrently (§5).
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Digest identifies one translation unit's content for cache-key purposes.
type Digest [sha256.Size]byte

// DigestBytes hashes raw content into a Digest.
func DigestBytes(content []byte) Digest {
	return Digest(sha256.Sum256(content))
}

// OpenDiskCache opens (creating if absent) a disk cache rooted at dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "graphs", hex.EncodeToString(key[:])+".mp")
}

// Put serializes a graph's snapshot and writes it under key, atomically.
func (c *DiskCache) Put(key Digest, g *dla.Graph) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(g.Snapshot()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads and restores the graph cached under key, if present.
func (c *DiskCache) Get(key Digest) (*dla.Graph, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var snap dla.Snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return nil, false, err
	}
	g, err := dla.Restore(snap)
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// DropAll removes every cached snapshot, for use after a schema bump.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "graphs"))
}
