/*
	Store is a directory-backed cache of decoded libraries, adapting
	the teacher's server.go Server -- which keyed open *Logbase values
	by filesystem path so repeat requests skip a re-open -- to GDSII
	files, with the TCP listener half of that file dropped entirely
	(spec.md §1 excludes any network service; DESIGN.md).
*/
package gdsii

import (
	"context"
	"os"
	"path/filepath"
)

// Store caches libraries decoded from files under one directory, by
// file name.  It is not concurrency-safe: like Read and Write
// themselves (spec.md §5), a caller sharing a Store across goroutines
// must serialize access itself.
type Store struct {
	dir   string
	cache map[string]*Library
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, cache: make(map[string]*Library)}
}

// Open returns the library named name, reading it from disk on first
// request and serving the cached value afterward.
func (s *Store) Open(ctx context.Context, name string) (*Library, error) {
	if lib, ok := s.cache[name]; ok {
		return lib, nil
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lib, err := Read(ctx, f)
	if err != nil {
		return nil, err
	}
	s.cache[name] = lib
	return lib, nil
}

// Save encodes lib to name under the store's directory and refreshes
// the cache entry.
func (s *Store) Save(ctx context.Context, name string, lib *Library, scale *Scale) error {
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Write(ctx, f, lib, scale); err != nil {
		return err
	}
	s.cache[name] = lib
	return nil
}

// Evict drops name from the cache, forcing the next Open to re-read
// it from disk.
func (s *Store) Evict(name string) {
	delete(s.cache, name)
}
