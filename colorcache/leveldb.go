package colorcache

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

// Key prefix keeps coloring blobs distinguishable if the database is ever
// shared with other record kinds.
const prefixColoring = "c|"

// DB is a LevelDB-backed Cache for persistence across processes.
// LevelDB is single-writer: one process owns an open DB at a time.
type DB struct {
	db *leveldb.DB
}

// OpenDB opens (or creates) a LevelDB database at path, a directory.
func OpenDB(path string) (*DB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("colorcache: open %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// Close releases the database. The DB is unusable afterwards.
func (d *DB) Close() error {
	return d.db.Close()
}

// Save implements Cache.
func (d *DB) Save(key string, e *Entry) error {
	blob, err := Encode(e)
	if err != nil {
		return err
	}
	if err = d.db.Put([]byte(prefixColoring+key), blob, nil); err != nil {
		return fmt.Errorf("colorcache: save %q: %w", key, err)
	}
	return nil
}

// Load implements Cache.
func (d *DB) Load(key string) (*Entry, error) {
	blob, err := d.db.Get([]byte(prefixColoring+key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: key %q", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("colorcache: load %q: %w", key, err)
	}
	return Decode(blob)
}
