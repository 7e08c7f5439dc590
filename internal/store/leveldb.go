// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB is a KVStore backed by syndtr/goleveldb, the embedded engine
// the decred/exccd family uses for its own chain database.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if absent) a LevelDB-backed store at
// path.
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

// Get implements KVStore.
func (l *LevelDB) Get(key []byte) ([]byte, error) {
	v, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	return v, err
}

// Put implements KVStore.
func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

// Delete implements KVStore.
func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

// Has implements KVStore.
func (l *LevelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

// NewIterator implements KVStore.
func (l *LevelDB) NewIterator(prefix []byte) Iterator {
	var rng *util.Range
	if prefix != nil {
		rng = util.BytesPrefix(prefix)
	}
	return &levelDBIterator{it: l.db.NewIterator(rng, nil)}
}

// NewBatch implements KVStore.
func (l *LevelDB) NewBatch() Batch {
	return &levelDBBatch{db: l.db, batch: new(leveldb.Batch)}
}

// Close implements KVStore.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

type levelDBIterator struct {
	it iterator.Iterator
}

func (i *levelDBIterator) Next() bool      { return i.it.Next() }
func (i *levelDBIterator) Key() []byte     { return i.it.Key() }
func (i *levelDBIterator) Value() []byte   { return i.it.Value() }
func (i *levelDBIterator) Error() error    { return i.it.Error() }
func (i *levelDBIterator) Release()        { i.it.Release() }

type levelDBBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *levelDBBatch) Put(key, value []byte) { b.batch.Put(key, value) }
func (b *levelDBBatch) Delete(key []byte)      { b.batch.Delete(key) }
func (b *levelDBBatch) Write() error           { return b.db.Write(b.batch, nil) }
func (b *levelDBBatch) Reset()                 { b.batch.Reset() }
