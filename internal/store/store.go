// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package store defines the node's opaque key/value storage contract,
// kept backend-agnostic the way the decred/exccd family separates its
// chain-data database interface from the concrete driver underneath
// it, with a goleveldb-backed reference implementation.
package store

import "errors"

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("store: key not found")

// KVStore is the minimal byte-oriented key/value contract every
// on-disk component (UTXO set, block index, contract state trie,
// commitment log) is built against, so the backend can be swapped
// without touching callers.
type KVStore interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// Put writes key/value, replacing any existing value.
	Put(key, value []byte) error

	// Delete removes key. It is not an error for key to be absent.
	Delete(key []byte) error

	// Has reports whether key is present without copying its value.
	Has(key []byte) (bool, error)

	// NewIterator returns an iterator over every key with the given
	// prefix, ordered lexicographically. A nil prefix iterates the
	// entire keyspace.
	NewIterator(prefix []byte) Iterator

	// NewBatch returns a write batch for atomic multi-key updates.
	NewBatch() Batch

	// Close releases the underlying resources.
	Close() error
}

// Iterator walks a KVStore's keyspace in order. Callers must call
// Release when done.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}

// Batch accumulates Put/Delete operations for atomic application via
// Write.
type Batch interface {
	Put(key, value []byte)
	Delete(key []byte)
	Write() error
	Reset()
}
