// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package evm

import (
	"crypto/sha256"
	"sort"
)

// Account is one address's balance, nonce, and code in the world
// state.
type Account struct {
	Nonce   uint64
	Balance Word
	Code    []byte
}

// storageKey pairs an address with a storage slot for the flat
// storage map.
type storageKey struct {
	addr Address
	key  Word
}

// State is the OBOLOS world state: every account and every non-zero
// storage entry. Writing zero to a storage slot removes the entry
// entirely, matching EVM convention (an absent entry reads as zero).
type State struct {
	accounts map[Address]*Account
	storage  map[storageKey]Word
}

// NewState returns an empty world state.
func NewState() *State {
	return &State{
		accounts: make(map[Address]*Account),
		storage:  make(map[storageKey]Word),
	}
}

// Account returns a copy of addr's account, or (Account{}, false) if
// it does not exist.
func (s *State) Account(addr Address) (Account, bool) {
	a, ok := s.accounts[addr]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

// SetAccount replaces addr's account wholesale.
func (s *State) SetAccount(addr Address, a Account) {
	cp := a
	s.accounts[addr] = &cp
}

// AccountExists reports whether addr has an entry in the world state.
func (s *State) AccountExists(addr Address) bool {
	_, ok := s.accounts[addr]
	return ok
}

// DeleteAccount removes addr and every storage entry under it.
func (s *State) DeleteAccount(addr Address) {
	delete(s.accounts, addr)
	for k := range s.storage {
		if k.addr == addr {
			delete(s.storage, k)
		}
	}
}

// Balance returns addr's balance (zero if the account does not exist).
func (s *State) Balance(addr Address) Word {
	if a, ok := s.accounts[addr]; ok {
		return a.Balance
	}
	return Word{}
}

// SetBalance sets addr's balance, creating the account if absent.
func (s *State) SetBalance(addr Address, balance Word) {
	s.ensureAccount(addr).Balance = balance
}

// Nonce returns addr's nonce (zero if the account does not exist).
func (s *State) Nonce(addr Address) uint64 {
	if a, ok := s.accounts[addr]; ok {
		return a.Nonce
	}
	return 0
}

// SetNonce sets addr's nonce, creating the account if absent.
func (s *State) SetNonce(addr Address, nonce uint64) {
	s.ensureAccount(addr).Nonce = nonce
}

// Code returns addr's contract bytecode (nil if the account does not
// exist or has none).
func (s *State) Code(addr Address) []byte {
	if a, ok := s.accounts[addr]; ok {
		return a.Code
	}
	return nil
}

// SetCode sets addr's contract bytecode, creating the account if
// absent.
func (s *State) SetCode(addr Address, code []byte) {
	s.ensureAccount(addr).Code = code
}

func (s *State) ensureAccount(addr Address) *Account {
	a, ok := s.accounts[addr]
	if !ok {
		a = &Account{}
		s.accounts[addr] = a
	}
	return a
}

// GetStorage returns addr's value at key, or the zero Word if absent.
func (s *State) GetStorage(addr Address, key Word) Word {
	return s.storage[storageKey{addr, key}]
}

// SetStorage writes value at (addr, key). Writing the zero Word
// removes the entry, per spec.md section 4.6.
func (s *State) SetStorage(addr Address, key, value Word) {
	k := storageKey{addr, key}
	if value.IsZero() {
		delete(s.storage, k)
		return
	}
	s.storage[k] = value
}

// Root computes a deterministic summary of the world state: accounts
// sorted by address, each folded together with its storage entries
// sorted by key, via SHA-256 over the ordered stream. The tree shape
// is implementation-defined (spec.md section 4.6); this fold is stable
// under reordering and produces equal roots for equal states.
func (s *State) Root() [32]byte {
	addrs := make([]Address, 0, len(s.accounts))
	for addr := range s.accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return lessBytes(addrs[i][:], addrs[j][:])
	})

	h := sha256.New()
	for _, addr := range addrs {
		acct := s.accounts[addr]
		h.Write(addr[:])
		var nonceBytes [8]byte
		putUint64(nonceBytes[:], acct.Nonce)
		h.Write(nonceBytes[:])
		h.Write(acct.Balance[:])
		h.Write(acct.Code)

		keys := make([]Word, 0)
		for k := range s.storage {
			if k.addr == addr {
				keys = append(keys, k.key)
			}
		}
		sort.Slice(keys, func(i, j int) bool {
			return lessBytes(keys[i][:], keys[j][:])
		})
		for _, k := range keys {
			v := s.storage[storageKey{addr, k}]
			h.Write(k[:])
			h.Write(v[:])
		}
	}

	var root [32]byte
	copy(root[:], h.Sum(nil))
	return root
}

func lessBytes(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func putUint64(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(v >> (56 - 8*i))
	}
}

// Snapshot is a deep copy of the world state, captured for a later
// Restore.
type Snapshot struct {
	accounts map[Address]Account
	storage  map[storageKey]Word
}

// Snapshot captures a deep copy of the current world state.
func (s *State) Snapshot() Snapshot {
	accounts := make(map[Address]Account, len(s.accounts))
	for addr, a := range s.accounts {
		cp := *a
		cp.Code = append([]byte(nil), a.Code...)
		accounts[addr] = cp
	}
	storage := make(map[storageKey]Word, len(s.storage))
	for k, v := range s.storage {
		storage[k] = v
	}
	return Snapshot{accounts: accounts, storage: storage}
}

// Restore replaces the world state wholesale with snap's contents.
func (s *State) Restore(snap Snapshot) {
	accounts := make(map[Address]*Account, len(snap.accounts))
	for addr, a := range snap.accounts {
		cp := a
		cp.Code = append([]byte(nil), a.Code...)
		accounts[addr] = &cp
	}
	storage := make(map[storageKey]Word, len(snap.storage))
	for k, v := range snap.storage {
		storage[k] = v
	}
	s.accounts = accounts
	s.storage = storage
}
