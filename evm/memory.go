// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package evm

import "math"

// memoryWordGas is the gas charged per new 32-byte word of memory
// brought into scope by an expansion.
const memoryWordGas = 3

// checkedAdd returns a+b and true, or (0, false) if the addition
// overflows uint64. Offsets and lengths taken from the stack are
// attacker-controlled up to 2^256-1 but truncated to a uint64 via
// Word.Uint64 before reaching memory; without this guard offset+size
// can wrap to a small value, expand() cheaply "succeeds" against the
// wrapped size, and the subsequent slice using the real, un-wrapped
// offset panics with a slice-bounds-out-of-range instead of failing
// with OutOfGas as spec section 4.6/7 requires.
func checkedAdd(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// memory is byte-addressable and expands in 32-byte words; expansion
// beyond the current size charges memoryWordGas per new word.
type memory struct {
	data []byte
}

func newMemory() *memory {
	return &memory{}
}

func wordCount(size uint64) uint64 {
	return (size + 31) / 32
}

// expand grows m to at least size bytes, charging gas for any newly
// addressed words. It reports ErrOutOfGas via the returned ok=false if
// gas could not be charged.
func (m *memory) expand(size uint64, charge func(uint64) bool) bool {
	if size <= uint64(len(m.data)) {
		return true
	}
	if size > math.MaxUint64-31 {
		return false // wordCount would wrap
	}
	oldWords := wordCount(uint64(len(m.data)))
	newWords := wordCount(size)
	cost := (newWords - oldWords) * memoryWordGas
	if !charge(cost) {
		return false
	}
	grown := make([]byte, newWords*32)
	copy(grown, m.data)
	m.data = grown
	return true
}

func (m *memory) load(offset uint64, charge func(uint64) bool) (Word, bool) {
	end, ok := checkedAdd(offset, 32)
	if !ok || !m.expand(end, charge) {
		return Word{}, false
	}
	var w Word
	copy(w[:], m.data[offset:offset+32])
	return w, true
}

func (m *memory) store(offset uint64, value Word, charge func(uint64) bool) bool {
	end, ok := checkedAdd(offset, 32)
	if !ok || !m.expand(end, charge) {
		return false
	}
	copy(m.data[offset:offset+32], value[:])
	return true
}

func (m *memory) store8(offset uint64, value byte, charge func(uint64) bool) bool {
	end, ok := checkedAdd(offset, 1)
	if !ok || !m.expand(end, charge) {
		return false
	}
	m.data[offset] = value
	return true
}

// slice returns a copy of m.data[offset:offset+length], expanding
// memory first if needed. length 0 always succeeds and returns nil.
func (m *memory) slice(offset, length uint64, charge func(uint64) bool) ([]byte, bool) {
	if length == 0 {
		return nil, true
	}
	end, ok := checkedAdd(offset, length)
	if !ok || !m.expand(end, charge) {
		return nil, false
	}
	out := make([]byte, length)
	copy(out, m.data[offset:offset+length])
	return out, true
}
