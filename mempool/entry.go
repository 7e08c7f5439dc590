// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mempool holds the set of transactions not yet confirmed on
// Layer 1: admission validation, conflict detection, BIP-125-style
// replace-by-fee, child-pays-for-parent package iteration, and
// size-bounded eviction, per spec.md section 4.5.
package mempool

import (
	"bytes"

	"github.com/Tsoympet/PantheonChain-sub001/asset"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// Entry is one transaction held in the pool together with the fee
// bookkeeping and ancestor/descendant aggregates needed for eviction
// and package selection.
type Entry struct {
	Tx      *wire.MsgTx
	Fee     uint64
	Size    uint64
	FeeRate uint64 // Fee / Size, truncated; zero-size transactions never occur (CheckStructure rejects them upstream)
	Time    int64  // admission time, used only to break fee-rate ties
	Height  int64  // chain height when admitted

	// AncestorFee/AncestorSize/AncestorCount are the aggregate fee, size,
	// and count of this entry plus every in-pool ancestor, refreshed on
	// every admission/eviction that touches the ancestor set.
	AncestorFee   uint64
	AncestorSize  uint64
	AncestorCount uint64
}

func txSerializeSize(tx *wire.MsgTx) uint64 {
	var buf bytes.Buffer
	_ = tx.Serialize(&buf)
	return uint64(buf.Len())
}

// newEntry builds an Entry from a transaction and its total fee,
// deriving size and fee-rate.
func newEntry(tx *wire.MsgTx, fee uint64, height, now int64) *Entry {
	size := txSerializeSize(tx)
	e := &Entry{
		Tx:     tx,
		Fee:    fee,
		Size:   size,
		Time:   now,
		Height: height,
	}
	if size > 0 {
		e.FeeRate = fee / size
	}
	e.AncestorFee = fee
	e.AncestorSize = size
	e.AncestorCount = 1
	return e
}

// SignalsRBF reports whether every input of e.Tx opts into replacement.
func (e *Entry) SignalsRBF() bool {
	for _, in := range e.Tx.TxIn {
		if !in.SignalsRBF() {
			return false
		}
	}
	return len(e.Tx.TxIn) > 0
}

// UTXOView is the minimal read-only view of confirmed chain state the
// pool validates admissions against. It is satisfied by the real UTXO
// set or, in tests, by a stub.
type UTXOView interface {
	// Output returns the asset and value of a confirmed, unspent output,
	// or ok=false if it does not exist or is already spent.
	Output(op wire.OutPoint) (a asset.ID, value uint64, ok bool)

	// PkScript returns the locking script of a confirmed, unspent
	// output, or ok=false if it does not exist or is already spent.
	// Used only when the pool has a SigCache configured to check
	// input signatures at admission time.
	PkScript(op wire.OutPoint) (pkScript []byte, ok bool)
}
