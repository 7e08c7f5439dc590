// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/Tsoympet/PantheonChain-sub001/asset"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// CoinbaseMaturity is the number of blocks a coinbase output must wait
// before it becomes spendable, per spec.md section 3.
const CoinbaseMaturity = 100

// Coin is a single unspent transaction output together with the
// metadata needed to decide its spendability: the height it was
// created at, and whether it came from a coinbase transaction.
type Coin struct {
	Output     *wire.TxOut
	Height     int64
	IsCoinbase bool
}

// Spendable reports whether the coin may be spent by a transaction at
// currentHeight. Non-coinbase coins are always spendable; coinbase
// coins require CoinbaseMaturity confirmations.
func (c *Coin) Spendable(currentHeight int64) bool {
	if !c.IsCoinbase {
		return true
	}
	return currentHeight >= c.Height+CoinbaseMaturity
}

// UTXOSet is the set of unspent transaction outputs, keyed by the
// outpoint that created them. AddCoin, SpendCoin, GetCoin, and
// HaveCoin are its only mutators/observers, per spec.md section 4.4.
type UTXOSet struct {
	coins map[wire.OutPoint]*Coin
}

// NewUTXOSet returns an empty UTXO set.
func NewUTXOSet() *UTXOSet {
	return &UTXOSet{coins: make(map[wire.OutPoint]*Coin)}
}

// AddCoin inserts coin at outpoint, replacing anything already there.
func (s *UTXOSet) AddCoin(op wire.OutPoint, coin *Coin) {
	s.coins[op] = coin
}

// SpendCoin removes the coin at outpoint, returning false if it was
// not present.
func (s *UTXOSet) SpendCoin(op wire.OutPoint) bool {
	if _, ok := s.coins[op]; !ok {
		return false
	}
	delete(s.coins, op)
	return true
}

// GetCoin returns the coin at outpoint, if any.
func (s *UTXOSet) GetCoin(op wire.OutPoint) (*Coin, bool) {
	c, ok := s.coins[op]
	return c, ok
}

// HaveCoin reports whether outpoint is currently unspent.
func (s *UTXOSet) HaveCoin(op wire.OutPoint) bool {
	_, ok := s.coins[op]
	return ok
}

// Size returns the number of coins currently in the set.
func (s *UTXOSet) Size() int {
	return len(s.coins)
}

// Output implements mempool.UTXOView, letting the mempool validate
// fees and conflicts against the chain's confirmed UTXO set directly.
func (s *UTXOSet) Output(op wire.OutPoint) (a asset.ID, value uint64, ok bool) {
	c, found := s.coins[op]
	if !found {
		return 0, 0, false
	}
	return c.Output.Asset, c.Output.Value, true
}

// PkScript implements mempool.UTXOView, exposing the locking script a
// spending input's signature must satisfy.
func (s *UTXOSet) PkScript(op wire.OutPoint) ([]byte, bool) {
	c, found := s.coins[op]
	if !found {
		return nil, false
	}
	return c.Output.PkScript, true
}

// BlockUndo records, per non-coinbase transaction in a connected
// block, the exact coins its inputs consumed, in input order — enough
// to restore the UTXO set on disconnect.
type BlockUndo struct {
	// TxUndo[i] holds the coins consumed by the (i+1)'th transaction
	// in the block (coinbase, at index 0, spends nothing and has no
	// entry here).
	TxUndo [][]*Coin
}

// NewBlockUndo returns an empty undo record.
func NewBlockUndo() *BlockUndo {
	return &BlockUndo{}
}

// AddTxUndo appends the consumed-coin list for the next non-coinbase
// transaction processed.
func (u *BlockUndo) AddTxUndo(coins []*Coin) {
	u.TxUndo = append(u.TxUndo, coins)
}
