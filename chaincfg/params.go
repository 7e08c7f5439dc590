// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the network parameters for each of the
// Layer-1 TALANTON networks (mainnet, testnet, regtest): genesis block,
// proof-of-work limits, retarget windows, and per-asset issuance
// schedules. Every consensus engine receives a *Params value through its
// constructor; nothing in this package is read from process-wide state.
package chaincfg

import (
	"math/big"
	"time"

	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// Checkpoint identifies a known-good block by height and hash.
type Checkpoint struct {
	Height int64
	Hash   chainhash.Hash
}

// DNSSeed identifies a DNS seeder used for peer discovery (the seeder
// protocol itself is an external collaborator per spec.md section 1; only
// the parameter value is specified here).
type DNSSeed struct {
	Host string
}

// Params groups all of the network-specific constants a Layer-1 engine
// needs. A Params value is passed explicitly into every blockchain,
// mempool, and p2p constructor.
type Params struct {
	Name        string
	Net         wire.CurrencyNet
	DefaultPort string
	DNSSeeds    []DNSSeed

	GenesisBlock *wire.MsgBlock
	GenesisHash  chainhash.Hash

	// Proof-of-work parameters.
	PowLimit             *big.Int
	PowLimitBits         uint32
	ReduceMinDifficulty  bool
	MinDiffReductionTime time.Duration
	TargetTimePerBlock   time.Duration
	WorkDiffWindowSize   int64
	RetargetAdjustFactor int64

	// MaximumBlockSize bounds the total serialised size of a block.
	MaximumBlockSize int
	MaxTxSize        int

	// Coinbase maturity, in blocks, before a coinbase output is spendable.
	CoinbaseMaturity int64

	Checkpoints []Checkpoint
}

// bigOne is 1 represented as a big.Int.
var bigOne = big.NewInt(1)

// RetargetWindowSeconds is the span, in seconds, of one retarget window:
// WorkDiffWindowSize blocks at the network's TargetTimePerBlock. Mainnet
// and testnet (2016 blocks at 600 s) get two weeks; regtest's one-minute
// spacing gives a window one tenth as long.
func (p *Params) RetargetWindowSeconds() int64 {
	return p.WorkDiffWindowSize * int64(p.TargetTimePerBlock/time.Second)
}
