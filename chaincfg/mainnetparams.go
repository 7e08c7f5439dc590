// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/Tsoympet/PantheonChain-sub001/asset"
	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
	"github.com/Tsoympet/PantheonChain-sub001/pow"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// mainPowLimitBits is the initial compact difficulty for main/test nets
// per spec.md section 4.2.
const mainPowLimitBits uint32 = 0x1d00ffff

var mainPowLimit = pow.CompactToBig(mainPowLimitBits)

func genesisBlock(bits uint32, timestamp int64, extraNonce uint32) *wire.MsgBlock {
	coinbase := &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Index: wire.CoinbaseIndex},
			SignatureScript:  []byte("PantheonChain genesis"),
			Sequence:         wire.MaxTxInSequenceNum + 1,
		}},
		TxOut: []*wire.TxOut{{
			Asset:    asset.TALANTON,
			Value:    0,
			PkScript: []byte{0x00},
		}},
	}

	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:   1,
			Timestamp: uint32(timestamp),
			Bits:      bits,
			Nonce:     extraNonce,
			GasLimit:  30_000_000,
		},
		Transactions: []*wire.MsgTx{coinbase},
	}
	block.Header.MerkleRoot = wire.CalcMerkleRoot([]chainhash.Hash{coinbase.TxHash()})
	return block
}

// MainNetParams returns the network parameters for TALANTON mainnet.
func MainNetParams() *Params {
	genesis := genesisBlock(mainPowLimitBits, 1735689600, 0)

	return &Params{
		Name:        "mainnet",
		Net:         wire.MainNet,
		DefaultPort: "9666",
		DNSSeeds: []DNSSeed{
			{Host: "seed1.pantheonchain.org"},
			{Host: "seed2.pantheonchain.org"},
		},

		GenesisBlock: genesis,
		GenesisHash:  genesis.BlockHash(),

		PowLimit:             mainPowLimit,
		PowLimitBits:         mainPowLimitBits,
		ReduceMinDifficulty:  false,
		MinDiffReductionTime: 0,
		TargetTimePerBlock:   10 * time.Minute,
		WorkDiffWindowSize:   2016,
		RetargetAdjustFactor: 4,

		MaximumBlockSize: 4_000_000,
		MaxTxSize:        1_000_000,
		CoinbaseMaturity: 100,

		Checkpoints: nil,
	}
}
