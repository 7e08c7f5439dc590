// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// TestNetParams returns the network parameters for TALANTON testnet.
func TestNetParams() *Params {
	genesis := genesisBlock(mainPowLimitBits, 1735689600, 1)

	return &Params{
		Name:        "testnet",
		Net:         wire.TestNet,
		DefaultPort: "19666",
		DNSSeeds: []DNSSeed{
			{Host: "testnet-seed.pantheonchain.org"},
		},

		GenesisBlock: genesis,
		GenesisHash:  genesis.BlockHash(),

		PowLimit:             mainPowLimit,
		PowLimitBits:         mainPowLimitBits,
		ReduceMinDifficulty:  true,
		MinDiffReductionTime: 20 * time.Minute,
		TargetTimePerBlock:   10 * time.Minute,
		WorkDiffWindowSize:   2016,
		RetargetAdjustFactor: 4,

		MaximumBlockSize: 4_000_000,
		MaxTxSize:        1_000_000,
		CoinbaseMaturity: 100,

		Checkpoints: nil,
	}
}
