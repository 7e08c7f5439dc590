// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/Tsoympet/PantheonChain-sub001/pow"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// regNetPowLimitBits is the trivial initial difficulty for regression
// test mode per spec.md section 4.2.
const regNetPowLimitBits uint32 = 0x207fffff

var regNetPowLimit = pow.CompactToBig(regNetPowLimitBits)

// RegNetParams returns the network parameters used for local regression
// testing: a trivial proof-of-work limit and a short coinbase maturity so
// a single process can mine and spend within one test run.
func RegNetParams() *Params {
	genesis := genesisBlock(regNetPowLimitBits, 1735689600, 0)

	return &Params{
		Name:        "regtest",
		Net:         wire.RegNet,
		DefaultPort: "19777",
		DNSSeeds:    nil,

		GenesisBlock: genesis,
		GenesisHash:  genesis.BlockHash(),

		PowLimit:             regNetPowLimit,
		PowLimitBits:         regNetPowLimitBits,
		ReduceMinDifficulty:  true,
		MinDiffReductionTime: time.Minute,
		TargetTimePerBlock:   time.Minute,
		WorkDiffWindowSize:   2016,
		RetargetAdjustFactor: 4,

		MaximumBlockSize: 4_000_000,
		MaxTxSize:        1_000_000,
		CoinbaseMaturity: 16,

		Checkpoints: nil,
	}
}
