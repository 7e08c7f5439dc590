// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2015-2020 The Decred developers
// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/Tsoympet/PantheonChain-sub001/asset"
)

// talantonHalvingInterval is the number of blocks between Bitcoin-style
// subsidy halvings for TALANTON, per spec.md section 4.3.
const talantonHalvingInterval = 210_000

// talantonInitialSubsidy is the block reward at height 1, chosen so
// ~21,000,000 TALANTON (asset.TALANTON.Cap()) are issued across the
// full halving schedule, matching Bitcoin's own 50-coin/210k-block curve
// scaled to this chain's base unit.
const talantonInitialSubsidy asset.Amount = 50 * 1e8

// CalcBlockSubsidy is the pure height-indexed reward function for each
// asset. DRACHMA and OBOLOS have no Layer-1 coinbase issuance of their
// own (DRACHMA mints via Layer-2 staking rewards, OBOLOS via Layer-3 gas
// burn/mint accounting); CalcBlockSubsidy returns zero for both so a
// Layer-1 coinbase may never mint them.
func CalcBlockSubsidy(height int64, a asset.ID) asset.Amount {
	if a != asset.TALANTON {
		return 0
	}
	if height <= 0 {
		return 0
	}

	halvings := (height - 1) / talantonHalvingInterval
	if halvings >= 64 {
		return 0
	}
	return talantonInitialSubsidy >> uint(halvings)
}

// IsValidBlockReward reports whether a coinbase output of value v for
// asset a at height h is consensus-valid: v must not exceed the height's
// subsidy plus the fees the block's own transactions paid in a, and must
// not push the asset's cumulative supply above its cap. fees is the total
// of asset a collected from this block's non-coinbase transactions (zero
// for a block with no transactions beyond the coinbase). cumulativeSupply
// is the asset's total issued supply strictly before this block's
// coinbase is applied; it only grows by the subsidy portion of v, since
// fees merely move already-issued supply from senders to the miner.
func IsValidBlockReward(height int64, a asset.ID, v asset.Amount, fees asset.Amount, cumulativeSupply asset.Amount) bool {
	subsidy := CalcBlockSubsidy(height, a)
	maxReward, err := asset.Add(subsidy, fees)
	if err != nil || v > maxReward {
		return false
	}
	total, err := asset.Add(cumulativeSupply, subsidy)
	if err != nil {
		return false // overflow guard
	}
	return uint64(total) <= a.Cap()
}
