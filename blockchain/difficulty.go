// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/Tsoympet/PantheonChain-sub001/chaincfg"
	"github.com/Tsoympet/PantheonChain-sub001/pow"
)

// RetargetInputs carries the two timestamps a 2016-block retarget window
// needs: the timestamp of the block that opened the window and the
// timestamp of the block that closes it (the block whose height is a
// multiple of chaincfg.Params.WorkDiffWindowSize).
type RetargetInputs struct {
	WindowStartTime int64
	WindowEndTime   int64
	CurrentBits     uint32
}

// CalcNextRequiredDifficulty implements the spec.md section 4.2 retarget
// rule. height is the height of the block whose difficulty is being
// computed. On any height that doesn't close a retarget window, the
// current bits carry forward unchanged.
func CalcNextRequiredDifficulty(params *chaincfg.Params, height int64, in RetargetInputs) uint32 {
	if height <= 0 {
		return params.PowLimitBits
	}
	if height%params.WorkDiffWindowSize != 0 {
		return in.CurrentBits
	}

	actualTimespan := in.WindowEndTime - in.WindowStartTime
	expectedTimespan := params.RetargetWindowSeconds()

	next := pow.NextWorkRequired(in.CurrentBits, actualTimespan, expectedTimespan)
	return pow.ClampToLimit(next, params.PowLimit)
}

// ReduceMinDifficultyBits implements the test-network special-difficulty
// rule: if no block has arrived within MinDiffReductionTime of the
// previous block's timestamp, the network briefly accepts the trivial
// proof-of-work limit so test chains don't stall waiting for hash power.
// lastBits is the difficulty that would otherwise apply; it is returned
// unchanged whenever the rule doesn't apply or the network doesn't use it.
func ReduceMinDifficultyBits(params *chaincfg.Params, prevBlockTime, newBlockTime int64, lastBits uint32) uint32 {
	if !params.ReduceMinDifficulty {
		return lastBits
	}
	if newBlockTime-prevBlockTime > int64(params.MinDiffReductionTime.Seconds()) {
		return params.PowLimitBits
	}
	return lastBits
}
