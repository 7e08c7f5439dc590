// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import "math/big"

// NextWorkRequired implements the spec.md section 4.2 retarget formula:
// new_target = current_target * span / expected, where span is the actual
// elapsed seconds over the window clamped to [expected/4, expected*4].
// currentBits is the compact difficulty of the block ending the window;
// actualTimespan is the wall-clock span, in seconds, between the first and
// last block of that window; expectedTimespan is the window's target
// duration (WorkDiffWindowSize blocks at TargetTimePerBlock each).
func NextWorkRequired(currentBits uint32, actualTimespan, expectedTimespan int64) uint32 {
	minTimespan := expectedTimespan / 4
	maxTimespan := expectedTimespan * 4

	span := actualTimespan
	if span < minTimespan {
		span = minTimespan
	}
	if span > maxTimespan {
		span = maxTimespan
	}

	current := CompactToBig(currentBits)
	if current.Sign() <= 0 {
		return currentBits
	}

	newTarget := new(big.Int).Mul(current, big.NewInt(span))
	newTarget.Div(newTarget, big.NewInt(expectedTimespan))

	return BigToCompact(newTarget)
}

// ClampToLimit caps target at powLimit, returning powLimit's compact form
// whenever the retargeted value would exceed the network's proof-of-work
// limit (an easier-than-allowed target).
func ClampToLimit(bits uint32, powLimit *big.Int) uint32 {
	target := CompactToBig(bits)
	if target.Cmp(powLimit) > 0 {
		return BigToCompact(powLimit)
	}
	return bits
}
