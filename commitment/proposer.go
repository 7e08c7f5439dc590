// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commitment

// Validator is one entry in an ordered validator set used for
// deterministic proposer selection.
type Validator struct {
	ID    string
	Stake uint64
}

// SelectProposer implements spec.md section 4.7's deterministic
// proposer selection: slot = (epoch << 32) XOR height; cursor = slot mod
// total stake. The validator list is walked in the order given,
// subtracting each entry's stake from cursor until the running total
// would exceed it — that entry is the proposer. The result depends only
// on (validators, epoch, height), so every honest node computes the
// same answer. validators must have non-empty ids, non-negative (here:
// any uint64) stakes, and a positive total stake; an empty set or a
// zero total stake returns ("", false).
func SelectProposer(validators []Validator, epoch uint64, height uint64) (string, bool) {
	var total uint64
	for _, v := range validators {
		total += v.Stake
	}
	if total == 0 {
		return "", false
	}

	slot := (epoch << 32) ^ height
	cursor := slot % total

	for _, v := range validators {
		if cursor < v.Stake {
			return v.ID, true
		}
		cursor -= v.Stake
	}
	// Unreachable, since cursor < total and total is the sum of the
	// stakes just walked; kept as a defensive fallback.
	return validators[len(validators)-1].ID, true
}
