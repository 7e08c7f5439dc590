// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package commitment implements the cross-layer finality-commitment
// protocol that lets Layer-2 DRACHMA anchor finalized Layer-3 OBOLOS
// state, and lets an external observer anchor finalized Layer-2 state,
// per spec.md section 4.7.
package commitment

import (
	"errors"
	"math/bits"
	"regexp"
)

// Source identifies which layer a Commitment finalizes state for.
type Source string

const (
	// SourceDRACHMA commitments finalize Layer-2 state.
	SourceDRACHMA Source = "DRACHMA"
	// SourceOBOLOS commitments finalize Layer-3 state.
	SourceOBOLOS Source = "OBOLOS"
)

// FinalitySignature pairs a validator id with its signature over a
// Commitment.
type FinalitySignature struct {
	ValidatorID string
	StakeWeight uint64
	Signature   string
}

// Commitment records that a layer has finalized state up to a given
// height, attested to by a set of validator signatures.
type Commitment struct {
	Source           Source
	Epoch            uint64
	FinalizedHeight  uint64
	BlockHash        string
	StateRoot        string
	ValidatorSetHash string
	UpstreamHash     string
	Signatures       []FinalitySignature
}

// AnchorState tracks the last finalized height a layer has accepted, so
// later commitments can be checked for monotonic progress.
type AnchorState struct {
	LastFinalizedHeight uint64
}

var hash64Hex = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// ErrInvalidEncoding is returned by ValidEncoding (and anything that
// calls it) when a Commitment fails the structural checks of spec.md
// section 4.7.
var ErrInvalidEncoding = errors.New("commitment: invalid encoding")

// ValidEncoding reports whether c satisfies the structural validity
// rules: a positive finalized height, three 64-hex-char hashes, a
// non-empty signature list with every entry carrying a non-empty
// validator id and signature, and — for DRACHMA-sourced commitments — a
// 64-hex-char upstream hash.
func (c *Commitment) ValidEncoding() bool {
	if c.FinalizedHeight == 0 {
		return false
	}
	if !hash64Hex.MatchString(c.BlockHash) ||
		!hash64Hex.MatchString(c.StateRoot) ||
		!hash64Hex.MatchString(c.ValidatorSetHash) {
		return false
	}
	if len(c.Signatures) == 0 {
		return false
	}
	for _, sig := range c.Signatures {
		if sig.ValidatorID == "" || sig.Signature == "" {
			return false
		}
	}
	if c.Source == SourceDRACHMA && !hash64Hex.MatchString(c.UpstreamHash) {
		return false
	}
	return true
}

// SignedStake sums stake_weight over the distinct validator ids present
// in c's signatures; a validator appearing more than once is counted
// only once.
func SignedStake(c *Commitment) uint64 {
	seen := make(map[string]struct{}, len(c.Signatures))
	var total uint64
	for _, sig := range c.Signatures {
		if _, dup := seen[sig.ValidatorID]; dup {
			continue
		}
		seen[sig.ValidatorID] = struct{}{}
		total += sig.StakeWeight
	}
	return total
}

// QuorumMet reports whether signed/activeStake >= numerator/denominator,
// computed via cross-multiplication so no floating point or intermediate
// division is involved. Both products are formed at full 128-bit width
// rather than wrapping, so a pathologically large product never produces
// a false "quorum met".
func QuorumMet(signed, activeStake, numerator, denominator uint64) bool {
	if activeStake == 0 || denominator == 0 || numerator > denominator {
		return false
	}
	lhsHi, lhsLo := bits.Mul64(signed, denominator)
	rhsHi, rhsLo := bits.Mul64(activeStake, numerator)
	return lhsHi > rhsHi || (lhsHi == rhsHi && lhsLo >= rhsLo)
}

// defaultQuorumNumerator and defaultQuorumDenominator express the
// default 2/3 quorum ratio used when callers don't specify one.
const (
	defaultQuorumNumerator   = 2
	defaultQuorumDenominator = 3
)

// ValidateL3Commit checks c as a Layer-3 (OBOLOS) finality commitment:
// it must come from OBOLOS, finalize a height strictly greater than
// lastL3Height, carry a valid encoding, and meet the default 2/3 quorum
// over activeStake.
func ValidateL3Commit(c *Commitment, lastL3Height uint64, activeStake uint64) bool {
	if c.Source != SourceOBOLOS {
		return false
	}
	if c.FinalizedHeight <= lastL3Height {
		return false
	}
	if !c.ValidEncoding() {
		return false
	}
	return QuorumMet(SignedStake(c), activeStake, defaultQuorumNumerator, defaultQuorumDenominator)
}

// ValidateL2Commit checks c as a Layer-2 (DRACHMA) finality commitment
// against the previously accepted anchor state: it must come from
// DRACHMA, finalize a height strictly greater than
// anchor.LastFinalizedHeight, carry a valid encoding, and meet the
// default 2/3 quorum over activeStake.
func ValidateL2Commit(c *Commitment, anchor *AnchorState, activeStake uint64) bool {
	if c.Source != SourceDRACHMA {
		return false
	}
	if c.FinalizedHeight <= anchor.LastFinalizedHeight {
		return false
	}
	if !c.ValidEncoding() {
		return false
	}
	return QuorumMet(SignedStake(c), activeStake, defaultQuorumNumerator, defaultQuorumDenominator)
}
