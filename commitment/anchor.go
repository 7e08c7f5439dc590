// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commitment

import "sync"

// ChainAnchor composes the per-layer AnchorState values that realize the
// OBOLOS -> DRACHMA -> TALANTON finality chain: Layer-3 commitments
// finalize against the last accepted Layer-3 height directly, Layer-2
// commitments finalize against the Layer-2 anchor, and an accepted
// Layer-2 commitment in turn advances the anchor an external Layer-1
// observer uses to know how far DRACHMA has progressed.
type ChainAnchor struct {
	mu  sync.RWMutex
	l2  AnchorState
	l3h uint64
}

// NewChainAnchor returns a ChainAnchor with both layers unfinalized.
func NewChainAnchor() *ChainAnchor {
	return &ChainAnchor{}
}

// AcceptL3 validates c as the next Layer-3 commitment and, on success,
// advances the anchor's last-finalized Layer-3 height.
func (a *ChainAnchor) AcceptL3(c *Commitment, activeStake uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !ValidateL3Commit(c, a.l3h, activeStake) {
		log.Debugf("rejected layer-3 commitment at height %d (anchor at %d)", c.FinalizedHeight, a.l3h)
		return false
	}
	a.l3h = c.FinalizedHeight
	log.Infof("layer-3 anchor advanced to height %d", a.l3h)
	return true
}

// AcceptL2 validates c as the next Layer-2 commitment against the
// current Layer-2 anchor and, on success, advances it.
func (a *ChainAnchor) AcceptL2(c *Commitment, activeStake uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !ValidateL2Commit(c, &a.l2, activeStake) {
		log.Debugf("rejected layer-2 commitment at height %d (anchor at %d)", c.FinalizedHeight, a.l2.LastFinalizedHeight)
		return false
	}
	a.l2.LastFinalizedHeight = c.FinalizedHeight
	log.Infof("layer-2 anchor advanced to height %d", a.l2.LastFinalizedHeight)
	return true
}

// LastFinalizedL3Height returns the highest Layer-3 height accepted so far.
func (a *ChainAnchor) LastFinalizedL3Height() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.l3h
}

// LastFinalizedL2Height returns the highest Layer-2 height accepted so far.
func (a *ChainAnchor) LastFinalizedL2Height() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.l2.LastFinalizedHeight
}
