// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"sync"
	"time"
)

// BanThreshold is the cumulative misbehavior score at which a peer is
// banned outright.
const BanThreshold = 100

// Common misbehavior penalties.
const (
	PenaltyMalformedMessage = 20
	PenaltyOversizedPayload = 100
	PenaltyInvalidHandshake = 100
)

// BanScore is a peer's running misbehavior tally. Unlike a rate
// limiter, it never decays on its own: spec.md section 4.8 specifies
// that banning persists, so a score that has already crossed
// BanThreshold must stay banned rather than recover with time.
type BanScore struct {
	score int
}

// Add adds delta to the score and returns the new total.
func (b *BanScore) Add(_ time.Time, delta int) int {
	b.score += delta
	return b.score
}

// Score returns the current total.
func (b *BanScore) Score(_ time.Time) int {
	return b.score
}

// BanList is the persistent set of banned peer identifiers, guarded
// by its own mutex per spec.md section 5's shared-resource policy.
type BanList struct {
	mu     sync.RWMutex
	banned map[string]struct{}
}

// NewBanList returns an empty ban list.
func NewBanList() *BanList {
	return &BanList{banned: make(map[string]struct{})}
}

// Ban adds peerID to the list. Idempotent.
func (l *BanList) Ban(peerID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.banned[peerID] = struct{}{}
}

// IsBanned reports whether peerID has been banned.
func (l *BanList) IsBanned(peerID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.banned[peerID]
	return ok
}

// Unban removes peerID from the list, for operator-issued overrides.
func (l *BanList) Unban(peerID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.banned, peerID)
}
