// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"errors"
	"time"

	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// State is a peer connection's position in the session FSM:
// CONNECTING -> HANDSHAKE on socket ready -> CONNECTED on verack ->
// DISCONNECTED on any terminal error, per spec.md section 4.8.
type State int

const (
	StateConnecting State = iota
	StateHandshake
	StateConnected
	StateDisconnected
	StateBanned
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateHandshake:
		return "HANDSHAKE"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnected:
		return "DISCONNECTED"
	case StateBanned:
		return "BANNED"
	default:
		return "UNKNOWN"
	}
}

// ErrIgnoredBeforeHandshake is returned (not fatal) when a peer sends
// anything other than version while pre-verack.
var ErrIgnoredBeforeHandshake = errors.New("p2p: message ignored before handshake completes")

// Session tracks one peer connection's FSM state, ban score, and
// liveness bookkeeping. It does not own the socket; callers drive it
// with the commands they read off the wire.
type Session struct {
	PeerID string
	State  State

	Version   uint32
	Services  ServiceFlag
	UserAgent string
	Height    uint32

	ban BanScore

	lastPingNonce uint64
	lastPingSent  time.Time
	lastActivity  time.Time
}

// NewSession starts a freshly-accepted or freshly-dialed connection in
// CONNECTING.
func NewSession(peerID string, now time.Time) *Session {
	return &Session{
		PeerID:       peerID,
		State:        StateConnecting,
		lastActivity: now,
	}
}

// BeginHandshake transitions CONNECTING -> HANDSHAKE once the socket
// is ready to exchange messages.
func (s *Session) BeginHandshake() {
	if s.State == StateConnecting {
		s.State = StateHandshake
	}
}

// HandleMessage advances the FSM for an inbound command. Only verack
// moves a peer to CONNECTED; any command other than version seen
// before the handshake completes is ignored (not fatal) rather than
// disconnecting the peer outright, per spec.md section 4.8.
func (s *Session) HandleMessage(command string, now time.Time) error {
	s.lastActivity = now

	if s.State == StateDisconnected || s.State == StateBanned {
		return errors.New("p2p: message received on a closed session")
	}

	switch s.State {
	case StateConnecting, StateHandshake:
		switch command {
		case wire.CmdVersion:
			return nil
		case wire.CmdVerAck:
			s.State = StateConnected
			return nil
		default:
			return ErrIgnoredBeforeHandshake
		}
	default:
		return nil
	}
}

// Disconnect transitions to DISCONNECTED on any terminal error.
func (s *Session) Disconnect() {
	if s.State != StateBanned {
		s.State = StateDisconnected
	}
}

// RecordMisbehavior adds delta to the session's ban score and bans the
// peer once BanThreshold is crossed. Per spec.md section 4.8, banning
// persists: once StateBanned is reached the session never returns to
// any other state.
func (s *Session) RecordMisbehavior(now time.Time, delta int, reason string) bool {
	score := s.ban.Add(now, delta)
	log.Debugf("peer %s misbehavior score %d (+%d: %s)", s.PeerID, score, delta, reason)
	if score >= BanThreshold {
		s.State = StateBanned
		log.Warnf("peer %s banned (score %d >= %d)", s.PeerID, score, BanThreshold)
		return true
	}
	return false
}

// BanScoreValue reports the session's current ban score.
func (s *Session) BanScoreValue(now time.Time) int {
	return s.ban.Score(now)
}

// NewPing issues a fresh liveness challenge and remembers its nonce so
// a later pong can be matched against it.
func (s *Session) NewPing(nonce uint64, now time.Time) {
	s.lastPingNonce = nonce
	s.lastPingSent = now
}

// CheckPong reports whether nonce matches the outstanding ping.
func (s *Session) CheckPong(nonce uint64) bool {
	return nonce == s.lastPingNonce
}

// ShouldPing reports whether PingInterval has elapsed since the last
// ping was sent (or none has been sent yet).
func (s *Session) ShouldPing(now time.Time) bool {
	if s.lastPingSent.IsZero() {
		return true
	}
	return now.Sub(s.lastPingSent) >= PingInterval
}

// IsStale reports whether the peer has been silent for PingTimeout,
// meaning it should be dropped.
func (s *Session) IsStale(now time.Time) bool {
	return now.Sub(s.lastActivity) >= PingTimeout
}
