// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package p2p implements the Pantheon peer-to-peer session layer atop
// wire's 24-byte message framing: the message taxonomy, the
// connection state machine, ban scoring, ping/pong liveness, and the
// orphan transaction pool described in spec.md section 4.8.
package p2p

import "time"

// ProtocolVersion is the version this implementation speaks.
const ProtocolVersion = 1

// Size limits, per spec.md section 4.8.
const (
	MaxInvEntries  = 50000
	MaxAddrEntries = 1000
	MaxOrphanTxs   = 100
)

// Liveness timing, per spec.md section 4.8.
const (
	PingInterval = 2 * time.Minute
	PingTimeout  = 20 * time.Minute
	OrphanTxTTL  = 20 * time.Minute
)

// ServiceFlag advertises what a peer's version message offers.
type ServiceFlag uint64

const (
	ServiceNone    ServiceFlag = 0
	ServiceNetwork ServiceFlag = 1 << 0
)

// InvType identifies what an inventory vector refers to.
type InvType uint32

const (
	InvError InvType = iota
	InvTx
	InvBlock
)

func (t InvType) String() string {
	switch t {
	case InvTx:
		return "tx"
	case InvBlock:
		return "block"
	default:
		return "error"
	}
}

// NetAddr is a peer network address as carried in version and addr
// payloads: a 16-byte IPv6 (or IPv4-mapped) address, a port, service
// flags, and the time it was last seen.
type NetAddr struct {
	Services ServiceFlag
	IP       [16]byte
	Port     uint16
	Time     uint32
}
