// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// VersionPayload is the handshake message carrying the sender's
// protocol version, services, and chain height.
type VersionPayload struct {
	ProtocolVersion uint32
	Services        ServiceFlag
	Timestamp       int64
	AddrRecv        NetAddr
	AddrFrom        NetAddr
	Nonce           uint64
	UserAgent       string
	StartHeight     uint32
}

func writeNetAddr(buf *bytes.Buffer, a NetAddr) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(a.Services))
	buf.Write(tmp[:])
	buf.Write(a.IP[:])
	binary.LittleEndian.PutUint16(tmp[:2], a.Port)
	buf.Write(tmp[:2])
	binary.LittleEndian.PutUint32(tmp[:4], a.Time)
	buf.Write(tmp[:4])
}

func readNetAddr(r io.Reader) (NetAddr, error) {
	var a NetAddr
	var svc [8]byte
	if _, err := io.ReadFull(r, svc[:]); err != nil {
		return a, err
	}
	a.Services = ServiceFlag(binary.LittleEndian.Uint64(svc[:]))
	if _, err := io.ReadFull(r, a.IP[:]); err != nil {
		return a, err
	}
	var port [2]byte
	if _, err := io.ReadFull(r, port[:]); err != nil {
		return a, err
	}
	a.Port = binary.LittleEndian.Uint16(port[:])
	var t [4]byte
	if _, err := io.ReadFull(r, t[:]); err != nil {
		return a, err
	}
	a.Time = binary.LittleEndian.Uint32(t[:])
	return a, nil
}

// EncodeVersionPayload serialises v to its wire form.
func EncodeVersionPayload(v VersionPayload) []byte {
	var buf bytes.Buffer
	var tmp [8]byte

	binary.LittleEndian.PutUint32(tmp[:4], v.ProtocolVersion)
	buf.Write(tmp[:4])
	binary.LittleEndian.PutUint64(tmp[:], uint64(v.Services))
	buf.Write(tmp[:])
	binary.LittleEndian.PutUint64(tmp[:], uint64(v.Timestamp))
	buf.Write(tmp[:])
	writeNetAddr(&buf, v.AddrRecv)
	writeNetAddr(&buf, v.AddrFrom)
	binary.LittleEndian.PutUint64(tmp[:], v.Nonce)
	buf.Write(tmp[:])
	_ = wire.WriteVarBytes(&buf, []byte(v.UserAgent))
	binary.LittleEndian.PutUint32(tmp[:4], v.StartHeight)
	buf.Write(tmp[:4])

	return buf.Bytes()
}

// DecodeVersionPayload parses a version message payload.
func DecodeVersionPayload(payload []byte) (*VersionPayload, error) {
	r := bytes.NewReader(payload)
	var v VersionPayload

	var u32 [4]byte
	if _, err := io.ReadFull(r, u32[:]); err != nil {
		return nil, fmt.Errorf("p2p: version: %w", err)
	}
	v.ProtocolVersion = binary.LittleEndian.Uint32(u32[:])

	var u64 [8]byte
	if _, err := io.ReadFull(r, u64[:]); err != nil {
		return nil, fmt.Errorf("p2p: version: %w", err)
	}
	v.Services = ServiceFlag(binary.LittleEndian.Uint64(u64[:]))

	if _, err := io.ReadFull(r, u64[:]); err != nil {
		return nil, fmt.Errorf("p2p: version: %w", err)
	}
	v.Timestamp = int64(binary.LittleEndian.Uint64(u64[:]))

	addrRecv, err := readNetAddr(r)
	if err != nil {
		return nil, fmt.Errorf("p2p: version: addr_recv: %w", err)
	}
	v.AddrRecv = addrRecv

	addrFrom, err := readNetAddr(r)
	if err != nil {
		return nil, fmt.Errorf("p2p: version: addr_from: %w", err)
	}
	v.AddrFrom = addrFrom

	if _, err := io.ReadFull(r, u64[:]); err != nil {
		return nil, fmt.Errorf("p2p: version: %w", err)
	}
	v.Nonce = binary.LittleEndian.Uint64(u64[:])

	userAgent, err := wire.ReadVarBytes(r, 256, "version.user_agent")
	if err != nil {
		return nil, fmt.Errorf("p2p: version: %w", err)
	}
	v.UserAgent = string(userAgent)

	if _, err := io.ReadFull(r, u32[:]); err != nil {
		return nil, fmt.Errorf("p2p: version: %w", err)
	}
	v.StartHeight = binary.LittleEndian.Uint32(u32[:])

	return &v, nil
}

// PingPayload and PongPayload carry a random liveness nonce.
type PingPayload struct {
	Nonce uint64
}

// EncodePingPayload serialises a ping/pong nonce.
func EncodePingPayload(nonce uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], nonce)
	return buf[:]
}

// DecodePingPayload parses a ping/pong nonce.
func DecodePingPayload(payload []byte) (uint64, error) {
	if len(payload) != 8 {
		return 0, fmt.Errorf("p2p: ping/pong: payload must be 8 bytes, got %d", len(payload))
	}
	return binary.LittleEndian.Uint64(payload), nil
}

// InvVect is a single inventory advertisement: what kind of object,
// identified by which hash.
type InvVect struct {
	Type InvType
	Hash chainhash.Hash
}

// EncodeInvPayload serialises a list of inventory vectors (used for
// both inv and getdata messages, which share a wire format).
func EncodeInvPayload(inv []InvVect) ([]byte, error) {
	if len(inv) > MaxInvEntries {
		return nil, fmt.Errorf("p2p: inv: %d entries exceeds max %d", len(inv), MaxInvEntries)
	}
	var buf bytes.Buffer
	if err := wire.WriteVarInt(&buf, uint64(len(inv))); err != nil {
		return nil, err
	}
	var tmp [4]byte
	for _, v := range inv {
		binary.LittleEndian.PutUint32(tmp[:], uint32(v.Type))
		buf.Write(tmp[:])
		buf.Write(v.Hash[:])
	}
	return buf.Bytes(), nil
}

// DecodeInvPayload parses an inv/getdata payload, rejecting more than
// MaxInvEntries vectors.
func DecodeInvPayload(payload []byte) ([]InvVect, error) {
	r := bytes.NewReader(payload)
	count, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("p2p: inv: %w", err)
	}
	if count > MaxInvEntries {
		return nil, fmt.Errorf("p2p: inv: %d entries exceeds max %d", count, MaxInvEntries)
	}
	out := make([]InvVect, 0, count)
	for i := uint64(0); i < count; i++ {
		var tmp [4]byte
		if _, err := io.ReadFull(r, tmp[:]); err != nil {
			return nil, fmt.Errorf("p2p: inv: %w", err)
		}
		var hash chainhash.Hash
		if _, err := io.ReadFull(r, hash[:]); err != nil {
			return nil, fmt.Errorf("p2p: inv: %w", err)
		}
		out = append(out, InvVect{Type: InvType(binary.LittleEndian.Uint32(tmp[:])), Hash: hash})
	}
	return out, nil
}

// EncodeAddrPayload serialises a list of peer addresses.
func EncodeAddrPayload(addrs []NetAddr) ([]byte, error) {
	if len(addrs) > MaxAddrEntries {
		return nil, fmt.Errorf("p2p: addr: %d entries exceeds max %d", len(addrs), MaxAddrEntries)
	}
	var buf bytes.Buffer
	if err := wire.WriteVarInt(&buf, uint64(len(addrs))); err != nil {
		return nil, err
	}
	for _, a := range addrs {
		writeNetAddr(&buf, a)
	}
	return buf.Bytes(), nil
}

// DecodeAddrPayload parses an addr payload, rejecting more than
// MaxAddrEntries addresses.
func DecodeAddrPayload(payload []byte) ([]NetAddr, error) {
	r := bytes.NewReader(payload)
	count, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("p2p: addr: %w", err)
	}
	if count > MaxAddrEntries {
		return nil, fmt.Errorf("p2p: addr: %d entries exceeds max %d", count, MaxAddrEntries)
	}
	out := make([]NetAddr, 0, count)
	for i := uint64(0); i < count; i++ {
		a, err := readNetAddr(r)
		if err != nil {
			return nil, fmt.Errorf("p2p: addr: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}
