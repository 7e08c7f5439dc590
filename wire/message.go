// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
)

// MessageHeaderLen is the exact size, in bytes, of a wire message header:
// magic(4) + command(12) + length(4) + checksum(4).
const MessageHeaderLen = 24

// CommandLen is the fixed width of the zero-padded command field. The final
// byte is always zero, so commands are limited to 11 printable characters.
const CommandLen = 12

// CurrencyNet identifies which Pantheon network a message belongs to.
type CurrencyNet uint32

// The three network magics.
const (
	MainNet CurrencyNet = 0xa8f3d2c1
	TestNet CurrencyNet = 0x0b7e61d4
	RegNet  CurrencyNet = 0xdab5bffa
)

// Message command strings. This is the taxonomy of spec.md section 4.8:
// handshake, liveness, inventory, block/header sync, transaction relay, and
// rejection.
const (
	CmdVersion    = "version"
	CmdVerAck     = "verack"
	CmdPing       = "ping"
	CmdPong       = "pong"
	CmdAddr       = "addr"
	CmdGetAddr    = "getaddr"
	CmdInv        = "inv"
	CmdGetData    = "getdata"
	CmdNotFound   = "notfound"
	CmdGetHeaders = "getheaders"
	CmdHeaders    = "headers"
	CmdGetBlocks  = "getblocks"
	CmdBlock      = "block"
	CmdTx         = "tx"
	CmdMemPool    = "mempool"
	CmdReject     = "reject"
)

// MessageHeader is the 24-byte fixed framing that precedes every message
// payload on the wire.
type MessageHeader struct {
	Magic    CurrencyNet
	Command  string
	Length   uint32
	Checksum [4]byte
}

func encodeCommand(command string) ([CommandLen]byte, error) {
	var buf [CommandLen]byte
	if len(command) > CommandLen-1 {
		return buf, fmt.Errorf("wire: command %q exceeds %d bytes", command, CommandLen-1)
	}
	copy(buf[:], command)
	return buf, nil
}

// checksum returns the first 4 bytes of SHA-256d(payload).
func checksum(payload []byte) [4]byte {
	var out [4]byte
	sum := chainhash.DoubleHashB(payload)
	copy(out[:], sum[:4])
	return out
}

// WriteMessage writes the 24-byte header followed by payload to w. An error
// is returned if payload exceeds MaxMessagePayload.
func WriteMessage(w io.Writer, magic CurrencyNet, command string, payload []byte) error {
	if len(payload) > MaxMessagePayload {
		return fmt.Errorf("wire: payload exceeds max message size [len %d, max %d]",
			len(payload), MaxMessagePayload)
	}
	cmdBuf, err := encodeCommand(command)
	if err != nil {
		return err
	}

	header := make([]byte, MessageHeaderLen)
	binary.LittleEndian.PutUint32(header[0:4], uint32(magic))
	copy(header[4:16], cmdBuf[:])
	binary.LittleEndian.PutUint32(header[16:20], uint32(len(payload)))
	sum := checksum(payload)
	copy(header[20:24], sum[:])

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// ReadMessageHeader reads and validates a 24-byte message header from r
// against the expected network magic.
func ReadMessageHeader(r io.Reader, expectedMagic CurrencyNet) (*MessageHeader, error) {
	buf := make([]byte, MessageHeaderLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	magic := CurrencyNet(binary.LittleEndian.Uint32(buf[0:4]))
	if magic != expectedMagic {
		return nil, fmt.Errorf("wire: unexpected network magic %08x, want %08x",
			uint32(magic), uint32(expectedMagic))
	}

	cmdBytes := buf[4:16]
	if cmdBytes[CommandLen-1] != 0 {
		return nil, fmt.Errorf("wire: command field is not zero-terminated")
	}
	end := 0
	for end < CommandLen && cmdBytes[end] != 0 {
		end++
	}
	command := string(cmdBytes[:end])

	length := binary.LittleEndian.Uint32(buf[16:20])
	if length > MaxMessagePayload {
		return nil, fmt.Errorf("wire: declared payload length %d exceeds max %d",
			length, MaxMessagePayload)
	}

	var sum [4]byte
	copy(sum[:], buf[20:24])

	return &MessageHeader{
		Magic:    magic,
		Command:  command,
		Length:   length,
		Checksum: sum,
	}, nil
}

// ReadMessage reads a full header-framed message from r, verifying that the
// payload's checksum matches the header.
func ReadMessage(r io.Reader, expectedMagic CurrencyNet) (command string, payload []byte, err error) {
	hdr, err := ReadMessageHeader(r, expectedMagic)
	if err != nil {
		return "", nil, err
	}
	payload = make([]byte, hdr.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return "", nil, err
	}
	if got := checksum(payload); got != hdr.Checksum {
		return "", nil, fmt.Errorf("wire: checksum mismatch for command %q", hdr.Command)
	}
	return hdr.Command, payload, nil
}
