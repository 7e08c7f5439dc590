// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
)

// BlockHeaderLen is the exact serialised size, in bytes, of a BlockHeader:
// version(4) + prev(32) + merkle(32) + timestamp(4) + bits(4) + nonce(4) +
// base fee per gas(8) + gas used(8) + gas limit(8) = 104.
const BlockHeaderLen = 104

// BlockHeader is the fixed-size header of a Pantheon block.
type BlockHeader struct {
	Version       uint32
	PrevBlock     chainhash.Hash
	MerkleRoot    chainhash.Hash
	Timestamp     uint32
	Bits          uint32
	Nonce         uint32
	BaseFeePerGas uint64
	GasUsed       uint64
	GasLimit      uint64
}

// Serialize writes the 104-byte wire encoding of h to w.
func (h *BlockHeader) Serialize(w io.Writer) error {
	buf := make([]byte, BlockHeaderLen)
	off := 0
	binary.LittleEndian.PutUint32(buf[off:], h.Version)
	off += 4
	copy(buf[off:], h.PrevBlock[:])
	off += chainhash.HashSize
	copy(buf[off:], h.MerkleRoot[:])
	off += chainhash.HashSize
	binary.LittleEndian.PutUint32(buf[off:], h.Timestamp)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], h.Bits)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], h.Nonce)
	off += 4
	binary.LittleEndian.PutUint64(buf[off:], h.BaseFeePerGas)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], h.GasUsed)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], h.GasLimit)
	off += 8
	_, err := w.Write(buf)
	return err
}

// Deserialize reads a 104-byte BlockHeader from r.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	buf := make([]byte, BlockHeaderLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	off := 0
	h.Version = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	copy(h.PrevBlock[:], buf[off:])
	off += chainhash.HashSize
	copy(h.MerkleRoot[:], buf[off:])
	off += chainhash.HashSize
	h.Timestamp = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	h.Bits = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	h.Nonce = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	h.BaseFeePerGas = binary.LittleEndian.Uint64(buf[off:])
	off += 8
	h.GasUsed = binary.LittleEndian.Uint64(buf[off:])
	off += 8
	h.GasLimit = binary.LittleEndian.Uint64(buf[off:])
	return nil
}

// BlockHash computes SHA-256d over the header's 104-byte serialisation.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	var buf bytes.Buffer
	buf.Grow(BlockHeaderLen)
	_ = h.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// MsgBlock is a full Pantheon block: a header plus its ordered transactions.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// CheckStructure validates that the coinbase is present, first, and unique,
// per spec.md section 4.4 step 1.
func (b *MsgBlock) CheckStructure() error {
	if len(b.Transactions) == 0 {
		return fmt.Errorf("wire: block has no transactions")
	}
	if !b.Transactions[0].IsCoinbase() {
		return fmt.Errorf("wire: first transaction is not coinbase")
	}
	for i, tx := range b.Transactions[1:] {
		if tx.IsCoinbase() {
			return fmt.Errorf("wire: transaction %d is an illegal second coinbase", i+1)
		}
		if err := tx.CheckStructure(); err != nil {
			return err
		}
	}
	return nil
}

// BlockHash returns the block's header hash.
func (b *MsgBlock) BlockHash() chainhash.Hash {
	return b.Header.BlockHash()
}

// Serialize writes header || varint(ntx) || transactions to w.
func (b *MsgBlock) Serialize(w io.Writer) error {
	if err := b.Header.Serialize(w); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(b.Transactions))); err != nil {
		return err
	}
	for _, tx := range b.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads a block from r.
func (b *MsgBlock) Deserialize(r io.Reader) error {
	if err := b.Header.Deserialize(r); err != nil {
		return err
	}
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	b.Transactions = make([]*MsgTx, count)
	for i := range b.Transactions {
		tx := &MsgTx{}
		if err := tx.Deserialize(r); err != nil {
			return err
		}
		b.Transactions[i] = tx
	}
	return nil
}

// CalcMerkleRoot computes the SHA-256d pairwise merkle root over the given
// transaction ids, duplicating the last hash at any level with an odd count,
// per spec.md section 3.
func CalcMerkleRoot(txids []chainhash.Hash) chainhash.Hash {
	if len(txids) == 0 {
		return chainhash.Hash{}
	}
	level := make([]chainhash.Hash, len(txids))
	copy(level, txids)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := 0; i < len(next); i++ {
			var buf [2 * chainhash.HashSize]byte
			copy(buf[:chainhash.HashSize], level[2*i][:])
			copy(buf[chainhash.HashSize:], level[2*i+1][:])
			next[i] = chainhash.DoubleHashH(buf[:])
		}
		level = next
	}
	return level[0]
}
