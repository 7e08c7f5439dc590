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
	"math"

	"github.com/Tsoympet/PantheonChain-sub001/asset"
	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
)

// CoinbaseIndex is the sentinel output index used in the coinbase OutPoint.
const CoinbaseIndex = math.MaxUint32

// MaxTxInSequenceNum is the lowest sequence number that does NOT signal
// replace-by-fee; every sequence below it signals.
const MaxTxInSequenceNum uint32 = math.MaxUint32 - 1

// MaxMessagePayload is the maximum size, in bytes, a message payload may be
// for any wire message (see spec.md section 4.8).
const MaxMessagePayload = 32 * 1024 * 1024

// OutPoint identifies a specific output of a specific transaction.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// IsCoinbase reports whether op is the all-zero, max-index sentinel used by
// coinbase inputs.
func (op OutPoint) IsCoinbase() bool {
	return op.Index == CoinbaseIndex && op.Hash == (chainhash.Hash{})
}

// Less orders OutPoints by (txid, index), matching spec.md section 3.
func (op OutPoint) Less(other OutPoint) bool {
	if cmp := bytes.Compare(op.Hash[:], other.Hash[:]); cmp != 0 {
		return cmp < 0
	}
	return op.Index < other.Index
}

func (op OutPoint) String() string {
	return fmt.Sprintf("%s:%d", op.Hash, op.Index)
}

// TxIn is a single transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// SignalsRBF reports whether this input opts the containing transaction into
// BIP-125 replace-by-fee.
func (ti *TxIn) SignalsRBF() bool {
	return ti.Sequence < MaxTxInSequenceNum
}

func (ti *TxIn) serializeSize() int {
	return 32 + 4 + VarIntSerializeSize(uint64(len(ti.SignatureScript))) +
		len(ti.SignatureScript) + 4
}

// TxOut is a single transaction output.
type TxOut struct {
	Asset      asset.ID
	Value      uint64
	PkScript   []byte
}

func (to *TxOut) serializeSize() int {
	return 1 + 8 + VarIntSerializeSize(uint64(len(to.PkScript))) + len(to.PkScript)
}

// MsgTx is a Pantheon transaction, the unit of value transfer on Layer 1.
type MsgTx struct {
	Version  uint32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns a new, empty transaction with the given version.
func NewMsgTx(version uint32) *MsgTx {
	return &MsgTx{Version: version}
}

// IsCoinbase reports whether tx is a coinbase transaction: exactly one input
// spending the coinbase sentinel OutPoint.
func (tx *MsgTx) IsCoinbase() bool {
	return len(tx.TxIn) == 1 && tx.TxIn[0].PreviousOutPoint.IsCoinbase()
}

// CheckStructure validates the structural invariants of spec.md section 3:
// at least one output; non-coinbase transactions require at least one input
// and no duplicate prevouts.
func (tx *MsgTx) CheckStructure() error {
	if len(tx.TxOut) == 0 {
		return fmt.Errorf("wire: transaction has no outputs")
	}
	if tx.IsCoinbase() {
		return nil
	}
	if len(tx.TxIn) == 0 {
		return fmt.Errorf("wire: non-coinbase transaction has no inputs")
	}
	seen := make(map[OutPoint]struct{}, len(tx.TxIn))
	for _, in := range tx.TxIn {
		if in.PreviousOutPoint.IsCoinbase() {
			return fmt.Errorf("wire: non-coinbase transaction spends coinbase sentinel")
		}
		if _, dup := seen[in.PreviousOutPoint]; dup {
			return fmt.Errorf("wire: duplicate prevout %s", in.PreviousOutPoint)
		}
		seen[in.PreviousOutPoint] = struct{}{}
	}
	for _, out := range tx.TxOut {
		if len(out.PkScript) == 0 {
			return fmt.Errorf("wire: empty pubkey script")
		}
		if !asset.ValidFor(out.Asset, asset.Amount(out.Value)) {
			return fmt.Errorf("wire: output amount exceeds asset cap")
		}
	}
	return nil
}

// Serialize writes the canonical wire encoding of tx to w:
// version(4) || varint(ninputs) || inputs || varint(nouts) || outputs || locktime(4).
func (tx *MsgTx) Serialize(w io.Writer) error {
	return tx.encode(w, keepAllScripts)
}

// keepAllScripts is a sentinel signIndex meaning "include every input's
// signature script unmodified" (used by Serialize/Deserialize/TxHash).
const keepAllScripts = -2

// encode writes tx's wire encoding to w. When signIndex is keepAllScripts,
// every input's signature script is included verbatim; otherwise every
// input's signature script is replaced by an empty byte string, including
// the one at signIndex itself, per spec.md section 4.1's signature-hash
// construction. Blanking signIndex's own script too (rather than keeping
// it) is what lets a signer compute the same preimage before a signature
// exists that a verifier computes after one has been written into
// SignatureScript.
func (tx *MsgTx) encode(w io.Writer, signIndex int) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], tx.Version)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(tx.TxIn))); err != nil {
		return err
	}
	for _, in := range tx.TxIn {
		if _, err := w.Write(in.PreviousOutPoint.Hash[:]); err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(buf[:], in.PreviousOutPoint.Index)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
		script := in.SignatureScript
		if signIndex != keepAllScripts {
			script = nil
		}
		if err := WriteVarBytes(w, script); err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(buf[:], in.Sequence)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(tx.TxOut))); err != nil {
		return err
	}
	for _, out := range tx.TxOut {
		if err := writeTxOut(w, out); err != nil {
			return err
		}
	}

	binary.LittleEndian.PutUint32(buf[:], tx.LockTime)
	_, err := w.Write(buf[:])
	return err
}

func writeTxOut(w io.Writer, out *TxOut) error {
	if _, err := w.Write([]byte{byte(out.Asset)}); err != nil {
		return err
	}
	var v [8]byte
	binary.LittleEndian.PutUint64(v[:], out.Value)
	if _, err := w.Write(v[:]); err != nil {
		return err
	}
	return WriteVarBytes(w, out.PkScript)
}

func readTxOut(r io.Reader) (*TxOut, error) {
	var assetByte [1]byte
	if _, err := io.ReadFull(r, assetByte[:]); err != nil {
		return nil, err
	}
	var v [8]byte
	if _, err := io.ReadFull(r, v[:]); err != nil {
		return nil, err
	}
	pkScript, err := ReadVarBytes(r, MaxMessagePayload, "txout.pkscript")
	if err != nil {
		return nil, err
	}
	return &TxOut{
		Asset:    asset.ID(assetByte[0]),
		Value:    binary.LittleEndian.Uint64(v[:]),
		PkScript: pkScript,
	}, nil
}

// Deserialize reads the canonical wire encoding of a transaction from r.
func (tx *MsgTx) Deserialize(r io.Reader) error {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	tx.Version = binary.LittleEndian.Uint32(buf[:])

	numIn, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	tx.TxIn = make([]*TxIn, numIn)
	for i := range tx.TxIn {
		in := &TxIn{}
		if _, err := io.ReadFull(r, in.PreviousOutPoint.Hash[:]); err != nil {
			return err
		}
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		in.PreviousOutPoint.Index = binary.LittleEndian.Uint32(buf[:])
		in.SignatureScript, err = ReadVarBytes(r, MaxMessagePayload, "txin.sigscript")
		if err != nil {
			return err
		}
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		in.Sequence = binary.LittleEndian.Uint32(buf[:])
		tx.TxIn[i] = in
	}

	numOut, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	tx.TxOut = make([]*TxOut, numOut)
	for i := range tx.TxOut {
		out, err := readTxOut(r)
		if err != nil {
			return err
		}
		tx.TxOut[i] = out
	}

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	tx.LockTime = binary.LittleEndian.Uint32(buf[:])
	return nil
}

// TxHash computes TxID = SHA-256d(canonical serialisation).
func (tx *MsgTx) TxHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = tx.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// SigHash computes the signature hash for the input at signIndex: the
// canonical serialisation with every input's signature script blanked
// (including signIndex's own, so the hash a signer commits to before a
// signature exists is exactly what a verifier recomputes once one has
// been written into SignatureScript), tagged per chainhash.TaggedHash
// so that signature hashes can never collide with plain TxIDs, with
// signIndex itself folded into the tag input so distinct inputs of an
// otherwise-identical transaction never share a signature hash.
func (tx *MsgTx) SigHash(signIndex int) (chainhash.Hash, error) {
	if signIndex < 0 || signIndex >= len(tx.TxIn) {
		return chainhash.Hash{}, fmt.Errorf("wire: sighash index %d out of range", signIndex)
	}
	var buf bytes.Buffer
	if err := tx.encode(&buf, signIndex); err != nil {
		return chainhash.Hash{}, err
	}
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], uint32(signIndex))
	return chainhash.TaggedHash("PantheonTxSigHash", buf.Bytes(), idx[:]), nil
}
