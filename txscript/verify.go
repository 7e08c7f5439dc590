// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// PkScriptSize is the length of a pay-to-pubkey locking script: a
// single compressed secp256k1 public key, no opcodes. Pantheon has no
// script language beyond this one form, so PkScript and SignatureScript
// are interpreted directly as a key and a signature rather than parsed.
const PkScriptSize = 33

// SignatureScriptSize is the length of a spending input's signature
// script: a single serialized BIP-340 Schnorr signature.
const SignatureScriptSize = 64

// CheckTxInputSignature reports whether tx's input at index is signed
// correctly for prevOutPkScript, the locking script of the output it
// spends. prevOutPkScript must be a 33-byte compressed public key and
// the input's SignatureScript must be a 64-byte BIP-340 signature over
// tx's SigHash for that input under that key.
//
// cache may be nil, in which case every call does the full curve
// verification. When cache is non-nil, a prior Add for the same
// (sigHash, sig, pubKey) short-circuits the check, and a fresh valid
// result is recorded for later callers (e.g. a block connecting a
// transaction already verified once on mempool admission).
func CheckTxInputSignature(cache *SigCache, tx *wire.MsgTx, index int, prevOutPkScript []byte) bool {
	if index < 0 || index >= len(tx.TxIn) {
		return false
	}
	if len(prevOutPkScript) != PkScriptSize {
		return false
	}
	sigScript := tx.TxIn[index].SignatureScript
	if len(sigScript) != SignatureScriptSize {
		return false
	}

	pubKey, err := secp256k1.ParsePubKey(prevOutPkScript)
	if err != nil {
		return false
	}
	sig, err := ParseSignature(sigScript)
	if err != nil {
		return false
	}
	sigHash, err := tx.SigHash(index)
	if err != nil {
		return false
	}

	if cache != nil && cache.Exists(sigHash, sig, pubKey) {
		return true
	}
	if !Verify(sig, sigHash, pubKey) {
		return false
	}
	if cache != nil {
		cache.Add(sigHash, sig, pubKey, tx)
	}
	return true
}
