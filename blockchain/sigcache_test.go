// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/Tsoympet/PantheonChain-sub001/asset"
	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
	"github.com/Tsoympet/PantheonChain-sub001/txscript"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// lockedCoinbaseTx is coinbaseTx but paying to pkScript instead of the
// fixed placeholder script, so its output can be spent by a real
// signature.
func lockedCoinbaseTx(value uint64, extraNonce uint32, pkScript []byte) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.TxIn = []*wire.TxIn{{
		PreviousOutPoint: wire.OutPoint{Index: wire.CoinbaseIndex},
		SignatureScript:  []byte{byte(extraNonce), byte(extraNonce >> 8)},
		Sequence:         wire.MaxTxInSequenceNum,
	}}
	tx.TxOut = []*wire.TxOut{{Asset: asset.TALANTON, Value: value, PkScript: pkScript}}
	return tx
}

// chainWithLockedCoinbase connects a genesis block whose coinbase output
// is locked to pkScript, then connects enough filler blocks for that
// output to mature, returning the chain and the coinbase transaction.
func chainWithLockedCoinbase(t *testing.T, cache *txscript.SigCache, pkScript []byte) (*Chain, *wire.MsgTx) {
	t.Helper()
	c := NewChain()
	c.SetSigCache(cache)

	cb := lockedCoinbaseTx(uint64(CalcBlockSubsidy(1, asset.TALANTON)), 0, pkScript)
	genesis := buildBlock(chainhash.Hash{}, []*wire.MsgTx{cb}, 0)
	if _, err := c.ConnectBlock(genesis); err != nil {
		t.Fatalf("connecting genesis: %v", err)
	}

	for i := 0; i < CoinbaseMaturity-1; i++ {
		height := int64(i + 2)
		filler := coinbaseTx(uint64(CalcBlockSubsidy(height, asset.TALANTON)), uint32(i+1))
		block := buildBlock(c.Tip(), []*wire.MsgTx{filler}, uint32(i+1))
		if _, err := c.ConnectBlock(block); err != nil {
			t.Fatalf("connecting filler block %d: %v", i, err)
		}
	}
	return c, cb
}

func TestConnectBlockWithSigCacheAcceptsValidSignature(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	pkScript := priv.PubKey().SerializeCompressed()

	cache, err := txscript.NewSigCache(10)
	if err != nil {
		t.Fatal(err)
	}
	c, cb := chainWithLockedCoinbase(t, cache, pkScript)

	spend := wire.NewMsgTx(1)
	spend.TxIn = []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Hash: cb.TxHash(), Index: 0}, Sequence: wire.MaxTxInSequenceNum}}
	spend.TxOut = []*wire.TxOut{{Asset: asset.TALANTON, Value: uint64(CalcBlockSubsidy(1, asset.TALANTON)), PkScript: []byte{0x01}}}
	sigHash, err := spend.SigHash(0)
	if err != nil {
		t.Fatal(err)
	}
	spend.TxIn[0].SignatureScript = txscript.Sign(priv, sigHash).Serialize()

	nextHeight := c.Height() + 1
	nextCb := coinbaseTx(uint64(CalcBlockSubsidy(nextHeight, asset.TALANTON)), 999)
	block := buildBlock(c.Tip(), []*wire.MsgTx{nextCb, spend}, 999)

	if _, err := c.ConnectBlock(block); err != nil {
		t.Fatalf("expected a validly signed spend to connect, got %v", err)
	}
}

func TestConnectBlockWithSigCacheRejectsBadSignature(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	other, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	pkScript := priv.PubKey().SerializeCompressed()

	cache, err := txscript.NewSigCache(10)
	if err != nil {
		t.Fatal(err)
	}
	c, cb := chainWithLockedCoinbase(t, cache, pkScript)

	spend := wire.NewMsgTx(1)
	spend.TxIn = []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Hash: cb.TxHash(), Index: 0}, Sequence: wire.MaxTxInSequenceNum}}
	spend.TxOut = []*wire.TxOut{{Asset: asset.TALANTON, Value: uint64(CalcBlockSubsidy(1, asset.TALANTON)), PkScript: []byte{0x01}}}
	sigHash, err := spend.SigHash(0)
	if err != nil {
		t.Fatal(err)
	}
	// Signed by the wrong key.
	spend.TxIn[0].SignatureScript = txscript.Sign(other, sigHash).Serialize()

	nextHeight := c.Height() + 1
	nextCb := coinbaseTx(uint64(CalcBlockSubsidy(nextHeight, asset.TALANTON)), 999)
	block := buildBlock(c.Tip(), []*wire.MsgTx{nextCb, spend}, 999)

	_, err = c.ConnectBlock(block)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}
