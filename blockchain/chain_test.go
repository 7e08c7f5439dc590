// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"
	"testing"

	"github.com/Tsoympet/PantheonChain-sub001/asset"
	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// easyBits decodes to a near-maximal target so every test block's hash
// trivially satisfies CheckProofOfWork, isolating these tests from
// actual mining.
const easyBits = 0x207fffff

func coinbaseTx(value uint64, extraNonce uint32) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.TxIn = []*wire.TxIn{{
		PreviousOutPoint: wire.OutPoint{Index: wire.CoinbaseIndex},
		SignatureScript:  []byte{byte(extraNonce), byte(extraNonce >> 8)},
		Sequence:         wire.MaxTxInSequenceNum,
	}}
	tx.TxOut = []*wire.TxOut{{Asset: asset.TALANTON, Value: value, PkScript: []byte{0x01}}}
	return tx
}

func buildBlock(prev chainhash.Hash, txs []*wire.MsgTx, nonce uint32) *wire.MsgBlock {
	txids := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		txids[i] = tx.TxHash()
	}
	return &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:    1,
			PrevBlock:  prev,
			MerkleRoot: wire.CalcMerkleRoot(txids),
			Timestamp:  1700000000 + uint32(nonce),
			Bits:       easyBits,
			Nonce:      nonce,
		},
		Transactions: txs,
	}
}

func TestConnectGenesisBlock(t *testing.T) {
	c := NewChain()
	cb := coinbaseTx(uint64(CalcBlockSubsidy(1, asset.TALANTON)), 0)
	block := buildBlock(chainhash.Hash{}, []*wire.MsgTx{cb}, 0)

	undo, err := c.ConnectBlock(block)
	if err != nil {
		t.Fatalf("ConnectBlock: %v", err)
	}
	if len(undo.TxUndo) != 0 {
		t.Fatalf("genesis has no non-coinbase txs, undo should be empty, got %d entries", len(undo.TxUndo))
	}
	if c.Height() != 1 {
		t.Fatalf("Height = %d, want 1", c.Height())
	}
	if c.Tip() != block.BlockHash() {
		t.Fatal("Tip should be the connected block's hash")
	}
	if c.Supply(asset.TALANTON) != asset.Amount(CalcBlockSubsidy(1, asset.TALANTON)) {
		t.Fatalf("Supply = %d, want %d", c.Supply(asset.TALANTON), CalcBlockSubsidy(1, asset.TALANTON))
	}
	cbOut := wire.OutPoint{Hash: cb.TxHash(), Index: 0}
	if !c.UTXOSet().HaveCoin(cbOut) {
		t.Fatal("coinbase output should be in the UTXO set")
	}
	if _, ok := c.BlockIndexEntry(block.BlockHash()); !ok {
		t.Fatal("block index entry should exist after connect")
	}
}

func TestConnectBlockRejectsBadMerkleRoot(t *testing.T) {
	c := NewChain()
	cb := coinbaseTx(uint64(CalcBlockSubsidy(1, asset.TALANTON)), 0)
	block := buildBlock(chainhash.Hash{}, []*wire.MsgTx{cb}, 0)
	block.Header.MerkleRoot = chainhash.Hash{0xff}

	_, err := c.ConnectBlock(block)
	if !errors.Is(err, ErrBadMerkleRoot) {
		t.Fatalf("err = %v, want ErrBadMerkleRoot", err)
	}
}

func TestConnectBlockRejectsOversizedCoinbaseReward(t *testing.T) {
	c := NewChain()
	cb := coinbaseTx(uint64(CalcBlockSubsidy(1, asset.TALANTON))+1, 0)
	block := buildBlock(chainhash.Hash{}, []*wire.MsgTx{cb}, 0)

	_, err := c.ConnectBlock(block)
	if !errors.Is(err, ErrBadBlockReward) {
		t.Fatalf("err = %v, want ErrBadBlockReward", err)
	}
}

func TestConnectBlockRejectsWrongPrevBlock(t *testing.T) {
	c := NewChain()
	cb := coinbaseTx(uint64(CalcBlockSubsidy(1, asset.TALANTON)), 0)
	block := buildBlock(chainhash.Hash{0x01}, []*wire.MsgTx{cb}, 0)

	_, err := c.ConnectBlock(block)
	if !errors.Is(err, ErrNotTip) {
		t.Fatalf("err = %v, want ErrNotTip", err)
	}
}

// chainTo connects n trivially-valid coinbase-only blocks in a row,
// starting from genesis, and returns the chain together with the list
// of connected blocks and their undo data.
func chainTo(t *testing.T, n int) (*Chain, []*wire.MsgBlock, []*BlockUndo) {
	t.Helper()
	c := NewChain()
	var blocks []*wire.MsgBlock
	var undos []*BlockUndo
	for i := 0; i < n; i++ {
		height := int64(i + 1)
		cb := coinbaseTx(uint64(CalcBlockSubsidy(height, asset.TALANTON)), uint32(i))
		block := buildBlock(c.Tip(), []*wire.MsgTx{cb}, uint32(i))
		undo, err := c.ConnectBlock(block)
		if err != nil {
			t.Fatalf("connecting block %d: %v", i, err)
		}
		blocks = append(blocks, block)
		undos = append(undos, undo)
	}
	return c, blocks, undos
}

func TestSpendRejectedBeforeCoinbaseMaturity(t *testing.T) {
	c, blocks, _ := chainTo(t, 1)
	cbTxid := blocks[0].Transactions[0].TxHash()

	spend := wire.NewMsgTx(1)
	spend.TxIn = []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Hash: cbTxid, Index: 0}, Sequence: wire.MaxTxInSequenceNum}}
	spend.TxOut = []*wire.TxOut{{Asset: asset.TALANTON, Value: uint64(CalcBlockSubsidy(1, asset.TALANTON)), PkScript: []byte{0x01}}}

	nextCb := coinbaseTx(uint64(CalcBlockSubsidy(2, asset.TALANTON)), 99)
	block := buildBlock(c.Tip(), []*wire.MsgTx{nextCb, spend}, 99)

	_, err := c.ConnectBlock(block)
	if !errors.Is(err, ErrMissingPrevout) {
		t.Fatalf("err = %v, want ErrMissingPrevout (immature coinbase)", err)
	}
}

func TestSpendAcceptedAfterCoinbaseMaturity(t *testing.T) {
	c, blocks, _ := chainTo(t, CoinbaseMaturity)
	cbTxid := blocks[0].Transactions[0].TxHash()
	cbValue := uint64(CalcBlockSubsidy(1, asset.TALANTON))

	spend := wire.NewMsgTx(1)
	spend.TxIn = []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Hash: cbTxid, Index: 0}, Sequence: wire.MaxTxInSequenceNum}}
	spend.TxOut = []*wire.TxOut{{Asset: asset.TALANTON, Value: cbValue, PkScript: []byte{0x01}}}

	nextHeight := c.Height() + 1
	nextCb := coinbaseTx(uint64(CalcBlockSubsidy(nextHeight, asset.TALANTON)), 999)
	block := buildBlock(c.Tip(), []*wire.MsgTx{nextCb, spend}, 999)

	undo, err := c.ConnectBlock(block)
	if err != nil {
		t.Fatalf("ConnectBlock: %v", err)
	}
	if len(undo.TxUndo) != 1 || len(undo.TxUndo[0]) != 1 {
		t.Fatalf("expected exactly one undo entry with one consumed coin, got %+v", undo.TxUndo)
	}
	if c.UTXOSet().HaveCoin(wire.OutPoint{Hash: cbTxid, Index: 0}) {
		t.Fatal("spent coinbase output should no longer be in the UTXO set")
	}
	newOut := wire.OutPoint{Hash: spend.TxHash(), Index: 0}
	if !c.UTXOSet().HaveCoin(newOut) {
		t.Fatal("spend's new output should be in the UTXO set")
	}
}

func TestConnectBlockRejectsTransactionWithDuplicatePrevouts(t *testing.T) {
	// A transaction spending the same prevout twice fails structural
	// validation (step 1) before chain.go's own per-transaction
	// duplicate guard is ever reached.
	c, blocks, _ := chainTo(t, CoinbaseMaturity)
	cbTxid := blocks[0].Transactions[0].TxHash()
	cbValue := uint64(CalcBlockSubsidy(1, asset.TALANTON))
	prevout := wire.OutPoint{Hash: cbTxid, Index: 0}

	spend := wire.NewMsgTx(1)
	in := &wire.TxIn{PreviousOutPoint: prevout, Sequence: wire.MaxTxInSequenceNum}
	spend.TxIn = []*wire.TxIn{in, in}
	spend.TxOut = []*wire.TxOut{{Asset: asset.TALANTON, Value: cbValue, PkScript: []byte{0x01}}}

	nextHeight := c.Height() + 1
	nextCb := coinbaseTx(uint64(CalcBlockSubsidy(nextHeight, asset.TALANTON)), 123)
	block := buildBlock(c.Tip(), []*wire.MsgTx{nextCb, spend}, 123)

	_, err := c.ConnectBlock(block)
	if !errors.Is(err, ErrBadCoinbase) {
		t.Fatalf("err = %v, want ErrBadCoinbase (structural rejection)", err)
	}
}

func TestConnectBlockRejectsAssetConservationViolation(t *testing.T) {
	c, blocks, _ := chainTo(t, CoinbaseMaturity)
	cbTxid := blocks[0].Transactions[0].TxHash()
	cbValue := uint64(CalcBlockSubsidy(1, asset.TALANTON))

	spend := wire.NewMsgTx(1)
	spend.TxIn = []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Hash: cbTxid, Index: 0}, Sequence: wire.MaxTxInSequenceNum}}
	spend.TxOut = []*wire.TxOut{{Asset: asset.TALANTON, Value: cbValue + 1, PkScript: []byte{0x01}}}

	nextHeight := c.Height() + 1
	nextCb := coinbaseTx(uint64(CalcBlockSubsidy(nextHeight, asset.TALANTON)), 321)
	block := buildBlock(c.Tip(), []*wire.MsgTx{nextCb, spend}, 321)

	_, err := c.ConnectBlock(block)
	if !errors.Is(err, ErrAssetConservation) {
		t.Fatalf("err = %v, want ErrAssetConservation", err)
	}
}

func TestDisconnectBlockRestoresUTXOSetAndSupply(t *testing.T) {
	c, blocks, undos := chainTo(t, 3)
	lastBlock := blocks[len(blocks)-1]
	lastUndo := undos[len(undos)-1]

	heightBefore := c.Height()
	supplyBefore := c.Supply(asset.TALANTON)
	tipBefore := c.Tip()

	if err := c.DisconnectBlock(lastBlock, lastUndo); err != nil {
		t.Fatalf("DisconnectBlock: %v", err)
	}
	if c.Height() != heightBefore-1 {
		t.Fatalf("Height = %d, want %d", c.Height(), heightBefore-1)
	}
	if c.Tip() != lastBlock.Header.PrevBlock {
		t.Fatal("Tip should roll back to the disconnected block's prev hash")
	}
	if c.Tip() == tipBefore {
		t.Fatal("Tip must actually change")
	}
	if c.Supply(asset.TALANTON) != supplyBefore-asset.Amount(CalcBlockSubsidy(heightBefore, asset.TALANTON)) {
		t.Fatal("supply should be decremented by the disconnected block's coinbase amount")
	}
	cbOut := wire.OutPoint{Hash: lastBlock.Transactions[0].TxHash(), Index: 0}
	if c.UTXOSet().HaveCoin(cbOut) {
		t.Fatal("disconnected block's coinbase output should no longer be in the UTXO set")
	}
	if _, ok := c.BlockIndexEntry(lastBlock.BlockHash()); ok {
		t.Fatal("block index entry should be removed on disconnect")
	}
}

func TestDisconnectBlockRestoresSpentInputs(t *testing.T) {
	c, blocks, _ := chainTo(t, CoinbaseMaturity)
	cbTxid := blocks[0].Transactions[0].TxHash()
	cbValue := uint64(CalcBlockSubsidy(1, asset.TALANTON))

	spend := wire.NewMsgTx(1)
	spend.TxIn = []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Hash: cbTxid, Index: 0}, Sequence: wire.MaxTxInSequenceNum}}
	spend.TxOut = []*wire.TxOut{{Asset: asset.TALANTON, Value: cbValue, PkScript: []byte{0x01}}}

	nextHeight := c.Height() + 1
	nextCb := coinbaseTx(uint64(CalcBlockSubsidy(nextHeight, asset.TALANTON)), 55)
	block := buildBlock(c.Tip(), []*wire.MsgTx{nextCb, spend}, 55)

	undo, err := c.ConnectBlock(block)
	if err != nil {
		t.Fatalf("ConnectBlock: %v", err)
	}

	if err := c.DisconnectBlock(block, undo); err != nil {
		t.Fatalf("DisconnectBlock: %v", err)
	}
	if !c.UTXOSet().HaveCoin(wire.OutPoint{Hash: cbTxid, Index: 0}) {
		t.Fatal("disconnect should restore the spent coinbase output")
	}
	if c.UTXOSet().HaveCoin(wire.OutPoint{Hash: spend.TxHash(), Index: 0}) {
		t.Fatal("disconnect should remove the spend's own output")
	}
}

func TestDisconnectRejectsNonTipBlock(t *testing.T) {
	c, blocks, undos := chainTo(t, 3)
	// blocks[0] is no longer the tip.
	if err := c.DisconnectBlock(blocks[0], undos[0]); !errors.Is(err, ErrNotTip) {
		t.Fatalf("err = %v, want ErrNotTip", err)
	}
}

func TestDisconnectRejectsGenesis(t *testing.T) {
	c := NewChain()
	if err := c.DisconnectBlock(&wire.MsgBlock{}, NewBlockUndo()); !errors.Is(err, ErrGenesisDisconnect) {
		t.Fatalf("err = %v, want ErrGenesisDisconnect", err)
	}
}

func TestConnectDisconnectRoundTripIsIdentity(t *testing.T) {
	c, blocks, undos := chainTo(t, 5)
	tipBefore := c.Tip()
	heightBefore := c.Height()
	sizeBefore := c.UTXOSet().Size()

	last := blocks[len(blocks)-1]
	lastUndo := undos[len(undos)-1]
	if err := c.DisconnectBlock(last, lastUndo); err != nil {
		t.Fatalf("DisconnectBlock: %v", err)
	}
	redo, err := c.ConnectBlock(last)
	if err != nil {
		t.Fatalf("re-ConnectBlock: %v", err)
	}
	_ = redo

	if c.Tip() != tipBefore {
		t.Fatal("round trip should restore the original tip")
	}
	if c.Height() != heightBefore {
		t.Fatal("round trip should restore the original height")
	}
	if c.UTXOSet().Size() != sizeBefore {
		t.Fatalf("round trip should restore the UTXO set size, got %d want %d", c.UTXOSet().Size(), sizeBefore)
	}
}
