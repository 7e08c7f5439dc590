// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"testing"

	"github.com/Tsoympet/PantheonChain-sub001/asset"
	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// stubView is a fixed confirmed-UTXO view for tests.
type stubView map[wire.OutPoint]wire.TxOut

func (v stubView) Output(op wire.OutPoint) (asset.ID, uint64, bool) {
	out, ok := v[op]
	if !ok {
		return 0, 0, false
	}
	return out.Asset, out.Value, true
}

func (v stubView) PkScript(op wire.OutPoint) ([]byte, bool) {
	out, ok := v[op]
	if !ok {
		return nil, false
	}
	return out.PkScript, true
}

func fundingOutPoint(n byte) wire.OutPoint {
	var h chainhash.Hash
	h[0] = n
	return wire.OutPoint{Hash: h, Index: 0}
}

// spendTx builds a single-input, single-output transaction spending op
// for value in, paying out out, to a distinct script per idx so its
// txid is unique.
func spendTx(op wire.OutPoint, in, out uint64, sequence uint32, idx byte) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.TxIn = []*wire.TxIn{{PreviousOutPoint: op, Sequence: sequence}}
	tx.TxOut = []*wire.TxOut{{Asset: asset.TALANTON, Value: out, PkScript: []byte{0x51, idx}}}
	return tx
}

func TestAcceptTxBasic(t *testing.T) {
	p := New(0)
	view := stubView{fundingOutPoint(1): {Asset: asset.TALANTON, Value: 100000, PkScript: []byte{0x51}}}

	tx := spendTx(fundingOutPoint(1), 100000, 99000, wire.MaxTxInSequenceNum, 0)
	if err := p.AcceptTx(tx, view, 1, 1000); err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
	if !p.Has(tx.TxHash()) {
		t.Fatal("transaction should be pooled")
	}
}

func TestAcceptTxRejectsDuplicate(t *testing.T) {
	p := New(0)
	view := stubView{fundingOutPoint(1): {Asset: asset.TALANTON, Value: 100000, PkScript: []byte{0x51}}}
	tx := spendTx(fundingOutPoint(1), 100000, 99000, wire.MaxTxInSequenceNum, 0)

	if err := p.AcceptTx(tx, view, 1, 1000); err != nil {
		t.Fatal(err)
	}
	if err := p.AcceptTx(tx, view, 1, 1001); err != ErrAlreadyInPool {
		t.Fatalf("got %v want ErrAlreadyInPool", err)
	}
}

func TestAcceptTxRejectsLowFeeRate(t *testing.T) {
	p := New(0)
	view := stubView{fundingOutPoint(1): {Asset: asset.TALANTON, Value: 100000, PkScript: []byte{0x51}}}
	tx := spendTx(fundingOutPoint(1), 100000, 100000, wire.MaxTxInSequenceNum, 0) // zero fee

	if err := p.AcceptTx(tx, view, 1, 1000); err != ErrFeeTooLow {
		t.Fatalf("got %v want ErrFeeTooLow", err)
	}
}

func TestAcceptTxRejectsUnknownInput(t *testing.T) {
	p := New(0)
	view := stubView{}
	tx := spendTx(fundingOutPoint(1), 100000, 99000, wire.MaxTxInSequenceNum, 0)

	if err := p.AcceptTx(tx, view, 1, 1000); err != ErrInvalidTx {
		t.Fatalf("got %v want ErrInvalidTx", err)
	}
}

func TestAcceptTxRejectsConflictWithoutRBF(t *testing.T) {
	p := New(0)
	view := stubView{fundingOutPoint(1): {Asset: asset.TALANTON, Value: 100000, PkScript: []byte{0x51}}}

	first := spendTx(fundingOutPoint(1), 100000, 99000, wire.MaxTxInSequenceNum, 0)
	if err := p.AcceptTx(first, view, 1, 1000); err != nil {
		t.Fatal(err)
	}

	second := spendTx(fundingOutPoint(1), 100000, 98000, wire.MaxTxInSequenceNum, 1)
	if err := p.AcceptTx(second, view, 1, 1001); err != ErrConflict {
		t.Fatalf("got %v want ErrConflict (neither side signals RBF)", err)
	}
}

func TestAcceptTxReplacementProtocol(t *testing.T) {
	p := New(0)
	view := stubView{fundingOutPoint(1): {Asset: asset.TALANTON, Value: 1_000_000, PkScript: []byte{0x51}}}

	original := spendTx(fundingOutPoint(1), 1_000_000, 999_000, 0, 0) // fee 1000, RBF-signaling
	if err := p.AcceptTx(original, view, 1, 1000); err != nil {
		t.Fatal(err)
	}

	// Replacement must pay strictly more, at least replaced+increment,
	// and a high enough fee rate.
	weak := spendTx(fundingOutPoint(1), 1_000_000, 998_500, 0, 1) // fee 1500, +500 only
	if err := p.AcceptTx(weak, view, 1, 1001); err != ErrRBFRejected {
		t.Fatalf("got %v want ErrRBFRejected (insufficient fee bump)", err)
	}
	if !p.Has(original.TxHash()) {
		t.Fatal("original should survive a rejected replacement attempt")
	}

	strong := spendTx(fundingOutPoint(1), 1_000_000, 990_000, 0, 2) // fee 10000
	if err := p.AcceptTx(strong, view, 1, 1002); err != nil {
		t.Fatalf("expected a well-funded replacement to succeed, got %v", err)
	}
	if p.Has(original.TxHash()) {
		t.Fatal("original should have been evicted by the replacement")
	}
	if !p.Has(strong.TxHash()) {
		t.Fatal("replacement should be pooled")
	}
}

func TestAcceptTxReplacementRequiresBothSidesToSignal(t *testing.T) {
	p := New(0)
	view := stubView{fundingOutPoint(1): {Asset: asset.TALANTON, Value: 1_000_000, PkScript: []byte{0x51}}}

	original := spendTx(fundingOutPoint(1), 1_000_000, 999_000, wire.MaxTxInSequenceNum, 0) // does not signal RBF
	if err := p.AcceptTx(original, view, 1, 1000); err != nil {
		t.Fatal(err)
	}

	replacement := spendTx(fundingOutPoint(1), 1_000_000, 990_000, 0, 1)
	if err := p.AcceptTx(replacement, view, 1, 1001); err != ErrConflict {
		t.Fatalf("got %v want ErrConflict (original does not signal RBF)", err)
	}
}

func TestCPFPChildFundedFromPooledParent(t *testing.T) {
	p := New(0)
	view := stubView{fundingOutPoint(1): {Asset: asset.TALANTON, Value: 1_000_000, PkScript: []byte{0x51}}}

	parent := spendTx(fundingOutPoint(1), 1_000_000, 999_900, wire.MaxTxInSequenceNum, 0) // fee 100, low fee-rate
	if err := p.AcceptTx(parent, view, 1, 1000); err != nil {
		t.Fatal(err)
	}

	parentOut := wire.OutPoint{Hash: parent.TxHash(), Index: 0}
	child := spendTx(parentOut, 999_900, 998_900, wire.MaxTxInSequenceNum, 1) // fee 1000, funded from parent's unconfirmed output
	if err := p.AcceptTx(child, view, 1, 1001); err != nil {
		t.Fatalf("child spending an unconfirmed parent output should be admitted: %v", err)
	}

	childEntry, ok := p.Get(child.TxHash())
	if !ok {
		t.Fatal("child should be pooled")
	}
	if childEntry.AncestorCount != 2 {
		t.Fatalf("got ancestor count %d want 2", childEntry.AncestorCount)
	}
	if childEntry.AncestorFee != 1100 { // parent's fee (100) + child's fee (1000)
		t.Fatalf("got ancestor fee %d want 1100", childEntry.AncestorFee)
	}

	packages := p.Packages()
	if len(packages) != 1 {
		t.Fatalf("got %d packages want 1 (parent+child share a component)", len(packages))
	}
	if len(packages[0].Entries) != 2 {
		t.Fatalf("got %d entries want 2", len(packages[0].Entries))
	}
	if packages[0].Entries[0].Tx.TxHash() != parent.TxHash() {
		t.Fatal("parent must precede child within a package")
	}
}

func TestEvictionDropsLowestFeeRateFirst(t *testing.T) {
	view := stubView{
		fundingOutPoint(1): {Asset: asset.TALANTON, Value: 100000, PkScript: []byte{0x51}},
		fundingOutPoint(2): {Asset: asset.TALANTON, Value: 100000, PkScript: []byte{0x51}},
	}

	low := spendTx(fundingOutPoint(1), 100000, 99900, wire.MaxTxInSequenceNum, 0)  // fee 100, feerate 1
	high := spendTx(fundingOutPoint(2), 100000, 90000, wire.MaxTxInSequenceNum, 1) // fee 10000, feerate 158

	p := New(0)
	if err := p.AcceptTx(low, view, 1, 1000); err != nil {
		t.Fatal(err)
	}
	lowSize := p.Size()
	p2 := New(lowSize) // cap sized to fit only one transaction's worth of bytes

	if err := p2.AcceptTx(low, view, 1, 1000); err != nil {
		t.Fatal(err)
	}
	if err := p2.AcceptTx(high, view, 1, 1001); err != nil {
		t.Fatalf("high fee-rate transaction should be admitted: %v", err)
	}
	if p2.Has(low.TxHash()) {
		t.Fatal("low fee-rate transaction should have been evicted for space")
	}
	if !p2.Has(high.TxHash()) {
		t.Fatal("high fee-rate transaction should remain pooled")
	}
}

func TestRemoveConfirmedDropsAndRevalidates(t *testing.T) {
	p := New(0)
	view := stubView{fundingOutPoint(1): {Asset: asset.TALANTON, Value: 100000, PkScript: []byte{0x51}}}

	tx := spendTx(fundingOutPoint(1), 100000, 99000, wire.MaxTxInSequenceNum, 0)
	if err := p.AcceptTx(tx, view, 1, 1000); err != nil {
		t.Fatal(err)
	}

	p.RemoveConfirmed([]chainhash.Hash{tx.TxHash()}, stubView{})
	if p.Has(tx.TxHash()) {
		t.Fatal("confirmed transaction should be removed from the pool")
	}
}

func TestRemoveConfirmedDropsNowInvalidDoubleSpend(t *testing.T) {
	p := New(0)
	view := stubView{fundingOutPoint(1): {Asset: asset.TALANTON, Value: 100000, PkScript: []byte{0x51}}}

	pooled := spendTx(fundingOutPoint(1), 100000, 99000, 0, 0)
	other := spendTx(fundingOutPoint(1), 100000, 90000, 0, 1)
	if err := p.AcceptTx(pooled, view, 1, 1000); err != nil {
		t.Fatal(err)
	}

	// A confirmed block spent fundingOutPoint(1) via a transaction not
	// otherwise in the pool; the post-connect view no longer has it.
	p.RemoveConfirmed([]chainhash.Hash{other.TxHash()}, stubView{})
	if p.Has(pooled.TxHash()) {
		t.Fatal("transaction whose input is no longer in the UTXO set must be dropped")
	}
}

func TestByFeeRateOrdering(t *testing.T) {
	view := stubView{
		fundingOutPoint(1): {Asset: asset.TALANTON, Value: 100000, PkScript: []byte{0x51}},
		fundingOutPoint(2): {Asset: asset.TALANTON, Value: 100000, PkScript: []byte{0x51}},
	}
	p := New(0)

	low := spendTx(fundingOutPoint(1), 100000, 99500, wire.MaxTxInSequenceNum, 0)  // fee 500
	high := spendTx(fundingOutPoint(2), 100000, 95000, wire.MaxTxInSequenceNum, 1) // fee 5000
	if err := p.AcceptTx(low, view, 1, 1000); err != nil {
		t.Fatal(err)
	}
	if err := p.AcceptTx(high, view, 1, 1001); err != nil {
		t.Fatal(err)
	}

	ordered := p.ByFeeRate(0)
	if len(ordered) != 2 {
		t.Fatalf("got %d entries want 2", len(ordered))
	}
	if ordered[0].Tx.TxHash() != high.TxHash() {
		t.Fatal("higher fee-rate transaction must sort first")
	}
}
