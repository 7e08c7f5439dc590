// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"testing"
	"time"

	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

func newTestTx(index uint32) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.TxIn = []*wire.TxIn{{
		PreviousOutPoint: wire.OutPoint{Index: index},
		Sequence:         wire.MaxTxInSequenceNum,
	}}
	tx.TxOut = []*wire.TxOut{{Value: 1000}}
	return tx
}

func TestOrphanPoolAddAndGet(t *testing.T) {
	p := NewOrphanPool()
	now := time.Now()
	tx := newTestTx(0)
	p.Add(tx, now)
	if p.Count() != 1 {
		t.Fatalf("Count = %d, want 1", p.Count())
	}
	got, ok := p.Get(tx.TxHash())
	if !ok || got != tx {
		t.Fatal("Get should return the added transaction")
	}
}

func TestOrphanPoolAddIsDedupedByTxid(t *testing.T) {
	p := NewOrphanPool()
	now := time.Now()
	tx := newTestTx(0)
	p.Add(tx, now)
	p.Add(tx, now.Add(time.Minute))
	if p.Count() != 1 {
		t.Fatalf("Count = %d, want 1 after re-adding the same tx", p.Count())
	}
}

func TestOrphanPoolEvictsOldestAtCapacity(t *testing.T) {
	p := NewOrphanPool()
	now := time.Now()
	var first *wire.MsgTx
	for i := 0; i < MaxOrphanTxs; i++ {
		tx := newTestTx(uint32(i))
		if i == 0 {
			first = tx
		}
		p.Add(tx, now.Add(time.Duration(i)*time.Second))
	}
	if p.Count() != MaxOrphanTxs {
		t.Fatalf("Count = %d, want %d", p.Count(), MaxOrphanTxs)
	}

	overflow := newTestTx(uint32(MaxOrphanTxs))
	p.Add(overflow, now.Add(time.Duration(MaxOrphanTxs)*time.Second))

	if p.Count() != MaxOrphanTxs {
		t.Fatalf("Count after overflow = %d, want %d (oldest evicted)", p.Count(), MaxOrphanTxs)
	}
	if _, ok := p.Get(first.TxHash()); ok {
		t.Fatal("the oldest orphan should have been evicted")
	}
	if _, ok := p.Get(overflow.TxHash()); !ok {
		t.Fatal("the newly added orphan should be present")
	}
}

func TestOrphanPoolExpireOlderThan(t *testing.T) {
	p := NewOrphanPool()
	now := time.Now()
	oldTx := newTestTx(0)
	freshTx := newTestTx(1)
	p.Add(oldTx, now)
	p.Add(freshTx, now.Add(OrphanTxTTL-time.Second))

	removed := p.ExpireOlderThan(now.Add(OrphanTxTTL))
	if removed != 1 {
		t.Fatalf("ExpireOlderThan removed %d, want 1", removed)
	}
	if _, ok := p.Get(oldTx.TxHash()); ok {
		t.Fatal("the expired orphan should have been removed")
	}
	if _, ok := p.Get(freshTx.TxHash()); !ok {
		t.Fatal("the non-expired orphan should remain")
	}
}

func TestOrphanPoolRemove(t *testing.T) {
	p := NewOrphanPool()
	now := time.Now()
	tx := newTestTx(0)
	p.Add(tx, now)
	p.Remove(tx.TxHash())
	if p.Count() != 0 {
		t.Fatalf("Count after Remove = %d, want 0", p.Count())
	}
	if _, ok := p.Get(tx.TxHash()); ok {
		t.Fatal("removed orphan should no longer be retrievable")
	}
}
