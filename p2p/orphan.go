// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"sync"
	"time"

	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// orphanTx is a transaction received before one of its inputs'
// parents, held until the parent arrives or the entry expires.
type orphanTx struct {
	tx      *wire.MsgTx
	addedAt time.Time
}

// OrphanPool holds transactions relayed before their parent, capped
// at MaxOrphanTxs entries and expiring after OrphanTxTTL, per
// spec.md section 4.8.
type OrphanPool struct {
	mu      sync.Mutex
	entries map[chainhash.Hash]*orphanTx
	order   []chainhash.Hash // insertion order, oldest first
}

// NewOrphanPool returns an empty orphan pool.
func NewOrphanPool() *OrphanPool {
	return &OrphanPool{entries: make(map[chainhash.Hash]*orphanTx)}
}

// Add inserts tx, evicting the oldest entry if the pool is already at
// MaxOrphanTxs.
func (p *OrphanPool) Add(tx *wire.MsgTx, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	txid := tx.TxHash()
	if _, ok := p.entries[txid]; ok {
		return
	}
	if len(p.entries) >= MaxOrphanTxs {
		p.evictOldestLocked()
	}
	p.entries[txid] = &orphanTx{tx: tx, addedAt: now}
	p.order = append(p.order, txid)
}

func (p *OrphanPool) evictOldestLocked() {
	for len(p.order) > 0 {
		oldest := p.order[0]
		p.order = p.order[1:]
		if _, ok := p.entries[oldest]; ok {
			delete(p.entries, oldest)
			return
		}
	}
}

// ExpireOlderThan removes every entry added at or before
// now-OrphanTxTTL (aged OrphanTxTTL or more) and returns how many were
// removed.
func (p *OrphanPool) ExpireOlderThan(now time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	cutoff := now.Add(-OrphanTxTTL)
	remaining := p.order[:0]
	for _, txid := range p.order {
		entry, ok := p.entries[txid]
		if !ok {
			continue
		}
		if !entry.addedAt.After(cutoff) {
			delete(p.entries, txid)
			removed++
			continue
		}
		remaining = append(remaining, txid)
	}
	p.order = remaining
	return removed
}

// Get returns the orphan transaction for txid, if present.
func (p *OrphanPool) Get(txid chainhash.Hash) (*wire.MsgTx, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.entries[txid]
	if !ok {
		return nil, false
	}
	return entry.tx, true
}

// Remove drops txid from the pool, e.g. once its parent has arrived
// and it has been reprocessed into the mempool.
func (p *OrphanPool) Remove(txid chainhash.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, txid)
}

// Count returns the number of orphans currently held.
func (p *OrphanPool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
