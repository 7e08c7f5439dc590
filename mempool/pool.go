// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"errors"
	"sort"
	"sync"

	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
	"github.com/Tsoympet/PantheonChain-sub001/txscript"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// Tunable policy constants. spec.md section 4.5 names the acceptance
// formula but leaves the exact thresholds to the implementation; these
// mirror Bitcoin Core's conventional defaults in spirit (a minimum
// relay rate, an absolute minimum fee bump, and a fee-rate floor for
// the replacement).
const (
	// MinRelayFeeRate is the minimum fee, in base units per byte, a
	// transaction must pay to be relayed/admitted at all.
	MinRelayFeeRate uint64 = 1

	// MinRBFFeeIncrement is the minimum additional absolute fee, in base
	// units, a replacement must pay over the total fee of everything it
	// conflicts with.
	MinRBFFeeIncrement uint64 = 1000

	// rbfFeeRateMultiplierNum/Denom express "at least 1.5x" the minimum
	// fee-rate among the replaced transactions.
	rbfFeeRateMultiplierNum   uint64 = 3
	rbfFeeRateMultiplierDenom uint64 = 2

	// DefaultMaxPoolBytes bounds the pool's total transaction size before
	// low fee-rate eviction kicks in.
	DefaultMaxPoolBytes uint64 = 300 * 1024 * 1024
)

var (
	// ErrAlreadyInPool is returned when a transaction is already admitted.
	ErrAlreadyInPool = errors.New("mempool: transaction already in pool")
	// ErrInvalidTx is returned when CheckStructure or UTXO validation fails.
	ErrInvalidTx = errors.New("mempool: transaction failed validation")
	// ErrFeeTooLow is returned when a non-replacing transaction's fee rate
	// is below MinRelayFeeRate.
	ErrFeeTooLow = errors.New("mempool: fee rate below minimum relay rate")
	// ErrConflict is returned when a transaction conflicts with a pooled
	// transaction that does not qualify for replacement.
	ErrConflict = errors.New("mempool: conflicts with an existing pooled transaction")
	// ErrRBFRejected is returned when a conflicting, RBF-signaling
	// transaction fails the replacement acceptance formula.
	ErrRBFRejected = errors.New("mempool: replacement does not satisfy BIP-125-style rules")
	// ErrBadSignature is returned when an input's signature does not
	// satisfy the pkScript of the output it spends. Only checked when
	// the pool has a SigCache configured via SetSigCache.
	ErrBadSignature = errors.New("mempool: input signature does not satisfy prevout pkScript")
)

// Pool is the set of not-yet-confirmed transactions, indexed for fast
// conflict detection, fee-rate-ordered selection, and ancestor/
// descendant package queries.
type Pool struct {
	mu sync.RWMutex

	entries map[chainhash.Hash]*Entry

	// spentBy maps an input's prevout to the txid of the pooled
	// transaction that spends it, for O(1) conflict detection.
	spentBy map[wire.OutPoint]chainhash.Hash

	// parents/children hold the in-pool ancestor/descendant adjacency:
	// parents[txid] are the pooled transactions txid directly spends
	// from; children[txid] are the pooled transactions that directly
	// spend one of txid's outputs.
	parents  map[chainhash.Hash]map[chainhash.Hash]struct{}
	children map[chainhash.Hash]map[chainhash.Hash]struct{}

	totalSize   uint64
	maxPoolSize uint64

	// sigCache, when non-nil, gates admission on a genuine signature
	// check of every input against its confirmed prevout's pkScript,
	// caching verified results so a transaction re-checked during block
	// connection need not repeat the curve arithmetic. Left nil by
	// New, matching every caller and test that doesn't construct real
	// signed transactions.
	sigCache *txscript.SigCache
}

// New returns an empty pool with the given byte-size cap. A zero cap
// selects DefaultMaxPoolBytes.
func New(maxPoolSize uint64) *Pool {
	if maxPoolSize == 0 {
		maxPoolSize = DefaultMaxPoolBytes
	}
	return &Pool{
		entries:     make(map[chainhash.Hash]*Entry),
		spentBy:     make(map[wire.OutPoint]chainhash.Hash),
		parents:     make(map[chainhash.Hash]map[chainhash.Hash]struct{}),
		children:    make(map[chainhash.Hash]map[chainhash.Hash]struct{}),
		maxPoolSize: maxPoolSize,
	}
}

// SetSigCache configures the pool to check every admitted transaction's
// input signatures against its confirmed prevouts' pkScripts, caching
// verified results in cache. Passing nil disables the check (the
// default).
func (p *Pool) SetSigCache(cache *txscript.SigCache) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sigCache = cache
}

// checkSignatures verifies every input of tx whose prevout is present
// in confirmed against that prevout's pkScript. Inputs spending a
// not-yet-confirmed pooled parent are skipped: their prevout is not in
// confirmed, so their signatures are not checked at admission. The
// caller holds at least a read lock.
func (p *Pool) checkSignatures(tx *wire.MsgTx, confirmed UTXOView) bool {
	if p.sigCache == nil {
		return true
	}
	for i, in := range tx.TxIn {
		pkScript, ok := confirmed.PkScript(in.PreviousOutPoint)
		if !ok {
			continue
		}
		if !txscript.CheckTxInputSignature(p.sigCache, tx, i, pkScript) {
			return false
		}
	}
	return true
}

// Has reports whether txid is currently pooled.
func (p *Pool) Has(txid chainhash.Hash) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.entries[txid]
	return ok
}

// Get returns the pooled entry for txid, if any.
func (p *Pool) Get(txid chainhash.Hash) (*Entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.entries[txid]
	return e, ok
}

// Count returns the number of pooled transactions.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// Size returns the total serialized size, in bytes, of the pool.
func (p *Pool) Size() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalSize
}

// outputWithFallback looks op up in confirmed and, failing that, among
// pooled (unconfirmed) outputs, so a child spending its parent's not-yet-confirmed output
// can have its fee computed. Confirmed must be non-nil.
func (p *Pool) outputWithFallback(confirmed UTXOView, op wire.OutPoint) (value uint64, ok bool) {
	if a, v, ok := confirmed.Output(op); ok {
		_ = a
		return v, true
	}
	parent, ok := p.entries[op.Hash]
	if !ok || int(op.Index) >= len(parent.Tx.TxOut) {
		return 0, false
	}
	return parent.Tx.TxOut[op.Index].Value, true
}

// calculateFee sums confirmed-or-pooled input values minus output
// values. The caller holds at least a read lock.
func (p *Pool) calculateFee(tx *wire.MsgTx, confirmed UTXOView) (uint64, bool) {
	var in, out uint64
	for _, txin := range tx.TxIn {
		v, ok := p.outputWithFallback(confirmed, txin.PreviousOutPoint)
		if !ok {
			return 0, false
		}
		in += v
	}
	for _, txout := range tx.TxOut {
		out += txout.Value
	}
	if out > in {
		return 0, false
	}
	return in - out, true
}

// conflicts returns the distinct set of pooled txids whose spent
// outpoints collide with one of tx's inputs. The caller holds at least
// a read lock.
func (p *Pool) conflicts(tx *wire.MsgTx) map[chainhash.Hash]struct{} {
	out := make(map[chainhash.Hash]struct{})
	for _, txin := range tx.TxIn {
		if txid, ok := p.spentBy[txin.PreviousOutPoint]; ok {
			out[txid] = struct{}{}
		}
	}
	return out
}

// AcceptTx runs the full admission procedure of spec.md section 4.5
// against tx: structural/UTXO/fee checks, conflict detection (direct
// insertion or the replace-by-fee protocol), cap-driven eviction, and
// final indexing. now is the caller-supplied admission timestamp (unix
// seconds) used only to break fee-rate ties.
func (p *Pool) AcceptTx(tx *wire.MsgTx, confirmed UTXOView, height, now int64) error {
	txid := tx.TxHash()

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.entries[txid]; exists {
		return ErrAlreadyInPool
	}
	if err := tx.CheckStructure(); err != nil {
		return ErrInvalidTx
	}

	fee, ok := p.calculateFee(tx, confirmed)
	if !ok {
		return ErrInvalidTx
	}
	if !p.checkSignatures(tx, confirmed) {
		return ErrBadSignature
	}

	conflictSet := p.conflicts(tx)
	entry := newEntry(tx, fee, height, now)

	if len(conflictSet) > 0 {
		if err := p.acceptReplacement(entry, conflictSet); err != nil {
			return err
		}
	} else {
		if entry.FeeRate < MinRelayFeeRate {
			return ErrFeeTooLow
		}
	}

	p.evictForSpace(entry.Size)
	p.insert(entry)
	log.Debugf("accepted %v into mempool (fee rate %d, %d bytes)", txid, entry.FeeRate, entry.Size)
	return nil
}

// acceptReplacement validates entry against the BIP-125-style
// replacement rules of spec.md section 4.5 and, on success, removes
// every conflicting transaction (and its descendants). The caller
// holds the write lock.
func (p *Pool) acceptReplacement(entry *Entry, conflictSet map[chainhash.Hash]struct{}) error {
	if !entry.SignalsRBF() {
		return ErrConflict
	}

	var replacedFees uint64
	var minReplacedFeeRate uint64
	first := true
	for txid := range conflictSet {
		conflict, ok := p.entries[txid]
		if !ok || !conflict.SignalsRBF() {
			return ErrConflict
		}
		replacedFees += conflict.Fee
		if first || conflict.FeeRate < minReplacedFeeRate {
			minReplacedFeeRate = conflict.FeeRate
			first = false
		}
	}

	if entry.Fee <= replacedFees {
		return ErrRBFRejected
	}
	if entry.Fee < replacedFees+MinRBFFeeIncrement {
		return ErrRBFRejected
	}
	if entry.FeeRate*rbfFeeRateMultiplierDenom < minReplacedFeeRate*rbfFeeRateMultiplierNum {
		return ErrRBFRejected
	}

	for txid := range conflictSet {
		p.removeWithDescendants(txid)
	}
	return nil
}

// insert adds entry to every index and propagates its ancestor
// aggregate to it, then recomputes descendant aggregates (there are
// none yet for a brand new entry, but a replacement may have left
// orphaned children that now re-attach — callers are expected to have
// evicted those children already via removeWithDescendants).
// The caller holds the write lock.
func (p *Pool) insert(entry *Entry) {
	txid := entry.Tx.TxHash()
	p.entries[txid] = entry
	p.totalSize += entry.Size

	parentSet := make(map[chainhash.Hash]struct{})
	for _, txin := range entry.Tx.TxIn {
		p.spentBy[txin.PreviousOutPoint] = txid
		if _, ok := p.entries[txin.PreviousOutPoint.Hash]; ok {
			parentSet[txin.PreviousOutPoint.Hash] = struct{}{}
		}
	}
	if len(parentSet) > 0 {
		p.parents[txid] = parentSet
		for parentTxid := range parentSet {
			if p.children[parentTxid] == nil {
				p.children[parentTxid] = make(map[chainhash.Hash]struct{})
			}
			p.children[parentTxid][txid] = struct{}{}
		}
	}

	p.refreshAncestorAggregate(txid)
}

// refreshAncestorAggregate recomputes entry's ancestor fee/size/count
// by walking its in-pool ancestor set. The caller holds the write lock.
func (p *Pool) refreshAncestorAggregate(txid chainhash.Hash) {
	entry := p.entries[txid]
	visited := map[chainhash.Hash]struct{}{txid: {}}
	queue := []chainhash.Hash{txid}

	var fee, size, count uint64
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curEntry := p.entries[cur]
		fee += curEntry.Fee
		size += curEntry.Size
		count++
		for parentTxid := range p.parents[cur] {
			if _, seen := visited[parentTxid]; seen {
				continue
			}
			visited[parentTxid] = struct{}{}
			queue = append(queue, parentTxid)
		}
	}
	entry.AncestorFee = fee
	entry.AncestorSize = size
	entry.AncestorCount = count
}

// removeWithDescendants removes txid and every transaction that
// (transitively) spends one of its outputs. The caller holds the
// write lock.
func (p *Pool) removeWithDescendants(txid chainhash.Hash) {
	visited := map[chainhash.Hash]struct{}{}
	var walk func(chainhash.Hash)
	walk = func(id chainhash.Hash) {
		if _, seen := visited[id]; seen {
			return
		}
		visited[id] = struct{}{}
		for child := range p.children[id] {
			walk(child)
		}
	}
	walk(txid)

	for id := range visited {
		p.removeOne(id)
	}
}

// removeOne detaches a single entry from every index. The caller holds
// the write lock; it does not recurse into children (see
// removeWithDescendants). Surviving children are unlinked from the
// removed entry and the ancestor aggregates of every surviving
// descendant are recomputed.
func (p *Pool) removeOne(txid chainhash.Hash) {
	entry, ok := p.entries[txid]
	if !ok {
		return
	}
	delete(p.entries, txid)
	p.totalSize -= entry.Size

	for _, txin := range entry.Tx.TxIn {
		if p.spentBy[txin.PreviousOutPoint] == txid {
			delete(p.spentBy, txin.PreviousOutPoint)
		}
	}
	for parentTxid := range p.parents[txid] {
		delete(p.children[parentTxid], txid)
		if len(p.children[parentTxid]) == 0 {
			delete(p.children, parentTxid)
		}
	}
	queue := make([]chainhash.Hash, 0, len(p.children[txid]))
	for child := range p.children[txid] {
		if delete(p.parents[child], txid); len(p.parents[child]) == 0 {
			delete(p.parents, child)
		}
		queue = append(queue, child)
	}
	for ; len(queue) > 0; queue = queue[1:] {
		p.refreshAncestorAggregate(queue[0])
		for grandchild := range p.children[queue[0]] {
			queue = append(queue, grandchild)
		}
	}
	delete(p.parents, txid)
	delete(p.children, txid)
}

// RemoveTx removes a single transaction (not its descendants), for
// direct user-initiated eviction. Returns false if txid was not pooled.
func (p *Pool) RemoveTx(txid chainhash.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.entries[txid]; !ok {
		return false
	}
	p.removeOne(txid)
	return true
}

// evictForSpace evicts the lowest fee-rate entries until adding
// additional bytes would fit within maxPoolSize, or no more entries
// remain. The caller holds the write lock.
func (p *Pool) evictForSpace(additional uint64) {
	for p.totalSize+additional > p.maxPoolSize && len(p.entries) > 0 {
		worst := p.lowestFeeRateTxid()
		log.Debugf("evicting %v from mempool for space (pool at %d bytes, cap %d)", worst, p.totalSize, p.maxPoolSize)
		p.removeOne(worst)
	}
}

// lowestFeeRateTxid returns the txid of the entry with the lowest fee
// rate, breaking ties by the latest admission time (evict newest
// first among equals). The caller holds at least a read lock and
// p.entries is non-empty.
func (p *Pool) lowestFeeRateTxid() chainhash.Hash {
	var worst chainhash.Hash
	var worstEntry *Entry
	for txid, e := range p.entries {
		if worstEntry == nil ||
			e.FeeRate < worstEntry.FeeRate ||
			(e.FeeRate == worstEntry.FeeRate && e.Time > worstEntry.Time) {
			worst = txid
			worstEntry = e
		}
	}
	return worst
}

// ByFeeRate returns up to max entries ordered by descending fee rate,
// ties broken by earlier admission time.
func (p *Pool) ByFeeRate(max int) []*Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*Entry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FeeRate != out[j].FeeRate {
			return out[i].FeeRate > out[j].FeeRate
		}
		return out[i].Time < out[j].Time
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// RemoveConfirmed performs block-connection cleanup per spec.md
// section 4.5: drop every confirmed txid, then re-validate whatever
// remains against the post-connect view and drop anything now invalid
// (double spends of the same inputs by a confirmed transaction, or
// outputs that no longer balance).
func (p *Pool) RemoveConfirmed(confirmedTxids []chainhash.Hash, confirmed UTXOView) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, txid := range confirmedTxids {
		if _, ok := p.entries[txid]; ok {
			p.removeOne(txid)
		}
	}

	for txid, e := range p.entries {
		if _, ok := p.calculateFee(e.Tx, confirmed); !ok {
			p.removeOne(txid)
		}
	}
}
