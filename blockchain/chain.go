// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"
	"fmt"

	"github.com/Tsoympet/PantheonChain-sub001/asset"
	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
	"github.com/Tsoympet/PantheonChain-sub001/pow"
	"github.com/Tsoympet/PantheonChain-sub001/txscript"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// RuleError identifies a consensus-rule violation, the same tagged-
// error shape the teacher's own blockchain package uses so callers can
// switch on a stable reason rather than parsing error strings.
type RuleError struct {
	Err    error
	Detail string
}

func (e RuleError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Detail)
}

func (e RuleError) Unwrap() error { return e.Err }

func ruleError(err error, detail string) error {
	return RuleError{Err: err, Detail: detail}
}

// Sentinel rule-violation reasons, wrapped by ruleError into a
// RuleError carrying the offending detail.
var (
	ErrBadCoinbase       = errors.New("blockchain: invalid or misplaced coinbase")
	ErrBadMerkleRoot     = errors.New("blockchain: merkle root mismatch")
	ErrBadProofOfWork    = errors.New("blockchain: block hash does not meet target")
	ErrMissingPrevout    = errors.New("blockchain: referenced prevout does not exist or is immature")
	ErrDuplicatePrevout  = errors.New("blockchain: transaction spends the same prevout twice")
	ErrAssetConservation = errors.New("blockchain: outputs exceed inputs for an asset")
	ErrBadBlockReward    = errors.New("blockchain: coinbase reward exceeds subsidy or supply cap")
	ErrNotTip            = errors.New("blockchain: block is not the current tip")
	ErrGenesisDisconnect = errors.New("blockchain: genesis block cannot be disconnected")
	ErrUndoMismatch      = errors.New("blockchain: undo data does not match transaction inputs")
	ErrBadSignature      = errors.New("blockchain: input signature does not satisfy prevout pkScript")
)

// BlockIndex records a connected block's position and cumulative
// chain work, per spec.md section 3.
type BlockIndex struct {
	Hash      chainhash.Hash
	PrevHash  chainhash.Hash
	Height    int64
	Timestamp uint32
	Bits      uint32
	ChainWork int64
}

// Chain is the full node's view of the best chain: its UTXO set, tip,
// per-asset supply, and block index, per spec.md section 4.4.
type Chain struct {
	utxo   *UTXOSet
	tip    chainhash.Hash
	height int64
	supply map[asset.ID]asset.Amount
	index  map[chainhash.Hash]*BlockIndex

	// sigCache, when non-nil, makes ConnectBlock check every non-coinbase
	// input's signature against its prevout's pkScript, reusing any
	// verification the transaction already passed on mempool admission.
	// Left nil by NewChain, matching every caller and test that doesn't
	// construct real signed transactions.
	sigCache *txscript.SigCache
}

// NewChain returns an empty chain positioned at genesis (height 0, the
// all-zero tip hash).
func NewChain() *Chain {
	return &Chain{
		utxo: NewUTXOSet(),
		supply: map[asset.ID]asset.Amount{
			asset.TALANTON: 0,
			asset.DRACHMA:  0,
			asset.OBOLOS:   0,
		},
		index: make(map[chainhash.Hash]*BlockIndex),
	}
}

// UTXOSet returns the chain's live UTXO set.
func (c *Chain) UTXOSet() *UTXOSet { return c.utxo }

// SetSigCache configures the chain to check every connected block's
// non-coinbase input signatures against the pkScript of the output
// each spends, caching verified results in cache. Passing nil disables
// the check (the default).
func (c *Chain) SetSigCache(cache *txscript.SigCache) {
	c.sigCache = cache
}

// Tip returns the current best block hash.
func (c *Chain) Tip() chainhash.Hash { return c.tip }

// Height returns the current chain height.
func (c *Chain) Height() int64 { return c.height }

// Supply returns the total issued supply of a, across all blocks
// connected so far.
func (c *Chain) Supply(a asset.ID) asset.Amount { return c.supply[a] }

// BlockIndexEntry returns the recorded index entry for hash, if any.
func (c *Chain) BlockIndexEntry(hash chainhash.Hash) (*BlockIndex, bool) {
	idx, ok := c.index[hash]
	return idx, ok
}

func sumOutputsByAsset(outs []*wire.TxOut) map[asset.ID]asset.Amount {
	totals := make(map[asset.ID]asset.Amount)
	for _, o := range outs {
		totals[o.Asset] += asset.Amount(o.Value)
	}
	return totals
}

// ConnectBlock validates and applies block atop the current tip,
// following spec.md section 4.4's four-step connect procedure, and
// returns the undo data needed to later disconnect it.
func (c *Chain) ConnectBlock(block *wire.MsgBlock) (*BlockUndo, error) {
	// Step 1: structural validity.
	if err := block.CheckStructure(); err != nil {
		return nil, ruleError(ErrBadCoinbase, err.Error())
	}
	txids := make([]chainhash.Hash, len(block.Transactions))
	for i, tx := range block.Transactions {
		txids[i] = tx.TxHash()
	}
	if wire.CalcMerkleRoot(txids) != block.Header.MerkleRoot {
		return nil, ruleError(ErrBadMerkleRoot, "")
	}
	blockHash := block.BlockHash()
	if !pow.CheckProofOfWork(blockHash, block.Header.Bits) {
		return nil, ruleError(ErrBadProofOfWork, "")
	}
	if block.Header.PrevBlock != c.tip {
		return nil, ruleError(ErrNotTip, "header does not extend the current tip")
	}

	newHeight := c.height + 1
	undo := NewBlockUndo()
	fees := make(map[asset.ID]asset.Amount)

	// Step 2: non-coinbase transactions, in order.
	for _, tx := range block.Transactions[1:] {
		txid := tx.TxHash()

		seen := make(map[wire.OutPoint]struct{}, len(tx.TxIn))
		inputTotals := make(map[asset.ID]asset.Amount)
		consumed := make([]*Coin, 0, len(tx.TxIn))
		for i, in := range tx.TxIn {
			if _, dup := seen[in.PreviousOutPoint]; dup {
				return nil, ruleError(ErrDuplicatePrevout, in.PreviousOutPoint.String())
			}
			seen[in.PreviousOutPoint] = struct{}{}

			coin, ok := c.utxo.GetCoin(in.PreviousOutPoint)
			if !ok || !coin.Spendable(newHeight) {
				return nil, ruleError(ErrMissingPrevout, in.PreviousOutPoint.String())
			}
			if c.sigCache != nil && !txscript.CheckTxInputSignature(c.sigCache, tx, i, coin.Output.PkScript) {
				return nil, ruleError(ErrBadSignature, in.PreviousOutPoint.String())
			}
			inputTotals[coin.Output.Asset] += asset.Amount(coin.Output.Value)
			consumed = append(consumed, coin)
		}

		outputTotals := sumOutputsByAsset(tx.TxOut)
		for a, outAmt := range outputTotals {
			if inputTotals[a] < outAmt {
				return nil, ruleError(ErrAssetConservation, a.String())
			}
		}
		for a, inAmt := range inputTotals {
			fees[a] += inAmt - outputTotals[a]
		}

		for _, in := range tx.TxIn {
			c.utxo.SpendCoin(in.PreviousOutPoint)
		}
		undo.AddTxUndo(consumed)

		for vout, out := range tx.TxOut {
			op := wire.OutPoint{Hash: txid, Index: uint32(vout)}
			c.utxo.AddCoin(op, &Coin{Output: out, Height: newHeight, IsCoinbase: false})
		}
	}

	// Step 3: coinbase issuance. A coinbase output may draw on both the
	// height's subsidy and the fees collected in step 2, per spec.md
	// section 4.3; only the subsidy portion is newly issued supply.
	coinbase := block.Transactions[0]
	coinbaseTotals := sumOutputsByAsset(coinbase.TxOut)
	for a, amt := range coinbaseTotals {
		if !IsValidBlockReward(newHeight, a, amt, fees[a], c.supply[a]) {
			return nil, ruleError(ErrBadBlockReward, a.String())
		}
	}
	coinbaseTxid := coinbase.TxHash()
	for vout, out := range coinbase.TxOut {
		op := wire.OutPoint{Hash: coinbaseTxid, Index: uint32(vout)}
		c.utxo.AddCoin(op, &Coin{Output: out, Height: newHeight, IsCoinbase: true})
	}

	// Step 4: advance chain state.
	c.height = newHeight
	c.tip = blockHash
	for a := range coinbaseTotals {
		c.supply[a] += CalcBlockSubsidy(newHeight, a)
	}

	chainWork := int64(1)
	if prevIdx, ok := c.index[block.Header.PrevBlock]; ok {
		chainWork = prevIdx.ChainWork + 1
	}
	c.index[blockHash] = &BlockIndex{
		Hash:      blockHash,
		PrevHash:  block.Header.PrevBlock,
		Height:    newHeight,
		Timestamp: block.Header.Timestamp,
		Bits:      block.Header.Bits,
		ChainWork: chainWork,
	}

	log.Infof("connected block %v at height %d (%d txs)", blockHash, newHeight, len(block.Transactions))
	return undo, nil
}

// DisconnectBlock reverts block, which must be the current tip, using
// its previously recorded undo data, per spec.md section 4.4's
// tip-only disconnect procedure. Genesis can never be disconnected.
func (c *Chain) DisconnectBlock(block *wire.MsgBlock, undo *BlockUndo) error {
	if c.height == 0 {
		return ruleError(ErrGenesisDisconnect, "")
	}
	blockHash := block.BlockHash()
	if blockHash != c.tip {
		return ruleError(ErrNotTip, "only the current tip may be disconnected")
	}

	undoIdx := len(undo.TxUndo)
	for i := len(block.Transactions) - 1; i >= 0; i-- {
		tx := block.Transactions[i]
		txid := tx.TxHash()

		for vout := range tx.TxOut {
			c.utxo.SpendCoin(wire.OutPoint{Hash: txid, Index: uint32(vout)})
		}

		if i == 0 {
			continue // coinbase spends nothing
		}

		undoIdx--
		if undoIdx < 0 {
			return ruleError(ErrUndoMismatch, "undo data exhausted before reaching this transaction")
		}
		txUndo := undo.TxUndo[undoIdx]
		if len(txUndo) != len(tx.TxIn) {
			return ruleError(ErrUndoMismatch, fmt.Sprintf("got %d undo coins, want %d", len(txUndo), len(tx.TxIn)))
		}
		for j, in := range tx.TxIn {
			c.utxo.AddCoin(in.PreviousOutPoint, txUndo[j])
		}
	}

	// Only the subsidy portion of the coinbase was newly issued supply
	// (fees merely moved already-issued supply to the miner); roll back
	// exactly that, mirroring ConnectBlock's step 4.
	coinbaseTotals := sumOutputsByAsset(block.Transactions[0].TxOut)
	for a := range coinbaseTotals {
		c.supply[a] -= CalcBlockSubsidy(c.height, a)
	}

	c.height--
	c.tip = block.Header.PrevBlock
	delete(c.index, blockHash)

	log.Infof("disconnected block %v, chain now at height %d", blockHash, c.height)
	return nil
}
