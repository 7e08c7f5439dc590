// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/Tsoympet/PantheonChain-sub001/asset"
	"github.com/Tsoympet/PantheonChain-sub001/chaincfg"
	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
	"github.com/Tsoympet/PantheonChain-sub001/mempool"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// BlockTemplate carries everything needed to mine a new block atop the
// current tip: the unfinished block itself (awaiting a valid nonce),
// the fees it collects, and the target its hash must satisfy.
type BlockTemplate struct {
	Block   *wire.MsgBlock
	Height  int64
	Fees    map[asset.ID]asset.Amount
	Rewards map[asset.ID]asset.Amount
	Target  uint32
}

// NewBlockTemplate selects up to maxTransactions fee-ranked transactions
// from pool whose inputs are all confirmed (or satisfied by an earlier
// selected transaction in the same template), builds their coinbase,
// and assembles an unmined block extending c's current tip. coinbasePkScript
// is the script the coinbase reward pays to; difficulty is the bits the
// mined block's header must carry, computed by the caller via
// CalcNextRequiredDifficulty.
func NewBlockTemplate(c *Chain, pool *mempool.Pool, params *chaincfg.Params, coinbasePkScript []byte, difficulty uint32, timestamp uint32, maxTransactions int) *BlockTemplate {
	newHeight := c.height + 1

	candidates := pool.ByFeeRate(0)
	selected := make([]*wire.MsgTx, 0, maxTransactions)
	selectedTxids := make(map[chainhash.Hash]struct{})
	spentInTemplate := make(map[wire.OutPoint]struct{})
	fees := make(map[asset.ID]asset.Amount)
	size := 0

	for _, entry := range candidates {
		if maxTransactions > 0 && len(selected) >= maxTransactions {
			break
		}
		if size+int(entry.Size) > params.MaximumBlockSize {
			continue
		}

		ready := true
		for _, in := range entry.Tx.TxIn {
			if _, conflict := spentInTemplate[in.PreviousOutPoint]; conflict {
				ready = false
				break
			}
			if c.utxo.HaveCoin(in.PreviousOutPoint) {
				continue
			}
			// Not yet confirmed: only acceptable if an earlier,
			// already-selected transaction in this same template
			// produced the output being spent. A child entry ordered
			// ahead of its unconfirmed parent by fee rate is simply
			// skipped rather than deferred, matching the teacher's
			// plain fee-ranked SelectTransactions.
			if _, parentSelected := selectedTxids[in.PreviousOutPoint.Hash]; !parentSelected {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}

		for _, in := range entry.Tx.TxIn {
			spentInTemplate[in.PreviousOutPoint] = struct{}{}
		}
		selected = append(selected, entry.Tx)
		selectedTxids[entry.Tx.TxHash()] = struct{}{}
		size += int(entry.Size)

		for a, amt := range feesByAsset(entry.Tx, c) {
			fees[a] += amt
		}
	}

	rewards := make(map[asset.ID]asset.Amount)
	for _, a := range []asset.ID{asset.TALANTON, asset.DRACHMA, asset.OBOLOS} {
		subsidy := CalcBlockSubsidy(newHeight, a)
		if subsidy == 0 && fees[a] == 0 {
			continue
		}
		rewards[a] = subsidy + fees[a]
	}

	coinbase := buildCoinbase(newHeight, rewards, coinbasePkScript)
	txs := make([]*wire.MsgTx, 0, len(selected)+1)
	txs = append(txs, coinbase)
	txs = append(txs, selected...)

	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:    1,
			PrevBlock:  c.tip,
			MerkleRoot: computeMerkleRoot(txs),
			Timestamp:  timestamp,
			Bits:       difficulty,
		},
		Transactions: txs,
	}

	return &BlockTemplate{
		Block:   block,
		Height:  newHeight,
		Fees:    fees,
		Rewards: rewards,
		Target:  difficulty,
	}
}

// buildCoinbase constructs the block's coinbase transaction: a single
// input spending the coinbase sentinel outpoint (its script carries the
// height, matching spec.md section 4.3's BIP-34-style requirement), and
// one output per asset with a non-zero reward.
func buildCoinbase(height int64, rewards map[asset.ID]asset.Amount, pkScript []byte) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.TxIn = []*wire.TxIn{{
		PreviousOutPoint: wire.OutPoint{Index: wire.CoinbaseIndex},
		SignatureScript:  encodeHeight(height),
		Sequence:         wire.MaxTxInSequenceNum,
	}}
	for _, a := range []asset.ID{asset.TALANTON, asset.DRACHMA, asset.OBOLOS} {
		amt, ok := rewards[a]
		if !ok || amt == 0 {
			continue
		}
		tx.TxOut = append(tx.TxOut, &wire.TxOut{Asset: a, Value: uint64(amt), PkScript: pkScript})
	}
	return tx
}

// encodeHeight little-endian-encodes height into the minimal number of
// bytes needed, the scriptSig convention used to make every coinbase
// transaction's hash unique even at identical reward/timestamp values.
func encodeHeight(height int64) []byte {
	if height == 0 {
		return []byte{0x00}
	}
	var buf []byte
	v := uint64(height)
	for v > 0 {
		buf = append(buf, byte(v))
		v >>= 8
	}
	return buf
}

// feesByAsset computes tx's per-asset fee (inputs found in c's confirmed
// UTXO set minus outputs), used only for coinbase reward accounting; it
// trusts that tx already passed mempool admission and therefore balances
// per-asset. Inputs spending outputs that are not yet confirmed (such as
// those of an earlier transaction in the same template) are not counted,
// so for such a transaction the result is lower than the fee it pays.
func feesByAsset(tx *wire.MsgTx, c *Chain) map[asset.ID]asset.Amount {
	in := make(map[asset.ID]asset.Amount)
	out := make(map[asset.ID]asset.Amount)
	for _, txin := range tx.TxIn {
		if coin, ok := c.utxo.GetCoin(txin.PreviousOutPoint); ok {
			in[coin.Output.Asset] += asset.Amount(coin.Output.Value)
		}
	}
	for _, txout := range tx.TxOut {
		out[txout.Asset] += asset.Amount(txout.Value)
	}
	fees := make(map[asset.ID]asset.Amount)
	for a, inAmt := range in {
		if inAmt > out[a] {
			fees[a] = inAmt - out[a]
		}
	}
	return fees
}

// computeMerkleRoot hashes each transaction and folds the result through
// wire.CalcMerkleRoot, the same routine ConnectBlock uses to validate a
// received block, so a mined template's header always verifies.
func computeMerkleRoot(txs []*wire.MsgTx) chainhash.Hash {
	txids := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		txids[i] = tx.TxHash()
	}
	return wire.CalcMerkleRoot(txids)
}
