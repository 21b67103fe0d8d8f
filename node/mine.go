// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/pkg/errors"

	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/packer"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
	"github.com/vechain/devnode/txpool"
)

// DroppedTx is a tx drained from the pool the engine could not run.
type DroppedTx struct {
	Tx  *tx.Transaction
	Err error
}

// MineResult is a mined block with the txs left out of it.
type MineResult struct {
	Block   *block.Block
	Dropped []*DroppedTx
}

// Receipt returns the receipt of the tx in the block, or nil.
func (r *MineResult) Receipt(hash thor.Bytes32) *tx.Receipt {
	for _, receipt := range r.Block.Receipts() {
		if receipt.TxHash == hash {
			return receipt
		}
	}
	return nil
}

// SubmitResult is the outcome of a tx submission.
type SubmitResult struct {
	Hash     thor.Bytes32
	Status   txpool.Status
	Position int
	// Mined is the block mined right away when automine is on.
	Mined *MineResult
}

// Receipt returns the receipt of the submitted tx if it was mined.
func (r *SubmitResult) Receipt() *tx.Receipt {
	if r.Mined == nil {
		return nil
	}
	return r.Mined.Receipt(r.Hash)
}

// Submit adds a tx to the pool. With automine on, a block is mined at once if the tx is executable.
// If the engine cannot run the tx in that block, the result is returned along with the
// structural error.
func (n *Node) Submit(trx *tx.Transaction) (*SubmitResult, error) {
	var res *SubmitResult
	err := n.write(func() (err error) {
		res, err = n.submit(trx)
		return
	})
	return res, err
}

func (n *Node) submit(trx *tx.Transaction) (*SubmitResult, error) {
	sender := trx.Sender()
	if !n.senderAllowed(sender) {
		return nil, errors.WithMessage(ErrSenderNotAllowed, sender.String())
	}
	if id := trx.ChainID(); id != 0 && id != n.packer.ChainID() {
		return nil, errors.WithMessagef(ErrChainIDMismatch, "want %v, got %v", n.packer.ChainID(), id)
	}

	stateNonce := n.state.Nonce(sender)
	n.mu.Lock()
	status, pos, err := n.pool.Add(trx, stateNonce)
	n.mu.Unlock()
	if err != nil {
		return nil, err
	}
	kind := TxAccepted
	if status == txpool.StatusReplaced {
		kind = TxReplaced
	}
	n.emit(&TxEvent{Tx: trx, Kind: kind})

	res := &SubmitResult{Hash: trx.Hash(), Status: status, Position: pos}
	if !n.autoMine || trx.Nonce() != stateNonce {
		return res, nil
	}

	mined, err := n.mineBlock(nil)
	if err != nil {
		return res, err
	}
	res.Mined = mined
	for _, dropped := range mined.Dropped {
		if dropped.Tx.Hash() == res.Hash {
			return res, dropped.Err
		}
	}
	return res, nil
}

// Mine mines count blocks, empty ones if nothing is pending. A non-nil interval spaces the
// timestamps of consecutive blocks by interval seconds.
func (n *Node) Mine(count uint64, interval *uint64) ([]*block.Block, error) {
	results, err := n.MineDetailed(count, interval)
	blocks := make([]*block.Block, 0, len(results))
	for _, res := range results {
		blocks = append(blocks, res.Block)
	}
	return blocks, err
}

// MineDetailed is Mine reporting the dropped txs of each block.
// On error, the blocks mined before the failing one are kept and returned.
func (n *Node) MineDetailed(count uint64, interval *uint64) ([]*MineResult, error) {
	var results []*MineResult
	err := n.write(func() (err error) {
		results, err = n.mine(count, interval)
		return
	})
	return results, err
}

func (n *Node) mine(count uint64, interval *uint64) ([]*MineResult, error) {
	results := make([]*MineResult, 0, min(count, 256))
	for i := range count {
		var stamp *uint64
		if interval != nil && i > 0 {
			ts := results[i-1].Block.Header().Timestamp() + *interval
			stamp = &ts
		}
		res, err := n.mineBlock(stamp)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// mineBlock packs one block from the pool on top of the best block, stamped by the clock
// unless stamp is set. Txs run on copies of the state and pool, so readers are not blocked
// meanwhile. The caller must hold wmu.
// On failure, every live component is left as it was.
func (n *Node) mineBlock(stamp *uint64) (*MineResult, error) {
	// copying marks the shared trees copy-on-write
	n.mu.Lock()
	var (
		parent = n.repo.BestBlock().Header()
		st     = n.state.Copy()
		pool   = n.pool.Copy()
	)
	n.mu.Unlock()
	eventMark := len(n.events)

	abort := func(err error) (*MineResult, error) {
		n.events = n.events[:eventMark]
		return nil, err
	}

	ts := n.clock.Peek(parent.Timestamp())
	if stamp != nil {
		ts = max(*stamp, parent.Timestamp())
	}
	flow := n.packer.Schedule(parent, ts, st)
	txs := pool.Drain(n.options.MaxTxsPerBlock, n.packer.GasLimit(), st.Nonce)
	requeue := func(d *txpool.Drained) {
		if err := pool.Requeue(d, st.Nonce(d.Sender())); err != nil {
			logger.Debug("failed to requeue tx", "id", d.Hash(), "err", err)
		}
	}

	res := &MineResult{}
	skipped := make(map[thor.Address]bool)
	for _, d := range txs {
		trx := d.Transaction
		sender := trx.Sender()
		if skipped[sender] {
			// behind a tx of the same sender left out of this block
			requeue(d)
			continue
		}

		err := flow.Adopt(trx)
		switch {
		case err == nil:
		case packer.IsBadTx(err):
			skipped[sender] = true
			logger.Warn("tx dropped", "id", trx.Hash(), "sender", sender, "nonce", trx.Nonce(), "err", err)
			metricDroppedTxs().Add(1)
			res.Dropped = append(res.Dropped, &DroppedTx{trx, err})
			n.emit(&TxEvent{Tx: trx, Kind: TxDropped, Reason: err.Error()})
		case packer.IsGasLimitReached(err) || packer.IsKnownTx(err):
			skipped[sender] = true
			requeue(d)
		default:
			logger.Error("block aborted", "number", flow.Number(), "tx", trx.Hash(), "err", err)
			metricFaults().Add(1)
			return abort(err)
		}
	}

	blk, newState := flow.Pack()

	n.mu.Lock()
	if err := n.repo.AddBlock(blk); err != nil {
		n.mu.Unlock()
		logger.Error("block aborted", "number", flow.Number(), "err", err)
		metricFaults().Add(1)
		return abort(errors.Wrap(err, "add block"))
	}
	n.state = newState
	n.pool = pool
	if stamp == nil {
		n.clock.Consume()
	}
	n.mu.Unlock()
	res.Block = blk

	header := blk.Header()
	logger.Info("📦 new block mined",
		"number", header.Number(),
		"id", header.ID().AbbrevString(),
		"txs", len(blk.Transactions()),
		"dropped", len(res.Dropped),
		"gas", header.GasUsed(),
		"timestamp", header.Timestamp(),
	)
	metricBlocksMined().Add(1)
	metricBestBlock().Set(int64(header.Number()))
	n.emit(&BlockEvent{Block: blk})
	return res, nil
}
