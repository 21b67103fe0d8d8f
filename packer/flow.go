// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/log"
	"github.com/vechain/devnode/runtime"
	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
	"github.com/vechain/devnode/vm"
)

var logger = log.WithContext("pkg", "packer")

// Flow the flow of packing a new block.
type Flow struct {
	parentHeader *block.Header
	runtime      *runtime.Runtime
	processedTxs map[thor.Bytes32]bool // txID -> reverted
	gasUsed      uint64
	txs          tx.Transactions
	receipts     tx.Receipts
}

func newFlow(parentHeader *block.Header, runtime *runtime.Runtime) *Flow {
	return &Flow{
		parentHeader: parentHeader,
		runtime:      runtime,
		processedTxs: make(map[thor.Bytes32]bool),
	}
}

// ParentHeader returns parent block header.
func (f *Flow) ParentHeader() *block.Header {
	return f.parentHeader
}

// When the timestamp of the new block.
func (f *Flow) When() uint64 {
	return f.runtime.Env().Timestamp
}

// Number the number of the new block.
func (f *Flow) Number() uint32 {
	return f.runtime.Env().Number
}

// Adopt try to execute the given transaction.
// If the tx can be executed on current state (regardless of revert), it is adopted by the new block.
// A bad tx leaves no trace. An invariant violation is returned as is and the flow should be dropped.
func (f *Flow) Adopt(trx *tx.Transaction) error {
	env := f.runtime.Env()
	if f.gasUsed+trx.Gas() > env.GasLimit {
		return errGasLimitReached
	}
	if _, found := f.processedTxs[trx.Hash()]; found {
		return errKnownTx
	}

	receipt, err := f.runtime.ExecuteTransaction(trx)
	if err != nil {
		if state.IsInvariantError(err) {
			return err
		}
		return badTxError{vm.AsStructural(err)}
	}
	f.processedTxs[trx.Hash()] = receipt.Reverted
	f.gasUsed += receipt.GasUsed
	f.receipts = append(f.receipts, receipt)
	f.txs = append(f.txs, trx)
	return nil
}

// Len returns the count of adopted txs.
func (f *Flow) Len() int {
	return len(f.txs)
}

// Pack build the new block and returns it along with the resulting state.
func (f *Flow) Pack() (*block.Block, *state.Store) {
	env := f.runtime.Env()
	builder := new(block.Builder).
		Beneficiary(env.Coinbase).
		GasLimit(env.GasLimit).
		ParentID(f.parentHeader.ID()).
		Timestamp(env.Timestamp)
	for i, trx := range f.txs {
		builder.Transaction(trx, f.receipts[i])
	}
	blk := builder.Build()

	logger.Debug("block packed", "number", blk.Header().Number(), "txs", len(f.txs), "gas", f.gasUsed)
	metricBlockTxs().Observe(int64(len(f.txs)))
	return blk, f.runtime.State()
}
