// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

// Builder to make it easy to build a block object.
type Builder struct {
	headerBody headerBody
	txs        tx.Transactions
	receipts   tx.Receipts
}

// ParentID set parent id.
func (b *Builder) ParentID(id thor.Bytes32) *Builder {
	b.headerBody.ParentID = id
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.headerBody.Timestamp = ts
	return b
}

// GasLimit set gas limit.
func (b *Builder) GasLimit(limit uint64) *Builder {
	b.headerBody.GasLimit = limit
	return b
}

// Beneficiary set the coinbase.
func (b *Builder) Beneficiary(addr thor.Address) *Builder {
	b.headerBody.Beneficiary = addr
	return b
}

// Transaction add a transaction along with its receipt.
func (b *Builder) Transaction(trx *tx.Transaction, receipt *tx.Receipt) *Builder {
	b.txs = append(b.txs, trx)
	b.receipts = append(b.receipts, receipt)
	return b
}

// Build build a block object. Roots and gas used are derived from the transactions.
func (b *Builder) Build() *Block {
	header := b.headerBody
	header.TxsRoot = b.txs.RootHash()
	header.ReceiptsRoot = b.receipts.RootHash()
	header.GasUsed = b.receipts.GasUsed()

	return &Block{
		header:   &Header{body: header},
		txs:      append(tx.Transactions(nil), b.txs...),
		receipts: append(tx.Receipts(nil), b.receipts...),
	}
}
