// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"github.com/google/btree"

	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

// degree of the btrees, the pools are small.
const degree = 8

// txObject wraps a pending tx with its acceptance sequence. It is immutable.
type txObject struct {
	*tx.Transaction
	hash  thor.Bytes32
	nonce uint64
	seq   uint64
}

func newTxObject(trx *tx.Transaction, seq uint64) *txObject {
	return &txObject{
		Transaction: trx,
		hash:        trx.Hash(),
		nonce:       trx.Nonce(),
		seq:         seq,
	}
}

func nonceLess(a, b *txObject) bool {
	return a.nonce < b.nonce
}

func seqLess(a, b *txObject) bool {
	return a.seq < b.seq
}

// nonceTree is the sorted map of nonce to pending tx of a sender.
type nonceTree = btree.BTreeG[*txObject]

func newNonceTree() *nonceTree {
	return btree.NewG(degree, nonceLess)
}

func newSeqTree() *btree.BTreeG[*txObject] {
	return btree.NewG(degree, seqLess)
}
