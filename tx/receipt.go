// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/devnode/thor"
)

// Log is an event emitted during execution.
type Log struct {
	Address thor.Address
	Topics  []thor.Bytes32
	Data    []byte
}

// Receipt represents the results of a transaction.
type Receipt struct {
	TxHash thor.Bytes32
	// gas used by this tx
	GasUsed uint64
	// the tx is included but its effects were discarded, only the nonce was consumed
	Reverted     bool
	RevertReason string
	// set when a contract was created
	ContractAddress *thor.Address `rlp:"nil"`
	Logs            []*Log
}

// Receipts slice of receipts.
type Receipts []*Receipt

// RootHash computes the root hash of receipts.
func (rs Receipts) RootHash() thor.Bytes32 {
	if len(rs) == 0 {
		return thor.Bytes32{}
	}
	return thor.Keccak256Fn(func(w io.Writer) {
		rlp.Encode(w, rs)
	})
}

// GasUsed returns the total gas used by receipts.
func (rs Receipts) GasUsed() uint64 {
	var total uint64
	for _, r := range rs {
		total += r.GasUsed
	}
	return total
}
