// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/vechain/devnode/node"
	"github.com/vechain/devnode/thor"
)

// BlockMessage is sent for each new best block.
type BlockMessage struct {
	Number       uint32         `json:"number"`
	ID           thor.Bytes32   `json:"id"`
	ParentID     thor.Bytes32   `json:"parentID"`
	Timestamp    uint64         `json:"timestamp"`
	GasUsed      uint64         `json:"gasUsed"`
	Transactions []thor.Bytes32 `json:"transactions"`
	// Reverted is set when the best block went backwards.
	Reverted bool `json:"reverted"`
}

func convertBlockEvent(ev *node.BlockEvent) *BlockMessage {
	header := ev.Block.Header()
	return &BlockMessage{
		Number:       header.Number(),
		ID:           header.ID(),
		ParentID:     header.ParentID(),
		Timestamp:    header.Timestamp(),
		GasUsed:      header.GasUsed(),
		Transactions: ev.Block.Transactions().Hashes(),
		Reverted:     ev.Reverted,
	}
}

// TxMessage is sent when a tx enters or leaves the pool.
type TxMessage struct {
	ID     thor.Bytes32     `json:"id"`
	Origin thor.Address     `json:"origin"`
	Nonce  uint64           `json:"nonce"`
	Kind   node.TxEventKind `json:"kind"`
	Reason string           `json:"reason,omitempty"`
}

func convertTxEvent(ev *node.TxEvent) *TxMessage {
	return &TxMessage{
		ID:     ev.Tx.Hash(),
		Origin: ev.Tx.Sender(),
		Nonce:  ev.Tx.Nonce(),
		Kind:   ev.Kind,
		Reason: ev.Reason,
	}
}
