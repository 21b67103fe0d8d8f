// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/co"
	"github.com/vechain/devnode/tx"
)

// TxEventKind tells what happened to a tx in the pool.
type TxEventKind string

const (
	TxAccepted TxEventKind = "accepted"
	TxReplaced TxEventKind = "replaced"
	TxDropped  TxEventKind = "dropped"
)

// TxEvent is sent when the pool content changes because of a tx.
type TxEvent struct {
	Tx     *tx.Transaction
	Kind   TxEventKind
	Reason string `json:",omitempty"`
}

// BlockEvent is sent for every new best block. Reverted is set when the best
// block went backwards because of a revert or reset.
type BlockEvent struct {
	Block    *block.Block
	Reverted bool
}

// SubscribeBlocks subscribes new block events.
func (n *Node) SubscribeBlocks(ch chan *BlockEvent) event.Subscription {
	return n.scope.Track(n.blockFeed.Subscribe(ch))
}

// SubscribeTxEvents subscribes pool events.
func (n *Node) SubscribeTxEvents(ch chan *TxEvent) event.Subscription {
	return n.scope.Track(n.txFeed.Subscribe(ch))
}

// NewTicker returns a Waiter fired when the best block changes.
func (n *Node) NewTicker() co.Waiter {
	return n.tick.NewWaiter()
}

// publish delivers events collected by a mutation. It must be called without holding the lock,
// so that subscribers may read the node.
func (n *Node) publish(events []any) {
	for _, ev := range events {
		switch ev := ev.(type) {
		case *BlockEvent:
			n.tick.Broadcast()
			n.blockFeed.Send(ev)
		case *TxEvent:
			n.txFeed.Send(ev)
		}
	}
}

func (n *Node) emit(ev any) {
	n.events = append(n.events, ev)
}
