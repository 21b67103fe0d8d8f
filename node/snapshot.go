// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/vechain/devnode/clock"
	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/txpool"
)

// capture is the node content saved by a snapshot. It shares nothing mutable with the live node.
type capture struct {
	state  *state.Store
	pool   *txpool.TxPool
	blocks int
	clock  clock.State
}

// Snapshot saves the state, pool, block history and clock, and returns the snapshot id.
func (n *Node) Snapshot() uint64 {
	var id uint64
	_ = n.mutate(func() error {
		id = n.snapshot()
		return nil
	})
	return id
}

func (n *Node) snapshot() uint64 {
	id := n.snapshots.Take(&capture{
		state:  n.state.Copy(),
		pool:   n.pool.Copy(),
		blocks: n.repo.Len(),
		clock:  n.clock.State(),
	})
	logger.Debug("snapshot taken", "id", id, "blocks", n.repo.Len())
	return id
}

// Revert restores the content saved by snapshot id, and discards id and every later snapshot.
// It returns false and changes nothing if id is not on the stack.
func (n *Node) Revert(id uint64) bool {
	var ok bool
	_ = n.mutate(func() error {
		ok = n.revert(id)
		return nil
	})
	return ok
}

func (n *Node) revert(id uint64) bool {
	c, ok := n.snapshots.Revert(id)
	if !ok {
		return false
	}
	// the capture left the stack, so the live node may own it
	n.state = c.state
	n.pool = c.pool
	n.repo.Truncate(c.blocks)
	n.clock.Restore(c.clock)

	best := n.repo.BestBlock()
	metricBestBlock().Set(int64(best.Header().Number()))
	logger.Debug("snapshot reverted", "id", id, "blocks", n.repo.Len())
	n.emit(&BlockEvent{Block: best, Reverted: true})
	return true
}

// SnapshotIDs returns the ids on the stack, oldest first.
func (n *Node) SnapshotIDs() []uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.snapshots.IDs()
}
