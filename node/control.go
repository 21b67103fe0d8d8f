// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/devnode/clock"
	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/thor"
)

// SetNonce overwrites the nonce of addr, lower values included.
func (n *Node) SetNonce(addr thor.Address, nonce uint64) error {
	return n.mutate(func() error {
		diff := &state.Diff{}
		diff.OverrideNonce(addr, nonce)
		return n.state.Apply(diff)
	})
}

// SetBalance overwrites the balance of addr.
func (n *Node) SetBalance(addr thor.Address, balance *uint256.Int) error {
	if balance == nil {
		return errors.New("nil balance")
	}
	return n.mutate(func() error {
		diff := &state.Diff{}
		diff.SetBalance(addr, balance)
		return n.state.Apply(diff)
	})
}

// SetCode overwrites the code of addr, existing code included.
func (n *Node) SetCode(addr thor.Address, code []byte) error {
	return n.mutate(func() error {
		diff := &state.Diff{}
		diff.OverrideCode(addr, code)
		return n.state.Apply(diff)
	})
}

// SetStorageAt overwrites a storage slot of addr.
func (n *Node) SetStorageAt(addr thor.Address, key, value thor.Bytes32) error {
	return n.mutate(func() error {
		diff := &state.Diff{}
		diff.SetStorage(addr, key, value)
		return n.state.Apply(diff)
	})
}

// IncreaseTime moves the clock forward and returns the total offset in seconds.
// The clock is left unchanged if the new time would not fit in an int64.
func (n *Node) IncreaseTime(delta uint64) (offset int64, err error) {
	err = n.mutate(func() error {
		offset, err = n.clock.Increase(delta)
		return err
	})
	return
}

// SetTime sets the clock to ts and returns the difference to the previous time.
func (n *Node) SetTime(ts uint64) (diff int64, err error) {
	err = n.mutate(func() error {
		diff, err = n.clock.SetTime(ts)
		return err
	})
	return
}

// SetNextBlockTimestamp sets the timestamp of the next block only. A value below the best
// block's timestamp is clamped to it when mining.
func (n *Node) SetNextBlockTimestamp(ts uint64) {
	_ = n.mutate(func() error {
		n.clock.SetNext(ts)
		return nil
	})
}

// SetBlockTimestampInterval stamps each new block with its parent's timestamp plus seconds.
func (n *Node) SetBlockTimestampInterval(seconds uint64) {
	_ = n.mutate(func() error {
		n.clock.SetInterval(seconds)
		return nil
	})
}

// RemoveBlockTimestampInterval returns whether an interval was set.
func (n *Node) RemoveBlockTimestampInterval() bool {
	var had bool
	_ = n.mutate(func() error {
		had = n.clock.RemoveInterval()
		return nil
	})
	return had
}

// DropTransaction removes a pending tx.
func (n *Node) DropTransaction(hash thor.Bytes32) bool {
	var ok bool
	_ = n.mutate(func() error {
		if trx := n.pool.Get(hash); trx != nil {
			ok = n.pool.Remove(hash)
			n.emit(&TxEvent{Tx: trx, Kind: TxDropped, Reason: "removed"})
		}
		return nil
	})
	return ok
}

// DropAllTransactions empties the pool.
func (n *Node) DropAllTransactions() {
	_ = n.mutate(func() error {
		for _, trx := range n.pool.Pending() {
			n.emit(&TxEvent{Tx: trx, Kind: TxDropped, Reason: "removed"})
		}
		n.pool.Clear()
		return nil
	})
}

// RemovePoolTransactions removes the pending txs of sender and returns their count.
func (n *Node) RemovePoolTransactions(sender thor.Address) int {
	var count int
	_ = n.mutate(func() error {
		for _, trx := range n.pool.Pending() {
			if trx.Sender() == sender {
				n.emit(&TxEvent{Tx: trx, Kind: TxDropped, Reason: "removed"})
			}
		}
		count = n.pool.RemoveSender(sender)
		return nil
	})
	return count
}

// SetAutoMine toggles mining on submit.
func (n *Node) SetAutoMine(enabled bool) {
	_ = n.mutate(func() error {
		n.autoMine = enabled
		return nil
	})
}

// SetChainID changes the chain id of later blocks. Pending txs bound to the former id
// get dropped when mined.
func (n *Node) SetChainID(id uint64) error {
	if id == 0 {
		return errors.New("chain id must not be 0")
	}
	return n.mutate(func() error {
		n.packer.SetChainID(id)
		return nil
	})
}

// Impersonate accepts unsigned txs from addr.
func (n *Node) Impersonate(addr thor.Address) {
	_ = n.mutate(func() error {
		n.impersonated[addr] = true
		return nil
	})
}

// StopImpersonating reverses Impersonate.
func (n *Node) StopImpersonating(addr thor.Address) {
	_ = n.mutate(func() error {
		delete(n.impersonated, addr)
		return nil
	})
}

// SetAutoImpersonate accepts txs from any sender when enabled.
func (n *Node) SetAutoImpersonate(enabled bool) {
	_ = n.mutate(func() error {
		n.autoImpersonate = enabled
		return nil
	})
}

// Reset returns the node to its genesis block. Snapshots are discarded, but later ids
// keep increasing. Time controls are cleared.
func (n *Node) Reset() error {
	return n.mutate(func() error {
		if err := n.init(); err != nil {
			return err
		}
		n.snapshots.Clear()
		n.clock.Restore(clock.State{})
		n.emit(&BlockEvent{Block: n.repo.BestBlock(), Reverted: true})
		logger.Info("node reset")
		return nil
	})
}

// DumpState encodes all accounts.
func (n *Node) DumpState() ([]byte, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.state.Dump()
}

// LoadState merges accounts encoded by DumpState into the state. Accounts absent from
// the dump are left as they are.
func (n *Node) LoadState(data []byte) error {
	accounts, err := state.DecodeDump(data)
	if err != nil {
		return errors.WithMessage(ErrInvalidDump, err.Error())
	}
	return n.mutate(func() error {
		if err := n.state.Apply(n.state.LoadDiff(accounts)); err != nil {
			return errors.WithMessage(err, "load state")
		}
		logger.Info("state loaded", "accounts", len(accounts))
		return nil
	})
}
