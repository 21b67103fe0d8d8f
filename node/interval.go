// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"time"

	"github.com/vechain/devnode/co"
)

// intervalMiner mines one block every interval. The countdown restarts whenever
// the chain head changes, so blocks mined on demand push the next one back.
type intervalMiner struct {
	node     *Node
	interval time.Duration
	goes     co.Goes
}

func (m *intervalMiner) loop(stop <-chan struct{}) {
	logger.Info("interval mining enabled", "interval", m.interval)
	defer logger.Info("interval mining disabled")

	ticker := m.node.NewTicker()
	timer := m.node.clock.Reference().NewTimer(m.interval)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			timer.Reset(m.interval)
		case <-timer.C():
			// a mined block ticks the node, which resets the timer
			blocks, err := m.node.Mine(1, nil)
			if err != nil {
				logger.Warn("failed to mine block", "err", err)
				timer.Reset(m.interval)
				continue
			}
			h := blocks[0].Header()
			logger.Debug("block mined on interval", "number", h.Number(), "id", h.ID(), "txs", len(blocks[0].Transactions()))
		}
	}
}

// SetIntervalMining mines a block every seconds in the background, on top of automine.
// Zero stops it. The countdown restarts on every head change.
func (n *Node) SetIntervalMining(seconds uint64) {
	n.minerMu.Lock()
	defer n.minerMu.Unlock()

	n.stopIntervalMining()
	if seconds == 0 {
		return
	}
	m := &intervalMiner{node: n, interval: time.Duration(seconds) * time.Second}
	m.goes.Go(m.loop)
	n.miner = m
}

// IntervalMining returns the interval mining period in seconds, zero when off.
func (n *Node) IntervalMining() uint64 {
	n.minerMu.Lock()
	defer n.minerMu.Unlock()

	if n.miner == nil {
		return 0
	}
	return uint64(n.miner.interval / time.Second)
}

// stopIntervalMining waits for a running miner to exit. It must not be called under wmu,
// the miner may be waiting for it.
func (n *Node) stopIntervalMining() {
	if n.miner == nil {
		return
	}
	n.miner.goes.Stop()
	n.miner.goes.Wait()
	n.miner = nil
}
