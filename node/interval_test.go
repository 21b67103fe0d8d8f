// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitTick(t *testing.T, n *Node, fn func()) {
	ticker := n.NewTicker()
	fn()
	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Fatal("no block mined")
	}
}

func TestIntervalMining(t *testing.T) {
	n, sim := newNode(t, manual)

	n.SetIntervalMining(5)
	assert.Equal(t, uint64(5), n.IntervalMining())

	sim.WaitForTimers(1)
	sim.Run(4 * time.Second)
	assert.Equal(t, uint32(0), n.BestBlock().Header().Number())

	waitTick(t, n, func() { sim.Run(time.Second) })
	assert.Equal(t, uint32(1), n.BestBlock().Header().Number())

	sim.WaitForTimers(1)
	waitTick(t, n, func() { sim.Run(5 * time.Second) })
	assert.Equal(t, uint32(2), n.BestBlock().Header().Number())
	assert.Equal(t, uint64(startTime+10), n.BestBlock().Header().Timestamp())
}

func TestIntervalMiningStop(t *testing.T) {
	n, sim := newNode(t, manual)

	n.SetIntervalMining(1)
	sim.WaitForTimers(1)
	n.SetIntervalMining(0)
	assert.Equal(t, uint64(0), n.IntervalMining())

	sim.Run(10 * time.Second)
	assert.Equal(t, uint32(0), n.BestBlock().Header().Number())
}

func TestIntervalMiningOption(t *testing.T) {
	n, sim := newNode(t, manual, func(o *Options) { o.BlockInterval = 3 })
	assert.Equal(t, uint64(3), n.IntervalMining())

	sim.WaitForTimers(1)
	waitTick(t, n, func() { sim.Run(3 * time.Second) })
	assert.Equal(t, uint32(1), n.BestBlock().Header().Number())

	// a new period replaces the running one
	res, err := n.Execute(SetIntervalMiningCmd{Seconds: 60})
	require.NoError(t, err)
	assert.Nil(t, res)
	res, err = n.Execute(GetIntervalMiningCmd{})
	require.NoError(t, err)
	assert.Equal(t, uint64(60), res)

	sim.WaitForTimers(1)
	sim.Run(59 * time.Second)
	assert.Equal(t, uint32(1), n.BestBlock().Header().Number())
}
