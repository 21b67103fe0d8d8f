// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node composes the chain components into a single dev node.
//
// Mutations are serialized by a writer lock. Mining executes txs on copies of the
// state and pool while readers keep running, then swaps in the new block, state,
// pool and clock at once under the read-write lock. Readers never see a partially
// built block or a partially restored snapshot. Events are delivered after the
// locks are released.
package node

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/devnode/chain"
	"github.com/vechain/devnode/clock"
	"github.com/vechain/devnode/co"
	"github.com/vechain/devnode/genesis"
	"github.com/vechain/devnode/log"
	"github.com/vechain/devnode/packer"
	"github.com/vechain/devnode/snapshot"
	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/txpool"
)

var logger = log.WithContext("pkg", "node")

// Node is a single node chain with test controls.
type Node struct {
	// wmu serializes mutations. mu guards what readers see and is held
	// exclusively only while a mutation commits.
	wmu sync.Mutex
	mu  sync.RWMutex

	options   Options
	genesis   *genesis.Genesis
	packer    *packer.Packer
	clock     *clock.Controller
	repo      *chain.Repository
	state     *state.Store
	pool      *txpool.TxPool
	snapshots *snapshot.Manager[*capture]

	autoMine        bool
	autoImpersonate bool
	funded          map[thor.Address]bool
	impersonated    map[thor.Address]bool

	minerMu sync.Mutex
	miner   *intervalMiner

	events    []any
	blockFeed event.Feed
	txFeed    event.Feed
	scope     event.SubscriptionScope
	// broadcast on every head change, reverts included
	tick co.Signal
}

// New creates a node at its genesis block.
func New(options Options) (*Node, error) {
	options.fillDefaults()

	n := &Node{
		options:         options,
		genesis:         options.Genesis,
		clock:           options.Clock,
		snapshots:       snapshot.New[*capture](),
		autoMine:        options.AutoMine,
		autoImpersonate: options.AutoImpersonate,
		funded:          make(map[thor.Address]bool),
		impersonated:    make(map[thor.Address]bool),
	}
	for _, addr := range n.genesis.Accounts() {
		n.funded[addr] = true
	}
	if err := n.init(); err != nil {
		return nil, err
	}
	n.packer = packer.New(options.Engine, options.ChainID, n.repo.GenesisBlock().Header().GasLimit(), options.Coinbase)
	n.SetIntervalMining(options.BlockInterval)
	return n, nil
}

// init builds the genesis state and empties history and pool.
func (n *Node) init() error {
	b0, st, err := n.genesis.Build()
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}
	repo, err := chain.NewRepository(b0)
	if err != nil {
		return err
	}
	poolOpts := n.options.TxPool
	poolOpts.BlockGasLimit = b0.Header().GasLimit()

	n.repo = repo
	n.state = st
	n.pool = txpool.New(poolOpts)
	metricBestBlock().Set(0)
	return nil
}

// Close stops interval mining and unsubscribes all subscribers.
func (n *Node) Close() {
	n.SetIntervalMining(0)
	n.scope.Close()
}

// write runs fn as the only mutation in progress and publishes the events it emitted afterwards.
// fn takes mu itself around the changes readers may observe.
func (n *Node) write(fn func() error) error {
	n.wmu.Lock()
	err := fn()
	events := n.events
	n.events = nil
	n.wmu.Unlock()

	n.publish(events)
	return err
}

// mutate is write with mu held for the whole of fn.
func (n *Node) mutate(fn func() error) error {
	return n.write(func() error {
		n.mu.Lock()
		defer n.mu.Unlock()
		return fn()
	})
}

func (n *Node) senderAllowed(addr thor.Address) bool {
	return n.autoImpersonate || n.funded[addr] || n.impersonated[addr]
}
