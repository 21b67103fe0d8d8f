// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/vechain/devnode/clock"
	"github.com/vechain/devnode/genesis"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/txpool"
	"github.com/vechain/devnode/vm"
)

// Options for Node.
type Options struct {
	// Genesis defaults to the dev network.
	Genesis *genesis.Genesis
	// Engine defaults to vm.TransferEngine.
	Engine vm.Engine
	// Clock defaults to the system clock.
	Clock *clock.Controller

	ChainID        uint64
	Coinbase       thor.Address
	MaxTxsPerBlock int
	// AutoMine mines a block as soon as an executable tx is submitted.
	AutoMine bool
	// BlockInterval mines a block every BlockInterval seconds if not zero.
	BlockInterval uint64
	// AutoImpersonate accepts txs from any sender.
	AutoImpersonate bool
	TxPool          txpool.Options
}

// DefaultOptions returns the options of a dev node with automine on.
func DefaultOptions() Options {
	return Options{
		ChainID:        thor.DefaultChainID,
		MaxTxsPerBlock: thor.DefaultMaxTxsPerBlock,
		AutoMine:       true,
		TxPool:         txpool.DefaultOptions(),
	}
}

func (o *Options) fillDefaults() {
	if o.Genesis == nil {
		o.Genesis = genesis.NewDevnet(0, 0)
	}
	if o.Engine == nil {
		o.Engine = vm.TransferEngine{}
	}
	if o.Clock == nil {
		o.Clock = clock.NewSystem()
	}
	if o.ChainID == 0 {
		o.ChainID = thor.DefaultChainID
	}
	if o.MaxTxsPerBlock <= 0 {
		o.MaxTxsPerBlock = thor.DefaultMaxTxsPerBlock
	}
}
