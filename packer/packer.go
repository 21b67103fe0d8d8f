// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/runtime"
	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/vm"
)

// Packer to pack txs and build new blocks.
type Packer struct {
	engine   vm.Engine
	chainID  uint64
	gasLimit uint64
	coinbase thor.Address
}

// New create a new Packer instance.
func New(engine vm.Engine, chainID uint64, gasLimit uint64, coinbase thor.Address) *Packer {
	return &Packer{
		engine:   engine,
		chainID:  chainID,
		gasLimit: gasLimit,
		coinbase: coinbase,
	}
}

// ChainID returns the chain id txs are executed with.
func (p *Packer) ChainID() uint64 {
	return p.chainID
}

// SetChainID changes the chain id of blocks scheduled later.
func (p *Packer) SetChainID(id uint64) {
	p.chainID = id
}

// GasLimit returns the block gas limit.
func (p *Packer) GasLimit() uint64 {
	return p.gasLimit
}

// Schedule creates a packing flow on top of parent, stamped with timestamp.
// The flow works on a copy of st, st itself is never modified.
func (p *Packer) Schedule(parent *block.Header, timestamp uint64, st *state.Store) *Flow {
	env := vm.Env{
		Number:    parent.Number() + 1,
		Timestamp: timestamp,
		ChainID:   p.chainID,
		GasLimit:  p.gasLimit,
		Coinbase:  p.coinbase,
	}
	rt := runtime.New(p.engine, st.Copy(), env)
	return newFlow(parent, rt)
}
