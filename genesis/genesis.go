// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/thor"
)

// Genesis to build genesis block.
type Genesis struct {
	builder  *Builder
	id       thor.Bytes32
	name     string
	accounts []thor.Address
}

// Build build the genesis block and its state.
// Each call returns a fresh state.
func (g *Genesis) Build() (*block.Block, *state.Store, error) {
	return g.builder.Build()
}

// ID returns genesis block ID.
func (g *Genesis) ID() thor.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Accounts returns the addresses funded at genesis.
func (g *Genesis) Accounts() []thor.Address {
	return append([]thor.Address(nil), g.accounts...)
}
