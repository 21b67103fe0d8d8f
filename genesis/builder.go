// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/thor"
)

// Builder helper to build genesis block.
type Builder struct {
	timestamp uint64
	gasLimit  uint64

	stateProcs []func(diff *state.Diff) error
	extraData  [28]byte
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// GasLimit set gas limit.
func (b *Builder) GasLimit(limit uint64) *Builder {
	b.gasLimit = limit
	return b
}

// State add a state process
func (b *Builder) State(proc func(diff *state.Diff) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// ExtraData set extra data, which will be put into last 28 bytes of genesis parent id.
func (b *Builder) ExtraData(data [28]byte) *Builder {
	b.extraData = data
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (thor.Bytes32, error) {
	blk, _, err := b.Build()
	if err != nil {
		return thor.Bytes32{}, err
	}
	return blk.Header().ID(), nil
}

// Build build genesis block and its initial state according to presets.
func (b *Builder) Build() (*block.Block, *state.Store, error) {
	diff := &state.Diff{}
	for _, proc := range b.stateProcs {
		if err := proc(diff); err != nil {
			return nil, nil, errors.Wrap(err, "state process")
		}
	}

	st := state.New()
	if err := st.Apply(diff); err != nil {
		return nil, nil, errors.Wrap(err, "apply alloc")
	}

	parentID := block.GenesisParentID() // so, genesis number is 0
	copy(parentID[4:], b.extraData[:])

	return new(block.Builder).
		ParentID(parentID).
		Timestamp(b.timestamp).
		GasLimit(b.gasLimit).
		Build(), st, nil
}
