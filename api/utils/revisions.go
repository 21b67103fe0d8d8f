// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"math"
	"strconv"

	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/node"
	"github.com/vechain/devnode/thor"
)

const revBest int64 = -1

// Revision is a block number, a block id or the best block.
type Revision struct {
	val any
}

// IsBest returns whether the revision is the best block.
func (rev *Revision) IsBest() bool {
	return rev.val == revBest
}

// ParseRevision parses a query parameter into a block number or block ID.
func ParseRevision(revision string) (*Revision, error) {
	if revision == "" || revision == "best" {
		return &Revision{revBest}, nil
	}

	if len(revision) == 66 || len(revision) == 64 {
		blockID, err := thor.ParseBytes32(revision)
		if err != nil {
			return nil, err
		}
		return &Revision{blockID}, nil
	}
	n, err := strconv.ParseUint(revision, 0, 0)
	if err != nil {
		return nil, err
	}
	if n > math.MaxUint32 {
		return nil, errors.New("block number out of max uint32")
	}
	return &Revision{uint32(n)}, err
}

// GetBlock returns the block of the revision in the current history.
func GetBlock(rev *Revision, n *node.Node) (*block.Block, error) {
	switch rev := rev.val.(type) {
	case thor.Bytes32:
		return n.BlockByHash(rev)
	case uint32:
		return n.BlockByNumber(rev)
	default:
		return n.BestBlock(), nil
	}
}
