// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"

	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

// LogCriteria matches logs by emitter and topics. Nil fields match anything.
type LogCriteria struct {
	Address *thor.Address
	Topics  [5]*thor.Bytes32
}

// Match returns whether log satisfies every set field.
func (c *LogCriteria) Match(log *tx.Log) bool {
	if c.Address != nil && *c.Address != log.Address {
		return false
	}
	for i, topic := range c.Topics {
		if topic == nil {
			continue
		}
		if i >= len(log.Topics) || log.Topics[i] != *topic {
			return false
		}
	}
	return true
}

// LogFilter selects the logs of blocks From to To, both included.
// A log matching any of CriteriaSet is selected, an empty set selects all.
type LogFilter struct {
	From        uint32
	To          uint32
	CriteriaSet []*LogCriteria
	Offset      uint64
	// Limit caps the result size if not zero.
	Limit uint64
	Desc  bool
}

func (f *LogFilter) match(log *tx.Log) bool {
	if len(f.CriteriaSet) == 0 {
		return true
	}
	for _, c := range f.CriteriaSet {
		if c.Match(log) {
			return true
		}
	}
	return false
}

// FilteredLog is a log located in the chain.
type FilteredLog struct {
	*tx.Log
	BlockID        thor.Bytes32
	BlockNumber    uint32
	BlockTimestamp uint64
	TxHash         thor.Bytes32
	TxOrigin       thor.Address
	TxIndex        uint32
	// LogIndex is the position of the log in its block.
	LogIndex uint32
}

// FilterLogs returns the logs selected by f in chain order, reversed if f.Desc is set.
// Blocks beyond the best one are ignored.
func (n *Node) FilterLogs(ctx context.Context, f *LogFilter) ([]*FilteredLog, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	best := n.repo.BestBlock().Header().Number()
	to := min(f.To, best)
	if f.From > to {
		return []*FilteredLog{}, nil
	}

	var (
		logs    = []*FilteredLog{}
		skipped uint64
	)
	full := func() bool {
		return f.Limit > 0 && uint64(len(logs)) >= f.Limit
	}
	for i := uint64(0); i <= uint64(to-f.From) && !full(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		num := f.From + uint32(i)
		if f.Desc {
			num = to - uint32(i)
		}
		blk, err := n.repo.GetBlockByNumber(num)
		if err != nil {
			return nil, err
		}
		found := blockLogs(blk.Header().ID(), num, blk.Header().Timestamp(), blk.Transactions(), blk.Receipts(), f.match)
		if f.Desc {
			for l, r := 0, len(found)-1; l < r; l, r = l+1, r-1 {
				found[l], found[r] = found[r], found[l]
			}
		}
		for _, log := range found {
			if skipped < f.Offset {
				skipped++
				continue
			}
			if full() {
				break
			}
			logs = append(logs, log)
		}
	}
	return logs, nil
}

func blockLogs(id thor.Bytes32, num uint32, ts uint64, txs tx.Transactions, receipts tx.Receipts, match func(*tx.Log) bool) []*FilteredLog {
	var (
		found    []*FilteredLog
		logIndex uint32
	)
	for i, receipt := range receipts {
		for _, log := range receipt.Logs {
			if match(log) {
				found = append(found, &FilteredLog{
					Log:            log,
					BlockID:        id,
					BlockNumber:    num,
					BlockTimestamp: ts,
					TxHash:         receipt.TxHash,
					TxOrigin:       txs[i].Sender(),
					TxIndex:        uint32(i),
					LogIndex:       logIndex,
				})
			}
			logIndex++
		}
	}
	return found
}
