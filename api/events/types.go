// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/devnode/node"
	"github.com/vechain/devnode/thor"
)

// LogMeta locates a log in the chain.
type LogMeta struct {
	BlockID        thor.Bytes32 `json:"blockID"`
	BlockNumber    uint32       `json:"blockNumber"`
	BlockTimestamp uint64       `json:"blockTimestamp"`
	TxID           thor.Bytes32 `json:"txID"`
	TxOrigin       thor.Address `json:"txOrigin"`
	TxIndex        *uint32      `json:"txIndex,omitempty"`
	LogIndex       *uint32      `json:"logIndex,omitempty"`
}

// FilteredEvent only comes from one contract
type FilteredEvent struct {
	Address thor.Address    `json:"address"`
	Topics  []*thor.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
	Meta    LogMeta         `json:"meta"`
}

func convertEvent(log *node.FilteredLog, addIndexes bool) *FilteredEvent {
	fe := &FilteredEvent{
		Address: log.Address,
		Data:    hexutil.Encode(log.Data),
		Meta: LogMeta{
			BlockID:        log.BlockID,
			BlockNumber:    log.BlockNumber,
			BlockTimestamp: log.BlockTimestamp,
			TxID:           log.TxHash,
			TxOrigin:       log.TxOrigin,
		},
	}
	if addIndexes {
		fe.Meta.TxIndex = &log.TxIndex
		fe.Meta.LogIndex = &log.LogIndex
	}

	fe.Topics = make([]*thor.Bytes32, 0, len(log.Topics))
	for i := range log.Topics {
		fe.Topics = append(fe.Topics, &log.Topics[i])
	}
	return fe
}

type TopicSet struct {
	Topic0 *thor.Bytes32 `json:"topic0"`
	Topic1 *thor.Bytes32 `json:"topic1"`
	Topic2 *thor.Bytes32 `json:"topic2"`
	Topic3 *thor.Bytes32 `json:"topic3"`
	Topic4 *thor.Bytes32 `json:"topic4"`
}

type EventCriteria struct {
	Address *thor.Address `json:"address"`
	TopicSet
}

type Options struct {
	Offset         uint64  `json:"offset,omitempty"`
	Limit          *uint64 `json:"limit,omitempty"`
	IncludeIndexes bool    `json:"includeIndexes,omitempty"`
}

func (o *Options) Validate(limit uint64) error {
	if o == nil {
		return nil
	}
	if o.Limit != nil && *o.Limit > limit {
		return fmt.Errorf("options.limit exceeds the maximum allowed value of %d", limit)
	}
	if o.Offset > math.MaxInt64 {
		return fmt.Errorf("options.offset exceeds the maximum allowed value of %d", math.MaxInt64)
	}
	return nil
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is a block number range, both ends included. Open ends extend to
// the genesis and the best block.
type Range struct {
	Unit string  `json:"unit,omitempty"`
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if r.Unit != "" && r.Unit != "block" {
		return fmt.Errorf("filter.range.unit must be 'block', got '%s'", r.Unit)
	}
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return fmt.Errorf("filter.range.to must be greater than or equal to filter.range.from")
	}
	return nil
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet,omitempty"`
	Range       *Range           `json:"range,omitempty"`
	Options     *Options         `json:"options,omitempty"`
	Order       Order            `json:"order,omitempty"`
}

// convertEventFilter builds the node filter. Options must be set.
func convertEventFilter(filter *EventFilter) *node.LogFilter {
	f := &node.LogFilter{
		To:     math.MaxUint32,
		Offset: filter.Options.Offset,
		Limit:  *filter.Options.Limit,
		Desc:   filter.Order == DESC,
	}
	if r := filter.Range; r != nil {
		if r.From != nil {
			f.From = uint32(min(*r.From, math.MaxUint32))
		}
		if r.To != nil {
			f.To = uint32(min(*r.To, math.MaxUint32))
		}
	}
	for _, criterion := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &node.LogCriteria{
			Address: criterion.Address,
			Topics:  [5]*thor.Bytes32{criterion.Topic0, criterion.Topic1, criterion.Topic2, criterion.Topic3, criterion.Topic4},
		})
	}
	return f
}
