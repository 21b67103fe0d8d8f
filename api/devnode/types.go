// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package devnode

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/devnode/node"
	"github.com/vechain/devnode/thor"
)

type MineRequest struct {
	Blocks   *uint64 `json:"blocks"`
	Interval *uint64 `json:"interval"`
}

type RevertRequest struct {
	ID uint64 `json:"id"`
}

type SecondsRequest struct {
	Seconds uint64 `json:"seconds"`
}

type TimestampRequest struct {
	Timestamp uint64 `json:"timestamp"`
}

type NonceRequest struct {
	Address thor.Address `json:"address"`
	Nonce   uint64       `json:"nonce"`
}

type BalanceRequest struct {
	Address thor.Address          `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type CodeRequest struct {
	Address thor.Address `json:"address"`
	Code    string       `json:"code"`
}

type StorageRequest struct {
	Address thor.Address `json:"address"`
	Key     thor.Bytes32 `json:"key"`
	Value   thor.Bytes32 `json:"value"`
}

type EnabledRequest struct {
	Enabled bool `json:"enabled"`
}

type ChainIDRequest struct {
	ChainID math.HexOrDecimal64 `json:"chainId"`
}

type AddressRequest struct {
	Address thor.Address `json:"address"`
}

// State carries a state dump, hex encoded.
type State struct {
	State string `json:"state"`
}

// Result wraps the value returned by a command.
type Result struct {
	Result any `json:"result"`
}

type DroppedTx struct {
	ID    thor.Bytes32 `json:"id"`
	Error string       `json:"error"`
}

type MinedBlock struct {
	ID           thor.Bytes32   `json:"id"`
	Number       uint32         `json:"number"`
	Timestamp    uint64         `json:"timestamp"`
	Transactions []thor.Bytes32 `json:"transactions"`
	Dropped      []*DroppedTx   `json:"dropped"`
}

func convertMineResults(results []*node.MineResult) []*MinedBlock {
	blocks := make([]*MinedBlock, 0, len(results))
	for _, res := range results {
		header := res.Block.Header()
		mb := &MinedBlock{
			ID:           header.ID(),
			Number:       header.Number(),
			Timestamp:    header.Timestamp(),
			Transactions: res.Block.Transactions().Hashes(),
			Dropped:      make([]*DroppedTx, 0, len(res.Dropped)),
		}
		for _, d := range res.Dropped {
			mb.Dropped = append(mb.Dropped, &DroppedTx{ID: d.Tx.Hash(), Error: d.Err.Error()})
		}
		blocks = append(blocks, mb)
	}
	return blocks
}
