// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

type JSONBlockSummary struct {
	Number       uint32       `json:"number"`
	ID           thor.Bytes32 `json:"id"`
	ParentID     thor.Bytes32 `json:"parentID"`
	Timestamp    uint64       `json:"timestamp"`
	GasLimit     uint64       `json:"gasLimit"`
	Beneficiary  thor.Address `json:"beneficiary"`
	GasUsed      uint64       `json:"gasUsed"`
	TxsRoot      thor.Bytes32 `json:"txsRoot"`
	ReceiptsRoot thor.Bytes32 `json:"receiptsRoot"`
}

type JSONCollapsedBlock struct {
	*JSONBlockSummary
	Transactions []thor.Bytes32 `json:"transactions"`
}

type JSONEvent struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    string         `json:"data"`
}

type JSONEmbeddedTx struct {
	ID       thor.Bytes32          `json:"id"`
	ChainID  math.HexOrDecimal64   `json:"chainId"`
	Origin   thor.Address          `json:"origin"`
	Nonce    math.HexOrDecimal64   `json:"nonce"`
	To       *thor.Address         `json:"to"`
	Value    *math.HexOrDecimal256 `json:"value"`
	Data     string                `json:"data"`
	Gas      uint64                `json:"gas"`
	GasPrice *math.HexOrDecimal256 `json:"gasPrice"`
	Size     uint32                `json:"size"`

	// receipt part
	GasUsed         uint64        `json:"gasUsed"`
	Reverted        bool          `json:"reverted"`
	RevertReason    string        `json:"revertReason,omitempty"`
	ContractAddress *thor.Address `json:"contractAddress"`
	Events          []*JSONEvent  `json:"events"`
}

type JSONExpandedBlock struct {
	*JSONBlockSummary
	Transactions []*JSONEmbeddedTx `json:"transactions"`
}

func buildJSONBlockSummary(header *block.Header) *JSONBlockSummary {
	return &JSONBlockSummary{
		Number:       header.Number(),
		ID:           header.ID(),
		ParentID:     header.ParentID(),
		Timestamp:    header.Timestamp(),
		GasLimit:     header.GasLimit(),
		Beneficiary:  header.Beneficiary(),
		GasUsed:      header.GasUsed(),
		TxsRoot:      header.TxsRoot(),
		ReceiptsRoot: header.ReceiptsRoot(),
	}
}

func buildJSONEmbeddedTxs(txs tx.Transactions, receipts tx.Receipts) []*JSONEmbeddedTx {
	jTxs := make([]*JSONEmbeddedTx, 0, len(txs))
	for i, trx := range txs {
		receipt := receipts[i]

		events := make([]*JSONEvent, 0, len(receipt.Logs))
		for _, l := range receipt.Logs {
			events = append(events, &JSONEvent{
				Address: l.Address,
				Topics:  l.Topics,
				Data:    hexutil.Encode(l.Data),
			})
		}

		jTxs = append(jTxs, &JSONEmbeddedTx{
			ID:       trx.Hash(),
			ChainID:  math.HexOrDecimal64(trx.ChainID()),
			Origin:   trx.Sender(),
			Nonce:    math.HexOrDecimal64(trx.Nonce()),
			To:       trx.To(),
			Value:    (*math.HexOrDecimal256)(trx.Value().ToBig()),
			Data:     hexutil.Encode(trx.Data()),
			Gas:      trx.Gas(),
			GasPrice: (*math.HexOrDecimal256)(trx.GasPrice().ToBig()),
			Size:     uint32(trx.Size()),

			GasUsed:         receipt.GasUsed,
			Reverted:        receipt.Reverted,
			RevertReason:    receipt.RevertReason,
			ContractAddress: receipt.ContractAddress,
			Events:          events,
		})
	}
	return jTxs
}
