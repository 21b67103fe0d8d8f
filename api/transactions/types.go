// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

// BlockContext block context
type BlockContext struct {
	ID        thor.Bytes32 `json:"id"`
	Number    uint32       `json:"number"`
	Timestamp uint64       `json:"timestamp"`
}

// Transaction transaction
type Transaction struct {
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
	// Meta is nil for a pending tx
	Meta *BlockContext `json:"meta"`
}

// ConvertTransaction convert a raw transaction into a json format transaction
func ConvertTransaction(trx *tx.Transaction, header *block.Header) *Transaction {
	t := &Transaction{
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
	}
	if header != nil {
		t.Meta = &BlockContext{
			ID:        header.ID(),
			Number:    header.Number(),
			Timestamp: header.Timestamp(),
		}
	}
	return t
}

// Log a log emitted by an executed tx.
type Log struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    string         `json:"data"`
}

// Receipt for json marshal
type Receipt struct {
	TxID            thor.Bytes32  `json:"txID"`
	GasUsed         uint64        `json:"gasUsed"`
	Reverted        bool          `json:"reverted"`
	RevertReason    string        `json:"revertReason,omitempty"`
	ContractAddress *thor.Address `json:"contractAddress"`
	Logs            []*Log        `json:"logs"`
	Meta            *BlockContext `json:"meta"`
}

// ConvertReceipt convert a raw receipt into a json format receipt
func ConvertReceipt(receipt *tx.Receipt, header *block.Header) *Receipt {
	r := &Receipt{
		TxID:            receipt.TxHash,
		GasUsed:         receipt.GasUsed,
		Reverted:        receipt.Reverted,
		RevertReason:    receipt.RevertReason,
		ContractAddress: receipt.ContractAddress,
		Logs:            make([]*Log, len(receipt.Logs)),
	}
	for i, l := range receipt.Logs {
		r.Logs[i] = &Log{
			Address: l.Address,
			Topics:  l.Topics,
			Data:    hexutil.Encode(l.Data),
		}
	}
	if header != nil {
		r.Meta = &BlockContext{
			ID:        header.ID(),
			Number:    header.Number(),
			Timestamp: header.Timestamp(),
		}
	}
	return r
}

// SendTx is the body of a tx submission. Either Raw, the RLP encoded tx, or the fields are set.
type SendTx struct {
	Raw      string                `json:"raw,omitempty"`
	ChainID  *math.HexOrDecimal64  `json:"chainId,omitempty"`
	Origin   *thor.Address         `json:"origin,omitempty"`
	Nonce    *math.HexOrDecimal64  `json:"nonce,omitempty"`
	To       *thor.Address         `json:"to,omitempty"`
	Value    *math.HexOrDecimal256 `json:"value,omitempty"`
	Data     string                `json:"data,omitempty"`
	Gas      uint64                `json:"gas,omitempty"`
	GasPrice *math.HexOrDecimal256 `json:"gasPrice,omitempty"`
}

// decode builds the tx. nonceOf gives the nonce of the origin when none is set.
func (s *SendTx) decode(nonceOf func(thor.Address) uint64) (*tx.Transaction, error) {
	if s.Raw != "" {
		data, err := hexutil.Decode(s.Raw)
		if err != nil {
			return nil, errors.WithMessage(err, "raw")
		}
		var trx tx.Transaction
		if err := rlp.DecodeBytes(data, &trx); err != nil {
			return nil, errors.WithMessage(err, "raw")
		}
		return &trx, nil
	}

	if s.Origin == nil {
		return nil, errors.New("origin: required")
	}
	builder := tx.NewBuilder().
		Sender(*s.Origin).
		To(s.To).
		Gas(s.Gas)
	if s.ChainID != nil {
		builder.ChainID(uint64(*s.ChainID))
	}
	if s.Nonce != nil {
		builder.Nonce(uint64(*s.Nonce))
	} else {
		builder.Nonce(nonceOf(*s.Origin))
	}
	if s.Value != nil {
		v, err := toUint256(s.Value)
		if err != nil {
			return nil, errors.WithMessage(err, "value")
		}
		builder.Value(v)
	}
	if s.GasPrice != nil {
		v, err := toUint256(s.GasPrice)
		if err != nil {
			return nil, errors.WithMessage(err, "gasPrice")
		}
		builder.GasPrice(v)
	}
	if s.Data != "" {
		data, err := hexutil.Decode(s.Data)
		if err != nil {
			return nil, errors.WithMessage(err, "data")
		}
		builder.Data(data)
	}
	return builder.Build(), nil
}

func toUint256(v *math.HexOrDecimal256) (*uint256.Int, error) {
	i, overflow := uint256.FromBig((*big.Int)(v))
	if overflow {
		return nil, errors.New("overflows 256 bits")
	}
	return i, nil
}

// SendResult is the response of a tx submission.
type SendResult struct {
	ID       thor.Bytes32 `json:"id"`
	Status   string       `json:"status"`
	Position int          `json:"position"`
	Receipt  *Receipt     `json:"receipt,omitempty"`
}
