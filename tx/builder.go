// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/holiman/uint256"

	"github.com/vechain/devnode/thor"
)

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// NewBuilder creates a builder with zero value and gas price.
func NewBuilder() *Builder {
	return &Builder{body: body{Value: new(uint256.Int), GasPrice: new(uint256.Int)}}
}

// ChainID set chain id.
func (b *Builder) ChainID(id uint64) *Builder {
	b.body.ChainID = id
	return b
}

// Sender set sender.
func (b *Builder) Sender(addr thor.Address) *Builder {
	b.body.Sender = addr
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// To set recipient. Nil means contract creation.
func (b *Builder) To(to *thor.Address) *Builder {
	if to == nil {
		b.body.To = nil
	} else {
		cpy := *to
		b.body.To = &cpy
	}
	return b
}

// Value set value to transfer. Nil leaves the tx malformed.
func (b *Builder) Value(v *uint256.Int) *Builder {
	if v == nil {
		b.body.Value = nil
	} else {
		b.body.Value = new(uint256.Int).Set(v)
	}
	return b
}

// Data set input data.
func (b *Builder) Data(data []byte) *Builder {
	b.body.Data = append([]byte(nil), data...)
	return b
}

// Gas set gas provision for tx.
func (b *Builder) Gas(gas uint64) *Builder {
	b.body.Gas = gas
	return b
}

// GasPrice set gas price.
func (b *Builder) GasPrice(price *uint256.Int) *Builder {
	if price == nil {
		b.body.GasPrice = new(uint256.Int)
	} else {
		b.body.GasPrice = new(uint256.Int).Set(price)
	}
	return b
}

// Build builds a tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	tx.body.Data = append([]byte(nil), b.body.Data...)
	if b.body.Value != nil {
		tx.body.Value = new(uint256.Int).Set(b.body.Value)
	}
	if b.body.GasPrice != nil {
		tx.body.GasPrice = new(uint256.Int).Set(b.body.GasPrice)
	}
	return &tx
}
