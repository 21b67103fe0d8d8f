// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/devnode/tx"
)

// Block is an immutable block type.
// Receipts are index aligned with transactions.
type Block struct {
	header   *Header
	txs      tx.Transactions
	receipts tx.Receipts
}

// Header returns the block header.
func (b *Block) Header() *Header {
	return b.header
}

// Transactions returns a copy of transactions.
func (b *Block) Transactions() tx.Transactions {
	return append(tx.Transactions(nil), b.txs...)
}

// Receipts returns a copy of receipts.
func (b *Block) Receipts() tx.Receipts {
	return append(tx.Receipts(nil), b.receipts...)
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []any{
		b.header,
		b.txs,
		b.receipts,
	})
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	payload := struct {
		Header   Header
		Txs      tx.Transactions
		Receipts tx.Receipts
	}{}
	if err := s.Decode(&payload); err != nil {
		return err
	}
	if len(payload.Txs) != len(payload.Receipts) {
		return fmt.Errorf("block: %v txs but %v receipts", len(payload.Txs), len(payload.Receipts))
	}
	*b = Block{
		header:   &Header{body: payload.Header.body},
		txs:      payload.Txs,
		receipts: payload.Receipts,
	}
	return nil
}

func (b *Block) String() string {
	return fmt.Sprintf(`Block(%v)
%v
Transactions: %v`, b.header.ID().AbbrevString(), b.header, len(b.txs))
}
