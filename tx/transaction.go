// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/devnode/thor"
)

// Transaction is an immutable tx type.
type Transaction struct {
	body body

	cache struct {
		hash atomic.Pointer[thor.Bytes32]
		size atomic.Uint64
	}
}

// body describes details of a tx.
type body struct {
	ChainID  uint64
	Sender   thor.Address
	Nonce    uint64
	To       *thor.Address `rlp:"nil"`
	Value    *uint256.Int
	Data     []byte
	Gas      uint64
	GasPrice *uint256.Int
}

// Hash returns the keccak256 hash of the rlp encoded tx.
func (t *Transaction) Hash() thor.Bytes32 {
	if cached := t.cache.hash.Load(); cached != nil {
		return *cached
	}
	h := thor.Keccak256Fn(func(w io.Writer) {
		rlp.Encode(w, t)
	})
	t.cache.hash.Store(&h)
	return h
}

// ChainID returns the chain id the tx was built for. Zero means any chain.
func (t *Transaction) ChainID() uint64 {
	return t.body.ChainID
}

// Sender returns the account sending the tx.
func (t *Transaction) Sender() thor.Address {
	return t.body.Sender
}

// Nonce returns the sender nonce of the tx.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// To returns the recipient. It returns nil for contract creation.
func (t *Transaction) To() *thor.Address {
	if t.body.To == nil {
		return nil
	}
	cpy := *t.body.To
	return &cpy
}

// IsCreation returns whether the tx deploys a contract.
func (t *Transaction) IsCreation() bool {
	return t.body.To == nil
}

// Value returns the value transferred.
func (t *Transaction) Value() *uint256.Int {
	if t.body.Value == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(t.body.Value)
}

// Data returns the input data.
func (t *Transaction) Data() []byte {
	return append([]byte(nil), t.body.Data...)
}

// Gas returns gas provision for this tx.
func (t *Transaction) Gas() uint64 {
	return t.body.Gas
}

// GasPrice returns the gas price. It is part of the tx hash, but neither the pool
// nor the engine reads it: a pending tx is replaced whatever the prices.
func (t *Transaction) GasPrice() *uint256.Int {
	if t.body.GasPrice == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(t.body.GasPrice)
}

// IntrinsicGas returns the gas consumed before any execution.
func (t *Transaction) IntrinsicGas() uint64 {
	gas := thor.TxGas
	if t.IsCreation() {
		gas = thor.TxGasContractCreation
	}
	for _, b := range t.body.Data {
		if b == 0 {
			gas += 4
		} else {
			gas += 16
		}
	}
	return gas
}

// Size returns the size in bytes of the rlp encoded tx.
func (t *Transaction) Size() uint64 {
	if cached := t.cache.size.Load(); cached != 0 {
		return cached
	}
	var c writeCounter
	rlp.Encode(&c, t)
	t.cache.size.Store(uint64(c))
	return uint64(c)
}

// Validate checks the tx is well formed.
func (t *Transaction) Validate() error {
	if t.body.Value == nil {
		return errors.New("value required")
	}
	if t.body.Gas == 0 {
		return errors.New("zero gas")
	}
	if len(t.body.Data) > thor.MaxTxDataSize {
		return errors.New("data too large")
	}
	if t.body.Gas < t.IntrinsicGas() {
		return errors.New("intrinsic gas exceeds provided gas")
	}
	return nil
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

func (t *Transaction) String() string {
	to := "new contract"
	if t.body.To != nil {
		to = t.body.To.String()
	}
	return fmt.Sprintf(`
	Tx(%v, %v)
	From:    %v
	To:      %v
	Nonce:   %v
	Value:   %v
	Gas:     %v
	Data:    %v bytes`, t.Hash(), t.Size(), t.body.Sender, to, t.body.Nonce, t.Value(), t.body.Gas, len(t.body.Data))
}

type writeCounter uint64

func (c *writeCounter) Write(b []byte) (int, error) {
	*c += writeCounter(len(b))
	return len(b), nil
}

// Transactions a slice of transactions.
type Transactions []*Transaction

// Hashes returns the hashes of all txs.
func (txs Transactions) Hashes() []thor.Bytes32 {
	hashes := make([]thor.Bytes32, len(txs))
	for i, tx := range txs {
		hashes[i] = tx.Hash()
	}
	return hashes
}

// RootHash computes the root hash of txs.
func (txs Transactions) RootHash() thor.Bytes32 {
	if len(txs) == 0 {
		return thor.Bytes32{}
	}
	return thor.Keccak256Fn(func(w io.Writer) {
		rlp.Encode(w, txs.Hashes())
	})
}
