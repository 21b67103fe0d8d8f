// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

func TestGenesis(t *testing.T) {
	genesis := new(Builder).ParentID(GenesisParentID()).Timestamp(100).GasLimit(thor.DefaultGasLimit).Build()

	assert.Equal(t, uint32(0), genesis.Header().Number())
	assert.Equal(t, uint32(0), Number(genesis.Header().ID()))
	assert.Equal(t, thor.Bytes32{}, genesis.Header().TxsRoot())
	assert.Empty(t, genesis.Transactions())
}

func TestBuilder(t *testing.T) {
	genesis := new(Builder).ParentID(GenesisParentID()).Timestamp(100).Build()

	sender := thor.BytesToAddress([]byte("sender"))
	to := thor.BytesToAddress([]byte("to"))
	tx1 := tx.NewBuilder().Sender(sender).Nonce(0).To(&to).Value(uint256.NewInt(1)).Gas(21000).Build()
	tx2 := tx.NewBuilder().Sender(sender).Nonce(1).To(&to).Value(uint256.NewInt(1)).Gas(21000).Build()
	r1 := &tx.Receipt{TxHash: tx1.Hash(), GasUsed: 21000}
	r2 := &tx.Receipt{TxHash: tx2.Hash(), GasUsed: 21000, Reverted: true}

	coinbase := thor.BytesToAddress([]byte("coinbase"))
	blk := new(Builder).
		ParentID(genesis.Header().ID()).
		Timestamp(110).
		GasLimit(thor.DefaultGasLimit).
		Beneficiary(coinbase).
		Transaction(tx1, r1).
		Transaction(tx2, r2).
		Build()

	h := blk.Header()
	assert.Equal(t, uint32(1), h.Number())
	assert.Equal(t, genesis.Header().ID(), h.ParentID())
	assert.Equal(t, uint64(110), h.Timestamp())
	assert.Equal(t, uint64(42000), h.GasUsed())
	assert.Equal(t, thor.DefaultGasLimit, h.GasLimit())
	assert.Equal(t, coinbase, h.Beneficiary())
	assert.Equal(t, tx.Transactions{tx1, tx2}.RootHash(), h.TxsRoot())
	assert.Equal(t, tx.Receipts{r1, r2}.RootHash(), h.ReceiptsRoot())
	assert.Equal(t, uint32(1), Number(h.ID()))
	assert.Equal(t, tx.Receipts{r1, r2}, blk.Receipts())

	// returned slices are copies
	txs := blk.Transactions()
	txs[0] = nil
	assert.NotNil(t, blk.Transactions()[0])
}

func TestBlockRLP(t *testing.T) {
	sender := thor.BytesToAddress([]byte("sender"))
	trx := tx.NewBuilder().Sender(sender).Data([]byte{1}).Gas(60000).Build()
	contract := thor.CreateContractAddress(sender, 0)
	blk := new(Builder).
		ParentID(GenesisParentID()).
		Timestamp(1).
		Transaction(trx, &tx.Receipt{TxHash: trx.Hash(), GasUsed: 53016, ContractAddress: &contract}).
		Build()

	data, err := rlp.EncodeToBytes(blk)
	require.NoError(t, err)

	var decoded Block
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, blk.Header().ID(), decoded.Header().ID())
	assert.Equal(t, trx.Hash(), decoded.Transactions()[0].Hash())
	assert.Equal(t, &contract, decoded.Receipts()[0].ContractAddress)
}
