// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
	carol = thor.BytesToAddress([]byte("carol"))
)

func newTx(sender thor.Address, nonce uint64, value uint64) *tx.Transaction {
	return tx.NewBuilder().
		Sender(sender).
		Nonce(nonce).
		To(&carol).
		Value(uint256.NewInt(value)).
		Gas(21000).
		Build()
}

func nonces(m map[thor.Address]uint64) func(thor.Address) uint64 {
	return func(addr thor.Address) uint64 { return m[addr] }
}

func TestAdd(t *testing.T) {
	pool := New(DefaultOptions())

	status, pos, err := pool.Add(newTx(alice, 0, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, status)
	assert.Equal(t, 0, pos)

	status, pos, err = pool.Add(newTx(bob, 3, 1), 2)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, status)
	assert.Equal(t, 1, pos)

	assert.Equal(t, 2, pool.Len())
	assert.NotNil(t, pool.Get(newTx(alice, 0, 1).Hash()))
	assert.Nil(t, pool.Get(newTx(alice, 0, 2).Hash()))
}

func TestAddRejections(t *testing.T) {
	tests := []struct {
		name     string
		tx       *tx.Transaction
		nonce    uint64
		badTx    bool
		rejected bool
	}{
		{"nonce too low", newTx(alice, 1, 1), 2, false, true},
		{"nil value", tx.NewBuilder().Sender(alice).To(&carol).Value(nil).Gas(21000).Build(), 0, true, false},
		{"zero gas", tx.NewBuilder().Sender(alice).To(&carol).Build(), 0, true, false},
		{"gas above block limit", tx.NewBuilder().Sender(alice).To(&carol).Gas(thor.DefaultGasLimit + 1).Build(), 0, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := New(DefaultOptions())
			_, _, err := pool.Add(newTx(bob, 0, 1), 0)
			require.NoError(t, err)

			_, _, err = pool.Add(tt.tx, tt.nonce)
			require.Error(t, err)
			assert.Equal(t, tt.badTx, IsBadTx(err))
			assert.Equal(t, tt.rejected, IsTxRejected(err))
			assert.Equal(t, 1, pool.Len())
			assert.Equal(t, tx.Transactions{pool.Get(newTx(bob, 0, 1).Hash())}, pool.Pending())
		})
	}
}

func TestAddKnown(t *testing.T) {
	pool := New(DefaultOptions())
	_, _, err := pool.Add(newTx(alice, 0, 1), 0)
	require.NoError(t, err)

	_, _, err = pool.Add(newTx(alice, 0, 1), 0)
	assert.True(t, IsKnownTx(err))
	assert.True(t, IsTxRejected(err))
	assert.Equal(t, 1, pool.Len())
}

func TestAddLimits(t *testing.T) {
	pool := New(Options{Limit: 3, LimitPerAccount: 2})

	for _, trx := range []*tx.Transaction{newTx(alice, 0, 1), newTx(alice, 1, 1), newTx(bob, 0, 1)} {
		_, _, err := pool.Add(trx, 0)
		require.NoError(t, err)
	}

	_, _, err := pool.Add(newTx(alice, 2, 1), 0)
	assert.ErrorContains(t, err, "account quota exceeded")

	_, _, err = pool.Add(newTx(carol, 0, 1), 0)
	assert.ErrorContains(t, err, "pool is full")

	// replacement never counts against limits
	status, _, err := pool.Add(newTx(alice, 1, 2), 0)
	require.NoError(t, err)
	assert.Equal(t, StatusReplaced, status)
	assert.Equal(t, 3, pool.Len())
}

func TestReplaceKeepsSlot(t *testing.T) {
	pool := New(DefaultOptions())
	_, _, err := pool.Add(newTx(alice, 0, 1), 0)
	require.NoError(t, err)
	_, _, err = pool.Add(newTx(bob, 0, 1), 0)
	require.NoError(t, err)

	replacement := newTx(alice, 0, 99)
	status, pos, err := pool.Add(replacement, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusReplaced, status)
	assert.Equal(t, 0, pos)
	assert.Equal(t, 2, pool.Len())
	assert.Nil(t, pool.Get(newTx(alice, 0, 1).Hash()))

	pending := pool.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, replacement.Hash(), pending[0].Hash())
	assert.Equal(t, bob, pending[1].Sender())
}

func TestReplaceIgnoresGasPrice(t *testing.T) {
	pool := New(DefaultOptions())
	build := func(price uint64) *tx.Transaction {
		return tx.NewBuilder().Sender(alice).To(&carol).Gas(21000).GasPrice(uint256.NewInt(price)).Build()
	}
	expensive, cheap := build(100), build(1)
	require.NotEqual(t, expensive.Hash(), cheap.Hash())

	_, _, err := pool.Add(expensive, 0)
	require.NoError(t, err)
	status, _, err := pool.Add(cheap, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusReplaced, status)
	assert.Equal(t, tx.Transactions{cheap}, pool.Pending())
}

func TestDrain(t *testing.T) {
	pool := New(DefaultOptions())
	add := func(trx *tx.Transaction) {
		_, _, err := pool.Add(trx, 0)
		require.NoError(t, err)
	}
	// acceptance order: bob1, alice0, bob0, alice1, carol5
	add(newTx(bob, 1, 1))
	add(newTx(alice, 0, 1))
	add(newTx(bob, 0, 1))
	add(newTx(alice, 1, 1))
	add(newTx(carol, 5, 1))

	txs := pool.Drain(10, 0, nonces(nil))

	// bob1 waits for bob0, then wins over alice1 by acceptance order. carol5 is behind a gap.
	expected := []*tx.Transaction{newTx(alice, 0, 1), newTx(bob, 0, 1), newTx(bob, 1, 1), newTx(alice, 1, 1)}
	require.Len(t, txs, len(expected))
	for i, trx := range expected {
		assert.Equal(t, trx.Hash(), txs[i].Hash(), "at %v", i)
	}

	assert.Equal(t, 1, pool.Len())
	assert.NotNil(t, pool.Get(newTx(carol, 5, 1).Hash()))
}

func TestDrainMax(t *testing.T) {
	pool := New(DefaultOptions())
	for i := range uint64(5) {
		_, _, err := pool.Add(newTx(alice, i, 1), 0)
		require.NoError(t, err)
	}

	txs := pool.Drain(2, 0, nonces(nil))
	require.Len(t, txs, 2)
	assert.Equal(t, uint64(0), txs[0].Nonce())
	assert.Equal(t, uint64(1), txs[1].Nonce())
	assert.Equal(t, 3, pool.Len())

	txs = pool.Drain(10, 0, nonces(map[thor.Address]uint64{alice: 2}))
	assert.Len(t, txs, 3)
	assert.Equal(t, 0, pool.Len())
}

func TestDrainGasLimit(t *testing.T) {
	pool := New(DefaultOptions())
	big := tx.NewBuilder().Sender(alice).To(&carol).Gas(50000).Build()
	for _, trx := range []*tx.Transaction{big, newTx(alice, 1, 1), newTx(bob, 0, 1), newTx(bob, 1, 1)} {
		_, _, err := pool.Add(trx, 0)
		require.NoError(t, err)
	}

	// alice0 does not fit, alice1 stays behind it
	txs := pool.Drain(10, 45000, nonces(nil))
	require.Len(t, txs, 2)
	assert.Equal(t, bob, txs[0].Sender())
	assert.Equal(t, bob, txs[1].Sender())
	assert.Equal(t, 2, pool.Len())
	assert.NotNil(t, pool.Get(big.Hash()))
}

func TestDrainDiscardsStale(t *testing.T) {
	pool := New(DefaultOptions())
	for i := range uint64(3) {
		_, _, err := pool.Add(newTx(alice, i, 1), 0)
		require.NoError(t, err)
	}

	txs := pool.Drain(10, 0, nonces(map[thor.Address]uint64{alice: 2}))
	require.Len(t, txs, 1)
	assert.Equal(t, uint64(2), txs[0].Nonce())
	assert.Equal(t, 0, pool.Len())
}

func TestRemove(t *testing.T) {
	pool := New(DefaultOptions())
	tx0, tx1, tx2 := newTx(alice, 0, 1), newTx(alice, 1, 1), newTx(bob, 0, 1)
	for _, trx := range []*tx.Transaction{tx0, tx1, tx2} {
		_, _, err := pool.Add(trx, 0)
		require.NoError(t, err)
	}

	assert.True(t, pool.Remove(tx1.Hash()))
	assert.False(t, pool.Remove(tx1.Hash()))
	assert.Equal(t, 2, pool.Len())

	assert.Equal(t, 1, pool.RemoveSender(alice))
	assert.Equal(t, 0, pool.RemoveSender(alice))
	assert.Equal(t, tx.Transactions{tx2}, pool.Pending())

	pool.Clear()
	assert.Equal(t, 0, pool.Len())
	assert.Empty(t, pool.Pending())
}

func TestCopyIndependence(t *testing.T) {
	pool := New(DefaultOptions())
	_, _, err := pool.Add(newTx(alice, 0, 1), 0)
	require.NoError(t, err)

	cpy := pool.Copy()

	_, _, err = pool.Add(newTx(alice, 1, 1), 0)
	require.NoError(t, err)
	pool.Drain(10, 0, nonces(nil))
	assert.Equal(t, 0, pool.Len())

	assert.Equal(t, 1, cpy.Len())
	assert.NotNil(t, cpy.Get(newTx(alice, 0, 1).Hash()))

	_, _, err = cpy.Add(newTx(bob, 0, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, pool.Len())

	// acceptance sequence continues in the copy
	pending := cpy.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, alice, pending[0].Sender())
	assert.Equal(t, bob, pending[1].Sender())
}

func TestRequeueKeepsSlot(t *testing.T) {
	pool := New(DefaultOptions())
	for _, trx := range []*tx.Transaction{newTx(alice, 0, 1), newTx(bob, 0, 1)} {
		_, _, err := pool.Add(trx, 0)
		require.NoError(t, err)
	}

	txs := pool.Drain(1, 0, nonces(nil))
	require.Len(t, txs, 1)
	assert.Equal(t, alice, txs[0].Sender())

	_, _, err := pool.Add(newTx(carol, 0, 1), 0)
	require.NoError(t, err)
	require.NoError(t, pool.Requeue(txs[0], 0))

	pending := pool.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, alice, pending[0].Sender(), "requeued tx is back ahead of later ones")
	assert.Equal(t, bob, pending[1].Sender())
	assert.Equal(t, carol, pending[2].Sender())

	assert.True(t, IsKnownTx(pool.Requeue(txs[0], 0)))
	assert.True(t, pool.Remove(txs[0].Hash()))
	assert.True(t, IsTxRejected(pool.Requeue(txs[0], 1)), "nonce too low")
}
