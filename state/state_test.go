// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devnode/thor"
)

var (
	addr1 = thor.BytesToAddress([]byte("account1"))
	addr2 = thor.BytesToAddress([]byte("account2"))
	key1  = thor.BytesToBytes32([]byte("key1"))
	key2  = thor.BytesToBytes32([]byte("key2"))
	val1  = thor.BytesToBytes32([]byte("value1"))
	val2  = thor.BytesToBytes32([]byte("value2"))
)

func TestStoreAbsentAccount(t *testing.T) {
	st := New()

	acc := st.Account(addr1)
	assert.True(t, acc.IsEmpty())
	assert.Equal(t, addr1, acc.Address)
	assert.Equal(t, thor.EmptyCodeHash, acc.CodeHash)
	assert.False(t, st.Exists(addr1))
	assert.True(t, st.Balance(addr1).IsZero())
	assert.Equal(t, uint64(0), st.Nonce(addr1))
	assert.Empty(t, st.Code(addr1))
	assert.Equal(t, thor.Bytes32{}, st.Storage(addr1, key1))
	assert.Equal(t, 0, st.Len())
}

func TestStoreApply(t *testing.T) {
	st := New()

	diff := &Diff{}
	diff.SetBalance(addr1, uint256.NewInt(100))
	diff.SetNonce(addr1, 3)
	diff.SetCode(addr2, []byte{0x60, 0x00})
	diff.SetStorage(addr2, key1, val1)
	diff.SetStorage(addr2, key2, val2)
	require.NoError(t, st.Apply(diff))

	assert.Equal(t, uint256.NewInt(100), st.Balance(addr1))
	assert.Equal(t, uint64(3), st.Nonce(addr1))
	assert.Equal(t, []byte{0x60, 0x00}, st.Code(addr2))
	assert.Equal(t, thor.Keccak256([]byte{0x60, 0x00}), st.CodeHash(addr2))
	assert.Equal(t, val1, st.Storage(addr2, key1))
	assert.Equal(t, val2, st.Storage(addr2, key2))
	assert.True(t, st.Account(addr2).HasCode())
	assert.Equal(t, 2, st.Len())

	// zero value clears the slot
	diff = &Diff{}
	diff.SetStorage(addr2, key1, thor.Bytes32{})
	require.NoError(t, st.Apply(diff))
	assert.Equal(t, thor.Bytes32{}, st.Storage(addr2, key1))

	var keys []thor.Bytes32
	st.ForEachStorage(addr2, func(key, _ thor.Bytes32) bool {
		keys = append(keys, key)
		return true
	})
	assert.Equal(t, []thor.Bytes32{key2}, keys)
}

func TestStoreApplyIsAtomic(t *testing.T) {
	st := New()
	setup := &Diff{}
	setup.SetBalance(addr1, uint256.NewInt(10))
	setup.SetNonce(addr1, 5)
	setup.SetCode(addr2, []byte{1})
	require.NoError(t, st.Apply(setup))

	tests := []struct {
		name    string
		build   func(d *Diff)
		errType bool
	}{
		{"nonce decrease", func(d *Diff) {
			d.SetBalance(addr1, uint256.NewInt(99))
			d.SetNonce(addr1, 4)
		}, true},
		{"code replacement", func(d *Diff) {
			d.SetStorage(addr2, key1, val1)
			d.SetCode(addr2, []byte{2})
		}, true},
		{"conflicting balance", func(d *Diff) {
			d.SetBalance(addr1, uint256.NewInt(1))
			d.SetBalance(addr1, uint256.NewInt(2))
		}, false},
		{"conflicting storage", func(d *Diff) {
			d.SetStorage(addr1, key1, val1)
			d.SetStorage(addr1, key1, val2)
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := &Diff{}
			tt.build(diff)
			err := st.Apply(diff)
			require.Error(t, err)
			assert.Equal(t, tt.errType, IsInvariantError(err))

			assert.Equal(t, uint256.NewInt(10), st.Balance(addr1))
			assert.Equal(t, uint64(5), st.Nonce(addr1))
			assert.Equal(t, []byte{1}, st.Code(addr2))
			assert.Equal(t, thor.Bytes32{}, st.Storage(addr2, key1))
			assert.Equal(t, thor.Bytes32{}, st.Storage(addr1, key1))
		})
	}
}

func TestStoreOverrides(t *testing.T) {
	st := New()
	diff := &Diff{}
	diff.SetNonce(addr1, 9)
	diff.SetCode(addr1, []byte{1})
	require.NoError(t, st.Apply(diff))

	diff = &Diff{}
	diff.OverrideNonce(addr1, 2)
	diff.OverrideCode(addr1, []byte{2, 3})
	require.NoError(t, st.Apply(diff))
	assert.Equal(t, uint64(2), st.Nonce(addr1))
	assert.Equal(t, []byte{2, 3}, st.Code(addr1))

	// same code again is not a replacement
	diff = &Diff{}
	diff.SetCode(addr1, []byte{2, 3})
	assert.NoError(t, st.Apply(diff))

	diff = &Diff{}
	diff.OverrideCode(addr1, nil)
	require.NoError(t, st.Apply(diff))
	assert.False(t, st.Account(addr1).HasCode())
	assert.Equal(t, thor.EmptyCodeHash, st.CodeHash(addr1))
}

func TestStoreCopyIndependence(t *testing.T) {
	st := New()
	diff := &Diff{}
	diff.SetBalance(addr1, uint256.NewInt(1))
	diff.SetStorage(addr1, key1, val1)
	require.NoError(t, st.Apply(diff))

	cpy := st.Copy()

	// writes to the origin are not visible in the copy
	diff = &Diff{}
	diff.SetBalance(addr1, uint256.NewInt(2))
	diff.SetStorage(addr1, key1, val2)
	diff.SetBalance(addr2, uint256.NewInt(7))
	require.NoError(t, st.Apply(diff))

	assert.Equal(t, uint256.NewInt(1), cpy.Balance(addr1))
	assert.Equal(t, val1, cpy.Storage(addr1, key1))
	assert.False(t, cpy.Exists(addr2))

	// and the other way around
	diff = &Diff{}
	diff.SetStorage(addr1, key2, val2)
	require.NoError(t, cpy.Apply(diff))

	assert.Equal(t, thor.Bytes32{}, st.Storage(addr1, key2))
	assert.Equal(t, val2, st.Storage(addr1, key1))
	assert.Equal(t, uint256.NewInt(2), st.Balance(addr1))
}

func TestStoreReturnsCopies(t *testing.T) {
	st := New()
	diff := &Diff{}
	diff.SetBalance(addr1, uint256.NewInt(5))
	diff.SetCode(addr1, []byte{1, 2})
	require.NoError(t, st.Apply(diff))

	st.Balance(addr1).SetUint64(100)
	st.Code(addr1)[0] = 9
	acc := st.Account(addr1)
	acc.Balance.SetUint64(200)

	assert.Equal(t, uint256.NewInt(5), st.Balance(addr1))
	assert.Equal(t, []byte{1, 2}, st.Code(addr1))
}

func TestStoreForEach(t *testing.T) {
	st := New()
	diff := &Diff{}
	diff.SetBalance(addr2, uint256.NewInt(2))
	diff.SetBalance(addr1, uint256.NewInt(1))
	require.NoError(t, st.Apply(diff))

	var addrs []thor.Address
	st.ForEach(func(acc Account) bool {
		addrs = append(addrs, acc.Address)
		return true
	})
	assert.Equal(t, []thor.Address{addr1, addr2}, addrs)

	count := 0
	st.ForEach(func(Account) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}
