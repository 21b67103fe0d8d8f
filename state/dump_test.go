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

func TestDumpLoad(t *testing.T) {
	src := New()
	diff := &Diff{}
	diff.SetBalance(addr1, uint256.NewInt(1000))
	diff.SetNonce(addr1, 7)
	diff.SetCode(addr2, []byte{0x60, 0x01})
	diff.SetStorage(addr2, key1, val1)
	require.NoError(t, src.Apply(diff))

	data, err := src.Dump()
	require.NoError(t, err)

	accounts, err := DecodeDump(data)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	dst := New()
	pre := &Diff{}
	pre.SetNonce(addr1, 20)
	pre.SetStorage(addr2, key2, val2)
	pre.SetBalance(thor.BytesToAddress([]byte("other")), uint256.NewInt(3))
	require.NoError(t, dst.Apply(pre))

	require.NoError(t, dst.Apply(dst.LoadDiff(accounts)))

	assert.Equal(t, uint256.NewInt(1000), dst.Balance(addr1))
	assert.Equal(t, uint64(7), dst.Nonce(addr1))
	assert.Equal(t, []byte{0x60, 0x01}, dst.Code(addr2))
	assert.Equal(t, val1, dst.Storage(addr2, key1))
	assert.Equal(t, thor.Bytes32{}, dst.Storage(addr2, key2))
	assert.True(t, dst.Exists(thor.BytesToAddress([]byte("other"))))
	assert.Equal(t, 3, dst.Len())
}

func TestDecodeDumpErrors(t *testing.T) {
	_, err := DecodeDump(nil)
	assert.Error(t, err)

	_, err = DecodeDump([]byte{9, 1, 2})
	assert.ErrorContains(t, err, "unsupported dump version")

	_, err = DecodeDump([]byte{dumpVersion, 0xff, 0xff})
	assert.Error(t, err)
}
