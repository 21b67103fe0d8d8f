// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devnode/thor"
)

func TestExecute(t *testing.T) {
	n, _ := newNode(t, manual)
	key := thor.BytesToBytes32([]byte{1})

	tests := []struct {
		cmd      Command
		expected any
	}{
		{SnapshotCmd{}, uint64(0)},
		{SetBalanceCmd{Address: stranger, Balance: uint256.NewInt(9)}, nil},
		{SetNonceCmd{Address: stranger, Nonce: 4}, nil},
		{SetCodeCmd{Address: stranger, Code: []byte{1}}, nil},
		{SetStorageAtCmd{Address: stranger, Key: key, Value: key}, nil},
		{IncreaseTimeCmd{Delta: 10}, int64(10)},
		{SetTimeCmd{Timestamp: startTime + 20}, int64(10)},
		{CurrentTimestampCmd{}, uint64(startTime + 20)},
		{SetNextBlockTimestampCmd{Timestamp: startTime + 30}, nil},
		{SetBlockTimestampIntervalCmd{Seconds: 5}, nil},
		{RemoveBlockTimestampIntervalCmd{}, true},
		{SetAutoMineCmd{Enabled: true}, nil},
		{GetAutoMineCmd{}, true},
		{SetAutoMineCmd{Enabled: false}, nil},
		{ImpersonateCmd{Address: stranger}, nil},
		{StopImpersonatingCmd{Address: stranger}, nil},
		{SetAutoImpersonateCmd{Enabled: false}, nil},
		{SetChainIDCmd{ChainID: 5}, nil},
		{DropTransactionCmd{Hash: key}, false},
		{DropAllTransactionsCmd{}, nil},
		{RemovePoolTransactionsCmd{Address: alice}, 0},
		{RevertCmd{ID: 0}, true},
	}
	for _, tt := range tests {
		t.Run(CommandName(tt.cmd), func(t *testing.T) {
			res, err := n.Execute(tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res)
		})
	}

	// the revert undid the state controls, the chain id is kept
	assert.True(t, n.Balance(stranger).IsZero())
	assert.Equal(t, uint64(0), n.Nonce(stranger))
	assert.Equal(t, uint64(5), n.ChainID())
}

func TestExecuteSubmitAndMine(t *testing.T) {
	n, _ := newNode(t, manual)

	res, err := n.Execute(SubmitCmd{Tx: transfer(alice, 0, bob, 1)})
	require.NoError(t, err)
	assert.Equal(t, 0, res.(*SubmitResult).Position)

	res, err = n.Execute(MineCmd{Blocks: 2})
	require.NoError(t, err)
	mined := res.([]*MineResult)
	require.Len(t, mined, 2)
	assert.Len(t, mined[0].Block.Transactions(), 1)
	assert.Empty(t, mined[1].Block.Transactions())

	_, err = n.Execute(SubmitCmd{})
	assert.Error(t, err)
	_, err = n.Execute(nil)
	assert.Error(t, err)
}

func TestExecuteRevertUnknown(t *testing.T) {
	n, _ := newNode(t)

	res, err := n.Execute(RevertCmd{ID: 3})
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.True(t, IsRejected(err))
	assert.Equal(t, false, res)
}

func TestExecuteRejectsPointerCommands(t *testing.T) {
	n, _ := newNode(t, manual)

	for _, cmd := range []Command{&MineCmd{Blocks: 1}, &SnapshotCmd{}, (*RevertCmd)(nil)} {
		res, err := n.Execute(cmd)
		assert.ErrorIs(t, err, ErrUnknownCommand, "%T", cmd)
		assert.True(t, IsRejected(err))
		assert.Nil(t, res)
	}
	assert.Equal(t, uint32(0), n.BestBlock().Header().Number())
	assert.Empty(t, n.SnapshotIDs())
}

func TestExecuteTimeOutOfRange(t *testing.T) {
	n, _ := newNode(t)

	_, err := n.Execute(IncreaseTimeCmd{Delta: math.MaxUint64})
	assert.True(t, IsRejected(err))
	_, err = n.Execute(SetTimeCmd{Timestamp: math.MaxInt64 + 1})
	assert.True(t, IsRejected(err))
	assert.Equal(t, uint64(startTime), n.CurrentTimestamp())
}

func TestExecuteDumpLoadReset(t *testing.T) {
	n, _ := newNode(t)
	mustSubmit(t, n, transfer(alice, 0, stranger, 3))

	res, err := n.Execute(DumpStateCmd{})
	require.NoError(t, err)
	data := res.([]byte)

	_, err = n.Execute(ResetCmd{})
	require.NoError(t, err)
	assert.True(t, n.Balance(stranger).IsZero())

	_, err = n.Execute(LoadStateCmd{Data: data})
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(3), n.Balance(stranger))
}
