// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devnode/api/transactions"
	"github.com/vechain/devnode/genesis"
	"github.com/vechain/devnode/node"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

var (
	alice = genesis.DevAccounts()[0].Address
	bob   = genesis.DevAccounts()[1].Address
)

func initTransactionServer(t *testing.T, autoMine bool) (*node.Node, *httptest.Server) {
	opts := node.DefaultOptions()
	opts.AutoMine = autoMine
	n, err := node.New(opts)
	require.NoError(t, err)
	t.Cleanup(n.Close)

	router := mux.NewRouter()
	transactions.New(n).Mount(router, "/transactions")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return n, ts
}

func transfer(from thor.Address, nonce uint64) *tx.Transaction {
	return tx.NewBuilder().
		Sender(from).
		Nonce(nonce).
		To(&bob).
		Value(uint256.NewInt(100)).
		Gas(thor.TxGas).
		Build()
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/x-www-form-urlencoded", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func rawOf(t *testing.T, trx *tx.Transaction) string {
	data, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)
	return hexutil.Encode(data)
}

func TestSendAutoMined(t *testing.T) {
	n, ts := initTransactionServer(t, true)
	trx := transfer(alice, 0)

	res, status := httpPost(t, ts.URL+"/transactions", &transactions.SendTx{Raw: rawOf(t, trx)})
	require.Equal(t, http.StatusOK, status, string(res))

	var result transactions.SendResult
	require.NoError(t, json.Unmarshal(res, &result))
	assert.Equal(t, trx.Hash(), result.ID)
	assert.Equal(t, "accepted", result.Status)
	require.NotNil(t, result.Receipt)
	assert.False(t, result.Receipt.Reverted)
	require.NotNil(t, result.Receipt.Meta)
	assert.Equal(t, uint32(1), result.Receipt.Meta.Number)

	t.Run("getTransaction", func(t *testing.T) {
		res, status := httpGet(t, ts.URL+"/transactions/"+trx.Hash().String())
		require.Equal(t, http.StatusOK, status)
		var got transactions.Transaction
		require.NoError(t, json.Unmarshal(res, &got))
		assert.Equal(t, trx.Hash(), got.ID)
		assert.Equal(t, alice, got.Origin)
		require.NotNil(t, got.Meta)
		assert.Equal(t, n.BestBlock().Header().ID(), got.Meta.ID)
	})

	t.Run("getReceipt", func(t *testing.T) {
		res, status := httpGet(t, ts.URL+"/transactions/"+trx.Hash().String()+"/receipt")
		require.Equal(t, http.StatusOK, status)
		var got transactions.Receipt
		require.NoError(t, json.Unmarshal(res, &got))
		assert.Equal(t, trx.Hash(), got.TxID)
		assert.Equal(t, thor.TxGas, got.GasUsed)
	})
}

func TestSendFields(t *testing.T) {
	n, ts := initTransactionServer(t, false)
	value := uint256.NewInt(5)

	res, status := httpPost(t, ts.URL+"/transactions", map[string]any{
		"origin": alice,
		"to":     bob,
		"value":  value.Hex(),
		"gas":    thor.TxGas,
	})
	require.Equal(t, http.StatusOK, status, string(res))
	var result transactions.SendResult
	require.NoError(t, json.Unmarshal(res, &result))
	assert.Nil(t, result.Receipt)

	pending := n.PendingTransactions()
	require.Len(t, pending, 1)
	assert.Equal(t, pending[0].Hash(), result.ID)
	assert.Equal(t, uint64(0), pending[0].Nonce())

	t.Run("getPendingTransaction", func(t *testing.T) {
		res, status := httpGet(t, ts.URL+"/transactions/"+result.ID.String())
		require.Equal(t, http.StatusOK, status)
		var got transactions.Transaction
		require.NoError(t, json.Unmarshal(res, &got))
		assert.Nil(t, got.Meta)
	})

	t.Run("listPending", func(t *testing.T) {
		res, status := httpGet(t, ts.URL+"/transactions?pending=true")
		require.Equal(t, http.StatusOK, status)
		var got []*transactions.Transaction
		require.NoError(t, json.Unmarshal(res, &got))
		require.Len(t, got, 1)
		assert.Equal(t, result.ID, got[0].ID)

		_, status = httpGet(t, ts.URL+"/transactions?pending=false")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("pendingHasNoReceipt", func(t *testing.T) {
		res, status := httpGet(t, ts.URL+"/transactions/"+result.ID.String()+"/receipt")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "null\n", string(res))
	})
}

func TestSendErrors(t *testing.T) {
	_, ts := initTransactionServer(t, false)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"badRaw", map[string]string{"raw": "0xzz"}, http.StatusBadRequest},
		{"unknownField", map[string]string{"foo": "bar"}, http.StatusBadRequest},
		{"noOrigin", map[string]any{"gas": thor.TxGas}, http.StatusBadRequest},
		{"strangerSender", &transactions.SendTx{Raw: rawOf(t, transfer(thor.BytesToAddress([]byte("stranger")), 0))}, http.StatusForbidden},
		{"accepted", &transactions.SendTx{Raw: rawOf(t, transfer(alice, 0))}, http.StatusOK},
		{"duplicate", &transactions.SendTx{Raw: rawOf(t, transfer(alice, 0))}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, status := httpPost(t, ts.URL+"/transactions", tt.body)
			assert.Equal(t, tt.status, status, string(res))
		})
	}
}

func TestGetUnknown(t *testing.T) {
	_, ts := initTransactionServer(t, true)

	res, status := httpGet(t, ts.URL+"/transactions/"+thor.Bytes32{1}.String())
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null\n", string(res))

	_, status = httpGet(t, ts.URL+"/transactions/0x01")
	assert.Equal(t, http.StatusBadRequest, status)
}
