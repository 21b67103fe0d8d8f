// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/devnode/api/utils"
	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/chain"
	"github.com/vechain/devnode/node"
	"github.com/vechain/devnode/thor"
)

type Transactions struct {
	node *node.Node
}

func New(n *node.Node) *Transactions {
	return &Transactions{n}
}

func (t *Transactions) header(meta *chain.TxMeta) (*block.Header, error) {
	if meta == nil {
		return nil, nil
	}
	blk, err := t.node.BlockByHash(meta.BlockID)
	if err != nil {
		return nil, err
	}
	return blk.Header(), nil
}

func (t *Transactions) getTransactionByID(txID thor.Bytes32) (*Transaction, error) {
	trx, meta, err := t.node.Transaction(txID)
	if err != nil {
		if node.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	header, err := t.header(meta)
	if err != nil {
		return nil, err
	}
	return ConvertTransaction(trx, header), nil
}

func (t *Transactions) getTransactionReceiptByID(txID thor.Bytes32) (*Receipt, error) {
	receipt, meta, err := t.node.Receipt(txID)
	if err != nil {
		if node.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	header, err := t.header(meta)
	if err != nil {
		return nil, err
	}
	return ConvertReceipt(receipt, header), nil
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var body SendTx
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	trx, err := body.decode(t.node.Nonce)
	if err != nil {
		return utils.BadRequest(err)
	}

	res, err := t.node.Submit(trx)
	if err != nil {
		return utils.NodeError(err)
	}
	result := &SendResult{
		ID:       res.Hash,
		Status:   res.Status.String(),
		Position: res.Position,
	}
	if receipt := res.Receipt(); receipt != nil {
		result.Receipt = ConvertReceipt(receipt, res.Mined.Block.Header())
	}
	return utils.WriteJSON(w, result)
}

func (t *Transactions) handleGetTransactionByID(w http.ResponseWriter, req *http.Request) error {
	id, err := thor.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	trx, err := t.getTransactionByID(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, trx)
}

func (t *Transactions) handleGetTransactionReceiptByID(w http.ResponseWriter, req *http.Request) error {
	id, err := thor.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := t.getTransactionReceiptByID(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

// handleGetPending lists the pool. Mined txs are served by id, so pending=false is rejected.
func (t *Transactions) handleGetPending(w http.ResponseWriter, req *http.Request) error {
	if p := req.URL.Query().Get("pending"); p != "" && p != "true" {
		return utils.BadRequest(errors.WithMessage(errors.New("only pending=true is supported"), "pending"))
	}
	pending := t.node.PendingTransactions()
	txs := make([]*Transaction, 0, len(pending))
	for _, trx := range pending {
		txs = append(txs, ConvertTransaction(trx, nil))
	}
	return utils.WriteJSON(w, txs)
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetPending))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /transactions/{id}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionByID))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("GET /transactions/{id}/receipt").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionReceiptByID))
}
