// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/devnode/api/utils"
	"github.com/vechain/devnode/node"
	"github.com/vechain/devnode/thor"
)

type Accounts struct {
	node *node.Node
}

func New(n *node.Node) *Accounts {
	return &Accounts{n}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	acc := a.node.Account(addr)
	return utils.WriteJSON(w, &Account{
		Balance:  math.HexOrDecimal256(*acc.Balance.ToBig()),
		Nonce:    acc.Nonce,
		HasCode:  acc.HasCode(),
		CodeHash: acc.CodeHash,
	})
}

func (a *Accounts) handleGetCode(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return utils.WriteJSON(w, map[string]string{"code": hexutil.Encode(a.node.Code(addr))})
}

func (a *Accounts) handleGetCodeByHash(w http.ResponseWriter, req *http.Request) error {
	hash, err := thor.ParseBytes32(mux.Vars(req)["hash"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "hash"))
	}
	code, ok := a.node.CodeByHash(hash)
	if !ok {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, map[string]string{"code": hexutil.Encode(code)})
}

func (a *Accounts) handleGetStorage(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	key, err := thor.ParseBytes32(mux.Vars(req)["key"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "key"))
	}
	return utils.WriteJSON(w, map[string]string{"value": a.node.StorageAt(addr, key).String()})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/code/{hash}").
		Methods(http.MethodGet).
		Name("GET /accounts/code/{hash}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetCodeByHash))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/code").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/code").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetCode))
	sub.Path("/{address}/storage/{key}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/storage/{key}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStorage))
}
