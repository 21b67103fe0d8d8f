// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package devnode serves the testing controls of the node: mining, snapshots, time,
// state overrides, pool management and impersonation.
package devnode

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/devnode/api/utils"
	"github.com/vechain/devnode/node"
	"github.com/vechain/devnode/thor"
)

type Devnode struct {
	node *node.Node
}

func New(n *node.Node) *Devnode {
	return &Devnode{n}
}

// execute runs cmd and writes its result.
func (d *Devnode) execute(w http.ResponseWriter, cmd node.Command) error {
	res, err := d.node.Execute(cmd)
	if err != nil {
		if errors.Is(err, node.ErrSnapshotNotFound) {
			return utils.WriteJSON(w, &Result{false})
		}
		return utils.NodeError(err)
	}
	switch v := res.(type) {
	case []*node.MineResult:
		return utils.WriteJSON(w, &Result{convertMineResults(v)})
	case []byte:
		return utils.WriteJSON(w, &State{hexutil.Encode(v)})
	}
	return utils.WriteJSON(w, &Result{res})
}

// handle decodes the body into a V and runs the command built from it.
// An empty body leaves V zero.
func handle[V any](d *Devnode, build func(*V) (node.Command, error)) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body V
		if req.ContentLength != 0 {
			if err := utils.ParseJSON(req.Body, &body); err != nil {
				return utils.BadRequest(errors.WithMessage(err, "body"))
			}
		}
		cmd, err := build(&body)
		if err != nil {
			return utils.BadRequest(err)
		}
		return d.execute(w, cmd)
	}
}

func (d *Devnode) run(cmd node.Command) utils.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return d.execute(w, cmd)
	}
}

// maxMineBlocks bounds the blocks mined by one request.
const maxMineBlocks = 1024

func buildMine(r *MineRequest) (node.Command, error) {
	cmd := node.MineCmd{Blocks: 1, Interval: r.Interval}
	if r.Blocks != nil {
		cmd.Blocks = *r.Blocks
	}
	if cmd.Blocks > maxMineBlocks {
		return nil, errors.Errorf("blocks: exceeds %v", maxMineBlocks)
	}
	return cmd, nil
}

func buildBalance(r *BalanceRequest) (node.Command, error) {
	if r.Balance == nil {
		return nil, errors.New("balance: required")
	}
	b := (*big.Int)(r.Balance)
	balance, overflow := uint256.FromBig(b)
	if overflow || b.Sign() < 0 {
		return nil, errors.New("balance: out of range")
	}
	return node.SetBalanceCmd{Address: r.Address, Balance: balance}, nil
}

func buildCode(r *CodeRequest) (node.Command, error) {
	code, err := hexutil.Decode(r.Code)
	if err != nil {
		return nil, errors.WithMessage(err, "code")
	}
	return node.SetCodeCmd{Address: r.Address, Code: code}, nil
}

func buildChainID(r *ChainIDRequest) (node.Command, error) {
	if r.ChainID == 0 {
		return nil, errors.New("chainId: must not be 0")
	}
	return node.SetChainIDCmd{ChainID: uint64(r.ChainID)}, nil
}

func buildLoad(r *State) (node.Command, error) {
	data, err := hexutil.Decode(r.State)
	if err != nil {
		return nil, errors.WithMessage(err, "state")
	}
	return node.LoadStateCmd{Data: data}, nil
}

func (d *Devnode) handleDropTransaction(w http.ResponseWriter, req *http.Request) error {
	hash, err := thor.ParseBytes32(mux.Vars(req)["hash"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "hash"))
	}
	return d.execute(w, node.DropTransactionCmd{Hash: hash})
}

func (d *Devnode) handleRemovePoolTransactions(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return d.execute(w, node.RemovePoolTransactionsCmd{Address: addr})
}

func (d *Devnode) handleStopImpersonating(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return d.execute(w, node.StopImpersonatingCmd{Address: addr})
}

func (d *Devnode) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	route := func(method, path string, f utils.HandlerFunc) {
		sub.Path(path).
			Methods(method).
			Name(method + " " + pathPrefix + path).
			HandlerFunc(utils.WrapHandlerFunc(f))
	}

	route(http.MethodPost, "/mine", handle(d, buildMine))
	route(http.MethodPost, "/snapshot", d.run(node.SnapshotCmd{}))
	route(http.MethodPost, "/revert", handle(d, func(r *RevertRequest) (node.Command, error) {
		return node.RevertCmd{ID: r.ID}, nil
	}))

	route(http.MethodGet, "/time", d.run(node.CurrentTimestampCmd{}))
	route(http.MethodPost, "/time/increase", handle(d, func(r *SecondsRequest) (node.Command, error) {
		return node.IncreaseTimeCmd{Delta: r.Seconds}, nil
	}))
	route(http.MethodPost, "/time/set", handle(d, func(r *TimestampRequest) (node.Command, error) {
		return node.SetTimeCmd{Timestamp: r.Timestamp}, nil
	}))
	route(http.MethodPost, "/time/next", handle(d, func(r *TimestampRequest) (node.Command, error) {
		return node.SetNextBlockTimestampCmd{Timestamp: r.Timestamp}, nil
	}))
	route(http.MethodPost, "/time/interval", handle(d, func(r *SecondsRequest) (node.Command, error) {
		return node.SetBlockTimestampIntervalCmd{Seconds: r.Seconds}, nil
	}))
	route(http.MethodDelete, "/time/interval", d.run(node.RemoveBlockTimestampIntervalCmd{}))

	route(http.MethodPost, "/nonce", handle(d, func(r *NonceRequest) (node.Command, error) {
		return node.SetNonceCmd{Address: r.Address, Nonce: r.Nonce}, nil
	}))
	route(http.MethodPost, "/balance", handle(d, buildBalance))
	route(http.MethodPost, "/code", handle(d, buildCode))
	route(http.MethodPost, "/storage", handle(d, func(r *StorageRequest) (node.Command, error) {
		return node.SetStorageAtCmd{Address: r.Address, Key: r.Key, Value: r.Value}, nil
	}))

	route(http.MethodGet, "/automine", d.run(node.GetAutoMineCmd{}))
	route(http.MethodPost, "/automine", handle(d, func(r *EnabledRequest) (node.Command, error) {
		return node.SetAutoMineCmd{Enabled: r.Enabled}, nil
	}))
	route(http.MethodGet, "/interval-mining", d.run(node.GetIntervalMiningCmd{}))
	route(http.MethodPost, "/interval-mining", handle(d, func(r *SecondsRequest) (node.Command, error) {
		return node.SetIntervalMiningCmd{Seconds: r.Seconds}, nil
	}))
	route(http.MethodPost, "/chainid", handle(d, buildChainID))

	route(http.MethodPost, "/impersonate", handle(d, func(r *AddressRequest) (node.Command, error) {
		return node.ImpersonateCmd{Address: r.Address}, nil
	}))
	route(http.MethodPost, "/impersonate/auto", handle(d, func(r *EnabledRequest) (node.Command, error) {
		return node.SetAutoImpersonateCmd{Enabled: r.Enabled}, nil
	}))
	route(http.MethodDelete, "/impersonate/{address}", d.handleStopImpersonating)

	route(http.MethodPost, "/reset", d.run(node.ResetCmd{}))
	route(http.MethodPost, "/dump", d.run(node.DumpStateCmd{}))
	route(http.MethodPost, "/load", handle(d, buildLoad))

	route(http.MethodDelete, "/txpool", d.run(node.DropAllTransactionsCmd{}))
	route(http.MethodDelete, "/txpool/sender/{address}", d.handleRemovePoolTransactions)
	route(http.MethodDelete, "/txpool/{hash}", d.handleDropTransaction)
}
