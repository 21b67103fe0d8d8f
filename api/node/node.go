// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/devnode/api/utils"
	"github.com/vechain/devnode/node"
	"github.com/vechain/devnode/thor"
)

// Status describes the node and its head.
type Status struct {
	GenesisID        thor.Bytes32   `json:"genesisID"`
	ChainID          uint64         `json:"chainId"`
	BestBlockID      thor.Bytes32   `json:"bestBlockID"`
	BestBlockNumber  uint32         `json:"bestBlockNumber"`
	CurrentTimestamp uint64         `json:"currentTimestamp"`
	GasLimit         uint64         `json:"gasLimit"`
	AutoMine         bool           `json:"autoMine"`
	PendingTxs       int            `json:"pendingTxs"`
	Snapshots        []uint64       `json:"snapshots"`
	DevAccounts      []thor.Address `json:"devAccounts"`
}

type Node struct {
	node *node.Node
}

func New(n *node.Node) *Node {
	return &Node{n}
}

func (n *Node) handleStatus(w http.ResponseWriter, _ *http.Request) error {
	best := n.node.BestBlock().Header()
	return utils.WriteJSON(w, &Status{
		GenesisID:        n.node.GenesisID(),
		ChainID:          n.node.ChainID(),
		BestBlockID:      best.ID(),
		BestBlockNumber:  best.Number(),
		CurrentTimestamp: n.node.CurrentTimestamp(),
		GasLimit:         n.node.GasLimit(),
		AutoMine:         n.node.AutoMine(),
		PendingTxs:       len(n.node.PendingTransactions()),
		Snapshots:        n.node.SnapshotIDs(),
		DevAccounts:      n.node.DevAccounts(),
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /node/status").
		HandlerFunc(utils.WrapHandlerFunc(n.handleStatus))
}
