// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/devnode/api/utils"
	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/cache"
	"github.com/vechain/devnode/log"
	"github.com/vechain/devnode/node"
	"github.com/vechain/devnode/thor"
)

const renderedCacheSize = 512

var logger = log.WithContext("pkg", "blocks")

type cacheKey struct {
	id       thor.Bytes32
	expanded bool
}

type Blocks struct {
	node *node.Node
	// rendered blocks by id. An id commits to the whole block content,
	// so entries stay valid across reverts.
	rendered *cache.LRU
}

func New(n *node.Node) *Blocks {
	rendered, _ := cache.NewLRU(renderedCacheSize)
	return &Blocks{
		node:     n,
		rendered: rendered,
	}
}

func (b *Blocks) render(blk *block.Block, expanded bool) (any, error) {
	header := blk.Header()
	v, err := b.rendered.GetOrLoad(cacheKey{header.ID(), expanded}, func(any) (any, error) {
		summary := buildJSONBlockSummary(header)
		if expanded {
			return &JSONExpandedBlock{
				summary,
				buildJSONEmbeddedTxs(blk.Transactions(), blk.Receipts()),
			}, nil
		}
		return &JSONCollapsedBlock{
			summary,
			blk.Transactions().Hashes(),
		}, nil
	})
	if stats := b.rendered.Stats(); stats.Changed() {
		hit, miss := stats.Counts()
		logger.Debug("rendered block cache stats", "hit", hit, "miss", miss, "rate", stats.HitRate())
	}
	return v, err
}

func (b *Blocks) handleGetBlock(w http.ResponseWriter, req *http.Request) error {
	revision, err := utils.ParseRevision(mux.Vars(req)["revision"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "revision"))
	}
	expanded := req.URL.Query().Get("expanded")
	if expanded != "" && expanded != "false" && expanded != "true" {
		return utils.BadRequest(errors.WithMessage(errors.New("should be boolean"), "expanded"))
	}

	blk, err := utils.GetBlock(revision, b.node)
	if err != nil {
		if node.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}

	v, err := b.render(blk, expanded == "true")
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, v)
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/{revision}").
		Methods(http.MethodGet).
		Name("GET /blocks/{revision}").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBlock))
}
