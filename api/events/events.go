// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/devnode/api/utils"
	"github.com/vechain/devnode/node"
)

type Events struct {
	node  *node.Node
	limit uint64
}

func New(n *node.Node, logsLimit uint64) *Events {
	return &Events{
		n,
		logsLimit,
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := filter.Options.Validate(e.limit); err != nil {
		return utils.Forbidden(err)
	}
	if err := filter.Range.Validate(); err != nil {
		return utils.BadRequest(err)
	}
	if filter.Order != "" && filter.Order != ASC && filter.Order != DESC {
		return utils.BadRequest(fmt.Errorf("order must be 'asc' or 'desc', got '%s'", filter.Order))
	}
	// reject null element in CriteriaSet, {} will be unmarshaled to default value and matches all
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if filter.Options == nil {
		filter.Options = &Options{}
	}
	if filter.Options.Limit == nil {
		// one more than allowed, to detect whether there are more logs than the limit
		limit := e.limit + 1
		filter.Options.Limit = &limit
	}
	if *filter.Options.Limit == 0 {
		return utils.WriteJSON(w, []*FilteredEvent{})
	}

	logs, err := e.node.FilterLogs(req.Context(), convertEventFilter(&filter))
	if err != nil {
		return err
	}
	if len(logs) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}

	fes := make([]*FilteredEvent, len(logs))
	for i, log := range logs {
		fes[i] = convertEvent(log, filter.Options.IncludeIndexes)
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
