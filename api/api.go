// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/devnode/api/accounts"
	"github.com/vechain/devnode/api/blocks"
	"github.com/vechain/devnode/api/devnode"
	"github.com/vechain/devnode/api/events"
	"github.com/vechain/devnode/api/middleware"
	apinode "github.com/vechain/devnode/api/node"
	"github.com/vechain/devnode/api/subscriptions"
	"github.com/vechain/devnode/api/transactions"
	"github.com/vechain/devnode/log"
	"github.com/vechain/devnode/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	// LogsLimit caps the logs returned by one filter query, 1000 if zero.
	LogsLimit uint64
}

// New return api router
func New(n *node.Node, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(n).
		Mount(router, "/accounts")
	blocks.New(n).
		Mount(router, "/blocks")
	transactions.New(n).
		Mount(router, "/transactions")
	logsLimit := opts.LogsLimit
	if logsLimit == 0 {
		logsLimit = 1000
	}
	events.New(n, logsLimit).
		Mount(router, "/logs/event")
	devnode.New(n).
		Mount(router, "/devnode")
	apinode.New(n).
		Mount(router, "/node")
	subs := subscriptions.New(n, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(middleware.MetricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
	)(handler)

	reqLogger := opts.EnableReqLogger
	if reqLogger == nil {
		reqLogger = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, reqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
