// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vechain/devnode/api/utils"
	"github.com/vechain/devnode/log"
	"github.com/vechain/devnode/node"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 7) / 10
	// events buffered per connection before the feed blocks
	queueSize = 64
)

type Subscriptions struct {
	node     *node.Node
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(n *node.Node, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		node: n,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") ||
					slices.Contains(allowedOrigins, strings.ToLower(origin))
			},
		},
		done: make(chan struct{}),
	}
}

// serve upgrades the connection and writes every event received from subscribe
// until the client goes away, the node closes or Close is called.
func serve[T any](s *Subscriptions, w http.ResponseWriter, req *http.Request, subscribe func(chan T) event.Subscription, convert func(T) any) error {
	// subscribed before the handshake completes, so no event after it is missed
	ch := make(chan T, queueSize)
	sub := subscribe(ch)
	defer sub.Unsubscribe()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has replied
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case v := <-ch:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(convert(v)); err != nil {
				logger.Debug("write failed", "err", err)
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-sub.Err():
			return nil
		case <-closed:
			return nil
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return nil
		}
	}
}

func (s *Subscriptions) handleSubscribeBlocks(w http.ResponseWriter, req *http.Request) error {
	return serve(s, w, req, s.node.SubscribeBlocks, func(ev *node.BlockEvent) any {
		return convertBlockEvent(ev)
	})
}

func (s *Subscriptions) handleSubscribeTxPool(w http.ResponseWriter, req *http.Request) error {
	return serve(s, w, req, s.node.SubscribeTxEvents, func(ev *node.TxEvent) any {
		return convertTxEvent(ev)
	})
}

// Close ends all the streams and waits for them.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/block").
		Methods(http.MethodGet).
		Name("WS /subscriptions/block").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeBlocks))
	sub.Path("/txpool").
		Methods(http.MethodGet).
		Name("WS /subscriptions/txpool").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeTxPool))
}
