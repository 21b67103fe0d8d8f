// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/devnode/co"
)

func fired(w co.Waiter) bool {
	select {
	case <-w.C():
		return true
	default:
		return false
	}
}

func TestSignalBroadcastBeforeWait(t *testing.T) {
	var sig co.Signal
	sig.Broadcast()

	var ws []co.Waiter
	for range 10 {
		ws = append(ws, sig.NewWaiter())
	}
	for _, w := range ws {
		assert.False(t, fired(w))
	}
}

func TestSignalBroadcastAfterWait(t *testing.T) {
	var sig co.Signal

	var ws []co.Waiter
	for range 10 {
		ws = append(ws, sig.NewWaiter())
	}

	sig.Broadcast()

	for _, w := range ws {
		<-w.C()
	}
}

func TestSignalCoalesce(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()

	sig.Broadcast()
	sig.Broadcast()
	assert.True(t, fired(w))
	assert.False(t, fired(w))

	sig.Broadcast()
	assert.True(t, fired(w))
}
