// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/devnode/co"
)

func TestGoesWait(t *testing.T) {
	var goes co.Goes
	var counter atomic.Int32
	for range 10 {
		goes.Go(func(<-chan struct{}) {
			counter.Add(1)
		})
	}
	goes.Wait()
	assert.Equal(t, int32(10), counter.Load())
}

func TestGoesStop(t *testing.T) {
	var goes co.Goes
	for range 3 {
		goes.Go(func(stop <-chan struct{}) {
			<-stop
		})
	}

	select {
	case <-goes.Done():
		t.Fatal("done before stop")
	case <-time.After(10 * time.Millisecond):
	}

	goes.Stop()
	goes.Stop()
	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("not done after stop")
	}
}
