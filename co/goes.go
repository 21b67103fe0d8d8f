// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Goes runs go routines sharing one stop channel and waits for them.
// The zero value is ready to use.
type Goes struct {
	wg       sync.WaitGroup
	once     sync.Once
	stopOnce sync.Once
	stop     chan struct{}
}

func (g *Goes) init() {
	g.once.Do(func() {
		g.stop = make(chan struct{})
	})
}

// Go runs f in a go routine. f should return once stop is closed.
func (g *Goes) Go(f func(stop <-chan struct{})) {
	g.init()
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f(g.stop)
	}()
}

// Stop closes the stop channel. It may be called more than once.
func (g *Goes) Stop() {
	g.init()
	g.stopOnce.Do(func() {
		close(g.stop)
	})
}

// Wait waits for all go routines started by Go.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done returns a channel closed once all go routines started by Go have returned.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
