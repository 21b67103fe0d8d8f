// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides the channel to wait for the next broadcast on.
type Waiter interface {
	C() <-chan struct{}
}

// Signal announces an event to every go routine waiting for it. A Waiter sees the
// broadcasts made after its creation; the ones made while it was not receiving are
// coalesced into one.
// The zero value is ready to use.
type Signal struct {
	mu sync.Mutex
	// closed and replaced on each broadcast
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all waiters.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	close(s.current())
	s.ch = make(chan struct{})
}

// NewWaiter creates a Waiter for the broadcasts to come.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	ref := s.current()
	s.mu.Unlock()

	return waiterFunc(func() (ch <-chan struct{}) {
		ch = ref
		select {
		case <-ref:
			// seen, wait for the next one
			s.mu.Lock()
			ref = s.current()
			s.mu.Unlock()
		default:
		}
		return
	})
}

type waiterFunc func() <-chan struct{}

func (w waiterFunc) C() <-chan struct{} {
	return w()
}
