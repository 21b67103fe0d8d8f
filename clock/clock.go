// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock maintains the logical time blocks are stamped with.
//
// The logical now is the wall time captured at start, advanced by a monotonic
// reference clock, plus a signed offset controlled by tests. A one-shot override
// and a fixed interval can replace it for the next blocks. Whatever the source,
// a block timestamp never falls below its parent's.
package clock

import (
	"math"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/pkg/errors"
)

// ErrOutOfRange is returned when a change would move the logical now past the int64 range.
var ErrOutOfRange = errors.New("time out of range")

// State is the restorable state of a Controller.
type State struct {
	Offset   int64   `json:"offset"`
	Next     *uint64 `json:"next,omitempty"`
	Interval *uint64 `json:"interval,omitempty"`
}

// Controller is the logical clock. It is safe for concurrent use.
type Controller struct {
	clock     mclock.Clock
	start     mclock.AbsTime
	startUnix int64

	lock     sync.Mutex
	offset   int64
	next     *uint64
	interval *uint64
}

// New creates a controller reading time from clock. startUnix is the unix time
// matching the current reading of clock.
func New(clock mclock.Clock, startUnix int64) *Controller {
	return &Controller{
		clock:     clock,
		start:     clock.Now(),
		startUnix: startUnix,
	}
}

// NewSystem creates a controller driven by the system clock.
func NewSystem() *Controller {
	return New(mclock.System{}, time.Now().Unix())
}

// Reference returns the monotonic clock the logical now advances with.
func (c *Controller) Reference() mclock.Clock {
	return c.clock
}

// reference returns the unix seconds of the reference clock, offset excluded.
func (c *Controller) reference() int64 {
	elapsed := time.Duration(c.clock.Now() - c.start)
	return c.startUnix + int64(elapsed/time.Second)
}

func (c *Controller) now() uint64 {
	if now := c.reference() + c.offset; now > 0 {
		return uint64(now)
	}
	return 0
}

// Now returns the logical unix time, ignoring override and interval.
func (c *Controller) Now() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now()
}

// Increase moves the clock forward by delta seconds and returns the new total offset.
// The clock is left unchanged if the logical now would overflow.
func (c *Controller) Increase(delta uint64) (int64, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	limit := int64(math.MaxInt64) - max(c.reference(), 0)
	if delta > uint64(limit) || c.offset > limit-int64(delta) {
		return 0, errors.WithMessagef(ErrOutOfRange, "increase by %v", delta)
	}
	c.offset += int64(delta)
	return c.offset, nil
}

// SetTime sets the logical now to ts and returns the signed difference to the previous now.
func (c *Controller) SetTime(ts uint64) (int64, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ts > math.MaxInt64 {
		return 0, errors.WithMessagef(ErrOutOfRange, "set to %v", ts)
	}
	diff := int64(ts) - int64(c.now())
	c.offset = int64(ts) - c.reference()
	return diff, nil
}

// SetNext sets the timestamp of exactly the next block.
func (c *Controller) SetNext(ts uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.next = &ts
}

// SetInterval makes each block timestamp its parent's plus seconds.
func (c *Controller) SetInterval(seconds uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.interval = &seconds
}

// RemoveInterval returns to the logical now. It returns whether an interval was set.
func (c *Controller) RemoveInterval() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	had := c.interval != nil
	c.interval = nil
	return had
}

func (c *Controller) peek(parent uint64) uint64 {
	var ts uint64
	switch {
	case c.next != nil:
		ts = *c.next
	case c.interval != nil:
		ts = parent + *c.interval
	default:
		ts = c.now()
	}
	if ts < parent {
		return parent
	}
	return ts
}

// Peek returns the timestamp the next block would get, without consuming the override.
func (c *Controller) Peek(parent uint64) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.peek(parent)
}

// Consume drops the one-shot override once a block stamped by Peek is committed,
// even if the stamp was clamped to the parent.
func (c *Controller) Consume() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.next = nil
}

// State returns a copy of the controller state.
func (c *Controller) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()

	return State{
		Offset:   c.offset,
		Next:     copyUint64(c.next),
		Interval: copyUint64(c.interval),
	}
}

// Restore replaces the controller state.
func (c *Controller) Restore(s State) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.offset = s.Offset
	c.next = copyUint64(s.Next)
	c.interval = copyUint64(s.Interval)
}

func copyUint64(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	cpy := *v
	return &cpy
}
