// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"math"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const start = 1_700_000_000

func newController() (*Controller, *mclock.Simulated) {
	sim := new(mclock.Simulated)
	return New(sim, start), sim
}

// stamp stamps a block on top of parent the way mining does.
func stamp(c *Controller, parent uint64) uint64 {
	ts := c.Peek(parent)
	c.Consume()
	return ts
}

func TestNowFollowsReferenceClock(t *testing.T) {
	c, sim := newController()
	assert.Equal(t, uint64(start), c.Now())

	sim.Run(1500 * time.Millisecond)
	assert.Equal(t, uint64(start+1), c.Now())
	assert.Equal(t, uint64(start+1), stamp(c, 0))
}

func TestIncrease(t *testing.T) {
	c, _ := newController()

	offset, err := c.Increase(100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), offset)
	offset, err = c.Increase(50)
	require.NoError(t, err)
	assert.Equal(t, int64(150), offset)
	assert.Equal(t, uint64(start+150), c.Peek(start))
}

func TestIncreaseOverflow(t *testing.T) {
	c, _ := newController()

	_, err := c.Increase(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = c.Increase(math.MaxInt64)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, int64(0), c.State().Offset, "rejected change leaves the clock")

	limit := uint64(math.MaxInt64 - start)
	_, err = c.Increase(limit)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxInt64), c.Now())
	_, err = c.Increase(1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, uint64(math.MaxInt64), c.Now())
}

func TestSetTime(t *testing.T) {
	c, sim := newController()

	diff, err := c.SetTime(start - 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(-1000), diff)
	assert.Equal(t, uint64(start-1000), c.Now())

	sim.Run(10 * time.Second)
	assert.Equal(t, uint64(start-990), c.Now())

	diff, err = c.SetTime(start)
	require.NoError(t, err)
	assert.Equal(t, int64(990), diff)
	assert.Equal(t, int64(-10), c.State().Offset)

	_, err = c.SetTime(math.MaxInt64 + 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, int64(-10), c.State().Offset)

	diff, err = c.SetTime(math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-start), diff)
	assert.Equal(t, uint64(math.MaxInt64), c.Now())
}

func TestNextOverride(t *testing.T) {
	c, _ := newController()

	c.SetNext(start + 500)
	assert.Equal(t, uint64(start+500), c.Peek(start))
	// peek does not consume
	assert.Equal(t, uint64(start+500), c.Peek(start))

	assert.Equal(t, uint64(start+500), stamp(c, start))
	// the second block is back to the reference clock
	assert.Equal(t, uint64(start+500), stamp(c, start+500))
	assert.Equal(t, uint64(start+500), stamp(c, start+500))
	assert.Nil(t, c.State().Next)
}

func TestPeekKeepsOverrideUntilConsumed(t *testing.T) {
	c, _ := newController()

	c.SetNext(start + 500)
	assert.Equal(t, uint64(start+500), c.Peek(start))
	// a block that is never committed leaves the override in place
	assert.Equal(t, uint64(start+500), c.Peek(start))
	c.Consume()
	assert.Nil(t, c.State().Next)
	assert.Equal(t, uint64(start), c.Peek(start))
}

func TestClampToParent(t *testing.T) {
	c, _ := newController()

	// an override below the parent is clamped and still consumed
	c.SetNext(start - 100)
	assert.Equal(t, uint64(start+50), stamp(c, start+50))
	assert.Nil(t, c.State().Next)

	// the reference clock is clamped as well
	assert.Equal(t, uint64(start+50), stamp(c, start+50))

	_, err := c.SetTime(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(start), stamp(c, start))
}

func TestInterval(t *testing.T) {
	c, sim := newController()

	c.SetInterval(12)
	parent := uint64(start)
	for range 3 {
		sim.Run(time.Hour)
		ts := stamp(c, parent)
		assert.Equal(t, parent+12, ts)
		parent = ts
	}

	// override beats interval for one block
	c.SetNext(parent + 100)
	assert.Equal(t, parent+100, stamp(c, parent))
	assert.Equal(t, parent+112, stamp(c, parent+100))

	assert.True(t, c.RemoveInterval())
	assert.False(t, c.RemoveInterval())
	assert.Equal(t, uint64(start+3*3600), stamp(c, 0))
}

func TestStateRestore(t *testing.T) {
	c, _ := newController()
	_, err := c.Increase(30)
	require.NoError(t, err)
	c.SetNext(start + 7)
	c.SetInterval(5)

	saved := c.State()

	_, err = c.Increase(1000)
	require.NoError(t, err)
	stamp(c, 0)
	c.RemoveInterval()

	c.Restore(saved)
	assert.Equal(t, saved, c.State())
	assert.Equal(t, uint64(start+7), stamp(c, 0))
	assert.Equal(t, uint64(start+5), stamp(c, start))

	// the returned state does not alias the controller
	s := c.State()
	*s.Interval = 99
	assert.Equal(t, uint64(start+5), c.Peek(start))
}
