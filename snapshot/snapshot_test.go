// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTakeIsSequential(t *testing.T) {
	m := New[string]()

	assert.Equal(t, uint64(0), m.Take("a"))
	assert.Equal(t, uint64(1), m.Take("b"))
	assert.Equal(t, uint64(2), m.Take("c"))
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []uint64{0, 1, 2}, m.IDs())
}

func TestRevert(t *testing.T) {
	m := New[string]()
	for _, s := range []string{"a", "b", "c", "d"} {
		m.Take(s)
	}

	capture, ok := m.Revert(1)
	assert.True(t, ok)
	assert.Equal(t, "b", capture)
	assert.Equal(t, []uint64{0}, m.IDs())

	// reverted and discarded ids are gone
	for _, id := range []uint64{1, 2, 3} {
		_, ok = m.Revert(id)
		assert.False(t, ok)
		assert.False(t, m.Has(id))
	}
	assert.Equal(t, []uint64{0}, m.IDs())

	// ids are never reused
	assert.Equal(t, uint64(4), m.Take("e"))
	assert.Equal(t, []uint64{0, 4}, m.IDs())

	capture, ok = m.Revert(0)
	assert.True(t, ok)
	assert.Equal(t, "a", capture)
	assert.Equal(t, 0, m.Len())
}

func TestRevertUnknown(t *testing.T) {
	m := New[int]()
	m.Take(10)

	capture, ok := m.Revert(5)
	assert.False(t, ok)
	assert.Equal(t, 0, capture)
	assert.Equal(t, 1, m.Len())
}

func TestClear(t *testing.T) {
	m := New[int]()
	m.Take(1)
	m.Take(2)
	m.Clear()

	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.IDs())
	assert.Equal(t, uint64(2), m.Take(3))
}

func TestIDsStrictlyIncrease(t *testing.T) {
	m := New[int]()
	var last int64 = -1
	for i := range 50 {
		id := m.Take(i)
		assert.Greater(t, int64(id), last)
		last = int64(id)
		if i%7 == 3 {
			ids := m.IDs()
			m.Revert(ids[len(ids)/2])
		}
	}
}
