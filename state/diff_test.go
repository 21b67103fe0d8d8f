// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/devnode/thor"
)

func TestDiff(t *testing.T) {
	d := &Diff{}
	assert.True(t, d.IsEmpty())
	assert.NoError(t, d.Check())

	d.SetBalance(addr2, uint256.NewInt(1))
	d.SetNonce(addr1, 1)
	d.SetCode(addr2, []byte{1})
	d.OverrideCode(addr1, []byte{2})

	assert.False(t, d.IsEmpty())
	assert.Equal(t, 4, d.Len())
	assert.True(t, d.TouchesNonce(addr1))
	assert.False(t, d.TouchesNonce(addr2))
	assert.Equal(t, []thor.Address{addr2}, d.CodeChanges())
	assert.Equal(t, []thor.Address{addr1, addr2}, d.Addresses())

	other := &Diff{}
	other.SetStorage(addr1, key1, val1)
	d.Merge(other)
	d.Merge(nil)
	assert.Equal(t, 5, d.Len())
}

func TestDiffCheck(t *testing.T) {
	tests := []struct {
		name  string
		build func(d *Diff)
		ok    bool
	}{
		{"repeated equal balance", func(d *Diff) {
			d.SetBalance(addr1, uint256.NewInt(1))
			d.SetBalance(addr1, uint256.NewInt(1))
		}, true},
		{"conflicting nonce", func(d *Diff) {
			d.SetNonce(addr1, 1)
			d.OverrideNonce(addr1, 2)
		}, false},
		{"conflicting code", func(d *Diff) {
			d.SetCode(addr1, []byte{1})
			d.SetCode(addr1, []byte{2})
		}, false},
		{"distinct storage keys", func(d *Diff) {
			d.SetStorage(addr1, key1, val1)
			d.SetStorage(addr1, key2, val2)
			d.SetStorage(addr2, key1, val2)
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Diff{}
			tt.build(d)
			if tt.ok {
				assert.NoError(t, d.Check())
			} else {
				assert.Error(t, d.Check())
			}
		})
	}
}

func TestDiffCopiesCode(t *testing.T) {
	code := []byte{1, 2, 3}
	d := &Diff{}
	d.SetCode(addr1, code)
	code[0] = 9

	st := New()
	assert.NoError(t, st.Apply(d))
	assert.Equal(t, []byte{1, 2, 3}, st.Code(addr1))
}

func TestDiffHasOverrides(t *testing.T) {
	d := &Diff{}
	d.SetNonce(addr1, 1)
	d.SetCode(addr1, []byte{1})
	assert.False(t, d.HasOverrides())

	d.OverrideNonce(addr2, 0)
	assert.True(t, d.HasOverrides())

	d = &Diff{}
	d.OverrideCode(addr2, nil)
	assert.True(t, d.HasOverrides())
}
