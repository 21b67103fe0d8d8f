// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/holiman/uint256"

	"github.com/vechain/devnode/thor"
)

// Diff is a set of account changes applied atomically by Store.Apply.
//
// Each (address, field) and each (address, storage key) may appear at most once,
// unless the repeated entries carry the same value.
//
//	diff := &Diff{}
//	diff.SetBalance(addr, balance)
//	diff.SetNonce(addr, nonce)
//	err := store.Apply(diff)
type Diff struct {
	balances []balanceChange
	nonces   []nonceChange
	codes    []codeChange
	slots    []slotChange
}

type balanceChange struct {
	addr    thor.Address
	balance uint256.Int
}

type nonceChange struct {
	addr     thor.Address
	nonce    uint64
	override bool
}

type codeChange struct {
	addr     thor.Address
	code     []byte
	override bool
}

type slotChange struct {
	addr  thor.Address
	key   thor.Bytes32
	value thor.Bytes32
}

// SetBalance registers a balance update.
func (d *Diff) SetBalance(addr thor.Address, balance *uint256.Int) {
	d.balances = append(d.balances, balanceChange{addr, *balance})
}

// SetNonce registers a nonce update. The nonce must not decrease.
func (d *Diff) SetNonce(addr thor.Address, nonce uint64) {
	d.nonces = append(d.nonces, nonceChange{addr, nonce, false})
}

// OverrideNonce registers a nonce update that bypasses the monotonicity check.
func (d *Diff) OverrideNonce(addr thor.Address, nonce uint64) {
	d.nonces = append(d.nonces, nonceChange{addr, nonce, true})
}

// SetCode registers code for an account without code.
func (d *Diff) SetCode(addr thor.Address, code []byte) {
	d.codes = append(d.codes, codeChange{addr, bytes.Clone(code), false})
}

// OverrideCode registers a code update that may replace existing code.
func (d *Diff) OverrideCode(addr thor.Address, code []byte) {
	d.codes = append(d.codes, codeChange{addr, bytes.Clone(code), true})
}

// SetStorage registers a storage slot update. A zero value clears the slot.
func (d *Diff) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	d.slots = append(d.slots, slotChange{addr, key, value})
}

// Merge appends all changes of other into d.
func (d *Diff) Merge(other *Diff) {
	if other == nil {
		return
	}
	d.balances = append(d.balances, other.balances...)
	d.nonces = append(d.nonces, other.nonces...)
	d.codes = append(d.codes, other.codes...)
	d.slots = append(d.slots, other.slots...)
}

// IsEmpty returns whether the diff has no change.
func (d *Diff) IsEmpty() bool {
	return len(d.balances) == 0 && len(d.nonces) == 0 && len(d.codes) == 0 && len(d.slots) == 0
}

// Len returns the number of registered changes.
func (d *Diff) Len() int {
	return len(d.balances) + len(d.nonces) + len(d.codes) + len(d.slots)
}

// TouchesNonce returns whether the diff changes the nonce of addr.
func (d *Diff) TouchesNonce(addr thor.Address) bool {
	for _, c := range d.nonces {
		if c.addr == addr {
			return true
		}
	}
	return false
}

// HasOverrides returns whether the diff bypasses any invariant check.
func (d *Diff) HasOverrides() bool {
	for _, c := range d.nonces {
		if c.override {
			return true
		}
	}
	for _, c := range d.codes {
		if c.override {
			return true
		}
	}
	return false
}

// CodeChanges returns the addresses whose code is set by the diff, override changes excluded.
func (d *Diff) CodeChanges() []thor.Address {
	var addrs []thor.Address
	for _, c := range d.codes {
		if !c.override {
			addrs = append(addrs, c.addr)
		}
	}
	return addrs
}

// Addresses returns the sorted unique set of addresses touched by the diff.
func (d *Diff) Addresses() []thor.Address {
	seen := make(map[thor.Address]struct{})
	for _, c := range d.balances {
		seen[c.addr] = struct{}{}
	}
	for _, c := range d.nonces {
		seen[c.addr] = struct{}{}
	}
	for _, c := range d.codes {
		seen[c.addr] = struct{}{}
	}
	for _, c := range d.slots {
		seen[c.addr] = struct{}{}
	}
	addrs := make([]thor.Address, 0, len(seen))
	for addr := range seen {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Compare(addrs[j]) < 0 })
	return addrs
}

// Check validates the diff on its own, without looking at any state.
// It reports conflicting entries for the same field.
func (d *Diff) Check() error {
	balances := make(map[thor.Address]uint256.Int, len(d.balances))
	for _, c := range d.balances {
		if prev, ok := balances[c.addr]; ok && !prev.Eq(&c.balance) {
			return fmt.Errorf("conflicting balance updates for %v", c.addr)
		}
		balances[c.addr] = c.balance
	}

	nonces := make(map[thor.Address]nonceChange, len(d.nonces))
	for _, c := range d.nonces {
		if prev, ok := nonces[c.addr]; ok && prev.nonce != c.nonce {
			return fmt.Errorf("conflicting nonce updates for %v", c.addr)
		}
		nonces[c.addr] = c
	}

	codes := make(map[thor.Address][]byte, len(d.codes))
	for _, c := range d.codes {
		if prev, ok := codes[c.addr]; ok && !bytes.Equal(prev, c.code) {
			return fmt.Errorf("conflicting code updates for %v", c.addr)
		}
		codes[c.addr] = c.code
	}

	type slotKey struct {
		addr thor.Address
		key  thor.Bytes32
	}
	slots := make(map[slotKey]thor.Bytes32, len(d.slots))
	for _, c := range d.slots {
		k := slotKey{c.addr, c.key}
		if prev, ok := slots[k]; ok && prev != c.value {
			return fmt.Errorf("conflicting storage updates for %v at %v", c.addr, c.key)
		}
		slots[k] = c.value
	}
	return nil
}
