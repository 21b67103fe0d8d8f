// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"

	"github.com/holiman/uint256"
	"github.com/tidwall/btree"

	"github.com/vechain/devnode/thor"
)

// Account is a read-only view of an account.
type Account struct {
	Address  thor.Address
	Balance  *uint256.Int
	Nonce    uint64
	Code     []byte
	CodeHash thor.Bytes32
}

// IsEmpty returns if an account is empty.
// An empty account has zero balance, zero nonce and no code.
func (a *Account) IsEmpty() bool {
	return a.Balance.IsZero() && a.Nonce == 0 && len(a.Code) == 0
}

// HasCode returns whether the account is a contract.
func (a *Account) HasCode() bool {
	return len(a.Code) > 0
}

type slot struct {
	key   thor.Bytes32
	value thor.Bytes32
}

func slotLess(a, b slot) bool {
	return a.key.Compare(b.key) < 0
}

func newStorage() *btree.BTreeG[slot] {
	return btree.NewBTreeG(slotLess)
}

// accountObject is the record kept in the accounts tree.
// It is never modified once inserted, updates insert a new object.
type accountObject struct {
	addr     thor.Address
	balance  uint256.Int
	nonce    uint64
	code     []byte
	codeHash thor.Bytes32
	storage  *btree.BTreeG[slot] // nil when the account has no storage
}

func accountLess(a, b *accountObject) bool {
	return a.addr.Compare(b.addr) < 0
}

func emptyObject(addr thor.Address) *accountObject {
	return &accountObject{addr: addr, codeHash: thor.EmptyCodeHash}
}

// clone returns a shallow copy. The storage tree is shared until written, see mutableStorage.
func (o *accountObject) clone() *accountObject {
	cpy := *o
	return &cpy
}

// mutableStorage detaches the storage tree from any other object sharing it.
func (o *accountObject) mutableStorage() *btree.BTreeG[slot] {
	if o.storage == nil {
		o.storage = newStorage()
	} else {
		o.storage = o.storage.Copy()
	}
	return o.storage
}

func (o *accountObject) account() Account {
	balance := o.balance
	return Account{
		Address:  o.addr,
		Balance:  &balance,
		Nonce:    o.nonce,
		Code:     bytes.Clone(o.code),
		CodeHash: o.codeHash,
	}
}

func (o *accountObject) getStorage(key thor.Bytes32) thor.Bytes32 {
	if o.storage == nil {
		return thor.Bytes32{}
	}
	if s, ok := o.storage.Get(slot{key: key}); ok {
		return s.value
	}
	return thor.Bytes32{}
}
