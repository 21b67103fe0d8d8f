// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/tidwall/btree"

	"github.com/vechain/devnode/thor"
)

// Reader is the read-only view of the accounts.
type Reader interface {
	Account(addr thor.Address) Account
	Balance(addr thor.Address) *uint256.Int
	Nonce(addr thor.Address) uint64
	Code(addr thor.Address) []byte
	CodeHash(addr thor.Address) thor.Bytes32
	Storage(addr thor.Address, key thor.Bytes32) thor.Bytes32
	Exists(addr thor.Address) bool
}

// InvariantError is returned when a diff would break a state invariant.
// It is never caused by user input that passed the executor checks.
type InvariantError struct {
	Address thor.Address
	msg     string
}

// NewInvariantError creates an invariant error for the account.
func NewInvariantError(addr thor.Address, format string, args ...any) *InvariantError {
	return &InvariantError{Address: addr, msg: fmt.Sprintf(format, args...)}
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("state invariant violated: %v: %v", e.Address, e.msg)
}

// IsInvariantError returns whether the error is caused by an invariant violation.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// Store holds all accounts. A Store is not safe for concurrent mutation.
type Store struct {
	accounts *btree.BTreeG[*accountObject]
}

var _ Reader = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		accounts: btree.NewBTreeG(accountLess),
	}
}

// Copy returns an independent store sharing the underlying trees.
func (s *Store) Copy() *Store {
	return &Store{accounts: s.accounts.Copy()}
}

// Len returns the number of stored accounts.
func (s *Store) Len() int {
	return s.accounts.Len()
}

func (s *Store) get(addr thor.Address) (*accountObject, bool) {
	return s.accounts.Get(&accountObject{addr: addr})
}

func (s *Store) getOrEmpty(addr thor.Address) *accountObject {
	if obj, ok := s.get(addr); ok {
		return obj
	}
	return emptyObject(addr)
}

// Account returns the account at addr. Absent accounts are returned zero-valued.
func (s *Store) Account(addr thor.Address) Account {
	return s.getOrEmpty(addr).account()
}

// Balance returns the balance of the account.
func (s *Store) Balance(addr thor.Address) *uint256.Int {
	obj := s.getOrEmpty(addr)
	return new(uint256.Int).Set(&obj.balance)
}

// Nonce returns the nonce of the account.
func (s *Store) Nonce(addr thor.Address) uint64 {
	return s.getOrEmpty(addr).nonce
}

// Code returns the code of the account.
func (s *Store) Code(addr thor.Address) []byte {
	return bytes.Clone(s.getOrEmpty(addr).code)
}

// CodeHash returns the hash of the account's code.
func (s *Store) CodeHash(addr thor.Address) thor.Bytes32 {
	return s.getOrEmpty(addr).codeHash
}

// Storage returns the storage value at key. Unset slots read as zero.
func (s *Store) Storage(addr thor.Address, key thor.Bytes32) thor.Bytes32 {
	return s.getOrEmpty(addr).getStorage(key)
}

// Exists returns whether the account is stored.
func (s *Store) Exists(addr thor.Address) bool {
	_, ok := s.get(addr)
	return ok
}

// ForEach iterates accounts in address order until cb returns false.
func (s *Store) ForEach(cb func(Account) bool) {
	s.accounts.Scan(func(obj *accountObject) bool {
		return cb(obj.account())
	})
}

// ForEachStorage iterates the non-zero storage of addr in key order until cb returns false.
func (s *Store) ForEachStorage(addr thor.Address, cb func(key, value thor.Bytes32) bool) {
	obj, ok := s.get(addr)
	if !ok || obj.storage == nil {
		return
	}
	obj.storage.Scan(func(sl slot) bool {
		return cb(sl.key, sl.value)
	})
}

// Apply applies the diff as a whole. On error the store is left untouched.
func (s *Store) Apply(diff *Diff) error {
	if diff == nil || diff.IsEmpty() {
		return nil
	}
	if err := diff.Check(); err != nil {
		return errors.WithMessage(err, "check diff")
	}
	if err := s.checkInvariants(diff); err != nil {
		return err
	}

	accounts := s.accounts.Copy()
	touched := make(map[thor.Address]*accountObject)
	obj := func(addr thor.Address) *accountObject {
		if o, ok := touched[addr]; ok {
			return o
		}
		var o *accountObject
		if cur, ok := accounts.Get(&accountObject{addr: addr}); ok {
			o = cur.clone()
		} else {
			o = emptyObject(addr)
		}
		touched[addr] = o
		return o
	}

	for _, c := range diff.balances {
		obj(c.addr).balance = c.balance
	}
	for _, c := range diff.nonces {
		obj(c.addr).nonce = c.nonce
	}
	for _, c := range diff.codes {
		o := obj(c.addr)
		o.code = c.code
		if len(c.code) == 0 {
			o.codeHash = thor.EmptyCodeHash
		} else {
			o.codeHash = thor.Keccak256(c.code)
		}
	}
	detached := make(map[thor.Address]bool)
	for _, c := range diff.slots {
		o := obj(c.addr)
		if !detached[c.addr] {
			o.mutableStorage()
			detached[c.addr] = true
		}
		if c.value.IsZero() {
			o.storage.Delete(slot{key: c.key})
		} else {
			o.storage.Set(slot{key: c.key, value: c.value})
		}
	}

	for _, o := range touched {
		if o.storage != nil && o.storage.Len() == 0 {
			o.storage = nil
		}
		accounts.Set(o)
	}
	metricAccountChanges().AddWithLabel(int64(len(touched)), map[string]string{"op": "apply"})
	s.accounts = accounts
	return nil
}

func (s *Store) checkInvariants(diff *Diff) error {
	for _, c := range diff.codes {
		if c.override {
			continue
		}
		if cur, ok := s.get(c.addr); ok && len(cur.code) > 0 && !bytes.Equal(cur.code, c.code) {
			return &InvariantError{Address: c.addr, msg: "code replacement"}
		}
	}
	for _, c := range diff.nonces {
		if c.override {
			continue
		}
		if cur := s.Nonce(c.addr); c.nonce < cur {
			return &InvariantError{Address: c.addr, msg: fmt.Sprintf("nonce decrease %v -> %v", cur, c.nonce)}
		}
	}
	return nil
}
