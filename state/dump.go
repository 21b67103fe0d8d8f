// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/devnode/thor"
)

// dumpVersion prefixes every dump.
const dumpVersion byte = 1

// DumpAccount is the serialized form of an account.
type DumpAccount struct {
	Address thor.Address
	Balance *uint256.Int
	Nonce   uint64
	Code    []byte
	Storage []DumpSlot
}

// DumpSlot is a non-zero storage slot.
type DumpSlot struct {
	Key   thor.Bytes32
	Value thor.Bytes32
}

// Export returns all accounts in address order.
func (s *Store) Export() []*DumpAccount {
	accounts := make([]*DumpAccount, 0, s.Len())
	s.accounts.Scan(func(obj *accountObject) bool {
		balance := obj.balance
		acc := &DumpAccount{
			Address: obj.addr,
			Balance: &balance,
			Nonce:   obj.nonce,
			Code:    obj.code,
		}
		if obj.storage != nil {
			obj.storage.Scan(func(sl slot) bool {
				acc.Storage = append(acc.Storage, DumpSlot{sl.key, sl.value})
				return true
			})
		}
		accounts = append(accounts, acc)
		return true
	})
	return accounts
}

// Dump serializes the whole store as snappy compressed RLP.
func (s *Store) Dump() ([]byte, error) {
	data, err := rlp.EncodeToBytes(s.Export())
	if err != nil {
		return nil, errors.Wrap(err, "encode accounts")
	}
	return append([]byte{dumpVersion}, snappy.Encode(nil, data)...), nil
}

// DecodeDump decodes a dump produced by Store.Dump.
func DecodeDump(data []byte) ([]*DumpAccount, error) {
	if len(data) == 0 {
		return nil, errors.New("empty dump")
	}
	if data[0] != dumpVersion {
		return nil, errors.Errorf("unsupported dump version %v", data[0])
	}
	raw, err := snappy.Decode(nil, data[1:])
	if err != nil {
		return nil, errors.Wrap(err, "decompress dump")
	}
	var accounts []*DumpAccount
	if err := rlp.DecodeBytes(raw, &accounts); err != nil {
		return nil, errors.Wrap(err, "decode accounts")
	}
	return accounts, nil
}

// LoadDiff builds the diff that overwrites each dumped account.
// Accounts of the store that are absent from the dump are kept.
// Existing storage slots absent from the dump are cleared.
func (s *Store) LoadDiff(accounts []*DumpAccount) *Diff {
	diff := &Diff{}
	for _, acc := range accounts {
		balance := acc.Balance
		if balance == nil {
			balance = new(uint256.Int)
		}
		diff.SetBalance(acc.Address, balance)
		diff.OverrideNonce(acc.Address, acc.Nonce)
		diff.OverrideCode(acc.Address, acc.Code)

		dumped := make(map[thor.Bytes32]struct{}, len(acc.Storage))
		for _, sl := range acc.Storage {
			dumped[sl.Key] = struct{}{}
			diff.SetStorage(acc.Address, sl.Key, sl.Value)
		}
		s.ForEachStorage(acc.Address, func(key, _ thor.Bytes32) bool {
			if _, ok := dumped[key]; !ok {
				diff.SetStorage(acc.Address, key, thor.Bytes32{})
			}
			return true
		})
	}
	return diff
}
