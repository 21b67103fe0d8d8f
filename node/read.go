// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/holiman/uint256"

	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/chain"
	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

// Account returns the account at addr, zero valued if absent.
func (n *Node) Account(addr thor.Address) state.Account {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.state.Account(addr)
}

// Balance returns the balance of addr, zero if absent.
func (n *Node) Balance(addr thor.Address) *uint256.Int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.state.Balance(addr)
}

// Nonce returns the next nonce expected from addr.
func (n *Node) Nonce(addr thor.Address) uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.state.Nonce(addr)
}

// Code returns the code deployed at addr.
func (n *Node) Code(addr thor.Address) []byte {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.state.Code(addr)
}

// StorageAt returns a storage slot of addr, zero if unset.
func (n *Node) StorageAt(addr thor.Address, key thor.Bytes32) thor.Bytes32 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.state.Storage(addr, key)
}

// CodeByHash returns the code whose hash is hash if any account holds it.
func (n *Node) CodeByHash(hash thor.Bytes32) ([]byte, bool) {
	if hash == thor.EmptyCodeHash {
		return []byte{}, true
	}
	n.mu.RLock()
	defer n.mu.RUnlock()

	var code []byte
	n.state.ForEach(func(acc state.Account) bool {
		if acc.CodeHash == hash {
			code = acc.Code
			return false
		}
		return true
	})
	return code, code != nil
}

// BestBlock returns the newest block.
func (n *Node) BestBlock() *block.Block {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.repo.BestBlock()
}

// GenesisBlock returns the block 0.
func (n *Node) GenesisBlock() *block.Block {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.repo.GenesisBlock()
}

// BlockByNumber returns the block of number num in the current history.
func (n *Node) BlockByNumber(num uint32) (*block.Block, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.repo.GetBlockByNumber(num)
}

// BlockByHash returns the block with id in the current history.
func (n *Node) BlockByHash(id thor.Bytes32) (*block.Block, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.repo.GetBlock(id)
}

// Transaction returns a tx by hash. meta is nil for a pending tx.
func (n *Node) Transaction(hash thor.Bytes32) (*tx.Transaction, *chain.TxMeta, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	trx, meta, err := n.repo.GetTransaction(hash)
	if err == nil {
		return trx, meta, nil
	}
	if !chain.IsNotFound(err) {
		return nil, nil, err
	}
	if trx := n.pool.Get(hash); trx != nil {
		return trx, nil, nil
	}
	return nil, nil, ErrNotFound
}

// Receipt returns the receipt of a mined tx.
func (n *Node) Receipt(hash thor.Bytes32) (*tx.Receipt, *chain.TxMeta, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.repo.GetReceipt(hash)
}

// PendingTransactions returns the pool content in acceptance order.
func (n *Node) PendingTransactions() tx.Transactions {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.pool.Pending()
}

// CurrentTimestamp returns the timestamp the next block would get if mined now.
func (n *Node) CurrentTimestamp() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.clock.Peek(n.repo.BestBlock().Header().Timestamp())
}

// AutoMine returns whether txs are mined on submit.
func (n *Node) AutoMine() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.autoMine
}

// ChainID returns the chain id later blocks are mined with.
func (n *Node) ChainID() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.packer.ChainID()
}

// GasLimit returns the block gas limit. It never changes after New.
func (n *Node) GasLimit() uint64 {
	return n.packer.GasLimit()
}

// DevAccounts returns the accounts funded at genesis.
func (n *Node) DevAccounts() []thor.Address {
	return n.genesis.Accounts()
}

// GenesisID returns the id of the genesis block.
func (n *Node) GenesisID() thor.Bytes32 {
	return n.genesis.ID()
}
