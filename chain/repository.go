// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"github.com/pkg/errors"

	"github.com/vechain/devnode/block"
	"github.com/vechain/devnode/co"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

var errNotFound = errors.New("not found")

// IsNotFound returns whether the error means the target is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// TxMeta locates a tx in the chain.
type TxMeta struct {
	BlockID     thor.Bytes32
	BlockNumber uint32
	Index       uint64
}

// Repository stores the block history in memory.
// Blocks are append only, except Truncate which drops the newest ones.
// It is not safe for concurrent mutation.
type Repository struct {
	blocks []*block.Block
	ids    map[thor.Bytes32]uint32
	// a tx may be packed again after its block is truncated away and the
	// nonce rewound, so each hash maps to its locations, oldest first
	txs    map[thor.Bytes32][]TxMeta
	tick   co.Signal
}

// NewRepository create an instance of repository.
func NewRepository(genesis *block.Block) (*Repository, error) {
	if n := genesis.Header().Number(); n != 0 {
		return nil, errors.Errorf("genesis number should be 0, got %v", n)
	}
	r := &Repository{
		ids: make(map[thor.Bytes32]uint32),
		txs: make(map[thor.Bytes32][]TxMeta),
	}
	r.index(genesis)
	return r, nil
}

func (r *Repository) index(b *block.Block) {
	id := b.Header().ID()
	num := b.Header().Number()
	r.blocks = append(r.blocks, b)
	r.ids[id] = num
	for i, trx := range b.Transactions() {
		hash := trx.Hash()
		r.txs[hash] = append(r.txs[hash], TxMeta{BlockID: id, BlockNumber: num, Index: uint64(i)})
	}
}

// GenesisBlock returns genesis block.
func (r *Repository) GenesisBlock() *block.Block {
	return r.blocks[0]
}

// BestBlock returns the newest block.
func (r *Repository) BestBlock() *block.Block {
	return r.blocks[len(r.blocks)-1]
}

// Len returns the number of blocks, genesis included.
func (r *Repository) Len() int {
	return len(r.blocks)
}

// AddBlock appends a block. It must be the child of the best block.
func (r *Repository) AddBlock(b *block.Block) error {
	best := r.BestBlock().Header()
	if b.Header().ParentID() != best.ID() {
		return errors.Errorf("block %v is not a child of best block %v", b.Header().ID().AbbrevString(), best.ID().AbbrevString())
	}
	if b.Header().Timestamp() < best.Timestamp() {
		return errors.Errorf("block timestamp %v behind parent %v", b.Header().Timestamp(), best.Timestamp())
	}
	r.index(b)
	metricBlockRepositoryCounter().AddWithLabel(1, map[string]string{"type": "write"})
	r.tick.Broadcast()
	return nil
}

// Truncate keeps the first n blocks and drops the rest. The genesis block is always kept.
func (r *Repository) Truncate(n int) {
	if n < 1 {
		n = 1
	}
	if n >= len(r.blocks) {
		return
	}
	for _, b := range r.blocks[n:] {
		delete(r.ids, b.Header().ID())
		for _, trx := range b.Transactions() {
			hash := trx.Hash()
			metas := r.txs[hash]
			for len(metas) > 0 && metas[len(metas)-1].BlockNumber >= uint32(n) {
				metas = metas[:len(metas)-1]
			}
			if len(metas) == 0 {
				delete(r.txs, hash)
			} else {
				r.txs[hash] = metas
			}
		}
	}
	clear(r.blocks[n:])
	r.blocks = r.blocks[:n]
	metricBlockRepositoryCounter().AddWithLabel(1, map[string]string{"type": "truncate"})
}

// GetBlock returns block by id.
func (r *Repository) GetBlock(id thor.Bytes32) (*block.Block, error) {
	num, ok := r.ids[id]
	if !ok {
		return nil, errNotFound
	}
	return r.blocks[num], nil
}

// GetBlockByNumber returns block by number.
func (r *Repository) GetBlockByNumber(num uint32) (*block.Block, error) {
	if uint64(num) >= uint64(len(r.blocks)) {
		return nil, errNotFound
	}
	return r.blocks[num], nil
}

// lookup returns the newest location of a packed tx.
func (r *Repository) lookup(id thor.Bytes32) (*TxMeta, bool) {
	metas := r.txs[id]
	if len(metas) == 0 {
		return nil, false
	}
	meta := metas[len(metas)-1]
	return &meta, true
}

// GetTransaction returns a packed tx and its location. A tx packed more than once
// is located in its newest block.
func (r *Repository) GetTransaction(id thor.Bytes32) (*tx.Transaction, *TxMeta, error) {
	meta, ok := r.lookup(id)
	if !ok {
		return nil, nil, errNotFound
	}
	return r.blocks[meta.BlockNumber].Transactions()[meta.Index], meta, nil
}

// GetReceipt returns the receipt of a packed tx and its location.
func (r *Repository) GetReceipt(id thor.Bytes32) (*tx.Receipt, *TxMeta, error) {
	meta, ok := r.lookup(id)
	if !ok {
		return nil, nil, errNotFound
	}
	return r.blocks[meta.BlockNumber].Receipts()[meta.Index], meta, nil
}

// NewTicker create a signal Waiter to receive event that a new block is added.
func (r *Repository) NewTicker() co.Waiter {
	return r.tick.NewWaiter()
}
