// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"github.com/google/btree"

	"github.com/vechain/devnode/log"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

var logger = log.WithContext("pkg", "txpool")

// Status is the result of a successful Add.
type Status int

const (
	StatusAccepted Status = iota
	StatusReplaced
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Options options for tx pool.
type Options struct {
	Limit           int
	LimitPerAccount int
	BlockGasLimit   uint64
}

// DefaultOptions returns the options used by the node.
func DefaultOptions() Options {
	return Options{
		Limit:           thor.DefaultPoolLimit,
		LimitPerAccount: thor.DefaultPoolPerAccount,
		BlockGasLimit:   thor.DefaultGasLimit,
	}
}

// TxPool holds txs accepted but not yet packed, keyed by (sender, nonce).
// It is not safe for concurrent use, the node serializes all access.
type TxPool struct {
	options Options
	all     map[thor.Bytes32]*txObject
	senders map[thor.Address]*nonceTree
	bySeq   *btree.BTreeG[*txObject]
	seq     uint64
}

// New create a new TxPool instance.
func New(options Options) *TxPool {
	return &TxPool{
		options: options,
		all:     make(map[thor.Bytes32]*txObject),
		senders: make(map[thor.Address]*nonceTree),
		bySeq:   newSeqTree(),
	}
}

// Options returns the pool options.
func (p *TxPool) Options() Options {
	return p.options
}

// SetBlockGasLimit updates the gas limit txs are validated against.
func (p *TxPool) SetBlockGasLimit(limit uint64) {
	p.options.BlockGasLimit = limit
}

// Add adds a tx. stateNonce is the current nonce of the sender.
// It returns the position of the tx in acceptance order.
// A rejected tx leaves the pool untouched.
func (p *TxPool) Add(trx *tx.Transaction, stateNonce uint64) (Status, int, error) {
	return p.add(trx, stateNonce, nil)
}

// Requeue puts back a drained tx in the acceptance slot it had before Drain.
func (p *TxPool) Requeue(d *Drained, stateNonce uint64) error {
	_, _, err := p.add(d.Transaction, stateNonce, &d.seq)
	return err
}

// add inserts trx. A nil seq takes the next acceptance slot.
func (p *TxPool) add(trx *tx.Transaction, stateNonce uint64, seq *uint64) (Status, int, error) {
	if err := p.validate(trx); err != nil {
		return 0, 0, err
	}
	if trx.Nonce() < stateNonce {
		return 0, 0, rejectf("nonce too low: next nonce %v, tx nonce %v", stateNonce, trx.Nonce())
	}
	hash := trx.Hash()
	if _, ok := p.all[hash]; ok {
		return 0, 0, errKnownTx
	}

	sender := trx.Sender()
	byNonce := p.senders[sender]
	var existing *txObject
	if byNonce != nil {
		existing, _ = byNonce.Get(&txObject{nonce: trx.Nonce()})
	}

	if existing != nil {
		// keep the acceptance slot of the replaced tx
		obj := newTxObject(trx, existing.seq)
		p.remove(existing)
		p.insert(obj)
		logger.Debug("tx replaced", "id", hash, "replaced", existing.hash, "sender", sender, "nonce", obj.nonce)
		metricTxPoolOps().AddWithLabel(1, map[string]string{"op": "replace"})
		return StatusReplaced, p.position(obj), nil
	}

	if p.options.Limit > 0 && len(p.all) >= p.options.Limit {
		return 0, 0, rejectf("pool is full")
	}
	if p.options.LimitPerAccount > 0 && byNonce != nil && byNonce.Len() >= p.options.LimitPerAccount {
		return 0, 0, rejectf("account quota exceeded")
	}

	var obj *txObject
	if seq != nil {
		obj = newTxObject(trx, *seq)
	} else {
		obj = newTxObject(trx, p.seq)
		p.seq++
	}
	p.insert(obj)
	logger.Debug("tx added", "id", hash, "sender", sender, "nonce", obj.nonce)
	metricTxPoolOps().AddWithLabel(1, map[string]string{"op": "add"})
	return StatusAccepted, p.position(obj), nil
}

func (p *TxPool) validate(trx *tx.Transaction) error {
	if err := trx.Validate(); err != nil {
		return badTxError{err.Error()}
	}
	if p.options.BlockGasLimit > 0 && trx.Gas() > p.options.BlockGasLimit {
		return badTxError{"gas exceeds block gas limit"}
	}
	return nil
}

func (p *TxPool) updateGauge() {
	metricTxPoolGauge().Set(int64(len(p.all)))
}

func (p *TxPool) insert(obj *txObject) {
	sender := obj.Sender()
	byNonce := p.senders[sender]
	if byNonce == nil {
		byNonce = newNonceTree()
		p.senders[sender] = byNonce
	}
	byNonce.ReplaceOrInsert(obj)
	p.bySeq.ReplaceOrInsert(obj)
	p.all[obj.hash] = obj
	p.updateGauge()
}

func (p *TxPool) remove(obj *txObject) {
	sender := obj.Sender()
	if byNonce := p.senders[sender]; byNonce != nil {
		byNonce.Delete(obj)
		if byNonce.Len() == 0 {
			delete(p.senders, sender)
		}
	}
	p.bySeq.Delete(obj)
	delete(p.all, obj.hash)
	p.updateGauge()
}

func (p *TxPool) position(obj *txObject) int {
	pos := 0
	p.bySeq.AscendLessThan(obj, func(*txObject) bool {
		pos++
		return true
	})
	return pos
}

// Get returns the pending tx by hash.
func (p *TxPool) Get(hash thor.Bytes32) *tx.Transaction {
	if obj, ok := p.all[hash]; ok {
		return obj.Transaction
	}
	return nil
}

// Len returns the count of pending txs.
func (p *TxPool) Len() int {
	return len(p.all)
}

// Pending returns all pending txs in acceptance order.
func (p *TxPool) Pending() tx.Transactions {
	txs := make(tx.Transactions, 0, len(p.all))
	p.bySeq.Ascend(func(obj *txObject) bool {
		txs = append(txs, obj.Transaction)
		return true
	})
	return txs
}

// Remove removes the tx by hash. It returns false if absent.
func (p *TxPool) Remove(hash thor.Bytes32) bool {
	obj, ok := p.all[hash]
	if !ok {
		return false
	}
	p.remove(obj)
	logger.Debug("tx removed", "id", hash)
	metricTxPoolOps().AddWithLabel(1, map[string]string{"op": "remove"})
	return true
}

// RemoveSender removes all txs of the sender and returns the removed count.
func (p *TxPool) RemoveSender(sender thor.Address) int {
	byNonce := p.senders[sender]
	if byNonce == nil {
		return 0
	}
	var objs []*txObject
	byNonce.Ascend(func(obj *txObject) bool {
		objs = append(objs, obj)
		return true
	})
	for _, obj := range objs {
		p.remove(obj)
	}
	metricTxPoolOps().AddWithLabel(int64(len(objs)), map[string]string{"op": "remove"})
	return len(objs)
}

// Clear removes all txs.
func (p *TxPool) Clear() {
	n := len(p.all)
	p.all = make(map[thor.Bytes32]*txObject)
	p.senders = make(map[thor.Address]*nonceTree)
	p.bySeq = newSeqTree()
	p.updateGauge()
	metricTxPoolOps().AddWithLabel(int64(n), map[string]string{"op": "remove"})
}

// Drained is a tx taken out of the pool by Drain.
type Drained struct {
	*tx.Transaction
	seq uint64
}

// Drain removes and returns up to max executable txs in acceptance order.
//
// For each sender only the tx carrying the next nonce is executable, the one after it
// becomes executable once the previous is drained. nonceOf returns the current nonce
// of a sender. Txs with a nonce below it are discarded, txs behind a nonce gap stay pending.
//
// If gasLimit is not zero, the sum of the drained txs' gas never exceeds it. A tx
// that does not fit stays pending along with the later txs of its sender.
func (p *TxPool) Drain(max int, gasLimit uint64, nonceOf func(thor.Address) uint64) []*Drained {
	heads := newSeqTree()
	for sender, byNonce := range p.senders {
		next := nonceOf(sender)
		for {
			min, ok := byNonce.Min()
			if !ok || min.nonce >= next {
				break
			}
			p.remove(min)
			logger.Debug("stale tx discarded", "id", min.hash, "sender", sender, "nonce", min.nonce)
			metricTxPoolOps().AddWithLabel(1, map[string]string{"op": "stale"})
		}
		if min, ok := byNonce.Min(); ok && min.nonce == next {
			heads.ReplaceOrInsert(min)
		}
	}

	var (
		txs []*Drained
		gas uint64
	)
	for len(txs) < max {
		head, ok := heads.DeleteMin()
		if !ok {
			break
		}
		if gasLimit > 0 && gas+head.Gas() > gasLimit {
			continue
		}
		gas += head.Gas()
		txs = append(txs, &Drained{head.Transaction, head.seq})
		p.remove(head)

		if byNonce := p.senders[head.Sender()]; byNonce != nil {
			if next, ok := byNonce.Get(&txObject{nonce: head.nonce + 1}); ok {
				heads.ReplaceOrInsert(next)
			}
		}
	}
	if len(txs) > 0 {
		metricTxPoolOps().AddWithLabel(int64(len(txs)), map[string]string{"op": "drain"})
	}
	return txs
}

// Copy returns an independent pool with the same content and acceptance order.
func (p *TxPool) Copy() *TxPool {
	cpy := &TxPool{
		options: p.options,
		all:     make(map[thor.Bytes32]*txObject, len(p.all)),
		senders: make(map[thor.Address]*nonceTree, len(p.senders)),
		bySeq:   p.bySeq.Clone(),
		seq:     p.seq,
	}
	for hash, obj := range p.all {
		cpy.all[hash] = obj
	}
	for sender, byNonce := range p.senders {
		cpy.senders[sender] = byNonce.Clone()
	}
	return cpy
}
