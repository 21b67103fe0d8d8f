// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/devnode/thor"
)

// Header contains almost all information about a block, except block body.
// It's immutable.
type Header struct {
	body headerBody

	cache struct {
		id atomic.Pointer[thor.Bytes32]
	}
}

// headerBody body of header
type headerBody struct {
	ParentID    thor.Bytes32
	Timestamp   uint64
	GasLimit    uint64
	Beneficiary thor.Address
	GasUsed     uint64

	TxsRoot      thor.Bytes32
	ReceiptsRoot thor.Bytes32
}

// ParentID returns id of parent block.
func (h *Header) ParentID() thor.Bytes32 {
	return h.body.ParentID
}

// Number returns sequential number of this block.
func (h *Header) Number() uint32 {
	// inferred from parent id
	return Number(h.body.ParentID) + 1
}

// Timestamp returns timestamp of this block.
func (h *Header) Timestamp() uint64 {
	return h.body.Timestamp
}

// GasLimit returns gas limit of this block.
func (h *Header) GasLimit() uint64 {
	return h.body.GasLimit
}

// GasUsed returns gas used by txs.
func (h *Header) GasUsed() uint64 {
	return h.body.GasUsed
}

// Beneficiary returns the coinbase of the block.
func (h *Header) Beneficiary() thor.Address {
	return h.body.Beneficiary
}

// TxsRoot returns root hash of txs contained in this block.
func (h *Header) TxsRoot() thor.Bytes32 {
	return h.body.TxsRoot
}

// ReceiptsRoot returns root hash of tx receipts.
func (h *Header) ReceiptsRoot() thor.Bytes32 {
	return h.body.ReceiptsRoot
}

// ID computes id of block.
// The block ID is defined as: blockNumber + keccak256(header)[4:].
func (h *Header) ID() thor.Bytes32 {
	if cached := h.cache.id.Load(); cached != nil {
		return *cached
	}
	id := thor.Keccak256Fn(func(w io.Writer) {
		rlp.Encode(w, &h.body)
	})
	// overwrite first 4 bytes of block hash to block number.
	binary.BigEndian.PutUint32(id[:], h.Number())
	h.cache.id.Store(&id)
	return id
}

// EncodeRLP implements rlp.Encoder
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	return fmt.Sprintf(`Header(%v):
	Number:			%v
	ParentID:		%v
	Timestamp:		%v
	Beneficiary:	%v
	GasLimit:		%v
	GasUsed:		%v
	TxsRoot:		%v
	ReceiptsRoot:	%v`, h.ID(), h.Number(), h.body.ParentID, h.body.Timestamp,
		h.body.Beneficiary, h.body.GasLimit, h.body.GasUsed,
		h.body.TxsRoot, h.body.ReceiptsRoot)
}

// Number extract block number from block id.
func Number(blockID thor.Bytes32) uint32 {
	// first 4 bytes are over written by block number (big endian).
	return binary.BigEndian.Uint32(blockID[:])
}

// GenesisParentID is the parent id of the genesis block, so that its number is 0.
func GenesisParentID() thor.Bytes32 {
	var id thor.Bytes32
	binary.BigEndian.PutUint32(id[:], math.MaxUint32)
	return id
}
