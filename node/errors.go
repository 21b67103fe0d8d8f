// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/pkg/errors"

	"github.com/vechain/devnode/chain"
	"github.com/vechain/devnode/clock"
	"github.com/vechain/devnode/packer"
	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/txpool"
)

var (
	// ErrSnapshotNotFound is returned by commands reverting to an id not on the stack.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSenderNotAllowed is returned when submitting a tx from a sender neither
	// funded at genesis nor impersonated.
	ErrSenderNotAllowed = errors.New("sender not allowed")
	// ErrChainIDMismatch is returned when submitting a tx bound to another chain.
	ErrChainIDMismatch = errors.New("chain id mismatch")
	// ErrNotFound is returned by lookups of absent blocks or txs.
	ErrNotFound = errors.New("not found")
	// ErrInvalidDump is returned when loading data that is not a state dump.
	ErrInvalidDump = errors.New("invalid state dump")
	// ErrUnknownCommand is returned by Execute for a value outside the command set.
	ErrUnknownCommand = errors.New("unknown command")
)

// IsRejected returns whether err rejects the caller's input without any state change.
func IsRejected(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrSnapshotNotFound) ||
		errors.Is(err, ErrSenderNotAllowed) ||
		errors.Is(err, ErrChainIDMismatch) ||
		errors.Is(err, ErrInvalidDump) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, clock.ErrOutOfRange) ||
		txpool.IsBadTx(err) ||
		txpool.IsTxRejected(err)
}

// IsStructural returns whether err reports a tx the engine could not run at all.
func IsStructural(err error) bool {
	return packer.IsBadTx(err)
}

// IsFault returns whether err reports an internal invariant violation.
func IsFault(err error) bool {
	return state.IsInvariantError(err)
}

// IsNotFound returns whether err means the looked up object is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || chain.IsNotFound(err)
}
