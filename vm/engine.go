// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

//go:generate mockgen -destination=./mock_engine.go -package=vm . Engine

// Package vm defines the boundary between the node and the engine executing transactions.
//
// An Engine reads the pre-state and returns an Outcome describing the state changes,
// it never writes the state itself. The runtime package validates and applies the outcome.
package vm

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

// StateReader is the read-only state handed to an engine.
type StateReader = state.Reader

// Env is the block environment a tx executes in.
type Env struct {
	Number    uint32
	Timestamp uint64
	ChainID   uint64
	GasLimit  uint64
	Coinbase  thor.Address
}

// Outcome is the result of executing a tx.
type Outcome struct {
	// Diff holds the state changes. It is discarded when Reverted is set.
	Diff            *state.Diff
	Logs            []*tx.Log
	Reverted        bool
	RevertReason    string
	GasUsed         uint64
	ContractAddress *thor.Address
}

// Engine executes transactions.
type Engine interface {
	Execute(tx *tx.Transaction, st StateReader, env *Env) (*Outcome, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(tx *tx.Transaction, st StateReader, env *Env) (*Outcome, error)

// Execute calls f.
func (f EngineFunc) Execute(tx *tx.Transaction, st StateReader, env *Env) (*Outcome, error) {
	return f(tx, st, env)
}

// StructuralError means a tx cannot be included in a block at all.
// No state changes and no nonce are consumed.
type StructuralError struct {
	Reason string
	cause  error
}

// NewStructuralError creates a structural error.
func NewStructuralError(format string, args ...any) *StructuralError {
	return &StructuralError{Reason: fmt.Sprintf(format, args...)}
}

// AsStructural wraps any error as a structural error, keeping the cause.
func AsStructural(err error) *StructuralError {
	var se *StructuralError
	if errors.As(err, &se) {
		return se
	}
	return &StructuralError{Reason: err.Error(), cause: err}
}

func (e *StructuralError) Error() string {
	return "structural failure: " + e.Reason
}

func (e *StructuralError) Unwrap() error {
	return e.cause
}

// IsStructuralError returns whether the error is a structural failure.
func IsStructuralError(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
