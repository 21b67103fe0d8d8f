// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/devnode/log"
	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/tx"
	"github.com/vechain/devnode/vm"
)

var logger = log.WithContext("pkg", "runtime")

// Runtime is to support transaction execution.
type Runtime struct {
	engine vm.Engine
	state  *state.Store
	env    vm.Env
}

// New create a Runtime object.
func New(engine vm.Engine, st *state.Store, env vm.Env) *Runtime {
	return &Runtime{
		engine: engine,
		state:  st,
		env:    env,
	}
}

func (rt *Runtime) State() *state.Store { return rt.state }
func (rt *Runtime) Env() vm.Env         { return rt.env }

// PrepareTransaction runs the checks that decide whether a tx may be included at all.
func (rt *Runtime) PrepareTransaction(trx *tx.Transaction) error {
	if id := trx.ChainID(); id != 0 && id != rt.env.ChainID {
		return vm.NewStructuralError("chain id mismatch: want %v, got %v", rt.env.ChainID, id)
	}
	if err := trx.Validate(); err != nil {
		return vm.AsStructural(err)
	}
	if trx.Gas() > rt.env.GasLimit {
		return vm.NewStructuralError("gas %v exceeds block gas limit %v", trx.Gas(), rt.env.GasLimit)
	}
	if expected := rt.state.Nonce(trx.Sender()); trx.Nonce() != expected {
		return vm.NewStructuralError("nonce mismatch: want %v, got %v", expected, trx.Nonce())
	}
	return nil
}

// ExecuteTransaction executes a tx against the state.
//
// A structural failure returns a *vm.StructuralError and leaves the state untouched.
// A reverted tx only consumes the sender nonce. A *state.InvariantError means the
// engine produced changes the state refuses, the state is left untouched as well.
func (rt *Runtime) ExecuteTransaction(trx *tx.Transaction) (*tx.Receipt, error) {
	if err := rt.PrepareTransaction(trx); err != nil {
		return nil, err
	}

	sender := trx.Sender()
	out, err := rt.engine.Execute(trx, rt.state, &rt.env)
	if err != nil {
		return nil, vm.AsStructural(err)
	}
	if out == nil {
		return nil, vm.NewStructuralError("engine returned no outcome")
	}

	receipt := &tx.Receipt{
		TxHash:  trx.Hash(),
		GasUsed: out.GasUsed,
	}

	diff := &state.Diff{}
	if out.Reverted {
		receipt.Reverted = true
		receipt.RevertReason = out.RevertReason
	} else {
		if err := rt.checkOutcome(trx, out); err != nil {
			return nil, err
		}
		diff.Merge(out.Diff)
		receipt.Logs = out.Logs
		receipt.ContractAddress = out.ContractAddress
	}
	diff.SetNonce(sender, trx.Nonce()+1)

	if err := rt.state.Apply(diff); err != nil {
		return nil, err
	}
	logger.Trace("tx executed", "id", trx.Hash(), "reverted", receipt.Reverted, "gas", receipt.GasUsed)
	return receipt, nil
}

func (rt *Runtime) checkOutcome(trx *tx.Transaction, out *vm.Outcome) error {
	if out.Diff == nil {
		return nil
	}
	if out.Diff.HasOverrides() {
		return state.NewInvariantError(trx.Sender(), "engine outcome carries overrides")
	}
	if out.Diff.TouchesNonce(trx.Sender()) {
		return state.NewInvariantError(trx.Sender(), "engine changed the sender nonce")
	}
	if err := out.Diff.Check(); err != nil {
		return state.NewInvariantError(trx.Sender(), "malformed outcome: %v", err)
	}
	for _, addr := range out.Diff.CodeChanges() {
		if code := rt.state.Code(addr); len(code) > 0 {
			return state.NewInvariantError(addr, "code replacement")
		}
	}
	return nil
}
