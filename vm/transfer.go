// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import (
	"github.com/holiman/uint256"

	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

// TransferEventID is the topic of the log emitted by value transfers.
var TransferEventID = thor.Keccak256([]byte("Transfer(address,address,uint256)"))

// TransferEngine is the built-in engine. It moves value and deploys the tx data
// as contract code, but does not interpret code: calls with data to a contract revert.
type TransferEngine struct{}

var _ Engine = TransferEngine{}

// Execute implements Engine.
func (TransferEngine) Execute(t *tx.Transaction, st StateReader, env *Env) (*Outcome, error) {
	sender := t.Sender()
	value := t.Value()
	gas := t.IntrinsicGas()
	if gas > t.Gas() {
		return nil, NewStructuralError("intrinsic gas %v exceeds provided gas %v", gas, t.Gas())
	}
	balance := st.Balance(sender)
	if balance.Lt(value) {
		return nil, NewStructuralError("insufficient balance for transfer")
	}

	out := &Outcome{Diff: &state.Diff{}, GasUsed: gas}

	var target thor.Address
	if t.IsCreation() {
		target = thor.CreateContractAddress(sender, t.Nonce())
		if len(st.Code(target)) > 0 || st.Nonce(target) > 0 {
			out.Reverted = true
			out.RevertReason = "contract address collision"
			return out, nil
		}
		if data := t.Data(); len(data) > 0 {
			out.Diff.SetCode(target, data)
		}
		out.Diff.SetNonce(target, 1)
		out.ContractAddress = &target
	} else {
		target = *t.To()
		if len(t.Data()) > 0 && len(st.Code(target)) > 0 {
			out.Reverted = true
			out.RevertReason = "code execution not supported"
			return out, nil
		}
	}

	if !value.IsZero() && target != sender {
		toBalance := st.Balance(target)
		if _, overflow := toBalance.AddOverflow(toBalance, value); overflow {
			return nil, NewStructuralError("balance overflow")
		}
		out.Diff.SetBalance(sender, new(uint256.Int).Sub(balance, value))
		out.Diff.SetBalance(target, toBalance)
		out.Logs = append(out.Logs, &tx.Log{
			Address: target,
			Topics: []thor.Bytes32{
				TransferEventID,
				thor.BytesToBytes32(sender.Bytes()),
				thor.BytesToBytes32(target.Bytes()),
			},
			Data: thor.Uint256ToBytes32(value).Bytes(),
		})
	}
	return out, nil
}
