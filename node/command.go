// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/devnode/thor"
	"github.com/vechain/devnode/tx"
)

// Command is one operation on the node. The set is closed: only the types of this
// package implement it.
type Command interface {
	command() string
}

type (
	SubmitCmd struct {
		Tx *tx.Transaction
	}
	MineCmd struct {
		Blocks   uint64
		Interval *uint64
	}
	SnapshotCmd struct{}
	RevertCmd   struct {
		ID uint64
	}
	SetNonceCmd struct {
		Address thor.Address
		Nonce   uint64
	}
	SetBalanceCmd struct {
		Address thor.Address
		Balance *uint256.Int
	}
	SetCodeCmd struct {
		Address thor.Address
		Code    []byte
	}
	SetStorageAtCmd struct {
		Address thor.Address
		Key     thor.Bytes32
		Value   thor.Bytes32
	}
	IncreaseTimeCmd struct {
		Delta uint64
	}
	SetTimeCmd struct {
		Timestamp uint64
	}
	SetNextBlockTimestampCmd struct {
		Timestamp uint64
	}
	SetBlockTimestampIntervalCmd struct {
		Seconds uint64
	}
	RemoveBlockTimestampIntervalCmd struct{}
	CurrentTimestampCmd             struct{}
	DropTransactionCmd              struct {
		Hash thor.Bytes32
	}
	DropAllTransactionsCmd    struct{}
	RemovePoolTransactionsCmd struct {
		Address thor.Address
	}
	SetAutoMineCmd struct {
		Enabled bool
	}
	GetAutoMineCmd       struct{}
	SetIntervalMiningCmd struct {
		Seconds uint64
	}
	GetIntervalMiningCmd struct{}
	SetChainIDCmd        struct {
		ChainID uint64
	}
	ImpersonateCmd struct {
		Address thor.Address
	}
	StopImpersonatingCmd struct {
		Address thor.Address
	}
	SetAutoImpersonateCmd struct {
		Enabled bool
	}
	ResetCmd     struct{}
	DumpStateCmd struct{}
	LoadStateCmd struct {
		Data []byte
	}
)

func (SubmitCmd) command() string                       { return "submit" }
func (MineCmd) command() string                         { return "mine" }
func (SnapshotCmd) command() string                     { return "snapshot" }
func (RevertCmd) command() string                       { return "revert" }
func (SetNonceCmd) command() string                     { return "setNonce" }
func (SetBalanceCmd) command() string                   { return "setBalance" }
func (SetCodeCmd) command() string                      { return "setCode" }
func (SetStorageAtCmd) command() string                 { return "setStorageAt" }
func (IncreaseTimeCmd) command() string                 { return "increaseTime" }
func (SetTimeCmd) command() string                      { return "setTime" }
func (SetNextBlockTimestampCmd) command() string        { return "setNextBlockTimestamp" }
func (SetBlockTimestampIntervalCmd) command() string    { return "setBlockTimestampInterval" }
func (RemoveBlockTimestampIntervalCmd) command() string { return "removeBlockTimestampInterval" }
func (CurrentTimestampCmd) command() string             { return "currentTimestamp" }
func (DropTransactionCmd) command() string              { return "dropTransaction" }
func (DropAllTransactionsCmd) command() string          { return "dropAllTransactions" }
func (RemovePoolTransactionsCmd) command() string       { return "removePoolTransactions" }
func (SetAutoMineCmd) command() string                  { return "setAutomine" }
func (GetAutoMineCmd) command() string                  { return "getAutomine" }
func (SetIntervalMiningCmd) command() string            { return "setIntervalMining" }
func (GetIntervalMiningCmd) command() string            { return "getIntervalMining" }
func (SetChainIDCmd) command() string                   { return "setChainId" }
func (ImpersonateCmd) command() string                  { return "impersonateAccount" }
func (StopImpersonatingCmd) command() string            { return "stopImpersonatingAccount" }
func (SetAutoImpersonateCmd) command() string           { return "autoImpersonateAccount" }
func (ResetCmd) command() string                        { return "reset" }
func (DumpStateCmd) command() string                    { return "dumpState" }
func (LoadStateCmd) command() string                    { return "loadState" }

// CommandName returns the method name of cmd.
func CommandName(cmd Command) string {
	return cmd.command()
}

// Execute runs cmd and returns its result:
//
//	SubmitCmd                         *SubmitResult
//	MineCmd                           []*MineResult
//	SnapshotCmd                       uint64
//	RevertCmd                         bool
//	IncreaseTimeCmd, SetTimeCmd       int64
//	CurrentTimestampCmd               uint64
//	RemoveBlockTimestampIntervalCmd   bool
//	DropTransactionCmd                bool
//	RemovePoolTransactionsCmd         int
//	GetAutoMineCmd                    bool
//	GetIntervalMiningCmd              uint64
//	DumpStateCmd                      []byte
//
// Other commands return nil. A revert to an unknown id returns false along with
// ErrSnapshotNotFound. Commands are values, pointers to them are rejected with
// ErrUnknownCommand.
func (n *Node) Execute(cmd Command) (any, error) {
	if cmd == nil {
		return nil, errors.New("nil command")
	}
	res, err := n.execute(cmd)
	if errors.Is(err, ErrUnknownCommand) {
		return nil, err
	}
	metricCommands().AddWithLabel(1, map[string]string{"cmd": cmd.command()})
	return res, err
}

func (n *Node) execute(cmd Command) (any, error) {
	switch cmd := cmd.(type) {
	case SubmitCmd:
		if cmd.Tx == nil {
			return nil, errors.New("nil tx")
		}
		return n.Submit(cmd.Tx)
	case MineCmd:
		return n.MineDetailed(cmd.Blocks, cmd.Interval)
	case SnapshotCmd:
		return n.Snapshot(), nil
	case RevertCmd:
		if !n.Revert(cmd.ID) {
			return false, errors.WithMessagef(ErrSnapshotNotFound, "id %v", cmd.ID)
		}
		return true, nil
	case SetNonceCmd:
		return nil, n.SetNonce(cmd.Address, cmd.Nonce)
	case SetBalanceCmd:
		return nil, n.SetBalance(cmd.Address, cmd.Balance)
	case SetCodeCmd:
		return nil, n.SetCode(cmd.Address, cmd.Code)
	case SetStorageAtCmd:
		return nil, n.SetStorageAt(cmd.Address, cmd.Key, cmd.Value)
	case IncreaseTimeCmd:
		return n.IncreaseTime(cmd.Delta)
	case SetTimeCmd:
		return n.SetTime(cmd.Timestamp)
	case SetNextBlockTimestampCmd:
		n.SetNextBlockTimestamp(cmd.Timestamp)
		return nil, nil
	case SetBlockTimestampIntervalCmd:
		n.SetBlockTimestampInterval(cmd.Seconds)
		return nil, nil
	case RemoveBlockTimestampIntervalCmd:
		return n.RemoveBlockTimestampInterval(), nil
	case CurrentTimestampCmd:
		return n.CurrentTimestamp(), nil
	case DropTransactionCmd:
		return n.DropTransaction(cmd.Hash), nil
	case DropAllTransactionsCmd:
		n.DropAllTransactions()
		return nil, nil
	case RemovePoolTransactionsCmd:
		return n.RemovePoolTransactions(cmd.Address), nil
	case SetAutoMineCmd:
		n.SetAutoMine(cmd.Enabled)
		return nil, nil
	case GetAutoMineCmd:
		return n.AutoMine(), nil
	case SetIntervalMiningCmd:
		n.SetIntervalMining(cmd.Seconds)
		return nil, nil
	case GetIntervalMiningCmd:
		return n.IntervalMining(), nil
	case SetChainIDCmd:
		return nil, n.SetChainID(cmd.ChainID)
	case ImpersonateCmd:
		n.Impersonate(cmd.Address)
		return nil, nil
	case StopImpersonatingCmd:
		n.StopImpersonating(cmd.Address)
		return nil, nil
	case SetAutoImpersonateCmd:
		n.SetAutoImpersonate(cmd.Enabled)
		return nil, nil
	case ResetCmd:
		return nil, n.Reset()
	case DumpStateCmd:
		return n.DumpState()
	case LoadStateCmd:
		return nil, n.LoadState(cmd.Data)
	default:
		return nil, errors.WithMessagef(ErrUnknownCommand, "%T", cmd)
	}
}
