// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"github.com/pkg/errors"

	"github.com/vechain/devnode/vm"
)

var (
	errGasLimitReached = errors.New("gas limit reached")
	errKnownTx         = errors.New("known tx")
)

// IsGasLimitReached block if full of txs.
func IsGasLimitReached(err error) bool {
	return errors.Is(err, errGasLimitReached)
}

// IsKnownTx the tx is already adopted by the flow.
func IsKnownTx(err error) bool {
	return errors.Is(err, errKnownTx)
}

// IsBadTx not a valid tx.
func IsBadTx(err error) bool {
	return errors.As(err, &badTxError{})
}

type badTxError struct {
	cause *vm.StructuralError
}

func (e badTxError) Error() string {
	return "bad tx: " + e.cause.Reason
}

func (e badTxError) Unwrap() error {
	return e.cause
}
