// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"fmt"

	"github.com/pkg/errors"
)

var errKnownTx = txRejectedError{"known transaction"}

// txRejectedError is returned when a valid tx cannot be held by the pool.
type txRejectedError struct {
	msg string
}

func (e txRejectedError) Error() string {
	return "tx rejected: " + e.msg
}

// badTxError is returned when a tx is malformed.
type badTxError struct {
	msg string
}

func (e badTxError) Error() string {
	return "bad tx: " + e.msg
}

// IsBadTx returns whether the error is caused by a malformed tx.
func IsBadTx(err error) bool {
	var e badTxError
	return errors.As(err, &e)
}

// IsTxRejected returns whether the tx is rejected by the pool.
func IsTxRejected(err error) bool {
	var e txRejectedError
	return errors.As(err, &e)
}

// IsKnownTx returns whether the tx is already pending.
func IsKnownTx(err error) bool {
	return errors.Is(err, errKnownTx)
}

func rejectf(format string, args ...any) error {
	return txRejectedError{fmt.Sprintf(format, args...)}
}
