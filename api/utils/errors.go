// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"github.com/pkg/errors"

	"github.com/vechain/devnode/node"
)

// NodeError maps an error returned by the node to its http status.
// Faults and unknown errors are passed through and answered with 500.
func NodeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, node.ErrSenderNotAllowed):
		return Forbidden(err)
	case node.IsRejected(err), node.IsStructural(err):
		return BadRequest(err)
	case node.IsNotFound(err):
		return NotFound(err)
	}
	return err
}
