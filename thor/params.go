// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// Constants of the emulated chain.
const (
	DefaultChainID        uint64 = 1337
	DefaultGasLimit       uint64 = 30 * 1000 * 1000 // block gas limit
	DefaultMaxTxsPerBlock        = 1000
	DefaultPoolLimit             = 10000
	DefaultPoolPerAccount        = 128

	TxGas                 uint64 = params.TxGas
	TxGasContractCreation uint64 = params.TxGasContractCreation

	MaxTxDataSize = 128 * 1024
)

// InitialDevBalance is the balance each pre-funded dev account starts with (10^25 wei).
var InitialDevBalance = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(25))
