// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/devnode/state"
	"github.com/vechain/devnode/thor"
)

// CustomGenesis is user customized genesis. It is read from YAML, which also accepts JSON.
type CustomGenesis struct {
	LaunchTime uint64    `json:"launchTime" yaml:"launchTime"`
	GasLimit   uint64    `json:"gaslimit" yaml:"gaslimit"`
	ExtraData  string    `json:"extraData" yaml:"extraData"`
	Accounts   []Account `json:"accounts" yaml:"accounts"`
}

// Account is the account will set to the genesis block
type Account struct {
	Address thor.Address      `json:"address" yaml:"address"`
	Balance *HexOrDecimal256  `json:"balance" yaml:"balance"`
	Nonce   uint64            `json:"nonce" yaml:"nonce"`
	Code    string            `json:"code" yaml:"code"`
	Storage map[string]string `json:"storage" yaml:"storage"`
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
type HexOrDecimal256 math.HexOrDecimal256

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *HexOrDecimal256) UnmarshalText(input []byte) error {
	return (*math.HexOrDecimal256)(i).UnmarshalText(input)
}

// MarshalText implements encoding.TextMarshaler.
func (i HexOrDecimal256) MarshalText() ([]byte, error) {
	v := math.HexOrDecimal256(i)
	return v.MarshalText()
}

// LoadCustomGenesis reads a custom genesis file.
func LoadCustomGenesis(path string) (*CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return ParseCustomGenesis(data)
}

// ParseCustomGenesis decodes a custom genesis document.
func ParseCustomGenesis(data []byte) (*CustomGenesis, error) {
	var gen CustomGenesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &gen, nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.LaunchTime == 0 {
		return nil, errors.New("launchTime must be set")
	}
	gasLimit := gen.GasLimit
	if gasLimit == 0 {
		gasLimit = thor.DefaultGasLimit
	}

	var extra [28]byte
	if gen.ExtraData != "" {
		if len(gen.ExtraData) > len(extra) {
			return nil, errors.New("extraData should not exceed 28 bytes")
		}
		copy(extra[len(extra)-len(gen.ExtraData):], gen.ExtraData)
	}

	var addrs []thor.Address
	for _, a := range gen.Accounts {
		addrs = append(addrs, a.Address)
	}

	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		GasLimit(gasLimit).
		ExtraData(extra).
		State(func(diff *state.Diff) error {
			seen := make(map[thor.Address]bool)
			for _, a := range gen.Accounts {
				if seen[a.Address] {
					return errors.Errorf("%v: duplicated account", a.Address)
				}
				seen[a.Address] = true
				if err := allocAccount(diff, &a); err != nil {
					return errors.WithMessage(err, a.Address.String())
				}
			}
			return nil
		})

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, "customnet", addrs}, nil
}

func allocAccount(diff *state.Diff, a *Account) error {
	if a.Balance == nil {
		return errors.New("balance must be set")
	}
	b := (*big.Int)(a.Balance)
	if b.Sign() < 0 {
		return errors.New("balance must not be negative")
	}
	balance, overflow := uint256.FromBig(b)
	if overflow {
		return errors.New("balance overflows 256 bits")
	}
	diff.SetBalance(a.Address, balance)

	if a.Nonce > 0 {
		diff.SetNonce(a.Address, a.Nonce)
	}

	if len(a.Code) > 0 {
		code, err := hexutil.Decode(a.Code)
		if err != nil {
			return errors.Wrap(err, "invalid code")
		}
		diff.SetCode(a.Address, code)
	}

	for k, v := range a.Storage {
		key, err := thor.ParseBytes32(strings.TrimSpace(k))
		if err != nil {
			return errors.Wrapf(err, "invalid storage key %q", k)
		}
		value, err := thor.ParseBytes32(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "invalid storage value %q", v)
		}
		diff.SetStorage(a.Address, key, value)
	}
	return nil
}
