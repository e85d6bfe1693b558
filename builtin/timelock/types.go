// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package timelock

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/thetatoken/tdrop-governance/tdrop"
)

// Action is a call scheduled for execution at ETA.
type Action struct {
	Target    tdrop.Address
	Value     *uint256.Int
	Signature string
	Data      []byte
	ETA       uint64
}

var keyArguments = func() abi.Arguments {
	var args abi.Arguments
	for _, t := range []string{"address", "uint256", "string", "bytes", "uint256"} {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			panic(err)
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args
}()

// Key identifies the action in the queue: the keccak256 of the abi encoded
// (target, value, signature, data, eta).
func (a *Action) Key() tdrop.Bytes32 {
	value := new(big.Int)
	if a.Value != nil {
		value = a.Value.ToBig()
	}
	data := a.Data
	if data == nil {
		data = []byte{}
	}
	packed, err := keyArguments.Pack(common.Address(a.Target), value, a.Signature, data, new(big.Int).SetUint64(a.ETA))
	if err != nil {
		panic(err)
	}
	return tdrop.Keccak256(packed)
}

// Params are the timing bounds of the timelock, in seconds.
type Params struct {
	Delay        uint64
	GracePeriod  uint64
	MinimumDelay uint64
	MaximumDelay uint64
}

// DefaultParams returns the default timing bounds.
func DefaultParams() *Params {
	return &Params{
		Delay:        tdrop.DefaultTimelockDelay,
		GracePeriod:  tdrop.DefaultGracePeriod,
		MinimumDelay: tdrop.DefaultMinimumDelay,
		MaximumDelay: tdrop.DefaultMaximumDelay,
	}
}

// Executor performs a call on behalf of caller.
type Executor interface {
	Call(caller, target tdrop.Address, signature string, data []byte) error
}

// Transferer moves base units.
type Transferer interface {
	Transfer(from, to tdrop.Address, amount *uint256.Int) error
}
