// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// An empty slot reads as zero.
type Uint256 struct {
	raw *Raw[*uint256.Int]
}

func NewUint256(context *Context, pos tdrop.Bytes32) *Uint256 {
	return &Uint256{raw: NewRaw[*uint256.Int](context, pos)}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	v, err := u.raw.Get()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(uint256.Int), nil
	}
	return v, nil
}

func (u *Uint256) Set(value *uint256.Int) error {
	return u.raw.Upsert(value)
}

// Add adds value, failing on overflow.
func (u *Uint256) Add(value *uint256.Int) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	if _, overflow := v.AddOverflow(v, value); overflow {
		return reverts.ErrArithmeticOverflow
	}
	return u.Set(v)
}

// Sub subtracts value, failing on underflow.
func (u *Uint256) Sub(value *uint256.Int) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	if _, underflow := v.SubOverflow(v, value); underflow {
		return reverts.ErrArithmeticOverflow
	}
	return u.Set(v)
}
