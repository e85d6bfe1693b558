// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tdrop

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Amount is a 256-bit unsigned amount, written as decimal or 0x-prefixed hex.
type Amount uint256.Int

// NewAmount creates an amount from v.
func NewAmount(v *uint256.Int) *Amount {
	return (*Amount)(v.Clone())
}

// Int returns a copy of the amount, zero for nil.
func (a *Amount) Int() *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return (*uint256.Int)(a).Clone()
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	v := uint256.Int(a)
	return []byte(v.Dec()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	s := strings.ReplaceAll(strings.TrimSpace(string(text)), "_", "")
	var (
		v   *uint256.Int
		err error
	)
	if s == "" {
		return errors.New("empty amount")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := strings.TrimLeft(s[2:], "0")
		switch {
		case digits != "":
			v, err = uint256.FromHex("0x" + digits)
		case s[2:] != "":
			v = new(uint256.Int)
		default:
			err = errors.New("empty hex")
		}
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return errors.Wrapf(err, "invalid amount %q", string(text))
	}
	*a = Amount(*v)
	return nil
}
