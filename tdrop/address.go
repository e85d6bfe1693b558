// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tdrop

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// AddressLength is the size of an account address in bytes.
const AddressLength = common.AddressLength

// Address identifies a participant, a delegate or a native component.
type Address common.Address

func (a Address) String() string { return encodeFixed(a[:]) }

func (a Address) Bytes() []byte { return a[:] }

// IsZero reports the zero address, which means "self" in delegation.
func (a Address) IsZero() bool { return a == Address{} }

func (a *Address) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var parsed Address
	if err := unmarshalFixed(data, parsed[:]); err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText lets addresses key JSON maps and appear as yaml scalars.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses 40 hex digits with an optional 0x prefix.
func ParseAddress(s string) (addr Address, err error) {
	if err := decodeFixed(s, addr[:]); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// MustParseAddress is ParseAddress for constants. It panics on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress keeps the rightmost AddressLength bytes of b, left padding shorter input.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}
