// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tdrop

import (
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// Blake2b hashes the concatenation of data. It derives block ids, genesis
// ids and storage slots.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	h, _ := blake2b.New256(nil)
	for _, b := range data {
		h.Write(b)
	}
	var out Bytes32
	h.Sum(out[:0])
	return out
}

// Keccak256 hashes the concatenation of data. It derives timelock action
// keys and method selectors.
func Keccak256(data ...[]byte) Bytes32 {
	return Bytes32(crypto.Keccak256Hash(data...))
}

// Selector returns the 4-byte method id of a canonical signature such as "setDelay(uint256)".
func Selector(signature string) (id [4]byte) {
	h := Keccak256([]byte(signature))
	copy(id[:], h[:4])
	return
}
