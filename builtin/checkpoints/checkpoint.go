// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package checkpoints

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/thetatoken/tdrop-governance/tdrop"
)

// Checkpoint is the voting weight of an account as of a block height.
type Checkpoint struct {
	Height uint32
	Weight *uint256.Int
}

type checkpointKey struct {
	account tdrop.Address
	index   uint32
}

func (k checkpointKey) Bytes() []byte {
	return binary.BigEndian.AppendUint32(k.account.Bytes(), k.index)
}

type weightKey struct {
	contract tdrop.Address
	account  tdrop.Address
	height   uint32
}
