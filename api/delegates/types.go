// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegates

import (
	"github.com/thetatoken/tdrop-governance/builtin/checkpoints"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

type Checkpoint struct {
	Height uint32        `json:"height"`
	Weight *tdrop.Amount `json:"weight"`
}

func convertCheckpoint(cp *checkpoints.Checkpoint) *Checkpoint {
	return &Checkpoint{
		Height: cp.Height,
		Weight: tdrop.NewAmount(cp.Weight),
	}
}

// Delegation shows whom an account delegates to and the weight delegated to it.
// A nil Delegate means the account votes with its own shares.
type Delegation struct {
	Delegate    *tdrop.Address `json:"delegate"`
	Weight      *tdrop.Amount  `json:"weight"`
	Checkpoints []*Checkpoint  `json:"checkpoints"`
}

type DelegateRequest struct {
	Delegator tdrop.Address `json:"delegator"`
	Delegatee tdrop.Address `json:"delegatee"`
}
