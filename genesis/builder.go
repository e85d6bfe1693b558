// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/kv"
	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/xenv"
)

// Builder helper to build genesis state.
type Builder struct {
	timestamp  uint64
	stateProcs []func(n *builtin.Natives) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process.
func (b *Builder) State(proc func(n *builtin.Natives) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build runs the state processes on an empty state at height 0. The returned state is not
// committed, so the caller can write it along with its own records.
func (b *Builder) Build(db kv.Getter) (*state.State, *xenv.BlockContext, []*xenv.Event, error) {
	st := state.New(db)
	blockCtx := &xenv.BlockContext{Number: 0, Time: b.timestamp}
	natives := builtin.Bind(xenv.New(st, blockCtx), nil)

	for _, proc := range b.stateProcs {
		if err := proc(natives); err != nil {
			return nil, nil, nil, errors.Wrap(err, "state process")
		}
	}
	return st, blockCtx, natives.Env().TakeEvents(), nil
}
