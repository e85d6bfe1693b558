// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"fmt"

	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// Attr is a named event attribute.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is a typed log emitted by a builtin component.
type Event struct {
	Address tdrop.Address `json:"address"`
	Name    string        `json:"name"`
	Attrs   []Attr        `json:"attrs"`
}

// Get returns the value of the attribute with the given key.
func (e *Event) Get(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Environment an env to execute native methods.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	events   []*Event
}

// New create a new env.
func New(state *state.State, blockCtx *BlockContext) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
	}
}

func (env *Environment) State() *state.State         { return env.state }
func (env *Environment) BlockContext() *BlockContext { return env.blockCtx }
func (env *Environment) Events() []*Event            { return env.events }

// Log appends an event. kvs are key/value pairs, values are formatted with %v.
func (env *Environment) Log(addr tdrop.Address, name string, kvs ...any) {
	ev := &Event{Address: addr, Name: name}
	for i := 0; i+1 < len(kvs); i += 2 {
		ev.Attrs = append(ev.Attrs, Attr{
			Key:   fmt.Sprint(kvs[i]),
			Value: fmt.Sprint(kvs[i+1]),
		})
	}
	env.events = append(env.events, ev)
}

// Snapshot marks the current state revision and event count.
func (env *Environment) Snapshot() Snapshot {
	return Snapshot{
		revision: env.state.NewCheckpoint(),
		events:   len(env.events),
	}
}

// Revert drops state changes and events made after the snapshot.
func (env *Environment) Revert(s Snapshot) {
	env.state.RevertTo(s.revision)
	env.events = env.events[:s.events]
}

// TakeEvents returns and clears collected events.
func (env *Environment) TakeEvents() []*Event {
	evs := env.events
	env.events = nil
	return evs
}

// Snapshot is a revert point of an environment.
type Snapshot struct {
	revision int
	events   int
}

// Atomic runs fn and reverts every change it made if it fails.
func (env *Environment) Atomic(fn func() error) error {
	snap := env.Snapshot()
	if err := fn(); err != nil {
		env.Revert(snap)
		return err
	}
	return nil
}
