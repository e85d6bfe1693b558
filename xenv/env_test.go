// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/lvldb"
	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

func newEnv(t *testing.T) *Environment {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(state.New(db), &BlockContext{Number: 10, Time: 1000})
}

func TestAtomicRevert(t *testing.T) {
	env := newEnv(t)
	addr := tdrop.BytesToAddress([]byte("a"))
	key := tdrop.BytesToBytes32([]byte("k"))

	env.Log(addr, "Before", "n", 1)
	err := env.Atomic(func() error {
		env.State().SetRawStorage(addr, key, rlp.RawValue{0x01})
		env.Log(addr, "Inside")
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")

	raw, err := env.State().GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
	require.Len(t, env.Events(), 1)
	assert.Equal(t, "Before", env.Events()[0].Name)

	v, ok := env.Events()[0].Get("n")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestAtomicCommit(t *testing.T) {
	env := newEnv(t)
	addr := tdrop.BytesToAddress([]byte("a"))
	key := tdrop.BytesToBytes32([]byte("k"))

	require.NoError(t, env.Atomic(func() error {
		env.State().SetRawStorage(addr, key, rlp.RawValue{0x01})
		env.Log(addr, "Inside")
		return nil
	}))
	raw, err := env.State().GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue{0x01}, raw)

	evs := env.TakeEvents()
	assert.Len(t, evs, 1)
	assert.Empty(t, env.Events())
	assert.Equal(t, uint32(10), env.BlockContext().Number)
}
