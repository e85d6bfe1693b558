// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/genesis"
	"github.com/thetatoken/tdrop-governance/lvldb"
	"github.com/thetatoken/tdrop-governance/runtime"
	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/xenv"
)

func newRuntime(t *testing.T) *runtime.Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st, blockCtx, _, err := genesis.NewDevnet().Build(db)
	require.NoError(t, err)
	require.NoError(t, st.Commit(db.NewBatch()))
	return runtime.New(state.New(db), &xenv.BlockContext{Number: 1, Time: blockCtx.Time + 6}, nil)
}

func mustEncode(t *testing.T, sig string, args ...any) []byte {
	data, err := builtin.EncodeCall(sig, args...)
	require.NoError(t, err)
	return data
}

func TestOperations(t *testing.T) {
	rt := newRuntime(t)
	alice := genesis.DevAccounts()[1].Address
	bob := genesis.DevAccounts()[2].Address

	require.NoError(t, rt.Approve(alice, builtin.Pool.Address, uint256.NewInt(1000)))
	shares, err := rt.Stake(alice, uint256.NewInt(400))
	require.NoError(t, err)
	assert.Equal(t, uint64(400), shares.Uint64())

	events := rt.TakeEvents()
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "Approval")
	assert.Contains(t, names, "Staked")

	// a failed operation leaves neither state changes nor events behind
	_, err = rt.Stake(alice, uint256.NewInt(601))
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)
	assert.Empty(t, rt.TakeEvents())
	vault, err := rt.Natives().Pool().VaultBalance()
	require.NoError(t, err)
	assert.Equal(t, uint64(400), vault.Uint64())

	require.NoError(t, rt.Delegate(alice, bob))
	delegate, err := rt.Natives().Pool().Checkpoints().DelegateOf(alice)
	require.NoError(t, err)
	assert.Equal(t, bob, delegate)

	payout, err := rt.Unstake(alice, uint256.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(100), payout.Uint64())

	require.NoError(t, rt.Transfer(alice, bob, uint256.NewInt(1)))
	_, err = rt.EmitRewards()
	require.NoError(t, err)

	_, err = rt.CastVote(alice, 1, true)
	assert.ErrorIs(t, err, reverts.ErrInvalidArgument)
	assert.ErrorIs(t, rt.ExecuteProposal(1), reverts.ErrInvalidArgument)
}

func TestExecuteRequest(t *testing.T) {
	rt := newRuntime(t)
	alice := genesis.DevAccounts()[1].Address

	allowance := func() uint64 {
		v, err := rt.Natives().Token().Allowance(alice, builtin.Pool.Address)
		require.NoError(t, err)
		return v.Uint64()
	}

	receipt, err := rt.ExecuteRequest(&runtime.Request{
		Origin: alice,
		Clauses: []*runtime.Clause{
			{To: builtin.Token.Address, Signature: "approve(address,uint256)", Data: mustEncode(t, "approve(address,uint256)", builtin.Pool.Address, big.NewInt(50))},
			{To: builtin.Pool.Address, Signature: "stake(uint256)", Data: mustEncode(t, "stake(uint256)", big.NewInt(50))},
		},
	})
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	assert.NotEmpty(t, receipt.Events)
	shares, err := rt.Natives().Pool().SharesOf(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), shares.Uint64())
	assert.Equal(t, uint64(0), allowance())

	// the approval of the first clause is rolled back with the failing second one
	receipt, err = rt.ExecuteRequest(&runtime.Request{
		Origin: alice,
		Clauses: []*runtime.Clause{
			{To: builtin.Token.Address, Signature: "approve(address,uint256)", Data: mustEncode(t, "approve(address,uint256)", builtin.Pool.Address, big.NewInt(10))},
			{To: builtin.Pool.Address, Signature: "stake(uint256)", Data: mustEncode(t, "stake(uint256)", big.NewInt(11))},
		},
	})
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "InsufficientBalance", receipt.RevertKind)
	assert.Empty(t, receipt.Events)
	assert.Equal(t, uint64(0), allowance())

	receipt, err = rt.ExecuteRequest(&runtime.Request{
		Origin:  alice,
		Clauses: []*runtime.Clause{{To: builtin.Pool.Address, Signature: "mint(uint256)"}},
	})
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "InvalidArgument", receipt.RevertKind)

	_, err = rt.ExecuteRequest(&runtime.Request{Origin: alice})
	assert.Error(t, err)
}
