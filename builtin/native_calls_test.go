// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/lvldb"
	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

func newNatives(t *testing.T) *Natives {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	n := Bind(xenv.New(state.New(db), &xenv.BlockContext{Number: 1, Time: 10}), nil)
	for _, role := range []roles.Role{roles.SuperAdmin, roles.Admin, roles.Operator} {
		require.NoError(t, n.Roles().Setup(role, Timelock.Address))
	}
	require.NoError(t, n.Token().Mint(Timelock.Address, uint256.NewInt(100)))
	return n
}

func TestContracts(t *testing.T) {
	assert.Equal(t, tdrop.BytesToAddress([]byte("Pool")), Pool.Address)
	assert.Equal(t, "Pool", Pool.Name())
	assert.Equal(t, Governor, ContractByAddress(Governor.Address))
	assert.Nil(t, ContractByAddress(tdrop.BytesToAddress([]byte("nobody"))))
	assert.Len(t, Contracts(), 5)

	assert.Equal(t, []string{"setDelay(uint64)"}, NativeSignatures(Timelock.Address))
	assert.Contains(t, NativeSignatures(Pool.Address), "startEmission(uint32)")
}

func TestCallWithSignature(t *testing.T) {
	n := newNatives(t)
	bob := tdrop.BytesToAddress([]byte("bob"))

	data, err := EncodeCall("transfer(address,uint256)", common.Address(bob), big.NewInt(40))
	require.NoError(t, err)
	require.NoError(t, n.Call(Timelock.Address, Token.Address, "transfer(address,uint256)", data))

	bal, err := n.Token().BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), bal.Uint64())
}

func TestCallWithSelector(t *testing.T) {
	n := newNatives(t)

	data, err := EncodeCallWithSelector("setRewardPerBlock(uint256)", big.NewInt(3))
	require.NoError(t, err)
	require.NoError(t, n.Call(Timelock.Address, Pool.Address, "", data))

	s, err := n.Pool().Summary()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), s.RewardPerBlock.Uint64())

	data, err = EncodeCallWithSelector("startEmission(uint32)", uint32(5))
	require.NoError(t, err)
	require.NoError(t, n.Call(Timelock.Address, Pool.Address, "", data))

	data, err = EncodeCallWithSelector("grantRole(uint8,address)", uint8(roles.Operator), common.Address(Governor.Address))
	require.NoError(t, err)
	require.NoError(t, n.Call(Timelock.Address, Roles.Address, "", data))
	ok, err := n.Roles().HasRole(Governor.Address, roles.Operator)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, n.Call(Timelock.Address, Token.Address, "pause()", nil))
	paused, err := n.Token().IsPaused()
	require.NoError(t, err)
	assert.True(t, paused)
}

func TestCallArrayArguments(t *testing.T) {
	n := newNatives(t)
	bob := tdrop.BytesToAddress([]byte("bob"))
	carol := tdrop.BytesToAddress([]byte("carol"))

	require.NoError(t, n.Roles().Grant(Timelock.Address, roles.Airdropper, Timelock.Address))
	data, err := EncodeCall("airdrop(address[],uint256[])",
		[]common.Address{common.Address(bob), common.Address(carol)},
		[]*big.Int{big.NewInt(7), big.NewInt(9)})
	require.NoError(t, err)
	require.NoError(t, n.Call(Timelock.Address, Token.Address, "airdrop(address[],uint256[])", data))

	bal, err := n.Token().BalanceOf(carol)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), bal.Uint64())
	dropped, err := n.Token().Airdropped()
	require.NoError(t, err)
	assert.Equal(t, uint64(16), dropped.Uint64())
}

func TestCallErrors(t *testing.T) {
	n := newNatives(t)

	assert.ErrorIs(t, n.Call(Timelock.Address, Pool.Address, "", []byte{1, 2}), reverts.ErrInvalidArgument)
	assert.ErrorIs(t, n.Call(Timelock.Address, tdrop.BytesToAddress([]byte("x")), "pause()", nil), reverts.ErrInvalidArgument)
	assert.ErrorIs(t, n.Call(Timelock.Address, Pool.Address, "selfDestruct()", nil), reverts.ErrInvalidArgument)
	// truncated arguments
	assert.ErrorIs(t, n.Call(Timelock.Address, Pool.Address, "setRewardPerBlock(uint256)", []byte{1}), reverts.ErrInvalidArgument)

	// the callee's own checks apply to the caller
	data, err := EncodeCall("setRewardPerBlock(uint256)", big.NewInt(3))
	require.NoError(t, err)
	err = n.Call(tdrop.BytesToAddress([]byte("bob")), Pool.Address, "setRewardPerBlock(uint256)", data)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
}

func TestMustParseArguments(t *testing.T) {
	assert.Len(t, mustParseArguments("pause()"), 0)
	assert.Len(t, mustParseArguments("grantRole(uint8,address)"), 2)
	assert.Panics(t, func() { mustParseArguments("bad") })
	assert.Panics(t, func() { mustParseArguments("f(notatype)") })
}
