// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/builtin/solidity"
	"github.com/thetatoken/tdrop-governance/builtin/token"
	"github.com/thetatoken/tdrop-governance/lvldb"
	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

var (
	admin    = tdrop.BytesToAddress([]byte("admin"))
	operator = tdrop.BytesToAddress([]byte("operator"))
	alice    = tdrop.BytesToAddress([]byte("alice"))
	bob      = tdrop.BytesToAddress([]byte("bob"))
	carol    = tdrop.BytesToAddress([]byte("carol"))

	poolAddr = tdrop.BytesToAddress([]byte("Pool"))
)

type testPool struct {
	*Pool
	env   *xenv.Environment
	token *token.Token
}

func newTestPool(t *testing.T) *testPool {
	p := newPausedTestPool(t)
	require.NoError(t, p.Unpause(operator))
	return p
}

func newPausedTestPool(t *testing.T) *testPool {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := xenv.New(state.New(db), &xenv.BlockContext{Number: 1, Time: 10})
	r := roles.New(solidity.NewContext(tdrop.BytesToAddress([]byte("Roles")), env))
	require.NoError(t, r.Setup(roles.Admin, admin))
	require.NoError(t, r.Setup(roles.Operator, operator))
	require.NoError(t, r.Setup(roles.Minter, poolAddr))

	tk := token.New(solidity.NewContext(tdrop.BytesToAddress([]byte("Token")), env), r)
	unlimited := new(uint256.Int).SetAllOne()
	for _, acc := range []tdrop.Address{alice, bob, carol} {
		require.NoError(t, tk.Mint(acc, uint256.NewInt(1_000_000)))
		require.NoError(t, tk.Approve(acc, poolAddr, unlimited))
	}
	pool := New(solidity.NewContext(poolAddr, env), tk, r, nil)
	return &testPool{Pool: pool, env: env, token: tk}
}

func (p *testPool) setHeight(h uint32) {
	p.env.BlockContext().Number = h
}

func (p *testPool) stake(t *testing.T, who tdrop.Address, amount uint64) uint64 {
	minted, err := p.Stake(who, uint256.NewInt(amount))
	require.NoError(t, err)
	return minted.Uint64()
}

func (p *testPool) unstake(t *testing.T, who tdrop.Address, shares uint64) uint64 {
	paid, err := p.Unstake(who, uint256.NewInt(shares))
	require.NoError(t, err)
	return paid.Uint64()
}

func (p *testPool) vaultBalance(t *testing.T) uint64 {
	v, err := p.VaultBalance()
	require.NoError(t, err)
	return v.Uint64()
}

func (p *testPool) totalShares(t *testing.T) uint64 {
	v, err := p.TotalShares()
	require.NoError(t, err)
	return v.Uint64()
}

func (p *testPool) sharesOf(t *testing.T, who tdrop.Address) uint64 {
	v, err := p.SharesOf(who)
	require.NoError(t, err)
	return v.Uint64()
}

func (p *testPool) balanceOf(t *testing.T, who tdrop.Address) uint64 {
	v, err := p.token.BalanceOf(who)
	require.NoError(t, err)
	return v.Uint64()
}

// donate moves units straight into the vault, growing the share price without minting shares.
func (p *testPool) donate(t *testing.T, from tdrop.Address, amount uint64) {
	require.NoError(t, p.token.Transfer(from, poolAddr, uint256.NewInt(amount)))
}
