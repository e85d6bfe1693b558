// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governor_test

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/builtin/governor"
	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/builtin/timelock"
	"github.com/thetatoken/tdrop-governance/lvldb"
	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

var (
	admin = tdrop.BytesToAddress([]byte("admin"))
	alice = tdrop.BytesToAddress([]byte("alice"))
	bob   = tdrop.BytesToAddress([]byte("bob"))
	carol = tdrop.BytesToAddress([]byte("carol"))
)

const (
	tlDelay = 100
	tlGrace = 50
)

type fixture struct {
	t   *testing.T
	env *xenv.Environment
	n   *builtin.Natives
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := xenv.New(state.New(db), &xenv.BlockContext{})
	f := &fixture{t: t, env: env, n: builtin.Bind(env, nil)}
	f.setHeight(1)

	r := f.n.Roles()
	require.NoError(t, r.Setup(roles.SuperAdmin, admin))
	require.NoError(t, r.Setup(roles.Admin, admin))
	require.NoError(t, r.Setup(roles.Minter, builtin.Pool.Address))
	for _, role := range []roles.Role{roles.SuperAdmin, roles.Admin, roles.Operator} {
		require.NoError(t, r.Setup(role, builtin.Timelock.Address))
	}

	require.NoError(t, f.n.Pool().InitUnpaused())

	tk := f.n.Token()
	for _, acc := range []tdrop.Address{alice, bob, carol} {
		require.NoError(t, tk.Mint(acc, uint256.NewInt(1000)))
		require.NoError(t, tk.Approve(acc, builtin.Pool.Address, new(uint256.Int).SetAllOne()))
	}

	require.NoError(t, f.n.Timelock().Init(builtin.Governor.Address, &timelock.Params{
		Delay:        tlDelay,
		GracePeriod:  tlGrace,
		MinimumDelay: 10,
		MaximumDelay: 1000,
	}))
	require.NoError(t, f.n.Governor().Init(&governor.Params{
		VotingDelay:           1,
		VotingPeriod:          5,
		ProposalThreshold:     uint256.NewInt(50),
		QuorumVotes:           uint256.NewInt(100),
		ProposalMaxOperations: 3,
	}))
	return f
}

// setHeight moves to block h, whose time is 1000 + 10*h.
func (f *fixture) setHeight(h uint32) {
	f.env.BlockContext().Number = h
	f.env.BlockContext().Time = 1000 + 10*uint64(h)
}

func (f *fixture) height() uint32 {
	return f.env.BlockContext().Number
}

func (f *fixture) setTime(ts uint64) {
	f.env.BlockContext().Time = ts
}

func (f *fixture) stake(who tdrop.Address, amount uint64) {
	_, err := f.n.Pool().Stake(who, uint256.NewInt(amount))
	require.NoError(f.t, err)
}

func (f *fixture) gov() *governor.Governor {
	return f.n.Governor()
}

func (f *fixture) state(id uint64) governor.State {
	s, err := f.gov().State(id)
	require.NoError(f.t, err)
	return s
}

func (f *fixture) rewardRateAction(rate int64) ([]tdrop.Address, []*uint256.Int, []string, [][]byte) {
	data, err := builtin.EncodeCall("setRewardPerBlock(uint256)", big.NewInt(rate))
	require.NoError(f.t, err)
	return []tdrop.Address{builtin.Pool.Address}, []*uint256.Int{nil}, []string{"setRewardPerBlock(uint256)"}, [][]byte{data}
}

func (f *fixture) propose(who tdrop.Address, rate int64) uint64 {
	targets, values, sigs, datas := f.rewardRateAction(rate)
	id, err := f.gov().Propose(who, targets, values, sigs, datas, "set reward rate")
	require.NoError(f.t, err)
	return id
}

func (f *fixture) vote(who tdrop.Address, id uint64, support bool) uint64 {
	votes, err := f.gov().CastVote(who, id, support)
	require.NoError(f.t, err)
	return votes.Uint64()
}

func (f *fixture) rewardRate() uint64 {
	s, err := f.n.Pool().Summary()
	require.NoError(f.t, err)
	return s.RewardPerBlock.Uint64()
}

// passed stakes for alice, proposes at height 2 and votes it through. It ends at height 9.
func (f *fixture) passed(rate int64) uint64 {
	f.stake(alice, 200)
	f.setHeight(2)
	id := f.propose(alice, rate)
	f.setHeight(4)
	f.vote(alice, id, true)
	f.setHeight(9)
	require.Equal(f.t, governor.Succeeded, f.state(id))
	return id
}
