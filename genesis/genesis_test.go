// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/genesis"
	"github.com/thetatoken/tdrop-governance/lvldb"
	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

func TestDevnet(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gene := genesis.NewDevnet()
	assert.Equal(t, "devnet", gene.Name())
	assert.Equal(t, gene.ID(), genesis.NewDevnet().ID())

	st, blockCtx, events, err := gene.Build(db)
	require.NoError(t, err)
	require.NoError(t, st.Commit(db.NewBatch()))
	assert.Equal(t, uint32(0), blockCtx.Number)
	assert.Equal(t, gene.Config().Timestamp, blockCtx.Time)
	assert.NotEmpty(t, events)

	// reload from the committed db
	n := builtin.Bind(xenv.New(state.New(db), &xenv.BlockContext{Number: 1, Time: blockCtx.Time + 6}), nil)

	oneMillion := new(uint256.Int).Mul(uint256.NewInt(1_000_000), uint256.NewInt(1e18))
	for _, a := range genesis.DevAccounts() {
		bal, err := n.Token().BalanceOf(a.Address)
		require.NoError(t, err)
		assert.Equal(t, oneMillion, bal)
	}
	total, err := n.Token().TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, new(uint256.Int).Mul(oneMillion, uint256.NewInt(uint64(len(genesis.DevAccounts())))), total)

	r := n.Roles()
	for _, tc := range []struct {
		role    roles.Role
		account string
		holder  bool
	}{
		{roles.Minter, "pool", true},
		{roles.SuperAdmin, "timelock", true},
		{roles.Admin, "timelock", true},
		{roles.Admin, "guardian", true},
		{roles.Operator, "guardian", true},
		{roles.SuperAdmin, "guardian", false},
		{roles.Minter, "guardian", false},
	} {
		account := genesis.DevAccounts()[0].Address
		switch tc.account {
		case "pool":
			account = builtin.Pool.Address
		case "timelock":
			account = builtin.Timelock.Address
		}
		has, err := r.HasRole(account, tc.role)
		require.NoError(t, err)
		assert.Equal(t, tc.holder, has, "%v %v", tc.account, tc.role)
	}

	admin, err := n.Timelock().Admin()
	require.NoError(t, err)
	assert.Equal(t, builtin.Governor.Address, admin)

	params, err := n.Governor().Params()
	require.NoError(t, err)
	assert.Equal(t, uint32(100), params.VotingPeriod)
	assert.Equal(t, gene.Config().Governor.QuorumVotes.Int(), params.QuorumVotes)

	summary, err := n.Pool().Summary()
	require.NoError(t, err)
	assert.True(t, summary.EmissionStarted)
	assert.True(t, summary.Active)
	assert.Equal(t, uint32(1), summary.LastRewardHeight)
	assert.Equal(t, uint64(4e18), summary.RewardPerBlock.Uint64())
}

func TestParseConfig(t *testing.T) {
	doc := `
timestamp: 1000
roles:
  - role: admin
    account: "0x0000000000000000000000000000000000000a01"
balances:
  - address: "0x0000000000000000000000000000000000000a01"
    amount: 1_000
  - address: "0x0000000000000000000000000000000000000a02"
    amount: "0x64"
token:
  maxSupply: 5000
pool:
  rewardPerBlock: 7
governor:
  votingDelay: 1
  votingPeriod: 10
  proposalThreshold: 10
  quorumVotes: 0x00
  proposalMaxOperations: 3
timelock:
  delay: 100
  gracePeriod: 50
  minimumDelay: 10
  maximumDelay: 1000
`
	cfg, err := genesis.ParseConfig([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), cfg.Timestamp)
	require.Len(t, cfg.Roles, 1)
	assert.Equal(t, roles.Admin, cfg.Roles[0].Role)
	require.Len(t, cfg.Balances, 2)
	assert.Equal(t, uint64(1000), cfg.Balances[0].Amount.Int().Uint64())
	assert.Equal(t, uint64(100), cfg.Balances[1].Amount.Int().Uint64())
	assert.Equal(t, uint64(5000), cfg.Token.MaxSupply.Int().Uint64())
	assert.Nil(t, cfg.Pool.EmissionStart)
	assert.True(t, cfg.Governor.QuorumVotes.Int().IsZero())

	data, err := cfg.Marshal()
	require.NoError(t, err)
	again, err := genesis.ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	gene, err := genesis.New("custom", cfg)
	require.NoError(t, err)
	assert.NotEqual(t, genesis.NewDevnet().ID(), gene.ID())
	st, _, _, err := gene.Build(db)
	require.NoError(t, err)
	require.NoError(t, st.Commit(db.NewBatch()))

	n := builtin.Bind(xenv.New(state.New(db), &xenv.BlockContext{Number: 1, Time: 1006}), nil)
	summary, err := n.Pool().Summary()
	require.NoError(t, err)
	assert.False(t, summary.EmissionStarted)
	assert.True(t, summary.Paused)
	maxSupply, err := n.Token().MaxSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), maxSupply.Uint64())
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *genesis.Config)
	}{
		{"zero voting period", func(c *genesis.Config) { c.Governor.VotingPeriod = 0 }},
		{"zero max operations", func(c *genesis.Config) { c.Governor.ProposalMaxOperations = 0 }},
		{"zero voting delay", func(c *genesis.Config) { c.Governor.VotingDelay = 0 }},
		{"voting period above maximum", func(c *genesis.Config) { c.Governor.VotingPeriod = tdrop.MaxVotingPeriod + 1 }},
		{"delay below minimum", func(c *genesis.Config) { c.Timelock.Delay = c.Timelock.MinimumDelay - 1 }},
		{"delay above maximum", func(c *genesis.Config) { c.Timelock.Delay = c.Timelock.MaximumDelay + 1 }},
		{"supply above cap", func(c *genesis.Config) { c.Token.MaxSupply = tdrop.NewAmount(uint256.NewInt(1)) }},
		{"missing amount", func(c *genesis.Config) { c.Balances[0].Amount = nil }},
		{"invalid role", func(c *genesis.Config) { c.Roles[0].Role = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := genesis.DevConfig()
			tt.modify(cfg)
			_, err := genesis.New("bad", cfg)
			assert.Error(t, err)
		})
	}

	_, err := genesis.ParseConfig([]byte("balances:\n  - address: 0x01\n    amount: 1\n"))
	assert.Error(t, err)
	_, err = genesis.ParseConfig([]byte("pool:\n  rewardPerBlock: -1\n"))
	assert.Error(t, err)
}
