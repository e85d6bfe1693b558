// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

func TestBootstrapAndProRataStake(t *testing.T) {
	p := newTestPool(t)

	assert.Equal(t, uint64(100), p.stake(t, alice, 100))
	// vault doubles without new shares
	p.donate(t, carol, 100)
	assert.Equal(t, uint64(50), p.stake(t, bob, 100))

	assert.Equal(t, uint64(150), p.totalShares(t))
	assert.Equal(t, uint64(300), p.vaultBalance(t))

	price, err := p.SharePrice()
	require.NoError(t, err)
	assert.Equal(t, "2000000000000000000", price.Dec())
}

func TestStakeUnstakeErrors(t *testing.T) {
	p := newTestPool(t)

	_, err := p.Stake(alice, new(uint256.Int))
	assert.ErrorIs(t, err, reverts.ErrZeroAmount)
	_, err = p.Unstake(alice, new(uint256.Int))
	assert.ErrorIs(t, err, reverts.ErrZeroAmount)
	_, err = p.Unstake(alice, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrInsufficientShares)

	// balance shortfall surfaces the ledger error unchanged
	_, err = p.Stake(alice, uint256.NewInt(2_000_000))
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)

	p.stake(t, alice, 10)
	_, err = p.Unstake(alice, uint256.NewInt(11))
	assert.ErrorIs(t, err, reverts.ErrInsufficientShares)

	// a deposit worth less than one share mints nothing
	p.donate(t, carol, 1000)
	_, err = p.Stake(bob, uint256.NewInt(50))
	assert.ErrorIs(t, err, reverts.ErrZeroAmount)
}

func TestPaused(t *testing.T) {
	p := newTestPool(t)
	p.stake(t, alice, 100)

	assert.ErrorIs(t, p.Pause(alice), reverts.ErrUnauthorized)
	require.NoError(t, p.Pause(operator))
	active, err := p.IsActive()
	require.NoError(t, err)
	assert.False(t, active)

	_, err = p.Stake(alice, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrNotActive)
	_, err = p.Unstake(alice, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrNotActive)
	_, err = p.EmitRewards()
	assert.ErrorIs(t, err, reverts.ErrNotActive)

	require.NoError(t, p.Unpause(operator))
	p.stake(t, alice, 1)

	// the ledger switch gates the pool too
	require.NoError(t, p.token.Pause(operator))
	_, err = p.Stake(alice, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrNotActive)
}

func TestRewardEmission(t *testing.T) {
	p := newTestPool(t)
	require.NoError(t, p.SetRewardPerBlock(admin, uint256.NewInt(10)))

	// inactive until started
	p.stake(t, alice, 1000)
	p.setHeight(5)
	minted, err := p.EmitRewards()
	require.NoError(t, err)
	assert.True(t, minted.IsZero())

	assert.ErrorIs(t, p.StartEmission(admin, 4), reverts.ErrInvalidArgument)
	assert.ErrorIs(t, p.StartEmission(alice, 5), reverts.ErrUnauthorized)
	require.NoError(t, p.StartEmission(admin, 5))
	assert.ErrorIs(t, p.StartEmission(admin, 6), reverts.ErrWrongState)

	p.setHeight(12)
	pending, err := p.PendingRewards()
	require.NoError(t, err)
	assert.Equal(t, uint64(70), pending.Uint64())

	minted, err = p.EmitRewards()
	require.NoError(t, err)
	assert.Equal(t, uint64(70), minted.Uint64())
	assert.Equal(t, uint64(1070), p.vaultBalance(t))
	assert.Equal(t, uint64(1000), p.totalShares(t))

	// same block emits nothing more
	minted, err = p.EmitRewards()
	require.NoError(t, err)
	assert.True(t, minted.IsZero())

	// unstake pays floor(s*V/T) after emission in the same call
	p.setHeight(15)
	paid := p.unstake(t, alice, 333)
	assert.Equal(t, uint64(333*1100/1000), paid)
}

func TestRewardsGoToExistingHolders(t *testing.T) {
	p := newTestPool(t)
	require.NoError(t, p.SetRewardPerBlock(admin, uint256.NewInt(100)))
	require.NoError(t, p.StartEmission(admin, 1))
	p.stake(t, alice, 1000)

	p.setHeight(11)
	// 1000 reward is emitted before bob's shares are priced
	assert.Equal(t, uint64(500), p.stake(t, bob, 1000))
	assert.Equal(t, uint64(3000), p.vaultBalance(t))
}

func TestEmissionWithoutShares(t *testing.T) {
	p := newTestPool(t)
	require.NoError(t, p.SetRewardPerBlock(admin, uint256.NewInt(10)))
	require.NoError(t, p.StartEmission(admin, 1))

	p.setHeight(6)
	pending, err := p.PendingRewards()
	require.NoError(t, err)
	assert.Equal(t, uint64(50), pending.Uint64())

	minted, err := p.EmitRewards()
	require.NoError(t, err)
	assert.Equal(t, uint64(50), minted.Uint64())
	assert.Equal(t, uint64(50), p.vaultBalance(t))

	s, err := p.Summary()
	require.NoError(t, err)
	assert.Equal(t, uint32(6), s.LastRewardHeight)
	assert.True(t, s.PendingRewards.IsZero())
}

// the first staker after emission starts gets shares 1:1 on top of the rewards already in the vault.
func TestFirstStakerAfterEmissionStart(t *testing.T) {
	p := newTestPool(t)
	require.NoError(t, p.SetRewardPerBlock(admin, uint256.NewInt(10)))
	require.NoError(t, p.StartEmission(admin, 1))

	p.setHeight(6)
	assert.Equal(t, uint64(100), p.stake(t, alice, 100))
	assert.Equal(t, uint64(150), p.vaultBalance(t))

	p.setHeight(8)
	// vault before bob's deposit is 150 + 20
	assert.Equal(t, uint64(100*100/170), p.stake(t, bob, 100))
	assert.Equal(t, uint64(270), p.vaultBalance(t))

	p.setHeight(9)
	// 158 shares against a vault of 270 + 10
	assert.Equal(t, uint64(100*158/280), p.stake(t, carol, 100))
}

func TestRewardCapTruncation(t *testing.T) {
	p := newTestPool(t)
	require.NoError(t, p.SetRewardPerBlock(admin, uint256.NewInt(100)))
	require.NoError(t, p.StartEmission(admin, 1))
	p.stake(t, alice, 1000)

	total, err := p.token.TotalSupply()
	require.NoError(t, err)
	require.NoError(t, p.token.SetMaxSupply(admin, new(uint256.Int).AddUint64(total, 250)))

	p.setHeight(11)
	minted, err := p.EmitRewards()
	require.NoError(t, err)
	assert.Equal(t, uint64(250), minted.Uint64())

	s, err := p.Summary()
	require.NoError(t, err)
	assert.Equal(t, uint32(11), s.LastRewardHeight)
	assert.Equal(t, uint64(1250), s.VaultBalance.Uint64())
}

func TestSetRewardPerBlockSettlesFirst(t *testing.T) {
	p := newTestPool(t)
	require.NoError(t, p.SetRewardPerBlock(admin, uint256.NewInt(10)))
	require.NoError(t, p.StartEmission(admin, 1))
	p.stake(t, alice, 1000)

	p.setHeight(6)
	require.NoError(t, p.SetRewardPerBlock(admin, uint256.NewInt(1)))
	assert.Equal(t, uint64(1050), p.vaultBalance(t))

	p.setHeight(8)
	minted, err := p.EmitRewards()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), minted.Uint64())
}

func TestPausedBlocksAccrue(t *testing.T) {
	tests := []struct {
		name    string
		pause   func(p *testPool) error
		unpause func(p *testPool) error
	}{
		{"pool", func(p *testPool) error { return p.Pause(operator) }, func(p *testPool) error { return p.Unpause(operator) }},
		{"ledger", func(p *testPool) error { return p.token.Pause(operator) }, func(p *testPool) error { return p.token.Unpause(operator) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPool(t)
			require.NoError(t, p.SetRewardPerBlock(admin, uint256.NewInt(10)))
			require.NoError(t, p.StartEmission(admin, 1))
			p.stake(t, alice, 1000)

			p.setHeight(3)
			require.NoError(t, tt.pause(p))
			p.setHeight(10)
			pending, err := p.PendingRewards()
			require.NoError(t, err)
			// paused blocks are owed whichever switch caused the pause
			assert.Equal(t, uint64(1090), p.vaultBalance(t)+pending.Uint64())
			require.NoError(t, tt.unpause(p))

			p.setHeight(11)
			_, err = p.EmitRewards()
			require.NoError(t, err)
			assert.Equal(t, uint64(1100), p.vaultBalance(t))
		})
	}
}

func TestRateChangeWhilePaused(t *testing.T) {
	p := newTestPool(t)
	require.NoError(t, p.SetRewardPerBlock(admin, uint256.NewInt(10)))
	require.NoError(t, p.StartEmission(admin, 1))
	p.stake(t, alice, 1000)

	p.setHeight(3)
	require.NoError(t, p.Pause(operator))
	assert.Equal(t, uint64(1020), p.vaultBalance(t))

	p.setHeight(6)
	require.NoError(t, p.SetRewardPerBlock(admin, uint256.NewInt(1)))
	assert.Equal(t, uint64(1020), p.vaultBalance(t))
	pending, err := p.PendingRewards()
	require.NoError(t, err)
	assert.Equal(t, uint64(30), pending.Uint64())

	p.setHeight(8)
	require.NoError(t, p.Unpause(operator))
	minted, err := p.EmitRewards()
	require.NoError(t, err)
	assert.Equal(t, uint64(32), minted.Uint64())

	pending, err = p.PendingRewards()
	require.NoError(t, err)
	assert.True(t, pending.IsZero())
}

func TestStartsPaused(t *testing.T) {
	p := newPausedTestPool(t)
	paused, err := p.IsPaused()
	require.NoError(t, err)
	assert.True(t, paused)
	_, err = p.Stake(alice, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrNotActive)

	assert.ErrorIs(t, p.Unpause(alice), reverts.ErrUnauthorized)
	require.NoError(t, p.Unpause(operator))
	p.stake(t, alice, 1)
}

func TestEstimates(t *testing.T) {
	p := newTestPool(t)
	require.NoError(t, p.SetRewardPerBlock(admin, uint256.NewInt(100)))
	require.NoError(t, p.StartEmission(admin, 1))
	p.stake(t, alice, 1000)
	p.setHeight(11)

	est, err := p.EstimateShares(uint256.NewInt(1000))
	require.NoError(t, err)
	payout, err := p.EstimatePayout(uint256.NewInt(500))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), payout.Uint64())

	assert.Equal(t, est.Uint64(), p.stake(t, bob, 1000))
}

func TestVotingWeightFollowsShares(t *testing.T) {
	p := newTestPool(t)
	p.stake(t, alice, 100)
	require.NoError(t, p.Delegate(alice, bob))
	p.stake(t, alice, 20)

	w, err := p.Checkpoints().CurrentWeight(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(120), w.Uint64())

	p.unstake(t, alice, 50)
	w, err = p.Checkpoints().CurrentWeight(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(70), w.Uint64())
}

// share price never moves on stake/unstake beyond one unit of rounding, and rounding favours the pool.
func TestSharePriceInvariant(t *testing.T) {
	p := newTestPool(t)
	p.stake(t, alice, 1000)
	p.donate(t, carol, 337)

	f := fuzz.NewWithSeed(99)
	accounts := []tdrop.Address{alice, bob}
	for range 200 {
		var (
			who    uint8
			amount uint16
			out    bool
		)
		f.Fuzz(&who)
		f.Fuzz(&amount)
		f.Fuzz(&out)
		acc := accounts[int(who)%len(accounts)]

		vBefore, tBefore := p.vaultBalance(t), p.totalShares(t)
		if out {
			held := p.sharesOf(t, acc)
			if held == 0 {
				continue
			}
			if _, err := p.Unstake(acc, uint256.NewInt(uint64(amount)%held+1)); err != nil {
				require.ErrorIs(t, err, reverts.ErrZeroAmount)
				continue
			}
		} else {
			if _, err := p.Stake(acc, uint256.NewInt(uint64(amount)%2000+1)); err != nil {
				require.ErrorIs(t, err, reverts.ErrZeroAmount)
				continue
			}
		}
		vAfter, tAfter := p.vaultBalance(t), p.totalShares(t)

		// vAfter/tAfter vs vBefore/tBefore by cross multiplication
		lhs := new(uint256.Int).Mul(uint256.NewInt(vAfter), uint256.NewInt(tBefore))
		rhs := new(uint256.Int).Mul(uint256.NewInt(vBefore), uint256.NewInt(tAfter))
		require.False(t, lhs.Lt(rhs), "price decreased")

		// the floor remainder is below the divisor
		diff := new(uint256.Int).Sub(lhs, rhs)
		require.True(t, diff.Lt(uint256.NewInt(vBefore+tBefore+1)), "price drifted by %v", diff)
	}
}
