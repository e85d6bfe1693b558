// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/builtin/solidity"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

var (
	slotMaxStakeReward     = tdrop.BytesToBytes32([]byte("max-stake-reward"))
	slotStakeRewardMinted  = tdrop.BytesToBytes32([]byte("stake-reward-minted"))
	slotMaxMiningReward    = tdrop.BytesToBytes32([]byte("max-mining-reward"))
	slotMiningRewardMinted = tdrop.BytesToBytes32([]byte("mining-reward-minted"))
	slotAirdropped         = tdrop.BytesToBytes32([]byte("airdropped"))
	coin                   = uint256.NewInt(1e18)
)

// Coins converts whole coins to base units.
func Coins(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), coin)
}

// limit is an admin adjustable issuance budget with a hard ceiling.
type limit struct {
	name    string
	max     *solidity.Raw[*uint256.Int]
	minted  *solidity.Uint256
	def     *uint256.Int
	ceiling *uint256.Int
}

func newLimit(sctx *solidity.Context, name string, maxSlot, mintedSlot tdrop.Bytes32, def, ceiling uint64) *limit {
	return &limit{
		name:    name,
		max:     solidity.NewRaw[*uint256.Int](sctx, maxSlot),
		minted:  solidity.NewUint256(sctx, mintedSlot),
		def:     Coins(def),
		ceiling: Coins(ceiling),
	}
}

func (l *limit) Max() (*uint256.Int, error) {
	v, err := l.max.Get()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(uint256.Int).Set(l.def), nil
	}
	return v, nil
}

func (l *limit) setMax(v *uint256.Int) error {
	if v.Gt(l.ceiling) {
		return errors.WithMessagef(reverts.ErrInvalidArgument, "%s limit %v above ceiling %v", l.name, v, l.ceiling)
	}
	return l.max.Upsert(v)
}

// room returns max - minted, floored at zero.
func (l *limit) room() (*uint256.Int, error) {
	maxV, err := l.Max()
	if err != nil {
		return nil, err
	}
	minted, err := l.minted.Get()
	if err != nil {
		return nil, err
	}
	if minted.Gt(maxV) {
		return new(uint256.Int), nil
	}
	return minted.Sub(maxV, minted), nil
}

// MaxStakeReward returns the limit on units minted as staking rewards.
func (t *Token) MaxStakeReward() (*uint256.Int, error) {
	return t.stakeReward.Max()
}

// StakeRewardMinted returns the units minted as staking rewards so far.
func (t *Token) StakeRewardMinted() (*uint256.Int, error) {
	return t.stakeReward.minted.Get()
}

// UpdateMaxStakeReward changes the staking reward limit. Admins only.
func (t *Token) UpdateMaxStakeReward(caller tdrop.Address, v *uint256.Int) error {
	if err := t.auth.RequireRole(caller, roles.Admin); err != nil {
		return err
	}
	if err := t.stakeReward.setMax(v); err != nil {
		return err
	}
	t.sctx.Emit("MaxStakeRewardUpdated", "value", v)
	logger.Info("max stake reward updated", "value", v, "by", caller)
	return nil
}

// MaxLiquidityMiningReward returns the limit on units issued through Mine.
func (t *Token) MaxLiquidityMiningReward() (*uint256.Int, error) {
	return t.miningReward.Max()
}

// LiquidityMiningMinted returns the units issued through Mine so far.
func (t *Token) LiquidityMiningMinted() (*uint256.Int, error) {
	return t.miningReward.minted.Get()
}

// UpdateMaxLiquidityMiningReward changes the liquidity mining limit. Admins only.
func (t *Token) UpdateMaxLiquidityMiningReward(caller tdrop.Address, v *uint256.Int) error {
	if err := t.auth.RequireRole(caller, roles.Admin); err != nil {
		return err
	}
	if err := t.miningReward.setMax(v); err != nil {
		return err
	}
	t.sctx.Emit("MaxLiquidityMiningRewardUpdated", "value", v)
	logger.Info("max liquidity mining reward updated", "value", v, "by", caller)
	return nil
}

// Mine issues up to amount to to, clamped by the liquidity mining limit and the supply cap.
// It returns the amount actually minted. Only liquidity miners may call it.
func (t *Token) Mine(caller, to tdrop.Address, amount *uint256.Int) (*uint256.Int, error) {
	if err := t.auth.RequireRole(caller, roles.LiquidityMiner); err != nil {
		return nil, err
	}
	return t.mintWithin(t.miningReward, to, amount)
}

// Airdropped returns the units issued through Airdrop so far.
func (t *Token) Airdropped() (*uint256.Int, error) {
	return t.airdropped.Get()
}

// Airdrop issues amounts[i] to recipients[i], all or nothing. The lifetime total is
// limited to MaxAirdrop coins. Only airdroppers may call it.
func (t *Token) Airdrop(caller tdrop.Address, recipients []tdrop.Address, amounts []*uint256.Int) error {
	if err := t.auth.RequireRole(caller, roles.Airdropper); err != nil {
		return err
	}
	if len(recipients) != len(amounts) {
		return errors.WithMessage(reverts.ErrInvalidArgument, "recipients and amounts length mismatch")
	}
	sum := new(uint256.Int)
	for _, a := range amounts {
		if _, overflow := sum.AddOverflow(sum, a); overflow {
			return reverts.ErrArithmeticOverflow
		}
	}
	done, err := t.Airdropped()
	if err != nil {
		return err
	}
	total, overflow := new(uint256.Int).AddOverflow(done, sum)
	if overflow || total.Gt(Coins(tdrop.MaxAirdrop)) {
		return errors.WithMessagef(reverts.ErrInvalidArgument, "airdrop of %v exceeds the limit, %v already dropped", sum, done)
	}

	return t.sctx.Env().Atomic(func() error {
		for i, to := range recipients {
			if err := t.Mint(to, amounts[i]); err != nil {
				return errors.WithMessagef(err, "airdrop to %v", to)
			}
		}
		if err := t.airdropped.Set(total); err != nil {
			return err
		}
		t.sctx.Emit("Airdropped", "recipients", len(recipients), "amount", sum)
		logger.Info("airdropped", "recipients", len(recipients), "amount", sum)
		return nil
	})
}

// BalanceInWholeCoin returns the balance of addr in whole coins, rounded down.
func (t *Token) BalanceInWholeCoin(addr tdrop.Address) (*uint256.Int, error) {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Div(bal, coin), nil
}

// mintWithin issues up to amount to to, clamped by l and the supply cap, and books it against l.
func (t *Token) mintWithin(l *limit, to tdrop.Address, amount *uint256.Int) (*uint256.Int, error) {
	minted := new(uint256.Int).Set(amount)
	budget, err := l.room()
	if err != nil {
		return nil, err
	}
	if budget.Lt(minted) {
		minted.Set(budget)
	}
	room, err := t.room()
	if err != nil {
		return nil, err
	}
	if room != nil && room.Lt(minted) {
		minted.Set(room)
	}
	if minted.Lt(amount) {
		logger.Debug("mint truncated", "limit", l.name, "requested", amount, "minted", minted)
	}
	if minted.IsZero() {
		return minted, nil
	}
	if err := t.issue(to, minted); err != nil {
		return nil, err
	}
	if err := l.minted.Add(minted); err != nil {
		return nil, err
	}
	return minted, nil
}
