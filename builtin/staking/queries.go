// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

// Summary is a read-only view of the pool.
type Summary struct {
	Active           bool
	Paused           bool
	EmissionStarted  bool
	LastRewardHeight uint32
	RewardPerBlock   *uint256.Int
	TotalShares      *uint256.Int
	VaultBalance     *uint256.Int
	SharePrice       *uint256.Int
	PendingRewards   *uint256.Int
}

// Summary collects the pool's state.
func (p *Pool) Summary() (*Summary, error) {
	var (
		s   Summary
		err error
	)
	if s.Active, err = p.IsActive(); err != nil {
		return nil, err
	}
	if s.Paused, err = p.IsPaused(); err != nil {
		return nil, err
	}
	if s.EmissionStarted, err = p.emissionStarted.Get(); err != nil {
		return nil, err
	}
	if s.LastRewardHeight, err = p.lastRewardHeight.Get(); err != nil {
		return nil, err
	}
	if s.RewardPerBlock, err = p.rewardPerBlock.Get(); err != nil {
		return nil, err
	}
	if s.TotalShares, err = p.shares.TotalShares(); err != nil {
		return nil, err
	}
	if s.VaultBalance, err = p.VaultBalance(); err != nil {
		return nil, err
	}
	if s.SharePrice, err = p.SharePrice(); err != nil {
		return nil, err
	}
	if s.PendingRewards, err = p.PendingRewards(); err != nil {
		return nil, err
	}
	return &s, nil
}

// VaultBalance returns the base units held by the pool.
func (p *Pool) VaultBalance() (*uint256.Int, error) {
	return p.vault(nil)
}

// SharesOf returns the shares held by account.
func (p *Pool) SharesOf(account tdrop.Address) (*uint256.Int, error) {
	return p.shares.BalanceOf(account)
}

// TotalShares returns the shares outstanding.
func (p *Pool) TotalShares() (*uint256.Int, error) {
	return p.shares.TotalShares()
}

// SharePrice returns vault / totalShares scaled by PriceUnit. It is PriceUnit when no shares exist.
func (p *Pool) SharePrice() (*uint256.Int, error) {
	total, err := p.shares.TotalShares()
	if err != nil {
		return nil, err
	}
	if total.IsZero() {
		return new(uint256.Int).Set(PriceUnit), nil
	}
	vault, err := p.vault(nil)
	if err != nil {
		return nil, err
	}
	price, overflow := new(uint256.Int).MulDivOverflow(vault, PriceUnit, total)
	if overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	return price, nil
}

// EstimateShares returns the shares a stake of amount would mint in the current block.
func (p *Pool) EstimateShares(amount *uint256.Int) (*uint256.Int, error) {
	pending, err := p.PendingRewards()
	if err != nil {
		return nil, err
	}
	return p.sharesFor(amount, pending)
}

// EstimatePayout returns the units an unstake of shareAmount would pay in the current block.
func (p *Pool) EstimatePayout(shareAmount *uint256.Int) (*uint256.Int, error) {
	pending, err := p.PendingRewards()
	if err != nil {
		return nil, err
	}
	return p.payoutFor(shareAmount, pending)
}
