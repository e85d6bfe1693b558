// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

// EmitRewards materializes the rewards accrued since the last emission into the vault.
// It returns the amount actually minted.
func (p *Pool) EmitRewards() (*uint256.Int, error) {
	if err := p.requireActive(); err != nil {
		return nil, err
	}
	return p.emitRewards()
}

// emitRewards mints rewardPerBlock for each block elapsed since lastRewardHeight, plus any
// amount carried over from a rate change. Blocks spent paused are included. Rewards minted
// while no shares exist stay in the vault for the first staker.
// A mint truncated by the ledger cap is accepted.
func (p *Pool) emitRewards() (*uint256.Int, error) {
	minted := new(uint256.Int)
	started, err := p.emissionStarted.Get()
	if err != nil || !started {
		return minted, err
	}
	last, err := p.lastRewardHeight.Get()
	if err != nil {
		return nil, err
	}
	current := p.sctx.BlockNumber()
	if current <= last {
		return minted, nil
	}

	reward, err := p.due(last, current)
	if err != nil {
		return nil, err
	}
	if !reward.IsZero() {
		if minted, err = p.ledger.MintWithCap(p.Address(), p.Address(), reward); err != nil {
			return nil, errors.WithMessage(err, "mint rewards")
		}
		if minted.Lt(reward) {
			logger.Info("reward emission truncated by supply cap", "requested", reward, "minted", minted)
		}
	}
	if err := p.carried.Set(new(uint256.Int)); err != nil {
		return nil, err
	}
	if err := p.lastRewardHeight.Upsert(current); err != nil {
		return nil, err
	}

	p.sctx.Emit("RewardsEmitted", "fromHeight", last, "toHeight", current, "amount", minted)
	metricEmittedBlocks().Add(int64(current - last))
	logger.Trace("rewards emitted", "from", last, "to", current, "amount", minted)
	return minted, nil
}

func (p *Pool) accrued(last, current uint32) (*uint256.Int, error) {
	rate, err := p.rewardPerBlock.Get()
	if err != nil {
		return nil, err
	}
	reward, overflow := new(uint256.Int).MulOverflow(rate, uint256.NewInt(uint64(current-last)))
	if overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	return reward, nil
}

// due is the carried amount plus the accrual over (last, current].
func (p *Pool) due(last, current uint32) (*uint256.Int, error) {
	reward, err := p.accrued(last, current)
	if err != nil {
		return nil, err
	}
	carried, err := p.carried.Get()
	if err != nil {
		return nil, err
	}
	if _, overflow := reward.AddOverflow(reward, carried); overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	return reward, nil
}

// PendingRewards returns the rewards that the next emission would request, ignoring the supply cap.
func (p *Pool) PendingRewards() (*uint256.Int, error) {
	started, err := p.emissionStarted.Get()
	if err != nil || !started {
		return new(uint256.Int), err
	}
	last, err := p.lastRewardHeight.Get()
	if err != nil {
		return nil, err
	}
	current := p.sctx.BlockNumber()
	if current < last {
		current = last
	}
	return p.due(last, current)
}

// carry books the accrual at the current rate without minting.
func (p *Pool) carry() error {
	started, err := p.emissionStarted.Get()
	if err != nil || !started {
		return err
	}
	last, err := p.lastRewardHeight.Get()
	if err != nil {
		return err
	}
	current := p.sctx.BlockNumber()
	if current <= last {
		return nil
	}
	reward, err := p.due(last, current)
	if err != nil {
		return err
	}
	if err := p.carried.Set(reward); err != nil {
		return err
	}
	return p.lastRewardHeight.Upsert(current)
}

// SetRewardPerBlock changes the emission rate. Rewards pending at the old rate are emitted first,
// or carried forward while the pool is inactive.
func (p *Pool) SetRewardPerBlock(caller tdrop.Address, rate *uint256.Int) error {
	if err := p.auth.RequireRole(caller, roles.Admin); err != nil {
		return err
	}
	active, err := p.IsActive()
	if err != nil {
		return err
	}
	if active {
		_, err = p.emitRewards()
	} else {
		err = p.carry()
	}
	if err != nil {
		return err
	}
	if err := p.rewardPerBlock.Set(rate); err != nil {
		return err
	}
	p.sctx.Emit("RewardPerBlockChanged", "rate", rate)
	logger.Info("reward per block changed", "rate", rate, "by", caller)
	return nil
}

// InitRewardPerBlock sets the emission rate without authorization. Used by genesis.
func (p *Pool) InitRewardPerBlock(rate *uint256.Int) error {
	return p.rewardPerBlock.Set(rate)
}

// StartEmission activates reward emission from startHeight on. It can be called once.
func (p *Pool) StartEmission(caller tdrop.Address, startHeight uint32) error {
	if err := p.auth.RequireRole(caller, roles.Admin); err != nil {
		return err
	}
	started, err := p.emissionStarted.Get()
	if err != nil {
		return err
	}
	if started {
		return errors.WithMessage(reverts.ErrWrongState, "emission already started")
	}
	if startHeight < p.sctx.BlockNumber() {
		return errors.WithMessagef(reverts.ErrInvalidArgument, "start height %d in the past", startHeight)
	}
	if err := p.lastRewardHeight.Upsert(startHeight); err != nil {
		return err
	}
	if err := p.emissionStarted.Upsert(true); err != nil {
		return err
	}
	p.sctx.Emit("EmissionStarted", "startHeight", startHeight)
	logger.Info("reward emission started", "startHeight", startHeight)
	return nil
}

// Pause stops staking. Rewards due so far are emitted first. Paused blocks keep
// accruing and are paid by the first emission after resuming.
func (p *Pool) Pause(caller tdrop.Address) error {
	if err := p.auth.RequireRole(caller, roles.Operator); err != nil {
		return err
	}
	paused, err := p.IsPaused()
	if err != nil || paused {
		return err
	}
	active, err := p.IsActive()
	if err != nil {
		return err
	}
	if active {
		if _, err := p.emitRewards(); err != nil {
			return err
		}
	}
	if err := p.unpaused.Upsert(false); err != nil {
		return err
	}
	p.sctx.Emit("Paused", "account", caller)
	logger.Info("pool paused", "by", caller)
	return nil
}

// Unpause resumes staking.
func (p *Pool) Unpause(caller tdrop.Address) error {
	if err := p.auth.RequireRole(caller, roles.Operator); err != nil {
		return err
	}
	paused, err := p.IsPaused()
	if err != nil || !paused {
		return err
	}
	if err := p.unpaused.Upsert(true); err != nil {
		return err
	}
	p.sctx.Emit("Unpaused", "account", caller)
	logger.Info("pool unpaused", "by", caller)
	return nil
}

// InitUnpaused opens the pool without authorization. Used by genesis.
func (p *Pool) InitUnpaused() error {
	return p.unpaused.Upsert(true)
}
