// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the share priced staking pool with block keyed reward emission.
package staking

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/checkpoints"
	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/builtin/shares"
	"github.com/thetatoken/tdrop-governance/builtin/solidity"
	"github.com/thetatoken/tdrop-governance/cache"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/metrics"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

var (
	logger = log.WithContext("pkg", "staking")

	metricOps           = metrics.LazyLoadCounterVec("pool_ops_count", []string{"op"})
	metricEmittedBlocks = metrics.LazyLoadCounter("pool_emitted_blocks_count")
)

var (
	slotLastRewardHeight = tdrop.BytesToBytes32([]byte("last-reward-height"))
	slotRewardPerBlock   = tdrop.BytesToBytes32([]byte("reward-per-block"))
	slotEmissionStarted  = tdrop.BytesToBytes32([]byte("emission-started"))
	slotUnpaused         = tdrop.BytesToBytes32([]byte("pool-unpaused"))
	slotCarriedRewards   = tdrop.BytesToBytes32([]byte("carried-rewards"))

	// PriceUnit scales SharePrice.
	PriceUnit = uint256.NewInt(1e18)
)

// Ledger is the balance ledger capability the pool consumes.
type Ledger interface {
	BalanceOf(account tdrop.Address) (*uint256.Int, error)
	TransferFrom(owner, spender, to tdrop.Address, amount *uint256.Int) error
	Transfer(from, to tdrop.Address, amount *uint256.Int) error
	MintWithCap(caller, to tdrop.Address, amount *uint256.Int) (*uint256.Int, error)
	IsPaused() (bool, error)
}

// Pool exchanges base units for pool shares. The vault is the balance of the pool address.
type Pool struct {
	sctx        *solidity.Context
	ledger      Ledger
	auth        roles.Authorizer
	shares      *shares.Service
	checkpoints *checkpoints.Service

	lastRewardHeight *solidity.Raw[uint32]
	rewardPerBlock   *solidity.Uint256
	emissionStarted  *solidity.Raw[bool]
	unpaused         *solidity.Raw[bool]
	carried          *solidity.Uint256
}

// New creates the pool, which starts paused. weights optionally memoises finalized voting weight lookups.
func New(sctx *solidity.Context, ledger Ledger, auth roles.Authorizer, weights *cache.LRU) *Pool {
	sh := shares.New(sctx)
	return &Pool{
		sctx:        sctx,
		ledger:      ledger,
		auth:        auth,
		shares:      sh,
		checkpoints: checkpoints.New(sctx, sh, weights),

		lastRewardHeight: solidity.NewRaw[uint32](sctx, slotLastRewardHeight),
		rewardPerBlock:   solidity.NewUint256(sctx, slotRewardPerBlock),
		emissionStarted:  solidity.NewRaw[bool](sctx, slotEmissionStarted),
		unpaused:         solidity.NewRaw[bool](sctx, slotUnpaused),
		carried:          solidity.NewUint256(sctx, slotCarriedRewards),
	}
}

// Address returns the pool address, which also holds the vault.
func (p *Pool) Address() tdrop.Address {
	return p.sctx.Address()
}

// Checkpoints returns the voting checkpoints driven by the pool's shares.
func (p *Pool) Checkpoints() *checkpoints.Service {
	return p.checkpoints
}

// IsPaused reports whether the pool itself is paused.
func (p *Pool) IsPaused() (bool, error) {
	unpaused, err := p.unpaused.Get()
	return !unpaused, err
}

// IsActive reports whether neither the ledger nor the pool is paused.
func (p *Pool) IsActive() (bool, error) {
	paused, err := p.IsPaused()
	if err != nil {
		return false, err
	}
	if paused {
		return false, nil
	}
	ledgerPaused, err := p.ledger.IsPaused()
	if err != nil {
		return false, err
	}
	return !ledgerPaused, nil
}

func (p *Pool) requireActive() error {
	active, err := p.IsActive()
	if err != nil {
		return err
	}
	if !active {
		return errors.WithMessage(reverts.ErrNotActive, "pool paused")
	}
	return nil
}

// Stake deposits amount base units of participant and mints pool shares pro rata.
func (p *Pool) Stake(participant tdrop.Address, amount *uint256.Int) (*uint256.Int, error) {
	if err := p.requireActive(); err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, reverts.ErrZeroAmount
	}
	if _, err := p.emitRewards(); err != nil {
		return nil, err
	}

	toMint, err := p.sharesFor(amount, nil)
	if err != nil {
		return nil, err
	}
	if toMint.IsZero() {
		return nil, errors.WithMessage(reverts.ErrZeroAmount, "deposit too small to mint a share")
	}

	if err := p.ledger.TransferFrom(participant, p.Address(), p.Address(), amount); err != nil {
		return nil, err
	}
	if err := p.shares.Mint(participant, toMint); err != nil {
		return nil, err
	}
	if err := p.checkpoints.OnSharesChanged(participant, toMint.ToBig()); err != nil {
		return nil, err
	}

	p.sctx.Emit("Staked", "participant", participant, "amount", amount, "shares", toMint)
	metricOps().AddWithLabel(1, map[string]string{"op": "stake"})
	logger.Debug("staked", "participant", participant, "amount", amount, "shares", toMint)
	return toMint, nil
}

// Unstake burns shareAmount shares of participant and pays out the pro rata vault balance.
func (p *Pool) Unstake(participant tdrop.Address, shareAmount *uint256.Int) (*uint256.Int, error) {
	if err := p.requireActive(); err != nil {
		return nil, err
	}
	if shareAmount.IsZero() {
		return nil, reverts.ErrZeroAmount
	}
	held, err := p.shares.BalanceOf(participant)
	if err != nil {
		return nil, err
	}
	if held.Lt(shareAmount) {
		return nil, errors.WithMessagef(reverts.ErrInsufficientShares, "%v holds %v shares", participant, held)
	}
	if _, err := p.emitRewards(); err != nil {
		return nil, err
	}

	payout, err := p.payoutFor(shareAmount, nil)
	if err != nil {
		return nil, err
	}
	if payout.IsZero() {
		return nil, errors.WithMessage(reverts.ErrZeroAmount, "redemption too small to pay a unit")
	}

	if err := p.shares.Burn(participant, shareAmount); err != nil {
		return nil, err
	}
	if err := p.checkpoints.OnSharesChanged(participant, new(big.Int).Neg(shareAmount.ToBig())); err != nil {
		return nil, err
	}
	if err := p.ledger.Transfer(p.Address(), participant, payout); err != nil {
		return nil, err
	}

	p.sctx.Emit("Unstaked", "participant", participant, "shares", shareAmount, "amount", payout)
	metricOps().AddWithLabel(1, map[string]string{"op": "unstake"})
	logger.Debug("unstaked", "participant", participant, "shares", shareAmount, "amount", payout)
	return payout, nil
}

// Delegate forwards the voting weight of delegator's shares. The zero address means self.
func (p *Pool) Delegate(delegator, delegatee tdrop.Address) error {
	return p.checkpoints.Delegate(delegator, delegatee)
}

// sharesFor returns floor(amount * totalShares / vault), or amount when no shares exist.
// extra is added to the vault balance when not nil.
func (p *Pool) sharesFor(amount, extra *uint256.Int) (*uint256.Int, error) {
	total, err := p.shares.TotalShares()
	if err != nil {
		return nil, err
	}
	if total.IsZero() {
		return new(uint256.Int).Set(amount), nil
	}
	vault, err := p.vault(extra)
	if err != nil {
		return nil, err
	}
	if vault.IsZero() {
		return new(uint256.Int), nil
	}
	v, overflow := new(uint256.Int).MulDivOverflow(amount, total, vault)
	if overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	return v, nil
}

// payoutFor returns floor(shareAmount * vault / totalShares).
func (p *Pool) payoutFor(shareAmount, extra *uint256.Int) (*uint256.Int, error) {
	total, err := p.shares.TotalShares()
	if err != nil {
		return nil, err
	}
	if total.IsZero() {
		return new(uint256.Int), nil
	}
	vault, err := p.vault(extra)
	if err != nil {
		return nil, err
	}
	v, overflow := new(uint256.Int).MulDivOverflow(shareAmount, vault, total)
	if overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	return v, nil
}

func (p *Pool) vault(extra *uint256.Int) (*uint256.Int, error) {
	vault, err := p.ledger.BalanceOf(p.Address())
	if err != nil {
		return nil, err
	}
	if extra != nil {
		if _, overflow := vault.AddOverflow(vault, extra); overflow {
			return nil, reverts.ErrArithmeticOverflow
		}
	}
	return vault, nil
}
