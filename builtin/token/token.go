// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is the reference balance ledger holding the base units staked into the pool.
package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/builtin/solidity"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

var logger = log.WithContext("pkg", "token")

const (
	Name     = "TDrop"
	Symbol   = "TDROP"
	Decimals = 18
)

var (
	slotBalances    = tdrop.BytesToBytes32([]byte("balances"))
	slotAllowances  = tdrop.BytesToBytes32([]byte("allowances"))
	slotTotalSupply = tdrop.BytesToBytes32([]byte("total-supply"))
	slotMaxSupply   = tdrop.BytesToBytes32([]byte("max-supply"))
	slotPaused      = tdrop.BytesToBytes32([]byte("paused"))
)

type allowanceKey struct {
	owner   tdrop.Address
	spender tdrop.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// Token is a role gated fungible ledger with a global pause switch.
type Token struct {
	sctx        *solidity.Context
	auth        roles.Authorizer
	balances    *solidity.Mapping[tdrop.Address, *uint256.Int]
	allowances  *solidity.Mapping[allowanceKey, *uint256.Int]
	totalSupply *solidity.Uint256
	maxSupply   *solidity.Uint256
	paused      *solidity.Raw[bool]

	stakeReward  *limit
	miningReward *limit
	airdropped   *solidity.Uint256
}

func New(sctx *solidity.Context, auth roles.Authorizer) *Token {
	return &Token{
		sctx:        sctx,
		auth:        auth,
		balances:    solidity.NewMapping[tdrop.Address, *uint256.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *uint256.Int](sctx, slotAllowances),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		maxSupply:   solidity.NewUint256(sctx, slotMaxSupply),
		paused:      solidity.NewRaw[bool](sctx, slotPaused),

		stakeReward: newLimit(sctx, "stake reward", slotMaxStakeReward, slotStakeRewardMinted,
			tdrop.DefaultMaxStakeReward, tdrop.MaxStakeRewardCeiling),
		miningReward: newLimit(sctx, "liquidity mining", slotMaxMiningReward, slotMiningRewardMinted,
			tdrop.DefaultMaxLiquidityMiningReward, tdrop.MaxLiquidityMiningRewardCeiling),
		airdropped: solidity.NewUint256(sctx, slotAirdropped),
	}
}

// Address returns the ledger address.
func (t *Token) Address() tdrop.Address {
	return t.sctx.Address()
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr tdrop.Address) (*uint256.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	if bal == nil {
		return new(uint256.Int), nil
	}
	return bal, nil
}

func (t *Token) setBalance(addr tdrop.Address, bal *uint256.Int) error {
	if bal.IsZero() {
		t.balances.Delete(addr)
		return nil
	}
	return t.balances.Set(addr, bal)
}

// TotalSupply returns the amount of units in circulation.
func (t *Token) TotalSupply() (*uint256.Int, error) {
	return t.totalSupply.Get()
}

// MaxSupply returns the issuance cap. Zero means uncapped.
func (t *Token) MaxSupply() (*uint256.Int, error) {
	return t.maxSupply.Get()
}

// IsPaused reports whether the global pause switch is on.
func (t *Token) IsPaused() (bool, error) {
	return t.paused.Get()
}

func (t *Token) requireNotPaused() error {
	paused, err := t.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		return errors.WithMessage(reverts.ErrNotActive, "token paused")
	}
	return nil
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to tdrop.Address, amount *uint256.Int) error {
	if err := t.requireNotPaused(); err != nil {
		return err
	}
	if to.IsZero() {
		return errors.WithMessage(reverts.ErrInvalidArgument, "transfer to zero address")
	}
	return t.move(from, to, amount)
}

func (t *Token) move(from, to tdrop.Address, amount *uint256.Int) error {
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return errors.WithMessagef(reverts.ErrInsufficientBalance, "%v has %v, needs %v", from, fromBal, amount)
	}
	if err := t.setBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if _, overflow := toBal.AddOverflow(toBal, amount); overflow {
		return reverts.ErrArithmeticOverflow
	}
	if err := t.setBalance(to, toBal); err != nil {
		return err
	}
	t.sctx.Emit("Transfer", "from", from, "to", to, "amount", amount)
	return nil
}

// Allowance returns how much spender may move on behalf of owner.
func (t *Token) Allowance(owner, spender tdrop.Address) (*uint256.Int, error) {
	v, err := t.allowances.Get(allowanceKey{owner, spender})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	if v == nil {
		return new(uint256.Int), nil
	}
	return v, nil
}

// Approve sets the allowance of spender over owner's balance.
func (t *Token) Approve(owner, spender tdrop.Address, amount *uint256.Int) error {
	if spender.IsZero() {
		return errors.WithMessage(reverts.ErrInvalidArgument, "approve zero address")
	}
	if amount.IsZero() {
		t.allowances.Delete(allowanceKey{owner, spender})
	} else if err := t.allowances.Set(allowanceKey{owner, spender}, amount); err != nil {
		return err
	}
	t.sctx.Emit("Approval", "owner", owner, "spender", spender, "amount", amount)
	return nil
}

// TransferFrom moves amount from owner to to, spending spender's allowance.
// An all-ones allowance is never decreased.
func (t *Token) TransferFrom(owner, spender, to tdrop.Address, amount *uint256.Int) error {
	if err := t.requireNotPaused(); err != nil {
		return err
	}
	if to.IsZero() {
		return errors.WithMessage(reverts.ErrInvalidArgument, "transfer to zero address")
	}
	if spender != owner {
		allowance, err := t.Allowance(owner, spender)
		if err != nil {
			return err
		}
		if allowance.Lt(amount) {
			return errors.WithMessagef(reverts.ErrInsufficientBalance, "allowance %v, needs %v", allowance, amount)
		}
		if !isInfinite(allowance) {
			if err := t.setAllowance(owner, spender, allowance.Sub(allowance, amount)); err != nil {
				return err
			}
		}
	}
	return t.move(owner, to, amount)
}

func (t *Token) setAllowance(owner, spender tdrop.Address, v *uint256.Int) error {
	if v.IsZero() {
		t.allowances.Delete(allowanceKey{owner, spender})
		return nil
	}
	return t.allowances.Set(allowanceKey{owner, spender}, v)
}

func isInfinite(v *uint256.Int) bool {
	return v.Eq(new(uint256.Int).SetAllOne())
}

// Mint issues exactly amount to to. It fails if the cap would be exceeded.
func (t *Token) Mint(to tdrop.Address, amount *uint256.Int) error {
	room, err := t.room()
	if err != nil {
		return err
	}
	if room != nil && room.Lt(amount) {
		return errors.WithMessage(reverts.ErrArithmeticOverflow, "exceeds max supply")
	}
	return t.issue(to, amount)
}

// MintWithCap issues staking rewards of up to amount to to, clamped by the remaining
// staking reward limit and the room under the cap. It returns the amount actually minted.
// Only minters may call it.
func (t *Token) MintWithCap(caller, to tdrop.Address, amount *uint256.Int) (*uint256.Int, error) {
	if err := t.auth.RequireRole(caller, roles.Minter); err != nil {
		return nil, err
	}
	return t.mintWithin(t.stakeReward, to, amount)
}

// room returns max - total, or nil when uncapped.
func (t *Token) room() (*uint256.Int, error) {
	maxSupply, err := t.MaxSupply()
	if err != nil {
		return nil, err
	}
	if maxSupply.IsZero() {
		return nil, nil
	}
	total, err := t.TotalSupply()
	if err != nil {
		return nil, err
	}
	if total.Gt(maxSupply) {
		return new(uint256.Int), nil
	}
	return total.Sub(maxSupply, total), nil
}

func (t *Token) issue(to tdrop.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return errors.WithMessage(reverts.ErrInvalidArgument, "mint to zero address")
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		return reverts.ErrArithmeticOverflow
	}
	if err := t.setBalance(to, bal); err != nil {
		return err
	}
	t.sctx.Emit("Transfer", "from", tdrop.Address{}, "to", to, "amount", amount)
	return nil
}

// Pause turns the global pause switch on. Operators only.
func (t *Token) Pause(caller tdrop.Address) error {
	return t.setPaused(caller, true)
}

// Unpause turns the global pause switch off. Operators only.
func (t *Token) Unpause(caller tdrop.Address) error {
	return t.setPaused(caller, false)
}

func (t *Token) setPaused(caller tdrop.Address, paused bool) error {
	if err := t.auth.RequireRole(caller, roles.Operator); err != nil {
		return err
	}
	if err := t.paused.Upsert(paused); err != nil {
		return err
	}
	if paused {
		t.sctx.Emit("Paused", "account", caller)
	} else {
		t.sctx.Emit("Unpaused", "account", caller)
	}
	logger.Info("token pause switched", "paused", paused, "by", caller)
	return nil
}

// SetMaxSupply changes the issuance cap. Admins only.
func (t *Token) SetMaxSupply(caller tdrop.Address, v *uint256.Int) error {
	if err := t.auth.RequireRole(caller, roles.Admin); err != nil {
		return err
	}
	return t.InitMaxSupply(v)
}

// InitMaxSupply sets the cap without authorization. Used by genesis.
func (t *Token) InitMaxSupply(v *uint256.Int) error {
	total, err := t.TotalSupply()
	if err != nil {
		return err
	}
	if !v.IsZero() && v.Lt(total) {
		return errors.WithMessage(reverts.ErrInvalidArgument, "max supply below total supply")
	}
	return t.maxSupply.Set(v)
}
