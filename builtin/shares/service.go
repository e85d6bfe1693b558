// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package shares

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/builtin/solidity"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

var (
	slotShares      = tdrop.BytesToBytes32([]byte("shares"))
	slotTotalShares = tdrop.BytesToBytes32([]byte("total-shares"))
)

// Service is the share ledger of the staking pool. It has no access control of its own.
type Service struct {
	balances *solidity.Mapping[tdrop.Address, *uint256.Int]
	total    *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		balances: solidity.NewMapping[tdrop.Address, *uint256.Int](sctx, slotShares),
		total:    solidity.NewUint256(sctx, slotTotalShares),
	}
}

// BalanceOf returns the shares held by account.
func (s *Service) BalanceOf(account tdrop.Address) (*uint256.Int, error) {
	bal, err := s.balances.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get shares")
	}
	if bal == nil {
		return new(uint256.Int), nil
	}
	return bal, nil
}

// TotalShares returns the shares outstanding.
func (s *Service) TotalShares() (*uint256.Int, error) {
	total, err := s.total.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total shares")
	}
	return total, nil
}

// Mint credits amount shares to account.
func (s *Service) Mint(account tdrop.Address, amount *uint256.Int) error {
	bal, err := s.BalanceOf(account)
	if err != nil {
		return err
	}
	total, err := s.TotalShares()
	if err != nil {
		return err
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		return reverts.ErrArithmeticOverflow
	}
	if _, overflow := total.AddOverflow(total, amount); overflow {
		return reverts.ErrArithmeticOverflow
	}
	if err := s.balances.Set(account, bal); err != nil {
		return err
	}
	return s.total.Set(total)
}

// Burn debits amount shares from account.
func (s *Service) Burn(account tdrop.Address, amount *uint256.Int) error {
	bal, err := s.BalanceOf(account)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return errors.WithMessagef(reverts.ErrInsufficientShares, "%v holds %v shares, burning %v", account, bal, amount)
	}
	total, err := s.TotalShares()
	if err != nil {
		return err
	}
	bal.Sub(bal, amount)
	if bal.IsZero() {
		s.balances.Delete(account)
	} else if err := s.balances.Set(account, bal); err != nil {
		return err
	}
	return s.total.Set(total.Sub(total, amount))
}
