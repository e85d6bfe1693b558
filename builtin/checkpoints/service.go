// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package checkpoints keeps per-account voting weight history and delegation.
package checkpoints

import (
	"math/big"
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/builtin/solidity"
	"github.com/thetatoken/tdrop-governance/cache"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

var logger = log.WithContext("pkg", "checkpoints")

var (
	slotDelegates      = tdrop.BytesToBytes32([]byte("delegates"))
	slotNumCheckpoints = tdrop.BytesToBytes32([]byte("num-checkpoints"))
	slotCheckpoints    = tdrop.BytesToBytes32([]byte("checkpoints"))
)

// Balances is the source of each delegator's own weight.
type Balances interface {
	BalanceOf(account tdrop.Address) (*uint256.Int, error)
}

type Service struct {
	sctx        *solidity.Context
	balances    Balances
	delegates   *solidity.Mapping[tdrop.Address, tdrop.Address]
	counts      *solidity.Mapping[tdrop.Address, uint32]
	checkpoints *solidity.Mapping[checkpointKey, *Checkpoint]
	weights     *cache.LRU
}

// New creates the service. weights optionally memoises finalized lookups and may be nil.
func New(sctx *solidity.Context, balances Balances, weights *cache.LRU) *Service {
	return &Service{
		sctx:        sctx,
		balances:    balances,
		delegates:   solidity.NewMapping[tdrop.Address, tdrop.Address](sctx, slotDelegates),
		counts:      solidity.NewMapping[tdrop.Address, uint32](sctx, slotNumCheckpoints),
		checkpoints: solidity.NewMapping[checkpointKey, *Checkpoint](sctx, slotCheckpoints),
		weights:     weights,
	}
}

// DelegateOf returns the account's delegatee, or the zero address if undelegated.
func (s *Service) DelegateOf(account tdrop.Address) (tdrop.Address, error) {
	return s.delegates.Get(account)
}

// effectiveDelegate returns the account receiving the weight of account.
func (s *Service) effectiveDelegate(account tdrop.Address) (tdrop.Address, error) {
	d, err := s.DelegateOf(account)
	if err != nil {
		return tdrop.Address{}, err
	}
	if d.IsZero() {
		return account, nil
	}
	return d, nil
}

// NumCheckpoints returns the number of checkpoints of account.
func (s *Service) NumCheckpoints(account tdrop.Address) (uint32, error) {
	return s.counts.Get(account)
}

// CheckpointAt returns the i-th checkpoint of account.
func (s *Service) CheckpointAt(account tdrop.Address, i uint32) (*Checkpoint, error) {
	n, err := s.NumCheckpoints(account)
	if err != nil {
		return nil, err
	}
	if i >= n {
		return nil, errors.WithMessagef(reverts.ErrInvalidArgument, "checkpoint index %d out of range", i)
	}
	return s.checkpoint(account, i)
}

func (s *Service) checkpoint(account tdrop.Address, i uint32) (*Checkpoint, error) {
	cp, err := s.checkpoints.Get(checkpointKey{account, i})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get checkpoint")
	}
	if cp == nil {
		return nil, errors.Errorf("missing checkpoint %d of %v", i, account)
	}
	return cp, nil
}

// CurrentWeight returns the weight at the latest checkpoint, zero if none.
func (s *Service) CurrentWeight(account tdrop.Address) (*uint256.Int, error) {
	n, err := s.NumCheckpoints(account)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return new(uint256.Int), nil
	}
	cp, err := s.checkpoint(account, n-1)
	if err != nil {
		return nil, err
	}
	return cp.Weight, nil
}

// WeightAt returns the weight of account as of the end of block height.
// Only finalized heights, below the current one, can be looked up.
func (s *Service) WeightAt(account tdrop.Address, height uint32) (*uint256.Int, error) {
	if height >= s.sctx.BlockNumber() {
		return nil, errors.WithMessagef(reverts.ErrFutureLookup, "height %d, current %d", height, s.sctx.BlockNumber())
	}
	if s.weights == nil {
		return s.searchWeight(account, height)
	}
	v, err := s.weights.GetOrLoad(weightKey{s.sctx.Address(), account, height}, func(any) (any, error) {
		return s.searchWeight(account, height)
	})
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Set(v.(*uint256.Int)), nil
}

func (s *Service) searchWeight(account tdrop.Address, height uint32) (*uint256.Int, error) {
	n, err := s.NumCheckpoints(account)
	if err != nil {
		return nil, err
	}
	var searchErr error
	// first checkpoint above height
	i := sort.Search(int(n), func(i int) bool {
		if searchErr != nil {
			return true
		}
		cp, err := s.checkpoint(account, uint32(i))
		if err != nil {
			searchErr = err
			return true
		}
		return cp.Height > height
	})
	if searchErr != nil {
		return nil, searchErr
	}
	if i == 0 {
		return new(uint256.Int), nil
	}
	cp, err := s.checkpoint(account, uint32(i-1))
	if err != nil {
		return nil, err
	}
	return cp.Weight, nil
}

// Delegate forwards the delegator's weight to delegatee. The zero address means self.
func (s *Service) Delegate(delegator, delegatee tdrop.Address) error {
	if delegatee.IsZero() {
		delegatee = delegator
	}
	from, err := s.effectiveDelegate(delegator)
	if err != nil {
		return err
	}
	if from == delegatee {
		return nil
	}

	if delegatee == delegator {
		s.delegates.Delete(delegator)
	} else if err := s.delegates.Set(delegator, delegatee); err != nil {
		return err
	}
	s.sctx.Emit("DelegateChanged", "delegator", delegator, "fromDelegate", from, "toDelegate", delegatee)

	amount, err := s.balances.BalanceOf(delegator)
	if err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	if err := s.subWeight(from, amount); err != nil {
		return err
	}
	if err := s.addWeight(delegatee, amount); err != nil {
		return err
	}
	logger.Debug("delegated", "delegator", delegator, "from", from, "to", delegatee, "weight", amount)
	return nil
}

// OnSharesChanged moves the weight of account's delegatee by delta.
func (s *Service) OnSharesChanged(account tdrop.Address, delta *big.Int) error {
	if delta.Sign() == 0 {
		return nil
	}
	to, err := s.effectiveDelegate(account)
	if err != nil {
		return err
	}
	amount, overflow := uint256.FromBig(new(big.Int).Abs(delta))
	if overflow {
		return reverts.ErrArithmeticOverflow
	}
	if delta.Sign() > 0 {
		return s.addWeight(to, amount)
	}
	return s.subWeight(to, amount)
}

func (s *Service) addWeight(account tdrop.Address, amount *uint256.Int) error {
	old, err := s.CurrentWeight(account)
	if err != nil {
		return err
	}
	weight, overflow := new(uint256.Int).AddOverflow(old, amount)
	if overflow {
		return reverts.ErrArithmeticOverflow
	}
	return s.write(account, old, weight)
}

func (s *Service) subWeight(account tdrop.Address, amount *uint256.Int) error {
	old, err := s.CurrentWeight(account)
	if err != nil {
		return err
	}
	weight, underflow := new(uint256.Int).SubOverflow(old, amount)
	if underflow {
		return errors.Wrapf(reverts.ErrArithmeticOverflow, "weight of %v below zero", account)
	}
	return s.write(account, old, weight)
}

// write records weight at the current height, overwriting a checkpoint made earlier in the same block.
func (s *Service) write(account tdrop.Address, old, weight *uint256.Int) error {
	height := s.sctx.BlockNumber()
	n, err := s.NumCheckpoints(account)
	if err != nil {
		return err
	}
	if n > 0 {
		last, err := s.checkpoint(account, n-1)
		if err != nil {
			return err
		}
		if last.Height == height {
			if err := s.checkpoints.Set(checkpointKey{account, n - 1}, &Checkpoint{height, weight}); err != nil {
				return err
			}
			s.sctx.Emit("DelegateVotesChanged", "delegate", account, "previousBalance", old, "newBalance", weight)
			return nil
		}
	}
	if err := s.checkpoints.Set(checkpointKey{account, n}, &Checkpoint{height, weight}); err != nil {
		return err
	}
	if err := s.counts.Set(account, n+1); err != nil {
		return err
	}
	s.sctx.Emit("DelegateVotesChanged", "delegate", account, "previousBalance", old, "newBalance", weight)
	return nil
}
