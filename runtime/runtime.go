// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes staking and governance operations against one block's state.
package runtime

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/cache"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/metrics"
	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricReverted = metrics.LazyLoadCounterVec("runtime_reverted_count", []string{"op", "kind"})
)

// Runtime is to support operation execution.
type Runtime struct {
	env     *xenv.Environment
	natives *builtin.Natives
}

// New create a Runtime object. weights optionally caches finalized voting weight lookups.
func New(st *state.State, blockCtx *xenv.BlockContext, weights *cache.LRU) *Runtime {
	env := xenv.New(st, blockCtx)
	return &Runtime{
		env:     env,
		natives: builtin.Bind(env, weights),
	}
}

func (rt *Runtime) State() *state.State               { return rt.env.State() }
func (rt *Runtime) BlockContext() *xenv.BlockContext { return rt.env.BlockContext() }
func (rt *Runtime) Natives() *builtin.Natives        { return rt.natives }

// TakeEvents returns and clears the events of the operations executed so far.
func (rt *Runtime) TakeEvents() []*xenv.Event {
	return rt.env.TakeEvents()
}

// atomic runs fn, discarding its state changes and events if it fails.
func (rt *Runtime) atomic(op string, fn func(n *builtin.Natives) error) error {
	err := rt.env.Atomic(func() error { return fn(rt.natives) })
	if err != nil {
		if kind := reverts.KindOf(err); kind != "" {
			metricReverted().AddWithLabel(1, map[string]string{"op": op, "kind": kind})
			logger.Debug("operation reverted", "op", op, "kind", kind, "err", err)
		} else {
			logger.Warn("operation failed", "op", op, "err", err)
		}
	}
	return err
}

// Stake deposits amount of participant into the pool and returns the minted shares.
func (rt *Runtime) Stake(participant tdrop.Address, amount *uint256.Int) (shares *uint256.Int, err error) {
	err = rt.atomic("stake", func(n *builtin.Natives) (err error) {
		shares, err = n.Pool().Stake(participant, amount)
		return
	})
	return
}

// Unstake burns shareAmount of participant and returns the payout.
func (rt *Runtime) Unstake(participant tdrop.Address, shareAmount *uint256.Int) (payout *uint256.Int, err error) {
	err = rt.atomic("unstake", func(n *builtin.Natives) (err error) {
		payout, err = n.Pool().Unstake(participant, shareAmount)
		return
	})
	return
}

// EmitRewards mints the rewards accrued since the last emission into the pool.
func (rt *Runtime) EmitRewards() (minted *uint256.Int, err error) {
	err = rt.atomic("emitRewards", func(n *builtin.Natives) (err error) {
		minted, err = n.Pool().EmitRewards()
		return
	})
	return
}

// Delegate moves the voting weight of delegator's shares to delegatee.
func (rt *Runtime) Delegate(delegator, delegatee tdrop.Address) error {
	return rt.atomic("delegate", func(n *builtin.Natives) error {
		return n.Pool().Delegate(delegator, delegatee)
	})
}

// Transfer moves amount base units from from to to.
func (rt *Runtime) Transfer(from, to tdrop.Address, amount *uint256.Int) error {
	return rt.atomic("transfer", func(n *builtin.Natives) error {
		return n.Token().Transfer(from, to, amount)
	})
}

// Approve sets the allowance of spender over owner's balance.
func (rt *Runtime) Approve(owner, spender tdrop.Address, amount *uint256.Int) error {
	return rt.atomic("approve", func(n *builtin.Natives) error {
		return n.Token().Approve(owner, spender, amount)
	})
}

// Propose creates a proposal and returns its id.
func (rt *Runtime) Propose(
	proposer tdrop.Address,
	targets []tdrop.Address,
	values []*uint256.Int,
	signatures []string,
	calldatas [][]byte,
	description string,
) (id uint64, err error) {
	err = rt.atomic("propose", func(n *builtin.Natives) (err error) {
		id, err = n.Governor().Propose(proposer, targets, values, signatures, calldatas, description)
		return
	})
	return
}

// CastVote records the ballot of voter and returns the weight counted.
func (rt *Runtime) CastVote(voter tdrop.Address, id uint64, support bool) (votes *uint256.Int, err error) {
	err = rt.atomic("castVote", func(n *builtin.Natives) (err error) {
		votes, err = n.Governor().CastVote(voter, id, support)
		return
	})
	return
}

// QueueProposal schedules the actions of a succeeded proposal and returns their eta.
func (rt *Runtime) QueueProposal(id uint64) (eta uint64, err error) {
	err = rt.atomic("queue", func(n *builtin.Natives) (err error) {
		eta, err = n.Governor().Queue(id)
		return
	})
	return
}

// ExecuteProposal executes the actions of a queued proposal.
func (rt *Runtime) ExecuteProposal(id uint64) error {
	return rt.atomic("execute", func(n *builtin.Natives) error {
		return n.Governor().Execute(id)
	})
}

// CancelProposal cancels proposal id on behalf of caller.
func (rt *Runtime) CancelProposal(caller tdrop.Address, id uint64) error {
	return rt.atomic("cancel", func(n *builtin.Natives) error {
		return n.Governor().Cancel(caller, id)
	})
}

// Clause is a single native call.
type Clause struct {
	To        tdrop.Address
	Signature string
	Data      []byte
}

// Request is a batch of clauses sent by Origin. Either every clause applies or none does.
type Request struct {
	Origin  tdrop.Address
	Clauses []*Clause
}

// Receipt is the outcome of a request.
type Receipt struct {
	Reverted     bool
	RevertKind   string
	RevertReason string
	Events       []*xenv.Event
}

// ExecuteRequest executes req. A business rule failure reverts the whole request and is
// reported in the receipt. Other failures are returned as error.
func (rt *Runtime) ExecuteRequest(req *Request) (*Receipt, error) {
	if len(req.Clauses) == 0 {
		return nil, errors.New("empty request")
	}
	before := len(rt.env.Events())
	err := rt.atomic("request", func(n *builtin.Natives) error {
		for i, clause := range req.Clauses {
			if err := n.Call(req.Origin, clause.To, clause.Signature, clause.Data); err != nil {
				return errors.WithMessagef(err, "clause %d", i)
			}
		}
		return nil
	})

	receipt := &Receipt{}
	if err != nil {
		if !reverts.IsRevertErr(err) {
			return nil, err
		}
		receipt.Reverted = true
		receipt.RevertKind = reverts.KindOf(err)
		receipt.RevertReason = err.Error()
		return receipt, nil
	}
	receipt.Events = append(receipt.Events, rt.env.Events()[before:]...)
	return receipt, nil
}
