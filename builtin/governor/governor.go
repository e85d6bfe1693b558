// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package governor implements proposal creation, checkpointed voting and timelocked execution.
package governor

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/builtin/solidity"
	"github.com/thetatoken/tdrop-governance/builtin/timelock"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/metrics"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

var (
	logger = log.WithContext("pkg", "governor")

	metricProposals = metrics.LazyLoadCounterVec("governor_proposals_count", []string{"event"})
	metricVotes     = metrics.LazyLoadCounterVec("governor_votes_count", []string{"support"})
)

var (
	slotParams        = tdrop.BytesToBytes32([]byte("params"))
	slotProposalCount = tdrop.BytesToBytes32([]byte("proposal-count"))
	slotProposals     = tdrop.BytesToBytes32([]byte("proposals"))
	slotReceipts      = tdrop.BytesToBytes32([]byte("receipts"))
	slotLatest        = tdrop.BytesToBytes32([]byte("latest-proposal"))
)

// DefaultParams returns the default governance parameters.
func DefaultParams() *Params {
	return &Params{
		VotingDelay:           tdrop.DefaultVotingDelay,
		VotingPeriod:          tdrop.DefaultVotingPeriod,
		ProposalThreshold:     new(uint256.Int),
		QuorumVotes:           new(uint256.Int),
		ProposalMaxOperations: tdrop.DefaultProposalMaxOperations,
	}
}

type Governor struct {
	sctx     *solidity.Context
	weights  WeightSource
	timelock Timelock
	auth     roles.Authorizer

	params    *solidity.Raw[*Params]
	count     *solidity.Raw[uint64]
	proposals *solidity.Mapping[proposalID, *Proposal]
	receipts  *solidity.Mapping[receiptKey, *Receipt]
	latest    *solidity.Mapping[tdrop.Address, uint64]
}

func New(sctx *solidity.Context, weights WeightSource, tl Timelock, auth roles.Authorizer) *Governor {
	return &Governor{
		sctx:     sctx,
		weights:  weights,
		timelock: tl,
		auth:     auth,

		params:    solidity.NewRaw[*Params](sctx, slotParams),
		count:     solidity.NewRaw[uint64](sctx, slotProposalCount),
		proposals: solidity.NewMapping[proposalID, *Proposal](sctx, slotProposals),
		receipts:  solidity.NewMapping[receiptKey, *Receipt](sctx, slotReceipts),
		latest:    solidity.NewMapping[tdrop.Address, uint64](sctx, slotLatest),
	}
}

// Address returns the governor address.
func (g *Governor) Address() tdrop.Address {
	return g.sctx.Address()
}

// Init stores the governance parameters. Used by genesis.
func (g *Governor) Init(params *Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return g.params.Upsert(params)
}

// Params returns the governance parameters.
func (g *Governor) Params() (*Params, error) {
	p, err := g.params.Get()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return DefaultParams(), nil
	}
	return p, nil
}

// ProposalCount returns the number of proposals ever created.
func (g *Governor) ProposalCount() (uint64, error) {
	return g.count.Get()
}

// LatestProposalID returns the last proposal id of proposer, zero if none.
func (g *Governor) LatestProposalID(proposer tdrop.Address) (uint64, error) {
	return g.latest.Get(proposer)
}

// GetProposal returns the proposal with id.
func (g *Governor) GetProposal(id uint64) (*Proposal, error) {
	count, err := g.ProposalCount()
	if err != nil {
		return nil, err
	}
	if id == 0 || id > count {
		return nil, errors.WithMessagef(reverts.ErrInvalidArgument, "unknown proposal %d", id)
	}
	p, err := g.proposals.Get(proposalID(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get proposal")
	}
	if p == nil {
		return nil, errors.Errorf("missing proposal %d", id)
	}
	return p, nil
}

// GetActions returns the actions of proposal id.
func (g *Governor) GetActions(id uint64) ([]*timelock.Action, error) {
	p, err := g.GetProposal(id)
	if err != nil {
		return nil, err
	}
	return p.Actions(), nil
}

// GetReceipt returns the ballot of voter on proposal id.
func (g *Governor) GetReceipt(id uint64, voter tdrop.Address) (*Receipt, error) {
	if _, err := g.GetProposal(id); err != nil {
		return nil, err
	}
	r, err := g.receipts.Get(receiptKey{id, voter})
	if err != nil {
		return nil, err
	}
	if r == nil {
		return &Receipt{Votes: new(uint256.Int)}, nil
	}
	return r, nil
}

// State derives the state of proposal id from the current height and time.
func (g *Governor) State(id uint64) (State, error) {
	p, err := g.GetProposal(id)
	if err != nil {
		return 0, err
	}
	return g.stateOf(p)
}

// stateOf derives the state. Voting opens after startHeight, since weight is snapshotted at
// startHeight and only finalized heights can be looked up, and closes after endHeight.
// The tally is judged against the quorum recorded at creation.
func (g *Governor) stateOf(p *Proposal) (State, error) {
	switch {
	case p.Canceled:
		return Canceled, nil
	case p.Executed:
		return Executed, nil
	case p.ETA != 0:
		tlParams, err := g.timelock.Params()
		if err != nil {
			return 0, err
		}
		if g.sctx.BlockTime() > p.ETA+tlParams.GracePeriod {
			return Expired, nil
		}
		return Queued, nil
	}

	height := g.sctx.BlockNumber()
	switch {
	case height <= p.StartHeight:
		return Pending, nil
	case height <= p.EndHeight:
		return Active, nil
	}

	quorum := p.QuorumVotes
	if quorum == nil {
		params, err := g.Params()
		if err != nil {
			return 0, err
		}
		quorum = params.QuorumVotes
	}
	if !p.ForVotes.Gt(p.AgainstVotes) || p.ForVotes.Lt(quorum) {
		return Defeated, nil
	}
	return Succeeded, nil
}

// priorWeight returns the weight of account as of the previous block.
func (g *Governor) priorWeight(account tdrop.Address) (*uint256.Int, error) {
	height := g.sctx.BlockNumber()
	if height == 0 {
		return new(uint256.Int), nil
	}
	return g.weights.WeightAt(account, height-1)
}

// Propose creates a proposal and returns its id.
func (g *Governor) Propose(
	proposer tdrop.Address,
	targets []tdrop.Address,
	values []*uint256.Int,
	signatures []string,
	calldatas [][]byte,
	description string,
) (uint64, error) {
	params, err := g.Params()
	if err != nil {
		return 0, err
	}
	weight, err := g.priorWeight(proposer)
	if err != nil {
		return 0, err
	}
	if weight.Lt(params.ProposalThreshold) {
		return 0, errors.WithMessagef(reverts.ErrUnauthorized, "proposer votes %v below threshold %v", weight, params.ProposalThreshold)
	}

	n := len(targets)
	if n == 0 || len(values) != n || len(signatures) != n || len(calldatas) != n {
		return 0, errors.WithMessage(reverts.ErrInvalidArgument, "proposal function information arity mismatch")
	}
	if n > int(params.ProposalMaxOperations) {
		return 0, errors.WithMessagef(reverts.ErrInvalidArgument, "too many actions, max %d", params.ProposalMaxOperations)
	}

	latest, err := g.LatestProposalID(proposer)
	if err != nil {
		return 0, err
	}
	if latest != 0 {
		state, err := g.State(latest)
		if err != nil {
			return 0, err
		}
		if state.Live() {
			return 0, errors.WithMessagef(reverts.ErrWrongState, "proposer has a %v proposal %d", state, latest)
		}
	}

	count, err := g.ProposalCount()
	if err != nil {
		return 0, err
	}
	id := count + 1
	quorum := new(uint256.Int)
	if params.QuorumVotes != nil {
		quorum.Set(params.QuorumVotes)
	}
	start := uint64(g.sctx.BlockNumber()) + uint64(params.VotingDelay)
	end := start + uint64(params.VotingPeriod)
	if end > math.MaxUint32 {
		return 0, errors.WithMessagef(reverts.ErrArithmeticOverflow, "voting window ends past height %d", uint32(math.MaxUint32))
	}
	p := &Proposal{
		ID:           id,
		Proposer:     proposer,
		Targets:      targets,
		Values:       make([]*uint256.Int, n),
		Signatures:   signatures,
		Calldatas:    calldatas,
		Description:  description,
		StartHeight:  uint32(start),
		EndHeight:    uint32(end),
		ForVotes:     new(uint256.Int),
		AgainstVotes: new(uint256.Int),
		QuorumVotes:  quorum,
	}
	for i, v := range values {
		if v == nil {
			v = new(uint256.Int)
		}
		p.Values[i] = v
	}

	if err := g.proposals.Set(proposalID(id), p); err != nil {
		return 0, err
	}
	if err := g.count.Upsert(id); err != nil {
		return 0, err
	}
	if err := g.latest.Set(proposer, id); err != nil {
		return 0, err
	}

	g.sctx.Emit("ProposalCreated", "id", id, "proposer", proposer, "startHeight", p.StartHeight, "endHeight", p.EndHeight, "description", description)
	metricProposals().AddWithLabel(1, map[string]string{"event": "created"})
	logger.Info("proposal created", "id", id, "proposer", proposer, "actions", n, "start", p.StartHeight, "end", p.EndHeight)
	return id, nil
}

// CastVote records the vote of voter, weighted as of the proposal start height.
func (g *Governor) CastVote(voter tdrop.Address, id uint64, support bool) (*uint256.Int, error) {
	p, err := g.GetProposal(id)
	if err != nil {
		return nil, err
	}
	state, err := g.stateOf(p)
	if err != nil {
		return nil, err
	}
	if state != Active {
		return nil, errors.WithMessagef(reverts.ErrProposalNotActive, "proposal %d is %v", id, state)
	}
	receipt, err := g.receipts.Get(receiptKey{id, voter})
	if err != nil {
		return nil, err
	}
	if receipt != nil && receipt.HasVoted {
		return nil, errors.WithMessagef(reverts.ErrAlreadyVoted, "%v on proposal %d", voter, id)
	}

	votes, err := g.weights.WeightAt(voter, p.StartHeight)
	if err != nil {
		return nil, err
	}
	tally := p.AgainstVotes
	if support {
		tally = p.ForVotes
	}
	if _, overflow := tally.AddOverflow(tally, votes); overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	if err := g.proposals.Set(proposalID(id), p); err != nil {
		return nil, err
	}
	if err := g.receipts.Set(receiptKey{id, voter}, &Receipt{HasVoted: true, Support: support, Votes: votes}); err != nil {
		return nil, err
	}

	g.sctx.Emit("VoteCast", "voter", voter, "id", id, "support", support, "votes", votes)
	if support {
		metricVotes().AddWithLabel(1, map[string]string{"support": "for"})
	} else {
		metricVotes().AddWithLabel(1, map[string]string{"support": "against"})
	}
	logger.Debug("vote cast", "voter", voter, "id", id, "support", support, "votes", votes)
	return votes, nil
}

// Queue hands the actions of a succeeded proposal to the timelock, all or nothing.
// It returns the eta of the actions.
func (g *Governor) Queue(id uint64) (eta uint64, err error) {
	err = g.sctx.Env().Atomic(func() error {
		eta, err = g.queue(id)
		return err
	})
	return
}

func (g *Governor) queue(id uint64) (uint64, error) {
	p, err := g.GetProposal(id)
	if err != nil {
		return 0, err
	}
	state, err := g.stateOf(p)
	if err != nil {
		return 0, err
	}
	if state != Succeeded {
		return 0, errors.WithMessagef(reverts.ErrWrongState, "proposal %d is %v", id, state)
	}
	tlParams, err := g.timelock.Params()
	if err != nil {
		return 0, err
	}
	p.ETA = g.sctx.BlockTime() + tlParams.Delay
	for _, action := range p.Actions() {
		if _, err := g.timelock.QueueAction(g.Address(), action); err != nil {
			return 0, err
		}
	}
	if err := g.proposals.Set(proposalID(id), p); err != nil {
		return 0, err
	}

	g.sctx.Emit("ProposalQueued", "id", id, "eta", p.ETA)
	metricProposals().AddWithLabel(1, map[string]string{"event": "queued"})
	logger.Info("proposal queued", "id", id, "eta", p.ETA)
	return p.ETA, nil
}

// Execute runs every action of a queued proposal through the timelock, all or nothing.
func (g *Governor) Execute(id uint64) error {
	return g.sctx.Env().Atomic(func() error {
		p, err := g.GetProposal(id)
		if err != nil {
			return err
		}
		state, err := g.stateOf(p)
		if err != nil {
			return err
		}
		if state != Queued {
			return errors.WithMessagef(reverts.ErrWrongState, "proposal %d is %v", id, state)
		}
		if g.sctx.BlockTime() < p.ETA {
			return errors.WithMessagef(reverts.ErrStaleAction, "proposal %d locked until %d", id, p.ETA)
		}
		p.Executed = true
		if err := g.proposals.Set(proposalID(id), p); err != nil {
			return err
		}
		for i, action := range p.Actions() {
			if err := g.timelock.ExecuteAction(g.Address(), action); err != nil {
				logger.Debug("proposal execution failed", "id", id, "action", i, "err", err)
				return errors.WithMessagef(err, "proposal %d action %d", id, i)
			}
		}

		g.sctx.Emit("ProposalExecuted", "id", id)
		metricProposals().AddWithLabel(1, map[string]string{"event": "executed"})
		logger.Info("proposal executed", "id", id)
		return nil
	})
}

// Cancel cancels proposal id. The proposer or a guardian may always cancel, anyone may once
// the proposer's weight fell below the threshold.
func (g *Governor) Cancel(caller tdrop.Address, id uint64) error {
	p, err := g.GetProposal(id)
	if err != nil {
		return err
	}
	state, err := g.stateOf(p)
	if err != nil {
		return err
	}
	if state == Executed || state == Canceled || state == Expired {
		return errors.WithMessagef(reverts.ErrWrongState, "proposal %d is %v", id, state)
	}
	if err := g.authorizeCancel(caller, p); err != nil {
		return err
	}

	p.Canceled = true
	if p.ETA != 0 {
		for _, action := range p.Actions() {
			if err := g.timelock.CancelAction(g.Address(), action); err != nil {
				return err
			}
		}
	}
	if err := g.proposals.Set(proposalID(id), p); err != nil {
		return err
	}

	g.sctx.Emit("ProposalCanceled", "id", id, "by", caller)
	metricProposals().AddWithLabel(1, map[string]string{"event": "canceled"})
	logger.Info("proposal canceled", "id", id, "by", caller)
	return nil
}

func (g *Governor) authorizeCancel(caller tdrop.Address, p *Proposal) error {
	if caller == p.Proposer {
		return nil
	}
	if err := g.auth.RequireRole(caller, roles.Admin); err == nil {
		return nil
	} else if !reverts.IsRevertErr(err) {
		return err
	}
	params, err := g.Params()
	if err != nil {
		return err
	}
	weight, err := g.priorWeight(p.Proposer)
	if err != nil {
		return err
	}
	if weight.Lt(params.ProposalThreshold) {
		return nil
	}
	return errors.WithMessage(reverts.ErrUnauthorized, "proposer above threshold")
}
