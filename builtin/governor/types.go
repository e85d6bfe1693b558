// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governor

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/builtin/timelock"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

// State is the derived lifecycle state of a proposal.
type State uint8

const (
	Pending State = iota
	Active
	Canceled
	Defeated
	Succeeded
	Queued
	Expired
	Executed
)

var stateNames = [...]string{"Pending", "Active", "Canceled", "Defeated", "Succeeded", "Queued", "Expired", "Executed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Live reports whether a proposal in this state blocks its proposer from proposing again.
func (s State) Live() bool {
	switch s {
	case Pending, Active, Succeeded, Queued:
		return true
	}
	return false
}

// Params are the governance parameters.
type Params struct {
	VotingDelay           uint32
	VotingPeriod          uint32
	ProposalThreshold     *uint256.Int
	QuorumVotes           *uint256.Int
	ProposalMaxOperations uint32
}

// Validate checks the voting window bounds.
func (p *Params) Validate() error {
	if err := checkVotingDelay(p.VotingDelay); err != nil {
		return err
	}
	if err := checkVotingPeriod(p.VotingPeriod); err != nil {
		return err
	}
	if p.ProposalMaxOperations == 0 {
		return errors.WithMessage(reverts.ErrInvalidArgument, "zero proposal max operations")
	}
	return nil
}

func checkVotingDelay(delay uint32) error {
	if delay < tdrop.MinVotingDelay || delay > tdrop.MaxVotingDelay {
		return errors.WithMessagef(reverts.ErrInvalidArgument, "voting delay %d outside [%d, %d]", delay, tdrop.MinVotingDelay, tdrop.MaxVotingDelay)
	}
	return nil
}

func checkVotingPeriod(period uint32) error {
	if period < tdrop.MinVotingPeriod || period > tdrop.MaxVotingPeriod {
		return errors.WithMessagef(reverts.ErrInvalidArgument, "voting period %d outside [%d, %d]", period, tdrop.MinVotingPeriod, tdrop.MaxVotingPeriod)
	}
	return nil
}

// Proposal is a stored proposal.
type Proposal struct {
	ID           uint64
	Proposer     tdrop.Address
	Targets      []tdrop.Address
	Values       []*uint256.Int
	Signatures   []string
	Calldatas    [][]byte
	Description  string
	StartHeight  uint32
	EndHeight    uint32
	ForVotes     *uint256.Int
	AgainstVotes *uint256.Int
	QuorumVotes  *uint256.Int // quorum in force at creation
	Canceled     bool
	Executed     bool
	ETA          uint64
}

// Actions returns the timelock actions of the proposal, stamped with its eta.
func (p *Proposal) Actions() []*timelock.Action {
	actions := make([]*timelock.Action, 0, len(p.Targets))
	for i := range p.Targets {
		actions = append(actions, &timelock.Action{
			Target:    p.Targets[i],
			Value:     p.Values[i],
			Signature: p.Signatures[i],
			Data:      p.Calldatas[i],
			ETA:       p.ETA,
		})
	}
	return actions
}

// Receipt records a ballot.
type Receipt struct {
	HasVoted bool
	Support  bool
	Votes    *uint256.Int
}

type proposalID uint64

func (id proposalID) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(id))
}

type receiptKey struct {
	id    uint64
	voter tdrop.Address
}

func (k receiptKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(k.voter.Bytes(), k.id)
}

// WeightSource provides finalized voting weight.
type WeightSource interface {
	WeightAt(account tdrop.Address, height uint32) (*uint256.Int, error)
}

// Timelock is the queue the governor administers.
type Timelock interface {
	Address() tdrop.Address
	Params() (*timelock.Params, error)
	QueueAction(caller tdrop.Address, action *timelock.Action) (tdrop.Bytes32, error)
	ExecuteAction(caller tdrop.Address, action *timelock.Action) error
	CancelAction(caller tdrop.Address, action *timelock.Action) error
}
