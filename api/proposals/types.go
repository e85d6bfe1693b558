// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proposals

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/thetatoken/tdrop-governance/builtin/governor"
	"github.com/thetatoken/tdrop-governance/builtin/timelock"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

type Action struct {
	Target    tdrop.Address `json:"target"`
	Value     *tdrop.Amount `json:"value"`
	Signature string        `json:"signature"`
	Data      hexutil.Bytes `json:"data"`
	ETA       uint64        `json:"eta"`
}

func convertAction(a *timelock.Action) *Action {
	value := a.Value
	if value == nil {
		value = new(uint256.Int)
	}
	return &Action{
		Target:    a.Target,
		Value:     tdrop.NewAmount(value),
		Signature: a.Signature,
		Data:      a.Data,
		ETA:       a.ETA,
	}
}

type Proposal struct {
	ID           uint64        `json:"id"`
	Proposer     tdrop.Address `json:"proposer"`
	Description  string        `json:"description"`
	StartHeight  uint32        `json:"startHeight"`
	EndHeight    uint32        `json:"endHeight"`
	ForVotes     *tdrop.Amount `json:"forVotes"`
	AgainstVotes *tdrop.Amount `json:"againstVotes"`
	Canceled     bool          `json:"canceled"`
	Executed     bool          `json:"executed"`
	ETA          uint64        `json:"eta"`
	State        string        `json:"state"`
	Actions      []*Action     `json:"actions"`
}

func convertProposal(p *governor.Proposal, state governor.State) *Proposal {
	actions := p.Actions()
	converted := make([]*Action, 0, len(actions))
	for _, a := range actions {
		converted = append(converted, convertAction(a))
	}
	return &Proposal{
		ID:           p.ID,
		Proposer:     p.Proposer,
		Description:  p.Description,
		StartHeight:  p.StartHeight,
		EndHeight:    p.EndHeight,
		ForVotes:     tdrop.NewAmount(p.ForVotes),
		AgainstVotes: tdrop.NewAmount(p.AgainstVotes),
		Canceled:     p.Canceled,
		Executed:     p.Executed,
		ETA:          p.ETA,
		State:        state.String(),
		Actions:      converted,
	}
}

// Summary counts proposals. LatestID is set when a proposer was queried.
type Summary struct {
	Count    uint64  `json:"count"`
	LatestID *uint64 `json:"latestID,omitempty"`
}

type Receipt struct {
	HasVoted bool          `json:"hasVoted"`
	Support  bool          `json:"support"`
	Votes    *tdrop.Amount `json:"votes"`
}

type ProposeRequest struct {
	Proposer    tdrop.Address   `json:"proposer"`
	Targets     []tdrop.Address `json:"targets"`
	Values      []*tdrop.Amount `json:"values"`
	Signatures  []string        `json:"signatures"`
	Calldatas   []hexutil.Bytes `json:"calldatas"`
	Description string          `json:"description"`
}

type ProposeResult struct {
	ID uint64 `json:"id"`
}

type VoteRequest struct {
	Voter   tdrop.Address `json:"voter"`
	Support bool          `json:"support"`
}

type VoteResult struct {
	Votes *tdrop.Amount `json:"votes"`
}

type QueueResult struct {
	ETA uint64 `json:"eta"`
}

type CancelRequest struct {
	Caller tdrop.Address `json:"caller"`
}
