// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governor

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

// parameter setters are reachable only through timelocked actions.
func (g *Governor) update(caller tdrop.Address, name string, value any, fn func(p *Params) error) error {
	if caller != g.timelock.Address() {
		return errors.WithMessagef(reverts.ErrUnauthorized, "%s can only be set by the timelock", name)
	}
	params, err := g.Params()
	if err != nil {
		return err
	}
	if err := fn(params); err != nil {
		return err
	}
	if err := g.params.Upsert(params); err != nil {
		return err
	}
	g.sctx.Emit("ParamChanged", "name", name, "value", value)
	logger.Info("governance parameter changed", "name", name, "value", value)
	return nil
}

func (g *Governor) SetVotingDelay(caller tdrop.Address, delay uint32) error {
	return g.update(caller, "votingDelay", delay, func(p *Params) error {
		if err := checkVotingDelay(delay); err != nil {
			return err
		}
		p.VotingDelay = delay
		return nil
	})
}

func (g *Governor) SetVotingPeriod(caller tdrop.Address, period uint32) error {
	return g.update(caller, "votingPeriod", period, func(p *Params) error {
		if err := checkVotingPeriod(period); err != nil {
			return err
		}
		p.VotingPeriod = period
		return nil
	})
}

func (g *Governor) SetProposalThreshold(caller tdrop.Address, threshold *uint256.Int) error {
	return g.update(caller, "proposalThreshold", threshold, func(p *Params) error {
		p.ProposalThreshold = threshold
		return nil
	})
}

func (g *Governor) SetQuorumVotes(caller tdrop.Address, quorum *uint256.Int) error {
	return g.update(caller, "quorumVotes", quorum, func(p *Params) error {
		p.QuorumVotes = quorum
		return nil
	})
}
