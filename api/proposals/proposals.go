// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proposals

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/api/restutil"
	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/builtin/governor"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/runtime"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

type Proposals struct {
	chain   *chain.Chain
	devMode bool
}

func New(chain *chain.Chain, devMode bool) *Proposals {
	return &Proposals{chain, devMode}
}

// lookup returns proposal id, responding not found for ids never assigned.
func lookup(g *governor.Governor, id uint64) (*governor.Proposal, error) {
	count, err := g.ProposalCount()
	if err != nil {
		return nil, err
	}
	if id == 0 || id > count {
		return nil, restutil.NotFound(errors.Errorf("proposal %d", id))
	}
	return g.GetProposal(id)
}

func (p *Proposals) handleGetSummary(w http.ResponseWriter, req *http.Request) error {
	var proposer *tdrop.Address
	if s := req.URL.Query().Get("proposer"); s != "" {
		addr, err := tdrop.ParseAddress(s)
		if err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "proposer"))
		}
		proposer = &addr
	}
	var summary Summary
	if err := p.chain.View(func(n *builtin.Natives) (err error) {
		g := n.Governor()
		if summary.Count, err = g.ProposalCount(); err != nil {
			return err
		}
		if proposer != nil {
			latest, err := g.LatestProposalID(*proposer)
			if err != nil {
				return err
			}
			summary.LatestID = &latest
		}
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &summary)
}

func (p *Proposals) handleGetProposal(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var proposal *Proposal
	if err := p.chain.View(func(n *builtin.Natives) error {
		g := n.Governor()
		prop, err := lookup(g, id)
		if err != nil {
			return err
		}
		state, err := g.State(id)
		if err != nil {
			return err
		}
		proposal = convertProposal(prop, state)
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, proposal)
}

func (p *Proposals) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	voter, err := restutil.AddressVar(req, "voter")
	if err != nil {
		return err
	}
	var receipt *Receipt
	if err := p.chain.View(func(n *builtin.Natives) error {
		g := n.Governor()
		if _, err := lookup(g, id); err != nil {
			return err
		}
		r, err := g.GetReceipt(id, voter)
		if err != nil {
			return err
		}
		receipt = &Receipt{
			HasVoted: r.HasVoted,
			Support:  r.Support,
			Votes:    tdrop.NewAmount(r.Votes),
		}
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, receipt)
}

func (p *Proposals) handlePropose(w http.ResponseWriter, req *http.Request) error {
	var body ProposeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	values := make([]*uint256.Int, 0, len(body.Values))
	for _, v := range body.Values {
		values = append(values, v.Int())
	}
	calldatas := make([][]byte, 0, len(body.Calldatas))
	for _, data := range body.Calldatas {
		calldatas = append(calldatas, data)
	}

	var id uint64
	if err := p.chain.Exec(func(rt *runtime.Runtime) (err error) {
		id, err = rt.Propose(body.Proposer, body.Targets, values, body.Signatures, calldatas, body.Description)
		return
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &ProposeResult{id})
}

func (p *Proposals) handleCastVote(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body VoteRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var votes *uint256.Int
	if err := p.chain.Exec(func(rt *runtime.Runtime) (err error) {
		votes, err = rt.CastVote(body.Voter, id, body.Support)
		return
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &VoteResult{tdrop.NewAmount(votes)})
}

func (p *Proposals) handleQueue(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var eta uint64
	if err := p.chain.Exec(func(rt *runtime.Runtime) (err error) {
		eta, err = rt.QueueProposal(id)
		return
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &QueueResult{eta})
}

func (p *Proposals) handleExecute(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	if err := p.chain.Exec(func(rt *runtime.Runtime) error {
		return rt.ExecuteProposal(id)
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{})
}

func (p *Proposals) handleCancel(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body CancelRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := p.chain.Exec(func(rt *runtime.Runtime) error {
		return rt.CancelProposal(body.Caller, id)
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{})
}

func (p *Proposals) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(p.handleGetSummary))
	sub.Path("/{id}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(p.handleGetProposal))
	sub.Path("/{id}/receipts/{voter}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(p.handleGetReceipt))
	if p.devMode {
		sub.Path("").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(p.handlePropose))
		sub.Path("/{id}/votes").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(p.handleCastVote))
		sub.Path("/{id}/queue").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(p.handleQueue))
		sub.Path("/{id}/execute").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(p.handleExecute))
		sub.Path("/{id}/cancel").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(p.handleCancel))
	}
}
