// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/api/restutil"
	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/runtime"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

type Pool struct {
	chain   *chain.Chain
	devMode bool
}

func New(chain *chain.Chain, devMode bool) *Pool {
	return &Pool{chain, devMode}
}

func (p *Pool) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	var summary *Summary
	if err := p.chain.View(func(n *builtin.Natives) error {
		s, err := n.Pool().Summary()
		if err != nil {
			return err
		}
		summary = convertSummary(s)
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, summary)
}

func (p *Pool) handleGetShares(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var shares, value *uint256.Int
	if err := p.chain.View(func(n *builtin.Natives) (err error) {
		pool := n.Pool()
		if shares, err = pool.SharesOf(addr); err != nil {
			return err
		}
		if shares.IsZero() {
			value = new(uint256.Int)
			return nil
		}
		value, err = pool.EstimatePayout(shares)
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Shares{
		Shares: tdrop.NewAmount(shares),
		Value:  tdrop.NewAmount(value),
	})
}

func (p *Pool) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("body: amount required"))
	}
	var shares *uint256.Int
	if err := p.chain.Exec(func(rt *runtime.Runtime) (err error) {
		shares, err = rt.Stake(body.Participant, body.Amount.Int())
		return
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &StakeResult{tdrop.NewAmount(shares)})
}

func (p *Pool) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	var body UnstakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Shares == nil {
		return restutil.BadRequest(errors.New("body: shares required"))
	}
	var payout *uint256.Int
	if err := p.chain.Exec(func(rt *runtime.Runtime) (err error) {
		payout, err = rt.Unstake(body.Participant, body.Shares.Int())
		return
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &UnstakeResult{tdrop.NewAmount(payout)})
}

func (p *Pool) handleEmit(w http.ResponseWriter, _ *http.Request) error {
	var minted *uint256.Int
	if err := p.chain.Exec(func(rt *runtime.Runtime) (err error) {
		minted, err = rt.EmitRewards()
		return
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &EmitResult{tdrop.NewAmount(minted)})
}

func (p *Pool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(p.handleGetSummary))
	sub.Path("/shares/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(p.handleGetShares))
	if p.devMode {
		sub.Path("/stake").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(p.handleStake))
		sub.Path("/unstake").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(p.handleUnstake))
		sub.Path("/emit").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(p.handleEmit))
	}
}
