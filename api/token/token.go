// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

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

type Token struct {
	chain   *chain.Chain
	devMode bool
}

func New(chain *chain.Chain, devMode bool) *Token {
	return &Token{chain, devMode}
}

func (t *Token) handleGetSupply(w http.ResponseWriter, _ *http.Request) error {
	var supply Supply
	if err := t.chain.View(func(n *builtin.Natives) error {
		tk := n.Token()
		total, err := tk.TotalSupply()
		if err != nil {
			return err
		}
		maxSupply, err := tk.MaxSupply()
		if err != nil {
			return err
		}
		if supply.Paused, err = tk.IsPaused(); err != nil {
			return err
		}
		supply.TotalSupply = tdrop.NewAmount(total)
		supply.MaxSupply = tdrop.NewAmount(maxSupply)

		for _, f := range []struct {
			get func() (*uint256.Int, error)
			dst **tdrop.Amount
		}{
			{tk.MaxStakeReward, &supply.MaxStakeReward},
			{tk.StakeRewardMinted, &supply.StakeRewardMinted},
			{tk.MaxLiquidityMiningReward, &supply.MaxLiquidityMiningReward},
			{tk.LiquidityMiningMinted, &supply.LiquidityMiningMinted},
			{tk.Airdropped, &supply.Airdropped},
		} {
			v, err := f.get()
			if err != nil {
				return err
			}
			*f.dst = tdrop.NewAmount(v)
		}
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &supply)
}

func (t *Token) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var acc Account
	if err := t.chain.View(func(n *builtin.Natives) error {
		bal, err := n.Token().BalanceOf(addr)
		if err != nil {
			return err
		}
		acc.Balance = tdrop.NewAmount(bal)
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &acc)
}

func (t *Token) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	spender, err := restutil.AddressVar(req, "spender")
	if err != nil {
		return err
	}
	var allowance Allowance
	if err := t.chain.View(func(n *builtin.Natives) error {
		v, err := n.Token().Allowance(owner, spender)
		if err != nil {
			return err
		}
		allowance.Allowance = tdrop.NewAmount(v)
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &allowance)
}

func (t *Token) handleApprove(w http.ResponseWriter, req *http.Request) error {
	var body ApproveRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("body: amount required"))
	}
	if err := t.chain.Exec(func(rt *runtime.Runtime) error {
		return rt.Approve(body.Owner, body.Spender, body.Amount.Int())
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{})
}

func (t *Token) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("body: amount required"))
	}
	if err := t.chain.Exec(func(rt *runtime.Runtime) error {
		return rt.Transfer(body.From, body.To, body.Amount.Int())
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{})
}

func (t *Token) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(t.handleGetSupply))
	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(t.handleGetAccount))
	sub.Path("/{address}/allowances/{spender}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(t.handleGetAllowance))
	if t.devMode {
		sub.Path("/approve").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(t.handleApprove))
		sub.Path("/transfer").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(t.handleTransfer))
	}
}
