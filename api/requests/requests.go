// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package requests executes batches of native calls in dev mode.
package requests

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/api/restutil"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/runtime"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

// Clause calls a builtin component. Without a signature, data starts with the method selector.
type Clause struct {
	To        tdrop.Address `json:"to"`
	Signature string        `json:"signature"`
	Data      hexutil.Bytes `json:"data"`
}

type Request struct {
	Origin  tdrop.Address `json:"origin"`
	Clauses []*Clause     `json:"clauses"`
}

type Receipt struct {
	Reverted     bool          `json:"reverted"`
	RevertKind   string        `json:"revertKind,omitempty"`
	RevertReason string        `json:"revertReason,omitempty"`
	Events       []*xenv.Event `json:"events"`
}

type Requests struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Requests {
	return &Requests{chain}
}

func (r *Requests) handleExecute(w http.ResponseWriter, req *http.Request) error {
	var body Request
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body.Clauses) == 0 {
		return restutil.BadRequest(errors.New("body: no clauses"))
	}
	request := &runtime.Request{Origin: body.Origin}
	for i, c := range body.Clauses {
		if c == nil {
			return restutil.BadRequest(errors.Errorf("body: clause %d is null", i))
		}
		request.Clauses = append(request.Clauses, &runtime.Clause{
			To:        c.To,
			Signature: c.Signature,
			Data:      c.Data,
		})
	}

	var receipt *runtime.Receipt
	if err := r.chain.Exec(func(rt *runtime.Runtime) (err error) {
		receipt, err = rt.ExecuteRequest(request)
		return
	}); err != nil {
		return err
	}
	events := receipt.Events
	if events == nil {
		events = []*xenv.Event{}
	}
	return restutil.WriteJSON(w, &Receipt{
		Reverted:     receipt.Reverted,
		RevertKind:   receipt.RevertKind,
		RevertReason: receipt.RevertReason,
		Events:       events,
	})
}

func (r *Requests) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(r.handleExecute))
}
