// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegates

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/api/restutil"
	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/runtime"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

type Delegates struct {
	chain   *chain.Chain
	devMode bool
}

func New(chain *chain.Chain, devMode bool) *Delegates {
	return &Delegates{chain, devMode}
}

func (d *Delegates) handleGetDelegation(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var delegation Delegation
	if err := d.chain.View(func(n *builtin.Natives) error {
		cps := n.Pool().Checkpoints()
		delegate, err := cps.DelegateOf(addr)
		if err != nil {
			return err
		}
		if !delegate.IsZero() {
			delegation.Delegate = &delegate
		}
		weight, err := cps.CurrentWeight(addr)
		if err != nil {
			return err
		}
		delegation.Weight = tdrop.NewAmount(weight)

		count, err := cps.NumCheckpoints(addr)
		if err != nil {
			return err
		}
		delegation.Checkpoints = make([]*Checkpoint, 0, count)
		for i := range count {
			cp, err := cps.CheckpointAt(addr, i)
			if err != nil {
				return err
			}
			delegation.Checkpoints = append(delegation.Checkpoints, convertCheckpoint(cp))
		}
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &delegation)
}

func (d *Delegates) handleDelegate(w http.ResponseWriter, req *http.Request) error {
	var body DelegateRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := d.chain.Exec(func(rt *runtime.Runtime) error {
		return rt.Delegate(body.Delegator, body.Delegatee)
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{})
}

func (d *Delegates) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(d.handleGetDelegation))
	if d.devMode {
		sub.Path("").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(d.handleDelegate))
	}
}
