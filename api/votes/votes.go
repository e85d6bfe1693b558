// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package votes

import (
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/api/restutil"
	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

// Weight is the voting weight of an account. Without a height, the weight as of the open block.
type Weight struct {
	Height uint32        `json:"height"`
	Weight *tdrop.Amount `json:"weight"`
}

type Votes struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Votes {
	return &Votes{chain}
}

func (v *Votes) handleGetWeight(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	height, ok, err := restutil.Uint64Query(req, "height")
	if err != nil {
		return err
	}
	if height > math.MaxUint32 {
		return restutil.BadRequest(errors.New("height: out of range"))
	}

	var result Weight
	if err := v.chain.View(func(n *builtin.Natives) (err error) {
		var weight *uint256.Int
		cps := n.Pool().Checkpoints()
		if ok {
			result.Height = uint32(height)
			weight, err = cps.WeightAt(addr, result.Height)
		} else {
			result.Height = n.Env().BlockContext().Number
			weight, err = cps.CurrentWeight(addr)
		}
		if err != nil {
			return err
		}
		result.Weight = tdrop.NewAmount(weight)
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &result)
}

func (v *Votes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(v.handleGetWeight))
}
