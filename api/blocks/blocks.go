// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/api/restutil"
	"github.com/thetatoken/tdrop-governance/chain"
)

type Blocks struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Blocks {
	return &Blocks{chain}
}

func (b *Blocks) handleGetBlock(w http.ResponseWriter, req *http.Request) error {
	revision := mux.Vars(req)["revision"]
	if revision == "" || revision == "best" {
		return restutil.WriteJSON(w, b.chain.Head())
	}
	n, err := strconv.ParseUint(revision, 10, 32)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "revision"))
	}
	blk, err := b.chain.GetBlock(uint32(n))
	if err != nil {
		if b.chain.IsNotFound(err) {
			return restutil.WriteJSON(w, nil)
		}
		return err
	}
	return restutil.WriteJSON(w, blk)
}

const maxListLimit = 100

func (b *Blocks) handleListBlocks(w http.ResponseWriter, req *http.Request) error {
	from, _, err := restutil.Uint64Query(req, "from")
	if err != nil {
		return err
	}
	if from > math.MaxUint32 {
		return restutil.BadRequest(errors.New("from: out of range"))
	}
	limit, ok, err := restutil.Uint64Query(req, "limit")
	if err != nil {
		return err
	}
	if !ok {
		limit = 10
	}
	if limit > maxListLimit {
		return restutil.Forbidden(errors.Errorf("limit: exceeds %d", maxListLimit))
	}
	blks, err := b.chain.Blocks(uint32(from), int(limit))
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, blks)
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(b.handleListBlocks))
	sub.Path("/{revision}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(b.handleGetBlock))
}
