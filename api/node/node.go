// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/thetatoken/tdrop-governance/api/restutil"
	"github.com/thetatoken/tdrop-governance/health"
)

type Node struct {
	health *health.Health
}

func New(health *health.Health) *Node {
	return &Node{health}
}

func (n *Node) handleGetHealth(w http.ResponseWriter, _ *http.Request) error {
	status := n.health.Status()
	if !status.Healthy {
		w.Header().Set("Content-Type", restutil.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return restutil.WriteJSON(w, status)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/health").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(n.handleGetHealth))
}
