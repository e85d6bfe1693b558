// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/thetatoken/tdrop-governance/api/blocks"
	"github.com/thetatoken/tdrop-governance/api/delegates"
	"github.com/thetatoken/tdrop-governance/api/events"
	"github.com/thetatoken/tdrop-governance/api/node"
	"github.com/thetatoken/tdrop-governance/api/pool"
	"github.com/thetatoken/tdrop-governance/api/proposals"
	"github.com/thetatoken/tdrop-governance/api/requests"
	"github.com/thetatoken/tdrop-governance/api/subscriptions"
	"github.com/thetatoken/tdrop-governance/api/token"
	"github.com/thetatoken/tdrop-governance/api/votes"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/health"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/logdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	LogsLimit       uint64
	BacktraceLimit  uint32
	EnableReqLogger bool
	EnableMetrics   bool
	// Health enables /node/health when set.
	Health *health.Health
	// DevMode mounts the endpoints executing operations on behalf of any account.
	DevMode bool
}

// New return api router and a function closing the open subscriptions.
func New(c *chain.Chain, logDB *logdb.LogDB, opts Options) (http.Handler, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.LogsLimit == 0 {
		opts.LogsLimit = 1000
	}
	if opts.BacktraceLimit == 0 {
		opts.BacktraceLimit = 1000
	}

	router := mux.NewRouter()

	pool.New(c, opts.DevMode).
		Mount(router, "/pool")
	delegates.New(c, opts.DevMode).
		Mount(router, "/delegates")
	votes.New(c).
		Mount(router, "/votes")
	proposals.New(c, opts.DevMode).
		Mount(router, "/proposals")
	token.New(c, opts.DevMode).
		Mount(router, "/token")
	events.New(logDB, opts.LogsLimit).
		Mount(router, "/events")
	blocks.New(c).
		Mount(router, "/blocks")
	subs := subscriptions.New(c, logDB, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")
	if opts.Health != nil {
		node.New(opts.Health).
			Mount(router, "/node")
	}
	if opts.DevMode {
		requests.New(c).
			Mount(router, "/requests")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id", "x-revert-kind"}),
	)(handler)
	handler = genesisIDHeader(c, handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}
	return handler, subs.Close
}

// genesisIDHeader tags responses with the genesis id and rejects requests made for another chain.
func genesisIDHeader(c *chain.Chain, h http.Handler) http.Handler {
	id := c.GenesisID().String()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-genesis-id", id)
		if want := r.Header.Get("x-genesis-id"); want != "" && !strings.EqualFold(want, id) {
			http.Error(w, "genesis id mismatch", http.StatusForbidden)
			return
		}
		h.ServeHTTP(w, r)
	})
}
