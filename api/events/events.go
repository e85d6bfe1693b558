// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/api/restutil"
	"github.com/thetatoken/tdrop-governance/logdb"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

type Events struct {
	logDB *logdb.LogDB
	limit uint64
}

// New creates the events endpoint. limit caps the events of a single response.
func New(logDB *logdb.LogDB, limit uint64) *Events {
	return &Events{logDB, limit}
}

// parseFilter builds a filter from the query parameters address, name, unit, from, to,
// order, offset and limit.
func (e *Events) parseFilter(req *http.Request) (*logdb.EventFilter, error) {
	query := req.URL.Query()
	filter := &logdb.EventFilter{Order: logdb.ASC}

	var criteria logdb.EventCriteria
	if s := query.Get("address"); s != "" {
		addr, err := tdrop.ParseAddress(s)
		if err != nil {
			return nil, restutil.BadRequest(errors.WithMessage(err, "address"))
		}
		criteria.Address = &addr
	}
	criteria.Name = query.Get("name")
	if criteria.Address != nil || criteria.Name != "" {
		filter.CriteriaSet = []*logdb.EventCriteria{&criteria}
	}

	unit := logdb.RangeType(query.Get("unit"))
	switch unit {
	case "":
		unit = logdb.Block
	case logdb.Block, logdb.Time:
	default:
		return nil, restutil.BadRequest(errors.Errorf("unit: unsupported %q", unit))
	}
	from, hasFrom, err := restutil.Uint64Query(req, "from")
	if err != nil {
		return nil, err
	}
	to, hasTo, err := restutil.Uint64Query(req, "to")
	if err != nil {
		return nil, err
	}
	if hasTo && to < from {
		return nil, restutil.BadRequest(errors.New("to: less than from"))
	}
	if hasFrom || hasTo {
		r := &logdb.Range{Unit: unit, From: from, To: to}
		if !hasTo {
			r.To = math.MaxInt64
		}
		filter.Range = r
	}

	switch order := logdb.Order(query.Get("order")); order {
	case "", logdb.ASC:
	case logdb.DESC:
		filter.Order = logdb.DESC
	default:
		return nil, restutil.BadRequest(errors.Errorf("order: unsupported %q", order))
	}

	offset, _, err := restutil.Uint64Query(req, "offset")
	if err != nil {
		return nil, err
	}
	limit, hasLimit, err := restutil.Uint64Query(req, "limit")
	if err != nil {
		return nil, err
	}
	if !hasLimit {
		limit = e.limit
	}
	if limit > e.limit {
		return nil, restutil.Forbidden(errors.Errorf("limit: exceeds %d", e.limit))
	}
	filter.Options = &logdb.Options{Offset: offset, Limit: limit}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	events, err := e.logDB.FilterEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*logdb.Event{}
	}
	return restutil.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
