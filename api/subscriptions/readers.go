// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/api/restutil"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/logdb"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

// blocks read per round
const readBatch = 100

// blockReader yields the sealed blocks after a position, in order.
type blockReader struct {
	chain *chain.Chain
	next  uint32
}

func newBlockReader(c *chain.Chain, pos uint32) *blockReader {
	return &blockReader{chain: c, next: pos + 1}
}

func (br *blockReader) Read() ([]any, bool, error) {
	head := br.chain.Head().Number
	if br.next > head {
		return nil, false, nil
	}
	blocks, err := br.chain.Blocks(br.next, readBatch)
	if err != nil {
		return nil, false, err
	}
	msgs := make([]any, 0, len(blocks))
	for _, b := range blocks {
		if b.Number > head {
			break
		}
		msgs = append(msgs, b)
		br.next = b.Number + 1
	}
	return msgs, br.next <= head, nil
}

// eventReader yields the indexed events of the sealed blocks after a position.
type eventReader struct {
	ctx      context.Context
	chain    *chain.Chain
	logDB    *logdb.LogDB
	criteria []*logdb.EventCriteria
	next     uint32
}

func newEventReader(ctx context.Context, c *chain.Chain, logDB *logdb.LogDB, pos uint32, criteria []*logdb.EventCriteria) *eventReader {
	return &eventReader{ctx: ctx, chain: c, logDB: logDB, criteria: criteria, next: pos + 1}
}

func (er *eventReader) Read() ([]any, bool, error) {
	head := er.chain.Head().Number
	if er.next > head {
		return nil, false, nil
	}
	to := head
	if head-er.next >= readBatch {
		to = er.next + readBatch - 1
	}
	events, err := er.logDB.FilterEvents(er.ctx, &logdb.EventFilter{
		CriteriaSet: er.criteria,
		Range:       &logdb.Range{Unit: logdb.Block, From: uint64(er.next), To: uint64(to)},
	})
	if err != nil {
		return nil, false, err
	}
	msgs := make([]any, 0, len(events))
	for _, ev := range events {
		msgs = append(msgs, ev)
	}
	er.next = to + 1
	return msgs, er.next <= head, nil
}

// parseEventCriteria reads the optional address and name queries.
func parseEventCriteria(req *http.Request) ([]*logdb.EventCriteria, error) {
	query := req.URL.Query()
	var criteria logdb.EventCriteria
	if s := query.Get("address"); s != "" {
		addr, err := tdrop.ParseAddress(s)
		if err != nil {
			return nil, restutil.BadRequest(errors.WithMessage(err, "address"))
		}
		criteria.Address = &addr
	}
	criteria.Name = query.Get("name")
	if criteria.Address == nil && criteria.Name == "" {
		return nil, nil
	}
	return []*logdb.EventCriteria{&criteria}, nil
}
