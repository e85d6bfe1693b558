// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

// Event is an indexed event of a block.
type Event struct {
	BlockNumber uint32        `json:"blockNumber"`
	BlockTime   uint64        `json:"blockTime"`
	Index       uint32        `json:"index"`
	Address     tdrop.Address `json:"address"`
	Name        string        `json:"name"`
	Attrs       []xenv.Attr   `json:"attrs"`
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive block number or time range. To < From means no upper bound.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events of a component, optionally by name.
type EventCriteria struct {
	Address *tdrop.Address
	Name    string
}

// EventFilter criteria are or'ed.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
