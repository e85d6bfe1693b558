// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes the events of committed blocks in sqlite.
package logdb

import (
	"context"
	"database/sql"
	"encoding/json"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

var logger = log.WithContext("pkg", "logdb")

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if path == ":memory:" {
		// every connection would open a distinct in-memory database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// NewestBlock returns the highest block number with indexed events, and false if there is none.
func (db *LogDB) NewestBlock() (uint32, bool, error) {
	var n sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(blockNumber) FROM event").Scan(&n); err != nil {
		return 0, false, err
	}
	return uint32(n.Int64), n.Valid, nil
}

// Truncate deletes the events of blocks from blockNum on.
func (db *LogDB) Truncate(blockNum uint32) error {
	_, err := db.db.Exec("DELETE FROM event WHERE blockNumber >= ?", blockNum)
	return err
}

// Prepare starts a batch for the block ctx.
func (db *LogDB) Prepare(ctx *xenv.BlockContext) *BlockBatch {
	return &BlockBatch{
		db:  db.db,
		ctx: *ctx,
	}
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT blockNumber, eventIndex, blockTime, address, name, attrs FROM event ORDER BY blockNumber ASC, eventIndex ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := "SELECT blockNumber, eventIndex, blockTime, address, name, attrs FROM event WHERE 1"
	condition := "blockNumber"
	if filter.Range != nil {
		if filter.Range.Unit == Time {
			condition = "blockTime"
		}
		args = append(args, filter.Range.From)
		stmt += " AND " + condition + " >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND " + condition + " <= ? "
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ? "
		}
		if criteria.Name != "" {
			args = append(args, criteria.Name)
			stmt += " AND name = ? "
		}
		stmt += ")"
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += ")"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY blockNumber DESC, eventIndex DESC "
	} else {
		stmt += " ORDER BY blockNumber ASC, eventIndex ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			event   Event
			address []byte
			attrs   string
		)
		if err := rows.Scan(
			&event.BlockNumber,
			&event.Index,
			&event.BlockTime,
			&address,
			&event.Name,
			&attrs,
		); err != nil {
			return nil, err
		}
		event.Address = tdrop.BytesToAddress(address)
		if err := json.Unmarshal([]byte(attrs), &event.Attrs); err != nil {
			return nil, errors.Wrap(err, "decode attrs")
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// BlockBatch collects the events of one block.
type BlockBatch struct {
	db     *sql.DB
	ctx    xenv.BlockContext
	events []*Event
}

// Insert appends events in emission order.
func (bb *BlockBatch) Insert(events ...*xenv.Event) *BlockBatch {
	for _, ev := range events {
		bb.events = append(bb.events, &Event{
			BlockNumber: bb.ctx.Number,
			BlockTime:   bb.ctx.Time,
			Index:       uint32(len(bb.events)),
			Address:     ev.Address,
			Name:        ev.Name,
			Attrs:       ev.Attrs,
		})
	}
	return bb
}

// Len returns the number of collected events.
func (bb *BlockBatch) Len() int {
	return len(bb.events)
}

func (bb *BlockBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := bb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Commit writes the collected events, replacing any previously indexed for the block.
func (bb *BlockBatch) Commit() error {
	return bb.execInTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM event WHERE blockNumber = ?", bb.ctx.Number); err != nil {
			return err
		}
		for _, event := range bb.events {
			attrs, err := json.Marshal(event.Attrs)
			if err != nil {
				return err
			}
			if _, err := tx.Exec("INSERT INTO event(blockNumber, eventIndex, blockTime, address, name, attrs) VALUES (?, ?, ?, ?, ?, ?)",
				event.BlockNumber,
				event.Index,
				event.BlockTime,
				event.Address.Bytes(),
				event.Name,
				string(attrs),
			); err != nil {
				return err
			}
		}
		return nil
	})
}
