// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain produces blocks: it advances height and time, commits the state of each
// block and indexes its events.
package chain

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/cache"
	"github.com/thetatoken/tdrop-governance/genesis"
	"github.com/thetatoken/tdrop-governance/kv"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/logdb"
	"github.com/thetatoken/tdrop-governance/runtime"
	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

var logger = log.WithContext("pkg", "chain")

// errNotFound is returned by GetBlock for heights not sealed yet.
var errNotFound = errors.New("not found")

// Options options for the chain.
type Options struct {
	BlockInterval   uint64 // seconds between block timestamps
	WeightCacheSize int
	OnDemand        bool // seal a block after every successful Exec
}

// Chain keeps the head block and the open block on top of it.
type Chain struct {
	db        kv.GetPutter
	logDB     *logdb.LogDB
	weights   *cache.LRU
	genesisID tdrop.Bytes32
	opts      Options

	mu      sync.Mutex
	head    *Block
	pending *runtime.Runtime
	tick    chan struct{}
}

// New opens the chain stored in db, initializing it from gene if db is empty.
func New(db kv.GetPutter, logDB *logdb.LogDB, gene *genesis.Genesis, opts Options) (*Chain, error) {
	if opts.BlockInterval == 0 {
		opts.BlockInterval = tdrop.BlockInterval
	}
	if opts.WeightCacheSize <= 0 {
		opts.WeightCacheSize = 4096
	}
	weights, err := cache.NewLRU("weights", opts.WeightCacheSize)
	if err != nil {
		return nil, err
	}
	c := &Chain{
		db:        db,
		logDB:     logDB,
		weights:   weights,
		genesisID: gene.ID(),
		opts:      opts,
		tick:      make(chan struct{}),
	}

	stored, err := chainBucket.Get(db, genesisKey)
	switch {
	case err == nil:
		if !bytes.Equal(stored, c.genesisID[:]) {
			return nil, errors.Errorf("genesis mismatch: stored %v, given %v", tdrop.BytesToBytes32(stored), c.genesisID)
		}
		if c.head, err = loadHead(db); err != nil {
			return nil, errors.Wrap(err, "load head")
		}
		// events of blocks above the head were indexed but their state never committed
		if err := logDB.Truncate(c.head.Number + 1); err != nil {
			return nil, errors.Wrap(err, "truncate log db")
		}
		logger.Info("chain restored", "head", c.head.Number, "id", c.head.ID)
	case db.IsNotFound(err):
		if err := c.initGenesis(gene); err != nil {
			return nil, errors.WithMessage(err, "init genesis")
		}
		logger.Info("chain initialized", "genesis", gene.Name(), "id", c.genesisID)
	default:
		return nil, err
	}

	metricBlockHeight().Set(int64(c.head.Number))
	c.open()
	return c, nil
}

func (c *Chain) initGenesis(gene *genesis.Genesis) error {
	st, ctx, events, err := gene.Build(c.db)
	if err != nil {
		return err
	}
	blk := &Block{
		ID:         c.genesisID,
		Number:     ctx.Number,
		Timestamp:  ctx.Time,
		EventCount: uint32(len(events)),
	}
	return c.commit(blk, st, events, func(w kv.Putter) error {
		return chainBucket.Put(w, genesisKey, c.genesisID[:])
	})
}

// commit indexes events, then writes the block records together with the state.
func (c *Chain) commit(blk *Block, st *state.State, events []*xenv.Event, extra func(w kv.Putter) error) error {
	if err := c.logDB.Prepare(&xenv.BlockContext{Number: blk.Number, Time: blk.Timestamp}).Insert(events...).Commit(); err != nil {
		return errors.Wrap(err, "index events")
	}
	batch := c.db.NewBatch()
	if err := saveBlock(batch, blk); err != nil {
		return err
	}
	if extra != nil {
		if err := extra(batch); err != nil {
			return err
		}
	}
	if err := st.Commit(batch); err != nil {
		return errors.Wrap(err, "commit state")
	}
	c.head = blk
	return nil
}

// open starts the block following head.
func (c *Chain) open() {
	ctx := &xenv.BlockContext{
		Number: c.head.Number + 1,
		Time:   c.head.Timestamp + c.opts.BlockInterval,
	}
	c.pending = runtime.New(state.New(c.db), ctx, c.weights)
}

// GenesisID returns the id of the genesis block.
func (c *Chain) GenesisID() tdrop.Bytes32 {
	return c.genesisID
}

// Head returns the latest sealed block.
func (c *Chain) Head() *Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := *c.head
	return &h
}

// GetBlock returns the sealed block at n.
func (c *Chain) GetBlock(n uint32) (*Block, error) {
	blk, err := loadBlock(c.db, n)
	if err != nil {
		if c.db.IsNotFound(err) {
			return nil, errNotFound
		}
		return nil, err
	}
	return blk, nil
}

// Blocks returns up to limit sealed blocks from number from, ascending.
func (c *Chain) Blocks(from uint32, limit int) ([]*Block, error) {
	if limit <= 0 {
		return []*Block{}, nil
	}
	return loadBlocks(c.db, from, limit)
}

// IsNotFound returns whether err is a not found error of GetBlock.
func (c *Chain) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// Exec runs fn against the open block. Operations are serialized.
func (c *Chain) Exec(fn func(rt *runtime.Runtime) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := fn(c.pending); err != nil {
		return err
	}
	if c.opts.OnDemand {
		_, err := c.seal()
		return err
	}
	return nil
}

// View runs fn against the components bound to the open block. fn must not mutate.
func (c *Chain) View(fn func(n *builtin.Natives) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.pending.Natives())
}

// Seal commits the open block and opens the next one.
func (c *Chain) Seal() (*Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seal()
}

func (c *Chain) seal() (*Block, error) {
	start := time.Now()
	rt := c.pending
	events := rt.TakeEvents()

	blk, err := newBlock(c.head, rt.BlockContext(), events)
	if err != nil {
		return nil, err
	}
	if err := c.commit(blk, rt.State(), events, nil); err != nil {
		return nil, err
	}
	c.open()

	close(c.tick)
	c.tick = make(chan struct{})

	metricBlockHeight().Set(int64(blk.Number))
	metricEvents().Add(int64(len(events)))
	metricCommitDuration().Observe(time.Since(start).Milliseconds())
	logger.Debug("block sealed", "number", blk.Number, "id", blk.ID, "events", len(events))
	if blk.Number%100 == 0 {
		hit, miss := c.weights.Stats().Counts()
		logger.Debug("weight cache stats", "hit", hit, "miss", miss, "rate", c.weights.Stats().HitRate())
	}
	return blk, nil
}

// NewTicker returns a channel closed once the next block is sealed.
func (c *Chain) NewTicker() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}

// Run seals a block every period until ctx is done.
func (c *Chain) Run(ctx context.Context, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			blk, err := c.Seal()
			if err != nil {
				return errors.WithMessage(err, "seal block")
			}
			if blk.EventCount > 0 {
				logger.Info("📦 new block", "number", blk.Number, "events", blk.EventCount, "id", blk.ID.AbbrevString())
			}
		}
	}
}
