// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain builds a devnet chain on in-memory stores for tests.
package testchain

import (
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/genesis"
	"github.com/thetatoken/tdrop-governance/logdb"
	"github.com/thetatoken/tdrop-governance/lvldb"
)

// Chain is a devnet chain backed by in-memory databases.
type Chain struct {
	*chain.Chain
	db       *lvldb.LevelDB
	logDB    *logdb.LogDB
	accounts []genesis.DevAccount
}

// NewDefault creates a devnet chain sealing blocks only on demand of the caller.
func NewDefault() (*Chain, error) {
	return New(chain.Options{})
}

// New creates a devnet chain with the given options.
func New(opts chain.Options) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	c, err := chain.New(db, logDB, genesis.NewDevnet(), opts)
	if err != nil {
		logDB.Close()
		db.Close()
		return nil, err
	}
	return &Chain{
		Chain:    c,
		db:       db,
		logDB:    logDB,
		accounts: genesis.DevAccounts(),
	}, nil
}

// LogDB returns the event store of the chain.
func (c *Chain) LogDB() *logdb.LogDB {
	return c.logDB
}

// DB returns the state store of the chain.
func (c *Chain) DB() *lvldb.LevelDB {
	return c.db
}

// Accounts returns the funded dev accounts. The first one holds the guardian roles.
func (c *Chain) Accounts() []genesis.DevAccount {
	return c.accounts
}

// MintBlocks seals n blocks.
func (c *Chain) MintBlocks(n int) error {
	for range n {
		if _, err := c.Seal(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the databases.
func (c *Chain) Close() {
	c.logDB.Close()
	c.db.Close()
}
