// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

// Context binds a builtin component to its storage address and execution environment.
type Context struct {
	address tdrop.Address
	env     *xenv.Environment
}

func NewContext(address tdrop.Address, env *xenv.Environment) *Context {
	return &Context{
		address: address,
		env:     env,
	}
}

func (c *Context) Address() tdrop.Address { return c.address }

func (c *Context) State() *state.State { return c.env.State() }

func (c *Context) Env() *xenv.Environment { return c.env }

// BlockNumber returns the number of the block being built.
func (c *Context) BlockNumber() uint32 { return c.env.BlockContext().Number }

// BlockTime returns the timestamp of the block being built.
func (c *Context) BlockTime() uint64 { return c.env.BlockContext().Time }

// Emit logs an event on behalf of the bound address.
func (c *Context) Emit(name string, kvs ...any) {
	c.env.Log(c.address, name, kvs...)
}
