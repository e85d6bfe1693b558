// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/thetatoken/tdrop-governance/builtin/governor"
	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/builtin/staking"
	"github.com/thetatoken/tdrop-governance/builtin/timelock"
	"github.com/thetatoken/tdrop-governance/builtin/token"
	"github.com/thetatoken/tdrop-governance/cache"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

// Builtin contracts binding.
var (
	Roles    = newContract("Roles")
	Token    = newContract("Token")
	Pool     = newContract("Pool")
	Governor = newContract("Governor")
	Timelock = newContract("Timelock")
)

// Contracts lists every builtin contract.
func Contracts() []*contract {
	return []*contract{Roles, Token, Pool, Governor, Timelock}
}

// ContractByAddress returns the builtin contract at addr, or nil.
func ContractByAddress(addr tdrop.Address) *contract {
	for _, c := range Contracts() {
		if c.Address == addr {
			return c
		}
	}
	return nil
}

// Natives binds the builtin components to one execution environment.
type Natives struct {
	env     *xenv.Environment
	weights *cache.LRU
}

// Bind binds env. weights optionally memoises finalized voting weight lookups.
func Bind(env *xenv.Environment, weights *cache.LRU) *Natives {
	return &Natives{env, weights}
}

// Env returns the bound environment.
func (n *Natives) Env() *xenv.Environment {
	return n.env
}

func (n *Natives) Roles() *roles.Roles {
	return roles.New(Roles.context(n.env))
}

func (n *Natives) Token() *token.Token {
	return token.New(Token.context(n.env), n.Roles())
}

func (n *Natives) Pool() *staking.Pool {
	return staking.New(Pool.context(n.env), n.Token(), n.Roles(), n.weights)
}

func (n *Natives) Timelock() *timelock.Timelock {
	return timelock.New(Timelock.context(n.env), n.Token(), n)
}

func (n *Natives) Governor() *governor.Governor {
	return governor.New(Governor.context(n.env), n.Pool().Checkpoints(), n.Timelock(), n.Roles())
}
