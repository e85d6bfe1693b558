// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/thetatoken/tdrop-governance/builtin/solidity"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

type contract struct {
	name    string
	Address tdrop.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		tdrop.BytesToAddress([]byte(name)),
	}
}

// Name returns the contract name.
func (c *contract) Name() string {
	return c.name
}

func (c *contract) context(env *xenv.Environment) *solidity.Context {
	return solidity.NewContext(c.Address, env)
}
