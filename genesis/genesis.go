// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial state of the builtin components from a yaml document.
package genesis

import (
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/kv"
	"github.com/thetatoken/tdrop-governance/state"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

// Genesis to build genesis state.
type Genesis struct {
	builder *Builder
	id      tdrop.Bytes32
	name    string
	config  *Config
}

// Build build the genesis state on db.
func (g *Genesis) Build(db kv.Getter) (*state.State, *xenv.BlockContext, []*xenv.Event, error) {
	return g.builder.Build(db)
}

// ID returns the genesis id, the hash of its encoded config.
func (g *Genesis) ID() tdrop.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Config returns the config the genesis was created from.
func (g *Genesis) Config() *Config {
	return g.config
}

// builtinRoles are held by the builtin components themselves: the pool mints rewards,
// and the timelock administers everything on behalf of governance.
var builtinRoles = []RoleGrant{
	{roles.Minter, builtin.Pool.Address},
	{roles.SuperAdmin, builtin.Timelock.Address},
	{roles.Admin, builtin.Timelock.Address},
	{roles.Operator, builtin.Timelock.Address},
}

// New creates a genesis from cfg.
func New(name string, cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid genesis")
	}
	data, err := cfg.Marshal()
	if err != nil {
		return nil, err
	}

	builder := new(Builder).
		Timestamp(cfg.Timestamp).
		State(func(n *builtin.Natives) error {
			r := n.Roles()
			for _, g := range append(builtinRoles, cfg.Roles...) {
				if err := r.Setup(g.Role, g.Account); err != nil {
					return errors.WithMessagef(err, "setup role %v", g.Role)
				}
			}
			return nil
		}).
		State(func(n *builtin.Natives) error {
			tok := n.Token()
			for _, b := range cfg.Balances {
				if err := tok.Mint(b.Address, b.Amount.Int()); err != nil {
					return errors.WithMessagef(err, "mint to %v", b.Address)
				}
			}
			return tok.InitMaxSupply(cfg.Token.MaxSupply.Int())
		}).
		State(func(n *builtin.Natives) error {
			pool := n.Pool()
			if err := pool.InitRewardPerBlock(cfg.Pool.RewardPerBlock.Int()); err != nil {
				return err
			}
			if cfg.Pool.Unpaused {
				if err := pool.InitUnpaused(); err != nil {
					return err
				}
			}
			if cfg.Pool.EmissionStart != nil {
				return pool.StartEmission(builtin.Timelock.Address, *cfg.Pool.EmissionStart)
			}
			return nil
		}).
		State(func(n *builtin.Natives) error {
			if err := n.Timelock().Init(builtin.Governor.Address, cfg.Timelock.Params()); err != nil {
				return errors.WithMessage(err, "init timelock")
			}
			return errors.WithMessage(n.Governor().Init(cfg.Governor.Params()), "init governor")
		})

	return &Genesis{
		builder: builder,
		id:      tdrop.Blake2b(data),
		name:    name,
		config:  cfg,
	}, nil
}
