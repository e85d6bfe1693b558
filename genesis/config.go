// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/thetatoken/tdrop-governance/builtin/governor"
	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/builtin/timelock"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

// Config is the genesis document.
type Config struct {
	Timestamp uint64         `yaml:"timestamp"`
	Roles     []RoleGrant    `yaml:"roles"`
	Balances  []Balance      `yaml:"balances"`
	Token     TokenConfig    `yaml:"token"`
	Pool      PoolConfig     `yaml:"pool"`
	Governor  GovernorConfig `yaml:"governor"`
	Timelock  TimelockConfig `yaml:"timelock"`
}

// RoleGrant grants Role to Account at genesis.
type RoleGrant struct {
	Role    roles.Role    `yaml:"role"`
	Account tdrop.Address `yaml:"account"`
}

// Balance is an initial ledger balance.
type Balance struct {
	Address tdrop.Address `yaml:"address"`
	Amount  *tdrop.Amount `yaml:"amount"`
}

// TokenConfig configures the balance ledger. A zero max supply means uncapped.
type TokenConfig struct {
	MaxSupply *tdrop.Amount `yaml:"maxSupply,omitempty"`
}

// PoolConfig configures the staking pool. The pool stays paused unless Unpaused is set.
type PoolConfig struct {
	RewardPerBlock *tdrop.Amount `yaml:"rewardPerBlock"`
	EmissionStart  *uint32       `yaml:"emissionStart,omitempty"`
	Unpaused       bool          `yaml:"unpaused,omitempty"`
}

// GovernorConfig configures the governance protocol.
type GovernorConfig struct {
	VotingDelay           uint32        `yaml:"votingDelay"`
	VotingPeriod          uint32        `yaml:"votingPeriod"`
	ProposalThreshold     *tdrop.Amount `yaml:"proposalThreshold"`
	QuorumVotes           *tdrop.Amount `yaml:"quorumVotes"`
	ProposalMaxOperations uint32        `yaml:"proposalMaxOperations"`
}

// Params converts the config into governor params.
func (c *GovernorConfig) Params() *governor.Params {
	return &governor.Params{
		VotingDelay:           c.VotingDelay,
		VotingPeriod:          c.VotingPeriod,
		ProposalThreshold:     c.ProposalThreshold.Int(),
		QuorumVotes:           c.QuorumVotes.Int(),
		ProposalMaxOperations: c.ProposalMaxOperations,
	}
}

// TimelockConfig configures the timelock, in seconds.
type TimelockConfig struct {
	Delay        uint64 `yaml:"delay"`
	GracePeriod  uint64 `yaml:"gracePeriod"`
	MinimumDelay uint64 `yaml:"minimumDelay"`
	MaximumDelay uint64 `yaml:"maximumDelay"`
}

// Params converts the config into timelock params.
func (c *TimelockConfig) Params() *timelock.Params {
	return &timelock.Params{
		Delay:        c.Delay,
		GracePeriod:  c.GracePeriod,
		MinimumDelay: c.MinimumDelay,
		MaximumDelay: c.MaximumDelay,
	}
}

// Validate checks the config is self-consistent.
func (c *Config) Validate() error {
	for i, g := range c.Roles {
		if !g.Role.Valid() {
			return errors.Errorf("roles[%d]: invalid role", i)
		}
		if g.Account.IsZero() {
			return errors.Errorf("roles[%d]: zero account", i)
		}
	}
	total := new(uint256.Int)
	for i, b := range c.Balances {
		if b.Amount == nil {
			return errors.Errorf("balances[%d]: missing amount", i)
		}
		var overflow bool
		if total, overflow = new(uint256.Int).AddOverflow(total, b.Amount.Int()); overflow {
			return errors.Errorf("balances[%d]: total supply overflow", i)
		}
	}
	if maxSupply := c.Token.MaxSupply.Int(); !maxSupply.IsZero() && total.Gt(maxSupply) {
		return errors.Errorf("initial supply %v exceeds max supply %v", total, maxSupply)
	}
	if err := c.Governor.Params().Validate(); err != nil {
		return errors.WithMessage(err, "governor")
	}
	tl := c.Timelock
	if tl.MinimumDelay > tl.MaximumDelay || tl.Delay < tl.MinimumDelay || tl.Delay > tl.MaximumDelay {
		return errors.Errorf("timelock: delay %d outside [%d, %d]", tl.Delay, tl.MinimumDelay, tl.MaximumDelay)
	}
	return nil
}

// ParseConfig decodes and validates a yaml genesis document.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid genesis")
	}
	return &cfg, nil
}

// LoadConfig reads the genesis document at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return ParseConfig(data)
}

// Marshal encodes the config as yaml.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
