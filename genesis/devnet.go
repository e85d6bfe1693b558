// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

// DevAccount account for development.
type DevAccount struct {
	Address    tdrop.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for solo mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"d3de6b6c4bb4f761bd0e792df76b45b59693bc910d81d4c8b0e8897f297216dd",
		"c10e5326d5a4f0514f492a3512059bdff9c1d5d924e61923fdb808993cda40ff",
		"d8a838e7f91d010e89881ca552bcd5372bae40960d802ec3c4ea1feab93bec43",
		"c5ee129884b9be9cb50e1bc95d6ccce02bff1a1ea62c1e61e905cdb4210ce94b",
		"c6041cee0ff5cd6f4f0151d3b3e6fc7e65dd230ffce432c6ebc32ca9a44dfa3c",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{tdrop.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

func ether(n uint64) *tdrop.Amount {
	return tdrop.NewAmount(new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(1e18)))
}

// DevConfig returns the genesis config for solo mode. The first dev account is the guardian.
func DevConfig() *Config {
	launchTime := uint64(1767225600) // 2026-01-01 00:00:00 UTC
	emissionStart := uint32(1)
	guardian := DevAccounts()[0].Address

	cfg := &Config{
		Timestamp: launchTime,
		Roles: []RoleGrant{
			{roles.Admin, guardian},
			{roles.Operator, guardian},
		},
		Token: TokenConfig{MaxSupply: ether(20_000_000_000)},
		Pool: PoolConfig{
			RewardPerBlock: tdrop.NewAmount(uint256.NewInt(tdrop.DefaultRewardPerBlock)),
			EmissionStart:  &emissionStart,
			Unpaused:       true,
		},
		Governor: GovernorConfig{
			VotingDelay:           tdrop.DefaultVotingDelay,
			VotingPeriod:          100,
			ProposalThreshold:     ether(1_000),
			QuorumVotes:           ether(10_000),
			ProposalMaxOperations: tdrop.DefaultProposalMaxOperations,
		},
		Timelock: TimelockConfig{
			Delay:        60,
			GracePeriod:  tdrop.DefaultGracePeriod,
			MinimumDelay: 60,
			MaximumDelay: tdrop.DefaultMaximumDelay,
		},
	}
	for _, a := range DevAccounts() {
		cfg.Balances = append(cfg.Balances, Balance{a.Address, ether(1_000_000)})
	}
	return cfg
}

// NewDevnet create genesis for solo mode.
func NewDevnet() *Genesis {
	gene, err := New("devnet", DevConfig())
	if err != nil {
		panic(err)
	}
	return gene
}
