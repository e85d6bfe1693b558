// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tdrop

// Chain constants.
const (
	BlockInterval uint64 = 6 // time interval between two consecutive blocks, in seconds.

	// blocks of a day with the default interval
	BlocksPerDay uint32 = uint32(24 * 3600 / BlockInterval)
)

// Default governance parameters, overridable by genesis.
const (
	DefaultVotingDelay           uint32 = 1
	DefaultVotingPeriod          uint32 = 3 * BlocksPerDay
	DefaultProposalMaxOperations        = 10

	MinVotingDelay  uint32 = 1
	MaxVotingDelay  uint32 = 7 * BlocksPerDay
	MinVotingPeriod uint32 = 1
	MaxVotingPeriod uint32 = 14 * BlocksPerDay

	DefaultTimelockDelay  uint64 = 2 * 24 * 3600
	DefaultGracePeriod    uint64 = 14 * 24 * 3600
	DefaultMinimumDelay   uint64 = 2 * 24 * 3600
	DefaultMaximumDelay   uint64 = 30 * 24 * 3600
	DefaultRewardPerBlock uint64 = 4e18
)

// Token issuance limits, in whole coins.
const (
	DefaultMaxStakeReward           uint64 = 4_000_000_000
	MaxStakeRewardCeiling           uint64 = 8_000_000_000
	DefaultMaxLiquidityMiningReward uint64 = 6_000_000_000
	MaxLiquidityMiningRewardCeiling uint64 = 10_000_000_000
	MaxAirdrop                      uint64 = 10_000_000_000
)
