// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/thetatoken/tdrop-governance/builtin/roles"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

var logger = log.WithContext("pkg", "builtin")

var nativeMethods = make(map[tdrop.Address]map[[4]byte]*nativeMethod)

func u256(v any) *uint256.Int {
	return uint256.MustFromBig(v.(*big.Int))
}

func address(v any) tdrop.Address {
	return tdrop.Address(v.(common.Address))
}

func init() {
	defines := []*nativeMethod{
		Roles.impl("grantRole(uint8,address)", func(env *env) error {
			return env.Roles().Grant(env.Caller, roles.Role(env.Arg(0).(uint8)), address(env.Arg(1)))
		}),
		Roles.impl("revokeRole(uint8,address)", func(env *env) error {
			return env.Roles().Revoke(env.Caller, roles.Role(env.Arg(0).(uint8)), address(env.Arg(1)))
		}),

		Token.impl("transfer(address,uint256)", func(env *env) error {
			return env.Token().Transfer(env.Caller, address(env.Arg(0)), u256(env.Arg(1)))
		}),
		Token.impl("approve(address,uint256)", func(env *env) error {
			return env.Token().Approve(env.Caller, address(env.Arg(0)), u256(env.Arg(1)))
		}),
		Token.impl("pause()", func(env *env) error {
			return env.Token().Pause(env.Caller)
		}),
		Token.impl("unpause()", func(env *env) error {
			return env.Token().Unpause(env.Caller)
		}),
		Token.impl("setMaxSupply(uint256)", func(env *env) error {
			return env.Token().SetMaxSupply(env.Caller, u256(env.Arg(0)))
		}),
		Token.impl("updateMaxStakeReward(uint256)", func(env *env) error {
			return env.Token().UpdateMaxStakeReward(env.Caller, u256(env.Arg(0)))
		}),
		Token.impl("updateMaxLiquidityMiningReward(uint256)", func(env *env) error {
			return env.Token().UpdateMaxLiquidityMiningReward(env.Caller, u256(env.Arg(0)))
		}),
		Token.impl("mine(address,uint256)", func(env *env) error {
			_, err := env.Token().Mine(env.Caller, address(env.Arg(0)), u256(env.Arg(1)))
			return err
		}),
		Token.impl("airdrop(address[],uint256[])", func(env *env) error {
			recipients := env.Arg(0).([]common.Address)
			values := env.Arg(1).([]*big.Int)
			to := make([]tdrop.Address, len(recipients))
			for i, r := range recipients {
				to[i] = tdrop.Address(r)
			}
			amounts := make([]*uint256.Int, len(values))
			for i, v := range values {
				amounts[i] = u256(v)
			}
			return env.Token().Airdrop(env.Caller, to, amounts)
		}),

		Pool.impl("stake(uint256)", func(env *env) error {
			_, err := env.Pool().Stake(env.Caller, u256(env.Arg(0)))
			return err
		}),
		Pool.impl("unstake(uint256)", func(env *env) error {
			_, err := env.Pool().Unstake(env.Caller, u256(env.Arg(0)))
			return err
		}),
		Pool.impl("delegate(address)", func(env *env) error {
			return env.Pool().Delegate(env.Caller, address(env.Arg(0)))
		}),
		Pool.impl("emitRewards()", func(env *env) error {
			_, err := env.Pool().EmitRewards()
			return err
		}),
		Pool.impl("setRewardPerBlock(uint256)", func(env *env) error {
			return env.Pool().SetRewardPerBlock(env.Caller, u256(env.Arg(0)))
		}),
		Pool.impl("startEmission(uint32)", func(env *env) error {
			return env.Pool().StartEmission(env.Caller, env.Arg(0).(uint32))
		}),
		Pool.impl("pause()", func(env *env) error {
			return env.Pool().Pause(env.Caller)
		}),
		Pool.impl("unpause()", func(env *env) error {
			return env.Pool().Unpause(env.Caller)
		}),

		Governor.impl("setVotingDelay(uint32)", func(env *env) error {
			return env.Governor().SetVotingDelay(env.Caller, env.Arg(0).(uint32))
		}),
		Governor.impl("setVotingPeriod(uint32)", func(env *env) error {
			return env.Governor().SetVotingPeriod(env.Caller, env.Arg(0).(uint32))
		}),
		Governor.impl("setProposalThreshold(uint256)", func(env *env) error {
			return env.Governor().SetProposalThreshold(env.Caller, u256(env.Arg(0)))
		}),
		Governor.impl("setQuorumVotes(uint256)", func(env *env) error {
			return env.Governor().SetQuorumVotes(env.Caller, u256(env.Arg(0)))
		}),

		Timelock.impl("setDelay(uint64)", func(env *env) error {
			return env.Timelock().SetDelay(env.Caller, env.Arg(0).(uint64))
		}),
	}

	for _, m := range defines {
		methods, ok := nativeMethods[m.addr]
		if !ok {
			methods = make(map[[4]byte]*nativeMethod)
			nativeMethods[m.addr] = methods
		}
		selector := tdrop.Selector(m.signature)
		if _, dup := methods[selector]; dup {
			panic("duplicated native method " + m.signature)
		}
		methods[selector] = m
	}
}

// NativeSignatures returns the signatures callable on contract addr.
func NativeSignatures(addr tdrop.Address) []string {
	var sigs []string
	for _, m := range nativeMethods[addr] {
		sigs = append(sigs, m.signature)
	}
	slices.Sort(sigs)
	return sigs
}
