// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import "github.com/thetatoken/tdrop-governance/tdrop"

type Supply struct {
	TotalSupply *tdrop.Amount `json:"totalSupply"`
	MaxSupply   *tdrop.Amount `json:"maxSupply"`
	Paused      bool          `json:"paused"`

	MaxStakeReward           *tdrop.Amount `json:"maxStakeReward"`
	StakeRewardMinted        *tdrop.Amount `json:"stakeRewardMinted"`
	MaxLiquidityMiningReward *tdrop.Amount `json:"maxLiquidityMiningReward"`
	LiquidityMiningMinted    *tdrop.Amount `json:"liquidityMiningMinted"`
	Airdropped               *tdrop.Amount `json:"airdropped"`
}

type Account struct {
	Balance *tdrop.Amount `json:"balance"`
}

// Allowance is what spender may still move out of owner's balance.
type Allowance struct {
	Allowance *tdrop.Amount `json:"allowance"`
}

type ApproveRequest struct {
	Owner   tdrop.Address `json:"owner"`
	Spender tdrop.Address `json:"spender"`
	Amount  *tdrop.Amount `json:"amount"`
}

type TransferRequest struct {
	From   tdrop.Address `json:"from"`
	To     tdrop.Address `json:"to"`
	Amount *tdrop.Amount `json:"amount"`
}
