// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/thetatoken/tdrop-governance/builtin/staking"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

type Summary struct {
	Active           bool          `json:"active"`
	Paused           bool          `json:"paused"`
	EmissionStarted  bool          `json:"emissionStarted"`
	LastRewardHeight uint32        `json:"lastRewardHeight"`
	RewardPerBlock   *tdrop.Amount `json:"rewardPerBlock"`
	TotalShares      *tdrop.Amount `json:"totalShares"`
	VaultBalance     *tdrop.Amount `json:"vaultBalance"`
	SharePrice       *tdrop.Amount `json:"sharePrice"`
	PendingRewards   *tdrop.Amount `json:"pendingRewards"`
}

func convertSummary(s *staking.Summary) *Summary {
	return &Summary{
		Active:           s.Active,
		Paused:           s.Paused,
		EmissionStarted:  s.EmissionStarted,
		LastRewardHeight: s.LastRewardHeight,
		RewardPerBlock:   tdrop.NewAmount(s.RewardPerBlock),
		TotalShares:      tdrop.NewAmount(s.TotalShares),
		VaultBalance:     tdrop.NewAmount(s.VaultBalance),
		SharePrice:       tdrop.NewAmount(s.SharePrice),
		PendingRewards:   tdrop.NewAmount(s.PendingRewards),
	}
}

// Shares is the pool position of an account. Value is what unstaking all shares would pay now.
type Shares struct {
	Shares *tdrop.Amount `json:"shares"`
	Value  *tdrop.Amount `json:"value"`
}

type StakeRequest struct {
	Participant tdrop.Address `json:"participant"`
	Amount      *tdrop.Amount `json:"amount"`
}

type StakeResult struct {
	Shares *tdrop.Amount `json:"shares"`
}

type UnstakeRequest struct {
	Participant tdrop.Address `json:"participant"`
	Shares      *tdrop.Amount `json:"shares"`
}

type UnstakeResult struct {
	Payout *tdrop.Amount `json:"payout"`
}

type EmitResult struct {
	Minted *tdrop.Amount `json:"minted"`
}
