// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/builtin/staker"
)

// Staker is the staker snapshot, with claimable projected to the time of the request.
type Staker struct {
	Amount                 *math.HexOrDecimal256 `json:"amount"`
	RewardDebt             *math.HexOrDecimal256 `json:"rewardDebt"`
	RewardAllowed          *math.HexOrDecimal256 `json:"rewardAllowed"`
	Distributed            *math.HexOrDecimal256 `json:"distributed"`
	NoFineUnstakeOpenSince uint64                `json:"noFineUnstakeOpenSince"`
	RequestedUnstakeAmount *math.HexOrDecimal256 `json:"requestedUnstakeAmount"`
	Claimable              *math.HexOrDecimal256 `json:"claimable"`
}

func convertStaker(info *staker.StakerInfo) *Staker {
	return &Staker{
		Amount:                 utils.Uint256(info.Amount),
		RewardDebt:             utils.Uint256(info.RewardDebt),
		RewardAllowed:          utils.Uint256(info.RewardAllowed),
		Distributed:            utils.Uint256(info.Distributed),
		NoFineUnstakeOpenSince: info.NoFineUnstakeOpenSince,
		RequestedUnstakeAmount: utils.Uint256(info.RequestedUnstakeAmount),
		Claimable:              utils.Uint256(info.Claimable),
	}
}

type Reward struct {
	Reward *math.HexOrDecimal256 `json:"reward"`
}

// AmountRequest is the body of stake, unstake and request-unstake.
type AmountRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Unstaked struct {
	Payout *math.HexOrDecimal256 `json:"payout"`
	Fine   *math.HexOrDecimal256 `json:"fine"`
}
