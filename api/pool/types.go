// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/thor"
)

type Availability struct {
	Stake   bool `json:"stake"`
	Unstake bool `json:"unstake"`
	Claim   bool `json:"claim"`
}

// Pool is the pool snapshot, with rewardPerShare projected to the time of the request.
type Pool struct {
	StartingRewardRate *math.HexOrDecimal256 `json:"startingRewardRate"`
	StartTime          uint64                `json:"startTime"`
	EpochDuration      uint64                `json:"epochDuration"`
	HalvingDuration    uint64                `json:"halvingDuration"`
	ProduceTime        uint64                `json:"produceTime"`
	RewardPerShare     *math.HexOrDecimal256 `json:"rewardPerShare"`
	RewardProduced     *math.HexOrDecimal256 `json:"rewardProduced"`
	TotalStaked        *math.HexOrDecimal256 `json:"totalStaked"`
	TotalDistributed   *math.HexOrDecimal256 `json:"totalDistributed"`
	FinePercent        *math.HexOrDecimal256 `json:"finePercent"`
	FineCooldownTime   uint64                `json:"fineCooldownTime"`
	AccumulatedFine    *math.HexOrDecimal256 `json:"accumulatedFine"`
	StakeToken         thor.Address          `json:"stakeToken"`
	RewardToken        thor.Address          `json:"rewardToken"`
	Availability       Availability          `json:"availability"`
}

func convertPool(info *staker.PoolInfo) *Pool {
	return &Pool{
		StartingRewardRate: utils.Uint256(info.StartingRewardRate),
		StartTime:          info.StartTime,
		EpochDuration:      info.EpochDuration,
		HalvingDuration:    info.HalvingDuration,
		ProduceTime:        info.ProduceTime,
		RewardPerShare:     utils.Uint256(info.RewardPerShare),
		RewardProduced:     utils.Uint256(info.RewardProduced),
		TotalStaked:        utils.Uint256(info.TotalStaked),
		TotalDistributed:   utils.Uint256(info.TotalDistributed),
		FinePercent:        utils.Uint256(info.FinePercent),
		FineCooldownTime:   info.FineCooldownTime,
		AccumulatedFine:    utils.Uint256(info.AccumulatedFine),
		StakeToken:         info.StakeToken,
		RewardToken:        info.RewardToken,
		Availability: Availability{
			Stake:   info.Availability.Stake,
			Unstake: info.Availability.Unstake,
			Claim:   info.Availability.Claim,
		},
	}
}

type Refreshed struct {
	RewardPerShare *math.HexOrDecimal256 `json:"rewardPerShare"`
}

// Status describes the running service.
type Status struct {
	GenesisID thor.Bytes32 `json:"genesisId"`
	Now       uint64       `json:"now"`
}
