// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/stakepool/builtin/staker/schedule"
	"github.com/vechain/stakepool/thor"
)

// Authorizer answers whether caller holds role.
type Authorizer interface {
	HasRole(caller thor.Address, role thor.Bytes32) (bool, error)
}

// Custody moves a single token held for the pool.
// A rejected movement must be reported by an error wrapping reverts.ErrTransferFailed.
type Custody interface {
	// Transfer moves amount from the pool to to.
	Transfer(to thor.Address, amount *big.Int) error
	// TransferFrom moves amount from from to to, spending the allowance from granted to the pool.
	TransferFrom(from, to thor.Address, amount *big.Int) error
}

// Vault resolves the custody of a token.
// Unknown tokens are reported by an error wrapping reverts.ErrUnknownToken.
type Vault interface {
	Custody(token thor.Address) (Custody, error)
}

// Config is the initial pool setup.
type Config struct {
	Schedule     schedule.Schedule
	StartTime    uint64
	ProduceTime  uint64
	FinePercent  *big.Int
	FineCooldown uint64
	StakeToken   thor.Address
	RewardToken  thor.Address
	AdminRole    thor.Bytes32
	Availability Availability
}

// PoolInfo is a snapshot of the pool, with the reward per share projected to a given time.
type PoolInfo struct {
	StartingRewardRate *big.Int
	StartTime          uint64
	EpochDuration      uint64
	HalvingDuration    uint64
	ProduceTime        uint64
	RewardPerShare     *big.Int
	RewardProduced     *big.Int
	TotalStaked        *big.Int
	TotalDistributed   *big.Int
	FinePercent        *big.Int
	FineCooldownTime   uint64
	AccumulatedFine    *big.Int
	StakeToken         thor.Address
	RewardToken        thor.Address
	Availability       Availability
}

// StakerInfo is a snapshot of a staker, with the claimable reward projected to a given time.
type StakerInfo struct {
	Amount                 *big.Int
	RewardDebt             *big.Int
	RewardAllowed          *big.Int
	Distributed            *big.Int
	NoFineUnstakeOpenSince uint64
	RequestedUnstakeAmount *big.Int
	Claimable              *big.Int
}
