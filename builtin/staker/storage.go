// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/thor"
)

var (
	slotInitialised      = nameToSlot("initialised")
	slotStartTime        = nameToSlot("start-time")
	slotStakeToken       = nameToSlot("stake-token")
	slotRewardToken      = nameToSlot("reward-token")
	slotAdminRole        = nameToSlot("admin-role")
	slotStakeAvailable   = nameToSlot("stake-available")
	slotUnstakeAvailable = nameToSlot("unstake-available")
	slotClaimAvailable   = nameToSlot("claim-available")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

// storage holds the pool wide settings of the Staker contract.
type storage struct {
	initialised *solidity.Bool
	startTime   *solidity.Raw[uint64]
	stakeToken  *solidity.Address
	rewardToken *solidity.Address
	adminRole   *solidity.Raw[thor.Bytes32]

	stakeAvailable   *solidity.Bool
	unstakeAvailable *solidity.Bool
	claimAvailable   *solidity.Bool
}

func newStorage(sctx *solidity.Context) *storage {
	return &storage{
		initialised:      solidity.NewBool(sctx, slotInitialised),
		startTime:        solidity.NewRaw[uint64](sctx, slotStartTime),
		stakeToken:       solidity.NewAddress(sctx, slotStakeToken),
		rewardToken:      solidity.NewAddress(sctx, slotRewardToken),
		adminRole:        solidity.NewRaw[thor.Bytes32](sctx, slotAdminRole),
		stakeAvailable:   solidity.NewBool(sctx, slotStakeAvailable),
		unstakeAvailable: solidity.NewBool(sctx, slotUnstakeAvailable),
		claimAvailable:   solidity.NewBool(sctx, slotClaimAvailable),
	}
}

// Availability gates the staker operations, each flag independently.
type Availability struct {
	Stake   bool
	Unstake bool
	Claim   bool
}

func (s *storage) getAvailability() (Availability, error) {
	var (
		a   Availability
		err error
	)
	if a.Stake, err = s.stakeAvailable.Get(); err != nil {
		return a, err
	}
	if a.Unstake, err = s.unstakeAvailable.Get(); err != nil {
		return a, err
	}
	a.Claim, err = s.claimAvailable.Get()
	return a, err
}

func (s *storage) setAvailability(a Availability) error {
	if err := s.stakeAvailable.Set(a.Stake); err != nil {
		return err
	}
	if err := s.unstakeAvailable.Set(a.Unstake); err != nil {
		return err
	}
	return s.claimAvailable.Set(a.Claim)
}
