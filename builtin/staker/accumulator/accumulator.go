// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accumulator

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/builtin/staker/schedule"
	"github.com/vechain/stakepool/thor"
)

var (
	slotSchedule       = thor.BytesToBytes32([]byte(("reward-schedule")))
	slotRewardPerShare = thor.BytesToBytes32([]byte(("reward-per-share")))
	slotRewardProduced = thor.BytesToBytes32([]byte(("reward-produced")))
)

var errNotInitialised = errors.New("accumulator: schedule not initialised")

type scheduleRecord struct {
	StartingRewardRate *big.Int
	EpochDuration      uint64
	HalvingDuration    uint64
	ProduceTime        uint64
}

// Service keeps the global reward per share, fed lazily by the emission schedule.
type Service struct {
	schedule       *solidity.Raw[*scheduleRecord]
	rewardPerShare *solidity.Uint256
	rewardProduced *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		schedule:       solidity.NewRaw[*scheduleRecord](sctx, slotSchedule),
		rewardPerShare: solidity.NewUint256(sctx, slotRewardPerShare),
		rewardProduced: solidity.NewUint256(sctx, slotRewardProduced),
	}
}

// Init stores the schedule and the time anchor. The anchor is not advanced afterwards.
func (s *Service) Init(sched schedule.Schedule, produceTime uint64) error {
	if err := sched.Validate(); err != nil {
		return err
	}
	return s.schedule.Upsert(&scheduleRecord{
		StartingRewardRate: sched.StartingRewardRate,
		EpochDuration:      sched.EpochDuration,
		HalvingDuration:    sched.HalvingDuration,
		ProduceTime:        produceTime,
	})
}

// Schedule returns the stored schedule and its produce time.
func (s *Service) Schedule() (schedule.Schedule, uint64, error) {
	rec, err := s.schedule.Get()
	if err != nil {
		return schedule.Schedule{}, 0, err
	}
	if rec == nil {
		return schedule.Schedule{}, 0, errNotInitialised
	}
	return schedule.Schedule{
		StartingRewardRate: rec.StartingRewardRate,
		EpochDuration:      rec.EpochDuration,
		HalvingDuration:    rec.HalvingDuration,
	}, rec.ProduceTime, nil
}

func (s *Service) RewardPerShare() (*big.Int, error) {
	return s.rewardPerShare.Get()
}

func (s *Service) RewardProduced() (*big.Int, error) {
	return s.rewardProduced.Get()
}

// pending computes the reward per share and produced total as of now, and the not yet folded emission.
func (s *Service) pending(now uint64, totalStaked *big.Int) (rps, produced, delta *big.Int, err error) {
	sched, produceTime, err := s.Schedule()
	if err != nil {
		return nil, nil, nil, err
	}
	if rps, err = s.rewardPerShare.Get(); err != nil {
		return nil, nil, nil, err
	}
	if produced, err = s.rewardProduced.Get(); err != nil {
		return nil, nil, nil, err
	}
	producedNow, err := sched.Produced(produceTime, now)
	if err != nil {
		return nil, nil, nil, err
	}
	if producedNow.Cmp(produced) <= 0 {
		return rps, produced, new(big.Int), nil
	}

	delta = new(big.Int).Sub(producedNow, produced)
	if totalStaked.Sign() > 0 {
		inc := new(big.Int).Mul(delta, thor.Precision)
		rps = new(big.Int).Add(rps, inc.Div(inc, totalStaked))
	}
	// emission while nothing is staked is not attributed to anyone
	return rps, producedNow, delta, nil
}

// Update folds the emission produced since the last update into the reward per share.
// It returns the updated reward per share.
func (s *Service) Update(now uint64, totalStaked *big.Int) (*big.Int, error) {
	rps, produced, delta, err := s.pending(now, totalStaked)
	if err != nil {
		return nil, err
	}
	if delta.Sign() == 0 {
		return rps, nil
	}
	if err := s.rewardPerShare.Set(rps); err != nil {
		return nil, err
	}
	if err := s.rewardProduced.Set(produced); err != nil {
		return nil, err
	}
	return rps, nil
}

// Preview returns what the reward per share would be after Update, without writing.
func (s *Service) Preview(now uint64, totalStaked *big.Int) (*big.Int, error) {
	rps, _, _, err := s.pending(now, totalStaked)
	return rps, err
}

// Project is Preview that also returns the reward produced as of now.
func (s *Service) Project(now uint64, totalStaked *big.Int) (rps, produced *big.Int, err error) {
	rps, produced, _, err = s.pending(now, totalStaked)
	return rps, produced, err
}
