// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/thor"
)

var (
	slotStakers          = thor.BytesToBytes32([]byte(("stakers")))
	slotTotalStaked      = thor.BytesToBytes32([]byte(("total-staked")))
	slotTotalDistributed = thor.BytesToBytes32([]byte(("total-distributed")))
)

// Service keeps the staker positions and the pool totals.
// Callers must update the reward per share before any position change.
type Service struct {
	stakers          *solidity.Mapping[thor.Address, *Staker]
	totalStaked      *solidity.Uint256
	totalDistributed *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		stakers:          solidity.NewMapping[thor.Address, *Staker](sctx, slotStakers),
		totalStaked:      solidity.NewUint256(sctx, slotTotalStaked),
		totalDistributed: solidity.NewUint256(sctx, slotTotalDistributed),
	}
}

// Get returns the staker of addr. It never returns a nil staker without an error.
func (s *Service) Get(addr thor.Address) (*Staker, error) {
	staker, err := s.stakers.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staker")
	}
	staker.normalize()
	return staker, nil
}

// Save writes the staker back.
func (s *Service) Save(addr thor.Address, staker *Staker) error {
	if staker.IsEmpty() {
		s.stakers.Delete(addr)
		return nil
	}
	return errors.Wrap(s.stakers.Set(addr, staker), "failed to set staker")
}

func (s *Service) TotalStaked() (*big.Int, error) {
	return s.totalStaked.Get()
}

func (s *Service) TotalDistributed() (*big.Int, error) {
	return s.totalDistributed.Get()
}

// Stake adds amount to the staker position.
// The new principal carries a reward debt so it earns nothing from past emission.
func (s *Service) Stake(addr thor.Address, staker *Staker, amount, rewardPerShare *big.Int) error {
	staker.RewardDebt = new(big.Int).Add(staker.RewardDebt, share(amount, rewardPerShare))
	staker.Amount = new(big.Int).Add(staker.Amount, amount)

	if err := s.totalStaked.Add(amount); err != nil {
		return err
	}
	return s.Save(addr, staker)
}

// Unstake removes amount from the staker position, keeping the reward already earned on it.
// The requested fee free amount is capped to what remains staked.
func (s *Service) Unstake(addr thor.Address, staker *Staker, amount, rewardPerShare *big.Int) error {
	if staker.Amount.Cmp(amount) < 0 {
		return reverts.ErrInsufficientStakedBalance
	}
	staker.RewardAllowed = new(big.Int).Add(staker.RewardAllowed, share(amount, rewardPerShare))
	staker.Amount = new(big.Int).Sub(staker.Amount, amount)
	if staker.RequestedUnstakeAmount.Cmp(staker.Amount) > 0 {
		staker.RequestedUnstakeAmount = new(big.Int).Set(staker.Amount)
	}

	if err := s.totalStaked.Sub(amount); err != nil {
		return err
	}
	return s.Save(addr, staker)
}

// Claim marks the claimable reward as distributed and returns it.
func (s *Service) Claim(addr thor.Address, staker *Staker, rewardPerShare *big.Int) (*big.Int, error) {
	reward := staker.Claimable(rewardPerShare)
	if reward.Sign() == 0 {
		return nil, reverts.ErrNothingToClaim
	}
	staker.Distributed = new(big.Int).Add(staker.Distributed, reward)

	if err := s.totalDistributed.Add(reward); err != nil {
		return nil, err
	}
	if err := s.Save(addr, staker); err != nil {
		return nil, err
	}
	return reward, nil
}
