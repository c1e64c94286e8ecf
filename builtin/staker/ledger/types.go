// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vechain/stakepool/thor"
)

// Staker is the per account position. A zero valued entry means no position.
type Staker struct {
	Amount                 *big.Int
	RewardDebt             *big.Int
	RewardAllowed          *big.Int
	Distributed            *big.Int
	NoFineUnstakeOpenSince uint64
	RequestedUnstakeAmount *big.Int
}

func (s *Staker) normalize() {
	for _, v := range []**big.Int{&s.Amount, &s.RewardDebt, &s.RewardAllowed, &s.Distributed, &s.RequestedUnstakeAmount} {
		if *v == nil {
			*v = new(big.Int)
		}
	}
}

// IsEmpty returns true if the staker holds nothing and owes nothing.
func (s *Staker) IsEmpty() bool {
	return s.Amount.Sign() == 0 &&
		s.RewardDebt.Sign() == 0 &&
		s.RewardAllowed.Sign() == 0 &&
		s.Distributed.Sign() == 0 &&
		s.RequestedUnstakeAmount.Sign() == 0 &&
		s.NoFineUnstakeOpenSince == 0
}

// Claimable returns the reward the staker can claim at the given reward per share.
// The result is clamped at zero, rounding can push the raw balance slightly negative.
func (s *Staker) Claimable(rewardPerShare *big.Int) *big.Int {
	reward := new(big.Int).Mul(s.Amount, rewardPerShare)
	reward.Div(reward, thor.Precision)
	reward.Add(reward, s.RewardAllowed)
	reward.Sub(reward, s.Distributed)
	reward.Sub(reward, s.RewardDebt)
	if reward.Sign() < 0 {
		return new(big.Int)
	}
	return reward
}

// share returns amount * rewardPerShare / Precision.
func share(amount, rewardPerShare *big.Int) *big.Int {
	v := new(big.Int).Mul(amount, rewardPerShare)
	return v.Div(v, thor.Precision)
}
