// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fine

import (
	"math/big"

	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/builtin/staker/ledger"
	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/thor"
)

var (
	slotCooldown        = thor.BytesToBytes32([]byte(("fine-cooldown-time")))
	slotPercent         = thor.BytesToBytes32([]byte(("fine-percent")))
	slotAccumulatedFine = thor.BytesToBytes32([]byte(("accumulated-fine")))
)

// Service applies the unstake fine and tracks fee free unstake requests.
//
// A staker goes from no request, to pending once a request is placed, to honorable when the cooldown has passed.
// Unstakes beyond an honorable request are fined by the fine percent, fines are pooled for the operator.
type Service struct {
	cooldown        *solidity.Raw[uint64]
	percent         *solidity.Uint256
	accumulatedFine *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		cooldown:        solidity.NewRaw[uint64](sctx, slotCooldown),
		percent:         solidity.NewUint256(sctx, slotPercent),
		accumulatedFine: solidity.NewUint256(sctx, slotAccumulatedFine),
	}
}

// Params returns the fine percent in Precision units and the cooldown in seconds.
func (s *Service) Params() (*big.Int, uint64, error) {
	percent, err := s.percent.Get()
	if err != nil {
		return nil, 0, err
	}
	cooldown, err := s.cooldown.Get()
	if err != nil {
		return nil, 0, err
	}
	return percent, cooldown, nil
}

// SetParams sets the fine percent, which must be within [0, HundredPercent], and the cooldown.
func (s *Service) SetParams(percent *big.Int, cooldown uint64) error {
	if percent.Sign() < 0 || percent.Cmp(thor.HundredPercent) > 0 {
		return reverts.ErrInvalidPercentage
	}
	if err := s.percent.Set(percent); err != nil {
		return err
	}
	return s.cooldown.Upsert(cooldown)
}

func (s *Service) AccumulatedFine() (*big.Int, error) {
	return s.accumulatedFine.Get()
}

// Request places or raises a fee free unstake request, restarting the cooldown.
func (s *Service) Request(staker *ledger.Staker, amount *big.Int, now uint64) error {
	if amount.Cmp(staker.Amount) > 0 {
		return reverts.ErrInsufficientStakedBalance
	}
	if amount.Cmp(staker.RequestedUnstakeAmount) < 0 {
		return reverts.ErrInvalidRequestAmount
	}
	cooldown, err := s.cooldown.Get()
	if err != nil {
		return err
	}
	staker.NoFineUnstakeOpenSince = now + cooldown
	staker.RequestedUnstakeAmount = new(big.Int).Set(amount)
	return nil
}

// Assess decides the fine for unstaking amount, returning the payout and the fine.
// An honored request is consumed by amount, a fine is added to the pool.
func (s *Service) Assess(staker *ledger.Staker, amount *big.Int, now uint64) (payout, fine *big.Int, err error) {
	if staker.NoFineUnstakeOpenSince <= now && amount.Cmp(staker.RequestedUnstakeAmount) <= 0 {
		staker.RequestedUnstakeAmount = new(big.Int).Sub(staker.RequestedUnstakeAmount, amount)
		return new(big.Int).Set(amount), new(big.Int), nil
	}

	percent, err := s.percent.Get()
	if err != nil {
		return nil, nil, err
	}
	fine = new(big.Int).Mul(percent, amount)
	fine.Div(fine, thor.Precision)
	if fine.Sign() > 0 {
		if err := s.accumulatedFine.Add(fine); err != nil {
			return nil, nil, err
		}
	}
	return new(big.Int).Sub(amount, fine), fine, nil
}

// Withdraw empties the fine pool and returns what it held.
func (s *Service) Withdraw() (*big.Int, error) {
	amount, err := s.accumulatedFine.Get()
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return nil, reverts.ErrNoFineToWithdraw
	}
	if err := s.accumulatedFine.Set(new(big.Int)); err != nil {
		return nil, err
	}
	return amount, nil
}
