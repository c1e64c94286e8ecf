// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package schedule computes the halving reward emission.
package schedule

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/thor"
)

var (
	ErrOverflow      = errors.New("schedule: arithmetic overflow")
	errZeroDuration  = errors.New("schedule: durations must be positive")
	errNotMultiple   = errors.New("schedule: halving duration must be a multiple of epoch duration")
	errRateOutOfBand = errors.New("schedule: starting reward rate must be in [0, 2^256)")
)

var precision = uint256.MustFromBig(thor.Precision)

// Schedule emits StartingRewardRate reward units per epoch, halving the rate every HalvingDuration.
type Schedule struct {
	StartingRewardRate *big.Int
	EpochDuration      uint64
	HalvingDuration    uint64
}

// Validate checks the schedule parameters.
func (s Schedule) Validate() error {
	if s.EpochDuration == 0 || s.HalvingDuration == 0 {
		return errZeroDuration
	}
	// halving boundaries must fall on epoch boundaries, or the emission is not monotonic
	if s.HalvingDuration%s.EpochDuration != 0 {
		return errNotMultiple
	}
	if s.StartingRewardRate == nil || s.StartingRewardRate.Sign() < 0 || s.StartingRewardRate.BitLen() > 256 {
		return errRateOutOfBand
	}
	return nil
}

// Produced returns the total reward units emitted from produceTime up to now.
// It's a nondecreasing step function of now, constant within an epoch.
func (s Schedule) Produced(produceTime, now uint64) (*big.Int, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if now <= produceTime {
		return new(big.Int), nil
	}
	elapsed := now - produceTime

	halvings := min(elapsed/s.HalvingDuration, thor.MaxHalvings)

	epochesScaled, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(elapsed/s.EpochDuration), precision)
	if overflow {
		return nil, ErrOverflow
	}
	epochesPerHalving, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(s.HalvingDuration), precision)
	if overflow {
		return nil, ErrOverflow
	}
	epochesPerHalving.Div(epochesPerHalving, uint256.NewInt(s.EpochDuration))

	partial := new(uint256.Int).Mod(epochesScaled, epochesPerHalving)
	startRate := uint256.MustFromBig(s.StartingRewardRate)

	var (
		sum  = new(uint256.Int)
		rate = new(uint256.Int)
		term = new(uint256.Int)
	)
	for i := uint64(0); i <= halvings; i++ {
		rate.Rsh(startRate, uint(i))
		epoches := epochesPerHalving
		if i == halvings {
			epoches = partial
		}
		if _, overflow = term.MulOverflow(rate, epoches); overflow {
			return nil, ErrOverflow
		}
		if _, overflow = sum.AddOverflow(sum, term); overflow {
			return nil, ErrOverflow
		}
	}
	return sum.Div(sum, precision).ToBig(), nil
}
