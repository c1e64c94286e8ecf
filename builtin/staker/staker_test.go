// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/thor"
)

func M(a ...any) []any {
	return a
}

func TestStaker_SingleStakerScenario(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice := datagen.RandAddress()
	env.stake().mint(alice, 1000)

	NewSequence(env).
		Stake(alice, 1000, 1).
		AssertReward(alice, 9, 0).
		AssertReward(alice, 50, 500).
		Claim(alice, 50, 500).
		AssertReward(alice, 50, 0).
		// first halving period yields 1000, second 500
		AssertReward(alice, 200, 1000).
		Run(t)

	assert.Equal(t, big.NewInt(500), env.reward().balance(alice))
	assert.Equal(t, big.NewInt(1000), env.stake().balance(poolAddress))
	assert.Equal(t, 0, env.stake().balance(alice).Sign())
}

func TestStaker_ProportionalShares(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	env.stake().mint(alice, 100)
	env.stake().mint(bob, 300)

	NewSequence(env).
		Stake(alice, 100, 1).
		// alice alone for 2 epochs
		AssertReward(alice, 20, 200).
		Stake(bob, 300, 20).
		// 2 more epochs split 1:3
		AssertReward(alice, 40, 250).
		AssertReward(bob, 40, 150).
		Claim(bob, 40, 150).
		Claim(alice, 40, 250).
		Run(t)

	info, err := env.staker.PoolInfo(40)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(400), info.TotalDistributed)
	assert.Equal(t, big.NewInt(400), info.TotalStaked)
}

func TestStaker_FineWithoutRequest(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice := datagen.RandAddress()
	env.stake().mint(alice, 100)

	NewSequence(env).
		Stake(alice, 100, 1).
		Unstake(alice, 100, 2, 90, 10).
		AssertStaked(alice, 0).
		Run(t)

	info, err := env.staker.PoolInfo(2)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), info.AccumulatedFine)
	assert.Equal(t, big.NewInt(90), env.stake().balance(alice))
	assert.Equal(t, big.NewInt(10), env.stake().balance(poolAddress))

	_, err = env.staker.WithdrawFine(alice)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	amount, err := env.staker.WithdrawFine(adminAddress)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), amount)
	assert.Equal(t, big.NewInt(10), env.stake().balance(adminAddress))

	_, err = env.staker.WithdrawFine(adminAddress)
	assert.ErrorIs(t, err, reverts.ErrNoFineToWithdraw)
}

func TestStaker_FeeFreeUnstake(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice := datagen.RandAddress()
	env.stake().mint(alice, 100)

	NewSequence(env).
		Stake(alice, 100, 1).
		Request(alice, 60, 10).
		// still pending
		Unstake(alice, 10, 109, 9, 1).
		// honorable
		Unstake(alice, 40, 110, 40, 0).
		// beyond the remaining request
		Unstake(alice, 30, 120, 27, 3).
		AssertStaked(alice, 20).
		Run(t)

	info, err := env.staker.StakerInfo(alice, 120)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), info.RequestedUnstakeAmount)
	assert.Equal(t, uint64(110), info.NoFineUnstakeOpenSince)
}

func TestStaker_RequestGuards(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice := datagen.RandAddress()
	env.stake().mint(alice, 100)

	NewSequence(env).
		Stake(alice, 100, 1).
		Request(alice, 50, 10).
		AssertError(func(s *Staker) error {
			return s.RequestFeeFreeUnstake(alice, big.NewInt(40), 11)
		}, reverts.ErrInvalidRequestAmount).
		AssertError(func(s *Staker) error {
			return s.RequestFeeFreeUnstake(alice, big.NewInt(101), 11)
		}, reverts.ErrInsufficientStakedBalance).
		AssertError(func(s *Staker) error {
			return s.RequestFeeFreeUnstake(alice, big.NewInt(0), 11)
		}, reverts.ErrZeroAmount).
		AssertError(func(s *Staker) error {
			_, _, err := s.Unstake(alice, big.NewInt(101), 11)
			return err
		}, reverts.ErrInsufficientStakedBalance).
		Run(t)

	info, err := env.staker.StakerInfo(alice, 11)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), info.RequestedUnstakeAmount)
	assert.Equal(t, uint64(110), info.NoFineUnstakeOpenSince)
}

func TestStaker_FinePathKeepsRequestWithinStake(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice := datagen.RandAddress()
	env.stake().mint(alice, 100)

	NewSequence(env).
		Stake(alice, 100, 1).
		Request(alice, 80, 1).
		Unstake(alice, 90, 2, 81, 9).
		Run(t)

	info, err := env.staker.StakerInfo(alice, 2)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), info.Amount)
	assert.Equal(t, big.NewInt(10), info.RequestedUnstakeAmount)
}

func TestStaker_NotYetStarted(t *testing.T) {
	cfg := defaultConfig()
	cfg.StartTime = 100
	env := newTestEnv(t, cfg)
	alice := datagen.RandAddress()
	env.stake().mint(alice, 10)

	assert.ErrorIs(t, env.staker.Stake(alice, big.NewInt(10), 99), reverts.ErrNotYetStarted)
	assert.ErrorIs(t, env.staker.Stake(alice, big.NewInt(10), 100), reverts.ErrNotYetStarted)
	assert.NoError(t, env.staker.Stake(alice, big.NewInt(10), 101))
}

func TestStaker_ZeroAmount(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice := datagen.RandAddress()

	assert.ErrorIs(t, env.staker.Stake(alice, big.NewInt(0), 1), reverts.ErrZeroAmount)
	_, _, err := env.staker.Unstake(alice, big.NewInt(0), 1)
	assert.ErrorIs(t, err, reverts.ErrZeroAmount)
	_, err = env.staker.Claim(alice, 1)
	assert.ErrorIs(t, err, reverts.ErrNothingToClaim)
}

func TestStaker_Availability(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice := datagen.RandAddress()
	env.stake().mint(alice, 100)
	require.NoError(t, env.staker.Stake(alice, big.NewInt(50), 1))

	assert.ErrorIs(t, env.staker.SetAvailability(alice, Availability{}), reverts.ErrUnauthorized)
	require.NoError(t, env.staker.SetAvailability(adminAddress, Availability{}))

	assert.ErrorIs(t, env.staker.Stake(alice, big.NewInt(50), 2), reverts.ErrOperationUnavailable)
	_, _, err := env.staker.Unstake(alice, big.NewInt(1), 2)
	assert.ErrorIs(t, err, reverts.ErrOperationUnavailable)
	assert.ErrorIs(t, env.staker.RequestFeeFreeUnstake(alice, big.NewInt(1), 2), reverts.ErrOperationUnavailable)
	_, err = env.staker.Claim(alice, 50)
	assert.ErrorIs(t, err, reverts.ErrOperationUnavailable)

	// each gate is independent
	require.NoError(t, env.staker.SetAvailability(adminAddress, Availability{Claim: true}))
	_, err = env.staker.Claim(alice, 50)
	assert.NoError(t, err)
	assert.ErrorIs(t, env.staker.Stake(alice, big.NewInt(50), 51), reverts.ErrOperationUnavailable)

	info, err := env.staker.PoolInfo(51)
	require.NoError(t, err)
	assert.Equal(t, Availability{Claim: true}, info.Availability)
}

func TestStaker_SetFineParams(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	over := new(big.Int).Add(thor.HundredPercent, big.NewInt(1))

	assert.ErrorIs(t, env.staker.SetFineParams(datagen.RandAddress(), percent(5), 1), reverts.ErrUnauthorized)
	assert.ErrorIs(t, env.staker.SetFineParams(adminAddress, over, 1), reverts.ErrInvalidPercentage)

	require.NoError(t, env.staker.SetFineParams(adminAddress, percent(5), 30))
	info, err := env.staker.PoolInfo(0)
	require.NoError(t, err)
	assert.Equal(t, 0, percent(5).Cmp(info.FinePercent))
	assert.Equal(t, uint64(30), info.FineCooldownTime)
}

func TestStaker_WithdrawToken(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	unknown := datagen.RandAddress()

	assert.ErrorIs(t, env.staker.WithdrawToken(datagen.RandAddress(), rewardToken, big.NewInt(1)), reverts.ErrUnauthorized)
	assert.ErrorIs(t, env.staker.WithdrawToken(adminAddress, unknown, big.NewInt(1)), reverts.ErrUnknownToken)
	assert.ErrorIs(t, env.staker.WithdrawToken(adminAddress, rewardToken, big.NewInt(2_000_000)), reverts.ErrTransferFailed)

	require.NoError(t, env.staker.WithdrawToken(adminAddress, rewardToken, big.NewInt(1000)))
	assert.Equal(t, big.NewInt(1000), env.reward().balance(adminAddress))
}

func TestStaker_TransferFailureReverts(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice := datagen.RandAddress()
	env.stake().mint(alice, 10)

	// not enough balance, the accumulator update is reverted too
	assert.ErrorIs(t, env.staker.Stake(alice, big.NewInt(11), 50), reverts.ErrTransferFailed)

	info, err := env.staker.PoolInfo(50)
	require.NoError(t, err)
	assert.Equal(t, 0, info.TotalStaked.Sign())
	stored, err := env.staker.accumulatorService.RewardProduced()
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Sign())

	alInfo, err := env.staker.StakerInfo(alice, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, alInfo.Amount.Sign())

	// pool runs out of reward tokens
	require.NoError(t, env.staker.Stake(alice, big.NewInt(10), 51))
	env.reward().balances[poolAddress] = big.NewInt(1)
	_, err = env.staker.Claim(alice, 100)
	assert.ErrorIs(t, err, reverts.ErrTransferFailed)

	alInfo, err = env.staker.StakerInfo(alice, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, alInfo.Distributed.Sign())
	assert.Equal(t, big.NewInt(500), alInfo.Claimable)
}

func TestStaker_Reentrancy(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice := datagen.RandAddress()
	env.stake().mint(alice, 100)

	var nested error
	env.stake().onTransfer = func() {
		nested = env.staker.Stake(alice, big.NewInt(1), 2)
	}
	require.NoError(t, env.staker.Stake(alice, big.NewInt(50), 1))
	assert.ErrorIs(t, nested, reverts.ErrReentrantCall)

	// the guard is released after the operation
	env.stake().onTransfer = nil
	assert.NoError(t, env.staker.Stake(alice, big.NewInt(1), 2))
}

func TestStaker_PoolInfoProjected(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice := datagen.RandAddress()
	env.stake().mint(alice, 100)
	require.NoError(t, env.staker.Stake(alice, big.NewInt(100), 1))

	info, err := env.staker.PoolInfo(50)
	require.NoError(t, err)
	assert.Zero(t, big.NewInt(500).Cmp(info.RewardProduced))
	assert.Zero(t, new(big.Int).Mul(big.NewInt(5), thor.Precision).Cmp(info.RewardPerShare))

	// the snapshot matches what a refresh stores
	_, err = env.staker.RefreshAccumulator(50)
	require.NoError(t, err)
	stored, err := env.staker.accumulatorService.RewardProduced()
	require.NoError(t, err)
	assert.Zero(t, stored.Cmp(info.RewardProduced))
}

func TestStaker_RefreshIdempotent(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	alice := datagen.RandAddress()
	env.stake().mint(alice, 100)
	require.NoError(t, env.staker.Stake(alice, big.NewInt(100), 1))

	first, err := env.staker.RefreshAccumulator(70)
	require.NoError(t, err)
	before, err := env.staker.PoolInfo(70)
	require.NoError(t, err)

	second, err := env.staker.RefreshAccumulator(70)
	require.NoError(t, err)
	after, err := env.staker.PoolInfo(70)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, after)
}

func TestStaker_Init(t *testing.T) {
	env := newTestEnv(t, defaultConfig())

	ok, err := env.staker.IsInitialised()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Error(t, env.staker.Init(defaultConfig()))

	info, err := env.staker.PoolInfo(0)
	require.NoError(t, err)
	assert.Equal(t, M(stakeToken, rewardToken), M(info.StakeToken, info.RewardToken))
	assert.Equal(t, big.NewInt(100), info.StartingRewardRate)
	assert.Equal(t, M(uint64(10), uint64(100)), M(info.EpochDuration, info.HalvingDuration))
}
