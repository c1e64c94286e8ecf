// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accumulator

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/builtin/staker/schedule"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

func newService(t *testing.T) *Service {
	db, _ := lvldb.NewMem()
	svc := New(solidity.NewContext(thor.BytesToAddress([]byte("Staker")), state.New(db, 0)))
	require.NoError(t, svc.Init(schedule.Schedule{
		StartingRewardRate: big.NewInt(100),
		EpochDuration:      10,
		HalvingDuration:    100,
	}, 0))
	return svc
}

func scaled(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), thor.Precision)
}

func TestUpdate(t *testing.T) {
	svc := newService(t)
	total := big.NewInt(1000)

	rps, err := svc.Update(50, total)
	require.NoError(t, err)
	// 500 produced over 1000 staked
	assert.Equal(t, new(big.Int).Div(scaled(500), total), rps)

	produced, err := svc.RewardProduced()
	require.NoError(t, err)
	assert.Zero(t, big.NewInt(500).Cmp(produced))

	stored, err := svc.RewardPerShare()
	require.NoError(t, err)
	assert.Equal(t, rps, stored)
}

func TestUpdateWithoutStake(t *testing.T) {
	svc := newService(t)

	rps, err := svc.Update(50, new(big.Int))
	require.NoError(t, err)
	assert.Equal(t, 0, rps.Sign())

	// produced still advances, so emission while empty is never attributed
	produced, _ := svc.RewardProduced()
	assert.Zero(t, big.NewInt(500).Cmp(produced))

	rps, err = svc.Update(60, big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, scaled(10), rps)
}

func TestUpdateIdempotent(t *testing.T) {
	svc := newService(t)
	total := big.NewInt(3)

	first, err := svc.Update(70, total)
	require.NoError(t, err)
	second, err := svc.Update(70, total)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	produced, _ := svc.RewardProduced()
	assert.Equal(t, big.NewInt(700), produced)
}

func TestPreview(t *testing.T) {
	svc := newService(t)
	total := big.NewInt(1000)

	preview, err := svc.Preview(50, total)
	require.NoError(t, err)

	stored, _ := svc.RewardPerShare()
	assert.Equal(t, 0, stored.Sign())
	produced, _ := svc.RewardProduced()
	assert.Equal(t, 0, produced.Sign())

	rps, err := svc.Update(50, total)
	require.NoError(t, err)
	assert.Equal(t, rps, preview)
}

func TestProject(t *testing.T) {
	svc := newService(t)
	total := big.NewInt(1000)

	rps, produced, err := svc.Project(50, total)
	require.NoError(t, err)
	assert.Zero(t, big.NewInt(500).Cmp(produced))

	stored, _ := svc.RewardProduced()
	assert.Equal(t, 0, stored.Sign())

	updated, err := svc.Update(50, total)
	require.NoError(t, err)
	assert.Zero(t, updated.Cmp(rps))
	stored, _ = svc.RewardProduced()
	assert.Zero(t, stored.Cmp(produced))

	// nothing new to project once updated
	rps, produced, err = svc.Project(50, total)
	require.NoError(t, err)
	assert.Zero(t, updated.Cmp(rps))
	assert.Zero(t, big.NewInt(500).Cmp(produced))
}

func TestUpdateMonotonic(t *testing.T) {
	svc := newService(t)
	prev := new(big.Int)
	for now := uint64(0); now < 1000; now += 7 {
		rps, err := svc.Update(now, big.NewInt(int64(now%13)))
		require.NoError(t, err)
		require.True(t, rps.Cmp(prev) >= 0)
		prev = rps
	}
}

func TestNotInitialised(t *testing.T) {
	db, _ := lvldb.NewMem()
	svc := New(solidity.NewContext(thor.BytesToAddress([]byte("Staker")), state.New(db, 0)))
	_, err := svc.Update(10, big.NewInt(1))
	assert.Error(t, err)

	_, _, err = svc.Schedule()
	assert.Error(t, err)
}
