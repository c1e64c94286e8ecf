// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchedule() Schedule {
	return Schedule{
		StartingRewardRate: big.NewInt(100),
		EpochDuration:      10,
		HalvingDuration:    100,
	}
}

func TestProduced(t *testing.T) {
	s := newSchedule()

	tests := []struct {
		name string
		now  uint64
		want int64
	}{
		{"at start", 0, 0},
		{"within first epoch", 9, 0},
		{"one epoch", 10, 100},
		{"epoch fraction ignored", 59, 500},
		{"five epochs", 50, 500},
		{"one halving", 100, 1000},
		{"into second period", 120, 1000 + 2*50},
		{"two halvings", 200, 1000 + 500},
		{"three halvings", 300, 1000 + 500 + 250},
		{"odd rate truncates", 400, 1000 + 500 + 250 + 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Produced(0, tt.now)
			require.NoError(t, err)
			assert.Zero(t, big.NewInt(tt.want).Cmp(got), "produced %v, want %d", got, tt.want)
		})
	}
}

func TestProducedRelativeToProduceTime(t *testing.T) {
	s := newSchedule()

	got, err := s.Produced(1000, 999)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Sign())

	got, err = s.Produced(1000, 1050)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), got)
}

func TestProducedMonotonic(t *testing.T) {
	s := Schedule{
		StartingRewardRate: new(big.Int).Mul(big.NewInt(7), big.NewInt(1e18)),
		EpochDuration:      3,
		HalvingDuration:    18,
	}
	prev := new(big.Int)
	for now := uint64(0); now < 2000; now++ {
		got, err := s.Produced(0, now)
		require.NoError(t, err)
		require.True(t, got.Cmp(prev) >= 0, "produced decreased at %d", now)
		prev = got
	}
}

func TestProducedHalvingCap(t *testing.T) {
	s := newSchedule()

	// the rate is 0 long before the cap, so the total settles
	atCap, err := s.Produced(0, 100*100)
	require.NoError(t, err)
	far, err := s.Produced(0, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, atCap, far)
}

func TestProducedOverflow(t *testing.T) {
	s := Schedule{
		StartingRewardRate: new(big.Int).Lsh(big.NewInt(1), 255),
		EpochDuration:      1,
		HalvingDuration:    1,
	}
	_, err := s.Produced(0, 10)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, newSchedule().Validate())

	s := newSchedule()
	s.EpochDuration = 0
	assert.Error(t, s.Validate())

	s = newSchedule()
	s.EpochDuration = 200
	assert.Error(t, s.Validate())

	s = newSchedule()
	s.EpochDuration = 30
	assert.Error(t, s.Validate())

	s = newSchedule()
	s.StartingRewardRate = big.NewInt(-1)
	assert.Error(t, s.Validate())

	s = newSchedule()
	s.StartingRewardRate = nil
	_, err := s.Produced(0, 10)
	assert.Error(t, err)
}
