// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/builtin/staker/schedule"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

var (
	poolAddress  = thor.BytesToAddress([]byte("Staker"))
	stakeToken   = thor.BytesToAddress([]byte("stake-token"))
	rewardToken  = thor.BytesToAddress([]byte("reward-token"))
	adminAddress = thor.BytesToAddress([]byte("admin"))
)

// testToken is an in memory token with unlimited allowances.
type testToken struct {
	pool       thor.Address
	balances   map[thor.Address]*big.Int
	onTransfer func()
}

func (tt *testToken) balance(addr thor.Address) *big.Int {
	if b, ok := tt.balances[addr]; ok {
		return b
	}
	return new(big.Int)
}

func (tt *testToken) mint(addr thor.Address, amount int64) {
	tt.balances[addr] = new(big.Int).Add(tt.balance(addr), big.NewInt(amount))
}

func (tt *testToken) move(from, to thor.Address, amount *big.Int) error {
	if tt.onTransfer != nil {
		tt.onTransfer()
	}
	if tt.balance(from).Cmp(amount) < 0 {
		return errors.Wrap(reverts.ErrTransferFailed, "insufficient balance")
	}
	tt.balances[from] = new(big.Int).Sub(tt.balance(from), amount)
	tt.balances[to] = new(big.Int).Add(tt.balance(to), amount)
	return nil
}

func (tt *testToken) Transfer(to thor.Address, amount *big.Int) error {
	return tt.move(tt.pool, to, amount)
}

func (tt *testToken) TransferFrom(from, to thor.Address, amount *big.Int) error {
	return tt.move(from, to, amount)
}

type testVault map[thor.Address]*testToken

func (v testVault) Custody(token thor.Address) (Custody, error) {
	if t, ok := v[token]; ok {
		return t, nil
	}
	return nil, reverts.ErrUnknownToken
}

type testAuth map[thor.Address]bool

func (a testAuth) HasRole(caller thor.Address, role thor.Bytes32) (bool, error) {
	return role == thor.KeyAdminRole && a[caller], nil
}

func percent(p int64) *big.Int {
	v := new(big.Int).Mul(big.NewInt(p), thor.Precision)
	return v.Div(v, big.NewInt(100))
}

func defaultConfig() *Config {
	return &Config{
		Schedule: schedule.Schedule{
			StartingRewardRate: big.NewInt(100),
			EpochDuration:      10,
			HalvingDuration:    100,
		},
		StartTime:    0,
		ProduceTime:  0,
		FinePercent:  percent(10),
		FineCooldown: 100,
		StakeToken:   stakeToken,
		RewardToken:  rewardToken,
		AdminRole:    thor.KeyAdminRole,
		Availability: Availability{Stake: true, Unstake: true, Claim: true},
	}
}

type testEnv struct {
	staker *Staker
	state  *state.State
	vault  testVault
	auth   testAuth
}

func (e *testEnv) stake() *testToken  { return e.vault[stakeToken] }
func (e *testEnv) reward() *testToken { return e.vault[rewardToken] }

func newTestEnv(t *testing.T, cfg *Config) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db, 0)

	vault := testVault{
		stakeToken:  {pool: poolAddress, balances: make(map[thor.Address]*big.Int)},
		rewardToken: {pool: poolAddress, balances: make(map[thor.Address]*big.Int)},
	}
	vault[rewardToken].mint(poolAddress, 1_000_000)
	auth := testAuth{adminAddress: true}

	staker := New(poolAddress, st, auth, vault)
	require.NoError(t, staker.Init(cfg))
	return &testEnv{staker: staker, state: st, vault: vault, auth: auth}
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *testEnv

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: env}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Stake(addr thor.Address, amount int64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staker.Stake(addr, big.NewInt(amount), now); err != nil {
			t.Fatalf("failed to stake %d for %s: %v", amount, addr, err)
		}
		t.Logf("staked %d for %s at %d", amount, addr, now)
	})
}

func (st *TestSequence) Unstake(addr thor.Address, amount int64, now uint64, expectedPayout, expectedFine int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		payout, fine, err := st.env.staker.Unstake(addr, big.NewInt(amount), now)
		if err != nil {
			t.Fatalf("failed to unstake %d for %s: %v", amount, addr, err)
		}
		assertAmount(t, expectedPayout, payout, "payout")
		assertAmount(t, expectedFine, fine, "fine")
	})
}

func (st *TestSequence) Request(addr thor.Address, amount int64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staker.RequestFeeFreeUnstake(addr, big.NewInt(amount), now); err != nil {
			t.Fatalf("failed to request %d for %s: %v", amount, addr, err)
		}
	})
}

func (st *TestSequence) Claim(addr thor.Address, now uint64, expected int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		reward, err := st.env.staker.Claim(addr, now)
		if err != nil {
			t.Fatalf("failed to claim for %s: %v", addr, err)
		}
		assertAmount(t, expected, reward, "claimed reward")
	})
}

func (st *TestSequence) AssertReward(addr thor.Address, now uint64, expected int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		reward, err := st.env.staker.Reward(addr, now)
		require.NoError(t, err)
		assertAmount(t, expected, reward, "reward of %s at %d", addr, now)
	})
}

func (st *TestSequence) AssertStaked(addr thor.Address, expected int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		info, err := st.env.staker.StakerInfo(addr, 0)
		require.NoError(t, err)
		assertAmount(t, expected, info.Amount, "staked amount of %s", addr)
	})
}

// assertAmount compares amounts by value, not by representation.
func assertAmount(t *testing.T, expected int64, got *big.Int, msgAndArgs ...any) {
	t.Helper()
	if assert.NotNil(t, got, msgAndArgs...) {
		assert.Equal(t, big.NewInt(expected).String(), got.String(), msgAndArgs...)
	}
}

func (st *TestSequence) AssertError(f func(s *Staker) error, expected error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.ErrorIs(t, f(st.env.staker), expected)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	for _, f := range st.funcs {
		f(t)
	}
}
