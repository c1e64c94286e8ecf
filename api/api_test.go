// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api/admin"
	"github.com/vechain/stakepool/api/pool"
	"github.com/vechain/stakepool/api/stakers"
	"github.com/vechain/stakepool/api/tokens"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/health"
	"github.com/vechain/stakepool/lvldb"
	stakepool "github.com/vechain/stakepool/pool"
	"github.com/vechain/stakepool/thor"
)

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
	owner = thor.BytesToAddress([]byte("owner"))
)

type testServer struct {
	*httptest.Server
	clock  *stakepool.ManualClock
	pool   *stakepool.Pool
	health *health.Health
}

func newTestServer(t *testing.T) *testServer {
	amount := func(v int64) *genesis.HexOrDecimal256 { return genesis.NewHexOrDecimal256(big.NewInt(v)) }
	gen := &genesis.Genesis{
		Pool: genesis.Pool{
			StakeToken:         "STK",
			RewardToken:        "RWD",
			StartingRewardRate: amount(100),
			EpochDuration:      10,
			HalvingDuration:    100,
			StartTime:          1000,
			FinePercent:        genesis.NewHexOrDecimal256(new(big.Int).Div(thor.HundredPercent, big.NewInt(10))),
			FineCooldown:       100,
		},
		Tokens: []genesis.Token{
			{Symbol: "STK", Allocations: []genesis.Allocation{{Address: alice, Amount: amount(10_000)}}},
			{Symbol: "RWD", PoolBalance: amount(1_000_000)},
		},
		Admins: []thor.Address{owner},
	}

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	clock := stakepool.NewManualClock(1000)
	healthStatus := health.New(time.Second)
	p, err := stakepool.Open(db, gen, clock, stakepool.Options{Health: healthStatus})
	require.NoError(t, err)

	ts := httptest.NewServer(New(p, Options{
		AllowedOrigins:  "*",
		EnableMetrics:   true,
		EnableReqLogger: true,
		Health:          healthStatus,
	}))
	t.Cleanup(ts.Close)
	return &testServer{ts, clock, p, healthStatus}
}

// call sends a request and decodes a successful JSON response into out.
func (ts *testServer) call(t *testing.T, method, path string, caller *thor.Address, body any, out any) int {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if caller != nil {
		req.Header.Set(utils.CallerHeader, caller.String())
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if resp.StatusCode == http.StatusOK && out != nil {
		require.NoError(t, json.Unmarshal(data, out), string(data))
	}
	return resp.StatusCode
}

func num(v *math.HexOrDecimal256) *big.Int {
	return (*big.Int)(v)
}

func hex(v int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(big.NewInt(v))
}

func TestAPI(t *testing.T) {
	ts := newTestServer(t)

	var info pool.Pool
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/pool", nil, nil, &info))
	assert.Equal(t, 0, num(info.TotalStaked).Sign())
	assert.Equal(t, big.NewInt(100), num(info.StartingRewardRate))
	assert.True(t, info.Availability.Stake)

	var status pool.Status
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/pool/status", nil, nil, &status))
	assert.Equal(t, ts.pool.GenesisID(), status.GenesisID)
	assert.Equal(t, uint64(1000), status.Now)

	spender := builtin.Staker.Address
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodPost, "/tokens/STK/approve", &alice,
		tokens.ApproveRequest{Spender: &spender, Amount: hex(1000)}, nil))

	stakePath := "/stakers/" + alice.String() + "/stake"
	// not started
	assert.Equal(t, http.StatusBadRequest, ts.call(t, http.MethodPost, stakePath, &alice, stakers.AmountRequest{Amount: hex(1000)}, nil))

	ts.clock.Set(1001)
	var st stakers.Staker
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodPost, stakePath, &alice, stakers.AmountRequest{Amount: hex(1000)}, &st))
	assert.Equal(t, big.NewInt(1000), num(st.Amount))

	ts.clock.Set(1051)
	var reward stakers.Reward
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/stakers/"+alice.String()+"/reward", nil, nil, &reward))
	assert.Equal(t, big.NewInt(500), num(reward.Reward))

	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodPost, "/stakers/"+alice.String()+"/claim", &alice, nil, &reward))
	assert.Equal(t, big.NewInt(500), num(reward.Reward))
	assert.Equal(t, http.StatusBadRequest, ts.call(t, http.MethodPost, "/stakers/"+alice.String()+"/claim", &alice, nil, nil))

	var bal tokens.Balance
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/tokens/RWD/balances/"+alice.String(), nil, nil, &bal))
	assert.Equal(t, big.NewInt(500), num(bal.Balance))
	assert.Equal(t, builtin.Token("RWD").Address, bal.Token)

	var unstaked stakers.Unstaked
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodPost, "/stakers/"+alice.String()+"/unstake", &alice,
		stakers.AmountRequest{Amount: hex(100)}, &unstaked))
	assert.Equal(t, big.NewInt(90), num(unstaked.Payout))
	assert.Equal(t, big.NewInt(10), num(unstaked.Fine))

	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodPost, "/stakers/"+alice.String()+"/request-unstake", &alice,
		stakers.AmountRequest{Amount: hex(300)}, &st))
	assert.Equal(t, big.NewInt(300), num(st.RequestedUnstakeAmount))
	assert.Equal(t, uint64(1151), st.NoFineUnstakeOpenSince)

	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/stakers/"+alice.String(), nil, nil, &st))
	assert.Equal(t, big.NewInt(900), num(st.Amount))

	var refreshed pool.Refreshed
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodPost, "/pool/refresh", nil, nil, &refreshed))
	assert.Equal(t, new(big.Int).Div(thor.Precision, big.NewInt(2)), num(refreshed.RewardPerShare))
}

func TestAPIRequestErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.clock.Set(1001)
	stakePath := "/stakers/" + alice.String() + "/stake"

	tests := []struct {
		name   string
		method string
		path   string
		caller *thor.Address
		body   any
		status int
	}{
		{"no caller", http.MethodPost, stakePath, nil, stakers.AmountRequest{Amount: hex(1)}, http.StatusUnauthorized},
		{"caller is not the staker", http.MethodPost, stakePath, &bob, stakers.AmountRequest{Amount: hex(1)}, http.StatusForbidden},
		{"negative amount", http.MethodPost, stakePath, &alice, map[string]string{"amount": "-5"}, http.StatusBadRequest},
		{"missing amount", http.MethodPost, stakePath, &alice, map[string]string{}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, stakePath, &alice, map[string]string{"amount": "1", "x": "y"}, http.StatusBadRequest},
		{"zero amount", http.MethodPost, stakePath, &alice, stakers.AmountRequest{Amount: hex(0)}, http.StatusBadRequest},
		{"no allowance", http.MethodPost, stakePath, &alice, stakers.AmountRequest{Amount: hex(1)}, http.StatusBadRequest},
		{"bad address", http.MethodGet, "/stakers/0x1234", nil, nil, http.StatusBadRequest},
		{"unknown token", http.MethodGet, "/tokens/NOPE/balances/" + alice.String(), nil, nil, http.StatusBadRequest},
		{"wrong method", http.MethodGet, stakePath, nil, nil, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, ts.call(t, tt.method, tt.path, tt.caller, tt.body, nil))
		})
	}
}

func TestAPIAdmin(t *testing.T) {
	ts := newTestServer(t)
	ts.clock.Set(1001)

	closed := false
	assert.Equal(t, http.StatusForbidden, ts.call(t, http.MethodPost, "/admin/availability", &alice, admin.Availability{Stake: &closed}, nil))

	var availability admin.Availability
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodPost, "/admin/availability", &owner, admin.Availability{Stake: &closed}, &availability))
	assert.False(t, *availability.Stake)
	assert.True(t, *availability.Unstake)
	assert.True(t, *availability.Claim)

	spender := builtin.Staker.Address
	ts.call(t, http.MethodPost, "/tokens/STK/approve", &alice, tokens.ApproveRequest{Spender: &spender, Amount: hex(10)}, nil)
	assert.Equal(t, http.StatusBadRequest, ts.call(t, http.MethodPost, "/stakers/"+alice.String()+"/stake", &alice,
		stakers.AmountRequest{Amount: hex(10)}, nil))

	cooldown := uint64(7)
	tooMuch := (*math.HexOrDecimal256)(new(big.Int).Add(thor.HundredPercent, big.NewInt(1)))
	assert.Equal(t, http.StatusBadRequest, ts.call(t, http.MethodPost, "/admin/fine", &owner,
		admin.FineParams{Percent: tooMuch, Cooldown: &cooldown}, nil))
	assert.Equal(t, http.StatusBadRequest, ts.call(t, http.MethodPost, "/admin/fine", &owner,
		admin.FineParams{Percent: hex(1)}, nil))
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodPost, "/admin/fine", &owner,
		admin.FineParams{Percent: hex(0), Cooldown: &cooldown}, nil))

	var info pool.Pool
	ts.call(t, http.MethodGet, "/pool", nil, nil, &info)
	assert.Equal(t, uint64(7), info.FineCooldownTime)
	assert.Equal(t, 0, num(info.FinePercent).Sign())

	// no fine collected yet
	assert.Equal(t, http.StatusBadRequest, ts.call(t, http.MethodPost, "/admin/withdraw-fine", &owner, nil, nil))

	var withdrawn admin.Withdrawn
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodPost, "/admin/withdraw-token", &owner,
		admin.WithdrawToken{Token: "RWD", Amount: hex(5)}, &withdrawn))
	assert.Equal(t, big.NewInt(5), num(withdrawn.Amount))
	assert.Equal(t, http.StatusBadRequest, ts.call(t, http.MethodPost, "/admin/withdraw-token", &owner,
		admin.WithdrawToken{Token: "NOPE", Amount: hex(5)}, nil))

	var bal tokens.Balance
	ts.call(t, http.MethodGet, "/tokens/"+builtin.Token("RWD").Address.String()+"/balances/"+owner.String(), nil, nil, &bal)
	assert.Equal(t, big.NewInt(5), num(bal.Balance))

	var allowance tokens.Allowance
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodGet,
		"/tokens/STK/allowances/"+alice.String()+"/"+spender.String(), nil, nil, &allowance))
	assert.Equal(t, big.NewInt(10), num(allowance.Allowance))
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var status health.Status
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/health", nil, nil, &status))
	assert.True(t, status.Healthy)
	assert.Nil(t, status.Commit.Timestamp)

	ts.clock.Set(1001)
	spender := builtin.Staker.Address
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodPost, "/tokens/STK/approve", &alice,
		tokens.ApproveRequest{Spender: &spender, Amount: hex(10)}, nil))

	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/health", nil, nil, &status))
	assert.NotNil(t, status.Commit.Timestamp)

	ts.health.ClockOffset(time.Minute)
	assert.Equal(t, http.StatusServiceUnavailable, ts.call(t, http.MethodGet, "/health", nil, nil, nil))
}

func TestGenesisIDHeader(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/pool")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, ts.pool.GenesisID().String(), resp.Header.Get(genesisIDHeader))
}
