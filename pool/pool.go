// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool runs the staking pool as a service. Operations are serialized,
// stamped with the clock and committed to the store only when they succeed.
package pool

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/co"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/health"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

var logger = log.WithContext("pkg", "pool")

var (
	metaBucket = kv.Bucket("m")
	genesisKey = []byte("genesis-id")
)

var (
	// ErrGenesisMismatch is returned when the store was initialised from another genesis.
	ErrGenesisMismatch = errors.New("genesis mismatch")
	// ErrNotInitialised is returned when opening an empty store without genesis.
	ErrNotInitialised = errors.New("pool not initialised")
)

// Options tunes the pool.
type Options struct {
	// CacheSize is the number of storage entries kept in the read cache.
	CacheSize int
	// Health, when set, is told about every commit.
	Health *health.Health
}

// Pool serializes access to the staking pool state.
type Pool struct {
	mu        sync.Mutex
	meta      kv.Store
	state     *state.State
	staker    *staker.Staker
	clock     Clock
	genesisID thor.Bytes32
	changed   co.Notifier
	health    *health.Health
}

// Open loads the pool from db, applying gen first if db is empty.
// gen may be nil to open an already initialised store.
func Open(db kv.Store, gen *genesis.Genesis, clock Clock, opts Options) (*Pool, error) {
	p := &Pool{
		meta:   metaBucket.NewStore(db),
		state:  state.New(db, opts.CacheSize),
		clock:  clock,
		health: opts.Health,
	}
	p.staker = builtin.Staker.Native(p.state)

	initialised, err := p.staker.IsInitialised()
	if err != nil {
		return nil, err
	}

	stored, err := p.meta.Get(genesisKey)
	if err != nil && !p.meta.IsNotFound(err) {
		return nil, errors.Wrap(err, "read genesis id")
	}

	switch {
	case gen == nil && !initialised:
		return nil, ErrNotInitialised
	case gen == nil:
		p.genesisID = thor.BytesToBytes32(stored)
		return p, nil
	}

	id := gen.ID()
	if initialised && len(stored) > 0 && thor.BytesToBytes32(stored) != id {
		return nil, errors.Wrapf(ErrGenesisMismatch, "stored %v, given %v", thor.BytesToBytes32(stored), id)
	}
	if !initialised {
		if err := gen.Apply(p.state); err != nil {
			p.state.Reset()
			return nil, errors.Wrap(err, "apply genesis")
		}
		if err := p.state.Commit(); err != nil {
			return nil, errors.Wrap(err, "commit genesis")
		}
		logger.Info("genesis applied", "id", id)
	}
	if err := p.meta.Put(genesisKey, id.Bytes()); err != nil {
		return nil, errors.Wrap(err, "write genesis id")
	}
	p.genesisID = id
	return p, nil
}

// GenesisID returns the id of the genesis the pool was created from.
func (p *Pool) GenesisID() thor.Bytes32 {
	return p.genesisID
}

// Now returns the current pool time.
func (p *Pool) Now() uint64 {
	return p.clock.Now()
}

// Changed returns a channel closed by the next committed operation.
func (p *Pool) Changed() <-chan struct{} {
	return p.changed.C()
}

// exec runs a mutating operation and commits it, or discards every change it made.
func (p *Pool) exec(op string, fn func(now uint64) error) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	now := p.clock.Now()
	defer func() {
		metricOperationCount().AddWithLabel(1, map[string]string{"op": op, "status": operationStatus(err)})
		metricOperationDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
	}()

	if err = fn(now); err != nil {
		p.state.Reset()
		return err
	}
	if err = p.state.Commit(); err != nil {
		p.state.Reset()
		logger.Error("failed to commit", "op", op, "err", err)
		if p.health != nil {
			p.health.CommitFailed(err)
		}
		return errors.Wrap(err, "commit")
	}
	if p.health != nil {
		p.health.NewCommit()
	}
	p.changed.Notify()
	return nil
}

// view runs a read only operation.
func (p *Pool) view(fn func(now uint64) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(p.clock.Now())
}

//
// queries
//

// PoolInfo returns the pool snapshot projected to the current time.
func (p *Pool) PoolInfo() (info *staker.PoolInfo, err error) {
	err = p.view(func(now uint64) error {
		info, err = p.staker.PoolInfo(now)
		return err
	})
	return
}

// StakerInfo returns the snapshot of addr projected to the current time.
func (p *Pool) StakerInfo(addr thor.Address) (info *staker.StakerInfo, err error) {
	err = p.view(func(now uint64) error {
		info, err = p.staker.StakerInfo(addr, now)
		return err
	})
	return
}

// Reward returns what addr could claim now.
func (p *Pool) Reward(addr thor.Address) (reward *big.Int, err error) {
	err = p.view(func(now uint64) error {
		reward, err = p.staker.Reward(addr, now)
		return err
	})
	return
}

//
// staking operations
//

func (p *Pool) Stake(caller thor.Address, amount *big.Int) error {
	return p.exec("stake", func(now uint64) error {
		return p.staker.Stake(caller, amount, now)
	})
}

func (p *Pool) Unstake(caller thor.Address, amount *big.Int) (payout, fine *big.Int, err error) {
	err = p.exec("unstake", func(now uint64) error {
		payout, fine, err = p.staker.Unstake(caller, amount, now)
		return err
	})
	return
}

func (p *Pool) RequestFeeFreeUnstake(caller thor.Address, amount *big.Int) error {
	return p.exec("request_unstake", func(now uint64) error {
		return p.staker.RequestFeeFreeUnstake(caller, amount, now)
	})
}

func (p *Pool) Claim(caller thor.Address) (reward *big.Int, err error) {
	err = p.exec("claim", func(now uint64) error {
		reward, err = p.staker.Claim(caller, now)
		return err
	})
	return
}

// Refresh brings the accumulator up to date and returns the reward per share.
func (p *Pool) Refresh() (rps *big.Int, err error) {
	err = p.exec("refresh", func(now uint64) error {
		rps, err = p.staker.RefreshAccumulator(now)
		return err
	})
	return
}

//
// administration
//

func (p *Pool) SetAvailability(caller thor.Address, availability staker.Availability) error {
	return p.exec("set_availability", func(uint64) error {
		return p.staker.SetAvailability(caller, availability)
	})
}

func (p *Pool) SetFineParams(caller thor.Address, percent *big.Int, cooldown uint64) error {
	return p.exec("set_fine", func(uint64) error {
		return p.staker.SetFineParams(caller, percent, cooldown)
	})
}

func (p *Pool) WithdrawFine(caller thor.Address) (amount *big.Int, err error) {
	err = p.exec("withdraw_fine", func(uint64) error {
		amount, err = p.staker.WithdrawFine(caller)
		return err
	})
	return
}

func (p *Pool) WithdrawToken(caller, tokenAddr thor.Address, amount *big.Int) error {
	return p.exec("withdraw_token", func(uint64) error {
		return p.staker.WithdrawToken(caller, tokenAddr, amount)
	})
}

//
// tokens
//

// TokenAddress resolves a token by address or by symbol.
func TokenAddress(ref string) thor.Address {
	if addr, err := thor.ParseAddress(ref); err == nil {
		return addr
	}
	return builtin.Token(ref).Address
}

func (p *Pool) token(addr thor.Address) (*token.Token, error) {
	t := builtin.TokenAt(addr).Native(p.state)
	exists, err := t.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, reverts.ErrUnknownToken
	}
	return t, nil
}

// Balance returns the balance of holder in the token at tokenAddr.
func (p *Pool) Balance(tokenAddr, holder thor.Address) (bal *big.Int, err error) {
	err = p.view(func(uint64) error {
		t, err := p.token(tokenAddr)
		if err != nil {
			return err
		}
		bal, err = t.BalanceOf(holder)
		return err
	})
	return
}

// Allowance returns what spender may move out of owner's balance.
func (p *Pool) Allowance(tokenAddr, owner, spender thor.Address) (allowance *big.Int, err error) {
	err = p.view(func(uint64) error {
		t, err := p.token(tokenAddr)
		if err != nil {
			return err
		}
		allowance, err = t.Allowance(owner, spender)
		return err
	})
	return
}

// Approve lets spender move up to amount out of owner's balance.
func (p *Pool) Approve(tokenAddr, owner, spender thor.Address, amount *big.Int) error {
	return p.exec("approve", func(uint64) error {
		if amount == nil || amount.Sign() < 0 {
			return token.ErrNegativeAmount
		}
		t, err := p.token(tokenAddr)
		if err != nil {
			return err
		}
		return t.Approve(owner, spender, amount)
	})
}
