// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/builtin/staker/accumulator"
	"github.com/vechain/stakepool/builtin/staker/fine"
	"github.com/vechain/stakepool/builtin/staker/ledger"
	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Staker implements the staking pool contract.
// Each operation applies fully or not at all, the external token movement is always its last step.
type Staker struct {
	address thor.Address
	state   *state.State
	auth    Authorizer
	vault   Vault

	storage            *storage
	accumulatorService *accumulator.Service
	ledgerService      *ledger.Service
	fineService        *fine.Service

	busy bool
}

// New create a new instance.
func New(addr thor.Address, state *state.State, auth Authorizer, vault Vault) *Staker {
	sctx := solidity.NewContext(addr, state)

	return &Staker{
		address: addr,
		state:   state,
		auth:    auth,
		vault:   vault,

		storage:            newStorage(sctx),
		accumulatorService: accumulator.New(sctx),
		ledgerService:      ledger.New(sctx),
		fineService:        fine.New(sctx),
	}
}

// Address returns the pool address, which holds the custody balances.
func (s *Staker) Address() thor.Address {
	return s.address
}

//
// Setup
//

// IsInitialised returns true once Init has been applied.
func (s *Staker) IsInitialised() (bool, error) {
	return s.storage.initialised.Get()
}

// Init applies the initial pool setup. It can be applied only once.
func (s *Staker) Init(cfg *Config) error {
	initialised, err := s.IsInitialised()
	if err != nil {
		return err
	}
	if initialised {
		return errors.New("staker already initialised")
	}
	if cfg.StakeToken.IsZero() || cfg.RewardToken.IsZero() {
		return errors.New("stake and reward tokens must be set")
	}
	if cfg.FinePercent == nil {
		return reverts.ErrInvalidPercentage
	}

	return s.atomic(func() error {
		if err := s.accumulatorService.Init(cfg.Schedule, cfg.ProduceTime); err != nil {
			return err
		}
		if err := s.fineService.SetParams(cfg.FinePercent, cfg.FineCooldown); err != nil {
			return err
		}
		if err := s.storage.startTime.Upsert(cfg.StartTime); err != nil {
			return err
		}
		if err := s.storage.stakeToken.Set(&cfg.StakeToken); err != nil {
			return err
		}
		if err := s.storage.rewardToken.Set(&cfg.RewardToken); err != nil {
			return err
		}
		if err := s.storage.adminRole.Upsert(cfg.AdminRole); err != nil {
			return err
		}
		if err := s.storage.setAvailability(cfg.Availability); err != nil {
			return err
		}
		return s.storage.initialised.Set(true)
	})
}

//
// Getters - no state change
//

// PoolInfo returns the pool snapshot with the reward per share and the reward produced projected to now.
func (s *Staker) PoolInfo(now uint64) (*PoolInfo, error) {
	sched, produceTime, err := s.accumulatorService.Schedule()
	if err != nil {
		return nil, err
	}
	info := &PoolInfo{
		StartingRewardRate: sched.StartingRewardRate,
		EpochDuration:      sched.EpochDuration,
		HalvingDuration:    sched.HalvingDuration,
		ProduceTime:        produceTime,
	}
	if info.StartTime, err = s.storage.startTime.Get(); err != nil {
		return nil, err
	}
	if info.TotalStaked, err = s.ledgerService.TotalStaked(); err != nil {
		return nil, err
	}
	if info.TotalDistributed, err = s.ledgerService.TotalDistributed(); err != nil {
		return nil, err
	}
	if info.RewardPerShare, info.RewardProduced, err = s.accumulatorService.Project(now, info.TotalStaked); err != nil {
		return nil, err
	}
	if info.FinePercent, info.FineCooldownTime, err = s.fineService.Params(); err != nil {
		return nil, err
	}
	if info.AccumulatedFine, err = s.fineService.AccumulatedFine(); err != nil {
		return nil, err
	}
	if info.StakeToken, err = s.storage.stakeToken.Get(); err != nil {
		return nil, err
	}
	if info.RewardToken, err = s.storage.rewardToken.Get(); err != nil {
		return nil, err
	}
	if info.Availability, err = s.storage.getAvailability(); err != nil {
		return nil, err
	}
	return info, nil
}

// StakerInfo returns the staker snapshot with the claimable reward projected to now.
func (s *Staker) StakerInfo(addr thor.Address, now uint64) (*StakerInfo, error) {
	st, err := s.ledgerService.Get(addr)
	if err != nil {
		return nil, err
	}
	rps, err := s.previewRewardPerShare(now)
	if err != nil {
		return nil, err
	}
	return &StakerInfo{
		Amount:                 st.Amount,
		RewardDebt:             st.RewardDebt,
		RewardAllowed:          st.RewardAllowed,
		Distributed:            st.Distributed,
		NoFineUnstakeOpenSince: st.NoFineUnstakeOpenSince,
		RequestedUnstakeAmount: st.RequestedUnstakeAmount,
		Claimable:              st.Claimable(rps),
	}, nil
}

// Reward returns the reward addr could claim at now.
func (s *Staker) Reward(addr thor.Address, now uint64) (*big.Int, error) {
	st, err := s.ledgerService.Get(addr)
	if err != nil {
		return nil, err
	}
	rps, err := s.previewRewardPerShare(now)
	if err != nil {
		return nil, err
	}
	return st.Claimable(rps), nil
}

//
// Setters - state change
//

// Stake moves amount of the stake token from caller into the pool.
func (s *Staker) Stake(caller thor.Address, amount *big.Int, now uint64) error {
	logger.Debug("staking", "staker", caller, "amount", amount)

	err := s.atomic(func() error {
		if err := s.requireAvailable(func(a Availability) bool { return a.Stake }); err != nil {
			return err
		}
		if err := requirePositive(amount); err != nil {
			return err
		}
		startTime, err := s.storage.startTime.Get()
		if err != nil {
			return err
		}
		if now <= startTime {
			return reverts.ErrNotYetStarted
		}

		rps, err := s.updateAccumulator(now)
		if err != nil {
			return err
		}
		st, err := s.ledgerService.Get(caller)
		if err != nil {
			return err
		}
		if err := s.ledgerService.Stake(caller, st, amount, rps); err != nil {
			return err
		}

		custody, err := s.tokenCustody(s.storage.stakeToken)
		if err != nil {
			return err
		}
		return errors.Wrap(custody.TransferFrom(caller, s.address, amount), "stake transfer")
	})
	if err != nil {
		logger.Info("stake failed", "staker", caller, "error", err)
		return err
	}

	logger.Info("staked", "staker", caller, "amount", amount)
	return nil
}

// Unstake returns amount of stake to caller, less the fine unless an honored request covers it.
func (s *Staker) Unstake(caller thor.Address, amount *big.Int, now uint64) (payout *big.Int, fined *big.Int, err error) {
	logger.Debug("unstaking", "staker", caller, "amount", amount)

	err = s.atomic(func() error {
		if err := s.requireAvailable(func(a Availability) bool { return a.Unstake }); err != nil {
			return err
		}
		if err := requirePositive(amount); err != nil {
			return err
		}

		rps, err := s.updateAccumulator(now)
		if err != nil {
			return err
		}
		st, err := s.ledgerService.Get(caller)
		if err != nil {
			return err
		}
		if st.Amount.Cmp(amount) < 0 {
			return reverts.ErrInsufficientStakedBalance
		}
		if payout, fined, err = s.fineService.Assess(st, amount, now); err != nil {
			return err
		}
		if err := s.ledgerService.Unstake(caller, st, amount, rps); err != nil {
			return err
		}

		if payout.Sign() == 0 {
			return nil
		}
		custody, err := s.tokenCustody(s.storage.stakeToken)
		if err != nil {
			return err
		}
		return errors.Wrap(custody.Transfer(caller, payout), "unstake transfer")
	})
	if err != nil {
		logger.Info("unstake failed", "staker", caller, "error", err)
		return nil, nil, err
	}

	logger.Info("unstaked", "staker", caller, "payout", payout, "fine", fined)
	return payout, fined, nil
}

// RequestFeeFreeUnstake places or raises the fee free unstake request of caller, restarting its cooldown.
func (s *Staker) RequestFeeFreeUnstake(caller thor.Address, amount *big.Int, now uint64) error {
	logger.Debug("requesting fee free unstake", "staker", caller, "amount", amount)

	err := s.atomic(func() error {
		if err := s.requireAvailable(func(a Availability) bool { return a.Unstake }); err != nil {
			return err
		}
		if err := requirePositive(amount); err != nil {
			return err
		}
		st, err := s.ledgerService.Get(caller)
		if err != nil {
			return err
		}
		if err := s.fineService.Request(st, amount, now); err != nil {
			return err
		}
		return s.ledgerService.Save(caller, st)
	})
	if err != nil {
		logger.Info("request fee free unstake failed", "staker", caller, "error", err)
		return err
	}

	logger.Info("requested fee free unstake", "staker", caller, "amount", amount)
	return nil
}

// Claim pays the claimable reward to caller.
func (s *Staker) Claim(caller thor.Address, now uint64) (reward *big.Int, err error) {
	logger.Debug("claiming", "staker", caller)

	err = s.atomic(func() error {
		if err := s.requireAvailable(func(a Availability) bool { return a.Claim }); err != nil {
			return err
		}
		rps, err := s.updateAccumulator(now)
		if err != nil {
			return err
		}
		st, err := s.ledgerService.Get(caller)
		if err != nil {
			return err
		}
		if reward, err = s.ledgerService.Claim(caller, st, rps); err != nil {
			return err
		}

		custody, err := s.tokenCustody(s.storage.rewardToken)
		if err != nil {
			return err
		}
		return errors.Wrap(custody.Transfer(caller, reward), "claim transfer")
	})
	if err != nil {
		logger.Info("claim failed", "staker", caller, "error", err)
		return nil, err
	}

	logger.Info("claimed", "staker", caller, "reward", reward)
	return reward, nil
}

// RefreshAccumulator folds the emission produced up to now into the reward per share.
func (s *Staker) RefreshAccumulator(now uint64) (*big.Int, error) {
	var rps *big.Int
	err := s.atomic(func() (err error) {
		rps, err = s.updateAccumulator(now)
		return
	})
	if err != nil {
		logger.Info("refresh accumulator failed", "error", err)
		return nil, err
	}
	return rps, nil
}

//
// Administration
//

// SetAvailability sets the three operation gates.
func (s *Staker) SetAvailability(caller thor.Address, availability Availability) error {
	logger.Debug("setting availability", "caller", caller, "stake", availability.Stake, "unstake", availability.Unstake, "claim", availability.Claim)

	err := s.atomic(func() error {
		if err := s.authorize(caller); err != nil {
			return err
		}
		return s.storage.setAvailability(availability)
	})
	if err != nil {
		logger.Info("set availability failed", "caller", caller, "error", err)
		return err
	}

	logger.Info("set availability", "stake", availability.Stake, "unstake", availability.Unstake, "claim", availability.Claim)
	return nil
}

// SetFineParams sets the fine percent, in Precision units, and the request cooldown in seconds.
func (s *Staker) SetFineParams(caller thor.Address, percent *big.Int, cooldown uint64) error {
	logger.Debug("setting fine params", "caller", caller, "percent", percent, "cooldown", cooldown)

	err := s.atomic(func() error {
		if err := s.authorize(caller); err != nil {
			return err
		}
		if percent == nil {
			return reverts.ErrInvalidPercentage
		}
		return s.fineService.SetParams(percent, cooldown)
	})
	if err != nil {
		logger.Info("set fine params failed", "caller", caller, "error", err)
		return err
	}

	logger.Info("set fine params", "percent", percent, "cooldown", cooldown)
	return nil
}

// WithdrawFine pays all accumulated fines, in the stake token, to caller.
func (s *Staker) WithdrawFine(caller thor.Address) (amount *big.Int, err error) {
	logger.Debug("withdrawing fine", "caller", caller)

	err = s.atomic(func() error {
		if err := s.authorize(caller); err != nil {
			return err
		}
		withdrawn, err := s.fineService.Withdraw()
		if err != nil {
			return err
		}
		amount = withdrawn
		custody, err := s.tokenCustody(s.storage.stakeToken)
		if err != nil {
			return err
		}
		return errors.Wrap(custody.Transfer(caller, amount), "fine transfer")
	})
	if err != nil {
		logger.Info("withdraw fine failed", "caller", caller, "error", err)
		return nil, err
	}

	logger.Info("withdrew fine", "caller", caller, "amount", amount)
	return amount, nil
}

// WithdrawToken moves amount of any token held by the pool to caller.
// It bypasses the pool accounting, use with care.
func (s *Staker) WithdrawToken(caller thor.Address, token thor.Address, amount *big.Int) error {
	logger.Debug("withdrawing token", "caller", caller, "token", token, "amount", amount)

	err := s.atomic(func() error {
		if err := s.authorize(caller); err != nil {
			return err
		}
		if err := requirePositive(amount); err != nil {
			return err
		}
		custody, err := s.vault.Custody(token)
		if err != nil {
			return err
		}
		return errors.Wrap(custody.Transfer(caller, amount), "token transfer")
	})
	if err != nil {
		logger.Info("withdraw token failed", "caller", caller, "token", token, "error", err)
		return err
	}

	logger.Warn("withdrew token", "caller", caller, "token", token, "amount", amount)
	return nil
}

//
// internal
//

// atomic runs fn under the reentrancy guard, reverting all state changes if it fails.
func (s *Staker) atomic(fn func() error) error {
	if s.busy {
		return reverts.ErrReentrantCall
	}
	s.busy = true
	defer func() { s.busy = false }()

	checkpoint := s.state.NewCheckpoint()
	if err := fn(); err != nil {
		s.state.RevertTo(checkpoint)
		return err
	}
	return nil
}

func (s *Staker) authorize(caller thor.Address) error {
	role, err := s.storage.adminRole.Get()
	if err != nil {
		return err
	}
	ok, err := s.auth.HasRole(caller, role)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrUnauthorized
	}
	return nil
}

func (s *Staker) requireAvailable(gate func(Availability) bool) error {
	availability, err := s.storage.getAvailability()
	if err != nil {
		return err
	}
	if !gate(availability) {
		return reverts.ErrOperationUnavailable
	}
	return nil
}

func requirePositive(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrZeroAmount
	}
	return nil
}

func (s *Staker) updateAccumulator(now uint64) (*big.Int, error) {
	total, err := s.ledgerService.TotalStaked()
	if err != nil {
		return nil, err
	}
	return s.accumulatorService.Update(now, total)
}

func (s *Staker) previewRewardPerShare(now uint64) (*big.Int, error) {
	total, err := s.ledgerService.TotalStaked()
	if err != nil {
		return nil, err
	}
	return s.accumulatorService.Preview(now, total)
}

func (s *Staker) tokenCustody(slot *solidity.Address) (Custody, error) {
	token, err := slot.Get()
	if err != nil {
		return nil, err
	}
	return s.vault.Custody(token)
}
