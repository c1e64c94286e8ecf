// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis loads the initial pool setup and applies it to a fresh state.
package genesis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/builtin/staker/schedule"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

// ErrAlreadyApplied is returned by Apply on a state holding an initialised pool.
var ErrAlreadyApplied = errors.New("genesis already applied")

// Load reads and validates the genesis file at path.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	gen, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "genesis %s", path)
	}
	return gen, nil
}

// Parse decodes a yaml genesis. Unknown fields are rejected.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// ID identifies the genesis content, independently of its formatting.
func (g *Genesis) ID() thor.Bytes32 {
	data, err := json.Marshal(g)
	if err != nil {
		// all fields marshal to text
		panic(err)
	}
	return thor.Blake2b(data)
}

// Validate checks the genesis is consistent.
func (g *Genesis) Validate() error {
	symbols := make(map[string]bool, len(g.Tokens))
	for _, tk := range g.Tokens {
		if tk.Symbol == "" {
			return errors.New("token symbol must be set")
		}
		if symbols[tk.Symbol] {
			return fmt.Errorf("token %s: declared twice", tk.Symbol)
		}
		symbols[tk.Symbol] = true

		if tk.PoolBalance != nil && tk.PoolBalance.Int().Sign() == 0 {
			return fmt.Errorf("token %s: pool balance must be a non-zero integer", tk.Symbol)
		}
		for _, alloc := range tk.Allocations {
			if alloc.Address.IsZero() {
				return fmt.Errorf("token %s: allocation address must be set", tk.Symbol)
			}
			if alloc.Amount == nil || alloc.Amount.Int().Sign() == 0 {
				return fmt.Errorf("token %s: %s: amount must be a non-zero integer", tk.Symbol, alloc.Address)
			}
		}
	}

	p := &g.Pool
	if !symbols[p.StakeToken] {
		return fmt.Errorf("stake token %q is not declared", p.StakeToken)
	}
	if !symbols[p.RewardToken] {
		return fmt.Errorf("reward token %q is not declared", p.RewardToken)
	}
	if p.StartingRewardRate == nil {
		return errors.New("startingRewardRate must be set")
	}
	if err := g.schedule().Validate(); err != nil {
		return err
	}
	if p.FinePercent == nil {
		return errors.New("finePercent must be set")
	}
	if p.FinePercent.Int().Cmp(thor.HundredPercent) > 0 {
		return fmt.Errorf("finePercent %v exceeds %v", p.FinePercent.Int(), thor.HundredPercent)
	}
	for _, admin := range g.Admins {
		if admin.IsZero() {
			return errors.New("admin address must be set")
		}
	}
	return nil
}

func (g *Genesis) schedule() schedule.Schedule {
	return schedule.Schedule{
		StartingRewardRate: g.Pool.StartingRewardRate.Int(),
		EpochDuration:      g.Pool.EpochDuration,
		HalvingDuration:    g.Pool.HalvingDuration,
	}
}

// AdminRole returns the administrative role key.
func (g *Genesis) AdminRole() thor.Bytes32 {
	if g.Pool.AdminRole == "" {
		return thor.KeyAdminRole
	}
	return thor.BytesToBytes32([]byte(g.Pool.AdminRole))
}

// StakerConfig converts the pool parameters into the staker setup.
func (g *Genesis) StakerConfig() *staker.Config {
	p := &g.Pool
	produceTime := p.StartTime
	if p.ProduceTime != nil {
		produceTime = *p.ProduceTime
	}
	availability := staker.Availability{Stake: true, Unstake: true, Claim: true}
	if p.Availability != nil {
		availability = staker.Availability{
			Stake:   p.Availability.Stake,
			Unstake: p.Availability.Unstake,
			Claim:   p.Availability.Claim,
		}
	}
	return &staker.Config{
		Schedule:     g.schedule(),
		StartTime:    p.StartTime,
		ProduceTime:  produceTime,
		FinePercent:  p.FinePercent.Int(),
		FineCooldown: p.FineCooldown,
		StakeToken:   builtin.Token(p.StakeToken).Address,
		RewardToken:  builtin.Token(p.RewardToken).Address,
		AdminRole:    g.AdminRole(),
		Availability: availability,
	}
}

// Apply writes the genesis into st: tokens and balances, admin roles, then the pool itself.
// Nothing is written if it fails.
func (g *Genesis) Apply(st *state.State) (err error) {
	pool := builtin.Staker.Native(st)
	initialised, err := pool.IsInitialised()
	if err != nil {
		return err
	}
	if initialised {
		return ErrAlreadyApplied
	}

	checkpoint := st.NewCheckpoint()
	defer func() {
		if err != nil {
			st.RevertTo(checkpoint)
		}
	}()

	for _, tk := range g.Tokens {
		native := builtin.Token(tk.Symbol).Native(st)
		if err := native.Init(tk.Symbol); err != nil {
			return errors.Wrapf(err, "token %s", tk.Symbol)
		}
		if tk.PoolBalance != nil {
			if err := native.Mint(pool.Address(), tk.PoolBalance.Int()); err != nil {
				return errors.Wrapf(err, "token %s: mint pool balance", tk.Symbol)
			}
		}
		for _, alloc := range tk.Allocations {
			if err := native.Mint(alloc.Address, alloc.Amount.Int()); err != nil {
				return errors.Wrapf(err, "token %s: mint %s", tk.Symbol, alloc.Address)
			}
		}
	}

	authority := builtin.Authority.Native(st)
	role := g.AdminRole()
	for _, admin := range g.Admins {
		if _, err := authority.Grant(role, admin); err != nil {
			return errors.Wrapf(err, "grant %s", admin)
		}
	}

	return errors.Wrap(pool.Init(g.StakerConfig()), "init pool")
}
