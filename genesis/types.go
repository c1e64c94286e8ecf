// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/thor"
)

// Genesis is the initial setup of a pool: parameters, token balances and administrators.
type Genesis struct {
	Pool   Pool           `yaml:"pool" json:"pool"`
	Tokens []Token        `yaml:"tokens" json:"tokens"`
	Admins []thor.Address `yaml:"admins" json:"admins"`
}

// Pool holds the staking parameters.
type Pool struct {
	StakeToken         string           `yaml:"stakeToken" json:"stakeToken"`
	RewardToken        string           `yaml:"rewardToken" json:"rewardToken"`
	StartingRewardRate *HexOrDecimal256 `yaml:"startingRewardRate" json:"startingRewardRate"`
	EpochDuration      uint64           `yaml:"epochDuration" json:"epochDuration"`
	HalvingDuration    uint64           `yaml:"halvingDuration" json:"halvingDuration"`
	StartTime          uint64           `yaml:"startTime" json:"startTime"`
	// ProduceTime is the emission start, StartTime when omitted.
	ProduceTime *uint64 `yaml:"produceTime,omitempty" json:"produceTime,omitempty"`
	// FinePercent is fixed point, 1e20 means 100%.
	FinePercent  *HexOrDecimal256 `yaml:"finePercent" json:"finePercent"`
	FineCooldown uint64           `yaml:"fineCooldown" json:"fineCooldown"`
	// AdminRole names the role allowed to administer the pool, "pool-admin" when omitted.
	AdminRole string `yaml:"adminRole,omitempty" json:"adminRole,omitempty"`
	// Availability defaults to every operation enabled.
	Availability *Availability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

type Availability struct {
	Stake   bool `yaml:"stake" json:"stake"`
	Unstake bool `yaml:"unstake" json:"unstake"`
	Claim   bool `yaml:"claim" json:"claim"`
}

// Token declares a token and its initial balances.
type Token struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	// PoolBalance is minted to the pool, typically the reward budget.
	PoolBalance *HexOrDecimal256 `yaml:"poolBalance,omitempty" json:"poolBalance,omitempty"`
	Allocations []Allocation     `yaml:"allocations,omitempty" json:"allocations,omitempty"`
}

type Allocation struct {
	Address thor.Address     `yaml:"address" json:"address"`
	Amount  *HexOrDecimal256 `yaml:"amount" json:"amount"`
}

// HexOrDecimal256 is a 256 bits unsigned integer written either in decimal or in 0x prefixed hex.
type HexOrDecimal256 math.HexOrDecimal256

// NewHexOrDecimal256 copies v.
func NewHexOrDecimal256(v *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(v))
}

// Int returns a copy as big.Int. A nil value is zero.
func (i *HexOrDecimal256) Int() *big.Int {
	if i == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(i))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *HexOrDecimal256) UnmarshalText(text []byte) error {
	v, ok := math.ParseBig256(string(text))
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", text)
	}
	*i = HexOrDecimal256(*v)
	return nil
}

// MarshalText implements encoding.TextMarshaler, always in decimal.
func (i *HexOrDecimal256) MarshalText() ([]byte, error) {
	return []byte(i.Int().String()), nil
}

// UnmarshalYAML keeps the literal text of large integers that yaml would otherwise resolve to floats.
func (i *HexOrDecimal256) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected an integer", node.Line)
	}
	return i.UnmarshalText([]byte(node.Value))
}
