// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"github.com/ethereum/go-ethereum/common/math"
)

// Availability lists which pool operations are open. Omitted flags are left unchanged.
type Availability struct {
	Stake   *bool `json:"stake"`
	Unstake *bool `json:"unstake"`
	Claim   *bool `json:"claim"`
}

type FineParams struct {
	// Percent is fixed point, 1e20 means 100%.
	Percent  *math.HexOrDecimal256 `json:"percent"`
	Cooldown *uint64               `json:"cooldown"`
}

type WithdrawToken struct {
	Token  string                `json:"token"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Withdrawn struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}
