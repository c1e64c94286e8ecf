// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math/big"

// Constants of the staking pool.
const (
	// MaxHalvings caps the number of halving periods the schedule walks through.
	// Beyond it the emission is treated as fully decayed.
	MaxHalvings uint64 = 100
)

var (
	// Precision is the fixed point scale of reward-per-share and fine percent (1e20).
	Precision = new(big.Int).Exp(big.NewInt(10), big.NewInt(20), nil)

	// HundredPercent is the largest accepted fine percent.
	HundredPercent = new(big.Int).Set(Precision)
)

// Keys of the pool roles.
var (
	KeyAdminRole = BytesToBytes32([]byte("pool-admin"))
)
