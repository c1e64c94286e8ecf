// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/thor"
)

type Balance struct {
	Token   thor.Address          `json:"token"`
	Address thor.Address          `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Allowance struct {
	Token     thor.Address          `json:"token"`
	Owner     thor.Address          `json:"owner"`
	Spender   thor.Address          `json:"spender"`
	Allowance *math.HexOrDecimal256 `json:"allowance"`
}

type ApproveRequest struct {
	Spender *thor.Address         `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}
