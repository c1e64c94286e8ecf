// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"math/big"
	mathrand "math/rand/v2"
)

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandBigIntN returns a random big.Int in [1, n].
func RandBigIntN(n int64) *big.Int {
	return big.NewInt(mathrand.Int64N(n) + 1) //#nosec G404
}
