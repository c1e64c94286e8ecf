// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/stakepool/thor"
)

// DevAccount is a well known account for local development.
type DevAccount struct {
	Address    thor.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts = sync.OnceValue(func() []DevAccount {
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	accs := make([]DevAccount, 0, len(privKeys))
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{thor.Address(crypto.PubkeyToAddress(pk.PublicKey)), pk})
	}
	return accs
})

// DevAccounts returns the pre-funded accounts of the dev pool. The first one administers the pool.
func DevAccounts() []DevAccount {
	return devAccounts()
}

// Devnet returns a pool genesis for local development starting at launchTime.
// Each dev account holds 1M STK, the pool holds 1B RWD and emits 1 RWD per second.
func Devnet(launchTime uint64) *Genesis {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	tokens := func(n int64) *HexOrDecimal256 {
		return NewHexOrDecimal256(new(big.Int).Mul(big.NewInt(n), unit))
	}

	accs := DevAccounts()
	allocs := make([]Allocation, 0, len(accs))
	for _, acc := range accs {
		allocs = append(allocs, Allocation{Address: acc.Address, Amount: tokens(1_000_000)})
	}

	return &Genesis{
		Pool: Pool{
			StakeToken:         "STK",
			RewardToken:        "RWD",
			StartingRewardRate: tokens(10),
			EpochDuration:      10,
			HalvingDuration:    30 * 24 * 3600,
			StartTime:          launchTime,
			FinePercent:        NewHexOrDecimal256(new(big.Int).Div(thor.HundredPercent, big.NewInt(10))),
			FineCooldown:       3600,
		},
		Tokens: []Token{
			{Symbol: "STK", Allocations: allocs},
			{Symbol: "RWD", PoolBalance: tokens(1_000_000_000)},
		},
		Admins: []thor.Address{accs[0].Address},
	}
}
