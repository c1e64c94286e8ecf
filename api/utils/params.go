// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/thor"
)

var logger = log.WithContext("pkg", "api")

// CallerHeader carries the address of the account issuing a request.
// It is set by the gateway in front of the API once the account is authenticated.
const CallerHeader = "x-caller"

// Caller returns the address in the caller header.
func Caller(r *http.Request) (thor.Address, error) {
	value := r.Header.Get(CallerHeader)
	if value == "" {
		return thor.Address{}, HTTPError(errors.New("caller: header "+CallerHeader+" required"), http.StatusUnauthorized)
	}
	addr, err := thor.ParseAddress(value)
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, "caller"))
	}
	return addr, nil
}

// AddressVar parses the address path variable name.
func AddressVar(r *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(r)[name])
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// Amount validates a token amount read from a request body.
func Amount(v *math.HexOrDecimal256, name string) (*big.Int, error) {
	if v == nil {
		return nil, BadRequest(errors.New(name + ": required"))
	}
	amount := (*big.Int)(v)
	if amount.Sign() < 0 {
		return nil, BadRequest(errors.New(name + ": must not be negative"))
	}
	return new(big.Int).Set(amount), nil
}

// Uint256 converts v for a response. A nil value is zero.
func Uint256(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return (*math.HexOrDecimal256)(new(big.Int))
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}
