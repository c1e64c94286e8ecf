// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/thor"
)

var errUnderflow = errors.New("uint256 underflow")

// Uint256 is a wrapper for storage and retrieval of an unsigned integer, similar to storing an uint256 in a smart contract.
// Values are rlp encoded, absent slot reads as zero.
type Uint256 struct {
	raw *Raw[*big.Int]
}

func NewUint256(context *Context, slot thor.Bytes32) *Uint256 {
	return &Uint256{raw: NewRaw[*big.Int](context, slot)}
}

func (u *Uint256) Get() (*big.Int, error) {
	v, err := u.raw.Get()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return errUnderflow
	}
	if value.Sign() == 0 {
		u.raw.Delete()
		return nil
	}
	return u.raw.Upsert(value)
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Add(storage, value))
}

// Sub subtracts value, and errors if the result would be negative.
func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if storage.Cmp(value) < 0 {
		return errors.Wrapf(errUnderflow, "%v - %v", storage, value)
	}
	return u.Set(storage.Sub(storage, value))
}
