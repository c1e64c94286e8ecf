// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakepool/thor"
)

// Raw stores a single rlp encoded value at a fixed slot.
// Reading an absent slot yields the zero value of T.
type Raw[T any] struct {
	context *Context
	pos     thor.Bytes32
}

func NewRaw[T any](context *Context, pos thor.Bytes32) *Raw[T] {
	return &Raw[T]{context: context, pos: pos}
}

func (r *Raw[T]) Get() (value T, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (r *Raw[T]) Upsert(value T) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the slot.
func (r *Raw[T]) Delete() {
	r.context.state.SetRawStorage(r.context.address, r.pos, nil)
}
