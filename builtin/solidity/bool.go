// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/stakepool/thor"
)

// Bool is a wrapper for storage and retrieval of a flag.
type Bool struct {
	raw *Raw[bool]
}

func NewBool(context *Context, pos thor.Bytes32) *Bool {
	return &Bool{raw: NewRaw[bool](context, pos)}
}

func (b *Bool) Get() (bool, error) {
	return b.raw.Get()
}

func (b *Bool) Set(v bool) error {
	if !v {
		b.raw.Delete()
		return nil
	}
	return b.raw.Upsert(v)
}
