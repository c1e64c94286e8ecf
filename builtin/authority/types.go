// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"github.com/vechain/stakepool/thor"
)

// entry is a role member, linked with the other members of the same role.
type entry struct {
	Listed bool
	Prev   *thor.Address `rlp:"nil"`
	Next   *thor.Address `rlp:"nil"`
}

// IsEmpty returns whether the entry can be treated as empty.
func (e *entry) IsEmpty() bool {
	return !e.Listed &&
		e.Prev == nil &&
		e.Next == nil
}
