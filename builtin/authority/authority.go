// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package authority keeps the role registry, each role holding an ordered list of members.
package authority

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

func headKey(role thor.Bytes32) thor.Bytes32 {
	return thor.Blake2b([]byte("head"), role.Bytes())
}

func tailKey(role thor.Bytes32) thor.Bytes32 {
	return thor.Blake2b([]byte("tail"), role.Bytes())
}

func entryKey(role thor.Bytes32, member thor.Address) thor.Bytes32 {
	return thor.Blake2b(role.Bytes(), member.Bytes())
}

// Authority implements the `Authority` contract.
type Authority struct {
	addr  thor.Address
	state *state.State
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Authority {
	return &Authority{addr, state}
}

func (a *Authority) getEntry(role thor.Bytes32, member thor.Address) (*entry, error) {
	var entry entry
	if err := a.state.DecodeStorage(a.addr, entryKey(role, member), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &entry)
	}); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (a *Authority) setEntry(role thor.Bytes32, member thor.Address, entry *entry) error {
	return a.state.EncodeStorage(a.addr, entryKey(role, member), func() ([]byte, error) {
		if entry.IsEmpty() {
			return nil, nil
		}
		return rlp.EncodeToBytes(entry)
	})
}

func (a *Authority) getAddressPtr(key thor.Bytes32) (addr *thor.Address, err error) {
	err = a.state.DecodeStorage(a.addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &addr)
	})
	return
}

func (a *Authority) setAddressPtr(key thor.Bytes32, addr *thor.Address) error {
	return a.state.EncodeStorage(a.addr, key, func() ([]byte, error) {
		if addr == nil {
			return nil, nil
		}
		return rlp.EncodeToBytes(addr)
	})
}

// HasRole returns whether member holds role.
func (a *Authority) HasRole(member thor.Address, role thor.Bytes32) (bool, error) {
	entry, err := a.getEntry(role, member)
	if err != nil {
		return false, err
	}
	return entry.Listed, nil
}

// Grant appends member to role. It returns false if member already holds the role.
func (a *Authority) Grant(role thor.Bytes32, member thor.Address) (bool, error) {
	entry, err := a.getEntry(role, member)
	if err != nil {
		return false, err
	}
	if entry.Listed {
		return false, nil
	}
	entry.Listed = true

	tailPtr, err := a.getAddressPtr(tailKey(role))
	if err != nil {
		return false, err
	}
	entry.Prev = tailPtr

	if err := a.setAddressPtr(tailKey(role), &member); err != nil {
		return false, err
	}
	if tailPtr == nil {
		if err := a.setAddressPtr(headKey(role), &member); err != nil {
			return false, err
		}
	} else {
		tailEntry, err := a.getEntry(role, *tailPtr)
		if err != nil {
			return false, err
		}
		tailEntry.Next = &member
		if err := a.setEntry(role, *tailPtr, tailEntry); err != nil {
			return false, err
		}
	}

	if err := a.setEntry(role, member, entry); err != nil {
		return false, err
	}
	return true, nil
}

// Revoke removes member from role. It returns false if member does not hold the role.
func (a *Authority) Revoke(role thor.Bytes32, member thor.Address) (bool, error) {
	entry, err := a.getEntry(role, member)
	if err != nil {
		return false, err
	}
	if !entry.Listed {
		return false, nil
	}

	if entry.Prev == nil {
		if err := a.setAddressPtr(headKey(role), entry.Next); err != nil {
			return false, err
		}
	} else {
		prevEntry, err := a.getEntry(role, *entry.Prev)
		if err != nil {
			return false, err
		}
		prevEntry.Next = entry.Next
		if err := a.setEntry(role, *entry.Prev, prevEntry); err != nil {
			return false, err
		}
	}

	if entry.Next == nil {
		if err := a.setAddressPtr(tailKey(role), entry.Prev); err != nil {
			return false, err
		}
	} else {
		nextEntry, err := a.getEntry(role, *entry.Next)
		if err != nil {
			return false, err
		}
		nextEntry.Prev = entry.Prev
		if err := a.setEntry(role, *entry.Next, nextEntry); err != nil {
			return false, err
		}
	}

	entry.Listed = false
	entry.Prev = nil // unlist
	entry.Next = nil
	if err := a.setEntry(role, member, entry); err != nil {
		return false, err
	}
	return true, nil
}

// Members lists the holders of role in grant order.
func (a *Authority) Members(role thor.Bytes32) ([]thor.Address, error) {
	ptr, err := a.getAddressPtr(headKey(role))
	if err != nil {
		return nil, err
	}
	var members []thor.Address
	for ptr != nil {
		entry, err := a.getEntry(role, *ptr)
		if err != nil {
			return nil, err
		}
		members = append(members, *ptr)
		ptr = entry.Next
	}
	return members, nil
}
