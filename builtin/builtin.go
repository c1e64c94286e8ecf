// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/stakepool/builtin/authority"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

// Builtin contracts binding.
var (
	Authority = &authorityContract{newContract("Authority")}
	Staker    = &stakerContract{newContract("Staker")}
)

type contract struct {
	Name    string
	Address thor.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		thor.BytesToAddress([]byte(name)),
	}
}

type (
	authorityContract struct{ *contract }
	stakerContract    struct{ *contract }
	tokenContract     struct{ *contract }
)

func (a *authorityContract) Native(state *state.State) *authority.Authority {
	return authority.New(a.Address, state)
}

// Native binds the staker to state, with the authority contract answering role checks
// and the token contracts holding the pool balances.
func (s *stakerContract) Native(state *state.State) *staker.Staker {
	return staker.New(
		s.Address,
		state,
		Authority.Native(state),
		&vault{state: state, pool: s.Address},
	)
}

// Token returns the binding of the token contract with given symbol.
func Token(symbol string) *tokenContract {
	return &tokenContract{newContract("token:" + symbol)}
}

// TokenAt returns the binding of the token contract at addr.
func TokenAt(addr thor.Address) *tokenContract {
	return &tokenContract{&contract{Address: addr}}
}

func (t *tokenContract) Native(state *state.State) *token.Token {
	return token.New(t.Address, state)
}
