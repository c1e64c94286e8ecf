// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements fungible tokens held in contract storage, with ERC20 like allowances.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

var (
	slotSymbol      = thor.BytesToBytes32([]byte("symbol"))
	slotTotalSupply = thor.BytesToBytes32([]byte("total-supply"))
	slotBalances    = thor.BytesToBytes32([]byte("balances"))
	slotAllowances  = thor.BytesToBytes32([]byte("allowances"))
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrNegativeAmount        = errors.New("negative amount")
)

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), spender.Bytes())
}

// Token implements native methods of a token contract.
type Token struct {
	addr        thor.Address
	symbol      *solidity.Raw[string]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[thor.Bytes32, *big.Int]
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		addr:        addr,
		symbol:      solidity.NewRaw[string](sctx, slotSymbol),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[thor.Bytes32, *big.Int](sctx, slotAllowances),
	}
}

// Address returns the token contract address.
func (t *Token) Address() thor.Address {
	return t.addr
}

// Init registers the token symbol. A token without symbol does not exist.
func (t *Token) Init(symbol string) error {
	if symbol == "" {
		return errors.New("empty token symbol")
	}
	return t.symbol.Upsert(symbol)
}

// Exists returns whether the token has been initialised.
func (t *Token) Exists() (bool, error) {
	symbol, err := t.symbol.Get()
	if err != nil {
		return false, err
	}
	return symbol != "", nil
}

func (t *Token) Symbol() (string, error) {
	return t.symbol.Get()
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr thor.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, err
	}
	return bal, nil
}

// Allowance returns what spender may still move out of owner's balance.
func (t *Token) Allowance(owner, spender thor.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

func (t *Token) setBalance(addr thor.Address, bal *big.Int) error {
	if bal.Sign() == 0 {
		t.balances.Delete(addr)
		return nil
	}
	return t.balances.Set(addr, bal)
}

// Mint creates amount to addr.
func (t *Token) Mint(addr thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	return t.setBalance(addr, new(big.Int).Add(bal, amount))
}

// Transfer moves amount from from to to.
func (t *Token) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "%v has %v, needs %v", from, fromBal, amount)
	}
	if err := t.setBalance(from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	return t.setBalance(to, new(big.Int).Add(toBal, amount))
}

// Approve sets the allowance of spender over owner's balance.
func (t *Token) Approve(owner, spender thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	key := allowanceKey(owner, spender)
	if amount.Sign() == 0 {
		t.allowances.Delete(key)
		return nil
	}
	return t.allowances.Set(key, amount)
}

// TransferFrom moves amount from from to to, spending spender's allowance.
func (t *Token) TransferFrom(spender, from, to thor.Address, amount *big.Int) error {
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientAllowance, "%v allows %v to %v, needs %v", from, allowance, spender, amount)
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	return t.Approve(from, spender, new(big.Int).Sub(allowance, amount))
}
