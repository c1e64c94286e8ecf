// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/thor"
)

// Backend is the part of the pool service exposing token balances.
type Backend interface {
	Balance(token, holder thor.Address) (*big.Int, error)
	Allowance(token, owner, spender thor.Address) (*big.Int, error)
	Approve(token, owner, spender thor.Address, amount *big.Int) error
}

type Tokens struct {
	backend      Backend
	resolveToken func(ref string) thor.Address
}

// New creates the tokens API. Tokens in paths are resolved by resolveToken, by symbol or address.
func New(backend Backend, resolveToken func(ref string) thor.Address) *Tokens {
	return &Tokens{backend, resolveToken}
}

func (t *Tokens) token(req *http.Request) thor.Address {
	return t.resolveToken(mux.Vars(req)["token"])
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	holder, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	token := t.token(req)
	bal, err := t.backend.Balance(token, holder)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Token: token, Address: holder, Balance: utils.Uint256(bal)})
}

func (t *Tokens) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	spender, err := utils.AddressVar(req, "spender")
	if err != nil {
		return err
	}
	token := t.token(req)
	allowance, err := t.backend.Allowance(token, owner, spender)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Allowance{Token: token, Owner: owner, Spender: spender, Allowance: utils.Uint256(allowance)})
}

func (t *Tokens) handleApprove(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.Caller(req)
	if err != nil {
		return err
	}
	var body ApproveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Spender == nil {
		return utils.BadRequest(errors.New("spender: required"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}

	token := t.token(req)
	if err := t.backend.Approve(token, owner, *body.Spender, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Allowance{Token: token, Owner: owner, Spender: *body.Spender, Allowance: utils.Uint256(amount)})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.MethodNotAllowedHandler = utils.MethodNotAllowed

	sub.Path("/{token}/balances/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{token}/balances/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{token}/allowances/{owner}/{spender}").
		Methods(http.MethodGet).
		Name("GET /tokens/{token}/allowances/{owner}/{spender}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAllowance))
	sub.Path("/{token}/approve").
		Methods(http.MethodPost).
		Name("POST /tokens/{token}/approve").
		HandlerFunc(utils.WrapHandlerFunc(t.handleApprove))
}
