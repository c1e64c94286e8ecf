// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/thor"
)

// Backend is the part of the pool service running administrative operations.
type Backend interface {
	PoolInfo() (*staker.PoolInfo, error)
	SetAvailability(caller thor.Address, availability staker.Availability) error
	SetFineParams(caller thor.Address, percent *big.Int, cooldown uint64) error
	WithdrawFine(caller thor.Address) (*big.Int, error)
	WithdrawToken(caller, token thor.Address, amount *big.Int) error
}

// TokenResolver maps a token symbol or address to the token address.
type TokenResolver func(ref string) thor.Address

type Admin struct {
	backend      Backend
	resolveToken TokenResolver
}

func New(backend Backend, resolveToken TokenResolver) *Admin {
	return &Admin{backend, resolveToken}
}

func (a *Admin) handleSetAvailability(w http.ResponseWriter, req *http.Request) error {
	caller, err := utils.Caller(req)
	if err != nil {
		return err
	}
	var body Availability
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	info, err := a.backend.PoolInfo()
	if err != nil {
		return err
	}
	availability := info.Availability
	if body.Stake != nil {
		availability.Stake = *body.Stake
	}
	if body.Unstake != nil {
		availability.Unstake = *body.Unstake
	}
	if body.Claim != nil {
		availability.Claim = *body.Claim
	}

	if err := a.backend.SetAvailability(caller, availability); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Availability{
		Stake:   &availability.Stake,
		Unstake: &availability.Unstake,
		Claim:   &availability.Claim,
	})
}

func (a *Admin) handleSetFine(w http.ResponseWriter, req *http.Request) error {
	caller, err := utils.Caller(req)
	if err != nil {
		return err
	}
	var body FineParams
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	percent, err := utils.Amount(body.Percent, "percent")
	if err != nil {
		return err
	}
	if body.Cooldown == nil {
		return utils.BadRequest(errors.New("cooldown: required"))
	}

	if err := a.backend.SetFineParams(caller, percent, *body.Cooldown); err != nil {
		return err
	}
	return utils.WriteJSON(w, &FineParams{Percent: utils.Uint256(percent), Cooldown: body.Cooldown})
}

func (a *Admin) handleWithdrawFine(w http.ResponseWriter, req *http.Request) error {
	caller, err := utils.Caller(req)
	if err != nil {
		return err
	}
	amount, err := a.backend.WithdrawFine(caller)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Withdrawn{utils.Uint256(amount)})
}

func (a *Admin) handleWithdrawToken(w http.ResponseWriter, req *http.Request) error {
	caller, err := utils.Caller(req)
	if err != nil {
		return err
	}
	var body WithdrawToken
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Token == "" {
		return utils.BadRequest(errors.New("token: required"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}

	if err := a.backend.WithdrawToken(caller, a.resolveToken(body.Token), amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Withdrawn{utils.Uint256(amount)})
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.MethodNotAllowedHandler = utils.MethodNotAllowed

	sub.Path("/availability").
		Methods(http.MethodPost).
		Name("POST /admin/availability").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetAvailability))
	sub.Path("/fine").
		Methods(http.MethodPost).
		Name("POST /admin/fine").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetFine))
	sub.Path("/withdraw-fine").
		Methods(http.MethodPost).
		Name("POST /admin/withdraw-fine").
		HandlerFunc(utils.WrapHandlerFunc(a.handleWithdrawFine))
	sub.Path("/withdraw-token").
		Methods(http.MethodPost).
		Name("POST /admin/withdraw-token").
		HandlerFunc(utils.WrapHandlerFunc(a.handleWithdrawToken))
}
