// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/thor"
)

// Backend is the part of the pool service serving stakers.
type Backend interface {
	StakerInfo(addr thor.Address) (*staker.StakerInfo, error)
	Reward(addr thor.Address) (*big.Int, error)
	Stake(caller thor.Address, amount *big.Int) error
	Unstake(caller thor.Address, amount *big.Int) (payout, fine *big.Int, err error)
	RequestFeeFreeUnstake(caller thor.Address, amount *big.Int) error
	Claim(caller thor.Address) (*big.Int, error)
}

type Stakers struct {
	backend Backend
}

func New(backend Backend) *Stakers {
	return &Stakers{backend}
}

// account returns the staker in the path, which must be the caller for operations.
func account(req *http.Request, mustBeCaller bool) (thor.Address, error) {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return thor.Address{}, err
	}
	if !mustBeCaller {
		return addr, nil
	}
	caller, err := utils.Caller(req)
	if err != nil {
		return thor.Address{}, err
	}
	if caller != addr {
		return thor.Address{}, utils.Forbidden(errors.New("caller does not own the account"))
	}
	return addr, nil
}

func parseAmount(req *http.Request) (*big.Int, error) {
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.Amount(body.Amount, "amount")
}

func (s *Stakers) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	addr, err := account(req, false)
	if err != nil {
		return err
	}
	info, err := s.backend.StakerInfo(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertStaker(info))
}

func (s *Stakers) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	addr, err := account(req, false)
	if err != nil {
		return err
	}
	reward, err := s.backend.Reward(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Reward{utils.Uint256(reward)})
}

// writeStaker answers an operation with the updated staker.
func (s *Stakers) writeStaker(w http.ResponseWriter, addr thor.Address) error {
	info, err := s.backend.StakerInfo(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertStaker(info))
}

func (s *Stakers) handleStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := account(req, true)
	if err != nil {
		return err
	}
	amount, err := parseAmount(req)
	if err != nil {
		return err
	}
	if err := s.backend.Stake(addr, amount); err != nil {
		return err
	}
	return s.writeStaker(w, addr)
}

func (s *Stakers) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	addr, err := account(req, true)
	if err != nil {
		return err
	}
	amount, err := parseAmount(req)
	if err != nil {
		return err
	}
	payout, fine, err := s.backend.Unstake(addr, amount)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Unstaked{Payout: utils.Uint256(payout), Fine: utils.Uint256(fine)})
}

func (s *Stakers) handleRequestUnstake(w http.ResponseWriter, req *http.Request) error {
	addr, err := account(req, true)
	if err != nil {
		return err
	}
	amount, err := parseAmount(req)
	if err != nil {
		return err
	}
	if err := s.backend.RequestFeeFreeUnstake(addr, amount); err != nil {
		return err
	}
	return s.writeStaker(w, addr)
}

func (s *Stakers) handleClaim(w http.ResponseWriter, req *http.Request) error {
	addr, err := account(req, true)
	if err != nil {
		return err
	}
	reward, err := s.backend.Claim(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Reward{utils.Uint256(reward)})
}

func (s *Stakers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.MethodNotAllowedHandler = utils.MethodNotAllowed

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /stakers/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStaker))
	sub.Path("/{address}/reward").
		Methods(http.MethodGet).
		Name("GET /stakers/{address}/reward").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetReward))
	sub.Path("/{address}/stake").
		Methods(http.MethodPost).
		Name("POST /stakers/{address}/stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/{address}/unstake").
		Methods(http.MethodPost).
		Name("POST /stakers/{address}/unstake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/{address}/request-unstake").
		Methods(http.MethodPost).
		Name("POST /stakers/{address}/request-unstake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleRequestUnstake))
	sub.Path("/{address}/claim").
		Methods(http.MethodPost).
		Name("POST /stakers/{address}/claim").
		HandlerFunc(utils.WrapHandlerFunc(s.handleClaim))
}
