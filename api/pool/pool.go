// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/thor"
)

// Backend is the part of the pool service this API reads.
type Backend interface {
	PoolInfo() (*staker.PoolInfo, error)
	Refresh() (*big.Int, error)
	GenesisID() thor.Bytes32
	Now() uint64
}

type Handler struct {
	backend Backend
}

func New(backend Backend) *Handler {
	return &Handler{backend}
}

func (h *Handler) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	info, err := h.backend.PoolInfo()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPool(info))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, _ *http.Request) error {
	rps, err := h.backend.Refresh()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Refreshed{RewardPerShare: utils.Uint256(rps)})
}

func (h *Handler) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &Status{
		GenesisID: h.backend.GenesisID(),
		Now:       h.backend.Now(),
	})
}

func (h *Handler) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.MethodNotAllowedHandler = utils.MethodNotAllowed

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pool").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetPool))
	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /pool/status").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetStatus))
	sub.Path("/refresh").
		Methods(http.MethodPost).
		Name("POST /pool/refresh").
		HandlerFunc(utils.WrapHandlerFunc(h.handleRefresh))
}
