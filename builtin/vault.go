// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

// vault resolves the token contracts holding balances of the pool.
type vault struct {
	state *state.State
	pool  thor.Address
}

func (v *vault) Custody(addr thor.Address) (staker.Custody, error) {
	tk := TokenAt(addr).Native(v.state)
	exists, err := tk.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.Wrap(reverts.ErrUnknownToken, addr.String())
	}
	return &custody{token: tk, pool: v.pool}, nil
}

// custody moves a token on behalf of the pool.
type custody struct {
	token *token.Token
	pool  thor.Address
}

func (c *custody) Transfer(to thor.Address, amount *big.Int) error {
	return transferError(c.token.Transfer(c.pool, to, amount))
}

func (c *custody) TransferFrom(from, to thor.Address, amount *big.Int) error {
	return transferError(c.token.TransferFrom(c.pool, from, to, amount))
}

// transferError reports rejected movements as reverts, other failures pass through.
func transferError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, token.ErrInsufficientBalance) ||
		errors.Is(err, token.ErrInsufficientAllowance) ||
		errors.Is(err, token.ErrNegativeAmount) {
		return errors.Wrap(reverts.ErrTransferFailed, err.Error())
	}
	return err
}
