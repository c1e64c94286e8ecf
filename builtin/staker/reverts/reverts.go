// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Pool operation reverts. Each rejected operation leaves the state untouched.
var (
	ErrOperationUnavailable      = New("operation is unavailable")
	ErrNotYetStarted             = New("staking has not yet started")
	ErrInsufficientStakedBalance = New("insufficient staked balance")
	ErrInvalidRequestAmount      = New("invalid request amount")
	ErrNothingToClaim            = New("nothing to claim")
	ErrInvalidPercentage         = New("invalid percentage")
	ErrNoFineToWithdraw          = New("no fine to withdraw")
	ErrTransferFailed            = New("token transfer failed")
	ErrUnauthorized              = New("caller is not authorized")
	ErrZeroAmount                = New("amount must be greater than zero")
	ErrUnknownToken              = New("unknown token")
	ErrReentrantCall             = New("reentrant call")
)
