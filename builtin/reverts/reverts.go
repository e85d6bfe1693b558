// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"errors"

	"github.com/thetatoken/tdrop-governance/tdrop"
)

// ErrRevert is a business rule failure. Its kind is stable and meant to be surfaced to callers.
type ErrRevert struct {
	kind    string
	message string
}

func New(kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Kind returns the error kind, e.g. "NotActive".
func (e *ErrRevert) Kind() string {
	return e.kind
}

// Bytes abi encodes the error as Error(string).
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}
	selector := tdrop.Selector("Error(string)")
	msg := []byte(e.message)
	padded := (len(msg) + 31) / 32 * 32

	encoded := make([]byte, 4+32+32+padded)
	copy(encoded, selector[:])
	binary.BigEndian.PutUint64(encoded[4+24:], 32)
	binary.BigEndian.PutUint64(encoded[4+32+24:], uint64(len(msg)))
	copy(encoded[4+64:], msg)
	return encoded
}

var (
	ErrNotActive           = New("NotActive", "not active")
	ErrUnauthorized        = New("Unauthorized", "unauthorized")
	ErrZeroAmount          = New("ZeroAmount", "zero amount")
	ErrInvalidArgument     = New("InvalidArgument", "invalid argument")
	ErrInsufficientShares  = New("InsufficientShares", "insufficient shares")
	ErrInsufficientBalance = New("InsufficientBalance", "insufficient balance")
	ErrArithmeticOverflow  = New("ArithmeticOverflow", "arithmetic overflow")
	ErrAlreadyVoted        = New("AlreadyVoted", "already voted")
	ErrAlreadyQueued       = New("AlreadyQueued", "action already queued")
	ErrNotQueued           = New("NotQueued", "action not queued")
	ErrStaleAction         = New("StaleAction", "action outside execution window")
	ErrExpired             = New("Expired", "expired")
	ErrProposalNotActive   = New("ProposalNotActive", "proposal not active")
	ErrWrongState          = New("WrongState", "wrong proposal state")
	ErrFutureLookup        = New("FutureLookup", "block not yet finalized")
)

// IsRevertErr reports whether err is or wraps an *ErrRevert.
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

// KindOf returns the kind of a revert error, or empty string if err is not one.
func KindOf(err error) string {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return ""
}
