package errors

import stderrors "errors"

var (
	ErrUnauthorized         = stderrors.New("ledger: caller not authorised")
	ErrInvalidAmount        = stderrors.New("ledger: invalid amount")
	ErrInsufficientBalance  = stderrors.New("ledger: insufficient balance")
	ErrNotRegistered        = stderrors.New("ledger: account not registered")
	ErrAlreadyRegistered    = stderrors.New("ledger: account already registered")
	ErrRedistributionLocked = stderrors.New("ledger: redistribution not active")
	ErrNoRewards            = stderrors.New("ledger: redistribution pool empty")
)
