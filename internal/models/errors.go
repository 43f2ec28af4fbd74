package models

import "errors"

var (
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrDuplicateAccountID   = errors.New("account id already exists")
	ErrAccountNotFound      = errors.New("account not found")
	ErrSameAccount          = errors.New("source and destination account must differ")
	ErrInvalidAccountID     = errors.New("account id is required")
	ErrNegativeBalance      = errors.New("initial balance cannot be negative")
	ErrUnsupportedPrecision = errors.New("at most 2 decimal places and 24 integer digits are supported")
)
