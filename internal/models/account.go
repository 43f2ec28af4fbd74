package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Account is a single monetary account.
// Balance is never negative; Deposit and Withdraw leave it untouched on error.
type Account struct {
	ID      string          `json:"accountId"`
	Balance decimal.Decimal `json:"balance"`
}

// NewAccount validates the id and opening balance of a new account.
func NewAccount(id string, balance decimal.Decimal) (Account, error) {
	if strings.TrimSpace(id) == "" {
		return Account{}, ErrInvalidAccountID
	}
	if err := CheckPrecision(balance); err != nil {
		return Account{}, err
	}
	if balance.IsNegative() {
		return Account{}, ErrNegativeBalance
	}

	return Account{ID: id, Balance: balance}, nil
}

// Deposit adds amount to the balance.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw removes amount from the balance.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}

	a.Balance = a.Balance.Sub(amount)
	return nil
}
