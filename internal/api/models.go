package api

import (
	"errors"
	"strings"

	"github.com/sheikh-saqib/accounts-ledger-service/internal/models"
	"github.com/shopspring/decimal"
)

var minimumTransferAmount = decimal.RequireFromString("0.01")

type CreateAccountRequest struct {
	AccountID string           `json:"accountId"`
	Balance   *decimal.Decimal `json:"balance"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}
	if r.Balance == nil {
		errs = append(errs, "balance is required")
	} else if err := models.CheckPrecision(*r.Balance); err != nil {
		errs = append(errs, err.Error())
	} else if r.Balance.IsNegative() {
		errs = append(errs, "Initial balance must be positive.")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferRequest struct {
	AccountFrom string           `json:"accountFrom"`
	AccountTo   string           `json:"accountTo"`
	Amount      *decimal.Decimal `json:"amount"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountFrom) == "" {
		errs = append(errs, "accountFrom is required")
	}
	if strings.TrimSpace(r.AccountTo) == "" {
		errs = append(errs, "accountTo is required")
	}
	if r.Amount == nil {
		errs = append(errs, "amount is required")
	} else if err := models.CheckPrecision(*r.Amount); err != nil {
		errs = append(errs, err.Error())
	} else if r.Amount.LessThan(minimumTransferAmount) {
		errs = append(errs, "Transfer amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AmountRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (r AmountRequest) Validate() error {
	if r.Amount == nil {
		return errors.New("amount is required")
	}
	if err := models.CheckPrecision(*r.Amount); err != nil {
		return err
	}
	if r.Amount.Sign() <= 0 {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

type AccountResponse struct {
	AccountID string `json:"accountId"`
	Balance   string `json:"balance"`
}

type TransferResponse struct {
	TransferID  string `json:"transferId"`
	AccountFrom string `json:"accountFrom"`
	AccountTo   string `json:"accountTo"`
	Amount      string `json:"amount"`
	CreatedAt   string `json:"createdAt"`
}
