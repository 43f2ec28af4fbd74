package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is the receipt of a committed movement of money between two accounts
type Transfer struct {
	ID          string          `json:"transferId"`
	FromAccount string          `json:"accountFrom"`
	ToAccount   string          `json:"accountTo"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
}
