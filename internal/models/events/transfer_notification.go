package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferNotification is published once per party of a committed transfer.
type TransferNotification struct {
	EventID    string          `json:"event_id"`
	AccountID  string          `json:"account_id"`
	Balance    decimal.Decimal `json:"balance"`
	Message    string          `json:"message"`
	OccurredAt time.Time       `json:"occurred_at"`
}
