package interfaces

import (
	"context"

	"github.com/sheikh-saqib/accounts-ledger-service/internal/models"
	"github.com/shopspring/decimal"
)

type AccountLedger interface {
	CreateAccount(ctx context.Context, account models.Account) error
	GetAccount(ctx context.Context, accountID string) (models.Account, error)
	ClearAccounts(ctx context.Context) error
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (models.Account, models.Account, error)
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (models.Account, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (models.Account, error)
}
