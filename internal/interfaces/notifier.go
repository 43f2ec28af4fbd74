package interfaces

import (
	"context"

	"github.com/sheikh-saqib/accounts-ledger-service/internal/models"
)

// Notifier tells an account holder about a transfer that touched their account.
type Notifier interface {
	NotifyAboutTransfer(ctx context.Context, account models.Account, message string) error
}
