package notification

import (
	"context"

	"github.com/sheikh-saqib/accounts-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/logger"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/models"
)

// LogNotifier writes transfer notifications to the application log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) NotifyAboutTransfer(_ context.Context, account models.Account, message string) error {
	logger.Info("transfer notification", logger.Fields{
		"accountId": account.ID,
		"message":   message,
	})
	return nil
}

var _ interfaces.Notifier = (*LogNotifier)(nil)
