package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/logger"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/models"
	"github.com/shopspring/decimal"
)

// Service orchestrates account operations on top of the ledger and tells both
// parties about every committed transfer.
type Service struct {
	ledger   interfaces.AccountLedger
	notifier interfaces.Notifier
	now      func() time.Time
}

func NewService(ledger interfaces.AccountLedger, notifier interfaces.Notifier) *Service {
	return &Service{
		ledger:   ledger,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) CreateAccount(ctx context.Context, account models.Account) error {
	return s.ledger.CreateAccount(ctx, account)
}

func (s *Service) GetAccount(ctx context.Context, accountID string) (models.Account, error) {
	return s.ledger.GetAccount(ctx, accountID)
}

func (s *Service) ClearAccounts(ctx context.Context) error {
	return s.ledger.ClearAccounts(ctx)
}

func (s *Service) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (models.Account, error) {
	return s.ledger.Deposit(ctx, accountID, amount)
}

func (s *Service) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (models.Account, error) {
	return s.ledger.Withdraw(ctx, accountID, amount)
}

// TransferMoney moves amount between two accounts. Existence, amount and
// balance are all checked inside the ledger's atomic transfer; ledger errors
// are returned unchanged and nobody is notified.
//
// Once the ledger has committed, the transfer is reported as successful even
// if a notification fails.
func (s *Service) TransferMoney(ctx context.Context, fromID, toID string, amount decimal.Decimal) (models.Transfer, error) {
	from, to, err := s.ledger.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		logger.Error("transfer service transfer failed", err, logger.Fields{
			"accountFrom": fromID,
			"accountTo":   toID,
			"amount":      loggableAmount(amount),
		})
		return models.Transfer{}, err
	}

	receipt := models.Transfer{
		ID:          uuid.New().String(),
		FromAccount: fromID,
		ToAccount:   toID,
		Amount:      amount,
		CreatedAt:   s.now().UTC(),
	}

	logger.Info("transfer service transfer committed", logger.Fields{
		"transferId":  receipt.ID,
		"accountFrom": fromID,
		"accountTo":   toID,
		"amount":      amount.String(),
	})

	s.notify(ctx, receipt.ID, to, fmt.Sprintf("Amount %s transferred from account %s", amount.StringFixed(models.MaxScale), fromID))
	s.notify(ctx, receipt.ID, from, fmt.Sprintf("Amount %s received in account %s", amount.StringFixed(models.MaxScale), toID))

	return receipt, nil
}

// notify never lets a sink failure, including a panic, reach the caller.
func (s *Service) notify(ctx context.Context, transferID string, account models.Account, message string) {
	if s.notifier == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("transfer service notification panicked", fmt.Errorf("%v", r), logger.Fields{
				"transferId": transferID,
				"accountId":  account.ID,
			})
		}
	}()

	if err := s.notifier.NotifyAboutTransfer(ctx, account, message); err != nil {
		logger.Error("transfer service notification failed", err, logger.Fields{
			"transferId": transferID,
			"accountId":  account.ID,
		})
	}
}

// loggableAmount renders amount without expanding an out-of-range exponent.
func loggableAmount(amount decimal.Decimal) string {
	if models.CheckPrecision(amount) != nil {
		return fmt.Sprintf("unsupported (exponent %d)", amount.Exponent())
	}
	return amount.String()
}
