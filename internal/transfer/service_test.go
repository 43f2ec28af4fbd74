package transfer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sheikh-saqib/accounts-ledger-service/internal/ledger"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type notification struct {
	account models.Account
	message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []notification
	err   error
	panic bool
}

func (n *recordingNotifier) NotifyAboutTransfer(_ context.Context, account models.Account, message string) error {
	n.mu.Lock()
	n.sent = append(n.sent, notification{account: account, message: message})
	n.mu.Unlock()

	if n.panic {
		panic("sink exploded")
	}
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func newService(t *testing.T, notifier *recordingNotifier, balances map[string]string) (*Service, *ledger.Ledger) {
	t.Helper()

	l := ledger.NewLedger()
	for id, balance := range balances {
		require.NoError(t, l.CreateAccount(context.Background(), models.Account{ID: id, Balance: decimal.RequireFromString(balance)}))
	}

	svc := NewService(l, notifier)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, l
}

func balance(t *testing.T, svc *Service, id string) string {
	t.Helper()
	acc, err := svc.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance.StringFixed(2)
}

func TestTransferMoneyNotifiesBothParties(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newService(t, notifier, map[string]string{"from": "100.00", "to": "50.00"})

	receipt, err := svc.TransferMoney(context.Background(), "from", "to", decimal.RequireFromString("20.00"))
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, "from", receipt.FromAccount)
	assert.Equal(t, "to", receipt.ToAccount)
	assert.Equal(t, "20.00", receipt.Amount.StringFixed(2))
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), receipt.CreatedAt)

	assert.Equal(t, "80.00", balance(t, svc, "from"))
	assert.Equal(t, "70.00", balance(t, svc, "to"))

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "to", notifier.sent[0].account.ID)
	assert.Equal(t, "Amount 20.00 transferred from account from", notifier.sent[0].message)
	assert.Equal(t, "70.00", notifier.sent[0].account.Balance.StringFixed(2))
	assert.Equal(t, "from", notifier.sent[1].account.ID)
	assert.Equal(t, "Amount 20.00 received in account to", notifier.sent[1].message)
}

func TestTransferMoneyMessagesKeepTwoDecimals(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newService(t, notifier, map[string]string{"from": "100", "to": "0"})

	_, err := svc.TransferMoney(context.Background(), "from", "to", decimal.NewFromInt(5))
	require.NoError(t, err)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "Amount 5.00 transferred from account from", notifier.sent[0].message)
	assert.Equal(t, "Amount 5.00 received in account to", notifier.sent[1].message)
}

func TestTransferMoneyRejectsExtremeExponentWithoutNotifying(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newService(t, notifier, map[string]string{"from": "100", "to": "0"})

	start := time.Now()
	_, err := svc.TransferMoney(context.Background(), "from", "to", decimal.RequireFromString("1e-80000000"))
	assert.ErrorIs(t, err, models.ErrUnsupportedPrecision)
	assert.Less(t, time.Since(start), time.Second)

	assert.Zero(t, notifier.count())
	assert.Equal(t, "100.00", balance(t, svc, "from"))
	assert.Equal(t, "0.00", balance(t, svc, "to"))
}

func TestTransferMoneyPropagatesLedgerErrors(t *testing.T) {
	cases := []struct {
		name   string
		from   string
		to     string
		amount string
		want   error
	}{
		{name: "insufficient", from: "from", to: "to", amount: "60.00", want: models.ErrInsufficientBalance},
		{name: "invalid amount", from: "from", to: "to", amount: "-20.00", want: models.ErrInvalidAmount},
		{name: "not found", from: "ghost", to: "to", amount: "1", want: models.ErrAccountNotFound},
		{name: "same account", from: "to", to: "to", amount: "1", want: models.ErrSameAccount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			svc, _ := newService(t, notifier, map[string]string{"from": "50.00", "to": "100.00"})

			_, err := svc.TransferMoney(context.Background(), tc.from, tc.to, decimal.RequireFromString(tc.amount))
			assert.ErrorIs(t, err, tc.want)

			assert.Zero(t, notifier.count())
			assert.Equal(t, "50.00", balance(t, svc, "from"))
			assert.Equal(t, "100.00", balance(t, svc, "to"))
		})
	}
}

func TestTransferMoneySurvivesNotificationFailure(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp unavailable")}
	svc, _ := newService(t, notifier, map[string]string{"a": "10", "b": "0"})

	_, err := svc.TransferMoney(context.Background(), "a", "b", decimal.NewFromInt(4))
	require.NoError(t, err)

	assert.Equal(t, 2, notifier.count())
	assert.Equal(t, "6.00", balance(t, svc, "a"))
	assert.Equal(t, "4.00", balance(t, svc, "b"))
}

func TestTransferMoneySurvivesNotificationPanic(t *testing.T) {
	notifier := &recordingNotifier{panic: true}
	svc, _ := newService(t, notifier, map[string]string{"a": "10", "b": "0"})

	assert.NotPanics(t, func() {
		_, err := svc.TransferMoney(context.Background(), "a", "b", decimal.NewFromInt(4))
		require.NoError(t, err)
	})

	assert.Equal(t, 2, notifier.count())
	assert.Equal(t, "6.00", balance(t, svc, "a"))
}

func TestTransferMoneyWithoutNotifier(t *testing.T) {
	l := ledger.NewLedger()
	ctx := context.Background()
	require.NoError(t, l.CreateAccount(ctx, models.Account{ID: "a", Balance: decimal.NewFromInt(1)}))
	require.NoError(t, l.CreateAccount(ctx, models.Account{ID: "b", Balance: decimal.Zero}))

	_, err := NewService(l, nil).TransferMoney(ctx, "a", "b", decimal.NewFromInt(1))
	assert.NoError(t, err)
}

func TestServicePassThroughs(t *testing.T) {
	svc, _ := newService(t, &recordingNotifier{}, nil)
	ctx := context.Background()

	require.NoError(t, svc.CreateAccount(ctx, models.Account{ID: "Id-123", Balance: decimal.NewFromInt(1000)}))
	assert.ErrorIs(t, svc.CreateAccount(ctx, models.Account{ID: "Id-123", Balance: decimal.NewFromInt(1)}), models.ErrDuplicateAccountID)
	assert.Equal(t, "1000.00", balance(t, svc, "Id-123"))

	acc, err := svc.Deposit(ctx, "Id-123", decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.Equal(t, "1005.00", acc.Balance.StringFixed(2))

	acc, err = svc.Withdraw(ctx, "Id-123", decimal.NewFromInt(1005))
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())

	require.NoError(t, svc.ClearAccounts(ctx))
	_, err = svc.GetAccount(ctx, "Id-123")
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestTransferMoneyConcurrently(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, l := newService(t, notifier, map[string]string{"accountFrom": "2000.00", "accountTo": "1000.00"})

	const n = 1000
	one := decimal.NewFromInt(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(100)
	for i := 0; i < n; i++ {
		for _, pair := range [][2]string{
			{"accountFrom", "accountTo"},
			{"accountTo", "accountFrom"},
			{"accountFrom", "accountTo"},
		} {
			g.Go(func() error {
				_, err := svc.TransferMoney(ctx, pair[0], pair[1], one)
				return err
			})
		}
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, "1000.00", balance(t, svc, "accountFrom"))
	assert.Equal(t, "2000.00", balance(t, svc, "accountTo"))
	assert.Equal(t, 2*3*n, notifier.count())

	total, err := l.TotalBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3000.00", total.StringFixed(2))
}
