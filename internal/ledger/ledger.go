package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sheikh-saqib/accounts-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/logger"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/models"
	"github.com/shopspring/decimal"
)

// slot couples an account with the mutex that guards its balance
type slot struct {
	mu      sync.Mutex
	account models.Account
}

// Ledger is the in-memory owner of every account.
//
// Lock order is always the map lock first, then account locks in ascending
// account id. Every balance-touching operation holds the map read lock for
// its whole duration, so the map write lock (create, clear, snapshot) is only
// granted once no balance mutation is in flight.
type Ledger struct {
	mu       sync.RWMutex     // protects the accounts map itself
	accounts map[string]*slot // account id -> slot
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[string]*slot),
	}
}

// CreateAccount inserts the account if no account with the same id exists.
// The existence check and the insert happen under one write lock.
func (l *Ledger) CreateAccount(ctx context.Context, account models.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	account, err := models.NewAccount(account.ID, account.Balance)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[account.ID]; exists {
		return fmt.Errorf("%w: %s", models.ErrDuplicateAccountID, account.ID)
	}
	l.accounts[account.ID] = &slot{account: account}

	logger.Info("ledger account created", logger.Fields{
		"accountId": account.ID,
		"balance":   account.Balance.String(),
	})
	return nil
}

// GetAccount returns a copy of the account.
func (l *Ledger) GetAccount(ctx context.Context, accountID string) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.accounts[accountID]
	if !ok {
		return models.Account{}, fmt.Errorf("%w: %s", models.ErrAccountNotFound, accountID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account, nil
}

// ClearAccounts removes every account. It waits for in-flight operations to
// finish; operations started afterwards see an empty ledger.
func (l *Ledger) ClearAccounts(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := len(l.accounts)
	l.accounts = make(map[string]*slot)

	logger.Info("ledger accounts cleared", logger.Fields{"removed": removed})
	return nil
}

// Transfer moves amount from one account to another and returns copies of
// both accounts after the move. Both balance changes happen while both
// account locks are held.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (models.Account, models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, models.Account{}, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	from, okFrom := l.accounts[fromID]
	to, okTo := l.accounts[toID]
	if !okFrom || !okTo {
		return models.Account{}, models.Account{}, fmt.Errorf("%w: one or both of %s, %s", models.ErrAccountNotFound, fromID, toID)
	}

	if err := models.ValidateAmount(amount); err != nil {
		return models.Account{}, models.Account{}, err
	}

	// Same id means same mutex; locking it twice would self-deadlock.
	if fromID == toID {
		return models.Account{}, models.Account{}, fmt.Errorf("%w: %s", models.ErrSameAccount, fromID)
	}

	unlock := lockPair(fromID, from, toID, to)
	defer unlock()

	// The caller may have given up while we waited for the locks.
	if err := ctx.Err(); err != nil {
		return models.Account{}, models.Account{}, err
	}

	if err := from.account.Withdraw(amount); err != nil {
		return models.Account{}, models.Account{}, fmt.Errorf("account %s: %w", fromID, err)
	}
	if err := to.account.Deposit(amount); err != nil {
		// unreachable while amount > 0; undo the withdrawal so the pair stays atomic
		_ = from.account.Deposit(amount)
		return models.Account{}, models.Account{}, fmt.Errorf("account %s: %w", toID, err)
	}

	return from.account, to.account, nil
}

// Deposit adds amount to a single account and returns the updated copy.
func (l *Ledger) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (models.Account, error) {
	return l.mutate(ctx, accountID, func(a *models.Account) error {
		return a.Deposit(amount)
	})
}

// Withdraw removes amount from a single account and returns the updated copy.
func (l *Ledger) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (models.Account, error) {
	return l.mutate(ctx, accountID, func(a *models.Account) error {
		return a.Withdraw(amount)
	})
}

// Accounts returns a consistent snapshot of every account, sorted by id.
func (l *Ledger) Accounts(ctx context.Context) ([]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// With the write lock held no operation can hold an account lock.
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make([]models.Account, 0, len(l.accounts))
	for _, s := range l.accounts {
		snapshot = append(snapshot, s.account)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].ID < snapshot[j].ID
	})

	return snapshot, nil
}

// TotalBalance sums the balances of a consistent snapshot.
func (l *Ledger) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	accounts, err := l.Accounts(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total, nil
}

func (l *Ledger) mutate(ctx context.Context, accountID string, apply func(*models.Account) error) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.accounts[accountID]
	if !ok {
		return models.Account{}, fmt.Errorf("%w: %s", models.ErrAccountNotFound, accountID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := apply(&s.account); err != nil {
		return models.Account{}, fmt.Errorf("account %s: %w", accountID, err)
	}
	return s.account, nil
}

// lockPair locks two distinct slots in ascending id order regardless of the
// transfer direction and returns the matching unlock.
func lockPair(aID string, a *slot, bID string, b *slot) func() {
	first, second := a, b
	if bID < aID {
		first, second = b, a
	}

	first.mu.Lock()
	second.mu.Lock()

	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

// Compile-time check: ensure Ledger implements AccountLedger interface
var _ interfaces.AccountLedger = (*Ledger)(nil)
