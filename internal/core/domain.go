package core

import (
	"errors"
	"strings"
	"time"
)

// AccountType classifies an account. The set is closed.
type AccountType string

const (
	Checking AccountType = "checking"
	Savings  AccountType = "savings"
	Other    AccountType = "other"
)

var (
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyName          = errors.New("empty account name")
	ErrNameTooLong        = errors.New("account name too long (max 100 characters)")
)

// ParseAccountType normalizes and validates an account type string.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(strings.ToLower(strings.TrimSpace(s))) {
	case Checking:
		return Checking, nil
	case Savings:
		return Savings, nil
	case Other:
		return Other, nil
	default:
		return "", ErrInvalidAccountType
	}
}

// TransactionKind distinguishes money coming in from money going out.
type TransactionKind string

const (
	Income  TransactionKind = "INCOME"
	Expense TransactionKind = "EXPENSE"
)

// ParseTransactionKind normalizes and validates a transaction kind string.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch TransactionKind(strings.ToUpper(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", ErrInvalidKind
	}
}

// Account is a user-owned account. For every owner with at least one
// account, exactly one account carries IsDefault; the store maintains that
// invariant transactionally.
type Account struct {
	ID        string
	OwnerID   string
	Name      string
	Type      AccountType
	Balance   Money
	IsDefault bool
	CreatedAt time.Time
}

// Validate checks the fields a caller controls. The default flag is not
// validated here because only the store decides it.
func (a Account) Validate() error {
	if strings.TrimSpace(a.OwnerID) == "" {
		return ErrUnauthorized
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if len(a.Name) > 100 {
		return ErrNameTooLong
	}
	if _, err := ParseAccountType(string(a.Type)); err != nil {
		return err
	}
	return nil
}

// Transaction is one immutable ledger entry tied to an account owned by the
// same owner. There is no update or delete.
type Transaction struct {
	ID         string
	OwnerID    string
	AccountID  string
	Kind       TransactionKind
	Amount     Money
	OccurredOn time.Time
	CreatedAt  time.Time
}

// Validate checks structural validity; account ownership is verified by the
// store inside the recording transaction.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerID) == "" {
		return ErrUnauthorized
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrNotFound
	}
	if _, err := ParseTransactionKind(string(t.Kind)); err != nil {
		return err
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if t.OccurredOn.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
