// Package storage provides the SQLite-backed account and transaction store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
)

// SQLiteRepository owns the account, transaction and budget tables.
//
// All mutations that can change which account is the owner's default run in
// a single transaction opened with an immediate write lock, so concurrent
// writers for the same owner serialize at BEGIN and readers only ever see
// committed states with exactly one default.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// _txlock=immediate takes the write lock at BEGIN instead of at the
	// first write, which avoids lock-upgrade deadlocks between concurrent
	// default-switch transactions.
	dsn := "file:" + dbPath + "?_txlock=immediate&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the underlying database.
func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateAccount inserts a new account for its owner. The owner's first
// account is forced default regardless of requestedDefault; when the new
// account becomes default, the previous default is demoted in the same
// transaction. ID and CreatedAt are populated by the store.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, acct core.Account, requestedDefault bool) (core.Account, error) {
	if err := acct.Validate(); err != nil {
		return core.Account{}, err
	}
	if acct.ID == "" {
		acct.ID = uuid.New().String()
	}
	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Account{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owned int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM accounts WHERE owner_id = ?", acct.OwnerID,
	).Scan(&owned); err != nil {
		return core.Account{}, fmt.Errorf("count accounts: %w", err)
	}

	acct.IsDefault = owned == 0 || requestedDefault

	if acct.IsDefault {
		if _, err := tx.ExecContext(ctx,
			"UPDATE accounts SET is_default = 0 WHERE owner_id = ? AND is_default = 1",
			acct.OwnerID,
		); err != nil {
			return core.Account{}, fmt.Errorf("demote previous default: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (id, owner_id, name, type, balance_cents, is_default, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		acct.ID, acct.OwnerID, acct.Name, string(acct.Type),
		acct.Balance.Cents, boolToInt(acct.IsDefault), acct.CreatedAt.UnixMilli(),
	); err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}

	if err := checkDefaultInvariant(ctx, tx, acct.OwnerID); err != nil {
		return core.Account{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Account{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", acct.ID,
		"owner_id", acct.OwnerID,
		"type", string(acct.Type),
		"is_default", acct.IsDefault)

	return acct, nil
}

// GetAccount returns the account if it exists and belongs to ownerID.
func (r *SQLiteRepository) GetAccount(ctx context.Context, ownerID, accountID string) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		selectAccountCols+" WHERE id = ? AND owner_id = ?", accountID, ownerID)
	return scanAccount(row)
}

// GetDefaultAccount returns the owner's default account, or ErrNotFound when
// the owner has no accounts.
func (r *SQLiteRepository) GetDefaultAccount(ctx context.Context, ownerID string) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		selectAccountCols+" WHERE owner_id = ? AND is_default = 1", ownerID)
	return scanAccount(row)
}

// ListAccounts returns the owner's accounts, newest-created first.
func (r *SQLiteRepository) ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		selectAccountCols+" WHERE owner_id = ? ORDER BY seq DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// SetDefaultAccount makes accountID the owner's default. Re-asserting the
// current default is a no-op; otherwise the previous default is demoted and
// the target promoted inside one transaction.
func (r *SQLiteRepository) SetDefaultAccount(ctx context.Context, ownerID, accountID string) (core.Account, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Account{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		selectAccountCols+" WHERE id = ? AND owner_id = ?", accountID, ownerID)
	target, err := scanAccount(row)
	if err != nil {
		return core.Account{}, err
	}

	if target.IsDefault {
		// Idempotent: the invariant already holds, nothing to write.
		if err := tx.Commit(); err != nil {
			return core.Account{}, fmt.Errorf("commit transaction: %w", err)
		}
		return target, nil
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE accounts SET is_default = 0 WHERE owner_id = ? AND is_default = 1",
		ownerID,
	); err != nil {
		return core.Account{}, fmt.Errorf("demote previous default: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE accounts SET is_default = 1 WHERE id = ?", accountID,
	); err != nil {
		return core.Account{}, fmt.Errorf("promote new default: %w", err)
	}

	if err := checkDefaultInvariant(ctx, tx, ownerID); err != nil {
		return core.Account{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Account{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Default account switched",
		"account_id", accountID,
		"owner_id", ownerID)

	target.IsDefault = true
	return target, nil
}

// InsertTransaction appends one immutable ledger entry after verifying the
// account belongs to the owner. ID and CreatedAt are populated by the store.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM accounts WHERE id = ? AND owner_id = ?", t.AccountID, t.OwnerID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("check account ownership: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (id, owner_id, account_id, kind, amount_cents, occurred_on, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.AccountID, string(t.Kind),
		t.Amount.Cents, t.OccurredOn.UTC().UnixMilli(), t.CreatedAt.UnixMilli(),
	); err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"kind", string(t.Kind),
		"amount_cents", t.Amount.Cents)

	return t, nil
}

// ListTransactions returns a page of the owner's ledger, newest occurrence
// first. Each call re-queries, so callers always see a fresh snapshot.
// limit <= 0 means no limit.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, ownerID string, limit, offset int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, account_id, kind, amount_cents, occurred_on, created_at
		 FROM transactions WHERE owner_id = ?
		 ORDER BY occurred_on DESC, seq DESC LIMIT ? OFFSET ?`,
		ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			t                    core.Transaction
			kind                 string
			occurredOn, createdAt int64
		)
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.AccountID, &kind,
			&t.Amount.Cents, &occurredOn, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.TransactionKind(kind)
		t.OccurredOn = time.UnixMilli(occurredOn).UTC()
		t.CreatedAt = time.UnixMilli(createdAt).UTC()
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// SumByKind aggregates transaction amounts for one account and kind within
// the window, bounds inclusive. The sum runs inside SQLite so memory stays
// flat however large the ledger grows; an empty match yields 0.00.
func (r *SQLiteRepository) SumByKind(ctx context.Context, ownerID, accountID string, kind core.TransactionKind, w core.Window) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE owner_id = ? AND account_id = ? AND kind = ? AND occurred_on BETWEEN ? AND ?`,
		ownerID, accountID, string(kind), w.Start.UnixMilli(), w.End.UnixMilli(),
	).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum transactions: %w", err)
	}
	if cents > core.MaxCents {
		return core.Money{}, core.ErrAmountOverflow
	}
	return core.Money{Cents: cents}, nil
}

// GetBudget returns the owner's configured budget, or 0.00 when none is set.
// An absent budget is not an error.
func (r *SQLiteRepository) GetBudget(ctx context.Context, ownerID string) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		"SELECT amount_cents FROM budgets WHERE owner_id = ?", ownerID,
	).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("get budget: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SetBudget upserts the owner's monthly budget.
func (r *SQLiteRepository) SetBudget(ctx context.Context, ownerID string, amount core.Money) error {
	if amount.Cents < 0 {
		return core.ErrInvalidAmount
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (owner_id, amount_cents, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (owner_id) DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = excluded.updated_at`,
		ownerID, amount.Cents, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

const selectAccountCols = "SELECT id, owner_id, name, type, balance_cents, is_default, created_at FROM accounts"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (core.Account, error) {
	var (
		a         core.Account
		typ       string
		isDefault int
		createdAt int64
	)
	err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &typ, &a.Balance.Cents, &isDefault, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	a.Type = core.AccountType(typ)
	a.IsDefault = isDefault == 1
	a.CreatedAt = time.UnixMilli(createdAt).UTC()
	return a, nil
}

// checkDefaultInvariant re-reads the owner's rows inside the mutating
// transaction. Any state other than exactly one default (for an owner with
// accounts) aborts the transaction; the partial unique index in the schema
// is the last line of defense below this.
func checkDefaultInvariant(ctx context.Context, tx *sql.Tx, ownerID string) error {
	var total, defaults int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_default), 0) FROM accounts WHERE owner_id = ?`,
		ownerID,
	).Scan(&total, &defaults); err != nil {
		return fmt.Errorf("recheck default invariant: %w", err)
	}
	if total > 0 && defaults != 1 {
		return fmt.Errorf("%w: owner %s has %d default accounts", core.ErrInvariantViolation, ownerID, defaults)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
