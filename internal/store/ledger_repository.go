package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/models"
)

// ledgerRepository is the SQLite-backed [Ledger] implementation.
type ledgerRepository struct {
	db     *DB
	sb     sq.StatementBuilderType
	logger *logger.Logger
}

// NewLedgerRepository constructs a [Ledger] over the given database handle.
func NewLedgerRepository(db *DB, log *logger.Logger) Ledger {
	return &ledgerRepository{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger: log,
	}
}

// Snapshot implements [Ledger]. The three reads run inside one read-only
// transaction so accounts, items, and transaction keys describe the same
// ledger state.
func (r *ledgerRepository) Snapshot(ctx context.Context) (models.LedgerSnapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return models.LedgerSnapshot{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	accounts, err := r.readAccounts(ctx, tx)
	if err != nil {
		return models.LedgerSnapshot{}, err
	}

	items, err := r.readItems(ctx, tx)
	if err != nil {
		return models.LedgerSnapshot{}, err
	}

	keys, err := r.readTransactionKeys(ctx, tx)
	if err != nil {
		return models.LedgerSnapshot{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.LedgerSnapshot{}, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return models.LedgerSnapshot{
		Accounts:        accounts,
		Items:           items,
		TransactionKeys: keys,
	}, nil
}

func (r *ledgerRepository) readAccounts(ctx context.Context, tx *sql.Tx) (map[string]models.Account, error) {
	query, args, err := r.sb.
		Select("id", "name", "type", "balance", "currency", "created_at", "updated_at").
		From("accounts").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	accounts := make(map[string]models.Account)
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Balance, &a.Currency, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		accounts[a.ID] = a
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return accounts, nil
}

func (r *ledgerRepository) readItems(ctx context.Context, tx *sql.Tx) ([]models.Item, error) {
	query, args, err := r.sb.
		Select("id", "name", "COALESCE(brand, '')", "created_at", "updated_at").
		From("items").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var i models.Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Brand, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		items = append(items, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}

func (r *ledgerRepository) readTransactionKeys(ctx context.Context, tx *sql.Tx) (map[string]struct{}, error) {
	query, args, err := r.sb.
		Select("account_id", "amount", "date", "details").
		From("transactions").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.AccountID, &t.Amount, &t.Date, &t.Details); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		keys[t.NaturalKey()] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return keys, nil
}

// ApplyMerge implements [Ledger]. Item creations, transaction inserts, item
// refs, and balance adjustments all run in one transaction; the deferred
// rollback undoes everything if any statement fails.
func (r *ledgerRepository) ApplyMerge(ctx context.Context, plan models.MergePlan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()

	for _, item := range plan.NewItems {
		if err := r.insertItem(ctx, tx, item, now); err != nil {
			return err
		}
	}

	for _, transaction := range plan.Transactions {
		if err := r.insertTransaction(ctx, tx, transaction); err != nil {
			return err
		}

		if delta := balanceDelta(transaction); delta != 0 {
			if err := r.adjustBalance(ctx, tx, transaction.AccountID, delta, now); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return nil
}

func (r *ledgerRepository) insertItem(ctx context.Context, tx *sql.Tx, item models.Item, now int64) error {
	createdAt, updatedAt := item.CreatedAt, item.UpdatedAt
	if createdAt == 0 {
		createdAt = now
	}
	if updatedAt == 0 {
		updatedAt = now
	}

	query, args, err := r.sb.
		Insert("items").
		Columns("id", "name", "brand", "created_at", "updated_at").
		Values(item.ID, item.Name, nullable(item.Brand), createdAt, updatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *ledgerRepository) insertTransaction(ctx context.Context, tx *sql.Tx, transaction models.Transaction) error {
	query, args, err := r.sb.
		Insert("transactions").
		Columns("id", "amount", "date", "created_at", "updated_at", "details", "type",
			"affects_balance", "account_id", "category", "store_name", "extra_details").
		Values(transaction.ID, transaction.Amount, transaction.Date, transaction.CreatedAt,
			transaction.UpdatedAt, transaction.Details, string(transaction.Type),
			transaction.AffectsBalance, transaction.AccountID, transaction.Category,
			nullable(transaction.StoreName), nullable(transaction.ExtraDetails)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	} else if affected == 0 {
		return fmt.Errorf("%w: transaction %s", ErrMergeNotApplied, transaction.ID)
	}

	for _, ref := range transaction.Items {
		if err := r.insertItemRef(ctx, tx, transaction.ID, ref); err != nil {
			return err
		}
	}

	return nil
}

func (r *ledgerRepository) insertItemRef(ctx context.Context, tx *sql.Tx, transactionID string, ref models.TransactionItemRef) error {
	query, args, err := r.sb.
		Insert("transaction_items").
		Columns("transaction_id", "item_id", "name", "quantity", "price").
		Values(transactionID, nullable(ref.ItemID), ref.Name, ref.Quantity, ref.Price).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *ledgerRepository) adjustBalance(ctx context.Context, tx *sql.Tx, accountID string, delta float64, now int64) error {
	query, args, err := r.sb.
		Update("accounts").
		Set("balance", sq.Expr("balance + ?", delta)).
		Set("updated_at", now).
		Where(sq.Eq{"id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}

	return nil
}

// balanceDelta is the signed effect a merged transaction has on its
// account's balance: income adds, everything else subtracts, and
// transactions flagged as not affecting balance contribute nothing.
func balanceDelta(t models.Transaction) float64 {
	if !t.AffectsBalance {
		return 0
	}
	if t.IsIncome() {
		return t.Amount
	}
	return -t.Amount
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
