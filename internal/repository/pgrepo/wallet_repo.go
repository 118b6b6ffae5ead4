package pgrepo

import (
	"context"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
)

const walletTransactionColumns = `id, created_at, user_id, direction, kind, amount, balance_after, reference_id`

// WalletTransactionRepository журнал движений по кошельку.
type WalletTransactionRepository struct {
	conn uow.DBTX
}

func NewWalletTransactionRepository(conn uow.DBTX) *WalletTransactionRepository {
	return &WalletTransactionRepository{conn: conn}
}

// Create пишет строку журнала. Повтор (kind, reference_id, direction) дает domain.ErrDuplicateKey.
func (w *WalletTransactionRepository) Create(
	ctx context.Context,
	args repoargs.CreateWalletTransaction,
) (*domain.WalletTransaction, error) {
	t, err := scanWalletTransaction(w.conn.QueryRow(ctx, `INSERT INTO wallet_transactions (user_id, direction,
		kind, amount, balance_after, reference_id) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+walletTransactionColumns,
		args.UserID, args.Direction, args.Kind, args.Amount, args.BalanceAfter, args.ReferenceID,
	))
	if err != nil {
		return nil, convertErr(err, "creating wallet transaction for user %d", args.UserID)
	}
	return t, nil
}

func (w *WalletTransactionRepository) ListByUser(
	ctx context.Context,
	userID int64,
	page repoargs.Page,
) ([]domain.WalletTransaction, int64, error) {
	var total int64
	if err := w.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM wallet_transactions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, convertErr(err, "counting wallet transactions of %d", userID)
	}

	limit, offset := pageBounds(page)
	rows, err := w.conn.Query(ctx, `SELECT `+walletTransactionColumns+` FROM wallet_transactions
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, convertErr(err, "listing wallet transactions of %d", userID)
	}
	defer rows.Close()

	var transactions []domain.WalletTransaction
	for rows.Next() {
		t, scanErr := scanWalletTransaction(rows)
		if scanErr != nil {
			return nil, 0, convertErr(scanErr, "scanning wallet transaction")
		}
		transactions = append(transactions, *t)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, convertErr(rowsErr, "listing wallet transactions of %d", userID)
	}
	return transactions, total, nil
}

func scanWalletTransaction(row rowScanner) (*domain.WalletTransaction, error) {
	var t domain.WalletTransaction
	err := row.Scan(&t.ID, &t.CreatedAt, &t.UserID, &t.Direction, &t.Kind, &t.Amount, &t.BalanceAfter,
		&t.ReferenceID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &t, nil
}
