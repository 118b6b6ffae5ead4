package pgrepo

import (
	"context"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
)

const commissionColumns = `c.id, c.created_at, c.updated_at, c.affiliate_id, c.order_id, o.order_number,
	c.order_total, c.commission_rate, c.amount, c.status, c.paid_at`

type CommissionRepository struct {
	conn uow.DBTX
}

func NewCommissionRepository(conn uow.DBTX) *CommissionRepository {
	return &CommissionRepository{conn: conn}
}

// Create создает комиссию по заказу. Повторная комиссия по тому же заказу дает domain.ErrDuplicateKey.
func (c *CommissionRepository) Create(ctx context.Context, args repoargs.CreateCommission) (*domain.Commission, error) {
	var id int64
	err := c.conn.QueryRow(ctx, `INSERT INTO commissions (affiliate_id, order_id, order_total, commission_rate,
		amount) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		args.AffiliateID, args.OrderID, args.OrderTotal, args.CommissionRate, args.Amount,
	).Scan(&id)
	if err != nil {
		return nil, convertErr(err, "creating commission for order %d", args.OrderID)
	}
	return c.findBy(ctx, "c.id = $1", id)
}

func (c *CommissionRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Commission, error) {
	return c.findBy(ctx, "c.id = $1 FOR UPDATE OF c", id)
}

func (c *CommissionRepository) FindByOrderIDForUpdate(ctx context.Context, orderID int64) (*domain.Commission, error) {
	return c.findBy(ctx, "c.order_id = $1 FOR UPDATE OF c", orderID)
}

func (c *CommissionRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status domain.CommissionStatusType,
) (*domain.Commission, error) {
	_, err := c.conn.Exec(ctx, `UPDATE commissions SET status = $2, updated_at = NOW(),
		paid_at = CASE WHEN $2 = 'PAID' THEN NOW() ELSE paid_at END
		WHERE id = $1`, id, status)
	if err != nil {
		return nil, convertErr(err, "updating status of commission %d", id)
	}
	return c.findBy(ctx, "c.id = $1", id)
}

// ListByAffiliate возвращает комиссии аффилиата, новые первыми.
func (c *CommissionRepository) ListByAffiliate(
	ctx context.Context,
	affiliateID int64,
	page repoargs.Page,
) ([]domain.Commission, error) {
	limit, offset := pageBounds(page)
	rows, err := c.conn.Query(ctx, `SELECT `+commissionColumns+` FROM commissions c
		JOIN orders o ON o.id = c.order_id
		WHERE c.affiliate_id = $1 ORDER BY c.created_at DESC, c.id DESC LIMIT $2 OFFSET $3`,
		affiliateID, limit, offset)
	if err != nil {
		return nil, convertErr(err, "listing commissions of %d", affiliateID)
	}
	defer rows.Close()

	var commissions []domain.Commission
	for rows.Next() {
		commission, scanErr := scanCommission(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning commission")
		}
		commissions = append(commissions, *commission)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing commissions of %d", affiliateID)
	}
	return commissions, nil
}

func (c *CommissionRepository) findBy(ctx context.Context, cond string, arg any) (*domain.Commission, error) {
	commission, err := scanCommission(c.conn.QueryRow(ctx, `SELECT `+commissionColumns+` FROM commissions c
		JOIN orders o ON o.id = c.order_id WHERE `+cond, arg))
	if err != nil {
		return nil, convertErr(err, "finding commission by %v", arg)
	}
	return commission, nil
}

func scanCommission(row rowScanner) (*domain.Commission, error) {
	var c domain.Commission
	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.AffiliateID, &c.OrderID, &c.OrderNumber, &c.OrderTotal,
		&c.CommissionRate, &c.Amount, &c.Status, &c.PaidAt)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &c, nil
}
