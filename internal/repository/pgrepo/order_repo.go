package pgrepo

import (
	"context"
	"fmt"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	orderColumns = `o.id, o.created_at, o.updated_at, o.order_number, o.user_id, o.subtotal, o.discount, o.total,
	o.status, o.payment_status, o.affiliate_id, o.commission_amount, o.commission_paid, o.paid_at, o.completed_at,
	o.cancelled_at, u.id, u.name, u.email`
	orderFrom       = ` FROM orders o JOIN users u ON u.id = o.user_id`
	orderItemColumn = `id, order_id, product_id, quantity, price_usd, price_pen, subtotal, product_name,
	product_provider, delivery_type, delivered, delivered_at`
)

type OrderRepository struct {
	conn uow.DBTX
}

func NewOrderRepository(conn uow.DBTX) *OrderRepository {
	return &OrderRepository{conn: conn}
}

// NextNumberSeq увеличивает и возвращает счетчик заказов за год year.
func (o *OrderRepository) NextNumberSeq(ctx context.Context, year int) (int, error) {
	var seq int
	err := o.conn.QueryRow(ctx, `INSERT INTO order_counters (year, value) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET value = order_counters.value + 1
		RETURNING value`, year).Scan(&seq)
	if err != nil {
		return 0, convertErr(err, "next order number for %d", year)
	}
	return seq, nil
}

func (o *OrderRepository) CreateOrder(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	var id int64
	err := o.conn.QueryRow(ctx, `INSERT INTO orders (order_number, user_id, subtotal, discount, total, status,
		payment_status, paid_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		args.OrderNumber, args.UserID, args.Subtotal, args.Discount, args.Total, args.Status, args.PaymentStatus,
		args.PaidAt,
	).Scan(&id)
	if err != nil {
		return nil, convertErr(err, "creating order %s", args.OrderNumber)
	}
	return o.FindByID(ctx, id)
}

// BatchCreateItems создает позиции заказа батч запросом. fn вызывается для каждой позиции с результатом вставки.
func (o *OrderRepository) BatchCreateItems(
	ctx context.Context,
	orderID int64,
	items []repoargs.CreateOrderItem,
	fn repoargs.OrderBatchQueryRow,
) {
	batch := new(pgx.Batch)
	for _, item := range items {
		batch.Queue(`INSERT INTO order_items (order_id, product_id, quantity, price_usd, price_pen, subtotal,
			product_name, product_provider, delivery_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+orderItemColumn,
			orderID, item.ProductID, item.Quantity, item.PriceUSD, item.PricePEN, item.Subtotal, item.ProductName,
			item.ProductProvider, item.DeliveryType)
	}
	br := o.conn.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()

	for i := range items {
		item, err := scanOrderItem(br.QueryRow())
		if err != nil {
			fn(i, nil, convertErr(err, "creating item for order %d", orderID))
			continue
		}
		fn(i, item, nil)
	}
}

func (o *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(o.conn.QueryRow(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, convertErr(err, "finding order %d", id)
	}
	return order, nil
}

// FindByIDForUpdate блокирует заказ до конца транзакции.
func (o *OrderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(o.conn.QueryRow(ctx,
		`SELECT `+orderColumns+orderFrom+` WHERE o.id = $1 FOR UPDATE OF o`, id))
	if err != nil {
		return nil, convertErr(err, "locking order %d", id)
	}
	return order, nil
}

// Items возвращает позиции заказа в порядке создания.
func (o *OrderRepository) Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := o.conn.Query(ctx,
		`SELECT `+orderItemColumn+` FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, convertErr(err, "getting items of order %d", orderID)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		item, scanErr := scanOrderItem(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning order item")
		}
		items = append(items, *item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting items of order %d", orderID)
	}
	return items, nil
}

func (o *OrderRepository) FindItemForUpdate(ctx context.Context, orderID, itemID int64) (*domain.OrderItem, error) {
	item, err := scanOrderItem(o.conn.QueryRow(ctx, `SELECT `+orderItemColumn+` FROM order_items
		WHERE id = $1 AND order_id = $2 FOR UPDATE`, itemID, orderID))
	if err != nil {
		return nil, convertErr(err, "locking item %d of order %d", itemID, orderID)
	}
	return item, nil
}

func (o *OrderRepository) MarkItemDelivered(ctx context.Context, itemID int64) error {
	_, err := o.conn.Exec(ctx,
		`UPDATE order_items SET delivered = TRUE, delivered_at = NOW() WHERE id = $1`, itemID)
	if err != nil {
		return convertErr(err, "marking item %d delivered", itemID)
	}
	return nil
}

func (o *OrderRepository) List(ctx context.Context, filter repoargs.OrderFilter) ([]domain.Order, int64, error) {
	w := new(whereBuilder)
	if filter.UserID != nil {
		w.add("o.user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		w.add("o.status = ?", *filter.Status)
	}
	if filter.Search != "" {
		w.add("(o.order_number ILIKE ? OR u.email ILIKE ?)", "%"+filter.Search+"%")
	}

	var total int64
	if err := o.conn.QueryRow(ctx, `SELECT COUNT(*)`+orderFrom+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, convertErr(err, "counting orders")
	}

	limitSQL, args := w.paginate(filter.Page)
	rows, err := o.conn.Query(ctx,
		`SELECT `+orderColumns+orderFrom+w.sql()+` ORDER BY o.created_at DESC, o.id DESC`+limitSQL, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing orders")
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, 0, convertErr(scanErr, "scanning order")
		}
		orders = append(orders, *order)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, convertErr(rowsErr, "listing orders")
	}
	return orders, total, nil
}

// UpdateStatus меняет статус заказа и проставляет соответствующую временную метку.
func (o *OrderRepository) UpdateStatus(ctx context.Context, args repoargs.UpdateOrderStatus) error {
	var s setBuilder
	s.set("status", args.Status)
	if args.PaymentStatus != nil {
		s.set("payment_status", *args.PaymentStatus)
	}
	setSQL, params, idPos := s.build(args.ID)
	switch args.Status {
	case domain.OrderStatusCompleted:
		setSQL += ", completed_at = NOW()"
	case domain.OrderStatusCancelled:
		setSQL += ", cancelled_at = NOW()"
	}

	tag, err := o.conn.Exec(ctx, fmt.Sprintf(`UPDATE orders SET %s WHERE id = $%d`, setSQL, idPos), params...)
	if err != nil {
		return convertErr(err, "updating status of order %d", args.ID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating status of order %d", args.ID)
	}
	return nil
}

func (o *OrderRepository) SetCommission(ctx context.Context, orderID, affiliateID int64, amount decimal.Decimal) error {
	_, err := o.conn.Exec(ctx, `UPDATE orders SET affiliate_id = $2, commission_amount = $3, updated_at = NOW()
		WHERE id = $1`, orderID, affiliateID, amount)
	if err != nil {
		return convertErr(err, "setting commission of order %d", orderID)
	}
	return nil
}

func (o *OrderRepository) MarkCommissionPaid(ctx context.Context, orderID int64) error {
	_, err := o.conn.Exec(ctx,
		`UPDATE orders SET commission_paid = TRUE, updated_at = NOW() WHERE id = $1`, orderID)
	if err != nil {
		return convertErr(err, "marking commission of order %d paid", orderID)
	}
	return nil
}

// GetForAutoDelivery возвращает id заказов в статусе PROCESSING, у которых есть невыданные автоматические
// позиции со свободными доступами на складе.
func (o *OrderRepository) GetForAutoDelivery(ctx context.Context, limit uint) ([]int64, error) {
	rows, err := o.conn.Query(ctx, `SELECT o.id FROM orders o
		WHERE o.status = 'PROCESSING'
		  AND EXISTS (
			SELECT 1 FROM order_items i
			WHERE i.order_id = o.id
			  AND i.delivered = FALSE
			  AND i.delivery_type = 'AUTOMATIC'
			  AND EXISTS (
				SELECT 1 FROM product_credentials c WHERE c.product_id = i.product_id AND c.order_item_id IS NULL
			  )
		  )
		ORDER BY o.created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, convertErr(err, "getting orders for auto delivery")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, convertErr(scanErr, "scanning order id")
		}
		ids = append(ids, id)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting orders for auto delivery")
	}
	return ids, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var u domain.UserSummary
	err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt, &o.OrderNumber, &o.UserID, &o.Subtotal, &o.Discount,
		&o.Total, &o.Status, &o.PaymentStatus, &o.AffiliateID, &o.CommissionAmount, &o.CommissionPaid, &o.PaidAt,
		&o.CompletedAt, &o.CancelledAt, &u.ID, &u.Name, &u.Email)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	o.User = &u
	return &o, nil
}

func scanOrderItem(row rowScanner) (*domain.OrderItem, error) {
	var i domain.OrderItem
	err := row.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.PriceUSD, &i.PricePEN, &i.Subtotal,
		&i.ProductName, &i.ProductProvider, &i.DeliveryType, &i.Delivered, &i.DeliveredAt)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &i, nil
}
