package pgrepo

import (
	"context"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/jackc/pgx/v5"
)

type CredentialRepository struct {
	conn uow.DBTX
}

func NewCredentialRepository(conn uow.DBTX) *CredentialRepository {
	return &CredentialRepository{conn: conn}
}

// BatchCreate добавляет доступы к продукту батч запросом. Если передан orderItemID, доступы сразу
// закрепляются за позицией заказа (ручная выдача). fn вызывается для каждой строки батча.
func (c *CredentialRepository) BatchCreate(
	ctx context.Context,
	productID int64,
	secrets []string,
	orderItemID *int64,
	fn repoargs.BatchExecQueryRow,
) {
	batch := new(pgx.Batch)
	for _, secret := range secrets {
		batch.Queue(`INSERT INTO product_credentials (product_id, secret, order_item_id, assigned_at)
			VALUES ($1, $2, $3, CASE WHEN $3::bigint IS NULL THEN NULL ELSE NOW() END)`,
			productID, secret, orderItemID)
	}
	br := c.conn.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()

	for i := range secrets {
		_, err := br.Exec()
		fn(i, convertErr(err, "creating credential for product %d", productID))
	}
}

// ClaimAvailable закрепляет за позицией заказа до limit свободных доступов продукта. Строки, заблокированные
// параллельными транзакциями, пропускаются.
func (c *CredentialRepository) ClaimAvailable(
	ctx context.Context,
	productID, orderItemID int64,
	limit int,
) ([]domain.ProductCredential, error) {
	rows, err := c.conn.Query(ctx, `UPDATE product_credentials SET order_item_id = $2, assigned_at = NOW()
		WHERE id IN (
			SELECT id FROM product_credentials
			WHERE product_id = $1 AND order_item_id IS NULL
			ORDER BY id
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, created_at, product_id, secret, order_item_id, assigned_at`, productID, orderItemID, limit)
	if err != nil {
		return nil, convertErr(err, "claiming credentials of product %d", productID)
	}
	defer rows.Close()

	var creds []domain.ProductCredential
	for rows.Next() {
		var cred domain.ProductCredential
		if scanErr := rows.Scan(&cred.ID, &cred.CreatedAt, &cred.ProductID, &cred.Secret, &cred.OrderItemID,
			&cred.AssignedAt); scanErr != nil {
			return nil, convertErr(scanErr, "scanning credential")
		}
		creds = append(creds, cred)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "claiming credentials of product %d", productID)
	}
	return creds, nil
}

// SecretsByItems возвращает выданные доступы, сгруппированные по id позиции заказа.
func (c *CredentialRepository) SecretsByItems(ctx context.Context, itemIDs []int64) (map[int64][]string, error) {
	res := make(map[int64][]string, len(itemIDs))
	if len(itemIDs) == 0 {
		return res, nil
	}
	rows, err := c.conn.Query(ctx, `SELECT order_item_id, secret FROM product_credentials
		WHERE order_item_id = ANY($1) ORDER BY id`, itemIDs)
	if err != nil {
		return nil, convertErr(err, "getting credentials of items %v", itemIDs)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID int64
		var secret string
		if scanErr := rows.Scan(&itemID, &secret); scanErr != nil {
			return nil, convertErr(scanErr, "scanning credential")
		}
		res[itemID] = append(res[itemID], secret)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting credentials of items %v", itemIDs)
	}
	return res, nil
}

// ReleaseByItems возвращает в пул доступы, закрепленные за позициями itemIDs. Возвращает число освобожденных
// доступов.
func (c *CredentialRepository) ReleaseByItems(ctx context.Context, itemIDs []int64) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	tag, err := c.conn.Exec(ctx, `UPDATE product_credentials SET order_item_id = NULL, assigned_at = NULL
		WHERE order_item_id = ANY($1)`, itemIDs)
	if err != nil {
		return 0, convertErr(err, "releasing credentials of items %v", itemIDs)
	}
	return tag.RowsAffected(), nil
}

// CountAvailable число свободных доступов в пуле продукта.
func (c *CredentialRepository) CountAvailable(ctx context.Context, productID int64) (int64, error) {
	var n int64
	err := c.conn.QueryRow(ctx, `SELECT COUNT(*) FROM product_credentials
		WHERE product_id = $1 AND order_item_id IS NULL`, productID).Scan(&n)
	if err != nil {
		return 0, convertErr(err, "counting credentials of product %d", productID)
	}
	return n, nil
}
