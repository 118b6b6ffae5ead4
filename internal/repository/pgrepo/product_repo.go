package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const productColumns = `id, created_at, updated_at, name, slug, description, provider, price_usd, price_pen, stock,
	sold, category, delivery_type, status, featured, image, meta_title, meta_description`

type ProductRepository struct {
	conn uow.DBTX
}

func NewProductRepository(conn uow.DBTX) *ProductRepository {
	return &ProductRepository{conn: conn}
}

// Create создает продукт. Повтор slug дает domain.ErrDuplicateKey.
func (p *ProductRepository) Create(ctx context.Context, args repoargs.CreateProduct) (*domain.Product, error) {
	product, err := scanProduct(p.conn.QueryRow(ctx, `INSERT INTO products (name, slug, description, provider,
		price_usd, price_pen, category, delivery_type, status, featured, image, meta_title, meta_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+productColumns,
		args.Name, args.Slug, args.Description, args.Provider, args.PriceUSD, args.PricePEN, args.Category,
		args.DeliveryType, args.Status, args.Featured, args.Image, args.MetaTitle, args.MetaDescription,
	))
	if err != nil {
		return nil, convertErr(err, "creating product %s", args.Slug)
	}
	return product, nil
}

func (p *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := scanProduct(p.conn.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, convertErr(err, "finding product %d", id)
	}
	return product, nil
}

func (p *ProductRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := scanProduct(p.conn.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
	if err != nil {
		return nil, convertErr(err, "finding product by slug %s", slug)
	}
	return product, nil
}

func (p *ProductRepository) List(ctx context.Context, filter repoargs.ProductFilter) ([]domain.Product, int64, error) {
	w := new(whereBuilder)
	if filter.Status != nil {
		w.add("status = ?", *filter.Status)
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.Featured != nil {
		w.add("featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		w.add("(name ILIKE ? OR provider ILIKE ? OR description ILIKE ?)", "%"+filter.Search+"%")
	}

	var total int64
	if err := p.conn.QueryRow(ctx, `SELECT COUNT(*) FROM products`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, convertErr(err, "counting products")
	}

	limitSQL, args := w.paginate(filter.Page)
	rows, err := p.conn.Query(ctx, `SELECT `+productColumns+` FROM products`+w.sql()+
		` ORDER BY featured DESC, created_at DESC, id DESC`+limitSQL, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, 0, convertErr(scanErr, "scanning product")
		}
		products = append(products, *product)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, convertErr(rowsErr, "listing products")
	}
	return products, total, nil
}

func (p *ProductRepository) Update(ctx context.Context, id int64, upd repoargs.UpdateProduct) (*domain.Product, error) {
	var s setBuilder
	if upd.Name != nil {
		s.set("name", *upd.Name)
	}
	if upd.Description != nil {
		s.set("description", *upd.Description)
	}
	if upd.Provider != nil {
		s.set("provider", *upd.Provider)
	}
	if upd.PriceUSD != nil {
		s.set("price_usd", *upd.PriceUSD)
	}
	if upd.PricePEN != nil {
		s.set("price_pen", *upd.PricePEN)
	}
	if upd.Category != nil {
		s.set("category", *upd.Category)
	}
	if upd.DeliveryType != nil {
		s.set("delivery_type", *upd.DeliveryType)
	}
	if upd.Status != nil {
		s.set("status", *upd.Status)
	}
	if upd.Featured != nil {
		s.set("featured", *upd.Featured)
	}
	if upd.Image != nil {
		s.set("image", *upd.Image)
	}
	if upd.MetaTitle != nil {
		s.set("meta_title", *upd.MetaTitle)
	}
	if upd.MetaDescription != nil {
		s.set("meta_description", *upd.MetaDescription)
	}
	if s.empty() {
		return p.FindByID(ctx, id)
	}

	setSQL, args, idPos := s.build(id)
	product, err := scanProduct(p.conn.QueryRow(ctx,
		fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING `+productColumns, setSQL, idPos), args...))
	if err != nil {
		return nil, convertErr(err, "updating product %d", id)
	}
	return product, nil
}

// Delete удаляет продукт. Продукты из существующих заказов удалить нельзя (domain.ErrForeignKeyViolation).
func (p *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := p.conn.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting product %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting product %d", id)
	}
	return nil
}

// ReserveStock атомарно уменьшает остаток активного продукта на qty и увеличивает счетчик продаж.
// Если продукт неактивен или остатка не хватает, вернется domain.ErrOutOfStock.
func (p *ProductRepository) ReserveStock(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	product, err := scanProduct(p.conn.QueryRow(ctx, `UPDATE products
		SET stock = stock - $2, sold = sold + $2, updated_at = NOW()
		WHERE id = $1 AND status = 'ACTIVE' AND stock >= $2
		RETURNING `+productColumns, id, qty))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("[repository/reserving %d of product %d] %w", qty, id, domain.ErrOutOfStock)
		}
		return nil, convertErr(err, "reserving %d of product %d", qty, id)
	}
	return product, nil
}

// ReleaseStock возвращает qty единиц на склад, например при отмене заказа.
func (p *ProductRepository) ReleaseStock(ctx context.Context, id int64, qty int) error {
	_, err := p.conn.Exec(ctx, `UPDATE products
		SET stock = stock + $2, sold = GREATEST(sold - $2, 0), updated_at = NOW() WHERE id = $1`, id, qty)
	if err != nil {
		return convertErr(err, "releasing %d of product %d", qty, id)
	}
	return nil
}

func (p *ProductRepository) IncreaseStock(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	product, err := scanProduct(p.conn.QueryRow(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1 RETURNING `+productColumns,
		id, qty))
	if err != nil {
		return nil, convertErr(err, "increasing stock of product %d", id)
	}
	return product, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Name, &p.Slug, &p.Description, &p.Provider, &p.PriceUSD,
		&p.PricePEN, &p.Stock, &p.Sold, &p.Category, &p.DeliveryType, &p.Status, &p.Featured, &p.Image,
		&p.MetaTitle, &p.MetaDescription)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &p, nil
}
