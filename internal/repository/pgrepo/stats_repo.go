package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
)

type StatsRepository struct {
	conn uow.DBTX
}

func NewStatsRepository(conn uow.DBTX) *StatsRepository {
	return &StatsRepository{conn: conn}
}

// Totals заполняет агрегаты админской панели. Продажи считаются по оплаченным заказам, границы дня и месяца
// берутся от now.
func (s *StatsRepository) Totals(ctx context.Context, now time.Time) (*domain.AdminStats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var st domain.AdminStats
	err := s.conn.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM products),
		(SELECT COUNT(*) FROM orders),
		(SELECT COALESCE(SUM(total), 0) FROM orders WHERE payment_status = 'PAID'),
		(SELECT COUNT(*) FROM recharges WHERE status = 'PENDING'),
		(SELECT COUNT(*) FROM users WHERE role = 'AFFILIATE' AND status = 'ACTIVE'),
		(SELECT COALESCE(SUM(total), 0) FROM orders WHERE payment_status = 'PAID' AND created_at >= $1),
		(SELECT COALESCE(SUM(total), 0) FROM orders WHERE payment_status = 'PAID' AND created_at >= $2)`,
		dayStart, monthStart,
	).Scan(&st.TotalUsers, &st.TotalProducts, &st.TotalOrders, &st.TotalSales, &st.PendingRecharges,
		&st.ActiveAffiliates, &st.TodaySales, &st.MonthSales)
	if err != nil {
		return nil, convertErr(err, "counting admin totals")
	}
	return &st, nil
}

// SalesByMonth возвращает продажи по месяцам начиная с since (включительно), в хронологическом порядке.
// Месяцы без продаж присутствуют с нулевыми значениями.
func (s *StatsRepository) SalesByMonth(ctx context.Context, since time.Time) ([]domain.MonthlySales, error) {
	rows, err := s.conn.Query(ctx, `SELECT to_char(m.month, 'YYYY-MM'),
		COALESCE(SUM(o.total), 0), COUNT(o.id)
		FROM generate_series(date_trunc('month', $1::timestamptz), date_trunc('month', NOW()), '1 month') AS m(month)
		LEFT JOIN orders o ON date_trunc('month', o.created_at) = m.month AND o.payment_status = 'PAID'
		GROUP BY m.month ORDER BY m.month`, since)
	if err != nil {
		return nil, convertErr(err, "sales by month")
	}
	defer rows.Close()

	var res []domain.MonthlySales
	for rows.Next() {
		var m domain.MonthlySales
		if scanErr := rows.Scan(&m.Month, &m.Total, &m.Orders); scanErr != nil {
			return nil, convertErr(scanErr, "scanning monthly sales")
		}
		res = append(res, m)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "sales by month")
	}
	return res, nil
}

// TopProducts возвращает самые продаваемые продукты.
func (s *StatsRepository) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	rows, err := s.conn.Query(ctx, `SELECT id, name, provider, sold, (price_usd * sold)::numeric(12,2)
		FROM products WHERE sold > 0 ORDER BY sold DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, convertErr(err, "top products")
	}
	defer rows.Close()

	var res []domain.TopProduct
	for rows.Next() {
		var p domain.TopProduct
		if scanErr := rows.Scan(&p.ID, &p.Name, &p.Provider, &p.Sold, &p.Revenue); scanErr != nil {
			return nil, convertErr(scanErr, "scanning top product")
		}
		res = append(res, p)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "top products")
	}
	return res, nil
}
