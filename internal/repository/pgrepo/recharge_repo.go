package pgrepo

import (
	"context"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
)

const (
	rechargeColumns = `r.id, r.created_at, r.updated_at, r.user_id, r.amount, r.status, r.payment_method,
	r.payment_reference, r.payment_proof, r.approved_by, r.approved_at, r.rejected_at, r.rejection_reason,
	r.notification_sent, r.notification_at, u.id, u.name, u.email`
	rechargeFrom = ` FROM recharges r JOIN users u ON u.id = r.user_id`
)

type RechargeRepository struct {
	conn uow.DBTX
}

func NewRechargeRepository(conn uow.DBTX) *RechargeRepository {
	return &RechargeRepository{conn: conn}
}

func (r *RechargeRepository) Create(ctx context.Context, args repoargs.CreateRecharge) (*domain.Recharge, error) {
	var id int64
	err := r.conn.QueryRow(ctx, `INSERT INTO recharges (user_id, amount, payment_method, payment_reference,
		payment_proof) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		args.UserID, args.Amount, args.PaymentMethod, args.PaymentReference, args.PaymentProof,
	).Scan(&id)
	if err != nil {
		return nil, convertErr(err, "creating recharge for user %d", args.UserID)
	}
	return r.FindByID(ctx, id)
}

func (r *RechargeRepository) FindByID(ctx context.Context, id int64) (*domain.Recharge, error) {
	recharge, err := scanRecharge(r.conn.QueryRow(ctx, `SELECT `+rechargeColumns+rechargeFrom+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, convertErr(err, "finding recharge %d", id)
	}
	return recharge, nil
}

func (r *RechargeRepository) List(ctx context.Context, filter repoargs.RechargeFilter) ([]domain.Recharge, int64, error) {
	w := new(whereBuilder)
	if filter.UserID != nil {
		w.add("r.user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		w.add("r.status = ?", *filter.Status)
	}

	var total int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*)`+rechargeFrom+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, convertErr(err, "counting recharges")
	}

	limitSQL, args := w.paginate(filter.Page)
	rows, err := r.conn.Query(ctx,
		`SELECT `+rechargeColumns+rechargeFrom+w.sql()+` ORDER BY r.created_at DESC, r.id DESC`+limitSQL, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing recharges")
	}
	defer rows.Close()

	var recharges []domain.Recharge
	for rows.Next() {
		recharge, scanErr := scanRecharge(rows)
		if scanErr != nil {
			return nil, 0, convertErr(scanErr, "scanning recharge")
		}
		recharges = append(recharges, *recharge)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, convertErr(rowsErr, "listing recharges")
	}
	return recharges, total, nil
}

// Approve переводит PENDING пополнение в APPROVED. Условное обновление гарантирует единственное одобрение:
// если пополнение уже обработано, вернется domain.ErrRecordNotFound.
func (r *RechargeRepository) Approve(ctx context.Context, id, adminID int64) (*domain.Recharge, error) {
	var updatedID int64
	err := r.conn.QueryRow(ctx, `UPDATE recharges
		SET status = 'APPROVED', approved_by = $2, approved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING' RETURNING id`, id, adminID).Scan(&updatedID)
	if err != nil {
		return nil, convertErr(err, "approving recharge %d", id)
	}
	return r.FindByID(ctx, updatedID)
}

// Reject отклоняет PENDING пополнение. Для уже обработанного пополнения вернется domain.ErrRecordNotFound.
func (r *RechargeRepository) Reject(ctx context.Context, id int64, reason string) (*domain.Recharge, error) {
	var updatedID int64
	err := r.conn.QueryRow(ctx, `UPDATE recharges
		SET status = 'REJECTED', rejected_at = NOW(), rejection_reason = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING' RETURNING id`, id, reason).Scan(&updatedID)
	if err != nil {
		return nil, convertErr(err, "rejecting recharge %d", id)
	}
	return r.FindByID(ctx, updatedID)
}

func (r *RechargeRepository) MarkNotified(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE recharges SET notification_sent = TRUE, notification_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "marking recharge %d notified", id)
	}
	return nil
}

func scanRecharge(row rowScanner) (*domain.Recharge, error) {
	var r domain.Recharge
	var u domain.UserSummary
	err := row.Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &r.UserID, &r.Amount, &r.Status, &r.PaymentMethod,
		&r.PaymentReference, &r.PaymentProof, &r.ApprovedBy, &r.ApprovedAt, &r.RejectedAt, &r.RejectionReason,
		&r.NotificationSent, &r.NotificationAt, &u.ID, &u.Name, &u.Email)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	r.User = &u
	return &r, nil
}
