package pgrepo

import (
	"context"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
)

type AuditLogRepository struct {
	conn uow.DBTX
}

func NewAuditLogRepository(conn uow.DBTX) *AuditLogRepository {
	return &AuditLogRepository{conn: conn}
}

func (a *AuditLogRepository) Create(ctx context.Context, args repoargs.CreateAuditLog) error {
	_, err := a.conn.Exec(ctx, `INSERT INTO audit_logs (user_id, action, entity, entity_id, ip_address, user_agent,
		details) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		args.UserID, string(args.Action), args.Entity, args.EntityID, args.IPAddress, args.UserAgent, args.Details)
	if err != nil {
		return convertErr(err, "creating audit log %s", args.Action)
	}
	return nil
}

func (a *AuditLogRepository) List(ctx context.Context, filter repoargs.AuditFilter) ([]domain.AuditLog, int64, error) {
	w := new(whereBuilder)
	if filter.Action != "" {
		w.add("action = ?", filter.Action)
	}
	if filter.Entity != "" {
		w.add("entity = ?", filter.Entity)
	}
	if filter.UserID != nil {
		w.add("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := a.conn.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, convertErr(err, "counting audit logs")
	}

	limitSQL, args := w.paginate(filter.Page)
	rows, err := a.conn.Query(ctx, `SELECT id, created_at, user_id, action, entity, entity_id, ip_address,
		user_agent, details FROM audit_logs`+w.sql()+` ORDER BY created_at DESC, id DESC`+limitSQL, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing audit logs")
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if scanErr := rows.Scan(&l.ID, &l.CreatedAt, &l.UserID, &l.Action, &l.Entity, &l.EntityID, &l.IPAddress,
			&l.UserAgent, &l.Details); scanErr != nil {
			return nil, 0, convertErr(scanErr, "scanning audit log")
		}
		logs = append(logs, l)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, convertErr(rowsErr, "listing audit logs")
	}
	return logs, total, nil
}
