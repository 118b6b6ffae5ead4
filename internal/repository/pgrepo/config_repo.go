package pgrepo

import (
	"context"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
)

type SystemConfigRepository struct {
	conn uow.DBTX
}

func NewSystemConfigRepository(conn uow.DBTX) *SystemConfigRepository {
	return &SystemConfigRepository{conn: conn}
}

func (s *SystemConfigRepository) List(ctx context.Context) ([]domain.SystemConfig, error) {
	rows, err := s.conn.Query(ctx, `SELECT key, value, description, updated_at FROM system_configs ORDER BY key`)
	if err != nil {
		return nil, convertErr(err, "listing system configs")
	}
	defer rows.Close()

	var configs []domain.SystemConfig
	for rows.Next() {
		var c domain.SystemConfig
		if scanErr := rows.Scan(&c.Key, &c.Value, &c.Description, &c.UpdatedAt); scanErr != nil {
			return nil, convertErr(scanErr, "scanning system config")
		}
		configs = append(configs, c)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing system configs")
	}
	return configs, nil
}

func (s *SystemConfigRepository) Get(ctx context.Context, key string) (*domain.SystemConfig, error) {
	var c domain.SystemConfig
	err := s.conn.QueryRow(ctx, `SELECT key, value, description, updated_at FROM system_configs WHERE key = $1`,
		key).Scan(&c.Key, &c.Value, &c.Description, &c.UpdatedAt)
	if err != nil {
		return nil, convertErr(err, "getting system config %s", key)
	}
	return &c, nil
}

// Update меняет значение существующего ключа. Неизвестный ключ дает domain.ErrRecordNotFound.
func (s *SystemConfigRepository) Update(ctx context.Context, key, value string) (*domain.SystemConfig, error) {
	var c domain.SystemConfig
	err := s.conn.QueryRow(ctx, `UPDATE system_configs SET value = $2, updated_at = NOW() WHERE key = $1
		RETURNING key, value, description, updated_at`, key, value).
		Scan(&c.Key, &c.Value, &c.Description, &c.UpdatedAt)
	if err != nil {
		return nil, convertErr(err, "updating system config %s", key)
	}
	return &c, nil
}

// Upsert создает ключ или перезаписывает его значение. Используется при наполнении базы.
func (s *SystemConfigRepository) Upsert(ctx context.Context, key, value, description string) error {
	_, err := s.conn.Exec(ctx, `INSERT INTO system_configs (key, value, description) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, description = EXCLUDED.description,
		updated_at = NOW()`, key, value, description)
	if err != nil {
		return convertErr(err, "upserting system config %s", key)
	}
	return nil
}
