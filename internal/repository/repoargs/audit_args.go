package repoargs

import "github.com/fsdevblog/luffy-streaming/internal/domain"

type CreateAuditLog struct {
	UserID    *int64
	Action    domain.AuditAction
	Entity    string
	EntityID  *int64
	IPAddress string
	UserAgent string
	Details   map[string]any
}

type AuditFilter struct {
	Action string
	Entity string
	UserID *int64
	Page
}
