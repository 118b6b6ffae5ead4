package pgrepo

import (
	"fmt"
	"strings"

	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// rowScanner общий интерфейс pgx.Row и pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// pageBounds нормализует параметры пагинации.
func pageBounds(p repoargs.Page) (uint, uint) {
	limit := p.Limit
	if limit == 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return limit, p.Offset
}

// whereBuilder накапливает условия WHERE и позиционные аргументы запроса.
type whereBuilder struct {
	conds []string
	args  []any
}

// add добавляет условие. Все плейсхолдеры `?` в cond ссылаются на один и тот же аргумент arg.
func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// paginate дописывает LIMIT/OFFSET и возвращает итоговые аргументы.
func (w *whereBuilder) paginate(p repoargs.Page) (string, []any) {
	limit, offset := pageBounds(p)
	args := append(append([]any{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

// setBuilder собирает SET часть UPDATE для частичных обновлений.
type setBuilder struct {
	sets []string
	args []any
}

func (s *setBuilder) set(column string, value any) {
	s.args = append(s.args, value)
	s.sets = append(s.sets, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setBuilder) empty() bool {
	return len(s.sets) == 0
}

// build возвращает SET выражение (вместе с updated_at) и аргументы, где последним идет id записи.
func (s *setBuilder) build(id int64) (string, []any, int) {
	args := append(append([]any{}, s.args...), id)
	return strings.Join(append(s.sets, "updated_at = NOW()"), ", "), args, len(args)
}
