package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const userColumns = `id, created_at, updated_at, email, encrypted_password, name, phone, role, status, wallet,
	referral_code, referred_by, total_commissions, pending_commissions, email_verified_at, last_login_at`

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

// CreateUser создает юзера в базе данных. В случае конфликта email возвращает ошибку domain.ErrDuplicateKey,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `INSERT INTO users (email, encrypted_password, name, phone, role, status,
		referral_code, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		user.Email, user.Password, user.Name, user.Phone, user.Role, user.Status, user.ReferralCode, user.ReferredBy,
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user %s", user.Email)
	}
	return created, nil
}

func (u *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

// FindByIDForUpdate блокирует строку юзера до конца транзакции. Используется при изменении кошелька.
func (u *UserRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, convertErr(err, "locking user %d", id)
	}
	return user, nil
}

// FindByEmail ищет юзера по email без учета регистра.
func (u *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(u.conn.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, convertErr(err, "finding user by email %s", email)
	}
	return user, nil
}

func (u *UserRepository) FindByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	user, err := scanUser(u.conn.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE referral_code = UPPER($1)`, code))
	if err != nil {
		return nil, convertErr(err, "finding user by referral code %s", code)
	}
	return user, nil
}

// NextReferralSeq возвращает следующее значение последовательности реферальных кодов.
func (u *UserRepository) NextReferralSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := u.conn.QueryRow(ctx, `SELECT nextval('referral_code_seq')`).Scan(&seq); err != nil {
		return 0, convertErr(err, "next referral sequence")
	}
	return seq, nil
}

// List возвращает страницу юзеров и общее количество записей, подходящих под фильтр.
func (u *UserRepository) List(ctx context.Context, filter repoargs.UserFilter) ([]domain.User, int64, error) {
	w := userWhere(filter)

	var total int64
	if err := u.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, convertErr(err, "counting users")
	}

	limitSQL, args := w.paginate(filter.Page)
	rows, err := u.conn.Query(ctx,
		`SELECT `+userColumns+` FROM users`+w.sql()+` ORDER BY created_at DESC, id DESC`+limitSQL, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing users")
	}
	users, scanErr := collectUsers(rows)
	if scanErr != nil {
		return nil, 0, convertErr(scanErr, "scanning users")
	}
	return users, total, nil
}

// ListAffiliates возвращает аффилиатов вместе с количеством приглашенных ими юзеров.
func (u *UserRepository) ListAffiliates(
	ctx context.Context,
	filter repoargs.UserFilter,
) ([]domain.AffiliateSummary, int64, error) {
	role := domain.RoleAffiliate
	filter.Role = &role
	w := userWhere(filter)

	var total int64
	if err := u.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, convertErr(err, "counting affiliates")
	}

	limitSQL, args := w.paginate(filter.Page)
	rows, err := u.conn.Query(ctx, `SELECT `+userColumns+`,
		(SELECT COUNT(*) FROM users r WHERE r.referred_by = users.id)
		FROM users`+w.sql()+` ORDER BY created_at DESC, id DESC`+limitSQL, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing affiliates")
	}
	defer rows.Close()

	var affiliates []domain.AffiliateSummary
	for rows.Next() {
		var a domain.AffiliateSummary
		dest := append(userScanDest(&a.User), &a.ReferralCount)
		if scanErr := rows.Scan(dest...); scanErr != nil {
			return nil, 0, convertErr(scanErr, "scanning affiliate")
		}
		affiliates = append(affiliates, a)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, convertErr(rowsErr, "listing affiliates")
	}
	return affiliates, total, nil
}

// ListReferrals возвращает юзеров, зарегистрированных по коду аффилиата referrerID.
func (u *UserRepository) ListReferrals(ctx context.Context, referrerID int64) ([]domain.User, error) {
	rows, err := u.conn.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE referred_by = $1 ORDER BY created_at DESC`, referrerID)
	if err != nil {
		return nil, convertErr(err, "listing referrals of %d", referrerID)
	}
	users, scanErr := collectUsers(rows)
	if scanErr != nil {
		return nil, convertErr(scanErr, "scanning referrals of %d", referrerID)
	}
	return users, nil
}

func (u *UserRepository) Counts(ctx context.Context, id int64) (*domain.UserCounts, error) {
	var counts domain.UserCounts
	err := u.conn.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM orders WHERE user_id = $1),
		(SELECT COUNT(*) FROM users WHERE referred_by = $1)`, id).
		Scan(&counts.Orders, &counts.Referrals)
	if err != nil {
		return nil, convertErr(err, "counting user %d relations", id)
	}
	return &counts, nil
}

// Update частично обновляет юзера. Если обновлять нечего, возвращает текущее состояние записи.
func (u *UserRepository) Update(ctx context.Context, id int64, upd repoargs.UpdateUser) (*domain.User, error) {
	var s setBuilder
	if upd.Name != nil {
		s.set("name", *upd.Name)
	}
	if upd.Phone != nil {
		s.set("phone", *upd.Phone)
	}
	if upd.Role != nil {
		s.set("role", *upd.Role)
	}
	if upd.Status != nil {
		s.set("status", *upd.Status)
	}
	if upd.ReferralCode != nil {
		s.set("referral_code", *upd.ReferralCode)
	}
	if s.empty() {
		return u.FindByID(ctx, id)
	}

	setSQL, args, idPos := s.build(id)
	user, err := scanUser(u.conn.QueryRow(ctx,
		fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns, setSQL, idPos), args...))
	if err != nil {
		return nil, convertErr(err, "updating user %d", id)
	}
	return user, nil
}

// Delete удаляет юзера. Если на юзера ссылаются заказы или пополнения, вернется domain.ErrForeignKeyViolation.
func (u *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := u.conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting user %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting user %d", id)
	}
	return nil
}

func (u *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	if _, err := u.conn.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id); err != nil {
		return convertErr(err, "touching last login of %d", id)
	}
	return nil
}

func (u *UserRepository) SetPassword(ctx context.Context, id int64, encrypted string) error {
	tag, err := u.conn.Exec(ctx,
		`UPDATE users SET encrypted_password = $2, updated_at = NOW() WHERE id = $1`, id, encrypted)
	if err != nil {
		return convertErr(err, "setting password of %d", id)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// CreditWallet увеличивает баланс кошелька и возвращает новое значение.
func (u *UserRepository) CreditWallet(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := u.conn.QueryRow(ctx,
		`UPDATE users SET wallet = wallet + $2, updated_at = NOW() WHERE id = $1 RETURNING wallet`, id, amount).
		Scan(&balance)
	if err != nil {
		return decimal.Zero, convertErr(err, "crediting wallet of %d", id)
	}
	return balance, nil
}

// DebitWallet списывает amount с кошелька, только если средств достаточно. Иначе вернется
// domain.ErrNotEnoughBalance.
func (u *UserRepository) DebitWallet(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := u.conn.QueryRow(ctx, `UPDATE users SET wallet = wallet - $2, updated_at = NOW()
		WHERE id = $1 AND wallet >= $2 RETURNING wallet`, id, amount).
		Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("[repository/debiting wallet of %d] %w", id, domain.ErrNotEnoughBalance)
		}
		return decimal.Zero, convertErr(err, "debiting wallet of %d", id)
	}
	return balance, nil
}

// AdjustCommissions сдвигает счетчики комиссий аффилиата на переданные значения (могут быть отрицательными).
func (u *UserRepository) AdjustCommissions(ctx context.Context, id int64, pending, total decimal.Decimal) error {
	_, err := u.conn.Exec(ctx, `UPDATE users SET pending_commissions = pending_commissions + $2,
		total_commissions = total_commissions + $3, updated_at = NOW() WHERE id = $1`, id, pending, total)
	if err != nil {
		return convertErr(err, "adjusting commissions of %d", id)
	}
	return nil
}

func userWhere(filter repoargs.UserFilter) *whereBuilder {
	w := new(whereBuilder)
	if filter.Role != nil {
		w.add("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		w.add("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		w.add("(name ILIKE ? OR email ILIKE ?)", "%"+filter.Search+"%")
	}
	return w
}

func userScanDest(user *domain.User) []any {
	return []any{
		&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Email, &user.EncryptedPassword, &user.Name, &user.Phone,
		&user.Role, &user.Status, &user.Wallet, &user.ReferralCode, &user.ReferredBy, &user.TotalCommissions,
		&user.PendingCommissions, &user.EmailVerifiedAt, &user.LastLoginAt,
	}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(userScanDest(&user)...); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &user, nil
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	defer rows.Close()
	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err() //nolint:wrapcheck
}
