package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service/tokens"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/sirupsen/logrus"
)

const DefaultJWTTokenExpire = 7 * 24 * time.Hour

// AuthOptions параметры выпуска сессионных токенов.
type AuthOptions struct {
	Secret []byte
	TTL    time.Duration
}

type UserService struct {
	uow        uow.UOW
	userRepo   UserRepository
	orderRepo  OrderRepository
	hasher     PasswordHasher
	guard      loginGuard
	auth       AuthOptions
	eventsSink eventSink
}

func NewUserService(
	u uow.UOW,
	hasher PasswordHasher,
	attempts LoginAttemptStore,
	auth AuthOptions,
	l *logrus.Logger,
) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}
	orderRepo, orderRepoErr := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, orderRepoErr //nolint:wrapcheck
	}
	configRepo, configRepoErr := uow.GetRepositoryAs[SystemConfigRepository](
		u, uow.RepositoryName(repoargs.ConfigRepoName),
	)
	if configRepoErr != nil {
		return nil, configRepoErr //nolint:wrapcheck
	}
	if auth.TTL == 0 {
		auth.TTL = DefaultJWTTokenExpire
	}
	sink := newEventSink(nil, l, "user_service")
	return &UserService{
		uow:        u,
		userRepo:   userRepo,
		orderRepo:  orderRepo,
		hasher:     hasher,
		guard:      loginGuard{store: attempts, configRepo: configRepo, log: sink.log},
		auth:       auth,
		eventsSink: sink,
	}, nil
}

type RegisterUserArgs struct {
	Name         string
	Email        string
	Password     string
	Phone        *string
	Role         domain.RoleType
	ReferralCode string
	Actor        domain.Actor
}

// Register создает юзера. Администраторы не могут регистрироваться сами. Аффилиаты создаются в статусе
// PENDING и сразу получают реферальный код. Повторный email дает domain.ErrDuplicateKey.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, error) {
	role := args.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role == domain.RoleAdmin {
		return nil, domain.NewValidationError("role", "admin accounts cannot be self-registered")
	}

	password, hashErr := s.hasher.HashPassword(args.Password)
	if hashErr != nil {
		return nil, fmt.Errorf("registering user: %w", hashErr)
	}

	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
		if userRepoErr != nil {
			return userRepoErr
		}

		create := repoargs.CreateUser{
			Email:    normalizeEmail(args.Email),
			Password: password,
			Name:     strings.TrimSpace(args.Name),
			Phone:    args.Phone,
			Role:     role,
			Status:   domain.UserStatusActive,
		}

		if code := strings.TrimSpace(args.ReferralCode); code != "" {
			referrer, refErr := userRepo.FindByReferralCode(c, code)
			switch {
			case refErr == nil:
				create.ReferredBy = &referrer.ID
			case !errors.Is(refErr, domain.ErrRecordNotFound):
				return refErr //nolint:wrapcheck
			}
		}

		if role == domain.RoleAffiliate {
			create.Status = domain.UserStatusPending
			seq, seqErr := userRepo.NextReferralSeq(c)
			if seqErr != nil {
				return seqErr //nolint:wrapcheck
			}
			code := formatReferralCode(seq)
			create.ReferralCode = &code
		}

		var createErr error
		user, createErr = userRepo.CreateUser(c, create)
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		actor := args.Actor
		actor.UserID = user.ID
		return writeAudit(c, tx, actor, domain.AuditRegister, "user", user.ID, map[string]any{
			"email": user.Email,
			"role":  user.Role,
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("registering user: %w", txErr)
	}
	return user, nil
}

type LoginUserArgs struct {
	Email    string
	Password string
	Actor    domain.Actor
}

// Login аутентифицирует юзера по email и паролю и возвращает юзера и подписанный токен.
// Ошибки: domain.ErrTooManyLoginAttempts при блокировке, domain.ErrPasswordMissMatch при неверной паре,
// domain.ErrAccountInactive для неактивного аккаунта.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	email := normalizeEmail(args.Email)
	if s.guard.locked(ctx, email) {
		return nil, "", domain.ErrTooManyLoginAttempts
	}

	user, findErr := s.userRepo.FindByEmail(ctx, email)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			s.guard.fail(ctx, email)
			return nil, "", domain.ErrPasswordMissMatch
		}
		return nil, "", fmt.Errorf("login: %w", findErr)
	}

	if !s.hasher.ComparePassword(args.Password, user.EncryptedPassword) {
		s.guard.fail(ctx, email)
		return nil, "", domain.ErrPasswordMissMatch
	}
	if !user.IsActive() {
		return nil, "", domain.ErrAccountInactive
	}
	s.guard.reset(ctx, email)

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
		if userRepoErr != nil {
			return userRepoErr
		}
		if err := userRepo.TouchLastLogin(c, user.ID); err != nil {
			return err //nolint:wrapcheck
		}
		actor := args.Actor
		actor.UserID = user.ID
		return writeAudit(c, tx, actor, domain.AuditLogin, "user", user.ID, nil)
	})
	if txErr != nil {
		return nil, "", fmt.Errorf("login: %w", txErr)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, user.Role, s.auth.TTL, s.auth.Secret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("login: %w", tokenErr)
	}
	return user, token, nil
}

// TokenTTL срок жизни выдаваемых токенов.
func (s *UserService) TokenTTL() time.Duration {
	return s.auth.TTL
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, filter repoargs.UserFilter) ([]domain.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err //nolint:wrapcheck
	}
	return users, total, nil
}

type UserDetails struct {
	User         *domain.User
	Counts       *domain.UserCounts
	RecentOrders []domain.Order
}

// Details возвращает юзера со счетчиками заказов и рефералов и его последними заказами.
func (s *UserService) Details(ctx context.Context, id int64) (*UserDetails, error) {
	user, userErr := s.userRepo.FindByID(ctx, id)
	if userErr != nil {
		return nil, userErr //nolint:wrapcheck
	}
	counts, countsErr := s.userRepo.Counts(ctx, id)
	if countsErr != nil {
		return nil, countsErr //nolint:wrapcheck
	}
	orders, _, ordersErr := s.orderRepo.List(ctx, repoargs.OrderFilter{
		UserID: &id,
		Page:   repoargs.Page{Limit: recentOrdersInUserDetails},
	})
	if ordersErr != nil {
		return nil, ordersErr //nolint:wrapcheck
	}
	return &UserDetails{User: user, Counts: counts, RecentOrders: orders}, nil
}

type UpdateUserArgs struct {
	Name   *string
	Phone  *string
	Role   *domain.RoleType
	Status *domain.UserStatusType
}

// Update изменяет юзера от имени администратора. Администратор не может менять собственные роль и статус.
// При переводе в роль AFFILIATE юзеру выдается реферальный код, если его еще нет.
func (s *UserService) Update(ctx context.Context, actor domain.Actor, id int64, args UpdateUserArgs) (*domain.User, error) {
	if actor.UserID == id && (args.Role != nil || args.Status != nil) {
		return nil, domain.ErrSelfModification
	}

	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
		if userRepoErr != nil {
			return userRepoErr
		}
		current, findErr := userRepo.FindByIDForUpdate(c, id)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}

		upd := repoargs.UpdateUser{Name: args.Name, Phone: args.Phone, Role: args.Role, Status: args.Status}
		if args.Role != nil && *args.Role == domain.RoleAffiliate && current.ReferralCode == nil {
			seq, seqErr := userRepo.NextReferralSeq(c)
			if seqErr != nil {
				return seqErr //nolint:wrapcheck
			}
			code := formatReferralCode(seq)
			upd.ReferralCode = &code
		}

		var updErr error
		user, updErr = userRepo.Update(c, id, upd)
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}
		return writeAudit(c, tx, actor, domain.AuditUserUpdated, "user", id, changedUserFields(args))
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating user %d: %w", id, txErr)
	}
	return user, nil
}

// Delete удаляет юзера. Удалить самого себя нельзя, юзер с заказами или пополнениями дает
// domain.ErrForeignKeyViolation.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if actor.UserID == id {
		return domain.ErrSelfModification
	}
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
		if userRepoErr != nil {
			return userRepoErr
		}
		if err := userRepo.Delete(c, id); err != nil {
			return err //nolint:wrapcheck
		}
		return writeAudit(c, tx, actor, domain.AuditUserDeleted, "user", id, nil)
	})
	if txErr != nil {
		return fmt.Errorf("deleting user %d: %w", id, txErr)
	}
	return nil
}

type CreateAdminArgs struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin создает администратора или, если email уже занят, повышает существующего юзера до ADMIN
// и обновляет ему пароль. Используется утилитой администрирования.
func (s *UserService) EnsureAdmin(ctx context.Context, args CreateAdminArgs) (*domain.User, error) {
	password, hashErr := s.hasher.HashPassword(args.Password)
	if hashErr != nil {
		return nil, fmt.Errorf("ensuring admin: %w", hashErr)
	}

	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
		if userRepoErr != nil {
			return userRepoErr
		}
		email := normalizeEmail(args.Email)
		existing, findErr := userRepo.FindByEmail(c, email)
		if findErr != nil && !errors.Is(findErr, domain.ErrRecordNotFound) {
			return findErr //nolint:wrapcheck
		}

		if existing == nil {
			var createErr error
			user, createErr = userRepo.CreateUser(c, repoargs.CreateUser{
				Email:    email,
				Password: password,
				Name:     args.Name,
				Role:     domain.RoleAdmin,
				Status:   domain.UserStatusActive,
			})
			return createErr //nolint:wrapcheck
		}

		role, status := domain.RoleAdmin, domain.UserStatusActive
		var updErr error
		user, updErr = userRepo.Update(c, existing.ID, repoargs.UpdateUser{Role: &role, Status: &status})
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}
		return userRepo.SetPassword(c, existing.ID, password) //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("ensuring admin: %w", txErr)
	}
	return user, nil
}

func changedUserFields(args UpdateUserArgs) map[string]any {
	details := make(map[string]any)
	if args.Name != nil {
		details["name"] = *args.Name
	}
	if args.Phone != nil {
		details["phone"] = *args.Phone
	}
	if args.Role != nil {
		details["role"] = *args.Role
	}
	if args.Status != nil {
		details["status"] = *args.Status
	}
	return details
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
