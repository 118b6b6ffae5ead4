package service

import (
	"testing"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service/mocks"
	"github.com/fsdevblog/luffy-streaming/internal/service/tokens"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	serviceSuite
	mockHasher   *mocks.MockPasswordHasher
	mockAttempts *mocks.MockLoginAttemptStore
	jwtSecret    []byte
	userService  *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	ctrl := gomock.NewController(s.T())
	s.mockHasher = mocks.NewMockPasswordHasher(ctrl)
	s.mockAttempts = mocks.NewMockLoginAttemptStore(ctrl)
	s.jwtSecret = []byte("secret")

	userService, err := NewUserService(s.mockUOW, s.mockHasher, s.mockAttempts,
		AuthOptions{Secret: s.jwtSecret, TTL: time.Hour}, nil)
	s.Require().NoError(err)
	s.userService = userService
}

func (s *UserServiceTestSuite) TestRegister() {
	s.mockHasher.EXPECT().HashPassword(gomock.Any()).Return("hashed", nil).AnyTimes()

	s.Run("user with referral code", func() {
		s.mockUserRepo.EXPECT().FindByReferralCode(gomock.Any(), "AFF001").
			Return(&domain.User{ID: 7, Role: domain.RoleAffiliate}, nil)
		s.mockUserRepo.EXPECT().
			CreateUser(gomock.Any(), match(func(a repoargs.CreateUser) bool {
				return a.Email == "juan@mail.com" && a.Role == domain.RoleUser &&
					a.Status == domain.UserStatusActive && a.ReferredBy != nil && *a.ReferredBy == 7 &&
					a.Password == "hashed"
			})).
			Return(&domain.User{ID: 11, Email: "juan@mail.com", Role: domain.RoleUser}, nil)
		s.expectAudit(domain.AuditRegister)

		user, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
			Name:         "Juan",
			Email:        " Juan@Mail.com ",
			Password:     "secret123",
			ReferralCode: "AFF001",
		})
		s.Require().NoError(err)
		s.Equal(int64(11), user.ID)
	})

	s.Run("affiliate gets pending status and code", func() {
		s.mockUserRepo.EXPECT().NextReferralSeq(gomock.Any()).Return(int64(7), nil)
		s.mockUserRepo.EXPECT().
			CreateUser(gomock.Any(), match(func(a repoargs.CreateUser) bool {
				return a.Role == domain.RoleAffiliate && a.Status == domain.UserStatusPending &&
					a.ReferralCode != nil && *a.ReferralCode == "AFF007"
			})).
			Return(&domain.User{ID: 12, Role: domain.RoleAffiliate, Status: domain.UserStatusPending}, nil)
		s.expectAudit(domain.AuditRegister)

		user, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
			Name:     "Ana",
			Email:    "ana@mail.com",
			Password: "secret123",
			Role:     domain.RoleAffiliate,
		})
		s.Require().NoError(err)
		s.Equal(domain.UserStatusPending, user.Status)
	})

	s.Run("admin cannot self register", func() {
		_, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
			Email:    "root@mail.com",
			Password: "secret123",
			Role:     domain.RoleAdmin,
		})
		var vErr *domain.ValidationError
		s.Require().ErrorAs(err, &vErr)
		s.Equal("role", vErr.Field)
	})

	s.Run("duplicate email", func() {
		s.mockUserRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateKey)

		_, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
			Email:    "dup@mail.com",
			Password: "secret123",
		})
		s.Require().ErrorIs(err, domain.ErrDuplicateKey)
	})
}

func (s *UserServiceTestSuite) TestLogin() {
	saved := domain.User{
		ID:                1,
		Email:             "juan@mail.com",
		EncryptedPassword: "hash ok",
		Role:              domain.RoleAffiliate,
		Status:            domain.UserStatusActive,
	}
	inactive := saved
	inactive.ID = 2
	inactive.Email = "off@mail.com"
	inactive.Status = domain.UserStatusSuspended

	s.mockAttempts.EXPECT().IsLocked(gomock.Any(), "locked@mail.com").Return(true, nil).AnyTimes()
	s.mockAttempts.EXPECT().IsLocked(gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()
	s.mockConfigRepo.EXPECT().Get(gomock.Any(), domain.ConfigMaxLoginAttempts).
		Return(&domain.SystemConfig{Value: "3"}, nil).AnyTimes()
	s.mockConfigRepo.EXPECT().Get(gomock.Any(), domain.ConfigLoginLockDuration).
		Return(nil, domain.ErrRecordNotFound).AnyTimes()

	s.mockUserRepo.EXPECT().FindByEmail(gomock.Any(), saved.Email).Return(&saved, nil).AnyTimes()
	s.mockUserRepo.EXPECT().FindByEmail(gomock.Any(), inactive.Email).Return(&inactive, nil).AnyTimes()
	s.mockUserRepo.EXPECT().FindByEmail(gomock.Any(), "nobody@mail.com").
		Return(nil, domain.ErrRecordNotFound).AnyTimes()

	s.mockHasher.EXPECT().ComparePassword("right", "hash ok").Return(true).AnyTimes()
	s.mockHasher.EXPECT().ComparePassword("wrong", "hash ok").Return(false).AnyTimes()

	s.Run("ok", func() {
		s.mockAttempts.EXPECT().Reset(gomock.Any(), saved.Email).Return(nil)
		s.mockUserRepo.EXPECT().TouchLastLogin(gomock.Any(), saved.ID).Return(nil)
		s.expectAudit(domain.AuditLogin)

		user, tokenStr, err := s.userService.Login(s.T().Context(), LoginUserArgs{
			Email:    "JUAN@mail.com",
			Password: "right",
		})
		s.Require().NoError(err)
		s.Equal(saved.ID, user.ID)

		claims, claimsErr := tokens.ParseUserJWT(tokenStr, s.jwtSecret)
		s.Require().NoError(claimsErr)
		s.Equal(saved.ID, claims.ID)
		s.Equal(domain.RoleAffiliate, claims.Role)
	})

	s.Run("wrong password registers failure", func() {
		s.mockAttempts.EXPECT().
			RegisterFailure(gomock.Any(), saved.Email, int64(3), 15*time.Minute).
			Return(false, nil)

		_, _, err := s.userService.Login(s.T().Context(), LoginUserArgs{Email: saved.Email, Password: "wrong"})
		s.Require().ErrorIs(err, domain.ErrPasswordMissMatch)
	})

	s.Run("unknown email", func() {
		s.mockAttempts.EXPECT().RegisterFailure(gomock.Any(), "nobody@mail.com", gomock.Any(), gomock.Any()).
			Return(false, nil)

		_, _, err := s.userService.Login(s.T().Context(), LoginUserArgs{Email: "nobody@mail.com", Password: "x"})
		s.Require().ErrorIs(err, domain.ErrPasswordMissMatch)
	})

	s.Run("inactive account", func() {
		_, _, err := s.userService.Login(s.T().Context(), LoginUserArgs{Email: inactive.Email, Password: "right"})
		s.Require().ErrorIs(err, domain.ErrAccountInactive)
	})

	s.Run("locked", func() {
		_, _, err := s.userService.Login(s.T().Context(), LoginUserArgs{Email: "locked@mail.com", Password: "x"})
		s.Require().ErrorIs(err, domain.ErrTooManyLoginAttempts)
	})
}

func (s *UserServiceTestSuite) TestUpdate() {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	s.Run("own role", func() {
		role := domain.RoleUser
		_, err := s.userService.Update(s.T().Context(), admin, admin.UserID, UpdateUserArgs{Role: &role})
		s.Require().ErrorIs(err, domain.ErrSelfModification)
	})

	s.Run("own name is allowed", func() {
		name := "Root"
		s.mockUserRepo.EXPECT().FindByIDForUpdate(gomock.Any(), admin.UserID).
			Return(&domain.User{ID: 1, Role: domain.RoleAdmin}, nil)
		s.mockUserRepo.EXPECT().Update(gomock.Any(), admin.UserID, repoargs.UpdateUser{Name: &name}).
			Return(&domain.User{ID: 1, Name: name}, nil)
		s.expectAudit(domain.AuditUserUpdated)

		user, err := s.userService.Update(s.T().Context(), admin, admin.UserID, UpdateUserArgs{Name: &name})
		s.Require().NoError(err)
		s.Equal(name, user.Name)
	})

	s.Run("switch to affiliate assigns code", func() {
		role := domain.RoleAffiliate
		s.mockUserRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(5)).
			Return(&domain.User{ID: 5, Role: domain.RoleUser}, nil)
		s.mockUserRepo.EXPECT().NextReferralSeq(gomock.Any()).Return(int64(12), nil)
		s.mockUserRepo.EXPECT().
			Update(gomock.Any(), int64(5), match(func(u repoargs.UpdateUser) bool {
				return u.ReferralCode != nil && *u.ReferralCode == "AFF012" && *u.Role == domain.RoleAffiliate
			})).
			Return(&domain.User{ID: 5, Role: domain.RoleAffiliate, ReferralCode: ptr("AFF012")}, nil)
		s.expectAudit(domain.AuditUserUpdated)

		user, err := s.userService.Update(s.T().Context(), admin, 5, UpdateUserArgs{Role: &role})
		s.Require().NoError(err)
		s.Equal("AFF012", *user.ReferralCode)
	})
}

func (s *UserServiceTestSuite) TestDelete() {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	s.Require().ErrorIs(s.userService.Delete(s.T().Context(), admin, admin.UserID), domain.ErrSelfModification)

	s.mockUserRepo.EXPECT().Delete(gomock.Any(), int64(3)).Return(domain.ErrForeignKeyViolation)
	s.Require().ErrorIs(s.userService.Delete(s.T().Context(), admin, 3), domain.ErrForeignKeyViolation)

	s.mockUserRepo.EXPECT().Delete(gomock.Any(), int64(4)).Return(nil)
	s.expectAudit(domain.AuditUserDeleted)
	s.Require().NoError(s.userService.Delete(s.T().Context(), admin, 4))
}

func (s *UserServiceTestSuite) TestDetails() {
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(5)).Return(&domain.User{ID: 5}, nil)
	s.mockUserRepo.EXPECT().Counts(gomock.Any(), int64(5)).Return(&domain.UserCounts{Orders: 2, Referrals: 1}, nil)
	s.mockOrderRepo.EXPECT().
		List(gomock.Any(), match(func(f repoargs.OrderFilter) bool {
			return f.UserID != nil && *f.UserID == 5 && f.Limit == recentOrdersInUserDetails
		})).
		Return([]domain.Order{{ID: 1}, {ID: 2}}, int64(2), nil)

	details, err := s.userService.Details(s.T().Context(), 5)
	s.Require().NoError(err)
	s.Equal(int64(2), details.Counts.Orders)
	s.Len(details.RecentOrders, 2)
}
