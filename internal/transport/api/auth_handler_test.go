package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/fsdevblog/luffy-streaming/internal/transport/api/middlewares"
	"github.com/fsdevblog/luffy-streaming/internal/transport/api/testutils"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	handlerSuite
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func registerArgs(email string) gomock.Matcher {
	return match(func(a service.RegisterUserArgs) bool { return a.Email == email })
}

func (s *AuthHandlerTestSuite) TestRegister() {
	code := "AFF007"
	s.mockUserService.EXPECT().
		Register(gomock.Any(), match(func(a service.RegisterUserArgs) bool {
			return a.Email == "new@luffy.pe" && a.Role == domain.RoleAffiliate && a.ReferralCode == "AFF001"
		})).
		Return(&domain.User{
			ID:           5,
			Email:        "new@luffy.pe",
			Name:         "Nuevo",
			Role:         domain.RoleAffiliate,
			Status:       domain.UserStatusPending,
			ReferralCode: &code,
			Wallet:       decimal.Zero,
		}, nil)
	s.mockUserService.EXPECT().
		Register(gomock.Any(), registerArgs("taken@luffy.pe")).
		Return(nil, fmt.Errorf("creating user: %w", domain.ErrDuplicateKey))
	s.mockUserService.EXPECT().
		Register(gomock.Any(), registerArgs("boss@luffy.pe")).
		Return(nil, domain.NewValidationError("role", "administrators cannot self-register"))

	cases := []struct {
		name       string
		payload    map[string]any
		wantStatus int
		wantError  string
	}{
		{
			name: "affiliate registered",
			payload: map[string]any{
				"name": "Nuevo", "email": "new@luffy.pe", "password": "secret1",
				"role": "AFFILIATE", "referralCode": " AFF001 ",
			},
			wantStatus: http.StatusCreated,
		}, {
			name:       "email taken",
			payload:    map[string]any{"name": "Otro", "email": "taken@luffy.pe", "password": "secret1"},
			wantStatus: http.StatusBadRequest,
			wantError:  "email already registered",
		}, {
			name: "admin self registration",
			payload: map[string]any{
				"name": "Jefe", "email": "boss@luffy.pe", "password": "secret1", "role": "ADMIN",
			},
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "invalid email",
			payload:    map[string]any{"name": "Nuevo", "email": "not-an-email", "password": "secret1"},
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "short password",
			payload:    map[string]any{"name": "Nuevo", "email": "short@luffy.pe", "password": "123"},
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "unknown role",
			payload:    map[string]any{"name": "Nuevo", "email": "role@luffy.pe", "password": "secret1", "role": "ROOT"},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, body := s.send(http.MethodPost, RegisterRoute, t.payload, "")
			s.Equal(t.wantStatus, status)
			if t.wantError != "" {
				s.Equal(t.wantError, body["error"])
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestRegisterResponse() {
	code := "AFF007"
	s.mockUserService.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(&domain.User{
			ID:           5,
			Email:        "new@luffy.pe",
			Role:         domain.RoleAffiliate,
			Status:       domain.UserStatusPending,
			ReferralCode: &code,
		}, nil)

	status, body := s.send(http.MethodPost, RegisterRoute, map[string]any{
		"name": "Nuevo", "email": "new@luffy.pe", "password": "secret1", "role": "AFFILIATE",
	}, "")
	s.Require().Equal(http.StatusCreated, status)

	user, ok := body["user"].(map[string]any)
	s.Require().True(ok)
	s.Equal("PENDING", user["status"])
	s.Equal("AFF007", user["referralCode"])
	s.NotContains(user, "password")
}

func (s *AuthHandlerTestSuite) TestLogin() {
	loginArgs := func(email string) gomock.Matcher {
		return match(func(a service.LoginUserArgs) bool { return a.Email == email })
	}
	s.mockUserService.EXPECT().TokenTTL().Return(7 * 24 * time.Hour).AnyTimes()
	s.mockUserService.EXPECT().
		Login(gomock.Any(), loginArgs("ok@luffy.pe")).
		Return(&domain.User{ID: 3, Email: "ok@luffy.pe", Role: domain.RoleUser}, "signed-token", nil)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), loginArgs("wrong@luffy.pe")).
		Return(nil, "", fmt.Errorf("login: %w", domain.ErrPasswordMissMatch))
	s.mockUserService.EXPECT().
		Login(gomock.Any(), loginArgs("inactive@luffy.pe")).
		Return(nil, "", domain.ErrAccountInactive)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), loginArgs("locked@luffy.pe")).
		Return(nil, "", domain.ErrTooManyLoginAttempts)

	cases := []struct {
		name       string
		email      string
		wantStatus int
		wantError  string
	}{
		{name: "ok", email: "ok@luffy.pe", wantStatus: http.StatusOK},
		{name: "wrong password", email: "wrong@luffy.pe", wantStatus: http.StatusUnauthorized, wantError: "invalid credentials"},
		{name: "inactive", email: "inactive@luffy.pe", wantStatus: http.StatusForbidden, wantError: "account inactive"},
		{name: "locked", email: "locked@luffy.pe", wantStatus: http.StatusTooManyRequests},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res := s.sendRaw(http.MethodPost, LoginRoute, map[string]any{"email": t.email, "password": "secret1"})
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus != http.StatusOK {
				return
			}
			var authCookie *http.Cookie
			for _, c := range res.Cookies() {
				if c.Name == middlewares.AuthCookieName {
					authCookie = c
				}
			}
			s.Require().NotNil(authCookie)
			s.Equal("signed-token", authCookie.Value)
			s.True(authCookie.HttpOnly)
			s.Equal(http.SameSiteLaxMode, authCookie.SameSite)
			s.Equal(7*24*60*60, authCookie.MaxAge)
		})
	}

	s.Run("error body", func() {
		s.mockUserService.EXPECT().
			Login(gomock.Any(), loginArgs("wrong@luffy.pe")).
			Return(nil, "", domain.ErrPasswordMissMatch)
		status, body := s.send(http.MethodPost, LoginRoute, map[string]any{
			"email": "wrong@luffy.pe", "password": "secret1",
		}, "")
		s.Equal(http.StatusUnauthorized, status)
		s.Equal("invalid credentials", body["error"])
	})
}

func (s *AuthHandlerTestSuite) TestLogout() {
	res := s.sendRaw(http.MethodPost, LogoutRoute, nil)
	s.Equal(http.StatusOK, res.StatusCode)

	var found bool
	for _, c := range res.Cookies() {
		if c.Name == middlewares.AuthCookieName {
			found = true
			s.Empty(c.Value)
			s.Negative(c.MaxAge)
		}
	}
	s.True(found)
}

func (s *AuthHandlerTestSuite) TestMe() {
	s.mockUserService.EXPECT().
		GetByID(gomock.Any(), userID).
		Return(&domain.User{ID: userID, Email: "me@luffy.pe", Role: domain.RoleUser, Wallet: decimal.NewFromInt(25)}, nil).
		Times(2)

	s.Run("bearer", func() {
		status, body := s.send(http.MethodGet, MeRoute, nil, s.userToken)
		s.Require().Equal(http.StatusOK, status)
		user, ok := body["user"].(map[string]any)
		s.Require().True(ok)
		s.InDelta(25.0, user["wallet"], 0.001)
	})

	s.Run("cookie", func() {
		status, _ := s.send(http.MethodGet, MeRoute, nil, "", testutils.WithCookies([]*http.Cookie{
			{Name: middlewares.AuthCookieName, Value: s.userToken},
		}))
		s.Equal(http.StatusOK, status)
	})

	s.Run("no session", func() {
		status, body := s.send(http.MethodGet, MeRoute, nil, "")
		s.Equal(http.StatusUnauthorized, status)
		s.Equal("unauthorized", body["error"])
	})

	s.Run("garbage token", func() {
		status, _ := s.send(http.MethodGet, MeRoute, nil, "not.a.jwt")
		s.Equal(http.StatusUnauthorized, status)
	})

	s.Run("user vanished", func() {
		s.mockUserService.EXPECT().
			GetByID(gomock.Any(), int64(99)).
			Return(nil, domain.ErrRecordNotFound)
		status, _ := s.send(http.MethodGet, MeRoute, nil, s.token(99, domain.RoleUser))
		s.Equal(http.StatusNotFound, status)
	})
}
