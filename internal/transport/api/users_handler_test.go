package api

import (
	"net/http"
	"testing"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type UsersHandlerTestSuite struct {
	handlerSuite
}

func TestUsersHandlerSuite(t *testing.T) {
	suite.Run(t, new(UsersHandlerTestSuite))
}

func (s *UsersHandlerTestSuite) TestIndex() {
	s.mockUserService.EXPECT().
		List(gomock.Any(), match(func(f repoargs.UserFilter) bool {
			return f.Role != nil && *f.Role == domain.RoleAffiliate && f.Search == "ana" && f.Status == nil
		})).
		Return([]domain.User{{ID: 2, Name: "Ana", Role: domain.RoleAffiliate}}, int64(1), nil)

	status, body := s.send(http.MethodGet, UsersRoute+"?role=AFFILIATE&search=%20ana%20", nil, s.adminToken)
	s.Require().Equal(http.StatusOK, status)
	s.Len(body["users"], 1)

	status, _ = s.send(http.MethodGet, UsersRoute, nil, s.userToken)
	s.Equal(http.StatusForbidden, status)

	status, _ = s.send(http.MethodGet, UsersRoute+"?role=GOD", nil, s.adminToken)
	s.Equal(http.StatusUnprocessableEntity, status)
}

func (s *UsersHandlerTestSuite) TestShow() {
	s.mockUserService.EXPECT().
		Details(gomock.Any(), int64(2)).
		Return(&service.UserDetails{
			User:         &domain.User{ID: 2, Name: "Ana"},
			Counts:       &domain.UserCounts{Orders: 4, Referrals: 1},
			RecentOrders: []domain.Order{*testOrder(1, 2, domain.OrderStatusCompleted)},
		}, nil)

	status, body := s.send(http.MethodGet, "/users/2", nil, s.adminToken)
	s.Require().Equal(http.StatusOK, status)
	s.InDelta(4, body["ordersCount"], 0)
	s.InDelta(1, body["referralsCount"], 0)
	s.Len(body["orders"], 1)
}

func (s *UsersHandlerTestSuite) TestUpdate() {
	s.mockUserService.EXPECT().
		Update(gomock.Any(), actorWith(adminID, domain.RoleAdmin), int64(2), service.UpdateUserArgs{
			Status: ptr(domain.UserStatusInactive),
		}).
		Return(&domain.User{ID: 2, Status: domain.UserStatusInactive}, nil)
	s.mockUserService.EXPECT().
		Update(gomock.Any(), gomock.Any(), adminID, gomock.Any()).
		Return(nil, domain.ErrSelfModification)

	status, _ := s.send(http.MethodPut, "/users/2", map[string]any{"status": "INACTIVE"}, s.adminToken)
	s.Equal(http.StatusOK, status)

	status, body := s.send(http.MethodPut, "/users/1", map[string]any{"role": "USER"}, s.adminToken)
	s.Equal(http.StatusBadRequest, status)
	s.Equal(domain.ErrSelfModification.Error(), body["error"])
}

func (s *UsersHandlerTestSuite) TestDelete() {
	s.mockUserService.EXPECT().
		Delete(gomock.Any(), gomock.Any(), int64(2)).
		Return(nil)
	s.mockUserService.EXPECT().
		Delete(gomock.Any(), gomock.Any(), int64(3)).
		Return(domain.ErrForeignKeyViolation)

	status, _ := s.send(http.MethodDelete, "/users/2", nil, s.adminToken)
	s.Equal(http.StatusOK, status)

	status, _ = s.send(http.MethodDelete, "/users/3", nil, s.adminToken)
	s.Equal(http.StatusConflict, status)
}
