package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderHandlerTestSuite struct {
	handlerSuite
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func testOrder(id, owner int64, status domain.OrderStatusType) *domain.Order {
	now := time.Now()
	return &domain.Order{
		ID:            id,
		CreatedAt:     now,
		OrderNumber:   fmt.Sprintf("LFS-2025-%04d", id),
		UserID:        owner,
		Subtotal:      decimal.NewFromInt(30),
		Total:         decimal.NewFromInt(30),
		Status:        status,
		PaymentStatus: domain.PaymentStatusPaid,
		PaidAt:        &now,
		Items: []domain.OrderItem{{
			ID:           100,
			OrderID:      id,
			ProductID:    1,
			Quantity:     2,
			PriceUSD:     decimal.NewFromInt(15),
			Subtotal:     decimal.NewFromInt(30),
			ProductName:  "Netflix Premium",
			DeliveryType: domain.DeliveryAutomatic,
			Delivered:    true,
			Credentials:  []string{"a@b.c:1", "a@b.c:2"},
		}},
	}
}

func (s *OrderHandlerTestSuite) TestCreateOrder() {
	itemsOf := func(productID int64) gomock.Matcher {
		return match(func(items []service.OrderItemArgs) bool {
			return len(items) == 1 && items[0].ProductID == productID
		})
	}
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), actorWith(userID, domain.RoleUser), itemsOf(1)).
		Return(testOrder(1, userID, domain.OrderStatusCompleted), nil)
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), gomock.Any(), itemsOf(2)).
		Return(nil, fmt.Errorf("creating order: %w", domain.ErrNotEnoughBalance))
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), gomock.Any(), itemsOf(3)).
		Return(nil, fmt.Errorf("creating order: %w", domain.ErrOutOfStock))
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), gomock.Any(), itemsOf(4)).
		Return(nil, domain.ErrAccountInactive)

	item := func(productID int64, qty int) map[string]any {
		return map[string]any{"items": []map[string]any{{"productId": productID, "quantity": qty}}}
	}

	cases := []struct {
		name       string
		payload    any
		token      string
		wantStatus int
		wantError  string
	}{
		{name: "all ok", payload: item(1, 2), token: s.userToken, wantStatus: http.StatusCreated},
		{
			name: "not enough balance", payload: item(2, 1), token: s.userToken,
			wantStatus: http.StatusPaymentRequired, wantError: "insufficient wallet balance",
		},
		{
			name: "out of stock", payload: item(3, 1), token: s.userToken,
			wantStatus: http.StatusConflict, wantError: domain.ErrOutOfStock.Error(),
		},
		{name: "inactive buyer", payload: item(4, 1), token: s.userToken, wantStatus: http.StatusForbidden},
		{name: "not authorized", payload: item(1, 1), wantStatus: http.StatusUnauthorized},
		{name: "empty items", payload: map[string]any{"items": []any{}}, token: s.userToken, wantStatus: http.StatusUnprocessableEntity},
		{name: "zero quantity", payload: item(1, 0), token: s.userToken, wantStatus: http.StatusUnprocessableEntity},
		{name: "bad request", payload: "{not json", token: s.userToken, wantStatus: http.StatusBadRequest},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, body := s.send(http.MethodPost, OrdersRoute, t.payload, t.token)
			s.Equal(t.wantStatus, status)
			if t.wantError != "" {
				s.Equal(t.wantError, body["error"])
			}
		})
	}
}

func (s *OrderHandlerTestSuite) TestCreateOrderResponse() {
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(testOrder(7, userID, domain.OrderStatusCompleted), nil)

	status, body := s.send(http.MethodPost, OrdersRoute, map[string]any{
		"items": []map[string]any{{"productId": 1, "quantity": 2}},
	}, s.userToken)
	s.Require().Equal(http.StatusCreated, status)

	order, ok := body["order"].(map[string]any)
	s.Require().True(ok)
	s.Equal("LFS-2025-0007", order["orderNumber"])
	s.Equal("COMPLETED", order["status"])
	items, ok := order["items"].([]any)
	s.Require().True(ok)
	s.Require().Len(items, 1)
	s.Len(items[0].(map[string]any)["credentials"], 2)
}

func (s *OrderHandlerTestSuite) TestIndex() {
	s.mockOrderService.EXPECT().
		List(gomock.Any(), actorWith(userID, domain.RoleUser), gomock.Any()).
		Return([]domain.Order{*testOrder(1, userID, domain.OrderStatusCompleted)}, int64(1), nil)
	s.mockOrderService.EXPECT().
		List(gomock.Any(), actorWith(adminID, domain.RoleAdmin), match(func(f repoargs.OrderFilter) bool {
			return f.Status != nil && *f.Status == domain.OrderStatusProcessing &&
				f.Search == "LFS-2025" && f.Limit == 5 && f.Offset == 10
		})).
		Return([]domain.Order{}, int64(0), nil)

	cases := []struct {
		name       string
		url        string
		token      string
		wantStatus int
		wantTotal  float64
	}{
		{name: "own orders", url: OrdersRoute, token: s.userToken, wantStatus: http.StatusOK, wantTotal: 1},
		{
			name:       "admin with filters",
			url:        OrdersRoute + "?status=PROCESSING&search=LFS-2025&limit=5&offset=10",
			token:      s.adminToken,
			wantStatus: http.StatusOK,
		},
		{name: "invalid status filter", url: OrdersRoute + "?status=LOST", token: s.adminToken, wantStatus: http.StatusUnprocessableEntity},
		{name: "limit too big", url: OrdersRoute + "?limit=1000", token: s.adminToken, wantStatus: http.StatusUnprocessableEntity},
		{name: "not authorized", url: OrdersRoute, wantStatus: http.StatusUnauthorized},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, body := s.send(http.MethodGet, t.url, nil, t.token)
			s.Equal(t.wantStatus, status)
			if status == http.StatusOK {
				s.InDelta(t.wantTotal, body["total"], 0)
			}
		})
	}
}

func (s *OrderHandlerTestSuite) TestShow() {
	s.mockOrderService.EXPECT().
		Get(gomock.Any(), gomock.Any(), int64(1)).
		Return(testOrder(1, userID, domain.OrderStatusCompleted), nil)
	s.mockOrderService.EXPECT().
		Get(gomock.Any(), gomock.Any(), int64(2)).
		Return(nil, fmt.Errorf("order 2: %w", domain.ErrForbidden))
	s.mockOrderService.EXPECT().
		Get(gomock.Any(), gomock.Any(), int64(3)).
		Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{name: "owner", url: "/orders/1", wantStatus: http.StatusOK},
		{name: "someone else", url: "/orders/2", wantStatus: http.StatusForbidden},
		{name: "missing", url: "/orders/3", wantStatus: http.StatusNotFound},
		{name: "invalid id", url: "/orders/abc", wantStatus: http.StatusBadRequest},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, _ := s.send(http.MethodGet, t.url, nil, s.userToken)
			s.Equal(t.wantStatus, status)
		})
	}
}

func (s *OrderHandlerTestSuite) TestUpdateStatus() {
	s.mockOrderService.EXPECT().
		UpdateStatus(gomock.Any(), actorWith(adminID, domain.RoleAdmin), int64(1), domain.OrderStatusCancelled).
		Return(testOrder(1, userID, domain.OrderStatusCancelled), nil)
	s.mockOrderService.EXPECT().
		UpdateStatus(gomock.Any(), gomock.Any(), int64(2), domain.OrderStatusCompleted).
		Return(nil, fmt.Errorf("update: %w", domain.ErrUndeliveredItems))
	s.mockOrderService.EXPECT().
		UpdateStatus(gomock.Any(), gomock.Any(), int64(3), domain.OrderStatusProcessing).
		Return(nil, domain.NewInvalidStatusError("order", "COMPLETED", ""))
	s.mockOrderService.EXPECT().
		UpdateStatus(gomock.Any(), gomock.Any(), int64(4), domain.OrderStatusCancelled).
		Return(nil, domain.ErrCommissionAlreadyPaid)

	cases := []struct {
		name       string
		url        string
		payload    map[string]any
		token      string
		wantStatus int
	}{
		{name: "cancel", url: "/orders/1/status", payload: map[string]any{"status": "CANCELLED"}, token: s.adminToken, wantStatus: http.StatusOK},
		{name: "undelivered", url: "/orders/2/status", payload: map[string]any{"status": "COMPLETED"}, token: s.adminToken, wantStatus: http.StatusConflict},
		{name: "bad transition", url: "/orders/3/status", payload: map[string]any{"status": "PROCESSING"}, token: s.adminToken, wantStatus: http.StatusConflict},
		{name: "commission paid", url: "/orders/4/status", payload: map[string]any{"status": "CANCELLED"}, token: s.adminToken, wantStatus: http.StatusConflict},
		{name: "unknown status", url: "/orders/1/status", payload: map[string]any{"status": "LOST"}, token: s.adminToken, wantStatus: http.StatusUnprocessableEntity},
		{name: "not admin", url: "/orders/1/status", payload: map[string]any{"status": "CANCELLED"}, token: s.userToken, wantStatus: http.StatusForbidden},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, _ := s.send(http.MethodPut, t.url, t.payload, t.token)
			s.Equal(t.wantStatus, status)
		})
	}
}

func (s *OrderHandlerTestSuite) TestDeliverItem() {
	s.mockOrderService.EXPECT().
		DeliverItem(gomock.Any(), gomock.Any(), int64(1), int64(100), []string{"user:pass"}).
		Return(testOrder(1, userID, domain.OrderStatusCompleted), nil)
	s.mockOrderService.EXPECT().
		DeliverItem(gomock.Any(), gomock.Any(), int64(1), int64(101), gomock.Any()).
		Return(nil, domain.ErrAlreadyDelivered)

	status, _ := s.send(http.MethodPut, "/orders/1/items/100/deliver",
		map[string]any{"credentials": []string{"user:pass"}}, s.adminToken)
	s.Equal(http.StatusOK, status)

	status, body := s.send(http.MethodPut, "/orders/1/items/101/deliver",
		map[string]any{"credentials": []string{"user:pass"}}, s.adminToken)
	s.Equal(http.StatusConflict, status)
	s.Equal(domain.ErrAlreadyDelivered.Error(), body["error"])

	status, _ = s.send(http.MethodPut, "/orders/1/items/101/deliver",
		map[string]any{"credentials": []string{}}, s.adminToken)
	s.Equal(http.StatusUnprocessableEntity, status)
}
