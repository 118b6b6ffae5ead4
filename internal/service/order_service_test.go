package service

import (
	"errors"
	"testing"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/transport/events"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	serviceSuite
	orderService *OrderService
	buyer        domain.Actor
	now          time.Time
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	orderService, err := NewOrderService(s.mockUOW, s.mockEvents, nil)
	s.Require().NoError(err)
	s.now = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	orderService.now = func() time.Time { return s.now }
	s.orderService = orderService
	s.buyer = domain.Actor{UserID: 10, Role: domain.RoleUser}
}

// expectReserve резервирует qty единиц продукта с ценой price и автоматической выдачей.
func (s *OrderServiceTestSuite) expectReserve(productID int64, qty int, price string) {
	s.mockProductRepo.EXPECT().ReserveStock(gomock.Any(), productID, qty).Return(&domain.Product{
		ID:           productID,
		Name:         "Netflix",
		Provider:     "Netflix",
		PriceUSD:     decimal.RequireFromString(price),
		PricePEN:     decimal.RequireFromString(price).Mul(decimal.RequireFromString("3.66")),
		DeliveryType: domain.DeliveryAutomatic,
		Status:       domain.ProductStatusActive,
	}, nil)
}

func (s *OrderServiceTestSuite) TestCreate_WithReferrerAndAutoDelivery() {
	referrerID := int64(7)
	s.mockUserRepo.EXPECT().FindByIDForUpdate(gomock.Any(), s.buyer.UserID).Return(&domain.User{
		ID:         s.buyer.UserID,
		Status:     domain.UserStatusActive,
		Role:       domain.RoleUser,
		ReferredBy: &referrerID,
	}, nil)
	s.expectReserve(1, 2, "12.50")

	s.mockUserRepo.EXPECT().DebitWallet(gomock.Any(), s.buyer.UserID, dec("25")).
		Return(decimal.RequireFromString("75"), nil)
	s.mockOrderRepo.EXPECT().NextNumberSeq(gomock.Any(), 2025).Return(3, nil)
	s.mockOrderRepo.EXPECT().
		CreateOrder(gomock.Any(), match(func(a repoargs.CreateOrder) bool {
			return a.OrderNumber == "LFS-2025-0003" && a.PaymentStatus == domain.PaymentStatusPaid &&
				a.Status == domain.OrderStatusProcessing && a.Total.Equal(decimal.NewFromInt(25))
		})).
		Return(&domain.Order{ID: 100, OrderNumber: "LFS-2025-0003", UserID: 10, Total: decimal.NewFromInt(25)}, nil)
	s.expectLedger(domain.WalletKindPurchase, "25")

	item := domain.OrderItem{ID: 500, OrderID: 100, ProductID: 1, Quantity: 2, DeliveryType: domain.DeliveryAutomatic}
	s.mockOrderRepo.EXPECT().
		BatchCreateItems(gomock.Any(), int64(100), gomock.Len(1), gomock.Any()).
		Do(func(_ any, _ int64, _ []repoargs.CreateOrderItem, fn repoargs.OrderBatchQueryRow) {
			created := item
			fn(0, &created, nil)
		})

	// Комиссия аффилиату.
	s.mockUserRepo.EXPECT().FindByIDForUpdate(gomock.Any(), referrerID).Return(&domain.User{
		ID:     referrerID,
		Role:   domain.RoleAffiliate,
		Status: domain.UserStatusActive,
	}, nil)
	s.mockConfigRepo.EXPECT().Get(gomock.Any(), domain.ConfigCommissionRate).
		Return(&domain.SystemConfig{Value: "0.10"}, nil)
	s.mockCommissionRepo.EXPECT().
		Create(gomock.Any(), match(func(a repoargs.CreateCommission) bool {
			return a.AffiliateID == referrerID && a.OrderID == 100 && a.Amount.Equal(decimal.RequireFromString("2.5"))
		})).
		Return(&domain.Commission{ID: 1}, nil)
	s.mockUserRepo.EXPECT().AdjustCommissions(gomock.Any(), referrerID, dec("2.5"), dec("2.5")).Return(nil)
	s.mockOrderRepo.EXPECT().SetCommission(gomock.Any(), int64(100), referrerID, dec("2.5")).Return(nil)

	// Автоматическая выдача.
	s.mockCredRepo.EXPECT().SecretsByItems(gomock.Any(), []int64{500}).Return(map[int64][]string{}, nil)
	s.mockCredRepo.EXPECT().ClaimAvailable(gomock.Any(), int64(1), int64(500), 2).
		Return([]domain.ProductCredential{{ID: 1}, {ID: 2}}, nil)
	s.mockOrderRepo.EXPECT().MarkItemDelivered(gomock.Any(), int64(500)).Return(nil)
	s.mockOrderRepo.EXPECT().
		UpdateStatus(gomock.Any(), repoargs.UpdateOrderStatus{ID: 100, Status: domain.OrderStatusCompleted}).
		Return(nil)
	s.expectAudit(domain.AuditOrderCreated)

	// Загрузка результата.
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), int64(100)).Return(&domain.Order{
		ID:          100,
		OrderNumber: "LFS-2025-0003",
		UserID:      10,
		Total:       decimal.NewFromInt(25),
		Status:      domain.OrderStatusCompleted,
		AffiliateID: &referrerID,
	}, nil)
	delivered := item
	delivered.Delivered = true
	s.mockOrderRepo.EXPECT().Items(gomock.Any(), int64(100)).Return([]domain.OrderItem{delivered}, nil)
	s.mockCredRepo.EXPECT().SecretsByItems(gomock.Any(), []int64{500}).
		Return(map[int64][]string{500: {"a@mail.com:1", "b@mail.com:2"}}, nil)

	s.mockEvents.EXPECT().Publish(gomock.Any(), events.OrderCreated, "100", gomock.Any()).Return(nil)

	order, err := s.orderService.Create(s.T().Context(), s.buyer, []OrderItemArgs{
		{ProductID: 1, Quantity: 1},
		{ProductID: 1, Quantity: 1},
	})
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCompleted, order.Status)
	s.Require().Len(order.Items, 1)
	s.Equal([]string{"a@mail.com:1", "b@mail.com:2"}, order.Items[0].Credentials)
}

func (s *OrderServiceTestSuite) TestCreate_NotEnoughBalance() {
	s.mockUserRepo.EXPECT().FindByIDForUpdate(gomock.Any(), s.buyer.UserID).
		Return(&domain.User{ID: s.buyer.UserID, Status: domain.UserStatusActive}, nil)
	s.expectReserve(1, 1, "30")
	s.mockUserRepo.EXPECT().DebitWallet(gomock.Any(), s.buyer.UserID, dec("30")).
		Return(decimal.Zero, domain.ErrNotEnoughBalance)

	_, err := s.orderService.Create(s.T().Context(), s.buyer, []OrderItemArgs{{ProductID: 1, Quantity: 1}})
	s.Require().ErrorIs(err, domain.ErrNotEnoughBalance)
}

func (s *OrderServiceTestSuite) TestCreate_OutOfStock() {
	s.mockUserRepo.EXPECT().FindByIDForUpdate(gomock.Any(), s.buyer.UserID).
		Return(&domain.User{ID: s.buyer.UserID, Status: domain.UserStatusActive}, nil)
	s.mockProductRepo.EXPECT().ReserveStock(gomock.Any(), int64(2), 5).Return(nil, domain.ErrOutOfStock)

	_, err := s.orderService.Create(s.T().Context(), s.buyer, []OrderItemArgs{{ProductID: 2, Quantity: 5}})
	s.Require().ErrorIs(err, domain.ErrOutOfStock)
}

func (s *OrderServiceTestSuite) TestCreate_InactiveBuyer() {
	s.mockUserRepo.EXPECT().FindByIDForUpdate(gomock.Any(), s.buyer.UserID).
		Return(&domain.User{ID: s.buyer.UserID, Status: domain.UserStatusSuspended}, nil)

	_, err := s.orderService.Create(s.T().Context(), s.buyer, []OrderItemArgs{{ProductID: 2, Quantity: 1}})
	s.Require().ErrorIs(err, domain.ErrAccountInactive)
}

func (s *OrderServiceTestSuite) paidOrder(status domain.OrderStatusType) *domain.Order {
	return &domain.Order{
		ID:            100,
		OrderNumber:   "LFS-2025-0003",
		UserID:        10,
		Total:         decimal.NewFromInt(25),
		Status:        status,
		PaymentStatus: domain.PaymentStatusPaid,
	}
}

func (s *OrderServiceTestSuite) TestUpdateStatus_CancelRefunds() {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	items := []domain.OrderItem{{ID: 500, ProductID: 1, Quantity: 2}}

	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(100)).Return(s.paidOrder(domain.OrderStatusProcessing), nil)
	s.mockOrderRepo.EXPECT().Items(gomock.Any(), int64(100)).Return(items, nil).Times(2)
	s.mockCommissionRepo.EXPECT().FindByOrderIDForUpdate(gomock.Any(), int64(100)).Return(&domain.Commission{
		ID:          3,
		AffiliateID: 7,
		Amount:      decimal.RequireFromString("2.5"),
		Status:      domain.CommissionStatusPending,
	}, nil)
	s.mockCommissionRepo.EXPECT().UpdateStatus(gomock.Any(), int64(3), domain.CommissionStatusCancelled).
		Return(&domain.Commission{ID: 3, Status: domain.CommissionStatusCancelled}, nil)
	s.mockUserRepo.EXPECT().AdjustCommissions(gomock.Any(), int64(7), dec("-2.5"), dec("-2.5")).Return(nil)
	s.mockCredRepo.EXPECT().ReleaseByItems(gomock.Any(), []int64{500}).Return(int64(0), nil)
	s.mockProductRepo.EXPECT().ReleaseStock(gomock.Any(), int64(1), 2).Return(nil)
	s.mockUserRepo.EXPECT().CreditWallet(gomock.Any(), int64(10), dec("25")).Return(decimal.NewFromInt(100), nil)
	s.expectLedger(domain.WalletKindRefund, "25")
	refunded := domain.PaymentStatusRefunded
	s.mockOrderRepo.EXPECT().UpdateStatus(gomock.Any(), repoargs.UpdateOrderStatus{
		ID:            100,
		Status:        domain.OrderStatusCancelled,
		PaymentStatus: &refunded,
	}).Return(nil)
	s.expectAudit(domain.AuditOrderStatus)

	cancelled := s.paidOrder(domain.OrderStatusCancelled)
	cancelled.PaymentStatus = domain.PaymentStatusRefunded
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), int64(100)).Return(cancelled, nil)
	s.mockCredRepo.EXPECT().SecretsByItems(gomock.Any(), []int64{500}).Return(map[int64][]string{}, nil)
	s.mockEvents.EXPECT().Publish(gomock.Any(), events.OrderStatusChanged, "100", gomock.Any()).
		Return(errors.New("broker down"))

	order, err := s.orderService.UpdateStatus(s.T().Context(), admin, 100, domain.OrderStatusCancelled)
	s.Require().NoError(err)
	s.Equal(domain.PaymentStatusRefunded, order.PaymentStatus)
}

func (s *OrderServiceTestSuite) TestUpdateStatus_CancelPartiallyClaimed() {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	deliveredAt := s.now
	items := []domain.OrderItem{
		{ID: 500, ProductID: 1, Quantity: 1, Delivered: true, DeliveredAt: &deliveredAt},
		{ID: 501, ProductID: 2, Quantity: 2},
	}

	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(100)).Return(s.paidOrder(domain.OrderStatusProcessing), nil)
	s.mockOrderRepo.EXPECT().Items(gomock.Any(), int64(100)).Return(items, nil).Times(2)
	s.mockCommissionRepo.EXPECT().FindByOrderIDForUpdate(gomock.Any(), int64(100)).Return(nil, domain.ErrRecordNotFound)
	// у позиции 501 был закреплен один доступ из двух
	s.mockCredRepo.EXPECT().ReleaseByItems(gomock.Any(), []int64{501}).Return(int64(1), nil)
	s.mockProductRepo.EXPECT().ReleaseStock(gomock.Any(), int64(2), 2).Return(nil)
	s.mockUserRepo.EXPECT().CreditWallet(gomock.Any(), int64(10), dec("25")).Return(decimal.NewFromInt(25), nil)
	s.expectLedger(domain.WalletKindRefund, "25")
	s.mockOrderRepo.EXPECT().UpdateStatus(gomock.Any(), match(func(u repoargs.UpdateOrderStatus) bool {
		return u.Status == domain.OrderStatusCancelled && u.PaymentStatus != nil &&
			*u.PaymentStatus == domain.PaymentStatusRefunded
	})).Return(nil)
	s.expectAudit(domain.AuditOrderStatus)

	cancelled := s.paidOrder(domain.OrderStatusCancelled)
	cancelled.PaymentStatus = domain.PaymentStatusRefunded
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), int64(100)).Return(cancelled, nil)
	s.mockCredRepo.EXPECT().SecretsByItems(gomock.Any(), []int64{500, 501}).
		Return(map[int64][]string{500: {"a@luffy.pe:1"}}, nil)
	s.mockEvents.EXPECT().Publish(gomock.Any(), events.OrderStatusChanged, "100", gomock.Any()).Return(nil)

	order, err := s.orderService.UpdateStatus(s.T().Context(), admin, 100, domain.OrderStatusCancelled)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCancelled, order.Status)
	s.Require().Len(order.Items, 2)
	s.Empty(order.Items[1].Credentials)
}

func (s *OrderServiceTestSuite) TestUpdateStatus_CancelWithPaidCommission() {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(100)).Return(s.paidOrder(domain.OrderStatusProcessing), nil)
	s.mockOrderRepo.EXPECT().Items(gomock.Any(), int64(100)).Return(nil, nil)
	s.mockCommissionRepo.EXPECT().FindByOrderIDForUpdate(gomock.Any(), int64(100)).
		Return(&domain.Commission{ID: 3, Status: domain.CommissionStatusPaid}, nil)

	_, err := s.orderService.UpdateStatus(s.T().Context(), admin, 100, domain.OrderStatusCancelled)
	s.Require().ErrorIs(err, domain.ErrCommissionAlreadyPaid)
}

func (s *OrderServiceTestSuite) TestUpdateStatus_CompleteRequiresDelivery() {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(100)).Return(s.paidOrder(domain.OrderStatusProcessing), nil)
	s.mockOrderRepo.EXPECT().Items(gomock.Any(), int64(100)).
		Return([]domain.OrderItem{{ID: 1, Delivered: true}, {ID: 2}}, nil)

	_, err := s.orderService.UpdateStatus(s.T().Context(), admin, 100, domain.OrderStatusCompleted)
	s.Require().ErrorIs(err, domain.ErrUndeliveredItems)
}

func (s *OrderServiceTestSuite) TestUpdateStatus_InvalidTransition() {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(100)).Return(s.paidOrder(domain.OrderStatusCompleted), nil)

	_, err := s.orderService.UpdateStatus(s.T().Context(), admin, 100, domain.OrderStatusCancelled)
	var statusErr *domain.InvalidStatusError
	s.Require().ErrorAs(err, &statusErr)
	s.Equal("COMPLETED", statusErr.Status)
}

func (s *OrderServiceTestSuite) TestDeliverItem() {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(100)).Return(s.paidOrder(domain.OrderStatusProcessing), nil)
	s.mockOrderRepo.EXPECT().FindItemForUpdate(gomock.Any(), int64(100), int64(501)).
		Return(&domain.OrderItem{ID: 501, ProductID: 4, Quantity: 1, DeliveryType: domain.DeliveryManual}, nil)
	s.mockCredRepo.EXPECT().
		BatchCreate(gomock.Any(), int64(4), []string{"user:pass"}, gomock.Any(), gomock.Any()).
		Do(func(_ any, _ int64, secrets []string, itemID *int64, fn repoargs.BatchExecQueryRow) {
			s.Equal(int64(501), *itemID)
			for i := range secrets {
				fn(i, nil)
			}
		})
	s.mockOrderRepo.EXPECT().MarkItemDelivered(gomock.Any(), int64(501)).Return(nil)
	s.mockOrderRepo.EXPECT().Items(gomock.Any(), int64(100)).
		Return([]domain.OrderItem{{ID: 501, Delivered: true}}, nil).Times(2)
	s.mockOrderRepo.EXPECT().
		UpdateStatus(gomock.Any(), repoargs.UpdateOrderStatus{ID: 100, Status: domain.OrderStatusCompleted}).
		Return(nil)
	s.expectAudit(domain.AuditOrderItemDelivery)
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), int64(100)).Return(s.paidOrder(domain.OrderStatusCompleted), nil)
	s.mockCredRepo.EXPECT().SecretsByItems(gomock.Any(), []int64{501}).
		Return(map[int64][]string{501: {"user:pass"}}, nil)
	s.mockEvents.EXPECT().Publish(gomock.Any(), events.OrderItemsDelivered, "100", gomock.Any()).Return(nil)

	order, err := s.orderService.DeliverItem(s.T().Context(), admin, 100, 501, []string{" user:pass ", ""})
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCompleted, order.Status)
	s.Equal([]string{"user:pass"}, order.Items[0].Credentials)
}

func (s *OrderServiceTestSuite) TestDeliverItem_AlreadyDelivered() {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(100)).Return(s.paidOrder(domain.OrderStatusProcessing), nil)
	s.mockOrderRepo.EXPECT().FindItemForUpdate(gomock.Any(), int64(100), int64(501)).
		Return(&domain.OrderItem{ID: 501, Delivered: true}, nil)

	_, err := s.orderService.DeliverItem(s.T().Context(), admin, 100, 501, []string{"x"})
	s.Require().ErrorIs(err, domain.ErrAlreadyDelivered)
}

func (s *OrderServiceTestSuite) TestAutoDeliver_Partial() {
	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(100)).Return(s.paidOrder(domain.OrderStatusProcessing), nil)
	s.mockOrderRepo.EXPECT().Items(gomock.Any(), int64(100)).Return([]domain.OrderItem{
		{ID: 1, ProductID: 1, Quantity: 3, DeliveryType: domain.DeliveryAutomatic},
		{ID: 2, ProductID: 2, Quantity: 1, DeliveryType: domain.DeliveryAutomatic},
	}, nil)
	s.mockCredRepo.EXPECT().SecretsByItems(gomock.Any(), []int64{1, 2}).
		Return(map[int64][]string{1: {"a"}}, nil)
	s.mockCredRepo.EXPECT().ClaimAvailable(gomock.Any(), int64(1), int64(1), 2).
		Return([]domain.ProductCredential{{ID: 8}, {ID: 9}}, nil)
	s.mockOrderRepo.EXPECT().MarkItemDelivered(gomock.Any(), int64(1)).Return(nil)
	s.mockCredRepo.EXPECT().ClaimAvailable(gomock.Any(), int64(2), int64(2), 1).Return(nil, nil)
	s.mockEvents.EXPECT().Publish(gomock.Any(), events.OrderItemsDelivered, "100", gomock.Any()).Return(nil)

	res, err := s.orderService.AutoDeliver(s.T().Context(), 100)
	s.Require().NoError(err)
	s.Equal([]int64{1}, res.Delivered)
	s.False(res.Completed)
}

func (s *OrderServiceTestSuite) TestAutoDeliver_SkipsNotProcessing() {
	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(100)).Return(s.paidOrder(domain.OrderStatusCancelled), nil)

	res, err := s.orderService.AutoDeliver(s.T().Context(), 100)
	s.Require().NoError(err)
	s.Empty(res.Delivered)
}

func (s *OrderServiceTestSuite) TestGet_Ownership() {
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), int64(100)).Return(s.paidOrder(domain.OrderStatusCompleted), nil).Times(2)
	s.mockOrderRepo.EXPECT().Items(gomock.Any(), int64(100)).Return(nil, nil).Times(2)
	s.mockCredRepo.EXPECT().SecretsByItems(gomock.Any(), gomock.Any()).Return(map[int64][]string{}, nil).Times(2)

	_, err := s.orderService.Get(s.T().Context(), domain.Actor{UserID: 99, Role: domain.RoleUser}, 100)
	s.Require().ErrorIs(err, domain.ErrForbidden)

	order, err := s.orderService.Get(s.T().Context(), domain.Actor{UserID: 1, Role: domain.RoleAdmin}, 100)
	s.Require().NoError(err)
	s.Equal(int64(100), order.ID)
}

func (s *OrderServiceTestSuite) TestList_ScopesToOwner() {
	s.mockOrderRepo.EXPECT().
		List(gomock.Any(), match(func(f repoargs.OrderFilter) bool { return f.UserID != nil && *f.UserID == 10 })).
		Return([]domain.Order{{ID: 1}}, int64(1), nil)

	orders, total, err := s.orderService.List(s.T().Context(), s.buyer, repoargs.OrderFilter{})
	s.Require().NoError(err)
	s.Len(orders, 1)
	s.Equal(int64(1), total)
}

func TestMergeOrderItems(t *testing.T) {
	merged, err := mergeOrderItems([]OrderItemArgs{
		{ProductID: 3, Quantity: 1},
		{ProductID: 1, Quantity: 2},
		{ProductID: 3, Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []OrderItemArgs{{ProductID: 1, Quantity: 2}, {ProductID: 3, Quantity: 5}}, merged)

	_, err = mergeOrderItems(nil)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = mergeOrderItems([]OrderItemArgs{{ProductID: 1, Quantity: 0}})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "quantity", vErr.Field)
}
