package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/transport/events"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OrderService struct {
	uow       uow.UOW
	orderRepo OrderRepository
	credRepo  CredentialRepository
	sink      eventSink
	now       func() time.Time
}

func NewOrderService(u uow.UOW, publisher EventPublisher, l *logrus.Logger) (*OrderService, error) {
	orderRepo, orderRepoErr := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, orderRepoErr //nolint:wrapcheck
	}
	credRepo, credRepoErr := uow.GetRepositoryAs[CredentialRepository](
		u, uow.RepositoryName(repoargs.CredentialRepoName),
	)
	if credRepoErr != nil {
		return nil, credRepoErr //nolint:wrapcheck
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
		credRepo:  credRepo,
		sink:      newEventSink(publisher, l, "order_service"),
		now:       time.Now,
	}, nil
}

type OrderItemArgs struct {
	ProductID int64
	Quantity  int
}

// Create оформляет заказ за счет кошелька покупателя.
//
// Алгоритм работы (все в одной транзакции):
//  1. Проверяет, что покупатель активен, и резервирует остатки продуктов.
//  2. Списывает сумму заказа с кошелька и пишет строку журнала PURCHASE.
//  3. Создает оплаченный заказ с номером из годового счетчика и его позиции.
//  4. Если покупатель пришел по коду активного аффилиата, начисляет ему комиссию в статусе PENDING.
//  5. Выдает доступы по позициям с автоматической выдачей. Когда выданы все позиции, заказ завершается.
//
// Ошибки: domain.ErrOutOfStock, domain.ErrNotEnoughBalance, domain.ErrAccountInactive.
func (o *OrderService) Create(ctx context.Context, actor domain.Actor, items []OrderItemArgs) (*domain.Order, error) {
	merged, mergeErr := mergeOrderItems(items)
	if mergeErr != nil {
		return nil, mergeErr
	}

	var order *domain.Order
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var createErr error
		order, createErr = o.createInTx(c, tx, actor, merged)
		return createErr
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating order: %w", txErr)
	}

	o.sink.publish(ctx, events.OrderCreated, order.ID, events.OrderPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Total:       order.Total,
		Status:      string(order.Status),
		AffiliateID: order.AffiliateID,
	})
	return order, nil
}

func (o *OrderService) createInTx(
	ctx context.Context,
	tx uow.TX,
	actor domain.Actor,
	items []OrderItemArgs,
) (*domain.Order, error) {
	userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	productRepo, productRepoErr := repo[ProductRepository](tx, repoargs.ProductRepoName)
	if productRepoErr != nil {
		return nil, productRepoErr
	}
	orderRepo, orderRepoErr := repo[OrderRepository](tx, repoargs.OrderRepoName)
	if orderRepoErr != nil {
		return nil, orderRepoErr
	}

	buyer, buyerErr := userRepo.FindByIDForUpdate(ctx, actor.UserID)
	if buyerErr != nil {
		return nil, buyerErr //nolint:wrapcheck
	}
	if !buyer.IsActive() {
		return nil, domain.ErrAccountInactive
	}

	subtotal := decimal.Zero
	itemArgs := make([]repoargs.CreateOrderItem, 0, len(items))
	for _, item := range items {
		product, reserveErr := productRepo.ReserveStock(ctx, item.ProductID, item.Quantity)
		if reserveErr != nil {
			return nil, reserveErr //nolint:wrapcheck
		}
		lineTotal := product.PriceUSD.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		itemArgs = append(itemArgs, repoargs.CreateOrderItem{
			ProductID:       product.ID,
			Quantity:        item.Quantity,
			PriceUSD:        product.PriceUSD,
			PricePEN:        product.PricePEN,
			Subtotal:        lineTotal,
			ProductName:     product.Name,
			ProductProvider: product.Provider,
			DeliveryType:    product.DeliveryType,
		})
	}
	total := subtotal

	balance, debitErr := userRepo.DebitWallet(ctx, buyer.ID, total)
	if debitErr != nil {
		return nil, debitErr //nolint:wrapcheck
	}

	now := o.now()
	seq, seqErr := orderRepo.NextNumberSeq(ctx, now.Year())
	if seqErr != nil {
		return nil, seqErr //nolint:wrapcheck
	}
	order, orderErr := orderRepo.CreateOrder(ctx, repoargs.CreateOrder{
		OrderNumber:   formatOrderNumber(now.Year(), seq),
		UserID:        buyer.ID,
		Subtotal:      subtotal,
		Discount:      decimal.Zero,
		Total:         total,
		Status:        domain.OrderStatusProcessing,
		PaymentStatus: domain.PaymentStatusPaid,
		PaidAt:        &now,
	})
	if orderErr != nil {
		return nil, orderErr //nolint:wrapcheck
	}

	if err := writeLedger(ctx, tx, repoargs.CreateWalletTransaction{
		UserID:       buyer.ID,
		Direction:    domain.DirectionDebit,
		Kind:         domain.WalletKindPurchase,
		Amount:       total,
		BalanceAfter: balance,
		ReferenceID:  order.ID,
	}); err != nil {
		return nil, err
	}

	created, itemsErr := o.createItems(ctx, orderRepo, order.ID, itemArgs)
	if itemsErr != nil {
		return nil, itemsErr
	}

	if buyer.ReferredBy != nil {
		if err := o.accrueCommission(ctx, tx, order, *buyer.ReferredBy); err != nil {
			return nil, err
		}
	}

	allDelivered, _, deliverErr := o.deliverAutomatic(ctx, tx, created)
	if deliverErr != nil {
		return nil, deliverErr
	}
	if allDelivered {
		if err := orderRepo.UpdateStatus(ctx, repoargs.UpdateOrderStatus{
			ID:     order.ID,
			Status: domain.OrderStatusCompleted,
		}); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	if err := writeAudit(ctx, tx, actor, domain.AuditOrderCreated, "order", order.ID, map[string]any{
		"orderNumber": order.OrderNumber,
		"total":       total.StringFixed(moneyPlaces),
		"items":       len(created),
	}); err != nil {
		return nil, err
	}

	return o.loadDetails(ctx, tx, order.ID)
}

func (o *OrderService) createItems(
	ctx context.Context,
	orderRepo OrderRepository,
	orderID int64,
	args []repoargs.CreateOrderItem,
) ([]domain.OrderItem, error) {
	created := make([]domain.OrderItem, len(args))
	var batchErr error
	orderRepo.BatchCreateItems(ctx, orderID, args, func(i int, item *domain.OrderItem, err error) {
		if err != nil {
			batchErr = err
			return
		}
		created[i] = *item
	})
	if batchErr != nil {
		return nil, batchErr
	}
	return created, nil
}

// accrueCommission начисляет комиссию пригласившему аффилиату. Если пригласивший не является активным
// аффилиатом, комиссия не начисляется.
func (o *OrderService) accrueCommission(ctx context.Context, tx uow.TX, order *domain.Order, referrerID int64) error {
	userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
	if userRepoErr != nil {
		return userRepoErr
	}
	referrer, findErr := userRepo.FindByIDForUpdate(ctx, referrerID)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			return nil
		}
		return findErr //nolint:wrapcheck
	}
	if referrer.Role != domain.RoleAffiliate || !referrer.IsActive() {
		return nil
	}

	configRepo, configRepoErr := repo[SystemConfigRepository](tx, repoargs.ConfigRepoName)
	if configRepoErr != nil {
		return configRepoErr
	}
	rate, rateErr := configDecimal(ctx, configRepo, domain.ConfigCommissionRate, defaultCommissionRate)
	if rateErr != nil {
		return rateErr
	}
	amount := calcCommission(order.Total, rate)
	if !amount.IsPositive() {
		return nil
	}

	commissionRepo, commissionRepoErr := repo[CommissionRepository](tx, repoargs.CommissionRepoName)
	if commissionRepoErr != nil {
		return commissionRepoErr
	}
	if _, err := commissionRepo.Create(ctx, repoargs.CreateCommission{
		AffiliateID:    referrer.ID,
		OrderID:        order.ID,
		OrderTotal:     order.Total,
		CommissionRate: rate,
		Amount:         amount,
	}); err != nil {
		return err //nolint:wrapcheck
	}
	if err := userRepo.AdjustCommissions(ctx, referrer.ID, amount, amount); err != nil {
		return err //nolint:wrapcheck
	}

	orderRepo, orderRepoErr := repo[OrderRepository](tx, repoargs.OrderRepoName)
	if orderRepoErr != nil {
		return orderRepoErr
	}
	return orderRepo.SetCommission(ctx, order.ID, referrer.ID, amount) //nolint:wrapcheck
}

// deliverAutomatic закрепляет за невыданными позициями с автоматической выдачей свободные доступы из пула.
// Позиция считается выданной, когда за ней закреплено quantity доступов. Возвращает признак того, что
// выданы все позиции заказа, и id позиций, выданных в этом вызове.
func (o *OrderService) deliverAutomatic(
	ctx context.Context,
	tx uow.TX,
	items []domain.OrderItem,
) (bool, []int64, error) {
	orderRepo, orderRepoErr := repo[OrderRepository](tx, repoargs.OrderRepoName)
	if orderRepoErr != nil {
		return false, nil, orderRepoErr
	}
	credRepo, credRepoErr := repo[CredentialRepository](tx, repoargs.CredentialRepoName)
	if credRepoErr != nil {
		return false, nil, credRepoErr
	}

	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}
	assigned, assignedErr := credRepo.SecretsByItems(ctx, itemIDs)
	if assignedErr != nil {
		return false, nil, assignedErr //nolint:wrapcheck
	}

	allDelivered := true
	var delivered []int64
	for _, item := range items {
		if item.Delivered {
			continue
		}
		if item.DeliveryType != domain.DeliveryAutomatic {
			allDelivered = false
			continue
		}

		need := item.Quantity - len(assigned[item.ID])
		if need > 0 {
			claimed, claimErr := credRepo.ClaimAvailable(ctx, item.ProductID, item.ID, need)
			if claimErr != nil {
				return false, nil, claimErr //nolint:wrapcheck
			}
			need -= len(claimed)
		}
		if need > 0 {
			allDelivered = false
			continue
		}

		if err := orderRepo.MarkItemDelivered(ctx, item.ID); err != nil {
			return false, nil, err //nolint:wrapcheck
		}
		delivered = append(delivered, item.ID)
	}
	return allDelivered, delivered, nil
}

// loadDetails возвращает заказ с позициями и выданными доступами.
func (o *OrderService) loadDetails(ctx context.Context, tx uow.TX, orderID int64) (*domain.Order, error) {
	orderRepo, orderRepoErr := repo[OrderRepository](tx, repoargs.OrderRepoName)
	if orderRepoErr != nil {
		return nil, orderRepoErr
	}
	credRepo, credRepoErr := repo[CredentialRepository](tx, repoargs.CredentialRepoName)
	if credRepoErr != nil {
		return nil, credRepoErr
	}
	return fetchDetails(ctx, orderRepo, credRepo, orderID)
}

func fetchDetails(
	ctx context.Context,
	orderRepo OrderRepository,
	credRepo CredentialRepository,
	orderID int64,
) (*domain.Order, error) {
	order, orderErr := orderRepo.FindByID(ctx, orderID)
	if orderErr != nil {
		return nil, orderErr //nolint:wrapcheck
	}
	items, itemsErr := orderRepo.Items(ctx, orderID)
	if itemsErr != nil {
		return nil, itemsErr //nolint:wrapcheck
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	secrets, secretsErr := credRepo.SecretsByItems(ctx, ids)
	if secretsErr != nil {
		return nil, secretsErr //nolint:wrapcheck
	}
	for i := range items {
		items[i].Credentials = secrets[items[i].ID]
	}
	order.Items = items
	return order, nil
}

// List возвращает страницу заказов. Не администратор видит только свои заказы.
func (o *OrderService) List(
	ctx context.Context,
	actor domain.Actor,
	filter repoargs.OrderFilter,
) ([]domain.Order, int64, error) {
	if !actor.IsAdmin() {
		filter.UserID = &actor.UserID
	}
	orders, total, err := o.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err //nolint:wrapcheck
	}
	return orders, total, nil
}

// Get возвращает заказ с позициями и доступами. Чужой заказ доступен только администратору.
func (o *OrderService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Order, error) {
	order, err := fetchDetails(ctx, o.orderRepo, o.credRepo, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// UpdateStatus переводит заказ в статус next.
//
// Завершить можно только заказ, по которому выданы все позиции. Отмена оплаченного заказа возвращает
// деньги на кошелек, возвращает остатки на склад и отменяет невыплаченную комиссию. Если комиссия
// уже выплачена, отмена невозможна (domain.ErrCommissionAlreadyPaid).
func (o *OrderService) UpdateStatus(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	next domain.OrderStatusType,
) (*domain.Order, error) {
	var (
		order *domain.Order
		from  domain.OrderStatusType
	)
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := repo[OrderRepository](tx, repoargs.OrderRepoName)
		if orderRepoErr != nil {
			return orderRepoErr
		}
		current, findErr := orderRepo.FindByIDForUpdate(c, id)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		from = current.Status
		if !current.Status.CanTransitionTo(next) {
			return domain.NewInvalidStatusError("order", string(current.Status), "")
		}

		items, itemsErr := orderRepo.Items(c, id)
		if itemsErr != nil {
			return itemsErr //nolint:wrapcheck
		}
		current.Items = items

		upd := repoargs.UpdateOrderStatus{ID: id, Status: next}
		switch next {
		case domain.OrderStatusCompleted:
			if !current.AllDelivered() {
				return domain.ErrUndeliveredItems
			}
		case domain.OrderStatusCancelled:
			refunded, cancelErr := o.cancelInTx(c, tx, current)
			if cancelErr != nil {
				return cancelErr
			}
			if refunded {
				status := domain.PaymentStatusRefunded
				upd.PaymentStatus = &status
			}
		}

		if err := orderRepo.UpdateStatus(c, upd); err != nil {
			return err //nolint:wrapcheck
		}
		if err := writeAudit(c, tx, actor, domain.AuditOrderStatus, "order", id, map[string]any{
			"from": current.Status,
			"to":   next,
		}); err != nil {
			return err
		}

		var loadErr error
		order, loadErr = o.loadDetails(c, tx, id)
		return loadErr
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating status of order %d: %w", id, txErr)
	}

	o.sink.publish(ctx, events.OrderStatusChanged, order.ID, events.OrderStatusPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		From:        string(from),
		To:          string(next),
		ChangedBy:   actor.UserID,
	})
	return order, nil
}

// cancelInTx откатывает денежные и складские последствия заказа. Возвращает true, если деньги были
// возвращены на кошелек. Невыданные позиции возвращают на склад и остаток, и частично закрепленные
// за ними доступы. Выданные позиции на склад не возвращаются.
func (o *OrderService) cancelInTx(ctx context.Context, tx uow.TX, order *domain.Order) (bool, error) {
	if err := o.cancelCommission(ctx, tx, order.ID); err != nil {
		return false, err
	}
	if err := o.releaseUndelivered(ctx, tx, order.Items); err != nil {
		return false, err
	}

	if order.PaymentStatus != domain.PaymentStatusPaid || !order.Total.IsPositive() {
		return false, nil
	}
	userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
	if userRepoErr != nil {
		return false, userRepoErr
	}
	balance, creditErr := userRepo.CreditWallet(ctx, order.UserID, order.Total)
	if creditErr != nil {
		return false, creditErr //nolint:wrapcheck
	}
	if err := writeLedger(ctx, tx, repoargs.CreateWalletTransaction{
		UserID:       order.UserID,
		Direction:    domain.DirectionCredit,
		Kind:         domain.WalletKindRefund,
		Amount:       order.Total,
		BalanceAfter: balance,
		ReferenceID:  order.ID,
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (o *OrderService) releaseUndelivered(ctx context.Context, tx uow.TX, items []domain.OrderItem) error {
	var pending []domain.OrderItem
	for _, item := range items {
		if !item.Delivered {
			pending = append(pending, item)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	productRepo, productRepoErr := repo[ProductRepository](tx, repoargs.ProductRepoName)
	if productRepoErr != nil {
		return productRepoErr
	}
	credRepo, credRepoErr := repo[CredentialRepository](tx, repoargs.CredentialRepoName)
	if credRepoErr != nil {
		return credRepoErr
	}

	itemIDs := make([]int64, 0, len(pending))
	for _, item := range pending {
		itemIDs = append(itemIDs, item.ID)
	}
	released, releaseErr := credRepo.ReleaseByItems(ctx, itemIDs)
	if releaseErr != nil {
		return releaseErr //nolint:wrapcheck
	}
	if released > 0 {
		o.sink.log.WithFields(logrus.Fields{"items": itemIDs, "released": released}).Info("credentials returned to pool")
	}

	for _, item := range pending {
		if err := productRepo.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err //nolint:wrapcheck
		}
	}
	return nil
}

func (o *OrderService) cancelCommission(ctx context.Context, tx uow.TX, orderID int64) error {
	commissionRepo, commissionRepoErr := repo[CommissionRepository](tx, repoargs.CommissionRepoName)
	if commissionRepoErr != nil {
		return commissionRepoErr
	}
	commission, findErr := commissionRepo.FindByOrderIDForUpdate(ctx, orderID)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			return nil
		}
		return findErr //nolint:wrapcheck
	}

	switch commission.Status {
	case domain.CommissionStatusPaid:
		return domain.ErrCommissionAlreadyPaid
	case domain.CommissionStatusCancelled:
		return nil
	}

	if _, err := commissionRepo.UpdateStatus(ctx, commission.ID, domain.CommissionStatusCancelled); err != nil {
		return err //nolint:wrapcheck
	}
	userRepo, userRepoErr := repo[UserRepository](tx, repoargs.UserRepoName)
	if userRepoErr != nil {
		return userRepoErr
	}
	return userRepo.AdjustCommissions( //nolint:wrapcheck
		ctx, commission.AffiliateID, commission.Amount.Neg(), commission.Amount.Neg(),
	)
}

// DeliverItem выдает позицию заказа вручную: закрепляет за ней переданные доступы и помечает выданной.
// Когда выданы все позиции, заказ завершается.
func (o *OrderService) DeliverItem(
	ctx context.Context,
	actor domain.Actor,
	orderID, itemID int64,
	secrets []string,
) (*domain.Order, error) {
	secrets = cleanSecrets(secrets)
	if len(secrets) == 0 {
		return nil, domain.NewValidationError("credentials", "at least one credential is required")
	}

	var (
		order     *domain.Order
		completed bool
	)
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := repo[OrderRepository](tx, repoargs.OrderRepoName)
		if orderRepoErr != nil {
			return orderRepoErr
		}
		credRepo, credRepoErr := repo[CredentialRepository](tx, repoargs.CredentialRepoName)
		if credRepoErr != nil {
			return credRepoErr
		}

		current, findErr := orderRepo.FindByIDForUpdate(c, orderID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if current.Status != domain.OrderStatusPending && current.Status != domain.OrderStatusProcessing {
			return domain.NewInvalidStatusError("order", string(current.Status), string(domain.OrderStatusProcessing))
		}

		item, itemErr := orderRepo.FindItemForUpdate(c, orderID, itemID)
		if itemErr != nil {
			return itemErr //nolint:wrapcheck
		}
		if item.Delivered {
			return domain.ErrAlreadyDelivered
		}

		var batchErrs []error
		credRepo.BatchCreate(c, item.ProductID, secrets, &item.ID, func(_ int, err error) {
			if err != nil {
				batchErrs = append(batchErrs, err)
			}
		})
		if len(batchErrs) > 0 {
			return errors.Join(batchErrs...)
		}
		if err := orderRepo.MarkItemDelivered(c, item.ID); err != nil {
			return err //nolint:wrapcheck
		}

		var completeErr error
		completed, completeErr = o.completeIfDelivered(c, orderRepo, orderID)
		if completeErr != nil {
			return completeErr
		}

		if err := writeAudit(c, tx, actor, domain.AuditOrderItemDelivery, "order", orderID, map[string]any{
			"itemId":    item.ID,
			"count":     len(secrets),
			"completed": completed,
		}); err != nil {
			return err
		}

		var loadErr error
		order, loadErr = o.loadDetails(c, tx, orderID)
		return loadErr
	})
	if txErr != nil {
		return nil, fmt.Errorf("delivering item %d of order %d: %w", itemID, orderID, txErr)
	}

	o.sink.publish(ctx, events.OrderItemsDelivered, orderID, events.OrderDeliveryPayload{
		OrderID:   orderID,
		ItemIDs:   []int64{itemID},
		Completed: completed,
	})
	return order, nil
}

func (o *OrderService) completeIfDelivered(ctx context.Context, orderRepo OrderRepository, orderID int64) (bool, error) {
	items, itemsErr := orderRepo.Items(ctx, orderID)
	if itemsErr != nil {
		return false, itemsErr //nolint:wrapcheck
	}
	order := domain.Order{Items: items}
	if !order.AllDelivered() {
		return false, nil
	}
	if err := orderRepo.UpdateStatus(ctx, repoargs.UpdateOrderStatus{
		ID:     orderID,
		Status: domain.OrderStatusCompleted,
	}); err != nil {
		return false, err //nolint:wrapcheck
	}
	return true, nil
}

// AutoDeliverResult итог автоматической выдачи по одному заказу.
type AutoDeliverResult struct {
	OrderID   int64
	Delivered []int64
	Completed bool
}

// AutoDeliver выдает доступы из пула по невыданным позициям заказа в статусе PROCESSING. Заказы в других
// статусах пропускаются без ошибки.
func (o *OrderService) AutoDeliver(ctx context.Context, orderID int64) (*AutoDeliverResult, error) {
	res := &AutoDeliverResult{OrderID: orderID}
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := repo[OrderRepository](tx, repoargs.OrderRepoName)
		if orderRepoErr != nil {
			return orderRepoErr
		}
		order, findErr := orderRepo.FindByIDForUpdate(c, orderID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if order.Status != domain.OrderStatusProcessing {
			return nil
		}
		items, itemsErr := orderRepo.Items(c, orderID)
		if itemsErr != nil {
			return itemsErr //nolint:wrapcheck
		}

		allDelivered, delivered, deliverErr := o.deliverAutomatic(c, tx, items)
		if deliverErr != nil {
			return deliverErr
		}
		res.Delivered = delivered
		if !allDelivered {
			return nil
		}
		res.Completed = true
		return orderRepo.UpdateStatus(c, repoargs.UpdateOrderStatus{ //nolint:wrapcheck
			ID:     orderID,
			Status: domain.OrderStatusCompleted,
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("auto delivering order %d: %w", orderID, txErr)
	}

	if len(res.Delivered) > 0 {
		o.sink.publish(ctx, events.OrderItemsDelivered, orderID, events.OrderDeliveryPayload{
			OrderID:   orderID,
			ItemIDs:   res.Delivered,
			Completed: res.Completed,
		})
	}
	return res, nil
}

// OrdersForAutoDelivery возвращает id заказов, по которым можно выдать доступы из пула.
func (o *OrderService) OrdersForAutoDelivery(ctx context.Context, limit uint) ([]int64, error) {
	ids, err := o.orderRepo.GetForAutoDelivery(ctx, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return ids, nil
}

// mergeOrderItems схлопывает повторяющиеся продукты и сортирует позиции по id продукта, чтобы
// параллельные заказы блокировали строки продуктов в одном порядке.
func mergeOrderItems(items []OrderItemArgs) ([]OrderItemArgs, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "order must contain at least one item")
	}
	qty := make(map[int64]int, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, domain.NewValidationError("quantity", "quantity must be at least 1")
		}
		qty[item.ProductID] += item.Quantity
	}

	merged := make([]OrderItemArgs, 0, len(qty))
	for productID, q := range qty {
		merged = append(merged, OrderItemArgs{ProductID: productID, Quantity: q})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}
