//go:build integration

package pgrepo_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/pgrepo"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const migrationsDir = "../../db/migrations"

type PgRepoTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
}

func TestPgRepoSuite(t *testing.T) {
	suite.Run(t, new(PgRepoTestSuite))
}

func (s *PgRepoTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("luffy"),
		postgres.WithUsername("luffy"),
		postgres.WithPassword("luffy"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, dsnErr := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(dsnErr)

	l := logrus.New()
	l.SetOutput(io.Discard)
	pool, connErr := pgrepo.Connect(ctx, migrationsDir, dsn, l)
	s.Require().NoError(connErr)
	s.pool = pool
}

func (s *PgRepoTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PgRepoTestSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE users, products, orders, order_items,
		product_credentials, recharges, commissions, wallet_transactions, audit_logs, order_counters
		RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func (s *PgRepoTestSuite) createUser(email string) *domain.User {
	user, err := pgrepo.NewUserRepository(s.pool).CreateUser(context.Background(), repoargs.CreateUser{
		Email:    email,
		Password: "hash",
		Name:     "Test",
		Role:     domain.RoleUser,
		Status:   domain.UserStatusActive,
	})
	s.Require().NoError(err)
	return user
}

func (s *PgRepoTestSuite) TestUserDuplicateEmail() {
	s.createUser("dup@example.com")

	_, err := pgrepo.NewUserRepository(s.pool).CreateUser(context.Background(), repoargs.CreateUser{
		Email:    "dup@example.com",
		Password: "hash",
		Name:     "Other",
		Role:     domain.RoleUser,
		Status:   domain.UserStatusActive,
	})
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)

	found, findErr := pgrepo.NewUserRepository(s.pool).FindByEmail(context.Background(), "DUP@example.com")
	s.Require().NoError(findErr)
	s.Equal("dup@example.com", found.Email)
}

func (s *PgRepoTestSuite) TestWalletDebitNeverGoesNegative() {
	ctx := context.Background()
	repo := pgrepo.NewUserRepository(s.pool)
	user := s.createUser("wallet@example.com")

	balance, creditErr := repo.CreditWallet(ctx, user.ID, decimal.NewFromInt(10))
	s.Require().NoError(creditErr)
	s.True(balance.Equal(decimal.NewFromInt(10)))

	_, debitErr := repo.DebitWallet(ctx, user.ID, decimal.NewFromFloat(10.01))
	s.Require().ErrorIs(debitErr, domain.ErrNotEnoughBalance)

	balance, debitErr = repo.DebitWallet(ctx, user.ID, decimal.NewFromInt(10))
	s.Require().NoError(debitErr)
	s.True(balance.IsZero())
}

func (s *PgRepoTestSuite) TestReserveStock() {
	ctx := context.Background()
	repo := pgrepo.NewProductRepository(s.pool)
	product, err := repo.Create(ctx, repoargs.CreateProduct{
		Name:         "Netflix",
		Slug:         "netflix",
		PriceUSD:     decimal.NewFromInt(5),
		PricePEN:     decimal.NewFromFloat(18.3),
		DeliveryType: domain.DeliveryAutomatic,
		Status:       domain.ProductStatusActive,
	})
	s.Require().NoError(err)

	_, dupErr := repo.Create(ctx, repoargs.CreateProduct{Name: "Netflix", Slug: "netflix",
		DeliveryType: domain.DeliveryAutomatic, Status: domain.ProductStatusActive})
	s.Require().ErrorIs(dupErr, domain.ErrDuplicateKey)

	_, reserveErr := repo.ReserveStock(ctx, product.ID, 1)
	s.Require().ErrorIs(reserveErr, domain.ErrOutOfStock)

	_, incErr := repo.IncreaseStock(ctx, product.ID, 2)
	s.Require().NoError(incErr)

	reserved, reserveErr := repo.ReserveStock(ctx, product.ID, 2)
	s.Require().NoError(reserveErr)
	s.Equal(0, reserved.Stock)
	s.Equal(2, reserved.Sold)
}

func (s *PgRepoTestSuite) TestOrderNumberCounterIsPerYear() {
	ctx := context.Background()
	repo := pgrepo.NewOrderRepository(s.pool)

	first, err := repo.NextNumberSeq(ctx, 2025)
	s.Require().NoError(err)
	second, err := repo.NextNumberSeq(ctx, 2025)
	s.Require().NoError(err)
	otherYear, err := repo.NextNumberSeq(ctx, 2026)
	s.Require().NoError(err)

	s.Equal(1, first)
	s.Equal(2, second)
	s.Equal(1, otherYear)
}

func (s *PgRepoTestSuite) TestRechargeApprovedOnce() {
	ctx := context.Background()
	repo := pgrepo.NewRechargeRepository(s.pool)
	user := s.createUser("recharge@example.com")
	admin := s.createUser("admin@example.com")

	recharge, err := repo.Create(ctx, repoargs.CreateRecharge{
		UserID:        user.ID,
		Amount:        decimal.NewFromInt(50),
		PaymentMethod: "YAPE",
	})
	s.Require().NoError(err)
	s.Equal(domain.RechargeStatusPending, recharge.Status)

	approved, approveErr := repo.Approve(ctx, recharge.ID, admin.ID)
	s.Require().NoError(approveErr)
	s.Equal(domain.RechargeStatusApproved, approved.Status)
	s.Require().NotNil(approved.ApprovedBy)
	s.Equal(admin.ID, *approved.ApprovedBy)

	_, secondErr := repo.Approve(ctx, recharge.ID, admin.ID)
	s.Require().ErrorIs(secondErr, domain.ErrRecordNotFound)
}

func (s *PgRepoTestSuite) TestDeleteReferencedUser() {
	ctx := context.Background()
	user := s.createUser("ref@example.com")
	_, err := pgrepo.NewRechargeRepository(s.pool).Create(ctx, repoargs.CreateRecharge{
		UserID:        user.ID,
		Amount:        decimal.NewFromInt(1),
		PaymentMethod: "PLIN",
	})
	s.Require().NoError(err)

	delErr := pgrepo.NewUserRepository(s.pool).Delete(ctx, user.ID)
	s.Require().ErrorIs(delErr, domain.ErrForeignKeyViolation)
}

func (s *PgRepoTestSuite) TestSystemConfigSeeded() {
	cfg, err := pgrepo.NewSystemConfigRepository(s.pool).Get(context.Background(), domain.ConfigCommissionRate)
	s.Require().NoError(err)
	s.Equal("0.10", cfg.Value)
}

func (s *PgRepoTestSuite) TestCredentialsReleasedByItems() {
	ctx := context.Background()
	products := pgrepo.NewProductRepository(s.pool)
	creds := pgrepo.NewCredentialRepository(s.pool)
	orders := pgrepo.NewOrderRepository(s.pool)
	user := s.createUser("buyer@example.com")

	product, err := products.Create(ctx, repoargs.CreateProduct{
		Name:         "Disney+",
		Slug:         "disney",
		PriceUSD:     decimal.NewFromInt(4),
		PricePEN:     decimal.NewFromFloat(14.64),
		DeliveryType: domain.DeliveryAutomatic,
		Status:       domain.ProductStatusActive,
	})
	s.Require().NoError(err)
	creds.BatchCreate(ctx, product.ID, []string{"a@luffy.pe:1"}, nil, func(_ int, batchErr error) {
		s.Require().NoError(batchErr)
	})

	order, orderErr := orders.CreateOrder(ctx, repoargs.CreateOrder{
		OrderNumber:   "LFS-2025-0001",
		UserID:        user.ID,
		Subtotal:      decimal.NewFromInt(8),
		Total:         decimal.NewFromInt(8),
		Status:        domain.OrderStatusProcessing,
		PaymentStatus: domain.PaymentStatusPaid,
	})
	s.Require().NoError(orderErr)
	var item *domain.OrderItem
	orders.BatchCreateItems(ctx, order.ID, []repoargs.CreateOrderItem{{
		ProductID:    product.ID,
		Quantity:     2,
		PriceUSD:     decimal.NewFromInt(4),
		PricePEN:     decimal.NewFromFloat(14.64),
		Subtotal:     decimal.NewFromInt(8),
		ProductName:  product.Name,
		DeliveryType: domain.DeliveryAutomatic,
	}}, func(_ int, created *domain.OrderItem, batchErr error) {
		s.Require().NoError(batchErr)
		item = created
	})
	s.Require().NotNil(item)

	claimed, claimErr := creds.ClaimAvailable(ctx, product.ID, item.ID, 2)
	s.Require().NoError(claimErr)
	s.Len(claimed, 1)
	available, countErr := creds.CountAvailable(ctx, product.ID)
	s.Require().NoError(countErr)
	s.Zero(available)

	released, releaseErr := creds.ReleaseByItems(ctx, []int64{item.ID})
	s.Require().NoError(releaseErr)
	s.Equal(int64(1), released)

	secrets, secretsErr := creds.SecretsByItems(ctx, []int64{item.ID})
	s.Require().NoError(secretsErr)
	s.Empty(secrets[item.ID])
	available, countErr = creds.CountAvailable(ctx, product.ID)
	s.Require().NoError(countErr)
	s.Equal(int64(1), available)

	none, noneErr := creds.ReleaseByItems(ctx, nil)
	s.Require().NoError(noneErr)
	s.Zero(none)
}
