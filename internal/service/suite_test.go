package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service/mocks"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	uowmocks "github.com/fsdevblog/luffy-streaming/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// serviceSuite общая обвязка тестов сервисов: моки uow, транзакции и всех репозиториев.
// Репозитории отдаются и вне транзакции, и из мока транзакции.
type serviceSuite struct {
	suite.Suite
	mockUOW            *uowmocks.MockUOW
	mockTX             *uowmocks.MockTX
	mockUserRepo       *mocks.MockUserRepository
	mockProductRepo    *mocks.MockProductRepository
	mockCredRepo       *mocks.MockCredentialRepository
	mockOrderRepo      *mocks.MockOrderRepository
	mockRechargeRepo   *mocks.MockRechargeRepository
	mockCommissionRepo *mocks.MockCommissionRepository
	mockWalletRepo     *mocks.MockWalletTransactionRepository
	mockAuditRepo      *mocks.MockAuditLogRepository
	mockConfigRepo     *mocks.MockSystemConfigRepository
	mockStatsRepo      *mocks.MockStatsRepository
	mockEvents         *mocks.MockEventPublisher
}

func (s *serviceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(ctrl)
	s.mockTX = uowmocks.NewMockTX(ctrl)
	s.mockUserRepo = mocks.NewMockUserRepository(ctrl)
	s.mockProductRepo = mocks.NewMockProductRepository(ctrl)
	s.mockCredRepo = mocks.NewMockCredentialRepository(ctrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(ctrl)
	s.mockRechargeRepo = mocks.NewMockRechargeRepository(ctrl)
	s.mockCommissionRepo = mocks.NewMockCommissionRepository(ctrl)
	s.mockWalletRepo = mocks.NewMockWalletTransactionRepository(ctrl)
	s.mockAuditRepo = mocks.NewMockAuditLogRepository(ctrl)
	s.mockConfigRepo = mocks.NewMockSystemConfigRepository(ctrl)
	s.mockStatsRepo = mocks.NewMockStatsRepository(ctrl)
	s.mockEvents = mocks.NewMockEventPublisher(ctrl)

	repos := map[repoargs.RepositoryName]uow.Repository{
		repoargs.UserRepoName:       s.mockUserRepo,
		repoargs.ProductRepoName:    s.mockProductRepo,
		repoargs.CredentialRepoName: s.mockCredRepo,
		repoargs.OrderRepoName:      s.mockOrderRepo,
		repoargs.RechargeRepoName:   s.mockRechargeRepo,
		repoargs.CommissionRepoName: s.mockCommissionRepo,
		repoargs.WalletRepoName:     s.mockWalletRepo,
		repoargs.AuditRepoName:      s.mockAuditRepo,
		repoargs.ConfigRepoName:     s.mockConfigRepo,
		repoargs.StatsRepoName:      s.mockStatsRepo,
	}
	for name, r := range repos {
		s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(name)).Return(r, nil).AnyTimes()
		s.mockTX.EXPECT().Get(uow.RepositoryName(name)).Return(r, nil).AnyTimes()
	}

	// Мок uow выполняет функцию в контексте мока транзакции.
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()
}

// expectAudit ожидает одну запись журнала аудита с действием action.
func (s *serviceSuite) expectAudit(action domain.AuditAction) *gomock.Call {
	return s.mockAuditRepo.EXPECT().
		Create(gomock.Any(), match(func(a repoargs.CreateAuditLog) bool { return a.Action == action })).
		Return(nil)
}

// expectLedger ожидает строку журнала кошелька указанного вида на сумму amount.
func (s *serviceSuite) expectLedger(kind domain.WalletTransactionKind, amount string) *gomock.Call {
	return s.mockWalletRepo.EXPECT().
		Create(gomock.Any(), match(func(a repoargs.CreateWalletTransaction) bool {
			return a.Kind == kind && a.Amount.Equal(decimal.RequireFromString(amount))
		})).
		Return(&domain.WalletTransaction{}, nil)
}

type funcMatcher[T any] struct {
	fn func(T) bool
}

func (m funcMatcher[T]) Matches(x any) bool {
	v, ok := x.(T)
	return ok && m.fn(v)
}

func (m funcMatcher[T]) String() string {
	var zero T
	return fmt.Sprintf("matches predicate on %T", zero)
}

func match[T any](fn func(T) bool) gomock.Matcher {
	return funcMatcher[T]{fn: fn}
}

// dec сравнивает decimal по значению, а не по внутреннему представлению.
func dec(s string) gomock.Matcher {
	want := decimal.RequireFromString(s)
	return match(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func ptr[T any](v T) *T {
	return &v
}
