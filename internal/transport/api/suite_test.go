package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/logger"
	"github.com/fsdevblog/luffy-streaming/internal/metrics"
	"github.com/fsdevblog/luffy-streaming/internal/service/tokens"
	"github.com/fsdevblog/luffy-streaming/internal/transport/api/mocks"
	"github.com/fsdevblog/luffy-streaming/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

const (
	userID      int64 = 10
	adminID     int64 = 1
	affiliateID int64 = 20
)

// handlerSuite общая обвязка тестов хендлеров: роутер с моками всех сервисов и токены для ролей.
type handlerSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret []byte

	mockUserService      *mocks.MockUserServicer
	mockProductService   *mocks.MockProductServicer
	mockOrderService     *mocks.MockOrderServicer
	mockRechargeService  *mocks.MockRechargeServicer
	mockAffiliateService *mocks.MockAffiliateServicer
	mockWalletService    *mocks.MockWalletServicer
	mockStatsService     *mocks.MockStatsServicer
	mockConfigService    *mocks.MockConfigServicer

	userToken      string
	adminToken     string
	affiliateToken string
}

func (s *handlerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *handlerSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.jwtSecret = []byte("super secret key")
	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.mockProductService = mocks.NewMockProductServicer(mockCtrl)
	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.mockRechargeService = mocks.NewMockRechargeServicer(mockCtrl)
	s.mockAffiliateService = mocks.NewMockAffiliateServicer(mockCtrl)
	s.mockWalletService = mocks.NewMockWalletServicer(mockCtrl)
	s.mockStatsService = mocks.NewMockStatsServicer(mockCtrl)
	s.mockConfigService = mocks.NewMockConfigServicer(mockCtrl)

	s.router = New(RouterArgs{
		Logger:           logger.New(io.Discard),
		UserService:      s.mockUserService,
		ProductService:   s.mockProductService,
		OrderService:     s.mockOrderService,
		RechargeService:  s.mockRechargeService,
		AffiliateService: s.mockAffiliateService,
		WalletService:    s.mockWalletService,
		StatsService:     s.mockStatsService,
		ConfigService:    s.mockConfigService,
		JWTSecretKey:     s.jwtSecret,
		Metrics:          metrics.New(),
	})

	s.userToken = s.token(userID, domain.RoleUser)
	s.adminToken = s.token(adminID, domain.RoleAdmin)
	s.affiliateToken = s.token(affiliateID, domain.RoleAffiliate)
}

func (s *handlerSuite) token(id int64, role domain.RoleType) string {
	token, err := tokens.GenerateUserJWT(id, role, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

// send выполняет запрос к роутеру и возвращает код ответа и разобранное json тело.
func (s *handlerSuite) send(
	method, url string,
	payload any,
	token string,
	opts ...func(*testutils.RequestOptions),
) (int, map[string]any) {
	res := s.sendRaw(method, url, payload, append([]func(*testutils.RequestOptions){
		testutils.WithBearer(token),
		testutils.WithHeader("Accept", "application/json"),
	}, opts...)...)

	// часть ответов не json, для них тело остается nil
	decoded, _ := testutils.DecodeJSON(res.Body)
	return res.StatusCode, decoded
}

// sendRaw нужен там, где тесту важны заголовки ответа.
func (s *handlerSuite) sendRaw(
	method, url string,
	payload any,
	opts ...func(*testutils.RequestOptions),
) *http.Response {
	body, bodyErr := testutils.JSONBody(payload)
	s.Require().NoError(bodyErr)

	opts = append([]func(*testutils.RequestOptions){
		testutils.WithHeader("Content-Type", "application/json"),
	}, opts...)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    RouteGroup + url,
		Body:   body,
	}, opts...)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = res.Body.Close() })
	return res
}

func actorWith(id int64, role domain.RoleType) gomock.Matcher {
	return match(func(a domain.Actor) bool { return a.UserID == id && a.Role == role })
}

func match[T any](fn func(T) bool) gomock.Matcher {
	return funcMatcher[T]{fn: fn}
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

func ptr[T any](v T) *T {
	return &v
}
