package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/metrics"
	"github.com/fsdevblog/luffy-streaming/internal/telemetry"
	"github.com/fsdevblog/luffy-streaming/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup = "/api"

	RegisterRoute = "/auth/register"
	LoginRoute    = "/auth/login"
	LogoutRoute   = "/auth/logout"
	MeRoute       = "/auth/me"

	ProductsRoute           = "/products"
	ProductRoute            = "/products/:id"
	ProductCredentialsRoute = "/products/:id/credentials"

	OrdersRoute           = "/orders"
	OrderRoute            = "/orders/:id"
	OrderStatusRoute      = "/orders/:id/status"
	OrderItemDeliverRoute = "/orders/:id/items/:itemId/deliver"

	RechargesRoute       = "/recharges"
	RechargeRoute        = "/recharges/:id"
	RechargeApproveRoute = "/recharges/approve/:id"
	RechargeRejectRoute  = "/recharges/reject/:id"

	WalletRoute = "/wallet"

	AffiliateMeRoute      = "/affiliate/me"
	AffiliatesRoute       = "/affiliates"
	AffiliateRoute        = "/affiliates/:id"
	AffiliateApproveRoute = "/affiliates/approve/:id"
	CommissionPayRoute    = "/affiliates/commissions/:id/pay"

	UsersRoute = "/users"
	UserRoute  = "/users/:id"

	AdminStatsRoute = "/stats/admin"
	ConfigRoute     = "/config"
	ConfigKeyRoute  = "/config/:key"
	AuditLogsRoute  = "/audit-logs"

	HealthRoute  = "/health"
	MetricsRoute = "/metrics"
)

// HealthChecker проверяет доступность зависимостей сервиса, например базы.
type HealthChecker func(ctx context.Context) error

type RouterArgs struct {
	Logger           *logrus.Logger
	UserService      UserServicer
	ProductService   ProductServicer
	OrderService     OrderServicer
	RechargeService  RechargeServicer
	AffiliateService AffiliateServicer
	WalletService    WalletServicer
	StatsService     StatsServicer
	ConfigService    ConfigServicer
	JWTSecretKey     []byte
	CookieSecure     bool
	// AuthLimiter ограничивает частоту регистраций и логинов. nil отключает ограничение.
	AuthLimiter *middlewares.RateLimiter
	Metrics     *metrics.Metrics
	Tracing     bool
	Health      HealthChecker
}

func New(args RouterArgs) *gin.Engine {
	if err := registerValidators(); err != nil && args.Logger != nil {
		args.Logger.WithError(err).Error("register validators")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Tracing {
		r.Use(otelgin.Middleware(telemetry.ServiceName))
	}
	if args.Metrics != nil {
		r.Use(middlewares.Metrics(args.Metrics))
	}
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	r.GET(HealthRoute, healthHandler(args.Health))
	if args.Metrics != nil {
		r.GET(MetricsRoute, gin.WrapH(args.Metrics.Handler()))
	}

	authHandler := NewAuthHandler(args.UserService, args.CookieSecure)
	usersHandler := NewUsersHandler(args.UserService)
	productsHandler := NewProductsHandler(args.ProductService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	rechargesHandler := NewRechargesHandler(args.RechargeService)
	affiliatesHandler := NewAffiliatesHandler(args.AffiliateService)
	walletHandler := NewWalletHandler(args.WalletService)
	statsHandler := NewStatsHandler(args.StatsService)
	configHandler := NewConfigHandler(args.ConfigService)

	api := r.Group(RouteGroup)

	anonymous := api.Group("")
	if args.AuthLimiter != nil {
		anonymous.Use(args.AuthLimiter.Handler())
	}
	anonymous.POST(RegisterRoute, authHandler.Register)
	anonymous.POST(LoginRoute, authHandler.Login)
	api.POST(LogoutRoute, authHandler.Logout)

	public := api.Group("", middlewares.OptionalAuth(args.JWTSecretKey))
	public.GET(ProductsRoute, productsHandler.Index)
	public.GET(ProductRoute, productsHandler.Show)

	// ниже все роуты группы требуют авторизованного пользователя.
	authed := api.Group("", middlewares.AuthRequired(args.JWTSecretKey))
	authed.GET(MeRoute, authHandler.Me)

	authed.POST(OrdersRoute, ordersHandler.Create)
	authed.GET(OrdersRoute, ordersHandler.Index)
	authed.GET(OrderRoute, ordersHandler.Show)

	authed.POST(RechargesRoute, rechargesHandler.Create)
	authed.GET(RechargesRoute, rechargesHandler.Index)
	authed.GET(RechargeRoute, rechargesHandler.Show)

	authed.GET(WalletRoute, walletHandler.Index)

	affiliate := authed.Group("", middlewares.RoleRequired(domain.RoleAffiliate))
	affiliate.GET(AffiliateMeRoute, affiliatesHandler.Dashboard)

	admin := authed.Group("", middlewares.RoleRequired(domain.RoleAdmin))
	admin.POST(ProductsRoute, productsHandler.Create)
	admin.PUT(ProductRoute, productsHandler.Update)
	admin.DELETE(ProductRoute, productsHandler.Delete)
	admin.POST(ProductCredentialsRoute, productsHandler.AddCredentials)

	admin.PUT(OrderStatusRoute, ordersHandler.UpdateStatus)
	admin.PUT(OrderItemDeliverRoute, ordersHandler.DeliverItem)

	admin.PUT(RechargeApproveRoute, rechargesHandler.Approve)
	admin.PUT(RechargeRejectRoute, rechargesHandler.Reject)

	admin.GET(AffiliatesRoute, affiliatesHandler.Index)
	admin.GET(AffiliateRoute, affiliatesHandler.Show)
	admin.PUT(AffiliateApproveRoute, affiliatesHandler.Approve)
	admin.PUT(AffiliateRoute, affiliatesHandler.Update)
	admin.PUT(CommissionPayRoute, affiliatesHandler.PayCommission)

	admin.GET(UsersRoute, usersHandler.Index)
	admin.GET(UserRoute, usersHandler.Show)
	admin.PUT(UserRoute, usersHandler.Update)
	admin.DELETE(UserRoute, usersHandler.Delete)

	admin.GET(AdminStatsRoute, statsHandler.Admin)
	admin.GET(ConfigRoute, configHandler.Index)
	admin.PUT(ConfigKeyRoute, configHandler.Update)
	admin.GET(AuditLogsRoute, configHandler.AuditLogs)
	return r
}

func healthHandler(check HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				_ = c.Error(err).SetType(gin.ErrorTypePrivate)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
