package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/config"
	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/metrics"
	"github.com/fsdevblog/luffy-streaming/internal/repository/pgrepo"
	"github.com/fsdevblog/luffy-streaming/internal/repository/redisrepo"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/fsdevblog/luffy-streaming/internal/service/psswd"
	"github.com/fsdevblog/luffy-streaming/internal/telemetry"
	"github.com/fsdevblog/luffy-streaming/internal/transport/api"
	"github.com/fsdevblog/luffy-streaming/internal/transport/api/middlewares"
	"github.com/fsdevblog/luffy-streaming/internal/transport/delivery"
	"github.com/fsdevblog/luffy-streaming/internal/transport/events"
	"github.com/fsdevblog/luffy-streaming/internal/transport/notify"
	"github.com/sirupsen/logrus"
)

const (
	shutdownTimeout        = 10 * time.Second
	limiterCleanupInterval = time.Minute
	readHeaderTimeout      = 5 * time.Second
	defaultVersion         = "dev"
	redisConnectTimeout    = 5 * time.Second
)

type App struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Version string
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config:  conf,
		Logger:  l,
		Version: defaultVersion,
	}
}

// Run поднимает зависимости, http сервер и процессор выдачи и блокируется до сигнала остановки или
// ошибки сервера. При остановке сервер дорабатывает текущие запросы в пределах shutdownTimeout.
func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.WithFields(logrus.Fields{
		"address":  a.Config.RunAddress,
		"redis":    a.Config.RedisAddr != "",
		"kafka":    a.Config.KafkaBrokers != "",
		"notifier": a.Config.NotifyWebhookURL != "",
		"tracing":  a.Config.OTLPEndpoint != "",
		"version":  a.Version,
	}).Info("Starting app")
	a.warnDisabledFeatures()

	shutdownTracer, tracerErr := telemetry.InitTracer(notifyCtx, a.Config.OTLPEndpoint, a.Version)
	if tracerErr != nil {
		return fmt.Errorf("app run: %s", tracerErr.Error())
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			a.Logger.WithError(err).Error("tracer shutdown")
		}
	}()

	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := pgrepo.NewUnitOfWork(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	factoryArgs := service.FactoryArgs{
		UOW: unitOfWork,
		Auth: service.AuthOptions{
			Secret: []byte(a.Config.JWTSecret),
			TTL:    a.Config.JWTTTL,
		},
		Hasher: psswd.PasswordHash(0),
		Logger: a.Logger,
	}

	if a.Config.RedisAddr != "" {
		redisCtx, cancel := context.WithTimeout(notifyCtx, redisConnectTimeout)
		rdb, redisErr := redisrepo.New(redisCtx, a.Config.RedisAddr)
		cancel()
		if redisErr != nil {
			return fmt.Errorf("app run: %s", redisErr.Error())
		}
		defer func() { _ = rdb.Close() }()
		factoryArgs.LoginAttempts = redisrepo.NewLoginAttemptStore(rdb)
	}

	if a.Config.KafkaBrokers != "" {
		publisher := events.NewKafkaPublisher(a.Config.KafkaBrokers, a.Config.KafkaTopic)
		defer func() {
			if err := publisher.Close(); err != nil {
				a.Logger.WithError(err).Error("events publisher close")
			}
		}()
		factoryArgs.Events = publisher
	}

	if a.Config.NotifyWebhookURL != "" {
		factoryArgs.Notifier = notify.NewWebhookNotifier(a.Config.NotifyWebhookURL)
	}

	services, sErr := service.Factory(factoryArgs)
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	appMetrics := metrics.New()

	authLimiter := middlewares.NewRateLimiter(a.Config.AuthRateLimit, a.Config.AuthRateBurst, a.Logger)
	authLimiter.StartCleanup(notifyCtx, limiterCleanupInterval)

	router := api.New(api.RouterArgs{
		Logger:           a.Logger,
		UserService:      services.UserService,
		ProductService:   services.ProductService,
		OrderService:     services.OrderService,
		RechargeService:  services.RechargeService,
		AffiliateService: services.AffiliateService,
		WalletService:    services.WalletService,
		StatsService:     services.StatsService,
		ConfigService:    services.ConfigService,
		JWTSecretKey:     []byte(a.Config.JWTSecret),
		CookieSecure:     a.Config.CookieSecure,
		AuthLimiter:      authLimiter,
		Metrics:          appMetrics,
		Tracing:          a.Config.OTLPEndpoint != "",
		Health:           conn.Ping,
	})

	server := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := server.ListenAndServe(); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			errChan <- runErr
		}
	}()

	processor := delivery.New(services.OrderService, appMetrics, a.Logger).
		SetWorkers(a.Config.DeliveryWorkers).
		SetLimitPerIteration(a.Config.DeliveryBatch).
		SetIdleInterval(a.Config.DeliveryInterval)

	processorDone := make(chan struct{})
	go func() {
		processor.Run(notifyCtx)
		close(processorDone)
	}()

	var runErr error
	select {
	case <-notifyCtx.Done():
		runErr = notifyCtx.Err()
	case err := <-errChan:
		runErr = fmt.Errorf("http server: %w", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Logger.WithError(err).Error("http server shutdown")
	}

	select {
	case <-processorDone:
	case <-shutdownCtx.Done():
		a.Logger.Warn("delivery processor did not stop in time")
	}

	return runErr
}

// warnDisabledFeatures предупреждает о настройках, которые без внешних зависимостей ничего не делают.
func (a *App) warnDisabledFeatures() {
	if a.Config.RedisAddr == "" {
		// без redis счетчик неудачных входов не хранится
		a.Logger.WithField("ignored_configs", []string{domain.ConfigMaxLoginAttempts, domain.ConfigLoginLockDuration}).
			Warn("REDIS_ADDR is empty, login lockout disabled")
	}
}
