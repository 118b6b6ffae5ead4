package service

import (
	"fmt"

	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	UserService      *UserService
	ProductService   *ProductService
	OrderService     *OrderService
	RechargeService  *RechargeService
	AffiliateService *AffiliateService
	WalletService    *WalletService
	StatsService     *StatsService
	ConfigService    *ConfigService
}

// FactoryArgs зависимости сервисов. LoginAttempts, Events и Notifier необязательны: nil отключает
// соответствующую функциональность.
type FactoryArgs struct {
	UOW           uow.UOW
	Auth          AuthOptions
	Hasher        PasswordHasher
	LoginAttempts LoginAttemptStore
	Events        EventPublisher
	Notifier      Notifier
	Logger        *logrus.Logger
}

func Factory(args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(args.UOW, args.Hasher, args.LoginAttempts, args.Auth, args.Logger)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	productService, productServiceErr := NewProductService(args.UOW)
	if productServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", productServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(args.UOW, args.Events, args.Logger)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	rechargeService, rechargeServiceErr := NewRechargeService(args.UOW, args.Notifier, args.Events, args.Logger)
	if rechargeServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", rechargeServiceErr.Error())
	}

	affiliateService, affiliateServiceErr := NewAffiliateService(args.UOW, args.Events, args.Logger)
	if affiliateServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", affiliateServiceErr.Error())
	}

	walletService, walletServiceErr := NewWalletService(args.UOW)
	if walletServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", walletServiceErr.Error())
	}

	statsService, statsServiceErr := NewStatsService(args.UOW)
	if statsServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", statsServiceErr.Error())
	}

	configService, configServiceErr := NewConfigService(args.UOW)
	if configServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", configServiceErr.Error())
	}

	return &AppServices{
		UserService:      userService,
		ProductService:   productService,
		OrderService:     orderService,
		RechargeService:  rechargeService,
		AffiliateService: affiliateService,
		WalletService:    walletService,
		StatsService:     statsService,
		ConfigService:    configService,
	}, nil
}
