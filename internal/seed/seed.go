// Package seed наполняет пустую базу демонстрационными данными через сервисный слой, так что все
// инварианты (кошельки, остатки, комиссии, аудит) соблюдаются так же, как при работе через API.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultCredentialsPerProduct = 10
	seedIP                       = "127.0.0.1"
	seedUserAgent                = "luffyctl"
)

var ErrAlreadySeeded = errors.New("database already contains products")

type Services struct {
	Users      UserServicer
	Affiliates AffiliateServicer
	Products   ProductServicer
	Recharges  RechargeServicer
	Orders     OrderServicer
	Configs    ConfigServicer
}

// AdminCredentials учетка администратора, создаваемая сидом.
type AdminCredentials struct {
	Name     string
	Email    string
	Password string
}

var DefaultAdmin = AdminCredentials{
	Name:     "Administrador",
	Email:    "admin@luffystreaming.com",
	Password: "Admin123!",
}

type Summary struct {
	Users       int
	Products    int
	Credentials int
	Recharges   int
	Orders      int
	Configs     int
}

type Seeder struct {
	svc                   Services
	l                     *logrus.Entry
	admin                 AdminCredentials
	credentialsPerProduct int
	newSecret             func(slug string, n int) string
}

func New(svc Services, l *logrus.Logger) *Seeder {
	return &Seeder{
		svc:                   svc,
		l:                     l.WithField("component", "seed"),
		admin:                 DefaultAdmin,
		credentialsPerProduct: defaultCredentialsPerProduct,
		newSecret:             demoSecret,
	}
}

// SetAdmin переопределяет учетку администратора.
func (s *Seeder) SetAdmin(admin AdminCredentials) *Seeder {
	s.admin = admin
	return s
}

// SetCredentialsPerProduct задает размер пула доступов, добавляемого к каждому продукту.
func (s *Seeder) SetCredentialsPerProduct(n int) *Seeder {
	if n > 0 {
		s.credentialsPerProduct = n
	}
	return s
}

func demoSecret(slug string, n int) string {
	return fmt.Sprintf("%s-%02d@demo.luffystreaming.com:%s", slug, n, uuid.NewString()[:12])
}

// Run наполняет базу. Если в ней уже есть продукты, возвращает ErrAlreadySeeded и ничего не меняет.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	_, total, listErr := s.svc.Products.List(ctx, repoargs.ProductFilter{Page: repoargs.Page{Limit: 1}}, true)
	if listErr != nil {
		return nil, fmt.Errorf("seed: %w", listErr)
	}
	if total > 0 {
		return nil, ErrAlreadySeeded
	}

	var summary Summary

	admin, adminErr := s.svc.Users.EnsureAdmin(ctx, service.CreateAdminArgs{
		Name:     s.admin.Name,
		Email:    s.admin.Email,
		Password: s.admin.Password,
	})
	if adminErr != nil {
		return nil, fmt.Errorf("seed admin: %w", adminErr)
	}
	summary.Users++
	adminActor := actorOf(admin)
	s.l.WithField("email", admin.Email).Info("admin ready")

	for _, cfg := range demoConfigs {
		if _, err := s.svc.Configs.Update(ctx, adminActor, cfg.key, cfg.value); err != nil {
			return nil, fmt.Errorf("seed config %s: %w", cfg.key, err)
		}
		summary.Configs++
	}

	users, usersErr := s.seedUsers(ctx, adminActor)
	if usersErr != nil {
		return nil, usersErr
	}
	summary.Users += len(users)

	recharges, rechargesErr := s.seedRecharges(ctx, adminActor, users)
	if rechargesErr != nil {
		return nil, rechargesErr
	}
	summary.Recharges = recharges

	products, credentials, productsErr := s.seedProducts(ctx, adminActor)
	if productsErr != nil {
		return nil, productsErr
	}
	summary.Products = len(products)
	summary.Credentials = credentials

	orders, ordersErr := s.seedOrders(ctx, users, products)
	if ordersErr != nil {
		return nil, ordersErr
	}
	summary.Orders = orders

	return &summary, nil
}

func (s *Seeder) seedUsers(ctx context.Context, adminActor domain.Actor) (map[string]*domain.User, error) {
	users := make(map[string]*domain.User, len(demoUsers))
	for _, du := range demoUsers {
		args := service.RegisterUserArgs{
			Name:     du.name,
			Email:    du.email,
			Password: du.password,
			Phone:    du.phone,
			Role:     du.role,
			Actor:    domain.Actor{IPAddress: seedIP, UserAgent: seedUserAgent},
		}
		if du.referredBy != "" {
			referrer, ok := users[du.referredBy]
			if !ok || referrer.ReferralCode == nil {
				return nil, fmt.Errorf("seed user %s: referrer %s has no referral code", du.email, du.referredBy)
			}
			args.ReferralCode = *referrer.ReferralCode
		}

		user, regErr := s.svc.Users.Register(ctx, args)
		if regErr != nil {
			return nil, fmt.Errorf("seed user %s: %w", du.email, regErr)
		}
		if du.approve {
			approved, approveErr := s.svc.Affiliates.Approve(ctx, adminActor, user.ID)
			if approveErr != nil {
				return nil, fmt.Errorf("seed approve affiliate %s: %w", du.email, approveErr)
			}
			user = approved
		}
		users[du.key] = user
		s.l.WithFields(logrus.Fields{"email": user.Email, "role": user.Role}).Debug("user created")
	}
	return users, nil
}

func (s *Seeder) seedRecharges(
	ctx context.Context,
	adminActor domain.Actor,
	users map[string]*domain.User,
) (int, error) {
	var count int
	for _, dr := range demoRecharges {
		user := users[dr.user]
		recharge, createErr := s.svc.Recharges.Create(ctx, actorOf(user), service.CreateRechargeArgs{
			Amount:           decimal.RequireFromString(dr.amount),
			PaymentMethod:    dr.method,
			PaymentReference: dr.reference,
		})
		if createErr != nil {
			return count, fmt.Errorf("seed recharge %s: %w", dr.reference, createErr)
		}
		count++
		if !dr.approve {
			continue
		}
		if _, approveErr := s.svc.Recharges.Approve(ctx, adminActor, recharge.ID); approveErr != nil {
			return count, fmt.Errorf("seed approve recharge %s: %w", dr.reference, approveErr)
		}
	}
	return count, nil
}

func (s *Seeder) seedProducts(
	ctx context.Context,
	adminActor domain.Actor,
) (map[string]*domain.Product, int, error) {
	products := make(map[string]*domain.Product, len(demoProducts))
	var credentials int
	for _, dp := range demoProducts {
		pen := decimal.RequireFromString(dp.pricePEN)
		product, createErr := s.svc.Products.Create(ctx, adminActor, service.CreateProductArgs{
			Name:            dp.name,
			Description:     dp.description,
			Provider:        dp.provider,
			PriceUSD:        decimal.RequireFromString(dp.priceUSD),
			PricePEN:        &pen,
			Category:        dp.category,
			DeliveryType:    dp.delivery,
			Status:          domain.ProductStatusActive,
			Featured:        dp.featured,
			Image:           dp.image,
			MetaTitle:       dp.metaTitle,
			MetaDescription: dp.metaDescription,
		})
		if createErr != nil {
			return nil, credentials, fmt.Errorf("seed product %s: %w", dp.name, createErr)
		}

		secrets := make([]string, 0, s.credentialsPerProduct)
		for i := range s.credentialsPerProduct {
			secrets = append(secrets, s.newSecret(product.Slug, i+1))
		}
		stocked, credErr := s.svc.Products.AddCredentials(ctx, adminActor, product.ID, secrets)
		if credErr != nil {
			return nil, credentials, fmt.Errorf("seed credentials %s: %w", dp.name, credErr)
		}
		credentials += len(secrets)
		products[dp.name] = stocked
	}
	return products, credentials, nil
}

func (s *Seeder) seedOrders(
	ctx context.Context,
	users map[string]*domain.User,
	products map[string]*domain.Product,
) (int, error) {
	var count int
	for _, do := range demoOrders {
		items := make([]service.OrderItemArgs, 0, len(do.products))
		for _, name := range do.products {
			items = append(items, service.OrderItemArgs{ProductID: products[name].ID, Quantity: 1})
		}
		order, createErr := s.svc.Orders.Create(ctx, actorOf(users[do.user]), items)
		if createErr != nil {
			return count, fmt.Errorf("seed order for %s: %w", do.user, createErr)
		}
		count++
		s.l.WithFields(logrus.Fields{
			"order":  order.OrderNumber,
			"status": order.Status,
		}).Debug("order created")
	}
	return count, nil
}

func actorOf(u *domain.User) domain.Actor {
	return domain.Actor{
		UserID:    u.ID,
		Role:      u.Role,
		IPAddress: seedIP,
		UserAgent: seedUserAgent,
	}
}
