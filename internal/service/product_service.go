package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/pkg/uow"
	"github.com/shopspring/decimal"
)

type ProductService struct {
	uow         uow.UOW
	productRepo ProductRepository
	configRepo  SystemConfigRepository
}

func NewProductService(u uow.UOW) (*ProductService, error) {
	productRepo, productRepoErr := uow.GetRepositoryAs[ProductRepository](
		u, uow.RepositoryName(repoargs.ProductRepoName),
	)
	if productRepoErr != nil {
		return nil, productRepoErr //nolint:wrapcheck
	}
	configRepo, configRepoErr := uow.GetRepositoryAs[SystemConfigRepository](
		u, uow.RepositoryName(repoargs.ConfigRepoName),
	)
	if configRepoErr != nil {
		return nil, configRepoErr //nolint:wrapcheck
	}
	return &ProductService{uow: u, productRepo: productRepo, configRepo: configRepo}, nil
}

// List возвращает страницу продуктов. Без includeInactive в выборку попадают только активные продукты.
func (s *ProductService) List(
	ctx context.Context,
	filter repoargs.ProductFilter,
	includeInactive bool,
) ([]domain.Product, int64, error) {
	if !includeInactive {
		active := domain.ProductStatusActive
		filter.Status = &active
	}
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err //nolint:wrapcheck
	}
	return products, total, nil
}

// Get ищет продукт по числовому id или по slug. Неактивный продукт виден только при includeInactive.
func (s *ProductService) Get(ctx context.Context, ref string, includeInactive bool) (*domain.Product, error) {
	var (
		product *domain.Product
		err     error
	)
	if id, parseErr := strconv.ParseInt(ref, 10, 64); parseErr == nil {
		product, err = s.productRepo.FindByID(ctx, id)
	} else {
		product, err = s.productRepo.FindBySlug(ctx, strings.ToLower(ref))
	}
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if !includeInactive && product.Status != domain.ProductStatusActive {
		return nil, domain.ErrRecordNotFound
	}
	return product, nil
}

type CreateProductArgs struct {
	Name            string
	Description     string
	Provider        string
	PriceUSD        decimal.Decimal
	PricePEN        *decimal.Decimal
	Category        string
	DeliveryType    domain.DeliveryType
	Status          domain.ProductStatusType
	Featured        bool
	Image           string
	MetaTitle       string
	MetaDescription string
}

// Create создает продукт. Slug строится из названия, цена в PEN по умолчанию считается по курсу
// USD_TO_PEN_RATE. Занятый slug дает domain.ErrDuplicateKey.
func (s *ProductService) Create(ctx context.Context, actor domain.Actor, args CreateProductArgs) (*domain.Product, error) {
	slug := slugify(args.Name)
	if slug == "" {
		return nil, domain.NewValidationError("name", "name must contain letters or digits")
	}

	pricePEN := decimal.Zero
	if args.PricePEN != nil {
		pricePEN = *args.PricePEN
	} else {
		rate, rateErr := configDecimal(ctx, s.configRepo, domain.ConfigUSDToPENRate, defaultUSDToPENRate)
		if rateErr != nil {
			return nil, fmt.Errorf("creating product: %w", rateErr)
		}
		pricePEN = args.PriceUSD.Mul(rate).Round(moneyPlaces)
	}

	create := repoargs.CreateProduct{
		Name:            strings.TrimSpace(args.Name),
		Slug:            slug,
		Description:     args.Description,
		Provider:        args.Provider,
		PriceUSD:        args.PriceUSD,
		PricePEN:        pricePEN,
		Category:        args.Category,
		DeliveryType:    args.DeliveryType,
		Status:          args.Status,
		Featured:        args.Featured,
		Image:           args.Image,
		MetaTitle:       args.MetaTitle,
		MetaDescription: args.MetaDescription,
	}
	if create.DeliveryType == "" {
		create.DeliveryType = domain.DeliveryAutomatic
	}
	if create.Status == "" {
		create.Status = domain.ProductStatusActive
	}

	var product *domain.Product
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		productRepo, productRepoErr := repo[ProductRepository](tx, repoargs.ProductRepoName)
		if productRepoErr != nil {
			return productRepoErr
		}
		var createErr error
		product, createErr = productRepo.Create(c, create)
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}
		return writeAudit(c, tx, actor, domain.AuditProductCreated, "product", product.ID, map[string]any{
			"name": product.Name,
			"slug": product.Slug,
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating product: %w", txErr)
	}
	return product, nil
}

func (s *ProductService) Update(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	upd repoargs.UpdateProduct,
) (*domain.Product, error) {
	var product *domain.Product
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		productRepo, productRepoErr := repo[ProductRepository](tx, repoargs.ProductRepoName)
		if productRepoErr != nil {
			return productRepoErr
		}
		var updErr error
		product, updErr = productRepo.Update(c, id, upd)
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}
		return writeAudit(c, tx, actor, domain.AuditProductUpdated, "product", id, map[string]any{
			"status": product.Status,
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating product %d: %w", id, txErr)
	}
	return product, nil
}

// Delete удаляет продукт. Продукт, на который ссылаются позиции заказов, дает domain.ErrForeignKeyViolation.
func (s *ProductService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		productRepo, productRepoErr := repo[ProductRepository](tx, repoargs.ProductRepoName)
		if productRepoErr != nil {
			return productRepoErr
		}
		if err := productRepo.Delete(c, id); err != nil {
			return err //nolint:wrapcheck
		}
		return writeAudit(c, tx, actor, domain.AuditProductDeleted, "product", id, nil)
	})
	if txErr != nil {
		return fmt.Errorf("deleting product %d: %w", id, txErr)
	}
	return nil
}

// AddCredentials добавляет в пул продукта свободные доступы и увеличивает остаток на их количество.
// В ответе заполняется размер свободного пула после добавления.
func (s *ProductService) AddCredentials(
	ctx context.Context,
	actor domain.Actor,
	productID int64,
	secrets []string,
) (*domain.Product, error) {
	secrets = cleanSecrets(secrets)
	if len(secrets) == 0 {
		return nil, domain.NewValidationError("credentials", "at least one credential is required")
	}

	var product *domain.Product
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		productRepo, productRepoErr := repo[ProductRepository](tx, repoargs.ProductRepoName)
		if productRepoErr != nil {
			return productRepoErr
		}
		credRepo, credRepoErr := repo[CredentialRepository](tx, repoargs.CredentialRepoName)
		if credRepoErr != nil {
			return credRepoErr
		}

		if _, findErr := productRepo.FindByID(c, productID); findErr != nil {
			return findErr //nolint:wrapcheck
		}

		var batchErrs []error
		credRepo.BatchCreate(c, productID, secrets, nil, func(_ int, err error) {
			if err != nil {
				batchErrs = append(batchErrs, err)
			}
		})
		if len(batchErrs) > 0 {
			return errors.Join(batchErrs...)
		}

		var stockErr error
		product, stockErr = productRepo.IncreaseStock(c, productID, len(secrets))
		if stockErr != nil {
			return stockErr //nolint:wrapcheck
		}
		available, countErr := credRepo.CountAvailable(c, productID)
		if countErr != nil {
			return countErr //nolint:wrapcheck
		}
		product.AvailableCredentials = &available
		return writeAudit(c, tx, actor, domain.AuditCredentialsAdded, "product", productID, map[string]any{
			"count": len(secrets),
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("adding credentials to product %d: %w", productID, txErr)
	}
	return product, nil
}

func cleanSecrets(secrets []string) []string {
	res := make([]string, 0, len(secrets))
	for _, secret := range secrets {
		if trimmed := strings.TrimSpace(secret); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
