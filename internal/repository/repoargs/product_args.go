package repoargs

import (
	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateProduct struct {
	Name            string
	Slug            string
	Description     string
	Provider        string
	PriceUSD        decimal.Decimal
	PricePEN        decimal.Decimal
	Category        string
	DeliveryType    domain.DeliveryType
	Status          domain.ProductStatusType
	Featured        bool
	Image           string
	MetaTitle       string
	MetaDescription string
}

type UpdateProduct struct {
	Name            *string
	Description     *string
	Provider        *string
	PriceUSD        *decimal.Decimal
	PricePEN        *decimal.Decimal
	Category        *string
	DeliveryType    *domain.DeliveryType
	Status          *domain.ProductStatusType
	Featured        *bool
	Image           *string
	MetaTitle       *string
	MetaDescription *string
}

type ProductFilter struct {
	Status   *domain.ProductStatusType
	Category string
	Featured *bool
	Search   string
	Page
}
