package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductsHandler struct {
	svs ProductServicer
}

func NewProductsHandler(svs ProductServicer) *ProductsHandler {
	return &ProductsHandler{svs: svs}
}

type ProductsQuery struct {
	PageQuery
	Category string                   `binding:"max=50"                         form:"category"`
	Featured *bool                    `form:"featured"`
	Search   string                   `binding:"max=100"                        form:"search"`
	Status   domain.ProductStatusType `binding:"omitempty,oneof=ACTIVE INACTIVE" form:"status"`
}

// isAdmin сообщает, что запрос сделан администратором. Публичные роуты не требуют авторизации,
// поэтому роль в контексте есть только у опционально авторизованных запросов.
func isAdmin(c *gin.Context) bool {
	return currentActor(c).IsAdmin()
}

// Index GET RouteGroup + ProductsRoute. Гостям и юзерам отдаются только активные продукты.
func (h *ProductsHandler) Index(c *gin.Context) {
	var query ProductsQuery
	if !bindQuery(c, &query) {
		return
	}

	admin := isAdmin(c)
	filter := repoargs.ProductFilter{
		Category: strings.TrimSpace(query.Category),
		Featured: query.Featured,
		Search:   strings.TrimSpace(query.Search),
		Page:     query.toPage(),
	}
	if admin && query.Status != "" {
		filter.Status = &query.Status
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	products, total, err := h.svs.List(ctx, filter, admin)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}

	res := make([]ProductResponse, len(products))
	for i := range products {
		res[i] = newProductResponse(&products[i])
	}
	c.JSON(http.StatusOK, gin.H{"products": res, "total": total})
}

// Show GET RouteGroup + ProductRoute. Параметр пути принимает числовой id или slug.
func (h *ProductsHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.svs.Get(ctx, c.Param("id"), isAdmin(c))
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": newProductResponse(product)})
}

type CreateProductParams struct {
	Name            string                   `binding:"required,min=2,max=150"                 json:"name"`
	Description     string                   `binding:"max=5000"                               json:"description"`
	Provider        string                   `binding:"required,max=100"                       json:"provider"`
	PriceUSD        decimal.Decimal          `binding:"gt=0"                                   json:"priceUsd"`
	PricePEN        *decimal.Decimal         `binding:"omitempty,gt=0"                         json:"pricePen"`
	Category        string                   `binding:"required,max=50"                        json:"category"`
	DeliveryType    domain.DeliveryType      `binding:"omitempty,oneof=AUTOMATIC MANUAL"       json:"deliveryType"`
	Status          domain.ProductStatusType `binding:"omitempty,oneof=ACTIVE INACTIVE"        json:"status"`
	Featured        bool                     `json:"featured"`
	Image           string                   `binding:"omitempty,max_bytes=500"                json:"image"`
	MetaTitle       string                   `binding:"max=150"                                json:"metaTitle"`
	MetaDescription string                   `binding:"max=300"                                json:"metaDescription"`
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var params CreateProductParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.svs.Create(ctx, currentActor(c), service.CreateProductArgs{
		Name:            strings.TrimSpace(params.Name),
		Description:     params.Description,
		Provider:        strings.TrimSpace(params.Provider),
		PriceUSD:        params.PriceUSD,
		PricePEN:        params.PricePEN,
		Category:        strings.TrimSpace(params.Category),
		DeliveryType:    params.DeliveryType,
		Status:          params.Status,
		Featured:        params.Featured,
		Image:           params.Image,
		MetaTitle:       params.MetaTitle,
		MetaDescription: params.MetaDescription,
	})
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": newProductResponse(product)})
}

type UpdateProductParams struct {
	Name            *string                   `binding:"omitempty,min=2,max=150"           json:"name"`
	Description     *string                   `binding:"omitempty,max=5000"                json:"description"`
	Provider        *string                   `binding:"omitempty,max=100"                 json:"provider"`
	PriceUSD        *decimal.Decimal          `binding:"omitempty,gt=0"                    json:"priceUsd"`
	PricePEN        *decimal.Decimal          `binding:"omitempty,gt=0"                    json:"pricePen"`
	Category        *string                   `binding:"omitempty,max=50"                  json:"category"`
	DeliveryType    *domain.DeliveryType      `binding:"omitempty,oneof=AUTOMATIC MANUAL"  json:"deliveryType"`
	Status          *domain.ProductStatusType `binding:"omitempty,oneof=ACTIVE INACTIVE"   json:"status"`
	Featured        *bool                     `json:"featured"`
	Image           *string                   `binding:"omitempty,max_bytes=500"           json:"image"`
	MetaTitle       *string                   `binding:"omitempty,max=150"                 json:"metaTitle"`
	MetaDescription *string                   `binding:"omitempty,max=300"                 json:"metaDescription"`
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params UpdateProductParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.svs.Update(ctx, currentActor(c), id, repoargs.UpdateProduct{
		Name:            params.Name,
		Description:     params.Description,
		Provider:        params.Provider,
		PriceUSD:        params.PriceUSD,
		PricePEN:        params.PricePEN,
		Category:        params.Category,
		DeliveryType:    params.DeliveryType,
		Status:          params.Status,
		Featured:        params.Featured,
		Image:           params.Image,
		MetaTitle:       params.MetaTitle,
		MetaDescription: params.MetaDescription,
	})
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": newProductResponse(product)})
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.Delete(ctx, currentActor(c), id); err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

type AddCredentialsParams struct {
	Credentials []string `binding:"required,min=1,max=500,dive,max_bytes=1000" json:"credentials"`
}

// AddCredentials POST RouteGroup + ProductCredentialsRoute. Пополняет пул доступов продукта.
func (h *ProductsHandler) AddCredentials(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params AddCredentialsParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.svs.AddCredentials(ctx, currentActor(c), id, params.Credentials)
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": newProductResponse(product)})
}
