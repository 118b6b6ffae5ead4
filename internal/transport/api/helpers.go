package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/fsdevblog/luffy-streaming/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var errInvalidID = errors.New("invalid id")

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка утверждения типа -
// вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

// currentActor собирает инициатора запроса для журнала аудита.
func currentActor(c *gin.Context) domain.Actor {
	role, _ := c.Get(middlewares.CurrentUserRoleKey)
	roleType, _ := role.(domain.RoleType)
	return domain.Actor{
		UserID:    getUserIDFromContext(c),
		Role:      roleType,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// anonymousActor инициатор для запросов без авторизации (регистрация, логин).
func anonymousActor(c *gin.Context) domain.Actor {
	return domain.Actor{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// idParam разбирает числовой параметр пути. При ошибке запрос прерывается с 400.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		_ = c.AbortWithError(http.StatusBadRequest, errInvalidID).SetType(gin.ErrorTypePublic)
		return 0, false
	}
	return id, true
}

type PageQuery struct {
	Limit  uint `binding:"omitempty,min=1,max=100" form:"limit"`
	Offset uint `form:"offset"`
}

func (p PageQuery) toPage() repoargs.Page {
	limit := p.Limit
	if limit == 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return repoargs.Page{Limit: limit, Offset: p.Offset}
}

// bindJSON разбирает тело запроса. Ошибки валидации полей отдаются с 422, прочие ошибки разбора с 400.
func bindJSON(c *gin.Context, params any) bool {
	return handleBindErr(c, c.ShouldBindJSON(params))
}

func bindQuery(c *gin.Context, params any) bool {
	return handleBindErr(c, c.ShouldBindQuery(params))
}

func handleBindErr(c *gin.Context, bindErr error) bool {
	if bindErr == nil {
		return true
	}
	var valErrs validator.ValidationErrors
	if errors.As(bindErr, &valErrs) {
		_ = c.AbortWithError(http.StatusUnprocessableEntity, valErrs).SetType(gin.ErrorTypePublic)
		return false
	}
	_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
	return false
}

// abortWithServiceErr переводит ошибку сервисного слоя в http ответ. Клиенту уходит короткий текст
// без цепочки обертки, полная ошибка остается в контексте gin для лога. Неизвестные ошибки отдаются
// как 500 без подробностей.
func abortWithServiceErr(c *gin.Context, err error) {
	status, publicErr := serviceErrStatus(err)
	if publicErr == nil {
		_ = c.AbortWithError(status, err).SetType(gin.ErrorTypePrivate)
		return
	}
	_ = c.AbortWithError(status, publicErr).SetType(gin.ErrorTypePublic)
	if publicErr != err { //nolint:errorlint
		_ = c.Error(err).SetType(gin.ErrorTypePrivate)
	}
}

func serviceErrStatus(err error) (int, error) {
	var (
		validationErr *domain.ValidationError
		statusErr     *domain.InvalidStatusError
	)
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr
	}
	if errors.As(err, &statusErr) {
		return http.StatusConflict, statusErr
	}

	for _, m := range errStatuses {
		if errors.Is(err, m.target) {
			if m.public == nil {
				return m.status, m.target
			}
			return m.status, m.public
		}
	}
	return http.StatusInternalServerError, nil
}

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errResourceExists     = errors.New("resource already exists")
	errResourceInUse      = errors.New("resource is referenced by other records")
	errNotFound           = errors.New("not found")
	errInsufficientWallet = errors.New("insufficient wallet balance")
)

// errStatuses соответствие доменных ошибок кодам ответа. public задает текст для клиента,
// пустой public означает текст самой доменной ошибки.
var errStatuses = []struct {
	target error
	status int
	public error
}{
	{domain.ErrSelfModification, http.StatusBadRequest, nil},
	{domain.ErrPasswordMissMatch, http.StatusUnauthorized, errInvalidCredentials},
	{domain.ErrNotEnoughBalance, http.StatusPaymentRequired, errInsufficientWallet},
	{domain.ErrAccountInactive, http.StatusForbidden, nil},
	{domain.ErrForbidden, http.StatusForbidden, nil},
	{domain.ErrRecordNotFound, http.StatusNotFound, errNotFound},
	{domain.ErrOutOfStock, http.StatusConflict, nil},
	{domain.ErrProductUnavailable, http.StatusConflict, nil},
	{domain.ErrUndeliveredItems, http.StatusConflict, nil},
	{domain.ErrAlreadyDelivered, http.StatusConflict, nil},
	{domain.ErrCommissionAlreadyPaid, http.StatusConflict, nil},
	{domain.ErrDuplicateKey, http.StatusConflict, errResourceExists},
	{domain.ErrForeignKeyViolation, http.StatusConflict, errResourceInUse},
	{domain.ErrTooManyLoginAttempts, http.StatusTooManyRequests, nil},
}

func abortPublic(c *gin.Context, status int, err error) {
	_ = c.AbortWithError(status, err).SetType(gin.ErrorTypePublic)
}
