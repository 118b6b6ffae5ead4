package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/fsdevblog/luffy-streaming/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

var errEmailRegistered = errors.New("email already registered")

type AuthHandler struct {
	userService  UserServicer
	cookieSecure bool
}

func NewAuthHandler(userService UserServicer, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		cookieSecure: cookieSecure,
	}
}

type UserRegisterParams struct {
	Name         string          `binding:"required,min=2,max=100"          json:"name"`
	Email        string          `binding:"required,email,max_bytes=255"    json:"email"`
	Password     string          `binding:"required,min=6,max=72"           json:"password"`
	Phone        *string         `binding:"omitempty,max=30"                json:"phone"`
	Role         domain.RoleType `binding:"omitempty,oneof=USER AFFILIATE ADMIN" json:"role"`
	ReferralCode string          `binding:"omitempty,max=20"                json:"referralCode"`
}

// Register POST RouteGroup + RegisterRoute. Регистрирует пользователя. Сессия не создается, клиент
// логинится отдельным запросом.
func (h *AuthHandler) Register(c *gin.Context) {
	var params UserRegisterParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, createErr := h.userService.Register(ctx, service.RegisterUserArgs{
		Name:         strings.TrimSpace(params.Name),
		Email:        params.Email,
		Password:     params.Password,
		Phone:        params.Phone,
		Role:         params.Role,
		ReferralCode: strings.TrimSpace(params.ReferralCode),
		Actor:        anonymousActor(c),
	})
	if createErr != nil {
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			abortPublic(c, http.StatusBadRequest, errEmailRegistered)
			return
		}
		abortWithServiceErr(c, createErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": newUserResponse(user)})
}

type UserLoginParams struct {
	Email    string `binding:"required,email" json:"email"`
	Password string `binding:"required,max=72" json:"password"`
}

// Login POST RouteGroup + LoginRoute. Аутентификация по паре email/пароль, токен уходит в http-only куку.
func (h *AuthHandler) Login(c *gin.Context) {
	var params UserLoginParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, token, err := h.userService.Login(ctx, service.LoginUserArgs{
		Email:    params.Email,
		Password: params.Password,
		Actor:    anonymousActor(c),
	})
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}

	h.setAuthCookie(c, token, int(h.userService.TokenTTL().Seconds()))
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// Logout POST RouteGroup + LogoutRoute. Удаляет куку сессии.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setAuthCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me GET RouteGroup + MeRoute. Текущий юзер сессии.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.GetByID(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.AuthCookieName, token, maxAge, "/", "", h.cookieSecure, true)
}
