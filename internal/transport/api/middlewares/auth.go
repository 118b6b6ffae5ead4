package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/service/tokens"
	"github.com/gin-gonic/gin"
)

var (
	ErrTokenNotExist = errors.New("token not exist")
	errRoleForbidden = errors.New("role is not allowed")
)

const (
	CurrentUserIDKey   = "currentUserID"
	CurrentUserRoleKey = "currentUserRole"

	// AuthCookieName кука с jwt токеном сессии.
	AuthCookieName = "auth_token"
)

// extractToken достает токен из куки AuthCookieName, а если ее нет, то из заголовка Authorization.
func extractToken(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	tokenHeader := c.GetHeader("Authorization")
	bearer := "Bearer "
	if len(tokenHeader) <= len(bearer) || !strings.EqualFold(tokenHeader[:len(bearer)], bearer) {
		return "", ErrTokenNotExist
	}
	return tokenHeader[len(bearer):], nil
}

func checkAuthorization(c *gin.Context, jwtTokenSecret []byte) (*tokens.UserClaims, error) {
	tokenStr, err := extractToken(c)
	if err != nil {
		return nil, err
	}
	claims, err := tokens.ParseUserJWT(tokenStr, jwtTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("check authorization: %w", err)
	}
	return claims, nil
}

// AuthRequired проверяет, что запрос авторизован. Записывает в контекст id (CurrentUserIDKey)
// и роль (CurrentUserRoleKey) юзера из токена.
func AuthRequired(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := checkAuthorization(c, jwtTokenSecret)
		if err != nil {
			_ = c.AbortWithError(http.StatusUnauthorized, err).SetType(gin.ErrorTypePrivate)
			return
		}
		c.Set(CurrentUserIDKey, claims.ID)
		c.Set(CurrentUserRoleKey, claims.Role)
		c.Next()
	}
}

// RoleRequired пропускает только юзеров с одной из переданных ролей. Должен стоять после AuthRequired.
func RoleRequired(roles ...domain.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(CurrentUserRoleKey)
		current, ok := role.(domain.RoleType)
		if !ok || !slices.Contains(roles, current) {
			_ = c.AbortWithError(http.StatusForbidden, errRoleForbidden).SetType(gin.ErrorTypePrivate)
			return
		}
		c.Next()
	}
}

// OptionalAuth записывает в контекст юзера из валидного токена, но пропускает и анонимные запросы.
func OptionalAuth(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := checkAuthorization(c, jwtTokenSecret); err == nil {
			c.Set(CurrentUserIDKey, claims.ID)
			c.Set(CurrentUserRoleKey, claims.Role)
		}
		c.Next()
	}
}
