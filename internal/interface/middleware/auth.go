package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxLoginKey  = "userLogin"
)

// Auth reads an optional bearer token. Without an Authorization header the
// request continues anonymously; a header that does not carry a valid token
// is rejected. On success the token's user id and login are stored in the
// Gin context.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Error[any](c, http.StatusUnauthorized, "malformed authorization header", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(strings.TrimSpace(token))
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxLoginKey, claims.Login)
		c.Next()
	}
}

// ActorLogin returns the login of the authenticated caller, or "" when anonymous.
func ActorLogin(c *gin.Context) string {
	return c.GetString(CtxLoginKey)
}
