// internal/middleware/auth.go
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/javajoker/residence-backend/internal/i18n"
	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/utils"
)

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			c.Abort()
			return
		}

		if key := authenticate(c, authHeader); key != "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, key))
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through. A token that is present but
// invalid is still rejected so a broken client is never treated as a guest.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if key := authenticate(c, authHeader); key != "" {
			utils.UnauthorizedResponse(c, i18n.T(utils.GetLangFromContext(c), key))
			c.Abort()
			return
		}
		c.Next()
	}
}

// authenticate verifies the "Bearer <token>" header and stores the claims on
// the context. It returns the translation key of the failure, or "".
func authenticate(c *gin.Context, authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return i18n.KeyAuthInvalidToken
	}

	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return i18n.KeyAuthTokenExpired
		}
		return i18n.KeyAuthInvalidToken
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return i18n.KeyAuthInvalidToken
	}
	if _, err := models.ParseRole(claims.Role); err != nil {
		return i18n.KeyAuthInvalidToken
	}

	// Set user info in context
	c.Set("claims", claims)
	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	return ""
}
