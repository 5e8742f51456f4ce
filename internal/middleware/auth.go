package middleware

import (
	"errors"
	"net/http"
	"strings"

	"emotion-service/internal/models"
	"emotion-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// principalKey is the gin context key the authenticated user is stored
// under.
const principalKey = "principal"

// Principal returns the authenticated user set by AuthMiddleware.
func Principal(c *gin.Context) *models.User {
	return c.MustGet(principalKey).(*models.User)
}

// AuthMiddleware creates a Gin middleware for JWT authentication. The
// verified principal is stored in the request context for handlers.
func AuthMiddleware(auth service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := auth.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
				c.Abort()
				return
			}
			// Missing-subject tokens are malformed in their own way but
			// still plain unauthorized to the caller.
			logger.Error("Invalid JWT token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		logger.Debug("User authenticated", zap.String("username", claims.Username))
		c.Set(principalKey, claims.Principal())

		c.Next()
	}
}
