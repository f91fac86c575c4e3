package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/gstbill-api/pkg/utils"
)

// OperatorKey is the context key holding the authenticated operator.
const OperatorKey = "operator"

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Validate the token
		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(OperatorKey, claims.Operator)
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>". Browsers cannot set
// headers on an EventSource, so the events stream may pass ?access_token=.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return c.Query("access_token")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// GetOperator returns the operator set by AuthMiddleware.
func GetOperator(c *gin.Context) string {
	v, exists := c.Get(OperatorKey)
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}
