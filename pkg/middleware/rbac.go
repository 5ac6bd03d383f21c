package middleware

import (
	"support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/pkg/jwt"
	"support-bot-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware checks that the request has a valid JWT and adds claims to the context
func JWTAuthMiddleware(jwtService *jwt.Service, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.Error(errors.NewUnauthorizedError("AUTH_REQUIRED", "Authorization header is required"))
			c.Abort()
			return
		}

		// Strip "Bearer " prefix if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			logger.Warn("Invalid JWT token", "error", err.Error())
			c.Error(errors.NewUnauthorizedError("INVALID_TOKEN", "Invalid or expired token"))
			c.Abort()
			return
		}

		// Add claims to context
		c.Set("claims", claims)
		c.Set("userId", claims.UserID)
		c.Set("userRole", claims.Role)

		c.Next()
	}
}

// RequireRole returns a middleware that requires the user to have a specific role
func RequireRole(role jwt.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtClaims, ok := claimsFromContext(c)
		if !ok {
			return
		}

		if !jwtClaims.HasRole(role) {
			c.Error(errors.NewForbiddenError("INSUFFICIENT_ROLE", "Your role does not allow this operation"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePermission returns a middleware that requires the user to have a specific permission
func RequirePermission(permission jwt.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtClaims, ok := claimsFromContext(c)
		if !ok {
			return
		}

		if !jwtClaims.HasPermission(permission) {
			c.Error(errors.NewForbiddenError("INSUFFICIENT_PERMISSION", "You don't have permission to perform this operation"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// claimsFromContext fetches JWT claims placed by JWTAuthMiddleware,
// aborting the request when they are missing or malformed.
func claimsFromContext(c *gin.Context) (*jwt.JWTClaims, bool) {
	claims, exists := c.Get("claims")
	if !exists {
		c.Error(errors.NewUnauthorizedError("AUTH_REQUIRED", "Authentication required"))
		c.Abort()
		return nil, false
	}

	jwtClaims, ok := claims.(*jwt.JWTClaims)
	if !ok {
		c.Error(errors.NewInternalServerError("INVALID_CLAIMS", "Invalid JWT claims format"))
		c.Abort()
		return nil, false
	}

	return jwtClaims, true
}
