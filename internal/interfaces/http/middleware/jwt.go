// Package middleware contains the gin middleware of the back office API.
package middleware

import (
	"net/http"
	"strings"

	appidentity "github.com/backoffice/backend/internal/application/identity"
	"github.com/backoffice/backend/internal/infrastructure/auth"
	"github.com/backoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const claimsKey = "jwt_claims"

// JWTAuth verifies the bearer token on every request and stores the
// claims in the gin context. Revoked tokens are rejected.
func JWTAuth(authService *appidentity.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		claims, err := authService.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose session lacks one of the allowed
// group roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortUnauthorized(c, "no active session")
			return
		}
		if _, ok := allowed[claims.GroupRole]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "insufficient role"))
			return
		}
		c.Next()
	}
}

// GetClaims retrieves the verified JWT claims from the gin context,
// returning nil when the request is unauthenticated.
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(claimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}
