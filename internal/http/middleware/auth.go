package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	authUserIDKey = "auth_user_id"
	authRoleKey   = "auth_role"
)

// RequireAuth validates the Bearer token and stores its claims in the context.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token tidak ditemukan"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token tidak valid atau kedaluwarsa"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token tidak valid atau kedaluwarsa"})
			return
		}
		if uid, ok := claims["user_id"].(float64); ok {
			c.Set(authUserIDKey, int64(uid))
		}
		if role, ok := claims["role"].(string); ok {
			c.Set(authRoleKey, role)
		}
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated user has the role.
// Must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if AuthRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "akses ditolak"})
			return
		}
		c.Next()
	}
}

// AuthUserID returns the user id carried by the validated token, 0 when absent.
func AuthUserID(c *gin.Context) int64 {
	if v, ok := c.Get(authUserIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// AuthRole returns the role claim of the validated token.
func AuthRole(c *gin.Context) string {
	if v, ok := c.Get(authRoleKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
