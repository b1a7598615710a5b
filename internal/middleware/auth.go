package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/geminitwinsolutions/doobie-division-app/internal/admin"
	"github.com/geminitwinsolutions/doobie-division-app/internal/session"
)

const identityKey = "identity"

// TokenVerifier is the slice of the session issuer the middleware needs.
type TokenVerifier interface {
	VerifyAccess(token string) (*session.AccessClaims, error)
}

// Identity is the authenticated caller, reconstructed from access token
// claims. No registry round-trip happens per request.
type Identity struct {
	Subject    string
	TelegramID string
	Username   string
	FullName   string
	Role       admin.Role
}

// IdentityFrom extracts the authenticated identity set by RequireAuth.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// RequireAuth verifies Authorization: Bearer <access_token> and injects
// the caller identity into the request context.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "malformed authorization header")
			return
		}

		claims, err := verifier.VerifyAccess(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(identityKey, Identity{
			Subject:    claims.Subject,
			TelegramID: claims.TelegramID,
			Username:   claims.Username,
			FullName:   claims.FullName,
			Role:       admin.Role(claims.Role),
		})
		c.Next()
	}
}

// RequireSuperAdmin gates mutations of the admin registry. Must run after
// RequireAuth.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			abortUnauthorized(c, "missing identity")
			return
		}
		if id.Role != admin.RoleSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "super admin access required",
			})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
