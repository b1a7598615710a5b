package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geminitwinsolutions/doobie-division-app/internal/admin"
	"github.com/geminitwinsolutions/doobie-division-app/internal/session"
)

type stubVerifier struct {
	claims *session.AccessClaims
	err    error
}

func (s *stubVerifier) VerifyAccess(string) (*session.AccessClaims, error) {
	return s.claims, s.err
}

func adminClaims(role string) *session.AccessClaims {
	c := &session.AccessClaims{
		TelegramID: "1001",
		Username:   "danavries",
		Role:       role,
	}
	c.Subject = session.SubjectFor("1001")
	return c
}

func newRouter(verifier TokenVerifier, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlers := append([]gin.HandlerFunc{RequireAuth(verifier)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"telegram_id": id.TelegramID, "role": id.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func do(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid bearer token", func(t *testing.T) {
		r := newRouter(&stubVerifier{claims: adminClaims("admin")})

		w := do(r, "Bearer some-token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"telegram_id":"1001"`)
	})

	t.Run("missing header", func(t *testing.T) {
		r := newRouter(&stubVerifier{claims: adminClaims("admin")})
		assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		r := newRouter(&stubVerifier{claims: adminClaims("admin")})
		for _, header := range []string{"some-token", "Basic abc", "Bearer "} {
			assert.Equal(t, http.StatusUnauthorized, do(r, header).Code, "header %q", header)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		r := newRouter(&stubVerifier{err: errors.New("token is expired")})
		assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer some-token").Code)
	})
}

func TestRequireSuperAdmin(t *testing.T) {
	t.Run("super admin passes", func(t *testing.T) {
		r := newRouter(&stubVerifier{claims: adminClaims("super_admin")}, RequireSuperAdmin())
		assert.Equal(t, http.StatusOK, do(r, "Bearer some-token").Code)
	})

	t.Run("regular admin forbidden", func(t *testing.T) {
		r := newRouter(&stubVerifier{claims: adminClaims("admin")}, RequireSuperAdmin())
		assert.Equal(t, http.StatusForbidden, do(r, "Bearer some-token").Code)
	})

	t.Run("driver forbidden", func(t *testing.T) {
		r := newRouter(&stubVerifier{claims: adminClaims("driver")}, RequireSuperAdmin())
		assert.Equal(t, http.StatusForbidden, do(r, "Bearer some-token").Code)
	})
}

func TestIdentityFromRoles(t *testing.T) {
	r := newRouter(&stubVerifier{claims: adminClaims("driver")})
	w := do(r, "Bearer some-token")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(admin.RoleDriver))
}
