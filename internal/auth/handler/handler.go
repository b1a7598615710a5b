package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/geminitwinsolutions/doobie-division-app/internal/admin"
	"github.com/geminitwinsolutions/doobie-division-app/internal/auth"
	"github.com/geminitwinsolutions/doobie-division-app/internal/auth/telegram"
	"github.com/geminitwinsolutions/doobie-division-app/internal/logger"
	"github.com/geminitwinsolutions/doobie-division-app/internal/middleware"
	"github.com/geminitwinsolutions/doobie-division-app/internal/session"
)

// SessionIssuer is the narrow slice of the session backend the login flow
// consumes, so tests can swap in an in-memory fake.
type SessionIssuer interface {
	Issue(ctx context.Context, md session.Metadata) (*session.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*session.Session, error)
	Revoke(ctx context.Context, refreshToken string) error
}

type Handler struct {
	verifier    *telegram.Verifier
	registry    admin.Registry
	issuer      SessionIssuer
	redirectURL string
	botName     string
}

func NewHandler(
	verifier *telegram.Verifier,
	registry admin.Registry,
	issuer SessionIssuer,
	redirectURL string,
	botName string,
) *Handler {
	return &Handler{
		verifier:    verifier,
		registry:    registry,
		issuer:      issuer,
		redirectURL: redirectURL,
		botName:     botName,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/telegram/start", h.start)
	r.GET("/auth/telegram/callback", h.callback)
	r.POST("/auth/refresh", h.refresh)
	r.POST("/auth/logout", h.logout)
}

// start bounces the browser to the Telegram login page, pointing it back
// at our callback.
func (h *Handler) start(c *gin.Context) {
	if h.botName == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "telegram bot name not configured",
		})
		return
	}

	scheme := "https"
	if c.Request.TLS == nil && c.GetHeader("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}
	callbackURL := fmt.Sprintf("%s://%s/auth/telegram/callback", scheme, c.Request.Host)

	loginURL := fmt.Sprintf(
		"https://oauth.telegram.org/auth?bot_id=%s&origin=%s&return_to=%s",
		url.QueryEscape(h.botName),
		url.QueryEscape(callbackURL),
		url.QueryEscape(callbackURL),
	)

	c.Redirect(http.StatusFound, loginURL)
}

// callback is the login handshake: parse the widget assertion, verify its
// integrity, authorize against the admin registry, mint a session, and
// redirect to the admin frontend with the tokens in the URL fragment.
// Authentication always precedes authorization; the registry is never
// consulted for an unverified assertion.
func (h *Handler) callback(c *gin.Context) {
	assertion, err := telegram.ParseAssertion(c.Request.URL.Query())
	if err != nil {
		h.reject(c, err)
		return
	}

	claims, err := h.verifier.Verify(assertion)
	if err != nil {
		h.reject(c, err)
		return
	}

	rec, err := h.registry.Lookup(c.Request.Context(), claims.TelegramID)
	if errors.Is(err, admin.ErrNotFound) {
		h.reject(c, auth.ErrNotAdmin)
		return
	}
	if err != nil {
		logger.Error("admin registry lookup failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registry lookup failed"})
		return
	}

	fullName := rec.FullName
	if fullName == "" {
		fullName = claims.DisplayName()
	}

	sess, err := h.issuer.Issue(c.Request.Context(), session.Metadata{
		TelegramID: claims.TelegramID,
		Username:   claims.Username,
		FullName:   fullName,
		Role:       string(rec.Role),
	})
	if err != nil {
		h.reject(c, err)
		return
	}

	logger.Info("admin login", map[string]any{
		"telegram_id": claims.TelegramID,
		"role":        rec.Role,
	})

	// Tokens travel in the fragment, not the query string, so they never
	// reach server access logs on the frontend side.
	target := fmt.Sprintf("%s#access_token=%s&refresh_token=%s",
		h.redirectURL, sess.AccessToken, sess.RefreshToken)

	c.Redirect(http.StatusFound, target)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, err := h.issuer.Refresh(c.Request.Context(), req.RefreshToken)
	if errors.Is(err, session.ErrRefreshInvalid) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session issuance failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  sess.AccessToken,
		"refresh_token": sess.RefreshToken,
		"expires_at":    sess.ExpiresAt.Unix(),
	})
}

func (h *Handler) logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	// Best effort and idempotent: logging out twice is fine.
	_ = h.issuer.Revoke(c.Request.Context(), req.RefreshToken)

	c.Status(http.StatusNoContent)
}

// Me reports the identity attached to the bearer token. Registered behind
// the auth middleware.
func (h *Handler) Me(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subject":     id.Subject,
		"telegram_id": id.TelegramID,
		"username":    id.Username,
		"full_name":   id.FullName,
		"role":        id.Role,
	})
}

// reject turns a login flow failure into its JSON error response. Never a
// redirect, so failures stay visible to the caller.
func (h *Handler) reject(c *gin.Context, err error) {
	status := auth.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("login rejected", map[string]any{"error": err.Error()})
	} else {
		logger.Warn("login rejected", map[string]any{"error": err.Error()})
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
