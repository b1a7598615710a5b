package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler exposes registry management to the admin console. Routes are
// mounted behind the auth middleware; mutations additionally require the
// super_admin role (enforced by the router group).
type Handler struct {
	registry Registry
}

func NewHandler(registry Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, superAdminOnly gin.HandlerFunc) {
	rg.GET("/admins", h.list)
	rg.POST("/admins", superAdminOnly, h.add)
	rg.DELETE("/admins/:telegramID", superAdminOnly, h.remove)
}

func (h *Handler) list(c *gin.Context) {
	records, err := h.registry.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list admins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": records})
}

type addRequest struct {
	TelegramID string `json:"telegram_id" binding:"required"`
	Username   string `json:"telegram_username"`
	FullName   string `json:"full_name"`
	Role       Role   `json:"role"`
}

func (h *Handler) add(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "telegram_id is required"})
		return
	}

	if req.Role == "" {
		req.Role = RoleAdmin
	}
	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	rec, err := h.registry.Add(c.Request.Context(), Record{
		TelegramID: req.TelegramID,
		Username:   req.Username,
		FullName:   req.FullName,
		Role:       req.Role,
	})
	if errors.Is(err, ErrAlreadyExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "admin already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add admin"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"admin": rec})
}

func (h *Handler) remove(c *gin.Context) {
	err := h.registry.Remove(c.Request.Context(), c.Param("telegramID"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove admin"})
		return
	}

	c.Status(http.StatusNoContent)
}
