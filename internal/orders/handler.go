package orders

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/geminitwinsolutions/doobie-division-app/internal/admin"
)

// Handler serves the deliveries screen: the order queue, the driver list,
// and assignment.
type Handler struct {
	service  *Service
	registry admin.Registry
}

func NewHandler(service *Service, registry admin.Registry) *Handler {
	return &Handler{service: service, registry: registry}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders", h.list)
	rg.GET("/drivers", h.drivers)
	rg.POST("/orders/:id/assign", h.assign)
}

func (h *Handler) list(c *gin.Context) {
	orders, err := h.service.List(c.Request.Context(), c.Query("area"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) drivers(c *gin.Context) {
	drivers, err := h.registry.Drivers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

type assignRequest struct {
	DriverID string `json:"driver_id" binding:"required"`
}

func (h *Handler) assign(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "driver_id is required"})
		return
	}

	order, err := h.service.Assign(c.Request.Context(), orderID, req.DriverID)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, ErrNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": "order is not pending"})
	case errors.Is(err, ErrNotDriver):
		c.JSON(http.StatusBadRequest, gin.H{"error": "assignee is not a driver"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign order"})
	default:
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}
