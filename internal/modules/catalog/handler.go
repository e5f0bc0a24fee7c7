package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"servicebooking/internal/pkg/response"
	"servicebooking/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read-only catalog surface.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/providers", h.ListProviders)
	rg.GET("/providers/:id", h.GetProvider)
	rg.GET("/providers/:id/schedule", h.GetSchedule)
	rg.GET("/services/:id", h.GetService)
}

// RegisterOwnerRoutes mounts the provider-owner write surface; callers must
// already be authenticated.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.POST("/providers/:id/services", h.CreateService)
	rg.PUT("/providers/:id/schedule", h.UpdateSchedule)
	rg.PATCH("/services/:id/active", h.SetServiceActive)
}

func (h *Handler) ListProviders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	providers, err := h.service.ListProviders(c.Request.Context(), limit, offset)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"providers": providers})
}

func (h *Handler) GetProvider(c *gin.Context) {
	id, ok := idParam(c, "provider")
	if !ok {
		return
	}

	details, err := h.service.GetProvider(c.Request.Context(), id)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, details)
}

func (h *Handler) GetService(c *gin.Context) {
	id, ok := idParam(c, "service")
	if !ok {
		return
	}

	svc, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": svc})
}

func (h *Handler) GetSchedule(c *gin.Context) {
	id, ok := idParam(c, "provider")
	if !ok {
		return
	}

	ws, err := h.service.GetSchedule(c.Request.Context(), id)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hours": ws})
}

func (h *Handler) CreateService(c *gin.Context) {
	id, ok := idParam(c, "provider")
	if !ok {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid service payload", fields)
		return
	}

	svc, err := h.service.CreateService(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"service": svc})
}

func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, ok := idParam(c, "provider")
	if !ok {
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid schedule body")
		return
	}

	if err := h.service.UpdateSchedule(c.Request.Context(), id, c.GetInt64("user_id"), req.Hours); err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hours": req.Hours})
}

func (h *Handler) SetServiceActive(c *gin.Context) {
	id, ok := idParam(c, "service")
	if !ok {
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "active is required")
		return
	}

	if err := h.service.SetServiceActive(c.Request.Context(), id, c.GetInt64("user_id"), *req.Active); err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "active": *req.Active})
}

func idParam(c *gin.Context, kind string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+kind+" ID")
		return 0, false
	}
	return id, true
}

func writeCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this provider")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Catalog operation failed")
	}
}
