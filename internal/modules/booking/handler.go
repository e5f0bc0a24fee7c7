package booking

import (
	"errors"
	"net/http"
	"strconv"

	"servicebooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings/my", h.MyBookings)
	rg.PATCH("/bookings/:id/reschedule", h.Reschedule)
	rg.POST("/bookings/:id/confirm", h.Confirm)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.GET("/providers/:id/bookings", h.ProviderBookings)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) MyBookings(c *gin.Context) {
	limit, offset := pagination(c)
	rows, err := h.service.MyBookings(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": rows})
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Reschedule(c.Request.Context(), id, c.GetInt64("user_id"), req.StartTime)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Confirm(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	b, err := h.service.Confirm(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, c.GetInt64("user_id"), req.Reason)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ProviderBookings(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	rows, err := h.service.ProviderBookings(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": rows})
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot act on this booking")
	case errors.Is(err, ErrServiceNotActive):
		response.Error(c, http.StatusUnprocessableEntity, "SERVICE_NOT_ACTIVE", "The service is not accepting bookings")
	case errors.Is(err, ErrBookingTime):
		response.Error(c, http.StatusUnprocessableEntity, "BOOKING_TIME", err.Error())
	case errors.Is(err, ErrSlotUnavailable):
		response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", "The requested slot is no longer available")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Booking operation failed")
	}
}
