package availability

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
	rg.GET("/services/:id/slots", h.ListSlots)
}

// ListSlots returns the bookable start times for a service on ?date=YYYY-MM-DD
// as "15:04" time-of-day values.
func (h *Handler) ListSlots(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || serviceID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	date := c.Query("date")
	slots, err := h.service.ListAvailableSlots(c.Request.Context(), serviceID, date)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		case errors.Is(err, ErrInvalidDuration):
			response.Error(c, http.StatusUnprocessableEntity, "INVALID_DURATION", "Service has an invalid duration")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load availability")
		}
		return
	}

	out := make([]string, 0, len(slots))
	for _, t := range slots {
		out = append(out, t.Format("15:04"))
	}

	response.Success(c, http.StatusOK, gin.H{
		"service_id": serviceID,
		"date":       date,
		"slots":      out,
	})
}
