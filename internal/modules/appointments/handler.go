package appointments

import (
	"errors"
	"net/http"

	"imagestyle/internal/pkg/response"
	"imagestyle/internal/scheduling"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	for _, path := range []string{"/appointments", "/appointments/"} {
		rg.POST(path, h.Create)
		rg.GET(path, h.List)
	}
	rg.GET("/appointments/slots", h.Slots)
	rg.GET("/catalog", h.Catalog)
}

// Create books an appointment.
// @Summary	Create an appointment
// @Tags		Appointments
// @Security	BearerAuth
// @Param		request	body	CreateAppointmentRequest	true	"client_id, staff_id, service_name, start_time, end_time, notes, price"
// @Success	200	{object}	domain.Appointment
// @Failure	400	{object}	map[string]interface{}	"bad time range or unknown client/staff"
// @Failure	409	{object}	map[string]interface{}	"staff member already booked"
// @Router		/appointments [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		case errors.Is(err, ErrInvalidTimeRange):
			response.Error(c, http.StatusBadRequest, "INVALID_TIME_RANGE", "end_time must be after start_time")
		case errors.Is(err, ErrInvalidParticipants):
			response.Error(c, http.StatusBadRequest, "INVALID_PARTICIPANTS", "Invalid client or staff id")
		case errors.Is(err, ErrSlotTaken):
			response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Staff member is already booked for the selected time")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create appointment")
		}
		return
	}

	c.JSON(http.StatusOK, a)
}

// List returns appointments inside the optional [start, end] window.
// @Summary	List appointments
// @Tags		Appointments
// @Security	BearerAuth
// @Param		start	query	string	false	"YYYY-MM-DDTHH:MM:SS, start_time >= start"
// @Param		end		query	string	false	"YYYY-MM-DDTHH:MM:SS, end_time <= end"
// @Success	200	{array}	domain.Appointment
// @Router		/appointments [GET]
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query")
		return
	}

	list, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start and end must be YYYY-MM-DDTHH:MM:SS")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load appointments")
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) Slots(c *gin.Context) {
	var q SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date and staff_id are required")
		return
	}

	res, err := h.service.AvailableSlots(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load slots")
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, scheduling.Catalog())
}
