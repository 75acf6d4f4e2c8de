package earnings

import (
	"errors"
	"net/http"

	"imagestyle/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/earnings", h.Summary)
}

// Summary returns the total and per-day breakdown for a window.
// @Summary	Earnings summary
// @Tags		Earnings
// @Security	BearerAuth
// @Param		preset	query	string	false	"today | week | month"
// @Param		start	query	string	false	"YYYY-MM-DDTHH:MM:SS"
// @Param		end		query	string	false	"YYYY-MM-DDTHH:MM:SS"
// @Router		/earnings [GET]
func (h *Handler) Summary(c *gin.Context) {
	var q Query
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query")
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute earnings")
		return
	}

	c.JSON(http.StatusOK, summary)
}
