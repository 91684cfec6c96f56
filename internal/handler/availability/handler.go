package availability

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ayurmitra/panchakarma-api/internal/handler"
	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/internal/service/availability"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) UpsertAvailability(c *gin.Context) {
	therapistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid therapist ID"))
		return
	}

	var req model.UpsertAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	avail, err := h.service.Upsert(c.Request.Context(), therapistID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(avail))
}

func (h *Handler) GetAvailability(c *gin.Context) {
	therapistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid therapist ID"))
		return
	}

	avail, err := h.service.Get(c.Request.Context(), therapistID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(avail))
}

// GetSlots expands the therapist's availability into the concrete
// bookable slot grid for the whole week.
func (h *Handler) GetSlots(c *gin.Context) {
	therapistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid therapist ID"))
		return
	}

	days, err := h.service.WeeklySlots(c.Request.Context(), therapistID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(days))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	therapists := r.Group("/therapists")
	{
		therapists.PUT("/:id/availability", h.UpsertAvailability)
		therapists.GET("/:id/availability", h.GetAvailability)
		therapists.GET("/:id/slots", h.GetSlots)
	}
}
