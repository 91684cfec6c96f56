package people

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ayurmitra/panchakarma-api/internal/handler"
	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/internal/repository"
)

// Handler serves the patient and provider reference endpoints. These are
// plain reads so the repositories are used directly.
type Handler struct {
	patients   repository.PatientRepository
	therapists repository.TherapistRepository
}

func NewHandler(patients repository.PatientRepository, therapists repository.TherapistRepository) *Handler {
	return &Handler{patients: patients, therapists: therapists}
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.patients.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	patient, err := h.patients.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) ListTherapists(c *gin.Context) {
	role := model.ProviderRole(c.Query("role"))
	therapists, err := h.therapists.List(c.Request.Context(), role)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(therapists))
}

func (h *Handler) GetTherapist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid therapist ID"))
		return
	}

	therapist, err := h.therapists.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(therapist))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
	}
	therapists := r.Group("/therapists")
	{
		therapists.GET("", h.ListTherapists)
		therapists.GET("/:id", h.GetTherapist)
	}
}
