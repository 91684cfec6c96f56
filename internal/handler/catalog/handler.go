package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ayurmitra/panchakarma-api/internal/handler"
	"github.com/ayurmitra/panchakarma-api/internal/service/template"
	"github.com/ayurmitra/panchakarma-api/internal/service/therapy"
)

// Handler serves the read-mostly reference catalogs: the therapy
// procedure library and the course templates.
type Handler struct {
	therapies *therapy.Service
	templates *template.Service
}

func NewHandler(therapies *therapy.Service, templates *template.Service) *Handler {
	return &Handler{therapies: therapies, templates: templates}
}

func (h *Handler) ListTherapies(c *gin.Context) {
	therapies, err := h.therapies.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(therapies))
}

func (h *Handler) GetTherapy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid therapy ID"))
		return
	}

	t, err := h.therapies.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(t))
}

func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(templates))
}

func (h *Handler) GetTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid template ID"))
		return
	}

	t, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(t))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	therapies := r.Group("/therapies")
	{
		therapies.GET("", h.ListTherapies)
		therapies.GET("/:id", h.GetTherapy)
	}
	templates := r.Group("/course-templates")
	{
		templates.GET("", h.ListTemplates)
		templates.GET("/:id", h.GetTemplate)
	}
}
