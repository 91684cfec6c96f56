package plan

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ayurmitra/panchakarma-api/internal/handler"
	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/internal/service/plan"
)

type Handler struct {
	service *plan.Service
}

func NewHandler(service *plan.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var req model.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	view, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(view))
}

func (h *Handler) GetPlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid plan ID"))
		return
	}

	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(view))
}

func (h *Handler) ListPlans(c *gin.Context) {
	filters := &model.PlanFilters{}

	if id := c.Query("patient_id"); id != "" {
		patientID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
			return
		}
		filters.PatientID = patientID
	}
	if id := c.Query("doctor_id"); id != "" {
		doctorID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
			return
		}
		filters.DoctorID = doctorID
	}
	if id := c.Query("therapist_id"); id != "" {
		therapistID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid therapist ID"))
			return
		}
		filters.TherapistID = therapistID
	}
	if status := c.Query("status"); status != "" {
		filters.Status = model.PlanStatus(status)
	}

	views, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(views))
}

func (h *Handler) UpdatePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid plan ID"))
		return
	}

	var req model.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	view, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(view))
}

// ValidatePlan runs a single wizard stage's checks without persisting
// anything. Stage defaults to all stages when omitted.
func (h *Handler) ValidatePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid plan ID"))
		return
	}

	stage := 0
	if s := c.Query("stage"); s != "" {
		stage, err = strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid stage"))
			return
		}
	}

	problems, err := h.service.Validate(c.Request.Context(), id, stage)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"valid":    len(problems) == 0,
		"problems": problems,
	}))
}

// SubmitPlan finalizes a draft plan and generates its session schedule.
// Validation problems come back as 422 with the full problem list.
func (h *Handler) SubmitPlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid plan ID"))
		return
	}

	view, problems, err := h.service.Submit(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if len(problems) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":   "error",
			"message":  "plan failed validation",
			"problems": problems,
		})
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(view))
}

func (h *Handler) CreateFromTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid template ID"))
		return
	}

	var req model.SeedFromTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	view, err := h.service.SeedFromTemplate(c.Request.Context(), templateID, req.PatientID, req.DoctorID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(view))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	plans := r.Group("/treatment-plans")
	{
		plans.POST("", h.CreatePlan)
		plans.GET("", h.ListPlans)
		plans.GET("/:id", h.GetPlan)
		plans.PUT("/:id", h.UpdatePlan)
		plans.GET("/:id/validate", h.ValidatePlan)
		plans.POST("/:id/submit", h.SubmitPlan)
	}
	r.POST("/course-templates/:id/use", h.CreateFromTemplate)
}
