package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"becreative_backend/internal/middleware"
	"becreative_backend/internal/services"
	"becreative_backend/internal/services/dto"
)

type InstructorHandler struct {
	*BaseHandler
	instructorService services.InstructorService
	reviewService     services.ReviewService
}

func NewInstructorHandler(base *BaseHandler, instructorService services.InstructorService, reviewService services.ReviewService) *InstructorHandler {
	return &InstructorHandler{
		BaseHandler:       base,
		instructorService: instructorService,
		reviewService:     reviewService,
	}
}

func (h *InstructorHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/instructors")
	{
		public.GET("", h.ListInstructors)
		public.GET("/:instructorId", h.GetInstructor)
		public.GET("/:instructorId/reviews", h.GetReviews)
		public.GET("/:instructorId/rating", h.GetRating)
	}

	protected := r.Group("/instructors")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", h.BecomeInstructor)
		protected.GET("/me", h.GetMyProfile)
		protected.PATCH("/:instructorId", h.UpdateInstructor)
	}

	admin := r.Group("/admin/instructors")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/:instructorId/verify", h.VerifyInstructor)
		admin.POST("/:instructorId/demote", h.DemoteInstructor)
	}
}

func (h *InstructorHandler) ListInstructors(c *gin.Context) {
	var query dto.InstructorListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	instructors, total, err := h.instructorService.ListInstructors(&query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PagedResponse{
		Items:    instructors,
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
}

func (h *InstructorHandler) GetInstructor(c *gin.Context) {
	resp, err := h.instructorService.GetInstructor(c.Param("instructorId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InstructorHandler) GetReviews(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	reviews, total, err := h.reviewService.ListByInstructor(c.Param("instructorId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PagedResponse{
		Items:    reviews,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *InstructorHandler) GetRating(c *gin.Context) {
	summary, err := h.reviewService.GetRatingSummary(c.Param("instructorId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *InstructorHandler) BecomeInstructor(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateInstructorRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.instructorService.BecomeInstructor(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *InstructorHandler) GetMyProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.instructorService.GetByUserID(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InstructorHandler) UpdateInstructor(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateInstructorRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.instructorService.UpdateInstructor(userID, c.Param("instructorId"), middleware.IsAdmin(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InstructorHandler) VerifyInstructor(c *gin.Context) {
	verified := c.DefaultQuery("verified", "true") == "true"

	if err := h.instructorService.VerifyInstructor(c.Param("instructorId"), verified); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Instructor verification updated"})
}

func (h *InstructorHandler) DemoteInstructor(c *gin.Context) {
	if err := h.instructorService.DemoteInstructor(c.Param("instructorId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Instructor demoted"})
}
