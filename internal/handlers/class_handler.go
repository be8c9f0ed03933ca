package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"becreative_backend/internal/middleware"
	"becreative_backend/internal/models"
	"becreative_backend/internal/services"
	"becreative_backend/internal/services/dto"
)

type ClassHandler struct {
	*BaseHandler
	classService   services.ClassService
	bookingService services.BookingService
}

func NewClassHandler(base *BaseHandler, classService services.ClassService, bookingService services.BookingService) *ClassHandler {
	return &ClassHandler{
		BaseHandler:    base,
		classService:   classService,
		bookingService: bookingService,
	}
}

func (h *ClassHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/classes")
	{
		public.GET("", h.ListClasses)
		public.GET("/:classId", h.GetClass)
	}

	instructor := r.Group("/classes")
	instructor.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleInstructor, models.UserRoleAdmin))
	{
		instructor.POST("", h.CreateClass)
		instructor.PATCH("/:classId", h.UpdateClass)
		instructor.DELETE("/:classId", h.DeactivateClass)
		instructor.GET("/:classId/bookings", h.GetClassBookings)
	}
}

func (h *ClassHandler) ListClasses(c *gin.Context) {
	var query dto.ClassListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	classes, total, err := h.classService.ListClasses(&query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PagedResponse{
		Items:    classes,
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
}

func (h *ClassHandler) GetClass(c *gin.Context) {
	resp, err := h.classService.GetClass(c.Param("classId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ClassHandler) CreateClass(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateClassRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.classService.CreateClass(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ClassHandler) UpdateClass(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateClassRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.classService.UpdateClass(userID, c.Param("classId"), middleware.IsAdmin(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ClassHandler) DeactivateClass(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.classService.DeactivateClass(userID, c.Param("classId"), middleware.IsAdmin(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ClassHandler) GetClassBookings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListClassBookings(userID, c.Param("classId"), middleware.IsAdmin(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": bookings})
}
