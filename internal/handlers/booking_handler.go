package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"becreative_backend/internal/middleware"
	"becreative_backend/internal/services"
	"becreative_backend/internal/services/dto"
)

type BookingHandler struct {
	*BaseHandler
	bookingService services.BookingService
}

func NewBookingHandler(base *BaseHandler, bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		BaseHandler:    base,
		bookingService: bookingService,
	}
}

func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/:bookingId", h.GetBooking)
		bookings.POST("/:bookingId/cancel", h.CancelBooking)
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.bookingService.CreateBooking(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.BookingListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	bookings, total, err := h.bookingService.ListUserBookings(userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PagedResponse{
		Items:    bookings,
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.bookingService.GetBooking(userID, c.Param("bookingId"), middleware.IsAdmin(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.bookingService.CancelBooking(c.Request.Context(), userID, c.Param("bookingId"), middleware.IsAdmin(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}
