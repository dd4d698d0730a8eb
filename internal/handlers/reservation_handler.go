package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mobile-bio-lab/lab-service/internal/middleware"
	"github.com/mobile-bio-lab/lab-service/internal/services"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
)

type ReservationHandler struct {
	BaseHandler
	reservationService services.ReservationService
}

func NewReservationHandler(reservationService services.ReservationService, logger utils.Logger) *ReservationHandler {
	return &ReservationHandler{
		BaseHandler:        NewBaseHandler(logger),
		reservationService: reservationService,
	}
}

// List dispatches on query parameters: ?date= for the calendar view,
// ?user=true for the caller's own upcoming bookings, ?action=list for the
// staff listing of recent reservations.
func (h *ReservationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("action") == "list" {
		entries, err := h.reservationService.ListAll(ctx)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: entries})
		return
	}

	if c.Query("user") == "true" {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
			return
		}
		reservations, err := h.reservationService.ListUpcoming(ctx, userID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: reservations})
		return
	}

	if date := c.Query("date"); date != "" {
		reservations, err := h.reservationService.ListByDate(ctx, date)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: reservations})
		return
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Missing query parameters"})
}

// Create books a slot for the authenticated user.
func (h *ReservationHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	var req services.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Booking slot", "user_id", userID, "date", req.Date, "time_slot", req.TimeSlot)

	reservation, err := h.reservationService.Book(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Reservation created successfully",
		Data:    reservation,
	})
}

// Cancel frees the caller's confirmed reservation.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	reservation, err := h.reservationService.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Reservation cancelled",
		Data:    reservation,
	})
}
