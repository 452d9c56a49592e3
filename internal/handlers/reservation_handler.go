package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mssola/user_agent"
	"github.com/railbook/train-reservation-backend/internal/middleware"
	"github.com/railbook/train-reservation-backend/internal/models"
	"github.com/railbook/train-reservation-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ReservationHandler handles the reservation lifecycle endpoints
type ReservationHandler struct {
	bookingService *services.BookingService
	logger         *logrus.Logger
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(bookingService *services.BookingService, logger *logrus.Logger) *ReservationHandler {
	return &ReservationHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// CreateReservation books a journey
// @Summary Create reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.CreateReservationRequest true "Booking request"
// @Success 201 {object} models.Reservation
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 404 {object} map[string]interface{} "Train not found"
// @Failure 409 {object} map[string]interface{} "Capacity exceeded"
// @Failure 422 {object} map[string]interface{} "Train does not run on that day"
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	reservation, err := h.bookingService.CreateReservation(userCtx.UserID, &req, bookingSource(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// ListReservations returns the user's reservations, newest first
// @Summary List reservations
// @Tags Reservations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]interface{}
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reservations, err := h.bookingService.ListReservations(userCtx.UserID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": reservations, "count": len(reservations)})
}

// GetReservation returns an owned reservation with its passengers
// @Summary Get reservation
// @Tags Reservations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Reservation ID"
// @Success 200 {object} models.Reservation
// @Failure 404 {object} map[string]interface{} "Reservation not found"
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	reservation, err := h.bookingService.GetReservation(userCtx.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// CancelReservation cancels an owned reservation
// @Summary Cancel reservation
// @Tags Reservations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Reservation ID"
// @Success 200 {object} models.Reservation
// @Failure 404 {object} map[string]interface{} "Reservation not found"
// @Failure 409 {object} map[string]interface{} "Window closed or already cancelled"
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	reservation, err := h.bookingService.CancelReservation(userCtx.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// ConfirmPayment records an externally collected payment
// @Summary Confirm payment
// @Tags Reservations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Reservation ID"
// @Param request body models.ConfirmPaymentRequest true "Payment details"
// @Success 200 {object} models.Reservation
// @Failure 404 {object} map[string]interface{} "No pending reservation"
// @Router /reservations/{id}/payment [post]
func (h *ReservationHandler) ConfirmPayment(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	reservation, err := h.bookingService.ConfirmPayment(userCtx.UserID, id, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"reservation_id": id,
		"reference":      req.PaymentReference,
	}).Info("Payment reference recorded")

	c.JSON(http.StatusOK, reservation)
}

// bookingSource classifies the client from its User-Agent header.
func bookingSource(c *gin.Context) string {
	ua := user_agent.New(c.GetHeader("User-Agent"))
	switch {
	case ua.Bot():
		return "bot"
	case ua.Mobile():
		return "mobile"
	default:
		return "web"
	}
}
