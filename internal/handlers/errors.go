package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railbook/train-reservation-backend/internal/models"
)

// respondError maps the typed domain errors onto HTTP responses. Handlers
// call this for any service or repository error; infrastructure failures
// become a generic 500 without leaking internals, anything unrecognized
// is treated as a bad request.
func respondError(c *gin.Context, err error) {
	var (
		notFound     *models.NotFoundError
		invalidSched *models.InvalidScheduleError
		limit        *models.PassengerLimitExceededError
		capacity     *models.CapacityExceededError
		exhausted    *models.CodeGenerationExhaustedError
		windowClosed *models.CancellationWindowClosedError
		cancelled    *models.AlreadyCancelledError
		storage      *models.StorageError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": notFound.Error(),
		})
	case errors.As(err, &invalidSched):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "invalid_schedule",
			"message": invalidSched.Error(),
			"day":     invalidSched.DayName,
		})
	case errors.As(err, &limit):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "passenger_limit_exceeded",
			"message": limit.Error(),
			"limit":   limit.Limit,
		})
	case errors.As(err, &capacity):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "capacity_exceeded",
			"message":   capacity.Error(),
			"requested": capacity.Requested,
			"available": capacity.Available,
		})
	case errors.As(err, &windowClosed):
		c.JSON(http.StatusConflict, gin.H{
			"error":        "cancellation_window_closed",
			"message":      windowClosed.Error(),
			"cutoff_hours": windowClosed.CutoffHours,
		})
	case errors.As(err, &cancelled):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "already_cancelled",
			"message": cancelled.Error(),
		})
	case errors.As(err, &exhausted), errors.As(err, &storage):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Unable to complete the request. Please try again.",
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": err.Error(),
		})
	}
}
