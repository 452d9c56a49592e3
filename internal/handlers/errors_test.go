package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/railbook/train-reservation-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not found",
			err:        &models.NotFoundError{Resource: "train", ID: uuid.New().String()},
			wantStatus: http.StatusNotFound,
			wantBody:   "not_found",
		},
		{
			name:       "invalid schedule",
			err:        &models.InvalidScheduleError{TrainNumber: "12951", DayName: "Tue"},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "invalid_schedule",
		},
		{
			name:       "passenger limit exceeded",
			err:        &models.PassengerLimitExceededError{Requested: 7, Limit: 6},
			wantStatus: http.StatusBadRequest,
			wantBody:   "passenger_limit_exceeded",
		},
		{
			name:       "capacity exceeded",
			err:        &models.CapacityExceededError{TrainID: uuid.New(), Requested: 4, Available: 2},
			wantStatus: http.StatusConflict,
			wantBody:   "capacity_exceeded",
		},
		{
			name:       "cancellation window closed",
			err:        &models.CancellationWindowClosedError{HoursUntil: 2, CutoffHours: 4},
			wantStatus: http.StatusConflict,
			wantBody:   "cancellation_window_closed",
		},
		{
			name:       "already cancelled",
			err:        &models.AlreadyCancelledError{ReservationID: uuid.New()},
			wantStatus: http.StatusConflict,
			wantBody:   "already_cancelled",
		},
		{
			name:       "code generation exhausted",
			err:        &models.CodeGenerationExhaustedError{Attempts: 10},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal_error",
		},
		{
			name:       "storage error",
			err:        &models.StorageError{Op: "get train", Err: errors.New("connection reset")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal_error",
		},
		{
			name:       "plain validation error",
			err:        errors.New("at least one passenger is required"),
			wantStatus: http.StatusBadRequest,
			wantBody:   "bad_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

// the booking path wraps causes; mapping must see through the wrapper
func TestRespondError_UnwrapsBookingFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	wrapped := &models.BookingFailedError{
		Cause: &models.CapacityExceededError{TrainID: uuid.New(), Requested: 3, Available: 0},
	}
	respondError(c, wrapped)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "capacity_exceeded")
}

func TestRespondError_StorageDoesNotLeakDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, &models.StorageError{Op: "lock train row", Err: errors.New("pq: deadlock detected")})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "deadlock")
}
