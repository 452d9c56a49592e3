package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/railbook/train-reservation-backend/internal/database"
	"github.com/railbook/train-reservation-backend/internal/models"
	"github.com/railbook/train-reservation-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// TrainHandler handles train directory, search and availability endpoints
type TrainHandler struct {
	trains         *database.TrainRepository
	bookingService *services.BookingService
	searchService  *services.SearchService
	logger         *logrus.Logger
}

// NewTrainHandler creates a new TrainHandler
func NewTrainHandler(
	trains *database.TrainRepository,
	bookingService *services.BookingService,
	searchService *services.SearchService,
	logger *logrus.Logger,
) *TrainHandler {
	return &TrainHandler{
		trains:         trains,
		bookingService: bookingService,
		searchService:  searchService,
		logger:         logger,
	}
}

// ListTrains returns the train directory
// @Summary List trains
// @Tags Trains
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /trains [get]
func (h *TrainHandler) ListTrains(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	trains, err := h.trains.ListTrains(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trains": trains, "count": len(trains)})
}

// GetTrain returns a train with its ordered route
// @Summary Get train
// @Tags Trains
// @Produce json
// @Param id path string true "Train ID"
// @Success 200 {object} models.Train
// @Failure 404 {object} map[string]interface{} "Train not found"
// @Router /trains/{id} [get]
func (h *TrainHandler) GetTrain(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid train id"})
		return
	}

	train, err := h.trains.GetTrainByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, train)
}

// CreateTrain registers a train with its route
// @Summary Create train
// @Tags Trains
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.CreateTrainRequest true "Train with route"
// @Success 201 {object} models.Train
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Router /trains [post]
func (h *TrainHandler) CreateTrain(c *gin.Context) {
	var req models.CreateTrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	train := &models.Train{
		TrainNumber:     req.TrainNumber,
		Name:            req.Name,
		TotalSeats:      req.TotalSeats,
		FareBaseRate:    req.FareBaseRate,
		DaysOfOperation: pq.StringArray(req.DaysOfOperation),
	}
	for i, stop := range req.Stops {
		train.Stops = append(train.Stops, models.TrainStop{
			StationID:     stop.StationID,
			StopOrder:     i + 1,
			DistanceKM:    stop.DistanceKM,
			DepartureTime: stop.DepartureTime,
			ArrivalTime:   stop.ArrivalTime,
		})
	}

	if err := h.trains.CreateTrain(train); err != nil {
		h.logger.WithError(err).Error("Failed to create train")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"train_id":     train.ID,
		"train_number": train.TrainNumber,
		"stops":        len(train.Stops),
	}).Info("Train created")

	c.JSON(http.StatusCreated, train)
}

// SearchTrains finds trains between two stations
// @Summary Search trains
// @Tags Trains
// @Produce json
// @Param from query string true "Origin station ID"
// @Param to query string true "Destination station ID"
// @Param date query string false "Journey date (YYYY-MM-DD)"
// @Success 200 {object} models.SearchTrainsResponse
// @Failure 400 {object} map[string]interface{} "Invalid query"
// @Router /trains/search [get]
func (h *TrainHandler) SearchTrains(c *gin.Context) {
	fromID, err := uuid.Parse(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from query parameter must be a station id"})
		return
	}
	toID, err := uuid.Parse(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to query parameter must be a station id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	req := models.SearchTrainsRequest{
		FromStationID: fromID,
		ToStationID:   toID,
		Date:          c.Query("date"),
		Limit:         limit,
	}
	if req.FromStationID == req.ToStationID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination stations must differ"})
		return
	}

	response, err := h.searchService.SearchTrains(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetAvailability reports free seats for a train on a journey date
// @Summary Seat availability
// @Tags Trains
// @Produce json
// @Param id path string true "Train ID"
// @Param date query string true "Journey date (YYYY-MM-DD)"
// @Success 200 {object} models.AvailabilityResponse
// @Failure 404 {object} map[string]interface{} "Train not found"
// @Failure 422 {object} map[string]interface{} "Train does not run on that day"
// @Router /trains/{id}/availability [get]
func (h *TrainHandler) GetAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid train id"})
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	availability, err := h.bookingService.GetAvailability(id, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}
