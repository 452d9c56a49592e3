package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/railbook/train-reservation-backend/internal/database"
	"github.com/railbook/train-reservation-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// StationHandler handles station directory endpoints
type StationHandler struct {
	stations *database.StationRepository
	logger   *logrus.Logger
}

// NewStationHandler creates a new StationHandler
func NewStationHandler(stations *database.StationRepository, logger *logrus.Logger) *StationHandler {
	return &StationHandler{stations: stations, logger: logger}
}

// ListStations returns the station directory
// @Summary List stations
// @Tags Stations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /stations [get]
func (h *StationHandler) ListStations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	stations, err := h.stations.ListStations(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stations": stations, "count": len(stations)})
}

// GetStation returns a single station by ID or short code
// @Summary Get station
// @Tags Stations
// @Produce json
// @Param id path string true "Station ID or code"
// @Success 200 {object} models.Station
// @Failure 404 {object} map[string]interface{} "Station not found"
// @Router /stations/{id} [get]
func (h *StationHandler) GetStation(c *gin.Context) {
	param := c.Param("id")

	var station *models.Station
	var err error
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		station, err = h.stations.GetStationByID(id)
	} else {
		station, err = h.stations.GetStationByCode(param)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, station)
}

// CreateStation registers a new station
// @Summary Create station
// @Tags Stations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.CreateStationRequest true "Station"
// @Success 201 {object} models.Station
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Router /stations [post]
func (h *StationHandler) CreateStation(c *gin.Context) {
	var req models.CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	station := &models.Station{
		Code:      req.Code,
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.stations.CreateStation(station); err != nil {
		h.logger.WithError(err).Error("Failed to create station")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"station_id": station.ID,
		"code":       station.Code,
	}).Info("Station created")

	c.JSON(http.StatusCreated, station)
}
