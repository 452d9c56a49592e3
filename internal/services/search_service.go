package services

import (
	"time"

	"github.com/railbook/train-reservation-backend/internal/database"
	"github.com/railbook/train-reservation-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// SearchService handles journey search between two stations
type SearchService struct {
	trains   *database.TrainRepository
	ledger   *CapacityLedger
	calendar *ScheduleCalendar
	logger   *logrus.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	trains *database.TrainRepository,
	reservations *database.ReservationRepository,
	logger *logrus.Logger,
) *SearchService {
	return &SearchService{
		trains:   trains,
		ledger:   NewCapacityLedger(reservations),
		calendar: NewScheduleCalendar(),
		logger:   logger,
	}
}

// SearchTrains finds trains whose route visits the origin station before
// the destination. With a journey date the results also carry whether the
// train runs that day and, if it does, the current free seat count.
func (s *SearchService) SearchTrains(req *models.SearchTrainsRequest) (*models.SearchTrainsResponse, error) {
	started := time.Now()

	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	results, err := s.trains.SearchTrains(req.FromStationID, req.ToStationID, limit)
	if err != nil {
		return nil, err
	}

	var window *JourneyWindow
	if req.Date != "" {
		window, err = s.calendar.ResolveWindow(req.Date)
		if err != nil {
			return nil, err
		}
	}

	for i := range results {
		r := &results[i]
		r.FarePerSeat = FareForDistance(r.DistanceKM, r.FareBaseRate)

		if window == nil {
			continue
		}
		runs := false
		for _, d := range r.DaysOfOperation {
			if d == window.DayName {
				runs = true
				break
			}
		}
		r.RunsOnDate = &runs
		if !runs {
			continue
		}

		available, err := s.ledger.AvailableSeats(r.TrainID, r.TotalSeats, window.DayStart, window.DayEnd)
		if err != nil {
			s.logger.WithError(err).WithField("train_id", r.TrainID).
				Warn("Availability lookup failed during search")
			continue
		}
		r.AvailableSeats = &available
	}

	s.logger.WithFields(logrus.Fields{
		"from":    req.FromStationID,
		"to":      req.ToStationID,
		"date":    req.Date,
		"results": len(results),
	}).Info("Train search completed")

	return &models.SearchTrainsResponse{
		Results:      results,
		SearchTimeMs: time.Since(started).Milliseconds(),
	}, nil
}
