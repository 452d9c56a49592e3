package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/railbook/train-reservation-backend/internal/config"
	"github.com/railbook/train-reservation-backend/internal/database"
	"github.com/railbook/train-reservation-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// BookingService orchestrates the reservation lifecycle: atomic booking,
// availability reads and cancellation. Schedule resolution, pricing and
// code generation happen up front; the capacity check and every write run
// inside a single repository-owned transaction serialized per train.
type BookingService struct {
	trains       *database.TrainRepository
	stations     *database.StationRepository
	reservations *database.ReservationRepository
	calendar     *ScheduleCalendar
	fares        *FareCalculator
	codes        *PNRGenerator
	ledger       *CapacityLedger
	cfg          config.BookingConfig
	logger       *logrus.Logger

	// now is swappable for cancellation-cutoff tests
	now func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	trains *database.TrainRepository,
	stations *database.StationRepository,
	reservations *database.ReservationRepository,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		trains:       trains,
		stations:     stations,
		reservations: reservations,
		calendar:     NewScheduleCalendar(),
		fares:        NewFareCalculator(),
		codes:        NewPNRGenerator(cfg.PNRMaxAttempts),
		ledger:       NewCapacityLedger(reservations),
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateReservation books a journey for a passenger group. Every failure
// after request validation is returned as BookingFailedError wrapping the
// typed cause, so callers log and map one error family.
func (s *BookingService) CreateReservation(
	userID uuid.UUID,
	req *models.CreateReservationRequest,
	bookingSource string,
) (*models.Reservation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.Passengers) > s.cfg.MaxPassengers {
		return nil, &models.PassengerLimitExceededError{
			Requested: len(req.Passengers),
			Limit:     s.cfg.MaxPassengers,
		}
	}

	attemptID := uuid.New()
	log := s.logger.WithFields(logrus.Fields{
		"attempt_id":   attemptID,
		"user_id":      userID,
		"train_id":     req.TrainID,
		"journey_date": req.JourneyDate,
		"passengers":   len(req.Passengers),
	})

	train, err := s.trains.GetTrainByID(req.TrainID)
	if err != nil {
		log.WithError(err).Warn("Booking failed: train lookup")
		return nil, &models.BookingFailedError{Cause: err}
	}

	// Both endpoints must exist before any pricing happens; an unknown
	// station is a NotFound, never a foreign key violation at insert time.
	if _, err := s.stations.GetStationByID(req.FromStationID); err != nil {
		log.WithError(err).Warn("Booking failed: origin station lookup")
		return nil, &models.BookingFailedError{Cause: err}
	}
	if _, err := s.stations.GetStationByID(req.ToStationID); err != nil {
		log.WithError(err).Warn("Booking failed: destination station lookup")
		return nil, &models.BookingFailedError{Cause: err}
	}

	window, err := s.calendar.ResolveJourneyWindow(train, req.JourneyDate)
	if err != nil {
		log.WithError(err).Warn("Booking failed: schedule check")
		return nil, &models.BookingFailedError{Cause: err}
	}

	totalFare := s.fares.TotalFare(train, req.FromStationID, req.ToStationID, len(req.Passengers))

	pnr, err := s.codes.GenerateUniqueCode(s.reservations.PNRExists)
	if err != nil {
		log.WithError(err).Error("Booking failed: code generation")
		return nil, &models.BookingFailedError{Cause: err}
	}

	reservation := &models.Reservation{
		PNR:           pnr,
		UserID:        userID,
		TrainID:       train.ID,
		JourneyDate:   window.DayStart,
		FromStationID: req.FromStationID,
		ToStationID:   req.ToStationID,
		TotalFare:     totalFare,
		Status:        models.ReservationStatusConfirmed,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: req.PaymentMethod,
	}
	if bookingSource != "" {
		reservation.BookingSource = &bookingSource
	}
	for _, p := range req.Passengers {
		reservation.Passengers = append(reservation.Passengers, models.Passenger{
			Name:            p.Name,
			Age:             p.Age,
			Gender:          p.Gender,
			BerthPreference: p.BerthPreference,
		})
	}

	created, err := s.reservations.CreateReservation(reservation, window.DayStart, window.DayEnd, s.cfg.CoachLabel)
	if err != nil {
		log.WithError(err).Warn("Booking failed: transaction aborted")
		return nil, &models.BookingFailedError{Cause: err}
	}

	log.WithFields(logrus.Fields{
		"reservation_id": created.ID,
		"pnr":            created.PNR,
		"total_fare":     created.TotalFare,
	}).Info("Reservation confirmed")
	return created, nil
}

// GetAvailability reports free seats on a train for a journey date.
// Plain read; the count is not locked and may be stale by the time a
// booking is attempted.
func (s *BookingService) GetAvailability(trainID uuid.UUID, journeyDate string) (*models.AvailabilityResponse, error) {
	train, err := s.trains.GetTrainByID(trainID)
	if err != nil {
		return nil, err
	}

	window, err := s.calendar.ResolveJourneyWindow(train, journeyDate)
	if err != nil {
		return nil, err
	}

	available, err := s.ledger.AvailableSeats(train.ID, train.TotalSeats, window.DayStart, window.DayEnd)
	if err != nil {
		return nil, err
	}

	return &models.AvailabilityResponse{
		TrainID:        train.ID,
		TrainNumber:    train.TrainNumber,
		JourneyDate:    journeyDate,
		DayName:        window.DayName,
		TotalSeats:     train.TotalSeats,
		AvailableSeats: available,
	}, nil
}

// CancelReservation cancels an owned reservation if departure is still
// further away than the configured cutoff. Cancellation refunds the
// payment unconditionally and is itself irreversible.
func (s *BookingService) CancelReservation(userID, reservationID uuid.UUID) (*models.Reservation, error) {
	reservation, err := s.reservations.GetReservationByIDForUser(reservationID, userID)
	if err != nil {
		return nil, err
	}

	if reservation.Status == models.ReservationStatusCancelled {
		return nil, &models.AlreadyCancelledError{ReservationID: reservationID}
	}

	deadline := reservation.JourneyDate.Add(-s.cfg.CancellationCutoff)
	if !s.now().Before(deadline) {
		return nil, &models.CancellationWindowClosedError{
			HoursUntil:  reservation.JourneyDate.Sub(s.now()).Hours(),
			CutoffHours: s.cfg.CancellationCutoff.Hours(),
		}
	}

	if err := s.reservations.MarkCancelled(reservationID, userID); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservationID,
		"user_id":        userID,
		"pnr":            reservation.PNR,
	}).Info("Reservation cancelled")

	return s.reservations.GetReservationByIDForUser(reservationID, userID)
}

// GetReservation loads an owned reservation with its passengers.
func (s *BookingService) GetReservation(userID, reservationID uuid.UUID) (*models.Reservation, error) {
	return s.reservations.GetReservationByIDForUser(reservationID, userID)
}

// ListReservations returns the user's reservations, newest first.
func (s *BookingService) ListReservations(userID uuid.UUID, limit, offset int) ([]models.Reservation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reservations.ListReservationsByUser(userID, limit, offset)
}

// ConfirmPayment records an externally collected payment on a pending
// reservation.
func (s *BookingService) ConfirmPayment(userID, reservationID uuid.UUID, method string) (*models.Reservation, error) {
	if err := s.reservations.UpdatePaymentStatus(reservationID, userID, method); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservationID,
		"user_id":        userID,
		"method":         method,
	}).Info("Payment confirmed")
	return s.reservations.GetReservationByIDForUser(reservationID, userID)
}
