package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railbook/train-reservation-backend/internal/models"
)

// ReservationRepository owns all reservation state. CreateReservation is
// the single write path for new reservations and runs the capacity check
// and every insert inside one transaction, serialized per train by a row
// lock, so concurrent bookings can never both consume the last seat.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// PNRExists reports whether a reservation code is already taken. Backed by
// a unique index on reservations.pnr as the last line of defence.
func (r *ReservationRepository) PNRExists(pnr string) (bool, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM reservations WHERE pnr = $1`, pnr)
	if err != nil {
		return false, &models.StorageError{Op: "check pnr", Err: err}
	}
	return count > 0, nil
}

// CountCommittedPassengers returns the number of passenger entries across
// confirmed/rac reservations for the train within the journey day window.
// This is the uncached availability read; the transactional variant below
// is what the booking path uses.
func (r *ReservationRepository) CountCommittedPassengers(trainID uuid.UUID, dayStart, dayEnd time.Time) (int, error) {
	var count int
	err := r.db.Get(&count, committedCountQuery, trainID, dayStart, dayEnd)
	if err != nil {
		return 0, &models.StorageError{Op: "count committed passengers", Err: err}
	}
	return count, nil
}

const committedCountQuery = `
	SELECT COUNT(p.id)
	FROM passengers p
	JOIN reservations res ON res.id = p.reservation_id
	WHERE res.train_id = $1
	  AND res.journey_date BETWEEN $2 AND $3
	  AND res.status IN ('confirmed', 'rac')`

// CreateReservation persists a reservation, its passengers and the owning
// user's back-reference in one transaction.
//
// The train row is locked FOR UPDATE before the committed-passenger count
// is read, which makes the count-then-insert sequence serializable per
// train: a concurrent booking for the same train blocks on the lock and
// re-reads the count after this transaction commits. Capacity overflow
// aborts the whole transaction with CapacityExceededError.
//
// Seats are assigned sequentially from the committed count (committed+1,
// committed+2, ...) in the supplied coach, matching the sequential-fill
// allocation policy. The reservation struct carries the PNR and fare
// computed by the orchestrator.
func (r *ReservationRepository) CreateReservation(
	res *models.Reservation,
	dayStart, dayEnd time.Time,
	coachLabel string,
) (*models.Reservation, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, &models.StorageError{Op: "begin booking transaction", Err: err}
	}
	defer tx.Rollback()

	// Serialization point: lock the train row for the duration of the
	// count-then-insert sequence.
	var totalSeats int
	err = tx.Get(&totalSeats, `SELECT total_seats FROM trains WHERE id = $1 FOR UPDATE`, res.TrainID)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "train", ID: res.TrainID.String()}
	}
	if err != nil {
		return nil, &models.StorageError{Op: "lock train row", Err: err}
	}

	var committed int
	if err := tx.Get(&committed, committedCountQuery, res.TrainID, dayStart, dayEnd); err != nil {
		return nil, &models.StorageError{Op: "count committed passengers", Err: err}
	}

	available := totalSeats - committed
	if len(res.Passengers) > available {
		return nil, &models.CapacityExceededError{
			TrainID:   res.TrainID,
			Requested: len(res.Passengers),
			Available: available,
		}
	}

	res.ID = uuid.New()
	reservationQuery := `
		INSERT INTO reservations (
			id, pnr, user_id, train_id, journey_date,
			from_station_id, to_station_id, total_fare,
			status, payment_status, payment_method, booking_source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	err = tx.QueryRowx(reservationQuery,
		res.ID, res.PNR, res.UserID, res.TrainID, res.JourneyDate,
		res.FromStationID, res.ToStationID, res.TotalFare,
		res.Status, res.PaymentStatus, res.PaymentMethod, res.BookingSource,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, &models.StorageError{Op: "insert reservation", Err: err}
	}

	passengerQuery := `
		INSERT INTO passengers (
			id, reservation_id, name, age, gender,
			berth_preference, seat_number, coach, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for i := range res.Passengers {
		p := &res.Passengers[i]
		p.ID = uuid.New()
		p.ReservationID = res.ID
		seat := committed + i + 1
		p.SeatNumber = &seat
		coach := coachLabel
		p.Coach = &coach
		p.Status = models.PassengerStatusConfirmed

		if _, err := tx.Exec(passengerQuery,
			p.ID, p.ReservationID, p.Name, p.Age, p.Gender,
			p.BerthPreference, p.SeatNumber, p.Coach, p.Status,
		); err != nil {
			return nil, &models.StorageError{Op: fmt.Sprintf("insert passenger %d", i+1), Err: err}
		}
	}

	// The appended back-reference on the owning user, written atomically
	// with the reservation so it can never be orphaned.
	_, err = tx.Exec(
		`INSERT INTO user_reservations (user_id, reservation_id) VALUES ($1, $2)`,
		res.UserID, res.ID,
	)
	if err != nil {
		return nil, &models.StorageError{Op: "append user reservation", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &models.StorageError{Op: "commit booking transaction", Err: err}
	}
	return res, nil
}

// GetReservationByIDForUser loads a reservation with its passengers,
// scoped to the owning user. A reservation owned by another user is
// indistinguishable from a missing one.
func (r *ReservationRepository) GetReservationByIDForUser(reservationID, userID uuid.UUID) (*models.Reservation, error) {
	res := &models.Reservation{}
	query := `
		SELECT id, pnr, user_id, train_id, journey_date,
		       from_station_id, to_station_id, total_fare,
		       status, payment_status, payment_method, booking_source,
		       cancelled_at, created_at, updated_at
		FROM reservations WHERE id = $1 AND user_id = $2`

	err := r.db.Get(res, query, reservationID, userID)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "reservation", ID: reservationID.String()}
	}
	if err != nil {
		return nil, &models.StorageError{Op: "get reservation", Err: err}
	}

	passengers, err := r.getPassengers(reservationID)
	if err != nil {
		return nil, err
	}
	res.Passengers = passengers
	return res, nil
}

func (r *ReservationRepository) getPassengers(reservationID uuid.UUID) ([]models.Passenger, error) {
	query := `
		SELECT id, reservation_id, name, age, gender,
		       berth_preference, seat_number, coach, status
		FROM passengers
		WHERE reservation_id = $1
		ORDER BY seat_number`

	var passengers []models.Passenger
	if err := r.db.Select(&passengers, query, reservationID); err != nil {
		return nil, &models.StorageError{Op: "get passengers", Err: err}
	}
	return passengers, nil
}

// ListReservationsByUser retrieves a user's reservations, newest first
func (r *ReservationRepository) ListReservationsByUser(userID uuid.UUID, limit, offset int) ([]models.Reservation, error) {
	query := `
		SELECT id, pnr, user_id, train_id, journey_date,
		       from_station_id, to_station_id, total_fare,
		       status, payment_status, payment_method, booking_source,
		       cancelled_at, created_at, updated_at
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var reservations []models.Reservation
	if err := r.db.Select(&reservations, query, userID, limit, offset); err != nil {
		return nil, &models.StorageError{Op: "list reservations", Err: err}
	}
	return reservations, nil
}

// MarkCancelled flips a reservation to cancelled with an unconditional
// refund. The reservation and passenger updates run in one transaction so
// a cancel is never half-applied. The status guard in the WHERE clause
// makes concurrent cancels race-safe: the loser sees zero rows affected
// and reports AlreadyCancelledError.
func (r *ReservationRepository) MarkCancelled(reservationID, userID uuid.UUID) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return &models.StorageError{Op: "begin cancel transaction", Err: err}
	}
	defer tx.Rollback()

	query := `
		UPDATE reservations
		SET status = 'cancelled',
		    payment_status = 'refunded',
		    cancelled_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status != 'cancelled'`

	result, err := tx.Exec(query, reservationID, userID)
	if err != nil {
		return &models.StorageError{Op: "cancel reservation", Err: err}
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: "cancel reservation", Err: err}
	}
	if rows == 0 {
		return &models.AlreadyCancelledError{ReservationID: reservationID}
	}

	_, err = tx.Exec(
		`UPDATE passengers SET status = 'cancelled' WHERE reservation_id = $1`,
		reservationID,
	)
	if err != nil {
		return &models.StorageError{Op: "cancel passengers", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &models.StorageError{Op: "commit cancel transaction", Err: err}
	}
	return nil
}

// UpdatePaymentStatus records a successful payment from the external
// payment collaborator. Only pending reservations transition.
func (r *ReservationRepository) UpdatePaymentStatus(reservationID, userID uuid.UUID, method string) error {
	query := `
		UPDATE reservations
		SET payment_status = 'paid',
		    payment_method = $1,
		    updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND payment_status = 'pending'`

	result, err := r.db.Exec(query, method, reservationID, userID)
	if err != nil {
		return &models.StorageError{Op: "update payment status", Err: err}
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: "update payment status", Err: err}
	}
	if rows == 0 {
		return &models.NotFoundError{Resource: "pending reservation", ID: reservationID.String()}
	}
	return nil
}
