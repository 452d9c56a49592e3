package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railbook/train-reservation-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*ReservationRepository, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewReservationRepository(db), mock
}

func sampleReservation(passengers int) *models.Reservation {
	res := &models.Reservation{
		PNR:           "A3F9C218",
		UserID:        uuid.New(),
		TrainID:       uuid.New(),
		JourneyDate:   time.Date(2026, 9, 10, 6, 30, 0, 0, time.UTC),
		FromStationID: uuid.New(),
		ToStationID:   uuid.New(),
		TotalFare:     1250.0,
		Status:        models.ReservationStatusConfirmed,
		PaymentStatus: models.PaymentStatusPending,
	}
	for i := 0; i < passengers; i++ {
		res.Passengers = append(res.Passengers, models.Passenger{
			Name:   "Passenger",
			Age:    30 + i,
			Gender: "male",
		})
	}
	return res
}

func TestCreateReservation_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := sampleReservation(2)
	dayStart := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT total_seats FROM trains WHERE id = \$1 FOR UPDATE`).
		WithArgs(res.TrainID).
		WillReturnRows(sqlmock.NewRows([]string{"total_seats"}).AddRow(100))
	mock.ExpectQuery(`SELECT COUNT\(p\.id\)`).
		WithArgs(res.TrainID, dayStart, dayEnd).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(40))
	mock.ExpectQuery(`INSERT INTO reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))
	mock.ExpectExec(`INSERT INTO passengers`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO passengers`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_reservations`).
		WithArgs(res.UserID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.CreateReservation(res, dayStart, dayEnd, "A")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	// seats continue from the committed count
	require.NotNil(t, created.Passengers[0].SeatNumber)
	assert.Equal(t, 41, *created.Passengers[0].SeatNumber)
	assert.Equal(t, 42, *created.Passengers[1].SeatNumber)
	assert.Equal(t, "A41", created.Passengers[0].SeatLabel())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservation_CapacityExceeded(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := sampleReservation(3)
	dayStart := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT total_seats FROM trains WHERE id = \$1 FOR UPDATE`).
		WithArgs(res.TrainID).
		WillReturnRows(sqlmock.NewRows([]string{"total_seats"}).AddRow(100))
	mock.ExpectQuery(`SELECT COUNT\(p\.id\)`).
		WithArgs(res.TrainID, dayStart, dayEnd).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(98))
	mock.ExpectRollback()

	_, err := repo.CreateReservation(res, dayStart, dayEnd, "A")
	require.Error(t, err)

	capErr, ok := err.(*models.CapacityExceededError)
	require.True(t, ok, "expected CapacityExceededError, got %T", err)
	assert.Equal(t, 3, capErr.Requested)
	assert.Equal(t, 2, capErr.Available)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservation_ExactFit(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := sampleReservation(2)
	dayStart := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT total_seats FROM trains WHERE id = \$1 FOR UPDATE`).
		WithArgs(res.TrainID).
		WillReturnRows(sqlmock.NewRows([]string{"total_seats"}).AddRow(100))
	mock.ExpectQuery(`SELECT COUNT\(p\.id\)`).
		WithArgs(res.TrainID, dayStart, dayEnd).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(98))
	mock.ExpectQuery(`INSERT INTO reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))
	mock.ExpectExec(`INSERT INTO passengers`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO passengers`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_reservations`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.CreateReservation(res, dayStart, dayEnd, "A")
	require.NoError(t, err)
	assert.Equal(t, 100, *created.Passengers[1].SeatNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservation_TrainNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := sampleReservation(1)
	dayStart := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT total_seats FROM trains WHERE id = \$1 FOR UPDATE`).
		WithArgs(res.TrainID).
		WillReturnRows(sqlmock.NewRows([]string{"total_seats"}))
	mock.ExpectRollback()

	_, err := repo.CreateReservation(res, dayStart, dayEnd, "A")
	require.Error(t, err)

	_, ok := err.(*models.NotFoundError)
	assert.True(t, ok, "expected NotFoundError, got %T", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCancelled_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	reservationID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE reservations`).
		WithArgs(reservationID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE passengers SET status = 'cancelled'`).
		WithArgs(reservationID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.MarkCancelled(reservationID, userID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCancelled_AlreadyCancelled(t *testing.T) {
	repo, mock := newMockRepo(t)
	reservationID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE reservations`).
		WithArgs(reservationID, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.MarkCancelled(reservationID, userID)
	require.Error(t, err)

	_, ok := err.(*models.AlreadyCancelledError)
	assert.True(t, ok, "expected AlreadyCancelledError, got %T", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCancelled_PassengerUpdateFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	reservationID := uuid.New()
	userID := uuid.New()

	// the passenger update fails after the reservation update succeeded;
	// the whole cancel must roll back rather than half-apply
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE reservations`).
		WithArgs(reservationID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE passengers SET status = 'cancelled'`).
		WithArgs(reservationID).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.MarkCancelled(reservationID, userID)
	require.Error(t, err)

	var storageErr *models.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPNRExists(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations WHERE pnr = \$1`).
		WithArgs("A3F9C218").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.PNRExists("A3F9C218")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
