package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railbook/train-reservation-backend/internal/database"
	"github.com/railbook/train-reservation-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchService(t *testing.T) (*SearchService, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := NewSearchService(
		database.NewTrainRepository(db),
		database.NewReservationRepository(db),
		logger,
	)
	return svc, mock
}

func searchResultColumns() []string {
	return []string{
		"train_id", "train_number", "name", "total_seats",
		"fare_base_rate", "days_of_operation",
		"from_stop_order", "to_stop_order", "distance_km",
		"departure_time", "arrival_time",
	}
}

func TestSearchTrains_ComputesFarePerSeat(t *testing.T) {
	svc, mock := newSearchService(t)
	fromID, toID := uuid.New(), uuid.New()
	trainID := uuid.New()

	mock.ExpectQuery(`JOIN train_stops origin`).
		WithArgs(fromID, toID, 20).
		WillReturnRows(sqlmock.NewRows(searchResultColumns()).
			AddRow(trainID, "12951", "Rajdhani Express", 100, 50.0,
				"{Mon,Wed,Fri}", 1, 3, 370.0, "06:30", "12:45"))

	resp, err := svc.SearchTrains(&models.SearchTrainsRequest{
		FromStationID: fromID,
		ToStationID:   toID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	// 370 km at 50/100km, rounded up
	assert.Equal(t, 185.0, resp.Results[0].FarePerSeat)
	// no date given: no availability or schedule gating in the result
	assert.Nil(t, resp.Results[0].AvailableSeats)
	assert.Nil(t, resp.Results[0].RunsOnDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchTrains_WithDateAddsAvailability(t *testing.T) {
	svc, mock := newSearchService(t)
	fromID, toID := uuid.New(), uuid.New()
	runningID, gatedID := uuid.New(), uuid.New()

	// 2026-09-11 is a Friday
	dayStart := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Millisecond)

	mock.ExpectQuery(`JOIN train_stops origin`).
		WithArgs(fromID, toID, 20).
		WillReturnRows(sqlmock.NewRows(searchResultColumns()).
			AddRow(runningID, "12951", "Rajdhani Express", 100, 50.0,
				"{Mon,Wed,Fri}", 1, 3, 370.0, "06:30", "12:45").
			AddRow(gatedID, "12009", "Shatabdi Express", 80, 64.0,
				"{Tue,Thu}", 1, 2, 200.0, "08:00", "10:30"))

	// committed count is only read for the train that runs on Friday
	mock.ExpectQuery(`SELECT COUNT\(p\.id\)`).
		WithArgs(runningID, dayStart, dayEnd).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(60))

	resp, err := svc.SearchTrains(&models.SearchTrainsRequest{
		FromStationID: fromID,
		ToStationID:   toID,
		Date:          "2026-09-11",
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	running := resp.Results[0]
	require.NotNil(t, running.RunsOnDate)
	assert.True(t, *running.RunsOnDate)
	require.NotNil(t, running.AvailableSeats)
	assert.Equal(t, 40, *running.AvailableSeats)

	gated := resp.Results[1]
	require.NotNil(t, gated.RunsOnDate)
	assert.False(t, *gated.RunsOnDate)
	assert.Nil(t, gated.AvailableSeats)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchTrains_MalformedDate(t *testing.T) {
	svc, mock := newSearchService(t)
	fromID, toID := uuid.New(), uuid.New()

	mock.ExpectQuery(`JOIN train_stops origin`).
		WithArgs(fromID, toID, 20).
		WillReturnRows(sqlmock.NewRows(searchResultColumns()))

	_, err := svc.SearchTrains(&models.SearchTrainsRequest{
		FromStationID: fromID,
		ToStationID:   toID,
		Date:          "next friday",
	})
	assert.Error(t, err)
}
