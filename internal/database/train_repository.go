package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/railbook/train-reservation-backend/internal/models"
)

// TrainRepository handles train directory data. Trains and their routes
// are reference data for the booking engine; only admin endpoints write
// them.
type TrainRepository struct {
	db *sqlx.DB
}

// NewTrainRepository creates a new TrainRepository
func NewTrainRepository(db *sqlx.DB) *TrainRepository {
	return &TrainRepository{db: db}
}

// CreateTrain inserts a train and its ordered route in one transaction
func (r *TrainRepository) CreateTrain(train *models.Train) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return &models.StorageError{Op: "begin create train", Err: err}
	}
	defer tx.Rollback()

	train.ID = uuid.New()
	trainQuery := `
		INSERT INTO trains (id, train_number, name, total_seats, fare_base_rate, days_of_operation)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err = tx.QueryRowx(trainQuery,
		train.ID, train.TrainNumber, train.Name, train.TotalSeats,
		train.FareBaseRate, pq.Array(train.DaysOfOperation),
	).Scan(&train.CreatedAt, &train.UpdatedAt)
	if err != nil {
		return &models.StorageError{Op: "create train", Err: err}
	}

	stopQuery := `
		INSERT INTO train_stops (id, train_id, station_id, stop_order, distance_km, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i := range train.Stops {
		stop := &train.Stops[i]
		stop.ID = uuid.New()
		stop.TrainID = train.ID
		stop.StopOrder = i + 1
		if _, err := tx.Exec(stopQuery,
			stop.ID, stop.TrainID, stop.StationID, stop.StopOrder,
			stop.DistanceKM, stop.DepartureTime, stop.ArrivalTime,
		); err != nil {
			return &models.StorageError{Op: fmt.Sprintf("create stop %d", stop.StopOrder), Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &models.StorageError{Op: "commit create train", Err: err}
	}
	return nil
}

// GetTrainByID retrieves a train together with its ordered route
func (r *TrainRepository) GetTrainByID(id uuid.UUID) (*models.Train, error) {
	train := &models.Train{}
	query := `
		SELECT id, train_number, name, total_seats, fare_base_rate, days_of_operation,
		       created_at, updated_at
		FROM trains WHERE id = $1`

	err := r.db.Get(train, query, id)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "train", ID: id.String()}
	}
	if err != nil {
		return nil, &models.StorageError{Op: "get train", Err: err}
	}

	stops, err := r.getStops(id)
	if err != nil {
		return nil, err
	}
	train.Stops = stops
	return train, nil
}

func (r *TrainRepository) getStops(trainID uuid.UUID) ([]models.TrainStop, error) {
	query := `
		SELECT ts.id, ts.train_id, ts.station_id, s.name AS station_name,
		       ts.stop_order, ts.distance_km, ts.departure_time, ts.arrival_time
		FROM train_stops ts
		JOIN stations s ON s.id = ts.station_id
		WHERE ts.train_id = $1
		ORDER BY ts.stop_order`

	var stops []models.TrainStop
	if err := r.db.Select(&stops, query, trainID); err != nil {
		return nil, &models.StorageError{Op: "get train stops", Err: err}
	}
	return stops, nil
}

// ListTrains retrieves all trains without their routes
func (r *TrainRepository) ListTrains(limit, offset int) ([]models.Train, error) {
	query := `
		SELECT id, train_number, name, total_seats, fare_base_rate, days_of_operation,
		       created_at, updated_at
		FROM trains ORDER BY train_number LIMIT $1 OFFSET $2`

	var trains []models.Train
	if err := r.db.Select(&trains, query, limit, offset); err != nil {
		return nil, &models.StorageError{Op: "list trains", Err: err}
	}
	return trains, nil
}

// SearchTrains finds trains whose route visits the origin before the
// destination. Distance and scheduled times come from the route entries.
func (r *TrainRepository) SearchTrains(fromStationID, toStationID uuid.UUID, limit int) ([]models.TrainSearchResult, error) {
	query := `
		SELECT t.id AS train_id, t.train_number, t.name, t.total_seats,
		       t.fare_base_rate, t.days_of_operation,
		       origin.stop_order AS from_stop_order,
		       dest.stop_order AS to_stop_order,
		       dest.distance_km - origin.distance_km AS distance_km,
		       origin.departure_time, dest.arrival_time
		FROM trains t
		JOIN train_stops origin ON origin.train_id = t.id AND origin.station_id = $1
		JOIN train_stops dest ON dest.train_id = t.id AND dest.station_id = $2
		WHERE origin.stop_order < dest.stop_order
		ORDER BY t.train_number
		LIMIT $3`

	var results []models.TrainSearchResult
	if err := r.db.Select(&results, query, fromStationID, toStationID, limit); err != nil {
		return nil, &models.StorageError{Op: "search trains", Err: err}
	}
	return results, nil
}
