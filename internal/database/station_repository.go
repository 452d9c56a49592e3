package database

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railbook/train-reservation-backend/internal/models"
)

// StationRepository handles station reference data
type StationRepository struct {
	db *sqlx.DB
}

// NewStationRepository creates a new StationRepository
func NewStationRepository(db *sqlx.DB) *StationRepository {
	return &StationRepository{db: db}
}

// CreateStation registers a new station
func (r *StationRepository) CreateStation(station *models.Station) error {
	query := `
		INSERT INTO stations (id, code, name, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	station.ID = uuid.New()
	err := r.db.QueryRowx(query,
		station.ID, station.Code, station.Name, station.Latitude, station.Longitude,
	).Scan(&station.CreatedAt, &station.UpdatedAt)
	if err != nil {
		return &models.StorageError{Op: "create station", Err: err}
	}
	return nil
}

// GetStationByID retrieves a station by ID
func (r *StationRepository) GetStationByID(id uuid.UUID) (*models.Station, error) {
	station := &models.Station{}
	query := `
		SELECT id, code, name, latitude, longitude, created_at, updated_at
		FROM stations WHERE id = $1`

	err := r.db.Get(station, query, id)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "station", ID: id.String()}
	}
	if err != nil {
		return nil, &models.StorageError{Op: "get station", Err: err}
	}
	return station, nil
}

// GetStationByCode retrieves a station by its short code
func (r *StationRepository) GetStationByCode(code string) (*models.Station, error) {
	station := &models.Station{}
	query := `
		SELECT id, code, name, latitude, longitude, created_at, updated_at
		FROM stations WHERE code = $1`

	err := r.db.Get(station, query, code)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "station", ID: code}
	}
	if err != nil {
		return nil, &models.StorageError{Op: "get station", Err: err}
	}
	return station, nil
}

// ListStations retrieves all stations ordered by name
func (r *StationRepository) ListStations(limit, offset int) ([]models.Station, error) {
	query := `
		SELECT id, code, name, latitude, longitude, created_at, updated_at
		FROM stations ORDER BY name LIMIT $1 OFFSET $2`

	var stations []models.Station
	err := r.db.Select(&stations, query, limit, offset)
	if err != nil {
		return nil, &models.StorageError{Op: "list stations", Err: err}
	}
	return stations, nil
}
