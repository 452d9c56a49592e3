package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Station represents a stop on the rail network. Stations are reference
// data: read-only to the booking engine, editable only via admin endpoints.
type Station struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Latitude  *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64  `json:"longitude,omitempty" db:"longitude"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateStationRequest represents the admin request to register a station
type CreateStationRequest struct {
	Code      string   `json:"code" binding:"required"`
	Name      string   `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Validate validates the create station request
func (r *CreateStationRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return errors.New("code is required")
	}
	if len(r.Code) > 10 {
		return errors.New("code must be at most 10 characters")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}
