package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/railbook/train-reservation-backend/internal/models"
)

// ExistsFunc reports whether a candidate reservation code is already
// assigned.
type ExistsFunc func(code string) (bool, error)

// PNRGenerator mints 8-character uppercase reservation codes. Candidates
// are checked against storage and regenerated on collision; the unique
// index on the pnr column is the backstop for the window between check
// and insert.
type PNRGenerator struct {
	maxAttempts int
}

// NewPNRGenerator creates a new PNR generator with the given retry limit
func NewPNRGenerator(maxAttempts int) *PNRGenerator {
	return &PNRGenerator{maxAttempts: maxAttempts}
}

// GenerateUniqueCode produces a reservation code not currently in use.
// Returns CodeGenerationExhaustedError after maxAttempts collisions.
func (g *PNRGenerator) GenerateUniqueCode(exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code, err := g.randomCode()
		if err != nil {
			return "", err
		}
		taken, err := exists(code)
		if err != nil {
			return "", fmt.Errorf("checking reservation code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", &models.CodeGenerationExhaustedError{Attempts: g.maxAttempts}
}

func (g *PNRGenerator) randomCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
