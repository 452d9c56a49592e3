package services

import (
	"regexp"
	"testing"

	"github.com/railbook/train-reservation-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func TestGenerateUniqueCode_Format(t *testing.T) {
	gen := NewPNRGenerator(10)
	neverExists := func(string) (bool, error) { return false, nil }

	for i := 0; i < 1000; i++ {
		code, err := gen.GenerateUniqueCode(neverExists)
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
	}
}

func TestGenerateUniqueCode_UniqueAgainstStore(t *testing.T) {
	gen := NewPNRGenerator(10)
	seen := make(map[string]bool)
	exists := func(code string) (bool, error) { return seen[code], nil }

	for i := 0; i < 100000; i++ {
		code, err := gen.GenerateUniqueCode(exists)
		require.NoError(t, err)
		require.False(t, seen[code], "generator returned a code the store already holds")
		seen[code] = true
	}
	assert.Len(t, seen, 100000)
}

func TestGenerateUniqueCode_RetriesSeededCollisions(t *testing.T) {
	gen := NewPNRGenerator(10)

	// first three candidates report taken, fourth succeeds
	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return calls <= 3, nil
	}

	code, err := gen.GenerateUniqueCode(exists)
	require.NoError(t, err)
	assert.Regexp(t, codePattern, code)
	assert.Equal(t, 4, calls)
}

func TestGenerateUniqueCode_Exhaustion(t *testing.T) {
	gen := NewPNRGenerator(10)
	allTaken := func(string) (bool, error) { return true, nil }

	_, err := gen.GenerateUniqueCode(allTaken)
	require.Error(t, err)

	exhausted, ok := err.(*models.CodeGenerationExhaustedError)
	require.True(t, ok, "expected CodeGenerationExhaustedError, got %T", err)
	assert.Equal(t, 10, exhausted.Attempts)
}

func TestGenerateUniqueCode_ExistsFailurePropagates(t *testing.T) {
	gen := NewPNRGenerator(10)
	failing := func(string) (bool, error) {
		return false, assert.AnError
	}

	_, err := gen.GenerateUniqueCode(failing)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
