package services

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/railbook/train-reservation-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyTrain(days ...string) *models.Train {
	return &models.Train{
		TrainNumber:     "12951",
		DaysOfOperation: pq.StringArray(days),
	}
}

func TestResolveJourneyWindow_UTCBounds(t *testing.T) {
	cal := NewScheduleCalendar()
	train := dailyTrain("Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat")

	w, err := cal.ResolveJourneyWindow(train, "2026-09-10")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), w.DayStart)
	assert.Equal(t, time.Date(2026, 9, 10, 23, 59, 59, 999000000, time.UTC), w.DayEnd)
	assert.Equal(t, "Thu", w.DayName)
	assert.Equal(t, time.UTC, w.DayStart.Location())
}

func TestResolveJourneyWindow_LeapDay(t *testing.T) {
	cal := NewScheduleCalendar()

	w, err := cal.ResolveWindow("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "Thu", w.DayName)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), w.DayStart)
}

func TestResolveJourneyWindow_YearBoundary(t *testing.T) {
	cal := NewScheduleCalendar()

	w, err := cal.ResolveWindow("2025-12-31")
	require.NoError(t, err)
	assert.Equal(t, "Wed", w.DayName)

	next, err := cal.ResolveWindow("2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, "Thu", next.DayName)
	assert.Equal(t, 24*time.Hour, next.DayStart.Sub(w.DayStart))
}

func TestResolveJourneyWindow_ScheduleGating(t *testing.T) {
	cal := NewScheduleCalendar()
	train := dailyTrain("Mon", "Wed", "Fri")

	// walk two years of dates and check gating agrees with the weekday
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := day.AddDate(2, 0, 0)
	for day.Before(end) {
		dateStr := day.Format("2006-01-02")
		w, err := cal.ResolveJourneyWindow(train, dateStr)
		wantRuns := train.RunsOn(models.WeekdayNames[int(day.Weekday())])

		if wantRuns {
			require.NoError(t, err, "expected %s to be a running day", dateStr)
			assert.Equal(t, models.WeekdayNames[int(day.Weekday())], w.DayName)
		} else {
			require.Error(t, err, "expected %s to be gated", dateStr)
			schedErr, ok := err.(*models.InvalidScheduleError)
			require.True(t, ok, "expected InvalidScheduleError, got %T", err)
			assert.Equal(t, "12951", schedErr.TrainNumber)
		}
		day = day.AddDate(0, 0, 1)
	}
}

func TestResolveJourneyWindow_MalformedDate(t *testing.T) {
	cal := NewScheduleCalendar()
	train := dailyTrain("Mon")

	for _, bad := range []string{"2026-13-01", "10-09-2026", "2026-09-31", "not-a-date", ""} {
		_, err := cal.ResolveJourneyWindow(train, bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}
