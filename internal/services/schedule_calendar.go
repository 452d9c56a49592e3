package services

import (
	"fmt"
	"time"

	"github.com/railbook/train-reservation-backend/internal/models"
)

// JourneyWindow is the UTC day window a reservation belongs to. All
// capacity accounting groups reservations by this window.
type JourneyWindow struct {
	DayStart time.Time
	DayEnd   time.Time
	DayName  string
}

// ScheduleCalendar resolves journey dates against a train's weekly
// operating pattern. It is pure computation; nothing here touches storage.
type ScheduleCalendar struct{}

// NewScheduleCalendar creates a new schedule calendar
func NewScheduleCalendar() *ScheduleCalendar {
	return &ScheduleCalendar{}
}

// ResolveJourneyWindow parses a YYYY-MM-DD journey date, derives its UTC
// day window and weekday name, and checks the train operates that day.
// Returns InvalidScheduleError when the train does not run on the
// resolved weekday.
func (c *ScheduleCalendar) ResolveJourneyWindow(train *models.Train, journeyDate string) (*JourneyWindow, error) {
	w, err := c.ResolveWindow(journeyDate)
	if err != nil {
		return nil, err
	}
	if !train.RunsOn(w.DayName) {
		return nil, &models.InvalidScheduleError{
			TrainNumber: train.TrainNumber,
			DayName:     w.DayName,
		}
	}
	return w, nil
}

// ResolveWindow derives the UTC day window for a journey date without
// checking any train's operating pattern.
func (c *ScheduleCalendar) ResolveWindow(journeyDate string) (*JourneyWindow, error) {
	parsed, err := time.Parse("2006-01-02", journeyDate)
	if err != nil {
		return nil, fmt.Errorf("invalid journey date %q: %w", journeyDate, err)
	}

	dayStart := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Millisecond)

	return &JourneyWindow{
		DayStart: dayStart,
		DayEnd:   dayEnd,
		DayName:  models.WeekdayNames[int(dayStart.Weekday())],
	}, nil
}
