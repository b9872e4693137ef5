// Package timeslot holds the pure scheduling core: candidate slot
// generation, busy-interval conflict resolution, response aggregation, and
// recommendation ranking. Nothing in this package performs I/O.
package timeslot

import (
	"fmt"
	"time"

	"slotpoll/internal/domain"
)

// DateLayout is the calendar-date half of a slot ID.
const DateLayout = "2006-01-02"

// slotIDLayout parses a full slot ID, e.g. "2024-01-01-09:00".
const slotIDLayout = "2006-01-02-15:04"

// Generate enumerates candidate slot IDs for the window: for every calendar
// date in [startDate, endDate], for every hour in [startHour, endHour), one
// ID of the form "{date}-{HH}:00", in date-then-time order. An inverted or
// degenerate window yields an empty result rather than an error; callers
// that want strict validation reject such windows before calling.
//
// Dates are treated as plain calendar dates, not instants, so the
// enumeration is immune to daylight-saving shifts.
func Generate(startDate, endDate time.Time, startHour, endHour int) []string {
	if endDate.Before(startDate) || startHour >= endHour {
		return []string{}
	}
	days := int(endDate.Sub(startDate).Hours()/24) + 1
	slots := make([]string, 0, days*(endHour-startHour))
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		date := d.Format(DateLayout)
		for hour := startHour; hour < endHour; hour++ {
			slots = append(slots, fmt.Sprintf("%s-%02d:00", date, hour))
		}
	}
	return slots
}

// GenerateForEvent enumerates the event's candidate slots from its stored
// window. The window dates must be valid "2006-01-02" strings.
func GenerateForEvent(e *domain.Event) ([]string, error) {
	start, err := time.ParseInLocation(DateLayout, e.StartDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q", domain.ErrValidation, e.StartDate)
	}
	end, err := time.ParseInLocation(DateLayout, e.EndDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: end date %q", domain.ErrValidation, e.EndDate)
	}
	return Generate(start, end, e.StartHour, e.EndHour), nil
}

// SlotStart parses a slot ID back into the slot's starting instant.
// Slot IDs must only ever be produced by Generate; any other string is an
// error, never a guess.
func SlotStart(slotID string) (time.Time, error) {
	t, err := time.ParseInLocation(slotIDLayout, slotID, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: slot id %q", domain.ErrValidation, slotID)
	}
	return t, nil
}
