package timeslot

import (
	"time"

	"slotpoll/internal/domain"
)

// Available reports whether the slot is free of the given busy intervals.
// The tested interval is [slotStart, slotStart+duration), using the real
// meeting length, which may extend past the slot's one-hour bucket. Cancelled
// intervals never conflict; all-day intervals cover [date 00:00, date+1
// 00:00). The overlap test is half-open on both sides, so an interval that
// exactly abuts the meeting does not conflict.
func Available(slotID string, durationMinutes int, busy []domain.BusyInterval) (bool, error) {
	slotStart, err := SlotStart(slotID)
	if err != nil {
		return false, err
	}
	slotEnd := slotStart.Add(time.Duration(durationMinutes) * time.Minute)
	for _, b := range busy {
		if b.Cancelled {
			continue
		}
		busyStart, busyEnd := b.Start, b.End
		if b.AllDay {
			day := time.Date(b.Start.Year(), b.Start.Month(), b.Start.Day(), 0, 0, 0, 0, time.UTC)
			busyStart = day
			busyEnd = day.AddDate(0, 0, 1)
		}
		if slotStart.Before(busyEnd) && slotEnd.After(busyStart) {
			return false, nil
		}
	}
	return true, nil
}

// Resolve maps every slot to its availability against the busy intervals.
func Resolve(slotIDs []string, durationMinutes int, busy []domain.BusyInterval) (map[string]bool, error) {
	out := make(map[string]bool, len(slotIDs))
	for _, id := range slotIDs {
		ok, err := Available(id, durationMinutes, busy)
		if err != nil {
			return nil, err
		}
		out[id] = ok
	}
	return out, nil
}

// AllUnavailable marks every slot unavailable. Used to fail closed when
// the busy-interval source could not be reached.
func AllUnavailable(slotIDs []string) map[string]bool {
	out := make(map[string]bool, len(slotIDs))
	for _, id := range slotIDs {
		out[id] = false
	}
	return out
}
