// Package calendar fetches busy intervals from iCalendar (ICS) feeds.
package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"slotpoll/internal/domain"
)

const maxFeedBytes = 10 << 20

type icsSource struct {
	client *http.Client
}

// NewICSSource returns a CalendarSource that reads ICS feeds over HTTP.
func NewICSSource(timeout time.Duration) domain.CalendarSource {
	return &icsSource{
		client: &http.Client{Timeout: timeout},
	}
}

func (s *icsSource) GetBusyIntervals(ctx context.Context, feedURL string, from, to time.Time) ([]domain.BusyInterval, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build feed request: %v", domain.ErrCalendarUnavailable, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch feed: %v", domain.ErrCalendarUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feed returned status %d", domain.ErrCalendarUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read feed: %v", domain.ErrCalendarUnavailable, err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(body)), "BEGIN:VCALENDAR") {
		return nil, fmt.Errorf("%w: response is not an iCalendar feed", domain.ErrCalendarUnavailable)
	}

	return parseBusyIntervals(string(body), from, to)
}

// parseBusyIntervals decodes every VEVENT in the feed and keeps those that
// touch [from, to). Cancelled and all-day events are kept and flagged; the
// conflict checker decides what they block.
func parseBusyIntervals(feed string, from, to time.Time) ([]domain.BusyInterval, error) {
	decoder := ical.NewDecoder(strings.NewReader(feed))
	intervals := []domain.BusyInterval{}
	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: decode feed: %v", domain.ErrCalendarUnavailable, err)
		}
		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			interval, ok := parseEvent(comp)
			if !ok {
				continue
			}
			if !interval.End.After(from) || !interval.Start.Before(to) {
				continue
			}
			intervals = append(intervals, interval)
		}
	}
	return intervals, nil
}

func parseEvent(comp *ical.Component) (domain.BusyInterval, bool) {
	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return domain.BusyInterval{}, false
	}
	start, err := startProp.DateTime(time.UTC)
	if err != nil {
		return domain.BusyInterval{}, false
	}

	interval := domain.BusyInterval{
		Start:  start,
		AllDay: startProp.ValueType() == ical.ValueDate,
	}

	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if end, err := endProp.DateTime(time.UTC); err == nil {
			interval.End = end
		}
	}
	if interval.End.IsZero() {
		if interval.AllDay {
			interval.End = start.AddDate(0, 0, 1)
		} else {
			interval.End = start
		}
	}

	if statusProp := comp.Props.Get(ical.PropStatus); statusProp != nil {
		interval.Cancelled = strings.EqualFold(statusProp.Value, "CANCELLED")
	}
	return interval, true
}
