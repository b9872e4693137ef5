package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		endDate   string
		startHour int
		endHour   int
		want      []string
	}{
		{
			name:      "two days two hours",
			startDate: "2024-01-01",
			endDate:   "2024-01-02",
			startHour: 9,
			endHour:   11,
			want: []string{
				"2024-01-01-09:00",
				"2024-01-01-10:00",
				"2024-01-02-09:00",
				"2024-01-02-10:00",
			},
		},
		{
			name:      "single day single hour",
			startDate: "2024-03-15",
			endDate:   "2024-03-15",
			startHour: 14,
			endHour:   15,
			want:      []string{"2024-03-15-14:00"},
		},
		{
			name:      "hours are zero padded",
			startDate: "2024-06-01",
			endDate:   "2024-06-01",
			startHour: 8,
			endHour:   10,
			want:      []string{"2024-06-01-08:00", "2024-06-01-09:00"},
		},
		{
			name:      "crosses month boundary",
			startDate: "2024-01-31",
			endDate:   "2024-02-01",
			startHour: 10,
			endHour:   11,
			want:      []string{"2024-01-31-10:00", "2024-02-01-10:00"},
		},
		{
			name:      "leap day included",
			startDate: "2024-02-28",
			endDate:   "2024-03-01",
			startHour: 9,
			endHour:   10,
			want:      []string{"2024-02-28-09:00", "2024-02-29-09:00", "2024-03-01-09:00"},
		},
		{
			name:      "inverted dates yield empty",
			startDate: "2024-01-02",
			endDate:   "2024-01-01",
			startHour: 9,
			endHour:   11,
			want:      []string{},
		},
		{
			name:      "equal hours yield empty",
			startDate: "2024-01-01",
			endDate:   "2024-01-02",
			startHour: 9,
			endHour:   9,
			want:      []string{},
		},
		{
			name:      "inverted hours yield empty",
			startDate: "2024-01-01",
			endDate:   "2024-01-02",
			startHour: 17,
			endHour:   9,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(date(tt.startDate), date(tt.endDate), tt.startHour, tt.endHour)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate_CountProperty(t *testing.T) {
	// len == days * (endHour - startHour) for every valid window.
	windows := []struct {
		start, end         string
		startHour, endHour int
	}{
		{"2024-01-01", "2024-01-01", 0, 24},
		{"2024-01-01", "2024-01-07", 9, 18},
		{"2024-11-30", "2024-12-02", 22, 23},
	}
	for _, w := range windows {
		days := int(date(w.end).Sub(date(w.start)).Hours()/24) + 1
		got := Generate(date(w.start), date(w.end), w.startHour, w.endHour)
		assert.Len(t, got, days*(w.endHour-w.startHour))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first := Generate(date("2024-05-01"), date("2024-05-03"), 9, 17)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Generate(date("2024-05-01"), date("2024-05-03"), 9, 17))
	}
}

func TestSlotStart(t *testing.T) {
	got, err := SlotStart("2024-01-02-09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), got)

	_, err = SlotStart("not-a-slot")
	require.Error(t, err)
}
