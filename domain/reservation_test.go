package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservation_NightsCountsCalendarDays(t *testing.T) {
	at := func(day, hour int) time.Time {
		return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
	}
	tests := []struct {
		name   string
		start  time.Time
		end    time.Time
		nights int
	}{
		{"afternoon check-in, morning check-out", at(10, 14), at(11, 10), 1},
		{"three nights across hours", at(10, 15), at(13, 11), 3},
		{"midnight to midnight", at(10, 0), at(12, 0), 2},
		{"same day", at(10, 9), at(10, 18), 1},
		{"other zone normalized to UTC", time.Date(2026, time.March, 10, 22, 0, 0, 0, time.FixedZone("ART", -3*3600)), at(12, 10), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reservation{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.nights, r.Nights())
		})
	}
}
