package app

import (
	"context"
	"fmt"
	"time"
)

// Weekly slot template: 30-minute evening slots, Monday through Thursday.
// The 15-minute buffer on each side keeps travel/setup margin around
// adjacent appointments without appearing in the booked event.
var slotStarts = []string{"17:30", "18:00", "18:30", "19:00"}

const (
	slotLength = 30 * time.Minute
	slotBuffer = 15 * time.Minute
	searchDays = 21
)

func slotWeekday(d time.Weekday) bool {
	return d >= time.Monday && d <= time.Thursday
}

// FindNextSlot walks the next searchDays calendar days in loc, earliest
// first, and returns the first template slot whose buffer-expanded window has
// no busy intervals. A nil slot with nil error means the whole horizon is
// booked. A free/busy failure aborts the search; absence of conflicts is
// never inferred from an error.
func FindNextSlot(ctx context.Context, cal CalendarGateway, now time.Time, loc *time.Location) (*Slot, error) {
	now = now.In(loc)

	for d := 0; d < searchDays; d++ {
		day := now.AddDate(0, 0, d)
		if !slotWeekday(day.Weekday()) {
			continue
		}
		for _, hm := range slotStarts {
			tod, err := parseHHMM(hm)
			if err != nil {
				return nil, err
			}
			start := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, loc)
			end := start.Add(slotLength)

			busy, err := cal.QueryFreeBusy(ctx, start.Add(-slotBuffer), end.Add(slotBuffer))
			if err != nil {
				return nil, err
			}
			if len(busy) == 0 {
				return &Slot{Start: start, End: end}, nil
			}
		}
	}
	return nil, nil
}

func parseHHMM(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("invalid time string: %s", s)
	}
	tt, err := time.Parse("15:04", s[:5])
	if err != nil {
		return time.Time{}, err
	}
	return tt, nil
}
