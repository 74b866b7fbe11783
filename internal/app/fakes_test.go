package app

import (
	"context"
	"errors"
	"time"
)

// fakeCalendar scripts free/busy answers and records every call so tests can
// assert on query windows and event inputs.
type fakeCalendar struct {
	busy       []TimeRange // intervals reported busy when they overlap a query
	alwaysBusy bool
	failOn     int // 1-based query index that fails; 0 = never
	failErr    error

	queries []TimeRange

	created   []EventInput
	createErr error
	event     CreatedEvent
}

func (f *fakeCalendar) QueryFreeBusy(ctx context.Context, start, end time.Time) ([]TimeRange, error) {
	f.queries = append(f.queries, TimeRange{Start: start, End: end})
	if f.failOn != 0 && len(f.queries) == f.failOn {
		err := f.failErr
		if err == nil {
			err = errors.New("connection refused")
		}
		return nil, upstreamf("freebusy query", err)
	}
	if f.alwaysBusy {
		return []TimeRange{{Start: start, End: end}}, nil
	}
	var out []TimeRange
	for _, b := range f.busy {
		if b.Start.Before(end) && start.Before(b.End) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, input EventInput) (*CreatedEvent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	ev := f.event
	if ev.ID == "" {
		ev.ID = "evt-1"
	}
	return &ev, nil
}

type sentSMS struct {
	to      string
	message string
}

type fakeNotifier struct {
	sent []sentSMS
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, to, message string) error {
	f.sent = append(f.sent, sentSMS{to: to, message: message})
	return f.err
}
