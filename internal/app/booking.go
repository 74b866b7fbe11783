package app

import (
	"context"
	"fmt"
	"strings"
)

// Book finds the earliest open slot and claims it with a calendar event.
// A nil confirmation with nil error means no availability inside the search
// horizon — a normal outcome, not a fault. There is no compensation if the
// event insert fails after the search; the caller retries the whole tool
// call and the search runs again from scratch.
func (a *App) Book(ctx context.Context, req BookingRequest) (*BookingConfirmation, error) {
	slot, err := FindNextSlot(ctx, a.Calendar, a.now(), a.Location)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, nil
	}

	summary := fmt.Sprintf("Virtual Estimate - %s (%s)", req.CallerName, req.JobType)

	// Field order is fixed; downstream consumers read the description as
	// semi-structured text. Empty fields render as empty, never dropped.
	description := strings.Join([]string{
		"Phone: " + req.CallerPhone,
		"Email: " + req.CallerEmail,
		fmt.Sprintf("Address: %s, %s, %s %s", req.AddressLine1, req.City, req.State, req.Zip),
		"Rooms/Areas: " + req.RoomsOrAreas,
		"Issues: " + req.Issues,
		"Notes: " + req.Notes,
	}, "\n")

	created, err := a.Calendar.CreateEvent(ctx, EventInput{
		Summary:     summary,
		Description: description,
		Start:       slot.Start,
		End:         slot.End,
		TimeZone:    a.Location.String(),
	})
	if err != nil {
		return nil, err
	}

	return &BookingConfirmation{
		EventID:  created.ID,
		Start:    slot.Start,
		End:      slot.End,
		MeetLink: created.MeetLink,
	}, nil
}
