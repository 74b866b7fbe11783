package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"vapi-glue/internal/config"
)

const gatewayTimeout = 30 * time.Second

// TimeRange is a busy interval reported by the calendar.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// EventInput is what BookingService asks the calendar to create.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

type CreatedEvent struct {
	ID       string
	MeetLink string
}

// CalendarGateway abstracts the external calendar so the search and booking
// logic can run against scripted fakes in tests.
type CalendarGateway interface {
	// QueryFreeBusy returns the busy intervals on the configured calendar
	// within [start, end). An error means availability is unknown, never
	// "available".
	QueryFreeBusy(ctx context.Context, start, end time.Time) ([]TimeRange, error)

	// CreateEvent inserts the event and requests a Meet link. Not
	// idempotent; callers invoke it at most once per found slot.
	CreateEvent(ctx context.Context, input EventInput) (*CreatedEvent, error)
}

// googleCalendar talks to one calendar as a service account.
type googleCalendar struct {
	svc        *calendar.Service
	calendarID string
}

// NewGoogleCalendar builds the gateway from service-account credentials.
func NewGoogleCalendar(ctx context.Context, cfg *config.Config) (CalendarGateway, error) {
	conf := &jwt.Config{
		Email:      cfg.GoogleSAEmail,
		PrivateKey: []byte(cfg.GoogleSAKey),
		Scopes:     []string{calendar.CalendarScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &googleCalendar{svc: svc, calendarID: cfg.CalendarID}, nil
}

func (g *googleCalendar) QueryFreeBusy(ctx context.Context, start, end time.Time) ([]TimeRange, error) {
	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	req := &calendar.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: g.calendarID}},
	}

	resp, err := g.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, upstreamf("freebusy query", err)
	}

	var busy []TimeRange
	if cal, ok := resp.Calendars[g.calendarID]; ok {
		for _, b := range cal.Busy {
			bs, err := time.Parse(time.RFC3339, b.Start)
			if err != nil {
				return nil, upstreamf("freebusy query", fmt.Errorf("bad busy start %q: %w", b.Start, err))
			}
			be, err := time.Parse(time.RFC3339, b.End)
			if err != nil {
				return nil, upstreamf("freebusy query", fmt.Errorf("bad busy end %q: %w", b.End, err))
			}
			busy = append(busy, TimeRange{Start: bs, End: be})
		}
	}
	return busy, nil
}

func (g *googleCalendar) CreateEvent(ctx context.Context, input EventInput) (*CreatedEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: fmt.Sprintf("rp-%d", time.Now().UnixMilli()),
			},
		},
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstreamf("event insert", err)
	}

	// HangoutLink may legitimately be empty when conferencing is disabled
	// on the provider side; pass it through as is.
	return &CreatedEvent{ID: created.Id, MeetLink: created.HangoutLink}, nil
}
