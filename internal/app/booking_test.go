package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vapi-glue/internal/config"
)

func testApp(t *testing.T, cal CalendarGateway, notifier NotificationGateway) *App {
	t.Helper()
	loc := nyc(t)
	return &App{
		Cfg:      &config.Config{TimeZone: "America/New_York", EscalationSMS: "+18045551234"},
		Calendar: cal,
		Notifier: notifier,
		Location: loc,
		Log:      zap.NewNop(),
		Now: func() time.Time {
			return time.Date(2025, 3, 3, 9, 0, 0, 0, loc)
		},
	}
}

func TestBookCreatesEventWithStructuredDescription(t *testing.T) {
	cal := &fakeCalendar{event: CreatedEvent{ID: "evt-42", MeetLink: "https://meet.google.com/abc-defg-hij"}}
	a := testApp(t, cal, &fakeNotifier{})

	conf, err := a.Book(context.Background(), BookingRequest{
		CallerName:   "Dana Smith",
		CallerPhone:  "+18045550100",
		JobType:      "interior repaint",
		AddressLine1: "12 Main St",
		City:         "Richmond",
		State:        "VA",
		Zip:          "23220",
	})
	require.NoError(t, err)
	require.NotNil(t, conf)

	require.Len(t, cal.created, 1)
	ev := cal.created[0]

	assert.Equal(t, "Virtual Estimate - Dana Smith (interior repaint)", ev.Summary)
	// Field order is load-bearing: downstream reads the description as
	// semi-structured text. Empty optionals stay as empty lines.
	assert.Equal(t,
		"Phone: +18045550100\n"+
			"Email: \n"+
			"Address: 12 Main St, Richmond, VA 23220\n"+
			"Rooms/Areas: \n"+
			"Issues: \n"+
			"Notes: ",
		ev.Description)
	assert.Equal(t, "America/New_York", ev.TimeZone)

	assert.Equal(t, "evt-42", conf.EventID)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", conf.MeetLink)
}

func TestBookRoundTripsWallClock(t *testing.T) {
	loc := nyc(t)
	cal := &fakeCalendar{}
	a := testApp(t, cal, &fakeNotifier{})

	conf, err := a.Book(context.Background(), BookingRequest{CallerName: "A", CallerPhone: "B", JobType: "C"})
	require.NoError(t, err)
	require.NotNil(t, conf)

	start := conf.Start.In(loc)
	assert.Equal(t, 17, start.Hour())
	assert.Equal(t, 30, start.Minute())
	assert.Equal(t, 30*time.Minute, conf.End.Sub(conf.Start))
}

func TestBookNoAvailability(t *testing.T) {
	cal := &fakeCalendar{alwaysBusy: true}
	a := testApp(t, cal, &fakeNotifier{})

	conf, err := a.Book(context.Background(), BookingRequest{CallerName: "A", CallerPhone: "B", JobType: "C"})
	require.NoError(t, err)
	assert.Nil(t, conf)
	assert.Empty(t, cal.created, "no event may be created without a free slot")
}

func TestBookSurfacesCreateEventFailure(t *testing.T) {
	cal := &fakeCalendar{createErr: upstreamf("event insert", errors.New("backend unavailable"))}
	a := testApp(t, cal, &fakeNotifier{})

	conf, err := a.Book(context.Background(), BookingRequest{CallerName: "A", CallerPhone: "B", JobType: "C"})
	require.Error(t, err)
	assert.Nil(t, conf)

	var ue *UpstreamError
	assert.True(t, errors.As(err, &ue))
}

func TestBookEmptyMeetLinkPreserved(t *testing.T) {
	cal := &fakeCalendar{event: CreatedEvent{ID: "evt-7"}}
	a := testApp(t, cal, &fakeNotifier{})

	conf, err := a.Book(context.Background(), BookingRequest{CallerName: "A", CallerPhone: "B", JobType: "C"})
	require.NoError(t, err)
	require.NotNil(t, conf)
	assert.Equal(t, "", conf.MeetLink)
}
