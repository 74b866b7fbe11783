package app

import (
	"encoding/json"
	"time"
)

// ToolInvocation is the envelope Vapi posts to /vapi-tool. Arguments are kept
// raw and decoded per tool.
type ToolInvocation struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

type ServiceAreaArgs struct {
	Zip string `json:"zip"`
}

// BookingRequest carries the caller-supplied fields for a virtual estimate.
// Everything is a free-form string; only presence of the required fields is
// checked.
type BookingRequest struct {
	CallerName   string `json:"caller_name"`
	CallerPhone  string `json:"caller_phone"`
	CallerEmail  string `json:"caller_email,omitempty"`
	JobType      string `json:"job_type"`
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	RoomsOrAreas string `json:"rooms_or_areas,omitempty"`
	Issues       string `json:"issues,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type PhotoLinkArgs struct {
	ToNumber string `json:"to_number"`
	FormURL  string `json:"form_url"`
}

type EscalateArgs struct {
	CallerName     string `json:"caller_name"`
	CallerPhone    string `json:"caller_phone"`
	CallbackWindow string `json:"callback_window"`
	Reason         string `json:"reason,omitempty"`
}

// Slot is a bookable window in absolute time.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BookingConfirmation is returned after the calendar event exists.
type BookingConfirmation struct {
	EventID  string    `json:"event_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	MeetLink string    `json:"meet_link"`
}
