// Package notify defines the outbound side effects of booking: confirmation
// email and calendar event creation. The default implementations only log and
// return synthetic receipts; real providers plug in behind the same
// interfaces.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Confirmation is the content of an appointment confirmation email.
type Confirmation struct {
	ToEmail         string
	PatientName     string
	DoctorName      string
	AppointmentDate string
	AppointmentTime string
	AppointmentID   string
}

// MailReceipt identifies a sent message.
type MailReceipt struct {
	MessageID string    `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}

// Mailer sends appointment confirmations.
type Mailer interface {
	SendConfirmation(ctx context.Context, c Confirmation) (MailReceipt, error)
}

// Event is a calendar entry for a booked appointment.
type Event struct {
	Summary     string
	Description string
	Location    string
	StartTime   string // RFC 3339 or YYYY-MM-DDTHH:MM
	EndTime     string
	Attendees   []string
}

// EventReceipt identifies a created calendar event.
type EventReceipt struct {
	EventID  string    `json:"event_id"`
	HTMLLink string    `json:"html_link,omitempty"`
	Created  time.Time `json:"created"`
}

// Calendar creates events.
type Calendar interface {
	CreateEvent(ctx context.Context, e Event) (EventReceipt, error)
}

func newID() string { return uuid.NewString() }
