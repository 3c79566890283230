package notify

import (
	"context"
	"log/slog"
	"time"
)

// LogMailer logs the confirmation instead of sending it. Used in development
// and when no mail provider is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendConfirmation(ctx context.Context, c Confirmation) (MailReceipt, error) {
	receipt := MailReceipt{MessageID: newID(), SentAt: time.Now()}
	m.logger().InfoContext(ctx, "confirmation email",
		"to", c.ToEmail,
		"patient", c.PatientName,
		"doctor", c.DoctorName,
		"date", c.AppointmentDate,
		"time", c.AppointmentTime,
		"appointment_id", c.AppointmentID,
		"message_id", receipt.MessageID,
	)
	return receipt, nil
}

func (m LogMailer) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// LogCalendar logs the event instead of creating it.
type LogCalendar struct {
	Logger *slog.Logger
}

func (c LogCalendar) CreateEvent(ctx context.Context, e Event) (EventReceipt, error) {
	receipt := EventReceipt{EventID: newID(), Created: time.Now()}
	c.logger().InfoContext(ctx, "calendar event",
		"summary", e.Summary,
		"start", e.StartTime,
		"end", e.EndTime,
		"location", e.Location,
		"attendees", e.Attendees,
		"event_id", receipt.EventID,
	)
	return receipt, nil
}

func (c LogCalendar) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

var (
	_ Mailer   = LogMailer{}
	_ Calendar = LogCalendar{}
)
