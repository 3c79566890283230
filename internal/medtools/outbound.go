package medtools

import (
	"context"
	"errors"
	"time"

	"github.com/medai/medmcp/internal/notify"
	"github.com/medai/medmcp/internal/tool"
)

type calendarEventArgs struct {
	Summary     string   `json:"summary" description:"Event title"`
	StartTime   string   `json:"start_time" description:"Event start timestamp"`
	EndTime     string   `json:"end_time" description:"Event end timestamp"`
	Description string   `json:"description,omitempty" description:"Event details"`
	Attendees   []string `json:"attendees,omitempty" description:"Attendee email addresses"`
	Location    string   `json:"location,omitempty" description:"Event location"`
}

func (a calendarEventArgs) Validate() error {
	if a.Summary == "" {
		return errors.New("summary must not be empty")
	}
	return nil
}

type calendarEventResult struct {
	EventID  string    `json:"event_id"`
	HTMLLink string    `json:"html_link,omitempty"`
	Status   string    `json:"status"`
	Created  time.Time `json:"created"`
}

func newCreateCalendarEvent(deps Deps) (tool.Tool, error) {
	return tool.NewTool(
		"create_calendar_event",
		"Create a calendar event for an appointment",
		func(ctx context.Context, args calendarEventArgs) (calendarEventResult, error) {
			receipt, err := deps.Calendar.CreateEvent(ctx, notify.Event{
				Summary:     args.Summary,
				Description: args.Description,
				Location:    args.Location,
				StartTime:   args.StartTime,
				EndTime:     args.EndTime,
				Attendees:   args.Attendees,
			})
			if err != nil {
				return calendarEventResult{}, err
			}
			return calendarEventResult{
				EventID:  receipt.EventID,
				HTMLLink: receipt.HTMLLink,
				Status:   "confirmed",
				Created:  receipt.Created,
			}, nil
		},
		tool.WithTags("calendar"),
		tool.WithKind("integration"),
	)
}

type confirmationArgs struct {
	ToEmail         string `json:"to_email" description:"Recipient email address"`
	PatientName     string `json:"patient_name" description:"Patient name for the email body"`
	DoctorName      string `json:"doctor_name" description:"Doctor name for the email body"`
	AppointmentDate string `json:"appointment_date" description:"Appointment date in YYYY-MM-DD format"`
	AppointmentTime string `json:"appointment_time" description:"Appointment time in HH:MM format"`
	AppointmentID   string `json:"appointment_id" description:"Appointment identifier"`
}

type confirmationResult struct {
	MessageID string    `json:"message_id"`
	Status    string    `json:"status"`
	SentAt    time.Time `json:"sent_at"`
}

func newSendAppointmentConfirmation(deps Deps) (tool.Tool, error) {
	return tool.NewTool(
		"send_appointment_confirmation",
		"Send an appointment confirmation email",
		func(ctx context.Context, args confirmationArgs) (confirmationResult, error) {
			receipt, err := deps.Mailer.SendConfirmation(ctx, notify.Confirmation{
				ToEmail:         args.ToEmail,
				PatientName:     args.PatientName,
				DoctorName:      args.DoctorName,
				AppointmentDate: args.AppointmentDate,
				AppointmentTime: args.AppointmentTime,
				AppointmentID:   args.AppointmentID,
			})
			if err != nil {
				return confirmationResult{}, err
			}
			return confirmationResult{
				MessageID: receipt.MessageID,
				Status:    "sent",
				SentAt:    receipt.SentAt,
			}, nil
		},
		tool.WithTags("email"),
		tool.WithKind("integration"),
	)
}
