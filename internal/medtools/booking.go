package medtools

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/medai/medmcp/internal/clinic"
	"github.com/medai/medmcp/internal/notify"
	"github.com/medai/medmcp/internal/store"
	"github.com/medai/medmcp/internal/tool"
)

type scheduleArgs struct {
	DoctorName      string `json:"doctor_name" description:"Name of the doctor, e.g. Dr. Smith"`
	PatientName     string `json:"patient_name" description:"Full name of the patient"`
	PatientEmail    string `json:"patient_email" description:"Patient email for the confirmation"`
	AppointmentDate string `json:"appointment_date" description:"Appointment date in YYYY-MM-DD format"`
	AppointmentTime string `json:"appointment_time" description:"Appointment time in HH:MM format"`
	Symptoms        string `json:"symptoms,omitempty" description:"Patient symptoms or reason for visit"`
	Duration        int    `json:"duration,omitempty" description:"Appointment duration in minutes" default:"30"`
}

func (a scheduleArgs) Validate() error {
	if _, err := clinic.ParseDate(a.AppointmentDate); err != nil {
		return err
	}
	if !clinic.ValidSlot(a.AppointmentTime) {
		return fmt.Errorf("time %q is not a bookable slot", a.AppointmentTime)
	}
	if a.Duration < 0 {
		return errors.New("duration must be positive")
	}
	return nil
}

type scheduleResult struct {
	AppointmentID   int64  `json:"appointment_id"`
	Status          string `json:"status"`
	CalendarEventID string `json:"calendar_event_id,omitempty"`
	EmailSent       bool   `json:"email_sent"`
	EmailMessageID  string `json:"email_message_id,omitempty"`
	Message         string `json:"message"`
}

// newScheduleAppointment books an appointment, creates the calendar event,
// and sends the confirmation email. Once the row is written the booking
// stands; calendar and email failures only degrade the result.
func newScheduleAppointment(deps Deps) (tool.Tool, error) {
	return tool.NewTool(
		"schedule_appointment",
		"Schedule a new appointment with a doctor",
		func(ctx context.Context, args scheduleArgs) (scheduleResult, error) {
			doctor, err := deps.Doctors.GetByName(ctx, args.DoctorName)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return scheduleResult{}, clientErr("unknown doctor: %s", args.DoctorName)
				}
				return scheduleResult{}, err
			}

			appt, err := deps.Appointments.Create(ctx, store.CreateParams{
				DoctorID:        doctor.ID,
				PatientName:     args.PatientName,
				PatientEmail:    args.PatientEmail,
				Date:            args.AppointmentDate,
				Time:            args.AppointmentTime,
				DurationMinutes: args.Duration,
				Symptoms:        args.Symptoms,
			})
			if err != nil {
				if errors.Is(err, store.ErrSlotTaken) {
					return scheduleResult{}, clientErr("%s is not available on %s at %s",
						args.DoctorName, args.AppointmentDate, args.AppointmentTime)
				}
				return scheduleResult{}, err
			}

			res := scheduleResult{
				AppointmentID: appt.ID,
				Status:        string(appt.Status),
				Message:       "Appointment scheduled successfully",
			}

			// The row is committed at this point. Calendar and email are
			// side effects; their failure degrades the result, it must not
			// report the booking as failed and strand the slot.
			event, err := deps.Calendar.CreateEvent(ctx, notify.Event{
				Summary:     fmt.Sprintf("Appointment: %s with %s", args.PatientName, doctor.Name),
				Description: args.Symptoms,
				Location:    doctor.Location,
				StartTime:   eventTime(args.AppointmentDate, args.AppointmentTime, 0),
				EndTime:     eventTime(args.AppointmentDate, args.AppointmentTime, appt.DurationMinutes),
				Attendees:   []string{args.PatientEmail, doctor.Email},
			})
			if err != nil {
				deps.logger().WarnContext(ctx, "calendar event failed",
					"appointment_id", appt.ID, "error", err)
			} else {
				res.CalendarEventID = event.EventID
			}

			receipt, err := deps.Mailer.SendConfirmation(ctx, notify.Confirmation{
				ToEmail:         args.PatientEmail,
				PatientName:     args.PatientName,
				DoctorName:      doctor.Name,
				AppointmentDate: args.AppointmentDate,
				AppointmentTime: args.AppointmentTime,
				AppointmentID:   strconv.FormatInt(appt.ID, 10),
			})
			if err != nil {
				deps.logger().WarnContext(ctx, "confirmation email failed",
					"appointment_id", appt.ID, "error", err)
			} else {
				res.EmailSent = true
				res.EmailMessageID = receipt.MessageID
			}
			return res, nil
		},
		tool.WithTags("appointments", "booking"),
		tool.WithKind("appointment"),
	)
}

// eventTime renders a local calendar timestamp offset by minutes from the
// slot start.
func eventTime(date, hhmm string, addMinutes int) string {
	t, err := time.Parse("2006-01-02 15:04", date+" "+hhmm)
	if err != nil {
		return date + "T" + hhmm
	}
	return t.Add(time.Duration(addMinutes) * time.Minute).Format("2006-01-02T15:04")
}

type cancelArgs struct {
	AppointmentID int64 `json:"appointment_id" description:"Identifier of the appointment to cancel"`
}

func (a cancelArgs) Validate() error {
	if a.AppointmentID <= 0 {
		return errors.New("appointment_id must be positive")
	}
	return nil
}

type cancelResult struct {
	AppointmentID int64  `json:"appointment_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// newCancelAppointment frees the slot by marking the appointment cancelled.
func newCancelAppointment(deps Deps) (tool.Tool, error) {
	return tool.NewTool(
		"cancel_appointment",
		"Cancel a scheduled appointment",
		func(ctx context.Context, args cancelArgs) (cancelResult, error) {
			if err := deps.Appointments.Cancel(ctx, args.AppointmentID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return cancelResult{}, clientErr("no scheduled appointment with id %d", args.AppointmentID)
				}
				return cancelResult{}, err
			}
			return cancelResult{
				AppointmentID: args.AppointmentID,
				Status:        string(clinic.StatusCancelled),
				Message:       "Appointment cancelled",
			}, nil
		},
		tool.WithTags("appointments", "booking"),
		tool.WithKind("appointment"),
	)
}

type availabilityArgs struct {
	DoctorName     string `json:"doctor_name" description:"Name of the doctor"`
	Date           string `json:"date" description:"Date to check in YYYY-MM-DD format"`
	TimePreference string `json:"time_preference,omitempty" description:"Part of day to check" enum:"morning,afternoon,evening,any" default:"any"`
}

func (a availabilityArgs) Validate() error {
	_, err := clinic.ParseDate(a.Date)
	return err
}

type availabilityResult struct {
	DoctorName     string   `json:"doctor_name"`
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
	BookedSlots    []string `json:"booked_slots"`
	TotalAvailable int      `json:"total_available"`
	TotalBooked    int      `json:"total_booked"`
	Message        string   `json:"message"`
}

func newCheckDoctorAvailability(deps Deps) (tool.Tool, error) {
	return tool.NewTool(
		"check_doctor_availability",
		"Check doctor availability for a specific date and time",
		func(ctx context.Context, args availabilityArgs) (availabilityResult, error) {
			doctor, err := deps.Doctors.GetByName(ctx, args.DoctorName)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return availabilityResult{}, clientErr("unknown doctor: %s", args.DoctorName)
				}
				return availabilityResult{}, err
			}

			period, err := clinic.ParsePeriod(args.TimePreference)
			if err != nil {
				return availabilityResult{}, clientErr("%s", err)
			}

			booked, err := deps.Appointments.BookedSlots(ctx, doctor.ID, args.Date)
			if err != nil {
				return availabilityResult{}, err
			}
			available := clinic.AvailableSlots(period, booked)

			return availabilityResult{
				DoctorName:     doctor.Name,
				Date:           args.Date,
				AvailableSlots: available,
				BookedSlots:    booked,
				TotalAvailable: len(available),
				TotalBooked:    len(booked),
				Message: fmt.Sprintf("Found %d available slots for %s on %s",
					len(available), doctor.Name, args.Date),
			}, nil
		},
		tool.WithTags("appointments", "availability"),
		tool.WithKind("appointment"),
	)
}
