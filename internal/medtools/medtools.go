// Package medtools defines the clinic's tool set: booking, cancellation,
// availability, doctor listing, calendar and email side effects, statistics,
// and symptom search. Each tool is built on the tool engine with a typed argument struct;
// the engine validates parameters before any handler runs.
package medtools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medai/medmcp/internal/clinic"
	"github.com/medai/medmcp/internal/notify"
	"github.com/medai/medmcp/internal/store"
	"github.com/medai/medmcp/internal/tool"
)

// DoctorDirectory is the read side of the doctor table.
type DoctorDirectory interface {
	List(ctx context.Context, filter store.DoctorFilter) ([]clinic.Doctor, error)
	GetByName(ctx context.Context, name string) (clinic.Doctor, error)
}

// AppointmentStore is the appointment persistence the tools need.
type AppointmentStore interface {
	Create(ctx context.Context, p store.CreateParams) (clinic.Appointment, error)
	BookedSlots(ctx context.Context, doctorID int64, date string) ([]string, error)
	Statistics(ctx context.Context, doctorName, from, to string) (store.Stats, error)
	SearchBySymptom(ctx context.Context, q store.SymptomSearch) ([]clinic.Appointment, error)
	Cancel(ctx context.Context, id int64) error
}

// Deps carries everything the tool handlers touch. Now is overridable for
// tests; nil means time.Now.
type Deps struct {
	Doctors      DoctorDirectory
	Appointments AppointmentStore
	Mailer       notify.Mailer
	Calendar     notify.Calendar
	Logger       *slog.Logger
	Now          func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// RegisterAll builds the full tool set and registers it. Registration order
// is the discovery order.
func RegisterAll(reg *tool.Registry, deps Deps) error {
	builders := []func(Deps) (tool.Tool, error){
		newScheduleAppointment,
		newCancelAppointment,
		newCheckDoctorAvailability,
		newListDoctors,
		newCreateCalendarEvent,
		newSendAppointmentConfirmation,
		newGetAppointmentStatistics,
		newSearchPatientsBySymptoms,
	}
	for _, build := range builders {
		t, err := build(deps)
		if err != nil {
			return fmt.Errorf("build tool: %w", err)
		}
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("register %s: %w", t.Name(), err)
		}
	}
	return nil
}

// clientErr builds a caller-correctable error with the given message.
func clientErr(format string, args ...any) error {
	return &tool.ClientError{Reason: fmt.Sprintf(format, args...), Err: tool.ErrValidation}
}
