package medtools

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/medai/medmcp/internal/clinic"
	"github.com/medai/medmcp/internal/notify"
	"github.com/medai/medmcp/internal/store"
	"github.com/medai/medmcp/internal/tool"
)

// Fakes for the tool dependencies. Each records the last call and returns
// canned data or a forced error.

type fakeDoctors struct {
	doctors []clinic.Doctor
	err     error
}

func (f *fakeDoctors) List(_ context.Context, filter store.DoctorFilter) ([]clinic.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []clinic.Doctor
	for _, d := range f.doctors {
		if filter.Specialty != "" && !strings.EqualFold(d.Specialty, filter.Specialty) {
			continue
		}
		if filter.Location != "" && !strings.EqualFold(d.Location, filter.Location) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDoctors) GetByName(_ context.Context, name string) (clinic.Doctor, error) {
	if f.err != nil {
		return clinic.Doctor{}, f.err
	}
	for _, d := range f.doctors {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return clinic.Doctor{}, store.ErrNotFound
}

type fakeAppointments struct {
	created    []store.CreateParams
	createErr  error
	booked     map[string][]string // key doctorID:date
	stats      store.Stats
	statsErr   error
	matches    []clinic.Appointment
	searchErr  error
	cancelled  []int64
	cancelErr  error
	lastSearch store.SymptomSearch
}

func (f *fakeAppointments) Create(_ context.Context, p store.CreateParams) (clinic.Appointment, error) {
	if f.createErr != nil {
		return clinic.Appointment{}, f.createErr
	}
	f.created = append(f.created, p)
	dur := p.DurationMinutes
	if dur <= 0 {
		dur = clinic.DefaultDurationMinutes
	}
	return clinic.Appointment{
		ID:              int64(len(f.created)),
		DoctorID:        p.DoctorID,
		PatientID:       1,
		PatientName:     p.PatientName,
		PatientEmail:    p.PatientEmail,
		Date:            p.Date,
		Time:            p.Time,
		DurationMinutes: dur,
		Status:          clinic.StatusScheduled,
		Symptoms:        p.Symptoms,
	}, nil
}

func (f *fakeAppointments) BookedSlots(_ context.Context, doctorID int64, date string) ([]string, error) {
	return f.booked[key(doctorID, date)], nil
}

func (f *fakeAppointments) Statistics(_ context.Context, _, _, _ string) (store.Stats, error) {
	if f.statsErr != nil {
		return store.Stats{}, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeAppointments) SearchBySymptom(_ context.Context, q store.SymptomSearch) ([]clinic.Appointment, error) {
	f.lastSearch = q
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.matches, nil
}

func (f *fakeAppointments) Cancel(_ context.Context, id int64) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

func key(doctorID int64, date string) string {
	return fmt.Sprintf("%d#%s", doctorID, date)
}

type fakeMailer struct {
	sent []notify.Confirmation
	err  error
}

func (f *fakeMailer) SendConfirmation(_ context.Context, c notify.Confirmation) (notify.MailReceipt, error) {
	if f.err != nil {
		return notify.MailReceipt{}, f.err
	}
	f.sent = append(f.sent, c)
	return notify.MailReceipt{MessageID: "msg-1", SentAt: time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)}, nil
}

type fakeCalendar struct {
	events []notify.Event
	err    error
}

func (f *fakeCalendar) CreateEvent(_ context.Context, e notify.Event) (notify.EventReceipt, error) {
	if f.err != nil {
		return notify.EventReceipt{}, f.err
	}
	f.events = append(f.events, e)
	return notify.EventReceipt{EventID: "evt-1", Created: time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)}, nil
}

var testDoctors = []clinic.Doctor{
	{ID: 1, Name: "Dr. Smith", Specialty: "Cardiology", Location: "Main Office", Email: "dr.smith@clinic.example"},
	{ID: 2, Name: "Dr. Johnson", Specialty: "Dermatology", Location: "Main Office", Email: "dr.johnson@clinic.example"},
	{ID: 3, Name: "Dr. Davis", Specialty: "Orthopedics", Location: "Downtown Office", Email: "dr.davis@clinic.example"},
}

// testDeps builds a Deps over fresh fakes with a fixed clock.
func testDeps() (Deps, *fakeDoctors, *fakeAppointments, *fakeMailer, *fakeCalendar) {
	doctors := &fakeDoctors{doctors: testDoctors}
	appts := &fakeAppointments{booked: map[string][]string{}}
	mailer := &fakeMailer{}
	cal := &fakeCalendar{}
	deps := Deps{
		Doctors:      doctors,
		Appointments: appts,
		Mailer:       mailer,
		Calendar:     cal,
		Now:          func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) },
	}
	return deps, doctors, appts, mailer, cal
}

func TestRegisterAll(t *testing.T) {
	t.Parallel()
	deps, _, _, _, _ := testDeps()
	reg := tool.NewRegistry()
	t.Cleanup(func() { _ = reg.Shutdown(context.Background()) })

	require.NoError(t, RegisterAll(reg, deps))

	all := reg.All()
	require.Len(t, all, 8)
	names := make([]string, len(all))
	for i, tl := range all {
		names[i] = tl.Name()
	}
	require.Equal(t, []string{
		"schedule_appointment",
		"cancel_appointment",
		"check_doctor_availability",
		"list_doctors",
		"create_calendar_event",
		"send_appointment_confirmation",
		"get_appointment_statistics",
		"search_patients_by_symptoms",
	}, names)

	for _, tl := range all {
		params := tl.Parameters()
		require.NotEmpty(t, params, tl.Name())
		require.NotEmpty(t, tl.Description(), tl.Name())
	}
}

func TestRegisterAll_DuplicateRegistry(t *testing.T) {
	t.Parallel()
	deps, _, _, _, _ := testDeps()
	reg := tool.NewRegistry()
	t.Cleanup(func() { _ = reg.Shutdown(context.Background()) })

	require.NoError(t, RegisterAll(reg, deps))
	require.Error(t, RegisterAll(reg, deps))
}
