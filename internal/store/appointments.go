package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medai/medmcp/internal/clinic"
)

// ErrSlotTaken is returned when the doctor already has a scheduled
// appointment at the requested date and time.
var ErrSlotTaken = errors.New("slot already booked")

// AppointmentRepository reads and writes appointments. Patient records are
// created on demand when an appointment is booked.
type AppointmentRepository struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// NewAppointmentRepository creates an AppointmentRepository over db.
func NewAppointmentRepository(db *sql.DB) AppointmentRepository {
	return AppointmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(db),
	}
}

// CreateParams describe a booking. Date is YYYY-MM-DD, Time is HH:MM on the
// working-hours grid.
type CreateParams struct {
	DoctorID        int64
	PatientName     string
	PatientEmail    string
	PatientPhone    string
	Date            string
	Time            string
	DurationMinutes int
	Symptoms        string
}

// Create books an appointment in one transaction: the patient row is upserted
// by email, then the appointment is inserted. A unique index on
// (doctor_id, date, time) for scheduled rows rejects double booking; that
// conflict surfaces as ErrSlotTaken.
func (ar AppointmentRepository) Create(ctx context.Context, p CreateParams) (clinic.Appointment, error) {
	if p.DurationMinutes <= 0 {
		p.DurationMinutes = clinic.DefaultDurationMinutes
	}

	tx, err := ar.db.BeginTx(ctx, nil)
	if err != nil {
		return clinic.Appointment{}, fmt.Errorf("begin create appointment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	sb := ar.sb.RunWith(tx)

	var patientID int64
	err = sb.
		Insert("patients").
		Columns("name", "email", "phone").
		Values(p.PatientName, p.PatientEmail, p.PatientPhone).
		Suffix("ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name RETURNING id").
		QueryRowContext(ctx).
		Scan(&patientID)
	if err != nil {
		return clinic.Appointment{}, fmt.Errorf("upsert patient: %w", err)
	}

	appt := clinic.Appointment{
		DoctorID:        p.DoctorID,
		PatientID:       patientID,
		PatientName:     p.PatientName,
		PatientEmail:    p.PatientEmail,
		Date:            p.Date,
		Time:            p.Time,
		DurationMinutes: p.DurationMinutes,
		Status:          clinic.StatusScheduled,
		Symptoms:        p.Symptoms,
	}
	err = sb.
		Insert("appointments").
		Columns("doctor_id", "patient_id", "appointment_date", "appointment_time", "duration_minutes", "status", "symptoms").
		Values(p.DoctorID, patientID, p.Date, p.Time, p.DurationMinutes, clinic.StatusScheduled, p.Symptoms).
		Suffix("RETURNING id, created_at").
		QueryRowContext(ctx).
		Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return clinic.Appointment{}, fmt.Errorf("%w: %s at %s", ErrSlotTaken, p.Date, p.Time)
		}
		return clinic.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return clinic.Appointment{}, fmt.Errorf("commit create appointment: %w", err)
	}
	return appt, nil
}

// isUniqueViolation matches Postgres unique violations (code 23505), either
// as a structured pgx error or by message on the database/sql path.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key")
}

// BookedSlots returns the times already scheduled for a doctor on a date, in
// chronological order.
func (ar AppointmentRepository) BookedSlots(ctx context.Context, doctorID int64, date string) ([]string, error) {
	rows, err := ar.sb.
		Select("appointment_time").
		From("appointments").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		Where(squirrel.Eq{"appointment_date": date}).
		Where(squirrel.Eq{"status": clinic.StatusScheduled}).
		OrderBy("appointment_time").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("booked slots: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var slots []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booked slots: %w", err)
	}
	return slots, nil
}

// Cancel marks a scheduled appointment cancelled. ErrNotFound when the id is
// unknown or the appointment is not scheduled.
func (ar AppointmentRepository) Cancel(ctx context.Context, id int64) error {
	res, err := ar.sb.
		Update("appointments").
		Set("status", clinic.StatusCancelled).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": clinic.StatusScheduled}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: scheduled appointment %d", ErrNotFound, id)
	}
	return nil
}

// Stats holds per-status appointment counts for a doctor and date range.
type Stats struct {
	Total     int `json:"total_appointments"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	NoShow    int `json:"no_show"`
}

// Statistics counts a doctor's appointments by status between from and to
// (inclusive, YYYY-MM-DD).
func (ar AppointmentRepository) Statistics(ctx context.Context, doctorName, from, to string) (Stats, error) {
	rows, err := ar.sb.
		Select("a.status", "COUNT(*)").
		From("appointments a").
		Join("doctors d ON d.id = a.doctor_id").
		Where("LOWER(d.name) = LOWER(?)", doctorName).
		Where(squirrel.GtOrEq{"a.appointment_date": from}).
		Where(squirrel.LtOrEq{"a.appointment_date": to}).
		GroupBy("a.status").
		QueryContext(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("appointment statistics: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var stats Stats
	for rows.Next() {
		var (
			status clinic.Status
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("scan statistics: %w", err)
		}
		stats.Total += count
		switch status {
		case clinic.StatusScheduled:
			stats.Scheduled = count
		case clinic.StatusCompleted:
			stats.Completed = count
		case clinic.StatusCancelled:
			stats.Cancelled = count
		case clinic.StatusNoShow:
			stats.NoShow = count
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("appointment statistics: %w", err)
	}
	return stats, nil
}

// SymptomSearch filters the symptom search. Symptom is matched as a case
// insensitive substring; DoctorName is optional.
type SymptomSearch struct {
	Symptom    string
	From       string
	To         string
	DoctorName string
}

var symptomFields = []string{
	"a.id",
	"p.name",
	"p.email",
	"d.name",
	"a.appointment_date::text",
	"a.appointment_time",
	"a.symptoms",
	"a.status",
}

// SearchBySymptom returns appointments whose recorded symptoms match the
// search, newest first.
func (ar AppointmentRepository) SearchBySymptom(ctx context.Context, q SymptomSearch) ([]clinic.Appointment, error) {
	qry := ar.sb.
		Select(symptomFields...).
		From("appointments a").
		Join("patients p ON p.id = a.patient_id").
		Join("doctors d ON d.id = a.doctor_id").
		Where("a.symptoms ILIKE ?", "%"+q.Symptom+"%").
		Where(squirrel.GtOrEq{"a.appointment_date": q.From}).
		Where(squirrel.LtOrEq{"a.appointment_date": q.To})
	if q.DoctorName != "" {
		qry = qry.Where("LOWER(d.name) = LOWER(?)", q.DoctorName)
	}

	rows, err := qry.
		OrderBy("a.appointment_date DESC", "a.appointment_time").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("search by symptom: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []clinic.Appointment
	for rows.Next() {
		var a clinic.Appointment
		if err := rows.Scan(&a.ID, &a.PatientName, &a.PatientEmail, &a.DoctorName, &a.Date, &a.Time, &a.Symptoms, &a.Status); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search by symptom: %w", err)
	}
	return out, nil
}
