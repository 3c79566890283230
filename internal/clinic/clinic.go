// Package clinic holds the scheduling domain model: doctors, patients,
// appointments, and the working-hours slot grid.
package clinic

import (
	"fmt"
	"time"
)

// Doctor is a bookable practitioner.
type Doctor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Location  string    `json:"location,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Patient is a person appointments are booked for, keyed by email.
type Patient struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown appointment status: %q", s)
	}
}

// DefaultDurationMinutes is the appointment length when the caller does not
// give one.
const DefaultDurationMinutes = 30

// Appointment links a patient to a doctor at a date and time slot.
type Appointment struct {
	ID              int64     `json:"id"`
	DoctorID        int64     `json:"doctor_id"`
	PatientID       int64     `json:"patient_id"`
	DoctorName      string    `json:"doctor_name,omitempty"`
	PatientName     string    `json:"patient_name,omitempty"`
	PatientEmail    string    `json:"patient_email,omitempty"`
	Date            string    `json:"date"` // YYYY-MM-DD
	Time            string    `json:"time"` // HH:MM, on the slot grid
	DurationMinutes int       `json:"duration_minutes"`
	Status          Status    `json:"status"`
	Symptoms        string    `json:"symptoms,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// ParseDate validates a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}
