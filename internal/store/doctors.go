package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/medai/medmcp/internal/clinic"
)

var doctorFields = []string{
	"id",
	"name",
	"specialty",
	"location",
	"email",
	"created_at",
}

// DoctorFilter narrows a doctor listing. Empty fields match everything.
// Matching is case insensitive.
type DoctorFilter struct {
	Specialty string
	Location  string
}

// DoctorRepository reads the doctor directory.
type DoctorRepository struct {
	sb squirrel.StatementBuilderType
}

// NewDoctorRepository creates a DoctorRepository backed by the given runner.
func NewDoctorRepository(br squirrel.BaseRunner) DoctorRepository {
	return DoctorRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// List returns doctors matching the filter, ordered by name.
func (dr DoctorRepository) List(ctx context.Context, filter DoctorFilter) ([]clinic.Doctor, error) {
	qry := dr.sb.
		Select(doctorFields...).
		From("doctors").
		OrderBy("name")

	if filter.Specialty != "" {
		qry = qry.Where("LOWER(specialty) = LOWER(?)", filter.Specialty)
	}
	if filter.Location != "" {
		qry = qry.Where("LOWER(location) = LOWER(?)", filter.Location)
	}

	rows, err := qry.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var doctors []clinic.Doctor
	for rows.Next() {
		var d clinic.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty, &d.Location, &d.Email, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

// GetByName returns the doctor with the given name (case insensitive), or
// ErrNotFound.
func (dr DoctorRepository) GetByName(ctx context.Context, name string) (clinic.Doctor, error) {
	var d clinic.Doctor
	err := dr.sb.
		Select(doctorFields...).
		From("doctors").
		Where("LOWER(name) = LOWER(?)", name).
		QueryRowContext(ctx).
		Scan(&d.ID, &d.Name, &d.Specialty, &d.Location, &d.Email, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return clinic.Doctor{}, fmt.Errorf("%w: doctor %q", ErrNotFound, name)
	}
	if err != nil {
		return clinic.Doctor{}, fmt.Errorf("get doctor by name: %w", err)
	}
	return d, nil
}
