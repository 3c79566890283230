package medtools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medai/medmcp/internal/clinic"
)

func TestListDoctors_NoFilter(t *testing.T) {
	t.Parallel()
	deps, _, _, _, _ := testDeps()
	tl, err := newListDoctors(deps)
	require.NoError(t, err)

	out, err := tl.Execute(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)

	var res listDoctorsResult
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, 3, res.Count)
	assert.Len(t, res.Doctors, 3)
}

func TestListDoctors_SeededRoster(t *testing.T) {
	t.Parallel()
	deps, doctors, _, _, _ := testDeps()
	// Mirror of the migration seed.
	doctors.doctors = []clinic.Doctor{
		{ID: 1, Name: "Dr. Smith", Specialty: "Cardiology", Location: "Main Office", Email: "dr.smith@clinic.example"},
		{ID: 2, Name: "Dr. Johnson", Specialty: "Dermatology", Location: "Main Office", Email: "dr.johnson@clinic.example"},
		{ID: 3, Name: "Dr. Williams", Specialty: "Pediatrics", Location: "Downtown Office", Email: "dr.williams@clinic.example"},
		{ID: 4, Name: "Dr. Brown", Specialty: "Neurology", Location: "Main Office", Email: "dr.brown@clinic.example"},
		{ID: 5, Name: "Dr. Davis", Specialty: "Orthopedics", Location: "Downtown Office", Email: "dr.davis@clinic.example"},
	}
	tl, err := newListDoctors(deps)
	require.NoError(t, err)

	out, err := tl.Execute(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)

	var res listDoctorsResult
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, 5, res.Count)
}

func TestListDoctors_SpecialtyFilter(t *testing.T) {
	t.Parallel()
	deps, _, _, _, _ := testDeps()
	tl, err := newListDoctors(deps)
	require.NoError(t, err)

	out, err := tl.Execute(context.Background(), json.RawMessage(`{"specialty": "cardiology"}`))
	require.NoError(t, err)

	var res listDoctorsResult
	require.NoError(t, json.Unmarshal(out, &res))
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "Dr. Smith", res.Doctors[0].Name)
	assert.Equal(t, "cardiology", res.FiltersApplied.Specialty)
}

func TestListDoctors_AvailableDateFilter(t *testing.T) {
	t.Parallel()
	deps, _, appts, _, _ := testDeps()
	// Dr. Smith fully booked on the date, others free.
	appts.booked[key(1, "2026-09-01")] = clinic.Slots(clinic.PeriodAny)
	tl, err := newListDoctors(deps)
	require.NoError(t, err)

	out, err := tl.Execute(context.Background(), json.RawMessage(`{"available_date": "2026-09-01"}`))
	require.NoError(t, err)

	var res listDoctorsResult
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, 2, res.Count)
	for _, d := range res.Doctors {
		assert.NotEqual(t, "Dr. Smith", d.Name)
	}
}

func TestListDoctors_NoMatchesIsEmptyNotNull(t *testing.T) {
	t.Parallel()
	deps, _, _, _, _ := testDeps()
	tl, err := newListDoctors(deps)
	require.NoError(t, err)

	out, err := tl.Execute(context.Background(), json.RawMessage(`{"specialty": "Oncology"}`))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"doctors":[]`)
}
