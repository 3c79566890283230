package medtools

import (
	"context"

	"github.com/medai/medmcp/internal/clinic"
	"github.com/medai/medmcp/internal/store"
	"github.com/medai/medmcp/internal/tool"
)

type listDoctorsArgs struct {
	Specialty     string `json:"specialty,omitempty" description:"Filter by medical specialty"`
	Location      string `json:"location,omitempty" description:"Filter by office location"`
	AvailableDate string `json:"available_date,omitempty" description:"Only doctors with free slots on this date (YYYY-MM-DD)"`
}

func (a listDoctorsArgs) Validate() error {
	if a.AvailableDate == "" {
		return nil
	}
	_, err := clinic.ParseDate(a.AvailableDate)
	return err
}

type listDoctorsResult struct {
	Doctors        []clinic.Doctor `json:"doctors"`
	Count          int             `json:"count"`
	FiltersApplied listDoctorsArgs `json:"filters_applied"`
}

func newListDoctors(deps Deps) (tool.Tool, error) {
	return tool.NewTool(
		"list_doctors",
		"List available doctors with optional filtering",
		func(ctx context.Context, args listDoctorsArgs) (listDoctorsResult, error) {
			doctors, err := deps.Doctors.List(ctx, store.DoctorFilter{
				Specialty: args.Specialty,
				Location:  args.Location,
			})
			if err != nil {
				return listDoctorsResult{}, err
			}

			if args.AvailableDate != "" {
				withSlots := doctors[:0]
				for _, d := range doctors {
					booked, err := deps.Appointments.BookedSlots(ctx, d.ID, args.AvailableDate)
					if err != nil {
						return listDoctorsResult{}, err
					}
					if len(clinic.AvailableSlots(clinic.PeriodAny, booked)) > 0 {
						withSlots = append(withSlots, d)
					}
				}
				doctors = withSlots
			}

			if doctors == nil {
				doctors = []clinic.Doctor{}
			}
			return listDoctorsResult{
				Doctors:        doctors,
				Count:          len(doctors),
				FiltersApplied: args,
			}, nil
		},
		tool.WithTags("doctors"),
		tool.WithKind("query"),
	)
}
