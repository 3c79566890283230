package medtools

import (
	"context"
	"math"
	"time"

	"github.com/medai/medmcp/internal/clinic"
	"github.com/medai/medmcp/internal/store"
	"github.com/medai/medmcp/internal/tool"
)

type statisticsArgs struct {
	DoctorName string `json:"doctor_name" description:"Name of the doctor"`
	Period     string `json:"period" description:"Reporting period" enum:"day,week,month,year"`
	StartDate  string `json:"start_date,omitempty" description:"Custom range start (YYYY-MM-DD), overrides period"`
	EndDate    string `json:"end_date,omitempty" description:"Custom range end (YYYY-MM-DD), overrides period"`
}

func (a statisticsArgs) Validate() error {
	if a.StartDate != "" {
		if _, err := clinic.ParseDate(a.StartDate); err != nil {
			return err
		}
	}
	if a.EndDate != "" {
		if _, err := clinic.ParseDate(a.EndDate); err != nil {
			return err
		}
	}
	return nil
}

type statisticsResult struct {
	DoctorName        string  `json:"doctor_name"`
	Period            string  `json:"period"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	TotalAppointments int     `json:"total_appointments"`
	Scheduled         int     `json:"scheduled"`
	Completed         int     `json:"completed"`
	Cancelled         int     `json:"cancelled"`
	NoShow            int     `json:"no_show"`
	CompletionRate    float64 `json:"completion_rate"`
}

func newGetAppointmentStatistics(deps Deps) (tool.Tool, error) {
	return tool.NewTool(
		"get_appointment_statistics",
		"Get appointment statistics for a doctor over a period",
		func(ctx context.Context, args statisticsArgs) (statisticsResult, error) {
			from, to := args.StartDate, args.EndDate
			if from == "" || to == "" {
				from, to = periodRange(deps.now(), args.Period)
			}

			stats, err := deps.Appointments.Statistics(ctx, args.DoctorName, from, to)
			if err != nil {
				return statisticsResult{}, err
			}

			var rate float64
			if stats.Total > 0 {
				rate = math.Round(float64(stats.Completed)/float64(stats.Total)*1000) / 10
			}
			return statisticsResult{
				DoctorName:        args.DoctorName,
				Period:            args.Period,
				StartDate:         from,
				EndDate:           to,
				TotalAppointments: stats.Total,
				Scheduled:         stats.Scheduled,
				Completed:         stats.Completed,
				Cancelled:         stats.Cancelled,
				NoShow:            stats.NoShow,
				CompletionRate:    rate,
			}, nil
		},
		tool.WithTags("analytics"),
		tool.WithKind("query"),
	)
}

// periodRange converts a reporting period to an inclusive date range around
// now. Weeks start on Monday.
func periodRange(now time.Time, period string) (string, string) {
	const layout = "2006-01-02"
	switch period {
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday
		}
		start := now.AddDate(0, 0, -(weekday - 1))
		end := start.AddDate(0, 0, 6)
		return start.Format(layout), end.Format(layout)
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, -1)
		return start.Format(layout), end.Format(layout)
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()).Format(layout),
			time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location()).Format(layout)
	default: // day
		d := now.Format(layout)
		return d, d
	}
}

type symptomSearchArgs struct {
	Symptoms   string `json:"symptoms" description:"Symptom text to search for"`
	DateFrom   string `json:"date_from,omitempty" description:"Range start (YYYY-MM-DD), defaults to 30 days ago"`
	DateTo     string `json:"date_to,omitempty" description:"Range end (YYYY-MM-DD), defaults to today"`
	DoctorName string `json:"doctor_name,omitempty" description:"Limit to one doctor's patients"`
}

func (a symptomSearchArgs) Validate() error {
	if a.DateFrom != "" {
		if _, err := clinic.ParseDate(a.DateFrom); err != nil {
			return err
		}
	}
	if a.DateTo != "" {
		if _, err := clinic.ParseDate(a.DateTo); err != nil {
			return err
		}
	}
	return nil
}

type symptomPatient struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Doctor    string `json:"doctor"`
	LastVisit string `json:"last_visit"`
	Symptoms  string `json:"symptoms"`
}

type symptomSearchResult struct {
	Symptoms       string            `json:"symptoms"`
	Patients       []symptomPatient  `json:"patients"`
	Count          int               `json:"count"`
	SearchCriteria symptomSearchArgs `json:"search_criteria"`
}

func newSearchPatientsBySymptoms(deps Deps) (tool.Tool, error) {
	return tool.NewTool(
		"search_patients_by_symptoms",
		"Search patients by reported symptoms",
		func(ctx context.Context, args symptomSearchArgs) (symptomSearchResult, error) {
			const layout = "2006-01-02"
			if args.DateFrom == "" {
				args.DateFrom = deps.now().AddDate(0, 0, -30).Format(layout)
			}
			if args.DateTo == "" {
				args.DateTo = deps.now().Format(layout)
			}

			matches, err := deps.Appointments.SearchBySymptom(ctx, store.SymptomSearch{
				Symptom:    args.Symptoms,
				From:       args.DateFrom,
				To:         args.DateTo,
				DoctorName: args.DoctorName,
			})
			if err != nil {
				return symptomSearchResult{}, err
			}

			patients := make([]symptomPatient, 0, len(matches))
			for _, m := range matches {
				patients = append(patients, symptomPatient{
					Name:      m.PatientName,
					Email:     m.PatientEmail,
					Doctor:    m.DoctorName,
					LastVisit: m.Date + " " + m.Time,
					Symptoms:  m.Symptoms,
				})
			}
			return symptomSearchResult{
				Symptoms:       args.Symptoms,
				Patients:       patients,
				Count:          len(patients),
				SearchCriteria: args,
			}, nil
		},
		tool.WithTags("analytics", "search"),
		tool.WithKind("query"),
	)
}
