package server

// toolExample is a sample invocation shown alongside a tool's schema.
type toolExample struct {
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

var toolExamples = map[string][]toolExample{
	"schedule_appointment": {
		{
			Description: "Schedule a morning appointment",
			Parameters: map[string]any{
				"doctor_name":      "Dr. Smith",
				"patient_name":     "John Doe",
				"patient_email":    "john.doe@email.com",
				"appointment_date": "2026-09-14",
				"appointment_time": "09:00",
				"symptoms":         "Headache and fever",
			},
		},
	},
	"cancel_appointment": {
		{
			Description: "Cancel a booked appointment",
			Parameters: map[string]any{
				"appointment_id": 42,
			},
		},
	},
	"check_doctor_availability": {
		{
			Description: "Free afternoon slots for a doctor",
			Parameters: map[string]any{
				"doctor_name":     "Dr. Smith",
				"date":            "2026-09-14",
				"time_preference": "afternoon",
			},
		},
	},
	"list_doctors": {
		{
			Description: "Find cardiologists",
			Parameters: map[string]any{
				"specialty": "Cardiology",
			},
		},
	},
	"get_appointment_statistics": {
		{
			Description: "Get monthly statistics",
			Parameters: map[string]any{
				"doctor_name": "Dr. Johnson",
				"period":      "month",
				"date":        "2026-09-01",
			},
		},
	},
	"search_patients_by_symptoms": {
		{
			Description: "Patients who reported chest pain",
			Parameters: map[string]any{
				"symptoms": "chest pain",
			},
		},
	},
}

// examplesFor returns sample calls for a tool, or an empty list when none
// are curated.
func examplesFor(name string) []toolExample {
	if ex, ok := toolExamples[name]; ok {
		return ex
	}
	return []toolExample{}
}
