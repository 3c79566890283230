// Package intent maps free-text caller messages to the tool most likely to
// serve them. Classification is keyword based; it is a routing hint for
// clients, not an authorization decision.
package intent

import "strings"

// Intent is the recognized purpose of a caller message.
type Intent string

const (
	Unknown             Intent = "unknown"
	ScheduleAppointment Intent = "schedule_appointment"
	CheckAvailability   Intent = "check_availability"
	ListDoctors         Intent = "list_doctors"
	SearchBySymptom     Intent = "search_by_symptom"
	CancelAppointment   Intent = "cancel_appointment"
	GetStatistics       Intent = "get_statistics"
)

// Keyword tables are checked in order; the first intent with a match wins.
// More specific intents come first so "cancel my appointment" does not
// classify as a booking.
var keywordTable = []struct {
	intent   Intent
	keywords []string
}{
	{CancelAppointment, []string{"cancel", "reschedule", "call off"}},
	{GetStatistics, []string{"statistic", "how many", "report", "summary", "count"}},
	{SearchBySymptom, []string{"symptom", "fever", "headache", "pain", "cough", "suffering from"}},
	{CheckAvailability, []string{"availab", "free slot", "open slot", "what time", "when can"}},
	{ScheduleAppointment, []string{"book", "schedule", "appointment", "see the doctor", "visit"}},
	{ListDoctors, []string{"doctor", "specialist", "cardiolog", "dermatolog", "physician", "who can"}},
}

// Classify returns the intent recognized in message, or Unknown.
// Matching is case insensitive.
func Classify(message string) Intent {
	msg := strings.ToLower(message)
	if strings.TrimSpace(msg) == "" {
		return Unknown
	}
	for _, row := range keywordTable {
		for _, kw := range row.keywords {
			if strings.Contains(msg, kw) {
				return row.intent
			}
		}
	}
	return Unknown
}

// SuggestedTool returns the tool name serving an intent, or "" for Unknown.
func SuggestedTool(i Intent) string {
	switch i {
	case ScheduleAppointment:
		return "schedule_appointment"
	case CheckAvailability:
		return "check_doctor_availability"
	case ListDoctors:
		return "list_doctors"
	case SearchBySymptom:
		return "search_patients_by_symptoms"
	case CancelAppointment:
		return "cancel_appointment"
	case GetStatistics:
		return "get_appointment_statistics"
	default:
		return ""
	}
}

// Suggestions returns example follow-ups for the caller role. Patients get
// booking prompts, doctors get reporting prompts.
func Suggestions(i Intent, role string) []string {
	switch role {
	case "doctor":
		return []string{
			"Ask: 'How many patients visited yesterday?'",
			"Try: 'Show me appointments for today'",
			"Say: 'How many patients with fever this week?'",
		}
	default:
		switch i {
		case CheckAvailability:
			return []string{
				"Book one of the available slots",
				"Check another doctor's availability",
				"Try a different date or time",
			}
		case ScheduleAppointment:
			return []string{
				"Ask about appointment preparation",
				"Request an appointment confirmation email",
				"Check other available appointments",
			}
		default:
			return []string{
				"Try: 'I want to book an appointment with Dr. Smith tomorrow morning'",
				"Ask: 'What doctors are available this week?'",
				"Say: 'Check Dr. Johnson's availability for Friday afternoon'",
			}
		}
	}
}
