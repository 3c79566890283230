package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMailer_SendConfirmation(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	mailer := LogMailer{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	receipt, err := mailer.SendConfirmation(context.Background(), Confirmation{
		ToEmail:         "alice@example.com",
		PatientName:     "Alice Adams",
		DoctorName:      "Dr. Smith",
		AppointmentDate: "2026-09-01",
		AppointmentTime: "09:30",
		AppointmentID:   "42",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.MessageID)
	assert.False(t, receipt.SentAt.IsZero())
	assert.Contains(t, buf.String(), "confirmation email")
	assert.Contains(t, buf.String(), "alice@example.com")
}

func TestLogCalendar_CreateEvent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cal := LogCalendar{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	receipt, err := cal.CreateEvent(context.Background(), Event{
		Summary:   "Appointment: Alice Adams with Dr. Smith",
		StartTime: "2026-09-01T09:30",
		EndTime:   "2026-09-01T10:00",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.EventID)
	assert.Contains(t, buf.String(), "calendar event")
}

func TestLog_DefaultLogger(t *testing.T) {
	t.Parallel()
	// Nil logger falls back to slog.Default and must not panic.
	_, err := LogMailer{}.SendConfirmation(context.Background(), Confirmation{})
	assert.NoError(t, err)
	_, err = LogCalendar{}.CreateEvent(context.Background(), Event{})
	assert.NoError(t, err)
}
