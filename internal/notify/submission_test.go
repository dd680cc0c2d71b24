package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shafakhana/clinic-intake/internal/intake"
	"github.com/shafakhana/clinic-intake/pkg/logging"
)

type captureSender struct {
	sent []EmailMessage
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	c.sent = append(c.sent, msg)
	return nil
}

func TestSubmissionAccepted(t *testing.T) {
	sender := &captureSender{}
	n := NewSubmissionNotifier(sender, "front-desk@clinic.example", logging.New("error"))
	require.NotNil(t, n)

	rec := &intake.SubmissionRecord{
		ValidatedAppointment: intake.ValidatedAppointment{
			FullName:        "Ahmad Karimi",
			FatherName:      "Karim",
			Gender:          "Male",
			Age:             34,
			Phone:           "0771234567",
			Email:           "ندارد",
			AppointmentDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			AppointmentTime: "10:00",
			Doctor:          "انتخاب نشده",
			Reason:          "Checkup",
		},
		TrackingNumber: "TRK-1-ABCDEF",
		Timestamp:      "2026-09-01T08:00:00Z",
	}

	require.NoError(t, n.SubmissionAccepted(context.Background(), rec))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "front-desk@clinic.example", msg.To)
	assert.Contains(t, msg.Subject, "TRK-1-ABCDEF")
	assert.Contains(t, msg.Body, "Ahmad Karimi")
	assert.Contains(t, msg.Body, "0771234567")
	assert.Contains(t, msg.Body, "2026-09-02")
}

func TestNewSubmissionNotifierUnconfigured(t *testing.T) {
	assert.Nil(t, NewSubmissionNotifier(nil, "front-desk@clinic.example", nil))
	assert.Nil(t, NewSubmissionNotifier(&captureSender{}, "", nil))
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *SubmissionNotifier
	assert.NoError(t, n.SubmissionAccepted(context.Background(), &intake.SubmissionRecord{}))
}

func TestStubSender(t *testing.T) {
	s := NewStubEmailSender(nil)
	assert.NoError(t, s.Send(context.Background(), EmailMessage{To: "x@example.com"}))
}
