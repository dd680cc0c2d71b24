package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/shafakhana/clinic-intake/internal/intake"
	"github.com/shafakhana/clinic-intake/pkg/logging"
)

// SubmissionNotifier emails the clinic a copy of each accepted
// submission. Delivery is best-effort and never influences the outcome
// the patient sees.
type SubmissionNotifier struct {
	sender EmailSender
	to     string
	logger *logging.Logger
}

// NewSubmissionNotifier wires a notifier, or nil when the destination
// address or sender are absent so callers can skip it outright.
func NewSubmissionNotifier(sender EmailSender, to string, logger *logging.Logger) *SubmissionNotifier {
	if sender == nil || to == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SubmissionNotifier{sender: sender, to: to, logger: logger}
}

// SubmissionAccepted sends the operator copy.
func (n *SubmissionNotifier) SubmissionAccepted(ctx context.Context, rec *intake.SubmissionRecord) error {
	if n == nil {
		return nil
	}
	return n.sender.Send(ctx, EmailMessage{
		To:      n.to,
		Subject: fmt.Sprintf("New appointment request %s", rec.TrackingNumber),
		Body:    submissionBody(rec),
	})
}

func submissionBody(rec *intake.SubmissionRecord) string {
	lines := []string{
		"Tracking Number: " + rec.TrackingNumber,
		"Full Name: " + rec.FullName,
		"Father Name: " + rec.FatherName,
		"Gender: " + rec.Gender,
		fmt.Sprintf("Age: %d", rec.Age),
		"Phone: " + rec.Phone,
		"Email: " + rec.Email,
		"Appointment Date: " + rec.AppointmentDate.Format("2006-01-02"),
		"Appointment Time: " + rec.AppointmentTime,
		"Doctor: " + rec.Doctor,
		"Reason: " + rec.Reason,
		"Submitted: " + rec.Timestamp,
	}
	return strings.Join(lines, "\n")
}
