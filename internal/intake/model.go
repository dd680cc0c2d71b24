package intake

import "time"

// SubmissionRequest is the raw appointment form payload as received from
// the caller. Every field is untrusted text until Validate has run.
type SubmissionRequest struct {
	Timestamp        string `json:"timestamp"`
	FullName         string `json:"fullName"`
	FatherName       string `json:"fatherName"`
	Gender           string `json:"gender"`
	Age              string `json:"age"`
	IDNumber         string `json:"idNumber"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	AppointmentDate  string `json:"appointmentDate"`
	AppointmentTime  string `json:"appointmentTime"`
	Doctor           string `json:"doctor"`
	Reason           string `json:"reason"`
	PrivacyAgreement string `json:"privacyAgreement"`
	TrackingNumber   string `json:"trackingNumber"`
}

// ValidatedAppointment is a SubmissionRequest that passed every intake
// rule: sanitized free text, typed age and date, normalized phone, and
// explicit sentinels for absent optional fields. It is safe to persist
// verbatim.
type ValidatedAppointment struct {
	FullName         string
	FatherName       string
	Gender           string
	Age              int
	IDNumber         string
	Phone            string
	Email            string
	Address          string
	AppointmentDate  time.Time
	AppointmentTime  string
	Doctor           string
	Reason           string
	PrivacyAgreement string
	ClientTimestamp  string
}

// SubmissionRecord is the persisted form of an accepted submission: the
// validated fields plus the tracking number and audit metadata. Records
// are appended to the sink once and never mutated.
type SubmissionRecord struct {
	ValidatedAppointment

	TrackingNumber string
	Timestamp      string // client timestamp if supplied, else server time
	SubmittedAt    time.Time
	SourceIP       string
	SubmissionDate string // server date rendered in the Afghan solar calendar
}

// Receipt is returned to the caller on a successful submission.
type Receipt struct {
	TrackingNumber string
	Message        string
	Details        string
}
