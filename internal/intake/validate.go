package intake

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// maxFieldLen caps every free-text field written to the sink.
	maxFieldLen = 1000

	dateLayout = "2006-01-02"
)

var (
	phonePattern = regexp.MustCompile(`^07\d{8}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// requiredFields lists the form fields that must be non-empty after
// trimming, in the order they are reported back to the caller.
var requiredFields = []string{
	"fullName", "fatherName", "gender", "age",
	"phone", "appointmentDate", "appointmentTime", "reason",
}

// Validate checks a submission against every intake rule and reports all
// violations at once, so the form gets complete feedback instead of
// fixing one field per round trip. On success it returns the trusted,
// sanitized appointment; the input request is never mutated.
//
// Date comparison uses the start of the current day in loc, the clinic's
// reference timezone.
func Validate(req *SubmissionRequest, now time.Time, loc *time.Location, msgs Messages) (*ValidatedAppointment, *ValidationError) {
	if loc == nil {
		loc = time.UTC
	}

	verr := &ValidationError{missingPrefix: msgs.MissingFields}

	present := map[string]string{
		"fullName":        strings.TrimSpace(req.FullName),
		"fatherName":      strings.TrimSpace(req.FatherName),
		"gender":          strings.TrimSpace(req.Gender),
		"age":             strings.TrimSpace(req.Age),
		"phone":           strings.TrimSpace(req.Phone),
		"appointmentDate": strings.TrimSpace(req.AppointmentDate),
		"appointmentTime": strings.TrimSpace(req.AppointmentTime),
		"reason":          strings.TrimSpace(req.Reason),
	}
	for _, name := range requiredFields {
		if present[name] == "" {
			verr.Missing = append(verr.Missing, name)
		}
	}

	var age int
	if raw := present["age"]; raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 120 {
			verr.Fields = append(verr.Fields, FieldError{Field: "age", Message: msgs.AgeRange})
		} else {
			age = parsed
		}
	}

	var phone string
	if raw := present["phone"]; raw != "" {
		digits := stripNonDigits(raw)
		if !phonePattern.MatchString(digits) {
			verr.Fields = append(verr.Fields, FieldError{Field: "phone", Message: msgs.PhoneFormat})
		} else {
			phone = digits
		}
	}

	var apptDate time.Time
	if raw := present["appointmentDate"]; raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			verr.Fields = append(verr.Fields, FieldError{Field: "appointmentDate", Message: msgs.DateInvalid})
		} else if parsed.Before(startOfDay(now.In(loc))) {
			verr.Fields = append(verr.Fields, FieldError{Field: "appointmentDate", Message: msgs.DateInPast})
		} else {
			apptDate = parsed
		}
	}

	email := Sanitize(req.Email)
	if email != "" && email != msgs.NotProvided && !emailPattern.MatchString(email) {
		verr.Fields = append(verr.Fields, FieldError{Field: "email", Message: msgs.EmailFormat})
	}

	if len(verr.Missing) > 0 || len(verr.Fields) > 0 {
		return nil, verr
	}

	return &ValidatedAppointment{
		FullName:         Sanitize(req.FullName),
		FatherName:       Sanitize(req.FatherName),
		Gender:           Sanitize(req.Gender),
		Age:              age,
		IDNumber:         orSentinel(Sanitize(req.IDNumber), msgs.NotProvided),
		Phone:            phone,
		Email:            orSentinel(email, msgs.NotProvided),
		Address:          orSentinel(Sanitize(req.Address), msgs.NotProvided),
		AppointmentDate:  apptDate,
		AppointmentTime:  Sanitize(req.AppointmentTime),
		Doctor:           orSentinel(Sanitize(req.Doctor), msgs.NotSelected),
		Reason:           Sanitize(req.Reason),
		PrivacyAgreement: orSentinel(Sanitize(req.PrivacyAgreement), msgs.PrivacyYes),
		ClientTimestamp:  Sanitize(req.Timestamp),
	}, nil
}

// Sanitize makes a free-text field safe to persist: angle brackets are
// stripped so the value cannot smuggle markup into a later rendering,
// length is capped, and surrounding whitespace removed. Sanitizing an
// already-sanitized string is a no-op.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, s)
	if runes := []rune(s); len(runes) > maxFieldLen {
		s = string(runes[:maxFieldLen])
	}
	return strings.TrimSpace(s)
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func orSentinel(s, sentinel string) string {
	if s == "" {
		return sentinel
	}
	return s
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
