package intake

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

func validRequest() *SubmissionRequest {
	return &SubmissionRequest{
		FullName:        "Ahmad Karimi",
		FatherName:      "Karim",
		Gender:          "Male",
		Age:             "34",
		Phone:           "0771234567",
		AppointmentDate: "2026-09-02",
		AppointmentTime: "10:00",
		Reason:          "Checkup",
	}
}

func TestValidateAcceptsValidRequest(t *testing.T) {
	msgs := DefaultMessages()
	appt, verr := Validate(validRequest(), testNow, time.UTC, msgs)
	require.Nil(t, verr)
	require.NotNil(t, appt)

	assert.Equal(t, "Ahmad Karimi", appt.FullName)
	assert.Equal(t, 34, appt.Age)
	assert.Equal(t, "0771234567", appt.Phone)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), appt.AppointmentDate)

	// Absent optional fields get explicit sentinels.
	assert.Equal(t, msgs.NotProvided, appt.IDNumber)
	assert.Equal(t, msgs.NotProvided, appt.Email)
	assert.Equal(t, msgs.NotProvided, appt.Address)
	assert.Equal(t, msgs.NotSelected, appt.Doctor)
	assert.Equal(t, msgs.PrivacyYes, appt.PrivacyAgreement)
}

func TestValidateEnumeratesMissingFields(t *testing.T) {
	req := &SubmissionRequest{
		Gender: "Female",
		Phone:  "0771234567",
		Reason: "  ", // whitespace-only counts as missing
	}

	_, verr := Validate(req, testNow, time.UTC, DefaultMessages())
	require.NotNil(t, verr)
	assert.Equal(t,
		[]string{"fullName", "fatherName", "age", "appointmentDate", "appointmentTime", "reason"},
		verr.Missing)

	msg := verr.Message()
	assert.Contains(t, msg, "fullName, fatherName, age, appointmentDate, appointmentTime, reason")
	assert.Contains(t, msg, DefaultMessages().MissingFields)
}

func TestValidateReportsAllViolationsAtOnce(t *testing.T) {
	req := validRequest()
	req.Age = "150"
	req.Phone = "0571234567"
	req.AppointmentDate = "2026-08-31"
	req.Email = "not-an-email"

	_, verr := Validate(req, testNow, time.UTC, DefaultMessages())
	require.NotNil(t, verr)
	assert.Empty(t, verr.Missing)
	assert.Equal(t, []string{"age", "phone", "appointmentDate", "email"}, verr.FieldNames())

	msgs := DefaultMessages()
	combined := verr.Message()
	assert.Contains(t, combined, msgs.AgeRange)
	assert.Contains(t, combined, msgs.PhoneFormat)
	assert.Contains(t, combined, msgs.DateInPast)
	assert.Contains(t, combined, msgs.EmailFormat)
}

func TestValidateAge(t *testing.T) {
	cases := []struct {
		age string
		ok  bool
	}{
		{"1", true},
		{"120", true},
		{"34", true},
		{"0", false},
		{"121", false},
		{"-5", false},
		{"abc", false},
		{"12.5", false},
	}

	for _, tc := range cases {
		req := validRequest()
		req.Age = tc.age
		_, verr := Validate(req, testNow, time.UTC, DefaultMessages())
		if tc.ok {
			assert.Nil(t, verr, "age %q should pass", tc.age)
		} else {
			require.NotNil(t, verr, "age %q should fail", tc.age)
			assert.Equal(t, []string{"age"}, verr.FieldNames())
		}
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"0770123456", true},
		{"077 012 3456", true}, // separators stripped before matching
		{"+93 0770123456", false},
		{"0570123456", false}, // wrong prefix
		{"077012345", false},  // too short
		{"07701234567", false},
		{"07abc12345", false},
	}

	for _, tc := range cases {
		req := validRequest()
		req.Phone = tc.phone
		_, verr := Validate(req, testNow, time.UTC, DefaultMessages())
		if tc.ok {
			assert.Nil(t, verr, "phone %q should pass", tc.phone)
		} else {
			require.NotNil(t, verr, "phone %q should fail", tc.phone)
			assert.Equal(t, []string{"phone"}, verr.FieldNames())
		}
	}
}

func TestValidateAppointmentDate(t *testing.T) {
	msgs := DefaultMessages()

	req := validRequest()
	req.AppointmentDate = "2026-09-01" // today passes
	_, verr := Validate(req, testNow, time.UTC, msgs)
	assert.Nil(t, verr)

	req.AppointmentDate = "2026-08-31" // yesterday fails
	_, verr = Validate(req, testNow, time.UTC, msgs)
	require.NotNil(t, verr)
	assert.Equal(t, msgs.DateInPast, verr.Fields[0].Message)

	req.AppointmentDate = "not-a-date"
	_, verr = Validate(req, testNow, time.UTC, msgs)
	require.NotNil(t, verr)
	assert.Equal(t, msgs.DateInvalid, verr.Fields[0].Message)
}

func TestValidateDateUsesClinicTimezone(t *testing.T) {
	kabul := time.FixedZone("AFT", int(4.5*3600))

	// 21:00 UTC on Aug 31 is already Sep 1 in Kabul, so Sep 1 is
	// "today" there and must pass.
	now := time.Date(2026, 8, 31, 21, 0, 0, 0, time.UTC)
	req := validRequest()
	req.AppointmentDate = "2026-09-01"
	_, verr := Validate(req, now, kabul, DefaultMessages())
	assert.Nil(t, verr)

	req.AppointmentDate = "2026-08-31"
	_, verr = Validate(req, now, kabul, DefaultMessages())
	assert.NotNil(t, verr)
}

func TestValidateEmail(t *testing.T) {
	msgs := DefaultMessages()

	req := validRequest()
	req.Email = "ahmad@example.com"
	appt, verr := Validate(req, testNow, time.UTC, msgs)
	require.Nil(t, verr)
	assert.Equal(t, "ahmad@example.com", appt.Email)

	// The locale sentinel means "not provided" and is not an address.
	req.Email = msgs.NotProvided
	_, verr = Validate(req, testNow, time.UTC, msgs)
	assert.Nil(t, verr)

	req.Email = "bad@@example"
	_, verr = Validate(req, testNow, time.UTC, msgs)
	require.NotNil(t, verr)
	assert.Equal(t, []string{"email"}, verr.FieldNames())
}

func TestValidateSanitizesFreeText(t *testing.T) {
	req := validRequest()
	req.FullName = "  Ahmad <script>alert(1)</script> Karimi  "
	req.Reason = strings.Repeat("x", 1500)

	appt, verr := Validate(req, testNow, time.UTC, DefaultMessages())
	require.Nil(t, verr)
	assert.Equal(t, "Ahmad scriptalert(1)/script Karimi", appt.FullName)
	assert.Len(t, appt.Reason, 1000)
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"  plain text  ",
		"<b>bold</b>",
		strings.Repeat("y", 2000),
		strings.Repeat("z", 995) + "   tail",
		"نام مریض <تست>",
		"",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		assert.Equal(t, once, twice, "sanitize not idempotent for %q", in)
	}
}

func TestValidateNeverMutatesRequest(t *testing.T) {
	req := validRequest()
	req.FullName = "  <Ahmad>  "
	before := *req

	_, _ = Validate(req, testNow, time.UTC, DefaultMessages())
	assert.Equal(t, before, *req)
}
