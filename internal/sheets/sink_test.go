package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/shafakhana/clinic-intake/internal/intake"
	"github.com/shafakhana/clinic-intake/pkg/logging"
)

func testRecord() *intake.SubmissionRecord {
	return &intake.SubmissionRecord{
		ValidatedAppointment: intake.ValidatedAppointment{
			FullName:         "Ahmad Karimi",
			FatherName:       "Karim",
			Gender:           "Male",
			Age:              34,
			IDNumber:         "ندارد",
			Phone:            "0771234567",
			Email:            "ندارد",
			Address:          "ندارد",
			AppointmentDate:  time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			AppointmentTime:  "10:00",
			Doctor:           "انتخاب نشده",
			Reason:           "Checkup",
			PrivacyAgreement: "بلی",
		},
		TrackingNumber: "TRK-1756700000000-ABC123",
		Timestamp:      "2026-09-01T08:00:00Z",
		SubmittedAt:    time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
		SourceIP:       "203.0.113.9",
		SubmissionDate: "دوشنبه، ۱۰ سنبله ۱۴۰۵",
	}
}

func newTestSink(t *testing.T, handler http.Handler) *Sink {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := sheetsapi.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	require.NoError(t, err)

	return &Sink{
		svc:           svc,
		spreadsheetID: "doc1",
		sheetTitle:    "Appointments",
		logger:        logging.New("error"),
	}
}

func TestRowValuesMatchesHeader(t *testing.T) {
	row := rowValues(testRecord())
	require.Len(t, row, len(Header()))

	assert.Equal(t, "2026-09-01T08:00:00Z", row[0])
	assert.Equal(t, "TRK-1756700000000-ABC123", row[1])
	assert.Equal(t, "Ahmad Karimi", row[2])
	assert.Equal(t, 34, row[5])
	assert.Equal(t, "0771234567", row[7])
	assert.Equal(t, "2026-09-02", row[10])
	assert.Equal(t, "203.0.113.9", row[15])
	assert.Equal(t, "دوشنبه، ۱۰ سنبله ۱۴۰۵", row[16])
}

func TestHeaderOrder(t *testing.T) {
	h := Header()
	require.Len(t, h, 17)
	assert.Equal(t, "Timestamp", h[0])
	assert.Equal(t, "Tracking Number", h[1])
	assert.Equal(t, "Submission Date", h[16])
}

func TestAppendExistingSheet(t *testing.T) {
	var appends atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/spreadsheets/doc1"):
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"sheets": []map[string]interface{}{
					{"properties": map[string]interface{}{"title": "Appointments"}},
				},
			})
		case strings.Contains(r.URL.Path, ":append"):
			appends.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{})
		default:
			t.Errorf("unexpected call: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})

	sink := newTestSink(t, mux)
	require.NoError(t, sink.Append(context.Background(), testRecord()))
	require.NoError(t, sink.Append(context.Background(), testRecord()))

	// Metadata is cached, so two appends mean exactly two append calls.
	assert.Equal(t, int32(2), appends.Load())
}

func TestAppendCreatesMissingSheet(t *testing.T) {
	var created, headerWritten, appended bool
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/spreadsheets/doc1"):
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"sheets": []map[string]interface{}{},
			})
		case strings.Contains(r.URL.Path, ":batchUpdate"):
			created = true
			_ = json.NewEncoder(w).Encode(map[string]interface{}{})
		case r.Method == http.MethodPut:
			headerWritten = true
			var body struct {
				Values [][]interface{} `json:"values"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if assert.Len(t, body.Values, 1) {
				assert.Len(t, body.Values[0], len(Header()))
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{})
		case strings.Contains(r.URL.Path, ":append"):
			appended = true
			_ = json.NewEncoder(w).Encode(map[string]interface{}{})
		default:
			t.Errorf("unexpected call: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})

	sink := newTestSink(t, mux)
	require.NoError(t, sink.Append(context.Background(), testRecord()))
	assert.True(t, created, "expected AddSheet batch update")
	assert.True(t, headerWritten, "expected header row write")
	assert.True(t, appended, "expected row append")
}

func TestAppendClassifiesAuthFailure(t *testing.T) {
	sink := newTestSink(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
	}))

	err := sink.Append(context.Background(), testRecord())
	var serr *intake.SinkError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, intake.SinkStageAuth, serr.Stage)
}

func TestAppendClassifiesLookupFailure(t *testing.T) {
	sink := newTestSink(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend"}}`))
	}))

	err := sink.Append(context.Background(), testRecord())
	var serr *intake.SinkError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, intake.SinkStageLookup, serr.Stage)
}

func TestAppendClassifiesTimeout(t *testing.T) {
	sink := newTestSink(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{})
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := sink.Append(ctx, testRecord())
	var serr *intake.SinkError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, intake.SinkStageTimeout, serr.Stage)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.ErrorIs(t, err, intake.ErrNotConfigured)
}
