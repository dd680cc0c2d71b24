// Package sheets implements the intake.Sink against a Google Sheets
// spreadsheet: one appointment per row, header row created on first use.
package sheets

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/shafakhana/clinic-intake/internal/intake"
	"github.com/shafakhana/clinic-intake/pkg/logging"
)

// headerRow fixes the column order of the appointments sheet. The row
// mapping in rowValues must stay in lockstep with it.
var headerRow = []string{
	"Timestamp", "Tracking Number", "Full Name", "Father Name", "Gender",
	"Age", "ID Number", "Phone", "Email", "Address",
	"Appointment Date", "Appointment Time", "Doctor", "Reason",
	"Privacy Agreement", "Submission IP", "Submission Date",
}

// Config holds the spreadsheet connection settings.
type Config struct {
	SpreadsheetID   string
	CredentialsJSON []byte
	SheetTitle      string
}

// Sink appends submission records to a Google Sheets spreadsheet.
type Sink struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetTitle    string
	logger        *logging.Logger

	mu      sync.Mutex
	ensured bool
}

// New authenticates against the Sheets API with the service-account
// credentials and returns a ready sink. The sheet itself is looked up
// lazily on first append so a cold process start stays cheap.
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Sink, error) {
	if cfg.SpreadsheetID == "" || len(cfg.CredentialsJSON) == 0 {
		return nil, intake.ErrNotConfigured
	}
	if cfg.SheetTitle == "" {
		cfg.SheetTitle = "Appointments"
	}

	clientOpts := append([]option.ClientOption{
		option.WithCredentialsJSON(cfg.CredentialsJSON),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	}, opts...)

	svc, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, &intake.SinkError{Stage: intake.SinkStageAuth, Err: err}
	}

	return &Sink{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetTitle:    cfg.SheetTitle,
		logger:        logging.Default(),
	}, nil
}

// WithLogger replaces the sink's logger.
func (s *Sink) WithLogger(logger *logging.Logger) *Sink {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Append writes one record as a row, creating the sheet with its header
// row the first time this process touches the spreadsheet.
func (s *Sink) Append(ctx context.Context, rec *intake.SubmissionRecord) error {
	if err := s.ensureSheet(ctx); err != nil {
		return err
	}

	vr := &sheetsapi.ValueRange{
		Values: [][]interface{}{rowValues(rec)},
	}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetTitle+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return classify(ctx, intake.SinkStageAppend, err)
	}
	return nil
}

// ensureSheet checks the sheet tab exists, creating it (with the header
// row) if not. The result is cached; the external service itself is the
// arbiter if two processes race to create the same tab.
func (s *Sink) ensureSheet(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}

	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return classify(ctx, intake.SinkStageLookup, err)
	}

	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == s.sheetTitle {
			s.ensured = true
			return nil
		}
	}

	s.logger.Info("appointments sheet missing, creating it", "title", s.sheetTitle)

	batch := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: s.sheetTitle},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, batch).Context(ctx).Do(); err != nil {
		return classify(ctx, intake.SinkStageCreate, err)
	}

	header := &sheetsapi.ValueRange{Values: [][]interface{}{headerValues()}}
	_, err = s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, s.sheetTitle+"!A1", header).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return classify(ctx, intake.SinkStageCreate, err)
	}

	s.ensured = true
	return nil
}

// Header returns the fixed column names in sheet order.
func Header() []string {
	out := make([]string, len(headerRow))
	copy(out, headerRow)
	return out
}

func headerValues() []interface{} {
	out := make([]interface{}, len(headerRow))
	for i, h := range headerRow {
		out[i] = h
	}
	return out
}

// rowValues maps a record to a sheet row in headerRow order.
func rowValues(rec *intake.SubmissionRecord) []interface{} {
	return []interface{}{
		rec.Timestamp,
		rec.TrackingNumber,
		rec.FullName,
		rec.FatherName,
		rec.Gender,
		rec.Age,
		rec.IDNumber,
		rec.Phone,
		rec.Email,
		rec.Address,
		rec.AppointmentDate.Format("2006-01-02"),
		rec.AppointmentTime,
		rec.Doctor,
		rec.Reason,
		rec.PrivacyAgreement,
		rec.SourceIP,
		rec.SubmissionDate,
	}
}

// classify wraps an API failure with the pipeline stage it belongs to.
// Credential problems surface as auth regardless of which call tripped
// them; deadline hits surface as timeouts.
func classify(ctx context.Context, stage intake.SinkStage, err error) *intake.SinkError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &intake.SinkError{Stage: intake.SinkStageTimeout, Err: err}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &intake.SinkError{Stage: intake.SinkStageAuth, Err: err}
		case http.StatusNotFound:
			if stage == intake.SinkStageAppend {
				stage = intake.SinkStageLookup
			}
		}
	}
	return &intake.SinkError{Stage: stage, Err: err}
}

var _ intake.Sink = (*Sink)(nil)
