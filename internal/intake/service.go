package intake

import (
	"context"
	"errors"
	"time"

	"github.com/shafakhana/clinic-intake/internal/calendar"
	"github.com/shafakhana/clinic-intake/internal/observability/metrics"
	"github.com/shafakhana/clinic-intake/pkg/logging"
)

// PersistenceMode selects how a sink-write failure surfaces to the caller.
type PersistenceMode string

const (
	// PersistStrict fails the request when the sink write fails.
	PersistStrict PersistenceMode = "strict"
	// PersistBestEffort reports success regardless of the sink outcome
	// and logs the failure for the operator. Used when the external
	// sink is too flaky to gate the patient-facing flow on.
	PersistBestEffort PersistenceMode = "best-effort"
)

// ParsePersistenceMode maps a configuration string to a mode, defaulting
// to strict for anything unrecognized.
func ParsePersistenceMode(s string) PersistenceMode {
	if PersistenceMode(s) == PersistBestEffort {
		return PersistBestEffort
	}
	return PersistStrict
}

// Notifier receives a copy of each accepted submission, best-effort.
type Notifier interface {
	SubmissionAccepted(ctx context.Context, rec *SubmissionRecord) error
}

const defaultSinkTimeout = 20 * time.Second

// ServiceConfig wires the pipeline's collaborators. Sink and Logger are
// the only fields without usable zero-value defaults.
type ServiceConfig struct {
	Sink        Sink
	Mode        PersistenceMode
	Messages    Messages
	Location    *time.Location
	SinkTimeout time.Duration
	Clock       func() time.Time
	Logger      *logging.Logger
	Metrics     *metrics.IntakeMetrics
	Notifier    Notifier
}

// Service is the submission pipeline: validate, issue a tracking number,
// enrich into a SubmissionRecord, append to the sink. It holds no
// per-request state and is safe to invoke concurrently.
type Service struct {
	sink        Sink
	mode        PersistenceMode
	msgs        Messages
	loc         *time.Location
	sinkTimeout time.Duration
	clock       func() time.Time
	logger      *logging.Logger
	metrics     *metrics.IntakeMetrics
	notifier    Notifier
}

// NewService creates the pipeline. A nil Sink is allowed and makes every
// submission fail with ErrNotConfigured, mirroring a deployment whose
// sink credentials are absent.
func NewService(cfg ServiceConfig) *Service {
	msgs := cfg.Messages
	if msgs == (Messages{}) {
		msgs = DefaultMessages()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	timeout := cfg.SinkTimeout
	if timeout <= 0 {
		timeout = defaultSinkTimeout
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	mode := cfg.Mode
	if mode == "" {
		mode = PersistStrict
	}
	return &Service{
		sink:        cfg.Sink,
		mode:        mode,
		msgs:        msgs,
		loc:         loc,
		sinkTimeout: timeout,
		clock:       clock,
		logger:      logger,
		metrics:     cfg.Metrics,
		notifier:    cfg.Notifier,
	}
}

// Messages exposes the catalog so transport adapters reuse the same
// user-facing strings the pipeline produces.
func (s *Service) Messages() Messages {
	return s.msgs
}

// Submit runs one submission through the full pipeline. The error is one
// of: *ValidationError (caller-recoverable, full detail), ErrNotConfigured
// (operator problem), or *SinkError (dependency problem). Validation
// always completes before any sink I/O is attempted.
func (s *Service) Submit(ctx context.Context, req *SubmissionRequest, sourceIP string) (*Receipt, error) {
	if s.sink == nil {
		s.logger.Error("sink configuration missing, rejecting submission")
		s.metrics.ObserveSubmission("config_error")
		return nil, ErrNotConfigured
	}

	now := s.clock()

	appt, verr := Validate(req, now, s.loc, s.msgs)
	if verr != nil {
		s.logger.Info("submission rejected by validation", "fields", verr.FieldNames())
		s.metrics.ObserveSubmission("validation_failed")
		return nil, verr
	}

	tracking := Sanitize(req.TrackingNumber)
	if !ValidTrackingNumber(tracking) {
		tracking = NewTrackingNumber(now.UnixMilli())
	}

	rec := &SubmissionRecord{
		ValidatedAppointment: *appt,
		TrackingNumber:       tracking,
		Timestamp:            clientOrServerTimestamp(appt.ClientTimestamp, now),
		SubmittedAt:          now,
		SourceIP:             sourceIP,
		SubmissionDate:       calendar.FormatDate(now.In(s.loc)),
	}

	if err := s.append(ctx, rec); err != nil {
		if s.mode == PersistBestEffort {
			s.logger.Error("sink write failed, reporting success under best-effort persistence",
				"error", err, "tracking_number", rec.TrackingNumber)
			s.metrics.ObserveSubmission("sink_failed")
		} else {
			s.metrics.ObserveSubmission("sink_failed")
			return nil, err
		}
	} else {
		s.metrics.ObserveSubmission("accepted")
	}

	s.logger.Info("appointment submitted", "tracking_number", rec.TrackingNumber)

	s.notify(ctx, rec)

	return &Receipt{
		TrackingNumber: rec.TrackingNumber,
		Message:        s.msgs.Success,
		Details:        s.msgs.SuccessDetails,
	}, nil
}

// append performs the sink round-trip under a bounded timeout. The write
// is detached from the caller's cancellation: a client that disconnects
// mid-request must not abort a row that is already on its way out.
func (s *Service) append(ctx context.Context, rec *SubmissionRecord) error {
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sinkTimeout)
	defer cancel()

	start := time.Now()
	err := s.sink.Append(actx, rec)
	s.metrics.ObserveSinkLatency(time.Since(start).Seconds())
	if err == nil {
		return nil
	}

	var serr *SinkError
	if !errors.As(err, &serr) {
		stage := SinkStageAppend
		if errors.Is(err, context.DeadlineExceeded) {
			stage = SinkStageTimeout
		}
		serr = &SinkError{Stage: stage, Err: err}
	}
	s.logger.Error("sink append failed", "stage", string(serr.Stage), "error", serr.Err)
	s.metrics.ObserveSinkFailure(string(serr.Stage))
	return serr
}

func (s *Service) notify(ctx context.Context, rec *SubmissionRecord) {
	if s.notifier == nil {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.notifier.SubmissionAccepted(nctx, rec); err != nil {
		s.logger.Error("submission notification failed", "error", err, "tracking_number", rec.TrackingNumber)
	}
}

func clientOrServerTimestamp(clientTS string, now time.Time) string {
	if clientTS != "" {
		return clientTS
	}
	return now.UTC().Format(time.RFC3339)
}
