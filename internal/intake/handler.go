package intake

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/shafakhana/clinic-intake/pkg/logging"
)

// SubmitResponse is the success body for POST /submit-appointment.
type SubmitResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	TrackingNumber string `json:"trackingNumber"`
	Details        string `json:"details,omitempty"`
}

// ErrorResponse carries the caller-facing message on any failure.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Handler exposes the submission pipeline over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the intake HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Submit handles every method on /submit-appointment: OPTIONS preflights
// get an empty 200, POST runs the pipeline, anything else is a 405.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Message: h.service.Messages().MethodNotAllowed})
		return
	}

	var req SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode submission body", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: h.service.Messages().InvalidBody})
		return
	}

	receipt, err := h.service.Submit(r.Context(), &req, clientIP(r))
	status, body := Result(receipt, err, h.service.Messages())
	writeJSON(w, status, body)
}

// Result maps a pipeline outcome to an HTTP status and response body.
// Shared by the chi handler and the Lambda entrypoint so the two
// deployments cannot drift. Internal error text never reaches the body;
// only catalog messages do.
func Result(receipt *Receipt, err error, msgs Messages) (int, interface{}) {
	if err == nil {
		return http.StatusOK, SubmitResponse{
			Success:        true,
			Message:        receipt.Message,
			TrackingNumber: receipt.TrackingNumber,
			Details:        receipt.Details,
		}
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, ErrorResponse{Message: verr.Message()}
	}
	if errors.Is(err, ErrNotConfigured) {
		return http.StatusInternalServerError, ErrorResponse{Message: msgs.ConfigError}
	}
	var serr *SinkError
	if errors.As(err, &serr) {
		return http.StatusInternalServerError, ErrorResponse{Message: msgs.SinkError}
	}
	return http.StatusInternalServerError, ErrorResponse{Message: msgs.Unexpected}
}

// CORSHeaders is the permissive policy the public form relies on.
func CORSHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	for k, v := range CORSHeaders() {
		w.Header().Set(k, v)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// clientIP extracts the caller's network origin for the audit column.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
